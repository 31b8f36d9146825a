package dialect

import "errors"

var (
	ErrUnknownDialect = errors.New("unknown dialect")
	ErrUnknownKeyword = errors.New("unknown keyword")
	ErrLoad           = errors.New("unable to load schema")
	ErrDialectExists  = errors.New("dialect already registered")
)
