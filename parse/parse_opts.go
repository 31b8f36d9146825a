package parse

import (
	"github.com/PermanChronicles/json-lsp-og/token"
)

type parseOpts struct {
	disallowComments bool
	trailingCommas   bool
	disallowEmpty    bool
	posDoc           *token.PosDoc
}

func (o *parseOpts) TokenizeOpts() []token.TokenOpt {
	if o.disallowComments {
		return []token.TokenOpt{token.TokenDisallowComments()}
	}
	return nil
}

type ParseOption func(*parseOpts)

// DisallowComments reports comments as errors.
func DisallowComments() ParseOption {
	return func(o *parseOpts) { o.disallowComments = true }
}

// AllowTrailingComma controls whether a comma before a closing bracket is
// accepted silently. The default is to accept it.
func AllowTrailingComma(v bool) ParseOption {
	return func(o *parseOpts) { o.trailingCommas = v }
}

// DisallowEmpty reports an error for input with no value at all.
func DisallowEmpty() ParseOption {
	return func(o *parseOpts) { o.disallowEmpty = true }
}

// ParsePosDoc tokenizes over a PosDoc shared with the caller so that token
// positions and editor positions use the same line table.
func ParsePosDoc(d *token.PosDoc) ParseOption {
	return func(o *parseOpts) { o.posDoc = d }
}
