package schemadoc

import (
	"errors"
)

var (
	ErrIdentifier = errors.New("invalid identifier")
)
