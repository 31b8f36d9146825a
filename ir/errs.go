package ir

import (
	"errors"
)

var (
	ErrPointer  = errors.New("json pointer error")
	ErrNotFound = errors.New("no node at pointer")
)
