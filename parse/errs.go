package parse

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrParse              = errors.New("parse error")
	ErrValueExpected      = fmt.Errorf("%w: value expected", ErrParse)
	ErrPropertyExpected   = fmt.Errorf("%w: property name expected", ErrParse)
	ErrColonExpected      = fmt.Errorf("%w: colon expected", ErrParse)
	ErrCommaExpected      = fmt.Errorf("%w: comma expected", ErrParse)
	ErrCloseBraceExpected = fmt.Errorf("%w: '}' expected", ErrParse)
	ErrCloseBktExpected   = fmt.Errorf("%w: ']' expected", ErrParse)
	ErrTrailingComma      = fmt.Errorf("%w: trailing comma", ErrParse)
	ErrEOFExpected        = fmt.Errorf("%w: end of file expected", ErrParse)
)

// Error is a syntax problem located by byte offset and length.
type Error struct {
	Offset int
	Length int
	Err    error
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Err.Error(), e.Offset)
}

// ErrorList is the set of problems found in one document, in offset order.
type ErrorList []*Error

func (l ErrorList) Error() string {
	parts := make([]string, len(l))
	for i, e := range l {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (l ErrorList) Unwrap() []error {
	res := make([]error, len(l))
	for i, e := range l {
		res[i] = e
	}
	return res
}

// Err returns nil when the list is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l ErrorList) sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Offset < l[j].Offset
	})
}
