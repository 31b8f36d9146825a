package token

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBadUTF8        = errors.New("bad utf8")
	ErrUnterminated   = errors.New("unterminated")
	ErrNumber         = errors.New("bad number")
	ErrLiteral        = errors.New("bad literal")
	ErrBadEscape      = errors.New("bad escape")
	ErrBadUnicode     = errors.New("bad unicode")
	ErrUnicodeControl = errors.New("unicode control")
	ErrComment        = errors.New("comments not allowed")
	ErrUnexpected     = errors.New("unexpected character")
)

type TokenizeErr struct {
	Err error
	Pos Pos
}

func (t *TokenizeErr) Unwrap() error {
	return t.Err
}

func NewTokenizeErr(e error, p *Pos) *TokenizeErr {
	return &TokenizeErr{Err: e, Pos: *p}
}

func (e *TokenizeErr) Error() string {
	return fmt.Sprintf("%s at %s", e.Err.Error(), e.Pos.String())
}

// ErrList collects the problems found while tokenizing a document.
type ErrList []*TokenizeErr

func (l ErrList) Error() string {
	parts := make([]string, len(l))
	for i, e := range l {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (l ErrList) Unwrap() []error {
	res := make([]error, len(l))
	for i, e := range l {
		res[i] = e
	}
	return res
}

// Err returns nil when the list is empty.
func (l ErrList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
