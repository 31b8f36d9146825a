package token

import (
	"fmt"
)

type TokenType int

const (
	TInvalid TokenType = iota
	TNumber
	TColon
	TComment
	TNull
	TTrue
	TFalse
	TString
	TLCurl
	TRCurl
	TLSquare
	TRSquare
	TComma
)

func (t TokenType) String() string {
	return map[TokenType]string{
		TInvalid:  "TInvalid",
		TNumber:   "TNumber",
		TColon:    "TColon",
		TComment:  "TComment",
		TNull:     "TNull",
		TTrue:     "TTrue",
		TFalse:    "TFalse",
		TString:   "TString",
		TLCurl:    "TLCurl",
		TRCurl:    "TRCurl",
		TLSquare:  "TLSquare",
		TRSquare:  "TRSquare",
		TComma:    "TComma",
	}[t]
}

type Token struct {
	Type  TokenType
	Pos   *Pos
	Bytes []byte
}

// Offset is the byte offset of the first byte of the token.
func (t *Token) Offset() int {
	return t.Pos.I
}

// Len is the number of source bytes covered by the token.
func (t *Token) Len() int {
	return len(t.Bytes)
}

func (t *Token) Info() string {
	return fmt.Sprintf("%s %s", t.Type, t.Pos.String())
}

func (t *Token) String() string {
	switch t.Type {
	case TString:
		s, _ := Unquote(t.Bytes)
		return s
	default:
		return string(t.Bytes)
	}
}

func ExpectedErr(what string, p *Pos) error {
	return NewTokenizeErr(fmt.Errorf("expected %s", what), p)
}

func UnexpectedErr(what string, p *Pos) error {
	return NewTokenizeErr(fmt.Errorf("%w %s", ErrUnexpected, what), p)
}
