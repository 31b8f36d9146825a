package token

import (
	"unicode/utf8"
)

type tokenOpts struct {
	disallowComments bool
	keepComments     bool
}

type TokenOpt func(*tokenOpts)

// TokenDisallowComments reports every comment as an error. The comment is
// still skipped.
func TokenDisallowComments() TokenOpt {
	return func(o *tokenOpts) { o.disallowComments = true }
}

// TokenComments emits TComment tokens instead of dropping comments.
func TokenComments(v bool) TokenOpt {
	return func(o *tokenOpts) { o.keepComments = v }
}

// Tokenize appends the tokens of src to dst. Problems are collected rather
// than returned early; each malformed run of input becomes a TInvalid token
// (or a best effort TString/TNumber) so positions stay accurate.
func Tokenize(dst []Token, src []byte, opts ...TokenOpt) ([]Token, ErrList) {
	tOpts := &tokenOpts{}
	for _, o := range opts {
		o(tOpts)
	}
	doc := NewPosDoc(src)
	return tokenizeDoc(dst, doc, tOpts)
}

// TokenizeDoc is Tokenize over a PosDoc the caller already holds.
func TokenizeDoc(dst []Token, doc *PosDoc, opts ...TokenOpt) ([]Token, ErrList) {
	tOpts := &tokenOpts{}
	for _, o := range opts {
		o(tOpts)
	}
	return tokenizeDoc(dst, doc, tOpts)
}

func tokenizeDoc(dst []Token, doc *PosDoc, opts *tokenOpts) ([]Token, ErrList) {
	d := doc.d
	n := len(d)
	var errs ErrList
	i := 0
	if n >= 3 && d[0] == 0xEF && d[1] == 0xBB && d[2] == 0xBF {
		i = 3
	}
	emit := func(tt TokenType, start, end int) {
		dst = append(dst, Token{Type: tt, Pos: doc.Pos(start), Bytes: d[start:end]})
	}
	fail := func(err error, at int) {
		errs = append(errs, NewTokenizeErr(err, doc.Pos(at)))
	}
	for i < n {
		c := d[i]
		switch c {
		case ' ', '\t', '\r', '\n':
			i++
		case '{':
			emit(TLCurl, i, i+1)
			i++
		case '}':
			emit(TRCurl, i, i+1)
			i++
		case '[':
			emit(TLSquare, i, i+1)
			i++
		case ']':
			emit(TRSquare, i, i+1)
			i++
		case ':':
			emit(TColon, i, i+1)
			i++
		case ',':
			emit(TComma, i, i+1)
			i++
		case '"':
			end, err := stringEnd(d, i)
			if err != nil {
				fail(err, i)
			}
			emit(TString, i, end)
			i = end
		case '/':
			end, err := commentEnd(d, i)
			if err != nil {
				fail(err, i)
			}
			if opts.disallowComments {
				fail(ErrComment, i)
			}
			if end == i+1 {
				// lone '/'
				fail(ErrUnexpected, i)
				emit(TInvalid, i, end)
			} else if opts.keepComments {
				emit(TComment, i, end)
			}
			i = end
		case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			sz, err := number(d[i:])
			if err != nil {
				fail(err, i)
				emit(TInvalid, i, i+sz)
			} else {
				emit(TNumber, i, i+sz)
			}
			i += sz
		default:
			sz := literalRun(d[i:])
			if sz == 0 {
				_, rsz := utf8.DecodeRune(d[i:])
				fail(ErrUnexpected, i)
				emit(TInvalid, i, i+rsz)
				i += rsz
				continue
			}
			switch string(d[i : i+sz]) {
			case "true":
				emit(TTrue, i, i+sz)
			case "false":
				emit(TFalse, i, i+sz)
			case "null":
				emit(TNull, i, i+sz)
			default:
				fail(ErrLiteral, i)
				emit(TInvalid, i, i+sz)
			}
			i += sz
		}
	}
	return dst, errs
}

// stringEnd finds the end of the string starting at d[i] == '"'. A string
// interrupted by a line break ends before the line break.
func stringEnd(d []byte, i int) (int, error) {
	j := i + 1
	esc := false
	for j < len(d) {
		c := d[j]
		switch {
		case c == '\n' || c == '\r':
			return j, ErrUnterminated
		case esc:
			esc = false
		case c == '\\':
			esc = true
		case c == '"':
			return j + 1, nil
		}
		j++
	}
	return j, ErrUnterminated
}

func commentEnd(d []byte, i int) (int, error) {
	if i+1 >= len(d) {
		return i + 1, nil
	}
	switch d[i+1] {
	case '/':
		j := i + 2
		for j < len(d) && d[j] != '\n' && d[j] != '\r' {
			j++
		}
		return j, nil
	case '*':
		j := i + 2
		for j+1 < len(d) {
			if d[j] == '*' && d[j+1] == '/' {
				return j + 2, nil
			}
			j++
		}
		return len(d), ErrUnterminated
	default:
		return i + 1, nil
	}
}

// literalRun is the length of the run of bytes that can not start or end a
// structural token.
func literalRun(d []byte) int {
	i := 0
	for i < len(d) {
		switch d[i] {
		case ' ', '\t', '\r', '\n', '{', '}', '[', ']', ':', ',', '"', '/':
			return i
		}
		i++
	}
	return i
}
