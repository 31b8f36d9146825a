package token

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// Unquote decodes a double quoted JSON string token. It is tolerant: a
// missing closing quote or a bad escape still yields the best decoding of
// the bytes present, together with the first problem found.
func Unquote(d []byte) (string, error) {
	if len(d) == 0 || d[0] != '"' {
		return string(d), ErrUnterminated
	}
	b := &strings.Builder{}
	var firstErr error
	fail := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}
	i := 1
	for i < len(d) {
		r, sz := utf8.DecodeRune(d[i:])
		if r == utf8.RuneError && sz == 1 {
			fail(ErrBadUTF8)
		}
		i += sz
		switch r {
		case '"':
			if i != len(d) {
				fail(ErrUnterminated)
			}
			return b.String(), firstErr
		case '\\':
			if i >= len(d) {
				fail(ErrUnterminated)
				return b.String(), firstErr
			}
			c := d[i]
			i++
			switch c {
			case '"', '\\', '/':
				b.WriteByte(c)
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				u, ok := hex4(d[i:])
				if !ok {
					fail(ErrBadUnicode)
					b.WriteRune(utf8.RuneError)
					continue
				}
				i += 4
				ur := rune(u)
				if utf16.IsSurrogate(ur) && len(d) >= i+6 && d[i] == '\\' && d[i+1] == 'u' {
					if u2, ok := hex4(d[i+2:]); ok {
						if pr := utf16.DecodeRune(ur, rune(u2)); pr != utf8.RuneError {
							b.WriteRune(pr)
							i += 6
							continue
						}
					}
				}
				b.WriteRune(ur)
			default:
				fail(ErrBadEscape)
				b.WriteByte(c)
			}
		default:
			if unicode.IsControl(r) {
				fail(ErrUnicodeControl)
			}
			b.WriteRune(r)
		}
	}
	fail(ErrUnterminated)
	return b.String(), firstErr
}

func hex4(d []byte) (uint64, bool) {
	if len(d) < 4 {
		return 0, false
	}
	u, err := strconv.ParseUint(string(d[:4]), 16, 32)
	if err != nil {
		return 0, false
	}
	return u, true
}
