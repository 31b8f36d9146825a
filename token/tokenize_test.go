package token

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type tokTest struct {
	in    string
	types []TokenType
	nErrs int
}

func types(toks []Token) []TokenType {
	res := make([]TokenType, len(toks))
	for i := range toks {
		res[i] = toks[i].Type
	}
	return res
}

func TestTokenize(t *testing.T) {
	tests := []tokTest{
		{in: ``, types: []TokenType{}},
		{in: `{}`, types: []TokenType{TLCurl, TRCurl}},
		{in: `[1, -2.5e3, true, false, null]`, types: []TokenType{
			TLSquare, TNumber, TComma, TNumber, TComma, TTrue, TComma, TFalse, TComma, TNull, TRSquare}},
		{in: `{"a": "b"}`, types: []TokenType{TLCurl, TString, TColon, TString, TRCurl}},
		{in: "// c\n{/* x */}", types: []TokenType{TLCurl, TRCurl}},
		{in: `{"a": tru}`, types: []TokenType{TLCurl, TString, TColon, TInvalid, TRCurl}, nErrs: 1},
		{in: `01`, types: []TokenType{TInvalid}, nErrs: 1},
		{in: `1.`, types: []TokenType{TInvalid}, nErrs: 1},
		{in: "\"abc\n", types: []TokenType{TString}, nErrs: 1},
		{in: `@`, types: []TokenType{TInvalid}, nErrs: 1},
		{in: "/* open", types: []TokenType{}, nErrs: 1},
	}
	for _, tt := range tests {
		toks, errs := Tokenize(nil, []byte(tt.in))
		got := types(toks)
		if diff := cmp.Diff(tt.types, got); diff != "" {
			t.Errorf("%q: token types mismatch (-want +got):\n%s", tt.in, diff)
		}
		if len(errs) != tt.nErrs {
			t.Errorf("%q: got %d errors (%v), want %d", tt.in, len(errs), errs, tt.nErrs)
		}
	}
}

func TestTokenizeOffsets(t *testing.T) {
	toks, errs := Tokenize(nil, []byte(`{ "key" : 12 }`))
	if errs.Err() != nil {
		t.Fatal(errs)
	}
	want := []struct {
		off, len int
	}{{0, 1}, {2, 5}, {8, 1}, {10, 2}, {13, 1}}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Offset() != w.off || toks[i].Len() != w.len {
			t.Errorf("token %d: got (%d, %d) want (%d, %d)", i, toks[i].Offset(), toks[i].Len(), w.off, w.len)
		}
	}
}

func TestTokenizeComments(t *testing.T) {
	toks, errs := Tokenize(nil, []byte("// c\n1"), TokenComments(true))
	if errs.Err() != nil {
		t.Fatal(errs)
	}
	if diff := cmp.Diff([]TokenType{TComment, TNumber}, types(toks)); diff != "" {
		t.Error(diff)
	}
	_, errs = Tokenize(nil, []byte("// c\n1"), TokenDisallowComments())
	if len(errs) != 1 || !errors.Is(errs[0], ErrComment) {
		t.Errorf("expected a comment error, got %v", errs)
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  error
	}{
		{in: `"abc"`, want: "abc"},
		{in: `"a\"b"`, want: `a"b`},
		{in: `"a\/b\\c"`, want: `a/b\c`},
		{in: `"\n\t"`, want: "\n\t"},
		{in: `"é"`, want: "é"},
		{in: `"😀"`, want: "😀"},
		{in: `"~1"`, want: "~1"},
		{in: `"abc`, want: "abc", err: ErrUnterminated},
		{in: `"a\qb"`, want: "aqb", err: ErrBadEscape},
		{in: `"\u12"`, want: "�12", err: ErrBadUnicode},
	}
	for _, tt := range tests {
		got, err := Unquote([]byte(tt.in))
		if got != tt.want {
			t.Errorf("Unquote(%s) = %q, want %q", tt.in, got, tt.want)
		}
		if !errors.Is(err, tt.err) {
			t.Errorf("Unquote(%s) error = %v, want %v", tt.in, err, tt.err)
		}
	}
}
