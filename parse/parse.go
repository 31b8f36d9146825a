package parse

import (
	"encoding/json"
	"errors"

	"github.com/PermanChronicles/json-lsp-og/token"
)

// Parse builds the syntax tree of d. Parsing never gives up: the returned
// tree is the best reading of the input and is non-nil whenever d holds a
// value, even when the returned error (an ErrorList) is non-nil. Empty
// input yields a nil tree.
func Parse(d []byte, opts ...ParseOption) (*Node, error) {
	pOpts := &parseOpts{trailingCommas: true}
	for _, f := range opts {
		f(pOpts)
	}
	doc := pOpts.posDoc
	if doc == nil {
		doc = token.NewPosDoc(d)
	}
	toks, tokErrs := token.TokenizeDoc(nil, doc, pOpts.TokenizeOpts()...)
	p := &parser{toks: toks, opts: pOpts}
	for _, te := range tokErrs {
		p.errs = append(p.errs, &Error{Offset: te.Pos.I, Length: 1, Err: te})
	}
	var root *Node
	if len(toks) == 0 {
		if pOpts.disallowEmpty {
			p.fail(ErrValueExpected, len(d), 0)
		}
	} else {
		root = p.value(nil)
		if root == nil {
			p.fail(ErrValueExpected, p.offset(), 1)
		}
		if p.i < len(toks) {
			t := &toks[p.i]
			p.fail(ErrEOFExpected, t.Offset(), t.Len())
		}
	}
	p.errs.sort()
	return root, p.errs.Err()
}

type parser struct {
	toks []token.Token
	i    int
	opts *parseOpts
	errs ErrorList
}

func (p *parser) peek() *token.Token {
	for p.i < len(p.toks) && p.toks[p.i].Type == token.TComment {
		p.i++
	}
	if p.i >= len(p.toks) {
		return nil
	}
	return &p.toks[p.i]
}

func (p *parser) offset() int {
	if t := p.peek(); t != nil {
		return t.Offset()
	}
	if len(p.toks) == 0 {
		return 0
	}
	last := &p.toks[len(p.toks)-1]
	return last.Offset() + last.Len()
}

func (p *parser) fail(err error, off, n int) {
	p.errs = append(p.errs, &Error{Offset: off, Length: n, Err: err})
}

// value parses one value. It returns nil without consuming anything when
// the next token can not start a value, except for invalid tokens, which
// are consumed (their error was already reported by the tokenizer).
func (p *parser) value(parent *Node) *Node {
	t := p.peek()
	if t == nil {
		return nil
	}
	var n *Node
	switch t.Type {
	case token.TLCurl:
		return p.object(parent)
	case token.TLSquare:
		return p.array(parent)
	case token.TString:
		n = leaf(t, StringType)
		n.String, _ = token.Unquote(t.Bytes)
	case token.TNumber:
		n = leaf(t, NumberType)
		n.Number = json.Number(t.Bytes)
	case token.TTrue, token.TFalse:
		n = leaf(t, BoolType)
		n.Bool = t.Type == token.TTrue
	case token.TNull:
		n = leaf(t, NullType)
	case token.TInvalid:
		p.i++
		return nil
	default:
		return nil
	}
	p.i++
	n.Parent = parent
	return n
}

func (p *parser) object(parent *Node) *Node {
	open := p.peek()
	p.i++
	n := &Node{Type: ObjectType, Offset: open.Offset(), Parent: parent, ColonOffset: -1}
	end := open.Offset() + open.Len()
	needComma := false
	var lastComma *token.Token
	for {
		t := p.peek()
		if t == nil {
			p.fail(ErrCloseBraceExpected, end, 0)
			break
		}
		if t.Type == token.TRCurl {
			if lastComma != nil && !p.opts.trailingCommas {
				p.fail(ErrTrailingComma, lastComma.Offset(), 1)
			}
			p.i++
			end = t.Offset() + t.Len()
			break
		}
		if t.Type == token.TComma {
			if !needComma {
				p.fail(ErrPropertyExpected, t.Offset(), 1)
			}
			p.i++
			end = t.Offset() + t.Len()
			needComma = false
			lastComma = t
			continue
		}
		if needComma {
			p.fail(ErrCommaExpected, t.Offset(), t.Len())
		}
		lastComma = nil
		if t.Type != token.TString {
			p.fail(ErrPropertyExpected, t.Offset(), t.Len())
			end = max(end, p.skipMember())
			needComma = true
			continue
		}
		prop := p.property(n)
		n.Children = append(n.Children, prop)
		end = prop.End()
		if prop.ColonOffset == -1 {
			end = max(end, p.skipMember())
		}
		needComma = true
	}
	n.Length = end - n.Offset
	return n
}

func (p *parser) property(obj *Node) *Node {
	t := p.peek()
	key := leaf(t, StringType)
	key.String, _ = token.Unquote(t.Bytes)
	p.i++
	prop := &Node{
		Type:        PropertyType,
		Offset:      key.Offset,
		Length:      key.Length,
		Parent:      obj,
		ColonOffset: -1,
	}
	key.Parent = prop
	prop.Children = []*Node{key}
	colon := p.peek()
	if colon == nil || colon.Type != token.TColon {
		p.fail(ErrColonExpected, key.End(), 0)
		return prop
	}
	p.i++
	prop.ColonOffset = colon.Offset()
	prop.Length = colon.Offset() + colon.Len() - prop.Offset
	v := p.value(prop)
	if v == nil {
		p.fail(ErrValueExpected, p.offset(), 0)
		return prop
	}
	prop.Children = append(prop.Children, v)
	prop.Length = v.End() - prop.Offset
	return prop
}

func (p *parser) array(parent *Node) *Node {
	open := p.peek()
	p.i++
	n := &Node{Type: ArrayType, Offset: open.Offset(), Parent: parent, ColonOffset: -1}
	end := open.Offset() + open.Len()
	needComma := false
	var lastComma *token.Token
	for {
		t := p.peek()
		if t == nil {
			p.fail(ErrCloseBktExpected, end, 0)
			break
		}
		if t.Type == token.TRSquare {
			if lastComma != nil && !p.opts.trailingCommas {
				p.fail(ErrTrailingComma, lastComma.Offset(), 1)
			}
			p.i++
			end = t.Offset() + t.Len()
			break
		}
		if t.Type == token.TComma {
			if !needComma {
				p.fail(ErrValueExpected, t.Offset(), 1)
			}
			p.i++
			end = t.Offset() + t.Len()
			needComma = false
			lastComma = t
			continue
		}
		if needComma {
			p.fail(ErrCommaExpected, t.Offset(), t.Len())
		}
		lastComma = nil
		v := p.value(n)
		if v == nil {
			if p.peek() == t {
				// a token that can not start a value, e.g. '}' or ':'
				p.fail(ErrValueExpected, t.Offset(), t.Len())
				p.i++
			}
			needComma = true
			continue
		}
		n.Children = append(n.Children, v)
		end = v.End()
		needComma = true
	}
	n.Length = end - n.Offset
	return n
}

// skipMember consumes tokens up to the next ',' or '}' at the current
// nesting level and returns the end offset of the last consumed token.
func (p *parser) skipMember() int {
	end := 0
	for {
		t := p.peek()
		if t == nil || t.Type == token.TComma || t.Type == token.TRCurl {
			return end
		}
		if v := p.value(nil); v != nil {
			end = v.End()
			continue
		}
		if p.peek() == t {
			p.i++
		}
		end = t.Offset() + t.Len()
	}
}

// IsSyntax reports whether err came from Parse.
func IsSyntax(err error) bool {
	return errors.Is(err, ErrParse)
}
