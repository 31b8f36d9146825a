package main

import (
	"bytes"
	"context"

	"go.lsp.dev/protocol"

	"github.com/PermanChronicles/json-lsp-og/ir"
	"github.com/PermanChronicles/json-lsp-og/schemadoc"
	"github.com/PermanChronicles/json-lsp-og/token"
)

var tokenTypes = []protocol.SemanticTokenTypes{
	protocol.SemanticTokenComment,
	protocol.SemanticTokenKeyword,
	protocol.SemanticTokenString,
	protocol.SemanticTokenNumber,
	protocol.SemanticTokenProperty,
}

const (
	semComment uint32 = iota
	semKeyword
	semString
	semNumber
	semProperty
)

// keywordTester is implemented by registries that can tell whether a
// token is a keyword of a dialect.
type keywordTester interface {
	IsKeyword(dialectURI, token string) bool
}

type semToken struct {
	line, col, length uint32
	typ               uint32
}

func (s *Server) SemanticTokensFull(ctx context.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	d := s.docs.get(params.TextDocument.URI)
	if d == nil || d.built == nil {
		return nil, nil
	}
	return &protocol.SemanticTokens{Data: encodeTokens(s.semanticTokens(d.built, nil))}, nil
}

func (s *Server) SemanticTokensRange(ctx context.Context, params *protocol.SemanticTokensRangeParams) (*protocol.SemanticTokens, error) {
	d := s.docs.get(params.TextDocument.URI)
	if d == nil || d.built == nil {
		return nil, nil
	}
	return &protocol.SemanticTokens{Data: encodeTokens(s.semanticTokens(d.built, &params.Range))}, nil
}

func (s *Server) semanticTokens(doc *schemadoc.Document, within *protocol.Range) []semToken {
	kt, _ := s.reg.(keywordTester)
	keys := map[int]uint32{}
	for n := range doc.AllNodes() {
		if n.Type != ir.PropertyType {
			continue
		}
		key := n.Children[0]
		typ := semProperty
		if k, ok := n.Key(); ok && kt != nil && kt.IsKeyword(n.DialectURI, k) {
			typ = semKeyword
		}
		keys[key.Offset] = typ
	}

	toks, _ := token.TokenizeDoc(nil, doc.PosDoc, token.TokenComments(true))
	var res []semToken
	for i := range toks {
		t := &toks[i]
		var typ uint32
		switch t.Type {
		case token.TComment:
			typ = semComment
		case token.TString:
			typ = semString
			if k, ok := keys[t.Offset()]; ok {
				typ = k
			}
		case token.TNumber:
			typ = semNumber
		default:
			continue
		}
		// tokens may not span lines
		off := t.Offset()
		for _, part := range bytes.Split(t.Bytes, []byte("\n")) {
			line, col := doc.PosDoc.LineCol(off)
			_, endCol := doc.PosDoc.LineCol(off + len(part))
			off += len(part) + 1
			if endCol == col {
				continue
			}
			st := semToken{line: uint32(line), col: uint32(col), length: uint32(endCol - col), typ: typ}
			if within != nil && !inRange(st, *within) {
				continue
			}
			res = append(res, st)
		}
	}
	return res
}

func inRange(t semToken, r protocol.Range) bool {
	if t.line < r.Start.Line || t.line > r.End.Line {
		return false
	}
	if t.line == r.Start.Line && t.col+t.length <= r.Start.Character {
		return false
	}
	if t.line == r.End.Line && t.col >= r.End.Character {
		return false
	}
	return true
}

// encodeTokens produces the relative encoding of the protocol.
func encodeTokens(toks []semToken) []uint32 {
	res := make([]uint32, 0, 5*len(toks))
	var line, col uint32
	for _, t := range toks {
		dl := t.line - line
		dc := t.col
		if dl == 0 {
			dc = t.col - col
		}
		res = append(res, dl, dc, t.length, t.typ, 0)
		line, col = t.line, t.col
	}
	return res
}
