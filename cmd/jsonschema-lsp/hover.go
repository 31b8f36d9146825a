package main

import (
	"context"
	"fmt"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/PermanChronicles/json-lsp-og/ir"
)

// Hover shows the descriptions the dialect attaches to a property's value
// when the cursor is on the property's key.
func (s *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	d := s.docs.get(params.TextDocument.URI)
	if d == nil || d.built == nil {
		return nil, nil
	}
	doc := d.built
	key := doc.FindNodeAtOffset(offset(doc, params.Position))
	if key == nil || key.Parent == nil || key.Parent.Type != ir.PropertyType || key.Parent.Children[0] != key {
		return nil, nil
	}
	val := key.Parent.Children[1]
	var parts []string
	for _, a := range val.Annotation("description", val.DialectURI) {
		parts = append(parts, fmt.Sprint(a))
	}
	if len(parts) == 0 {
		return nil, nil
	}
	r := nodeRange(doc, key)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: strings.Join(parts, "\n"),
		},
		Range: &r,
	}, nil
}
