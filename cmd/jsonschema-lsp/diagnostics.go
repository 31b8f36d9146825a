package main

import (
	"context"
	"slices"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/PermanChronicles/json-lsp-og/ir"
	"github.com/PermanChronicles/json-lsp-og/schemadoc"
)

const topicDiagnostics = "diagnostics"

// ValidationEvent is published once per installed build. Subscribers
// append to Diagnostics; none removes what another added.
type ValidationEvent struct {
	URI         protocol.DocumentURI
	Version     int32
	Document    *schemadoc.Document
	Diagnostics []protocol.Diagnostic
}

func (e *ValidationEvent) add(d protocol.Diagnostic) {
	if d.Source == "" {
		d.Source = lsName
	}
	e.Diagnostics = append(e.Diagnostics, d)
}

// rebuild builds the current text of uri and, unless a newer version
// arrived meanwhile, publishes its diagnostics.
func (s *Server) rebuild(ctx context.Context, uri protocol.DocumentURI) error {
	snap := s.docs.get(uri)
	if snap == nil {
		return nil
	}
	doc, err := schemadoc.FromText(ctx, snap.text, string(uri), s.defaultDialect(), s.reg,
		schemadoc.WithLogger(s.logger))
	if err != nil {
		return err
	}
	if !s.docs.install(uri, snap.version, doc) {
		s.logger.Debug("discarding stale build", "uri", uri, "version", snap.version)
		return nil
	}
	ev := &ValidationEvent{
		URI:         uri,
		Version:     snap.version,
		Document:    doc,
		Diagnostics: []protocol.Diagnostic{},
	}
	if err := s.bus.Publish(ctx, topicDiagnostics, ev); err != nil {
		s.logger.Warn("diagnostics subscriber failed", "uri", uri, "error", err)
	}

	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	if !s.docs.current(uri, snap.version) {
		s.logger.Debug("discarding stale diagnostics", "uri", uri, "version", snap.version)
		return nil
	}
	return s.notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     uint32(snap.version),
		Diagnostics: ev.Diagnostics,
	})
}

func (s *Server) validationErrors(_ context.Context, ev *ValidationEvent) error {
	doc := ev.Document
	for _, d := range doc.Diagnostics {
		sev := protocol.DiagnosticSeverityError
		if d.Severity == schemadoc.SeverityWarning {
			sev = protocol.DiagnosticSeverityWarning
		}
		msg := d.Message
		if msg == "" {
			msg = d.Keyword
		}
		ev.add(protocol.Diagnostic{
			Range:    nodeRange(doc, d.InstanceNode),
			Severity: sev,
			Code:     d.Keyword,
			Message:  msg,
		})
	}
	return nil
}

func (s *Server) deprecated(_ context.Context, ev *ValidationEvent) error {
	doc := ev.Document
	var dialects []string
	for _, r := range doc.Resources {
		if r.DialectURI != "" && !slices.Contains(dialects, r.DialectURI) {
			dialects = append(dialects, r.DialectURI)
		}
	}
	for _, d := range dialects {
		for n := range doc.AnnotatedWith("deprecated", d) {
			if !slices.ContainsFunc(n.Annotation("deprecated", d), truthy) {
				continue
			}
			var msgs []string
			for _, m := range n.Annotation("x-deprecationMessage", d) {
				if str, ok := m.(string); ok {
					msgs = append(msgs, str)
				}
			}
			msg := strings.Join(msgs, "\n")
			if msg == "" {
				msg = "deprecated"
			}
			at := n
			if n.Parent != nil && n.Parent.Type == ir.PropertyType {
				at = n.Parent
			}
			ev.add(protocol.Diagnostic{
				Range:    nodeRange(doc, at),
				Severity: protocol.DiagnosticSeverityWarning,
				Message:  msg,
				Tags:     []protocol.DiagnosticTag{protocol.DiagnosticTagDeprecated},
			})
		}
	}
	return nil
}

func (s *Server) syntaxErrors(_ context.Context, ev *ValidationEvent) error {
	doc := ev.Document
	for _, e := range doc.SyntaxErrors {
		ev.add(protocol.Diagnostic{
			Range:    offsetRange(doc, e.Offset, e.Offset+e.Length),
			Severity: protocol.DiagnosticSeverityError,
			Message:  e.Err.Error(),
		})
	}
	return nil
}

func truthy(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func nodeRange(doc *schemadoc.Document, n *ir.Node) protocol.Range {
	if n == nil {
		return offsetRange(doc, 0, 0)
	}
	return offsetRange(doc, n.Offset, n.End())
}

func offsetRange(doc *schemadoc.Document, start, end int) protocol.Range {
	return protocol.Range{
		Start: position(doc, start),
		End:   position(doc, end),
	}
}

func position(doc *schemadoc.Document, off int) protocol.Position {
	line, col := doc.PosDoc.LineCol(off)
	return protocol.Position{Line: uint32(line), Character: uint32(col)}
}

func offset(doc *schemadoc.Document, p protocol.Position) int {
	return doc.PosDoc.Offset(int(p.Line), int(p.Character))
}
