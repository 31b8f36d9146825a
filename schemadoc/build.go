package schemadoc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PermanChronicles/json-lsp-og/debug"
	"github.com/PermanChronicles/json-lsp-og/dialect"
	"github.com/PermanChronicles/json-lsp-og/ir"
	"github.com/PermanChronicles/json-lsp-og/parse"
	"github.com/PermanChronicles/json-lsp-og/token"
)

// FromText builds the document model of text. uri identifies the document
// and is the initial base URI; contextDialect is the dialect of resources
// that do not name one.
//
// Malformed text never fails the build. The returned error is non-nil only
// when ctx is done before every resource was validated, or when the parser
// produced a node that cannot be represented.
func FromText(ctx context.Context, text []byte, uri, contextDialect string, reg dialect.Registry, opts ...BuildOption) (*Document, error) {
	bOpts := &buildOpts{logger: slog.Default()}
	for _, o := range opts {
		o(bOpts)
	}
	start := time.Now()
	ctx, span := startBuildSpan(ctx, uri)
	defer span.End()

	doc := &Document{
		URI:    uri,
		Text:   text,
		PosDoc: token.NewPosDoc(text),
	}
	if len(text) == 0 {
		return doc, nil
	}

	syn, err := parse.Parse(text, append(bOpts.parseOpts, parse.ParsePosDoc(doc.PosDoc))...)
	if err != nil && !errors.As(err, &doc.SyntaxErrors) {
		return nil, err
	}
	if syn != nil {
		if contextDialect != "" {
			if abs, err := toAbsoluteIRI(contextDialect); err == nil {
				contextDialect = abs
			}
		}
		b := &builder{reg: reg, doc: doc}
		if _, err := b.resource(syn, uri, contextDialect); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}
	if debug.Build() {
		for _, r := range doc.Resources {
			debug.Logf("resource %s dialect=%q anchors=%v\n", r.BaseURI, r.DialectURI, r.Anchors)
		}
	}

	v := &validation{reg: reg, logger: bOpts.logger}
	for _, r := range doc.Resources {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return nil, err
		}
		doc.Diagnostics = append(doc.Diagnostics, r.pending...)
		r.pending = nil
		doc.Diagnostics = append(doc.Diagnostics, v.validate(ctx, r)...)
	}
	recordBuildMetrics(ctx, time.Since(start), doc)
	return doc, nil
}

type builder struct {
	reg dialect.Registry
	doc *Document
}

// frame is the context a node is built in.
type frame struct {
	uri     string
	dialect string
	pointer string
	res     *Resource
}

func (f frame) at(pointer string) frame {
	f.pointer = pointer
	return f
}

// resource registers a new resource rooted at syn. The resource takes its
// slot in the document before its content is built so that enclosing
// resources precede embedded ones.
func (b *builder) resource(syn *parse.Node, uri, dialectURI string) (*ir.Node, error) {
	r := &Resource{Anchors: map[string]string{}}
	b.doc.Resources = append(b.doc.Resources, r)

	var ids []badID
	if syn.Type == parse.ObjectType {
		uri, dialectURI, ids = b.identify(syn, uri, dialectURI)
	}
	root, err := b.node(syn, frame{uri: uri, dialect: dialectURI, res: r}, nil)
	if err != nil {
		return nil, err
	}
	root.BaseURI = uri
	r.Root = root
	r.DialectURI = dialectURI
	r.BaseURI = uri
	for _, id := range ids {
		n := root.Field(id.token)
		if n == nil {
			continue
		}
		s, _ := n.Str()
		r.pending = append(r.pending, Diagnostic{
			Kind:         KindIdentifier,
			Keyword:      id.keyword,
			InstanceNode: n,
			Message:      fmt.Sprintf("Invalid identifier %q", s),
			Severity:     SeverityWarning,
		})
	}
	return root, nil
}

type badID struct {
	keyword string
	token   string
}

// identify reads the dialect and identity of a resource root. It also
// returns the identifiers that failed to resolve; those leave uri as is.
func (b *builder) identify(syn *parse.Node, uri, dialectURI string) (string, string, []badID) {
	if s := syn.Step("$schema"); s != nil && s.Type == parse.StringType {
		if abs, err := toAbsoluteIRI(s.String); err == nil {
			dialectURI = abs
		}
	}
	var bad []badID
	if tok := b.keywordName(dialectURI, dialect.KeywordID); tok != "" {
		if id := syn.Step(tok); id != nil && id.Type == parse.StringType {
			if u, err := rebase(id.String, uri); err == nil {
				uri = u
			} else {
				bad = append(bad, badID{keyword: dialect.KeywordID, token: tok})
			}
		}
	}
	if tok := b.keywordName(dialectURI, dialect.KeywordLegacyID); tok != "" {
		if id := syn.Step(tok); id != nil && id.Type == parse.StringType && !strings.HasPrefix(id.String, "#") {
			if u, err := rebase(id.String, uri); err == nil {
				uri = u
			} else {
				bad = append(bad, badID{keyword: dialect.KeywordLegacyID, token: tok})
			}
		}
	}
	return uri, dialectURI, bad
}

func rebase(id, uri string) (string, error) {
	u, err := resolveIRI(id, uri)
	if err != nil {
		return "", err
	}
	return toAbsoluteIRI(u)
}

// embedded reports whether a non-root object starts a resource of its
// own, and under which dialect. A $schema naming a known dialect only
// affects which identity keywords are checked here.
func (b *builder) embedded(syn *parse.Node, dialectURI string) (string, bool) {
	if s := syn.Step("$schema"); s != nil && s.Type == parse.StringType {
		abs, err := toAbsoluteIRI(s.String)
		switch {
		case err != nil:
		case abs == "":
			// an empty $schema never starts a resource
			return "", false
		case !b.reg.HasDialect(abs):
			return abs, true
		default:
			dialectURI = abs
		}
	}
	if tok := b.keywordName(dialectURI, dialect.KeywordID); tok != "" {
		if id := syn.Step(tok); id != nil && id.Type == parse.StringType {
			return dialectURI, true
		}
	}
	if tok := b.keywordName(dialectURI, dialect.KeywordLegacyID); tok != "" {
		if id := syn.Step(tok); id != nil && id.Type == parse.StringType && !strings.HasPrefix(id.String, "#") {
			return dialectURI, true
		}
	}
	return "", false
}

func (b *builder) keywordName(dialectURI, keywordID string) string {
	if dialectURI == "" {
		return ""
	}
	tok, err := b.reg.KeywordName(dialectURI, keywordID)
	if err != nil {
		return ""
	}
	return tok
}

func (b *builder) anchors(syn *parse.Node, f frame) {
	if tok := b.keywordName(f.dialect, dialect.KeywordAnchor); tok != "" {
		if a := syn.Step(tok); a != nil && a.Type == parse.StringType {
			f.res.Anchors[a.String] = f.pointer
		}
	}
	if tok := b.keywordName(f.dialect, dialect.KeywordLegacyID); tok != "" {
		if a := syn.Step(tok); a != nil && a.Type == parse.StringType && strings.HasPrefix(a.String, "#") {
			f.res.Anchors[uriFragment(a.String)] = f.pointer
		}
	}
}

// node builds the tree for syn. It returns nil for a malformed property.
func (b *builder) node(syn *parse.Node, f frame, parent *ir.Node) (*ir.Node, error) {
	if syn.Type == parse.ObjectType && f.pointer != "" {
		if d, ok := b.embedded(syn, f.dialect); ok {
			emb, err := b.resource(syn, f.uri, d)
			if err != nil {
				return nil, err
			}
			return ir.Placeholder(syn, f.uri, f.dialect, f.pointer, parent, emb), nil
		}
	}
	if syn.Type == parse.PropertyType && len(syn.Children) != 2 {
		return nil, nil
	}
	n, err := ir.Cons(syn, f.uri, f.dialect, f.pointer, parent)
	if err != nil {
		return nil, err
	}

	switch syn.Type {
	case parse.ArrayType:
		for i, c := range syn.Children {
			cn, err := b.node(c, f.at(ir.AppendIndex(f.pointer, i)), n)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, cn)
		}
	case parse.ObjectType:
		b.anchors(syn, f)
		for _, p := range syn.Children {
			key := ""
			if len(p.Children) > 0 {
				key = p.Children[0].String
			}
			pn, err := b.node(p, f.at(ir.Append(f.pointer, key)), n)
			if err != nil {
				return nil, err
			}
			if pn != nil {
				n.Children = append(n.Children, pn)
			}
		}
	case parse.PropertyType:
		for _, c := range syn.Children {
			cn, err := b.node(c, f, n)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, cn)
		}
	}
	return n.Seal(), nil
}
