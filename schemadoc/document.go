package schemadoc

import (
	"iter"

	"github.com/PermanChronicles/json-lsp-og/dialect"
	"github.com/PermanChronicles/json-lsp-og/ir"
	"github.com/PermanChronicles/json-lsp-og/parse"
	"github.com/PermanChronicles/json-lsp-og/token"
)

// Document is the resource model of one text snapshot.
type Document struct {
	URI    string
	Text   []byte
	PosDoc *token.PosDoc

	// Resources are in discovery order: a resource precedes the resources
	// embedded in it.
	Resources   []*Resource
	Diagnostics []Diagnostic

	// SyntaxErrors are the parser's complaints. The resource trees hold
	// whatever could be read regardless.
	SyntaxErrors parse.ErrorList
}

// Resource is one schema boundary.
type Resource struct {
	Root       *ir.Node
	DialectURI string
	BaseURI    string

	// Anchors maps anchor names to pointers within the resource.
	Anchors map[string]string

	pending []Diagnostic
}

// Get resolves a JSON Pointer or pointer fragment in the resource, or
// returns nil.
func (r *Resource) Get(pointerOrFragment string) *ir.Node {
	n, err := ir.Get(pointerOrFragment, r.Root)
	if err != nil {
		return nil
	}
	return n
}

// Anchor returns the node an anchor names, or nil.
func (r *Resource) Anchor(name string) *ir.Node {
	p, ok := r.Anchors[name]
	if !ok {
		return nil
	}
	return r.Get(p)
}

type Kind int

const (
	// KindResolution is "No dialect" or "Unknown dialect".
	KindResolution Kind = iota
	// KindKeyword is a failure reported by the dialect's meta-schema.
	KindKeyword
	// KindRegistry reports that the dialect's schema could not be loaded,
	// compiled or interpreted.
	KindRegistry
	// KindIdentifier is an identifier that does not resolve to a URI.
	KindIdentifier
)

func (k Kind) String() string {
	switch k {
	case KindResolution:
		return "resolution"
	case KindKeyword:
		return "keyword"
	case KindRegistry:
		return "registry"
	case KindIdentifier:
		return "identifier"
	default:
		return "<unknown kind>"
	}
}

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one problem found while building a document.
type Diagnostic struct {
	Kind Kind

	// Keyword is a canonical keyword identifier.
	Keyword string

	// KeywordNode is the meta-schema location of the failing keyword when
	// the registry could provide it.
	KeywordNode *dialect.Schema

	InstanceNode *ir.Node
	Message      string
	Severity     Severity
}

// AllNodes yields the nodes of every resource in discovery order, each
// resource in pre-order.
func (d *Document) AllNodes() iter.Seq[*ir.Node] {
	return func(yield func(*ir.Node) bool) {
		for _, r := range d.Resources {
			for n := range ir.All(r.Root) {
				if !yield(n) {
					return
				}
			}
		}
	}
}

// AnnotatedWith yields, in the order of AllNodes, the nodes having at
// least one value for keyword under dialectURI. An empty dialectURI means
// the 2020-12 dialect.
func (d *Document) AnnotatedWith(keyword, dialectURI string) iter.Seq[*ir.Node] {
	if dialectURI == "" {
		dialectURI = dialect.Draft202012
	}
	return func(yield func(*ir.Node) bool) {
		for n := range d.AllNodes() {
			if len(n.Annotation(keyword, dialectURI)) == 0 {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}

// FindNodeAtOffset returns the most specific node containing offset,
// searching resources in discovery order.
func (d *Document) FindNodeAtOffset(offset int) *ir.Node {
	for _, r := range d.Resources {
		if n := ir.AtOffset(r.Root, offset); n != nil {
			return n
		}
	}
	return nil
}

// ResourceOf returns the resource whose tree holds n.
func (d *Document) ResourceOf(n *ir.Node) *Resource {
	for n != nil && n.Parent != nil {
		n = n.Parent
	}
	for _, r := range d.Resources {
		if r.Root == n {
			return r
		}
	}
	return nil
}
