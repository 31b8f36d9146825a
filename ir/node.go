package ir

import (
	"github.com/PermanChronicles/json-lsp-og/parse"
)

// Node is a position in one resource's content tree.
//
// Objects have PropertyType children; a property has exactly two
// children, the key and the value, both carrying the property's pointer.
// Parent is a back reference for upward lookups only.
type Node struct {
	Type        Type
	ResourceURI string
	DialectURI  string
	Pointer     string
	Value       any
	Parent      *Node
	Children    []*Node

	Offset int
	Length int

	// BaseURI is set at a resource root and at nodes that redefine their
	// identity, otherwise empty.
	BaseURI string

	// Embedded is set on the placeholder standing in for an embedded
	// resource and refers to that resource's root. The placeholder is
	// always a boolean true.
	Embedded *Node

	annotations map[annotationKey][]any
}

type annotationKey struct {
	keyword string
	dialect string
}

// Cons adapts a syntax node. The result has no children; leaf values are
// decoded from the syntax node, container values are filled in by Seal
// once the children are in place.
func Cons(syn *parse.Node, resourceURI, dialectURI, pointer string, parent *Node) (*Node, error) {
	t, err := typeOf(syn.Type)
	if err != nil {
		return nil, err
	}
	n := &Node{
		Type:        t,
		ResourceURI: resourceURI,
		DialectURI:  dialectURI,
		Pointer:     pointer,
		Parent:      parent,
		Offset:      syn.Offset,
		Length:      syn.Length,
	}
	if t.IsLeaf() {
		n.Value = syn.Value()
	}
	return n, nil
}

// Placeholder is the node an enclosing resource keeps where an embedded
// resource starts.
func Placeholder(syn *parse.Node, resourceURI, dialectURI, pointer string, parent, embedded *Node) *Node {
	return &Node{
		Type:        BoolType,
		ResourceURI: resourceURI,
		DialectURI:  dialectURI,
		Pointer:     pointer,
		Value:       true,
		Parent:      parent,
		Offset:      syn.Offset,
		Length:      syn.Length,
		Embedded:    embedded,
	}
}

// Seal computes the value of a container node from its children. It
// must be called after the last child is added.
func (n *Node) Seal() *Node {
	switch n.Type {
	case ObjectType:
		m := make(map[string]any, len(n.Children))
		for _, p := range n.Children {
			if k, ok := p.Key(); ok {
				m[k] = p.Children[1].Value
			}
		}
		n.Value = m
	case ArrayType:
		a := make([]any, len(n.Children))
		for i, c := range n.Children {
			a[i] = c.Value
		}
		n.Value = a
	case PropertyType:
		if len(n.Children) == 2 {
			n.Value = n.Children[1].Value
		}
	}
	return n
}

// Key returns the name of a property node.
func (n *Node) Key() (string, bool) {
	if n.Type != PropertyType || len(n.Children) != 2 {
		return "", false
	}
	k, ok := n.Children[0].Value.(string)
	return k, ok
}

// Field returns the value node of the property named key of an object
// node, or nil.
func (n *Node) Field(key string) *Node {
	if n == nil || n.Type != ObjectType {
		return nil
	}
	for _, p := range n.Children {
		if k, ok := p.Key(); ok && k == key {
			return p.Children[1]
		}
	}
	return nil
}

// Str returns the value of a string node.
func (n *Node) Str() (string, bool) {
	if n == nil || n.Type != StringType {
		return "", false
	}
	s, ok := n.Value.(string)
	return s, ok
}

// End is the offset just past the node's text.
func (n *Node) End() int {
	return n.Offset + n.Length
}

// Contains reports whether offset falls within the node's text.
func (n *Node) Contains(offset int) bool {
	return offset >= n.Offset && offset < n.End()
}

// IsResourceRoot reports whether n is the root of its resource.
func (n *Node) IsResourceRoot() bool {
	return n.Pointer == "" && n.Parent == nil
}

// Annotate records an annotation value. It is only called while the
// owning document is being built.
func (n *Node) Annotate(keyword, dialectURI string, v any) {
	if n.annotations == nil {
		n.annotations = map[annotationKey][]any{}
	}
	k := annotationKey{keyword: keyword, dialect: dialectURI}
	n.annotations[k] = append(n.annotations[k], v)
}

// Annotation returns the values recorded for keyword under dialectURI in
// the order they were produced.
func (n *Node) Annotation(keyword, dialectURI string) []any {
	return n.annotations[annotationKey{keyword: keyword, dialect: dialectURI}]
}

// Annotated reports whether any annotation was recorded on n.
func (n *Node) Annotated() bool {
	return len(n.annotations) != 0
}
