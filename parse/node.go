package parse

import (
	"encoding/json"

	"github.com/PermanChronicles/json-lsp-og/token"
)

type Type int

const (
	NoneType Type = iota
	ObjectType
	ArrayType
	PropertyType
	StringType
	NumberType
	BoolType
	NullType
)

func (t Type) String() string {
	switch t {
	case ObjectType:
		return "object"
	case ArrayType:
		return "array"
	case PropertyType:
		return "property"
	case StringType:
		return "string"
	case NumberType:
		return "number"
	case BoolType:
		return "boolean"
	case NullType:
		return "null"
	default:
		return "none"
	}
}

// Node is one syntax node. A PropertyType node has the key as its first
// child and, when well formed, the value as its second.
type Node struct {
	Type     Type
	Offset   int
	Length   int
	Parent   *Node
	Children []*Node

	// ColonOffset is the offset of a property's ':' or -1.
	ColonOffset int

	String string
	Number json.Number
	Bool   bool
}

// End is the offset just past the node.
func (n *Node) End() int {
	return n.Offset + n.Length
}

// Value decodes the node. Objects decode to map[string]any (later
// duplicate keys win, malformed properties are skipped), arrays to []any,
// numbers to json.Number.
func (n *Node) Value() any {
	if n == nil {
		return nil
	}
	switch n.Type {
	case ObjectType:
		res := make(map[string]any, len(n.Children))
		for _, p := range n.Children {
			if len(p.Children) != 2 {
				continue
			}
			res[p.Children[0].String] = p.Children[1].Value()
		}
		return res
	case ArrayType:
		res := make([]any, len(n.Children))
		for i, c := range n.Children {
			res[i] = c.Value()
		}
		return res
	case PropertyType:
		if len(n.Children) != 2 {
			return nil
		}
		return n.Children[1].Value()
	case StringType:
		return n.String
	case NumberType:
		return n.Number
	case BoolType:
		return n.Bool
	default:
		return nil
	}
}

// Step returns the value of the property named key of an object node, or
// nil.
func (n *Node) Step(key string) *Node {
	if n == nil || n.Type != ObjectType {
		return nil
	}
	for _, p := range n.Children {
		if len(p.Children) == 2 && p.Children[0].String == key {
			return p.Children[1]
		}
	}
	return nil
}

func leaf(t *token.Token, tp Type) *Node {
	return &Node{
		Type:        tp,
		Offset:      t.Offset(),
		Length:      t.Len(),
		ColonOffset: -1,
	}
}
