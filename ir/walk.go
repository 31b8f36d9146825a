package ir

import "iter"

// All yields the nodes of the tree under root in pre-order. Embedded
// resources are not entered; the placeholder is yielded instead.
func All(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		walk(root, yield)
	}
}

func walk(n *Node, yield func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !yield(n) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, yield) {
			return false
		}
	}
	return true
}

// AtOffset returns the deepest node under root whose text contains
// offset, following placeholders into the resources they stand for.
func AtOffset(root *Node, offset int) *Node {
	if root == nil || !root.Contains(offset) {
		return nil
	}
	n := root
	for {
		if n.Embedded != nil && n.Embedded.Contains(offset) {
			n = n.Embedded
			continue
		}
		var next *Node
		for _, c := range n.Children {
			if c.Contains(offset) {
				next = c
				break
			}
		}
		if next == nil {
			return n
		}
		n = next
	}
}
