// Package ir holds the schema node tree built from a parsed document.
//
// A Node records the resource it belongs to, its JSON Pointer relative to
// that resource's root, its decoded value, and the span of text it came
// from. Nodes are built once per document and not modified afterwards,
// except for annotations, which are recorded while the document is
// validated.
//
// # Pointers
//
//	ir.Append("/properties", "a/b") // "/properties/a~1b"
//	n, err := ir.Get("#/properties/a~1b", root)
//
// # Traversal
//
//	for n := range ir.All(root) {
//	    ...
//	}
package ir
