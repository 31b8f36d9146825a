// Package parse builds a fault tolerant syntax tree for JSON with
// comments.
//
// # Usage
//
//	root, err := parse.Parse(data)
//	if err != nil {
//	    // root is still usable; err is a parse.ErrorList
//	}
//
//	// comments as errors, trailing commas as errors
//	root, err := parse.Parse(data, parse.DisallowComments(), parse.AllowTrailingComma(false))
//
// Every node records its byte offset and length. Properties are nodes of
// their own whose first child is the key and whose second child, when the
// property is well formed, is the value.
//
// # Related Packages
//
//   - github.com/PermanChronicles/json-lsp-og/token - Tokenization
//   - github.com/PermanChronicles/json-lsp-og/ir - Schema nodes built from syntax trees
package parse
