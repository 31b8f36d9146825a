// Package token provides tokenization support for JSON with comments (JSONC).
//
// [Tokenize] is a function for tokenizing bytes. It never stops at the first
// problem: malformed input yields tokens of type [TInvalid] together with
// positioned errors, so that a tolerant parser can keep going.
//
// [PosDoc] maps byte offsets to zero based line and UTF-16 column pairs and
// back, which is the position model of the language server protocol.
package token
