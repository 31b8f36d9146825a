package ir

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"
)

// Append extends pointer with one unescaped segment.
func Append(pointer, segment string) string {
	return pointer + "/" + jsonpointer.Escape(segment)
}

// AppendIndex extends pointer with an array index.
func AppendIndex(pointer string, i int) string {
	return pointer + "/" + strconv.Itoa(i)
}

// Segments decodes pointer into its unescaped segments.
func Segments(pointer string) ([]string, error) {
	p, err := jsonpointer.New(pointer)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrPointer, pointer, err)
	}
	return p.DecodedTokens(), nil
}

// ToPointer accepts a JSON Pointer, a fragment ("#/a/b"), or a URI with a
// pointer fragment and returns the plain pointer. Input that is empty or
// starts with "/" is already a pointer and may contain "#".
func ToPointer(pointerOrFragment string) (string, error) {
	s := pointerOrFragment
	if s == "" || s[0] == '/' {
		return s, nil
	}
	i := strings.IndexByte(s, '#')
	if i == -1 {
		return s, nil
	}
	frag, err := url.PathUnescape(s[i+1:])
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPointer, err)
	}
	return frag, nil
}

// JSONLookup steps from n to the value named tok. Objects are stepped by
// property name, arrays by index.
func (n *Node) JSONLookup(tok string) (any, error) {
	switch n.Type {
	case ObjectType:
		if c := n.Field(tok); c != nil {
			return c, nil
		}
	case ArrayType:
		i, err := strconv.Atoi(tok)
		if err == nil && i >= 0 && i < len(n.Children) {
			return n.Children[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q under %q", ErrNotFound, tok, n.Pointer)
}

// Get resolves a pointer or pointer fragment against a resource root.
func Get(pointerOrFragment string, root *Node) (*Node, error) {
	ptr, err := ToPointer(pointerOrFragment)
	if err != nil {
		return nil, err
	}
	p, err := jsonpointer.New(ptr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrPointer, ptr, err)
	}
	v, _, err := p.Get(root)
	if err != nil {
		return nil, err
	}
	n, ok := v.(*Node)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, ptr)
	}
	return n, nil
}
