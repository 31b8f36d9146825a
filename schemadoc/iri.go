package schemadoc

import (
	"fmt"
	"net/url"
	"strings"
)

// resolveIRI resolves ref against base. An empty base leaves ref as is.
func resolveIRI(ref, base string) (string, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrIdentifier, ref, err)
	}
	if base == "" {
		return r.String(), nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: base %q: %w", ErrIdentifier, base, err)
	}
	return b.ResolveReference(r).String(), nil
}

// toAbsoluteIRI drops the fragment of iri.
func toAbsoluteIRI(iri string) (string, error) {
	u, err := url.Parse(iri)
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrIdentifier, iri, err)
	}
	u.Fragment = ""
	u.RawFragment = ""
	return strings.TrimSuffix(u.String(), "#"), nil
}

// uriFragment returns the decoded fragment of a fragment-only reference.
func uriFragment(ref string) string {
	frag := strings.TrimPrefix(ref, "#")
	if s, err := url.PathUnescape(frag); err == nil {
		return s
	}
	return frag
}
