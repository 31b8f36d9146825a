package dialect

import (
	"fmt"
	"maps"
	"strings"
)

// Table maps the keyword tokens of one dialect to canonical keyword
// identifiers.
type Table struct {
	byToken map[string]string
	byID    map[string]string
}

func newTable(tokens []string, overrides map[string]string) *Table {
	t := &Table{
		byToken: make(map[string]string, len(tokens)),
		byID:    make(map[string]string, len(tokens)),
	}
	for _, tok := range tokens {
		id, ok := overrides[tok]
		if !ok {
			id = keywordBase + strings.TrimPrefix(tok, "$")
		}
		t.byToken[tok] = id
		t.byID[id] = tok
	}
	return t
}

// Name returns the token for a canonical identifier, or "".
func (t *Table) Name(id string) string {
	return t.byID[id]
}

// ID returns the canonical identifier of a token.
func (t *Table) ID(token string) (string, error) {
	id, ok := t.byToken[token]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKeyword, token)
	}
	return id, nil
}

// Has reports whether token is a keyword of the dialect.
func (t *Table) Has(token string) bool {
	_, ok := t.byToken[token]
	return ok
}

// Tokens returns the keyword tokens in no particular order.
func (t *Table) Tokens() []string {
	res := make([]string, 0, len(t.byToken))
	for k := range maps.Keys(t.byToken) {
		res = append(res, k)
	}
	return res
}

var draft04Tokens = []string{
	"id", "$schema", "$ref", "title", "description", "default",
	"multipleOf", "maximum", "exclusiveMaximum", "minimum", "exclusiveMinimum",
	"maxLength", "minLength", "pattern",
	"additionalItems", "items", "maxItems", "minItems", "uniqueItems",
	"maxProperties", "minProperties", "required", "additionalProperties",
	"definitions", "properties", "patternProperties", "dependencies",
	"enum", "type", "format", "allOf", "anyOf", "oneOf", "not",
}

var draft06Tokens = append(without(draft04Tokens, "id"),
	"$id", "examples", "const", "contains", "propertyNames")

var draft07Tokens = append(append([]string{}, draft06Tokens...),
	"$comment", "if", "then", "else", "readOnly", "writeOnly",
	"contentMediaType", "contentEncoding")

var draft201909Tokens = []string{
	"$id", "$schema", "$anchor", "$ref", "$recursiveRef", "$recursiveAnchor",
	"$vocabulary", "$comment", "$defs", "definitions",
	"allOf", "anyOf", "oneOf", "not", "if", "then", "else",
	"dependentSchemas", "dependencies", "items", "additionalItems", "unevaluatedItems",
	"contains", "properties", "patternProperties", "additionalProperties",
	"unevaluatedProperties", "propertyNames",
	"type", "enum", "const", "multipleOf", "maximum", "exclusiveMaximum",
	"minimum", "exclusiveMinimum", "maxLength", "minLength", "pattern",
	"maxItems", "minItems", "uniqueItems", "maxContains", "minContains",
	"maxProperties", "minProperties", "required", "dependentRequired",
	"title", "description", "default", "deprecated", "readOnly", "writeOnly", "examples",
	"format", "contentEncoding", "contentMediaType", "contentSchema",
}

var draft202012Tokens = append(without(draft201909Tokens, "$recursiveRef", "$recursiveAnchor", "additionalItems"),
	"$dynamicRef", "$dynamicAnchor", "prefixItems")

var legacyOverrides = map[string]string{
	"id":               KeywordLegacyID,
	"$id":              KeywordLegacyID,
	"$ref":             keywordBase + "draft-04/ref",
	"items":            keywordBase + "draft-04/items",
	"dependencies":     keywordBase + "draft-04/dependencies",
	"exclusiveMaximum": keywordBase + "draft-04/exclusiveMaximum",
	"exclusiveMinimum": keywordBase + "draft-04/exclusiveMinimum",
}

var draft2019Overrides = map[string]string{
	"items":         keywordBase + "draft-04/items",
	"dependencies":  keywordBase + "draft-04/dependencies",
	"$recursiveRef": keywordBase + "draft-2019-09/recursiveRef",
}

func without(tokens []string, drop ...string) []string {
	res := make([]string, 0, len(tokens))
outer:
	for _, t := range tokens {
		for _, d := range drop {
			if t == d {
				continue outer
			}
		}
		res = append(res, t)
	}
	return res
}

func builtinTables() map[string]*Table {
	draft06 := maps.Clone(legacyOverrides)
	delete(draft06, "exclusiveMaximum")
	delete(draft06, "exclusiveMinimum")
	return map[string]*Table{
		Draft04:     newTable(draft04Tokens, legacyOverrides),
		Draft06:     newTable(draft06Tokens, draft06),
		Draft07:     newTable(draft07Tokens, draft06),
		Draft201909: newTable(draft201909Tokens, draft2019Overrides),
		Draft202012: newTable(draft202012Tokens, nil),
	}
}
