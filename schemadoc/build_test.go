package schemadoc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/PermanChronicles/json-lsp-og/dialect"
	"github.com/PermanChronicles/json-lsp-og/ir"
)

const docURI = "file:///schemas/root.json"

func fromText(t *testing.T, text, contextDialect string, reg dialect.Registry) *Document {
	t.Helper()
	doc, err := FromText(context.Background(), []byte(text), docURI, contextDialect, reg)
	require.NoError(t, err)
	require.NotNil(t, doc)
	return doc
}

type diagSummary struct {
	Kind    Kind
	Keyword string
	Pointer string
	Message string
}

func summarize(ds []Diagnostic) []diagSummary {
	var res []diagSummary
	for _, d := range ds {
		res = append(res, diagSummary{
			Kind:    d.Kind,
			Keyword: d.Keyword,
			Pointer: d.InstanceNode.Pointer,
			Message: d.Message,
		})
	}
	return res
}

type resourceSummary struct {
	BaseURI    string
	DialectURI string
	Anchors    map[string]string
	Pointers   []string
}

func resources(doc *Document) []resourceSummary {
	var res []resourceSummary
	for _, r := range doc.Resources {
		s := resourceSummary{BaseURI: r.BaseURI, DialectURI: r.DialectURI, Anchors: r.Anchors}
		for n := range ir.All(r.Root) {
			s.Pointers = append(s.Pointers, n.Type.String()+" "+n.Pointer)
		}
		res = append(res, s)
	}
	return res
}

func TestDialectResolution(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		contextDialect string
		want           []diagSummary
		wantNode       string
	}{
		{
			name: "no dialect",
			text: `{}`,
			want: []diagSummary{{Kind: KindResolution, Keyword: dialect.KeywordSchema, Pointer: "", Message: "No dialect"}},
		},
		{
			name:     "empty $schema",
			text:     `{"$schema": ""}`,
			want:     []diagSummary{{Kind: KindResolution, Keyword: dialect.KeywordSchema, Pointer: "/$schema", Message: "Unknown dialect"}},
			wantNode: "string",
		},
		{
			name:     "unknown $schema",
			text:     `{"$schema": "https://example.com/dialect"}`,
			want:     []diagSummary{{Kind: KindResolution, Keyword: dialect.KeywordSchema, Pointer: "/$schema", Message: "Unknown dialect"}},
			wantNode: "string",
		},
		{
			name:           "unknown context dialect",
			text:           `{}`,
			contextDialect: "https://example.com/dialect",
			want:           []diagSummary{{Kind: KindResolution, Keyword: dialect.KeywordSchema, Pointer: "", Message: "Unknown dialect"}},
			wantNode:       "object",
		},
		{
			name:           "non-string $schema",
			text:           `{"$schema": 7}`,
			contextDialect: "https://example.com/dialect",
			want:           []diagSummary{{Kind: KindResolution, Keyword: dialect.KeywordSchema, Pointer: "", Message: "Unknown dialect"}},
			wantNode:       "object",
		},
		{
			name:           "known context dialect",
			text:           `{}`,
			contextDialect: dialect.Draft202012,
		},
		{
			name:           "context dialect with empty fragment",
			text:           `{}`,
			contextDialect: dialect.Draft07 + "#",
		},
		{
			name: "known $schema",
			text: `{"$schema": "http://json-schema.org/draft-07/schema#"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := fromText(t, tt.text, tt.contextDialect, dialect.NewStatic())
			got := summarize(doc.Diagnostics)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
			}
			if tt.wantNode != "" {
				if tp := doc.Diagnostics[0].InstanceNode.Type.String(); tp != tt.wantNode {
					t.Errorf("diagnostic on %s node, want %s", tp, tt.wantNode)
				}
			}
		})
	}
}

func TestEmptyText(t *testing.T) {
	doc := fromText(t, ``, "", dialect.NewStatic())
	if len(doc.Resources) != 0 || len(doc.Diagnostics) != 0 {
		t.Errorf("got %d resources and %d diagnostics, want none", len(doc.Resources), len(doc.Diagnostics))
	}
}

func TestAnchors(t *testing.T) {
	doc := fromText(t, `{"definitions": {"a": {"$anchor": "foo"}}}`, dialect.Draft202012, dialect.NewStatic())
	require.Len(t, doc.Resources, 1)
	r := doc.Resources[0]
	if diff := cmp.Diff(map[string]string{"foo": "/definitions/a"}, r.Anchors); diff != "" {
		t.Errorf("anchors mismatch (-want +got):\n%s", diff)
	}
	n := r.Anchor("foo")
	require.NotNil(t, n)
	if n.Type != ir.ObjectType || n.Pointer != "/definitions/a" {
		t.Errorf("anchor resolves to %s %q", n.Type, n.Pointer)
	}
}

func TestLegacyIdentifiers(t *testing.T) {
	text := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"$id": "http://example.com/root.json",
		"definitions": {
			"a": {"$id": "#bar"},
			"b": {"$id": "other.json", "definitions": {"c": {"$id": "#baz"}}}
		}
	}`
	doc := fromText(t, text, "", dialect.NewStatic())
	want := []resourceSummary{
		{
			BaseURI:    "http://example.com/root.json",
			DialectURI: dialect.Draft07,
			Anchors:    map[string]string{"bar": "/definitions/a"},
			Pointers: []string{
				"object ",
				"property /$schema", "string /$schema", "string /$schema",
				"property /$id", "string /$id", "string /$id",
				"property /definitions", "string /definitions", "object /definitions",
				"property /definitions/a", "string /definitions/a", "object /definitions/a",
				"property /definitions/a/$id", "string /definitions/a/$id", "string /definitions/a/$id",
				"property /definitions/b", "string /definitions/b", "boolean /definitions/b",
			},
		},
		{
			BaseURI:    "http://example.com/other.json",
			DialectURI: dialect.Draft07,
			Anchors:    map[string]string{"baz": "/definitions/c"},
			Pointers: []string{
				"object ",
				"property /$id", "string /$id", "string /$id",
				"property /definitions", "string /definitions", "object /definitions",
				"property /definitions/c", "string /definitions/c", "object /definitions/c",
				"property /definitions/c/$id", "string /definitions/c/$id", "string /definitions/c/$id",
			},
		},
	}
	if diff := cmp.Diff(want, resources(doc)); diff != "" {
		t.Errorf("resources mismatch (-want +got):\n%s", diff)
	}
	if len(doc.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics %v", summarize(doc.Diagnostics))
	}
}

func TestDraft04Identifiers(t *testing.T) {
	text := `{"$schema": "http://json-schema.org/draft-04/schema#", "id": "http://example.com/s", "properties": {"x": {"id": "#x"}}}`
	doc := fromText(t, text, "", dialect.NewStatic())
	require.Len(t, doc.Resources, 1)
	r := doc.Resources[0]
	if r.BaseURI != "http://example.com/s" {
		t.Errorf("base %q", r.BaseURI)
	}
	if diff := cmp.Diff(map[string]string{"x": "/properties/x"}, r.Anchors); diff != "" {
		t.Errorf("anchors mismatch (-want +got):\n%s", diff)
	}
}

func TestRelativeIdentifier(t *testing.T) {
	doc := fromText(t, `{"$id": "nested/child.json#"}`, dialect.Draft202012, dialect.NewStatic())
	require.Len(t, doc.Resources, 1)
	r := doc.Resources[0]
	if r.BaseURI != "file:///schemas/nested/child.json" {
		t.Errorf("base %q", r.BaseURI)
	}
	if r.Root.BaseURI != r.BaseURI {
		t.Errorf("root base %q, resource base %q", r.Root.BaseURI, r.BaseURI)
	}
	if c := r.Get("/$id"); c == nil || c.ResourceURI != r.BaseURI {
		t.Errorf("child not in resource %q", r.BaseURI)
	}
}

func TestInvalidIdentifier(t *testing.T) {
	reg := dialect.NewStatic().WithResult(dialect.Draft202012, &dialect.Output{
		Errors: []dialect.OutputUnit{{
			Keyword:          "https://json-schema.org/keyword/format",
			InstanceLocation: "/$id",
			Message:          "not a uri-reference",
		}},
	})
	doc := fromText(t, `{"$id": "%zz"}`, dialect.Draft202012, reg)
	require.Len(t, doc.Resources, 1)
	if b := doc.Resources[0].BaseURI; b != docURI {
		t.Errorf("base %q, want %q", b, docURI)
	}
	want := []diagSummary{
		{Kind: KindIdentifier, Keyword: dialect.KeywordID, Pointer: "/$id", Message: `Invalid identifier "%zz"`},
		{Kind: KindKeyword, Keyword: "https://json-schema.org/keyword/format", Pointer: "/$id", Message: "not a uri-reference"},
	}
	if diff := cmp.Diff(want, summarize(doc.Diagnostics)); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if doc.Diagnostics[0].Severity != SeverityWarning {
		t.Errorf("severity %s", doc.Diagnostics[0].Severity)
	}
}

func TestEmbeddedForeignDialect(t *testing.T) {
	text := `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"properties": {
			"foo": {"$schema": "https://example.com/foreign", "anything": [1, 2]}
		}
	}`
	doc := fromText(t, text, "", dialect.NewStatic())
	require.Len(t, doc.Resources, 2)
	outer, inner := doc.Resources[0], doc.Resources[1]

	p := outer.Get("/properties/foo")
	require.NotNil(t, p)
	if p.Type != ir.BoolType || p.Value != true {
		t.Fatalf("placeholder is %s %v", p.Type, p.Value)
	}
	if p.Embedded != inner.Root {
		t.Error("placeholder does not link the embedded root")
	}
	if diff := cmp.Diff(map[string]any{"foo": true}, outer.Get("/properties").Value); diff != "" {
		t.Errorf("outer value mismatch (-want +got):\n%s", diff)
	}

	if inner.DialectURI != "https://example.com/foreign" {
		t.Errorf("embedded dialect %q", inner.DialectURI)
	}
	if inner.Root.Pointer != "" || inner.Root.Parent != nil {
		t.Error("embedded root is not a resource root")
	}
	if n := inner.Get("/anything/1"); n == nil || n.Pointer != "/anything/1" {
		t.Error("embedded content missing")
	}

	want := []diagSummary{{Kind: KindResolution, Keyword: dialect.KeywordSchema, Pointer: "/$schema", Message: "Unknown dialect"}}
	if diff := cmp.Diff(want, summarize(doc.Diagnostics)); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if doc.Diagnostics[0].InstanceNode.ResourceURI != docURI || doc.ResourceOf(doc.Diagnostics[0].InstanceNode) != inner {
		t.Error("diagnostic not anchored in the embedded resource")
	}
}

func TestEmbeddedKnownDialect(t *testing.T) {
	// a known $schema alone does not start a resource, but decides which
	// identity keyword is looked for
	text := `{
		"$schema": "http://json-schema.org/draft-04/schema#",
		"properties": {
			"plain": {"$schema": "https://json-schema.org/draft/2020-12/schema", "type": "string"},
			"ided": {"$schema": "https://json-schema.org/draft/2020-12/schema", "$id": "https://example.com/ided"},
			"wrongToken": {"$id": "https://example.com/ignored"}
		}
	}`
	doc := fromText(t, text, "", dialect.NewStatic())
	require.Len(t, doc.Resources, 2)
	if n := doc.Resources[0].Get("/properties/plain/type"); n == nil {
		t.Error("plain object was split off")
	}
	if n := doc.Resources[0].Get("/properties/wrongToken/$id"); n == nil {
		t.Error("draft-04 object with $id was split off")
	}
	r := doc.Resources[1]
	if r.BaseURI != "https://example.com/ided" || r.DialectURI != dialect.Draft202012 {
		t.Errorf("embedded resource %q %q", r.BaseURI, r.DialectURI)
	}
}

func TestMalformedPropertyDropped(t *testing.T) {
	doc := fromText(t, `{"a", "b": 1}`, dialect.Draft202012, dialect.NewStatic())
	require.NotEmpty(t, doc.SyntaxErrors)
	require.Len(t, doc.Resources, 1)
	root := doc.Resources[0].Root
	if len(root.Children) != 1 {
		t.Fatalf("got %d properties, want 1", len(root.Children))
	}
	if k, _ := root.Children[0].Key(); k != "b" {
		t.Errorf("kept property %q", k)
	}
}

func TestNonObjectRoot(t *testing.T) {
	doc := fromText(t, `[{"$id": "https://example.com/item"}, true]`, dialect.Draft202012, dialect.NewStatic())
	want := []resourceSummary{
		{
			BaseURI:    docURI,
			DialectURI: dialect.Draft202012,
			Anchors:    map[string]string{},
			Pointers:   []string{"array ", "boolean /0", "boolean /1"},
		},
		{
			BaseURI:    "https://example.com/item",
			DialectURI: dialect.Draft202012,
			Anchors:    map[string]string{},
			Pointers:   []string{"object ", "property /$id", "string /$id", "string /$id"},
		},
	}
	if diff := cmp.Diff(want, resources(doc)); diff != "" {
		t.Errorf("resources mismatch (-want +got):\n%s", diff)
	}
}

func TestKeywordDiagnostics(t *testing.T) {
	reg := dialect.NewStatic().WithResult(dialect.Draft202012, &dialect.Output{
		Errors: []dialect.OutputUnit{
			{
				Keyword:                 "https://json-schema.org/keyword/type",
				AbsoluteKeywordLocation: "https://json-schema.org/draft/2020-12/meta/meta-data#/properties/title/type",
				InstanceLocation:        "/title",
				Message:                 "got number, want string",
			},
			{
				Keyword:                 "https://json-schema.org/keyword/type",
				AbsoluteKeywordLocation: "https://json-schema.org/draft/2020-12/meta/validation#/properties/minimum/type",
				InstanceLocation:        "/missing/location",
				Message:                 "got string, want number",
			},
		},
	})
	doc := fromText(t, `{"title": 1, "minimum": "x"}`, dialect.Draft202012, reg)
	want := []diagSummary{
		{Kind: KindKeyword, Keyword: "https://json-schema.org/keyword/type", Pointer: "/title", Message: "got number, want string"},
		{Kind: KindKeyword, Keyword: "https://json-schema.org/keyword/type", Pointer: "", Message: "got string, want number"},
	}
	if diff := cmp.Diff(want, summarize(doc.Diagnostics)); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	kw := doc.Diagnostics[0].KeywordNode
	require.NotNil(t, kw)
	if kw.Pointer != "/properties/title/type" {
		t.Errorf("keyword node pointer %q", kw.Pointer)
	}
	if doc.Diagnostics[0].InstanceNode.Type != ir.NumberType {
		t.Errorf("instance node type %s", doc.Diagnostics[0].InstanceNode.Type)
	}
}

func TestRegistryFailure(t *testing.T) {
	reg := dialect.NewStatic().WithError(dialect.Draft202012, errors.New("offline"))
	doc := fromText(t, `{"$schema": "https://json-schema.org/draft/2020-12/schema"}`, "", reg)
	require.Len(t, doc.Diagnostics, 1)
	d := doc.Diagnostics[0]
	if d.Kind != KindRegistry || d.InstanceNode != doc.Resources[0].Root {
		t.Errorf("got %s diagnostic at %q", d.Kind, d.InstanceNode.Pointer)
	}
	if !strings.HasPrefix(d.Message, "Unable to load dialect https://json-schema.org/draft/2020-12/schema") ||
		!strings.Contains(d.Message, "offline") {
		t.Errorf("message %q", d.Message)
	}
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FromText(ctx, []byte(`{}`), docURI, "", dialect.NewStatic())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want %v", err, context.Canceled)
	}
}

func TestIdempotent(t *testing.T) {
	text := `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"$defs": {
			"a": {"$anchor": "a", "$id": "a.json"},
			"b": {"$schema": "https://example.com/x"},
			"c": {"$id": "%zz"}
		},
		"items": [{"$anchor": "i"}]
	}`
	reg := dialect.NewStatic()
	d1 := fromText(t, text, "", reg)
	d2 := fromText(t, text, "", reg)
	if diff := cmp.Diff(resources(d1), resources(d2)); diff != "" {
		t.Errorf("resources differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(summarize(d1.Diagnostics), summarize(d2.Diagnostics)); diff != "" {
		t.Errorf("diagnostics differ (-first +second):\n%s", diff)
	}
	if len(d1.Resources) != 4 {
		t.Errorf("got %d resources, want 4", len(d1.Resources))
	}
}

func TestEmptySchemaNotEmbedded(t *testing.T) {
	text := `{"$defs": {"a": {"$schema": "", "$id": "https://example.com/a"}, "b": {"$id": "https://example.com/b"}}}`
	doc := fromText(t, text, dialect.Draft202012, dialect.NewStatic())
	require.Len(t, doc.Resources, 2)
	if n := doc.Resources[0].Get("/$defs/a/$id"); n == nil {
		t.Error("object with an empty $schema was split off")
	}
	if b := doc.Resources[1].BaseURI; b != "https://example.com/b" {
		t.Errorf("embedded resource %q", b)
	}
}

func TestHashInPropertyName(t *testing.T) {
	reg := dialect.NewStatic().WithResult(dialect.Draft202012, &dialect.Output{
		Errors: []dialect.OutputUnit{{
			Keyword:          "https://json-schema.org/keyword/type",
			InstanceLocation: "/$defs/a#b/type",
			Message:          "got number, want string",
		}},
		Annotations: []dialect.Annotation{{
			Keyword:          "description",
			DialectURI:       dialect.Draft202012,
			InstanceLocation: "/$defs/a#b",
			Value:            "hashed",
		}},
	})
	doc := fromText(t, `{"$defs": {"a#b": {"$anchor": "foo", "type": 5}}}`, dialect.Draft202012, reg)
	r := doc.Resources[0]
	if diff := cmp.Diff(map[string]string{"foo": "/$defs/a#b"}, r.Anchors); diff != "" {
		t.Errorf("anchors mismatch (-want +got):\n%s", diff)
	}
	n := r.Anchor("foo")
	require.NotNil(t, n)
	require.Same(t, n, r.Get("/$defs/a#b"))
	require.Same(t, n, r.Get("#/$defs/a%23b"))
	if diff := cmp.Diff([]any{"hashed"}, n.Annotation("description", dialect.Draft202012)); diff != "" {
		t.Errorf("annotations mismatch (-want +got):\n%s", diff)
	}
	want := []diagSummary{{Kind: KindKeyword, Keyword: "https://json-schema.org/keyword/type", Pointer: "/$defs/a#b/type", Message: "got number, want string"}}
	if diff := cmp.Diff(want, summarize(doc.Diagnostics)); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidWithoutErrors(t *testing.T) {
	reg := dialect.NewStatic().WithResult(dialect.Draft202012, &dialect.Output{})
	doc := fromText(t, `{"type": 5}`, dialect.Draft202012, reg)
	want := []diagSummary{{
		Kind:    KindKeyword,
		Keyword: dialect.KeywordSchema,
		Pointer: "",
		Message: "Invalid against dialect " + dialect.Draft202012,
	}}
	if diff := cmp.Diff(want, summarize(doc.Diagnostics)); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}
