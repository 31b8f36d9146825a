package dialect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func annotationsAt(out *Output, keyword, loc string) []any {
	var res []any
	for _, a := range out.Annotations {
		if a.Keyword == keyword && a.InstanceLocation == loc {
			res = append(res, a.Value)
		}
	}
	return res
}

func TestSchemaBundledMeta(t *testing.T) {
	reg := NewDialectRegistry()
	s, err := reg.Schema(context.Background(), Draft202012+"#/properties/definitions")
	require.NoError(t, err)
	require.Equal(t, "/properties/definitions", s.Pointer)
	require.Equal(t, Draft202012, s.DialectURI)
	m, ok := s.Value.(map[string]any)
	require.True(t, ok, "value is %T", s.Value)
	if m["deprecated"] != true {
		t.Errorf("got %v", m)
	}
	_, err = reg.Schema(context.Background(), Draft202012+"#/properties/nope")
	if !errors.Is(err, ErrLoad) {
		t.Errorf("got %v, want %v", err, ErrLoad)
	}
}

func TestInterpretInvalid(t *testing.T) {
	ctx := context.Background()
	reg := NewDialectRegistry()
	s, err := reg.Schema(ctx, Draft07)
	require.NoError(t, err)
	v, err := reg.Compile(ctx, s)
	require.NoError(t, err)

	out, err := v.Interpret(map[string]any{"type": json.Number("1")}, OutputBasic)
	require.NoError(t, err)
	require.False(t, out.Valid)
	require.NotEmpty(t, out.Errors)
	for _, e := range out.Errors {
		if e.InstanceLocation != "/type" {
			t.Errorf("error at %q, want /type: %+v", e.InstanceLocation, e)
		}
		if e.Message == "" || e.AbsoluteKeywordLocation == "" || e.Keyword == "" {
			t.Errorf("incomplete error %+v", e)
		}
	}

	flag, err := v.Interpret(map[string]any{"type": json.Number("1")}, OutputFlag)
	require.NoError(t, err)
	require.False(t, flag.Valid)
	require.Empty(t, flag.Errors)

	again, err := reg.Compile(ctx, s)
	require.NoError(t, err)
	if again != v {
		t.Error("compiled validator not reused")
	}
}

func TestInterpretKeywordErrors(t *testing.T) {
	tests := []struct {
		name     string
		dialect  string
		instance any
		loc      string
	}{
		{
			name:     "2020-12 top level",
			dialect:  Draft202012,
			instance: map[string]any{"type": json.Number("5")},
			loc:      "/type",
		},
		{
			name:     "2019-09 top level",
			dialect:  Draft201909,
			instance: map[string]any{"type": json.Number("5")},
			loc:      "/type",
		},
		{
			name:     "2020-12 nested $defs",
			dialect:  Draft202012,
			instance: map[string]any{"$defs": map[string]any{"a~b/c": map[string]any{"type": json.Number("5")}}},
			loc:      "/$defs/a~0b~1c/type",
		},
		{
			name:     "draft-07 definitions",
			dialect:  Draft07,
			instance: map[string]any{"definitions": map[string]any{"ab": map[string]any{"type": json.Number("5")}}},
			loc:      "/definitions/ab/type",
		},
	}
	ctx := context.Background()
	reg := NewDialectRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := reg.Schema(ctx, tt.dialect)
			require.NoError(t, err)
			v, err := reg.Compile(ctx, s)
			require.NoError(t, err)
			out, err := v.Interpret(tt.instance, OutputBasic)
			require.NoError(t, err)
			require.False(t, out.Valid)
			require.NotEmpty(t, out.Errors)
			var keywords []string
			for _, e := range out.Errors {
				keywords = append(keywords, e.Keyword)
				require.Equal(t, tt.loc, e.InstanceLocation)
				require.NotEmpty(t, e.Message)
				kw, err := reg.Schema(ctx, e.AbsoluteKeywordLocation)
				require.NoError(t, err, e.AbsoluteKeywordLocation)
				require.NotNil(t, kw.Value)
			}
			require.Contains(t, keywords, keywordBase+"type")
			require.Contains(t, keywords, keywordBase+"anyOf")
		})
	}
}

func TestInterpretDeprecated(t *testing.T) {
	ctx := context.Background()
	reg := NewDialectRegistry()
	s, err := reg.Schema(ctx, Draft202012)
	require.NoError(t, err)
	v, err := reg.Compile(ctx, s)
	require.NoError(t, err)
	out, err := v.Interpret(map[string]any{"definitions": map[string]any{}}, OutputBasic)
	require.NoError(t, err)
	require.True(t, out.Valid)
	if diff := cmp.Diff([]any{true}, annotationsAt(out, "deprecated", "/definitions")); diff != "" {
		t.Errorf("deprecated annotations (-want +got):\n%s", diff)
	}
	for _, a := range out.Annotations {
		if a.DialectURI != Draft202012 {
			t.Errorf("annotation from dialect %q", a.DialectURI)
		}
	}
}

func TestCustomDialect(t *testing.T) {
	ctx := context.Background()
	const uri = "https://example.com/dialect"
	doc := map[string]any{
		"$schema":        Draft202012,
		"$id":            uri,
		"$dynamicAnchor": "meta",
		"allOf":          []any{map[string]any{"$ref": Draft202012}},
		"properties": map[string]any{
			"old": map[string]any{
				"deprecated":           true,
				"x-deprecationMessage": "use new",
				"description":          "the old way",
			},
		},
	}
	reg := NewDialectRegistry()
	require.NoError(t, reg.AddDialect(uri, Draft202012, doc))
	require.True(t, reg.HasDialect(uri))
	require.True(t, reg.IsKeyword(uri, "$anchor"))
	if err := reg.AddDialect(uri, Draft202012, doc); !errors.Is(err, ErrDialectExists) {
		t.Errorf("got %v, want %v", err, ErrDialectExists)
	}
	if err := reg.AddDialect("https://example.com/other", "https://example.com/nope", doc); !errors.Is(err, ErrUnknownDialect) {
		t.Errorf("got %v, want %v", err, ErrUnknownDialect)
	}

	s, err := reg.Schema(ctx, uri)
	require.NoError(t, err)
	require.Equal(t, Draft202012, s.DialectURI)
	v, err := reg.Compile(ctx, s)
	require.NoError(t, err)
	out, err := v.Interpret(map[string]any{"old": json.Number("1")}, OutputBasic)
	require.NoError(t, err)
	require.True(t, out.Valid)
	if diff := cmp.Diff([]any{"use new"}, annotationsAt(out, "x-deprecationMessage", "/old")); diff != "" {
		t.Errorf("message annotations (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"the old way"}, annotationsAt(out, "description", "/old")); diff != "" {
		t.Errorf("description annotations (-want +got):\n%s", diff)
	}
}

func TestHTTPLoader(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/s.json" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"$schema": "https://json-schema.org/draft/2020-12/schema", "$defs": {"a": {"type": "string"}}}`)
	}))
	defer srv.Close()

	reg := NewDialectRegistry(WithHTTPClient(srv.Client()))
	ctx := context.Background()
	for range 2 {
		s, err := reg.Schema(ctx, srv.URL+"/s.json#/$defs/a")
		require.NoError(t, err)
		if diff := cmp.Diff(map[string]any{"type": "string"}, s.Value); diff != "" {
			t.Errorf("value mismatch (-want +got):\n%s", diff)
		}
	}
	require.Equal(t, int32(1), hits.Load())

	_, err := reg.Schema(ctx, srv.URL+"/missing.json")
	if !errors.Is(err, ErrLoad) {
		t.Errorf("got %v, want %v", err, ErrLoad)
	}
}
