package dialect

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-openapi/jsonpointer"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// DialectRegistry is the Registry backed by compiled meta-schemas.
type DialectRegistry struct {
	mu       sync.RWMutex
	tables   map[string]*Table
	loader   *loader
	compiler *jsonschema.Compiler
	compiled map[string]*validator
}

type RegistryOption func(*DialectRegistry)

// WithHTTPClient sets the client used to fetch remote schemas.
func WithHTTPClient(c *http.Client) RegistryOption {
	return func(r *DialectRegistry) {
		r.loader.client = c
	}
}

// NewDialectRegistry creates a registry knowing draft-04 through 2020-12.
func NewDialectRegistry(opts ...RegistryOption) *DialectRegistry {
	r := &DialectRegistry{
		tables:   builtinTables(),
		loader:   newLoader(nil),
		compiler: jsonschema.NewCompiler(),
		compiled: map[string]*validator{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// AddDialect registers a dialect whose keywords are those of the built in
// dialect base and whose meta-schema is doc.
func (r *DialectRegistry) AddDialect(uri, base string, doc any) error {
	uri = normalize(uri)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tables[uri]; ok {
		return fmt.Errorf("%w: %s", ErrDialectExists, uri)
	}
	t, ok := r.tables[normalize(base)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDialect, base)
	}
	r.tables[uri] = t
	r.loader.add(uri, doc)
	return nil
}

func (r *DialectRegistry) HasDialect(uri string) bool {
	_, err := r.table(uri)
	return err == nil
}

func (r *DialectRegistry) KeywordName(dialectURI, keywordID string) (string, error) {
	t, err := r.table(dialectURI)
	if err != nil {
		return "", err
	}
	return t.Name(keywordID), nil
}

// IsKeyword reports whether token is a keyword of the dialect.
func (r *DialectRegistry) IsKeyword(dialectURI, token string) bool {
	t, err := r.table(dialectURI)
	return err == nil && t.Has(token)
}

// Dialects lists the registered dialect URIs.
func (r *DialectRegistry) Dialects() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]string, 0, len(r.tables))
	for k := range r.tables {
		res = append(res, k)
	}
	return res
}

func (r *DialectRegistry) table(uri string) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[normalize(uri)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, uri)
	}
	return t, nil
}

func (r *DialectRegistry) Schema(ctx context.Context, uri string) (*Schema, error) {
	doc, err := r.loader.load(ctx, uri)
	if err != nil {
		return nil, err
	}
	ptr := ""
	if i := strings.IndexByte(uri, '#'); i != -1 {
		ptr, err = url.PathUnescape(uri[i+1:])
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrLoad, uri, err)
		}
	}
	v := doc
	if ptr != "" {
		p, err := jsonpointer.New(ptr)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrLoad, uri, err)
		}
		v, _, err = p.Get(doc)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrLoad, uri, err)
		}
	}
	d := docURL(uri)
	if m, ok := doc.(map[string]any); ok {
		if s, ok := m["$schema"].(string); ok {
			d = normalize(s)
		}
	}
	return &Schema{
		URI:        uri,
		Pointer:    ptr,
		DialectURI: d,
		Value:      v,
	}, nil
}

func (r *DialectRegistry) Compile(ctx context.Context, s *Schema) (Validator, error) {
	key := s.URI
	r.mu.RLock()
	v, ok := r.compiled[key]
	r.mu.RUnlock()
	if ok {
		return v, nil
	}
	// the compiler is not safe for concurrent use
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.compiled[key]; ok {
		return v, nil
	}
	r.compiler.UseLoader(&urlLoader{ctx: ctx, l: r.loader})
	sch, err := r.compiler.Compile(s.URI)
	if err != nil {
		return nil, err
	}
	d := normalize(s.URI)
	t := r.tables[d]
	if t == nil {
		t = r.tables[normalize(s.DialectURI)]
	}
	v = &validator{
		root:       sch,
		dialectURI: d,
		table:      t,
		loader:     r.loader,
	}
	r.compiled[key] = v
	return v, nil
}

// normalize drops an empty fragment so that "…/schema#" and "…/schema"
// name the same dialect.
func normalize(uri string) string {
	return strings.TrimSuffix(uri, "#")
}
