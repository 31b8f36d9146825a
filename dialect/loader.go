package dialect

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/sync/singleflight"
)

//go:embed metaschemas
var metaFS embed.FS

// loader fetches and caches schema documents by absolute URL (without
// fragment). Concurrent loads of the same URL share one fetch.
type loader struct {
	mu     sync.RWMutex
	docs   map[string]any
	group  singleflight.Group
	client *http.Client
}

func newLoader(client *http.Client) *loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &loader{
		docs:   map[string]any{},
		client: client,
	}
}

func (l *loader) add(u string, doc any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.docs[docURL(u)] = doc
}

func (l *loader) load(ctx context.Context, u string) (any, error) {
	u = docURL(u)
	l.mu.RLock()
	doc, ok := l.docs[u]
	l.mu.RUnlock()
	if ok {
		return doc, nil
	}
	v, err, _ := l.group.Do(u, func() (any, error) {
		doc, err := l.fetch(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrLoad, u, err)
		}
		l.add(u, doc)
		return doc, nil
	})
	return v, err
}

func (l *loader) fetch(ctx context.Context, u string) (any, error) {
	if f, err := openMeta(u); err != nil {
		return nil, err
	} else if f != nil {
		defer f.Close()
		return jsonschema.UnmarshalJSON(f)
	}
	p, err := url.Parse(u)
	if err != nil {
		return nil, err
	}
	switch p.Scheme {
	case "file":
		return jsonschema.FileLoader{}.Load(u)
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%s returned status %s", u, resp.Status)
		}
		return jsonschema.UnmarshalJSON(resp.Body)
	default:
		return nil, fmt.Errorf("unsupported scheme %q", p.Scheme)
	}
}

// openMeta opens the bundled copy of a json-schema.org meta-schema. It
// returns a nil file for any other URL.
func openMeta(u string) (fs.File, error) {
	rest, ok := strings.CutPrefix(u, "http://json-schema.org/")
	if !ok {
		rest, ok = strings.CutPrefix(u, "https://json-schema.org/")
	}
	if !ok {
		return nil, nil
	}
	f, err := metaFS.Open("metaschemas/" + rest)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return f, err
}

// urlLoader adapts loader to the compiler's synchronous loading.
type urlLoader struct {
	ctx context.Context
	l   *loader
}

func (u *urlLoader) Load(url string) (any, error) {
	return u.l.load(u.ctx, url)
}

func docURL(u string) string {
	if i := strings.IndexByte(u, '#'); i != -1 {
		return u[:i]
	}
	return u
}
