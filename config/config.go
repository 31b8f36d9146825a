// Package config holds the settings shared by the language server and the
// command line tool.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/PermanChronicles/json-lsp-og/dialect"
)

type Settings struct {
	// DefaultDialect governs documents that do not declare $schema.
	DefaultDialect string          `json:"defaultDialect,omitempty" yaml:"defaultDialect,omitempty"`
	Dialects       []CustomDialect `json:"dialects,omitempty" yaml:"dialects,omitempty"`
	LogLevel       string          `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
}

// CustomDialect is a dialect with the keywords of Base whose meta-schema
// is read from the file Schema.
type CustomDialect struct {
	URI    string `json:"uri" yaml:"uri"`
	Base   string `json:"base" yaml:"base"`
	Schema string `json:"schema" yaml:"schema"`
}

func Default() *Settings {
	return &Settings{LogLevel: "info"}
}

// Load reads settings from a YAML (or JSON) file. Relative custom dialect
// schema paths are taken relative to the file.
func Load(path string) (*Settings, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i := range s.Dialects {
		if p := s.Dialects[i].Schema; p != "" && !filepath.IsAbs(p) {
			s.Dialects[i].Schema = filepath.Join(dir, p)
		}
	}
	return s, nil
}

func Parse(d []byte) (*Settings, error) {
	s := Default()
	if err := yaml.Unmarshal(d, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Merge applies an RFC 7386 merge patch, such as settings sent by an
// editor, to s and returns the result. s is not modified.
func Merge(s *Settings, patch []byte) (*Settings, error) {
	doc, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	merged, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		return nil, fmt.Errorf("merging settings: %w", err)
	}
	res := &Settings{}
	if err := json.Unmarshal(merged, res); err != nil {
		return nil, fmt.Errorf("merging settings: %w", err)
	}
	return res, nil
}

// Level maps LogLevel to a slog level, defaulting to info.
func (s *Settings) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Register adds the custom dialects to reg. Dialects that are already
// registered are skipped.
func (s *Settings) Register(reg *dialect.DialectRegistry) error {
	for _, cd := range s.Dialects {
		if reg.HasDialect(cd.URI) {
			continue
		}
		f, err := os.Open(cd.Schema)
		if err != nil {
			return fmt.Errorf("dialect %s: %w", cd.URI, err)
		}
		doc, err := jsonschema.UnmarshalJSON(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("dialect %s: %w", cd.URI, err)
		}
		if err := reg.AddDialect(cd.URI, cd.Base, doc); err != nil {
			return err
		}
	}
	return nil
}
