package schemadoc

import (
	"log/slog"

	"github.com/PermanChronicles/json-lsp-og/parse"
)

type buildOpts struct {
	logger    *slog.Logger
	parseOpts []parse.ParseOption
}

type BuildOption func(*buildOpts)

// WithLogger sets the logger validation problems are reported to.
func WithLogger(l *slog.Logger) BuildOption {
	return func(o *buildOpts) { o.logger = l }
}

// WithParseOptions passes options through to the syntax parser.
func WithParseOptions(opts ...parse.ParseOption) BuildOption {
	return func(o *buildOpts) { o.parseOpts = append(o.parseOpts, opts...) }
}
