package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/PermanChronicles/json-lsp-og/config"
	"github.com/PermanChronicles/json-lsp-og/debug"
	"github.com/PermanChronicles/json-lsp-og/dialect"
	"github.com/PermanChronicles/json-lsp-og/pubsub"
)

// settingsSection is the configuration section editors store our
// settings under.
const settingsSection = "jsonSchemaLanguageServer"

var _ protocol.Server = (*Server)(nil)

type Server struct {
	ctx    context.Context
	conn   jsonrpc2.Conn
	reg    dialect.Registry
	logger *slog.Logger
	docs   *documentStore
	bus    *pubsub.Bus[*ValidationEvent]

	mu           sync.RWMutex
	settings     *config.Settings
	pullSettings bool

	// notify sends a notification to the client.
	notify func(ctx context.Context, method string, params any) error

	pubMu  sync.Mutex
	builds sync.WaitGroup
}

func NewServer(ctx context.Context, reg dialect.Registry, settings *config.Settings, logger *slog.Logger) *Server {
	s := &Server{
		ctx:      ctx,
		reg:      reg,
		logger:   logger,
		docs:     newDocumentStore(),
		settings: settings,
		notify: func(context.Context, string, any) error {
			return nil
		},
	}
	s.bus = pubsub.New(pubsub.WithLogger[*ValidationEvent](logger))
	s.setupHandlers()
	return s
}

func (s *Server) setupHandlers() {
	s.bus.Subscribe(topicDiagnostics, s.validationErrors)
	s.bus.Subscribe(topicDiagnostics, s.deprecated)
	s.bus.Subscribe(topicDiagnostics, s.syntaxErrors)
}

func (s *Server) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	if w := params.Capabilities.Workspace; w != nil {
		s.mu.Lock()
		s.pullSettings = w.Configuration
		s.mu.Unlock()
	}
	if params.InitializationOptions != nil {
		if err := s.applySettings(params.InitializationOptions); err != nil {
			s.logger.Warn("ignoring initialization options", "error", err)
		}
	}

	capabilities := protocol.ServerCapabilities{
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			Change:    protocol.TextDocumentSyncKindFull,
			OpenClose: true,
		},
		HoverProvider: true,
		SemanticTokensProvider: map[string]any{
			"full":  true,
			"range": true,
			"legend": protocol.SemanticTokensLegend{
				TokenTypes:     tokenTypes,
				TokenModifiers: []protocol.SemanticTokenModifiers{},
			},
		},
	}

	return &protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.ServerInfo{
			Name:    lsName,
			Version: version,
		},
	}, nil
}

func (s *Server) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	if s.pulls() {
		// the reply to a request made from inside a handler is read by
		// the same loop that runs the handler
		go s.refreshSettings()
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.wait()
	return nil
}

func (s *Server) Exit(ctx context.Context) error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func (s *Server) SetTrace(ctx context.Context, params *protocol.SetTraceParams) error {
	return nil
}

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	td := params.TextDocument
	if debug.LSP() {
		debug.Logf("open %s v%d\n", td.URI, td.Version)
	}
	if s.docs.set(td.URI, td.Version, []byte(td.Text)) {
		s.schedule(td.URI)
	}
	return nil
}

func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	n := len(params.ContentChanges)
	if n == 0 {
		return nil
	}
	// full sync: the last change holds the whole text
	td := params.TextDocument
	if s.docs.set(td.URI, td.Version, []byte(params.ContentChanges[n-1].Text)) {
		s.schedule(td.URI)
	}
	return nil
}

func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.docs.remove(uri)
	return s.notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
}

func (s *Server) DidChangeConfiguration(ctx context.Context, params *protocol.DidChangeConfigurationParams) error {
	if params.Settings != nil {
		if err := s.applySettings(params.Settings); err != nil {
			s.logger.Warn("ignoring settings", "error", err)
			return nil
		}
		s.rebuildAll()
		return nil
	}
	if s.pulls() {
		go s.refreshSettings()
	}
	return nil
}

func (s *Server) pulls() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pullSettings && s.conn != nil
}

// applySettings merges editor settings into the current ones. v is either
// our section or an object holding it.
func (s *Server) applySettings(v any) error {
	if m, ok := v.(map[string]any); ok {
		if sec, ok := m[settingsSection]; ok {
			v = sec
		}
	}
	if v == nil {
		return nil
	}
	patch, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	merged, err := config.Merge(s.settings, patch)
	if err != nil {
		return err
	}
	if reg, ok := s.reg.(*dialect.DialectRegistry); ok {
		if err := merged.Register(reg); err != nil {
			return err
		}
	}
	s.settings = merged
	if debug.LSP() {
		debug.LogAny(merged)
	}
	s.logger.Debug("settings", "defaultDialect", merged.DefaultDialect, "dialects", len(merged.Dialects))
	return nil
}

// refreshSettings asks the client for our section and rebuilds every open
// document.
func (s *Server) refreshSettings() {
	var res []any
	_, err := s.conn.Call(s.ctx, protocol.MethodWorkspaceConfiguration, &protocol.ConfigurationParams{
		Items: []protocol.ConfigurationItem{{Section: settingsSection}},
	}, &res)
	if err != nil {
		s.logger.Warn("workspace/configuration failed", "error", err)
		return
	}
	if len(res) == 0 {
		return
	}
	if err := s.applySettings(res[0]); err != nil {
		s.logger.Warn("ignoring settings", "error", err)
		return
	}
	s.rebuildAll()
}

func (s *Server) defaultDialect() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.DefaultDialect
}

func (s *Server) schedule(uri protocol.DocumentURI) {
	s.builds.Add(1)
	go func() {
		defer s.builds.Done()
		if err := s.rebuild(s.ctx, uri); err != nil {
			s.logger.Error("rebuild failed", "uri", uri, "error", err)
		}
	}()
}

func (s *Server) rebuildAll() {
	for _, u := range s.docs.uris() {
		s.schedule(u)
	}
}

// wait blocks until scheduled rebuilds are done.
func (s *Server) wait() {
	s.builds.Wait()
}
