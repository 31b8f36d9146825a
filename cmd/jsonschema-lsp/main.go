package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/PermanChronicles/json-lsp-og/config"
	"github.com/PermanChronicles/json-lsp-og/debug"
	"github.com/PermanChronicles/json-lsp-og/dialect"
)

const lsName = "jsonschema-lsp"

var (
	version = "0.0.1"
)

type MainConfig struct {
	Config   string `cli:"name=config desc='settings file (yaml or json)'"`
	Gops     bool   `cli:"name=gops desc='start a gops agent'"`
	LogLevel string `cli:"name=log desc='log level: debug, info, warn, error'"`

	Main *cli.Command
}

func main() {
	cli.MainContext(context.Background(), MainCommand())
}

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, lsName).
		WithSynopsis(lsName + " [opts]").
		WithDescription("JSON Schema language server speaking LSP over stdio.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return serve(cfg, cc, args)
		})
}

func serve(cfg *MainConfig, cc *cli.Context, args []string) error {
	_, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	settings := config.Default()
	if cfg.Config != "" {
		settings, err = config.Load(cfg.Config)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	if cfg.LogLevel != "" {
		settings.LogLevel = cfg.LogLevel
	}
	logger := newLogger(os.Stderr, settings)

	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			logger.Warn("gops agent failed", "error", err)
		}
		defer agent.Close()
	}

	reg := dialect.NewDialectRegistry()
	if err := settings.Register(reg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stream := jsonrpc2.NewStream(&stdioReadWriteCloser{
		read:  os.Stdin,
		write: os.Stdout,
	})
	conn := jsonrpc2.NewConn(stream)
	server := NewServer(ctx, reg, settings, logger)
	server.conn = conn
	server.notify = conn.Notify
	conn.Go(ctx, protocol.ServerHandler(server, jsonrpc2.MethodNotFoundHandler))
	logger.Info("serving", "name", lsName, "version", version)
	select {
	case <-conn.Done():
	case <-ctx.Done():
		conn.Close()
	}
	server.wait()
	return nil
}

// newLogger writes text logs to w; stdout carries the protocol.
func newLogger(w io.Writer, s *config.Settings) *slog.Logger {
	level := s.Level()
	if debug.LSP() || os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

type stdioReadWriteCloser struct {
	read  io.Reader
	write io.Writer
}

func (s *stdioReadWriteCloser) Read(p []byte) (n int, err error) {
	return s.read.Read(p)
}

func (s *stdioReadWriteCloser) Write(p []byte) (n int, err error) {
	return s.write.Write(p)
}

func (s *stdioReadWriteCloser) Close() error {
	return nil
}
