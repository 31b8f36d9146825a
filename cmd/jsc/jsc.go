package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/scott-cotton/cli"
	"go.lsp.dev/uri"

	"github.com/PermanChronicles/json-lsp-og/config"
	"github.com/PermanChronicles/json-lsp-og/dialect"
	"github.com/PermanChronicles/json-lsp-og/schemadoc"
)

func jscMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func (cfg *MainConfig) loadSettings() (*config.Settings, error) {
	if cfg.settings != nil {
		return cfg.settings, nil
	}
	s := config.Default()
	if cfg.Config != "" {
		var err error
		s, err = config.Load(cfg.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if cfg.Dialect != "" {
		s.DefaultDialect = cfg.Dialect
	}
	cfg.settings = s
	return s, nil
}

func (cfg *MainConfig) registry() (dialect.Registry, error) {
	if cfg.reg != nil {
		return cfg.reg, nil
	}
	s, err := cfg.loadSettings()
	if err != nil {
		return nil, err
	}
	reg := dialect.NewDialectRegistry()
	if err := s.Register(reg); err != nil {
		return nil, err
	}
	cfg.reg = reg
	return reg, nil
}

// build reads file, or stdin for "-", and builds its document.
func (cfg *MainConfig) build(ctx context.Context, in io.Reader, file string) (*schemadoc.Document, error) {
	s, err := cfg.loadSettings()
	if err != nil {
		return nil, err
	}
	reg, err := cfg.registry()
	if err != nil {
		return nil, err
	}
	var (
		text []byte
		u    string
	)
	if file == "-" {
		text, err = io.ReadAll(in)
		u = "file:///dev/stdin"
	} else {
		text, err = os.ReadFile(file)
		if err == nil {
			u, err = fileURI(file)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", file, err)
	}
	return schemadoc.FromText(ctx, text, u, s.DefaultDialect, reg, schemadoc.WithLogger(theLog))
}

func fileURI(file string) (string, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", err
	}
	return string(uri.File(abs)), nil
}
