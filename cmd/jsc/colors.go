package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type colors struct {
	loc  func(a ...any) string
	err  func(a ...any) string
	warn func(a ...any) string
}

// newColors returns nil unless w is a terminal or force is set.
func newColors(w io.Writer, force bool) *colors {
	if !force {
		f, ok := w.(*os.File)
		if !ok || !isatty.IsTerminal(f.Fd()) {
			return nil
		}
	}
	return &colors{
		loc:  sprint(color.Bold),
		err:  sprint(color.FgRed),
		warn: sprint(color.FgYellow),
	}
}

func sprint(attrs ...color.Attribute) func(a ...any) string {
	c := color.New(attrs...)
	c.EnableColor()
	return c.SprintFunc()
}
