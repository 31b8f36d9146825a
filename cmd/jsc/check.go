package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/scott-cotton/cli"

	"github.com/PermanChronicles/json-lsp-og/schemadoc"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		cfg.Check.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: check requires at least one file", cli.ErrUsage)
	}
	filter, err := compileFilter(cfg.Filter)
	if err != nil {
		return fmt.Errorf("%w: bad filter: %w", cli.ErrUsage, err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var w io.Writer = cc.Out
	if cfg.Quiet {
		w = io.Discard
	}
	r := &reporter{w: w, filter: filter, colors: newColors(cc.Out, cfg.Color)}
	for _, file := range args {
		doc, err := cfg.build(ctx, cc.In, file)
		if err != nil {
			return err
		}
		if err := r.report(file, doc); err != nil {
			return fmt.Errorf("error checking %s: %w", file, err)
		}
	}
	if r.n > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// diagEnv is what a filter expression sees of one diagnostic.
type diagEnv struct {
	Kind     string `expr:"kind"`
	Keyword  string `expr:"keyword"`
	Message  string `expr:"message"`
	Severity string `expr:"severity"`
	Pointer  string `expr:"pointer"`
	Line     int    `expr:"line"`
	Col      int    `expr:"col"`
}

func compileFilter(src string) (*vm.Program, error) {
	if src == "" {
		return nil, nil
	}
	return expr.Compile(src, expr.Env(diagEnv{}), expr.AsBool())
}

type reporter struct {
	w      io.Writer
	filter *vm.Program
	colors *colors
	n      int
}

// report prints the syntax errors then the diagnostics of doc that pass
// the filter, in document order.
func (r *reporter) report(file string, doc *schemadoc.Document) error {
	for _, e := range doc.SyntaxErrors {
		line, col := doc.PosDoc.LineCol(e.Offset)
		if err := r.emit(file, diagEnv{
			Kind:     "syntax",
			Message:  e.Err.Error(),
			Severity: schemadoc.SeverityError.String(),
			Line:     line + 1,
			Col:      col + 1,
		}); err != nil {
			return err
		}
	}
	for i := range doc.Diagnostics {
		d := &doc.Diagnostics[i]
		env := diagEnv{
			Kind:     d.Kind.String(),
			Keyword:  d.Keyword,
			Message:  d.Message,
			Severity: d.Severity.String(),
			Line:     1,
			Col:      1,
		}
		if n := d.InstanceNode; n != nil {
			env.Pointer = n.Pointer
			line, col := doc.PosDoc.LineCol(n.Offset)
			env.Line, env.Col = line+1, col+1
		}
		if err := r.emit(file, env); err != nil {
			return err
		}
	}
	return nil
}

func (r *reporter) emit(file string, env diagEnv) error {
	if r.filter != nil {
		ok, err := expr.Run(r.filter, env)
		if err != nil {
			return err
		}
		if !ok.(bool) {
			return nil
		}
	}
	r.n++
	loc := fmt.Sprintf("%s:%d:%d:", file, env.Line, env.Col)
	msg := env.Message
	if env.Keyword != "" {
		msg += " (" + env.Keyword + ")"
	}
	if r.colors != nil {
		loc = r.colors.loc(loc)
		if env.Severity == schemadoc.SeverityWarning.String() {
			msg = r.colors.warn(msg)
		} else {
			msg = r.colors.err(msg)
		}
	}
	_, err := fmt.Fprintf(r.w, "%s %s\n", loc, msg)
	return err
}
