package schemadoc

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/PermanChronicles/json-lsp-og/debug"
	"github.com/PermanChronicles/json-lsp-og/dialect"
	"github.com/PermanChronicles/json-lsp-og/ir"
)

type validation struct {
	reg    dialect.Registry
	logger *slog.Logger
}

// validate checks one resource against its dialect's meta-schema and
// records the annotations the dialect produces on the resource's nodes.
func (v *validation) validate(ctx context.Context, r *Resource) []Diagnostic {
	ctx, span := startValidateSpan(ctx, r)
	defer span.End()

	if !v.reg.HasDialect(r.DialectURI) {
		d := v.unresolved(r)
		span.SetAttributes(attribute.String("schemadoc.resolution", d.Message))
		return []Diagnostic{d}
	}

	sch, err := v.reg.Schema(ctx, r.DialectURI)
	if err != nil {
		return []Diagnostic{v.registryFailure(r, err)}
	}
	val, err := v.reg.Compile(ctx, sch)
	if err != nil {
		return []Diagnostic{v.registryFailure(r, err)}
	}
	out, err := val.Interpret(r.Root.Value, dialect.OutputBasic)
	if err != nil {
		return []Diagnostic{v.registryFailure(r, err)}
	}
	span.SetAttributes(
		attribute.Bool("schemadoc.valid", out.Valid),
		attribute.Int("schemadoc.errors", len(out.Errors)),
	)

	for _, a := range out.Annotations {
		n, err := ir.Get(a.InstanceLocation, r.Root)
		if err != nil {
			if debug.Validate() {
				debug.Logf("annotation %s at %q: %v\n", a.Keyword, a.InstanceLocation, err)
			}
			continue
		}
		n.Annotate(a.Keyword, a.DialectURI, a.Value)
	}

	if out.Valid {
		return nil
	}
	if len(out.Errors) == 0 {
		return []Diagnostic{{
			Kind:         KindKeyword,
			Keyword:      dialect.KeywordSchema,
			InstanceNode: r.Root,
			Message:      fmt.Sprintf("Invalid against dialect %s", r.DialectURI),
			Severity:     SeverityError,
		}}
	}
	var res []Diagnostic
	for _, e := range out.Errors {
		inst, err := ir.Get(e.InstanceLocation, r.Root)
		if err != nil {
			v.logger.Debug("instance location not in resource",
				"resource", r.BaseURI, "location", e.InstanceLocation, "error", err)
			inst = r.Root
		}
		var kw *dialect.Schema
		if e.AbsoluteKeywordLocation != "" {
			kw, err = v.reg.Schema(ctx, e.AbsoluteKeywordLocation)
			if err != nil && debug.Validate() {
				debug.Logf("keyword %s: %v\n", e.AbsoluteKeywordLocation, err)
			}
		}
		res = append(res, Diagnostic{
			Kind:         KindKeyword,
			Keyword:      e.Keyword,
			KeywordNode:  kw,
			InstanceNode: inst,
			Message:      e.Message,
			Severity:     SeverityError,
		})
	}
	return res
}

func (v *validation) unresolved(r *Resource) Diagnostic {
	d := Diagnostic{
		Kind:         KindResolution,
		Keyword:      dialect.KeywordSchema,
		InstanceNode: r.Root,
		Severity:     SeverityError,
	}
	switch s := r.Root.Field("$schema"); {
	case s != nil && s.Type == ir.StringType:
		d.InstanceNode = s
		d.Message = "Unknown dialect"
	case r.DialectURI != "":
		d.Message = "Unknown dialect"
	default:
		d.Message = "No dialect"
	}
	return d
}

func (v *validation) registryFailure(r *Resource, err error) Diagnostic {
	v.logger.Warn("dialect unavailable", "dialect", r.DialectURI, "resource", r.BaseURI, "error", err)
	return Diagnostic{
		Kind:         KindRegistry,
		Keyword:      dialect.KeywordSchema,
		InstanceNode: r.Root,
		Message:      fmt.Sprintf("Unable to load dialect %s: %v", r.DialectURI, err),
		Severity:     SeverityError,
	}
}
