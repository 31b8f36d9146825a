package schemadoc

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("jsl.schemadoc")
	meter  = otel.Meter("jsl.schemadoc")
)

var (
	buildLatency     metric.Float64Histogram
	resourcesTotal   metric.Int64Counter
	diagnosticsTotal metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		buildLatency, err = meter.Float64Histogram(
			"schemadoc_build_duration_seconds",
			metric.WithDescription("Duration of document builds including validation"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		resourcesTotal, err = meter.Int64Counter(
			"schemadoc_resources_total",
			metric.WithDescription("Schema resources discovered"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		diagnosticsTotal, err = meter.Int64Counter(
			"schemadoc_diagnostics_total",
			metric.WithDescription("Diagnostics produced by kind"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func startBuildSpan(ctx context.Context, uri string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "schemadoc.FromText",
		trace.WithAttributes(
			attribute.String("schemadoc.uri", uri),
		),
	)
}

func startValidateSpan(ctx context.Context, r *Resource) (context.Context, trace.Span) {
	return tracer.Start(ctx, "schemadoc.validateResource",
		trace.WithAttributes(
			attribute.String("schemadoc.base_uri", r.BaseURI),
			attribute.String("schemadoc.dialect", r.DialectURI),
		),
	)
}

func recordBuildMetrics(ctx context.Context, duration time.Duration, doc *Document) {
	if err := initMetrics(); err != nil {
		return
	}
	buildLatency.Record(ctx, duration.Seconds())
	resourcesTotal.Add(ctx, int64(len(doc.Resources)))
	for _, d := range doc.Diagnostics {
		diagnosticsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", d.Kind.String()),
		))
	}
}
