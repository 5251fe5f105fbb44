// Package telemetry collects hierarchical operation timings.
//
// Collectors travel in the context, so instrumented code never changes its
// signature to be measured. Without a collector in the context every timer is
// a no-op.
//
// Example usage:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	ctx, timer := telemetry.StartTimer(ctx, "budget report")
//	defer timer.End()
//
//	// nested calls with ctx appear under "budget report"
//	_, load := telemetry.StartTimer(ctx, "load budget")
//	load.End()
//
//	collector.Report(os.Stderr, output.NewStyles(os.Stderr))
package telemetry

import (
	"context"
	"io"

	"github.com/robinvdvleuten/bookkeeper/output"
)

type collectorKey struct{}

type timerKey struct{}

// Collector records timers and reports them.
type Collector interface {
	// Start begins timing a top-level operation.
	Start(name string) Timer

	// Report writes the collected timings to w. styles may be nil for plain
	// output.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks one operation. End must be called exactly once.
type Timer interface {
	End()

	// Child starts a timer nested under this one.
	Child(name string) Timer
}

// WithCollector returns a copy of ctx carrying collector.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey{}, collector)
}

// FromContext returns the collector in ctx, or a no-op collector.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey{}).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// WithRootTimer returns a copy of ctx in which StartTimer nests new timers
// under timer.
func WithRootTimer(ctx context.Context, timer Timer) context.Context {
	return context.WithValue(ctx, timerKey{}, timer)
}

// StartTimer starts a timer named name below the innermost timer in ctx, or
// as a top-level operation of the context's collector. The returned context
// nests further timers under the new one.
func StartTimer(ctx context.Context, name string) (context.Context, Timer) {
	var timer Timer
	if parent, ok := ctx.Value(timerKey{}).(Timer); ok {
		timer = parent.Child(name)
	} else {
		timer = FromContext(ctx).Start(name)
	}
	return WithRootTimer(ctx, timer), timer
}
