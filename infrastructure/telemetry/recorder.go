// Package telemetry provides OpenTelemetry metrics and tracing for the
// planning runtime.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// RecorderConfig configures the recorder.
type RecorderConfig struct {
	// Name is the instrumentation scope name
	// (default: "github.com/felixgeelhaar/goap-go").
	Name string
	// Version is the instrumentation scope version.
	Version string
}

// DefaultRecorderConfig returns a default recorder configuration.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		Name:    "github.com/felixgeelhaar/goap-go",
		Version: "1.0.0",
	}
}

// Recorder records planning and execution telemetry. A nil *Recorder is
// valid and records nothing, so callers can hold it unconditionally.
type Recorder struct {
	tracer trace.Tracer

	planningDuration metric.Float64Histogram
	plansComputed    metric.Int64Counter
	planningFailures metric.Int64Counter
	stepsExecuted    metric.Int64Counter
	stateTransitions metric.Int64Counter
}

// NewRecorder creates a recorder against the global meter and tracer
// providers.
func NewRecorder(config RecorderConfig) (*Recorder, error) {
	if config.Name == "" {
		config = DefaultRecorderConfig()
	}

	meter := otel.GetMeterProvider().Meter(
		config.Name,
		metric.WithInstrumentationVersion(config.Version),
	)

	r := &Recorder{
		tracer: otel.GetTracerProvider().Tracer(config.Name),
	}

	var err error
	r.planningDuration, err = meter.Float64Histogram(
		"goap.planning.duration",
		metric.WithDescription("Duration of planning passes"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	r.plansComputed, err = meter.Int64Counter(
		"goap.plans.computed",
		metric.WithDescription("Number of plans produced"),
		metric.WithUnit("{plan}"),
	)
	if err != nil {
		return nil, err
	}

	r.planningFailures, err = meter.Int64Counter(
		"goap.planning.failures",
		metric.WithDescription("Number of planning passes that found no path"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	r.stepsExecuted, err = meter.Int64Counter(
		"goap.plan.steps",
		metric.WithDescription("Number of plan steps completed"),
		metric.WithUnit("{step}"),
	)
	if err != nil {
		return nil, err
	}

	r.stateTransitions, err = meter.Int64Counter(
		"goap.plan.transitions",
		metric.WithDescription("Number of plan lifecycle transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// StartPlanning opens a span around a planning pass.
func (r *Recorder) StartPlanning(ctx context.Context, goal string) (context.Context, trace.Span) {
	if r == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return r.tracer.Start(ctx, "planner.find_plan",
		trace.WithAttributes(attribute.String("goal", goal)))
}

// RecordPlanning records the outcome of a planning pass.
func (r *Recorder) RecordPlanning(ctx context.Context, goal string, d time.Duration, steps int, err error) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("goal", goal))
	if err != nil {
		r.planningFailures.Add(ctx, 1, attrs)
		return
	}
	r.planningDuration.Record(ctx, float64(d.Milliseconds()), attrs)
	r.plansComputed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("goal", goal),
		attribute.Int("steps", steps),
	))
}

// RecordStep counts a completed plan step.
func (r *Recorder) RecordStep(ctx context.Context, actionName string) {
	if r == nil {
		return
	}
	r.stepsExecuted.Add(ctx, 1, metric.WithAttributes(attribute.String("action", actionName)))
}

// RecordTransition counts a plan lifecycle transition.
func (r *Recorder) RecordTransition(ctx context.Context, from, to string) {
	if r == nil {
		return
	}
	r.stateTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}
