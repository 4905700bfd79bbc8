package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("run-metrics")

// RunMetrics provides metrics collection for orchestrated runs. A nil
// receiver is valid and records nothing, so callers never have to guard.
type RunMetrics struct {
	runsStartedCounter     metric.Int64Counter
	runsCompletedCounter   metric.Int64Counter
	runsFailedCounter      metric.Int64Counter
	runDurationHistogram   metric.Float64Histogram
	runIterationsHistogram metric.Int64Histogram
	runsActiveGauge        metric.Int64UpDownCounter
}

// NewRunMetrics creates a new run metrics collector
func NewRunMetrics() (*RunMetrics, error) {
	runsStartedCounter, err := meter.Int64Counter(
		"agent_orchestrator.runs.started",
		metric.WithDescription("Total number of runs started"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	runsCompletedCounter, err := meter.Int64Counter(
		"agent_orchestrator.runs.completed",
		metric.WithDescription("Total number of runs completed successfully"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	runsFailedCounter, err := meter.Int64Counter(
		"agent_orchestrator.runs.failed",
		metric.WithDescription("Total number of runs that failed"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	runDurationHistogram, err := meter.Float64Histogram(
		"agent_orchestrator.run.duration",
		metric.WithDescription("Duration of a run in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	runIterationsHistogram, err := meter.Int64Histogram(
		"agent_orchestrator.run.iterations",
		metric.WithDescription("Generate-execute iterations used per run"),
		metric.WithUnit("{iteration}"),
	)
	if err != nil {
		return nil, err
	}

	runsActiveGauge, err := meter.Int64UpDownCounter(
		"agent_orchestrator.runs.active",
		metric.WithDescription("Number of currently active runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		runsStartedCounter:     runsStartedCounter,
		runsCompletedCounter:   runsCompletedCounter,
		runsFailedCounter:      runsFailedCounter,
		runDurationHistogram:   runDurationHistogram,
		runIterationsHistogram: runIterationsHistogram,
		runsActiveGauge:        runsActiveGauge,
	}, nil
}

// RecordRunStarted records a new run
func (rm *RunMetrics) RecordRunStarted(ctx context.Context, taskType string) {
	if rm == nil {
		return
	}
	rm.runsStartedCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("task.type", taskType)),
	)
	rm.runsActiveGauge.Add(ctx, 1,
		metric.WithAttributes(attribute.String("task.type", taskType)),
	)
}

// RecordRunCompleted records a successful run
func (rm *RunMetrics) RecordRunCompleted(ctx context.Context, taskType string, iterations int, duration time.Duration) {
	if rm == nil {
		return
	}
	rm.runsCompletedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("task.type", taskType),
			attribute.String("status", "completed"),
		),
	)
	rm.runDurationHistogram.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("task.type", taskType),
			attribute.String("status", "completed"),
		),
	)
	rm.runIterationsHistogram.Record(ctx, int64(iterations),
		metric.WithAttributes(attribute.String("task.type", taskType)),
	)
	rm.runsActiveGauge.Add(ctx, -1,
		metric.WithAttributes(attribute.String("task.type", taskType)),
	)
}

// RecordRunFailed records a failed run
func (rm *RunMetrics) RecordRunFailed(ctx context.Context, taskType, errorType string, iterations int, duration time.Duration) {
	if rm == nil {
		return
	}
	rm.runsFailedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("task.type", taskType),
			attribute.String("status", "failed"),
			attribute.String("error.type", errorType),
		),
	)
	rm.runDurationHistogram.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("task.type", taskType),
			attribute.String("status", "failed"),
		),
	)
	rm.runIterationsHistogram.Record(ctx, int64(iterations),
		metric.WithAttributes(attribute.String("task.type", taskType)),
	)
	rm.runsActiveGauge.Add(ctx, -1,
		metric.WithAttributes(attribute.String("task.type", taskType)),
	)
}
