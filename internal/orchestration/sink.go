package orchestration

import "github.com/clawworks/agent-platform/agent-orchestrator/internal/models"

// ProgressSink receives best-effort progress events during a run. Publish is
// called synchronously from the run loop; implementations should return
// quickly and must tolerate being called after the consumer has gone away.
type ProgressSink interface {
	Publish(event models.ProgressEvent)
}

// SinkFunc adapts a function to a ProgressSink.
type SinkFunc func(models.ProgressEvent)

// Publish calls f.
func (f SinkFunc) Publish(event models.ProgressEvent) { f(event) }

// NopSink discards all events.
type NopSink struct{}

// Publish does nothing.
func (NopSink) Publish(models.ProgressEvent) {}
