package models

import "time"

// Progress event types emitted while a run is in flight. Delivery is
// best-effort: a slow or broken consumer never affects the run itself.
const (
	EventRouter             = "router"
	EventGenerating         = "generating"
	EventFixing             = "fixing"
	EventIteration          = "iteration"
	EventGenerationComplete = "generation_complete"
	EventExecuting          = "executing"
	EventSuccess            = "success"
	EventError              = "error"
	EventClassification     = "classification"
	EventComplete           = "complete"
)

// ProgressEvent is one streamed progress update for an in-flight run.
type ProgressEvent struct {
	Type       string    `json:"type"`
	Message    string    `json:"message,omitempty"`
	Iteration  int       `json:"iteration,omitempty"`
	Total      int       `json:"total,omitempty"`
	TaskType   string    `json:"task_type,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
