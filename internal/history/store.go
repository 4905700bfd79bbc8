package history

import (
	"context"
	"time"
)

// RunRecord is the archived summary of one orchestrated run.
type RunRecord struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Message        string    `json:"message"`
	TaskType       string    `json:"task_type"`
	Success        bool      `json:"success"`
	ProjectType    string    `json:"project_type,omitempty"`
	Iterations     int       `json:"iterations"`
	Response       string    `json:"response,omitempty"`
	Error          string    `json:"error,omitempty"`
	WorkspacePath  string    `json:"workspace_path,omitempty"`
	ServerURL      string    `json:"server_url,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
}

// Store archives completed runs keyed by conversation. Archival is
// best-effort plumbing: a failed save never fails the run that produced it.
type Store interface {
	SaveRun(ctx context.Context, rec *RunRecord) error
	GetRuns(ctx context.Context, conversationID string) ([]*RunRecord, error)
}
