package models

import "time"

// ExecutionOutcome is the result of running a generated project (or a single
// script) in the sandbox.
type ExecutionOutcome struct {
	Success       bool   `json:"success"`
	Stdout        string `json:"stdout,omitempty"`
	Stderr        string `json:"stderr,omitempty"`
	ExitCode      int    `json:"exit_code"`
	Error         string `json:"error,omitempty"`
	ServerStarted bool   `json:"server_started,omitempty"`
	ServerURL     string `json:"server_url,omitempty"`
	ServerPort    int    `json:"server_port,omitempty"`
	WorkspacePath string `json:"workspace_path,omitempty"`
}

// IterationRecord is the archived outcome of one generate-execute iteration.
// Records are append-only: every executed iteration produces exactly one,
// success or not.
type IterationRecord struct {
	Iteration int       `json:"iteration"`
	Success   bool      `json:"success"`
	Stdout    string    `json:"stdout,omitempty"`
	Stderr    string    `json:"stderr,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
