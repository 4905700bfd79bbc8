package models

import "time"

// TaskCategory is the router's verdict about what kind of request this is.
type TaskCategory string

const (
	TaskCoding  TaskCategory = "coding"
	TaskDesktop TaskCategory = "desktop"
	TaskWeb     TaskCategory = "web"
	TaskGeneral TaskCategory = "general"
)

// Classification is the task router's output. It always carries a category;
// routing never fails outright.
type Classification struct {
	Category   TaskCategory `json:"task_type"`
	Confidence float64      `json:"confidence"`
	Rationale  string       `json:"reasoning,omitempty"`
}

// GenerationRequest carries everything the generation driver needs for one
// attempt. Iteration 1 generates from scratch; later iterations repair using
// the previous error and raw output.
type GenerationRequest struct {
	Description    string
	Iteration      int
	PreviousError  string
	PreviousOutput string
}

// GenerationResult is one generation attempt. Success false with a non-empty
// Error means the attempt failed in a way that is not worth retrying.
type GenerationResult struct {
	Success   bool
	Project   ParsedProject
	Config    ProjectConfig
	RawOutput string
	Error     string
}

// RunState is the mutable working state of one orchestrated run. A fresh
// value is built per request; nothing here is shared between runs.
type RunState struct {
	Message         string
	ConversationID  string
	TaskType        string
	Confidence      float64
	Iteration       int
	MaxIterations   int
	TotalIterations int
	Records         []IterationRecord
	Project         ParsedProject
	Config          ProjectConfig
	RawOutput       string
	WorkspacePath   string
	ServerRunning   bool
	ServerURL       string
	ServerPort      int
	AgentPath       []string
	Success         bool
	FinalOutput     string
	ErrorMessage    string
	StartTime       time.Time
	EndTime         time.Time
}

// RunMetadata summarizes how a run went, iteration by iteration.
type RunMetadata struct {
	TotalIterations  int               `json:"total_iterations"`
	ExecutionResults []IterationRecord `json:"execution_results"`
	StartTime        time.Time         `json:"start_time"`
	EndTime          time.Time         `json:"end_time"`
}

// RunResult is the caller-facing result of a run, returned by the synchronous
// endpoint and as the terminal websocket frame.
type RunResult struct {
	Success          bool        `json:"success"`
	ConversationID   string      `json:"conversation_id"`
	TaskType         string      `json:"task_type"`
	Confidence       float64     `json:"confidence"`
	Response         string      `json:"response"`
	Files            FileMap     `json:"files,omitempty"`
	ProjectStructure ProjectTree `json:"project_structure,omitempty"`
	MainFile         string      `json:"main_file,omitempty"`
	ProjectType      string      `json:"project_type,omitempty"`
	Language         string      `json:"language,omitempty"`
	WorkspacePath    string      `json:"workspace_path,omitempty"`
	ServerRunning    bool        `json:"server_running"`
	ServerURL        string      `json:"server_url,omitempty"`
	ServerPort       int         `json:"server_port,omitempty"`
	AgentPath        []string    `json:"agent_path"`
	Metadata         RunMetadata `json:"metadata"`
	Error            string      `json:"error,omitempty"`
}
