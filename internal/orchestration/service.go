package orchestration

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/clawworks/agent-platform/agent-orchestrator/internal/history"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/metrics"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/models"
)

// TaskRouter decides what kind of request a message is.
type TaskRouter interface {
	Classify(ctx context.Context, message string) models.Classification
}

// Generator produces a parsed, classified project for a request.
type Generator interface {
	Generate(ctx context.Context, req models.GenerationRequest) (models.GenerationResult, error)
}

// Executor runs a generated project and reports the outcome.
type Executor interface {
	Execute(ctx context.Context, proj models.ParsedProject, cfg models.ProjectConfig, projectName string) models.ExecutionOutcome
}

// Service drives the generate-execute-repair loop: route the request,
// generate a project, execute it, and feed failures back into repair
// generations until success or the iteration budget runs out.
type Service struct {
	router            TaskRouter
	generator         Generator
	executor          Executor
	store             history.Store
	runMetrics        *metrics.RunMetrics
	tracer            trace.Tracer
	defaultIterations int
	maxIterations     int
}

// NewService creates the orchestration service. store and runMetrics may be
// nil, in which case archival and metrics are skipped.
func NewService(router TaskRouter, generator Generator, executor Executor, store history.Store, runMetrics *metrics.RunMetrics, defaultIterations, maxIterations int) *Service {
	if defaultIterations < 1 {
		defaultIterations = 5
	}
	if maxIterations < defaultIterations {
		maxIterations = defaultIterations
	}
	return &Service{
		router:            router,
		generator:         generator,
		executor:          executor,
		store:             store,
		runMetrics:        runMetrics,
		tracer:            otel.Tracer("orchestration-service"),
		defaultIterations: defaultIterations,
		maxIterations:     maxIterations,
	}
}

// ProcessRequest is one incoming orchestration request.
type ProcessRequest struct {
	Message        string
	ConversationID string
	MaxIterations  int
	Sink           ProgressSink
}

// Process runs one request end to end. It always returns a result; failures
// are reported inside it rather than as an error.
func (s *Service) Process(ctx context.Context, req ProcessRequest) *models.RunResult {
	ctx, span := s.tracer.Start(ctx, "orchestration.process")
	defer span.End()

	sink := req.Sink
	if sink == nil {
		sink = NopSink{}
	}

	maxIter := req.MaxIterations
	if maxIter <= 0 {
		maxIter = s.defaultIterations
	}
	if maxIter > s.maxIterations {
		maxIter = s.maxIterations
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	state := &models.RunState{
		Message:        req.Message,
		ConversationID: conversationID,
		MaxIterations:  maxIter,
		StartTime:      time.Now().UTC(),
	}

	decision := s.router.Classify(ctx, req.Message)
	state.TaskType = string(decision.Category)
	state.Confidence = decision.Confidence
	state.AgentPath = []string{"router"}

	span.SetAttributes(
		attribute.String("conversation_id", conversationID),
		attribute.String("task_type", state.TaskType),
		attribute.Float64("confidence", state.Confidence),
	)
	s.runMetrics.RecordRunStarted(ctx, state.TaskType)

	s.emit(sink, models.ProgressEvent{
		Type:       models.EventRouter,
		Message:    fmt.Sprintf("Classified request as %s (confidence %.2f)", state.TaskType, state.Confidence),
		TaskType:   state.TaskType,
		Confidence: state.Confidence,
	})

	switch decision.Category {
	case models.TaskCoding:
		s.runCodingLoop(ctx, state, sink)
	case models.TaskDesktop:
		state.AgentPath = append(state.AgentPath, "desktop_specialist")
		state.Success = true
		state.FinalOutput = "This looks like a desktop automation task. Desktop control is handled by the desktop agent, not the code generator."
	default:
		// General queries, and web tasks until a web specialist exists.
		state.AgentPath = append(state.AgentPath, "general_assistant")
		state.Success = true
		state.FinalOutput = "This doesn't look like a code generation request. Ask me to create, build or fix a program and I'll generate and run it for you."
	}

	state.EndTime = time.Now().UTC()

	s.archive(ctx, state)
	s.record(ctx, state)

	return buildResult(state)
}

// runCodingLoop is the generate-execute-repair loop. Each executed iteration
// appends exactly one IterationRecord; a generation-level failure aborts the
// run because regenerating with identical inputs cannot go differently.
func (s *Service) runCodingLoop(ctx context.Context, state *models.RunState, sink ProgressSink) {
	ctx, span := s.tracer.Start(ctx, "orchestration.coding_loop")
	defer span.End()

	state.AgentPath = append(state.AgentPath, "code_specialist")
	projectName := DeriveProjectName(state.Message)
	span.SetAttributes(attribute.String("project_name", projectName))

	var previousError, previousOutput string

	for iteration := 1; iteration <= state.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			state.ErrorMessage = fmt.Sprintf("run cancelled: %v", err)
			state.FinalOutput = state.ErrorMessage
			return
		}

		state.Iteration = iteration
		state.TotalIterations = iteration

		s.emit(sink, models.ProgressEvent{
			Type:      models.EventIteration,
			Message:   fmt.Sprintf("Iteration %d of %d", iteration, state.MaxIterations),
			Iteration: iteration,
			Total:     state.MaxIterations,
		})

		if iteration == 1 {
			s.emit(sink, models.ProgressEvent{
				Type:    models.EventGenerating,
				Message: "Generating project...",
			})
		} else {
			s.emit(sink, models.ProgressEvent{
				Type:      models.EventFixing,
				Message:   fmt.Sprintf("Error found, attempting fix (iteration %d)", iteration),
				Iteration: iteration,
				Error:     previousError,
			})
		}

		result, err := s.generator.Generate(ctx, models.GenerationRequest{
			Description:    state.Message,
			Iteration:      iteration,
			PreviousError:  previousError,
			PreviousOutput: previousOutput,
		})
		if err != nil {
			state.ErrorMessage = err.Error()
			state.FinalOutput = fmt.Sprintf("Code generation failed: %s", state.ErrorMessage)
			s.emit(sink, models.ProgressEvent{Type: models.EventError, Error: state.ErrorMessage})
			return
		}
		if !result.Success {
			state.ErrorMessage = result.Error
			if state.ErrorMessage == "" {
				state.ErrorMessage = "code generation failed"
			}
			state.FinalOutput = fmt.Sprintf("Code generation failed: %s", state.ErrorMessage)
			s.emit(sink, models.ProgressEvent{Type: models.EventError, Error: state.ErrorMessage})
			return
		}

		state.Project = result.Project
		state.Config = result.Config
		state.RawOutput = result.RawOutput
		previousOutput = result.RawOutput

		s.emit(sink, models.ProgressEvent{
			Type:    models.EventGenerationComplete,
			Message: fmt.Sprintf("Generated %d files for a %s project", len(result.Project.Files), result.Config.ProjectType),
		})

		s.emit(sink, models.ProgressEvent{
			Type:      models.EventExecuting,
			Message:   "Running project in sandbox...",
			Iteration: iteration,
		})

		outcome := s.executor.Execute(ctx, result.Project, result.Config, projectName)

		state.Records = append(state.Records, models.IterationRecord{
			Iteration: iteration,
			Success:   outcome.Success,
			Stdout:    outcome.Stdout,
			Stderr:    outcome.Stderr,
			Timestamp: time.Now().UTC(),
		})

		if outcome.WorkspacePath != "" {
			state.WorkspacePath = outcome.WorkspacePath
		}

		if outcome.Success {
			state.Success = true
			if outcome.ServerStarted {
				state.ServerRunning = true
				state.ServerURL = outcome.ServerURL
				state.ServerPort = outcome.ServerPort
			}
			state.FinalOutput = successMessage(state)
			span.SetAttributes(attribute.Int("iterations_used", iteration))

			s.emit(sink, models.ProgressEvent{
				Type:      models.EventSuccess,
				Message:   state.FinalOutput,
				Iteration: iteration,
			})
			return
		}

		previousError = outcome.Stderr
		if previousError == "" {
			previousError = outcome.Error
		}
	}

	state.ErrorMessage = fmt.Sprintf("failed after %d iterations", state.MaxIterations)
	if previousError != "" {
		state.ErrorMessage = fmt.Sprintf("%s: %s", state.ErrorMessage, previousError)
	}
	state.FinalOutput = state.ErrorMessage
	span.SetAttributes(attribute.Int("iterations_used", state.MaxIterations))

	s.emit(sink, models.ProgressEvent{Type: models.EventError, Error: state.ErrorMessage})
}

func successMessage(state *models.RunState) string {
	msg := fmt.Sprintf("Successfully created a %s project with %d files in %d iteration(s).",
		state.Config.ProjectType, len(state.Project.Files), state.TotalIterations)
	if state.ServerRunning {
		msg += fmt.Sprintf(" Server running at %s.", state.ServerURL)
	}
	if state.WorkspacePath != "" {
		msg += fmt.Sprintf(" Files saved to %s.", state.WorkspacePath)
	}
	return msg
}

func buildResult(state *models.RunState) *models.RunResult {
	result := &models.RunResult{
		Success:        state.Success,
		ConversationID: state.ConversationID,
		TaskType:       state.TaskType,
		Confidence:     state.Confidence,
		Response:       state.FinalOutput,
		AgentPath:      state.AgentPath,
		ServerRunning:  state.ServerRunning,
		ServerURL:      state.ServerURL,
		ServerPort:     state.ServerPort,
		WorkspacePath:  state.WorkspacePath,
		Error:          state.ErrorMessage,
		Metadata: models.RunMetadata{
			TotalIterations:  state.TotalIterations,
			ExecutionResults: state.Records,
			StartTime:        state.StartTime,
			EndTime:          state.EndTime,
		},
	}

	if len(state.Project.Files) > 0 {
		result.Files = state.Project.Files
		result.ProjectStructure = state.Project.Tree
		result.MainFile = state.Project.MainFile
		result.ProjectType = state.Config.ProjectType
		result.Language = state.Config.Language
	}

	return result
}

// emit publishes one progress event. The sink must never be able to break
// the run, so panics are contained here.
func (s *Service) emit(sink ProgressSink, event models.ProgressEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("orchestration: progress sink panicked: %v", r)
		}
	}()
	event.Timestamp = time.Now().UTC()
	sink.Publish(event)
}

func (s *Service) archive(ctx context.Context, state *models.RunState) {
	if s.store == nil {
		return
	}
	rec := &history.RunRecord{
		ID:             uuid.New().String(),
		ConversationID: state.ConversationID,
		Message:        state.Message,
		TaskType:       state.TaskType,
		Success:        state.Success,
		ProjectType:    state.Config.ProjectType,
		Iterations:     state.TotalIterations,
		Response:       state.FinalOutput,
		Error:          state.ErrorMessage,
		WorkspacePath:  state.WorkspacePath,
		ServerURL:      state.ServerURL,
		StartedAt:      state.StartTime,
		CompletedAt:    state.EndTime,
	}
	if err := s.store.SaveRun(ctx, rec); err != nil {
		log.Printf("orchestration: failed to archive run %s: %v", rec.ID, err)
	}
}

func (s *Service) record(ctx context.Context, state *models.RunState) {
	duration := state.EndTime.Sub(state.StartTime)
	if state.Success {
		s.runMetrics.RecordRunCompleted(ctx, state.TaskType, state.TotalIterations, duration)
		return
	}
	errorType := models.ErrCodeGenerationFailed
	if state.TotalIterations >= state.MaxIterations && len(state.Records) == state.MaxIterations {
		errorType = models.ErrCodeIterationsExhausted
	}
	s.runMetrics.RecordRunFailed(ctx, state.TaskType, errorType, state.TotalIterations, duration)
}
