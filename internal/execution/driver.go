package execution

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/clawworks/agent-platform/agent-orchestrator/internal/models"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/sandbox"
)

// Runner is the slice of the sandbox client the driver needs.
type Runner interface {
	RunProject(ctx context.Context, req sandbox.RunProjectRequest) (*models.ExecutionOutcome, error)
	RunScript(ctx context.Context, code string) (*models.ExecutionOutcome, error)
}

// Driver runs generated projects: it persists a workspace copy, hands the
// project to the sandbox, and for servers waits out a warm-up period before
// probing reachability.
type Driver struct {
	sandbox       Runner
	workspacePath string
	warmup        time.Duration
	scriptTimeout time.Duration
	tracer        trace.Tracer

	// probeClient is replaceable in tests.
	probeClient *http.Client
}

// New creates an execution driver.
func New(runner Runner, workspacePath string, warmup, scriptTimeout time.Duration) *Driver {
	return &Driver{
		sandbox:       runner,
		workspacePath: workspacePath,
		warmup:        warmup,
		scriptTimeout: scriptTimeout,
		tracer:        otel.Tracer("execution-driver"),
		probeClient:   &http.Client{Timeout: 2 * time.Second},
	}
}

// Execute runs one generated project. It never returns an error: every
// failure mode is folded into the outcome so the controller can record it
// and decide whether to retry.
func (d *Driver) Execute(ctx context.Context, proj models.ParsedProject, cfg models.ProjectConfig, projectName string) models.ExecutionOutcome {
	ctx, span := d.tracer.Start(ctx, "execution.execute")
	defer span.End()

	span.SetAttributes(
		attribute.String("project_name", projectName),
		attribute.String("project_type", cfg.ProjectType),
		attribute.Int("file_count", len(proj.Files)),
	)

	workspace, err := saveWorkspace(d.workspacePath, projectName, proj.Files)
	if err != nil {
		// The sandbox holds its own copy; losing the local one is not fatal.
		log.Printf("execution: failed to persist workspace copy: %v", err)
	}

	isServer := cfg.Port > 0 && cfg.StartCommand != ""
	span.SetAttributes(attribute.Bool("is_server", isServer))

	req := sandbox.RunProjectRequest{
		ProjectName:    projectName,
		Files:          proj.Files,
		InstallCommand: cfg.InstallCommand,
		StartCommand:   cfg.StartCommand,
		Port:           cfg.Port,
		KeepAlive:      isServer,
		TimeoutSeconds: int(d.scriptTimeout.Seconds()),
	}

	outcome, err := d.sandbox.RunProject(ctx, req)
	if err != nil {
		span.RecordError(err)
		return models.ExecutionOutcome{
			Success:       false,
			Stderr:        err.Error(),
			Error:         err.Error(),
			ExitCode:      1,
			WorkspacePath: workspace,
		}
	}

	out := *outcome
	out.WorkspacePath = workspace

	if isServer {
		if out.Success {
			d.awaitServer(ctx, &out, cfg)
		}
		return out
	}

	out.Success = out.Success && out.ExitCode == 0 && out.Error == ""
	return out
}

// awaitServer waits out the warm-up period and probes the server once. An
// unreachable server is logged but still reported as started: slow starters
// (bundlers, dev servers) routinely outlive the probe window.
func (d *Driver) awaitServer(ctx context.Context, out *models.ExecutionOutcome, cfg models.ProjectConfig) {
	warmup := d.warmup
	if cfg.ProjectType == "react" {
		// Dev-server bundling is much slower than a plain interpreter start.
		warmup = 2 * d.warmup
	}

	select {
	case <-ctx.Done():
	case <-time.After(warmup):
	}

	if out.ServerPort == 0 {
		out.ServerPort = cfg.Port
	}
	if out.ServerURL == "" {
		out.ServerURL = fmt.Sprintf("http://localhost:%d", out.ServerPort)
	}

	if !d.probe(ctx, out.ServerURL) {
		log.Printf("execution: server at %s not reachable after warm-up, reporting started anyway", out.ServerURL)
	}

	out.ServerStarted = true
}

func (d *Driver) probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return false
	}
	resp, err := d.probeClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	// Any HTTP answer means something is listening.
	return true
}

// RunScript executes a single code snippet, the legacy single-file path.
func (d *Driver) RunScript(ctx context.Context, code string) models.ExecutionOutcome {
	ctx, span := d.tracer.Start(ctx, "execution.run_script")
	defer span.End()

	outcome, err := d.sandbox.RunScript(ctx, code)
	if err != nil {
		span.RecordError(err)
		return models.ExecutionOutcome{
			Success:  false,
			Stderr:   err.Error(),
			Error:    err.Error(),
			ExitCode: 1,
		}
	}
	return *outcome
}
