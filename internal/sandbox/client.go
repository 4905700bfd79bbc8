package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/clawworks/agent-platform/agent-orchestrator/internal/models"
)

// Runner defines the interface for the sandbox execution service
type Runner interface {
	RunProject(ctx context.Context, req RunProjectRequest) (*models.ExecutionOutcome, error)
	RunScript(ctx context.Context, code string) (*models.ExecutionOutcome, error)
	IsHealthy(ctx context.Context) bool
}

// Client handles communication with the sandbox execution service
type Client struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
	breaker    *gobreaker.CircuitBreaker
}

// RunProjectRequest represents a multi-file project execution request
type RunProjectRequest struct {
	ProjectName    string            `json:"project_name"`
	Files          map[string]string `json:"files"`
	InstallCommand string            `json:"install_command,omitempty"`
	StartCommand   string            `json:"start_command,omitempty"`
	Port           int               `json:"port,omitempty"`
	KeepAlive      bool              `json:"keep_alive,omitempty"`
	TimeoutSeconds int               `json:"timeout_seconds,omitempty"`
}

// RunScriptRequest represents a single-snippet execution request
type RunScriptRequest struct {
	Code string `json:"code"`
}

// NewClient creates a new sandbox client
func NewClient(baseURL string) *Client {
	settings := gobreaker.Settings{
		Name:        "sandbox",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("Circuit breaker %s changed from %s to %s", name, from, to)
		},
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Install + start of a project can take a while.
			Timeout: 180 * time.Second,
		},
		tracer:  otel.Tracer("sandbox-client"),
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// SetBaseURL sets the base URL for testing purposes
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// RunProject persists and runs a multi-file project in the sandbox
func (c *Client) RunProject(ctx context.Context, req RunProjectRequest) (*models.ExecutionOutcome, error) {
	ctx, span := c.tracer.Start(ctx, "sandbox.run_project")
	defer span.End()

	span.SetAttributes(
		attribute.String("project_name", req.ProjectName),
		attribute.Int("file_count", len(req.Files)),
		attribute.Bool("keep_alive", req.KeepAlive),
	)

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.postOutcome(ctx, "/v1/projects/run", req)
	})

	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to run project in sandbox: %w", err)
	}

	return result.(*models.ExecutionOutcome), nil
}

// RunScript runs a single code snippet in the sandbox
func (c *Client) RunScript(ctx context.Context, code string) (*models.ExecutionOutcome, error) {
	ctx, span := c.tracer.Start(ctx, "sandbox.run_script")
	defer span.End()

	span.SetAttributes(attribute.Int("code_length", len(code)))

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.postOutcome(ctx, "/v1/scripts/run", RunScriptRequest{Code: code})
	})

	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to run script in sandbox: %w", err)
	}

	return result.(*models.ExecutionOutcome), nil
}

// postOutcome performs the actual HTTP request and decodes an outcome
func (c *Client) postOutcome(ctx context.Context, path string, body interface{}) (*models.ExecutionOutcome, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s%s", c.baseURL, path)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	// Inject trace context
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("sandbox returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("sandbox returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var outcome models.ExecutionOutcome
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &outcome, nil
}

// IsHealthy checks if the sandbox service is healthy
func (c *Client) IsHealthy(ctx context.Context) bool {
	ctx, span := c.tracer.Start(ctx, "sandbox.health_check")
	defer span.End()

	// Use circuit breaker state as a quick health indicator
	if c.breaker.State() == gobreaker.StateOpen {
		span.SetAttributes(attribute.Bool("healthy", false), attribute.String("reason", "circuit_breaker_open"))
		return false
	}

	url := fmt.Sprintf("%s/health", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		span.RecordError(err)
		return false
	}

	// Short timeout for health checks
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		return false
	}
	defer resp.Body.Close()

	healthy := resp.StatusCode == http.StatusOK
	span.SetAttributes(attribute.Bool("healthy", healthy))

	return healthy
}
