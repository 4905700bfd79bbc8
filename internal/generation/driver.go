package generation

import (
	"context"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/clawworks/agent-platform/agent-orchestrator/internal/models"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/project"
)

// Completer is the slice of the LLM client the driver needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Driver turns a task description into a parsed, classified project by
// prompting the LLM. Iteration 1 generates from scratch; later iterations
// build a repair prompt from the previous failure.
type Driver struct {
	llm    Completer
	tracer trace.Tracer
}

// New creates a generation driver backed by the given completion client.
func New(llm Completer) *Driver {
	return &Driver{
		llm:    llm,
		tracer: otel.Tracer("generation-driver"),
	}
}

// Generate runs one generation attempt. LLM failures are reported inside the
// result (Success false) so the controller can decide what to do; the only
// returned error is a structurally invalid project that no retry with the
// same output could fix.
func (d *Driver) Generate(ctx context.Context, req models.GenerationRequest) (models.GenerationResult, error) {
	ctx, span := d.tracer.Start(ctx, "generation.generate")
	defer span.End()

	span.SetAttributes(attribute.Int("iteration", req.Iteration))

	var prompt string
	if req.Iteration <= 1 {
		prompt = buildGenerationPrompt(req.Description)
	} else {
		prompt = buildRepairPrompt(req.Description, req.PreviousError, req.PreviousOutput)
	}

	text, err := d.llm.Complete(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		return models.GenerationResult{Success: false, Error: err.Error()}, nil
	}

	raw := strings.TrimSpace(text)
	if raw == "" {
		return models.GenerationResult{Success: false, Error: "generator returned empty output"}, nil
	}

	parsed, err := project.Parse(raw)
	if err != nil {
		span.RecordError(err)
		return models.GenerationResult{}, err
	}

	if len(parsed.Files) == 0 {
		parsed = singleFileFallback(raw)
	}

	cfg := project.Classify(parsed.Files)
	span.SetAttributes(
		attribute.Int("file_count", len(parsed.Files)),
		attribute.String("project_type", cfg.ProjectType),
	)

	return models.GenerationResult{
		Success:   true,
		Project:   parsed,
		Config:    cfg,
		RawOutput: raw,
	}, nil
}

var fencedCodeRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\r?\\n(.*?)\\r?\\n```")

// singleFileFallback salvages output that has no FILES: section by treating
// it as one script. The language is guessed from the fence marker; without a
// fence the whole text becomes the file.
func singleFileFallback(raw string) models.ParsedProject {
	ext := "py"
	switch {
	case strings.Contains(raw, "```javascript"), strings.Contains(raw, "```js"):
		ext = "js"
	case strings.Contains(raw, "```typescript"), strings.Contains(raw, "```ts"):
		ext = "ts"
	case strings.Contains(raw, "```python"), strings.Contains(raw, "```py"):
		ext = "py"
	}

	code := raw
	if m := fencedCodeRe.FindStringSubmatch(raw); m != nil {
		code = m[1]
	}

	name := "main." + ext
	tree, _ := project.BuildTree([]string{name})

	return models.ParsedProject{
		Files:    models.FileMap{name: code},
		Tree:     tree,
		MainFile: name,
	}
}
