package router

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/clawworks/agent-platform/agent-orchestrator/internal/models"
)

// Completer is the slice of the LLM client the router needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Router classifies incoming requests into task categories. It asks the LLM
// first and falls back to keyword matching when the LLM is unavailable or
// answers in an unexpected shape. Classification never fails outright.
type Router struct {
	llm    Completer
	tracer trace.Tracer
}

// New creates a task router backed by the given completion client.
func New(llm Completer) *Router {
	return &Router{
		llm:    llm,
		tracer: otel.Tracer("task-router"),
	}
}

const classificationPrompt = `You are a task router. Classify the user request into exactly one category.

Categories:
- coding: writing, running or debugging code, scripts, programs or APIs
- desktop: controlling the local desktop (mouse, keyboard, windows, screenshots)
- web: fetching or scraping information from websites
- general: anything else (questions, conversation, advice)

Examples:
Request: "Write a python script that sorts a list"
TASK_TYPE: coding
CONFIDENCE: 0.95
REASONING: The user asks for a script to be written.

Request: "Take a screenshot of my screen"
TASK_TYPE: desktop
CONFIDENCE: 0.9
REASONING: The user wants the desktop controlled.

Request: "What's the weather in Paris?"
TASK_TYPE: web
CONFIDENCE: 0.85
REASONING: Answering requires fetching live information from the web.

Now classify this request. Answer with exactly three lines in the same format.
Request: %q
`

// Classify determines the task category for a message.
func (r *Router) Classify(ctx context.Context, message string) models.Classification {
	ctx, span := r.tracer.Start(ctx, "router.classify")
	defer span.End()

	text, err := r.llm.Complete(ctx, fmt.Sprintf(classificationPrompt, message))
	if err != nil {
		log.Printf("router: llm classification failed, using keyword fallback: %v", err)
		span.RecordError(err)
		c := fallbackClassify(message)
		span.SetAttributes(attribute.String("task_type", string(c.Category)), attribute.Bool("fallback", true))
		return c
	}

	c, ok := parseClassification(text)
	if !ok {
		log.Printf("router: unparseable llm classification, using keyword fallback")
		c = fallbackClassify(message)
		span.SetAttributes(attribute.String("task_type", string(c.Category)), attribute.Bool("fallback", true))
		return c
	}

	span.SetAttributes(
		attribute.String("task_type", string(c.Category)),
		attribute.Float64("confidence", c.Confidence),
	)
	return c
}

var validCategories = map[models.TaskCategory]bool{
	models.TaskCoding:  true,
	models.TaskDesktop: true,
	models.TaskWeb:     true,
	models.TaskGeneral: true,
}

// parseClassification extracts TASK_TYPE / CONFIDENCE / REASONING lines from
// an LLM answer. A missing or invalid TASK_TYPE makes the whole answer
// unusable; a bad confidence value just defaults to 0.5.
func parseClassification(text string) (models.Classification, bool) {
	c := models.Classification{Confidence: 0.5}
	found := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "TASK_TYPE:"):
			category := models.TaskCategory(strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "TASK_TYPE:"))))
			if !validCategories[category] {
				return models.Classification{}, false
			}
			c.Category = category
			found = true
		case strings.HasPrefix(line, "CONFIDENCE:"):
			if v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, "CONFIDENCE:")), 64); err == nil {
				c.Confidence = v
			}
		case strings.HasPrefix(line, "REASONING:"):
			c.Rationale = strings.TrimSpace(strings.TrimPrefix(line, "REASONING:"))
		}
	}

	return c, found
}

var (
	codingKeywords = []string{
		"write", "code", "script", "program", "function", "python",
		"javascript", "java", "api", "debug", "execute", "run this",
		"compile", "test",
	}
	desktopKeywords = []string{
		"open", "click", "type", "screenshot", "mouse", "keyboard",
		"window", "app", "application", "launch",
	}
	webKeywords = []string{
		"scrape", "website", "url", "weather", "fetch", "download",
		"browse", "web page",
	}
)

// fallbackClassify is the deterministic keyword classifier used when the LLM
// cannot be consulted.
func fallbackClassify(message string) models.Classification {
	lower := strings.ToLower(message)

	match := func(keywords []string) bool {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
		return false
	}

	switch {
	case match(codingKeywords):
		return models.Classification{Category: models.TaskCoding, Confidence: 0.7, Rationale: "keyword match"}
	case match(desktopKeywords):
		return models.Classification{Category: models.TaskDesktop, Confidence: 0.7, Rationale: "keyword match"}
	case match(webKeywords):
		return models.Classification{Category: models.TaskWeb, Confidence: 0.7, Rationale: "keyword match"}
	default:
		return models.Classification{Category: models.TaskGeneral, Confidence: 0.5, Rationale: "no keywords matched"}
	}
}
