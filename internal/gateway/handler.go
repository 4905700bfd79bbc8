package gateway

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clawworks/agent-platform/agent-orchestrator/internal/history"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/models"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/orchestration"
)

// Orchestrator is the orchestration surface the gateway drives.
type Orchestrator interface {
	Process(ctx context.Context, req orchestration.ProcessRequest) *models.RunResult
}

// HealthChecker reports whether an external collaborator is reachable.
type HealthChecker interface {
	IsHealthy(ctx context.Context) bool
}

// Handler handles HTTP requests for the gateway layer
type Handler struct {
	orchestrator  Orchestrator
	store         history.Store
	llmHealth     HealthChecker
	sandboxHealth HealthChecker
}

// NewHandler creates a new gateway handler
func NewHandler(orchestrator Orchestrator, store history.Store, llmHealth, sandboxHealth HealthChecker) *Handler {
	return &Handler{
		orchestrator:  orchestrator,
		store:         store,
		llmHealth:     llmHealth,
		sandboxHealth: sandboxHealth,
	}
}

// GenerateRequest represents a generation request
type GenerateRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversation_id"`
	MaxIterations  int    `json:"max_iterations"`
}

// Generate godoc
// @Summary Generate and run a project
// @Description Classify the request, generate a project with the LLM, execute it in the sandbox and iterate on failures
// @Tags generate
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Generation request"
// @Success 200 {object} models.RunResult
// @Failure 400 {object} models.ErrorResponse
// @Router /generate [post]
func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "message is required",
			Code:  models.ErrCodeInvalidRequest,
		})
		return
	}

	result := h.orchestrator.Process(c.Request.Context(), orchestration.ProcessRequest{
		Message:        req.Message,
		ConversationID: req.ConversationID,
		MaxIterations:  req.MaxIterations,
	})

	// Run-level failures travel inside the result, not as HTTP errors.
	c.JSON(http.StatusOK, result)
}

// GetRuns godoc
// @Summary List runs for a conversation
// @Description Return the archived runs of one conversation, oldest first
// @Tags runs
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Success 200 {array} history.RunRecord
// @Failure 500 {object} models.ErrorResponse
// @Router /runs/{conversation_id} [get]
func (h *Handler) GetRuns(c *gin.Context) {
	conversationID := c.Param("conversation_id")

	records, err := h.store.GetRuns(c.Request.Context(), conversationID)
	if err != nil {
		log.Printf(`{"level":"error","message":"Failed to load runs","conversation_id":"%s","error":"%v"}`, conversationID, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "failed to load runs",
			Code:  models.ErrCodeInternalError,
		})
		return
	}

	if records == nil {
		records = []*history.RunRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// AgentsHealthResponse reports the reachability of the agent pipeline.
type AgentsHealthResponse struct {
	Status     string          `json:"status"`
	Components map[string]bool `json:"components"`
}

// AgentsHealth godoc
// @Summary Agent pipeline health
// @Description Report whether the LLM and sandbox collaborators are reachable
// @Tags health
// @Produce json
// @Success 200 {object} AgentsHealthResponse
// @Router /agents/health [get]
func (h *Handler) AgentsHealth(c *gin.Context) {
	ctx := c.Request.Context()

	components := map[string]bool{
		"llm":     h.llmHealth.IsHealthy(ctx),
		"sandbox": h.sandboxHealth.IsHealthy(ctx),
	}

	status := "healthy"
	for _, ok := range components {
		if !ok {
			status = "degraded"
			break
		}
	}

	c.JSON(http.StatusOK, AgentsHealthResponse{
		Status:     status,
		Components: components,
	})
}
