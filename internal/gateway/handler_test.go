package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clawworks/agent-platform/agent-orchestrator/internal/history"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/models"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/orchestration"
)

type stubOrchestrator struct {
	result *models.RunResult
	reqs   []orchestration.ProcessRequest
}

func (s *stubOrchestrator) Process(_ context.Context, req orchestration.ProcessRequest) *models.RunResult {
	s.reqs = append(s.reqs, req)
	if req.Sink != nil {
		req.Sink.Publish(models.ProgressEvent{Type: models.EventIteration, Iteration: 1, Total: 5})
		req.Sink.Publish(models.ProgressEvent{Type: models.EventGenerating, Message: "Generating project..."})
		req.Sink.Publish(models.ProgressEvent{Type: models.EventSuccess, Message: "done"})
	}
	result := *s.result
	result.ConversationID = req.ConversationID
	return &result
}

type stubHealth struct{ healthy bool }

func (s stubHealth) IsHealthy(context.Context) bool { return s.healthy }

func successResult() *models.RunResult {
	return &models.RunResult{
		Success:     true,
		TaskType:    "coding",
		Confidence:  0.95,
		Response:    "Successfully created a flask project with 2 files in 1 iteration(s).",
		Files:       models.FileMap{"app.py": "from flask import Flask"},
		ProjectType: "flask",
		Language:    "python",
		AgentPath:   []string{"router", "code_specialist"},
		Metadata:    models.RunMetadata{TotalIterations: 1},
	}
}

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	{
		api.POST("/generate", h.Generate)
		api.GET("/generate/stream", h.StreamGenerate)
		api.GET("/runs/:conversation_id", h.GetRuns)
		api.GET("/agents/health", h.AgentsHealth)
	}
	return r
}

func TestGenerate(t *testing.T) {
	orch := &stubOrchestrator{result: successResult()}
	h := NewHandler(orch, history.NewMemoryStore(), stubHealth{true}, stubHealth{true})
	router := newTestRouter(h)

	body, _ := json.Marshal(GenerateRequest{
		Message:        "Create a flask todo app",
		ConversationID: "conv-1",
		MaxIterations:  3,
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result models.RunResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "coding", result.TaskType)
	assert.Equal(t, "flask", result.ProjectType)
	assert.Equal(t, "conv-1", result.ConversationID)

	// The request parameters were passed through.
	require.Len(t, orch.reqs, 1)
	assert.Equal(t, "Create a flask todo app", orch.reqs[0].Message)
	assert.Equal(t, 3, orch.reqs[0].MaxIterations)
}

func TestGenerate_MissingMessage(t *testing.T) {
	orch := &stubOrchestrator{result: successResult()}
	h := NewHandler(orch, history.NewMemoryStore(), stubHealth{true}, stubHealth{true})
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/generate", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, models.ErrCodeInvalidRequest, errResp.Code)
	assert.Empty(t, orch.reqs)
}

func TestGenerate_FailedRunStillReturns200(t *testing.T) {
	orch := &stubOrchestrator{result: &models.RunResult{
		Success:  false,
		TaskType: "coding",
		Error:    "failed after 5 iterations: SyntaxError",
	}}
	h := NewHandler(orch, history.NewMemoryStore(), stubHealth{true}, stubHealth{true})
	router := newTestRouter(h)

	body, _ := json.Marshal(GenerateRequest{Message: "write a program"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result models.RunResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "failed after 5 iterations")
}

func TestGetRuns(t *testing.T) {
	store := history.NewMemoryStore()
	require.NoError(t, store.SaveRun(context.Background(), &history.RunRecord{
		ID:             "run-1",
		ConversationID: "conv-1",
		Message:        "Create a flask app",
		TaskType:       "coding",
		Success:        true,
	}))

	h := NewHandler(&stubOrchestrator{result: successResult()}, store, stubHealth{true}, stubHealth{true})
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/runs/conv-1", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var records []*history.RunRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "run-1", records[0].ID)
}

func TestGetRuns_UnknownConversationIsEmptyList(t *testing.T) {
	h := NewHandler(&stubOrchestrator{result: successResult()}, history.NewMemoryStore(), stubHealth{true}, stubHealth{true})
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/runs/nope", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestAgentsHealth(t *testing.T) {
	tests := []struct {
		name           string
		llm            bool
		sandbox        bool
		expectedStatus string
	}{
		{name: "all_healthy", llm: true, sandbox: true, expectedStatus: "healthy"},
		{name: "llm_down", llm: false, sandbox: true, expectedStatus: "degraded"},
		{name: "sandbox_down", llm: true, sandbox: false, expectedStatus: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&stubOrchestrator{result: successResult()}, history.NewMemoryStore(), stubHealth{tt.llm}, stubHealth{tt.sandbox})
			router := newTestRouter(h)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/api/agents/health", nil))

			assert.Equal(t, http.StatusOK, w.Code)

			var resp AgentsHealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedStatus, resp.Status)
			assert.Equal(t, tt.llm, resp.Components["llm"])
			assert.Equal(t, tt.sandbox, resp.Components["sandbox"])
		})
	}
}
