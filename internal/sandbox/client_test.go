package sandbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clawworks/agent-platform/agent-orchestrator/internal/models"
)

func TestClient_RunProject(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse func(w http.ResponseWriter, r *http.Request)
		expectedError  string
		expectSuccess  bool
	}{
		{
			name: "successful_server_run",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "POST", r.Method)
				assert.Equal(t, "/v1/projects/run", r.URL.Path)

				var req RunProjectRequest
				err := json.NewDecoder(r.Body).Decode(&req)
				assert.NoError(t, err)
				assert.Equal(t, "flask-todo", req.ProjectName)
				assert.Equal(t, 5000, req.Port)
				assert.True(t, req.KeepAlive)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(models.ExecutionOutcome{
					Success:    true,
					ServerURL:  "http://localhost:5000",
					ServerPort: 5000,
				})
			},
			expectSuccess: true,
		},
		{
			name: "sandbox_failure",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("sandbox exploded"))
			},
			expectedError: "sandbox returned status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			client := NewClient(server.URL)

			req := RunProjectRequest{
				ProjectName:    "flask-todo",
				Files:          map[string]string{"app.py": "print('hi')"},
				InstallCommand: "pip install -r requirements.txt",
				StartCommand:   "python app.py",
				Port:           5000,
				KeepAlive:      true,
			}

			outcome, err := client.RunProject(context.Background(), req)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectSuccess, outcome.Success)
				assert.Equal(t, 5000, outcome.ServerPort)
			}
		})
	}
}

func TestClient_RunScript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/scripts/run", r.URL.Path)

		var req RunScriptRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		assert.NoError(t, err)
		assert.Equal(t, "print(2+2)", req.Code)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.ExecutionOutcome{
			Success: true,
			Stdout:  "4\n",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	outcome, err := client.RunScript(context.Background(), "print(2+2)")
	assert.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "4\n", outcome.Stdout)
}

func TestClient_IsHealthy(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		expectedHealth bool
	}{
		{name: "healthy_service", status: http.StatusOK, expectedHealth: true},
		{name: "unhealthy_service", status: http.StatusServiceUnavailable, expectedHealth: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/health", r.URL.Path)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(server.URL)
			assert.Equal(t, tt.expectedHealth, client.IsHealthy(context.Background()))
		})
	}
}

func TestClient_CircuitBreaker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	for i := 0; i < 10; i++ {
		_, err := client.RunScript(context.Background(), "boom")
		assert.Error(t, err)

		if i > 5 && strings.Contains(err.Error(), "circuit breaker is open") {
			break
		}
	}
}
