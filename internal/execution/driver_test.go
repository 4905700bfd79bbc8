package execution

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clawworks/agent-platform/agent-orchestrator/internal/models"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/sandbox"
)

type stubRunner struct {
	outcome  *models.ExecutionOutcome
	err      error
	requests []sandbox.RunProjectRequest
}

func (s *stubRunner) RunProject(_ context.Context, req sandbox.RunProjectRequest) (*models.ExecutionOutcome, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	out := *s.outcome
	return &out, nil
}

func (s *stubRunner) RunScript(_ context.Context, code string) (*models.ExecutionOutcome, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := *s.outcome
	return &out, nil
}

func flaskProject() (models.ParsedProject, models.ProjectConfig) {
	proj := models.ParsedProject{
		Files: models.FileMap{
			"app.py":           "from flask import Flask",
			"requirements.txt": "flask",
		},
		MainFile: "app.py",
	}
	cfg := models.ProjectConfig{
		ProjectType:    "flask",
		Language:       "python",
		IsServer:       true,
		InstallCommand: "pip install -r requirements.txt",
		StartCommand:   "python app.py",
		Port:           5000,
	}
	return proj, cfg
}

func TestExecute_ServerProject(t *testing.T) {
	runner := &stubRunner{outcome: &models.ExecutionOutcome{Success: true}}
	d := New(runner, t.TempDir(), time.Millisecond, 60*time.Second)

	proj, cfg := flaskProject()
	out := d.Execute(context.Background(), proj, cfg, "flask-todo")

	assert.True(t, out.Success)
	assert.True(t, out.ServerStarted)
	assert.Equal(t, 5000, out.ServerPort)
	assert.Equal(t, "http://localhost:5000", out.ServerURL)

	require.Len(t, runner.requests, 1)
	req := runner.requests[0]
	assert.Equal(t, "flask-todo", req.ProjectName)
	assert.Equal(t, "pip install -r requirements.txt", req.InstallCommand)
	assert.Equal(t, "python app.py", req.StartCommand)
	assert.True(t, req.KeepAlive)
}

func TestExecute_ScriptProject(t *testing.T) {
	tests := []struct {
		name          string
		outcome       models.ExecutionOutcome
		expectSuccess bool
	}{
		{
			name:          "clean_exit",
			outcome:       models.ExecutionOutcome{Success: true, Stdout: "4\n", ExitCode: 0},
			expectSuccess: true,
		},
		{
			name:          "nonzero_exit",
			outcome:       models.ExecutionOutcome{Success: true, ExitCode: 1, Stderr: "Traceback"},
			expectSuccess: false,
		},
		{
			name:          "internal_error",
			outcome:       models.ExecutionOutcome{Success: true, ExitCode: 0, Error: "timed out"},
			expectSuccess: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &stubRunner{outcome: &tt.outcome}
			d := New(runner, t.TempDir(), time.Millisecond, 60*time.Second)

			proj := models.ParsedProject{Files: models.FileMap{"main.py": "print(2+2)"}, MainFile: "main.py"}
			cfg := models.ProjectConfig{ProjectType: "python", Language: "python", StartCommand: "python main.py"}

			out := d.Execute(context.Background(), proj, cfg, "calc")
			assert.Equal(t, tt.expectSuccess, out.Success)

			// One-shot runs must not keep the sandbox alive.
			require.Len(t, runner.requests, 1)
			assert.False(t, runner.requests[0].KeepAlive)
		})
	}
}

func TestExecute_SandboxFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("connection refused")}
	d := New(runner, t.TempDir(), time.Millisecond, 60*time.Second)

	proj, cfg := flaskProject()
	out := d.Execute(context.Background(), proj, cfg, "flask-todo")

	assert.False(t, out.Success)
	assert.Contains(t, out.Stderr, "connection refused")
	// Workspace is persisted before the sandbox is involved.
	assert.NotEmpty(t, out.WorkspacePath)
}

func TestExecute_PersistsWorkspace(t *testing.T) {
	runner := &stubRunner{outcome: &models.ExecutionOutcome{Success: true, ExitCode: 0}}
	root := t.TempDir()
	d := New(runner, root, time.Millisecond, 60*time.Second)

	proj := models.ParsedProject{
		Files: models.FileMap{
			"main.py":          "print('hi')",
			"pkg/helper.py":    "x = 1",
			"../outside.txt":   "must not be written",
			"/etc/passwd.copy": "must not be written",
		},
		MainFile: "main.py",
	}
	cfg := models.ProjectConfig{ProjectType: "python", Language: "python", StartCommand: "python main.py"}

	out := d.Execute(context.Background(), proj, cfg, "hello")

	require.Equal(t, filepath.Join(root, "hello"), out.WorkspacePath)

	content, err := os.ReadFile(filepath.Join(out.WorkspacePath, "main.py"))
	require.NoError(t, err)
	assert.Equal(t, "print('hi')", string(content))

	_, err = os.Stat(filepath.Join(out.WorkspacePath, "pkg", "helper.py"))
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "outside.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestExecute_WorkspaceCollisionGetsSuffix(t *testing.T) {
	runner := &stubRunner{outcome: &models.ExecutionOutcome{Success: true, ExitCode: 0}}
	root := t.TempDir()
	d := New(runner, root, time.Millisecond, 60*time.Second)

	proj := models.ParsedProject{Files: models.FileMap{"main.py": "print('hi')"}, MainFile: "main.py"}
	cfg := models.ProjectConfig{ProjectType: "python", Language: "python", StartCommand: "python main.py"}

	first := d.Execute(context.Background(), proj, cfg, "hello")
	second := d.Execute(context.Background(), proj, cfg, "hello")

	assert.Equal(t, filepath.Join(root, "hello"), first.WorkspacePath)
	assert.NotEqual(t, first.WorkspacePath, second.WorkspacePath)
	assert.Contains(t, filepath.Base(second.WorkspacePath), "hello_")

	// Both copies exist on disk.
	_, err := os.Stat(filepath.Join(first.WorkspacePath, "main.py"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(second.WorkspacePath, "main.py"))
	assert.NoError(t, err)
}

func TestRunScript(t *testing.T) {
	runner := &stubRunner{outcome: &models.ExecutionOutcome{Success: true, Stdout: "4\n"}}
	d := New(runner, t.TempDir(), time.Millisecond, 60*time.Second)

	out := d.RunScript(context.Background(), "print(2+2)")
	assert.True(t, out.Success)
	assert.Equal(t, "4\n", out.Stdout)
}
