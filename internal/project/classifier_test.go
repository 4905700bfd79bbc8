package project

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clawworks/agent-platform/agent-orchestrator/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		files    models.FileMap
		expected models.ProjectConfig
	}{
		{
			name: "react_project",
			files: models.FileMap{
				"package.json": `{"dependencies": {"react": "^18.0.0"}}`,
				"src/App.js":   "export default 1;",
			},
			expected: models.ProjectConfig{
				ProjectType:    "react",
				Language:       "javascript",
				IsServer:       true,
				InstallCommand: "npm install",
				StartCommand:   "npm start",
				Port:           5555,
				Dependencies:   []string{"react", "react-dom"},
			},
		},
		{
			name: "express_project",
			files: models.FileMap{
				"package.json": `{"dependencies": {"express": "^4.18.0"}}`,
				"index.js":     "const app = require('express')();",
			},
			expected: models.ProjectConfig{
				ProjectType:    "express",
				Language:       "javascript",
				IsServer:       true,
				InstallCommand: "npm install",
				StartCommand:   "node index.js",
				Port:           5555,
				Dependencies:   []string{"express"},
			},
		},
		{
			name: "plain_node_project",
			files: models.FileMap{
				"package.json": `{"name": "tool"}`,
				"index.js":     "console.log(1);",
			},
			expected: models.ProjectConfig{
				ProjectType:    "node",
				Language:       "javascript",
				InstallCommand: "npm install",
				StartCommand:   "node index.js",
			},
		},
		{
			name: "flask_project",
			files: models.FileMap{
				"app.py":           "from flask import Flask",
				"requirements.txt": "flask",
			},
			expected: models.ProjectConfig{
				ProjectType:    "flask",
				Language:       "python",
				IsServer:       true,
				InstallCommand: "pip install -r requirements.txt",
				StartCommand:   "python app.py",
				Port:           5000,
			},
		},
		{
			name: "fastapi_project",
			files: models.FileMap{
				"main.py": "from fastapi import FastAPI",
			},
			expected: models.ProjectConfig{
				ProjectType:    "fastapi",
				Language:       "python",
				IsServer:       true,
				InstallCommand: "pip install -r requirements.txt",
				StartCommand:   "uvicorn main:app --port 8100",
				Port:           8100,
			},
		},
		{
			name: "plain_python_prefers_main",
			files: models.FileMap{
				"util.py": "x = 1",
				"main.py": "print('hi')",
			},
			expected: models.ProjectConfig{
				ProjectType:  "python",
				Language:     "python",
				StartCommand: "python main.py",
			},
		},
		{
			name: "plain_python_first_sorted",
			files: models.FileMap{
				"zeta.py":  "x = 1",
				"alpha.py": "y = 2",
			},
			expected: models.ProjectConfig{
				ProjectType:  "python",
				Language:     "python",
				StartCommand: "python alpha.py",
			},
		},
		{
			name: "plain_javascript",
			files: models.FileMap{
				"script.js": "console.log(1);",
			},
			expected: models.ProjectConfig{
				ProjectType:  "javascript",
				Language:     "javascript",
				StartCommand: "node index.js",
			},
		},
		{
			name:     "unknown_project",
			files:    models.FileMap{"README.md": "docs only"},
			expected: models.ProjectConfig{ProjectType: "unknown", Language: "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.files))
		})
	}
}

// A package.json mentioning react outranks flask content elsewhere in the
// project.
func TestClassify_Precedence(t *testing.T) {
	files := models.FileMap{
		"package.json": `{"dependencies": {"react": "^18.0.0"}}`,
		"backend.py":   "from flask import Flask",
	}

	cfg := Classify(files)
	assert.Equal(t, "react", cfg.ProjectType)
}

func TestClassify_Idempotent(t *testing.T) {
	files := models.FileMap{
		"b.py": "x = 1",
		"a.py": "y = 2",
		"c.py": "z = 3",
	}

	first := Classify(files)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Classify(files))
	}
}

func TestClassify_CaseInsensitiveMatching(t *testing.T) {
	files := models.FileMap{
		"package.json": `{"dependencies": {"React": "^18.0.0"}}`,
	}

	assert.Equal(t, "react", Classify(files).ProjectType)
}
