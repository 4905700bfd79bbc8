package project

import (
	"sort"
	"strings"

	"github.com/clawworks/agent-platform/agent-orchestrator/internal/models"
)

// Classify inspects a generated file set and derives how to install and run
// it. It is a pure function over the file map; rules are ordered and the
// first match wins:
//
//  1. package.json mentioning react
//  2. package.json mentioning express
//  3. any other package.json (plain node script)
//  4. any file content mentioning flask
//  5. any file content mentioning fastapi
//  6. any .py file
//  7. any .js file
//  8. unknown
func Classify(files models.FileMap) models.ProjectConfig {
	if pkg, ok := files["package.json"]; ok {
		lower := strings.ToLower(pkg)
		switch {
		case strings.Contains(lower, "react"):
			return models.ProjectConfig{
				ProjectType:    "react",
				Language:       "javascript",
				IsServer:       true,
				InstallCommand: "npm install",
				StartCommand:   "npm start",
				Port:           5555,
				Dependencies:   []string{"react", "react-dom"},
			}
		case strings.Contains(lower, "express"):
			return models.ProjectConfig{
				ProjectType:    "express",
				Language:       "javascript",
				IsServer:       true,
				InstallCommand: "npm install",
				StartCommand:   "node index.js",
				Port:           5555,
				Dependencies:   []string{"express"},
			}
		default:
			return models.ProjectConfig{
				ProjectType:    "node",
				Language:       "javascript",
				InstallCommand: "npm install",
				StartCommand:   "node index.js",
			}
		}
	}

	if anyContentContains(files, "flask") {
		return models.ProjectConfig{
			ProjectType:    "flask",
			Language:       "python",
			IsServer:       true,
			InstallCommand: "pip install -r requirements.txt",
			StartCommand:   "python app.py",
			Port:           5000,
		}
	}

	if anyContentContains(files, "fastapi") {
		return models.ProjectConfig{
			ProjectType:    "fastapi",
			Language:       "python",
			IsServer:       true,
			InstallCommand: "pip install -r requirements.txt",
			StartCommand:   "uvicorn main:app --port 8100",
			Port:           8100,
		}
	}

	if entry := pythonEntryPoint(files); entry != "" {
		return models.ProjectConfig{
			ProjectType:  "python",
			Language:     "python",
			StartCommand: "python " + entry,
		}
	}

	if anyPathSuffix(files, ".js") {
		return models.ProjectConfig{
			ProjectType:  "javascript",
			Language:     "javascript",
			StartCommand: "node index.js",
		}
	}

	return models.ProjectConfig{ProjectType: "unknown", Language: "unknown"}
}

func anyContentContains(files models.FileMap, needle string) bool {
	for _, content := range files {
		if strings.Contains(strings.ToLower(content), needle) {
			return true
		}
	}
	return false
}

func anyPathSuffix(files models.FileMap, suffix string) bool {
	for p := range files {
		if strings.HasSuffix(p, suffix) {
			return true
		}
	}
	return false
}

// pythonEntryPoint returns the script to run for a plain python project:
// main.py if present, then app.py, then the lexicographically first .py file.
// Sorted iteration keeps the answer stable across runs.
func pythonEntryPoint(files models.FileMap) string {
	if _, ok := files["main.py"]; ok {
		return "main.py"
	}
	if _, ok := files["app.py"]; ok {
		return "app.py"
	}
	paths := make([]string, 0, len(files))
	for p := range files {
		if strings.HasSuffix(p, ".py") {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return ""
	}
	sort.Strings(paths)
	return paths[0]
}
