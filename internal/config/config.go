package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Settings holds all runtime configuration for the orchestrator. Values come
// from an optional YAML file (ORCHESTRATOR_CONFIG) with environment variables
// taking precedence.
type Settings struct {
	Port              string `yaml:"port"`
	LLMServiceURL     string `yaml:"llm_service_url"`
	SandboxServiceURL string `yaml:"sandbox_service_url"`
	WorkspacePath     string `yaml:"workspace_path"`
	DatabaseURL       string `yaml:"database_url"`
	DefaultIterations int    `yaml:"default_iterations"`
	MaxIterations     int    `yaml:"max_iterations"`
	WarmupSeconds     int    `yaml:"warmup_seconds"`
	ScriptTimeoutSecs int    `yaml:"script_timeout_seconds"`
}

func defaults() Settings {
	return Settings{
		Port:              "8080",
		LLMServiceURL:     "http://localhost:8090",
		SandboxServiceURL: "http://localhost:8070",
		WorkspacePath:     "./workspace",
		DefaultIterations: 5,
		MaxIterations:     10,
		WarmupSeconds:     5,
		ScriptTimeoutSecs: 60,
	}
}

// Load builds Settings from defaults, the optional YAML file named by
// ORCHESTRATOR_CONFIG, and environment variables, in increasing precedence.
func Load() (Settings, error) {
	s := defaults()

	if path := os.Getenv("ORCHESTRATOR_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return s, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(&s)

	if s.DefaultIterations < 1 {
		return s, fmt.Errorf("default_iterations must be at least 1, got %d", s.DefaultIterations)
	}
	if s.MaxIterations < s.DefaultIterations {
		s.MaxIterations = s.DefaultIterations
	}
	return s, nil
}

func applyEnv(s *Settings) {
	setString(&s.Port, "PORT")
	setString(&s.LLMServiceURL, "LLM_SERVICE_URL")
	setString(&s.SandboxServiceURL, "SANDBOX_SERVICE_URL")
	setString(&s.WorkspacePath, "WORKSPACE_PATH")
	setString(&s.DatabaseURL, "DATABASE_URL")
	setInt(&s.DefaultIterations, "DEFAULT_ITERATIONS")
	setInt(&s.MaxIterations, "MAX_ITERATIONS")
	setInt(&s.WarmupSeconds, "WARMUP_SECONDS")
	setInt(&s.ScriptTimeoutSecs, "SCRIPT_TIMEOUT_SECONDS")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
