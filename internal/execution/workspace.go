package execution

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/clawworks/agent-platform/agent-orchestrator/internal/models"
)

// saveWorkspace writes the generated files under the workspace root so the
// user keeps a copy regardless of what the sandbox does with them. An
// existing project directory is never overwritten; a timestamp-suffixed
// sibling is used instead.
func saveWorkspace(root string, projectName string, files models.FileMap) (string, error) {
	if len(files) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("failed to create workspace root: %w", err)
	}

	dir := filepath.Join(root, projectName)
	if _, err := os.Stat(dir); err == nil {
		dir = filepath.Join(root, fmt.Sprintf("%s_%s", projectName, time.Now().Format("20060102_150405")))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create project directory: %w", err)
	}

	for p, content := range files {
		clean := filepath.Clean(filepath.FromSlash(p))
		if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			continue
		}
		full := filepath.Join(dir, clean)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return dir, fmt.Errorf("failed to create directory for %s: %w", p, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			return dir, fmt.Errorf("failed to write %s: %w", p, err)
		}
	}

	return dir, nil
}
