package project

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/clawworks/agent-platform/agent-orchestrator/internal/models"
)

// ParseError reports an unrecoverable structural problem in generator output.
// Anything less severe degrades to an empty or partial project instead.
type ParseError struct {
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid project structure at %q: %s", e.Path, e.Reason)
}

var (
	filesSectionRe = regexp.MustCompile(`(?is)FILES:(.*?)(?:STRUCTURE:|SETUP:|RUN:|\z)`)
	fileHeaderRe   = regexp.MustCompile(`---[ \t]*([^\n-][^\n]*?)[ \t]*---[ \t]*\r?\n`)
)

// Filenames that mark a file as the project entry point. The first file in
// generation order whose basename matches wins.
var mainFileNames = []string{"app.py", "main.py", "index.js", "app.js", "server.js"}

// Parse extracts a multi-file project from raw generator output. The expected
// shape is a FILES: section containing "--- path ---" delimited blocks,
// optionally followed by STRUCTURE:, SETUP: and RUN: sections.
//
// Missing or empty sections yield an empty project rather than an error; the
// caller decides whether to fall back to single-file extraction. The only
// hard failure is a path used as both a file and a directory.
func Parse(raw string) (models.ParsedProject, error) {
	empty := models.ParsedProject{Files: models.FileMap{}, Tree: models.ProjectTree{}}

	m := filesSectionRe.FindStringSubmatch(raw)
	if m == nil {
		return empty, nil
	}
	section := m[1]

	headers := fileHeaderRe.FindAllStringSubmatchIndex(section, -1)
	if len(headers) == 0 {
		return empty, nil
	}

	files := models.FileMap{}
	var order []string
	for i, h := range headers {
		p := normalizePath(section[h[2]:h[3]])
		if p == "" {
			continue
		}
		start := h[1]
		end := len(section)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		if _, seen := files[p]; !seen {
			order = append(order, p)
		}
		// Duplicate delimiter for the same path: last occurrence wins.
		files[p] = strings.TrimSpace(section[start:end])
	}
	if len(files) == 0 {
		return empty, nil
	}

	tree, err := BuildTree(order)
	if err != nil {
		return models.ParsedProject{}, err
	}

	return models.ParsedProject{
		Files:    files,
		Tree:     tree,
		MainFile: pickMainFile(order),
	}, nil
}

// BuildTree derives the nested directory view for a set of file paths.
func BuildTree(paths []string) (models.ProjectTree, error) {
	tree := models.ProjectTree{}
	for _, p := range paths {
		parts := strings.Split(p, "/")
		cur := tree
		for i, part := range parts {
			if i == len(parts)-1 {
				if _, isDir := cur[part].(models.ProjectTree); isDir {
					return nil, &ParseError{Path: p, Reason: "path is used as both a file and a directory"}
				}
				cur[part] = models.TreeFileMarker
				continue
			}
			switch node := cur[part].(type) {
			case nil:
				next := models.ProjectTree{}
				cur[part] = next
				cur = next
			case models.ProjectTree:
				cur = node
			default:
				return nil, &ParseError{Path: p, Reason: "path is used as both a file and a directory"}
			}
		}
	}
	return tree, nil
}

func pickMainFile(order []string) string {
	for _, p := range order {
		base := strings.ToLower(path.Base(p))
		for _, name := range mainFileNames {
			if base == name {
				return p
			}
		}
	}
	if len(order) > 0 {
		return order[0]
	}
	return ""
}

// normalizePath converts a delimiter path to a clean, relative, forward-slash
// form. Paths escaping the project root are dropped entirely.
func normalizePath(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, `\`, "/"))
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return ""
	}
	var parts []string
	for _, part := range strings.Split(p, "/") {
		if part == "" || part == "." {
			continue
		}
		if part == ".." {
			return ""
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "/")
}
