package orchestration

import (
	"regexp"
	"strings"
)

const (
	defaultProjectName = "my-project"
	maxProjectNameLen  = 30
)

// Filler words that carry no information about what the project is.
var projectStopWords = map[string]struct{}{
	"create":      {},
	"build":       {},
	"make":        {},
	"a":           {},
	"an":          {},
	"the":         {},
	"app":         {},
	"application": {},
	"project":     {},
}

var wordRe = regexp.MustCompile(`\w+`)

// DeriveProjectName turns a natural-language request into a short,
// filesystem-safe project name: lowercase, stop words removed, first three
// remaining words joined with dashes. "Create a React Todo App" becomes
// "react-todo".
func DeriveProjectName(message string) string {
	words := wordRe.FindAllString(strings.ToLower(message), -1)

	var kept []string
	for _, w := range words {
		if _, stop := projectStopWords[w]; stop {
			continue
		}
		kept = append(kept, w)
		if len(kept) == 3 {
			break
		}
	}

	if len(kept) == 0 {
		return defaultProjectName
	}

	name := strings.Join(kept, "-")
	if len(name) > maxProjectNameLen {
		name = name[:maxProjectNameLen]
	}
	return name
}
