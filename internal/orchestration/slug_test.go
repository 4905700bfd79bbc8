package orchestration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveProjectName(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{name: "react_todo", message: "Create a React Todo App", expected: "react-todo"},
		{name: "stop_words_removed", message: "Build the application project", expected: "my-project"},
		{name: "first_three_words", message: "flask weather dashboard with charts", expected: "flask-weather-dashboard"},
		{name: "punctuation_ignored", message: "Create a to-do list, please!", expected: "to-do-list"},
		{name: "empty_message", message: "", expected: "my-project"},
		{name: "case_folded", message: "MAKE A FLASK API", expected: "flask-api"},
		{
			name:     "length_capped",
			message:  "supercalifragilisticexpialidocious organization dashboard",
			expected: "supercalifragilisticexpialidoc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveProjectName(tt.message))
		})
	}
}

func TestDeriveProjectName_FilesystemSafe(t *testing.T) {
	name := DeriveProjectName("Create ../../../etc/passwd reader")
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, "..")
}
