// Package render turns loaded conversations into display formats: colorized
// terminal text, a standalone HTML document, and asciicast v2 recordings.
//
// Renderers are pure consumers: they read the grouped turns, the
// conversation aggregate, and the tool-result mapping, and never re-run
// grouping or correlation themselves.
package render

import (
	"strings"

	"github.com/vtemian/claude-notes/internal/group"
	"github.com/vtemian/claude-notes/internal/transcript"
)

// Renderer produces one conversation's rendering as a string.
type Renderer interface {
	Render(conv *transcript.Conversation) (string, error)
}

// orderedGroups returns the conversation's groups in display order. Reverse
// shows the newest turn first; group members stay in chronological order
// either way.
func orderedGroups(conv *transcript.Conversation, reverse bool) []group.Group {
	if !reverse {
		return conv.Groups
	}
	out := make([]group.Group, len(conv.Groups))
	for i, g := range conv.Groups {
		out[len(conv.Groups)-1-i] = g
	}
	return out
}

// truncateLine shortens a line to max runes, appending an ellipsis marker.
func truncateLine(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// nonBlankLines splits text into lines, dropping blank ones.
func nonBlankLines(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
