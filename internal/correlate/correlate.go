// Package correlate matches tool invocations to their results.
//
// A tool_use content item and its result are recorded as separate,
// non-adjacent lines of the transcript. Correlation scans the record
// sequence once, pairing each tool_use-bearing assistant record with the
// first qualifying result found within a bounded lookahead window.
package correlate

import (
	"strings"

	"github.com/vtemian/claude-notes/internal/model"
)

// DefaultWindow is how many records past a tool_use record are searched for
// its result. Transcripts are strictly turn-taking, so the result is almost
// always the very next record; the bound only guards against pathological
// scans.
const DefaultWindow = 4

// legacyPrefix marks string-form tool results written by old CLI versions.
const legacyPrefix = "Tool Result:"

// reminderMarker starts trailing system content that is appended to tool
// output but is not part of it.
const reminderMarker = "<system-reminder>"

// structuredKeys are the toolUseResult fields whose presence means the
// payload carries patch data that renderers need in structured form.
var structuredKeys = []string{"structuredPatch", "edits", "filePath"}

// Options configures a correlation pass.
type Options struct {
	// Window bounds the forward search. Zero or negative selects
	// DefaultWindow.
	Window int
}

// ResultMap maps a correlation key to the tool result stored for it. Keys
// are the uuid of the tool_use-bearing record. The map is built once by
// Correlate and never mutated afterwards.
type ResultMap map[string]model.ToolResult

// Lookup resolves a tool result by the containing record's uuid first, then
// by the tool_use item's own id. A miss means no result is available, which
// renderers treat as "invocation without output", not an error.
func (m ResultMap) Lookup(uuid, id string) (model.ToolResult, bool) {
	if uuid != "" {
		if res, ok := m[uuid]; ok {
			return res, true
		}
	}
	if id != "" {
		if res, ok := m[id]; ok {
			return res, true
		}
	}
	return model.ToolResult{}, false
}

// Correlate builds the tool-use to tool-result mapping for one record
// sequence. It is a pure function of record order: the same input always
// yields the same mapping, and the input is never mutated. At most one
// result is stored per record uuid; a tool_use whose result falls outside
// the window gets no entry.
func Correlate(records []model.Record, opts Options) ResultMap {
	window := opts.Window
	if window <= 0 {
		window = DefaultWindow
	}

	results := make(ResultMap)

	for i, rec := range records {
		if rec.Type != model.TypeAssistant || rec.UUID == "" || !rec.HasToolUse() {
			continue
		}

		limit := i + window
		if limit >= len(records) {
			limit = len(records) - 1
		}

		for j := i + 1; j <= limit; j++ {
			next := records[j]

			switch next.Type {
			case model.TypeUser:
				text, ok := userResultText(next)
				if !ok {
					continue
				}
				results[rec.UUID] = buildResult(text, next)

			case model.TypeToolResult:
				results[rec.UUID] = directResult(next)

			default:
				continue
			}
			break
		}
	}

	return results
}

// userResultText extracts result text from a user-role record that carries a
// tool result, in either schema: a content-item sequence holding a
// tool_result item, or the legacy plain string with the "Tool Result:"
// prefix. Returns false when the record holds no result.
func userResultText(rec model.Record) (string, bool) {
	if rec.Message == nil {
		return "", false
	}
	content := rec.Message.Content

	if content.IsPlain {
		trimmed := strings.TrimSpace(content.Plain)
		if !strings.HasPrefix(trimmed, legacyPrefix) {
			return "", false
		}
		text := strings.TrimSpace(strings.TrimPrefix(trimmed, legacyPrefix))
		if text == "" {
			return "", false
		}
		return text, true
	}

	for _, item := range content.Items {
		if item.Type == model.ItemToolResult {
			if text := string(item.Result); text != "" {
				return text, true
			}
			return "", false
		}
	}
	return "", false
}

// buildResult assembles the stored value for a user-record result, keeping
// the structured toolUseResult payload when it carries patch data.
func buildResult(text string, rec model.Record) model.ToolResult {
	text = stripReminder(text)

	if obj, ok := rec.ToolUseResultObject(); ok && hasStructuredKey(obj) {
		return model.ToolResult{Text: text, Structured: obj}
	}
	return model.ToolResult{Text: text}
}

// directResult extracts the value of a record whose type is "tool_result"
// itself. The message field (string form or nested content) is the result; a
// bare toolUseResult string or object overrides it.
func directResult(rec model.Record) model.ToolResult {
	var text string
	if rec.Message != nil {
		if rec.Message.Content.IsPlain {
			text = rec.Message.Content.Plain
		} else {
			for _, item := range rec.Message.Content.Items {
				if item.Text != "" {
					text = item.Text
					break
				}
				if item.Result != "" {
					text = string(item.Result)
					break
				}
			}
		}
	}

	if s, ok := rec.ToolUseResultString(); ok {
		text = s
	} else if obj, ok := rec.ToolUseResultObject(); ok {
		if c, ok := obj["content"].(string); ok {
			text = c
		}
	}

	return model.ToolResult{Text: stripReminder(text)}
}

// stripReminder truncates result text at an embedded system-reminder marker;
// the marker and everything after it is not tool output.
func stripReminder(text string) string {
	if idx := strings.Index(text, reminderMarker); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	return text
}

func hasStructuredKey(obj map[string]any) bool {
	for _, k := range structuredKeys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}
