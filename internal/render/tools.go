package render

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vtemian/claude-notes/internal/model"
)

var (
	styleToolName = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true) // cyan
	styleToolArg  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))           // yellow
	styleDim      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))           // gray
	styleAdded    = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))            // green
	styleRemoved  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))           // red
	styleOK       = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	styleBullet   = lipgloss.NewStyle().Bold(true)
)

const resultIndent = "  "

// renderToolUse formats a tool invocation with its correlated result for
// terminal display. Dispatch is by exact tool name; names without a
// dedicated renderer fall back to a generic line rather than failing.
func renderToolUse(item model.ContentItem, result *model.ToolResult) string {
	switch item.Name {
	case "Bash":
		return renderBash(item, result)
	case "Read":
		return renderRead(item, result)
	case "Write":
		return renderWrite(item, result)
	case "Edit":
		return renderEdit(item, result)
	case "MultiEdit":
		return renderMultiEdit(item, result)
	case "Grep":
		return renderGrep(item, result)
	case "LS":
		return renderLS(item, result)
	case "Task":
		return renderTask(item, result)
	case "TodoRead":
		return renderTodoRead(item, result)
	case "TodoWrite":
		return renderTodoWrite(item)
	default:
		return renderGenericTool(item, result)
	}
}

// toolHeader builds the "Name(arg)" invocation line.
func toolHeader(name, arg string) string {
	header := styleBullet.Render("⏺") + " " + styleToolName.Render(name)
	if arg != "" {
		header += "(" + styleToolArg.Render(arg) + ")"
	}
	return header
}

// resultPreview renders up to shown result lines with the ⎿ gutter, plus a
// "+N lines" trailer when the output is longer.
func resultPreview(text string, shown int) string {
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return ""
	}

	var b strings.Builder
	display := lines
	if len(lines) > shown+1 {
		display = lines[:shown]
	}
	for _, line := range display {
		b.WriteString("\n" + resultIndent + styleDim.Render("⎿") + "  " + truncateLine(line, 80))
	}
	if len(lines) > len(display) {
		b.WriteString("\n" + resultIndent + "   " + styleDim.Render(fmt.Sprintf("… +%d lines", len(lines)-len(display))))
	}
	return b.String()
}

func resultText(result *model.ToolResult) string {
	if result == nil {
		return ""
	}
	return result.Text
}

func decodeInput(item model.ContentItem, v any) {
	if len(item.Input) == 0 {
		return
	}
	// Malformed input decodes to zero values; rendering proceeds anyway.
	_ = json.Unmarshal(item.Input, v)
}

func renderBash(item model.ContentItem, result *model.ToolResult) string {
	var in struct {
		Command string `json:"command"`
	}
	decodeInput(item, &in)
	if in.Command == "" {
		in.Command = "unknown command"
	}

	out := toolHeader("Bash", truncateLine(in.Command, 80))
	out += resultPreview(resultText(result), 3)
	return out
}

func renderRead(item model.ContentItem, result *model.ToolResult) string {
	var in struct {
		FilePath string `json:"file_path"`
	}
	decodeInput(item, &in)

	out := toolHeader("Read", filepath.Base(in.FilePath))
	if text := resultText(result); text != "" {
		lines := strings.Split(strings.TrimSpace(text), "\n")
		out += " " + styleDim.Render(fmt.Sprintf("(%d lines)", len(lines)))
	}
	return out
}

func renderWrite(item model.ContentItem, result *model.ToolResult) string {
	var in struct {
		FilePath string `json:"file_path"`
		Content  string `json:"content"`
	}
	decodeInput(item, &in)

	lines := strings.Split(in.Content, "\n")
	out := toolHeader("Write", filepath.Base(in.FilePath))
	out += " " + styleDim.Render(fmt.Sprintf("(%d lines)", len(lines)))
	if strings.Contains(strings.ToLower(resultText(result)), "successfully") {
		out += " " + styleOK.Render("✓")
	}

	shown := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if shown == 5 {
			break
		}
		out += "\n" + resultIndent + styleDim.Render("⎿") + "  " + styleAdded.Render("+ "+truncateLine(line, 60))
		shown++
	}
	if rest := len(lines) - shown; rest > 0 && shown == 5 {
		out += "\n" + resultIndent + "   " + styleDim.Render(fmt.Sprintf("… +%d more lines", rest))
	}
	return out
}

func renderEdit(item model.ContentItem, result *model.ToolResult) string {
	var in struct {
		FilePath  string `json:"file_path"`
		OldString string `json:"old_string"`
		NewString string `json:"new_string"`
	}
	decodeInput(item, &in)

	oldLines := strings.Split(in.OldString, "\n")
	newLines := strings.Split(in.NewString, "\n")

	out := toolHeader("Edit", filepath.Base(in.FilePath))
	switch diff := len(newLines) - len(oldLines); {
	case diff == 0:
		out += " " + styleDim.Render(fmt.Sprintf("(%d lines modified)", len(oldLines)))
	case diff > 0:
		out += " " + styleDim.Render(fmt.Sprintf("(+%d lines)", diff))
	default:
		out += " " + styleDim.Render(fmt.Sprintf("(%d lines)", diff))
	}
	if strings.Contains(strings.ToLower(resultText(result)), "updated") {
		out += " " + styleOK.Render("✓")
	}

	if patch := structuredPatch(result); patch != nil {
		out += renderStructuredPatch(patch, 5)
	} else if result != nil {
		out += renderSimpleDiff(oldLines, newLines)
	}
	return out
}

func renderMultiEdit(item model.ContentItem, result *model.ToolResult) string {
	var in struct {
		FilePath string            `json:"file_path"`
		Edits    []json.RawMessage `json:"edits"`
	}
	decodeInput(item, &in)

	out := toolHeader("MultiEdit", filepath.Base(in.FilePath))
	out += " " + styleDim.Render(fmt.Sprintf("(%d edits)", len(in.Edits)))

	text := resultText(result)
	if strings.Contains(text, "Applied") && strings.Contains(text, "edits") {
		out += " " + styleOK.Render("✓")
	}
	if patch := structuredPatch(result); patch != nil {
		out += renderStructuredPatch(patch, 3)
	}
	return out
}

func renderGrep(item model.ContentItem, result *model.ToolResult) string {
	var in struct {
		Pattern string `json:"pattern"`
		Path    string `json:"path"`
	}
	decodeInput(item, &in)

	out := toolHeader("Grep", in.Pattern)
	if in.Path != "" && in.Path != "." {
		out += " in " + filepath.Base(in.Path)
	}
	if result != nil {
		if matches := nonBlankLines(result.Text); len(matches) > 0 {
			out += " " + styleOK.Render(fmt.Sprintf("(%d matches)", len(matches)))
		} else {
			out += " " + styleDim.Render("(no matches)")
		}
	}
	return out
}

func renderLS(item model.ContentItem, result *model.ToolResult) string {
	var in struct {
		Path string `json:"path"`
	}
	decodeInput(item, &in)

	name := filepath.Base(in.Path)
	if name == "." || name == "/" || name == "" {
		name = in.Path
	}
	out := toolHeader("LS", name+"/")
	if result != nil {
		if items := nonBlankLines(result.Text); len(items) > 0 {
			out += " " + styleDim.Render(fmt.Sprintf("(%d items)", len(items)))
		}
	}
	return out
}

func renderTask(item model.ContentItem, result *model.ToolResult) string {
	var in struct {
		Description string `json:"description"`
	}
	decodeInput(item, &in)
	if in.Description == "" {
		in.Description = "Task"
	}

	out := styleBullet.Render("⏺") + " " + styleToolName.Render("Task") + ": " + in.Description
	if lines := nonBlankLines(resultText(result)); len(lines) > 0 {
		summary := truncateLine(lines[0], 100)
		if len(lines) > 1 {
			summary += "..."
		}
		out += "\n" + resultIndent + styleDim.Render("→") + " " + summary
	}
	return out
}

func renderTodoRead(item model.ContentItem, result *model.ToolResult) string {
	out := toolHeader("Read Todos", "")
	if result != nil {
		count := 0
		for _, line := range strings.Split(result.Text, "\n") {
			if strings.Contains(line, "pending") || strings.Contains(line, "in_progress") ||
				strings.Contains(line, "completed") || strings.Contains(line, "☐") || strings.Contains(line, "☒") {
				count++
			}
		}
		if count > 0 {
			out += " " + styleDim.Render(fmt.Sprintf("(%d todos)", count))
		}
	}
	return out
}

func renderTodoWrite(item model.ContentItem) string {
	var in struct {
		Todos []struct {
			Content string `json:"content"`
			Status  string `json:"status"`
		} `json:"todos"`
	}
	decodeInput(item, &in)

	out := toolHeader("Update Todos", "")
	shown := in.Todos
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for i, todo := range shown {
		content := truncateLine(todo.Content, 60)
		checkbox := "☐"
		if todo.Status == "completed" {
			checkbox = styleOK.Render("☒")
			content = styleDim.Render(content)
		}
		if i == 0 {
			out += "\n" + resultIndent + styleDim.Render("⎿") + "  " + checkbox + " " + content
		} else {
			out += "\n" + resultIndent + "   " + checkbox + " " + content
		}
	}
	if rest := len(in.Todos) - len(shown); rest > 0 {
		out += "\n" + resultIndent + "   " + styleDim.Render(fmt.Sprintf("… +%d more todos", rest))
	}
	return out
}

func renderGenericTool(item model.ContentItem, result *model.ToolResult) string {
	name := item.Name
	if name == "" {
		name = "Unknown Tool"
	}
	out := toolHeader(name, "")
	out += resultPreview(resultText(result), 3)
	return out
}

// structuredPatch pulls the structuredPatch hunk list from a structured tool
// result, or nil when absent.
func structuredPatch(result *model.ToolResult) []any {
	if result == nil || result.Structured == nil {
		return nil
	}
	patch, _ := result.Structured["structuredPatch"].([]any)
	return patch
}

// renderStructuredPatch shows the first hunk's lines with diff coloring and
// a +adds/-dels trailer for the remainder.
func renderStructuredPatch(patch []any, maxLines int) string {
	if len(patch) == 0 {
		return ""
	}
	first, _ := patch[0].(map[string]any)
	rawLines, _ := first["lines"].([]any)

	var lines []string
	for _, l := range rawLines {
		if s, ok := l.(string); ok {
			lines = append(lines, s)
		}
	}
	if len(lines) == 0 {
		return ""
	}

	var b strings.Builder
	display := lines
	if len(display) > maxLines {
		display = display[:maxLines]
	}
	for _, line := range display {
		gutter := "\n" + resultIndent + styleDim.Render("⎿") + "  "
		switch {
		case strings.HasPrefix(line, "-"):
			b.WriteString(gutter + styleRemoved.Render(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(gutter + styleAdded.Render(line))
		default:
			b.WriteString(gutter + styleDim.Render(line))
		}
	}
	if len(lines) > len(display) || len(patch) > 1 {
		adds, dels := 0, 0
		for _, hunk := range patch {
			m, _ := hunk.(map[string]any)
			hunkLines, _ := m["lines"].([]any)
			for _, l := range hunkLines {
				if s, ok := l.(string); ok {
					if strings.HasPrefix(s, "+") {
						adds++
					} else if strings.HasPrefix(s, "-") {
						dels++
					}
				}
			}
		}
		b.WriteString("\n" + resultIndent + "   " + styleDim.Render(fmt.Sprintf("… +%d -%d more changes", adds, dels)))
	}
	return b.String()
}

// renderSimpleDiff previews removed and added lines when no structured patch
// is available.
func renderSimpleDiff(oldLines, newLines []string) string {
	var b strings.Builder
	removed, added := 0, 0

	for _, line := range oldLines {
		if strings.TrimSpace(line) == "" || removed == 3 {
			continue
		}
		b.WriteString("\n" + resultIndent + styleDim.Render("⎿") + "  " + styleRemoved.Render("- "+truncateLine(line, 60)))
		removed++
	}
	for _, line := range newLines {
		if strings.TrimSpace(line) == "" || added == 3 {
			continue
		}
		b.WriteString("\n" + resultIndent + styleDim.Render("⎿") + "  " + styleAdded.Render("+ "+truncateLine(line, 60)))
		added++
	}

	totalRemoved := len(nonBlankLines(strings.Join(oldLines, "\n")))
	totalAdded := len(nonBlankLines(strings.Join(newLines, "\n")))
	if more := (totalAdded - added) + (totalRemoved - removed); more > 0 {
		b.WriteString("\n" + resultIndent + "   " +
			styleDim.Render(fmt.Sprintf("… +%d -%d more changes", totalAdded-added, totalRemoved-removed)))
	}
	return b.String()
}
