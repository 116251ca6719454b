package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vtemian/claude-notes/internal/group"
	"github.com/vtemian/claude-notes/internal/model"
	"github.com/vtemian/claude-notes/internal/transcript"
)

var (
	styleHeader   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	styleMeta     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleRole     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleCommand  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	styleReminder = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Faint(true)
	styleItalic   = lipgloss.NewStyle().Faint(true).Italic(true)
)

var (
	commandMessageRe = regexp.MustCompile(`(?s)<command-message>(.*?)</command-message>`)
	commandNameRe    = regexp.MustCompile(`(?s)<command-name>(.*?)</command-name>`)
	systemReminderRe = regexp.MustCompile(`(?s)<system-reminder>(.*?)</system-reminder>`)
)

// TerminalRenderer produces colorized terminal output, one bullet per turn
// group with tool invocations and their results inline.
type TerminalRenderer struct {
	// Reverse shows the newest group first.
	Reverse bool
	// ShowHeader prints a one-line conversation summary before the turns.
	// The plain show command leaves it off; watch and serve modes use it.
	ShowHeader bool
}

func NewTerminalRenderer() *TerminalRenderer { return &TerminalRenderer{} }

func (r *TerminalRenderer) Render(conv *transcript.Conversation) (string, error) {
	var b strings.Builder

	if r.ShowHeader {
		b.WriteString(r.header(conv))
	}

	for _, g := range orderedGroups(conv, r.Reverse) {
		part := r.renderGroup(g, conv)
		if part == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(part)
		b.WriteString("\n")
	}

	return b.String(), nil
}

func (r *TerminalRenderer) header(conv *transcript.Conversation) string {
	info := conv.Info
	line := styleHeader.Render(info.ConversationID)

	var meta []string
	if info.StartTime != "" {
		meta = append(meta, info.StartTime)
	}
	meta = append(meta, fmt.Sprintf("%d messages", info.MessageCount))
	if info.Model != "" {
		meta = append(meta, info.Model)
	}
	if t := info.Tokens; t.Input+t.Output > 0 {
		meta = append(meta, fmt.Sprintf("%d in / %d out tokens", t.Input, t.Output))
	}
	if info.GitBranch != "" {
		meta = append(meta, info.GitBranch)
	}

	return line + "  " + styleMeta.Render(strings.Join(meta, " · ")) + "\n"
}

// renderGroup renders one same-role run of records.
func (r *TerminalRenderer) renderGroup(g group.Group, conv *transcript.Conversation) string {
	var parts []string

	for _, rec := range g.Records {
		if part := r.renderRecord(rec, g.Role, conv); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (r *TerminalRenderer) renderRecord(rec model.Record, role string, conv *transcript.Conversation) string {
	if rec.Message == nil {
		return ""
	}
	content := rec.Message.Content

	if content.IsPlain {
		return r.renderText(content.Plain, role)
	}

	var parts []string
	for _, item := range content.Items {
		switch item.Type {
		case model.ItemText:
			if part := r.renderText(item.Text, role); part != "" {
				parts = append(parts, styleBullet.Render("⏺")+" "+part)
			}
		case model.ItemToolUse:
			result := lookupResult(conv, rec, item)
			parts = append(parts, renderToolUse(item, result))
		}
	}
	return strings.Join(parts, "\n")
}

// renderText indents the body and, for user turns, rewrites the CLI's
// command and system-reminder tags into styled text.
func (r *TerminalRenderer) renderText(text, role string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	if role == "user" {
		text = parseSpecialTags(text)
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	body := strings.TrimPrefix(strings.Join(lines, "\n"), "  ")

	if role != "user" && role != "assistant" {
		return styleRole.Render(role+":") + " " + body
	}
	return body
}

// lookupResult resolves a tool_use item's result, trying the containing
// record's uuid first and the item's own id second.
func lookupResult(conv *transcript.Conversation, rec model.Record, item model.ContentItem) *model.ToolResult {
	if res, ok := conv.Results.Lookup(rec.UUID, item.ID); ok {
		return &res
	}
	return nil
}

// parseSpecialTags rewrites transcript XML-ish tags for display.
func parseSpecialTags(text string) string {
	text = commandMessageRe.ReplaceAllStringFunc(text, func(m string) string {
		inner := commandMessageRe.FindStringSubmatch(m)[1]
		return styleItalic.Render(inner)
	})
	text = commandNameRe.ReplaceAllStringFunc(text, func(m string) string {
		inner := commandNameRe.FindStringSubmatch(m)[1]
		return styleCommand.Render(inner)
	})
	text = systemReminderRe.ReplaceAllStringFunc(text, func(m string) string {
		inner := systemReminderRe.FindStringSubmatch(m)[1]
		return styleReminder.Render("System: " + strings.TrimSpace(inner))
	})
	return text
}
