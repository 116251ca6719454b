package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"path/filepath"
	"strings"
	"time"

	"github.com/vtemian/claude-notes/internal/model"
	"github.com/vtemian/claude-notes/internal/transcript"
)

//go:embed templates
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

// HTMLRenderer produces a standalone HTML document (or a per-conversation
// fragment) with embedded CSS.
type HTMLRenderer struct {
	Reverse bool
	// Now is the reference time for humanized dates. Zero means time.Now.
	Now time.Time
}

func NewHTMLRenderer() *HTMLRenderer { return &HTMLRenderer{} }

type pageView struct {
	CSS           template.CSS
	Multi         bool
	Conversations []conversationView
}

type conversationView struct {
	ID        string
	Index     int
	StartTime string
	Humanized string
	Meta      string
	Groups    []groupView
}

type groupView struct {
	Role      string
	RoleLabel string
	Blocks    []template.HTML
}

// Render returns the fragment for a single conversation.
func (r *HTMLRenderer) Render(conv *transcript.Conversation) (string, error) {
	var b strings.Builder
	view := r.conversationView(conv, 1)
	if err := pageTmpl.ExecuteTemplate(&b, "conversation", view); err != nil {
		return "", fmt.Errorf("render html fragment: %w", err)
	}
	return b.String(), nil
}

// RenderDocument returns a complete HTML document for one or more
// conversations, with a table of contents when there are several.
func (r *HTMLRenderer) RenderDocument(convs []*transcript.Conversation) (string, error) {
	css, err := templateFS.ReadFile("templates/style.css")
	if err != nil {
		return "", fmt.Errorf("load embedded css: %w", err)
	}

	view := pageView{
		CSS:   template.CSS(css),
		Multi: len(convs) > 1,
	}
	for i, conv := range convs {
		view.Conversations = append(view.Conversations, r.conversationView(conv, i+1))
	}

	var b strings.Builder
	if err := pageTmpl.ExecuteTemplate(&b, "page", view); err != nil {
		return "", fmt.Errorf("render html document: %w", err)
	}
	return b.String(), nil
}

func (r *HTMLRenderer) conversationView(conv *transcript.Conversation, index int) conversationView {
	info := conv.Info
	view := conversationView{
		ID:        info.ConversationID,
		Index:     index,
		StartTime: info.StartTime,
		Humanized: humanizeDate(info.StartTime, r.now()),
		Meta:      metaLine(info.MessageCount, info.Model, info.Tokens.Input, info.Tokens.Output),
	}

	for _, g := range orderedGroups(conv, r.Reverse) {
		gv := groupView{Role: g.Role, RoleLabel: roleLabel(g.Role)}
		for _, rec := range g.Records {
			gv.Blocks = append(gv.Blocks, recordBlocks(rec, g.Role, conv)...)
		}
		if len(gv.Blocks) > 0 {
			view.Groups = append(view.Groups, gv)
		}
	}
	return view
}

func (r *HTMLRenderer) now() time.Time {
	if r.Now.IsZero() {
		return time.Now()
	}
	return r.Now
}

func metaLine(messages int, model string, in, out int64) string {
	parts := []string{fmt.Sprintf("%d messages", messages)}
	if model != "" {
		parts = append(parts, model)
	}
	if in+out > 0 {
		parts = append(parts, fmt.Sprintf("%d in / %d out tokens", in, out))
	}
	return strings.Join(parts, " · ")
}

func roleLabel(role string) string {
	switch role {
	case "user":
		return "You"
	case "assistant":
		return "Claude"
	default:
		return role
	}
}

// recordBlocks converts one record's content into HTML blocks.
func recordBlocks(rec model.Record, role string, conv *transcript.Conversation) []template.HTML {
	if rec.Message == nil {
		return nil
	}
	content := rec.Message.Content

	if content.IsPlain {
		if block := textBlock(content.Plain); block != "" {
			return []template.HTML{block}
		}
		return nil
	}

	var blocks []template.HTML
	for _, item := range content.Items {
		switch item.Type {
		case model.ItemText:
			if block := textBlock(item.Text); block != "" {
				blocks = append(blocks, block)
			}
		case model.ItemToolUse:
			blocks = append(blocks, toolBlock(item, lookupResult(conv, rec, item)))
		}
	}
	return blocks
}

// textBlock escapes text content into a paragraph, preserving line breaks.
func textBlock(text string) template.HTML {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	escaped := html.EscapeString(text)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>\n")
	return template.HTML(`<div class="text-block">` + escaped + `</div>`)
}

// toolBlock renders a tool invocation with its name, primary argument,
// result preview, and a colored diff when structured patch data is present.
func toolBlock(item model.ContentItem, result *model.ToolResult) template.HTML {
	name := item.Name
	if name == "" {
		name = "Unknown Tool"
	}

	var b strings.Builder
	b.WriteString(`<div class="tool-block">`)
	b.WriteString(`<span class="tool-name">` + html.EscapeString(name) + `</span>`)
	if arg := toolArgument(item); arg != "" {
		b.WriteString(`<span class="tool-arg">(` + html.EscapeString(arg) + `)</span>`)
	}

	if patch := structuredPatch(result); patch != nil {
		b.WriteString(diffHTML(patch))
	} else if result != nil && strings.TrimSpace(result.Text) != "" {
		lines := nonBlankLines(result.Text)
		shown := lines
		if len(shown) > 8 {
			shown = shown[:8]
		}
		b.WriteString(`<pre class="tool-result">` + html.EscapeString(strings.Join(shown, "\n")))
		if len(lines) > len(shown) {
			b.WriteString(html.EscapeString(fmt.Sprintf("\n… +%d lines", len(lines)-len(shown))))
		}
		b.WriteString(`</pre>`)
	}

	b.WriteString(`</div>`)
	return template.HTML(b.String())
}

// toolArgument picks the headline argument for a tool invocation.
func toolArgument(item model.ContentItem) string {
	var in struct {
		Command     string `json:"command"`
		FilePath    string `json:"file_path"`
		Pattern     string `json:"pattern"`
		Path        string `json:"path"`
		Description string `json:"description"`
	}
	decodeInput(item, &in)

	switch {
	case in.Command != "":
		return truncateLine(in.Command, 80)
	case in.FilePath != "":
		return filepath.Base(in.FilePath)
	case in.Pattern != "":
		return in.Pattern
	case in.Description != "":
		return in.Description
	case in.Path != "":
		return in.Path
	default:
		return ""
	}
}

// diffHTML renders structuredPatch hunks as add/del/context lines.
func diffHTML(patch []any) string {
	var b strings.Builder
	b.WriteString(`<pre class="tool-diff">`)
	for _, hunk := range patch {
		m, _ := hunk.(map[string]any)
		lines, _ := m["lines"].([]any)
		for _, l := range lines {
			s, ok := l.(string)
			if !ok {
				continue
			}
			class := "diff-ctx"
			switch {
			case strings.HasPrefix(s, "+"):
				class = "diff-add"
			case strings.HasPrefix(s, "-"):
				class = "diff-del"
			}
			b.WriteString(`<span class="` + class + `">` + html.EscapeString(s) + "</span>\n")
		}
	}
	b.WriteString(`</pre>`)
	return b.String()
}

// humanizeDate renders an ISO timestamp relative to now ("3 hours ago"),
// falling back to the raw string when it does not parse.
func humanizeDate(ts string, now time.Time) string {
	if ts == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}

	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 30*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	default:
		return t.Local().Format("January 2, 2006 at 3:04 PM")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// InfoJSON serializes conversation aggregates for the dashboard API.
func InfoJSON(convs []*transcript.Conversation) ([]byte, error) {
	infos := make([]any, 0, len(convs))
	for _, c := range convs {
		infos = append(infos, c.Info)
	}
	return json.Marshal(infos)
}
