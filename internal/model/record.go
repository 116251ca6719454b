package model

import (
	"encoding/json"
	"strings"
)

// Record type tags that carry meaning for grouping and correlation.
const (
	TypeAssistant  = "assistant"
	TypeUser       = "user"
	TypeToolResult = "tool_result"
)

// Content item type tags.
const (
	ItemText       = "text"
	ItemToolUse    = "tool_use"
	ItemToolResult = "tool_result"
)

// Record is one parsed line of a transcript JSONL file. The on-disk schema is
// open and varies by CLI version; every field here is optional and absent
// fields decode to zero values.
type Record struct {
	Type          string          `json:"type,omitempty"`
	UUID          string          `json:"uuid,omitempty"`
	ParentUUID    string          `json:"parentUuid,omitempty"`
	SessionID     string          `json:"sessionId,omitempty"`
	Version       string          `json:"version,omitempty"`
	GitBranch     string          `json:"gitBranch,omitempty"`
	Timestamp     string          `json:"timestamp,omitempty"`
	IsMeta        bool            `json:"isMeta,omitempty"`
	DurationMs    int64           `json:"durationMs,omitempty"`
	Message       *Message        `json:"message,omitempty"`
	ToolUseResult json.RawMessage `json:"toolUseResult,omitempty"`
}

// Role returns the nested message role, or "" when no message is present.
func (r Record) Role() string {
	if r.Message == nil {
		return ""
	}
	return r.Message.Role
}

// HasToolUse reports whether the record's content sequence contains at least
// one tool_use item.
func (r Record) HasToolUse() bool {
	if r.Message == nil {
		return false
	}
	for _, item := range r.Message.Content.Items {
		if item.Type == ItemToolUse {
			return true
		}
	}
	return false
}

// ToolUseResultObject decodes toolUseResult as a JSON object. The second
// return is false when the field is absent or not an object.
func (r Record) ToolUseResultObject() (map[string]any, bool) {
	if len(r.ToolUseResult) == 0 {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal(r.ToolUseResult, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// ToolUseResultString decodes toolUseResult as a bare JSON string. The second
// return is false when the field is absent or not a string.
func (r Record) ToolUseResultString() (string, bool) {
	if len(r.ToolUseResult) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(r.ToolUseResult, &s); err != nil {
		return "", false
	}
	return s, true
}

// Message is the nested message object of a record. Direct tool_result
// records write a bare string here instead of an object; that string decodes
// into plain content with no role.
type Message struct {
	Role    string  `json:"role,omitempty"`
	Model   string  `json:"model,omitempty"`
	Content Content `json:"content,omitempty"`
	Usage   *Usage  `json:"usage,omitempty"`
}

func (m *Message) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		m.Content = Content{Plain: s, IsPlain: true}
		return nil
	}

	type alias Message
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = Message(a)
	return nil
}

// Content is the string-or-array union of a message's content field. Exactly
// one representation is populated; IsPlain reports which.
type Content struct {
	Plain   string
	Items   []ContentItem
	IsPlain bool
}

func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		c.IsPlain = true
		return json.Unmarshal(data, &c.Plain)
	}
	return json.Unmarshal(data, &c.Items)
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.IsPlain {
		return json.Marshal(c.Plain)
	}
	if c.Items == nil {
		return []byte("null"), nil
	}
	return json.Marshal(c.Items)
}

// IsEmpty reports whether the content carries neither a string nor items.
func (c Content) IsEmpty() bool {
	return !c.IsPlain && len(c.Items) == 0
}

// ContentItem is one element of an array-form content sequence. Type selects
// the variant: "text" populates Text, "tool_use" populates ID/Name/Input,
// "tool_result" populates Result.
type ContentItem struct {
	Type   string          `json:"type"`
	Text   string          `json:"text,omitempty"`
	ID     string          `json:"id,omitempty"`
	Name   string          `json:"name,omitempty"`
	Input  json.RawMessage `json:"input,omitempty"`
	Result ResultText      `json:"content,omitempty"`
}

// ResultText is the content of a tool_result item. Sources write either a
// bare string or an array of text items; array form is flattened by
// concatenating the text fields, which loses no display content.
type ResultText string

func (t *ResultText) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = ResultText(s)
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var items []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		var b strings.Builder
		for _, it := range items {
			b.WriteString(it.Text)
		}
		*t = ResultText(b.String())
		return nil
	}
	// Object or scalar of another kind; keep the raw JSON as display text.
	*t = ResultText(trimmed)
	return nil
}

// Usage is the token accounting block attached to assistant messages.
type Usage struct {
	InputTokens              int64 `json:"input_tokens"`
	OutputTokens             int64 `json:"output_tokens"`
	CacheReadInputTokens     int64 `json:"cache_read_input_tokens"`
	CacheCreationInputTokens int64 `json:"cache_creation_input_tokens"`
}

// ToolResult is the correlated output of a tool invocation. Structured is nil
// for plain text results; when the source carried a patch payload
// (structuredPatch / edits / filePath) it is preserved here untouched so
// renderers can build diff views from it.
type ToolResult struct {
	Text       string
	Structured map[string]any
}
