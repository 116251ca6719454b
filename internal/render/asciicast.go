package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vtemian/claude-notes/internal/transcript"
)

// emojiFallbacks replaces glyphs that render poorly in the terminal fonts
// used by GIF converters.
var emojiFallbacks = map[string]string{
	"⏺": "*",
	"⎿": "\\",
	"☐": "[ ]",
	"☒": "[x]",
	"✓": "[OK]",
	"→": "->",
	"·": "-",
}

// CastRenderer produces an asciicast v2 recording of the conversation:
// terminal-rendered turns replayed with typing and pause timing. The output
// is the JSON-lines .cast format that asciinema-derived converters accept.
type CastRenderer struct {
	Cols        int
	Rows        int
	TypingSpeed float64 // seconds per character while "typing" a line
	Pause       float64 // seconds between turn groups
	MaxDuration float64 // advisory cap in seconds; 0 means unlimited
	Reverse     bool
	Fallbacks   bool // replace emoji with ASCII stand-ins

	term TerminalRenderer
}

func NewCastRenderer() *CastRenderer {
	return &CastRenderer{
		Cols:        120,
		Rows:        30,
		TypingSpeed: 0.01,
		Pause:       1.5,
		Fallbacks:   true,
	}
}

type castHeader struct {
	Version   int    `json:"version"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Timestamp int64  `json:"timestamp"`
	Title     string `json:"title,omitempty"`
}

func (r *CastRenderer) Render(conv *transcript.Conversation) (string, error) {
	var b strings.Builder

	header := castHeader{
		Version:   2,
		Width:     r.Cols,
		Height:    r.Rows,
		Timestamp: time.Now().Unix(),
		Title:     conv.Info.ConversationID,
	}
	if err := writeCastLine(&b, header); err != nil {
		return "", err
	}

	clock := 0.0
	truncated := false

	for _, g := range orderedGroups(conv, r.Reverse) {
		part := r.term.renderGroup(g, conv)
		if part == "" {
			continue
		}
		if r.Fallbacks {
			part = replaceEmoji(part)
		}

		for _, line := range strings.Split(part, "\n") {
			clock += r.lineDelay(line)
			if r.MaxDuration > 0 && clock > r.MaxDuration {
				truncated = true
				break
			}
			if err := writeCastEvent(&b, clock, line+"\r\n"); err != nil {
				return "", err
			}
		}
		if truncated {
			break
		}

		clock += r.Pause
		if err := writeCastEvent(&b, clock, "\r\n"); err != nil {
			return "", err
		}
	}

	if truncated {
		if err := writeCastEvent(&b, r.MaxDuration, "\r\n... recording truncated\r\n"); err != nil {
			return "", err
		}
	}

	return b.String(), nil
}

// lineDelay simulates typing: proportional to line length, capped so long
// tool output does not stall the recording.
func (r *CastRenderer) lineDelay(line string) float64 {
	delay := r.TypingSpeed * float64(len([]rune(line)))
	if delay > 1.0 {
		return 1.0
	}
	if delay < 0.05 {
		return 0.05
	}
	return delay
}

func writeCastLine(b *strings.Builder, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cast line: %w", err)
	}
	b.Write(raw)
	b.WriteByte('\n')
	return nil
}

func writeCastEvent(b *strings.Builder, at float64, data string) error {
	return writeCastLine(b, []any{roundClock(at), "o", data})
}

// roundClock keeps event times to millisecond precision, matching what
// asciinema itself records.
func roundClock(t float64) float64 {
	return float64(int64(t*1000)) / 1000
}

func replaceEmoji(s string) string {
	for from, to := range emojiFallbacks {
		s = strings.ReplaceAll(s, from, to)
	}
	return s
}
