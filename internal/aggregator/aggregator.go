// Package aggregator reduces a transcript's record sequence to its
// conversation-level metadata.
package aggregator

import (
	"time"

	"github.com/vtemian/claude-notes/internal/model"
)

// TokenTotals accumulates the four usage counters across every record in a
// file that carries a usage block.
type TokenTotals struct {
	Input         int64 `json:"input"`
	Output        int64 `json:"output"`
	CacheRead     int64 `json:"cache_read"`
	CacheCreation int64 `json:"cache_creation"`
}

// ConversationInfo is the flat per-file aggregate. Every field is optional:
// a transcript that never mentions a value leaves it zero. Computed once per
// load and never mutated afterwards.
type ConversationInfo struct {
	FileName       string        `json:"file_name,omitempty"`
	ConversationID string        `json:"conversation_id,omitempty"`
	SessionID      string        `json:"session_id,omitempty"`
	MessageCount   int           `json:"message_count"`
	TotalEntries   int           `json:"total_entries"`
	StartTime      string        `json:"start_time,omitempty"`
	EndTime        string        `json:"end_time,omitempty"`
	Model          string        `json:"model,omitempty"`
	Version        string        `json:"version,omitempty"`
	GitBranch      string        `json:"git_branch,omitempty"`
	TotalDuration  time.Duration `json:"-"`
	Tokens         TokenTotals   `json:"tokens"`
}

// Summarize computes the aggregate in a single pass. It is a pure function:
// re-running it on the same sequence yields an identical value.
//
// MessageCount counts only non-meta records; TotalEntries counts all.
// Timestamps are ISO-8601 strings, which order correctly lexicographically,
// so Start/EndTime are the plain string min/max. Scalar fields (model,
// version, git branch) are last-seen-wins; session id keeps the first value
// encountered. Token counters are additive across all records.
func Summarize(records []model.Record) ConversationInfo {
	info := ConversationInfo{TotalEntries: len(records)}

	for _, rec := range records {
		if !rec.IsMeta {
			info.MessageCount++
		}

		if ts := rec.Timestamp; ts != "" {
			if info.StartTime == "" || ts < info.StartTime {
				info.StartTime = ts
			}
			if info.EndTime == "" || ts > info.EndTime {
				info.EndTime = ts
			}
		}

		if rec.SessionID != "" && info.SessionID == "" {
			info.SessionID = rec.SessionID
		}
		if rec.Version != "" {
			info.Version = rec.Version
		}
		if rec.GitBranch != "" {
			info.GitBranch = rec.GitBranch
		}
		if rec.DurationMs > 0 {
			info.TotalDuration += time.Duration(rec.DurationMs) * time.Millisecond
		}

		if rec.Message == nil {
			continue
		}
		if rec.Message.Model != "" {
			info.Model = rec.Message.Model
		}
		if u := rec.Message.Usage; u != nil {
			info.Tokens.Input += u.InputTokens
			info.Tokens.Output += u.OutputTokens
			info.Tokens.CacheRead += u.CacheReadInputTokens
			info.Tokens.CacheCreation += u.CacheCreationInputTokens
		}
	}

	return info
}
