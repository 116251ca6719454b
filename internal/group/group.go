// Package group partitions a transcript's records into displayed turns.
//
// Consecutive records sharing a message role form one group. Records that
// are not standalone display units (raw tool results, legacy "Tool Result:"
// user lines, meta records, records without a role) are excluded; their
// content surfaces inline through the tool_use items that reference them.
package group

import (
	"strings"

	"github.com/vtemian/claude-notes/internal/model"
)

const legacyPrefix = "Tool Result:"

// Group is a maximal run of consecutive display-eligible records with the
// same role. A group is never empty and its role never changes once formed.
type Group struct {
	Role    string
	Records []model.Record
}

// Partition groups records by role continuity, preserving order: the
// concatenation of all groups' members equals the display-eligible
// subsequence of the input in original order. Empty or all-excluded input
// yields nil, not an error.
func Partition(records []model.Record) []Group {
	var groups []Group
	var current *Group

	for _, rec := range records {
		if excluded(rec) {
			continue
		}
		role := rec.Role()

		if current != nil && current.Role == role {
			current.Records = append(current.Records, rec)
			continue
		}
		groups = append(groups, Group{Role: role, Records: []model.Record{rec}})
		current = &groups[len(groups)-1]
	}

	return groups
}

// excluded reports whether a record is filtered from grouping.
func excluded(rec model.Record) bool {
	// Raw tool results display inline with their tool_use, never alone.
	if rec.Type == model.TypeToolResult {
		return true
	}

	// Legacy-schema tool results: user records whose string content starts
	// with the sentinel prefix.
	if rec.Type == model.TypeUser && rec.Message != nil {
		content := rec.Message.Content
		if content.IsPlain && strings.HasPrefix(strings.TrimSpace(content.Plain), legacyPrefix) {
			return true
		}
	}

	// Administrative records and records with no role are not turns.
	if rec.IsMeta || rec.Role() == "" {
		return true
	}

	return false
}
