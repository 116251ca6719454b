package transcript

import (
	"path/filepath"
	"strings"

	"github.com/vtemian/claude-notes/internal/aggregator"
	"github.com/vtemian/claude-notes/internal/correlate"
	"github.com/vtemian/claude-notes/internal/group"
	"github.com/vtemian/claude-notes/internal/model"
)

// Conversation bundles everything a renderer consumes for one transcript
// file: the raw records, the per-file aggregate, the grouped turns, and the
// tool-result mapping. The three derived views are independent read-only
// passes over the same record slice; none of them copies or mutates it.
type Conversation struct {
	Path    string
	Info    aggregator.ConversationInfo
	Records []model.Record
	Groups  []group.Group
	Results correlate.ResultMap
}

// LoadConversation loads one transcript and runs the summarizer, correlator,
// and grouper over it. All derived state is local to the returned value; no
// state is shared across files.
func LoadConversation(path string, opts correlate.Options) (*Conversation, error) {
	records, err := Load(path)
	if err != nil {
		return nil, err
	}

	info := aggregator.Summarize(records)
	info.FileName = filepath.Base(path)
	info.ConversationID = strings.TrimSuffix(info.FileName, filepath.Ext(info.FileName))

	return &Conversation{
		Path:    path,
		Info:    info,
		Records: records,
		Groups:  group.Partition(records),
		Results: correlate.Correlate(records, opts),
	}, nil
}
