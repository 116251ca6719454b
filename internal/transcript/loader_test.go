package transcript

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vtemian/claude-notes/internal/correlate"
)

func writeTranscript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPreservesOrder(t *testing.T) {
	path := writeTranscript(t, `{"type":"user","uuid":"u1"}
{"type":"assistant","uuid":"a1"}
{"type":"user","uuid":"u2"}
`)

	records, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, want := range []string{"u1", "a1", "u2"} {
		if records[i].UUID != want {
			t.Errorf("record %d: expected uuid %s, got %s", i, want, records[i].UUID)
		}
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	path := writeTranscript(t, `{"type":"user","uuid":"u1"}
this is not json
{"type":"assistant","uuid":"a1"}
`)

	records, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records after skipping bad line, got %d", len(records))
	}
	if records[0].UUID != "u1" || records[1].UUID != "a1" {
		t.Errorf("unexpected records: %v", records)
	}
}

func TestLoadIgnoresBlankLines(t *testing.T) {
	path := writeTranscript(t, "\n\n{\"type\":\"user\",\"uuid\":\"u1\"}\n\n\n")

	records, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeTranscript(t, "")

	records, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty sequence, got %d records", len(records))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.jsonl")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadIdempotent(t *testing.T) {
	path := writeTranscript(t, `{"type":"user","uuid":"u1","message":{"role":"user","content":"hi"}}
{"type":"assistant","uuid":"a1","message":{"role":"assistant","content":[{"type":"text","text":"hello"}]}}
`)

	first, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("loading the same file twice must yield identical sequences")
	}
}

func TestLoadConversation(t *testing.T) {
	path := writeTranscript(t, `{"type":"user","uuid":"u1","timestamp":"2026-08-01T10:00:00Z","message":{"role":"user","content":"read the file"}}
{"type":"assistant","uuid":"a1","timestamp":"2026-08-01T10:00:05Z","message":{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"Read","input":{"file_path":"/tmp/a.txt"}}]}}
{"type":"user","uuid":"u2","message":{"role":"user","content":[{"type":"tool_result","content":"file contents"}]}}
`)

	conv, err := LoadConversation(path, correlate.Options{})
	if err != nil {
		t.Fatal(err)
	}

	if conv.Info.ConversationID != "session" {
		t.Errorf("expected conversation id 'session', got %q", conv.Info.ConversationID)
	}
	if conv.Info.TotalEntries != 3 {
		t.Errorf("expected 3 entries, got %d", conv.Info.TotalEntries)
	}
	if len(conv.Groups) != 3 {
		t.Errorf("expected 3 groups, got %d", len(conv.Groups))
	}
	if res, ok := conv.Results.Lookup("a1", "t1"); !ok || res.Text != "file contents" {
		t.Errorf("expected correlated result, got %+v ok=%v", res, ok)
	}
}
