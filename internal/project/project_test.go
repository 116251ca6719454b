package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vtemian/claude-notes/internal/correlate"
)

func TestEncodePath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/home/user/repo", "-home-user-repo"},
		{"/root/module", "-root-module"},
		{"/", "-"},
	}
	for _, c := range cases {
		if got := EncodePath(c.path); got != c.want {
			t.Errorf("EncodePath(%q): expected %q, got %q", c.path, c.want, got)
		}
	}
}

func TestDecodePath(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"-home-user-repo", "/home/user/repo"},
		{"-root-module", "/root/module"},
	}
	for _, c := range cases {
		if got := DecodePath(c.name); got != c.want {
			t.Errorf("DecodePath(%q): expected %q, got %q", c.name, c.want, got)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, path := range []string{"/home/user/repo", "/var/lib/app"} {
		if got := DecodePath(EncodePath(path)); got != path {
			t.Errorf("round trip of %q gave %q", path, got)
		}
	}
}

func TestTranscriptFiles(t *testing.T) {
	folder := t.TempDir()
	for _, name := range []string{"b.jsonl", "a.jsonl", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(folder, name), []byte("{}\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	// Subagent transcripts live in subdirectories and are not listed.
	sub := filepath.Join(folder, "agents")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "c.jsonl"), []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	files, err := TranscriptFiles(folder)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 transcripts, got %d: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "a.jsonl" || filepath.Base(files[1]) != "b.jsonl" {
		t.Errorf("expected name-sorted files, got %v", files)
	}
}

func TestLoadAllNewestFirst(t *testing.T) {
	folder := t.TempDir()
	older := `{"type":"user","uuid":"u1","timestamp":"2026-08-01T10:00:00Z","message":{"role":"user","content":"old"}}` + "\n"
	newer := `{"type":"user","uuid":"u1","timestamp":"2026-08-02T10:00:00Z","message":{"role":"user","content":"new"}}` + "\n"
	if err := os.WriteFile(filepath.Join(folder, "older.jsonl"), []byte(older), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(folder, "newer.jsonl"), []byte(newer), 0644); err != nil {
		t.Fatal(err)
	}

	convs, err := LoadAll(folder, correlate.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(convs))
	}
	if convs[0].Info.ConversationID != "newer" || convs[1].Info.ConversationID != "older" {
		t.Errorf("expected newest first, got %q then %q",
			convs[0].Info.ConversationID, convs[1].Info.ConversationID)
	}
}

func TestLoadAllEmptyFolder(t *testing.T) {
	convs, err := LoadAll(t.TempDir(), correlate.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(convs) != 0 {
		t.Errorf("expected no conversations, got %d", len(convs))
	}
}
