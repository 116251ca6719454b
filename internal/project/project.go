// Package project locates Claude Code project folders and their transcripts.
//
// The CLI stores transcripts under ~/.claude/projects/<encoded>/ where
// <encoded> is the project's absolute path with slashes replaced by dashes
// and a leading dash.
package project

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/vtemian/claude-notes/internal/correlate"
	"github.com/vtemian/claude-notes/internal/transcript"
)

// Project is one discovered project folder.
type Project struct {
	Path        string // decoded absolute project path
	Folder      string // folder path under ~/.claude/projects
	Transcripts int    // number of .jsonl files
}

// Dir returns the Claude projects directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".claude", "projects"), nil
}

// EncodePath converts an absolute project path to its folder name form:
// /home/user/repo -> -home-user-repo.
func EncodePath(path string) string {
	return "-" + strings.ReplaceAll(strings.TrimPrefix(path, "/"), "/", "-")
}

// DecodePath converts a folder name back to a path: -home-user-repo ->
// /home/user/repo. The encoding is lossy for paths containing dashes; the
// decoded form is for display only.
func DecodePath(name string) string {
	return "/" + strings.ReplaceAll(strings.TrimPrefix(name, "-"), "-", "/")
}

// List enumerates all project folders, sorted by decoded path. A missing
// projects directory yields an empty list, not an error.
func List() ([]Project, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read projects dir: %w", err)
	}

	var projects []Project
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), "-") {
			continue
		}
		folder := filepath.Join(dir, e.Name())
		files, err := TranscriptFiles(folder)
		if err != nil {
			log.Printf("warning: cannot list transcripts in %s: %v", folder, err)
			continue
		}
		projects = append(projects, Project{
			Path:        DecodePath(e.Name()),
			Folder:      folder,
			Transcripts: len(files),
		})
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].Path < projects[j].Path })
	return projects, nil
}

// Find returns the project folder for an absolute project path, or false
// when the project has no transcripts folder.
func Find(abs string) (string, bool) {
	dir, err := Dir()
	if err != nil {
		return "", false
	}
	folder := filepath.Join(dir, EncodePath(abs))
	if st, err := os.Stat(folder); err == nil && st.IsDir() {
		return folder, true
	}
	return "", false
}

// TranscriptFiles lists the .jsonl transcripts directly inside a project
// folder, sorted by name. Subdirectories hold subagent transcripts and are
// skipped.
func TranscriptFiles(folder string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(
		filepath.Join(folder, "*.jsonl"),
		doublestar.WithFilesOnly(),
	)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// LoadAll loads every transcript of a project, newest conversation first.
// Ordering uses the conversation's start timestamp, falling back to file
// modification time for transcripts without one. A file that cannot be read
// is skipped with a warning; remaining files still load.
func LoadAll(folder string, opts correlate.Options) ([]*transcript.Conversation, error) {
	files, err := TranscriptFiles(folder)
	if err != nil {
		return nil, err
	}

	type sortable struct {
		conv *transcript.Conversation
		at   time.Time
	}

	var convs []sortable
	for _, f := range files {
		conv, err := transcript.LoadConversation(f, opts)
		if err != nil {
			log.Printf("warning: skipping %s: %v", f, err)
			continue
		}
		at := startTime(conv.Info.StartTime)
		if at.IsZero() {
			if st, err := os.Stat(f); err == nil {
				at = st.ModTime()
			}
		}
		convs = append(convs, sortable{conv: conv, at: at})
	}

	sort.SliceStable(convs, func(i, j int) bool { return convs[i].at.After(convs[j].at) })

	out := make([]*transcript.Conversation, 0, len(convs))
	for _, s := range convs {
		out = append(out, s.conv)
	}
	return out, nil
}

// startTime parses an ISO-8601 timestamp, returning the zero time when the
// string is empty or malformed.
func startTime(ts string) time.Time {
	if ts == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
