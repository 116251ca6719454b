package pager

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// openPlainFile returns a regular file handle. Raw mode always fails on it,
// which drives the pager down its non-interactive fallback path.
func openPlainFile(t *testing.T) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestRunFallsBackWithoutTerminal(t *testing.T) {
	var out strings.Builder
	p := &Pager{out: &out, in: openPlainFile(t), height: 5}

	content := "line 1\nline 2\nline 3\nline 4\nline 5\nline 6\nline 7"
	if err := p.Run(content); err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 7; i++ {
		if !strings.Contains(out.String(), fmt.Sprintf("line %d", i)) {
			t.Errorf("fallback output missing line %d", i)
		}
	}
}

func TestRunEmptyContent(t *testing.T) {
	var out strings.Builder
	p := &Pager{out: &out, in: openPlainFile(t), height: 5}

	if err := p.Run(""); err != nil {
		t.Fatal(err)
	}
}
