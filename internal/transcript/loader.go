package transcript

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/vtemian/claude-notes/internal/model"
)

// Scanner buffer sizing. Transcript lines routinely exceed bufio's 64K
// default once tool results embed whole files.
const (
	initialBuf = 256 * 1024
	maxLineBuf = 16 * 1024 * 1024
)

// Load reads a transcript JSONL file into its ordered record sequence.
// Blank lines are ignored. A line that fails to parse is skipped with a
// warning; one bad line never rejects the file. An empty file yields an
// empty (nil) slice. Loading is a pure function of file content, so loading
// the same file twice yields identical sequences.
func Load(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	var records []model.Record

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, initialBuf), maxLineBuf)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec model.Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			log.Printf("warning: %s:%d: skipping malformed line: %v", path, lineNo, err)
			continue
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("read transcript %s: %w", path, err)
	}

	return records, nil
}
