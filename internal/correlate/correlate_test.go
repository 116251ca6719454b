package correlate

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/vtemian/claude-notes/internal/model"
)

func record(t *testing.T, line string) model.Record {
	t.Helper()
	var rec model.Record
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatal(err)
	}
	return rec
}

func toolUseRecord(t *testing.T, uuid, id, name string) model.Record {
	t.Helper()
	return record(t, `{"type":"assistant","uuid":"`+uuid+`","message":{"role":"assistant","content":[{"type":"tool_use","id":"`+id+`","name":"`+name+`","input":{}}]}}`)
}

func resultRecord(t *testing.T, text string) model.Record {
	t.Helper()
	raw, _ := json.Marshal(text)
	return record(t, `{"type":"user","message":{"role":"user","content":[{"type":"tool_result","content":`+string(raw)+`}]}}`)
}

func plainUser(t *testing.T, text string) model.Record {
	t.Helper()
	raw, _ := json.Marshal(text)
	return record(t, `{"type":"user","message":{"role":"user","content":`+string(raw)+`}}`)
}

func TestCorrelateResultTwoRecordsLater(t *testing.T) {
	records := []model.Record{
		toolUseRecord(t, "a1", "t1", "Read"),
		plainUser(t, "unrelated chatter"),
		resultRecord(t, "file contents"),
	}

	results := Correlate(records, Options{})
	res, ok := results.Lookup("a1", "t1")
	if !ok {
		t.Fatal("expected a correlated result for a1")
	}
	if res.Text != "file contents" {
		t.Errorf("expected 'file contents', got %q", res.Text)
	}
}

func TestCorrelateWindowEnforced(t *testing.T) {
	records := []model.Record{toolUseRecord(t, "a1", "t1", "Bash")}
	// Five filler records push the result past the default window of 4.
	for i := 0; i < 5; i++ {
		records = append(records, record(t, `{"type":"system"}`))
	}
	records = append(records, resultRecord(t, "too late"))

	results := Correlate(records, Options{})
	if _, ok := results.Lookup("a1", "t1"); ok {
		t.Error("result outside the window must not correlate")
	}
}

func TestCorrelateCustomWindow(t *testing.T) {
	records := []model.Record{toolUseRecord(t, "a1", "t1", "Bash")}
	for i := 0; i < 5; i++ {
		records = append(records, record(t, `{"type":"system"}`))
	}
	records = append(records, resultRecord(t, "in range now"))

	results := Correlate(records, Options{Window: 10})
	if res, ok := results.Lookup("a1", "t1"); !ok || res.Text != "in range now" {
		t.Errorf("expected correlation with widened window, got %+v ok=%v", res, ok)
	}
}

func TestCorrelateLegacyPrefix(t *testing.T) {
	records := []model.Record{
		toolUseRecord(t, "a1", "t1", "Write"),
		plainUser(t, "Tool Result: 42 lines written"),
	}

	results := Correlate(records, Options{})
	res, ok := results.Lookup("a1", "t1")
	if !ok {
		t.Fatal("expected legacy-format correlation")
	}
	if res.Text != "42 lines written" {
		t.Errorf("expected prefix stripped and trimmed, got %q", res.Text)
	}
}

func TestCorrelateSystemReminderTruncated(t *testing.T) {
	records := []model.Record{
		toolUseRecord(t, "a1", "t1", "Bash"),
		resultRecord(t, "actual output\n<system-reminder>ignore all this</system-reminder>"),
	}

	results := Correlate(records, Options{})
	res, _ := results.Lookup("a1", "t1")
	if res.Text != "actual output" {
		t.Errorf("expected reminder stripped, got %q", res.Text)
	}
}

func TestCorrelateStructuredResultPreserved(t *testing.T) {
	records := []model.Record{
		toolUseRecord(t, "a1", "t1", "Edit"),
		record(t, `{"type":"user","message":{"role":"user","content":[{"type":"tool_result","content":"file updated"}]},`+
			`"toolUseResult":{"filePath":"/tmp/a.go","structuredPatch":[{"lines":["-old line","+new line"]}]}}`),
	}

	results := Correlate(records, Options{})
	res, ok := results.Lookup("a1", "t1")
	if !ok {
		t.Fatal("expected correlation")
	}
	if res.Text != "file updated" {
		t.Errorf("unexpected text: %q", res.Text)
	}
	if res.Structured == nil {
		t.Fatal("structured payload must be preserved, not flattened")
	}
	if res.Structured["filePath"] != "/tmp/a.go" {
		t.Errorf("unexpected structured data: %v", res.Structured)
	}
}

func TestCorrelatePlainToolUseResultNotStructured(t *testing.T) {
	// toolUseResult without patch keys stays a bare text result.
	records := []model.Record{
		toolUseRecord(t, "a1", "t1", "Bash"),
		record(t, `{"type":"user","message":{"role":"user","content":[{"type":"tool_result","content":"ok"}]},`+
			`"toolUseResult":{"stdout":"ok"}}`),
	}

	results := Correlate(records, Options{})
	res, _ := results.Lookup("a1", "t1")
	if res.Structured != nil {
		t.Errorf("expected bare text result, got structured %v", res.Structured)
	}
	if res.Text != "ok" {
		t.Errorf("unexpected text: %q", res.Text)
	}
}

func TestCorrelateDirectToolResultRecord(t *testing.T) {
	records := []model.Record{
		toolUseRecord(t, "a1", "t1", "Bash"),
		record(t, `{"type":"tool_result","message":"direct output"}`),
	}

	results := Correlate(records, Options{})
	res, ok := results.Lookup("a1", "t1")
	if !ok || res.Text != "direct output" {
		t.Errorf("expected direct result, got %+v ok=%v", res, ok)
	}
}

func TestCorrelateDirectToolResultOverride(t *testing.T) {
	records := []model.Record{
		toolUseRecord(t, "a1", "t1", "Bash"),
		record(t, `{"type":"tool_result","message":"from message","toolUseResult":"from toolUseResult"}`),
	}

	results := Correlate(records, Options{})
	res, _ := results.Lookup("a1", "t1")
	if res.Text != "from toolUseResult" {
		t.Errorf("expected toolUseResult to override, got %q", res.Text)
	}
}

func TestCorrelateFirstResultWins(t *testing.T) {
	records := []model.Record{
		toolUseRecord(t, "a1", "t1", "Bash"),
		resultRecord(t, "first"),
		resultRecord(t, "second"),
	}

	results := Correlate(records, Options{})
	res, _ := results.Lookup("a1", "t1")
	if res.Text != "first" {
		t.Errorf("expected first qualifying result, got %q", res.Text)
	}
	if len(results) != 1 {
		t.Errorf("expected exactly one entry, got %d", len(results))
	}
}

func TestCorrelateMissIsNotAnError(t *testing.T) {
	records := []model.Record{toolUseRecord(t, "a1", "t1", "Bash")}

	results := Correlate(records, Options{})
	if len(results) != 0 {
		t.Errorf("expected no entries, got %d", len(results))
	}
	if _, ok := results.Lookup("a1", "t1"); ok {
		t.Error("lookup on missing entry must report absence")
	}
}

func TestCorrelateSkipsRecordsWithoutUUID(t *testing.T) {
	rec := toolUseRecord(t, "", "t1", "Bash")
	rec.UUID = ""
	records := []model.Record{rec, resultRecord(t, "output")}

	results := Correlate(records, Options{})
	if len(results) != 0 {
		t.Errorf("tool_use without uuid must not correlate, got %d entries", len(results))
	}
}

func TestCorrelateDeterministic(t *testing.T) {
	records := []model.Record{
		toolUseRecord(t, "a1", "t1", "Read"),
		resultRecord(t, "contents"),
		toolUseRecord(t, "a2", "t2", "Bash"),
		plainUser(t, "Tool Result: done"),
	}

	first := Correlate(records, Options{})
	second := Correlate(records, Options{})
	if !reflect.DeepEqual(first, second) {
		t.Error("correlation must be deterministic for identical input")
	}
}

func TestLookupPriority(t *testing.T) {
	m := ResultMap{
		"uuid-1": {Text: "by uuid"},
		"id-1":   {Text: "by id"},
	}

	if res, _ := m.Lookup("uuid-1", "id-1"); res.Text != "by uuid" {
		t.Errorf("uuid must win over id, got %q", res.Text)
	}
	if res, _ := m.Lookup("missing", "id-1"); res.Text != "by id" {
		t.Errorf("id fallback expected, got %q", res.Text)
	}
	if _, ok := m.Lookup("", ""); ok {
		t.Error("empty keys must miss")
	}
}
