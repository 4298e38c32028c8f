package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("info", "json", &buf)

	log.WithField("file", "talk.wav").Info("Analysis started", "size_bytes", 1024, "eta", "~5s")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "Analysis started" {
		t.Errorf("Unexpected msg: %v", entry["msg"])
	}
	if entry["file"] != "talk.wav" || entry["eta"] != "~5s" {
		t.Errorf("Missing fields: %v", entry)
	}
	if entry["size_bytes"] != float64(1024) {
		t.Errorf("Expected size_bytes 1024, got %v", entry["size_bytes"])
	}
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("warn", "text", &buf)

	log.Info("hidden")
	log.Debug("hidden too")
	log.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info/debug should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("Expected warning in output: %q", out)
	}
}

func TestOddArgsKept(t *testing.T) {
	f := fields([]any{"a", 1, "dangling"})
	if f["a"] != 1 || f["!BADKEY"] != "dangling" {
		t.Errorf("Unexpected fields: %v", f)
	}
}

func TestOperationLogger(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("info", "text", &buf)

	op := log.StartOperation("analyze")
	op.Update("uploading")
	op.Complete("done")
	op.Fail("boom")

	out := buf.String()
	for _, want := range []string{"[analyze] uploading", "[analyze] COMPLETED: done", "[analyze] FAILED: boom", "duration="} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output: %q", want, out)
		}
	}
}

func TestNullLogger(t *testing.T) {
	var log Logger = NewNullLogger()
	log.WithFields(map[string]interface{}{"a": 1}).Info("nothing")
	log.StartOperation("x").Complete("nothing")
}
