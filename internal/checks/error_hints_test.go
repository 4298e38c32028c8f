package checks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"audioprobe/internal/analysis"
	"audioprobe/internal/config"
	"audioprobe/internal/source"
	"audioprobe/internal/tui"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category string
		errType  string
	}{
		{"invalid code", fmt.Errorf("upload: %w", analysis.ErrInvalidCode), "access_code", "critical"},
		{"empty file", analysis.ErrEmptyFile, "input", "critical"},
		{"not found", fmt.Errorf("%w: talk.wav", source.ErrNotFound), "input", "critical"},
		{"cancelled", tui.ErrCancelled, "cancelled", "warning"},
		{"ctx cancelled", context.Canceled, "cancelled", "warning"},
		{"deadline", fmt.Errorf("request: %w", context.DeadlineExceeded), "timeout", "critical"},
		{"config", &config.ConfigError{Field: "url", Value: "x", Message: "bad"}, "config", "fatal"},
		{"server error", &analysis.StatusError{StatusCode: 500, Detail: "boom"}, "service", "critical"},
		{"bad upload", &analysis.StatusError{StatusCode: 422}, "input", "critical"},
		{"refused", errors.New("dial tcp 127.0.0.1:8000: connect: connection refused"), "network", "critical"},
		{"client timeout", errors.New("Client.Timeout exceeded while awaiting headers"), "timeout", "critical"},
		{"s3 creds", errors.New("api error InvalidAccessKeyId: key does not exist"), "storage", "critical"},
		{"other", errors.New("something odd"), "unknown", "critical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ClassifyError(tt.err)
			if c.Category != tt.category {
				t.Errorf("Expected category %s, got %s", tt.category, c.Category)
			}
			if c.Type != tt.errType {
				t.Errorf("Expected type %s, got %s", tt.errType, c.Type)
			}
			if c.Hint == "" || c.Action == "" {
				t.Error("Every classification needs a hint and an action")
			}
		})
	}
}

func TestClassifyNil(t *testing.T) {
	if ClassifyError(nil) != nil {
		t.Error("nil error should not be classified")
	}
	if FormatErrorWithHint(nil) != "" {
		t.Error("nil error should format to empty string")
	}
}

func TestFormatErrorWithHint(t *testing.T) {
	out := FormatErrorWithHint(analysis.ErrInvalidCode)
	for _, want := range []string{"CRITICAL Error", "Category: access_code", "💡 Hint:", "ANALYSIS_CODE"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in:\n%s", want, out)
		}
	}
}
