package checks

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"audioprobe/internal/analysis"
	"audioprobe/internal/config"
	"audioprobe/internal/source"
	"audioprobe/internal/tui"
)

// Compiled regex patterns for errors that only surface as text
var errorPatterns = []struct {
	category string
	pattern  *regexp.Regexp
}{
	{"connection_failed", regexp.MustCompile(`(?i)(connection refused|no such host|could not connect|service unreachable)`)},
	{"timeout", regexp.MustCompile(`(?i)(deadline exceeded|timeout|timed out)`)},
	{"credentials", regexp.MustCompile(`(?i)(no valid credential|access ?denied|forbidden|invalidaccesskeyid|signaturedoesnotmatch|authorizationfailure)`)},
	{"unsupported_audio", regexp.MustCompile(`(?i)(decod|unsupported format|could not read audio|ffmpeg)`)},
}

// ErrorClassification represents the severity and type of error
type ErrorClassification struct {
	Type     string // "warning", "critical", "fatal"
	Category string
	Message  string
	Hint     string
	Action   string
	Severity int // 1=warning, 2=error, 3=fatal
}

// ClassifyError maps a failure to an actionable hint. Typed errors are
// matched first; anything else falls back to message patterns.
func ClassifyError(err error) *ErrorClassification {
	if err == nil {
		return nil
	}
	msg := err.Error()

	var statusErr *analysis.StatusError
	var cfgErr *config.ConfigError

	switch {
	case errors.Is(err, tui.ErrCancelled), errors.Is(err, context.Canceled):
		return &ErrorClassification{
			Type:     "warning",
			Category: "cancelled",
			Message:  msg,
			Hint:     "The analysis was cancelled before the service answered",
			Action:   "Run the command again and let it finish",
			Severity: 1,
		}
	case errors.Is(err, analysis.ErrInvalidCode):
		return &ErrorClassification{
			Type:     "critical",
			Category: "access_code",
			Message:  msg,
			Hint:     "The service rejected the access code",
			Action:   "Set ANALYSIS_CODE or pass --code with the code the service was started with",
			Severity: 2,
		}
	case errors.Is(err, analysis.ErrEmptyFile):
		return &ErrorClassification{
			Type:     "critical",
			Category: "input",
			Message:  msg,
			Hint:     "The input has no audio data",
			Action:   "Check the file was fully written or downloaded",
			Severity: 2,
		}
	case errors.Is(err, source.ErrNotFound):
		return &ErrorClassification{
			Type:     "critical",
			Category: "input",
			Message:  msg,
			Hint:     "The file or object does not exist",
			Action:   "Check the path, bucket and key",
			Severity: 2,
		}
	case errors.Is(err, source.ErrUnsupportedProvider):
		return &ErrorClassification{
			Type:     "critical",
			Category: "input",
			Message:  msg,
			Hint:     "Unknown storage scheme",
			Action:   "Use a local path or s3://, minio://, b2://, gs:// or azure://",
			Severity: 2,
		}
	case errors.As(err, &cfgErr):
		return &ErrorClassification{
			Type:     "fatal",
			Category: "config",
			Message:  msg,
			Hint:     fmt.Sprintf("Invalid value for %s", cfgErr.Field),
			Action:   "Fix the flag, environment variable or " + config.ConfigFileName,
			Severity: 3,
		}
	case errors.Is(err, context.DeadlineExceeded):
		return timeoutClassification(msg)
	case errors.As(err, &statusErr):
		return classifyStatus(statusErr, msg)
	}

	switch classifyErrorByPattern(msg) {
	case "connection_failed":
		return &ErrorClassification{
			Type:     "critical",
			Category: "network",
			Message:  msg,
			Hint:     "The analysis service is not reachable",
			Action:   "Start the service or point --url / AUDIOPROBE_URL at it; 'audioprobe status' checks connectivity",
			Severity: 2,
		}
	case "timeout":
		return timeoutClassification(msg)
	case "credentials":
		return &ErrorClassification{
			Type:     "critical",
			Category: "storage",
			Message:  msg,
			Hint:     "Object storage rejected the credentials",
			Action:   "Check AUDIOPROBE_ACCESS_KEY / AUDIOPROBE_SECRET_KEY or the default credential chain",
			Severity: 2,
		}
	case "unsupported_audio":
		return &ErrorClassification{
			Type:     "critical",
			Category: "input",
			Message:  msg,
			Hint:     "The service could not decode the audio",
			Action:   "Convert the file to WAV, MP3 or FLAC and retry",
			Severity: 2,
		}
	}

	return &ErrorClassification{
		Type:     "critical",
		Category: "unknown",
		Message:  msg,
		Hint:     "An unexpected error occurred",
		Action:   "Re-run with --debug for details",
		Severity: 2,
	}
}

func classifyErrorByPattern(msg string) string {
	for _, p := range errorPatterns {
		if p.pattern.MatchString(msg) {
			return p.category
		}
	}
	return "unknown"
}

func timeoutClassification(msg string) *ErrorClassification {
	return &ErrorClassification{
		Type:     "critical",
		Category: "timeout",
		Message:  msg,
		Hint:     "The request took longer than the configured timeout",
		Action:   "Raise --timeout or set it to 0 for large files",
		Severity: 2,
	}
}

func classifyStatus(e *analysis.StatusError, msg string) *ErrorClassification {
	c := &ErrorClassification{
		Type:     "critical",
		Category: "service",
		Message:  msg,
		Severity: 2,
	}

	switch {
	case e.StatusCode == 413:
		c.Hint = "The file is larger than the service accepts"
		c.Action = "Trim or downsample the audio before uploading"
	case e.StatusCode == 422 || e.StatusCode == 400:
		c.Category = "input"
		c.Hint = "The service rejected the upload"
		c.Action = "Check the file is a readable audio file"
	case e.StatusCode >= 500:
		c.Hint = "The analysis service failed while processing the file"
		c.Action = "Check the service logs; retry once it is healthy"
	default:
		c.Hint = fmt.Sprintf("Unexpected HTTP %d from the service", e.StatusCode)
		c.Action = "Check --url points at the analysis service"
	}
	return c
}

// FormatErrorWithHint creates a user-friendly error message with hints
func FormatErrorWithHint(err error) string {
	classification := ClassifyError(err)
	if classification == nil {
		return ""
	}

	var icon string
	switch classification.Type {
	case "warning":
		icon = "⚠️ "
	case "critical":
		icon = "❌"
	case "fatal":
		icon = "🛑"
	default:
		icon = "⚠️ "
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s Error\n\n", icon, strings.ToUpper(classification.Type)))
	sb.WriteString(fmt.Sprintf("Category: %s\n", classification.Category))
	sb.WriteString(fmt.Sprintf("Message: %s\n\n", classification.Message))
	sb.WriteString(fmt.Sprintf("💡 Hint: %s\n\n", classification.Hint))
	sb.WriteString(fmt.Sprintf("🔧 Action: %s\n", classification.Action))

	return sb.String()
}
