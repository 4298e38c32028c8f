package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"audioprobe/internal/logger"
)

// CodeHeader carries the shared access code
const CodeHeader = "X-Analysis-Code"

var (
	// ErrInvalidCode is returned when the service rejects the access code (403)
	ErrInvalidCode = errors.New("invalid analysis code")
	// ErrEmptyFile is returned before upload when the input has no bytes
	ErrEmptyFile = errors.New("empty audio file")
)

// StatusError is a non-2xx response other than 403
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("analysis failed: HTTP %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("analysis failed: HTTP %d", e.StatusCode)
}

// Client talks to the audio analysis service
type Client struct {
	BaseURL string
	Code    string
	HTTP    *http.Client
	log     logger.Logger
}

// NewClient creates a client. A zero timeout means requests only end with ctx.
func NewClient(baseURL, code string, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Code:    code,
		HTTP:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Analyze uploads one audio file as multipart field "file" and decodes the result.
// size is used only to reject empty inputs early; pass -1 if unknown.
func (c *Client) Analyze(ctx context.Context, name string, size int64, r io.Reader) (*Result, error) {
	if size == 0 {
		return nil, ErrEmptyFile
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", name)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/analyze", pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	defer pr.Close()
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(CodeHeader, c.Code)

	c.log.Debug("Uploading audio", "file", name, "size_bytes", size, "url", req.URL.String())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis result: %w", err)
	}

	c.log.Debug("Analysis response decoded", "segments", len(result.Segments), "speakers", len(result.SpeakerProfiles))
	return &result, nil
}

// Ping checks that the service answers at all
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/docs", nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("service unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 500 {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusForbidden {
		return ErrInvalidCode
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	detail := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &payload) == nil && len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil {
			detail = s
		} else {
			detail = string(payload.Detail)
		}
	}

	return &StatusError{StatusCode: resp.StatusCode, Detail: detail}
}
