package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"audioprobe/internal/analysis"
)

// ReportSuffix is appended to the input's base name
const ReportSuffix = ".analysis.json"

// Report records one finished analysis next to its timing
type Report struct {
	Version     string           `json:"version"`
	Timestamp   time.Time        `json:"timestamp"`
	Source      string           `json:"source"`
	ServiceURL  string           `json:"service_url"`
	SizeBytes   int64            `json:"size_bytes"`
	SHA256      string           `json:"sha256,omitempty"` // local inputs only
	EstimatedMs int64            `json:"estimated_ms"`
	DurationMs  int64            `json:"duration_ms"`
	Result      *analysis.Result `json:"result"`
}

// ReportPath returns the default report location for an input name in dir
func ReportPath(dir, name string) string {
	return filepath.Join(dir, name+ReportSuffix)
}

// CalculateSHA256 computes the SHA-256 checksum of a file
func CalculateSHA256(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("failed to calculate checksum: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Save writes the report as indented JSON
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	return nil
}

// Load reads a report written by Save
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &r, nil
}

// ListReports loads every report in dir, skipping unreadable ones
func ListReports(dir string) ([]*Report, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+ReportSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	var reports []*Report
	for _, path := range matches {
		r, err := Load(path)
		if err != nil {
			continue
		}
		reports = append(reports, r)
	}

	return reports, nil
}
