package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResult = `{
  "sample_rate": 16000,
  "channels": 2,
  "segments": [
    {"start": 0.0, "end": 1.5, "duration": 1.5, "pitch_hz": 180.0, "speaker_id": 0,
     "direction": "left", "distance_estimate_ft": [3, 6], "rhythm_estimate": {"label": "steady"}},
    {"start": 2.0, "end": 4.25, "duration": 2.25, "pitch_hz": null, "speaker_id": 1}
  ],
  "speaker_profiles": [
    {"speaker_id": 0, "label": "Speaker 1", "segments": 1, "total_duration_s": 1.5,
     "median_pitch_hz": 180.0, "pitch_bucket": "mid", "tempo_bucket": "medium", "confidence": 0.5},
    {"speaker_id": 1, "label": "Speaker 2", "segments": 1, "total_duration_s": 2.25,
     "median_pitch_hz": null, "pitch_bucket": "unknown", "tempo_bucket": "slow", "confidence": 0.25}
  ]
}`

func analysisServer(t *testing.T, code string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get(CodeHeader) != code {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid analysis code"})
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]string{"detail": err.Error()})
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "talk.wav" || string(data) != "RIFFdata" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"detail": "unexpected upload"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, sampleResult)
	}))
}

func TestAnalyze(t *testing.T) {
	srv := analysisServer(t, "12345")
	defer srv.Close()

	client := NewClient(srv.URL+"/", "12345", 5*time.Second, nil)
	result, err := client.Analyze(context.Background(), "talk.wav", 8, strings.NewReader("RIFFdata"))
	require.NoError(t, err)

	assert.Equal(t, 16000, result.SampleRate)
	assert.Equal(t, 2, result.Channels)
	require.Len(t, result.Segments, 2)
	require.NotNil(t, result.Segments[0].PitchHz)
	assert.Equal(t, 180.0, *result.Segments[0].PitchHz)
	assert.Nil(t, result.Segments[1].PitchHz)
	assert.JSONEq(t, `[3, 6]`, string(result.Segments[0].DistanceEstimateFt))
	assert.Equal(t, 4.25, result.Duration())
	assert.Len(t, result.SpeakerProfiles, 2)
}

func TestAnalyzeInvalidCode(t *testing.T) {
	srv := analysisServer(t, "12345")
	defer srv.Close()

	client := NewClient(srv.URL, "wrong", 0, nil)
	_, err := client.Analyze(context.Background(), "talk.wav", 8, strings.NewReader("RIFFdata"))
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestAnalyzeStatusError(t *testing.T) {
	srv := analysisServer(t, "12345")
	defer srv.Close()

	client := NewClient(srv.URL, "12345", 0, nil)
	_, err := client.Analyze(context.Background(), "other.wav", 8, strings.NewReader("RIFFdata"))

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr), "expected StatusError, got %v", err)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "unexpected upload", statusErr.Detail)
	assert.Contains(t, err.Error(), "HTTP 400")
}

func TestAnalyzeNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "12345", 0, nil)
	_, err := client.Analyze(context.Background(), "talk.wav", -1, strings.NewReader("RIFFdata"))

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "upstream exploded", statusErr.Detail)
}

func TestAnalyzeEmptyFile(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "12345", 0, nil)
	_, err := client.Analyze(context.Background(), "empty.wav", 0, strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestAnalyzeCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	client := NewClient(srv.URL, "12345", 0, nil)
	_, err := client.Analyze(ctx, "talk.wav", 8, strings.NewReader("RIFFdata"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/docs" {
			io.WriteString(w, "<html></html>")
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "12345", time.Second, nil)
	assert.NoError(t, client.Ping(context.Background()))

	client.BaseURL = "http://127.0.0.1:1"
	assert.Error(t, client.Ping(context.Background()))
}

func TestSummary(t *testing.T) {
	var result Result
	require.NoError(t, json.Unmarshal([]byte(sampleResult), &result))

	lines := result.Summary()
	require.Len(t, lines, 3)
	assert.Equal(t, "16000 Hz, stereo, 2 segments", lines[0])
	assert.Contains(t, lines[1], "Speaker 1: 1 segments, 1.5s, 180 Hz (mid)")
	assert.Contains(t, lines[2], "pitch n/a (unknown)")
	assert.InDelta(t, 4.25, result.Duration(), 1e-9)

	empty := Result{SampleRate: 8000, Channels: 1}
	assert.Equal(t, "8000 Hz, mono, 0 segments\nNo speaker grouping (too few segments)", empty.String())
	assert.Zero(t, empty.Duration())
}
