package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result is the body returned by POST /analyze
type Result struct {
	SampleRate      int              `json:"sample_rate"`
	Channels        int              `json:"channels"`
	Segments        []Segment        `json:"segments"`
	SpeakerProfiles []SpeakerProfile `json:"speaker_profiles"`
}

// Segment is one voiced span of the input
type Segment struct {
	Start        float64  `json:"start"`
	End          float64  `json:"end"`
	Duration     float64  `json:"duration"`
	RMS          float64  `json:"rms"`
	PitchHz      *float64 `json:"pitch_hz"`
	SyllableRate float64  `json:"syllable_rate"`
	Confidence   float64  `json:"confidence"`

	Balance    string  `json:"balance"`
	BalanceVal float64 `json:"balance_val"`

	Direction           string          `json:"direction"`
	DirectionConfidence float64         `json:"direction_confidence"`
	DistanceLabel       string          `json:"distance_label"`
	DistanceEstimateFt  json.RawMessage `json:"distance_estimate_ft,omitempty"`
	DistanceConfidence  float64         `json:"distance_confidence"`
	SpatialNote         string          `json:"spatial_note"`

	RhythmEstimate json.RawMessage `json:"rhythm_estimate,omitempty"`
	SpeakerID      *int            `json:"speaker_id,omitempty"`
	ClipBase64     string          `json:"clip_base64,omitempty"`
}

// SpeakerProfile groups segments that sound like the same voice
type SpeakerProfile struct {
	SpeakerID          int      `json:"speaker_id"`
	Label              string   `json:"label"`
	Segments           int      `json:"segments"`
	TotalDurationS     float64  `json:"total_duration_s"`
	MedianPitchHz      *float64 `json:"median_pitch_hz"`
	PitchBucket        string   `json:"pitch_bucket"`
	MedianSyllableRate *float64 `json:"median_syllable_rate"`
	TempoBucket        string   `json:"tempo_bucket"`
	Confidence         float64  `json:"confidence"`
	Note               string   `json:"note"`
}

// Duration returns the end of the last segment in seconds
func (r *Result) Duration() float64 {
	var end float64
	for _, s := range r.Segments {
		if s.End > end {
			end = s.End
		}
	}
	return end
}

// Summary renders the result as short display lines
func (r *Result) Summary() []string {
	lines := []string{
		fmt.Sprintf("%d Hz, %s, %d segments", r.SampleRate, channelName(r.Channels), len(r.Segments)),
	}

	if len(r.SpeakerProfiles) == 0 {
		lines = append(lines, "No speaker grouping (too few segments)")
		return lines
	}

	for _, p := range r.SpeakerProfiles {
		pitch := "pitch n/a"
		if p.MedianPitchHz != nil {
			pitch = fmt.Sprintf("%.0f Hz", *p.MedianPitchHz)
		}
		lines = append(lines, fmt.Sprintf("%s: %d segments, %.1fs, %s (%s), %s tempo, confidence %.0f%%",
			p.Label, p.Segments, p.TotalDurationS, pitch, p.PitchBucket, p.TempoBucket, p.Confidence*100))
	}
	return lines
}

// String joins Summary lines
func (r *Result) String() string {
	return strings.Join(r.Summary(), "\n")
}

func channelName(n int) string {
	switch n {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return fmt.Sprintf("%d channels", n)
	}
}
