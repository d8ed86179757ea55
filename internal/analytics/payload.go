package analytics

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Section is one optional top-level block of the analytics payload.
// The backend guarantees no schema beyond the block names, so values stay
// loose and are coerced on access. A nil Section means the block was absent
// from the response, which callers must treat as "no data", not as zeros.
type Section map[string]any

// Present reports whether the section was included in the payload.
func (s Section) Present() bool {
	return s != nil
}

// Float returns the numeric value under key, or def when the key is missing
// or not numeric. Malformed values are advisory analytics data, not errors.
func (s Section) Float(key string, def float64) float64 {
	v, ok := s[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return def
}

// Int returns the integer value under key, or def when missing or malformed.
func (s Section) Int(key string, def int) int {
	return int(s.Float(key, float64(def)))
}

// String returns the string value under key, or def when missing or not a string.
func (s Section) String(key, def string) string {
	if v, ok := s[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return def
}

// List returns the array of objects under key. Non-object elements are skipped.
func (s Section) List(key string) []Section {
	v, ok := s[key]
	if !ok {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []Section
	for _, el := range arr {
		if m, ok := el.(map[string]any); ok {
			out = append(out, Section(m))
		}
	}
	return out
}

// IntMap returns the object under key as a label-to-count mapping.
// Non-numeric counts are coerced to 0.
func (s Section) IntMap(key string) map[string]int {
	v, ok := s[key]
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]int, len(m))
	for label := range m {
		out[label] = Section(m).Int(label, 0)
	}
	return out
}

// Payload is the raw analytics response. Every section is optional; absent
// sections decode to nil and the derived view for that section renders empty.
// A payload is replaced wholesale on refetch, never mutated in place.
type Payload struct {
	Sentiment      Section `json:"sentiment"`
	Trends         Section `json:"trends"`
	Sources        Section `json:"sources"`
	Engagement     Section `json:"engagement"`
	ContentQuality Section `json:"content_quality"`
	AIProcessing   Section `json:"ai_processing"`
}

// ParsePayload decodes a raw analytics response body.
func ParsePayload(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing analytics payload: %w", err)
	}
	return &p, nil
}

// TrendSeries extracts the timestamped metric series from the trends section.
// Records with unparseable timestamps are skipped; metric values keep their
// sparse shape so that absent fields are skipped when averaging, not zeroed.
func (p *Payload) TrendSeries() []MetricRecord {
	if p == nil || !p.Trends.Present() {
		return nil
	}
	var series []MetricRecord
	for _, raw := range p.Trends.List("series") {
		ts, err := time.Parse(time.RFC3339, raw.String("timestamp", ""))
		if err != nil {
			continue
		}
		values := make(map[string]float64)
		for key := range raw {
			if key == "timestamp" {
				continue
			}
			switch raw[key].(type) {
			case float64, int, int64, json.Number:
				values[key] = raw.Float(key, 0)
			}
		}
		series = append(series, MetricRecord{Timestamp: ts, Values: values})
	}
	return series
}
