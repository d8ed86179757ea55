package analytics

// SentimentSummary is the derived sentiment view for the dashboard.
type SentimentSummary struct {
	Positive int            `json:"positive"`
	Negative int            `json:"negative"`
	Neutral  int            `json:"neutral"`
	Total    int            `json:"total"`
	Score    float64        `json:"score"`
	ByLabel  map[string]int `json:"by_label,omitempty"`
}

// BuildSentimentSummary derives the sentiment view from a payload.
// Returns nil when the sentiment section is absent so callers can render an
// empty state instead of fabricated zeros. Missing counts default to 0;
// the total is always the sum of the three counts.
func BuildSentimentSummary(p *Payload) *SentimentSummary {
	if p == nil || !p.Sentiment.Present() {
		return nil
	}

	s := p.Sentiment
	summary := &SentimentSummary{
		Positive: s.Int("positive", 0),
		Negative: s.Int("negative", 0),
		Neutral:  s.Int("neutral", 0),
		Score:    clamp(s.Float("average", 0), -1, 1),
		ByLabel:  s.IntMap("distribution"),
	}
	summary.Total = summary.Positive + summary.Negative + summary.Neutral
	return summary
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
