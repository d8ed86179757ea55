package analytics

import "math"

// Trend-relevance is a fixed interim heuristic keyed on trend-section
// presence, not derived from real trend variability. Intentional; do not
// replace with a computation without a product decision.
const (
	trendRelevanceWithData    = 75
	trendRelevanceWithoutData = 50
)

// RelevanceComposite holds four sub-scores in [0, 100] and their rounded
// arithmetic mean. Overall is always recomputed from the sub-scores.
type RelevanceComposite struct {
	Credibility float64 `json:"credibility"`
	Engagement  float64 `json:"engagement"`
	Quality     float64 `json:"quality"`
	Trends      float64 `json:"trends"`
	Overall     int     `json:"overall"`
}

// BuildRelevanceComposite derives the composite relevance score.
// Each sub-score defaults to 0 when its source section is absent:
// credibility from source diversity, engagement from one minus bounce rate
// scaled to 100, quality from the mean of original-content percentage and
// AI-processing success rate scaled to 100 (over whichever of the two
// sections are present).
func BuildRelevanceComposite(p *Payload) RelevanceComposite {
	if p == nil {
		p = &Payload{}
	}

	c := RelevanceComposite{
		Credibility: p.Sources.Float("diversity_score", 0),
		Trends:      trendRelevanceWithoutData,
	}
	if p.Trends.Present() {
		c.Trends = trendRelevanceWithData
	}
	if p.Engagement.Present() {
		c.Engagement = (1 - p.Engagement.Float("bounce_rate", 0)) * 100
	}

	var qualityTerms []float64
	if p.ContentQuality.Present() {
		qualityTerms = append(qualityTerms, p.ContentQuality.Float("original_percentage", 0))
	}
	if p.AIProcessing.Present() {
		qualityTerms = append(qualityTerms, p.AIProcessing.Float("success_rate", 0)*100)
	}
	c.Quality = mean(qualityTerms)

	c.Credibility = clamp(c.Credibility, 0, 100)
	c.Engagement = clamp(c.Engagement, 0, 100)
	c.Quality = clamp(c.Quality, 0, 100)
	c.Overall = int(math.Round((c.Credibility + c.Engagement + c.Quality + c.Trends) / 4))
	return c
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
