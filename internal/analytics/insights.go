package analytics

import (
	"fmt"
	"math"
	"strings"
)

// Insight is a short rule-triggered observation with a confidence value.
// Rules are fixed threshold checks, not a learned model.
type Insight struct {
	Kind       string  `json:"kind"`
	Title      string  `json:"title"`
	Detail     string  `json:"detail"`
	Confidence float64 `json:"confidence"`
}

// BuildInsights runs the ordered rule table against a payload. Rules are
// independent: several insights can co-occur and no rule suppresses another.
// Thresholds and confidence formulas are product behavior; changing them
// silently changes what users see.
func BuildInsights(p *Payload) []Insight {
	if p == nil {
		return nil
	}

	var insights []Insight

	if p.Sentiment.Present() {
		avg := p.Sentiment.Float("average", 0)
		if avg >= 0.3 {
			insights = append(insights, Insight{
				Kind:       "sentiment",
				Title:      "Positive sentiment dominant",
				Detail:     fmt.Sprintf("Average sentiment across articles is %.2f.", avg),
				Confidence: math.Abs(avg),
			})
		}

		positive := p.Sentiment.Int("positive", 0)
		negative := p.Sentiment.Int("negative", 0)
		if positive > 2*negative {
			insights = append(insights, Insight{
				Kind:       "imbalance",
				Title:      "Sentiment strongly skewed positive",
				Detail:     fmt.Sprintf("%d positive articles against %d negative.", positive, negative),
				Confidence: 0.8,
			})
		}
	}

	if p.Trends.Present() {
		if emerging := p.Trends.List("emerging"); len(emerging) > 0 {
			var names []string
			for _, e := range emerging {
				if name := e.String("name", e.String("topic", "")); name != "" {
					names = append(names, name)
				}
			}
			insights = append(insights, Insight{
				Kind:       "trend",
				Title:      "Emerging topics detected",
				Detail:     fmt.Sprintf("%d topics gaining traction: %s", len(emerging), strings.Join(names, ", ")),
				Confidence: 0.7,
			})
		}
	}

	if p.AIProcessing.Present() {
		rate := p.AIProcessing.Float("success_rate", 0)
		if rate < 0.9 {
			insights = append(insights, Insight{
				Kind:       "alert",
				Title:      "AI processing degraded",
				Detail:     fmt.Sprintf("Processing success rate at %.0f%%.", rate*100),
				Confidence: 1 - rate,
			})
		}
	}

	return insights
}
