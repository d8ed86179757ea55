package analytics

// topicNamePlaceholder is shown when a raw topic record carries no usable name.
const topicNamePlaceholder = "Untitled topic"

// Topic is one entry in the derived topic distribution list.
type Topic struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Sentiment  float64 `json:"sentiment"`
	GrowthRate float64 `json:"growth_rate"`
	Category   string  `json:"category,omitempty"`
	Relevance  float64 `json:"relevance_score"`
}

// BuildTopicList derives the topic list from the trends section, preserving
// the insertion order of the source records. The name falls back from "name"
// to "topic" to a placeholder; numeric fields default to 0 when missing or
// malformed. Truncation to a top-N is a presentation concern and happens in
// the serving layer, not here.
func BuildTopicList(p *Payload) []Topic {
	if p == nil || !p.Trends.Present() {
		return nil
	}

	raw := p.Trends.List("topics")
	topics := make([]Topic, 0, len(raw))
	for _, r := range raw {
		name := r.String("name", "")
		if name == "" {
			name = r.String("topic", "")
		}
		if name == "" {
			name = topicNamePlaceholder
		}
		topics = append(topics, Topic{
			Name:       name,
			Count:      r.Int("count", 0),
			Sentiment:  r.Float("sentiment", 0),
			GrowthRate: r.Float("growth_rate", 0),
			Category:   r.String("category", ""),
			Relevance:  r.Float("relevance_score", 0),
		})
	}
	return topics
}
