// Package article holds the article model and the in-memory filter/sort
// pipeline the dashboard views share.
package article

import "time"

// Entities groups the named entities extracted from an article.
type Entities struct {
	People        []string `json:"people,omitempty"`
	Organizations []string `json:"organizations,omitempty"`
	Locations     []string `json:"locations,omitempty"`
}

// AIMetadata is the enrichment sub-record attached to every article.
// Confidence and relevance are on a 0-100 scale.
type AIMetadata struct {
	Sentiment   string   `json:"sentiment"`
	Confidence  float64  `json:"confidence"`
	Relevance   float64  `json:"relevance_score"`
	Keywords    []string `json:"keywords,omitempty"`
	Entities    Entities `json:"entities"`
	Readability float64  `json:"readability_score"`
	Language    string   `json:"language"`
}

// Article is one article in the current query result set. The set is owned
// by the store: replaced wholesale on refetch, appended to on load-more.
type Article struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Summary     string     `json:"summary"`
	Source      string     `json:"source"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags,omitempty"`
	PublishedAt time.Time  `json:"published_at"`
	AI          AIMetadata `json:"ai"`
}
