package article

import (
	"sort"
	"strings"
	"time"
)

// DateRange bounds publish timestamps inclusively. A zero bound is open.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// RelevanceRange is an inclusive bound on the AI relevance score.
type RelevanceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterSet is a sparse set of facets. A nil/empty facet means no constraint.
// Facets combine with AND; values within one multi-select facet combine
// with OR.
type FilterSet struct {
	Dates      *DateRange      `json:"dates,omitempty"`
	Sources    []string        `json:"sources,omitempty"`
	Sentiments []string        `json:"sentiments,omitempty"`
	Categories []string        `json:"categories,omitempty"`
	Tags       []string        `json:"tags,omitempty"`
	Languages  []string        `json:"languages,omitempty"`
	Relevance  *RelevanceRange `json:"relevance,omitempty"`
	Query      string          `json:"query,omitempty"`
}

// SortField selects the sort key.
type SortField string

const (
	SortByPublished SortField = "published_at"
	SortByRelevance SortField = "relevance"
	SortByTitle     SortField = "title"
	SortBySource    SortField = "source"
)

// SortSpec pairs a sort field with a direction.
type SortSpec struct {
	Field      SortField `json:"field"`
	Descending bool      `json:"descending"`
}

// FilterAndSort returns the articles that satisfy every present facet,
// re-ordered by the sort spec. The input slice is never modified; the sort
// is stable so equal keys keep their original relative order. One pass for
// filtering, a comparator sort after; result sets here are hundreds of rows,
// so no index structures are needed.
func FilterAndSort(articles []Article, filters FilterSet, spec SortSpec) []Article {
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if matches(a, filters) {
			out = append(out, a)
		}
	}

	less := comparator(spec.Field)
	sort.SliceStable(out, func(i, j int) bool {
		if spec.Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func matches(a Article, f FilterSet) bool {
	if f.Dates != nil {
		if !f.Dates.From.IsZero() && a.PublishedAt.Before(f.Dates.From) {
			return false
		}
		if !f.Dates.To.IsZero() && a.PublishedAt.After(f.Dates.To) {
			return false
		}
	}
	if !allowed(f.Sources, a.Source) {
		return false
	}
	if !allowed(f.Sentiments, a.AI.Sentiment) {
		return false
	}
	if !allowed(f.Categories, a.Category) {
		return false
	}
	if !allowed(f.Languages, a.AI.Language) {
		return false
	}
	if len(f.Tags) > 0 && !anyAllowed(f.Tags, a.Tags) {
		return false
	}
	if f.Relevance != nil {
		if a.AI.Relevance < f.Relevance.Min || a.AI.Relevance > f.Relevance.Max {
			return false
		}
	}
	if f.Query != "" && !matchesQuery(a, f.Query) {
		return false
	}
	return true
}

// allowed reports set membership against an allow-list; an empty list means
// the facet is unconstrained.
func allowed(list []string, value string) bool {
	if len(list) == 0 {
		return true
	}
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

func anyAllowed(list, values []string) bool {
	for _, v := range values {
		if !allowed(list, v) {
			continue
		}
		// allowed returns true for empty lists; here the list is non-empty
		return true
	}
	return false
}

// matchesQuery does a case-insensitive substring match across title,
// summary, tags, and AI keywords.
func matchesQuery(a Article, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(a.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(a.Summary), q) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	for _, kw := range a.AI.Keywords {
		if strings.Contains(strings.ToLower(kw), q) {
			return true
		}
	}
	return false
}

func comparator(field SortField) func(a, b Article) bool {
	switch field {
	case SortByRelevance:
		return func(a, b Article) bool { return a.AI.Relevance < b.AI.Relevance }
	case SortByTitle:
		return func(a, b Article) bool { return strings.Compare(a.Title, b.Title) < 0 }
	case SortBySource:
		return func(a, b Article) bool { return strings.Compare(a.Source, b.Source) < 0 }
	default:
		return func(a, b Article) bool { return a.PublishedAt.Before(b.PublishedAt) }
	}
}
