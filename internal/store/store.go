// Package store holds the current query selection, the fetched raw payload,
// and the view-models derived from it.
package store

import (
	"context"
	"log"
	"sync"

	"github.com/TobiSchelling/newslens/internal/analytics"
	"github.com/TobiSchelling/newslens/internal/article"
	"github.com/TobiSchelling/newslens/internal/client"
)

// liveSampleCap bounds the in-memory ring of live metric samples.
const liveSampleCap = 120

// fetcher is the slice of the backend client the store depends on.
type fetcher interface {
	FetchAnalytics(ctx context.Context, q client.AnalyticsQuery) (*analytics.Payload, error)
	SearchArticles(ctx context.Context, query string, page, perPage int) (*client.ArticlePage, error)
}

// View is the derived, render-ready snapshot of the dashboard. A nil
// Sentiment or Comparison means that view has no data, not an error.
type View struct {
	Sentiment  *analytics.SentimentSummary  `json:"sentiment"`
	Topics     []analytics.Topic            `json:"topics"`
	Relevance  analytics.RelevanceComposite `json:"relevance"`
	Insights   []analytics.Insight          `json:"insights"`
	Comparison *analytics.Comparison        `json:"comparison"`
	Articles   []article.Article            `json:"articles"`
}

// Store is the single shared state container. All derived view-models are
// recomputed on every relevant change; the raw payload and article list are
// replaced wholesale, never mutated field by field. Responses that arrive
// for a superseded request are discarded via a generation counter.
type Store struct {
	mu      sync.Mutex
	client  fetcher
	query   client.AnalyticsQuery
	filters article.FilterSet
	sort    article.SortSpec
	perPage int

	gen      uint64
	payload  *analytics.Payload
	articles []article.Article
	page     int
	hasNext  bool

	live []analytics.MetricRecord

	view    View
	lastErr string
}

// New creates a store around a backend client.
func New(c fetcher, q client.AnalyticsQuery, perPage int) *Store {
	if perPage <= 0 {
		perPage = 20
	}
	return &Store{
		client:  c,
		query:   q,
		perPage: perPage,
		sort:    article.SortSpec{Field: article.SortByPublished, Descending: true},
	}
}

// Refresh refetches the analytics payload and the first article page for the
// current query. If another refresh supersedes this one while the request is
// in flight, the late result is discarded.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	q := s.query
	perPage := s.perPage
	s.mu.Unlock()

	payload, err := s.client.FetchAnalytics(ctx, q)
	if err != nil {
		s.fail(gen, err)
		return err
	}

	page, err := s.client.SearchArticles(ctx, "", 1, perPage)
	if err != nil {
		s.fail(gen, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		log.Printf("discarding stale analytics response (gen %d < %d)", gen, s.gen)
		return nil
	}

	s.payload = payload
	s.articles = page.Articles
	s.page = page.Page
	s.hasNext = page.HasNext
	s.lastErr = ""
	s.recompute()
	return nil
}

// LoadMore appends the next article page to the current result set.
// It is a no-op when the backend reported no further pages.
func (s *Store) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if !s.hasNext {
		s.mu.Unlock()
		return nil
	}
	gen := s.gen
	next := s.page + 1
	perPage := s.perPage
	s.mu.Unlock()

	page, err := s.client.SearchArticles(ctx, "", next, perPage)
	if err != nil {
		s.fail(gen, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		log.Printf("discarding stale article page (gen %d < %d)", gen, s.gen)
		return nil
	}

	s.articles = append(s.articles, page.Articles...)
	s.page = page.Page
	s.hasNext = page.HasNext
	s.recompute()
	return nil
}

// SetQuery replaces the analytics query and refetches.
func (s *Store) SetQuery(ctx context.Context, q client.AnalyticsQuery) error {
	s.mu.Lock()
	s.query = q
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// SetFilters replaces the filter selection and recomputes the article view.
func (s *Store) SetFilters(f article.FilterSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = f
	s.recompute()
}

// SetSort replaces the sort selection and recomputes the article view.
func (s *Store) SetSort(spec article.SortSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = spec
	s.recompute()
}

// ClearFilters drops every facet, keeping the sort selection.
func (s *Store) ClearFilters() {
	s.SetFilters(article.FilterSet{})
}

// PushLive appends a live metric sample, trimming the ring to capacity.
func (s *Store) PushLive(rec analytics.MetricRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live = append(s.live, rec)
	if len(s.live) > liveSampleCap {
		s.live = s.live[len(s.live)-liveSampleCap:]
	}
}

// LiveSamples returns a copy of the buffered live samples, oldest first.
func (s *Store) LiveSamples() []analytics.MetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]analytics.MetricRecord, len(s.live))
	copy(out, s.live)
	return out
}

// Articles returns a copy of the loaded article result set before the
// store's own filter selection is applied. The serving layer uses it for
// per-request filtering.
func (s *Store) Articles() []article.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]article.Article, len(s.articles))
	copy(out, s.articles)
	return out
}

// View returns the current derived snapshot.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// HasNext reports whether another article page can be loaded.
func (s *Store) HasNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasNext
}

// LastError returns the error string of the most recent failed fetch, empty
// after a successful one. Recovery is a manual retry.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// fail records a fetch error unless the request was already superseded.
func (s *Store) fail(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.lastErr = err.Error()
}

// recompute rebuilds every view-model from the current payload and article
// list. Callers must hold s.mu.
func (s *Store) recompute() {
	s.view = View{
		Sentiment:  analytics.BuildSentimentSummary(s.payload),
		Topics:     analytics.BuildTopicList(s.payload),
		Relevance:  analytics.BuildRelevanceComposite(s.payload),
		Insights:   analytics.BuildInsights(s.payload),
		Comparison: analytics.Compare(s.payload.TrendSeries()),
		Articles:   article.FilterAndSort(s.articles, s.filters, s.sort),
	}
}
