package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TobiSchelling/newslens/internal/analytics"
	"github.com/TobiSchelling/newslens/internal/article"
	"github.com/TobiSchelling/newslens/internal/client"
)

// fakeBackend serves canned responses and can run a hook while a fetch is
// in flight, which lets tests interleave a competing refresh.
type fakeBackend struct {
	payloadJSON string
	pages       map[int]client.ArticlePage
	err         error
	onFetch     func()
	fetchCalls  int
}

func (f *fakeBackend) FetchAnalytics(_ context.Context, _ client.AnalyticsQuery) (*analytics.Payload, error) {
	f.fetchCalls++
	if f.onFetch != nil && f.fetchCalls == 1 {
		f.onFetch()
	}
	if f.err != nil {
		return nil, f.err
	}
	return analytics.ParsePayload([]byte(f.payloadJSON))
}

func (f *fakeBackend) SearchArticles(_ context.Context, _ string, page, _ int) (*client.ArticlePage, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.pages[page]
	if !ok {
		p = client.ArticlePage{Page: page}
	}
	return &p, nil
}

func art(id string, day int, sentiment string) article.Article {
	return article.Article{
		ID:          id,
		Title:       id,
		PublishedAt: time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC),
		AI:          article.AIMetadata{Sentiment: sentiment, Relevance: 50},
	}
}

func TestRefreshDerivesViewModels(t *testing.T) {
	backend := &fakeBackend{
		payloadJSON: `{
			"sentiment": {"positive": 70, "negative": 20, "neutral": 10, "average": 0.4},
			"trends": {"topics": [{"name": "ai", "count": 9}], "series": [
				{"timestamp": "2026-08-01T00:00:00Z", "mentions": 10},
				{"timestamp": "2026-08-02T00:00:00Z", "mentions": 30}
			]}
		}`,
		pages: map[int]client.ArticlePage{
			1: {Articles: []article.Article{art("a1", 1, "positive"), art("a2", 2, "negative")}, Page: 1, HasNext: false},
		},
	}

	s := New(backend, client.AnalyticsQuery{}, 20)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	view := s.View()
	if view.Sentiment == nil || view.Sentiment.Total != 100 {
		t.Errorf("expected sentiment total 100, got %+v", view.Sentiment)
	}
	if len(view.Topics) != 1 || view.Topics[0].Name != "ai" {
		t.Errorf("unexpected topics: %+v", view.Topics)
	}
	if len(view.Insights) == 0 {
		t.Error("expected insights from positive sentiment")
	}
	if view.Comparison == nil {
		t.Error("expected comparison from trend series")
	}
	if len(view.Articles) != 2 {
		t.Errorf("expected 2 articles, got %d", len(view.Articles))
	}
	// default sort is newest first
	if view.Articles[0].ID != "a2" {
		t.Errorf("expected newest article first, got %q", view.Articles[0].ID)
	}
	if s.LastError() != "" {
		t.Errorf("expected empty error, got %q", s.LastError())
	}
}

func TestRefreshDiscardsStaleResponse(t *testing.T) {
	newer := &fakeBackend{
		payloadJSON: `{"sentiment": {"positive": 9, "negative": 0, "neutral": 0, "average": 0.9}}`,
		pages:       map[int]client.ArticlePage{1: {Articles: []article.Article{art("new", 1, "positive")}, Page: 1}},
	}

	var s *Store
	older := &fakeBackend{
		payloadJSON: `{"sentiment": {"positive": 1, "negative": 0, "neutral": 0, "average": 0.1}}`,
		pages:       map[int]client.ArticlePage{1: {Articles: []article.Article{art("old", 1, "positive")}, Page: 1}},
	}
	older.onFetch = func() {
		// A competing refresh lands while the first request is in flight.
		s.client = newer
		if err := s.Refresh(context.Background()); err != nil {
			t.Fatalf("competing refresh failed: %v", err)
		}
	}

	s = New(older, client.AnalyticsQuery{}, 20)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	view := s.View()
	if view.Sentiment == nil || view.Sentiment.Positive != 9 {
		t.Errorf("expected the newer response to win, got %+v", view.Sentiment)
	}
	if len(view.Articles) != 1 || view.Articles[0].ID != "new" {
		t.Errorf("expected newer article set, got %+v", view.Articles)
	}
}

func TestRefreshRecordsError(t *testing.T) {
	backend := &fakeBackend{err: errors.New("connection refused")}
	s := New(backend, client.AnalyticsQuery{}, 20)

	if err := s.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if s.LastError() == "" {
		t.Error("expected error to be recorded for the view layer")
	}

	// Manual retry against a recovered backend clears the error.
	backend.err = nil
	backend.payloadJSON = `{}`
	backend.pages = map[int]client.ArticlePage{1: {Page: 1}}
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if s.LastError() != "" {
		t.Errorf("expected cleared error, got %q", s.LastError())
	}
}

func TestLoadMoreAppends(t *testing.T) {
	backend := &fakeBackend{
		payloadJSON: `{}`,
		pages: map[int]client.ArticlePage{
			1: {Articles: []article.Article{art("a1", 1, "neutral")}, Page: 1, HasNext: true},
			2: {Articles: []article.Article{art("a2", 2, "neutral")}, Page: 2, HasNext: false},
		},
	}

	s := New(backend, client.AnalyticsQuery{}, 1)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if err := s.LoadMore(context.Background()); err != nil {
		t.Fatalf("load more failed: %v", err)
	}

	if got := len(s.View().Articles); got != 2 {
		t.Errorf("expected 2 articles after load more, got %d", got)
	}
	if s.HasNext() {
		t.Error("expected no further pages")
	}

	// Exhausted paging makes LoadMore a no-op.
	if err := s.LoadMore(context.Background()); err != nil {
		t.Fatalf("no-op load more failed: %v", err)
	}
	if got := len(s.View().Articles); got != 2 {
		t.Errorf("expected article count unchanged, got %d", got)
	}
}

func TestSetFiltersRecomputes(t *testing.T) {
	backend := &fakeBackend{
		payloadJSON: `{}`,
		pages: map[int]client.ArticlePage{
			1: {Articles: []article.Article{
				art("a1", 1, "positive"), art("a2", 2, "negative"), art("a3", 3, "positive"),
			}, Page: 1},
		},
	}

	s := New(backend, client.AnalyticsQuery{}, 20)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	s.SetFilters(article.FilterSet{Sentiments: []string{"positive"}})
	if got := len(s.View().Articles); got != 2 {
		t.Errorf("expected 2 positive articles, got %d", got)
	}

	s.SetSort(article.SortSpec{Field: article.SortByPublished})
	if view := s.View(); view.Articles[0].ID != "a1" {
		t.Errorf("expected oldest first after sort change, got %q", view.Articles[0].ID)
	}

	s.ClearFilters()
	if got := len(s.View().Articles); got != 3 {
		t.Errorf("expected all articles after clearing filters, got %d", got)
	}
}

func TestLiveSampleRing(t *testing.T) {
	s := New(&fakeBackend{payloadJSON: `{}`}, client.AnalyticsQuery{}, 20)

	for i := 0; i < liveSampleCap+10; i++ {
		s.PushLive(analytics.MetricRecord{
			Timestamp: time.Date(2026, 8, 1, 0, 0, i, 0, time.UTC),
			Values:    map[string]float64{"mentions": float64(i)},
		})
	}

	samples := s.LiveSamples()
	if len(samples) != liveSampleCap {
		t.Fatalf("expected ring trimmed to %d, got %d", liveSampleCap, len(samples))
	}
	if samples[0].Values["mentions"] != 10 {
		t.Errorf("expected oldest retained sample to be 10, got %v", samples[0].Values["mentions"])
	}
}
