// Package server exposes the derived dashboard views over a JSON API.
package server

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/TobiSchelling/newslens/internal/analytics"
	"github.com/TobiSchelling/newslens/internal/article"
	"github.com/TobiSchelling/newslens/internal/store"
)

// Server is the HTTP server for the dashboard API.
type Server struct {
	store  *store.Store
	router *gin.Engine
}

// New creates a new Server around a store.
func New(st *store.Store) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	s := &Server{store: st, router: router}
	s.routes()
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/dashboard", s.handleDashboard)
	api.GET("/articles", s.handleArticles)
	api.GET("/live", s.handleLive)
	api.POST("/refresh", s.handleRefresh)
	api.POST("/articles/more", s.handleLoadMore)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "newslens"})
}

// handleDashboard returns every derived view in one response. Absent
// analytics sections come back as JSON null so the UI renders empty states.
func (s *Server) handleDashboard(c *gin.Context) {
	view := s.store.View()

	topics := view.Topics
	if limit, err := strconv.Atoi(c.DefaultQuery("topics_limit", "0")); err == nil && limit > 0 && limit < len(topics) {
		topics = topics[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"sentiment":  view.Sentiment,
		"topics":     topics,
		"relevance":  view.Relevance,
		"insights":   view.Insights,
		"comparison": view.Comparison,
		"error":      s.store.LastError(),
	})
}

// handleArticles filters, sorts, and pages the loaded article set per
// request. An empty result is a legitimate state, not an error.
func (s *Server) handleArticles(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filtered := article.FilterAndSort(s.store.Articles(), filters, parseSort(c))

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	total := len(filtered)
	pages := (total + perPage - 1) / perPage
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": filtered[start:end],
		"page":     page,
		"per_page": perPage,
		"total":    total,
		"pages":    pages,
		"has_next": page < pages,
		"has_prev": page > 1 && total > 0,
	})
}

func (s *Server) handleLive(c *gin.Context) {
	samples := s.store.LiveSamples()
	c.JSON(http.StatusOK, gin.H{
		"samples":    samples,
		"comparison": analytics.Compare(samples),
	})
}

func (s *Server) handleRefresh(c *gin.Context) {
	if err := s.store.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "analytics backend unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *Server) handleLoadMore(c *gin.Context) {
	if err := s.store.LoadMore(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "analytics backend unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "has_next": s.store.HasNext()})
}

// parseFilters builds a FilterSet from query parameters. Absent parameters
// leave their facet unconstrained.
func parseFilters(c *gin.Context) (article.FilterSet, error) {
	f := article.FilterSet{
		Sources:    splitList(c.Query("sources")),
		Sentiments: splitList(c.Query("sentiments")),
		Categories: splitList(c.Query("categories")),
		Tags:       splitList(c.Query("tags")),
		Languages:  splitList(c.Query("languages")),
		Query:      c.Query("q"),
	}

	from, to := c.Query("date_from"), c.Query("date_to")
	if from != "" || to != "" {
		var r article.DateRange
		var err error
		if from != "" {
			if r.From, err = time.Parse("2006-01-02", from); err != nil {
				return f, fmt.Errorf("invalid date_from %q", from)
			}
		}
		if to != "" {
			if r.To, err = time.Parse("2006-01-02", to); err != nil {
				return f, fmt.Errorf("invalid date_to %q", to)
			}
			// make the end bound cover the whole day
			r.To = r.To.Add(24*time.Hour - time.Nanosecond)
		}
		f.Dates = &r
	}

	minStr, maxStr := c.Query("min_relevance"), c.Query("max_relevance")
	if minStr != "" || maxStr != "" {
		r := article.RelevanceRange{Max: 100}
		if minStr != "" {
			v, err := strconv.ParseFloat(minStr, 64)
			if err != nil {
				return f, fmt.Errorf("invalid min_relevance %q", minStr)
			}
			r.Min = v
		}
		if maxStr != "" {
			v, err := strconv.ParseFloat(maxStr, 64)
			if err != nil {
				return f, fmt.Errorf("invalid max_relevance %q", maxStr)
			}
			r.Max = v
		}
		f.Relevance = &r
	}

	return f, nil
}

func parseSort(c *gin.Context) article.SortSpec {
	spec := article.SortSpec{
		Field:      article.SortByPublished,
		Descending: c.DefaultQuery("order", "desc") == "desc",
	}
	switch c.Query("sort") {
	case "relevance":
		spec.Field = article.SortByRelevance
	case "title":
		spec.Field = article.SortByTitle
	case "source":
		spec.Field = article.SortBySource
	}
	return spec
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Serve starts the HTTP server on the given port.
func Serve(st *store.Store, port int) error {
	srv := New(st)
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
