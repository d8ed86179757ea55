// Package client talks to the upstream analytics backend.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/TobiSchelling/newslens/internal/analytics"
	"github.com/TobiSchelling/newslens/internal/article"
)

// Granularity is the time bucketing of the analytics query.
type Granularity string

const (
	Hourly  Granularity = "hourly"
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// ParseGranularity validates a granularity string.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(strings.ToLower(s)) {
	case Hourly:
		return Hourly, nil
	case Daily:
		return Daily, nil
	case Weekly:
		return Weekly, nil
	case Monthly:
		return Monthly, nil
	}
	return "", fmt.Errorf("invalid granularity %q (want hourly, daily, weekly, or monthly)", s)
}

// AnalyticsQuery are the parameters of one analytics fetch.
type AnalyticsQuery struct {
	DateFrom    string // YYYY-MM-DD
	DateTo      string
	Granularity Granularity
	Sources     []string
	Topics      []string
}

// ArticlePage is one page of the article listing endpoint.
type ArticlePage struct {
	Articles []article.Article `json:"articles"`
	Page     int               `json:"page"`
	PerPage  int               `json:"per_page"`
	Total    int               `json:"total"`
	Pages    int               `json:"pages"`
	HasNext  bool              `json:"has_next"`
	HasPrev  bool              `json:"has_prev"`
}

// Client issues GET requests against the analytics backend.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a backend client. The base URL is the API root without a
// trailing slash.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchAnalytics retrieves the raw analytics payload for a query.
func (c *Client) FetchAnalytics(ctx context.Context, q AnalyticsQuery) (*analytics.Payload, error) {
	params := url.Values{}
	if q.DateFrom != "" {
		params.Set("date_from", q.DateFrom)
	}
	if q.DateTo != "" {
		params.Set("date_to", q.DateTo)
	}
	if q.Granularity != "" {
		g, err := ParseGranularity(string(q.Granularity))
		if err != nil {
			return nil, err
		}
		params.Set("granularity", string(g))
	}
	if len(q.Sources) > 0 {
		params.Set("sources", strings.Join(q.Sources, ","))
	}
	if len(q.Topics) > 0 {
		params.Set("topics", strings.Join(q.Topics, ","))
	}

	body, err := c.get(ctx, "/analytics", params)
	if err != nil {
		return nil, err
	}
	return analytics.ParsePayload(body)
}

// SearchArticles retrieves one page of the article listing. Page and perPage
// below 1 fall back to the first page with the backend's default size.
func (c *Client) SearchArticles(ctx context.Context, query string, page, perPage int) (*ArticlePage, error) {
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		params.Set("per_page", strconv.Itoa(perPage))
	}
	if query != "" {
		params.Set("q", query)
	}

	body, err := c.get(ctx, "/articles", params)
	if err != nil {
		return nil, err
	}

	var result ArticlePage
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing article page: %w", err)
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}
