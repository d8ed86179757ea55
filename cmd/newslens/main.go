package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/TobiSchelling/newslens/internal/article"
	"github.com/TobiSchelling/newslens/internal/client"
	"github.com/TobiSchelling/newslens/internal/config"
	"github.com/TobiSchelling/newslens/internal/live"
	"github.com/TobiSchelling/newslens/internal/server"
	"github.com/TobiSchelling/newslens/internal/store"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "newslens",
	Short:   "News analytics dashboard backend",
	Long:    "NewsLens fetches precomputed news analytics, derives dashboard views, and serves them as JSON.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(articlesCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("newslens", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/newslens/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to point at your analytics backend.")
		return nil
	},
}

// --- status command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Fetch analytics and print a dashboard summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := openStore()
		if err := st.Refresh(cmd.Context()); err != nil {
			return fmt.Errorf("fetching analytics: %w", err)
		}

		view := st.View()

		fmt.Printf("Backend: %s\n\n", cfg.Backend.BaseURL)

		if view.Sentiment == nil {
			fmt.Println("Sentiment: no data")
		} else {
			s := view.Sentiment
			fmt.Println("Sentiment:")
			fmt.Printf("  Positive: %d  Negative: %d  Neutral: %d  (total %d)\n",
				s.Positive, s.Negative, s.Neutral, s.Total)
			fmt.Printf("  Average score: %+.2f\n", s.Score)
		}

		r := view.Relevance
		fmt.Println("\nRelevance composite:")
		fmt.Printf("  Credibility: %.0f  Engagement: %.0f  Quality: %.0f  Trends: %.0f\n",
			r.Credibility, r.Engagement, r.Quality, r.Trends)
		fmt.Printf("  Overall: %d\n", r.Overall)

		if len(view.Topics) > 0 {
			fmt.Println("\nTop topics:")
			topics := view.Topics
			if len(topics) > 5 {
				topics = topics[:5]
			}
			for _, topic := range topics {
				fmt.Printf("  %s: %d articles (sentiment %+.2f)\n", topic.Name, topic.Count, topic.Sentiment)
			}
		}

		if len(view.Insights) > 0 {
			fmt.Println("\nInsights:")
			for _, in := range view.Insights {
				fmt.Printf("  [%s] %s (confidence %.2f)\n", in.Kind, in.Title, in.Confidence)
			}
		}

		if c := view.Comparison; c != nil {
			fmt.Println("\nPeriod comparison:")
			for _, d := range c.Deltas {
				fmt.Printf("  %s: %+.1f (%+.1f%%, %s)\n", d.Metric, d.Absolute, d.Percent, d.Direction)
			}
		}

		fmt.Printf("\nArticles loaded: %d\n", len(view.Articles))
		return nil
	},
}

// --- articles command ---

var (
	articleSources    []string
	articleSentiments []string
	articleCategories []string
	articleTags       []string
	articleQuery      string
	articleMinRel     float64
	articleMaxRel     float64
	articleSort       string
	articleDesc       bool
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Fetch and list articles with filters applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := openStore()
		if err := st.Refresh(cmd.Context()); err != nil {
			return fmt.Errorf("fetching articles: %w", err)
		}

		filters := article.FilterSet{
			Sources:    articleSources,
			Sentiments: articleSentiments,
			Categories: articleCategories,
			Tags:       articleTags,
			Query:      articleQuery,
		}
		if articleMinRel > 0 || articleMaxRel < 100 {
			filters.Relevance = &article.RelevanceRange{Min: articleMinRel, Max: articleMaxRel}
		}

		spec := article.SortSpec{Field: article.SortByPublished, Descending: articleDesc}
		switch articleSort {
		case "relevance":
			spec.Field = article.SortByRelevance
		case "title":
			spec.Field = article.SortByTitle
		case "source":
			spec.Field = article.SortBySource
		}

		results := article.FilterAndSort(st.Articles(), filters, spec)
		if len(results) == 0 {
			fmt.Println("No articles match the active filters.")
			return nil
		}

		for _, a := range results {
			date := ""
			if !a.PublishedAt.IsZero() {
				date = a.PublishedAt.Format("2006-01-02")
			}
			fmt.Printf("%-10s  %-12s  %3.0f  %s\n", date, truncate(a.Source, 12), a.AI.Relevance, a.Title)
		}
		fmt.Printf("\n%d article(s)\n", len(results))
		return nil
	},
}

func init() {
	articlesCmd.Flags().StringSliceVar(&articleSources, "source", nil, "Filter by source (repeatable)")
	articlesCmd.Flags().StringSliceVar(&articleSentiments, "sentiment", nil, "Filter by sentiment (repeatable)")
	articlesCmd.Flags().StringSliceVar(&articleCategories, "category", nil, "Filter by category (repeatable)")
	articlesCmd.Flags().StringSliceVar(&articleTags, "tag", nil, "Filter by tag (repeatable)")
	articlesCmd.Flags().StringVarP(&articleQuery, "query", "q", "", "Free-text search")
	articlesCmd.Flags().Float64Var(&articleMinRel, "min-relevance", 0, "Minimum relevance score")
	articlesCmd.Flags().Float64Var(&articleMaxRel, "max-relevance", 100, "Maximum relevance score")
	articlesCmd.Flags().StringVar(&articleSort, "sort", "published", "Sort field: published, relevance, title, source")
	articlesCmd.Flags().BoolVar(&articleDesc, "desc", true, "Sort descending")
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := openStore()

		// A failed initial fetch is not fatal: the error surfaces through
		// the API and a POST /api/refresh retries it.
		if err := st.Refresh(cmd.Context()); err != nil {
			log.Printf("Initial fetch failed: %v", err)
		}

		if cfg.Live.Enabled {
			interval := time.Duration(cfg.Live.IntervalSeconds) * time.Second
			runner := live.NewRunner(live.NewSimulator(liveSeed()), interval, st.PushLive)
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go runner.Run(ctx)
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(st, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (overrides config)")
}

func liveSeed() int64 {
	if cfg.Live.Seed != 0 {
		return cfg.Live.Seed
	}
	return time.Now().UnixNano()
}

func openStore() *store.Store {
	timeout := time.Duration(cfg.Backend.TimeoutSeconds) * time.Second
	c := client.New(cfg.Backend.BaseURL, timeout)
	return store.New(c, buildQuery(cfg), cfg.Articles.PerPage)
}

// buildQuery derives the analytics query window from the configured lookback.
func buildQuery(cfg *config.Config) client.AnalyticsQuery {
	daysBack := cfg.Query.DaysBack
	if daysBack <= 0 {
		daysBack = 7
	}
	now := time.Now()
	return client.AnalyticsQuery{
		DateFrom:    now.AddDate(0, 0, -daysBack).Format("2006-01-02"),
		DateTo:      now.Format("2006-01-02"),
		Granularity: client.Granularity(strings.ToLower(cfg.Query.Granularity)),
		Sources:     cfg.Query.Sources,
		Topics:      cfg.Query.Topics,
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
