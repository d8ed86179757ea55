// Package live produces periodic metric samples for the live dashboard tile.
// The producer is pluggable so a real metrics feed and the synthetic
// simulator share one data path into the aggregation functions.
package live

import (
	"context"
	"math/rand"
	"time"

	"github.com/TobiSchelling/newslens/internal/analytics"
)

// Source produces one metric sample per tick.
type Source interface {
	Sample(now time.Time) analytics.MetricRecord
}

// Simulator is a synthetic Source. It random-walks a handful of newsroom
// metrics so the live tile has plausible movement without a real feed.
type Simulator struct {
	rng       *rand.Rand
	mentions  float64
	sentiment float64
}

// NewSimulator creates a simulator. The seed makes runs reproducible in tests.
func NewSimulator(seed int64) *Simulator {
	return &Simulator{
		rng:       rand.New(rand.NewSource(seed)),
		mentions:  50,
		sentiment: 0,
	}
}

// Sample advances the random walk and returns the next record.
func (s *Simulator) Sample(now time.Time) analytics.MetricRecord {
	s.mentions += s.rng.Float64()*20 - 10
	if s.mentions < 0 {
		s.mentions = 0
	}
	s.sentiment += s.rng.Float64()*0.2 - 0.1
	if s.sentiment > 1 {
		s.sentiment = 1
	}
	if s.sentiment < -1 {
		s.sentiment = -1
	}

	return analytics.MetricRecord{
		Timestamp: now,
		Values: map[string]float64{
			"mentions":  float64(int(s.mentions)),
			"sentiment": s.sentiment,
			"articles":  float64(s.rng.Intn(10)),
		},
	}
}

// Runner drives a Source on a fixed interval and hands each sample to the
// sink until the context is cancelled.
type Runner struct {
	src      Source
	interval time.Duration
	sink     func(analytics.MetricRecord)
}

// NewRunner creates a runner. An interval of 0 defaults to 5 seconds.
func NewRunner(src Source, interval time.Duration, sink func(analytics.MetricRecord)) *Runner {
	if interval == 0 {
		interval = 5 * time.Second
	}
	return &Runner{src: src, interval: interval, sink: sink}
}

// Run blocks, emitting one sample per tick, until ctx is done.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.sink(r.src.Sample(now))
		}
	}
}
