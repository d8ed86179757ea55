package analytics

import (
	"math"
	"sort"
	"time"
)

// stableThresholdPct is the percentage-change band treated as "no movement".
const stableThresholdPct = 1.0

// MetricRecord is one timestamped sample of named metric values. The value
// map is sparse: a metric absent from a record is skipped when averaging,
// not treated as zero.
type MetricRecord struct {
	Timestamp time.Time          `json:"timestamp"`
	Values    map[string]float64 `json:"values"`
}

// PeriodStat describes one half of a compared series.
type PeriodStat struct {
	Label string             `json:"label"`
	Start time.Time          `json:"start"`
	End   time.Time          `json:"end"`
	Means map[string]float64 `json:"means"`
}

// MetricDelta is the per-metric movement between the two periods.
// Direction is "stable" iff the absolute percentage change is under the
// threshold, otherwise "up" or "down" by the sign of the change.
type MetricDelta struct {
	Metric    string  `json:"metric"`
	Absolute  float64 `json:"absolute_change"`
	Percent   float64 `json:"percentage_change"`
	Direction string  `json:"direction"`
}

// Comparison contrasts the earlier half of a series against the later half.
type Comparison struct {
	Period1 PeriodStat    `json:"period1"`
	Period2 PeriodStat    `json:"period2"`
	Deltas  []MetricDelta `json:"deltas"`
}

// Compare splits a metric series into two halves and computes per-metric
// means and deltas. Returns nil when fewer than two points exist, since the
// series cannot be split into two non-empty periods. When the series has an
// odd length the extra record lands in the earlier period. A zero baseline
// mean yields a percentage change of 0 rather than a division by zero.
func Compare(series []MetricRecord) *Comparison {
	if len(series) < 2 {
		return nil
	}

	sorted := make([]MetricRecord, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	split := (len(sorted) + 1) / 2
	p1 := periodStat("previous", sorted[:split])
	p2 := periodStat("current", sorted[split:])

	metrics := make(map[string]struct{})
	for _, rec := range sorted {
		for name := range rec.Values {
			metrics[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	deltas := make([]MetricDelta, 0, len(names))
	for _, name := range names {
		mean1 := p1.Means[name]
		mean2 := p2.Means[name]
		abs := mean2 - mean1

		pct := 0.0
		if mean1 != 0 {
			pct = abs / mean1 * 100
		}

		direction := "stable"
		if math.Abs(pct) >= stableThresholdPct {
			if pct > 0 {
				direction = "up"
			} else {
				direction = "down"
			}
		}

		deltas = append(deltas, MetricDelta{
			Metric:    name,
			Absolute:  abs,
			Percent:   pct,
			Direction: direction,
		})
	}

	return &Comparison{Period1: p1, Period2: p2, Deltas: deltas}
}

// periodStat averages each metric over the records that actually carry it.
func periodStat(label string, records []MetricRecord) PeriodStat {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, rec := range records {
		for name, v := range rec.Values {
			sums[name] += v
			counts[name]++
		}
	}

	means := make(map[string]float64, len(sums))
	for name, sum := range sums {
		means[name] = sum / float64(counts[name])
	}

	return PeriodStat{
		Label: label,
		Start: records[0].Timestamp,
		End:   records[len(records)-1].Timestamp,
		Means: means,
	}
}
