package report

import (
	"sort"

	"github.com/perf2issue/perf2issue/internal/appsignal"
)

// DurationStats are the derived statistics over the sample durations.
type DurationStats struct {
	Min    float64
	Max    float64
	Mean   float64
	Median float64
}

// ComputeDurationStats derives min/max/mean/median from the samples that
// reported a duration. The second return value is false when there is no
// data, so callers can render the no-data placeholder instead of a table.
func ComputeDurationStats(samples []appsignal.Sample) (DurationStats, bool) {
	var values []float64
	for _, s := range samples {
		if s.Duration != nil {
			values = append(values, *s.Duration)
		}
	}
	if len(values) == 0 {
		return DurationStats{}, false
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	return DurationStats{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   sum / float64(len(sorted)),
		Median: Median(sorted),
	}, true
}

// Median returns the median of a sorted, non-empty slice: the central value
// for odd lengths, the average of the two central values for even lengths.
func Median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// AllocationAggregate is the mean allocation for one category across the
// samples that reported it.
type AllocationAggregate struct {
	Group       string
	Mean        float64
	SampleCount int
}

// AggregateAllocations groups allocation entries by category across all
// samples and computes the mean per category, sorted by descending mean.
// Categories are whatever keys appear in the data, not a fixed enum.
func AggregateAllocations(samples []appsignal.Sample) []AllocationAggregate {
	totals := make(map[string]float64)
	counts := make(map[string]int)
	var order []string

	for _, s := range samples {
		for _, g := range s.GroupAllocations {
			if _, seen := totals[g.Group]; !seen {
				order = append(order, g.Group)
			}
			totals[g.Group] += g.Value
			counts[g.Group]++
		}
	}

	aggregates := make([]AllocationAggregate, 0, len(order))
	for _, group := range order {
		aggregates = append(aggregates, AllocationAggregate{
			Group:       group,
			Mean:        totals[group] / float64(counts[group]),
			SampleCount: counts[group],
		})
	}

	sort.SliceStable(aggregates, func(i, j int) bool {
		return aggregates[i].Mean > aggregates[j].Mean
	})
	return aggregates
}

// sortedByValueDesc returns a copy of a breakdown resorted by descending
// value. Source order is preserved for equal values.
func sortedByValueDesc(groups []appsignal.GroupValue) []appsignal.GroupValue {
	sorted := make([]appsignal.GroupValue, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value > sorted[j].Value
	})
	return sorted
}
