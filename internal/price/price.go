// Package price aggregates queue snapshots into per-category priority
// statistics.
package price

import (
	"github.com/matsen/cluster-tools/internal/condor"
)

// CategoryKey identifies one of the four reporting buckets.
type CategoryKey struct {
	GPU   bool
	State condor.JobState
}

// Label returns the human name of the bucket, e.g. "GPU/Running".
func (k CategoryKey) Label() string {
	kind := "CPU"
	if k.GPU {
		kind = "GPU"
	}
	state := "Idle"
	if k.State == condor.StateRunning {
		state = "Running"
	}
	return kind + "/" + state
}

// CategoryStats holds the aggregate for one bucket. AveragePrice is nil when
// the bucket is empty so that "no jobs" never reads as "average price zero".
type CategoryStats struct {
	Count        uint64
	AveragePrice *float64
}

// Report is a full aggregation over one queue snapshot. All four categories
// are always present in Categories, empty ones with a zero count and nil
// average.
type Report struct {
	Categories   map[CategoryKey]CategoryStats
	TotalRecords int
	OtherStates  int
}

// Keys returns the four category keys in fixed display order.
func Keys() []CategoryKey {
	return []CategoryKey{
		{GPU: true, State: condor.StateIdle},
		{GPU: true, State: condor.StateRunning},
		{GPU: false, State: condor.StateIdle},
		{GPU: false, State: condor.StateRunning},
	}
}

// Aggregate buckets records by (GPU, state) and averages raw priorities.
// Records in states other than idle or running are counted in OtherStates
// and excluded from every bucket.
func Aggregate(records []condor.JobRecord) Report {
	type acc struct {
		count uint64
		sum   float64
	}
	accs := make(map[CategoryKey]acc, 4)

	report := Report{
		Categories:   make(map[CategoryKey]CategoryStats, 4),
		TotalRecords: len(records),
	}

	for _, rec := range records {
		if rec.State != condor.StateIdle && rec.State != condor.StateRunning {
			report.OtherStates++
			continue
		}
		key := CategoryKey{GPU: rec.GPU, State: rec.State}
		a := accs[key]
		a.count++
		a.sum += rec.Priority
		accs[key] = a
	}

	for _, key := range Keys() {
		a := accs[key]
		stats := CategoryStats{Count: a.count}
		if a.count > 0 {
			avg := a.sum / float64(a.count)
			stats.AveragePrice = &avg
		}
		report.Categories[key] = stats
	}
	return report
}
