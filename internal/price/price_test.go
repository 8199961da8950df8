package price

import (
	"strings"
	"testing"

	"github.com/matsen/cluster-tools/internal/condor"
)

func TestAggregateEmpty(t *testing.T) {
	report := Aggregate(nil)
	if report.TotalRecords != 0 {
		t.Errorf("expected 0 total records, got %d", report.TotalRecords)
	}
	if len(report.Categories) != 4 {
		t.Fatalf("expected all 4 categories present, got %d", len(report.Categories))
	}
	for key, stats := range report.Categories {
		if stats.Count != 0 {
			t.Errorf("%s: expected count 0, got %d", key.Label(), stats.Count)
		}
		if stats.AveragePrice != nil {
			t.Errorf("%s: empty bucket must have nil average, got %v", key.Label(), *stats.AveragePrice)
		}
	}
}

func TestAggregateAverages(t *testing.T) {
	records := []condor.JobRecord{
		{ID: "1.0", State: condor.StateIdle, Priority: 10},
		{ID: "2.0", State: condor.StateIdle, Priority: 20},
		{ID: "3.0", State: condor.StateIdle, Priority: 30},
		{ID: "4.0", State: condor.StateRunning, GPU: true, Priority: 5},
	}
	report := Aggregate(records)

	cpuIdle := report.Categories[CategoryKey{GPU: false, State: condor.StateIdle}]
	if cpuIdle.Count != 3 {
		t.Errorf("expected 3 idle CPU jobs, got %d", cpuIdle.Count)
	}
	if cpuIdle.AveragePrice == nil || *cpuIdle.AveragePrice != 20.0 {
		t.Errorf("expected idle CPU average 20.0, got %v", cpuIdle.AveragePrice)
	}

	gpuRunning := report.Categories[CategoryKey{GPU: true, State: condor.StateRunning}]
	if gpuRunning.Count != 1 || gpuRunning.AveragePrice == nil || *gpuRunning.AveragePrice != 5.0 {
		t.Errorf("unexpected running GPU stats: %+v", gpuRunning)
	}

	for _, key := range []CategoryKey{
		{GPU: true, State: condor.StateIdle},
		{GPU: false, State: condor.StateRunning},
	} {
		stats := report.Categories[key]
		if stats.Count != 0 || stats.AveragePrice != nil {
			t.Errorf("%s: expected empty bucket, got %+v", key.Label(), stats)
		}
	}
}

func TestAggregateOtherStates(t *testing.T) {
	records := []condor.JobRecord{
		{ID: "1.0", State: condor.StateOther, RawStatus: "5", Priority: 99},
		{ID: "2.0", State: condor.StateRunning, Priority: 7},
	}
	report := Aggregate(records)
	if report.OtherStates != 1 {
		t.Errorf("expected 1 other-state job, got %d", report.OtherStates)
	}
	if report.TotalRecords != 2 {
		t.Errorf("expected 2 total records, got %d", report.TotalRecords)
	}

	var bucketed uint64
	for _, stats := range report.Categories {
		bucketed += stats.Count
	}
	if int(bucketed)+report.OtherStates != report.TotalRecords {
		t.Errorf("bucket counts (%d) plus other states (%d) must equal total (%d)",
			bucketed, report.OtherStates, report.TotalRecords)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	records := []condor.JobRecord{
		{ID: "1.0", State: condor.StateIdle, Priority: 1.5},
		{ID: "2.0", State: condor.StateRunning, GPU: true, Priority: 2.5},
		{ID: "3.0", State: condor.StateIdle, GPU: true, Priority: 3.5},
	}
	first := Aggregate(records)
	for i := 0; i < 10; i++ {
		got := Aggregate(records)
		for _, key := range Keys() {
			a, b := first.Categories[key], got.Categories[key]
			if a.Count != b.Count {
				t.Fatalf("%s: count changed between runs", key.Label())
			}
			if (a.AveragePrice == nil) != (b.AveragePrice == nil) {
				t.Fatalf("%s: average presence changed between runs", key.Label())
			}
			if a.AveragePrice != nil && *a.AveragePrice != *b.AveragePrice {
				t.Fatalf("%s: average changed between runs", key.Label())
			}
		}
	}
}

func TestFormatTableEmpty(t *testing.T) {
	out := FormatTable(Aggregate(nil))
	if out != "No jobs found in the queue.\n" {
		t.Errorf("unexpected empty output: %q", out)
	}
}

func TestFormatTable(t *testing.T) {
	records := []condor.JobRecord{
		{ID: "1.0", State: condor.StateIdle, Priority: 10},
		{ID: "2.0", State: condor.StateRunning, GPU: true, Priority: 5},
	}
	out := FormatTable(Aggregate(records))

	if !strings.Contains(out, "GPU/Running") || !strings.Contains(out, "CPU/Idle") {
		t.Errorf("category labels missing: %q", out)
	}
	if !strings.Contains(out, "10.00") || !strings.Contains(out, "5.00") {
		t.Errorf("averages missing: %q", out)
	}
	if strings.Count(out, "N/A") != 2 {
		t.Errorf("expected N/A for the two empty buckets: %q", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Errorf("expected header, underline, and 4 rows, got %d lines", len(lines))
	}
}
