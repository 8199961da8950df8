package condor

import (
	"strings"
	"testing"
)

func TestParseJobList(t *testing.T) {
	raw := "-- Schedd: submit.example.org\n" +
		"101.0\t2\t1\t/usr/bin/python3\ttrain.py --epochs 10\n" +
		"101.1\t1\t0\t/bin/bash\tundefined\n" +
		"garbage line\n"
	jobs := ParseJobList(raw)
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	first := jobs[0]
	if first.ID != "101.0" || first.State != StateRunning || first.GPUs != 1 {
		t.Errorf("unexpected first job: %+v", first)
	}
	if first.Args != "train.py --epochs 10" {
		t.Errorf("args with spaces must survive tab parsing, got %q", first.Args)
	}
	if jobs[1].Args != "" {
		t.Errorf("undefined attr should be cleared, got %q", jobs[1].Args)
	}
}

func TestParseHistory(t *testing.T) {
	raw := "900.0\t4\t0\t/usr/bin/snakemake\tall\t1705312800\t1705316400\n" +
		"900.1\t4\t2\t/usr/bin/python3\teval.py\t1705312900\tundefined\n"
	jobs := ParseHistory(raw)
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].Queued != 1705312800 || jobs[0].Started != 1705316400 {
		t.Errorf("unexpected times: %+v", jobs[0])
	}
	if jobs[1].Started != 0 {
		t.Errorf("undefined start time should be 0, got %d", jobs[1].Started)
	}
	if jobs[1].GPUs != 2 {
		t.Errorf("expected 2 GPUs, got %d", jobs[1].GPUs)
	}
}

func TestParseLogPaths(t *testing.T) {
	raw := "42.0\t/home/alice/run1\tjob.log\tjob.out\tjob.err\t1705312800\n" +
		"43.0\t/home/alice/run2\t/scratch/job.log\tundefined\tjob.err\t1705312900\n"
	jobs := ParseLogPaths(raw)
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].Iwd != "/home/alice/run1" || jobs[0].UserLog != "job.log" {
		t.Errorf("unexpected paths: %+v", jobs[0])
	}
	if jobs[1].Out != "" {
		t.Errorf("undefined Out should be cleared, got %q", jobs[1].Out)
	}
}

func TestSelectJob(t *testing.T) {
	jobs := []JobPaths{
		{ID: "10.0", QDate: 100},
		{ID: "10.1", QDate: 150},
		{ID: "20.0", QDate: 120},
	}

	t.Run("latest by default", func(t *testing.T) {
		got, err := SelectJob(jobs, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != "10.1" {
			t.Errorf("expected latest job 10.1, got %s", got.ID)
		}
	})

	t.Run("latest alias", func(t *testing.T) {
		for _, sel := range []string{"latest", "l", "L"} {
			got, err := SelectJob(jobs, sel)
			if err != nil {
				t.Fatalf("selector %q: unexpected error: %v", sel, err)
			}
			if got.ID != "10.1" {
				t.Errorf("selector %q: expected 10.1, got %s", sel, got.ID)
			}
		}
	})

	t.Run("exact id", func(t *testing.T) {
		got, err := SelectJob(jobs, "20.0")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != "20.0" {
			t.Errorf("expected 20.0, got %s", got.ID)
		}
	})

	t.Run("cluster only", func(t *testing.T) {
		got, err := SelectJob(jobs, "10")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != "10.0" {
			t.Errorf("expected first proc 10.0, got %s", got.ID)
		}
	})

	t.Run("missing job", func(t *testing.T) {
		if _, err := SelectJob(jobs, "99.0"); err == nil {
			t.Error("expected error for unknown job id")
		}
	})

	t.Run("invalid selector", func(t *testing.T) {
		if _, err := SelectJob(jobs, "banana"); err == nil {
			t.Error("expected error for invalid selector")
		}
	})

	t.Run("no jobs", func(t *testing.T) {
		if _, err := SelectJob(nil, "latest"); err == nil {
			t.Error("expected error when nothing is running")
		}
	})
}

func TestTailCommandEscaping(t *testing.T) {
	cmd := TailCommand("/path/with'quote/job.log", 50)
	if !strings.Contains(cmd, `'\''`) {
		t.Errorf("single quote not escaped: %s", cmd)
	}
	if !strings.HasPrefix(cmd, "tail -n 50 '") {
		t.Errorf("unexpected command shape: %s", cmd)
	}
}

func TestResolvePath(t *testing.T) {
	cases := []struct {
		iwd, path, want string
	}{
		{"/home/alice", "job.log", "/home/alice/job.log"},
		{"/home/alice", "/scratch/job.log", "/scratch/job.log"},
		{"", "job.log", "job.log"},
	}
	for _, c := range cases {
		if got := ResolvePath(c.iwd, c.path); got != c.want {
			t.Errorf("ResolvePath(%q, %q) = %q, want %q", c.iwd, c.path, got, c.want)
		}
	}
}

func TestHistoryCommandLimit(t *testing.T) {
	if cmd := HistoryCommand("alice", 0); !strings.Contains(cmd, "-limit 10") {
		t.Errorf("zero limit should default to 10: %s", cmd)
	}
	if cmd := HistoryCommand("alice", 25); !strings.Contains(cmd, "-limit 25") {
		t.Errorf("explicit limit lost: %s", cmd)
	}
}
