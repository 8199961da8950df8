package condor

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	listFields    = 5 // id, JobStatus, RequestGpus, Cmd, Args
	historyFields = 7 // ... plus QDate, JobStartDate
	logPathFields = 6 // id, Iwd, UserLog, Out, Err, QDate
)

// ParseJobList parses a tab-separated user queue listing. Malformed lines
// are dropped, matching ParseQueue's tolerance.
func ParseJobList(raw string) []JobDetail {
	var jobs []JobDetail
	for _, line := range splitNonEmpty(raw) {
		f := strings.Split(line, "\t")
		if len(f) != listFields || !jobIDRe.MatchString(f[0]) {
			continue
		}
		jobs = append(jobs, JobDetail{
			ID:        f[0],
			RawStatus: f[1],
			State:     ParseState(f[1]),
			GPUs:      gpuCount(f[2]),
			Cmd:       cleanAttr(f[3]),
			Args:      cleanAttr(f[4]),
		})
	}
	return jobs
}

// ParseHistory parses a tab-separated condor_history listing.
func ParseHistory(raw string) []JobDetail {
	var jobs []JobDetail
	for _, line := range splitNonEmpty(raw) {
		f := strings.Split(line, "\t")
		if len(f) != historyFields || !jobIDRe.MatchString(f[0]) {
			continue
		}
		jobs = append(jobs, JobDetail{
			ID:        f[0],
			RawStatus: f[1],
			State:     ParseState(f[1]),
			GPUs:      gpuCount(f[2]),
			Cmd:       cleanAttr(f[3]),
			Args:      cleanAttr(f[4]),
			Queued:    parseUnix(f[5]),
			Started:   parseUnix(f[6]),
		})
	}
	return jobs
}

// ParseLogPaths parses the log-location listing of running jobs.
func ParseLogPaths(raw string) []JobPaths {
	var jobs []JobPaths
	for _, line := range splitNonEmpty(raw) {
		f := strings.Split(line, "\t")
		if len(f) != logPathFields || !jobIDRe.MatchString(f[0]) {
			continue
		}
		jobs = append(jobs, JobPaths{
			ID:      f[0],
			Iwd:     cleanAttr(f[1]),
			UserLog: cleanAttr(f[2]),
			Out:     cleanAttr(f[3]),
			Err:     cleanAttr(f[4]),
			QDate:   parseUnix(f[5]),
		})
	}
	return jobs
}

// SelectJob picks one running job by selector: "cluster.proc" for an exact
// match, "cluster" for the first proc of a cluster, or "latest"/"l"/"" for
// the most recently queued job.
func SelectJob(jobs []JobPaths, selector string) (JobPaths, error) {
	if len(jobs) == 0 {
		return JobPaths{}, fmt.Errorf("no running jobs to select from")
	}

	selector = strings.TrimSpace(selector)
	if selector == "" || strings.EqualFold(selector, "latest") || strings.EqualFold(selector, "l") {
		latest := jobs[0]
		for _, j := range jobs[1:] {
			if j.QDate > latest.QDate {
				latest = j
			}
		}
		return latest, nil
	}

	if jobIDRe.MatchString(selector) {
		for _, j := range jobs {
			if j.ID == selector {
				return j, nil
			}
		}
		return JobPaths{}, fmt.Errorf("job %s not found among running jobs", selector)
	}

	if _, err := strconv.Atoi(selector); err == nil {
		prefix := selector + "."
		for _, j := range jobs {
			if strings.HasPrefix(j.ID, prefix) {
				return j, nil
			}
		}
		return JobPaths{}, fmt.Errorf("job %s not found among running jobs", selector)
	}

	return JobPaths{}, fmt.Errorf("invalid job selector %q (expected cluster[.proc] or \"latest\")", selector)
}

// cleanAttr trims a field and maps HTCondor's "undefined" marker to empty.
func cleanAttr(s string) string {
	s = strings.TrimSpace(s)
	if s == "undefined" {
		return ""
	}
	return s
}

// parseUnix parses an epoch-seconds field, treating anything unparseable as
// unknown.
func parseUnix(s string) int64 {
	n, err := strconv.ParseInt(cleanAttr(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// splitNonEmpty splits a string by newlines and returns only non-empty lines.
func splitNonEmpty(s string) []string {
	lines := strings.Split(s, "\n")
	var result []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
