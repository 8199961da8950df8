package condor

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrUnrecognizedFormat is returned when the input cannot be line-parsed at
// all (binary garbage rather than noisy text).
var ErrUnrecognizedFormat = errors.New("unrecognized condor_q output format")

// jobIDRe matches the cluster.proc id that -autoformat:j prints first on
// each row.
var jobIDRe = regexp.MustCompile(`^\d+\.\d+$`)

const queueFields = 4 // id, JobStatus, JobPrio, RequestGpus

// ParseQueue converts raw condor_q autoformat output into job records.
// Header, footer, and otherwise malformed lines are skipped and counted,
// never fatal: schedd banners and formatting noise vary across HTCondor
// versions and must not sink the whole snapshot. A row whose priority field
// fails numeric parsing keeps the record at priority 0 and increments
// MalformedPriority so callers can tell noise from missing price data.
func ParseQueue(raw string) (ParseResult, error) {
	var res ParseResult
	if raw == "" {
		return res, nil
	}
	if !utf8.ValidString(raw) || strings.ContainsRune(raw, 0) {
		return res, ErrUnrecognizedFormat
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if !jobIDRe.MatchString(fields[0]) || len(fields) != queueFields {
			res.SkippedLines++
			continue
		}

		rec := JobRecord{
			ID:        fields[0],
			RawStatus: fields[1],
			State:     ParseState(fields[1]),
			GPU:       gpuRequested(fields[3]),
		}
		if prio, err := strconv.ParseFloat(fields[2], 64); err != nil {
			res.MalformedPriority++
		} else {
			rec.Priority = prio
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

// gpuRequested reports whether a RequestGpus token denotes at least one GPU.
// The attribute may be a plain number, "undefined" when unset, or a ClassAd
// expression; expressions that mention GPUs count as GPU jobs.
func gpuRequested(token string) bool {
	if n, err := strconv.ParseFloat(token, 64); err == nil {
		return n > 0
	}
	return strings.Contains(strings.ToLower(token), "gpu")
}

// gpuCount parses a RequestGpus token as an integer count, treating
// "undefined" and expressions as zero.
func gpuCount(token string) int {
	if n, err := strconv.ParseFloat(token, 64); err == nil && n > 0 {
		return int(n)
	}
	return 0
}
