// Package condor builds condor_q invocations and parses their autoformat output.
package condor

// JobState classifies a queue entry's lifecycle state.
type JobState string

const (
	StateIdle    JobState = "idle"
	StateRunning JobState = "running"
	StateOther   JobState = "other"
)

// stateCodes is the fixed lookup for HTCondor JobStatus codes. Anything not
// listed (Removed, Completed, Held, Transferring, Suspended, or garbage) maps
// to StateOther with the raw code retained on the record.
var stateCodes = map[string]JobState{
	"1": StateIdle,
	"2": StateRunning,
}

// ParseState maps a raw JobStatus token to a JobState.
func ParseState(code string) JobState {
	if s, ok := stateCodes[code]; ok {
		return s
	}
	return StateOther
}

// JobRecord is one row of a queue snapshot.
type JobRecord struct {
	ID        string
	GPU       bool
	State     JobState
	RawStatus string
	Priority  float64
}

// ParseResult is the outcome of parsing one queue snapshot. SkippedLines
// counts non-blank lines that did not match the expected row shape;
// MalformedPriority counts rows kept at priority 0 because their priority
// field failed numeric parsing.
type ParseResult struct {
	Records           []JobRecord
	SkippedLines      uint64
	MalformedPriority uint64
}

// JobDetail is one row of a user-scoped queue or history listing.
type JobDetail struct {
	ID        string
	State     JobState
	RawStatus string
	GPUs      int
	Cmd       string
	Args      string
	Queued    int64 // unix seconds, 0 when unknown
	Started   int64
}

// JobPaths holds the log file locations for one running job.
type JobPaths struct {
	ID      string
	Iwd     string
	UserLog string
	Out     string
	Err     string
	QDate   int64
}
