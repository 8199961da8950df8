package condor

import (
	"fmt"
	"strings"
)

// QueueCommand is the fixed queue-inspection invocation for price analysis.
// -autoformat:j prints one whitespace-delimited line per proc with the
// cluster.proc id first; that shape is what ParseQueue expects.
const QueueCommand = "condor_q -allusers -nobatch -autoformat:j JobStatus JobPrio RequestGpus"

// TailLines is how many lines of each job log the logs command shows.
const TailLines = 50

// ListCommand returns the invocation for a user's current jobs. Tab
// separation (:jt) keeps Cmd and Args parseable even when they contain
// spaces.
func ListCommand(user string) string {
	return fmt.Sprintf("condor_q %s -nobatch -autoformat:jt JobStatus RequestGpus Cmd Args", user)
}

// HistoryCommand returns the invocation for a user's recently completed jobs.
func HistoryCommand(user string, limit int) string {
	if limit <= 0 {
		limit = 10
	}
	return fmt.Sprintf("condor_history %s -autoformat:jt JobStatus RequestGpus Cmd Args QDate JobStartDate -limit %d", user, limit)
}

// LogPathsCommand returns the invocation listing log locations of a user's
// running jobs.
func LogPathsCommand(user string) string {
	return fmt.Sprintf("condor_q %s -nobatch -constraint 'JobStatus==2' -autoformat:jt Iwd UserLog Out Err QDate", user)
}

// TailCommand returns a remote tail of the given log file.
func TailCommand(path string, lines int) string {
	return fmt.Sprintf("tail -n %d '%s'", lines, ShellEscape(path))
}

// ShellEscape makes a path safe for interpolation inside single quotes.
func ShellEscape(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}

// ResolvePath joins a job-relative path with its initial working directory.
func ResolvePath(iwd, path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	if iwd == "" {
		return path
	}
	return iwd + "/" + path
}
