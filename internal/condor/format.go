package condor

import (
	"fmt"
	"strings"
	"time"
)

// FormatJobs formats a job listing as a human-readable table.
func FormatJobs(jobs []JobDetail) string {
	if len(jobs) == 0 {
		return "No jobs found.\n"
	}

	headers := []string{"Job", "State", "GPUs", "Cmd", "Args"}
	rows := make([][]string, len(jobs))
	for i, j := range jobs {
		rows[i] = []string{j.ID, string(j.State), fmt.Sprintf("%d", j.GPUs), j.Cmd, j.Args}
	}
	// Right-align the GPU count only
	return renderTable(headers, rows, map[int]bool{2: true})
}

// FormatHistory formats a job history listing as a human-readable table.
func FormatHistory(jobs []JobDetail) string {
	if len(jobs) == 0 {
		return "No job history found.\n"
	}

	headers := []string{"Job", "State", "GPUs", "Queued", "Started", "Cmd"}
	rows := make([][]string, len(jobs))
	for i, j := range jobs {
		rows[i] = []string{
			j.ID,
			string(j.State),
			fmt.Sprintf("%d", j.GPUs),
			formatEpoch(j.Queued),
			formatEpoch(j.Started),
			j.Cmd,
		}
	}
	return renderTable(headers, rows, map[int]bool{2: true})
}

// renderTable builds an aligned two-space-separated table with a dashed
// underline row. Columns marked in rightAlign are padded on the left.
func renderTable(headers []string, rows [][]string, rightAlign map[int]bool) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder

	for i, h := range headers {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(padRight(h, widths[i]))
	}
	sb.WriteString("\n")

	for i, w := range widths {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(strings.Repeat("-", w))
	}
	sb.WriteString("\n")

	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			if rightAlign[i] {
				sb.WriteString(padLeft(cell, widths[i]))
			} else {
				sb.WriteString(padRight(cell, widths[i]))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatEpoch renders epoch seconds as UTC RFC 3339, or "-" when unknown.
func formatEpoch(sec int64) string {
	if sec <= 0 {
		return "-"
	}
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
