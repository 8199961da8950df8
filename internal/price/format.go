package price

import (
	"fmt"
	"strings"
)

// FormatTable formats a report as a human-readable table.
func FormatTable(report Report) string {
	if report.TotalRecords == 0 {
		return "No jobs found in the queue.\n"
	}

	headers := []string{"Category", "Jobs", "Avg Priority"}
	rows := make([][]string, 0, 4)
	for _, key := range Keys() {
		stats := report.Categories[key]
		avg := "N/A"
		if stats.AveragePrice != nil {
			avg = fmt.Sprintf("%.2f", *stats.AveragePrice)
		}
		rows = append(rows, []string{key.Label(), fmt.Sprintf("%d", stats.Count), avg})
	}

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
			// Left-align the category, right-align the numbers
			if i == 0 {
				sb.WriteString(padRight(cell, widths[i]))
			} else {
				sb.WriteString(padLeft(cell, widths[i]))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
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
