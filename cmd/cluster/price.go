package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/cluster-tools/internal/analyze"
	"github.com/matsen/cluster-tools/internal/price"
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Analyze queue prices by GPU/CPU and idle/running",
	Long: `Query the cluster queue and report average job priority per category.

Jobs are bucketed four ways: GPU or CPU, idle or running. Categories
with no jobs report a null average rather than zero. Outputs JSON
(default) or a table (--human).`,
	RunE: runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)
}

// PriceResponse is the JSON shape of a price analysis.
type PriceResponse struct {
	Categories        []CategoryResponse `json:"categories"`
	TotalRecords      int                `json:"total_records"`
	OtherStates       int                `json:"other_states"`
	SkippedLines      uint64             `json:"skipped_lines"`
	MalformedPriority uint64             `json:"malformed_priority"`
}

// CategoryResponse is one bucket. AveragePrice is null when the bucket is
// empty.
type CategoryResponse struct {
	Category     string   `json:"category"`
	GPU          bool     `json:"gpu"`
	State        string   `json:"state"`
	Count        uint64   `json:"count"`
	AveragePrice *float64 `json:"average_price"`
}

func runPrice(cmd *cobra.Command, args []string) error {
	target := mustLoadTarget()

	result, err := analyze.Run(context.Background(), analyze.SSHDialer{}, target)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		fmt.Print(price.FormatTable(result.Report))
		if result.SkippedLines > 0 || result.MalformedPriority > 0 {
			fmt.Printf("(skipped %d unparseable lines, %d malformed priorities)\n",
				result.SkippedLines, result.MalformedPriority)
		}
		return nil
	}

	resp := PriceResponse{
		TotalRecords:      result.Report.TotalRecords,
		OtherStates:       result.Report.OtherStates,
		SkippedLines:      result.SkippedLines,
		MalformedPriority: result.MalformedPriority,
	}
	for _, key := range price.Keys() {
		stats := result.Report.Categories[key]
		resp.Categories = append(resp.Categories, CategoryResponse{
			Category:     key.Label(),
			GPU:          key.GPU,
			State:        string(key.State),
			Count:        stats.Count,
			AveragePrice: stats.AveragePrice,
		})
	}
	if err := outputJSON(resp); err != nil {
		exitWithError(ExitError, "encoding JSON: %v", err)
	}
	return nil
}
