package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clfeval/clfeval/internal/compare"
	"github.com/clfeval/clfeval/internal/models"
	"github.com/clfeval/clfeval/internal/reporting"
)

var compareOutputFormat string

func newCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <result1.json> <result2.json> [result3.json ...]",
		Short: "Compare multiple model result files",
		Long: `Compare loads two or more ModelResult JSON files (as written by evaluate)
and prints the cross-model metric table, per-metric ranks and the overall
best model. File order fixes the tie-break order.`,
		Args: cobra.MinimumNArgs(2),
		RunE: compareCommandE,
	}

	cmd.Flags().StringVarP(&compareOutputFormat, "format", "f", "table", "Output format: table or json")

	return cmd
}

// comparisonOutput is the JSON shape of the compare command.
type comparisonOutput struct {
	Table    *compare.ComparisonTable `json:"table"`
	Rankings []compare.Ranking        `json:"rankings"`
	Best     string                   `json:"best_overall"`
}

func compareCommandE(_ *cobra.Command, args []string) error {
	if compareOutputFormat != "table" && compareOutputFormat != "json" {
		return fmt.Errorf("unsupported format %q: must be table or json", compareOutputFormat)
	}

	comparator := compare.New(nil)
	for _, path := range args {
		r, err := loadResultFile(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		comparator.Add(r)
	}

	table, err := comparator.Compare(compare.DefaultMetrics())
	if err != nil {
		return err
	}
	rankings, err := comparator.Rank()
	if err != nil {
		return err
	}
	best, err := comparator.BestOverall()
	if err != nil {
		return err
	}

	if compareOutputFormat == "json" {
		data, err := json.MarshalIndent(comparisonOutput{Table: table, Rankings: rankings, Best: best}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal comparison: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Print(reporting.RenderComparisonTable(table))
	fmt.Println()
	fmt.Print(reporting.RenderRankings(rankings, best))
	return nil
}

func loadResultFile(path string) (*models.ModelResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var result models.ModelResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	if result.ModelName == "" {
		return nil, fmt.Errorf("not a model result file (missing model_name)")
	}
	return &result, nil
}
