package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/clfeval/clfeval/internal/cache"
	"github.com/clfeval/clfeval/internal/compare"
	"github.com/clfeval/clfeval/internal/config"
	"github.com/clfeval/clfeval/internal/orchestration"
	"github.com/clfeval/clfeval/internal/reporting"
)

var (
	evaluateOutputDir string
	evaluateNoCache   bool
)

func newEvaluateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate <suite.yaml>",
		Short: "Evaluate every model in a suite and write ModelResult files",
		Long: `Evaluate runs the full pipeline for each model in the suite: load its
predictions, join aux values, compute confusion matrix, per-class metrics,
ROC/AUC and timing aggregates, then write one result JSON per model.

Models are evaluated concurrently; a failing model is reported and skipped
without stopping the rest of the suite.`,
		Args: cobra.ExactArgs(1),
		RunE: evaluateCommandE,
	}

	cmd.Flags().StringVarP(&evaluateOutputDir, "output", "o", "results", "Directory for result JSON files")
	cmd.Flags().BoolVar(&evaluateNoCache, "no-cache", false, "Disable the result cache")

	return cmd
}

func evaluateCommandE(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}

	var opts []orchestration.Option
	if !evaluateNoCache && cfg.CacheDir != "" {
		opts = append(opts, orchestration.WithCache(cache.New(cfg.CacheDir)))
	}

	runner := orchestration.NewRunner(cfg, nil, opts...)
	runner.AddProgressListener(func(e orchestration.ProgressEvent) {
		switch e.EventType {
		case orchestration.EventModelStart:
			fmt.Printf("[%d/%d] evaluating %s...\n", e.ModelNum, e.TotalModels, e.ModelName)
		case orchestration.EventModelCached:
			fmt.Printf("[%d/%d] %s (cached)\n", e.ModelNum, e.TotalModels, e.ModelName)
		case orchestration.EventModelFailed:
			fmt.Printf("[%d/%d] %s FAILED: %v\n", e.ModelNum, e.TotalModels, e.ModelName, e.Err)
		}
	})

	outcomes, err := runner.Evaluate(cmd.Context())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(evaluateOutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	comparator := compare.New(nil)
	failures := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failures++
			continue
		}
		comparator.Add(o.Result)

		path := filepath.Join(evaluateOutputDir, o.ModelName+".json")
		data, err := json.MarshalIndent(o.Result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result for %s: %w", o.ModelName, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}

		fmt.Println()
		fmt.Print(reporting.RenderModelSummary(o.Result, cfg.ClassNames))
	}

	if comparator.Len() > 1 {
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
		fmt.Println()
		fmt.Print(reporting.RenderComparisonTable(table))
		fmt.Println()
		fmt.Print(reporting.RenderRankings(rankings, best))
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d models failed evaluation", failures, len(outcomes))
	}
	return nil
}
