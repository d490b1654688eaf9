package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clfeval/clfeval/internal/analysis"
	"github.com/clfeval/clfeval/internal/dataset"
	"github.com/clfeval/clfeval/internal/metrics"
	"github.com/clfeval/clfeval/internal/report"
	"github.com/clfeval/clfeval/internal/reporting"
)

var (
	analyzeClassNames string
	analyzeAuxPath    string
	analyzeAuxIDCol   string
	analyzeAuxValCol  string
	analyzeTopN       int
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <predictions.json>",
		Short: "Misclassification and correlation analysis for one model",
		Long: `Analyze digs into a single model's predictions: the misclassifications it
was most confident about, the dominant confusion patterns, correlation with
an external aux signal (joined from CSV by sample id), and plain-language
insights derived from fixed rules.`,
		Args: cobra.ExactArgs(1),
		RunE: analyzeCommandE,
	}

	cmd.Flags().StringVarP(&analyzeClassNames, "class-names", "c", "", "Comma-separated class names, index-aligned with class ids (required)")
	cmd.Flags().StringVar(&analyzeAuxPath, "aux", "", "CSV file with aux values per sample id")
	cmd.Flags().StringVar(&analyzeAuxIDCol, "aux-id-column", "id", "CSV column holding the sample id")
	cmd.Flags().StringVar(&analyzeAuxValCol, "aux-value-column", "value", "CSV column holding the aux value")
	cmd.Flags().IntVarP(&analyzeTopN, "top", "n", 10, "How many misclassifications and patterns to show")
	_ = cmd.MarkFlagRequired("class-names")

	return cmd
}

func analyzeCommandE(_ *cobra.Command, args []string) error {
	classNames := strings.Split(analyzeClassNames, ",")
	for i := range classNames {
		classNames[i] = strings.TrimSpace(classNames[i])
	}
	k := len(classNames)
	if k < 2 {
		return fmt.Errorf("need at least 2 class names, got %d", k)
	}

	ps, err := dataset.LoadPredictions(args[0])
	if err != nil {
		return err
	}

	if analyzeAuxPath != "" {
		auxTable, err := dataset.LoadAuxCSV(analyzeAuxPath, analyzeAuxIDCol, analyzeAuxValCol)
		if err != nil {
			return err
		}
		ps, _ = dataset.JoinAux(ps, auxTable, nil)
	}

	engine := metrics.NewEngine(nil)
	cm, err := engine.ComputeConfusionMatrix(ps, k)
	if err != nil {
		return err
	}

	analyzer := analysis.NewAnalyzer(nil)
	misclassifications := analyzer.TopMisclassifications(ps, analyzeTopN)
	patterns := analyzer.ConfusionPatterns(cm, classNames)
	correlation := analyzer.Correlation(ps, k)

	// Timing is unknown here; the analysis rules only read quality metrics.
	result, err := report.NewBuilder(nil).Build("analysis", ps, k, 0, 0)
	if err != nil {
		return err
	}
	insights := analysis.Insights(analysis.InsightInput{
		Result:             result,
		Correlation:        &correlation,
		Patterns:           patterns,
		Misclassifications: misclassifications,
	})

	fmt.Print(reporting.RenderMisclassifications(misclassifications, classNames))
	fmt.Println()
	fmt.Print(reporting.RenderConfusionPatterns(patterns, analyzeTopN))
	fmt.Println()
	fmt.Print(reporting.RenderCorrelation(&correlation, classNames))
	fmt.Println()
	fmt.Print(reporting.RenderInsights(insights))
	return nil
}
