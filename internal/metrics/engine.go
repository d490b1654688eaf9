// Package metrics derives confusion matrices and precision/recall/F1 style
// quality numbers from a PredictionSet. Everything here is a pure function
// of its inputs: there is no cached state to invalidate, recomputation is
// always correct.
package metrics

import (
	"fmt"
	"log/slog"

	"github.com/clfeval/clfeval/internal/models"
)

// Engine computes confusion matrices and derived metrics. The logger is
// injected so callers (and tests) control where degenerate-class warnings
// go; a nil logger falls back to slog.Default().
type Engine struct {
	logger *slog.Logger
}

// NewEngine returns a metrics engine logging through the given logger.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// ComputeConfusionMatrix builds the KxK matrix with matrix[true][predicted]
// incremented per sample. Returns ErrInvalidInput for k < 2, an empty set,
// or out-of-range class ids.
func (e *Engine) ComputeConfusionMatrix(ps models.PredictionSet, k int) (models.ConfusionMatrix, error) {
	if err := ps.Validate(k); err != nil {
		return nil, err
	}
	m := models.NewConfusionMatrix(k)
	for _, s := range ps {
		m[s.TrueClass][s.PredictedClass]++
	}
	return m, nil
}

// ComputeMetrics derives per-class precision/recall/F1/support and the
// overall accuracy, macro-F1 and weighted-F1 from a confusion matrix.
//
// Classes with no predicted samples get precision 0, classes with no support
// get recall 0, and F1 is 0 whenever precision+recall is 0, never NaN.
// Each zero-support class additionally produces a warning string.
func (e *Engine) ComputeMetrics(m models.ConfusionMatrix) ([]models.ClassMetrics, models.OverallMetrics, []string) {
	k := m.K()
	perClass := make([]models.ClassMetrics, k)
	var warnings []string

	for i := 0; i < k; i++ {
		tp := m[i][i]
		fp := m.ColSum(i) - tp
		fn := m.RowSum(i) - tp
		support := m.RowSum(i)

		cm := models.ClassMetrics{Class: i, Support: support}
		if tp+fp > 0 {
			cm.Precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			cm.Recall = float64(tp) / float64(tp+fn)
		}
		if cm.Precision+cm.Recall > 0 {
			cm.F1 = 2 * cm.Precision * cm.Recall / (cm.Precision + cm.Recall)
		}
		if support == 0 {
			w := fmt.Sprintf("class %d has zero support; its metrics default to 0", i)
			warnings = append(warnings, w)
			e.logger.Warn("degenerate class", "class", i, "reason", "zero support")
		}
		perClass[i] = cm
	}

	var overall models.OverallMetrics
	total := m.Total()
	if total > 0 {
		overall.Accuracy = float64(m.Trace()) / float64(total)
	}

	f1s := make([]float64, k)
	weightedSum := 0.0
	totalSupport := 0
	for i, cm := range perClass {
		f1s[i] = cm.F1
		weightedSum += cm.F1 * float64(cm.Support)
		totalSupport += cm.Support
	}
	overall.MacroF1 = Mean(f1s)
	if totalSupport > 0 {
		overall.WeightedF1 = weightedSum / float64(totalSupport)
	}

	return perClass, overall, warnings
}
