// Package analysis digs into where and why a classifier fails:
// misclassification ranking, correlation against the external aux signal,
// and dominant confusion patterns.
package analysis

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/clfeval/clfeval/internal/metrics"
	"github.com/clfeval/clfeval/internal/models"
)

// Analyzer consumes a PredictionSet directly; it does not depend on the
// metrics or ROC engines.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer returns an analyzer logging through the given logger (nil
// means slog.Default()).
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// TopMisclassifications returns the up-to-n wrongly classified samples the
// model was most confident about, confidence descending with stable order
// for ties. A set with no misclassifications yields an empty list; n <= 0
// also yields an empty list.
func (a *Analyzer) TopMisclassifications(ps models.PredictionSet, n int) []models.MisclassificationRecord {
	records := make([]models.MisclassificationRecord, 0)
	for _, s := range ps {
		if s.PredictedClass == s.TrueClass {
			continue
		}
		records = append(records, models.MisclassificationRecord{
			SampleID:       s.ID,
			TrueClass:      s.TrueClass,
			PredictedClass: s.PredictedClass,
			Confidence:     s.Confidence(),
			AuxValue:       s.AuxValue,
		})
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Confidence > records[j].Confidence
	})
	if n < 0 {
		n = 0
	}
	if n < len(records) {
		records = records[:n]
	}
	return records
}

// Correlation relates class ids to the aux signal. Samples without an aux
// value are excluded with a warning, never a failure. With fewer than 2
// aux-bearing samples the aux correlations are NaN and Degenerate is set;
// TrueVsPred only involves class ids and is computed over the full set.
func (a *Analyzer) Correlation(ps models.PredictionSet, k int) models.CorrelationReport {
	report := models.CorrelationReport{
		PerClassAuxMean: make([]float64, k),
		PerClassAuxStd:  make([]float64, k),
	}

	var trueAll, predAll []float64
	var trueAux, predAux, aux []float64
	perClassAux := make([][]float64, k)
	missing := 0

	for _, s := range ps {
		trueAll = append(trueAll, float64(s.TrueClass))
		predAll = append(predAll, float64(s.PredictedClass))
		if s.AuxValue == nil {
			missing++
			a.logger.Warn("sample has no aux value; excluded from correlation", "sample", s.ID)
			continue
		}
		trueAux = append(trueAux, float64(s.TrueClass))
		predAux = append(predAux, float64(s.PredictedClass))
		aux = append(aux, *s.AuxValue)
		if s.TrueClass >= 0 && s.TrueClass < k {
			perClassAux[s.TrueClass] = append(perClassAux[s.TrueClass], *s.AuxValue)
		}
	}
	report.SamplesWithAux = len(aux)
	if missing > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d of %d samples lack an aux value and were excluded from correlation", missing, len(ps)))
	}

	report.TrueVsPred = stat.Correlation(trueAll, predAll, nil)

	if len(aux) < 2 {
		report.Degenerate = true
		report.TrueVsAux = math.NaN()
		report.PredVsAux = math.NaN()
		report.Warnings = append(report.Warnings,
			"fewer than 2 samples carry an aux value; aux correlations are undefined")
	} else {
		report.TrueVsAux = stat.Correlation(trueAux, aux, nil)
		report.PredVsAux = stat.Correlation(predAux, aux, nil)
	}

	for class, vals := range perClassAux {
		if len(vals) == 0 {
			report.PerClassAuxMean[class] = math.NaN()
			report.PerClassAuxStd[class] = math.NaN()
			continue
		}
		// Population statistics: a single-sample class gets std 0, not NaN.
		report.PerClassAuxMean[class] = metrics.Mean(vals)
		report.PerClassAuxStd[class] = metrics.StdDev(vals)
	}

	return report
}

// ConfusionPatterns lists every off-diagonal cell with a nonzero count,
// most frequent first (stable for equal counts, so row-major order breaks
// ties). Percentage is the cell's share of its true class.
func (a *Analyzer) ConfusionPatterns(cm models.ConfusionMatrix, classNames []string) []models.ConfusionPattern {
	patterns := make([]models.ConfusionPattern, 0)
	for i := range cm {
		rowSum := cm.RowSum(i)
		for j, count := range cm[i] {
			if i == j || count == 0 {
				continue
			}
			p := models.ConfusionPattern{
				TrueClass:      i,
				PredictedClass: j,
				Count:          count,
				Percentage:     float64(count) / float64(rowSum) * 100,
			}
			if i < len(classNames) {
				p.TrueName = classNames[i]
			}
			if j < len(classNames) {
				p.PredictedName = classNames[j]
			}
			patterns = append(patterns, p)
		}
	}
	sort.SliceStable(patterns, func(a, b int) bool {
		return patterns[a].Count > patterns[b].Count
	})
	return patterns
}
