// Package roc computes one-vs-rest ROC curves and their AUCs. Classes are
// independent, so per-class computation may run in parallel; the output is
// identical to the sequential walk regardless of worker count.
package roc

import (
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/integrate"

	"github.com/clfeval/clfeval/internal/metrics"
	"github.com/clfeval/clfeval/internal/models"
)

// Engine computes one-vs-rest ROC curves.
type Engine struct {
	logger      *slog.Logger
	parallelism int
}

// Option configures an Engine.
type Option func(*Engine)

// WithParallelism bounds the number of classes processed concurrently.
// Values below 2 keep the computation sequential.
func WithParallelism(n int) Option {
	return func(e *Engine) { e.parallelism = n }
}

// NewEngine returns a ROC engine logging through the given logger (nil means
// slog.Default()).
func NewEngine(logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{logger: logger, parallelism: 1}
	for _, o := range opts {
		o(e)
	}
	return e
}

// ComputeROC builds one ROC curve per class. For class c, samples are ranked
// by scores[c] descending with ties keeping their original relative order
// (stable sort), so output is deterministic for any input ordering of equal
// scores. A class with zero positives has tpr fixed at 0 on every point; a
// class with zero negatives has fpr fixed at 0. In either degenerate case
// the AUC is 0 by policy and a warning is emitted.
func (e *Engine) ComputeROC(ps models.PredictionSet, k int) ([]models.ROCCurve, []string, error) {
	if err := ps.Validate(k); err != nil {
		return nil, nil, err
	}

	curves := make([]models.ROCCurve, k)
	classWarnings := make([][]string, k)

	if e.parallelism > 1 {
		var eg errgroup.Group
		eg.SetLimit(e.parallelism)
		for c := 0; c < k; c++ {
			eg.Go(func() error {
				curves[c], classWarnings[c] = computeClass(ps, c)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, nil, err
		}
	} else {
		for c := 0; c < k; c++ {
			curves[c], classWarnings[c] = computeClass(ps, c)
		}
	}

	var warnings []string
	for c, ws := range classWarnings {
		for _, w := range ws {
			warnings = append(warnings, w)
			e.logger.Warn("degenerate ROC class", "class", c, "warning", w)
		}
	}
	return curves, warnings, nil
}

// MeanAUC returns the macro-averaged AUC: the unweighted arithmetic mean
// over all classes.
func MeanAUC(curves []models.ROCCurve) float64 {
	aucs := make([]float64, len(curves))
	for i, c := range curves {
		aucs[i] = c.AUC
	}
	return metrics.Mean(aucs)
}

func computeClass(ps models.PredictionSet, class int) (models.ROCCurve, []string) {
	n := len(ps)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ps[order[a]].Scores[class] > ps[order[b]].Scores[class]
	})

	positives := 0
	for _, s := range ps {
		if s.TrueClass == class {
			positives++
		}
	}
	negatives := n - positives

	curve := models.ROCCurve{
		Class:     class,
		Points:    make([]models.ROCPoint, 0, n+1),
		Positives: positives,
		Negatives: negatives,
	}
	curve.Points = append(curve.Points, models.ROCPoint{})

	tp, fp := 0, 0
	for _, idx := range order {
		if ps[idx].TrueClass == class {
			tp++
		} else {
			fp++
		}
		var pt models.ROCPoint
		if negatives > 0 {
			pt.FPR = float64(fp) / float64(negatives)
		}
		if positives > 0 {
			pt.TPR = float64(tp) / float64(positives)
		}
		curve.Points = append(curve.Points, pt)
	}

	var warnings []string
	switch {
	case positives == 0:
		warnings = append(warnings, fmt.Sprintf("class %d has no positive samples; tpr pinned to 0 and auc reported as 0", class))
	case negatives == 0:
		warnings = append(warnings, fmt.Sprintf("class %d has no negative samples; fpr pinned to 0 and auc reported as 0", class))
	}

	curve.AUC = auc(curve.Points)
	return curve, warnings
}

// auc integrates tpr over fpr with the trapezoid rule. Degenerate curves
// where fpr never advances integrate to 0.
func auc(points []models.ROCPoint) float64 {
	x := make([]float64, len(points))
	f := make([]float64, len(points))
	for i, p := range points {
		x[i] = p.FPR
		f[i] = p.TPR
	}
	return integrate.Trapezoidal(x, f)
}
