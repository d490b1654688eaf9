// Package report assembles the outputs of the metrics and ROC engines,
// together with externally measured inference timing, into one immutable
// ModelResult.
package report

import (
	"fmt"
	"log/slog"

	"github.com/clfeval/clfeval/internal/metrics"
	"github.com/clfeval/clfeval/internal/models"
	"github.com/clfeval/clfeval/internal/roc"
	"github.com/clfeval/clfeval/internal/statistics"
)

// Builder produces ModelResults. Given the same PredictionSet and inputs it
// always yields an identical result: no timestamps or other run metadata
// live inside the computed fields.
type Builder struct {
	logger         *slog.Logger
	metricsEng     *metrics.Engine
	rocEng         *roc.Engine
	rocParallelism int
	withCI         bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithROCParallelism bounds concurrent per-class ROC computation.
func WithROCParallelism(n int) Option {
	return func(b *Builder) { b.rocParallelism = n }
}

// WithAccuracyCI attaches a deterministic bootstrap confidence interval over
// per-sample correctness to the result.
func WithAccuracyCI() Option {
	return func(b *Builder) { b.withCI = true }
}

// NewBuilder returns a report builder. The logger is handed down to the
// engines it drives; nil means slog.Default().
func NewBuilder(logger *slog.Logger, opts ...Option) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Builder{logger: logger, rocParallelism: 1}
	for _, o := range opts {
		o(b)
	}
	b.metricsEng = metrics.NewEngine(logger)
	b.rocEng = roc.NewEngine(logger, roc.WithParallelism(b.rocParallelism))
	return b
}

// Build evaluates one model's PredictionSet. Inference timing and throughput
// are measured by the caller (benchmarking is not this package's job) and
// are recorded verbatim. Non-fatal conditions accumulate in the result's
// Warnings; only malformed input aborts with ErrInvalidInput.
func (b *Builder) Build(modelName string, ps models.PredictionSet, k int, inferenceTimeMs, throughput float64) (*models.ModelResult, error) {
	cm, err := b.metricsEng.ComputeConfusionMatrix(ps, k)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", modelName, err)
	}
	perClass, overall, metricWarnings := b.metricsEng.ComputeMetrics(cm)

	curves, rocWarnings, err := b.rocEng.ComputeROC(ps, k)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", modelName, err)
	}

	total := cm.Total()
	correct := cm.Trace()

	result := &models.ModelResult{
		ModelName:        modelName,
		ConfusionMatrix:  cm,
		NormalizedMatrix: cm.Normalized(),
		ClassMetrics:     perClass,
		Overall:          overall,
		ROCCurves:        curves,
		MeanAUC:          roc.MeanAUC(curves),
		InferenceTimeMs:  inferenceTimeMs,
		Throughput:       throughput,
		TotalSamples:     total,
		Correct:          correct,
		Incorrect:        total - correct,
	}
	result.Warnings = append(result.Warnings, metricWarnings...)
	result.Warnings = append(result.Warnings, rocWarnings...)

	if b.withCI {
		correctness := make([]float64, len(ps))
		for i, s := range ps {
			if s.TrueClass == s.PredictedClass {
				correctness[i] = 1
			}
		}
		ci := statistics.AccuracyCI(correctness, 0.95)
		result.AccuracyCI = &ci
	}

	b.logger.Debug("built model result",
		"model", modelName,
		"samples", total,
		"accuracy", overall.Accuracy,
		"mean_auc", result.MeanAUC,
		"warnings", len(result.Warnings))

	return result, nil
}
