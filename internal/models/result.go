package models

import (
	"github.com/clfeval/clfeval/internal/statistics"
)

// ClassMetrics holds the per-class quality numbers derived from one row and
// column of the confusion matrix.
type ClassMetrics struct {
	Class     int     `json:"class"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// OverallMetrics holds the dataset-level aggregates.
type OverallMetrics struct {
	Accuracy   float64 `json:"accuracy"`
	MacroF1    float64 `json:"macro_f1"`
	WeightedF1 float64 `json:"weighted_f1"`
}

// ROCPoint is one (fpr, tpr) point on a ROC curve.
type ROCPoint struct {
	FPR float64 `json:"fpr"`
	TPR float64 `json:"tpr"`
}

// ROCCurve is the one-vs-rest ROC curve for a single class. Points start at
// (0,0) and are non-decreasing in both coordinates in emission order.
type ROCCurve struct {
	Class     int        `json:"class"`
	Points    []ROCPoint `json:"points"`
	AUC       float64    `json:"auc"`
	Positives int        `json:"positives"`
	Negatives int        `json:"negatives"`
}

// ModelResult is the complete, immutable evaluation record for one model on
// one dataset split. A re-evaluation produces a new ModelResult; nothing
// mutates an existing one. Every result has this exact shape regardless of
// which conditions (degenerate classes, ROC edge cases) occurred along the
// way; those only add Warnings entries.
type ModelResult struct {
	ModelName        string                         `json:"model_name"`
	ConfusionMatrix  ConfusionMatrix                `json:"confusion_matrix"`
	NormalizedMatrix [][]float64                    `json:"normalized_matrix"`
	ClassMetrics     []ClassMetrics                 `json:"class_metrics"`
	Overall          OverallMetrics                 `json:"overall"`
	ROCCurves        []ROCCurve                     `json:"roc_curves"`
	MeanAUC          float64                        `json:"mean_auc"`
	InferenceTimeMs  float64                        `json:"inference_time_ms"`
	Throughput       float64                        `json:"throughput"`
	TotalSamples     int                            `json:"total_samples"`
	Correct          int                            `json:"correct"`
	Incorrect        int                            `json:"incorrect"`
	AccuracyCI       *statistics.ConfidenceInterval `json:"accuracy_ci,omitempty"`
	Warnings         []string                       `json:"warnings,omitempty"`
}

// Metric returns the named comparable metric value. The five supported
// names are the ones the comparator ranks on.
func (r *ModelResult) Metric(name string) (float64, bool) {
	switch name {
	case "accuracy":
		return r.Overall.Accuracy, true
	case "macroF1":
		return r.Overall.MacroF1, true
	case "weightedF1":
		return r.Overall.WeightedF1, true
	case "meanAUC":
		return r.MeanAUC, true
	case "inferenceTimeMs":
		return r.InferenceTimeMs, true
	}
	return 0, false
}
