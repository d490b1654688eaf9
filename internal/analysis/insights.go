package analysis

import (
	"fmt"
	"math"

	"github.com/clfeval/clfeval/internal/models"
)

// InsightInput bundles the reports the rule engine reads. Result is
// required; Correlation, Patterns and Misclassifications may be nil/empty,
// their rules are then skipped.
type InsightInput struct {
	Result             *models.ModelResult
	Correlation        *models.CorrelationReport
	Patterns           []models.ConfusionPattern
	Misclassifications []models.MisclassificationRecord
}

// highConfidenceThreshold marks a misclassification as confidently wrong.
const highConfidenceThreshold = 0.8

// auxStdThreshold flags a class whose aux values spread widely (in aux
// signal units).
const auxStdThreshold = 10.0

// Insights evaluates a fixed set of deterministic rules over the reports
// and returns one plain-language message per triggered band. Same input,
// same output; this is rule evaluation, not a model.
func Insights(in InsightInput) []string {
	if in.Result == nil {
		return nil
	}
	var out []string
	out = append(out, accuracyInsight(in.Result.Overall.Accuracy))

	if in.Correlation != nil && !math.IsNaN(in.Correlation.PredVsAux) {
		out = append(out, predAuxInsight(in.Correlation.PredVsAux))
	}

	if len(in.Patterns) > 0 {
		top := in.Patterns[0]
		if abs(top.TrueClass-top.PredictedClass) == 1 {
			out = append(out, fmt.Sprintf(
				"The most frequent confusion (%s -> %s, %d samples) is between adjacent classes, suggesting the model struggles at the boundary between neighboring categories.",
				className(top.TrueName, top.TrueClass), className(top.PredictedName, top.PredictedClass), top.Count))
		}
	}

	confident := 0
	for _, m := range in.Misclassifications {
		if m.Confidence > highConfidenceThreshold {
			confident++
		}
	}
	if confident > 0 {
		out = append(out, fmt.Sprintf(
			"%d misclassifications were made with confidence above %.0f%%: the model is confidently wrong on these samples.",
			confident, highConfidenceThreshold*100))
	}

	if in.Correlation != nil {
		for class, std := range in.Correlation.PerClassAuxStd {
			if !math.IsNaN(std) && std > auxStdThreshold {
				out = append(out, fmt.Sprintf(
					"Class %d has a wide aux-value spread (std %.1f > %.0f units); its label boundary may be poorly defined.",
					class, std, auxStdThreshold))
			}
		}
	}

	return out
}

// accuracyInsight maps accuracy to a fixed quality band.
func accuracyInsight(accuracy float64) string {
	pct := accuracy * 100
	switch {
	case accuracy >= 0.95:
		return fmt.Sprintf("Excellent accuracy (%.1f%%): the model is close to ceiling on this split.", pct)
	case accuracy >= 0.85:
		return fmt.Sprintf("Good accuracy (%.1f%%): solid performance with room for targeted improvement.", pct)
	case accuracy >= 0.70:
		return fmt.Sprintf("Moderate accuracy (%.1f%%): review the dominant confusion patterns.", pct)
	default:
		return fmt.Sprintf("Low accuracy (%.1f%%): the model performs poorly on this split.", pct)
	}
}

// predAuxInsight maps the prediction/aux correlation to a fixed band.
func predAuxInsight(corr float64) string {
	switch {
	case corr > 0.9:
		return fmt.Sprintf("Predictions track the aux signal very strongly (r=%.3f); the model has effectively learned the underlying continuum.", corr)
	case corr > 0.7:
		return fmt.Sprintf("Predictions correlate well with the aux signal (r=%.3f).", corr)
	default:
		return fmt.Sprintf("Predictions correlate weakly with the aux signal (r=%.3f); class assignments may not reflect the underlying continuum.", corr)
	}
}

func className(name string, class int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("class %d", class)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
