// Package reporting renders evaluation output as plain text. Only the
// logical schema is fixed by the engines; everything here is presentation.
package reporting

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/clfeval/clfeval/internal/compare"
	"github.com/clfeval/clfeval/internal/models"
)

// printer formats sample counts with thousands separators.
var printer = message.NewPrinter(language.English)

const defaultWidth = 72

// TerminalWidth returns the current terminal width, or a default when
// stdout is not a terminal.
func TerminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		return w
	}
	return defaultWidth
}

// renderWidth is the rule width used for headers and sections: the terminal
// width capped so reports stay readable when piped to a file.
func renderWidth() int {
	w := TerminalWidth()
	if w > 100 {
		w = 100
	}
	return w
}

func header(b *strings.Builder, title string, width int) {
	b.WriteString(strings.Repeat("=", width))
	b.WriteString("\n " + title + "\n")
	b.WriteString(strings.Repeat("=", width))
	b.WriteString("\n\n")
}

func section(b *strings.Builder, title string, width int) {
	b.WriteString(strings.Repeat("-", width))
	b.WriteString("\n " + title + "\n")
	b.WriteString(strings.Repeat("-", width))
	b.WriteString("\n")
}

// cell pads or truncates s to exactly w display columns.
func cell(s string, w int) string {
	if runewidth.StringWidth(s) > w {
		return runewidth.Truncate(s, w, "...")
	}
	return runewidth.FillRight(s, w)
}

// RenderModelSummary formats one ModelResult: overall metrics, per-class
// table and the normalized confusion matrix.
func RenderModelSummary(r *models.ModelResult, classNames []string) string {
	var b strings.Builder
	width := renderWidth()

	header(&b, "MODEL: "+r.ModelName, width)

	b.WriteString(printer.Sprintf("  Samples:        %d  (%d correct, %d incorrect)\n", r.TotalSamples, r.Correct, r.Incorrect))
	b.WriteString(fmt.Sprintf("  Accuracy:       %.4f\n", r.Overall.Accuracy))
	b.WriteString(fmt.Sprintf("  Macro F1:       %.4f\n", r.Overall.MacroF1))
	b.WriteString(fmt.Sprintf("  Weighted F1:    %.4f\n", r.Overall.WeightedF1))
	b.WriteString(fmt.Sprintf("  Mean AUC:       %.4f\n", r.MeanAUC))
	b.WriteString(fmt.Sprintf("  Inference time: %.2f ms  (%.1f samples/s)\n", r.InferenceTimeMs, r.Throughput))
	if r.AccuracyCI != nil {
		b.WriteString(fmt.Sprintf("  Accuracy CI:    [%.4f, %.4f] (%.0f%%, bootstrap)\n",
			r.AccuracyCI.Lower, r.AccuracyCI.Upper, r.AccuracyCI.ConfidenceLevel*100))
	}
	b.WriteString("\n")

	section(&b, "PER-CLASS METRICS", width)
	b.WriteString(fmt.Sprintf("  %s %9s %9s %9s %9s\n", cell("Class", 16), "Precision", "Recall", "F1", "Support"))
	for _, cm := range r.ClassMetrics {
		b.WriteString(fmt.Sprintf("  %s %9.4f %9.4f %9.4f %9d\n",
			cell(classLabel(classNames, cm.Class), 16), cm.Precision, cm.Recall, cm.F1, cm.Support))
	}
	b.WriteString("\n")

	section(&b, "CONFUSION MATRIX (row = true class, normalized)", width)
	b.WriteString("  " + cell("", 16))
	for j := range r.ConfusionMatrix {
		b.WriteString(cell(classLabel(classNames, j), 10))
	}
	b.WriteString("\n")
	for i, row := range r.NormalizedMatrix {
		b.WriteString("  " + cell(classLabel(classNames, i), 16))
		for _, v := range row {
			b.WriteString(cell(fmt.Sprintf("%.3f", v), 10))
		}
		b.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n")
		section(&b, "WARNINGS", width)
		for _, w := range r.Warnings {
			b.WriteString("  - " + w + "\n")
		}
	}
	return b.String()
}

// RenderComparisonTable formats the cross-model metric table.
func RenderComparisonTable(t *compare.ComparisonTable) string {
	var b strings.Builder
	width := renderWidth()

	header(&b, "MODEL COMPARISON", width)

	b.WriteString("  " + cell("Model", 20))
	for _, m := range t.Metrics {
		b.WriteString(fmt.Sprintf("%16s", m.Name))
	}
	b.WriteString("\n")
	for _, row := range t.Rows {
		b.WriteString("  " + cell(row.ModelName, 20))
		for _, v := range row.Values {
			b.WriteString(fmt.Sprintf("%16.4f", v))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderRankings formats per-metric ranks and the overall ordering.
func RenderRankings(rankings []compare.Ranking, best string) string {
	var b strings.Builder
	width := renderWidth()

	section(&b, "RANKING (1 = best, ties broken by insertion order)", width)

	metricsList := compare.DefaultMetrics()
	b.WriteString("  " + cell("Model", 20))
	for _, m := range metricsList {
		b.WriteString(fmt.Sprintf("%16s", m.Name))
	}
	b.WriteString(fmt.Sprintf("%10s\n", "avg"))
	for _, r := range rankings {
		b.WriteString("  " + cell(r.ModelName, 20))
		for _, m := range metricsList {
			b.WriteString(fmt.Sprintf("%16d", r.PerMetricRank[m.Name]))
		}
		b.WriteString(fmt.Sprintf("%10.2f\n", r.AverageRank))
	}
	b.WriteString(fmt.Sprintf("\n  Best overall: %s\n", best))
	return b.String()
}

// RenderConfusionPatterns formats the top confusion patterns, most frequent
// first.
func RenderConfusionPatterns(patterns []models.ConfusionPattern, limit int) string {
	var b strings.Builder
	width := renderWidth()

	section(&b, "TOP CONFUSION PATTERNS", width)
	if len(patterns) == 0 {
		b.WriteString("  (no off-diagonal confusions)\n")
		return b.String()
	}
	if limit > 0 && limit < len(patterns) {
		patterns = patterns[:limit]
	}
	for _, p := range patterns {
		b.WriteString(printer.Sprintf("  %s -> %s  %d samples (%.1f%% of true class)\n",
			patternLabel(p.TrueName, p.TrueClass), patternLabel(p.PredictedName, p.PredictedClass),
			p.Count, p.Percentage))
	}
	return b.String()
}

// RenderMisclassifications formats the confidently wrong samples.
func RenderMisclassifications(records []models.MisclassificationRecord, classNames []string) string {
	var b strings.Builder
	width := renderWidth()

	section(&b, "TOP MISCLASSIFICATIONS (by confidence)", width)
	if len(records) == 0 {
		b.WriteString("  (no misclassified samples)\n")
		return b.String()
	}
	for _, rec := range records {
		line := fmt.Sprintf("  %s  true=%s pred=%s conf=%.3f",
			cell(rec.SampleID, 24),
			classLabel(classNames, rec.TrueClass), classLabel(classNames, rec.PredictedClass), rec.Confidence)
		if rec.AuxValue != nil {
			line += fmt.Sprintf(" aux=%.2f", *rec.AuxValue)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// RenderCorrelation formats a correlation report.
func RenderCorrelation(c *models.CorrelationReport, classNames []string) string {
	var b strings.Builder
	width := renderWidth()

	section(&b, "AUX-SIGNAL CORRELATION", width)
	b.WriteString(printer.Sprintf("  Samples with aux value: %d\n", c.SamplesWithAux))
	b.WriteString(fmt.Sprintf("  true vs aux:  %s\n", corrValue(c.TrueVsAux)))
	b.WriteString(fmt.Sprintf("  pred vs aux:  %s\n", corrValue(c.PredVsAux)))
	b.WriteString(fmt.Sprintf("  true vs pred: %s\n", corrValue(c.TrueVsPred)))
	b.WriteString("\n  Per-class aux mean/std:\n")
	for i := range c.PerClassAuxMean {
		b.WriteString(fmt.Sprintf("    %s mean=%s std=%s\n",
			cell(classLabel(classNames, i), 16),
			corrValue(c.PerClassAuxMean[i]), corrValue(c.PerClassAuxStd[i])))
	}
	if len(c.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range c.Warnings {
			b.WriteString("  - " + w + "\n")
		}
	}
	return b.String()
}

// RenderInsights formats the rule-engine messages.
func RenderInsights(insights []string) string {
	var b strings.Builder
	width := renderWidth()

	section(&b, "INSIGHTS", width)
	for _, msg := range insights {
		b.WriteString("  * " + msg + "\n")
	}
	return b.String()
}

func corrValue(v float64) string {
	if math.IsNaN(v) {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", v)
}

func classLabel(classNames []string, class int) string {
	if class >= 0 && class < len(classNames) {
		return classNames[class]
	}
	return fmt.Sprintf("class %d", class)
}

func patternLabel(name string, class int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("class %d", class)
}
