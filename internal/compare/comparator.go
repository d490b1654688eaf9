// Package compare ranks ModelResults across models. Every ordering decision
// (best-of, per-metric ranks, overall ranks) breaks ties by earliest
// insertion, so output never depends on map iteration order or sort
// internals.
package compare

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/clfeval/clfeval/internal/models"
)

// ErrNoResults is returned when Compare, Rank or Best is called on a
// comparator holding zero models.
var ErrNoResults = errors.New("no results added")

// ErrUnknownMetric is returned for metric names outside the supported set.
var ErrUnknownMetric = errors.New("unknown metric")

// Direction states whether larger or smaller values of a metric are better.
type Direction int

const (
	Maximize Direction = iota
	Minimize
)

// Metric names a comparable metric and its optimization direction.
type Metric struct {
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
}

// DefaultMetrics returns the five supported comparison metrics with their
// fixed directions.
func DefaultMetrics() []Metric {
	return []Metric{
		{Name: "accuracy", Direction: Maximize},
		{Name: "macroF1", Direction: Maximize},
		{Name: "weightedF1", Direction: Maximize},
		{Name: "meanAUC", Direction: Maximize},
		{Name: "inferenceTimeMs", Direction: Minimize},
	}
}

// Row is one model's values for the chosen metrics, in metric order.
type Row struct {
	ModelName string    `json:"model_name"`
	Values    []float64 `json:"values"`
}

// ComparisonTable is the derived cross-model table: one row per model (in
// insertion order), one column per chosen metric. It is recomputed on
// demand, never cached.
type ComparisonTable struct {
	Metrics []Metric `json:"metrics"`
	Rows    []Row    `json:"rows"`
}

// Ranking is one model's per-metric ranks (1 = best) and their mean.
type Ranking struct {
	ModelName     string         `json:"model_name"`
	PerMetricRank map[string]int `json:"per_metric_rank"`
	AverageRank   float64        `json:"average_rank"`
}

// Comparator accumulates ModelResults keyed by model name. Add is the only
// mutating operation and is mutex-serialized; everything else recomputes
// from the stored results.
type Comparator struct {
	mu      sync.Mutex
	logger  *slog.Logger
	results map[string]*models.ModelResult
	order   []string
}

// New returns an empty comparator (nil logger means slog.Default()).
func New(logger *slog.Logger) *Comparator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Comparator{
		logger:  logger,
		results: make(map[string]*models.ModelResult),
	}
}

// Add upserts a result by model name. Re-adding an existing name overwrites
// the prior entry with a logged warning; the model keeps its original
// insertion position so tie-breaks stay stable.
func (c *Comparator) Add(result *models.ModelResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.results[result.ModelName]; exists {
		c.logger.Warn("overwriting existing model result", "model", result.ModelName)
	} else {
		c.order = append(c.order, result.ModelName)
	}
	c.results[result.ModelName] = result
}

// Len returns the number of stored models.
func (c *Comparator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Results returns the stored results in insertion order.
func (c *Comparator) Results() []*models.ModelResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*models.ModelResult, len(c.order))
	for i, name := range c.order {
		out[i] = c.results[name]
	}
	return out
}

// Compare builds the table of the chosen metrics across all models.
func (c *Comparator) Compare(metricsList []Metric) (*ComparisonTable, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.order) == 0 {
		return nil, ErrNoResults
	}
	table := &ComparisonTable{Metrics: metricsList}
	for _, name := range c.order {
		r := c.results[name]
		row := Row{ModelName: name, Values: make([]float64, len(metricsList))}
		for i, m := range metricsList {
			v, ok := r.Metric(m.Name)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, m.Name)
			}
			row.Values[i] = v
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Best returns the name of the model with the best value of the given
// metric per its fixed direction. Ties go to the earliest-inserted model.
func (c *Comparator) Best(metric string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.order) == 0 {
		return "", ErrNoResults
	}
	dir, err := directionOf(metric)
	if err != nil {
		return "", err
	}

	best := c.order[0]
	bestVal, _ := c.results[best].Metric(metric)
	for _, name := range c.order[1:] {
		v, _ := c.results[name].Metric(metric)
		if better(v, bestVal, dir) {
			best, bestVal = name, v
		}
	}
	return best, nil
}

// Rank assigns each model a rank 1..M on every default metric, sorted by
// the metric's direction with insertion-order tie-break, so every
// per-metric ranking is a permutation of 1..M. AverageRank is the mean of
// the per-metric ranks. Output rows follow insertion order.
func (c *Comparator) Rank() ([]Ranking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.order) == 0 {
		return nil, ErrNoResults
	}

	metricsList := DefaultMetrics()
	rankings := make([]Ranking, len(c.order))
	for i, name := range c.order {
		rankings[i] = Ranking{
			ModelName:     name,
			PerMetricRank: make(map[string]int, len(metricsList)),
		}
	}

	for _, m := range metricsList {
		// Stable sort over insertion indices: equal values keep
		// insertion order, giving a total order with no shared ranks.
		idx := make([]int, len(c.order))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			va, _ := c.results[c.order[idx[a]]].Metric(m.Name)
			vb, _ := c.results[c.order[idx[b]]].Metric(m.Name)
			return better(va, vb, m.Direction)
		})
		for rank, i := range idx {
			rankings[i].PerMetricRank[m.Name] = rank + 1
		}
	}

	for i := range rankings {
		sum := 0
		for _, r := range rankings[i].PerMetricRank {
			sum += r
		}
		rankings[i].AverageRank = float64(sum) / float64(len(metricsList))
	}
	return rankings, nil
}

// BestOverall returns the model with the lowest average rank, ties broken
// by insertion order.
func (c *Comparator) BestOverall() (string, error) {
	rankings, err := c.Rank()
	if err != nil {
		return "", err
	}
	best := rankings[0]
	for _, r := range rankings[1:] {
		if r.AverageRank < best.AverageRank {
			best = r
		}
	}
	return best.ModelName, nil
}

func directionOf(metric string) (Direction, error) {
	for _, m := range DefaultMetrics() {
		if m.Name == metric {
			return m.Direction, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
}

// better reports whether a strictly beats b under the direction. Equal
// values return false so stable sorts and first-wins scans preserve
// insertion order.
func better(a, b float64, dir Direction) bool {
	if dir == Minimize {
		return a < b
	}
	return a > b
}
