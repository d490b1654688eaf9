package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clfeval/clfeval/internal/models"
)

func resultWith(name string, accuracy, macroF1, weightedF1, meanAUC, inferenceMs float64) *models.ModelResult {
	return &models.ModelResult{
		ModelName: name,
		Overall: models.OverallMetrics{
			Accuracy:   accuracy,
			MacroF1:    macroF1,
			WeightedF1: weightedF1,
		},
		MeanAUC:         meanAUC,
		InferenceTimeMs: inferenceMs,
	}
}

func TestEmptyComparator(t *testing.T) {
	c := New(nil)

	_, err := c.Compare(DefaultMetrics())
	assert.ErrorIs(t, err, ErrNoResults)

	_, err = c.Rank()
	assert.ErrorIs(t, err, ErrNoResults)

	_, err = c.Best("accuracy")
	assert.ErrorIs(t, err, ErrNoResults)

	_, err = c.BestOverall()
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestAddUpsertKeepsInsertionOrder(t *testing.T) {
	c := New(nil)
	c.Add(resultWith("a", 0.8, 0.8, 0.8, 0.8, 10))
	c.Add(resultWith("b", 0.9, 0.9, 0.9, 0.9, 20))
	c.Add(resultWith("a", 0.95, 0.95, 0.95, 0.95, 5))

	require.Equal(t, 2, c.Len())
	results := c.Results()
	assert.Equal(t, "a", results[0].ModelName, "overwritten model keeps its original position")
	assert.Equal(t, 0.95, results[0].Overall.Accuracy, "overwrite replaces the stored result")
}

func TestCompareTable(t *testing.T) {
	c := New(nil)
	c.Add(resultWith("fast", 0.8, 0.78, 0.79, 0.85, 5))
	c.Add(resultWith("slow", 0.9, 0.88, 0.89, 0.95, 50))

	table, err := c.Compare(DefaultMetrics())
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "fast", table.Rows[0].ModelName)
	assert.Equal(t, []float64{0.8, 0.78, 0.79, 0.85, 5}, table.Rows[0].Values)
	assert.Equal(t, []float64{0.9, 0.88, 0.89, 0.95, 50}, table.Rows[1].Values)
}

func TestCompareUnknownMetric(t *testing.T) {
	c := New(nil)
	c.Add(resultWith("a", 0.8, 0.8, 0.8, 0.8, 10))

	_, err := c.Compare([]Metric{{Name: "recall", Direction: Maximize}})
	assert.ErrorIs(t, err, ErrUnknownMetric)

	_, err = c.Best("recall")
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestBestRespectsDirection(t *testing.T) {
	c := New(nil)
	c.Add(resultWith("accurate", 0.95, 0.9, 0.9, 0.9, 100))
	c.Add(resultWith("quick", 0.7, 0.6, 0.6, 0.7, 3))

	best, err := c.Best("accuracy")
	require.NoError(t, err)
	assert.Equal(t, "accurate", best)

	best, err = c.Best("inferenceTimeMs")
	require.NoError(t, err)
	assert.Equal(t, "quick", best)
}

func TestBestTieGoesToFirstInserted(t *testing.T) {
	c := New(nil)
	c.Add(resultWith("first", 0.9, 0.9, 0.9, 0.9, 10))
	c.Add(resultWith("second", 0.9, 0.9, 0.9, 0.9, 10))

	best, err := c.Best("accuracy")
	require.NoError(t, err)
	assert.Equal(t, "first", best)
}

func TestRankTieAndDirection(t *testing.T) {
	// Identical accuracy but different inference times: the tie rule gives
	// the first-inserted model rank 1 on accuracy, while inferenceTimeMs
	// ranks them on its own merit.
	c := New(nil)
	c.Add(resultWith("m1", 0.9, 0.9, 0.9, 0.9, 10))
	c.Add(resultWith("m2", 0.9, 0.9, 0.9, 0.9, 20))

	rankings, err := c.Rank()
	require.NoError(t, err)
	require.Len(t, rankings, 2)

	assert.Equal(t, 1, rankings[0].PerMetricRank["accuracy"])
	assert.Equal(t, 2, rankings[1].PerMetricRank["accuracy"])
	assert.Equal(t, 1, rankings[0].PerMetricRank["inferenceTimeMs"])
	assert.Equal(t, 2, rankings[1].PerMetricRank["inferenceTimeMs"])
}

func TestRankIsPermutationPerMetric(t *testing.T) {
	c := New(nil)
	c.Add(resultWith("a", 0.7, 0.7, 0.7, 0.7, 30))
	c.Add(resultWith("b", 0.9, 0.8, 0.7, 0.6, 10))
	c.Add(resultWith("c", 0.8, 0.9, 0.7, 0.8, 20))

	rankings, err := c.Rank()
	require.NoError(t, err)

	m := len(rankings)
	for _, metric := range DefaultMetrics() {
		seen := make(map[int]bool, m)
		for _, r := range rankings {
			rank := r.PerMetricRank[metric.Name]
			assert.GreaterOrEqual(t, rank, 1)
			assert.LessOrEqual(t, rank, m)
			assert.False(t, seen[rank], "metric %s assigns rank %d twice", metric.Name, rank)
			seen[rank] = true
		}
	}
	for _, r := range rankings {
		assert.GreaterOrEqual(t, r.AverageRank, 1.0)
		assert.LessOrEqual(t, r.AverageRank, float64(m))
	}
}

func TestBestOverall(t *testing.T) {
	c := New(nil)
	c.Add(resultWith("weak", 0.6, 0.6, 0.6, 0.6, 50))
	c.Add(resultWith("strong", 0.95, 0.94, 0.95, 0.97, 8))

	best, err := c.BestOverall()
	require.NoError(t, err)
	assert.Equal(t, "strong", best)
}

func TestConcurrentAdd(t *testing.T) {
	c := New(nil)
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			c.Add(resultWith(string(rune('a'+i)), 0.5, 0.5, 0.5, 0.5, float64(i)))
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	assert.Equal(t, 8, c.Len())
}
