package cache

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clfeval/clfeval/internal/models"
)

func sampleSet() models.PredictionSet {
	return models.PredictionSet{
		{ID: "s1", TrueClass: 0, PredictedClass: 0, Scores: []float64{0.9, 0.1}},
		{ID: "s2", TrueClass: 1, PredictedClass: 0, Scores: []float64{0.6, 0.4}},
	}
}

func TestKeyStable(t *testing.T) {
	ps := sampleSet()
	k1, err := Key("svm", ps, 2, 10, 100)
	require.NoError(t, err)
	k2, err := Key("svm", ps, 2, 10, 100)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64)
}

func TestKeyCoversAllInputs(t *testing.T) {
	base, err := Key("svm", sampleSet(), 2, 10, 100)
	require.NoError(t, err)

	changedName, _ := Key("tree", sampleSet(), 2, 10, 100)
	assert.NotEqual(t, base, changedName)

	changedK, _ := Key("svm", sampleSet(), 3, 10, 100)
	assert.NotEqual(t, base, changedK)

	changedTiming, _ := Key("svm", sampleSet(), 2, 11, 100)
	assert.NotEqual(t, base, changedTiming)

	changedThroughput, _ := Key("svm", sampleSet(), 2, 10, 101)
	assert.NotEqual(t, base, changedThroughput)

	ps := sampleSet()
	ps[1].PredictedClass = 1
	changedData, _ := Key("svm", ps, 2, 10, 100)
	assert.NotEqual(t, base, changedData)
}

func TestGetPutRoundTrip(t *testing.T) {
	c := New(t.TempDir())

	key, err := Key("svm", sampleSet(), 2, 10, 100)
	require.NoError(t, err)

	_, ok := c.Get(key)
	assert.False(t, ok, "miss before Put")

	result := &models.ModelResult{
		ModelName:    "svm",
		TotalSamples: 2,
		Correct:      1,
		Incorrect:    1,
		Overall:      models.OverallMetrics{Accuracy: 0.5},
	}
	require.NoError(t, c.Put(key, result))

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, result.ModelName, got.ModelName)
	assert.Equal(t, result.Overall, got.Overall)
}

func TestGetIgnoresCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	key, err := Key("svm", sampleSet(), 2, 10, 100)
	require.NoError(t, err)

	require.NoError(t, c.Put(key, &models.ModelResult{ModelName: "svm"}))
	require.NoError(t, os.WriteFile(c.path(key), []byte("{broken"), 0o644))

	_, ok := c.Get(key)
	assert.False(t, ok)
}
