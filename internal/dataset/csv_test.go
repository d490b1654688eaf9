package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "data.csv", "id,value\na,1\nb,2\n")

	rows, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0]["id"])
	assert.Equal(t, "2", rows[1]["value"])
}

func TestLoadCSVErrors(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, err)
	})
	t.Run("empty_file", func(t *testing.T) {
		_, err := LoadCSV(writeFile(t, "empty.csv", ""))
		assert.Error(t, err)
	})
}

func TestLoadAuxCSV(t *testing.T) {
	path := writeFile(t, "aux.csv", "sample_id,grade,mass\ns1,3,10.5\ns2,1,7.25\n")

	aux, err := LoadAuxCSV(path, "sample_id", "mass")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"s1": 10.5, "s2": 7.25}, aux)
}

func TestLoadAuxCSVErrors(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		idCol, valCol string
	}{
		{"missing_id_column", "id,mass\na,1\n", "sample_id", "mass"},
		{"missing_value_column", "sample_id,mass\na,1\n", "sample_id", "weight"},
		{"non_numeric_value", "sample_id,mass\na,heavy\n", "sample_id", "mass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "aux.csv", tt.content)
			_, err := LoadAuxCSV(path, tt.idCol, tt.valCol)
			assert.Error(t, err)
		})
	}
}
