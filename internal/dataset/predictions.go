// Package dataset loads PredictionSets and joins them with external aux
// values. It is collaborator glue: by the time an engine runs, everything
// here has already happened and the set is read-only.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/clfeval/clfeval/internal/models"
)

// LoadPredictions reads a predictions file: a JSON array of samples,
// optionally zstd-compressed (".zst" suffix).
func LoadPredictions(path string) (models.PredictionSet, error) {
	data, err := readMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	var ps models.PredictionSet
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("predictions: parse %s: %w", path, err)
	}
	return ps, nil
}

func readMaybeCompressed(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("predictions: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	if !strings.HasSuffix(path, ".zst") {
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("predictions: read %s: %w", path, err)
		}
		return data, nil
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("predictions: zstd reader for %s: %w", path, err)
	}
	defer dec.Close()
	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("predictions: decompress %s: %w", path, err)
	}
	return data, nil
}

// JoinAux returns a copy of the set with AuxValue filled from the given
// id-keyed table. Samples missing from the table keep a nil AuxValue and
// produce a warning; a join miss never fails the computation.
func JoinAux(ps models.PredictionSet, aux map[string]float64, logger *slog.Logger) (models.PredictionSet, []string) {
	if logger == nil {
		logger = slog.Default()
	}
	out := make(models.PredictionSet, len(ps))
	var warnings []string
	for i, s := range ps {
		out[i] = s
		if v, ok := aux[s.ID]; ok {
			val := v
			out[i].AuxValue = &val
			continue
		}
		w := fmt.Sprintf("sample %s has no aux value in the join table", s.ID)
		warnings = append(warnings, w)
		logger.Warn("aux join miss", "sample", s.ID)
	}
	return out, warnings
}
