package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput indicates a malformed PredictionSet or class count: the
// evaluation of the offending model is aborted, other models are unaffected.
var ErrInvalidInput = errors.New("invalid input")

// ScoreSumEpsilon is the tolerance when checking that a sample's score
// vector sums to 1.
const ScoreSumEpsilon = 1e-3

// Sample is one classified example: ground truth, the model's decision and
// its full score vector. AuxValue carries an optional external continuous
// signal (nil when the sample has none).
type Sample struct {
	ID             string    `json:"id"`
	TrueClass      int       `json:"true_class"`
	PredictedClass int       `json:"predicted_class"`
	Scores         []float64 `json:"scores"`
	AuxValue       *float64  `json:"aux_value,omitempty"`
}

// Confidence returns the score the model assigned to its own prediction.
func (s Sample) Confidence() float64 {
	if s.PredictedClass < 0 || s.PredictedClass >= len(s.Scores) {
		return 0
	}
	return s.Scores[s.PredictedClass]
}

// PredictionSet is the ordered per-sample output of one model over one
// dataset split. It is built once by the caller and treated as read-only by
// every engine; all derived reports are pure functions of it.
type PredictionSet []Sample

// Validate checks the preconditions shared by all engines: k >= 2, at least
// one sample, class ids within [0,k), score vectors of length k with entries
// in [0,1] summing to 1 within ScoreSumEpsilon.
func (ps PredictionSet) Validate(k int) error {
	if k < 2 {
		return fmt.Errorf("%w: class count must be >= 2, got %d", ErrInvalidInput, k)
	}
	if len(ps) == 0 {
		return fmt.Errorf("%w: prediction set is empty", ErrInvalidInput)
	}
	for i, s := range ps {
		if s.TrueClass < 0 || s.TrueClass >= k {
			return fmt.Errorf("%w: sample %d (%s): true class %d outside [0,%d)", ErrInvalidInput, i, s.ID, s.TrueClass, k)
		}
		if s.PredictedClass < 0 || s.PredictedClass >= k {
			return fmt.Errorf("%w: sample %d (%s): predicted class %d outside [0,%d)", ErrInvalidInput, i, s.ID, s.PredictedClass, k)
		}
		if len(s.Scores) != k {
			return fmt.Errorf("%w: sample %d (%s): score vector has %d entries, expected %d", ErrInvalidInput, i, s.ID, len(s.Scores), k)
		}
		sum := 0.0
		for _, v := range s.Scores {
			if v < 0 || v > 1 || math.IsNaN(v) {
				return fmt.Errorf("%w: sample %d (%s): score %v outside [0,1]", ErrInvalidInput, i, s.ID, v)
			}
			sum += v
		}
		if math.Abs(sum-1) > ScoreSumEpsilon {
			return fmt.Errorf("%w: sample %d (%s): scores sum to %.6f, expected 1±%g", ErrInvalidInput, i, s.ID, sum, ScoreSumEpsilon)
		}
	}
	return nil
}
