package models

import (
	"errors"
	"testing"
)

func validSample() Sample {
	return Sample{ID: "s1", TrueClass: 0, PredictedClass: 1, Scores: []float64{0.3, 0.7}}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		ps      PredictionSet
		k       int
		wantErr bool
	}{
		{"valid", PredictionSet{validSample()}, 2, false},
		{"k_one", PredictionSet{validSample()}, 1, true},
		{"k_zero", PredictionSet{validSample()}, 0, true},
		{"empty", PredictionSet{}, 2, true},
		{"nil", nil, 2, true},
		{"true_class_too_large", PredictionSet{{ID: "s", TrueClass: 2, PredictedClass: 0, Scores: []float64{1, 0}}}, 2, true},
		{"true_class_negative", PredictionSet{{ID: "s", TrueClass: -1, PredictedClass: 0, Scores: []float64{1, 0}}}, 2, true},
		{"predicted_class_too_large", PredictionSet{{ID: "s", TrueClass: 0, PredictedClass: 2, Scores: []float64{1, 0}}}, 2, true},
		{"short_scores", PredictionSet{{ID: "s", TrueClass: 0, PredictedClass: 1, Scores: []float64{1}}}, 2, true},
		{"long_scores", PredictionSet{{ID: "s", TrueClass: 0, PredictedClass: 1, Scores: []float64{0.2, 0.3, 0.5}}}, 2, true},
		{"score_negative", PredictionSet{{ID: "s", TrueClass: 0, PredictedClass: 1, Scores: []float64{-0.2, 1.2}}}, 2, true},
		{"score_above_one", PredictionSet{{ID: "s", TrueClass: 0, PredictedClass: 0, Scores: []float64{1.1, -0.1}}}, 2, true},
		{"sum_off", PredictionSet{{ID: "s", TrueClass: 0, PredictedClass: 1, Scores: []float64{0.4, 0.4}}}, 2, true},
		{"sum_within_epsilon", PredictionSet{{ID: "s", TrueClass: 0, PredictedClass: 1, Scores: []float64{0.4, 0.6005}}}, 2, false},
		{"second_sample_bad", PredictionSet{validSample(), {ID: "s2", TrueClass: 5, PredictedClass: 0, Scores: []float64{1, 0}}}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ps.Validate(tt.k)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("err = %v, want ErrInvalidInput", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfidence(t *testing.T) {
	s := Sample{PredictedClass: 1, Scores: []float64{0.2, 0.5, 0.3}}
	if got := s.Confidence(); got != 0.5 {
		t.Errorf("Confidence = %f, want 0.5", got)
	}

	out := Sample{PredictedClass: 3, Scores: []float64{0.5, 0.5}}
	if got := out.Confidence(); got != 0 {
		t.Errorf("out-of-range prediction Confidence = %f, want 0", got)
	}
}
