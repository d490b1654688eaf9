package models

import (
	"encoding/json"
	"math"
)

// MisclassificationRecord describes one wrongly classified sample.
// Confidence is the score the model assigned to its (wrong) prediction.
type MisclassificationRecord struct {
	SampleID       string   `json:"sample_id"`
	TrueClass      int      `json:"true_class"`
	PredictedClass int      `json:"predicted_class"`
	Confidence     float64  `json:"confidence"`
	AuxValue       *float64 `json:"aux_value,omitempty"`
}

// ConfusionPattern is one off-diagonal confusion cell: how often true class
// TrueClass was predicted as PredictedClass, and what share of that true
// class the cell represents.
type ConfusionPattern struct {
	TrueClass      int     `json:"true_class"`
	PredictedClass int     `json:"predicted_class"`
	TrueName       string  `json:"true_name,omitempty"`
	PredictedName  string  `json:"predicted_name,omitempty"`
	Count          int     `json:"count"`
	Percentage     float64 `json:"percentage"`
}

// CorrelationReport relates classifier behavior to the external aux signal.
// When fewer than 2 samples carry an aux value the three correlations are
// NaN and Degenerate is set; the condition is flagged, never silently
// reported as zero correlation.
type CorrelationReport struct {
	TrueVsAux       float64   `json:"true_vs_aux"`
	PredVsAux       float64   `json:"pred_vs_aux"`
	TrueVsPred      float64   `json:"true_vs_pred"`
	PerClassAuxMean []float64 `json:"per_class_aux_mean"`
	PerClassAuxStd  []float64 `json:"per_class_aux_std"`
	SamplesWithAux  int       `json:"samples_with_aux"`
	Degenerate      bool      `json:"degenerate"`
	Warnings        []string  `json:"warnings,omitempty"`
}

// MarshalJSON renders NaN correlation and per-class values as null so the
// report stays valid JSON under the degenerate-input policy.
func (c CorrelationReport) MarshalJSON() ([]byte, error) {
	type out struct {
		TrueVsAux       *float64   `json:"true_vs_aux"`
		PredVsAux       *float64   `json:"pred_vs_aux"`
		TrueVsPred      *float64   `json:"true_vs_pred"`
		PerClassAuxMean []*float64 `json:"per_class_aux_mean"`
		PerClassAuxStd  []*float64 `json:"per_class_aux_std"`
		SamplesWithAux  int        `json:"samples_with_aux"`
		Degenerate      bool       `json:"degenerate"`
		Warnings        []string   `json:"warnings,omitempty"`
	}
	o := out{
		TrueVsAux:       finiteOrNil(c.TrueVsAux),
		PredVsAux:       finiteOrNil(c.PredVsAux),
		TrueVsPred:      finiteOrNil(c.TrueVsPred),
		PerClassAuxMean: finiteSliceOrNil(c.PerClassAuxMean),
		PerClassAuxStd:  finiteSliceOrNil(c.PerClassAuxStd),
		SamplesWithAux:  c.SamplesWithAux,
		Degenerate:      c.Degenerate,
		Warnings:        c.Warnings,
	}
	return json.Marshal(o)
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func finiteSliceOrNil(vs []float64) []*float64 {
	if vs == nil {
		return nil
	}
	out := make([]*float64, len(vs))
	for i, v := range vs {
		out[i] = finiteOrNil(v)
	}
	return out
}
