package statistics

import (
	"math"
	"testing"
)

func TestBootstrapCIDeterministic(t *testing.T) {
	values := []float64{1, 0, 1, 1, 0, 1, 1, 1, 0, 1}

	a := BootstrapCI(values, 0.95, DefaultSeed)
	b := BootstrapCI(values, 0.95, DefaultSeed)
	if a != b {
		t.Errorf("same seed produced different intervals: %+v vs %+v", a, b)
	}
}

func TestBootstrapCIBracketsMean(t *testing.T) {
	values := []float64{1, 0, 1, 1, 0, 1, 1, 1, 0, 1}

	ci := BootstrapCI(values, 0.95, DefaultSeed)
	if want := 0.7; math.Abs(ci.Mean-want) > 1e-9 {
		t.Errorf("mean = %f, want %f", ci.Mean, want)
	}
	if ci.Lower > ci.Mean || ci.Upper < ci.Mean {
		t.Errorf("interval [%f, %f] does not bracket the mean %f", ci.Lower, ci.Upper, ci.Mean)
	}
	if ci.NumBootstraps != DefaultBootstrapIterations {
		t.Errorf("num bootstraps = %d, want %d", ci.NumBootstraps, DefaultBootstrapIterations)
	}
}

func TestBootstrapCINarrowsWithLowerConfidence(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		if i%3 != 0 {
			values[i] = 1
		}
	}

	wide := BootstrapCI(values, 0.99, DefaultSeed)
	narrow := BootstrapCI(values, 0.80, DefaultSeed)
	if (narrow.Upper - narrow.Lower) >= (wide.Upper - wide.Lower) {
		t.Errorf("80%% interval [%f, %f] is not narrower than 99%% interval [%f, %f]",
			narrow.Lower, narrow.Upper, wide.Lower, wide.Upper)
	}
}

func TestBootstrapCICollapsedForTinyInputs(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		mean   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ci := BootstrapCI(tt.values, 0.95, DefaultSeed)
			if ci.Lower != tt.mean || ci.Upper != tt.mean || ci.Mean != tt.mean {
				t.Errorf("collapsed interval = %+v, want all %f", ci, tt.mean)
			}
			if ci.NumBootstraps != 0 {
				t.Errorf("num bootstraps = %d, want 0", ci.NumBootstraps)
			}
		})
	}
}

func TestBootstrapCIConstantInput(t *testing.T) {
	values := []float64{1, 1, 1, 1, 1}
	ci := BootstrapCI(values, 0.95, DefaultSeed)
	if ci.Lower != 1 || ci.Upper != 1 {
		t.Errorf("constant input gave interval [%f, %f], want [1, 1]", ci.Lower, ci.Upper)
	}
}

func TestAccuracyCIUsesDefaultSeed(t *testing.T) {
	values := []float64{1, 0, 1, 0, 1, 1}
	if got, want := AccuracyCI(values, 0.95), BootstrapCI(values, 0.95, DefaultSeed); got != want {
		t.Errorf("AccuracyCI = %+v, want %+v", got, want)
	}
}
