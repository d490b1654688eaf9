package models

import (
	"reflect"
	"testing"
)

func TestConfusionMatrixAccessors(t *testing.T) {
	m := ConfusionMatrix{
		{45, 3, 2},
		{4, 38, 3},
		{2, 1, 42},
	}

	if got := m.K(); got != 3 {
		t.Errorf("K = %d, want 3", got)
	}
	if got := m.Total(); got != 140 {
		t.Errorf("Total = %d, want 140", got)
	}
	if got := m.Trace(); got != 125 {
		t.Errorf("Trace = %d, want 125", got)
	}
	if got := m.RowSum(1); got != 45 {
		t.Errorf("RowSum(1) = %d, want 45", got)
	}
	if got := m.ColSum(0); got != 51 {
		t.Errorf("ColSum(0) = %d, want 51", got)
	}
}

func TestNewConfusionMatrixIsZero(t *testing.T) {
	m := NewConfusionMatrix(4)
	if m.K() != 4 || m.Total() != 0 {
		t.Errorf("new matrix K=%d Total=%d, want 4 and 0", m.K(), m.Total())
	}
}

func TestNormalizedZeroRow(t *testing.T) {
	m := ConfusionMatrix{
		{2, 2},
		{0, 0},
	}
	norm := m.Normalized()

	if norm[0][0] != 0.5 || norm[0][1] != 0.5 {
		t.Errorf("row 0 = %v, want [0.5 0.5]", norm[0])
	}
	if norm[1][0] != 0 || norm[1][1] != 0 {
		t.Errorf("zero-support row = %v, want all zero", norm[1])
	}
}

func TestClone(t *testing.T) {
	m := ConfusionMatrix{{1, 2}, {3, 4}}
	c := m.Clone()
	c[0][0] = 99

	if m[0][0] != 1 {
		t.Error("mutating the clone changed the original")
	}
	if !reflect.DeepEqual(m.Clone(), m) {
		t.Error("clone differs from original")
	}
}
