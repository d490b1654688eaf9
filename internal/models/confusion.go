package models

// ConfusionMatrix is a KxK count matrix: row = true class, column =
// predicted class. The sum of all entries equals the number of samples the
// matrix was built from.
type ConfusionMatrix [][]int

// NewConfusionMatrix returns an all-zero KxK matrix.
func NewConfusionMatrix(k int) ConfusionMatrix {
	m := make(ConfusionMatrix, k)
	for i := range m {
		m[i] = make([]int, k)
	}
	return m
}

// K returns the class count.
func (m ConfusionMatrix) K() int { return len(m) }

// Total returns the sum of all entries.
func (m ConfusionMatrix) Total() int {
	total := 0
	for _, row := range m {
		for _, v := range row {
			total += v
		}
	}
	return total
}

// Trace returns the number of correctly classified samples.
func (m ConfusionMatrix) Trace() int {
	trace := 0
	for i := range m {
		trace += m[i][i]
	}
	return trace
}

// RowSum returns the support of true class i.
func (m ConfusionMatrix) RowSum(i int) int {
	sum := 0
	for _, v := range m[i] {
		sum += v
	}
	return sum
}

// ColSum returns the number of samples predicted as class j.
func (m ConfusionMatrix) ColSum(j int) int {
	sum := 0
	for i := range m {
		sum += m[i][j]
	}
	return sum
}

// Normalized returns the matrix with each row divided by its sum. Rows with
// zero support stay all-zero rather than turning into NaN.
func (m ConfusionMatrix) Normalized() [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		sum := m.RowSum(i)
		if sum == 0 {
			continue
		}
		for j, v := range row {
			out[i][j] = float64(v) / float64(sum)
		}
	}
	return out
}

// Clone returns a deep copy.
func (m ConfusionMatrix) Clone() ConfusionMatrix {
	out := make(ConfusionMatrix, len(m))
	for i, row := range m {
		out[i] = make([]int, len(row))
		copy(out[i], row)
	}
	return out
}
