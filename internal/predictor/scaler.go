package predictor

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centres each column on its mean and divides by its
// population standard deviation.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// FitScaler learns per-column statistics from x. Columns with zero spread
// are scaled by 1.
func FitScaler(x [][]float64) (*StandardScaler, error) {
	if len(x) == 0 || len(x[0]) == 0 {
		return nil, errors.New("scaler: empty input")
	}
	n, d := len(x), len(x[0])
	s := &StandardScaler{Mean: make([]float64, d), Scale: make([]float64, d)}
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		for i := range x {
			if len(x[i]) != d {
				return nil, errors.New("scaler: ragged input")
			}
			col[i] = x[i][j]
		}
		mean, variance := stat.MeanVariance(col, nil)
		s.Mean[j] = mean
		s.Scale[j] = 1
		if n > 1 {
			// stat.MeanVariance is unbiased; convert to population variance.
			std := math.Sqrt(variance * float64(n-1) / float64(n))
			if std > 0 && !math.IsNaN(std) {
				s.Scale[j] = std
			}
		}
	}
	return s, nil
}

// Transform returns a scaled copy of row.
func (s *StandardScaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out
}

// TransformAll scales every row of x.
func (s *StandardScaler) TransformAll(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = s.Transform(row)
	}
	return out
}
