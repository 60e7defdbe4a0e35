package calculator

import (
	"gonum.org/v1/gonum/stat"
)

// VolatilitySeries is the rolling sample standard deviation of closes.
func VolatilitySeries(closes []float64, window int) []float64 {
	out := nanSeries(len(closes))
	if window < 2 {
		return out
	}
	for i := window - 1; i < len(closes); i++ {
		out[i] = stat.StdDev(closes[i-window+1:i+1], nil)
	}
	return out
}
