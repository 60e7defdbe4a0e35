package calculator

import "github.com/markcheno/go-talib"

// RSISeries computes the Wilder-smoothed RSI over period.
// The first period entries are NaN.
func RSISeries(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) <= period {
		return nanSeries(len(closes))
	}
	return mask(talib.Rsi(closes, period), period)
}
