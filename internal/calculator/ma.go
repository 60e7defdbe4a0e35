package calculator

import (
	"math"

	"github.com/markcheno/go-talib"

	"StockAdvisor/internal/model"
)

// SMASeries computes the simple moving average of closes over period.
// Entries before the first full window are NaN.
func SMASeries(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period {
		return nanSeries(len(closes))
	}
	return mask(talib.Sma(closes, period), period-1)
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// mask replaces talib's zero padding for the first lookback entries, and any
// non-finite value, with NaN so callers can treat warm-up uniformly.
func mask(series []float64, lookback int) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		if i < lookback || math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = math.NaN()
			continue
		}
		out[i] = v
	}
	return out
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
