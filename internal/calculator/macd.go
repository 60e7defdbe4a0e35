package calculator

import "github.com/markcheno/go-talib"

// MACDSeries returns the MACD line and its signal line. Both are NaN until
// the slow EMA and the signal EMA have warmed up.
func MACDSeries(closes []float64, fast, slow, signal int) (macd, macdSignal []float64) {
	lookback := slow + signal - 2
	if fast <= 0 || slow <= fast || signal <= 0 || len(closes) <= lookback {
		return nanSeries(len(closes)), nanSeries(len(closes))
	}
	m, s, _ := talib.Macd(closes, fast, slow, signal)
	return mask(m, lookback), mask(s, lookback)
}
