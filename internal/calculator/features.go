package calculator

import (
	"math"

	"StockAdvisor/internal/model"
)

// Settings holds the indicator periods. Zero values take the defaults.
type Settings struct {
	SMAFast    int
	SMASlow    int
	RSIPeriod  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	VolWindow  int
}

// DefaultSettings matches the feature set the model is trained on.
var DefaultSettings = Settings{
	SMAFast:    20,
	SMASlow:    50,
	RSIPeriod:  14,
	MACDFast:   12,
	MACDSlow:   26,
	MACDSignal: 9,
	VolWindow:  20,
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings
	if s.SMAFast > 0 {
		d.SMAFast = s.SMAFast
	}
	if s.SMASlow > 0 {
		d.SMASlow = s.SMASlow
	}
	if s.RSIPeriod > 0 {
		d.RSIPeriod = s.RSIPeriod
	}
	if s.MACDFast > 0 {
		d.MACDFast = s.MACDFast
	}
	if s.MACDSlow > 0 {
		d.MACDSlow = s.MACDSlow
	}
	if s.MACDSignal > 0 {
		d.MACDSignal = s.MACDSignal
	}
	if s.VolWindow > 0 {
		d.VolWindow = s.VolWindow
	}
	return d
}

// WarmUp is the number of leading bars whose feature rows are invalid,
// the longest lookback among the indicators.
func (s Settings) WarmUp() int {
	d := s.withDefaults()
	return max(d.SMAFast-1, d.SMASlow-1, d.RSIPeriod, d.MACDSlow+d.MACDSignal-2, d.VolWindow-1)
}

// MinBars is the smallest history that yields minRows labelled rows: the
// warm-up, minRows labelled bars and the unlabelled latest bar.
func (s Settings) MinBars(minRows int) int {
	return s.WarmUp() + minRows + 1
}

// Derive computes one FeatureRow per bar, ordered as model.FeatureNames.
func Derive(bars []model.OHLCV, settings Settings) []model.FeatureRow {
	s := settings.withDefaults()
	closes := extractCloses(bars)

	smaFast := SMASeries(closes, s.SMAFast)
	smaSlow := SMASeries(closes, s.SMASlow)
	rsi := RSISeries(closes, s.RSIPeriod)
	macd, macdSignal := MACDSeries(closes, s.MACDFast, s.MACDSlow, s.MACDSignal)
	vol := VolatilitySeries(closes, s.VolWindow)

	rows := make([]model.FeatureRow, len(bars))
	for i, b := range bars {
		values := []float64{smaFast[i], smaSlow[i], rsi[i], macd[i], macdSignal[i], vol[i]}
		rows[i] = model.FeatureRow{
			Time:   b.Time,
			Close:  b.Close,
			Values: values,
			Valid:  allFinite(values),
		}
	}
	return rows
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
