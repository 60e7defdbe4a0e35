package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds raw price data for analysis.
type PriceSeries struct {
	Symbol    string
	Source    string // fetcher name, or "store" when served from the bar snapshot
	DailyBars []OHLCV
	FetchedAt time.Time
}
