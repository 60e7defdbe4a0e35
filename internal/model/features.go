package model

import "time"

// FeatureNames is the fixed column order of every feature vector.
var FeatureNames = []string{
	"sma_20",
	"sma_50",
	"rsi",
	"macd",
	"macd_signal",
	"volatility",
}

// FeatureRow holds the derived indicators for one bar.
type FeatureRow struct {
	Time   time.Time
	Close  float64
	Values []float64 // ordered as FeatureNames
	Valid  bool      // false while any indicator is still warming up
}

// Dataset is the chronologically split, labelled training input.
type Dataset struct {
	Symbol string
	Source string
	TrainX [][]float64
	TrainY []int
	TestX  [][]float64
	TestY  []int
	Latest FeatureRow // most recent bar, used for live prediction
}

// Rows returns the number of labelled rows across both splits.
func (d *Dataset) Rows() int {
	return len(d.TrainY) + len(d.TestY)
}
