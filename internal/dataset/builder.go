// Package dataset turns raw price history into a labelled, chronologically
// split training set.
package dataset

import (
	"context"
	"errors"
	"fmt"

	"StockAdvisor/internal/calculator"
	"StockAdvisor/internal/model"
)

// ErrInsufficientData is returned when too few labelled rows survive warm-up.
var ErrInsufficientData = errors.New("insufficient data")

// Source provides price history.
type Source interface {
	Collect(ctx context.Context) (*model.PriceSeries, error)
}

// Builder prepares the model's training input.
type Builder struct {
	Source     Source
	Indicators calculator.Settings
	TrainRatio float64 // fraction of labelled rows used for training, default 0.8
	MinRows    int     // minimum labelled rows required, default 30
}

// NewBuilder creates a Builder with default split settings.
func NewBuilder(src Source) *Builder {
	return &Builder{Source: src, TrainRatio: 0.8, MinRows: 30}
}

// Build fetches history, derives features and splits the result.
func (b *Builder) Build(ctx context.Context) (*model.Dataset, error) {
	series, err := b.Source.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	ds, err := Split(calculator.Derive(series.DailyBars, b.Indicators), b.TrainRatio, b.MinRows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", series.Symbol, err)
	}
	ds.Symbol = series.Symbol
	ds.Source = series.Source
	return ds, nil
}

// Split labels every row with whether the next close is strictly higher,
// drops warm-up rows and splits chronologically without shuffling. The final
// row has no next period; it is never labelled and becomes Dataset.Latest.
func Split(rows []model.FeatureRow, trainRatio float64, minRows int) (*model.Dataset, error) {
	if trainRatio <= 0 || trainRatio >= 1 {
		trainRatio = 0.8
	}
	if minRows < 2 {
		minRows = 2
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows: %w", ErrInsufficientData)
	}
	latest := rows[len(rows)-1]
	if !latest.Valid {
		return nil, fmt.Errorf("latest bar still warming up: %w", ErrInsufficientData)
	}

	var xs [][]float64
	var ys []int
	for i := 0; i < len(rows)-1; i++ {
		if !rows[i].Valid {
			continue
		}
		label := 0
		if rows[i+1].Close > rows[i].Close {
			label = 1
		}
		xs = append(xs, rows[i].Values)
		ys = append(ys, label)
	}
	if len(ys) < minRows {
		return nil, fmt.Errorf("%d labelled rows, need %d: %w", len(ys), minRows, ErrInsufficientData)
	}

	cut := int(float64(len(ys)) * trainRatio)
	if cut == 0 || cut == len(ys) {
		return nil, fmt.Errorf("empty split at %d/%d: %w", cut, len(ys), ErrInsufficientData)
	}
	return &model.Dataset{
		TrainX: xs[:cut],
		TrainY: ys[:cut],
		TestX:  xs[cut:],
		TestY:  ys[cut:],
		Latest: latest,
	}, nil
}
