package dataset

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockAdvisor/internal/calculator"
	"StockAdvisor/internal/collector"
	"StockAdvisor/internal/model"
)

func row(close float64, valid bool, v float64) model.FeatureRow {
	return model.FeatureRow{Close: close, Valid: valid, Values: []float64{v, v, v, v, v, v}}
}

func TestSplit_LabelsNextClose(t *testing.T) {
	rows := []model.FeatureRow{
		row(10, false, 0), // warm-up, dropped
		row(11, true, 1),  // next 12 -> up
		row(12, true, 2),  // next 12 -> flat counts as down
		row(12, true, 3),  // next 11 -> down
		row(11, true, 4),  // next 13 -> up
		row(13, true, 5),  // latest, unlabelled
	}
	ds, err := Split(rows, 0.5, 2)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 0}, ds.TrainY)
	assert.Equal(t, []int{0, 1}, ds.TestY)
	assert.Equal(t, 1.0, ds.TrainX[0][0])
	assert.Equal(t, 3.0, ds.TestX[0][0], "split must keep chronological order")
	assert.Equal(t, 13.0, ds.Latest.Close)
	assert.Equal(t, 4, ds.Rows())
}

func TestSplit_DefaultRatio(t *testing.T) {
	rows := make([]model.FeatureRow, 101)
	for i := range rows {
		rows[i] = row(float64(100+i%3), true, float64(i))
	}
	ds, err := Split(rows, 0, 30)
	require.NoError(t, err)
	assert.Len(t, ds.TrainY, 80)
	assert.Len(t, ds.TestY, 20)
	assert.Equal(t, 79.0, ds.TrainX[79][0])
	assert.Equal(t, 80.0, ds.TestX[0][0])
}

func TestSplit_Insufficient(t *testing.T) {
	_, err := Split(nil, 0.8, 30)
	assert.ErrorIs(t, err, ErrInsufficientData)

	few := []model.FeatureRow{row(1, true, 1), row(2, true, 2), row(3, true, 3)}
	_, err = Split(few, 0.8, 30)
	assert.ErrorIs(t, err, ErrInsufficientData)

	warm := []model.FeatureRow{row(1, true, 1), row(2, false, 0)}
	_, err = Split(warm, 0.8, 1)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

type fixedSource struct {
	series *model.PriceSeries
	err    error
}

func (f fixedSource) Collect(context.Context) (*model.PriceSeries, error) { return f.series, f.err }

func TestBuilder_Build(t *testing.T) {
	bars := collector.GenerateMockBars(1500, 250)
	b := NewBuilder(fixedSource{series: &model.PriceSeries{Symbol: "INFY.NS", Source: "mock", DailyBars: bars}})

	ds, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "INFY.NS", ds.Symbol)
	assert.Equal(t, "mock", ds.Source)
	// 250 bars, 49 warm-up rows, last bar unlabelled
	assert.Equal(t, 200, ds.Rows())
	assert.Len(t, ds.TrainY, 160)
	assert.Equal(t, bars[249].Time, ds.Latest.Time)
	assert.Equal(t, time.UTC, ds.Latest.Time.Location())
}

func TestBuilder_SourceError(t *testing.T) {
	boom := errors.New("offline")
	_, err := NewBuilder(fixedSource{err: boom}).Build(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestBuilder_MinimumHistory(t *testing.T) {
	minBars := calculator.DefaultSettings.MinBars(30)
	col := collector.NewCollector(&collector.MockFetcher{Price: 1500}, nil, "INFY.NS", minBars)

	ds, err := NewBuilder(col).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, ds.Rows())

	col.Bars = minBars - 1
	_, err = NewBuilder(col).Build(context.Background())
	assert.ErrorIs(t, err, ErrInsufficientData)
}
