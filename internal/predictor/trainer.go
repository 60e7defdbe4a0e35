package predictor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"StockAdvisor/internal/metrics"
	"StockAdvisor/internal/model"
)

// DatasetBuilder produces a training set.
type DatasetBuilder interface {
	Build(ctx context.Context) (*model.Dataset, error)
}

// TrainingRecorder persists training reports.
type TrainingRecorder interface {
	RecordTraining(report *model.TrainingReport) error
}

// Trainer runs the fetch, derive, fit and swap pipeline.
type Trainer struct {
	Builder  DatasetBuilder
	Holder   *Holder
	Recorder TrainingRecorder // optional
	Metrics  *metrics.Metrics // optional

	// OnResult, when set, is called after every run.
	OnResult func(ctx context.Context, report *model.TrainingReport, err error)

	mu sync.Mutex
}

// NewTrainer wires a trainer to its dataset builder and holder.
func NewTrainer(builder DatasetBuilder, holder *Holder) *Trainer {
	return &Trainer{Builder: builder, Holder: holder}
}

// Train builds a fresh dataset, fits an engine and swaps it into the
// holder. On failure the holder keeps whatever engine it already had.
func (t *Trainer) Train(ctx context.Context) (*model.TrainingReport, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	report, err := t.train(ctx)
	if err != nil {
		log.Error().Err(err).Msg("training failed")
		t.Metrics.ObserveTraining(0, 0, err)
	} else {
		log.Info().
			Str("symbol", report.Symbol).
			Str("source", report.Source).
			Int("rows", report.Rows).
			Float64("test_accuracy", report.TestAccuracy).
			Float64("probability", report.LatestProbability).
			Dur("took", report.Duration).
			Msg("model trained")
		t.Metrics.ObserveTraining(report.TestAccuracy, report.LatestProbability, nil)
		if t.Recorder != nil {
			if rerr := t.Recorder.RecordTraining(report); rerr != nil {
				log.Warn().Err(rerr).Msg("record training run")
			}
		}
	}
	if t.OnResult != nil {
		t.OnResult(ctx, report, err)
	}
	return report, err
}

func (t *Trainer) train(ctx context.Context) (*model.TrainingReport, error) {
	start := time.Now()
	ds, err := t.Builder.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("build dataset: %w", err)
	}
	engine, err := Train(ds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ds.Symbol, err)
	}

	report := &model.TrainingReport{
		Symbol:            ds.Symbol,
		Source:            ds.Source,
		Rows:              ds.Rows(),
		TrainRows:         len(ds.TrainY),
		TestRows:          len(ds.TestY),
		TestAccuracy:      engine.TestAccuracy(),
		LatestProbability: engine.PredictProbability(),
		LatestBarTime:     ds.Latest.Time,
		Duration:          time.Since(start),
		TrainedAt:         time.Now(),
	}
	t.Holder.Swap(engine, report)
	return report, nil
}
