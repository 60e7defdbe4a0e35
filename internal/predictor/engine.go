// Package predictor fits the probability-of-rise model and serves its
// predictions to request handlers.
package predictor

import (
	"errors"
	"fmt"

	"StockAdvisor/internal/model"
)

// Engine is a trained scaler and classifier bound to the latest feature row.
// It is immutable after Train returns.
type Engine struct {
	scaler   *StandardScaler
	clf      *LogisticRegression
	latest   model.FeatureRow
	accuracy float64
	trainN   int
	testN    int
}

// Train fits a new engine on ds.
func Train(ds *model.Dataset) (*Engine, error) {
	if ds == nil || len(ds.TrainX) == 0 {
		return nil, errors.New("train: empty dataset")
	}
	if !ds.Latest.Valid {
		return nil, errors.New("train: latest feature row is not valid")
	}

	scaler, err := FitScaler(ds.TrainX)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	clf := NewLogisticRegression()
	if err := clf.Fit(scaler.TransformAll(ds.TrainX), ds.TrainY); err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	e := &Engine{
		scaler: scaler,
		clf:    clf,
		latest: ds.Latest,
		trainN: len(ds.TrainY),
		testN:  len(ds.TestY),
	}
	e.accuracy = e.score(ds.TestX, ds.TestY)
	return e, nil
}

// Probability returns P(up) for an unscaled feature vector.
func (e *Engine) Probability(features []float64) float64 {
	return e.clf.PredictProbability(e.scaler.Transform(features))
}

// PredictProbability returns P(up) for the latest bar seen at training time.
func (e *Engine) PredictProbability() float64 {
	return e.Probability(e.latest.Values)
}

// TestAccuracy is the fraction of correctly classified test rows.
func (e *Engine) TestAccuracy() float64 { return e.accuracy }

func (e *Engine) score(x [][]float64, y []int) float64 {
	if len(y) == 0 {
		return 0
	}
	var correct int
	for i, row := range x {
		pred := 0
		if e.Probability(row) >= 0.5 {
			pred = 1
		}
		if pred == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(y))
}
