package recorder

import "StockAdvisor/internal/model"

// Recorder persists training runs and the last fetched price bars.
type Recorder interface {
	RecordTraining(report *model.TrainingReport) error
	SaveBars(symbol string, bars []model.OHLCV) error
	LoadBars(symbol string) ([]model.OHLCV, error)
	Close() error
}
