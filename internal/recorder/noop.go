package recorder

import "StockAdvisor/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTraining(_ *model.TrainingReport) error { return nil }
func (n *NoopRecorder) SaveBars(_ string, _ []model.OHLCV) error     { return nil }
func (n *NoopRecorder) LoadBars(_ string) ([]model.OHLCV, error)     { return nil, nil }
func (n *NoopRecorder) Close() error                                 { return nil }
