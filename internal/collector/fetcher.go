package collector

import (
	"context"
	"errors"

	"StockAdvisor/internal/model"
)

// ErrNoData is returned when a provider answers without any usable bars.
var ErrNoData = errors.New("no data returned")

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, count int) ([]model.OHLCV, error)
	FetchCurrentPrice(ctx context.Context, symbol string) (float64, error)
	Name() string
}
