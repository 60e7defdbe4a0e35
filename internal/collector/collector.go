package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"StockAdvisor/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	DailyData []model.OHLCV
	Err       error // returned by every call when set
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, count int) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return GenerateMockBars(m.Price, count), nil
}

func (m *MockFetcher) FetchCurrentPrice(_ context.Context, _ string) (float64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Price, nil
}

// GenerateMockBars produces count daily bars oscillating around basePrice
// with a slow drift, so both up and down days occur.
func GenerateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001 + 0.02*math.Sin(float64(i)/2.5))
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// BarStore keeps the last successfully fetched bars per symbol.
type BarStore interface {
	SaveBars(symbol string, bars []model.OHLCV) error
	LoadBars(symbol string) ([]model.OHLCV, error)
}

// Collector fetches price history for one symbol, falling back to the bar
// store when the provider is unavailable.
type Collector struct {
	Fetcher Fetcher
	Store   BarStore
	Symbol  string
	Bars    int // daily bars requested per fetch
}

// NewCollector creates a new Collector. store may be nil.
func NewCollector(fetcher Fetcher, store BarStore, symbol string, bars int) *Collector {
	return &Collector{Fetcher: fetcher, Store: store, Symbol: symbol, Bars: bars}
}

// Collect makes a single attempt against the fetcher. On success the bars
// are saved to the store; on failure the stored bars are served instead.
func (c *Collector) Collect(ctx context.Context) (*model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, c.Symbol, c.Bars)
	if err == nil && len(bars) == 0 {
		err = ErrNoData
	}
	if err == nil {
		if c.Store != nil {
			if serr := c.Store.SaveBars(c.Symbol, bars); serr != nil {
				log.Warn().Err(serr).Str("symbol", c.Symbol).Msg("save bar snapshot failed")
			}
		}
		return &model.PriceSeries{
			Symbol:    c.Symbol,
			Source:    c.Fetcher.Name(),
			DailyBars: bars,
			FetchedAt: time.Now(),
		}, nil
	}

	fetchErr := fmt.Errorf("fetch daily bars: %w", err)
	if c.Store == nil {
		return nil, fetchErr
	}
	stored, lerr := c.Store.LoadBars(c.Symbol)
	if lerr != nil || len(stored) == 0 {
		if lerr != nil {
			log.Warn().Err(lerr).Str("symbol", c.Symbol).Msg("load bar snapshot failed")
		}
		return nil, fetchErr
	}
	log.Warn().Err(err).
		Str("symbol", c.Symbol).
		Str("source", c.Fetcher.Name()).
		Int("bars", len(stored)).
		Msg("market data unavailable, using stored bars")
	return &model.PriceSeries{
		Symbol:    c.Symbol,
		Source:    "store",
		DailyBars: stored,
		FetchedAt: time.Now(),
	}, nil
}

// LivePrice returns the current price, or nil when it cannot be fetched.
func (c *Collector) LivePrice(ctx context.Context) *float64 {
	p, err := c.Fetcher.FetchCurrentPrice(ctx, c.Symbol)
	if err != nil || p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		if err != nil {
			log.Debug().Err(err).Str("symbol", c.Symbol).Msg("live price unavailable")
		}
		return nil
	}
	return &p
}
