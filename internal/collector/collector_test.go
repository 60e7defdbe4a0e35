package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockAdvisor/internal/model"
)

type memStore struct {
	bars    map[string][]model.OHLCV
	saveErr error
	saves   int
}

func newMemStore() *memStore { return &memStore{bars: map[string][]model.OHLCV{}} }

func (m *memStore) SaveBars(symbol string, bars []model.OHLCV) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.bars[symbol] = bars
	return nil
}

func (m *memStore) LoadBars(symbol string) ([]model.OHLCV, error) {
	return m.bars[symbol], nil
}

func TestCollect_SavesSnapshot(t *testing.T) {
	store := newMemStore()
	c := NewCollector(&MockFetcher{Price: 100}, store, "INFY.NS", 120)

	series, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mock", series.Source)
	assert.Len(t, series.DailyBars, 120)
	assert.Len(t, store.bars["INFY.NS"], 120)
}

func TestCollect_FallsBackToStore(t *testing.T) {
	store := newMemStore()
	store.bars["INFY.NS"] = GenerateMockBars(100, 80)
	c := NewCollector(&MockFetcher{Err: errors.New("connection refused")}, store, "INFY.NS", 120)

	series, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "store", series.Source)
	assert.Len(t, series.DailyBars, 80)
}

func TestCollect_NoStoreReturnsError(t *testing.T) {
	fetchErr := errors.New("connection refused")
	c := NewCollector(&MockFetcher{Err: fetchErr}, nil, "INFY.NS", 120)

	_, err := c.Collect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, fetchErr)

	empty := NewCollector(&MockFetcher{Err: fetchErr}, newMemStore(), "INFY.NS", 120)
	_, err = empty.Collect(context.Background())
	assert.ErrorIs(t, err, fetchErr)
}

func TestCollect_EmptyResultIsError(t *testing.T) {
	c := NewCollector(&MockFetcher{DailyData: []model.OHLCV{}}, nil, "INFY.NS", 120)
	_, err := c.Collect(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestCollect_SaveFailureIsNotFatal(t *testing.T) {
	store := newMemStore()
	store.saveErr = errors.New("disk full")
	c := NewCollector(&MockFetcher{Price: 50}, store, "X", 60)

	series, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, series.DailyBars, 60)
	assert.Equal(t, 1, store.saves)
}

func TestLivePrice(t *testing.T) {
	ok := NewCollector(&MockFetcher{Price: 101.5}, nil, "X", 10)
	p := ok.LivePrice(context.Background())
	require.NotNil(t, p)
	assert.Equal(t, 101.5, *p)

	failing := NewCollector(&MockFetcher{Err: errors.New("timeout")}, nil, "X", 10)
	assert.Nil(t, failing.LivePrice(context.Background()))

	zero := NewCollector(&MockFetcher{}, nil, "X", 10)
	assert.Nil(t, zero.LivePrice(context.Background()))
}
