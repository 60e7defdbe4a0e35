package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/tidwall/gjson"

	"StockAdvisor/internal/model"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	Client    *http.Client
	BaseURL   string
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: yahooChartURL,
		SymbolMap: map[string]string{
			"NIFTY":  "^NSEI",
			"SENSEX": "^BSESN",
			"SPX500": "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) ([]model.OHLCV, error) {
	u := fmt.Sprintf("%s%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return parseChart(body)
}

// parseChart decodes a v8 chart payload. Quote arrays contain nulls on
// holidays; those bars are skipped.
func parseChart(body []byte) ([]model.OHLCV, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("yahoo decode: invalid json")
	}
	chart := gjson.GetBytes(body, "chart")
	if desc := chart.Get("error.description"); desc.Exists() && desc.String() != "" {
		return nil, fmt.Errorf("yahoo api error: %s", desc.String())
	}
	result := chart.Get("result.0")
	timestamps := result.Get("timestamp").Array()
	if len(timestamps) == 0 {
		return nil, fmt.Errorf("yahoo: %w", ErrNoData)
	}

	quote := result.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()

	bars := make([]model.OHLCV, 0, len(timestamps))
	for i, ts := range timestamps {
		if i >= len(closes) || closes[i].Type == gjson.Null {
			continue // skip null bars (holidays etc.)
		}
		bar := model.OHLCV{
			Time:  time.Unix(ts.Int(), 0).UTC(),
			Close: closes[i].Float(),
		}
		if i < len(opens) {
			bar.Open = opens[i].Float()
		}
		if i < len(highs) {
			bar.High = highs[i].Float()
		}
		if i < len(lows) {
			bar.Low = lows[i].Float()
		}
		if i < len(volumes) {
			bar.Volume = volumes[i].Float()
		}
		if bar.Close == 0 {
			continue
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo: %w", ErrNoData)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// yahooRange picks the smallest chart range expected to hold count daily
// bars. Ranges are calendar spans of roughly 21 trading days a month; the
// bounds leave room for holidays.
func yahooRange(count int) string {
	switch {
	case count <= 18:
		return "1mo"
	case count <= 55:
		return "3mo"
	case count <= 115:
		return "6mo"
	case count <= 230:
		return "1y"
	case count <= 470:
		return "2y"
	case count <= 1150:
		return "5y"
	default:
		return "max"
	}
}

func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, count int) ([]model.OHLCV, error) {
	bars, err := f.fetchChart(ctx, symbol, "1d", yahooRange(count))
	if err != nil {
		return nil, err
	}
	// Trim to requested count
	if count > 0 && len(bars) > count {
		bars = bars[len(bars)-count:]
	}
	return bars, nil
}

func (f *YahooFetcher) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	bars, err := f.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return 0, err
	}
	return bars[len(bars)-1].Close, nil
}
