package finnhub

import (
	"context"
	"fmt"
	"time"

	"SignalScan/internal/domain/models"
	domrepo "SignalScan/internal/domain/repository"
	"SignalScan/internal/service/ratelimit"
	xhttp "SignalScan/pkg/http"
)

const sourceName = "finnhub"

// Client fetches historical candles from the Finnhub REST API. It implements
// repository.BarProvider; rate limiting is enforced here so every caller
// shares one budget for the source.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	limiter *ratelimit.Limiter

	capacity     float64
	refillPerSec float64
}

// NewClient creates a candle client. limiter may be shared across clients.
func NewClient(apiKey, baseURL string, timeout time.Duration, limiter *ratelimit.Limiter, capacity, refillPerSec float64) *Client {
	if baseURL == "" {
		baseURL = "https://finnhub.io/api/v1"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:       apiKey,
		baseURL:      baseURL,
		http:         xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter:      limiter,
		capacity:     capacity,
		refillPerSec: refillPerSec,
	}
}

// Source identifies this provider in cache keys and metrics.
func (c *Client) Source() string { return sourceName }

// candleResponse mirrors Finnhub's /stock/candle payload: parallel arrays
// plus a status field ("ok" or "no_data").
type candleResponse struct {
	Status  string    `json:"s"`
	Times   []int64   `json:"t"`
	Opens   []float64 `json:"o"`
	Highs   []float64 `json:"h"`
	Lows    []float64 `json:"l"`
	Closes  []float64 `json:"c"`
	Volumes []float64 `json:"v"`
}

// Candles fetches OHLCV bars for symbol at the given resolution. A "no_data"
// response yields an empty slice and a nil error; downstream treats that as
// insufficient data.
func (c *Client) Candles(ctx context.Context, symbol string, resolution domrepo.Resolution, from, to time.Time) ([]models.Bar, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, sourceName, c.capacity, c.refillPerSec); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var resp candleResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/stock/candle",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"resolution": {string(resolution)},
			"from":       {fmt.Sprintf("%d", from.Unix())},
			"to":         {fmt.Sprintf("%d", to.Unix())},
			"token":      {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("finnhub candles %s: %w", symbol, err)
	}

	if resp.Status == "no_data" {
		return nil, nil
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("finnhub candles %s: status %q", symbol, resp.Status)
	}
	return resp.toBars(symbol)
}

func (r *candleResponse) toBars(symbol string) ([]models.Bar, error) {
	n := len(r.Times)
	if len(r.Opens) != n || len(r.Highs) != n || len(r.Lows) != n || len(r.Closes) != n {
		return nil, fmt.Errorf("finnhub candles %s: ragged arrays", symbol)
	}

	bars := make([]models.Bar, 0, n)
	var prev int64
	for i := 0; i < n; i++ {
		// providers occasionally repeat the trailing bar; keep timestamps
		// strictly increasing
		if r.Times[i] <= prev {
			continue
		}
		prev = r.Times[i]

		bar := models.Bar{
			Timestamp: r.Times[i],
			Open:      r.Opens[i],
			High:      r.Highs[i],
			Low:       r.Lows[i],
			Close:     r.Closes[i],
		}
		if i < len(r.Volumes) {
			v := r.Volumes[i]
			bar.Volume = &v
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

var _ domrepo.BarProvider = (*Client)(nil)
