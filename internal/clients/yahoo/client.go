// Package yahoo implements the stock and ETF price feed against the Yahoo
// Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Browser-looking User-Agent; the chart API rejects default Go clients.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Client fetches quotes and history from the Yahoo chart API.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new Yahoo Finance client.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("client", "yahoo").Logger(),
	}
}

// chartResponse mirrors the subset of the chart API payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetQuote returns the current market price for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (float64, error) {
	resp, err := c.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return 0, err
	}

	if len(resp.Chart.Result) == 0 {
		return 0, fmt.Errorf("no chart result for %s", symbol)
	}

	price := resp.Chart.Result[0].Meta.RegularMarketPrice
	if price == nil || *price <= 0 {
		return 0, fmt.Errorf("no market price for %s", symbol)
	}

	return *price, nil
}

// GetMonthlyCloses returns up to years*12 monthly closing prices for a
// symbol, oldest first. Gaps in the series are skipped.
func (c *Client) GetMonthlyCloses(ctx context.Context, symbol string, years int) ([]float64, error) {
	resp, err := c.fetchChart(ctx, symbol, fmt.Sprintf("%dy", years), "1mo")
	if err != nil {
		return nil, err
	}

	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no history for %s", symbol)
	}

	raw := resp.Chart.Result[0].Indicators.Quote[0].Close
	closes := make([]float64, 0, len(raw))
	for _, v := range raw {
		if v != nil && *v > 0 {
			closes = append(closes, *v)
		}
	}

	if len(closes) == 0 {
		return nil, fmt.Errorf("empty close series for %s", symbol)
	}

	return closes, nil
}

// fetchChart calls the chart endpoint and decodes the response.
func (c *Client) fetchChart(ctx context.Context, symbol, rng, interval string) (*chartResponse, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		c.baseURL, url.PathEscape(symbol), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chart request failed for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart request for %s returned status %d", symbol, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart response: %w", err)
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("failed to parse chart response for %s: %w", symbol, err)
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s", symbol, chart.Chart.Error.Description)
	}

	return &chart, nil
}
