// Package amfi implements the mutual-fund NAV feed against the public
// mfapi.in registry mirror.
package amfi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Client fetches scheme NAVs by AMFI scheme code.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new NAV client.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("client", "amfi").Logger(),
	}
}

// navResponse mirrors the mfapi.in payload: newest NAV first.
type navResponse struct {
	Data []struct {
		Date string `json:"date"`
		NAV  string `json:"nav"`
	} `json:"data"`
}

// GetNAV returns the latest NAV for an AMFI scheme code.
func (c *Client) GetNAV(ctx context.Context, schemeCode string) (float64, error) {
	endpoint := fmt.Sprintf("%s/mf/%s", c.baseURL, schemeCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("NAV request failed for %s: %w", schemeCode, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("NAV request for %s returned status %d", schemeCode, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read NAV response: %w", err)
	}

	var nav navResponse
	if err := json.Unmarshal(body, &nav); err != nil {
		return 0, fmt.Errorf("failed to parse NAV response for %s: %w", schemeCode, err)
	}

	if len(nav.Data) == 0 {
		return 0, fmt.Errorf("no NAV data for scheme %s", schemeCode)
	}

	value, err := strconv.ParseFloat(nav.Data[0].NAV, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed NAV %q for scheme %s: %w", nav.Data[0].NAV, schemeCode, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("non-positive NAV %f for scheme %s", value, schemeCode)
	}

	return value, nil
}
