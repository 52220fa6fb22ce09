// Package gm fetches global model forecasts from an OpenWeatherMap-style
// One Call endpoint.
package gm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cirruswx/pointcast/internal/domain"
)

// Client fetches GlobalModelDocuments for a point.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a global model client.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch retrieves the model forecast for a point. Temperatures come back in
// Kelvin, speeds in m/s, pressure in hPa, so no unit conversion is needed.
func (c *Client) Fetch(ctx context.Context, p domain.Point) (*domain.GlobalModelDocument, error) {
	params := url.Values{
		"lat":   {fmt.Sprintf("%.4f", p.Lat)},
		"lon":   {fmt.Sprintf("%.4f", p.Lon)},
		"appid": {c.apiKey},
	}
	fullURL := c.baseURL + "/onecall?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("model API error: status %d: %s", resp.StatusCode, body)
	}

	var doc domain.GlobalModelDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	return &doc, nil
}
