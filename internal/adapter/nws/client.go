// Package nws fetches point forecasts and active alerts from the National
// Weather Service.
package nws

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

// Client fetches NationalDocuments and AlertFeeds for a point.
type Client struct {
	forecastBaseURL string
	alertsBaseURL   string
	httpClient      *http.Client
	logger          *slog.Logger
}

// NewClient creates an NWS client. Forecasts and alerts live on different
// hosts, hence the two base URLs.
func NewClient(forecastBaseURL, alertsBaseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		forecastBaseURL: forecastBaseURL,
		alertsBaseURL:   alertsBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Forecast retrieves the MapClick point forecast. Values come back as
// imperial-unit strings; the merger converts them.
func (c *Client) Forecast(ctx context.Context, p domain.Point) (*domain.NationalDocument, error) {
	params := url.Values{
		"lat":      {fmt.Sprintf("%.4f", p.Lat)},
		"lon":      {fmt.Sprintf("%.4f", p.Lon)},
		"unit":     {"0"},
		"lg":       {"english"},
		"FcstType": {"json"},
	}
	fullURL := c.forecastBaseURL + "/MapClick.php?" + params.Encode()

	var doc domain.NationalDocument
	if err := c.getJSON(ctx, fullURL, "forecast", &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Alerts retrieves active alerts whose zone contains the point.
func (c *Client) Alerts(ctx context.Context, p domain.Point) (*domain.AlertFeed, error) {
	params := url.Values{
		"point": {fmt.Sprintf("%.4f,%.4f", p.Lat, p.Lon)},
	}
	fullURL := c.alertsBaseURL + "/alerts/active?" + params.Encode()

	var feed domain.AlertFeed
	if err := c.getJSON(ctx, fullURL, "alerts", &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

func (c *Client) getJSON(ctx context.Context, fullURL, source string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("nws %s error: status %d: %s", source, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", source, err)
	}
	return nil
}
