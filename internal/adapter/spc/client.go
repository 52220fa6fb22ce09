// Package spc fetches convective outlooks and mesoscale discussions from the
// Storm Prediction Center, and caches them between refresh cycles.
package spc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cirruswx/pointcast/internal/domain"
)

// outlookDays is how many categorical outlook days SPC publishes with full
// risk categories.
const outlookDays = 3

// Client fetches outlook and mesoscale GeoJSON from SPC.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an SPC client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Outlooks retrieves the day 1 through day 3 categorical outlooks. The
// returned slice is indexed by day offset: element 0 is today. A day that
// fails to fetch is returned as nil so later days still resolve.
func (c *Client) Outlooks(ctx context.Context) ([]*domain.OutlookDocument, error) {
	docs := make([]*domain.OutlookDocument, outlookDays)
	var firstErr error
	for day := 1; day <= outlookDays; day++ {
		fullURL := fmt.Sprintf("%s/products/outlook/day%dotlk_cat.nolyr.geojson", c.baseURL, day)

		var doc domain.OutlookDocument
		if err := c.getJSON(ctx, fullURL, &doc); err != nil {
			c.logger.Warn("outlook fetch failed", "day", day, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		docs[day-1] = &doc
	}
	if firstErr != nil && docs[0] == nil && docs[1] == nil && docs[2] == nil {
		return nil, firstErr
	}
	return docs, nil
}

// Mesoscale retrieves the active mesoscale discussion feed.
func (c *Client) Mesoscale(ctx context.Context) (*domain.MesoscaleFeed, error) {
	fullURL := c.baseURL + "/products/md/ActiveMD.geojson"

	var feed domain.MesoscaleFeed
	if err := c.getJSON(ctx, fullURL, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

func (c *Client) getJSON(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("spc request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("spc error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode spc response: %w", err)
	}
	return nil
}
