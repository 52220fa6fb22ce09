// Package pipeline orchestrates upstream fetches and the merge for one
// forecast request.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cirruswx/pointcast/internal/adapter/spc"
	"github.com/cirruswx/pointcast/internal/domain"
	"github.com/cirruswx/pointcast/internal/observability"
)

// ModelFetcher retrieves the global model forecast for a point.
type ModelFetcher interface {
	Fetch(ctx context.Context, p domain.Point) (*domain.GlobalModelDocument, error)
}

// NationalFetcher retrieves the national point forecast and active alerts.
type NationalFetcher interface {
	Forecast(ctx context.Context, p domain.Point) (*domain.NationalDocument, error)
	Alerts(ctx context.Context, p domain.Point) (*domain.AlertFeed, error)
}

// OutlookProvider supplies the cached SPC snapshot.
type OutlookProvider interface {
	Snapshot() (spc.Snapshot, bool)
	ObserveAge()
}

// Forecaster fans out to the upstream providers, then merges whatever came
// back into one normalized forecast.
type Forecaster struct {
	model    ModelFetcher
	national NationalFetcher
	outlooks OutlookProvider
	logger   *slog.Logger
	metrics  *observability.Metrics
	ready    atomic.Bool
}

// New creates a Forecaster with the given providers and observability.
func New(model ModelFetcher, national NationalFetcher, outlooks OutlookProvider, logger *slog.Logger, metrics *observability.Metrics) *Forecaster {
	return &Forecaster{
		model:    model,
		national: national,
		outlooks: outlooks,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil once an outlook snapshot is loaded and at least
// one forecast has been assembled, or an error describing why the service is
// not yet ready.
func (f *Forecaster) CheckReadiness(_ context.Context) error {
	if _, ok := f.outlooks.Snapshot(); !ok {
		return errors.New("no outlook snapshot loaded yet")
	}
	if !f.ready.Load() {
		return errors.New("no forecast assembled yet")
	}
	return nil
}

// Forecast assembles the normalized forecast for a point. Individual upstream
// failures degrade the matching sections; it errors only when both weather
// sources are unavailable, since the result would carry no forecast at all.
func (f *Forecaster) Forecast(ctx context.Context, p domain.Point) (domain.NormalizedForecast, error) {
	start := time.Now()

	in := domain.Inputs{Point: p}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		in.Model = f.fetchModel(ctx, p)
	}()
	go func() {
		defer wg.Done()
		in.National = f.fetchNational(ctx, p)
	}()
	go func() {
		defer wg.Done()
		in.Alerts = f.fetchAlerts(ctx, p)
	}()

	wg.Wait()

	if err := ctx.Err(); err != nil {
		f.metrics.ForecastErrors.Inc()
		return domain.NormalizedForecast{}, err
	}
	if in.Model == nil && in.National == nil {
		f.metrics.ForecastErrors.Inc()
		return domain.NormalizedForecast{}, errors.New("all weather sources unavailable")
	}

	if snap, ok := f.outlooks.Snapshot(); ok {
		in.Outlooks = snap.Outlooks
		in.Mesoscale = snap.Mesoscale
	}
	f.outlooks.ObserveAge()

	merged := domain.Merge(in, f.logger)

	f.metrics.ForecastsServed.Inc()
	f.metrics.MergeDuration.Observe(time.Since(start).Seconds())
	f.ready.Store(true)
	f.metrics.ServiceReady.Set(1)

	return merged, nil
}

func (f *Forecaster) fetchModel(ctx context.Context, p domain.Point) *domain.GlobalModelDocument {
	start := time.Now()
	doc, err := f.model.Fetch(ctx, p)
	f.observe("gm", start, err)
	if err != nil {
		f.logger.Warn("model fetch failed", "error", err, "lat", p.Lat, "lon", p.Lon)
		return nil
	}
	return doc
}

func (f *Forecaster) fetchNational(ctx context.Context, p domain.Point) *domain.NationalDocument {
	start := time.Now()
	doc, err := f.national.Forecast(ctx, p)
	f.observe("nws", start, err)
	if err != nil {
		f.logger.Warn("national fetch failed", "error", err, "lat", p.Lat, "lon", p.Lon)
		return nil
	}
	return doc
}

func (f *Forecaster) fetchAlerts(ctx context.Context, p domain.Point) *domain.AlertFeed {
	start := time.Now()
	feed, err := f.national.Alerts(ctx, p)
	f.observe("nws", start, err)
	if err != nil {
		f.logger.Warn("alerts fetch failed", "error", err, "lat", p.Lat, "lon", p.Lon)
		return nil
	}
	return feed
}

func (f *Forecaster) observe(source string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	f.metrics.UpstreamRequests.WithLabelValues(source, outcome).Inc()
	f.metrics.UpstreamDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}
