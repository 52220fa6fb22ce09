package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cirruswx/pointcast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubForecaster struct {
	forecast domain.NormalizedForecast
	err      error
	lastP    domain.Point
}

func (s *stubForecaster) Forecast(_ context.Context, p domain.Point) (domain.NormalizedForecast, error) {
	s.lastP = p
	return s.forecast, s.err
}

type stubReadiness struct{ err error }

func (s *stubReadiness) CheckReadiness(context.Context) error { return s.err }

func newTestServer(f Forecaster, ready ReadinessChecker) *Server {
	return NewServer(":0", f, ready, slog.New(slog.DiscardHandler))
}

func TestHandleForecast_Success(t *testing.T) {
	fc := domain.NormalizedForecast{
		Location: domain.Location{Lon: -97.5, Lat: 35.5},
	}
	stub := &stubForecaster{forecast: fc}
	srv := newTestServer(stub, &stubReadiness{})

	req := httptest.NewRequest(http.MethodGet, "/v1/forecast?lat=35.5&lon=-97.5", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, domain.Point{Lon: -97.5, Lat: 35.5}, stub.lastP)

	var got domain.NormalizedForecast
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, -97.5, got.Location.Lon)
}

func TestHandleForecast_BadCoordinates(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "missing lat", query: "lon=-97.5"},
		{name: "missing lon", query: "lat=35.5"},
		{name: "non-numeric lat", query: "lat=abc&lon=-97.5"},
		{name: "lat out of range", query: "lat=91&lon=-97.5"},
		{name: "lon out of range", query: "lat=35.5&lon=-181"},
	}

	srv := newTestServer(&stubForecaster{}, &stubReadiness{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/forecast?"+tt.query, nil)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleForecast_UpstreamFailure(t *testing.T) {
	stub := &stubForecaster{err: errors.New("all weather sources unavailable")}
	srv := newTestServer(stub, &stubReadiness{})

	req := httptest.NewRequest(http.MethodGet, "/v1/forecast?lat=35.5&lon=-97.5", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "forecast unavailable", body["error"])
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&stubForecaster{}, &stubReadiness{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestHandleReady(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		srv := newTestServer(&stubForecaster{}, &stubReadiness{})
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		srv := newTestServer(&stubForecaster{}, &stubReadiness{err: errors.New("no forecast assembled yet")})
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&stubForecaster{}, &stubReadiness{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
