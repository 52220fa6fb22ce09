package spc

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cirruswx/pointcast/internal/domain"
	"github.com/cirruswx/pointcast/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	outlooks    []*domain.OutlookDocument
	outlooksErr error
	mesoscale   *domain.MesoscaleFeed
	mesoErr     error
}

func (s *stubFetcher) Outlooks(context.Context) ([]*domain.OutlookDocument, error) {
	return s.outlooks, s.outlooksErr
}

func (s *stubFetcher) Mesoscale(context.Context) (*domain.MesoscaleFeed, error) {
	return s.mesoscale, s.mesoErr
}

type recordingPublisher struct {
	summaries []RefreshSummary
	err       error
}

func (p *recordingPublisher) PublishRefresh(_ context.Context, summary RefreshSummary) error {
	p.summaries = append(p.summaries, summary)
	return p.err
}

func newCache(t *testing.T, fetcher Fetcher, publisher Publisher) *Cache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "outlooks.json")
	logger := slog.New(slog.DiscardHandler)
	return NewCache(fetcher, path, time.Minute, logger, observability.NewMetricsForTesting(), publisher)
}

func testOutlooks() []*domain.OutlookDocument {
	priority := 3
	return []*domain.OutlookDocument{
		{Features: []domain.OutlookFeature{{Properties: &domain.OutlookProperties{Priority: &priority}}}},
		nil,
		{},
	}
}

func TestRefresh_SwapsSnapshot(t *testing.T) {
	fetcher := &stubFetcher{
		outlooks:  testOutlooks(),
		mesoscale: &domain.MesoscaleFeed{Features: []domain.MesoscaleFeature{{}, {}}},
	}
	c := newCache(t, fetcher, nil)

	_, ok := c.Snapshot()
	assert.False(t, ok)
	require.Error(t, c.CheckReadiness(context.Background()))

	require.NoError(t, c.Refresh(context.Background()))

	snap, ok := c.Snapshot()
	require.True(t, ok)
	assert.Len(t, snap.Outlooks, 3)
	assert.Len(t, snap.Mesoscale.Features, 2)
	assert.False(t, snap.FetchedAt.IsZero())
	assert.NoError(t, c.CheckReadiness(context.Background()))
}

func TestRefresh_OutlookFailureKeepsPreviousSnapshot(t *testing.T) {
	fetcher := &stubFetcher{outlooks: testOutlooks()}
	c := newCache(t, fetcher, nil)
	require.NoError(t, c.Refresh(context.Background()))
	first, _ := c.Snapshot()

	fetcher.outlooksErr = errors.New("spc down")
	require.Error(t, c.Refresh(context.Background()))

	snap, ok := c.Snapshot()
	require.True(t, ok)
	assert.Equal(t, first.FetchedAt, snap.FetchedAt)
}

func TestRefresh_MesoscaleFailureDegrades(t *testing.T) {
	fetcher := &stubFetcher{
		outlooks: testOutlooks(),
		mesoErr:  errors.New("feed down"),
	}
	c := newCache(t, fetcher, nil)

	require.NoError(t, c.Refresh(context.Background()))

	snap, ok := c.Snapshot()
	require.True(t, ok)
	assert.Nil(t, snap.Mesoscale)
	assert.Len(t, snap.Outlooks, 3)
}

func TestRefresh_NotifiesPublisher(t *testing.T) {
	fetcher := &stubFetcher{
		outlooks:  testOutlooks(),
		mesoscale: &domain.MesoscaleFeed{Features: []domain.MesoscaleFeature{{}}},
	}
	pub := &recordingPublisher{}
	c := newCache(t, fetcher, pub)

	require.NoError(t, c.Refresh(context.Background()))

	require.Len(t, pub.summaries, 1)
	assert.Equal(t, 2, pub.summaries[0].OutlookDays)
	assert.Equal(t, 1, pub.summaries[0].MesoscaleCount)
}

func TestRefresh_PublisherErrorDoesNotFailRefresh(t *testing.T) {
	fetcher := &stubFetcher{outlooks: testOutlooks()}
	pub := &recordingPublisher{err: errors.New("broker down")}
	c := newCache(t, fetcher, pub)

	require.NoError(t, c.Refresh(context.Background()))
	_, ok := c.Snapshot()
	assert.True(t, ok)
}

func TestCache_PersistsAndRestoresSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outlooks.json")
	logger := slog.New(slog.DiscardHandler)
	fetcher := &stubFetcher{outlooks: testOutlooks()}

	c := NewCache(fetcher, path, time.Minute, logger, observability.NewMetricsForTesting(), nil)
	require.NoError(t, c.Refresh(context.Background()))

	// A fresh cache pointed at the same file starts warm.
	restored := NewCache(fetcher, path, time.Minute, logger, observability.NewMetricsForTesting(), nil)
	snap, ok := restored.Snapshot()
	require.True(t, ok)
	assert.Len(t, snap.Outlooks, 3)
	assert.NoError(t, restored.CheckReadiness(context.Background()))
}

func TestNewCache_CorruptFileStartsCold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outlooks.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	c := NewCache(&stubFetcher{}, path, time.Minute, slog.New(slog.DiscardHandler), observability.NewMetricsForTesting(), nil)
	_, ok := c.Snapshot()
	assert.False(t, ok)
}

func TestSaveSnapshot_WritesValidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outlooks.json")
	snap := &Snapshot{Outlooks: testOutlooks(), FetchedAt: time.Now().UTC()}

	require.NoError(t, saveSnapshot(path, snap))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded.Outlooks, 3)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	fetcher := &stubFetcher{outlooks: testOutlooks()}
	c := newCache(t, fetcher, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	// Let the first refresh land, then stop.
	require.Eventually(t, func() bool {
		_, ok := c.Snapshot()
		return ok
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
