package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mesoFeature(geom *Geometry, name, folderPath string, fileDate time.Time, url string) MesoscaleFeature {
	ms := fileDate.UnixMilli()
	return MesoscaleFeature{
		Geometry: geom,
		Properties: &MesoscaleProperties{
			Name:       &name,
			FolderPath: &folderPath,
			FileDate:   &ms,
			PopupURL:   &url,
		},
	}
}

func TestFilterMesoscale(t *testing.T) {
	issued := time.Date(2026, 4, 26, 18, 5, 0, 0, time.UTC)
	fake := clockwork.NewFakeClockAt(time.Date(2026, 4, 26, 19, 0, 0, 0, time.UTC))
	SetClock(fake)
	t.Cleanup(func() { SetClock(nil) })

	inside := Point{Lon: -97.5, Lat: 35.4}
	area := squareGeometry(-100, 30, -90, 40)

	t.Run("active containing discussion retained", func(t *testing.T) {
		feed := &MesoscaleFeed{Features: []MesoscaleFeature{
			mesoFeature(area, "Mesoscale Discussion 1680", "Mesoscale Discussion Till 2030 UTC", issued, "https://example.test/md1680"),
		}}

		kept := FilterMesoscale(inside, feed)
		require.Len(t, kept, 1)
		md := kept[0]
		require.NotNil(t, md.Number)
		assert.Equal(t, 1680, *md.Number)
		require.NotNil(t, md.Issued)
		assert.Equal(t, issued, *md.Issued)
		require.NotNil(t, md.Expires)
		assert.Equal(t, time.Date(2026, 4, 26, 20, 30, 0, 0, time.UTC), *md.Expires)
		require.NotNil(t, md.Title)
		assert.Equal(t, "Mesoscale Discussion 1680", *md.Title)
		require.NotNil(t, md.URL)
	})

	t.Run("expired discussion dropped", func(t *testing.T) {
		feed := &MesoscaleFeed{Features: []MesoscaleFeature{
			mesoFeature(area, "Mesoscale Discussion 1679", "Mesoscale Discussion Till 1830 UTC", issued, ""),
		}}
		assert.Empty(t, FilterMesoscale(inside, feed))
	})

	t.Run("expiry at now retained", func(t *testing.T) {
		feed := &MesoscaleFeed{Features: []MesoscaleFeature{
			mesoFeature(area, "Mesoscale Discussion 1681", "Mesoscale Discussion Till 1900 UTC", issued, ""),
		}}
		assert.Len(t, FilterMesoscale(inside, feed), 1)
	})

	t.Run("point outside polygon dropped", func(t *testing.T) {
		feed := &MesoscaleFeed{Features: []MesoscaleFeature{
			mesoFeature(area, "Mesoscale Discussion 1680", "Mesoscale Discussion Till 2030 UTC", issued, ""),
		}}
		assert.Empty(t, FilterMesoscale(Point{Lon: 0, Lat: 0}, feed))
	})

	t.Run("malformed expiry fails open", func(t *testing.T) {
		feed := &MesoscaleFeed{Features: []MesoscaleFeature{
			mesoFeature(area, "Mesoscale Discussion 1682", "Mesoscale Discussion Till soon", issued, ""),
			mesoFeature(area, "Mesoscale Discussion 1683", "Mesoscale Discussion Till 930 UTC", issued, ""),
			mesoFeature(area, "Mesoscale Discussion 1684", "no marker here", issued, ""),
		}}

		kept := FilterMesoscale(inside, feed)
		require.Len(t, kept, 3, "unknown expiry keeps the discussion")
		for _, md := range kept {
			assert.Nil(t, md.Expires)
		}
	})

	t.Run("feature without geometry skipped", func(t *testing.T) {
		f := mesoFeature(area, "Mesoscale Discussion 1685", "Mesoscale Discussion Till 2030 UTC", issued, "")
		f.Geometry = nil
		feed := &MesoscaleFeed{Features: []MesoscaleFeature{f}}
		assert.Empty(t, FilterMesoscale(inside, feed))
	})

	t.Run("nil feed", func(t *testing.T) {
		assert.Nil(t, FilterMesoscale(inside, nil))
	})

	t.Run("missing properties still spatially filtered", func(t *testing.T) {
		feed := &MesoscaleFeed{Features: []MesoscaleFeature{{Geometry: area}}}
		kept := FilterMesoscale(inside, feed)
		require.Len(t, kept, 1)
		assert.Nil(t, kept[0].Number)
		assert.Nil(t, kept[0].Expires)
	})
}

func TestDiscussionExpiry_InvalidClockValues(t *testing.T) {
	issued := time.Date(2026, 4, 26, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		path string
	}{
		{"hour out of range", "Till 2530 UTC"},
		{"minute out of range", "Till 2099 UTC"},
		{"negative", "Till -130 UTC"},
		{"letters", "Till 20a0 UTC"},
		{"five digits", "Till 20300 UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, discussionExpiry(&tt.path, &issued))
		})
	}
}
