// Command genmock generates a fixed set of mock upstream documents plus the
// merged forecast they produce. The fixtures feed local development and the
// wxcheck integrity tool, and use the actual domain package so the merged
// output matches real service behavior.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/cirruswx/pointcast/internal/domain"
)

// baseDate anchors every fixture so regeneration is reproducible.
var baseDate = time.Date(2026, time.April, 26, 18, 0, 0, 0, time.UTC)

var mockPoint = domain.Point{Lon: -97.44, Lat: 35.22}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "", "output directory for mock fixtures")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	// Fix the clock so risk dates and expiry checks are reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(baseDate))
	defer domain.SetClock(nil)

	model := mockModel()
	national := mockNational()
	alerts := mockAlerts()
	outlooks := mockOutlooks()
	mesoscale := mockMesoscale()

	files := map[string]any{
		"model.json":     model,
		"national.json":  national,
		"alerts.json":    alerts,
		"mesoscale.json": mesoscale,
	}
	for i, doc := range outlooks {
		files[fmt.Sprintf("outlook_day%d.json", i+1)] = doc
	}

	merged := domain.Merge(domain.Inputs{
		Point:     mockPoint,
		Model:     model,
		National:  national,
		Alerts:    alerts,
		Outlooks:  outlooks,
		Mesoscale: mesoscale,
	}, slog.New(slog.DiscardHandler))
	files["merged.json"] = merged

	for name, v := range files {
		if err := writeJSON(filepath.Join(*outDir, name), v); err != nil {
			return err
		}
	}

	fmt.Printf("wrote %d fixtures to %s\n", len(files), *outDir)
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func mockModel() *domain.GlobalModelDocument {
	doc := &domain.GlobalModelDocument{
		Current: &domain.ModelCurrent{
			Temperature: fptr(296.15),
			DewPoint:    fptr(290.35),
			WindSpeed:   fptr(9.3),
			WindGust:    fptr(14.7),
			Pressure:    fptr(1002),
			Humidity:    fptr(71),
			CloudCover:  fptr(80),
			Weather:     []domain.ModelWeather{{Description: sptr("heavy thunderstorm")}},
		},
	}
	for i := 0; i < 60; i++ {
		dt := baseDate.Add(time.Duration(i) * time.Minute).Unix()
		doc.Minutely = append(doc.Minutely, domain.ModelMinute{
			Time:          &dt,
			Precipitation: fptr(float64(i%10) * 0.3),
		})
	}
	for i := 0; i < 48; i++ {
		dt := baseDate.Add(time.Duration(i) * time.Hour).Unix()
		doc.Hourly = append(doc.Hourly, domain.ModelHour{
			Time:         &dt,
			Temperature:  fptr(294 + float64(i%8)),
			PrecipChance: fptr(0.55),
			Weather:      []domain.ModelWeather{{Description: sptr("rain showers")}},
		})
	}
	for i := 0; i < 7; i++ {
		dt := baseDate.AddDate(0, 0, i).Unix()
		doc.Daily = append(doc.Daily, domain.ModelDay{
			Time:         &dt,
			Temperature:  &domain.ModelDayTemp{Max: fptr(299.8), Min: fptr(289.3)},
			PrecipChance: fptr(0.4),
			Weather:      []domain.ModelWeather{{Description: sptr("thunderstorm")}},
		})
	}
	return doc
}

func mockNational() *domain.NationalDocument {
	return &domain.NationalDocument{
		Location: &domain.NationalLocation{
			City: sptr("Norman, OK"),
			Zone: sptr("OKZ025"),
		},
		Time: &domain.NationalTimeSeries{
			TempLabels: sptrs("High", "Low", "High", "Low"),
		},
		Data: &domain.NationalDataSeries{
			Temperature: sptrs("79", "58", "74", "54"),
			PrecipProb:  sptrs("70", "40", "20", ""),
			Weather:     sptrs("Heavy Thunderstorms", "Rain Showers", "Partly Cloudy", "Clear"),
			Text: sptrs(
				"Severe thunderstorms likely. High near 79.",
				"Showers ending overnight. Low around 58.",
				"Gradual clearing. High near 74.",
				"Mostly clear. Low around 54.",
			),
		},
		Observation: &domain.NationalObservation{
			Description:   sptr("Thunderstorm"),
			Temperature:   sptr("74"),
			DewPoint:      sptr("66"),
			Humidity:      sptr("76"),
			WindSpeed:     sptr("18"),
			WindGust:      sptr("29"),
			WindDirection: sptr("175"),
			Pressure:      sptr("29.68"),
			Visibility:    sptr("6.00"),
		},
	}
}

func mockAlerts() *domain.AlertFeed {
	return &domain.AlertFeed{
		Features: []domain.AlertFeature{
			{Properties: &domain.AlertProperties{
				ID:          sptr("urn:oid:2.49.0.1.840.0.mock-tor-watch"),
				Event:       sptr("Tornado Watch"),
				Sent:        sptr(baseDate.Add(-2 * time.Hour).Format(time.RFC3339)),
				Ends:        sptr(baseDate.Add(4 * time.Hour).Format(time.RFC3339)),
				Severity:    sptr("Severe"),
				AreaDesc:    sptr("Cleveland, OK; McClain, OK"),
				Headline:    sptr("Tornado Watch in effect until 10 PM CDT"),
				Description: sptr("Conditions are favorable for tornadoes.\n\nStay weather aware."),
				Instruction: sptr("Review your tornado safety plan."),
			}},
			{Properties: &domain.AlertProperties{
				ID:    sptr("urn:oid:2.49.0.1.840.0.mock-outlook"),
				Event: sptr("Severe Weather Outlook"),
			}},
		},
	}
}

func mockOutlooks() []*domain.OutlookDocument {
	// One polygon per day covering the mock point, descending risk.
	labels := []struct {
		dn    int
		label string
		desc  string
		fill  string
	}{
		{4, "ENH", "Enhanced Risk", "#E06666"},
		{2, "SLGT", "Slight Risk", "#F6B26B"},
		{1, "MRGL", "Marginal Risk", "#66A61E"},
	}
	docs := make([]*domain.OutlookDocument, len(labels))
	for i, l := range labels {
		docs[i] = &domain.OutlookDocument{
			Features: []domain.OutlookFeature{{
				Geometry: polygonAround(mockPoint),
				Properties: &domain.OutlookProperties{
					Priority:    iptr(l.dn),
					Label:       sptr(l.label),
					Description: sptr(l.desc),
					Fill:        sptr(l.fill),
					Stroke:      sptr("#000000"),
				},
			}},
		}
	}
	return docs
}

func mockMesoscale() *domain.MesoscaleFeed {
	fileDate := baseDate.Add(-45 * time.Minute).UnixMilli()
	return &domain.MesoscaleFeed{
		Features: []domain.MesoscaleFeature{{
			Geometry: polygonAround(mockPoint),
			Properties: &domain.MesoscaleProperties{
				Name:       sptr("MD 1551"),
				FolderPath: sptr("Mesoscale Discussions Till 2330"),
				FileDate:   &fileDate,
				PopupURL:   sptr("https://www.spc.noaa.gov/products/md/md1551.html"),
			},
		}},
	}
}

func polygonAround(p domain.Point) *domain.Geometry {
	coords := [][][]float64{{
		{p.Lon - 2, p.Lat - 2},
		{p.Lon + 2, p.Lat - 2},
		{p.Lon + 2, p.Lat + 2},
		{p.Lon - 2, p.Lat + 2},
		{p.Lon - 2, p.Lat - 2},
	}}
	raw, err := json.Marshal(coords)
	if err != nil {
		panic(err)
	}
	return &domain.Geometry{Type: "Polygon", Coordinates: raw}
}

func sptr(s string) *string   { return &s }
func fptr(f float64) *float64 { return &f }
func iptr(i int) *int         { return &i }

func sptrs(values ...string) []*string {
	out := make([]*string, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}
