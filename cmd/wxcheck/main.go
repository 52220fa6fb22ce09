// Command wxcheck performs integrity checks over the genmock fixtures: it
// re-runs the merge on the stored upstream documents and verifies unit
// normalization, section shape, risk resolution, and that the stored merged
// output is reproduced exactly.
//
// Usage:
//
//	go run ./cmd/wxcheck -dir data/mock
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/cirruswx/pointcast/internal/domain"
)

// baseDate must match genmock so date-dependent sections reproduce.
var baseDate = time.Date(2026, time.April, 26, 18, 0, 0, 0, time.UTC)

var mockPoint = domain.Point{Lon: -97.44, Lat: 35.22}

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dir := flag.String("dir", "", "directory containing genmock fixtures")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dir); code != 0 {
		os.Exit(code)
	}
}

func run(dir string) int {
	domain.SetClock(clockwork.NewFakeClockAt(baseDate))
	defer domain.SetClock(nil)

	in, stored, err := loadFixtures(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixtures: %v\n", err)
		return 1
	}

	merged := domain.Merge(in, slog.New(slog.DiscardHandler))

	phases := []*phase{
		checkUnits(&merged),
		checkSections(&merged),
		checkRisks(&merged),
		checkReproduction(&merged, stored),
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("  - %s\n", e)
		}
	}
	if failed > 0 {
		fmt.Printf("%d of %d phases failed\n", failed, len(phases))
		return 1
	}
	fmt.Printf("all %d phases passed\n", len(phases))
	return 0
}

func loadFixtures(dir string) (domain.Inputs, []byte, error) {
	in := domain.Inputs{Point: mockPoint}

	var model domain.GlobalModelDocument
	if err := readJSON(filepath.Join(dir, "model.json"), &model); err != nil {
		return in, nil, err
	}
	in.Model = &model

	var national domain.NationalDocument
	if err := readJSON(filepath.Join(dir, "national.json"), &national); err != nil {
		return in, nil, err
	}
	in.National = &national

	var alerts domain.AlertFeed
	if err := readJSON(filepath.Join(dir, "alerts.json"), &alerts); err != nil {
		return in, nil, err
	}
	in.Alerts = &alerts

	for day := 1; day <= 3; day++ {
		var doc domain.OutlookDocument
		if err := readJSON(filepath.Join(dir, fmt.Sprintf("outlook_day%d.json", day)), &doc); err != nil {
			return in, nil, err
		}
		in.Outlooks = append(in.Outlooks, &doc)
	}

	var mesoscale domain.MesoscaleFeed
	if err := readJSON(filepath.Join(dir, "mesoscale.json"), &mesoscale); err != nil {
		return in, nil, err
	}
	in.Mesoscale = &mesoscale

	stored, err := os.ReadFile(filepath.Join(dir, "merged.json"))
	if err != nil {
		return in, nil, err
	}
	return in, stored, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// checkUnits verifies every temperature is plausible Kelvin and no sentinel
// or zero-valued measures leaked through.
func checkUnits(fc *domain.NormalizedForecast) *phase {
	p := &phase{name: "unit normalization"}

	checkTemp := func(label string, v *float64) {
		if v == nil {
			return
		}
		if *v == domain.KelvinZeroFahrenheit {
			p.errorf("%s carries the zero-Fahrenheit sentinel", label)
		}
		if *v < 180 || *v > 340 {
			p.errorf("%s out of plausible Kelvin range: %v", label, *v)
		}
	}

	checkTemp("current.temperature", fc.Current.Temperature)
	checkTemp("current.dew_point", fc.Current.DewPoint)
	for i, d := range fc.Forecasts.Daily {
		checkTemp(fmt.Sprintf("daily[%d].day.temperature", i), d.Day.Temperature)
		checkTemp(fmt.Sprintf("daily[%d].night.temperature", i), d.Night.Temperature)
	}

	if v := fc.Current.Pressure; v != nil && (*v < 800 || *v > 1100) {
		p.errorf("current.pressure out of hPa range: %v", *v)
	}
	if v := fc.Current.WindSpeed; v != nil && *v == 0 {
		p.errorf("current.wind_speed kept a zero measure")
	}
	return p
}

// checkSections verifies the merged document is complete and well shaped.
func checkSections(fc *domain.NormalizedForecast) *phase {
	p := &phase{name: "section shape"}

	if fc.Alerts == nil {
		p.errorf("alerts section is nil")
	}
	if fc.Forecasts.Minutely == nil || fc.Forecasts.Hourly == nil || fc.Forecasts.Daily == nil {
		p.errorf("a forecast section is nil")
	}
	if fc.Updated.IsZero() {
		p.errorf("updated timestamp is zero")
	}
	for i, a := range fc.Alerts {
		if a.Event == nil || *a.Event == "" {
			p.errorf("alerts[%d] has no event name", i)
			continue
		}
		if a.Color == "" {
			p.errorf("alert %q has no color", *a.Event)
		}
	}
	for i, d := range fc.Forecasts.Daily {
		if d.Day.Condition.Name == "" {
			p.errorf("daily[%d] day condition has no name", i)
		}
	}
	return p
}

// checkRisks verifies risk records carry known levels and consecutive dates.
func checkRisks(fc *domain.NormalizedForecast) *phase {
	p := &phase{name: "risk resolution"}

	for i, r := range fc.Forecasts.SPC {
		wantDate := baseDate.AddDate(0, 0, i).Format("2006-01-02")
		if r.Date != wantDate {
			p.errorf("spc[%d] date %s, want %s", i, r.Date, wantDate)
		}
		if r.Level != "NONE" && domain.SeverityRank(r.Level) == 0 {
			p.errorf("spc[%d] has unknown level %q", i, r.Level)
		}
	}
	return p
}

// checkReproduction re-serializes the merge result and compares it with the
// stored fixture byte for byte.
func checkReproduction(fc *domain.NormalizedForecast, stored []byte) *phase {
	p := &phase{name: "merge reproduction"}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		p.errorf("encode merged forecast: %v", err)
		return p
	}
	data = append(data, '\n')
	if string(data) != string(stored) {
		p.errorf("merged output differs from stored fixture (%d vs %d bytes)", len(data), len(stored))
	}
	return p
}
