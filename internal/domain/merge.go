package domain

import (
	"fmt"
	"log/slog"
	"time"
)

// Inputs are the already-fetched upstream documents for one request. Any of
// them may be nil or partially populated; the merger degrades the matching
// sections instead of failing.
type Inputs struct {
	Point     Point
	Model     *GlobalModelDocument
	National  *NationalDocument
	Alerts    *AlertFeed
	Outlooks  []*OutlookDocument
	Mesoscale *MesoscaleFeed
}

// NormalizedForecast is the merged, unit-normalized response for one point.
// It is owned by the request that produced it.
type NormalizedForecast struct {
	Location             Location              `json:"location"`
	Updated              time.Time             `json:"updated"`
	Current              Current               `json:"current"`
	Alerts               []Alert               `json:"alerts"`
	MesoscaleDiscussions []MesoscaleDiscussion `json:"mesoscale_discussions"`
	Forecasts            Forecasts             `json:"forecasts"`
}

type Location struct {
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
	City *string `json:"city,omitempty"`
	Zone *string `json:"zone,omitempty"`
}

type Forecasts struct {
	SPC      []RiskRecord     `json:"spc"`
	Minutely []MinuteForecast `json:"minutely"`
	Hourly   []HourForecast   `json:"hourly"`
	Daily    []DayForecast    `json:"daily"`
}

// Current holds normalized current conditions: Kelvin temperatures, m/s
// speeds, hPa pressure, km visibility.
type Current struct {
	Condition     Condition `json:"condition"`
	Temperature   *float64  `json:"temperature"`
	DewPoint      *float64  `json:"dew_point"`
	WindSpeed     *float64  `json:"wind_speed"`
	WindGust      *float64  `json:"wind_gust"`
	WindDirection *float64  `json:"wind_direction"`
	Visibility    *float64  `json:"visibility"`
	Pressure      *float64  `json:"pressure"`
	Humidity      *float64  `json:"humidity"`
	CloudCover    *float64  `json:"cloud_cover"`
}

type MinuteForecast struct {
	Time          string   `json:"time"`
	Precipitation *float64 `json:"precipitation"`
}

type HourForecast struct {
	Time         string    `json:"time"`
	Condition    Condition `json:"condition"`
	Temperature  *float64  `json:"temperature"`
	PrecipChance *float64  `json:"pop"`
}

type DayForecast struct {
	Date  string     `json:"date"`
	Day   DaySegment `json:"day"`
	Night DaySegment `json:"night"`
}

type DaySegment struct {
	Condition    Condition `json:"condition"`
	Temperature  *float64  `json:"temperature"`
	PrecipChance *int      `json:"pop"`
}

// Merge reconciles the upstream documents into one NormalizedForecast. The
// national service is the primary source for current conditions and day
// segments, the model the fallback spine; risk and mesoscale sections come
// from the auxiliary feeds. Every section is guarded: an internal failure
// empties that section and is logged, and the response is always complete
// and well-shaped.
func Merge(in Inputs, logger *slog.Logger) NormalizedForecast {
	out := NormalizedForecast{
		Location: buildLocation(in),
		Updated:  clock.Now().UTC(),
	}

	guard(logger, "current", func() { out.Current = mergeCurrent(in.National, in.Model) })
	guard(logger, "alerts", func() { out.Alerts = NormalizeAlerts(in.Alerts) })
	guard(logger, "mesoscale", func() { out.MesoscaleDiscussions = FilterMesoscale(in.Point, in.Mesoscale) })
	guard(logger, "spc", func() { out.Forecasts.SPC = ResolveRisks(in.Point, in.Outlooks) })
	guard(logger, "minutely", func() { out.Forecasts.Minutely = mergeMinutely(in.Model) })
	guard(logger, "hourly", func() { out.Forecasts.Hourly = mergeHourly(in.Model) })
	guard(logger, "daily", func() { out.Forecasts.Daily = mergeDaily(in.Model, in.National) })

	if out.Alerts == nil {
		out.Alerts = []Alert{}
	}
	if out.MesoscaleDiscussions == nil {
		out.MesoscaleDiscussions = []MesoscaleDiscussion{}
	}
	out.Forecasts.fillEmpty()
	return out
}

// guard confines a section failure to that section. The sections are pure
// over defensive partial documents, so a panic here means an upstream shape
// we have not seen before; the response still completes.
func guard(logger *slog.Logger, section string, fn func()) {
	defer func() {
		if r := recover(); r != nil && logger != nil {
			logger.Warn("forecast section degraded", "section", section, "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

func (f *Forecasts) fillEmpty() {
	if f.SPC == nil {
		f.SPC = []RiskRecord{}
	}
	if f.Minutely == nil {
		f.Minutely = []MinuteForecast{}
	}
	if f.Hourly == nil {
		f.Hourly = []HourForecast{}
	}
	if f.Daily == nil {
		f.Daily = []DayForecast{}
	}
}

func buildLocation(in Inputs) Location {
	loc := Location{Lon: in.Point.Lon, Lat: in.Point.Lat}
	if in.National != nil && in.National.Location != nil {
		loc.City = in.National.Location.City
		loc.Zone = in.National.Location.Zone
	}
	return loc
}

// mergeCurrent fills current conditions field by field: the national
// observation converted and validated first, the model block when the
// converted value is absent or sentinel. Humidity and cloud cover have only
// the model source.
func mergeCurrent(national *NationalDocument, model *GlobalModelDocument) Current {
	var obs *NationalObservation
	if national != nil {
		obs = national.Observation
	}
	var mc *ModelCurrent
	if model != nil {
		mc = model.Current
	}

	cur := Current{
		Temperature:   pick(KelvinFromFahrenheit(ParseFloat(obsField(obs, func(o *NationalObservation) *string { return o.Temperature }))), ValidKelvin(modelField(mc, func(m *ModelCurrent) *float64 { return m.Temperature }))),
		DewPoint:      pick(KelvinFromFahrenheit(ParseFloat(obsField(obs, func(o *NationalObservation) *string { return o.DewPoint }))), ValidKelvin(modelField(mc, func(m *ModelCurrent) *float64 { return m.DewPoint }))),
		WindSpeed:     pick(MetersPerSecondFromMPH(ParseFloat(obsField(obs, func(o *NationalObservation) *string { return o.WindSpeed }))), ValidMeasure(modelField(mc, func(m *ModelCurrent) *float64 { return m.WindSpeed }))),
		WindGust:      pick(MetersPerSecondFromMPH(ParseFloat(obsField(obs, func(o *NationalObservation) *string { return o.WindGust }))), ValidMeasure(modelField(mc, func(m *ModelCurrent) *float64 { return m.WindGust }))),
		WindDirection: pick(ParseFloat(obsField(obs, func(o *NationalObservation) *string { return o.WindDirection })), modelField(mc, func(m *ModelCurrent) *float64 { return m.WindDirection })),
		Visibility:    pick(KilometersFromMiles(ParseFloat(obsField(obs, func(o *NationalObservation) *string { return o.Visibility }))), ValidMeasure(modelField(mc, func(m *ModelCurrent) *float64 { return m.Visibility }))),
		Pressure:      pick(HectopascalsFromInHg(ParseFloat(obsField(obs, func(o *NationalObservation) *string { return o.Pressure }))), ValidMeasure(modelField(mc, func(m *ModelCurrent) *float64 { return m.Pressure }))),
		Humidity:      modelField(mc, func(m *ModelCurrent) *float64 { return m.Humidity }),
		CloudCover:    modelField(mc, func(m *ModelCurrent) *float64 { return m.CloudCover }),
	}
	cur.Condition = currentCondition(national, mc)
	return cur
}

// currentCondition tries the national observation text, then the model text,
// then the Unknown fallback carrying whichever raw text was available.
func currentCondition(national *NationalDocument, mc *ModelCurrent) Condition {
	obsText := national.ObservationText()
	if obsText != nil {
		if c := Classify(*obsText); c != nil {
			return *c
		}
	}
	var modelText *string
	if mc != nil {
		modelText = weatherText(mc.Weather)
	}
	if modelText != nil {
		if c := Classify(*modelText); c != nil {
			return *c
		}
	}
	if obsText != nil && *obsText != "" {
		return UnknownCondition(obsText)
	}
	return UnknownCondition(modelText)
}

func pick(primary, fallback *float64) *float64 {
	if primary != nil {
		return primary
	}
	return fallback
}

func obsField(obs *NationalObservation, get func(*NationalObservation) *string) *string {
	if obs == nil {
		return nil
	}
	return get(obs)
}

func modelField(mc *ModelCurrent, get func(*ModelCurrent) *float64) *float64 {
	if mc == nil {
		return nil
	}
	return get(mc)
}

func mergeMinutely(model *GlobalModelDocument) []MinuteForecast {
	if model == nil {
		return nil
	}
	out := make([]MinuteForecast, 0, len(model.Minutely))
	for _, m := range model.Minutely {
		if m.Time == nil {
			continue
		}
		out = append(out, MinuteForecast{
			Time:          isoInstant(*m.Time),
			Precipitation: m.Precipitation,
		})
	}
	return out
}

func mergeHourly(model *GlobalModelDocument) []HourForecast {
	if model == nil {
		return nil
	}
	out := make([]HourForecast, 0, len(model.Hourly))
	for _, h := range model.Hourly {
		if h.Time == nil {
			continue
		}
		out = append(out, HourForecast{
			Time:         isoInstant(*h.Time),
			Condition:    ClassifyOrUnknown(weatherText(h.Weather)),
			Temperature:  ValidKelvin(h.Temperature),
			PrecipChance: h.PrecipChance,
		})
	}
	return out
}

func isoInstant(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format(time.RFC3339)
}

// Cursor states for the national flat series. The series is time-ordered
// day/night segments, not calendar days, so the cursor advances by two for a
// High/Low pair and by one for a lone Low; it does not track the model's
// day index.
type cursorState int

const (
	awaitingDay cursorState = iota
	awaitingNight
	exhausted
)

// flatCursor walks the national service's parallel flat arrays.
type flatCursor struct {
	doc *NationalDocument
	idx int
}

// state classifies the current slot. Unrecognized labels behave like an
// exhausted series: the day falls back entirely to the model.
func (c *flatCursor) state() cursorState {
	if c.doc == nil || c.idx >= c.doc.FlatLen() {
		return exhausted
	}
	label := c.doc.LabelAt(c.idx)
	if label == nil {
		return exhausted
	}
	switch *label {
	case "High":
		return awaitingDay
	case "Low":
		return awaitingNight
	default:
		return exhausted
	}
}

// segmentAt reads one flat-array slot as a forecast segment.
func (c *flatCursor) segmentAt(i int) (condition *Condition, tempK *float64, pop *int) {
	w := c.doc.WeatherAt(i)
	if w != nil {
		condition = Classify(*w)
	}
	tempK = KelvinFromFahrenheit(ParseFloat(c.doc.TemperatureAt(i)))
	pop = ParseInt(c.doc.PrecipProbAt(i))
	return condition, tempK, pop
}

// mergeDaily iterates the model's daily array as the spine, consuming the
// national flat series through the cursor. Each model day yields exactly one
// record with day and night segments.
func mergeDaily(model *GlobalModelDocument, national *NationalDocument) []DayForecast {
	if model == nil {
		return nil
	}
	cursor := &flatCursor{doc: national}
	out := make([]DayForecast, 0, len(model.Daily))
	for i := range model.Daily {
		day := &model.Daily[i]
		record := DayForecast{}
		if day.Time != nil {
			record.Date = time.Unix(*day.Time, 0).UTC().Format("2006-01-02")
		}

		switch cursor.state() {
		case awaitingDay:
			// This slot and the next are a day/night pair.
			cond, temp, pop := cursor.segmentAt(cursor.idx)
			record.Day = buildSegment(cond, temp, pop, modelDaySegment(day))
			cond, temp, pop = cursor.segmentAt(cursor.idx + 1)
			record.Night = buildSegment(cond, temp, pop, modelNightSegment(day))
			cursor.idx += 2
		case awaitingNight:
			// Only night data is present at this slot.
			record.Day = modelDaySegment(day)
			cond, temp, pop := cursor.segmentAt(cursor.idx)
			record.Night = buildSegment(cond, temp, pop, modelNightSegment(day))
			cursor.idx++
		case exhausted:
			record.Day = modelDaySegment(day)
			night := modelNightSegment(day)
			night.Condition = UnknownCondition(nil)
			record.Night = night
		}
		out = append(out, record)
	}
	return out
}

// buildSegment takes each national field when present, falling back to the
// model segment per field.
func buildSegment(cond *Condition, tempK *float64, pop *int, fallback DaySegment) DaySegment {
	seg := fallback
	if cond != nil {
		seg.Condition = *cond
	}
	if tempK != nil {
		seg.Temperature = tempK
	}
	if pop != nil {
		seg.PrecipChance = pop
	}
	return seg
}

func modelDaySegment(day *ModelDay) DaySegment {
	seg := DaySegment{
		Condition:    ClassifyOrUnknown(weatherText(day.Weather)),
		PrecipChance: popPercent(day.PrecipChance),
	}
	if day.Temperature != nil {
		seg.Temperature = ValidKelvin(day.Temperature.Max)
	}
	return seg
}

func modelNightSegment(day *ModelDay) DaySegment {
	seg := DaySegment{
		Condition:    ClassifyOrUnknown(weatherText(day.Weather)),
		PrecipChance: popPercent(day.PrecipChance),
	}
	if day.Temperature != nil {
		seg.Temperature = ValidKelvin(day.Temperature.Min)
	}
	return seg
}

// popPercent converts the model's 0..1 precipitation probability to a whole
// percentage matching the national series.
func popPercent(p *float64) *int {
	if p == nil {
		return nil
	}
	pct := int(*p * 100)
	return &pct
}
