package domain

// Partial-document models for the upstream feeds. Every field is optional:
// a missing or malformed value decodes to nil and degrades downstream rather
// than failing the request. Accessors below are the single place that deals
// with absent containers and out-of-range indexes.

// GlobalModelDocument is the model provider's "one call" response. Times are
// epoch seconds; temperatures are already Kelvin, speeds m/s, pressure hPa.
type GlobalModelDocument struct {
	Current  *ModelCurrent `json:"current,omitempty"`
	Minutely []ModelMinute `json:"minutely,omitempty"`
	Hourly   []ModelHour   `json:"hourly,omitempty"`
	Daily    []ModelDay    `json:"daily,omitempty"`
}

type ModelCurrent struct {
	Temperature   *float64       `json:"temp,omitempty"`
	DewPoint      *float64       `json:"dew_point,omitempty"`
	WindSpeed     *float64       `json:"wind_speed,omitempty"`
	WindGust      *float64       `json:"wind_gust,omitempty"`
	WindDirection *float64       `json:"wind_deg,omitempty"`
	Visibility    *float64       `json:"visibility,omitempty"`
	Pressure      *float64       `json:"pressure,omitempty"`
	Humidity      *float64       `json:"humidity,omitempty"`
	CloudCover    *float64       `json:"clouds,omitempty"`
	Weather       []ModelWeather `json:"weather,omitempty"`
}

type ModelWeather struct {
	Description *string `json:"description,omitempty"`
}

type ModelMinute struct {
	Time          *int64   `json:"dt,omitempty"`
	Precipitation *float64 `json:"precipitation,omitempty"`
}

type ModelHour struct {
	Time         *int64         `json:"dt,omitempty"`
	Temperature  *float64       `json:"temp,omitempty"`
	PrecipChance *float64       `json:"pop,omitempty"`
	Weather      []ModelWeather `json:"weather,omitempty"`
}

type ModelDay struct {
	Time         *int64         `json:"dt,omitempty"`
	Temperature  *ModelDayTemp  `json:"temp,omitempty"`
	PrecipChance *float64       `json:"pop,omitempty"`
	Weather      []ModelWeather `json:"weather,omitempty"`
}

type ModelDayTemp struct {
	Max *float64 `json:"max,omitempty"`
	Min *float64 `json:"min,omitempty"`
}

// weatherText returns the first weather description, if any.
func weatherText(ws []ModelWeather) *string {
	if len(ws) == 0 {
		return nil
	}
	return ws[0].Description
}

// NationalDocument is the national service's point forecast document: the
// location block, the latest observation, and four parallel flat time-series
// arrays segmented day/night rather than by calendar day.
type NationalDocument struct {
	Location    *NationalLocation    `json:"location,omitempty"`
	Time        *NationalTimeSeries  `json:"time,omitempty"`
	Data        *NationalDataSeries  `json:"data,omitempty"`
	Observation *NationalObservation `json:"currentobservation,omitempty"`
}

type NationalLocation struct {
	City *string `json:"areaDescription,omitempty"`
	Zone *string `json:"zone,omitempty"`
}

type NationalTimeSeries struct {
	TempLabels []*string `json:"tempLabel,omitempty"`
}

type NationalDataSeries struct {
	Temperature []*string `json:"temperature,omitempty"`
	PrecipProb  []*string `json:"pop,omitempty"`
	Weather     []*string `json:"weather,omitempty"`
	Text        []*string `json:"text,omitempty"`
}

// NationalObservation carries string-encoded observation fields in imperial
// units: °F temperatures, mph winds, inHg pressure, mile visibility.
type NationalObservation struct {
	Description   *string `json:"Weather,omitempty"`
	Temperature   *string `json:"Temp,omitempty"`
	DewPoint      *string `json:"Dewp,omitempty"`
	Humidity      *string `json:"Relh,omitempty"`
	WindSpeed     *string `json:"Winds,omitempty"`
	WindGust      *string `json:"Gust,omitempty"`
	WindDirection *string `json:"Windd,omitempty"`
	Pressure      *string `json:"SLP,omitempty"`
	Visibility    *string `json:"Visibility,omitempty"`
}

// FlatLen reports the length of the flat label series.
func (d *NationalDocument) FlatLen() int {
	if d == nil || d.Time == nil {
		return 0
	}
	return len(d.Time.TempLabels)
}

// LabelAt returns the day/night segment label at i, or nil when absent.
func (d *NationalDocument) LabelAt(i int) *string {
	if d == nil || d.Time == nil {
		return nil
	}
	return at(d.Time.TempLabels, i)
}

// TemperatureAt returns the raw temperature string at i.
func (d *NationalDocument) TemperatureAt(i int) *string {
	if d == nil || d.Data == nil {
		return nil
	}
	return at(d.Data.Temperature, i)
}

// PrecipProbAt returns the raw precipitation-probability string at i.
func (d *NationalDocument) PrecipProbAt(i int) *string {
	if d == nil || d.Data == nil {
		return nil
	}
	return at(d.Data.PrecipProb, i)
}

// WeatherAt returns the short weather description at i.
func (d *NationalDocument) WeatherAt(i int) *string {
	if d == nil || d.Data == nil {
		return nil
	}
	return at(d.Data.Weather, i)
}

// ObservationText returns the current-conditions description, if any.
func (d *NationalDocument) ObservationText() *string {
	if d == nil || d.Observation == nil {
		return nil
	}
	return d.Observation.Description
}

func at(values []*string, i int) *string {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}

// AlertFeed is the hazard-alert feature collection.
type AlertFeed struct {
	Features []AlertFeature `json:"features,omitempty"`
}

type AlertFeature struct {
	Properties *AlertProperties `json:"properties,omitempty"`
}

type AlertProperties struct {
	ID          *string `json:"id,omitempty"`
	Event       *string `json:"event,omitempty"`
	Sent        *string `json:"sent,omitempty"`
	Onset       *string `json:"onset,omitempty"`
	Ends        *string `json:"ends,omitempty"`
	Severity    *string `json:"severity,omitempty"`
	AreaDesc    *string `json:"areaDesc,omitempty"`
	Headline    *string `json:"headline,omitempty"`
	Description *string `json:"description,omitempty"`
	Instruction *string `json:"instruction,omitempty"`
}

// OutlookDocument is one forecast day's categorical severe-weather outlook:
// a feature collection of risk polygons ordered by issuance.
type OutlookDocument struct {
	Features []OutlookFeature `json:"features,omitempty"`
}

type OutlookFeature struct {
	Geometry   *Geometry          `json:"geometry,omitempty"`
	Properties *OutlookProperties `json:"properties,omitempty"`
}

type OutlookProperties struct {
	Priority    *int    `json:"DN,omitempty"`
	Label       *string `json:"LABEL,omitempty"`
	Description *string `json:"LABEL2,omitempty"`
	Fill        *string `json:"fill,omitempty"`
	Stroke      *string `json:"stroke,omitempty"`
}

// MesoscaleFeed is the active mesoscale-discussion feature collection.
type MesoscaleFeed struct {
	Features []MesoscaleFeature `json:"features,omitempty"`
}

type MesoscaleFeature struct {
	Geometry   *Geometry            `json:"geometry,omitempty"`
	Properties *MesoscaleProperties `json:"properties,omitempty"`
}

// MesoscaleProperties carries the feed's display-oriented fields. FolderPath
// embeds the expiry as free text ("... Till 2030 UTC"); FileDate is the
// issuance instant in epoch milliseconds.
type MesoscaleProperties struct {
	Name       *string `json:"NAME,omitempty"`
	FolderPath *string `json:"FOLDERPATH,omitempty"`
	FileDate   *int64  `json:"IDP_FILEDATE,omitempty"`
	PopupURL   *string `json:"POPUP_URL,omitempty"`
}
