package domain

import "strings"

// Alert is a normalized hazard alert: identity and timing, then display
// content. Multi-paragraph source text is collapsed to single-line display
// text.
type Alert struct {
	ID       *string `json:"id"`
	Issued   *string `json:"issued"`
	Start    *string `json:"start"`
	End      *string `json:"end"`
	Severity *string `json:"severity"`

	Areas        *string `json:"areas"`
	Event        *string `json:"event"`
	Color        string  `json:"color"`
	Headline     *string `json:"headline"`
	Description  *string `json:"description"`
	Instructions *string `json:"instructions"`
}

// alertColors maps hazard categories to display colors, following the
// conventional NWS map palette.
var alertColors = map[string]string{
	"Tornado Warning":             "#FF0000",
	"Tornado Watch":               "#FFFF00",
	"Severe Thunderstorm Warning": "#FFA500",
	"Severe Thunderstorm Watch":   "#DB7093",
	"Flash Flood Warning":         "#8B0000",
	"Flash Flood Watch":           "#2E8B57",
	"Flood Warning":               "#00FF00",
	"Flood Watch":                 "#2E8B57",
	"Flood Advisory":              "#00FF7F",
	"Coastal Flood Warning":       "#228B22",
	"Coastal Flood Watch":         "#66CDAA",
	"Winter Storm Warning":        "#FF69B4",
	"Winter Storm Watch":          "#4682B4",
	"Winter Weather Advisory":     "#7B68EE",
	"Blizzard Warning":            "#FF4500",
	"Ice Storm Warning":           "#8B008B",
	"Freeze Warning":              "#483D8B",
	"Freeze Watch":                "#00FFFF",
	"Frost Advisory":              "#6495ED",
	"High Wind Warning":           "#DAA520",
	"High Wind Watch":             "#B8860B",
	"Wind Advisory":               "#D2B48C",
	"Dense Fog Advisory":          "#708090",
	"Heat Advisory":               "#FF7F50",
	"Excessive Heat Warning":      "#C71585",
	"Excessive Heat Watch":        "#800000",
	"Red Flag Warning":            "#FF1493",
	"Special Weather Statement":   "#FFE4B5",
	"Hurricane Warning":           "#DC143C",
	"Hurricane Watch":             "#FF00FF",
	"Tropical Storm Warning":      "#B22222",
	"Tropical Storm Watch":        "#F08080",
	"Air Quality Alert":           "#808080",
	"Severe Weather Statement":    "#00FFFF",
	"Rip Current Statement":       "#40E0D0",
}

// NormalizeAlerts filters and reshapes the raw alert feed. Features whose
// event name mentions "outlook" are dropped: outlooks are reported through
// risk records, and surfacing them twice would double-signal the same
// hazard. Per-feature problems skip that feature only.
func NormalizeAlerts(feed *AlertFeed) []Alert {
	if feed == nil {
		return nil
	}
	alerts := make([]Alert, 0, len(feed.Features))
	for i := range feed.Features {
		props := feed.Features[i].Properties
		if props == nil {
			continue
		}
		if props.Event != nil && strings.Contains(strings.ToLower(*props.Event), "outlook") {
			continue
		}
		alerts = append(alerts, Alert{
			ID:           props.ID,
			Issued:       props.Sent,
			Start:        props.Onset,
			End:          props.Ends,
			Severity:     props.Severity,
			Areas:        props.AreaDesc,
			Event:        props.Event,
			Color:        AlertColor(props.Event),
			Headline:     props.Headline,
			Description:  collapseText(props.Description),
			Instructions: collapseText(props.Instruction),
		})
	}
	return alerts
}

// AlertColor resolves the display color for an event name: exact table
// match first, then a three-tier default keyed on Warning/Watch wording.
func AlertColor(event *string) string {
	if event == nil {
		return "#FFFF00"
	}
	if color, ok := alertColors[*event]; ok {
		return color
	}
	lower := strings.ToLower(*event)
	switch {
	case strings.Contains(lower, "warning"):
		return "#FF0000"
	case strings.Contains(lower, "watch"):
		return "#FFA500"
	default:
		return "#FFFF00"
	}
}

// collapseText flattens paragraph structure: double newlines become single
// newlines, then remaining newlines become spaces.
func collapseText(s *string) *string {
	if s == nil {
		return nil
	}
	flat := strings.ReplaceAll(*s, "\n\n", "\n")
	flat = strings.ReplaceAll(flat, "\n", " ")
	return &flat
}
