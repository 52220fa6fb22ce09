package domain

import "strings"

// Condition is a standardized weather state. Code is a three-digit value
// whose digits encode sky state, intensity, and precipitation subtype. Raw
// preserves the source text only when classification failed, so consumers
// can see what was not understood.
type Condition struct {
	Name string  `json:"name"`
	Code int     `json:"code"`
	Raw  *string `json:"raw,omitempty"`
}

// UnknownCondition is the explicit fallback for unclassifiable text.
func UnknownCondition(raw *string) Condition {
	return Condition{Name: "Unknown", Code: 0, Raw: raw}
}

// conditionRule pairs a trigger predicate with a resolver. Rules are
// evaluated in order and the first triggered rule decides the outcome; a
// resolver returning nil means the text stays unclassified even if a later
// rule would have matched.
type conditionRule struct {
	triggers func(string) bool
	resolve  func(string) *Condition
}

// conditionRules is the classification priority order. "shower" outranks
// generic "rain"/"snow", and precipitation outranks sky cover, so mixed
// descriptions resolve to the most specific state.
var conditionRules = []conditionRule{
	{anyOf("shower"), classifyShower},
	{anyOf("rain"), byIntensity("Rain", 611, 613, 612)},
	{anyOf("snow"), byIntensity("Snow", 621, 623, 622)},
	{anyOf("storm", "thunder"), byIntensity("Storm", 631, 633, 632)},
	{anyOf("fog", "mist"), fixed("Fog", 800)},
	{anyOf("haze", "hazy"), fixed("Haze", 700)},
	{anyOf("cloud"), classifyCloud},
	{anyOf("clear", "sun", "fair"), classifyClear},
}

// Classify maps free-form description text to a Condition via ordered
// case-insensitive substring rules. It returns nil for empty or
// unclassifiable text; callers substitute the Unknown fallback.
func Classify(text string) *Condition {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return nil
	}
	for _, rule := range conditionRules {
		if rule.triggers(s) {
			return rule.resolve(s)
		}
	}
	return nil
}

// ClassifyOrUnknown classifies optional text, falling back to the Unknown
// condition carrying the raw text.
func ClassifyOrUnknown(text *string) Condition {
	if text == nil {
		return UnknownCondition(nil)
	}
	if c := Classify(*text); c != nil {
		return *c
	}
	return UnknownCondition(text)
}

func anyOf(keywords ...string) func(string) bool {
	return func(s string) bool {
		for _, kw := range keywords {
			if strings.Contains(s, kw) {
				return true
			}
		}
		return false
	}
}

func fixed(name string, code int) func(string) *Condition {
	return func(string) *Condition {
		return &Condition{Name: name, Code: code}
	}
}

// byIntensity resolves light/heavy/moderate variants of a base state.
func byIntensity(base string, light, heavy, moderate int) func(string) *Condition {
	return func(s string) *Condition {
		switch {
		case strings.Contains(s, "light"):
			return &Condition{Name: "Light " + base, Code: light}
		case strings.Contains(s, "heavy"):
			return &Condition{Name: "Heavy " + base, Code: heavy}
		default:
			return &Condition{Name: base, Code: moderate}
		}
	}
}

// classifyShower crosses intensity with precipitation type. Shower text
// naming neither rain nor snow stays unclassified. The light-snow arm shares
// the light-rain code; upstream consumers depend on that historical quirk.
func classifyShower(s string) *Condition {
	type variant struct {
		rain, snow Condition
	}
	var v variant
	switch {
	case strings.Contains(s, "light"):
		v = variant{
			rain: Condition{Name: "Light Rain Showers", Code: 611},
			snow: Condition{Name: "Light Snow Showers", Code: 611},
		}
	case strings.Contains(s, "heavy"):
		v = variant{
			rain: Condition{Name: "Heavy Rain Showers", Code: 631},
			snow: Condition{Name: "Heavy Snow Showers", Code: 632},
		}
	default:
		v = variant{
			rain: Condition{Name: "Rain Showers", Code: 612},
			snow: Condition{Name: "Snow Showers", Code: 622},
		}
	}
	switch {
	case strings.Contains(s, "rain"):
		return &v.rain
	case strings.Contains(s, "snow"):
		return &v.snow
	default:
		return nil
	}
}

func classifyCloud(s string) *Condition {
	switch {
	case strings.Contains(s, "mostly"):
		return &Condition{Name: "Mostly Cloudy", Code: 540}
	case strings.Contains(s, "partly"), strings.Contains(s, "broken"):
		return &Condition{Name: "Partly Cloudy", Code: 330}
	default:
		return &Condition{Name: "Cloudy", Code: 500}
	}
}

func classifyClear(s string) *Condition {
	switch {
	case strings.Contains(s, "mostly"):
		return &Condition{Name: "Mostly Clear", Code: 240}
	case strings.Contains(s, "partly"):
		return &Condition{Name: "Partly Cloudy", Code: 330}
	default:
		return &Condition{Name: "Clear", Code: 100}
	}
}
