package domain

import (
	"math"
	"strconv"
	"strings"
)

// KelvinZeroFahrenheit is the Kelvin conversion of exactly 0°F
// (255.372222... K). The national service reports some missing observation
// fields as "0", so a converted temperature landing exactly on this value is
// treated as absent. Derived from the conversion itself so the equality test
// in ValidKelvin matches bit for bit. This is a known upstream-compat
// approximation: a genuine 0°F reading collides with the sentinel and is
// discarded.
var KelvinZeroFahrenheit = FahrenheitToKelvin(0)

// FahrenheitToKelvin converts °F to K.
func FahrenheitToKelvin(f float64) float64 {
	return (f-32)*5/9 + 273.15
}

// KelvinToFahrenheit converts K to °F.
func KelvinToFahrenheit(k float64) float64 {
	return (k-273.15)*9/5 + 32
}

// MPHToMetersPerSecond converts miles per hour to m/s.
func MPHToMetersPerSecond(v float64) float64 {
	return v * 0.44704
}

// InHgToHectopascals converts inches of mercury to hPa.
func InHgToHectopascals(v float64) float64 {
	return v * 33.8639
}

// MilesToKilometers converts statute miles to km.
func MilesToKilometers(v float64) float64 {
	return v * 1.60934
}

// ValidKelvin filters a converted temperature: NaN, infinite, or the 0°F
// sentinel all resolve to absent.
func ValidKelvin(v *float64) *float64 {
	if v == nil || !isFinite(*v) || *v == KelvinZeroFahrenheit {
		return nil
	}
	return v
}

// ValidMeasure filters a converted speed, visibility, or pressure value.
// Zero is the upstream "reported zero/absent" sentinel for these quantities.
func ValidMeasure(v *float64) *float64 {
	if v == nil || !isFinite(*v) || *v == 0 {
		return nil
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ParseFloat parses s as a float, returning nil (not zero) on failure so
// "no data" is never confused with "value is zero".
func ParseFloat(s *string) *float64 {
	if s == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil || !isFinite(v) {
		return nil
	}
	return &v
}

// ParseInt parses s as an integer, returning nil on failure.
func ParseInt(s *string) *int {
	if s == nil {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &v
}

// KelvinFromFahrenheit converts an optional °F reading to K and validates
// the result.
func KelvinFromFahrenheit(f *float64) *float64 {
	if f == nil {
		return nil
	}
	k := FahrenheitToKelvin(*f)
	return ValidKelvin(&k)
}

// MetersPerSecondFromMPH converts an optional mph reading to m/s and
// validates the result.
func MetersPerSecondFromMPH(v *float64) *float64 {
	if v == nil {
		return nil
	}
	ms := MPHToMetersPerSecond(*v)
	return ValidMeasure(&ms)
}

// HectopascalsFromInHg converts an optional inHg reading to hPa and
// validates the result.
func HectopascalsFromInHg(v *float64) *float64 {
	if v == nil {
		return nil
	}
	hpa := InHgToHectopascals(*v)
	return ValidMeasure(&hpa)
}

// KilometersFromMiles converts an optional mile reading to km and validates
// the result.
func KilometersFromMiles(v *float64) *float64 {
	if v == nil {
		return nil
	}
	km := MilesToKilometers(*v)
	return ValidMeasure(&km)
}
