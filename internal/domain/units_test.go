package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemperatureRoundTrip(t *testing.T) {
	assert.InDelta(t, 72.0, KelvinToFahrenheit(FahrenheitToKelvin(72)), 1e-9)
	assert.InDelta(t, -40.0, KelvinToFahrenheit(FahrenheitToKelvin(-40)), 1e-9)
}

func TestConversions(t *testing.T) {
	assert.InDelta(t, 273.15, FahrenheitToKelvin(32), 1e-9)
	assert.Equal(t, FahrenheitToKelvin(0), KelvinZeroFahrenheit,
		"sentinel must equal the conversion bit for bit")
	assert.InDelta(t, 4.4704, MPHToMetersPerSecond(10), 1e-9)
	assert.InDelta(t, 1013.2519, InHgToHectopascals(29.9213), 1e-3)
	assert.InDelta(t, 16.0934, MilesToKilometers(10), 1e-9)
}

func TestValidKelvin(t *testing.T) {
	sentinel := FahrenheitToKelvin(0)
	nan := math.NaN()
	good := 280.0

	assert.Nil(t, ValidKelvin(nil))
	assert.Nil(t, ValidKelvin(&sentinel), "0°F sentinel must read as absent")
	assert.Nil(t, ValidKelvin(&nan))
	require.NotNil(t, ValidKelvin(&good))
	assert.Equal(t, good, *ValidKelvin(&good))
}

func TestValidMeasure(t *testing.T) {
	zero := 0.0
	inf := math.Inf(1)
	good := 5.5

	assert.Nil(t, ValidMeasure(nil))
	assert.Nil(t, ValidMeasure(&zero), "zero is the absent sentinel for measures")
	assert.Nil(t, ValidMeasure(&inf))
	require.NotNil(t, ValidMeasure(&good))
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name     string
		in       *string
		expected *float64
	}{
		{"nil", nil, nil},
		{"empty", strPtr(""), nil},
		{"not a number", strPtr("NA"), nil},
		{"plain", strPtr("38"), floatPtr(38)},
		{"padded", strPtr(" 29.92 "), floatPtr(29.92)},
		{"negative", strPtr("-5"), floatPtr(-5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFloat(tt.in)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func TestParseInt(t *testing.T) {
	assert.Nil(t, ParseInt(nil))
	assert.Nil(t, ParseInt(strPtr("")))
	assert.Nil(t, ParseInt(strPtr("12.5")))

	got := ParseInt(strPtr("40"))
	require.NotNil(t, got)
	assert.Equal(t, 40, *got)
}

func TestOptionalConversions(t *testing.T) {
	t.Run("fahrenheit sentinel propagates", func(t *testing.T) {
		zero := 0.0
		assert.Nil(t, KelvinFromFahrenheit(&zero))
	})

	t.Run("fahrenheit valid", func(t *testing.T) {
		f := 72.0
		got := KelvinFromFahrenheit(&f)
		require.NotNil(t, got)
		assert.InDelta(t, 295.372, *got, 1e-2)
	})

	t.Run("zero speed absent", func(t *testing.T) {
		zero := 0.0
		assert.Nil(t, MetersPerSecondFromMPH(&zero))
	})

	t.Run("pressure and visibility", func(t *testing.T) {
		slp := 30.18
		vis := 10.0
		require.NotNil(t, HectopascalsFromInHg(&slp))
		require.NotNil(t, KilometersFromMiles(&vis))
		assert.InDelta(t, 16.0934, *KilometersFromMiles(&vis), 1e-6)
	})
}

func strPtr(s string) *string { return &s }

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }
