package itinerary

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartroute/internal/types"
)

func TestParseHorizon(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"plain integer", "7", 7},
		{"integer with whitespace", " 3 ", 3},
		{"digits inside spanish phrase", "los próximos 3 días", 3},
		{"first digit run wins", "entre 2 y 10 días", 2},
		{"no digits falls back to default", "la semana que viene", 5},
		{"empty string falls back to default", "", 5},
		{"negative integer falls back to digit run", "-4", 4},
		{"zero is accepted", "0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHorizon(tt.input))
		})
	}
}

func TestNormalizeInterests(t *testing.T) {
	tests := []struct {
		name  string
		input json.RawMessage
		want  []string
	}{
		{"json list", json.RawMessage(`["playa","surf"]`), []string{"playa", "surf"}},
		{"bare string wrapped in list", json.RawMessage(`"senderismo"`), []string{"senderismo"}},
		{"null becomes empty list", json.RawMessage(`null`), []string{}},
		{"absent becomes empty list", nil, []string{}},
		{"empty list stays empty", json.RawMessage(`[]`), []string{}},
		{"malformed payload becomes empty list", json.RawMessage(`{"a":`), []string{}},
		{"object becomes empty list", json.RawMessage(`{"a":1}`), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeInterests(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractCoordinates(t *testing.T) {
	t.Run("well formed coordinates", func(t *testing.T) {
		report := &types.WeatherReport{Current: map[string]any{
			"coordinates": map[string]any{"lat": 5.5353, "lon": -73.3678},
		}}
		lat, lon := ExtractCoordinates(report)
		require.NotNil(t, lat)
		require.NotNil(t, lon)
		assert.InDelta(t, 5.5353, *lat, 1e-9)
		assert.InDelta(t, -73.3678, *lon, 1e-9)
	})

	t.Run("nil report", func(t *testing.T) {
		lat, lon := ExtractCoordinates(nil)
		assert.Nil(t, lat)
		assert.Nil(t, lon)
	})

	t.Run("missing coordinates key", func(t *testing.T) {
		report := &types.WeatherReport{Current: map[string]any{"name": "Tunja"}}
		lat, lon := ExtractCoordinates(report)
		assert.Nil(t, lat)
		assert.Nil(t, lon)
	})

	t.Run("odd typed lat", func(t *testing.T) {
		report := &types.WeatherReport{Current: map[string]any{
			"coordinates": map[string]any{"lat": "5.5", "lon": -73.3678},
		}}
		lat, lon := ExtractCoordinates(report)
		assert.Nil(t, lat)
		assert.Nil(t, lon)
	})

	t.Run("missing lon", func(t *testing.T) {
		report := &types.WeatherReport{Current: map[string]any{
			"coordinates": map[string]any{"lat": 5.5},
		}}
		lat, lon := ExtractCoordinates(report)
		assert.Nil(t, lat)
		assert.Nil(t, lon)
	})
}
