package itinerary

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"smartroute/internal/types"
)

const defaultHorizonDays = 5

var digitRun = regexp.MustCompile(`\d+`)

// ParseHorizon turns the free-form "time" field of a request into a day
// count. Plain integers parse directly; otherwise the first run of digits in
// the string wins ("los próximos 3 días" → 3). Anything else falls back to
// the default horizon. Never errors.
func ParseHorizon(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	if match := digitRun.FindString(s); match != "" {
		if n, err := strconv.Atoi(match); err == nil {
			return n
		}
	}
	return defaultHorizonDays
}

// NormalizeInterests decodes the raw interests field of a tourism message.
// Producers have sent a JSON list, a bare string, null, or nothing at all;
// all of those normalize to a (possibly empty) list. Malformed payloads also
// yield an empty list rather than an error.
func NormalizeInterests(raw json.RawMessage) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}
	return []string{}
}

// ExtractCoordinates pulls lat/lon out of a weather report's current
// conditions. The shape comes from an external provider, so any missing or
// oddly typed field yields nil sentinels instead of an error; callers treat
// nil as "no coordinates available".
func ExtractCoordinates(report *types.WeatherReport) (latitude, longitude *float64) {
	if report == nil {
		return nil, nil
	}
	coords, ok := report.Current["coordinates"].(map[string]any)
	if !ok {
		return nil, nil
	}
	lat, latOK := toFloat(coords["lat"])
	lon, lonOK := toFloat(coords["lon"])
	if !latOK || !lonOK {
		return nil, nil
	}
	return &lat, &lon
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
