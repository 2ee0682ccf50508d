// Package wiretime converts between Go times and the backend's wire format:
// ISO-8601-shaped timestamps without a zone marker that both sides agree to
// interpret as UTC.
package wiretime

import (
	"strings"
	"time"
)

// Layout is the naive-UTC wire layout, yyyy-MM-ddTHH:mm:ss.
const Layout = "2006-01-02T15:04:05"

// displayLayout renders instants for users, dd/MM/yyyy HH:mm.
const displayLayout = "02/01/2006 15:04"

// Format serializes t for the wire: converted to UTC, seconds zeroed, no
// offset marker.
func Format(t time.Time) string {
	return t.UTC().Truncate(time.Minute).Format(Layout)
}

// Parse interprets a wire timestamp as UTC. Trailing "Z" and fractional
// seconds are tolerated; timestamps carrying an explicit offset are converted
// to UTC.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	trimmed := strings.TrimSuffix(s, "Z")
	if i := strings.IndexByte(trimmed, '.'); i > 0 {
		trimmed = trimmed[:i]
	}
	t, err := time.ParseInLocation(Layout, trimmed, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// FormatDisplay renders t in the application's display format, in UTC.
func FormatDisplay(t time.Time) string {
	return t.UTC().Format(displayLayout)
}

// DisplayWire parses a wire timestamp and renders it for display. Empty input
// renders as "-", unparseable input as a localized error marker, matching the
// list views' behavior.
func DisplayWire(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	t, err := Parse(s)
	if err != nil {
		return "Data non valida"
	}
	return FormatDisplay(t)
}
