package events

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// StartLayout es el formato de la celda Start en el CSV ("2024-03-01 08:00 AM").
const StartLayout = "2006-01-02 03:04 PM"

// startLayouts: el botón "Now" histórico escribía mes/día/hora sin cero a la izquierda;
// "1" y "3" aceptan uno o dos dígitos al parsear.
var startLayouts = []string{
	"2006-1-2 3:04 PM",
	"2006-1-2T15:04",
	"2006-1-2 15:04",
	time.RFC3339,
}

// FormatStart formatea un inicio para guardarlo en el store.
func FormatStart(t time.Time) string {
	return t.Format(StartLayout)
}

// ParseStart interpreta una celda Start como hora local en loc.
func ParseStart(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty start", ErrMalformedRecord)
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc).Truncate(time.Minute), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: start %q", ErrMalformedRecord, s)
}

var durationPattern = regexp.MustCompile(`^(\d+)h (\d+)m$`)

// FormatDuration escribe "Xh Ym" (horas enteras + minutos restantes).
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int64(d / time.Hour)
	m := int64((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", h, m)
}

// ParseDuration acepta "Xh Ym" o vacío (sin duración).
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, s)
	}
	hours, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, s)
	}
	mins, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, s)
	}
	return time.Duration(hours)*time.Hour + time.Duration(mins)*time.Minute, nil
}

// formatOunces usa el decimal más corto que vuelve al mismo valor (4, 4.25).
func formatOunces(oz float64) string {
	return strconv.FormatFloat(oz, 'f', -1, 64)
}
