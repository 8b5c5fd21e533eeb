package series

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// brDateRe D/M/YYYY con hora opcional H:MM; acepta también '-' como separador.
var brDateRe = regexp.MustCompile(`^([0-3]?\d)[/\-]([0-1]?\d)[/\-](\d{4})(?:\s+(\d{1,2}):(\d{2}))?$`)

// zonedLayouts formatos con zona que envía el backend (Python isoformat, RFC3339 y el RFC1123 de jsonify).
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123,
	time.RFC1123Z,
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate acepta time.Time, números epoch en milisegundos, strings ISO y D/M/YYYY[ H:MM].
// Entradas no reconocidas devuelven ok=false; nunca entra en pánico.
func ParseDate(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return x.In(loc), true
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, false
		}
		return x.In(loc), true
	case float64:
		return fromEpochMillis(x, loc)
	case int64:
		return fromEpochMillis(float64(x), loc)
	case int:
		return fromEpochMillis(float64(x), loc)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromEpochMillis(f, loc)
	case string:
		return parseDateString(x, loc)
	}
	return time.Time{}, false
}

func fromEpochMillis(ms float64, loc *time.Location) (time.Time, bool) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).In(loc), true
}

func parseDateString(raw string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if m := brDateRe.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		var hh, mm int
		if m[4] != "" {
			hh, _ = strconv.Atoi(m[4])
			mm, _ = strconv.Atoi(m[5])
		}
		if mo < 1 || mo > 12 || d < 1 || hh > 23 || mm > 59 {
			return time.Time{}, false
		}
		t := time.Date(y, time.Month(mo), d, hh, mm, 0, 0, loc)
		if t.Day() != d {
			return time.Time{}, false
		}
		return t, true
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(loc), true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatBR DD/MM/YYYY.
func FormatBR(t time.Time) string { return t.Format("02/01/2006") }

// FormatBRDateTime DD/MM/YYYY HH:MM.
func FormatBRDateTime(t time.Time) string { return t.Format("02/01/2006 15:04") }

// FormatISODate YYYY-MM-DD (parámetros data_inicio/data_fim del backend).
func FormatISODate(t time.Time) string { return t.Format(dayKeyLayout) }

// StartOfDay medianoche del día de t en su zona.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
