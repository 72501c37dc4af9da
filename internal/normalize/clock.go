package normalize

import (
	"strconv"
	"strings"
)

// ParseClockDegrees converts a raw clock-position value into degrees in
// [0, 360). It accepts "H:MM" (12:00 is top dead centre), a decimal-hours
// value ≤ 12, or a bare degrees value > 12. Anything unparseable, or an
// empty string, defaults to 0.
func ParseClockDegrees(raw string) (degrees float64, ok bool) {
	s := foldClockString(raw)
	if s == "" {
		return 0, false
	}

	if strings.Contains(s, ":") {
		parts := strings.SplitN(s, ":", 2)
		hours, errH := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		minutes, errM := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errH != nil || errM != nil {
			return 0, false
		}
		return clockToDegrees(hours, minutes), true
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if value <= 12 {
		return clockToDegrees(value, 0), true
	}
	return normalizeDegrees(value), true
}

func clockToDegrees(hours, minutes float64) float64 {
	h := mod(hours, 12)
	return normalizeDegrees(h*30 + minutes*0.5)
}

func normalizeDegrees(d float64) float64 {
	d = mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func mod(a, b float64) float64 {
	if b == 0 {
		return a
	}
	m := a - b*float64(int(a/b))
	return m
}

// foldClockString normalizes full-width digits/colons that some East
// Asian-locale spreadsheet exports use for clock positions (e.g. "３：００")
// into their ASCII equivalents before parsing, and trims surrounding space.
func foldClockString(raw string) string {
	s := foldWidth(raw)
	return strings.TrimSpace(s)
}
