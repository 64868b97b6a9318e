package api

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/zapponejosh/lunisolar-api/internal/calendar"
)

// Years may be negative; the time of day is optional and defaults to
// midnight. Values are civil times on the UTC+8 clock.
var dateTimePattern = regexp.MustCompile(
	`^(-?\d{1,4})-(\d{1,2})-(\d{1,2})(?:[T ](\d{1,2}):(\d{2})(?::(\d{2}))?)?$`)

// parseDate parses YYYY-MM-DD. It checks the shape only.
func parseDate(s string) (calendar.SolarDate, error) {
	t, err := parseDateTime(s)
	if err != nil {
		return calendar.SolarDate{}, err
	}
	if t.Hour != 0 || t.Minute != 0 || t.Second != 0 || strings.ContainsAny(s, "T :") {
		return calendar.SolarDate{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return t.Date(), nil
}

// parseDateTime parses YYYY-MM-DD, YYYY-MM-DDTHH:MM or YYYY-MM-DDTHH:MM:SS.
// A space may replace the T.
func parseDateTime(s string) (calendar.CivilTime, error) {
	m := dateTimePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return calendar.CivilTime{}, fmt.Errorf("invalid date-time %q: use YYYY-MM-DDTHH:MM:SS", s)
	}

	n := make([]int, 6)
	for i := range n {
		if m[i+1] == "" {
			continue
		}
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return calendar.CivilTime{}, fmt.Errorf("invalid date-time %q: %w", s, err)
		}
		n[i] = v
	}
	return calendar.CivilTime{Year: n[0], Month: n[1], Day: n[2], Hour: n[3], Minute: n[4], Second: n[5]}, nil
}

// parseYear parses a year path parameter.
func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return y, nil
}

// parseSex maps male/female (or m/f) to the male flag of calendar.Fate.
func parseSex(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return true, nil
	case "female", "f":
		return false, nil
	}
	return false, fmt.Errorf("invalid sex %q: use male or female", s)
}

// parseFlag parses an optional boolean query parameter.
func parseFlag(s string, def bool) (bool, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", s)
	}
	return v, nil
}

// parseBounded parses an optional integer query parameter in [lo, hi].
// A negative hi leaves the value unbounded above.
func parseBounded(s string, def, lo, hi int) (int, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	if v < lo || (hi >= 0 && v > hi) {
		return 0, fmt.Errorf("%d out of range", v)
	}
	return v, nil
}
