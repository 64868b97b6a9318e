// Package calendar converts between the Gregorian and Chinese lunisolar
// calendars, derives the 24 solar terms, and computes four-pillars charts.
//
// All computations are pure functions of their inputs. Julian days are
// float64 day counts whose integer boundary falls at noon; civil times are
// expressed on the UTC+8 clock.
package calendar

import (
	"fmt"
	"math"
)

const (
	// J2000 is the Julian day of 2000-01-01 12:00 TT.
	J2000 = 2451545.0

	// ReformJD is the first instant of the Gregorian calendar, 1582-10-15 00:00.
	ReformJD = 2299160.5

	// MinYear and MaxYear bound the years supported by the calendar
	// conversions. The perturbation series degrade quickly outside them.
	MinYear = -1000
	MaxYear = 3000

	gregorianEpoch = 1721119.5
	julianEpoch    = 1721117.5
)

// CivilTime is a calendar date and time of day on the UTC+8 clock.
// Dates before 1582-10-15 are in the proleptic Julian calendar.
type CivilTime struct {
	Year   int `json:"year" msgpack:"y"`
	Month  int `json:"month" msgpack:"m"`
	Day    int `json:"day" msgpack:"d"`
	Hour   int `json:"hour" msgpack:"h"`
	Minute int `json:"minute" msgpack:"i"`
	Second int `json:"second" msgpack:"s"`
}

// String renders the time as "YYYY-MM-DD hh:mm:ss".
func (c CivilTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second)
}

// Date returns the date part of c.
func (c CivilTime) Date() SolarDate {
	return SolarDate{Year: c.Year, Month: c.Month, Day: c.Day}
}

// IsValidDate reports whether year-month-day exists in the civil calendar
// and lies in [MinYear, MaxYear]. The ten days 1582-10-05..1582-10-14 were
// skipped by the Gregorian reform and are rejected.
func IsValidDate(year, month, day int) bool {
	if year < MinYear || year > MaxYear {
		return false
	}
	if month < 1 || month > 12 {
		return false
	}
	if year == 1582 && month == 10 && day >= 5 && day < 15 {
		return false
	}
	return day > 0 && day <= monthLength(year, month)
}

// monthLength returns the number of days in a civil month. Julian leap
// years apply throughout; century years not divisible by 400 lose the leap
// day after the reform.
func monthLength(year, month int) int {
	ndf := 0
	if year%4 == 0 {
		ndf = -1
	}
	if year > 1582 && year%100 == 0 && year%400 != 0 {
		ndf++
	}

	// 31/30 alternation, with July and August both long.
	dom := 30 + int(math.Abs(float64(month)-7.5)+0.5)%2
	if month == 2 {
		dom -= 2 + ndf
	}
	return dom
}

// SolarToJulian converts a civil date-time to a Julian day. It fails with
// ErrOutOfRange when the date is invalid or the time of day is outside
// 00:00:00..23:59:59.
func SolarToJulian(year, month, day, hour, minute, second int) (float64, error) {
	if !IsValidDate(year, month, day) {
		return 0, fmt.Errorf("%w: %04d-%02d-%02d", ErrOutOfRange, year, month, day)
	}
	if hour < 0 || hour >= 24 || minute < 0 || minute >= 60 || second < 0 || second >= 60 {
		return 0, fmt.Errorf("%w: time %02d:%02d:%02d", ErrOutOfRange, hour, minute, second)
	}
	return civilToJD(year, month, day, hour, minute, second), nil
}

// civilToJD converts without validation. Dates on or after 1582-10-15 use
// the Gregorian rule, earlier ones the Julian rule.
func civilToJD(year, month, day, hour, minute, second int) float64 {
	yp := float64(year) + math.Floor(float64(month-3)/10)

	var init, jdy float64
	if year > 1582 || (year == 1582 && month > 10) || (year == 1582 && month == 10 && day >= 15) {
		init = gregorianEpoch
		jdy = math.Floor(yp*365.25) - math.Floor(yp/100) + math.Floor(yp/400)
	} else {
		init = julianEpoch
		jdy = math.Floor(yp * 365.25)
	}

	mp := float64((month + 9) % 12)
	jdm := mp*30 + math.Floor((mp+1)*34/57)
	jdd := float64(day - 1)
	jdh := (float64(hour) + (float64(minute)+float64(second)/60)/60) / 24

	return jdy + jdm + jdd + jdh + init
}

// JulianToSolar converts a Julian day back to a civil date-time. The time of
// day is rounded to the second after absorbing floating point noise.
func JulianToSolar(jd float64) CivilTime {
	var y4h, init float64
	if jd >= ReformJD {
		y4h, init = 146097, gregorianEpoch
	} else {
		y4h, init = 146100, julianEpoch
	}

	jdr := math.Floor(jd - init)
	yh := y4h / 4
	cen := math.Floor((jdr + 0.75) / yh)
	d := math.Floor(jdr + 0.75 - cen*yh)
	ywl := 1461.0 / 4
	jy := math.Floor((d + 0.75) / ywl)
	d = math.Floor(d + 0.75 - ywl*jy + 1)
	ml := 153.0 / 5
	mp := math.Floor((d - 0.5) / ml)
	d = math.Floor((d - 0.5) - 30.6*mp + 1)

	y := int(100*cen + jy)
	m := (int(mp)+2)%12 + 1
	if m < 3 {
		y++
	}

	sd := int(math.Floor((jd+0.5-math.Floor(jd+0.5))*86400 + 0.00005))

	return CivilTime{
		Year:   y,
		Month:  m,
		Day:    int(d),
		Hour:   sd / 3600,
		Minute: sd / 60 % 60,
		Second: sd % 60,
	}
}

// dayNumber returns the civil day containing jd, counted from the midnight
// that precedes the noon boundary. Month resolution compares events at this
// granularity.
func dayNumber(jd float64) float64 {
	return math.Floor(jd + 0.5)
}
