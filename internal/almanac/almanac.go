// Package almanac builds per-year summaries of the lunisolar calendar and
// caches them through a Store.
package almanac

import (
	"fmt"
	"time"

	"github.com/zapponejosh/lunisolar-api/internal/calendar"
)

// SchemaVersion is bumped whenever YearAlmanac changes shape or the
// calendar computations change, so stale cache rows are ignored.
const SchemaVersion = 1

// Month is one lunar month of a YearAlmanac.
type Month struct {
	Month    int                `json:"month" msgpack:"m"`
	IsLeap   bool               `json:"is_leap" msgpack:"l"`
	Name     string             `json:"name" msgpack:"n"`
	FirstDay calendar.SolarDate `json:"first_day" msgpack:"f"`
	Days     int                `json:"days" msgpack:"d"`
}

// YearAlmanac summarises one lunar year: its months from the lunar new
// year, and the 24 solar terms of the sexagenary year starting at lichun.
type YearAlmanac struct {
	Year       int                  `json:"year" msgpack:"y"`
	YearPillar string               `json:"year_pillar" msgpack:"p"`
	Zodiac     string               `json:"zodiac" msgpack:"z"`
	LeapMonth  int                  `json:"leap_month" msgpack:"lm"`
	NewYear    calendar.SolarDate   `json:"new_year" msgpack:"ny"`
	Months     []Month              `json:"months" msgpack:"ms"`
	Terms      []calendar.SolarTerm `json:"terms" msgpack:"ts"`
	Version    int                  `json:"-" msgpack:"v"`
	ComputedAt time.Time            `json:"computed_at" msgpack:"at"`
}

// Build computes the almanac of lunar year from scratch.
func Build(year int) (*YearAlmanac, error) {
	if year < calendar.MinYear || year > calendar.MaxYear {
		return nil, fmt.Errorf("%w: year %d", calendar.ErrOutOfRange, year)
	}

	leap, err := calendar.LeapMonth(year)
	if err != nil {
		return nil, fmt.Errorf("leap month of %d: %w", year, err)
	}

	stem, branch := calendar.YearGanZhi(year)
	a := &YearAlmanac{
		Year:       year,
		YearPillar: calendar.GanZhiName(stem, branch),
		Zodiac:     calendar.Animals[branch],
		LeapMonth:  leap,
		Months:     make([]Month, 0, 13),
		Version:    SchemaVersion,
		ComputedAt: time.Now().UTC(),
	}

	for m := 1; m <= 12; m++ {
		if err := a.addMonth(m, false); err != nil {
			return nil, err
		}
		if m == leap {
			if err := a.addMonth(m, true); err != nil {
				return nil, err
			}
		}
	}
	a.NewYear = a.Months[0].FirstDay

	if a.Terms, err = calendar.SolarTerms(year); err != nil {
		return nil, fmt.Errorf("solar terms of %d: %w", year, err)
	}

	return a, nil
}

func (a *YearAlmanac) addMonth(month int, isLeap bool) error {
	first, err := calendar.LunarToSolar(a.Year, month, 1, isLeap)
	if err != nil {
		return fmt.Errorf("first day of %d-%d: %w", a.Year, month, err)
	}
	days, err := calendar.MonthDays(a.Year, month, isLeap)
	if err != nil {
		return fmt.Errorf("length of %d-%d: %w", a.Year, month, err)
	}

	name := calendar.MonthName(month) + "月"
	if isLeap {
		name = "闰" + name
	}
	a.Months = append(a.Months, Month{
		Month:    month,
		IsLeap:   isLeap,
		Name:     name,
		FirstDay: first,
		Days:     days,
	})
	return nil
}

// DayCount returns the number of days in the lunar year.
func (a *YearAlmanac) DayCount() int {
	n := 0
	for _, m := range a.Months {
		n += m.Days
	}
	return n
}
