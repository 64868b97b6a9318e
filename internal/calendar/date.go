package calendar

import (
	"fmt"
	"math"
)

// Date is a calendar date in either the solar or the lunar calendar.
// Convert maps one variant to the other.
type Date interface {
	String() string
	isDate()
}

// SolarDate is a validated civil date.
type SolarDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// NewSolarDate validates year-month-day.
func NewSolarDate(year, month, day int) (SolarDate, error) {
	if !IsValidDate(year, month, day) {
		return SolarDate{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrOutOfRange, year, month, day)
	}
	return SolarDate{Year: year, Month: month, Day: day}, nil
}

func (SolarDate) isDate() {}

// String renders the date as 2020年05月23日.
func (s SolarDate) String() string {
	return fmt.Sprintf("%d年%02d月%02d日", s.Year, s.Month, s.Day)
}

// Lunar converts s to the lunar calendar.
func (s SolarDate) Lunar() (LunarDate, error) {
	return SolarToLunar(s.Year, s.Month, s.Day)
}

// Weekday returns the day of the week, 0 = Sunday.
func (s SolarDate) Weekday() int {
	jd := civilToJD(s.Year, s.Month, s.Day, 12, 0, 0)
	return (int(math.Floor(jd+1))%7 + 7) % 7
}

// MonthDays returns the number of days in the month of s.
func (s SolarDate) MonthDays() int {
	return monthLength(s.Year, s.Month)
}

// westernCusps holds the first day of each sign, by civil month.
var westernCusps = [12]int{20, 19, 21, 20, 21, 22, 23, 23, 23, 24, 22, 22}

// WesternZodiac returns the index into WesternZodiac of the sun sign of s,
// or -1 when the month or day is out of range.
func (s SolarDate) WesternZodiac() int {
	if s.Month < 1 || s.Month > 12 || s.Day < 1 || s.Day > 31 {
		return -1
	}
	kn := s.Month - 1
	if s.Day < westernCusps[kn] {
		kn = (kn + 11) % 12
	}
	return kn
}

// WesternZodiacName returns the name of the sun sign of s, or "" when s is
// not a valid date.
func (s SolarDate) WesternZodiacName() string {
	kn := s.WesternZodiac()
	if kn < 0 {
		return ""
	}
	return WesternZodiac[kn]
}

// LunarDate is a date in the Chinese lunisolar calendar.
type LunarDate struct {
	Year   int  `json:"year"`
	Month  int  `json:"month"`
	Day    int  `json:"day"`
	IsLeap bool `json:"is_leap"`
}

// NewLunarDate checks the ranges of a lunar date. Whether the month is long
// enough, or the leap month exists, is only known once it is converted.
func NewLunarDate(year, month, day int, isLeap bool) (LunarDate, error) {
	if year < MinYear || year > MaxYear || month < 1 || month > 12 || day < 1 || day > 30 {
		return LunarDate{}, fmt.Errorf("%w: lunar %d-%d-%d", ErrOutOfRange, year, month, day)
	}
	return LunarDate{Year: year, Month: month, Day: day, IsLeap: isLeap}, nil
}

func (LunarDate) isDate() {}

// String renders the date as 2020年闰04月01日.
func (l LunarDate) String() string {
	leap := ""
	if l.IsLeap {
		leap = "闰"
	}
	return fmt.Sprintf("%d年%s%02d月%02d日", l.Year, leap, l.Month, l.Day)
}

// Name renders the date with traditional month and day names, e.g. 闰四月初一.
func (l LunarDate) Name() string {
	leap := ""
	if l.IsLeap {
		leap = "闰"
	}
	return leap + MonthName(l.Month) + "月" + DayName(l.Day)
}

// Solar converts l to the civil calendar.
func (l LunarDate) Solar() (SolarDate, error) {
	return LunarToSolar(l.Year, l.Month, l.Day, l.IsLeap)
}

// MonthDays returns the length of the month of l, or 0 when l names a leap
// month that does not exist.
func (l LunarDate) MonthDays() (int, error) {
	return MonthDays(l.Year, l.Month, l.IsLeap)
}

// LeapMonth returns the leap month of the lunar year of l, 0 for none.
func (l LunarDate) LeapMonth() (int, error) {
	return LeapMonth(l.Year)
}

// Convert maps a solar date to its lunar date and a lunar date to its
// solar date.
func Convert(d Date) (Date, error) {
	switch v := d.(type) {
	case SolarDate:
		l, err := v.Lunar()
		if err != nil {
			return nil, err
		}
		return l, nil
	case LunarDate:
		s, err := v.Solar()
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported date type %T", d)
	}
}
