package calendar

import (
	"errors"
	"fmt"
	"math"
)

// SolarToLunar converts a civil date to its lunar date.
func SolarToLunar(year, month, day int) (LunarDate, error) {
	if !IsValidDate(year, month, day) {
		return LunarDate{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrOutOfRange, year, month, day)
	}

	mt, err := ResolveMonthCodes(year)
	if err != nil {
		return LunarDate{}, err
	}

	// Noon of the requested day, so floor(jd) is its day number.
	jd := math.Floor(civilToJD(year, month, day, 12, 0, 0))

	prev := false
	if jd < dayNumber(mt.NewMoons[0]) {
		prev = true
		if mt, err = ResolveMonthCodes(year - 1); err != nil {
			return LunarDate{}, err
		}
	}

	mi := 0
	for i := 0; i < monthCodes; i++ {
		if jd >= dayNumber(mt.NewMoons[i]) && jd < dayNumber(mt.NewMoons[i+1]) {
			mi = i
			break
		}
	}

	code := mt.Codes[mi]
	ly := year
	if code < 2 || prev {
		ly--
	}

	return LunarDate{
		Year:   ly,
		Month:  int(math.Floor(code+10))%12 + 1,
		Day:    int(jd-dayNumber(mt.NewMoons[mi])) + 1,
		IsLeap: isLeapCode(code),
	}, nil
}

// LunarToSolar converts a lunar date to its civil date. It fails with
// ErrLeapMonthMismatch when isLeap is set but the year has no leap month
// or leaps another month, and with ErrMonthLength when day exceeds the
// month's length.
func LunarToSolar(year, month, day int, isLeap bool) (SolarDate, error) {
	if year < MinYear || year > MaxYear || month < 1 || month > 12 || day < 1 || day > 30 {
		return SolarDate{}, fmt.Errorf("%w: lunar %d-%d-%d", ErrOutOfRange, year, month, day)
	}

	mt, err := ResolveMonthCodes(year)
	if err != nil {
		return SolarDate{}, err
	}

	idx, err := monthIndex(mt, month, isLeap)
	if err != nil {
		return SolarDate{}, fmt.Errorf("lunar %d-%d: %w", year, month, err)
	}
	if n := mt.MonthLengths()[idx]; day > n {
		return SolarDate{}, fmt.Errorf("%w: lunar %d-%d has %d days", ErrMonthLength, year, month, n)
	}

	return JulianToSolar(mt.NewMoons[idx] + float64(day-1)).Date(), nil
}

// monthIndex locates lunar month (1..12) of the table's lunar year in
// mt.NewMoons.
func monthIndex(mt MonthTable, month int, isLeap bool) (int, error) {
	leap := mt.LeapSlot()

	// 11th month of the previous year is code 0, so month m is code m+1
	// and sits at index m+1 unless a leap month precedes it.
	m := month + 2

	if isLeap {
		// Slots 1 and 2 are leap months of the previous lunar year.
		if leap < 3 || leap != m {
			return 0, ErrLeapMonthMismatch
		}
		return m, nil
	}
	if leap == 0 || m <= leap {
		return m - 1, nil
	}
	return m, nil
}

// MonthDays returns the number of days in lunar month (1..12) of year, or
// in its leap month when isLeap is set. It returns 0 when the requested
// leap month does not exist.
func MonthDays(year, month int, isLeap bool) (int, error) {
	if year < MinYear || year > MaxYear || month < 1 || month > 12 {
		return 0, fmt.Errorf("%w: lunar %d-%d", ErrOutOfRange, year, month)
	}
	mt, err := ResolveMonthCodes(year)
	if err != nil {
		return 0, err
	}
	idx, err := monthIndex(mt, month, isLeap)
	if errors.Is(err, ErrLeapMonthMismatch) {
		return 0, nil
	}
	return mt.MonthLengths()[idx], nil
}
