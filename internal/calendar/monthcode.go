package calendar

import "math"

const monthCodes = 15

// MonthTable describes the lunar months around one lunar year.
//
// NewMoons holds 16 consecutive new moons; NewMoons[0] starts the month
// containing the winter solstice of the previous year. Codes[i] names the
// month starting at NewMoons[i]: 0 is the 11th month of the previous year,
// 1 the 12th, 2 the 1st month of this year, and so on. A leap month carries
// the code of the month it repeats minus one half.
type MonthTable struct {
	NewMoons [newMoonWindow]float64
	Codes    [monthCodes]float64
}

// ResolveMonthCodes numbers the lunar months starting near the winter
// solstice of year-1 and flags the leap month, if any. A leap month is the
// first month that contains no zhongqi in a lunar year that has 13 months.
func ResolveMonthCodes(year int) (MonthTable, error) {
	var mt MonthTable

	zq, err := ZhongQiSinceWinterSolstice(year)
	if err != nil {
		return mt, err
	}
	nm, err := NewMoonsSinceWinterSolstice(year, zq[0])
	if err != nil {
		return mt, err
	}
	copy(mt.NewMoons[:], nm)

	// hasNoZhongqi reports whether month i starts after zhongqi i-1-yz and
	// ends no later than zhongqi i-yz. The start of month i is deliberately
	// not truncated to its day.
	yz := 0
	hasNoZhongqi := func(i int) bool {
		return nm[i]+0.5 > dayNumber(zq[i-1-yz]) && dayNumber(nm[i+1]) <= dayNumber(zq[i-yz])
	}

	if dayNumber(zq[12]) >= dayNumber(nm[13]) {
		// Twelve zhongqi fall across thirteen months: the first month
		// without one is the leap month, and later months shift down.
		for i := 1; i < monthCodes; i++ {
			if yz == 0 && hasNoZhongqi(i) {
				mt.Codes[i] = float64(i) - 0.5
				yz = 1
			} else {
				mt.Codes[i] = float64(i - yz)
			}
		}
		return mt, nil
	}

	for i := 0; i <= 12; i++ {
		mt.Codes[i] = float64(i)
	}
	// The 11th and 12th months of the next lunar year may still hold a leap.
	for i := 13; i < monthCodes; i++ {
		if yz == 0 && hasNoZhongqi(i) {
			mt.Codes[i] = float64(i) - 0.5
			yz = 1
		} else {
			mt.Codes[i] = float64(i - yz)
		}
	}
	return mt, nil
}

// LeapSlot returns the integer month code duplicated by the leap month in
// Codes[1:], or 0 when the table has no leap month.
func (mt MonthTable) LeapSlot() int {
	for j := 1; j < monthCodes; j++ {
		if isLeapCode(mt.Codes[j]) {
			return int(math.Floor(mt.Codes[j] + 0.5))
		}
	}
	return 0
}

// MonthLengths returns the length in days of each of the 15 months.
func (mt MonthTable) MonthLengths() [monthCodes]int {
	var out [monthCodes]int
	for i := range out {
		out[i] = int(dayNumber(mt.NewMoons[i+1]) - dayNumber(mt.NewMoons[i]))
	}
	return out
}

// LeapMonth returns the number (1..12) of the leap month in the lunar year
// year, or 0 when the year has none.
func LeapMonth(year int) (int, error) {
	mt, err := ResolveMonthCodes(year)
	if err != nil {
		return 0, err
	}
	return max(0, mt.LeapSlot()-2), nil
}

func isLeapCode(code float64) bool {
	return code-math.Floor(code) > 0
}
