package calendar

import "math"

// Pillar positions in Pillars.Stems and Pillars.Branches.
const (
	YearPillar = iota
	MonthPillar
	DayPillar
	HourPillar
)

// Pillars is the sexagenary (stem, branch) reading of a moment.
type Pillars struct {
	Stems    [4]int `json:"stems"`
	Branches [4]int `json:"branches"`

	// JD is the moment itself on the UTC+8 clock.
	JD float64 `json:"jd"`

	// Terms are the month boundaries of the sexagenary year containing JD,
	// as returned by TermsSinceSpring; TermIndex is the last one not after JD.
	Terms     []float64 `json:"terms"`
	TermIndex int       `json:"term_index"`
}

// Names returns the four pillars as stem+branch pairs.
func (p Pillars) Names() [4]string {
	var out [4]string
	for i := range out {
		out[i] = GanZhiName(p.Stems[i], p.Branches[i])
	}
	return out
}

// BaZi returns the eight characters of the four pillars.
func (p Pillars) BaZi() string {
	s := ""
	for _, n := range p.Names() {
		s += n
	}
	return s
}

// Zodiac returns the zodiac animal of the year pillar.
func (p Pillars) Zodiac() string {
	return Animals[p.Branches[YearPillar]]
}

// Jie returns the jie solar term that opened the sexagenary month of p.
func (p Pillars) Jie() SolarTerm {
	k := (termMinorCold + 2*p.TermIndex) % termsPerYear
	jd := p.Terms[p.TermIndex]
	return SolarTerm{Index: k, Name: TermNames[k], JD: jd, Time: JulianToSolar(jd)}
}

// GanZhi computes the four pillars of a civil moment. The sexagenary year
// and months change at the jie solar terms, the day at 23:00. With
// earlyLateZi set, 23:00-23:59 keeps the day pillar of the day it belongs
// to on the civil calendar.
func GanZhi(year, month, day, hour, minute, second int, earlyLateZi bool) (Pillars, error) {
	// One second past midnight keeps the moment clear of day boundaries.
	jd, err := SolarToJulian(year, month, day, hour, minute, max(1, second))
	if err != nil {
		return Pillars{}, err
	}

	jq, err := TermsSinceSpring(year)
	if err != nil {
		return Pillars{}, err
	}
	if jd < jq[1] {
		// Before the start of spring: still the previous sexagenary year.
		year--
		if jq, err = TermsSinceSpring(year); err != nil {
			return Pillars{}, err
		}
	}

	p := Pillars{JD: jd, Terms: jq}

	p.Stems[YearPillar], p.Branches[YearPillar] = YearGanZhi(year)

	ix := 0
	for j := range jq {
		if jq[j] >= jd {
			ix = j - 1
			break
		}
	}
	p.TermIndex = ix

	// Element 0 of the terms is the previous minor cold, hence ix-1.
	tmm := mod((year+4712)*12+ix-1, 60)
	mgz := (tmm + 50) % 60
	p.Stems[MonthPillar] = mgz % 10
	p.Branches[MonthPillar] = mgz % 12

	// Move the day start from noon to 23:00 of the previous civil day.
	jdA := jd + 0.5
	theS := (jdA-math.Floor(jdA))*86400 + 3600
	dayJD := math.Floor(jdA) + theS/86400

	dgz := mod(int(math.Floor(dayJD+49)), 60)
	p.Stems[DayPillar] = dgz % 10
	p.Branches[DayPillar] = dgz % 12
	if earlyLateZi && hour >= 23 {
		p.Stems[DayPillar] = (p.Stems[DayPillar] + 9) % 10
		p.Branches[DayPillar] = (p.Branches[DayPillar] + 11) % 12
	}

	hgz := mod(int(math.Floor(dayJD*12+48)), 60)
	p.Stems[HourPillar] = hgz % 10
	p.Branches[HourPillar] = hgz % 12

	return p, nil
}

// YearGanZhi returns the stem and branch of the sexagenary year that starts
// at the lichun of year.
func YearGanZhi(year int) (stem, branch int) {
	ygz := mod(year+4712+24, 60)
	return ygz % 10, ygz % 12
}

// SolarTerm is one of the 24 solar terms of a year.
type SolarTerm struct {
	// Index is the term number counted from the vernal equinox (0..23).
	Index int       `json:"index" msgpack:"k"`
	Name  string    `json:"name" msgpack:"n"`
	JD    float64   `json:"jd" msgpack:"jd"`
	Time  CivilTime `json:"time" msgpack:"t"`
}

// SolarTerms returns the 24 solar terms of year in order, starting with the
// start of spring (立春) and ending with the greater cold (大寒).
func SolarTerms(year int) ([]SolarTerm, error) {
	if year < MinYear || year > MaxYear {
		return nil, ErrOutOfRange
	}
	prev, err := AdjustedTerms(year-1, termSpringBeg, termsPerYear-1)
	if err != nil {
		return nil, err
	}
	cur, err := AdjustedTerms(year, 0, termSpringBeg-1)
	if err != nil {
		return nil, err
	}

	out := make([]SolarTerm, 0, termsPerYear)
	add := func(k int, jd float64) {
		out = append(out, SolarTerm{Index: k, Name: TermNames[k], JD: jd, Time: JulianToSolar(jd)})
	}
	for i, jd := range prev {
		add(termSpringBeg+i, jd)
	}
	for k, jd := range cur {
		add(k, jd)
	}
	return out, nil
}

// mod returns x modulo n in [0, n).
func mod(x, n int) int {
	return (x%n + n) % n
}
