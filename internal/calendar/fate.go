package calendar

import "fmt"

const (
	luckPillars = 12

	// Traditional scaling of the span to the nearest jie: three days count
	// as one year of age, so one day of span is 120 days of life.
	spanScale = 120

	// A luck pillar lasts ten years of 360 days.
	luckPillarDays = 10 * 360
)

// Chart is a four-pillars chart with its luck pillars (大运).
type Chart struct {
	Pillars

	Male      bool `json:"male"`
	Ascending bool `json:"ascending"`

	LuckStems    [luckPillars]int `json:"luck_stems"`
	LuckBranches [luckPillars]int `json:"luck_branches"`

	// OnsetYears, OnsetMonths and OnsetDays give the age at which the first
	// luck pillar starts, in 360-day years and 30-day months.
	OnsetYears  int `json:"onset_years"`
	OnsetMonths int `json:"onset_months"`
	OnsetDays   int `json:"onset_days"`

	// Onset is the civil time the first luck pillar starts; LuckStarts
	// holds the start of each of the twelve pillars.
	Onset      CivilTime              `json:"onset"`
	LuckStarts [luckPillars]CivilTime `json:"luck_starts"`
}

// OnsetDescription renders the onset age, e.g. 9年6月1天起运.
func (c Chart) OnsetDescription() string {
	return fmt.Sprintf("%d年%d月%d天起运", c.OnsetYears, c.OnsetMonths, c.OnsetDays)
}

// LuckNames returns the twelve luck pillars as stem+branch pairs.
func (c Chart) LuckNames() [luckPillars]string {
	var out [luckPillars]string
	for i := range out {
		out[i] = GanZhiName(c.LuckStems[i], c.LuckBranches[i])
	}
	return out
}

// Fate computes the chart of someone born at the given civil moment.
// Luck pillars run forward from the month pillar for a male born in a yang
// year or a female born in a yin year, and backward otherwise. The onset
// is derived from the span between birth and the next jie (forward) or the
// current jie (backward).
func Fate(male bool, year, month, day, hour, minute, second int) (Chart, error) {
	p, err := GanZhi(year, month, day, hour, minute, second, true)
	if err != nil {
		return Chart{}, err
	}

	c := Chart{Pillars: p, Male: male}

	yang := p.Stems[YearPillar]%2 == 0
	c.Ascending = male == yang

	ms, mb := p.Stems[MonthPillar], p.Branches[MonthPillar]
	var span float64
	if c.Ascending {
		span = p.Terms[p.TermIndex+1] - p.JD
		for i := 1; i <= luckPillars; i++ {
			c.LuckStems[i-1] = (ms + i) % 10
			c.LuckBranches[i-1] = (mb + i) % 12
		}
	} else {
		span = p.JD - p.Terms[p.TermIndex]
		for i := 1; i <= luckPillars; i++ {
			c.LuckStems[i-1] = (ms + 20 - i) % 10
			c.LuckBranches[i-1] = (mb + 24 - i) % 12
		}
	}

	days := int(span * spanScale)
	c.OnsetYears = days / 360
	c.OnsetMonths = days % 360 / 30
	c.OnsetDays = days % 360 % 30

	start := p.JD + span*spanScale
	c.Onset = JulianToSolar(start)
	for i := range c.LuckStarts {
		c.LuckStarts[i] = JulianToSolar(start + float64(i*luckPillarDays))
	}

	return c, nil
}
