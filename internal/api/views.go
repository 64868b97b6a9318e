package api

import (
	"time"

	"github.com/zapponejosh/lunisolar-api/internal/calendar"
	"github.com/zapponejosh/lunisolar-api/internal/database"
)

// DayView describes one day in both calendars.
type DayView struct {
	Solar         calendar.SolarDate `json:"solar"`
	SolarText     string             `json:"solar_text"`
	Weekday       int                `json:"weekday"`
	WeekdayName   string             `json:"weekday_name"`
	WesternZodiac string             `json:"western_zodiac"`

	Lunar          calendar.LunarDate `json:"lunar"`
	LunarText      string             `json:"lunar_text"`
	LunarName      string             `json:"lunar_name"`
	LunarMonthDays int                `json:"lunar_month_days"`
	LeapMonth      int                `json:"leap_month"`
	YearPillar     string             `json:"year_pillar"`
	Zodiac         string             `json:"zodiac"`
}

func newDayView(s calendar.SolarDate, l calendar.LunarDate) (*DayView, error) {
	days, err := l.MonthDays()
	if err != nil {
		return nil, err
	}
	leap, err := l.LeapMonth()
	if err != nil {
		return nil, err
	}

	wd := s.Weekday()
	stem, branch := calendar.YearGanZhi(l.Year)
	return &DayView{
		Solar:          s,
		SolarText:      s.String(),
		Weekday:        wd,
		WeekdayName:    "星期" + calendar.WeekdayNames[wd],
		WesternZodiac:  s.WesternZodiacName(),
		Lunar:          l,
		LunarText:      l.String(),
		LunarName:      l.Name(),
		LunarMonthDays: days,
		LeapMonth:      leap,
		YearPillar:     calendar.GanZhiName(stem, branch),
		Zodiac:         calendar.Animals[branch],
	}, nil
}

// PillarsView is the four pillars of a moment.
type PillarsView struct {
	Time     calendar.CivilTime `json:"time"`
	Stems    [4]int             `json:"stems"`
	Branches [4]int             `json:"branches"`
	Names    [4]string          `json:"names"`
	BaZi     string             `json:"bazi"`
	Zodiac   string             `json:"zodiac"`
	Jie      calendar.SolarTerm `json:"jie"`
}

func newPillarsView(at calendar.CivilTime, p calendar.Pillars) PillarsView {
	return PillarsView{
		Time:     at,
		Stems:    p.Stems,
		Branches: p.Branches,
		Names:    p.Names(),
		BaZi:     p.BaZi(),
		Zodiac:   p.Zodiac(),
		Jie:      p.Jie(),
	}
}

// LuckPillarView is one ten-year luck pillar.
type LuckPillarView struct {
	Name   string             `json:"name"`
	Stem   int                `json:"stem"`
	Branch int                `json:"branch"`
	Starts calendar.CivilTime `json:"starts"`
}

// OnsetView is the age and moment the first luck pillar begins.
type OnsetView struct {
	Years       int                `json:"years"`
	Months      int                `json:"months"`
	Days        int                `json:"days"`
	Description string             `json:"description"`
	At          calendar.CivilTime `json:"at"`
}

// ChartView is a full four-pillars chart.
type ChartView struct {
	PillarsView
	Male        bool             `json:"male"`
	Ascending   bool             `json:"ascending"`
	Onset       OnsetView        `json:"onset"`
	LuckPillars []LuckPillarView `json:"luck_pillars"`
}

func newChartView(at calendar.CivilTime, c calendar.Chart) ChartView {
	v := ChartView{
		PillarsView: newPillarsView(at, c.Pillars),
		Male:        c.Male,
		Ascending:   c.Ascending,
		Onset: OnsetView{
			Years:       c.OnsetYears,
			Months:      c.OnsetMonths,
			Days:        c.OnsetDays,
			Description: c.OnsetDescription(),
			At:          c.Onset,
		},
	}

	names := c.LuckNames()
	for i := range names {
		v.LuckPillars = append(v.LuckPillars, LuckPillarView{
			Name:   names[i],
			Stem:   c.LuckStems[i],
			Branch: c.LuckBranches[i],
			Starts: c.LuckStarts[i],
		})
	}
	return v
}

// SavedChartView is a stored chart as returned by the charts endpoints.
type SavedChartView struct {
	ID        string    `json:"id"`
	Label     *string   `json:"label,omitempty"`
	CreatedAt string    `json:"created_at"`
	Chart     ChartView `json:"chart"`
}

func newSavedChartView(c *database.SavedChart) SavedChartView {
	return SavedChartView{
		ID:        c.ID,
		Label:     c.Label,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
		Chart:     newChartView(c.Birth, c.Chart),
	}
}
