package api

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"github.com/zapponejosh/lunisolar-api/internal/almanac"
	"github.com/zapponejosh/lunisolar-api/internal/calendar"
)

// Before 1583 civil dates are Julian, which time.Time cannot represent.
const minICSYear = 1583

const (
	icsProdID   = "-//Lunisolar API//Solar Terms//ZH"
	icsUIDHost  = "lunisolar-api"
	propCalName = "X-WR-CALNAME"
)

// chinaTime is the UTC+8 clock every calendar computation uses.
var chinaTime = time.FixedZone("UTC+8", 8*60*60)

// encodeTermsICS renders the solar terms and the lunar new year of a as an
// iCalendar feed. Terms are timed events in UTC; the new year is all-day.
func encodeTermsICS(a *almanac.YearAlmanac) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProdID)
	cal.Props.SetText(propCalName, fmt.Sprintf("%d %s年节气", a.Year, a.YearPillar))
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText(ical.PropMethod, "PUBLISH")

	stamp := a.ComputedAt.UTC()

	ny := ical.NewEvent()
	ny.Props.SetText(ical.PropUID, fmt.Sprintf("newyear-%d@%s", a.Year, icsUIDHost))
	ny.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	ny.Props.SetText(ical.PropSummary, fmt.Sprintf("春节 %s年 (%s)", a.YearPillar, a.Zodiac))
	start := ical.NewProp(ical.PropDateTimeStart)
	start.SetDate(time.Date(a.NewYear.Year, time.Month(a.NewYear.Month), a.NewYear.Day, 0, 0, 0, 0, time.UTC))
	ny.Props.Set(start)
	cal.Children = append(cal.Children, ny.Component)

	for _, term := range a.Terms {
		ev := ical.NewEvent()
		ev.Props.SetText(ical.PropUID, fmt.Sprintf("term-%d-%02d@%s", term.Time.Year, term.Index, icsUIDHost))
		ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
		ev.Props.SetText(ical.PropSummary, term.Name)
		ev.Props.SetText(ical.PropDescription, fmt.Sprintf("%s %s (UTC+8)", term.Name, term.Time))
		ev.Props.SetDateTime(ical.PropDateTimeStart, civilToUTC(term.Time))
		cal.Children = append(cal.Children, ev.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func civilToUTC(c calendar.CivilTime) time.Time {
	return time.Date(c.Year, time.Month(c.Month), c.Day, c.Hour, c.Minute, c.Second, 0, chinaTime).UTC()
}
