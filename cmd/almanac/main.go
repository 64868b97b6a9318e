// Command almanac prints lunisolar calendar data from the command line and
// can fill the almanac cache of a database ahead of time.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/zapponejosh/lunisolar-api/internal/almanac"
	"github.com/zapponejosh/lunisolar-api/internal/calendar"
	"github.com/zapponejosh/lunisolar-api/internal/database"
)

const usage = `usage: almanac <command> [flags]

commands:
  year   -year N            months and solar terms of a lunar year
  solar  -date YYYY-MM-DD   convert a civil date to the lunar calendar
  lunar  -date YYYY-MM-DD [-leap]
                            convert a lunar date to the civil calendar
  bazi   -at "YYYY-MM-DD hh:mm:ss" [-sex male|female]
                            four pillars, and luck pillars when -sex is set
  warm   -db PATH -from N -to N
                            fill the almanac cache of a database
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "year":
		err = runYear(os.Stdout, args)
	case "solar":
		err = runSolar(os.Stdout, args)
	case "lunar":
		err = runLunar(os.Stdout, args)
	case "bazi":
		err = runBaZi(os.Stdout, args)
	case "warm":
		err = runWarm(os.Stdout, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "almanac: %v\n", err)
		os.Exit(1)
	}
}

func runYear(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("year", flag.ExitOnError)
	year := fs.Int("year", 2025, "lunar year")
	fs.Parse(args)

	a, err := almanac.Build(*year)
	if err != nil {
		return err
	}

	leap := "none"
	if a.LeapMonth > 0 {
		leap = calendar.MonthName(a.LeapMonth) + "月"
	}
	fmt.Fprintf(w, "=== %d %s年 (%s) ===\n\n", a.Year, a.YearPillar, a.Zodiac)
	fmt.Fprintf(w, "New year:   %s\n", a.NewYear)
	fmt.Fprintf(w, "Leap month: %s\n", leap)
	fmt.Fprintf(w, "Days:       %d\n\n", a.DayCount())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Month\tFirst day\tDays")
	for _, m := range a.Months {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", m.Name, m.FirstDay, m.Days)
	}
	tw.Flush()

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Term\tTime (UTC+8)")
	for _, t := range a.Terms {
		fmt.Fprintf(tw, "%s\t%s\n", t.Name, t.Time)
	}
	return tw.Flush()
}

func runSolar(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("solar", flag.ExitOnError)
	date := fs.String("date", "", "civil date, YYYY-MM-DD")
	fs.Parse(args)

	y, m, d, err := splitDate(*date)
	if err != nil {
		return err
	}
	s, err := calendar.NewSolarDate(y, m, d)
	if err != nil {
		return err
	}
	l, err := s.Lunar()
	if err != nil {
		return err
	}

	printDay(w, s, l)
	return nil
}

func runLunar(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("lunar", flag.ExitOnError)
	date := fs.String("date", "", "lunar date, YYYY-MM-DD")
	leap := fs.Bool("leap", false, "the month is a leap month")
	fs.Parse(args)

	y, m, d, err := splitDate(*date)
	if err != nil {
		return err
	}
	l, err := calendar.NewLunarDate(y, m, d, *leap)
	if err != nil {
		return err
	}
	s, err := l.Solar()
	if err != nil {
		return err
	}

	printDay(w, s, l)
	return nil
}

func runBaZi(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("bazi", flag.ExitOnError)
	at := fs.String("at", "", `civil time on the UTC+8 clock, "YYYY-MM-DD hh:mm:ss"`)
	sex := fs.String("sex", "", "male or female; prints luck pillars")
	fs.Parse(args)

	t, err := splitDateTime(*at)
	if err != nil {
		return err
	}

	if *sex == "" {
		p, err := calendar.GanZhi(t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second, true)
		if err != nil {
			return err
		}
		printPillars(w, p)
		return nil
	}

	var male bool
	switch strings.ToLower(*sex) {
	case "male", "m":
		male = true
	case "female", "f":
	default:
		return fmt.Errorf("invalid sex %q", *sex)
	}

	c, err := calendar.Fate(male, t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second)
	if err != nil {
		return err
	}
	printPillars(w, c.Pillars)

	direction := "descending"
	if c.Ascending {
		direction = "ascending"
	}
	fmt.Fprintf(w, "\nLuck pillars (%s), %s at %s\n\n", direction, c.OnsetDescription(), c.Onset)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, name := range c.LuckNames() {
		fmt.Fprintf(tw, "%2d\t%s\t%s\n", i+1, name, c.LuckStarts[i].Date())
	}
	return tw.Flush()
}

func runWarm(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("warm", flag.ExitOnError)
	path := fs.String("db", "./data/almanac.db", "SQLite database path")
	from := fs.Int("from", 1900, "first year")
	to := fs.Int("to", 2100, "last year")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.Background()

	db, err := database.Open(database.DefaultConfig(*path), logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Migrate(ctx); err != nil {
		return err
	}

	n, err := almanac.NewService(db, logger).Warm(ctx, *from, *to)
	if err != nil {
		return err
	}

	stats, err := db.AlmanacStats(ctx, almanac.SchemaVersion)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "computed %d years; cache holds %d (%d stale)\n", n, stats.Years, stats.Stale)
	return nil
}

func printDay(w io.Writer, s calendar.SolarDate, l calendar.LunarDate) {
	stem, branch := calendar.YearGanZhi(l.Year)
	fmt.Fprintf(w, "Solar:  %s 星期%s %s\n", s, calendar.WeekdayNames[s.Weekday()], s.WesternZodiacName())
	fmt.Fprintf(w, "Lunar:  %s %s\n", l, l.Name())
	fmt.Fprintf(w, "Year:   %s (%s)\n", calendar.GanZhiName(stem, branch), calendar.Animals[branch])
}

func printPillars(w io.Writer, p calendar.Pillars) {
	names := p.Names()
	fmt.Fprintf(w, "Year   Month  Day    Hour\n")
	fmt.Fprintf(w, "%s   %s   %s   %s\n", names[0], names[1], names[2], names[3])
	fmt.Fprintf(w, "\nZodiac: %s\nJie:    %s %s\n", p.Zodiac(), p.Jie().Name, p.Jie().Time)
}

// splitDate parses YYYY-MM-DD, allowing a negative year.
func splitDate(s string) (year, month, day int, err error) {
	neg := strings.HasPrefix(s, "-")
	parts := strings.Split(strings.TrimPrefix(s, "-"), "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}

	var n [3]int
	for i, p := range parts {
		if n[i], err = strconv.Atoi(p); err != nil {
			return 0, 0, 0, fmt.Errorf("invalid date %q: %w", s, err)
		}
	}
	if neg {
		n[0] = -n[0]
	}
	return n[0], n[1], n[2], nil
}

// splitDateTime parses "YYYY-MM-DD hh:mm[:ss]"; the time may be omitted.
func splitDateTime(s string) (calendar.CivilTime, error) {
	date, clock, _ := strings.Cut(strings.Replace(strings.TrimSpace(s), "T", " ", 1), " ")

	y, m, d, err := splitDate(date)
	if err != nil {
		return calendar.CivilTime{}, err
	}
	t := calendar.CivilTime{Year: y, Month: m, Day: d}
	if clock == "" {
		return t, nil
	}

	fields := strings.Split(clock, ":")
	if len(fields) < 2 || len(fields) > 3 {
		return calendar.CivilTime{}, fmt.Errorf("invalid time %q: use hh:mm[:ss]", clock)
	}
	hms := []*int{&t.Hour, &t.Minute, &t.Second}
	for i, f := range fields {
		if *hms[i], err = strconv.Atoi(f); err != nil {
			return calendar.CivilTime{}, fmt.Errorf("invalid time %q: %w", clock, err)
		}
	}
	return t, nil
}
