package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolarToLunar(t *testing.T) {
	tests := []struct {
		name  string
		solar SolarDate
		want  LunarDate
	}{
		{"leap fourth month", SolarDate{2020, 5, 23}, LunarDate{2020, 4, 1, true}},
		{"fourth month", SolarDate{2020, 4, 23}, LunarDate{2020, 4, 1, false}},
		{"month after leap", SolarDate{2020, 6, 21}, LunarDate{2020, 5, 1, false}},
		{"new year 2023", SolarDate{2023, 1, 22}, LunarDate{2023, 1, 1, false}},
		{"eve of 2023", SolarDate{2023, 1, 21}, LunarDate{2022, 12, 30, false}},
		{"new year 2024", SolarDate{2024, 2, 10}, LunarDate{2024, 1, 1, false}},
		{"new year 2025", SolarDate{2025, 1, 29}, LunarDate{2025, 1, 1, false}},
		{"civil new year", SolarDate{2024, 1, 1}, LunarDate{2023, 11, 20, false}},
		{"leap eleventh month", SolarDate{2033, 12, 22}, LunarDate{2033, 11, 1, true}},
		{"gregorian reform", SolarDate{1582, 10, 15}, LunarDate{1582, 9, 19, false}},
		{"last julian day", SolarDate{1582, 10, 4}, LunarDate{1582, 9, 18, false}},
		{"lower bound", SolarDate{-1000, 1, 1}, LunarDate{-1001, 11, 20, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SolarToLunar(tt.solar.Year, tt.solar.Month, tt.solar.Day)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSolarToLunar_Invalid(t *testing.T) {
	for _, d := range []SolarDate{{2021, 2, 29}, {1582, 10, 10}, {3001, 1, 1}, {2020, 13, 1}} {
		_, err := SolarToLunar(d.Year, d.Month, d.Day)
		assert.ErrorIs(t, err, ErrOutOfRange, "%v", d)
	}
}

func TestLunarToSolar(t *testing.T) {
	tests := []struct {
		lunar LunarDate
		want  SolarDate
	}{
		{LunarDate{2020, 4, 1, true}, SolarDate{2020, 5, 23}},
		{LunarDate{2020, 4, 29, true}, SolarDate{2020, 6, 20}},
		{LunarDate{2020, 4, 1, false}, SolarDate{2020, 4, 23}},
		{LunarDate{2020, 5, 1, false}, SolarDate{2020, 6, 21}},
		{LunarDate{2033, 11, 1, true}, SolarDate{2033, 12, 22}},
		{LunarDate{2024, 1, 1, false}, SolarDate{2024, 2, 10}},
	}
	for _, tt := range tests {
		got, err := LunarToSolar(tt.lunar.Year, tt.lunar.Month, tt.lunar.Day, tt.lunar.IsLeap)
		require.NoError(t, err, "%v", tt.lunar)
		if got != tt.want {
			t.Errorf("LunarToSolar(%v) = %v, want %v", tt.lunar, got, tt.want)
		}
	}
}

func TestLunarToSolar_Errors(t *testing.T) {
	tests := []struct {
		name  string
		lunar LunarDate
		want  error
	}{
		{"leap month too long", LunarDate{2020, 4, 30, true}, ErrMonthLength},
		{"wrong leap month", LunarDate{2020, 5, 1, true}, ErrLeapMonthMismatch},
		{"year without leap", LunarDate{2021, 4, 1, true}, ErrLeapMonthMismatch},
		{"day zero", LunarDate{2020, 1, 0, false}, ErrOutOfRange},
		{"month thirteen", LunarDate{2020, 13, 1, false}, ErrOutOfRange},
		{"year too late", LunarDate{3001, 1, 1, false}, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LunarToSolar(tt.lunar.Year, tt.lunar.Month, tt.lunar.Day, tt.lunar.IsLeap)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestSolarLunarRoundTrip(t *testing.T) {
	start, _ := SolarToJulian(2019, 1, 1, 12, 0, 0)
	end, _ := SolarToJulian(2022, 1, 1, 12, 0, 0)
	for jd := start; jd < end; jd++ {
		d := JulianToSolar(jd).Date()
		l, err := SolarToLunar(d.Year, d.Month, d.Day)
		require.NoError(t, err, "%v", d)

		back, err := LunarToSolar(l.Year, l.Month, l.Day, l.IsLeap)
		require.NoError(t, err, "%v", l)
		require.Equal(t, d, back, "via %v", l)
	}
}

func TestLunarSolarRoundTrip(t *testing.T) {
	for y := 2015; y <= 2025; y++ {
		leap, err := LeapMonth(y)
		require.NoError(t, err)

		for m := 1; m <= 12; m++ {
			flags := []bool{false}
			if m == leap {
				flags = append(flags, true)
			}
			for _, isLeap := range flags {
				n, err := MonthDays(y, m, isLeap)
				require.NoError(t, err)
				require.True(t, n == 29 || n == 30)

				for d := 1; d <= n; d++ {
					s, err := LunarToSolar(y, m, d, isLeap)
					require.NoError(t, err)
					back, err := SolarToLunar(s.Year, s.Month, s.Day)
					require.NoError(t, err)
					require.Equal(t, LunarDate{y, m, d, isLeap}, back)
				}
			}
		}
	}
}

func TestMonthDays(t *testing.T) {
	n, err := MonthDays(2020, 4, true)
	require.NoError(t, err)
	assert.Equal(t, 29, n)

	n, err = MonthDays(2020, 4, false)
	require.NoError(t, err)
	assert.Equal(t, 30, n)

	n, err = MonthDays(2021, 4, true)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
