package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMonthCodes_LeapYear(t *testing.T) {
	mt, err := ResolveMonthCodes(2020)
	require.NoError(t, err)

	want := [15]float64{0, 1, 2, 3, 4, 5, 5.5, 6, 7, 8, 9, 10, 11, 12, 13}
	assert.Equal(t, want, mt.Codes)
	assert.Equal(t, 6, mt.LeapSlot())
	assert.Equal(t,
		[15]int{30, 30, 29, 30, 30, 30, 29, 30, 29, 29, 30, 29, 30, 29, 30},
		mt.MonthLengths())
}

func TestResolveMonthCodes_CommonYear(t *testing.T) {
	mt, err := ResolveMonthCodes(2024)
	require.NoError(t, err)

	for i, code := range mt.Codes {
		assert.Equal(t, float64(i), code)
	}
	assert.Equal(t, 0, mt.LeapSlot())
}

func TestResolveMonthCodes_LeapBeforeNewYear(t *testing.T) {
	// The leap 11th month of 2033 opens the 2034 table.
	mt, err := ResolveMonthCodes(2034)
	require.NoError(t, err)

	assert.Equal(t, 0.0, mt.Codes[0])
	assert.Equal(t, 0.5, mt.Codes[1])
	assert.Equal(t, 1.0, mt.Codes[2])
	assert.Equal(t, 1, mt.LeapSlot())

	leap, err := LeapMonth(2034)
	require.NoError(t, err)
	assert.Equal(t, 0, leap)
}

func TestLeapMonth(t *testing.T) {
	tests := []struct {
		year int
		want int
	}{
		{1984, 10},
		{2012, 4},
		{2014, 9},
		{2017, 6},
		{2020, 4},
		{2023, 2},
		{2024, 0},
		{2025, 6},
		{2028, 5},
		{2033, 11},
	}
	for _, tt := range tests {
		got, err := LeapMonth(tt.year)
		require.NoError(t, err)
		if got != tt.want {
			t.Errorf("LeapMonth(%d) = %d, want %d", tt.year, got, tt.want)
		}
	}
}

func TestResolveMonthCodes_AtMostOneLeap(t *testing.T) {
	for y := 1900; y <= 2100; y++ {
		mt, err := ResolveMonthCodes(y)
		require.NoError(t, err)

		leaps := 0
		for i, code := range mt.Codes {
			if isLeapCode(code) {
				leaps++
			}
			if i > 0 {
				assert.Greater(t, code, mt.Codes[i-1], "year %d slot %d", y, i)
			}
		}
		assert.LessOrEqual(t, leaps, 1, "year %d", y)

		for i, n := range mt.MonthLengths() {
			assert.True(t, n == 29 || n == 30, "year %d month %d has %d days", y, i, n)
		}
	}
}
