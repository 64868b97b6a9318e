package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanTerms_SpansTropicalYear(t *testing.T) {
	for _, y := range []int{-1000, 0, 1582, 2000, 2024, 3000} {
		terms, err := MeanTerms(y)
		require.NoError(t, err)
		require.Len(t, terms, 26)

		ve, _ := VernalEquinox(y)
		next, _ := VernalEquinox(y + 1)
		assert.InDelta(t, ve, terms[0], 1e-9, "year %d", y)
		assert.InDelta(t, next-ve, terms[24]-terms[0], 1e-6, "year %d", y)

		for k := 1; k < len(terms); k++ {
			step := terms[k] - terms[k-1]
			assert.True(t, step > 14.5 && step < 16, "year %d term %d step %.3f", y, k, step)
		}
	}
}

func TestMeanTerms_Domain(t *testing.T) {
	_, err := MeanTerms(9000)
	assert.ErrorIs(t, err, ErrAstronomicalDomain)
}

func TestAdjustedTerms_Range(t *testing.T) {
	terms, err := AdjustedTerms(2024, 21, 23)
	require.NoError(t, err)
	require.Len(t, terms, 3)

	_, err = AdjustedTerms(2024, 5, 26)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = AdjustedTerms(2024, 4, 3)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestAdjustedTerms_2024(t *testing.T) {
	terms, err := AdjustedTerms(2024, 0, 25)
	require.NoError(t, err)

	tests := []struct {
		k    int
		want CivilTime
	}{
		{0, CivilTime{2024, 3, 20, 11, 6, 30}},  // vernal equinox
		{6, CivilTime{2024, 6, 21, 4, 50, 41}},  // summer solstice
		{18, CivilTime{2024, 12, 21, 17, 20, 8}}, // winter solstice
		{20, CivilTime{2025, 1, 20, 4, 0, 12}},  // greater cold
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JulianToSolar(terms[tt.k]), "term %d", tt.k)
	}
}

func TestTermsSinceSpring(t *testing.T) {
	terms, err := TermsSinceSpring(2024)
	require.NoError(t, err)
	require.Len(t, terms, 16)

	wantDates := []SolarDate{
		{2024, 1, 6}, {2024, 2, 4}, {2024, 3, 5}, {2024, 4, 4},
		{2024, 5, 5}, {2024, 6, 5}, {2024, 7, 6}, {2024, 8, 7},
		{2024, 9, 7}, {2024, 10, 8}, {2024, 11, 7}, {2024, 12, 6},
		{2025, 1, 5}, {2025, 2, 3}, {2025, 3, 5}, {2025, 4, 4},
	}
	for i, jd := range terms {
		assert.Equal(t, wantDates[i], JulianToSolar(jd).Date(), "jie %d", i)
		if i > 0 {
			assert.Greater(t, jd, terms[i-1])
		}
	}
}

func TestZhongQiSinceWinterSolstice(t *testing.T) {
	zq, err := ZhongQiSinceWinterSolstice(2024)
	require.NoError(t, err)
	require.Len(t, zq, 15)

	assert.Equal(t, CivilTime{2023, 12, 22, 11, 27, 19}, JulianToSolar(zq[0]))
	assert.Equal(t, CivilTime{2024, 3, 20, 11, 6, 30}, JulianToSolar(zq[3]))
	for i := 1; i < len(zq); i++ {
		step := zq[i] - zq[i-1]
		assert.True(t, step > 29 && step < 32, "zhongqi %d step %.3f", i, step)
	}
}

func TestSolarTerms(t *testing.T) {
	terms, err := SolarTerms(2024)
	require.NoError(t, err)
	require.Len(t, terms, 24)

	assert.Equal(t, "立春", terms[0].Name)
	assert.Equal(t, 21, terms[0].Index)
	assert.Equal(t, CivilTime{2024, 2, 4, 16, 27, 2}, terms[0].Time)
	assert.Equal(t, "春分", terms[3].Name)
	assert.Equal(t, "大寒", terms[23].Name)
	assert.Equal(t, SolarDate{2025, 1, 20}, terms[23].Time.Date())

	for i := 1; i < len(terms); i++ {
		assert.Equal(t, (terms[i-1].Index+1)%24, terms[i].Index)
		assert.Greater(t, terms[i].JD, terms[i-1].JD)
	}
}

func TestSolarTerms_OutOfRange(t *testing.T) {
	_, err := SolarTerms(3001)
	assert.ErrorIs(t, err, ErrOutOfRange)
}
