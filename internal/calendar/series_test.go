package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVernalEquinox_Domain(t *testing.T) {
	for _, y := range []int{-8001, 8002} {
		_, err := VernalEquinox(y)
		assert.ErrorIs(t, err, ErrAstronomicalDomain, "year %d", y)
	}
	for _, y := range []int{-8000, 8001} {
		_, err := VernalEquinox(y)
		assert.NoError(t, err, "year %d", y)
	}
}

func TestVernalEquinox_2000(t *testing.T) {
	jd, err := VernalEquinox(2000)
	require.NoError(t, err)
	assert.InDelta(t, 2451623.80984, jd, 1e-9)
}

func TestVernalEquinox_BranchesMeetAt1000(t *testing.T) {
	hi, err := VernalEquinox(1000)
	require.NoError(t, err)
	lo, err := VernalEquinox(999)
	require.NoError(t, err)

	// One tropical year apart, with the two fits agreeing to a few minutes.
	assert.InDelta(t, 365.2422, hi-lo, 0.05)
}

func TestDeltaT_ContinuousAcrossBoundaries(t *testing.T) {
	bounds := []float64{-500, 500, 1600, 1700, 1800, 1860, 1900, 1920, 1941, 1961, 1986, 2005, 2050, 2150}
	for _, b := range bounds {
		jump := (deltaTAt(b) - deltaTAt(b-1e-9)) * 60
		assert.InDelta(t, 0, jump, 0.5, "jump of %.3fs at %v", jump, b)
	}
}

func TestDeltaT_KnownValues(t *testing.T) {
	// Around one minute of clock difference at the turn of the millennium.
	assert.InDelta(t, 63.8/60, DeltaT(2000, 1), 0.01)
	// Several hours in antiquity.
	assert.Greater(t, DeltaT(-500, 1), 4*60.0)
}

func TestPerturbation_Small(t *testing.T) {
	for jd := 2000000.0; jd < 2800000; jd += 12345.6 {
		p := Perturbation(jd)
		assert.Less(t, p, 0.03)
		assert.Greater(t, p, -0.03)
	}
}
