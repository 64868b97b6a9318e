package calendar

import (
	"fmt"
	"math"
)

const (
	// SynodicMonth is the mean length of the synodic month in days.
	SynodicMonth = 29.530588853

	// NewMoonEpoch is the first mean new moon of 2000, 2000-01-06 14:20:36 TT.
	NewMoonEpoch = 2451550.09765

	newMoonsComputed = 20
	newMoonWindow    = 16
)

// MeanNewMoon returns the index k of the synodic month containing jd,
// counted from NewMoonEpoch, and the Julian day of its mean new moon.
func MeanNewMoon(jd float64) (float64, float64) {
	kn := math.Floor((jd - NewMoonEpoch) / SynodicMonth)
	jdt := NewMoonEpoch + kn*SynodicMonth

	t := (jdt - J2000) / 36525
	return kn, jdt + 0.0001337*t*t - 0.00000015*t*t*t + 0.00000000073*t*t*t*t
}

// TrueNewMoon returns the Julian day (dynamical time) of the k-th new moon
// after NewMoonEpoch, corrected by the periodic terms of the lunar theory
// and by the planetary arguments.
func TrueNewMoon(k float64) float64 {
	jdt := NewMoonEpoch + k*SynodicMonth
	t := (jdt - J2000) / 36525
	t2 := t * t
	t3 := t2 * t
	t4 := t3 * t

	// mean time of phase
	pt := jdt + 0.0001337*t2 - 0.00000015*t3 + 0.00000000073*t4

	// Sun's mean anomaly
	m := 2.5534 + 29.10535669*k - 0.0000218*t2 - 0.00000011*t3
	// Moon's mean anomaly
	mp := 201.5643 + 385.81693528*k + 0.0107438*t2 + 0.00001239*t3 - 0.000000058*t4
	// Moon's argument of latitude
	f := 160.7108 + 390.67050274*k - 0.0016341*t2 - 0.00000227*t3 + 0.000000011*t4
	// longitude of the ascending node
	omega := 124.7746 - 1.5637558*k + 0.0020691*t2 + 0.00000215*t3

	// eccentricity of the Earth's orbit
	es := 1 - 0.002516*t - 0.0000074*t2

	sin := func(x float64) float64 { return math.Sin(deg * x) }

	apt1 := -0.4072 * sin(mp)
	apt1 += 0.17241 * es * sin(m)
	apt1 += 0.01608 * sin(2*mp)
	apt1 += 0.01039 * sin(2*f)
	apt1 += 0.00739 * es * sin(mp-m)
	apt1 -= 0.00514 * es * sin(mp+m)
	apt1 += 0.00208 * es * es * sin(2*m)
	apt1 -= 0.00111 * sin(mp-2*f)
	apt1 -= 0.00057 * sin(mp+2*f)
	apt1 += 0.00056 * es * sin(2*mp+m)
	apt1 -= 0.00042 * sin(3*mp)
	apt1 += 0.00042 * es * sin(m+2*f)
	apt1 += 0.00038 * es * sin(m-2*f)
	apt1 -= 0.00024 * es * sin(2*mp-m)
	apt1 -= 0.00017 * sin(omega)
	apt1 -= 0.00007 * sin(mp+2*m)
	apt1 += 0.00004 * sin(2*mp-2*f)
	apt1 += 0.00004 * sin(3*m)
	apt1 += 0.00003 * sin(mp+m-2*f)
	apt1 += 0.00003 * sin(2*mp+2*f)
	apt1 -= 0.00003 * sin(mp+m+2*f)
	apt1 += 0.00003 * sin(mp-m+2*f)
	apt1 -= 0.00002 * sin(mp-m-2*f)
	apt1 -= 0.00002 * sin(3*mp+m)
	apt1 += 0.00002 * sin(4*mp)

	apt2 := 0.000325 * sin(299.77+0.107408*k-0.009173*t2)
	apt2 += 0.000165 * sin(251.88+0.016321*k)
	apt2 += 0.000164 * sin(251.83+26.651886*k)
	apt2 += 0.000126 * sin(349.42+36.412478*k)
	apt2 += 0.00011 * sin(84.66+18.206239*k)
	apt2 += 0.000062 * sin(141.74+53.303771*k)
	apt2 += 0.00006 * sin(207.14+2.453732*k)
	apt2 += 0.000056 * sin(154.84+7.30686*k)
	apt2 += 0.000047 * sin(34.52+27.261239*k)
	apt2 += 0.000042 * sin(207.19+0.121824*k)
	apt2 += 0.00004 * sin(291.34+1.844379*k)
	apt2 += 0.000037 * sin(161.72+24.198154*k)
	apt2 += 0.000035 * sin(239.56+25.513099*k)
	apt2 += 0.000023 * sin(331.55+3.592518*k)

	return pt + apt1 + apt2
}

// NewMoonsSinceWinterSolstice returns 16 consecutive new moons on the UTC+8
// civil clock. Element 0 is the new moon that starts the lunar month
// containing winterSolstice (the 11th month of year-1).
func NewMoonsSinceWinterSolstice(year int, winterSolstice float64) ([]float64, error) {
	// Start from the synodic month around November 1 of the previous year.
	kn, _ := MeanNewMoon(civilToJD(year-1, 11, 1, 0, 0, 0))

	var tjd [newMoonsComputed]float64
	for i := range tjd {
		tjd[i] = TrueNewMoon(kn+float64(i)) + beijingOffset
		// Month i-1: -1 is November of the previous year, 0 December.
		tjd[i] -= DeltaT(year, i-1) / minutesPerDay
	}

	// First new moon falling on a later day than the solstice.
	j := 0
	for ; j < newMoonsComputed-1; j++ {
		if dayNumber(tjd[j]) > dayNumber(winterSolstice) {
			break
		}
	}
	if j == 0 || j-1+newMoonWindow > newMoonsComputed {
		return nil, fmt.Errorf("%w: cannot anchor new moons for %d", ErrOutOfRange, year)
	}

	out := make([]float64, newMoonWindow)
	copy(out, tjd[j-1:j-1+newMoonWindow])
	return out, nil
}
