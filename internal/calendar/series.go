package calendar

import (
	"fmt"
	"math"
)

// Amplitudes, phases (degrees) and rates (degrees per Julian century) of
// the 24 periodic terms that perturb the Sun's apparent longitude.
var (
	perturbAmp = [24]float64{
		485, 203, 199, 182, 156, 136, 77, 74, 70, 58, 52, 50,
		45, 44, 29, 18, 17, 16, 14, 12, 12, 12, 9, 8,
	}
	perturbPhase = [24]float64{
		324.96, 337.23, 342.08, 27.85, 73.14, 171.52, 222.54, 296.72, 243.58, 119.81, 297.17, 21.02,
		247.54, 325.15, 60.93, 155.12, 288.79, 198.04, 199.76, 95.39, 287.11, 320.81, 227.73, 15.45,
	}
	perturbRate = [24]float64{
		1934.136, 32964.467, 20.186, 445267.112, 45036.886, 22518.443, 65928.934, 3034.906, 9037.513, 33718.147, 150.678, 2281.226,
		29929.562, 31555.956, 4443.417, 67555.328, 4562.452, 62894.029, 31436.921, 14577.848, 31931.756, 34777.259, 1222.114, 16859.074,
	}
)

const deg = math.Pi / 180

// VernalEquinox returns the Julian day (dynamical time) of the March
// equinox of year. Years outside [-8000, 8001] return ErrAstronomicalDomain.
func VernalEquinox(year int) (float64, error) {
	if year < -8000 || year > 8001 {
		return 0, fmt.Errorf("%w: %d", ErrAstronomicalDomain, year)
	}
	if year >= 1000 {
		m := float64(year-2000) / 1000
		return 2451623.80984 + 365242.37404*m + 0.05169*m*m - 0.00411*m*m*m - 0.00057*m*m*m*m, nil
	}
	m := float64(year) / 1000
	return 1721139.29189 + 365242.1374*m + 0.06134*m*m + 0.00111*m*m*m - 0.00071*m*m*m*m, nil
}

// Perturbation returns the correction, in days, to add to a mean solar term
// at jd to account for planetary perturbation of the Earth's orbit.
func Perturbation(jd float64) float64 {
	t := (jd - J2000) / 36525

	s := 0.0
	for k := range perturbAmp {
		s += perturbAmp[k] * math.Cos(perturbPhase[k]*2*math.Pi/360+perturbRate[k]*2*math.Pi/360*t)
	}

	w := 35999.373*t - 2.47
	l := 1 + 0.0334*math.Cos(w*2*math.Pi/360) + 0.0007*math.Cos(2*w*2*math.Pi/360)

	return 0.00001 * s / l
}

// DeltaT returns TT - UT in minutes for the middle of the given month.
// month may run outside 1..12; it only shifts the fractional year.
func DeltaT(year, month int) float64 {
	return deltaTAt(float64(year) + (float64(month)-0.5)/12)
}

// deltaTAt evaluates the piecewise ΔT fit at fractional year y.
func deltaTAt(y float64) float64 {
	var dt float64
	switch {
	case y <= -500:
		u := (y - 1820) / 100
		dt = -20 + 32*u*u
	case y < 500:
		u := y / 100
		dt = 10583.6 - 1014.41*u + 33.78311*u*u - 5.952053*u*u*u - 0.1798452*u*u*u*u +
			0.022174192*u*u*u*u*u + 0.0090316521*u*u*u*u*u*u
	case y < 1600:
		u := (y - 1000) / 100
		dt = 1574.2 - 556.01*u + 71.23472*u*u + 0.319781*u*u*u - 0.8503463*u*u*u*u -
			0.005050998*u*u*u*u*u + 0.0083572073*u*u*u*u*u*u
	case y < 1700:
		t := y - 1600
		dt = 120 - 0.9808*t - 0.01532*t*t + t*t*t/7129
	case y < 1800:
		t := y - 1700
		dt = 8.83 + 0.1603*t - 0.0059285*t*t + 0.00013336*t*t*t - t*t*t*t/1174000
	case y < 1860:
		t := y - 1800
		dt = 13.72 - 0.332447*t + 0.0068612*t*t + 0.0041116*t*t*t - 0.00037436*t*t*t*t +
			0.0000121272*t*t*t*t*t - 0.0000001699*t*t*t*t*t*t + 0.000000000875*t*t*t*t*t*t*t
	case y < 1900:
		t := y - 1860
		dt = 7.62 + 0.5737*t - 0.251754*t*t + 0.01680668*t*t*t - 0.0004473624*t*t*t*t + t*t*t*t*t/233174
	case y < 1920:
		t := y - 1900
		dt = -2.79 + 1.494119*t - 0.0598939*t*t + 0.0061966*t*t*t - 0.000197*t*t*t*t
	case y < 1941:
		t := y - 1920
		dt = 21.2 + 0.84493*t - 0.0761*t*t + 0.0020936*t*t*t
	case y < 1961:
		t := y - 1950
		dt = 29.07 + 0.407*t - t*t/233 + t*t*t/2547
	case y < 1986:
		t := y - 1975
		dt = 45.45 + 1.067*t - t*t/260 - t*t*t/718
	case y < 2005:
		t := y - 2000
		dt = 63.86 + 0.3345*t - 0.060374*t*t + 0.0017275*t*t*t + 0.000651814*t*t*t*t + 0.00002373599*t*t*t*t*t
	case y < 2050:
		t := y - 2000
		dt = 62.92 + 0.32217*t + 0.005589*t*t
	case y < 2150:
		u := (y - 1820) / 100
		dt = -20 + 32*u*u - 0.5628*(2150-y)
	default:
		u := (y - 1820) / 100
		dt = -20 + 32*u*u
	}

	if y < 1955 || y >= 2005 {
		dt -= 0.000012932 * (y - 1955) * (y - 1955)
	}

	// seconds to minutes
	return dt / 60
}
