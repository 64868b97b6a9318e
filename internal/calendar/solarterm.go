package calendar

import (
	"fmt"
	"math"
)

// Solar terms are indexed from the vernal equinox: term k is reached when
// the Sun's apparent longitude is k*15 degrees. Even indices are zhongqi
// (mid-terms), odd indices are jie (nodes). Two extra terms past the 24th
// are computed so a full civil year is always covered.
const (
	termsPerYear  = 24
	termsComputed = termsPerYear + 2
	termWinterSol = 18
	termMinorCold = 19
	termSpringBeg = 21
	termsSinceSpr = 16
	zhongqiWindow = 15
	beijingOffset = 1.0 / 3
	minutesPerDay = 1440
)

// MeanTerms returns the 26 unperturbed solar terms of year as Julian days
// (dynamical time), term 0 being the vernal equinox. The Sun's motion is
// interpolated on a Kepler orbit whose period is the year's tropical year.
func MeanTerms(year int) ([]float64, error) {
	jd, err := VernalEquinox(year)
	if err != nil {
		return nil, err
	}
	next, err := VernalEquinox(year + 1)
	if err != nil {
		return nil, err
	}
	ty := next - jd

	ath := 2 * math.Pi / termsPerYear
	tx := (jd - J2000) / 365250
	e := 0.0167086342 - 0.0004203654*tx - 0.0000126734*tx*tx + 0.0000001444*tx*tx*tx -
		0.0000000002*tx*tx*tx*tx + 0.0000000003*tx*tx*tx*tx*tx
	tt := float64(year) / 1000
	vp := 111.25586939 - 17.0119934518333*tt - 0.044091890166673*tt*tt -
		4.37356166661345e-04*tt*tt*tt + 8.16716666602386e-06*tt*tt*tt*tt
	rvp := vp * 2 * math.Pi / 360

	peri := make([]float64, termsComputed)
	for i := range peri {
		flag := 0
		th := ath*float64(i) + rvp
		if th > math.Pi && th <= 3*math.Pi {
			th = 2*math.Pi - th
			flag = 1
		}
		if th > 3*math.Pi {
			th = 4*math.Pi - th
			flag = 2
		}

		f1 := 2 * math.Atan(math.Sqrt((1-e)/(1+e))*math.Tan(th/2))
		f2 := (e * math.Sqrt(1-e*e) * math.Sin(th)) / (1 + e*math.Cos(th))
		f := (f1 - f2) * ty / 2 / math.Pi
		switch flag {
		case 1:
			f = ty - f
		case 2:
			f = 2*ty - f
		}
		peri[i] = f
	}

	terms := make([]float64, termsComputed)
	for i := range terms {
		terms[i] = jd + peri[i] - peri[0]
	}
	return terms, nil
}

// AdjustedTerms returns the solar terms start..end (inclusive, 0..25) of
// year on the UTC+8 civil clock: the mean term plus its perturbation, minus
// ΔT. Element i of the result is term start+i.
func AdjustedTerms(year, start, end int) ([]float64, error) {
	if start < 0 || end >= termsComputed || start > end {
		return nil, fmt.Errorf("%w: term range %d..%d", ErrOutOfRange, start, end)
	}
	mean, err := MeanTerms(year)
	if err != nil {
		return nil, err
	}

	out := make([]float64, 0, end-start+1)
	for k := start; k <= end; k++ {
		jd := mean[k]
		// The ΔT month walks in half steps: terms 0..1 sit near March/April.
		dt := DeltaT(year, (k+1)/2+3)
		out = append(out, jd+Perturbation(jd)-dt/minutesPerDay+beijingOffset)
	}
	return out, nil
}

// TermsSinceSpring returns the 16 jie (odd-indexed terms) bounding the
// sexagenary months of year. Element 0 is the minor cold of year-1,
// element 1 the start of spring, and the rest run through the minor cold
// that ends the following January.
func TermsSinceSpring(year int) ([]float64, error) {
	prev, err := AdjustedTerms(year-1, termMinorCold, termsPerYear-1)
	if err != nil {
		return nil, err
	}
	cur, err := AdjustedTerms(year, 0, termsComputed-1)
	if err != nil {
		return nil, err
	}

	out := make([]float64, 0, termsSinceSpr)
	for i, jd := range prev {
		if (termMinorCold+i)%2 == 1 {
			out = append(out, jd)
		}
	}
	for k, jd := range cur {
		if k%2 == 1 {
			out = append(out, jd)
		}
	}
	return out, nil
}

// ZhongQiSinceWinterSolstice returns 15 consecutive zhongqi starting with
// the winter solstice of year-1.
func ZhongQiSinceWinterSolstice(year int) ([]float64, error) {
	prev, err := AdjustedTerms(year-1, termWinterSol, termsPerYear-1)
	if err != nil {
		return nil, err
	}
	cur, err := AdjustedTerms(year, 0, termsPerYear-1)
	if err != nil {
		return nil, err
	}

	out := make([]float64, 0, zhongqiWindow)
	for i, jd := range prev {
		if (termWinterSol+i)%2 == 0 {
			out = append(out, jd)
		}
	}
	for k, jd := range cur {
		if k%2 == 0 {
			out = append(out, jd)
		}
	}
	return out, nil
}
