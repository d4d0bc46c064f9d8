package screen

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

const defaultAlpha = 0.05

// Interval is a two-sided confidence interval on a proportion.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// WilsonCI computes the Wilson score interval for a binomial proportion.
// Preferred over the normal approximation for the small proportions this
// study reports (Brown et al. 2001).
func WilsonCI(p float64, n int, alpha float64) Interval {
	if n <= 0 {
		return Interval{}
	}

	z := distuv.UnitNormal.Quantile(1 - alpha/2)
	nf := float64(n)

	denom := 1 + z*z/nf
	centre := (p + z*z/(2*nf)) / denom
	spread := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom

	return Interval{Lower: centre - spread, Upper: centre + spread}
}
