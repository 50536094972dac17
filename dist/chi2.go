// Package dist implements functions for the chi-square distribution.
package dist

import (
	"math"

	"github.com/gonum/mathext"
)

// CDFChi2 returns Prob{x<z} where x is Chi2 distributed with df=v.
func CDFChi2(z, v float64) float64 {
	if z <= 0 {
		return 0
	}
	return mathext.GammaInc(v/2, z/2)
}

// SurvivalChi2 returns Prob{x>=z} where x is Chi2 distributed with
// df=v. It keeps precision in the upper tail.
func SurvivalChi2(z, v float64) float64 {
	if z <= 0 {
		return 1
	}
	return mathext.GammaIncComp(v/2, z/2)
}

// QuantileChi2 returns z so that Prob{x<z}=prob where x is Chi2
// distributed with df=v. It returns -1 if v is not positive or prob
// is outside of [0, 1).
func QuantileChi2(prob, v float64) float64 {
	if v <= 0 || prob < 0 || prob >= 1 || math.IsNaN(prob) {
		return -1
	}
	if prob == 0 {
		return 0
	}
	return 2 * mathext.GammaIncInv(v/2, prob)
}
