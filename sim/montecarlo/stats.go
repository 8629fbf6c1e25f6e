package montecarlo

import (
	"math"
	"math/big"

	"gonum.org/v1/gonum/stat/distuv"
)

// AverageDowntime returns sum/trials as an exact rational.
func AverageDowntime(sum, trials int64) *big.Rat {
	return new(big.Rat).SetFrac(big.NewInt(sum), big.NewInt(trials))
}

// AvailabilityPercent returns 100 * (1 - avg/yearMinutes), exactly.
func AvailabilityPercent(avg *big.Rat, yearMinutes int64) *big.Rat {
	share := new(big.Rat).Quo(avg, new(big.Rat).SetInt64(yearMinutes))
	up := new(big.Rat).Sub(big.NewRat(1, 1), share)
	return up.Mul(up, big.NewRat(100, 1))
}

// SampleVariance returns the unbiased sample variance of n observations from
// their sum and sum of squares: (n*sumSq - sum^2) / (n*(n-1)). Zero when n < 2.
func SampleVariance(n, sum, sumSq int64) *big.Rat {
	if n < 2 {
		return new(big.Rat)
	}
	bn := big.NewInt(n)
	num := new(big.Int).Mul(big.NewInt(sumSq), bn)
	s := big.NewInt(sum)
	num.Sub(num, s.Mul(s, s))
	den := new(big.Int).Mul(bn, big.NewInt(n-1))
	return new(big.Rat).SetFrac(num, den)
}

// StandardError returns sqrt(variance / n).
func StandardError(variance *big.Rat, n int64) float64 {
	if n == 0 {
		return 0
	}
	v, _ := variance.Float64()
	return math.Sqrt(v / float64(n))
}

// ConfidenceHalfWidth returns the half-width of a two-sided normal-approximation
// confidence interval at the given level (e.g. 0.95).
func ConfidenceHalfWidth(stdErr, level float64) float64 {
	if level <= 0 || level >= 1 {
		return 0
	}
	z := distuv.UnitNormal.Quantile(0.5 + level/2)
	return z * stdErr
}
