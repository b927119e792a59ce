package core

import (
	"math"

	"github.com/tphakala/simd/f64"
)

const defaultEpsilon = 1e-12

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// DBPowerToLinear converts dB to linear power (10*log10 convention).
func DBPowerToLinear(db float64) float64 {
	return math.Pow(10, db/10)
}

// LinearPowerToDB converts linear power to dB (10*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearPowerToDB(power float64) float64 {
	if power < 0 {
		return math.NaN()
	}

	if power == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(power)
}

// MeanPower returns mean(x[i]^2). Returns 0 for an empty slice.
func MeanPower(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	return f64.DotProduct(x, x) / float64(len(x))
}

// RMS returns the root-mean-square level of x.
func RMS(x []float64) float64 {
	return math.Sqrt(MeanPower(x))
}

// PeakAbs returns max(|x[i]|).
func PeakAbs(x []float64) float64 {
	peak := 0.0
	for _, v := range x {
		if av := math.Abs(v); av > peak {
			peak = av
		}
	}

	return peak
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FirstNonFinite returns the index of the first NaN or Inf sample, or -1.
func FirstNonFinite(x []float64) int {
	for i, v := range x {
		if !IsFinite(v) {
			return i
		}
	}

	return -1
}
