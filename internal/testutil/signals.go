package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine returns amplitude*sin(2*pi*f*n/fs) for n in [0, length).
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicCosine is the cosine counterpart of [DeterministicSine].
func DeterministicCosine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Cos(step*float64(i))
	}
	return out
}

// DeterministicNoise generates uniform noise in [-amplitude, amplitude)
// from a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at pos. Out-of-range positions give
// an all-zero slice.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// RMS is the root mean square of x, or 0 for an empty slice.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// BestLag returns the lag in [-maxLag, maxLag] that maximizes
// sum(a[i]*b[i+lag]) over the index range [from, to). The caller keeps
// from-maxLag and to+maxLag inside both slices.
func BestLag(a, b []float64, from, to, maxLag int) int {
	best, bestLag := math.Inf(-1), 0
	for lag := -maxLag; lag <= maxLag; lag++ {
		sum := 0.0
		for i := from; i < to; i++ {
			sum += a[i] * b[i+lag]
		}
		if sum > best {
			best, bestLag = sum, lag
		}
	}
	return bestLag
}
