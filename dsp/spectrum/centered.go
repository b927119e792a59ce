package spectrum

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Centered returns the two-sided magnitude spectrum of x at sample rate fs.
// freqs runs from the most negative frequency to the most positive one
// with spacing fs/len(x); mags holds |X| in the same order. The transform
// is unnormalized and accepts any length.
func Centered(x []float64, fs float64) (freqs, mags []float64, err error) {
	if len(x) == 0 {
		return nil, nil, ErrEmptySignal
	}
	if !validSampleRate(fs) {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, fs)
	}

	n := len(x)
	seq := make([]complex128, n)
	for i, v := range x {
		seq[i] = complex(v, 0)
	}

	coeffs := fourier.NewCmplxFFT(n).Coefficients(nil, seq)

	raw := make([]float64, n)
	magnitudeInto(raw, coeffs)

	mags = make([]float64, n)
	shiftInto(mags, raw)

	return Frequencies(n, fs), mags, nil
}
