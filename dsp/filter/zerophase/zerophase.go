package zerophase

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-ssb/dsp/core"
	"github.com/cwbudde/algo-ssb/dsp/filter/design"
)

var (
	// ErrEmptySignal is returned for a zero-length input.
	ErrEmptySignal = errors.New("zerophase: empty signal")
	// ErrBufferTooShort is returned when the input is not longer than the
	// edge extension required by the filter.
	ErrBufferTooShort = errors.New("zerophase: buffer too short for filter")
)

// Apply filters x forward and then backward through c and returns a new
// slice of the same length. The net phase response is zero and the
// magnitude response is |H|^2.
//
// Both ends are extended by c.PadLen() samples of odd reflection and each
// pass starts from the steady state for its first sample, which keeps the
// edges free of start-up transients. len(x) must exceed c.PadLen().
func Apply(c *design.Coefficients, x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}
	padLen := c.PadLen()
	if len(x) <= padLen {
		return nil, fmt.Errorf("%w: length %d, need > %d", ErrBufferTooShort, len(x), padLen)
	}

	ext := oddExtend(x, padLen)
	chain := c.NewChain()

	chain.SteadyState(ext[0])
	chain.ProcessBlock(ext)

	core.Reverse(ext)
	chain.Reset()
	chain.SteadyState(ext[0])
	chain.ProcessBlock(ext)
	core.Reverse(ext)

	out := make([]float64, len(x))
	copy(out, ext[padLen:padLen+len(x)])

	return out, nil
}

// ApplyComplex runs [Apply] on the real and imaginary parts of x. The
// designed filters have real coefficients, so the two parts never mix.
func ApplyComplex(c *design.Coefficients, x []complex128) ([]complex128, error) {
	re := make([]float64, len(x))
	im := make([]float64, len(x))
	for i, v := range x {
		re[i] = real(v)
		im[i] = imag(v)
	}

	fre, err := Apply(c, re)
	if err != nil {
		return nil, err
	}
	fim, err := Apply(c, im)
	if err != nil {
		return nil, err
	}

	out := make([]complex128, len(x))
	for i := range out {
		out[i] = complex(fre[i], fim[i])
	}

	return out, nil
}

// oddExtend returns x with n samples of odd (point-symmetric) reflection
// about each endpoint. Requires len(x) > n.
func oddExtend(x []float64, n int) []float64 {
	last := len(x) - 1
	ext := make([]float64, len(x)+2*n)

	for i := range n {
		ext[i] = 2*x[0] - x[n-i]
	}
	copy(ext[n:], x)
	for j := range n {
		ext[n+len(x)+j] = 2*x[last] - x[last-1-j]
	}

	return ext
}
