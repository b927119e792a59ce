package hilbert

import (
	"errors"
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

var (
	// ErrEmptySignal is returned for a zero-length input.
	ErrEmptySignal = errors.New("hilbert: empty signal")
	// ErrLengthMismatch is returned when a buffer does not match the
	// length a Transformer was built for.
	ErrLengthMismatch = errors.New("hilbert: length mismatch")
)

// Transformer computes analytic signals for buffers of one fixed length.
// It owns its FFT work space and is not safe for concurrent use; create
// one per goroutine.
type Transformer struct {
	n    int
	fwd  *fourier.FFT
	inv  *fourier.CmplxFFT
	spec []complex128
	half []complex128
}

// NewTransformer returns a Transformer for buffers of length n.
func NewTransformer(n int) (*Transformer, error) {
	if n < 1 {
		return nil, ErrEmptySignal
	}

	return &Transformer{
		n:    n,
		fwd:  fourier.NewFFT(n),
		inv:  fourier.NewCmplxFFT(n),
		spec: make([]complex128, n),
		half: make([]complex128, n/2+1),
	}, nil
}

// Len returns the buffer length the Transformer accepts.
func (t *Transformer) Len() int { return t.n }

// Analytic writes the analytic signal of x into dst and returns it. dst is
// allocated when nil; otherwise it must have length Len().
func (t *Transformer) Analytic(dst []complex128, x []float64) ([]complex128, error) {
	if len(x) != t.n {
		return nil, fmt.Errorf("%w: input %d, transformer %d", ErrLengthMismatch, len(x), t.n)
	}
	if dst == nil {
		dst = make([]complex128, t.n)
	} else if len(dst) != t.n {
		return nil, fmt.Errorf("%w: dst %d, transformer %d", ErrLengthMismatch, len(dst), t.n)
	}

	t.half = t.fwd.Coefficients(t.half, x)

	// Bins 1..ceil(n/2)-1 are strictly positive frequencies. For even n the
	// last half-spectrum bin is Nyquist and is shared with the negative side.
	positive := (t.n+1)/2 - 1
	t.spec[0] = t.half[0]
	for k := 1; k <= positive; k++ {
		t.spec[k] = 2 * t.half[k]
	}
	for k := positive + 1; k < t.n; k++ {
		t.spec[k] = 0
	}
	if t.n%2 == 0 {
		t.spec[t.n/2] = t.half[t.n/2]
	}

	dst = t.inv.Sequence(dst, t.spec)

	// gonum leaves the inverse unnormalized.
	scale := complex(1/float64(t.n), 0)
	for i := range dst {
		dst[i] *= scale
	}

	return dst, nil
}

// Analytic returns the analytic signal of x.
func Analytic(x []float64) ([]complex128, error) {
	t, err := NewTransformer(len(x))
	if err != nil {
		return nil, err
	}
	return t.Analytic(nil, x)
}

// Transform returns the Hilbert transform of x, the imaginary part of its
// analytic signal. A cosine maps to the sine of the same frequency.
func Transform(x []float64) ([]float64, error) {
	z, err := Analytic(x)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(z))
	for i, v := range z {
		out[i] = imag(v)
	}
	return out, nil
}

// Envelope returns the magnitude of the analytic signal of x.
func Envelope(x []float64) ([]float64, error) {
	z, err := Analytic(x)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(z))
	for i, v := range z {
		out[i] = cmplx.Abs(v)
	}
	return out, nil
}
