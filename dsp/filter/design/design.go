package design

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-ssb/dsp/filter/biquad"
)

// MaxOrder bounds the prototype order accepted by [Design].
const MaxOrder = 24

// ErrInvalidSpec is returned (wrapped) for malformed filter parameters.
var ErrInvalidSpec = errors.New("design: invalid filter spec")

// Type selects the response shape.
type Type int

const (
	TypeLowpass Type = iota + 1
	TypeBandpass
)

func (t Type) String() string {
	switch t {
	case TypeLowpass:
		return "lowpass"
	case TypeBandpass:
		return "bandpass"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Spec describes a Butterworth filter. Cutoffs are normalized to the
// Nyquist frequency: one value for lowpass, (low, high) for bandpass.
type Spec struct {
	Type    Type
	Order   int
	Cutoffs []float64
}

// Validate reports whether s can be designed.
func (s Spec) Validate() error {
	if s.Order < 1 || s.Order > MaxOrder {
		return fmt.Errorf("%w: order must be in [1, %d]: %d", ErrInvalidSpec, MaxOrder, s.Order)
	}

	want := 0
	switch s.Type {
	case TypeLowpass:
		want = 1
	case TypeBandpass:
		want = 2
	default:
		return fmt.Errorf("%w: unknown type %v", ErrInvalidSpec, s.Type)
	}
	if len(s.Cutoffs) != want {
		return fmt.Errorf("%w: %v needs %d cutoff(s), got %d", ErrInvalidSpec, s.Type, want, len(s.Cutoffs))
	}

	for i, wc := range s.Cutoffs {
		if math.IsNaN(wc) || wc <= 0 || wc >= 1 {
			return fmt.Errorf("%w: cutoff[%d] must be in (0, 1): %g", ErrInvalidSpec, i, wc)
		}
	}
	if s.Type == TypeBandpass && s.Cutoffs[0] >= s.Cutoffs[1] {
		return fmt.Errorf("%w: bandpass low must be < high: %g >= %g", ErrInvalidSpec, s.Cutoffs[0], s.Cutoffs[1])
	}

	return nil
}

func (s Spec) clone() Spec {
	s.Cutoffs = append([]float64(nil), s.Cutoffs...)
	return s
}

// Coefficients is a designed filter in second-order-section form.
// Values are immutable once returned by [Design] and may be shared between
// goroutines.
type Coefficients struct {
	spec     Spec
	sections []biquad.Coefficients
}

// Spec returns a copy of the spec the coefficients were designed from.
func (c *Coefficients) Spec() Spec { return c.spec.clone() }

// Sections returns a copy of the second-order sections.
func (c *Coefficients) Sections() []biquad.Coefficients {
	return append([]biquad.Coefficients(nil), c.sections...)
}

// NumSections returns the number of second-order sections.
func (c *Coefficients) NumSections() int { return len(c.sections) }

// NewChain returns a fresh, zero-state cascade running these coefficients.
func (c *Coefficients) NewChain() *biquad.Chain {
	return biquad.NewChain(c.sections)
}

// TransferFunction expands the cascade into direct-form numerator (b) and
// denominator (a) polynomials in z^-1, a[0] = 1. Intended for inspection;
// filtering always runs on the sections.
func (c *Coefficients) TransferFunction() (b, a []float64) {
	b = []float64{1}
	a = []float64{1}
	for _, s := range c.sections {
		if s.IsFirstOrder() {
			b = polyMul(b, []float64{s.B0, s.B1})
			a = polyMul(a, []float64{1, s.A1})
			continue
		}
		b = polyMul(b, []float64{s.B0, s.B1, s.B2})
		a = polyMul(a, []float64{1, s.A1, s.A2})
	}
	return b, a
}

// PadLen returns the edge extension used by forward-backward filtering:
// three times the coefficient count of the cascade.
func (c *Coefficients) PadLen() int {
	ntaps := 2*len(c.sections) + 1

	zeroB2, zeroA2 := 0, 0
	for _, s := range c.sections {
		if s.B2 == 0 {
			zeroB2++
		}
		if s.A2 == 0 {
			zeroA2++
		}
	}
	ntaps -= min(zeroB2, zeroA2)

	return 3 * ntaps
}

// Design computes Butterworth coefficients for spec.
func Design(spec Spec) (*Coefficients, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	var sections []biquad.Coefficients
	switch spec.Type {
	case TypeLowpass:
		sections = butterworthLowpass(spec.Order, spec.Cutoffs[0])
	case TypeBandpass:
		sections = butterworthBandpass(spec.Order, spec.Cutoffs[0], spec.Cutoffs[1])
	}

	return &Coefficients{spec: spec.clone(), sections: sections}, nil
}

// Lowpass designs an order-n lowpass with normalized cutoff wc.
func Lowpass(order int, wc float64) (*Coefficients, error) {
	return Design(Spec{Type: TypeLowpass, Order: order, Cutoffs: []float64{wc}})
}

// Bandpass designs an order-n bandpass between normalized cutoffs low and high.
// The resulting filter has order 2n.
func Bandpass(order int, low, high float64) (*Coefficients, error) {
	return Design(Spec{Type: TypeBandpass, Order: order, Cutoffs: []float64{low, high}})
}

// LowpassHz is [Lowpass] with the cutoff in Hz at sample rate fs.
func LowpassHz(order int, cutoffHz, fs float64) (*Coefficients, error) {
	wc, err := normalize(cutoffHz, fs)
	if err != nil {
		return nil, err
	}
	return Lowpass(order, wc)
}

// BandpassHz is [Bandpass] with the cutoffs in Hz at sample rate fs.
func BandpassHz(order int, lowHz, highHz, fs float64) (*Coefficients, error) {
	low, err := normalize(lowHz, fs)
	if err != nil {
		return nil, err
	}
	high, err := normalize(highHz, fs)
	if err != nil {
		return nil, err
	}
	return Bandpass(order, low, high)
}

func normalize(freqHz, fs float64) (float64, error) {
	if math.IsNaN(fs) || math.IsInf(fs, 0) || fs <= 0 {
		return 0, fmt.Errorf("%w: sample rate must be > 0 and finite: %g", ErrInvalidSpec, fs)
	}
	return freqHz / (fs / 2), nil
}

func polyMul(p, q []float64) []float64 {
	out := make([]float64, len(p)+len(q)-1)
	for i, a := range p {
		for j, b := range q {
			out[i+j] += a * b
		}
	}
	return out
}
