package ssb

import (
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-ssb/dsp/filter/zerophase"
)

// Demodulator recovers a baseband signal from a single-sideband signal
// around fc.
type Demodulator interface {
	Demodulate(r []float64, fc, fs float64) ([]float64, error)
	Kind() DemodulatorKind
}

// NewDemodulator returns the demodulator for kind.
func NewDemodulator(kind DemodulatorKind, opts ...Option) (Demodulator, error) {
	switch kind {
	case DemodulatorCoherent:
		return NewCoherentDemodulator(opts...)
	case DemodulatorButterworth:
		return NewButterworthDemodulator(opts...)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownStrategy, kind)
	}
}

// CoherentDemodulator is a product detector: r*cos(wc*t) followed by a
// zero-phase Butterworth lowpass. It assumes a carrier reference locked in
// frequency and phase to the transmitter.
type CoherentDemodulator struct {
	opts options
}

// NewCoherentDemodulator returns a coherent demodulator. The lowpass
// defaults to order [DefaultLowpassOrder] at [DefaultCoherentCutoffHz].
func NewCoherentDemodulator(opts ...Option) (*CoherentDemodulator, error) {
	o, err := applyOptions(DefaultLowpassOrder, opts)
	if err != nil {
		return nil, err
	}
	return &CoherentDemodulator{opts: o}, nil
}

// Kind returns DemodulatorCoherent.
func (d *CoherentDemodulator) Kind() DemodulatorKind { return DemodulatorCoherent }

// CutoffHz returns the lowpass cutoff used at sample rate fs.
func (d *CoherentDemodulator) CutoffHz(fs float64) float64 {
	return d.opts.lowpassCutoffHz(fs, DefaultCoherentCutoffHz, 0)
}

// Demodulate returns DemodulatorGain * lowpass(r*cos(wc*t)).
func (d *CoherentDemodulator) Demodulate(r []float64, fc, fs float64) ([]float64, error) {
	if err := validate(r, fc, fs); err != nil {
		return nil, err
	}

	coeffs, err := lowpass(d.opts.cache, d.opts.order, d.CutoffHz(fs), fs)
	if err != nil {
		return nil, err
	}

	cos, _ := carrier(len(r), fc, fs)
	out, err := zerophase.Apply(coeffs, mix(r, cos))
	if err != nil {
		return nil, fmt.Errorf("ssb: baseband filter: %w", err)
	}
	vecmath.ScaleBlock(out, out, DemodulatorGain)

	if err := checkFinite("coherent demodulator", out); err != nil {
		return nil, err
	}
	return out, nil
}

// ButterworthDemodulator shifts the signal down with a complex exponential
// and lowpass filters the complex baseband. For the lower sideband the
// exponential is conjugated so the baseband lands on positive frequencies.
type ButterworthDemodulator struct {
	opts options
}

// NewButterworthDemodulator returns a complex-mixing demodulator. The
// lowpass defaults to order [DefaultLowpassOrder] at [DefaultCutoffRatio]
// of Nyquist.
func NewButterworthDemodulator(opts ...Option) (*ButterworthDemodulator, error) {
	o, err := applyOptions(DefaultLowpassOrder, opts)
	if err != nil {
		return nil, err
	}
	return &ButterworthDemodulator{opts: o}, nil
}

// Kind returns DemodulatorButterworth.
func (d *ButterworthDemodulator) Kind() DemodulatorKind { return DemodulatorButterworth }

// Sideband returns the configured sideband.
func (d *ButterworthDemodulator) Sideband() Sideband { return d.opts.sideband }

// CutoffHz returns the lowpass cutoff used at sample rate fs.
func (d *ButterworthDemodulator) CutoffHz(fs float64) float64 {
	return d.opts.lowpassCutoffHz(fs, 0, DefaultCutoffRatio)
}

// Baseband returns the filtered complex baseband, scaled by
// DemodulatorGain. Its real part is the recovered signal; for a matching
// sideband the imaginary part approximates the Hilbert transform of the
// original baseband.
func (d *ButterworthDemodulator) Baseband(r []float64, fc, fs float64) ([]complex128, error) {
	if err := validate(r, fc, fs); err != nil {
		return nil, err
	}

	coeffs, err := lowpass(d.opts.cache, d.opts.order, d.CutoffHz(fs), fs)
	if err != nil {
		return nil, err
	}

	// r*exp(-j*wc*t) = r*cos - j*r*sin; the lower sideband uses +j.
	cos, sin := carrier(len(r), fc, fs)
	sign := -1.0
	if d.opts.sideband == Lower {
		sign = 1
	}
	z := make([]complex128, len(r))
	for i, v := range r {
		z[i] = complex(v*cos[i], sign*v*sin[i])
	}

	out, err := zerophase.ApplyComplex(coeffs, z)
	if err != nil {
		return nil, fmt.Errorf("ssb: baseband filter: %w", err)
	}
	for i, v := range out {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return nil, fmt.Errorf("%w: butterworth demodulator produced %v at sample %d", ErrNumericDegeneracy, v, i)
		}
		out[i] = v * DemodulatorGain
	}
	return out, nil
}

// Demodulate returns the real part of [ButterworthDemodulator.Baseband].
// The filter is real, so the real part equals
// DemodulatorGain * lowpass(r*cos(wc*t)) for either sideband; the
// sideband choice only shows in the imaginary part.
func (d *ButterworthDemodulator) Demodulate(r []float64, fc, fs float64) ([]float64, error) {
	z, err := d.Baseband(r, fc, fs)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(z))
	for i, v := range z {
		out[i] = real(v)
	}
	return out, nil
}
