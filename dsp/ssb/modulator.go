package ssb

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-ssb/dsp/filter/hilbert"
	"github.com/cwbudde/algo-ssb/dsp/filter/zerophase"
)

// Modulator translates a baseband signal to a single sideband around fc.
type Modulator interface {
	Modulate(x []float64, fc, fs float64) ([]float64, error)
	Kind() ModulatorKind
}

// NewModulator returns the modulator for kind.
func NewModulator(kind ModulatorKind, opts ...Option) (Modulator, error) {
	switch kind {
	case ModulatorHilbert:
		return NewHilbertModulator(opts...)
	case ModulatorFilter:
		return NewFilterModulator(opts...)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownStrategy, kind)
	}
}

// HilbertModulator implements the phasing method:
// y = Re{analytic(x) * exp(+/-j*2*pi*fc*t)}.
type HilbertModulator struct {
	sideband Sideband
}

// NewHilbertModulator returns a phasing modulator. Only WithSideband
// affects it.
func NewHilbertModulator(opts ...Option) (*HilbertModulator, error) {
	o, err := applyOptions(0, opts)
	if err != nil {
		return nil, err
	}
	return &HilbertModulator{sideband: o.sideband}, nil
}

// Kind returns ModulatorHilbert.
func (m *HilbertModulator) Kind() ModulatorKind { return ModulatorHilbert }

// Sideband returns the configured sideband.
func (m *HilbertModulator) Sideband() Sideband { return m.sideband }

// Modulate returns x*cos(wc*t) - H{x}*sin(wc*t) for the upper sideband and
// x*cos(wc*t) + H{x}*sin(wc*t) for the lower one.
func (m *HilbertModulator) Modulate(x []float64, fc, fs float64) ([]float64, error) {
	if err := validate(x, fc, fs); err != nil {
		return nil, err
	}

	h, err := hilbert.Transform(x)
	if err != nil {
		return nil, fmt.Errorf("ssb: hilbert: %w", err)
	}

	cos, sin := carrier(len(x), fc, fs)
	out := mix(x, cos)
	quad := mix(h, sin)
	if m.sideband == Upper {
		vecmath.ScaleBlock(quad, quad, -1)
	}
	vecmath.AddBlockInPlace(out, quad)

	if err := checkFinite("hilbert modulator", out); err != nil {
		return nil, err
	}
	return out, nil
}

// FilterModulator mixes x with the carrier and keeps one sideband with a
// zero-phase Butterworth bandpass of width bandwidth: [fc, fc+bw] for the
// upper sideband and [fc-bw, fc] for the lower. No gain is applied, so the
// kept sideband has half the baseband amplitude.
type FilterModulator struct {
	opts options
}

// NewFilterModulator returns a filter-method modulator. It honours
// WithSideband, WithBandwidth (default [DefaultBandwidthHz]),
// WithFilterOrder (default [DefaultBandpassOrder]) and WithCache.
func NewFilterModulator(opts ...Option) (*FilterModulator, error) {
	o, err := applyOptions(DefaultBandpassOrder, opts)
	if err != nil {
		return nil, err
	}
	if o.bandwidthHz == 0 {
		o.bandwidthHz = DefaultBandwidthHz
	}
	return &FilterModulator{opts: o}, nil
}

// Kind returns ModulatorFilter.
func (m *FilterModulator) Kind() ModulatorKind { return ModulatorFilter }

// Sideband returns the configured sideband.
func (m *FilterModulator) Sideband() Sideband { return m.opts.sideband }

// Passband returns the sideband filter edges in Hz for carrier fc.
func (m *FilterModulator) Passband(fc float64) (lowHz, highHz float64) {
	if m.opts.sideband == Lower {
		return fc - m.opts.bandwidthHz, fc
	}
	return fc, fc + m.opts.bandwidthHz
}

// Modulate mixes x with cos(wc*t) and filters out the unwanted sideband.
// A passband that leaves (0, fs/2) surfaces as design.ErrInvalidSpec and
// a buffer shorter than the filter's edge padding as
// zerophase.ErrBufferTooShort.
func (m *FilterModulator) Modulate(x []float64, fc, fs float64) ([]float64, error) {
	if err := validate(x, fc, fs); err != nil {
		return nil, err
	}

	low, high := m.Passband(fc)
	coeffs, err := bandpass(m.opts.cache, m.opts.order, low, high, fs)
	if err != nil {
		return nil, err
	}

	cos, _ := carrier(len(x), fc, fs)
	out, err := zerophase.Apply(coeffs, mix(x, cos))
	if err != nil {
		return nil, fmt.Errorf("ssb: sideband filter: %w", err)
	}

	if err := checkFinite("filter modulator", out); err != nil {
		return nil, err
	}
	return out, nil
}
