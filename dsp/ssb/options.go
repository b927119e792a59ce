package ssb

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ssb/dsp/filter/design"
)

const (
	// DefaultBandwidthHz is the passband width of the filter modulator.
	DefaultBandwidthHz = 500.0
	// DefaultBandpassOrder is the Butterworth order of the filter
	// modulator's sideband filter.
	DefaultBandpassOrder = 5
	// DefaultLowpassOrder is the Butterworth order of both demodulators'
	// baseband filters.
	DefaultLowpassOrder = 6
	// DefaultCoherentCutoffHz is the coherent demodulator's lowpass cutoff.
	DefaultCoherentCutoffHz = 4000.0
	// DefaultCutoffRatio is the Butterworth demodulator's lowpass cutoff
	// as a fraction of the Nyquist frequency.
	DefaultCutoffRatio = 0.1
	// DemodulatorGain compensates the factor 1/2 introduced by product
	// detection.
	DemodulatorGain = 2.0
)

type options struct {
	sideband    Sideband
	bandwidthHz float64
	order       int
	cutoffHz    float64
	cutoffRatio float64
	cache       *design.Cache
}

// Option configures a modulator or demodulator. Options that do not apply
// to a strategy are accepted and ignored.
type Option func(*options) error

// WithSideband selects the upper (default) or lower sideband.
func WithSideband(s Sideband) Option {
	return func(o *options) error {
		if s != Upper && s != Lower {
			return fmt.Errorf("%w: %v", ErrUnknownStrategy, s)
		}
		o.sideband = s
		return nil
	}
}

// WithBandwidth sets the audio bandwidth in Hz. The filter modulator uses
// it as the width of its sideband filter; the demodulators use it as their
// lowpass cutoff unless WithCutoffHz is also given. Passing the same value
// to every strategy puts the whole chain on one bandwidth.
func WithBandwidth(hz float64) Option {
	return func(o *options) error {
		if !(hz > 0) || math.IsInf(hz, 0) {
			return fmt.Errorf("%w: bandwidth must be > 0: %v", ErrInvalidOption, hz)
		}
		o.bandwidthHz = hz
		return nil
	}
}

// WithFilterOrder sets the Butterworth prototype order of the strategy's
// filter: the bandpass for the filter modulator, the lowpass for the
// demodulators.
func WithFilterOrder(order int) Option {
	return func(o *options) error {
		if order < 1 || order > design.MaxOrder {
			return fmt.Errorf("%w: filter order must be in [1, %d]: %d", ErrInvalidOption, design.MaxOrder, order)
		}
		o.order = order
		return nil
	}
}

// WithCutoffHz sets a demodulator's lowpass cutoff in Hz. It takes
// precedence over WithBandwidth and WithCutoffRatio.
func WithCutoffHz(hz float64) Option {
	return func(o *options) error {
		if !(hz > 0) || math.IsInf(hz, 0) {
			return fmt.Errorf("%w: cutoff must be > 0: %v", ErrInvalidOption, hz)
		}
		o.cutoffHz = hz
		return nil
	}
}

// WithCutoffRatio sets a demodulator's lowpass cutoff as a fraction of the
// Nyquist frequency, in (0, 1).
func WithCutoffRatio(ratio float64) Option {
	return func(o *options) error {
		if !(ratio > 0 && ratio < 1) {
			return fmt.Errorf("%w: cutoff ratio must be in (0, 1): %v", ErrInvalidOption, ratio)
		}
		o.cutoffRatio = ratio
		return nil
	}
}

// WithCache shares a filter design cache between strategies. Without it
// each modulator or demodulator keeps a private cache.
func WithCache(c *design.Cache) Option {
	return func(o *options) error {
		if c == nil {
			return fmt.Errorf("%w: nil design cache", ErrInvalidOption)
		}
		o.cache = c
		return nil
	}
}

func applyOptions(defaultOrder int, opts []Option) (options, error) {
	o := options{sideband: Upper, order: defaultOrder}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&o); err != nil {
			return options{}, err
		}
	}
	if o.cache == nil {
		o.cache = design.NewCache()
	}
	return o, nil
}

// lowpassCutoffHz resolves the demodulator cutoff: explicit Hz, then
// bandwidth, then ratio, then the strategy default (fallbackHz, or
// fallbackRatio of Nyquist when fallbackHz is zero).
func (o *options) lowpassCutoffHz(fs, fallbackHz, fallbackRatio float64) float64 {
	switch {
	case o.cutoffHz > 0:
		return o.cutoffHz
	case o.bandwidthHz > 0:
		return o.bandwidthHz
	case o.cutoffRatio > 0:
		return o.cutoffRatio * fs / 2
	case fallbackHz > 0:
		return fallbackHz
	default:
		return fallbackRatio * fs / 2
	}
}
