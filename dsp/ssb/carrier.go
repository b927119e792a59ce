package ssb

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-ssb/dsp/core"
	"github.com/cwbudde/algo-ssb/dsp/filter/design"
)

// validate checks the arguments shared by every modulate and demodulate
// call.
func validate(x []float64, fc, fs float64) error {
	if !(fs > 0) || !core.IsFinite(fs) {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidCarrier, fs)
	}
	if !(fc > 0) || fc >= fs/2 || !core.IsFinite(fc) {
		return fmt.Errorf("%w: fc=%v must be in (0, %v)", ErrInvalidCarrier, fc, fs/2)
	}
	if len(x) == 0 {
		return ErrEmptySignal
	}
	return nil
}

// checkFinite reports the first NaN or Inf produced by stage.
func checkFinite(stage string, y []float64) error {
	if i := core.FirstNonFinite(y); i >= 0 {
		return fmt.Errorf("%w: %s produced %v at sample %d", ErrNumericDegeneracy, stage, y[i], i)
	}
	return nil
}

// carrier returns cos(2*pi*fc*t) and sin(2*pi*fc*t) sampled at t = i/fs
// for i in [0, n).
func carrier(n int, fc, fs float64) (cos, sin []float64) {
	cos = make([]float64, n)
	sin = make([]float64, n)
	w := 2 * math.Pi * fc / fs
	for i := range cos {
		sin[i], cos[i] = math.Sincos(w * float64(i))
	}
	return cos, sin
}

// mix returns x[i]*c[i].
func mix(x, c []float64) []float64 {
	out := make([]float64, len(x))
	vecmath.MulBlock(out, x, c)
	return out
}

func lowpass(cache *design.Cache, order int, cutoffHz, fs float64) (*design.Coefficients, error) {
	c, err := cache.Design(design.Spec{
		Type:    design.TypeLowpass,
		Order:   order,
		Cutoffs: []float64{cutoffHz / (fs / 2)},
	})
	if err != nil {
		return nil, fmt.Errorf("ssb: lowpass %g Hz at fs=%g: %w", cutoffHz, fs, err)
	}
	return c, nil
}

func bandpass(cache *design.Cache, order int, lowHz, highHz, fs float64) (*design.Coefficients, error) {
	nyq := fs / 2
	c, err := cache.Design(design.Spec{
		Type:    design.TypeBandpass,
		Order:   order,
		Cutoffs: []float64{lowHz / nyq, highHz / nyq},
	})
	if err != nil {
		return nil, fmt.Errorf("ssb: bandpass [%g, %g] Hz at fs=%g: %w", lowHz, highHz, fs, err)
	}
	return c, nil
}
