package signal

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/tphakala/simd/f64"

	"github.com/cwbudde/algo-ssb/dsp/core"
)

var (
	// ErrInvalidSampleRate is returned for a non-positive or non-finite
	// sample rate.
	ErrInvalidSampleRate = errors.New("signal: invalid sample rate")
	// ErrInvalidLength is returned when a requested length is not positive.
	ErrInvalidLength = errors.New("signal: invalid length")
	// ErrNumericDegeneracy is returned when data cannot be normalized: it
	// is empty, all zero, or contains NaN/Inf.
	ErrNumericDegeneracy = errors.New("signal: numeric degeneracy")
)

// Tone is one sinusoidal component of a multi-tone test signal.
type Tone struct {
	FreqHz    float64
	Amplitude float64
	// Phase is the starting phase in radians of a sine.
	Phase float64
}

// Generator creates deterministic test signals at a fixed sample rate.
type Generator struct {
	sampleRate float64
	seed       int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the random seed used by WhiteNoise.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator returns a generator for sampleRate Hz.
func NewGenerator(sampleRate float64, opts ...Option) (*Generator, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	g := &Generator{sampleRate: sampleRate, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

// SampleRate returns the generator sample rate in Hz.
func (g *Generator) SampleRate() float64 { return g.sampleRate }

// Sine generates amplitude*sin(2*pi*f*t).
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	return g.MultiTone([]Tone{{FreqHz: freqHz, Amplitude: amplitude}}, samples)
}

// MultiTone generates the sum of the given sine components.
func (g *Generator) MultiTone(tones []Tone, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("%w: %d samples", ErrInvalidLength, samples)
	}

	out := make([]float64, samples)
	for _, tone := range tones {
		step := 2 * math.Pi * tone.FreqHz / g.sampleRate
		for i := range out {
			out[i] += tone.Amplitude * math.Sin(step*float64(i)+tone.Phase)
		}
	}
	return out, nil
}

// WhiteNoise generates uniform noise in [-amplitude, amplitude). The same
// seed always yields the same samples.
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("%w: %d samples", ErrInvalidLength, samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("signal: noise amplitude must be >= 0: %f", amplitude)
	}

	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// TimeVector returns t[i] = i/fs for i in [0, n).
func TimeVector(n int, fs float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / fs
	}
	return out
}

// Normalize returns a copy of data scaled so its largest absolute sample
// equals targetPeak.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak <= 0 || !core.IsFinite(targetPeak) {
		return nil, fmt.Errorf("signal: normalize target peak must be > 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrNumericDegeneracy)
	}
	if i := core.FirstNonFinite(data); i >= 0 {
		return nil, fmt.Errorf("%w: non-finite sample %v at %d", ErrNumericDegeneracy, data[i], i)
	}

	peak := core.PeakAbs(data)
	if peak == 0 {
		return nil, fmt.Errorf("%w: all samples are zero", ErrNumericDegeneracy)
	}

	out := make([]float64, len(data))
	f64.Scale(out, data, targetPeak/peak)
	return out, nil
}
