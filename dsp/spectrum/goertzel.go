package spectrum

import (
	"fmt"
	"math"
)

// Goertzel measures a single frequency component of a sample stream.
//
// It evaluates one DFT term with a second-order recursion, which is cheaper
// than a full transform when only a few tones matter, such as checking
// that a recovered test tone is present and its mirror image is not.
//
// The meter accumulates every sample passed to it since the last Reset.
// Power equals |X(f)|^2 of a DFT over those samples; Amplitude rescales
// that to the peak amplitude of a sinusoid at f. Leakage is smallest when
// the block holds an integer number of cycles of f.
type Goertzel struct {
	frequency  float64
	sampleRate float64
	coeff      float64
	s0, s1     float64
	count      int
}

// NewGoertzel creates a meter for frequency Hz at sampleRate.
// frequency must lie in [0, sampleRate/2].
func NewGoertzel(frequency, sampleRate float64) (*Goertzel, error) {
	if !validSampleRate(sampleRate) {
		return nil, fmt.Errorf("goertzel: %w: %v", ErrInvalidSampleRate, sampleRate)
	}
	if frequency < 0 || frequency > sampleRate/2 || math.IsNaN(frequency) {
		return nil, fmt.Errorf("goertzel: %w: %v not in [0, %v]", ErrInvalidFrequency, frequency, sampleRate/2)
	}

	return &Goertzel{
		frequency:  frequency,
		sampleRate: sampleRate,
		coeff:      2 * math.Cos(2*math.Pi*frequency/sampleRate),
	}, nil
}

// Reset clears the accumulated state.
func (g *Goertzel) Reset() {
	g.s0 = 0
	g.s1 = 0
	g.count = 0
}

// ProcessSample feeds one sample.
func (g *Goertzel) ProcessSample(x float64) {
	s := x + g.coeff*g.s0 - g.s1
	g.s1 = g.s0
	g.s0 = s
	g.count++
}

// ProcessBlock feeds a block of samples.
func (g *Goertzel) ProcessBlock(input []float64) {
	s0, s1 := g.s0, g.s1
	coeff := g.coeff

	for _, x := range input {
		s := x + coeff*s0 - s1
		s1 = s0
		s0 = s
	}

	g.s0, g.s1 = s0, s1
	g.count += len(input)
}

// Power returns |X(f)|^2 over the samples seen so far.
func (g *Goertzel) Power() float64 {
	return g.s0*g.s0 + g.s1*g.s1 - g.coeff*g.s0*g.s1
}

// Magnitude returns |X(f)|.
func (g *Goertzel) Magnitude() float64 {
	p := g.Power()
	if p <= 0 {
		return 0
	}
	return math.Sqrt(p)
}

// Amplitude returns the peak amplitude of a sinusoid at the target
// frequency that would produce the measured magnitude: 2|X|/N, or |X|/N
// for DC and Nyquist. It is 0 before any sample is processed.
func (g *Goertzel) Amplitude() float64 {
	if g.count == 0 {
		return 0
	}
	scale := 2.0
	if g.frequency == 0 || g.frequency == g.sampleRate/2 {
		scale = 1
	}
	return scale * g.Magnitude() / float64(g.count)
}

// Count returns the number of samples processed since the last Reset.
func (g *Goertzel) Count() int { return g.count }

// Frequency returns the target frequency in Hz.
func (g *Goertzel) Frequency() float64 { return g.frequency }

// SampleRate returns the sample rate in Hz.
func (g *Goertzel) SampleRate() float64 { return g.sampleRate }

// ToneAmplitude returns the peak amplitude of the component of x at
// frequency Hz.
func ToneAmplitude(x []float64, frequency, sampleRate float64) (float64, error) {
	if len(x) == 0 {
		return 0, ErrEmptySignal
	}
	g, err := NewGoertzel(frequency, sampleRate)
	if err != nil {
		return 0, err
	}

	g.ProcessBlock(x)
	return g.Amplitude(), nil
}
