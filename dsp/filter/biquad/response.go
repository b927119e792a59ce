package biquad

import (
	"math"
	"math/cmplx"
)

// ResponseAt computes H(e^jw) at the angular frequency w in radians/sample.
func (c *Coefficients) ResponseAt(w float64) complex128 {
	ejw := cmplx.Exp(complex(0, -w))
	ej2w := ejw * ejw

	num := complex(c.B0, 0) + complex(c.B1, 0)*ejw + complex(c.B2, 0)*ej2w
	den := complex(1, 0) + complex(c.A1, 0)*ejw + complex(c.A2, 0)*ej2w
	return num / den
}

// Response computes the complex frequency response H(e^jw) of a biquad
// at the given frequency (Hz) and sample rate (Hz).
func (c *Coefficients) Response(freqHz, sampleRate float64) complex128 {
	return c.ResponseAt(2 * math.Pi * freqHz / sampleRate)
}

// MagnitudeSquared returns |H(f)|^2 using a closed-form expression.
func (c *Coefficients) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	cw := 2 * math.Cos(2*math.Pi*freqHz/sampleRate)
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	num := (b0-b2)*(b0-b2) + b1*b1 + (b1*(b0+b2)+b0*b2*cw)*cw
	den := (1-a2)*(1-a2) + a1*a1 + (a1*(a2+1)+cw*a2)*cw
	return num / den
}

// ResponseAt computes the cascade response at w radians/sample, including
// the chain gain.
func (c *Chain) ResponseAt(w float64) complex128 {
	h := complex(c.gain, 0)
	for i := range c.sections {
		h *= c.sections[i].ResponseAt(w)
	}
	return h
}

// Response computes the complex frequency response of the full cascade
// as the product of individual section responses.
func (c *Chain) Response(freqHz, sampleRate float64) complex128 {
	return c.ResponseAt(2 * math.Pi * freqHz / sampleRate)
}

// Magnitude returns |H(f)| of the cascade.
func (c *Chain) Magnitude(freqHz, sampleRate float64) float64 {
	return cmplx.Abs(c.Response(freqHz, sampleRate))
}

// MagnitudeDB returns the cascaded magnitude response in dB.
func (c *Chain) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(c.Magnitude(freqHz, sampleRate))
}

// ImpulseResponse computes n samples of the cascade impulse response.
// The chain state is saved and restored.
func (c *Chain) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}
	saved := c.State()
	c.Reset()
	ir := make([]float64, n)
	ir[0] = c.ProcessSample(1)
	for i := 1; i < n; i++ {
		ir[i] = c.ProcessSample(0)
	}
	c.SetState(saved)
	return ir
}
