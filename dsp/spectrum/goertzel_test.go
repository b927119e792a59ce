package spectrum

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-ssb/internal/testutil"
)

func TestGoertzel_MatchesDFT(t *testing.T) {
	const (
		fs   = 48000.0
		freq = 1000.0
	)
	sig := testutil.DeterministicSine(freq, fs, 1.0, 1024)

	g, err := NewGoertzel(freq, fs)
	require.NoError(t, err)
	g.ProcessBlock(sig)

	var dft complex128
	for n, x := range sig {
		angle := -2 * math.Pi * freq / fs * float64(n)
		dft += complex(x, 0) * cmplx.Exp(complex(0, angle))
	}

	wantP := real(dft)*real(dft) + imag(dft)*imag(dft)
	assert.InEpsilon(t, wantP, g.Power(), 1e-7)
	assert.InEpsilon(t, cmplx.Abs(dft), g.Magnitude(), 1e-7)
	assert.Equal(t, 1024, g.Count())
}

func TestGoertzel_SampleAndBlockAgree(t *testing.T) {
	sig := testutil.DeterministicNoise(3, 1, 300)

	a, err := NewGoertzel(440, 8000)
	require.NoError(t, err)
	b, err := NewGoertzel(440, 8000)
	require.NoError(t, err)

	a.ProcessBlock(sig)
	for _, x := range sig {
		b.ProcessSample(x)
	}

	assert.InDelta(t, a.Power(), b.Power(), 1e-9)
	assert.Equal(t, a.Count(), b.Count())
}

func TestGoertzel_Reset(t *testing.T) {
	g, err := NewGoertzel(1000, 48000)
	require.NoError(t, err)

	g.ProcessSample(1.0)
	assert.NotZero(t, g.Power())

	g.Reset()
	assert.Zero(t, g.Power())
	assert.Zero(t, g.Count())
	assert.Zero(t, g.Amplitude())
}

func TestGoertzel_Amplitude(t *testing.T) {
	const fs = 44100.0
	x := testutil.DeterministicSine(1000, fs, 0.3, 44100)
	for i, v := range testutil.DeterministicCosine(6000, fs, 0.05, 44100) {
		x[i] += v
	}

	a, err := ToneAmplitude(x, 1000, fs)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, a, 1e-6)

	a, err = ToneAmplitude(x, 6000, fs)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, a, 1e-6)

	a, err = ToneAmplitude(x, 3000, fs)
	require.NoError(t, err)
	assert.Less(t, a, 1e-6)

	dc, err := ToneAmplitude(testutil.DC(0.25, 100), 0, fs)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, dc, 1e-12)
}

func TestGoertzel_InvalidParams(t *testing.T) {
	tests := []struct {
		name string
		freq float64
		fs   float64
		want error
	}{
		{"negative frequency", -1, 48000, ErrInvalidFrequency},
		{"above nyquist", 24001, 48000, ErrInvalidFrequency},
		{"nan frequency", math.NaN(), 48000, ErrInvalidFrequency},
		{"zero rate", 1000, 0, ErrInvalidSampleRate},
		{"inf rate", 1000, math.Inf(1), ErrInvalidSampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGoertzel(tt.freq, tt.fs)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := ToneAmplitude(nil, 1000, 48000)
	assert.ErrorIs(t, err, ErrEmptySignal)
}
