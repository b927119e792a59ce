package spectrum

import (
	"fmt"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// DefaultFrameSize is the chunk length used for short-time spectra.
const DefaultFrameSize = 1024

// FrameSpectra holds the centered magnitude spectra of consecutive
// non-overlapping frames of a signal.
type FrameSpectra struct {
	// Freqs is the shared centered frequency axis, length FrameSize.
	Freqs []float64
	// Magnitudes holds one centered spectrum per frame.
	Magnitudes [][]float64
	// FrameSize is the number of samples per frame.
	FrameSize int
	// SampleRate is the rate the axis was computed for.
	SampleRate float64
}

// Len returns the number of frames.
func (f *FrameSpectra) Len() int { return len(f.Magnitudes) }

// StartTime returns the time in seconds of the first sample of frame i.
func (f *FrameSpectra) StartTime(i int) float64 {
	return float64(i*f.FrameSize) / f.SampleRate
}

// Frames splits x into len(x)/frameSize full frames and returns the
// centered magnitude spectrum of each. A trailing partial frame is
// dropped. frameSize must be a power of two no larger than len(x).
func Frames(x []float64, fs float64, frameSize int) (*FrameSpectra, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}
	if !validSampleRate(fs) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, fs)
	}
	if frameSize < 2 || bits.OnesCount(uint(frameSize)) != 1 || frameSize > len(x) {
		return nil, fmt.Errorf("%w: %d (signal length %d)", ErrInvalidFrameSize, frameSize, len(x))
	}

	plan, err := algofft.NewPlan64(frameSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	count := len(x) / frameSize
	out := &FrameSpectra{
		Freqs:      Frequencies(frameSize, fs),
		Magnitudes: make([][]float64, count),
		FrameSize:  frameSize,
		SampleRate: fs,
	}

	in := make([]complex128, frameSize)
	bins := make([]complex128, frameSize)
	raw := make([]float64, frameSize)

	for f := range count {
		chunk := x[f*frameSize : (f+1)*frameSize]
		for i, v := range chunk {
			in[i] = complex(v, 0)
		}

		if err := plan.Forward(bins, in); err != nil {
			return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
		}

		magnitudeInto(raw, bins)
		mags := make([]float64, frameSize)
		shiftInto(mags, raw)
		out.Magnitudes[f] = mags
	}

	return out, nil
}
