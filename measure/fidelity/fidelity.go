package fidelity

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-ssb/dsp/core"
	"github.com/cwbudde/algo-ssb/dsp/spectrum"
)

var (
	// ErrEmptySignal is returned when an input has no samples.
	ErrEmptySignal = errors.New("fidelity: empty signal")
	// ErrLengthMismatch is returned when two buffers must have equal length
	// and do not.
	ErrLengthMismatch = errors.New("fidelity: length mismatch")
	// ErrNumericDegeneracy is returned when a metric is undefined for the
	// data: a constant or all-zero reference, or NaN/Inf samples.
	ErrNumericDegeneracy = errors.New("fidelity: numeric degeneracy")
)

// Report summarizes how closely a recovered signal matches its original.
type Report struct {
	// Correlation is the Pearson correlation coefficient in [-1, 1].
	Correlation float64
	// AmplitudeRatio is RMS(recovered) / RMS(original).
	AmplitudeRatio float64
	// SNRdB is the gain-aligned output SNR; +Inf for an exact match.
	SNRdB float64
	// DominantHz is the strongest non-DC frequency of the recovered signal.
	DominantHz float64
}

func (r Report) String() string {
	return fmt.Sprintf("corr=%.4f amp=%.3f snr=%.1fdB peak=%.1fHz",
		r.Correlation, r.AmplitudeRatio, r.SNRdB, r.DominantHz)
}

// Correlation returns the Pearson correlation of a and b over their common
// length.
func Correlation(a, b []float64) (float64, error) {
	a, b = core.Truncate(a, b)
	if err := checkPair(a, b); err != nil {
		return 0, err
	}

	c := stat.Correlation(a, b, nil)
	if math.IsNaN(c) {
		return 0, fmt.Errorf("%w: correlation of a constant signal", ErrNumericDegeneracy)
	}
	return c, nil
}

// AmplitudeRatio returns RMS(recovered) / RMS(original) over the common
// length.
func AmplitudeRatio(recovered, original []float64) (float64, error) {
	recovered, original = core.Truncate(recovered, original)
	if err := checkPair(recovered, original); err != nil {
		return 0, err
	}

	ref := core.RMS(original)
	if ref == 0 {
		return 0, fmt.Errorf("%w: original is silent", ErrNumericDegeneracy)
	}
	return core.RMS(recovered) / ref, nil
}

// OutputSNR fits recovered ~ g*original by least squares and returns the
// power ratio of g*original to the residual in dB. A pure gain change
// scores +Inf.
func OutputSNR(recovered, original []float64) (float64, error) {
	recovered, original = core.Truncate(recovered, original)
	if err := checkPair(recovered, original); err != nil {
		return 0, err
	}

	ref := floats.Dot(original, original)
	if ref == 0 {
		return 0, fmt.Errorf("%w: original is silent", ErrNumericDegeneracy)
	}
	g := floats.Dot(recovered, original) / ref

	residual := make([]float64, len(recovered))
	floats.AddScaledTo(residual, recovered, -g, original)

	noise := floats.Dot(residual, residual)
	if noise == 0 {
		return math.Inf(1), nil
	}
	return core.LinearPowerToDB(g * g * ref / noise), nil
}

// Compare scores recovered against original after discarding trim samples
// at both ends, where zero-phase filter edges live. Both buffers must have
// the same length, longer than 2*trim.
func Compare(original, recovered []float64, fs float64, trim int) (Report, error) {
	if len(original) != len(recovered) {
		return Report{}, fmt.Errorf("%w: original %d, recovered %d", ErrLengthMismatch, len(original), len(recovered))
	}
	if trim < 0 || 2*trim >= len(original) {
		return Report{}, fmt.Errorf("%w: trim %d leaves nothing of %d samples", ErrEmptySignal, trim, len(original))
	}

	o := original[trim : len(original)-trim]
	r := recovered[trim : len(recovered)-trim]

	var (
		rep Report
		err error
	)
	if rep.Correlation, err = Correlation(o, r); err != nil {
		return Report{}, err
	}
	if rep.AmplitudeRatio, err = AmplitudeRatio(r, o); err != nil {
		return Report{}, err
	}
	if rep.SNRdB, err = OutputSNR(r, o); err != nil {
		return Report{}, err
	}

	freqs, mags, err := spectrum.Centered(r, fs)
	if err != nil {
		return Report{}, fmt.Errorf("fidelity: spectrum: %w", err)
	}
	// Start one bin above DC.
	if rep.DominantHz, err = spectrum.PeakFrequency(freqs, mags, fs/float64(len(r)), fs/2); err != nil {
		return Report{}, fmt.Errorf("fidelity: peak: %w", err)
	}

	return rep, nil
}

func checkPair(a, b []float64) error {
	if len(a) == 0 || len(b) == 0 {
		return ErrEmptySignal
	}
	if i := core.FirstNonFinite(a); i >= 0 {
		return fmt.Errorf("%w: sample %d is %v", ErrNumericDegeneracy, i, a[i])
	}
	if i := core.FirstNonFinite(b); i >= 0 {
		return fmt.Errorf("%w: sample %d is %v", ErrNumericDegeneracy, i, b[i])
	}
	return nil
}
