package spectrum

import (
	"fmt"
	"math"
)

// PeakFrequency returns the frequency of the largest magnitude among the
// bins whose absolute frequency lies in [minHz, maxHz]. Ties resolve to
// the first bin in axis order.
func PeakFrequency(freqs, mags []float64, minHz, maxHz float64) (float64, error) {
	if err := checkBand(freqs, mags, minHz, maxHz); err != nil {
		return 0, err
	}

	best, bestHz, found := math.Inf(-1), 0.0, false
	for i, f := range freqs {
		af := math.Abs(f)
		if af < minHz || af > maxHz {
			continue
		}
		if mags[i] > best {
			best, bestHz, found = mags[i], af, true
		}
	}
	if !found {
		return 0, fmt.Errorf("%w: no bins in [%g, %g] Hz", ErrInvalidBand, minHz, maxHz)
	}

	return bestHz, nil
}

// BandEnergy returns the sum of squared magnitudes over the bins whose
// absolute frequency lies in [lowHz, highHz]. Both halves of a centered
// spectrum contribute.
func BandEnergy(freqs, mags []float64, lowHz, highHz float64) (float64, error) {
	if err := checkBand(freqs, mags, lowHz, highHz); err != nil {
		return 0, err
	}

	sum := 0.0
	for i, f := range freqs {
		af := math.Abs(f)
		if af >= lowHz && af <= highHz {
			sum += mags[i] * mags[i]
		}
	}
	return sum, nil
}

func checkBand(freqs, mags []float64, low, high float64) error {
	if len(freqs) == 0 {
		return ErrEmptySignal
	}
	if len(freqs) != len(mags) {
		return fmt.Errorf("%w: %d frequencies, %d magnitudes", ErrInvalidBand, len(freqs), len(mags))
	}
	if math.IsNaN(low) || math.IsNaN(high) || low < 0 || high < low {
		return fmt.Errorf("%w: [%g, %g] Hz", ErrInvalidBand, low, high)
	}
	return nil
}
