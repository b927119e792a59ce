// Package channel simulates a noisy transmission channel by adding white
// Gaussian noise at a signal-to-noise ratio measured from the signal
// itself.
package channel

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/cwbudde/algo-ssb/dsp/core"
)

var (
	// ErrEmptySignal is returned for a zero-length input.
	ErrEmptySignal = errors.New("channel: empty signal")
	// ErrInvalidSNR is returned for a NaN or infinite SNR.
	ErrInvalidSNR = errors.New("channel: invalid snr")
)

// NoisePower returns the Gaussian noise variance that gives x the
// requested SNR: mean(x^2) / 10^(snrDB/10).
func NoisePower(x []float64, snrDB float64) float64 {
	return core.MeanPower(x) / core.DBPowerToLinear(snrDB)
}

// Inject returns x plus independent Gaussian samples with standard
// deviation sqrt(NoisePower(x, snrDB)). The noise level follows the
// empirical power of x, so an all-zero input comes back unchanged.
//
// rng supplies the noise; pass a seeded source for reproducible output.
// A nil rng draws from a randomly seeded source.
func Inject(x []float64, snrDB float64, rng *rand.Rand) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}
	if !core.IsFinite(snrDB) {
		return nil, fmt.Errorf("%w: %v dB", ErrInvalidSNR, snrDB)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	sigma := math.Sqrt(NoisePower(x, snrDB))
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v + sigma*rng.NormFloat64()
	}
	return out, nil
}

// Injector adds channel noise from its own seeded source. It is safe for
// concurrent use; calls are serialized so the noise sequence depends only
// on the seed and call order.
type Injector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewInjector returns an Injector whose noise is fully determined by seed.
func NewInjector(seed uint64) *Injector {
	return &Injector{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Inject adds noise to x at snrDB. See the package-level [Inject].
func (in *Injector) Inject(x []float64, snrDB float64) ([]float64, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return Inject(x, snrDB, in.rng)
}

// MeasureSNR returns 10*log10(mean(clean^2) / mean((noisy-clean)^2)) in dB.
// It returns +Inf when the two buffers are identical.
func MeasureSNR(clean, noisy []float64) (float64, error) {
	if len(clean) == 0 {
		return 0, ErrEmptySignal
	}
	if len(clean) != len(noisy) {
		return 0, fmt.Errorf("channel: length mismatch: %d vs %d", len(clean), len(noisy))
	}

	diff := make([]float64, len(clean))
	for i := range clean {
		diff[i] = noisy[i] - clean[i]
	}

	noise := core.MeanPower(diff)
	if noise == 0 {
		return math.Inf(1), nil
	}
	return core.LinearPowerToDB(core.MeanPower(clean) / noise), nil
}
