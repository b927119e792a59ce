package experiment

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ssb/dsp/signal"
	"github.com/cwbudde/algo-ssb/internal/audio"
	"github.com/cwbudde/algo-ssb/internal/config"
)

// Source is the baseband signal every experiment starts from.
type Source struct {
	Name       string
	SampleRate int
	Samples    []float64
}

// LoadSource reads cfg.Input, or synthesizes the configured test tone when
// no input file is set.
func LoadSource(cfg *config.Config) (*Source, error) {
	if cfg.Input != "" {
		clip, err := audio.Load(cfg.Input, audio.WithMaxDuration(cfg.MaxDuration))
		if err != nil {
			return nil, err
		}
		return &Source{Name: cfg.Input, SampleRate: clip.SampleRate, Samples: clip.Samples}, nil
	}

	g, err := signal.NewGenerator(float64(cfg.Tone.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("experiment: tone: %w", err)
	}
	n := int(math.Round(cfg.Tone.Duration.Seconds() * float64(cfg.Tone.SampleRate)))
	x, err := g.Sine(cfg.Tone.FreqHz, cfg.Tone.Amplitude, n)
	if err != nil {
		return nil, fmt.Errorf("experiment: tone: %w", err)
	}

	return &Source{
		Name:       fmt.Sprintf("tone %g Hz", cfg.Tone.FreqHz),
		SampleRate: cfg.Tone.SampleRate,
		Samples:    x,
	}, nil
}
