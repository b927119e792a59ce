// Package config holds the experiment configuration and loads it from
// YAML.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-ssb/dsp/ssb"
)

// ErrInvalidConfig is returned (wrapped) by Validate.
var ErrInvalidConfig = errors.New("config: invalid")

// Config describes one experiment run: where the baseband comes from, the
// carrier, which strategies to combine and the noise sweep.
type Config struct {
	// Input is a WAV file. When empty a test tone is synthesized.
	Input       string        `yaml:"input"`
	OutputDir   string        `yaml:"output_dir"`
	MaxDuration time.Duration `yaml:"max_duration"`

	Tone struct {
		FreqHz     float64       `yaml:"freq_hz"`
		Amplitude  float64       `yaml:"amplitude"`
		SampleRate int           `yaml:"sample_rate"`
		Duration   time.Duration `yaml:"duration"`
	} `yaml:"tone"`

	CarrierHz    float64  `yaml:"carrier_hz"`
	Sideband     string   `yaml:"sideband"`
	Modulators   []string `yaml:"modulators"`
	Demodulators []string `yaml:"demodulators"`

	Modulation struct {
		BandwidthHz   float64 `yaml:"bandwidth_hz"`
		BandpassOrder int     `yaml:"bandpass_order"`
	} `yaml:"modulation"`

	Demodulation struct {
		LowpassOrder int `yaml:"lowpass_order"`
		// BandwidthHz, when set, overrides both strategy cutoffs.
		BandwidthHz       float64 `yaml:"bandwidth_hz"`
		CoherentCutoffHz  float64 `yaml:"coherent_cutoff_hz"`
		ButterworthCutoff float64 `yaml:"butterworth_cutoff_ratio"`
	} `yaml:"demodulation"`

	Noise struct {
		Enabled     bool      `yaml:"enabled"`
		SNRs        []float64 `yaml:"snr_db"`
		Seed        uint64    `yaml:"seed"`
		Modulator   string    `yaml:"modulator"`
		Demodulator string    `yaml:"demodulator"`
	} `yaml:"noise"`

	// TrimSamples are dropped at both ends before scoring.
	TrimSamples int  `yaml:"trim_samples"`
	WriteAudio  bool `yaml:"write_audio"`
	Workers     int  `yaml:"workers"`
}

// Default returns the configuration of the reference experiment: a 5 kHz
// upper-sideband carrier, all four strategy combinations and a noise
// sweep at 20, 10, 5 and 0 dB.
func Default() *Config {
	c := &Config{
		OutputDir:    "out",
		MaxDuration:  10 * time.Second,
		CarrierHz:    5000,
		Sideband:     ssb.Upper.String(),
		Modulators:   []string{ssb.ModulatorHilbert.String(), ssb.ModulatorFilter.String()},
		Demodulators: []string{ssb.DemodulatorButterworth.String(), ssb.DemodulatorCoherent.String()},
		TrimSamples:  441,
		WriteAudio:   true,
	}

	c.Tone.FreqHz = 1000
	c.Tone.Amplitude = 1
	c.Tone.SampleRate = 44100
	c.Tone.Duration = time.Second

	c.Modulation.BandwidthHz = ssb.DefaultBandwidthHz
	c.Modulation.BandpassOrder = ssb.DefaultBandpassOrder

	c.Demodulation.LowpassOrder = ssb.DefaultLowpassOrder
	c.Demodulation.CoherentCutoffHz = ssb.DefaultCoherentCutoffHz
	c.Demodulation.ButterworthCutoff = ssb.DefaultCutoffRatio

	c.Noise.Enabled = true
	c.Noise.SNRs = []float64{20, 10, 5, 0}
	c.Noise.Seed = 1
	c.Noise.Modulator = ssb.ModulatorFilter.String()
	c.Noise.Demodulator = ssb.DemodulatorButterworth.String()

	return c
}

// Load reads a YAML file on top of Default and validates the result.
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks value ranges and strategy names. Relations that depend
// on the input sample rate, such as fc < fs/2, are left to the stages.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.CarrierHz <= 0 {
		bad("carrier_hz must be > 0: %v", c.CarrierHz)
	}
	if _, err := ssb.ParseSideband(c.Sideband); err != nil {
		bad("sideband: %v", err)
	}
	if len(c.Modulators) == 0 {
		bad("at least one modulator is required")
	}
	seenMod := make(map[ssb.ModulatorKind]bool)
	for _, m := range c.Modulators {
		k, err := ssb.ParseModulatorKind(m)
		if err != nil {
			bad("modulators: %v", err)
			continue
		}
		if seenMod[k] {
			bad("modulators: duplicate %q", m)
		}
		seenMod[k] = true
	}
	if len(c.Demodulators) == 0 {
		bad("at least one demodulator is required")
	}
	seenDemod := make(map[ssb.DemodulatorKind]bool)
	for _, d := range c.Demodulators {
		k, err := ssb.ParseDemodulatorKind(d)
		if err != nil {
			bad("demodulators: %v", err)
			continue
		}
		if seenDemod[k] {
			bad("demodulators: duplicate %q", d)
		}
		seenDemod[k] = true
	}

	if c.Input == "" {
		if c.Tone.SampleRate <= 0 {
			bad("tone.sample_rate must be > 0: %d", c.Tone.SampleRate)
		}
		if c.Tone.Duration <= 0 {
			bad("tone.duration must be > 0: %v", c.Tone.Duration)
		}
		if c.Tone.FreqHz <= 0 {
			bad("tone.freq_hz must be > 0: %v", c.Tone.FreqHz)
		}
	}

	if c.Modulation.BandwidthHz <= 0 {
		bad("modulation.bandwidth_hz must be > 0: %v", c.Modulation.BandwidthHz)
	}
	if c.Modulation.BandpassOrder < 1 {
		bad("modulation.bandpass_order must be >= 1: %d", c.Modulation.BandpassOrder)
	}
	if c.Demodulation.LowpassOrder < 1 {
		bad("demodulation.lowpass_order must be >= 1: %d", c.Demodulation.LowpassOrder)
	}
	if c.Demodulation.BandwidthHz < 0 {
		bad("demodulation.bandwidth_hz must be >= 0: %v", c.Demodulation.BandwidthHz)
	}
	if c.Demodulation.CoherentCutoffHz <= 0 {
		bad("demodulation.coherent_cutoff_hz must be > 0: %v", c.Demodulation.CoherentCutoffHz)
	}
	if r := c.Demodulation.ButterworthCutoff; r <= 0 || r >= 1 {
		bad("demodulation.butterworth_cutoff_ratio must be in (0, 1): %v", r)
	}

	if c.Noise.Enabled {
		if len(c.Noise.SNRs) == 0 {
			bad("noise.snr_db must list at least one value")
		}
		// Output files are named after each value.
		seenSNR := make(map[float64]bool)
		for _, snr := range c.Noise.SNRs {
			if math.IsNaN(snr) || math.IsInf(snr, 0) {
				bad("noise.snr_db must be finite: %v", snr)
				continue
			}
			if seenSNR[snr] {
				bad("noise.snr_db: duplicate %v", snr)
			}
			seenSNR[snr] = true
		}
		if _, err := ssb.ParseModulatorKind(c.Noise.Modulator); err != nil {
			bad("noise.modulator: %v", err)
		}
		if _, err := ssb.ParseDemodulatorKind(c.Noise.Demodulator); err != nil {
			bad("noise.demodulator: %v", err)
		}
	}

	if c.TrimSamples < 0 {
		bad("trim_samples must be >= 0: %d", c.TrimSamples)
	}
	if c.Workers < 0 {
		bad("workers must be >= 0: %d", c.Workers)
	}

	return errors.Join(errs...)
}
