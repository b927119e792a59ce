// Package audio reads and writes the mono WAV files that feed and collect
// the modulation experiments.
package audio

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-ssb/dsp/signal"
)

const (
	pcmFormat   = 1
	floatFormat = 3
	outBitDepth = 16
	maxInt16    = 32767.0
)

var (
	// ErrInvalidFile is returned when a file is not a readable PCM or 32-bit
	// float WAV.
	ErrInvalidFile = errors.New("audio: invalid wav file")
	// ErrEmptyAudio is returned when there are no samples to read or write.
	ErrEmptyAudio = errors.New("audio: no samples")
)

// Clip is a mono signal decoded from a WAV file.
type Clip struct {
	SampleRate int
	Samples    []float64
	// SourceChannels and SourceBitDepth describe the file before
	// down-mixing and normalization.
	SourceChannels int
	SourceBitDepth int
}

// Duration returns the clip length.
func (c *Clip) Duration() time.Duration {
	return time.Duration(float64(len(c.Samples)) / float64(c.SampleRate) * float64(time.Second))
}

type loadConfig struct {
	maxDuration time.Duration
	normalize   bool
}

// LoadOption configures Load.
type LoadOption func(*loadConfig)

// WithMaxDuration keeps at most d of audio from the start of the file.
// Zero or negative keeps everything.
func WithMaxDuration(d time.Duration) LoadOption {
	return func(c *loadConfig) { c.maxDuration = d }
}

// WithoutNormalize keeps the decoded level instead of scaling the peak
// to 1.
func WithoutNormalize() LoadOption {
	return func(c *loadConfig) { c.normalize = false }
}

// Load decodes a PCM WAV file, averages its channels to mono and scales
// the result so its peak is 1.
func Load(path string, opts ...LoadOption) (*Clip, error) {
	cfg := loadConfig{normalize: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFile, path)
	}
	format, bitDepth := dec.WavAudioFormat, int(dec.BitDepth)
	if !supported(format, bitDepth) {
		return nil, fmt.Errorf("%w: %s: unsupported format %d at %d bits", ErrInvalidFile, path, format, bitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidFile, path, err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %s: missing format", ErrInvalidFile, path)
	}

	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels
	if cfg.maxDuration > 0 {
		limit := int(cfg.maxDuration.Seconds() * float64(buf.Format.SampleRate))
		frames = min(frames, limit)
	}
	if frames == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyAudio, path)
	}

	samples := downmix(decodeSamples(buf.Data[:frames*channels], format, bitDepth), channels)
	if cfg.normalize {
		if samples, err = signal.Normalize(samples, 1); err != nil {
			return nil, fmt.Errorf("audio: normalize %s: %w", path, err)
		}
	}

	return &Clip{
		SampleRate:     buf.Format.SampleRate,
		Samples:        samples,
		SourceChannels: channels,
		SourceBitDepth: bitDepth,
	}, nil
}

func supported(format uint16, bitDepth int) bool {
	switch format {
	case pcmFormat:
		return bitDepth == 8 || bitDepth == 16 || bitDepth == 24 || bitDepth == 32
	case floatFormat:
		return bitDepth == 32
	default:
		return false
	}
}

// decodeSamples converts raw decoder values to [-1, 1]. 8-bit PCM is
// unsigned around 128; 32-bit float arrives as the int32 bit pattern.
func decodeSamples(data []int, format uint16, bitDepth int) []float64 {
	out := make([]float64, len(data))
	switch {
	case format == floatFormat:
		for i, v := range data {
			out[i] = float64(math.Float32frombits(uint32(int32(v))))
		}
	case bitDepth == 8:
		for i, v := range data {
			out[i] = float64(v-128) / 127
		}
	default:
		inv := 1 / (math.Exp2(float64(bitDepth-1)) - 1)
		for i, v := range data {
			out[i] = float64(v) * inv
		}
	}
	return out
}

// downmix averages interleaved frames into one channel.
func downmix(data []float64, channels int) []float64 {
	frames := len(data) / channels
	out := make([]float64, frames)
	inv := 1 / float64(channels)
	for i := range out {
		sum := 0.0
		for ch := range channels {
			sum += data[i*channels+ch]
		}
		out[i] = sum * inv
	}
	return out
}

type saveConfig struct {
	rng *rand.Rand
}

// SaveOption configures Save.
type SaveOption func(*saveConfig)

// WithDither adds triangular dither of +/-1 LSB from a source seeded with
// seed before rounding to 16 bits.
func WithDither(seed uint64) SaveOption {
	return func(c *saveConfig) { c.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// Save scales x so its peak is full scale and writes it as a mono 16-bit
// PCM WAV file at sampleRate.
func Save(path string, sampleRate int, x []float64, opts ...SaveOption) (err error) {
	if len(x) == 0 {
		return ErrEmptyAudio
	}
	if sampleRate <= 0 {
		return fmt.Errorf("audio: invalid sample rate %d", sampleRate)
	}

	var cfg saveConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	norm, err := signal.Normalize(x, 1)
	if err != nil {
		return fmt.Errorf("audio: normalize output: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audio: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("audio: close %s: %w", path, cerr)
		}
	}()

	enc := wav.NewEncoder(f, sampleRate, outBitDepth, 1, pcmFormat)
	buf := &goaudio.IntBuffer{
		Data:           quantize16(norm, cfg.rng),
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: outBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audio: write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("audio: finalize %s: %w", path, err)
	}
	return nil
}

// quantize16 maps samples in [-1, 1] to 16-bit integers, rounding to the
// nearest step and clamping to the representable range. A non-nil rng adds
// triangular dither before rounding.
func quantize16(x []float64, rng *rand.Rand) []int {
	out := make([]int, len(x))
	for i, v := range x {
		scaled := v * maxInt16
		if rng != nil {
			scaled += rng.Float64() - rng.Float64()
		}
		q := int(math.Round(scaled))
		out[i] = max(math.MinInt16, min(math.MaxInt16, q))
	}
	return out
}
