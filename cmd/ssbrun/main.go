// Command ssbrun modulates a baseband signal onto a carrier with every
// configured single-sideband strategy, demodulates it again and reports
// how faithfully each combination recovered the input.
//
// Usage:
//
//	ssbrun [flags]
//
// Without -input a 1 kHz test tone is used. Flags override values read
// from the optional YAML configuration.
//
// Examples:
//
//	ssbrun
//	ssbrun -i speech.wav -o out
//	ssbrun -c experiment.yaml --carrier 8000 --sideband lower
//	ssbrun --snr 30,20,10 --seed 7 --no-audio
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/cwbudde/algo-ssb/internal/config"
	"github.com/cwbudde/algo-ssb/internal/experiment"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		stop()
		log.Fatal("ssbrun failed", "err", err)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("ssbrun", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	cfgPath := fs.StringP("config", "c", "", "YAML experiment configuration")
	input := fs.StringP("input", "i", "", "input WAV file (default: synthesized test tone)")
	outDir := fs.StringP("output-dir", "o", "", "directory for recovered WAV files")
	carrier := fs.Float64P("carrier", "f", 0, "carrier frequency in Hz")
	sideband := fs.StringP("sideband", "s", "", "sideband to transmit: upper or lower")
	snrs := fs.Float64Slice("snr", nil, "comma separated SNR values in dB for the noise sweep")
	seed := fs.Uint64("seed", 0, "seed of the channel noise")
	maxDur := fs.DurationP("max-duration", "d", 0, "truncate the input to this duration")
	workers := fs.IntP("workers", "w", 0, "concurrent experiments (0: one per CPU)")
	noNoise := fs.Bool("no-noise", false, "skip the noise sweep")
	noAudio := fs.Bool("no-audio", false, "do not write WAV files")
	level := fs.StringP("log-level", "l", "info", "log level: debug, info, warn, error")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: ssbrun [flags]\n\n")
		fmt.Fprintf(stderr, "Runs every SSB modulator/demodulator combination and a noise sweep.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	lvl, err := log.ParseLevel(*level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", *level, err)
	}
	logger := log.NewWithOptions(stderr, log.Options{
		Level:           lvl,
		Prefix:          "ssbrun",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})

	cfg := config.Default()
	if *cfgPath != "" {
		if cfg, err = config.Load(*cfgPath); err != nil {
			return err
		}
		logger.Debug("loaded configuration", "path", *cfgPath)
	}

	if fs.Changed("input") {
		cfg.Input = *input
	}
	if fs.Changed("output-dir") {
		cfg.OutputDir = *outDir
	}
	if fs.Changed("carrier") {
		cfg.CarrierHz = *carrier
	}
	if fs.Changed("sideband") {
		cfg.Sideband = *sideband
	}
	if fs.Changed("snr") {
		cfg.Noise.SNRs = *snrs
	}
	if fs.Changed("seed") {
		cfg.Noise.Seed = *seed
	}
	if fs.Changed("max-duration") {
		cfg.MaxDuration = *maxDur
	}
	if fs.Changed("workers") {
		cfg.Workers = *workers
	}
	if *noNoise {
		cfg.Noise.Enabled = false
	}
	if *noAudio {
		cfg.WriteAudio = false
	}

	runner, err := experiment.NewRunner(cfg, logger)
	if err != nil {
		return err
	}

	src, err := experiment.LoadSource(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := runner.Run(ctx, src)
	if err != nil {
		return err
	}
	logger.Info("experiments finished", "count", len(results), "elapsed", time.Since(start).Round(time.Millisecond))

	return experiment.WriteTable(stdout, results)
}
