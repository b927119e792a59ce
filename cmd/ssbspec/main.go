// Command ssbspec writes the centered magnitude spectrum of a WAV file as
// CSV, optionally after SSB modulation onto a carrier.
//
// Usage:
//
//	ssbspec [flags] file.wav
//
// Examples:
//
//	ssbspec speech.wav > spectrum.csv
//	ssbspec --carrier 5000 --modulator filter speech.wav
//	ssbspec --frames 2048 --min-hz 100 --max-hz 4000 speech.wav
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/cwbudde/algo-ssb/dsp/spectrum"
	"github.com/cwbudde/algo-ssb/dsp/ssb"
	"github.com/cwbudde/algo-ssb/internal/audio"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	carrier   float64
	sideband  string
	modulator string
	frames    int
	minHz     float64
	maxHz     float64
	maxDur    time.Duration
}

func run(args []string, stdout, stderr io.Writer) error {
	var o options
	fs := pflag.NewFlagSet("ssbspec", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Float64VarP(&o.carrier, "carrier", "f", 0, "modulate onto this carrier in Hz before analysis (0: analyse the input)")
	fs.StringVarP(&o.sideband, "sideband", "s", "upper", "sideband for --carrier: upper or lower")
	fs.StringVarP(&o.modulator, "modulator", "m", "hilbert", "modulator for --carrier: hilbert or filter")
	fs.IntVar(&o.frames, "frames", 0, "emit the per-frame peak for frames of this power-of-two size instead of the full spectrum")
	fs.Float64Var(&o.minHz, "min-hz", 0, "lower edge of the peak search band")
	fs.Float64Var(&o.maxHz, "max-hz", 0, "upper edge of the peak search band (0: Nyquist)")
	fs.DurationVarP(&o.maxDur, "max-duration", "d", 0, "truncate the input to this duration, e.g. 5s")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: ssbspec [flags] file.wav\n\n")
		fmt.Fprintf(stderr, "Writes a centered magnitude spectrum, or per-frame peaks, as CSV.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected exactly one WAV file, got %d", fs.NArg())
	}

	var loadOpts []audio.LoadOption
	if o.maxDur > 0 {
		loadOpts = append(loadOpts, audio.WithMaxDuration(o.maxDur))
	}

	clip, err := audio.Load(fs.Arg(0), loadOpts...)
	if err != nil {
		return err
	}
	rate := float64(clip.SampleRate)
	x := clip.Samples

	if o.carrier > 0 {
		if x, err = modulate(x, rate, o); err != nil {
			return err
		}
	}

	w := csv.NewWriter(stdout)
	if o.frames > 0 {
		err = writeFrames(w, x, rate, o)
	} else {
		err = writeSpectrum(w, x, rate)
	}
	if err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func modulate(x []float64, rate float64, o options) ([]float64, error) {
	sb, err := ssb.ParseSideband(o.sideband)
	if err != nil {
		return nil, err
	}
	kind, err := ssb.ParseModulatorKind(o.modulator)
	if err != nil {
		return nil, err
	}
	mod, err := ssb.NewModulator(kind, ssb.WithSideband(sb))
	if err != nil {
		return nil, err
	}
	return mod.Modulate(x, o.carrier, rate)
}

func writeSpectrum(w *csv.Writer, x []float64, rate float64) error {
	freqs, mags, err := spectrum.Centered(x, rate)
	if err != nil {
		return err
	}
	if err := w.Write([]string{"freq_hz", "magnitude"}); err != nil {
		return err
	}
	for i, f := range freqs {
		if err := w.Write([]string{formatFloat(f), formatFloat(mags[i])}); err != nil {
			return err
		}
	}
	return nil
}

func writeFrames(w *csv.Writer, x []float64, rate float64, o options) error {
	fr, err := spectrum.Frames(x, rate, o.frames)
	if err != nil {
		return err
	}
	maxHz := o.maxHz
	if maxHz <= 0 {
		maxHz = rate / 2
	}

	if err := w.Write([]string{"time_s", "peak_hz", "band_energy"}); err != nil {
		return err
	}
	for i, mags := range fr.Magnitudes {
		peak, err := spectrum.PeakFrequency(fr.Freqs, mags, o.minHz, maxHz)
		if err != nil {
			return err
		}
		energy, err := spectrum.BandEnergy(fr.Freqs, mags, o.minHz, maxHz)
		if err != nil {
			return err
		}
		row := []string{formatFloat(fr.StartTime(i)), formatFloat(peak), formatFloat(energy)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 8, 64)
}
