package ssb_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ssb/dsp/spectrum"
	"github.com/cwbudde/algo-ssb/dsp/ssb"
)

func Example() {
	const (
		fs = 44100.0
		fc = 5000.0
	)
	x := make([]float64, 44100)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * 1000 * float64(i) / fs)
	}

	mod, err := ssb.NewModulator(ssb.ModulatorHilbert, ssb.WithSideband(ssb.Upper))
	if err != nil {
		panic(err)
	}
	demod, err := ssb.NewDemodulator(ssb.DemodulatorButterworth)
	if err != nil {
		panic(err)
	}

	y, err := mod.Modulate(x, fc, fs)
	if err != nil {
		panic(err)
	}
	usb, _ := spectrum.ToneAmplitude(y, fc+1000, fs)
	lsb, _ := spectrum.ToneAmplitude(y, fc-1000, fs)

	rec, err := demod.Demodulate(y, fc, fs)
	if err != nil {
		panic(err)
	}
	amp, _ := spectrum.ToneAmplitude(rec, 1000, fs)

	fmt.Printf("usb=%.2f lsb=%.2f recovered=%.2f\n", usb, lsb, amp)
	// Output:
	// usb=1.00 lsb=0.00 recovered=1.00
}
