package design

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/cwbudde/algo-ssb/dsp/filter/biquad"
)

// bilinearFS is twice the normalized sample rate (fs = 2 with cutoffs
// relative to Nyquist).
const bilinearFS = 4.0

// realPoleTol decides when a pole counts as real for section grouping.
const realPoleTol = 1e-12

// butterworthPrototype returns the poles of the order-n analog lowpass
// prototype with unit cutoff. There are no finite zeros and the gain is 1.
func butterworthPrototype(n int) []complex128 {
	poles := make([]complex128, n)
	for k := range poles {
		m := float64(2*k - n + 1)
		poles[k] = -cmplx.Exp(complex(0, math.Pi*m/float64(2*n)))
	}
	return poles
}

// prewarp maps a normalized digital frequency to the analog frequency that
// the bilinear transform sends back onto it.
func prewarp(wc float64) float64 {
	return bilinearFS * math.Tan(math.Pi*wc/2)
}

// bilinear maps an s-plane root into the z-plane.
func bilinear(s complex128) complex128 {
	return (complex(bilinearFS, 0) + s) / (complex(bilinearFS, 0) - s)
}

// digitalCenter returns the digital angular frequency (rad/sample) that
// the analog frequency omega maps to.
func digitalCenter(omega float64) float64 {
	return 2 * math.Atan(omega/bilinearFS)
}

func butterworthLowpass(order int, wc float64) []biquad.Coefficients {
	warped := prewarp(wc)

	poles := make([]complex128, 0, order)
	for _, p := range butterworthPrototype(order) {
		poles = append(poles, bilinear(p*complex(warped, 0)))
	}

	// All zeros sit at z = -1 (the prototype zeros at infinity).
	return groupSections(poles, func(firstOrder bool) [3]float64 {
		if firstOrder {
			return [3]float64{1, 1, 0}
		}
		return [3]float64{1, 2, 1}
	}, 0)
}

func butterworthBandpass(order int, low, high float64) []biquad.Coefficients {
	wl := prewarp(low)
	wh := prewarp(high)
	bw := wh - wl
	wo := math.Sqrt(wl * wh)

	poles := make([]complex128, 0, 2*order)
	for _, p := range butterworthPrototype(order) {
		pl := p * complex(bw/2, 0)
		d := cmplx.Sqrt(pl*pl - complex(wo*wo, 0))
		poles = append(poles, bilinear(pl+d), bilinear(pl-d))
	}

	// Each section carries one zero at DC (s = 0) and one at Nyquist (s = inf).
	return groupSections(poles, func(bool) [3]float64 {
		return [3]float64{1, 0, -1}
	}, digitalCenter(wo))
}

// groupSections pairs conjugate poles (and leftover real poles) into
// second-order sections ordered by increasing pole radius. numerator
// supplies the unnormalized zeros polynomial for each section. Every section
// is scaled to unit magnitude at refW so the cascade has unity gain there.
func groupSections(poles []complex128, numerator func(firstOrder bool) [3]float64, refW float64) []biquad.Coefficients {
	type denom struct {
		a1, a2     float64
		radius     float64
		firstOrder bool
	}

	var (
		dens  []denom
		reals []float64
	)
	for _, p := range poles {
		switch {
		case imag(p) > realPoleTol:
			dens = append(dens, denom{
				a1:     -2 * real(p),
				a2:     real(p)*real(p) + imag(p)*imag(p),
				radius: cmplx.Abs(p),
			})
		case imag(p) >= -realPoleTol:
			reals = append(reals, real(p))
		}
	}

	sort.Float64s(reals)
	for len(reals) >= 2 {
		p1, p2 := reals[0], reals[1]
		reals = reals[2:]
		dens = append(dens, denom{
			a1:     -(p1 + p2),
			a2:     p1 * p2,
			radius: math.Max(math.Abs(p1), math.Abs(p2)),
		})
	}
	if len(reals) == 1 {
		dens = append(dens, denom{a1: -reals[0], radius: math.Abs(reals[0]), firstOrder: true})
	}

	sort.SliceStable(dens, func(i, j int) bool { return dens[i].radius < dens[j].radius })

	sections := make([]biquad.Coefficients, len(dens))
	for i, d := range dens {
		b := numerator(d.firstOrder)
		s := biquad.Coefficients{B0: b[0], B1: b[1], B2: b[2], A1: d.a1, A2: d.a2}

		scale := 1 / cmplx.Abs(s.ResponseAt(refW))
		s.B0 *= scale
		s.B1 *= scale
		s.B2 *= scale
		sections[i] = s
	}

	return sections
}
