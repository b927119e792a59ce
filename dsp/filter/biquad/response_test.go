package biquad

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestMagnitudeSquared_MatchesResponse(t *testing.T) {
	c := smoothing()
	for _, f := range []float64{0, 100, 1000, 5000, 12000, 23999} {
		h := c.Response(f, 48000)
		want := real(h)*real(h) + imag(h)*imag(h)
		got := c.MagnitudeSquared(f, 48000)
		if math.Abs(got-want) > 1e-10*math.Max(1, want) {
			t.Fatalf("f=%v: MagnitudeSquared=%v, |H|^2=%v", f, got, want)
		}
	}
}

func TestResponseAt_DCEqualsDCGain(t *testing.T) {
	c := smoothing()
	if got := real(c.ResponseAt(0)); !almostEqual(got, c.DCGain(), 1e-12) {
		t.Fatalf("H(0)=%v, DCGain=%v", got, c.DCGain())
	}
}

func TestChainResponse_IsProductOfSections(t *testing.T) {
	coeffs := twoSectionCoeffs()
	chain := NewChain(coeffs, WithGain(0.7))

	for _, w := range []float64{0, 0.1, 0.5, 1, 2, math.Pi} {
		want := complex(0.7, 0) * coeffs[0].ResponseAt(w) * coeffs[1].ResponseAt(w)
		if got := chain.ResponseAt(w); cmplx.Abs(got-want) > 1e-12 {
			t.Fatalf("w=%v: got %v, want %v", w, got, want)
		}
	}
}

func TestChainMagnitudeDB(t *testing.T) {
	chain := NewChain([]Coefficients{{B0: 0.5}})
	if got := chain.MagnitudeDB(1000, 48000); !almostEqual(got, 20*math.Log10(0.5), 1e-12) {
		t.Fatalf("MagnitudeDB=%v", got)
	}
}

func TestChainImpulseResponse_PreservesState(t *testing.T) {
	chain := NewChain(twoSectionCoeffs())
	chain.ProcessSample(1)
	before := chain.State()

	ir := chain.ImpulseResponse(8)
	if len(ir) != 8 {
		t.Fatalf("len=%d, want 8", len(ir))
	}
	if ir[0] != 0.25*0.1 {
		t.Fatalf("ir[0]=%v, want %v", ir[0], 0.25*0.1)
	}

	after := chain.State()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("state changed at section %d", i)
		}
	}
	if chain.ImpulseResponse(0) != nil {
		t.Fatal("expected nil for n=0")
	}
}
