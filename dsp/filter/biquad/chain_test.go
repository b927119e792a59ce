package biquad

import "testing"

// twoSectionCoeffs returns two biquad sections for a 4th-order-like cascade.
func twoSectionCoeffs() []Coefficients {
	return []Coefficients{
		{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04},
		{B0: 0.1, B1: 0.2, B2: 0.1, A1: -0.5, A2: 0.1},
	}
}

func TestNewChain(t *testing.T) {
	c := NewChain(twoSectionCoeffs())
	if c.NumSections() != 2 {
		t.Fatalf("NumSections: got %d, want 2", c.NumSections())
	}
	if c.Order() != 4 {
		t.Fatalf("Order: got %d, want 4", c.Order())
	}
	if c.Gain() != 1 {
		t.Fatalf("default gain: got %v, want 1", c.Gain())
	}
}

func TestChain_OrderCountsFirstOrderSections(t *testing.T) {
	coeffs := append(twoSectionCoeffs(), Coefficients{B0: 0.5, B1: 0.5, A1: -0.1})
	if got := NewChain(coeffs).Order(); got != 5 {
		t.Fatalf("Order: got %d, want 5", got)
	}
}

func TestChain_ProcessSample_MatchesManualCascade(t *testing.T) {
	coeffs := twoSectionCoeffs()
	section1 := NewSection(coeffs[0])
	section2 := NewSection(coeffs[1])

	chain := NewChain(coeffs, WithGain(0.5))

	input := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8}
	for i, x := range input {
		ref := section2.ProcessSample(section1.ProcessSample(0.5 * x))
		if got := chain.ProcessSample(x); !almostEqual(got, ref, eps) {
			t.Errorf("sample %d: chain=%.15f, ref=%.15f", i, got, ref)
		}
	}
}

func TestChain_ProcessBlock_MatchesProcessSample(t *testing.T) {
	input := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8}

	ref := NewChain(twoSectionCoeffs(), WithGain(2))
	want := make([]float64, len(input))
	for i, x := range input {
		want[i] = ref.ProcessSample(x)
	}

	chain := NewChain(twoSectionCoeffs(), WithGain(2))
	buf := append([]float64(nil), input...)
	chain.ProcessBlock(buf)

	for i := range buf {
		if !almostEqual(buf[i], want[i], eps) {
			t.Fatalf("index %d: block=%v, sample=%v", i, buf[i], want[i])
		}
	}
}

func TestChain_SteadyState(t *testing.T) {
	chain := NewChain(twoSectionCoeffs(), WithGain(3))
	chain.SteadyState(0.25)

	want := 0.25 * 3
	for i := range chain.NumSections() {
		want *= chain.Section(i).DCGain()
	}

	for n := range 32 {
		if got := chain.ProcessSample(0.25); !almostEqual(got, want, 1e-12) {
			t.Fatalf("n=%d: got %v, want %v", n, got, want)
		}
	}
}

func TestChain_StateRoundTrip(t *testing.T) {
	chain := NewChain(twoSectionCoeffs())
	chain.ProcessSample(1)
	chain.ProcessSample(-0.5)
	saved := chain.State()

	chain.Reset()
	for _, st := range chain.State() {
		if st != [2]float64{} {
			t.Fatalf("Reset left state %v", st)
		}
	}

	chain.SetState(saved)
	for i, st := range chain.State() {
		if st != saved[i] {
			t.Fatalf("section %d: got %v, want %v", i, st, saved[i])
		}
	}
}
