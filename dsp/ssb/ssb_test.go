package ssb

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-ssb/dsp/filter/design"
	"github.com/cwbudde/algo-ssb/dsp/filter/zerophase"
	"github.com/cwbudde/algo-ssb/dsp/spectrum"
	"github.com/cwbudde/algo-ssb/internal/testutil"
)

const (
	testFS = 44100.0
	testFC = 5000.0
	testN  = 44100
)

func toneAmp(t *testing.T, x []float64, f float64) float64 {
	t.Helper()
	a, err := spectrum.ToneAmplitude(x, f, testFS)
	require.NoError(t, err)
	return a
}

func mustModulator(t *testing.T, kind ModulatorKind, opts ...Option) Modulator {
	t.Helper()
	m, err := NewModulator(kind, opts...)
	require.NoError(t, err)
	return m
}

func mustDemodulator(t *testing.T, kind DemodulatorKind, opts ...Option) Demodulator {
	t.Helper()
	d, err := NewDemodulator(kind, opts...)
	require.NoError(t, err)
	return d
}

func TestEndToEnd_HilbertButterworthTone(t *testing.T) {
	x := testutil.DeterministicSine(1000, testFS, 1, testN)

	y, err := mustModulator(t, ModulatorHilbert).Modulate(x, testFC, testFS)
	require.NoError(t, err)
	require.Len(t, y, testN)

	rec, err := mustDemodulator(t, DemodulatorButterworth).Demodulate(y, testFC, testFS)
	require.NoError(t, err)
	require.Len(t, rec, testN)

	freqs, mags, err := spectrum.Centered(rec, testFS)
	require.NoError(t, err)
	peak, err := spectrum.PeakFrequency(freqs, mags, 1, testFS/2)
	require.NoError(t, err)
	assert.InDelta(t, 1000, peak, 5)

	assert.GreaterOrEqual(t, stat.Correlation(x, rec, nil), 0.9)
	assert.InDelta(t, 1, toneAmp(t, rec, 1000), 0.1)
}

func TestHilbertModulator_SidebandIsolation(t *testing.T) {
	x := testutil.DeterministicSine(1000, testFS, 1, testN)

	tests := []struct {
		sideband     Sideband
		want, mirror float64
	}{
		{Upper, testFC + 1000, testFC - 1000},
		{Lower, testFC - 1000, testFC + 1000},
	}
	for _, tt := range tests {
		t.Run(tt.sideband.String(), func(t *testing.T) {
			m, err := NewHilbertModulator(WithSideband(tt.sideband))
			require.NoError(t, err)
			assert.Equal(t, tt.sideband, m.Sideband())

			y, err := m.Modulate(x, testFC, testFS)
			require.NoError(t, err)

			kept := toneAmp(t, y, tt.want)
			assert.InDelta(t, 1, kept, 1e-4)
			assert.Less(t, toneAmp(t, y, tt.mirror), 0.01*kept)
			assert.Less(t, toneAmp(t, y, testFC), 0.01*kept)
		})
	}
}

func TestFilterModulator_SidebandIsolation(t *testing.T) {
	// A 250 Hz tone keeps its sideband inside the 500 Hz passband.
	x := testutil.DeterministicSine(250, testFS, 1, testN)

	tests := []struct {
		sideband     Sideband
		want, mirror float64
		low, high    float64
	}{
		{Upper, testFC + 250, testFC - 250, testFC, testFC + 500},
		{Lower, testFC - 250, testFC + 250, testFC - 500, testFC},
	}
	for _, tt := range tests {
		t.Run(tt.sideband.String(), func(t *testing.T) {
			m, err := NewFilterModulator(WithSideband(tt.sideband))
			require.NoError(t, err)

			low, high := m.Passband(testFC)
			assert.Equal(t, tt.low, low)
			assert.Equal(t, tt.high, high)

			y, err := m.Modulate(x, testFC, testFS)
			require.NoError(t, err)

			kept := toneAmp(t, y, tt.want)
			assert.InDelta(t, 0.5, kept, 0.02, "mixing halves the kept sideband")
			assert.Less(t, toneAmp(t, y, tt.mirror), 0.01*kept)
		})
	}
}

func TestRoundTrip_AllCombinations(t *testing.T) {
	x := testutil.DeterministicSine(250, testFS, 0.8, testN)

	tests := []struct {
		mod   ModulatorKind
		demod DemodulatorKind
		gain  float64
	}{
		{ModulatorHilbert, DemodulatorButterworth, 1},
		{ModulatorHilbert, DemodulatorCoherent, 1},
		{ModulatorFilter, DemodulatorButterworth, 0.5},
		{ModulatorFilter, DemodulatorCoherent, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.mod.String()+"_"+tt.demod.String(), func(t *testing.T) {
			y, err := mustModulator(t, tt.mod).Modulate(x, testFC, testFS)
			require.NoError(t, err)
			rec, err := mustDemodulator(t, tt.demod).Demodulate(y, testFC, testFS)
			require.NoError(t, err)

			assert.InDelta(t, 0.8*tt.gain, toneAmp(t, rec, 250), 0.05*0.8*tt.gain)
			assert.Greater(t, stat.Correlation(x[1000:testN-1000], rec[1000:testN-1000], nil), 0.95)
		})
	}
}

func TestButterworthDemodulator_Baseband(t *testing.T) {
	x := testutil.DeterministicCosine(1000, testFS, 1, testN)
	wantIm := testutil.DeterministicSine(1000, testFS, 1, testN)

	for _, sb := range []Sideband{Upper, Lower} {
		t.Run(sb.String(), func(t *testing.T) {
			m, err := NewHilbertModulator(WithSideband(sb))
			require.NoError(t, err)
			y, err := m.Modulate(x, testFC, testFS)
			require.NoError(t, err)

			d, err := NewButterworthDemodulator(WithSideband(sb))
			require.NoError(t, err)
			z, err := d.Baseband(y, testFC, testFS)
			require.NoError(t, err)

			mid := testN / 2
			for i := mid; i < mid+100; i++ {
				assert.InDelta(t, x[i], real(z[i]), 1e-3)
				assert.InDelta(t, wantIm[i], imag(z[i]), 1e-3)
			}
		})
	}
}

func TestButterworthDemodulator_BasebandIsFilteredComplexMix(t *testing.T) {
	const n = 4096
	r := testutil.DeterministicNoise(3, 1, n)

	for _, sb := range []Sideband{Upper, Lower} {
		t.Run(sb.String(), func(t *testing.T) {
			d, err := NewButterworthDemodulator(WithSideband(sb))
			require.NoError(t, err)
			got, err := d.Baseband(r, testFC, testFS)
			require.NoError(t, err)

			sign := -1.0
			if sb == Lower {
				sign = 1
			}
			mixed := make([]complex128, n)
			for i, v := range r {
				w := 2 * math.Pi * testFC * float64(i) / testFS
				mixed[i] = complex(v*math.Cos(w), sign*v*math.Sin(w))
			}
			coeffs, err := design.LowpassHz(DefaultLowpassOrder, d.CutoffHz(testFS), testFS)
			require.NoError(t, err)
			want, err := zerophase.ApplyComplex(coeffs, mixed)
			require.NoError(t, err)

			require.Len(t, got, n)
			for i := range got {
				require.InDelta(t, DemodulatorGain*real(want[i]), real(got[i]), 1e-9, "re %d", i)
				require.InDelta(t, DemodulatorGain*imag(want[i]), imag(got[i]), 1e-9, "im %d", i)
			}
		})
	}
}

func TestButterworthDemodulator_BasebandTooShort(t *testing.T) {
	d, err := NewButterworthDemodulator()
	require.NoError(t, err)
	_, err = d.Baseband(make([]float64, 4), testFC, testFS)
	require.ErrorIs(t, err, zerophase.ErrBufferTooShort)
}

func TestButterworthDemodulator_RealPartIgnoresSideband(t *testing.T) {
	m, err := NewHilbertModulator(WithSideband(Lower))
	require.NoError(t, err)
	y, err := m.Modulate(testutil.DeterministicSine(700, testFS, 1, 8192), testFC, testFS)
	require.NoError(t, err)

	up, err := NewButterworthDemodulator(WithSideband(Upper))
	require.NoError(t, err)
	lo, err := NewButterworthDemodulator(WithSideband(Lower))
	require.NoError(t, err)

	a, err := up.Demodulate(y, testFC, testFS)
	require.NoError(t, err)
	b, err := lo.Demodulate(y, testFC, testFS)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestStages_DoNotMutateInput(t *testing.T) {
	x := testutil.DeterministicNoise(9, 0.5, 4096)
	orig := append([]float64(nil), x...)

	for _, mk := range []ModulatorKind{ModulatorHilbert, ModulatorFilter} {
		_, err := mustModulator(t, mk).Modulate(x, testFC, testFS)
		require.NoError(t, err)
	}
	for _, dk := range []DemodulatorKind{DemodulatorCoherent, DemodulatorButterworth} {
		_, err := mustDemodulator(t, dk).Demodulate(x, testFC, testFS)
		require.NoError(t, err)
	}
	assert.Equal(t, orig, x)
}

type stage struct {
	name string
	run  func(x []float64, fc, fs float64) ([]float64, error)
}

func allStages(t *testing.T) []stage {
	t.Helper()
	var out []stage
	for _, mk := range []ModulatorKind{ModulatorHilbert, ModulatorFilter} {
		m := mustModulator(t, mk)
		out = append(out, stage{"modulate/" + mk.String(), m.Modulate})
	}
	for _, dk := range []DemodulatorKind{DemodulatorCoherent, DemodulatorButterworth} {
		d := mustDemodulator(t, dk)
		out = append(out, stage{"demodulate/" + dk.String(), d.Demodulate})
	}
	return out
}

func TestStages_InvalidCarrier(t *testing.T) {
	x := testutil.DeterministicSine(440, testFS, 1, 2048)
	carriers := []struct {
		name   string
		fc, fs float64
	}{
		{"zero carrier", 0, testFS},
		{"negative carrier", -100, testFS},
		{"nyquist carrier", testFS / 2, testFS},
		{"above nyquist", testFS, testFS},
		{"nan carrier", math.NaN(), testFS},
		{"zero rate", testFC, 0},
		{"inf rate", testFC, math.Inf(1)},
	}

	for _, st := range allStages(t) {
		for _, c := range carriers {
			t.Run(st.name+"/"+c.name, func(t *testing.T) {
				_, err := st.run(x, c.fc, c.fs)
				assert.ErrorIs(t, err, ErrInvalidCarrier)
			})
		}
	}
}

func TestStages_EmptySignal(t *testing.T) {
	for _, st := range allStages(t) {
		t.Run(st.name, func(t *testing.T) {
			_, err := st.run(nil, testFC, testFS)
			assert.ErrorIs(t, err, ErrEmptySignal)
			_, err = st.run([]float64{}, testFC, testFS)
			assert.ErrorIs(t, err, ErrEmptySignal)
		})
	}
}

func TestStages_NonFiniteInput(t *testing.T) {
	x := testutil.DeterministicSine(440, testFS, 1, 2048)
	x[1000] = math.NaN()

	for _, st := range allStages(t) {
		t.Run(st.name, func(t *testing.T) {
			_, err := st.run(x, testFC, testFS)
			assert.ErrorIs(t, err, ErrNumericDegeneracy)
		})
	}
}

func TestFilterModulator_FilterErrorsPropagate(t *testing.T) {
	m, err := NewFilterModulator()
	require.NoError(t, err)

	// fc + 500 Hz lands above Nyquist.
	_, err = m.Modulate(make([]float64, 4096), 21900, testFS)
	assert.ErrorIs(t, err, design.ErrInvalidSpec)

	_, err = m.Modulate(make([]float64, 10), testFC, testFS)
	assert.ErrorIs(t, err, zerophase.ErrBufferTooShort)
}

func TestCoherentDemodulator_CutoffAboveNyquist(t *testing.T) {
	d, err := NewCoherentDemodulator()
	require.NoError(t, err)

	// 4000 Hz default cutoff equals Nyquist at 8 kHz.
	_, err = d.Demodulate(make([]float64, 1024), 1000, 8000)
	assert.ErrorIs(t, err, design.ErrInvalidSpec)
}

func TestCutoffResolution(t *testing.T) {
	coh, err := NewCoherentDemodulator()
	require.NoError(t, err)
	assert.Equal(t, DefaultCoherentCutoffHz, coh.CutoffHz(testFS))

	bw, err := NewButterworthDemodulator()
	require.NoError(t, err)
	assert.InDelta(t, 2205, bw.CutoffHz(testFS), 1e-9)

	tests := []struct {
		name string
		opts []Option
		want float64
	}{
		{"ratio", []Option{WithCutoffRatio(0.2)}, 4410},
		{"bandwidth", []Option{WithBandwidth(3000), WithCutoffRatio(0.2)}, 3000},
		{"explicit", []Option{WithCutoffHz(1500), WithBandwidth(3000)}, 1500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCoherentDemodulator(tt.opts...)
			require.NoError(t, err)
			b, err := NewButterworthDemodulator(tt.opts...)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, c.CutoffHz(testFS), 1e-9)
			assert.InDelta(t, tt.want, b.CutoffHz(testFS), 1e-9)
		})
	}

	fm, err := NewFilterModulator(WithBandwidth(3000))
	require.NoError(t, err)
	_, high := fm.Passband(testFC)
	assert.Equal(t, testFC+3000, high)
}

func TestOptions_Invalid(t *testing.T) {
	bad := []Option{
		WithSideband(Sideband(7)),
		WithBandwidth(0),
		WithBandwidth(math.Inf(1)),
		WithFilterOrder(0),
		WithFilterOrder(design.MaxOrder + 1),
		WithCutoffHz(-1),
		WithCutoffRatio(1),
		WithCutoffRatio(math.NaN()),
		WithCache(nil),
	}
	for _, opt := range bad {
		_, err := NewFilterModulator(opt)
		assert.Error(t, err)
		_, err = NewCoherentDemodulator(opt)
		assert.Error(t, err)
	}

	_, err := NewHilbertModulator(WithBandwidth(-5))
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = NewHilbertModulator(WithSideband(Sideband(-1)))
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	// nil options are skipped.
	_, err = NewButterworthDemodulator(nil, WithFilterOrder(4))
	assert.NoError(t, err)
}

func TestKinds(t *testing.T) {
	_, err := NewModulator(ModulatorKind(9))
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	_, err = NewDemodulator(DemodulatorKind(9))
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	for _, k := range []ModulatorKind{ModulatorHilbert, ModulatorFilter} {
		got, err := ParseModulatorKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
		assert.Equal(t, k, mustModulator(t, k).Kind())
	}
	for _, k := range []DemodulatorKind{DemodulatorCoherent, DemodulatorButterworth} {
		got, err := ParseDemodulatorKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
		assert.Equal(t, k, mustDemodulator(t, k).Kind())
	}

	sb, err := ParseSideband(" LSB ")
	require.NoError(t, err)
	assert.Equal(t, Lower, sb)

	_, err = ParseModulatorKind("am")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	_, err = ParseDemodulatorKind("envelope")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	_, err = ParseSideband("dsb")
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	assert.Equal(t, "ModulatorKind(9)", ModulatorKind(9).String())
	assert.Equal(t, "Sideband(3)", Sideband(3).String())
}

func TestSharedCache_Concurrent(t *testing.T) {
	cache := design.NewCache()
	m, err := NewFilterModulator(WithCache(cache))
	require.NoError(t, err)
	d, err := NewCoherentDemodulator(WithCache(cache))
	require.NoError(t, err)

	x := testutil.DeterministicSine(300, testFS, 1, 8192)
	want, err := d.Demodulate(mustFilterMod(t, m, x), testFC, testFS)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			y, err := m.Modulate(x, testFC, testFS)
			if err != nil {
				errs <- err
				return
			}
			got, err := d.Demodulate(y, testFC, testFS)
			if err != nil {
				errs <- err
				return
			}
			for i := range got {
				if got[i] != want[i] {
					errs <- errors.New("concurrent result differs")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	assert.Equal(t, 2, cache.Len())
}

func mustFilterMod(t *testing.T, m *FilterModulator, x []float64) []float64 {
	t.Helper()
	y, err := m.Modulate(x, testFC, testFS)
	require.NoError(t, err)
	return y
}
