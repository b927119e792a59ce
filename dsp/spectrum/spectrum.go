package spectrum

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Magnitude returns |X[k]| for each complex bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	magnitudeInto(out, in)
	return out
}

// magnitudeInto writes |in[k]| to dst, which must have len(in) elements.
func magnitudeInto(dst []float64, in []complex128) {
	re, im, buf := getScratch(len(in))
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(dst, re, im)
	putScratch(buf)
}

// Power returns |X[k]|^2 for each complex bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(out, re, im)
	putScratch(buf)
	return out
}

// Frequencies returns the centered frequency axis for an n-point transform
// at sample rate fs, from the most negative frequency up. For even n the
// first entry is -fs/2.
func Frequencies(n int, fs float64) []float64 {
	out := make([]float64, n)
	half := n / 2
	for i := range out {
		// Position i of the shifted axis holds bin (i-half) mod n.
		out[i] = float64(i-half) * fs / float64(n)
	}
	return out
}

// shiftInto reorders the bins of an n-point transform so that bin
// (i-n/2) mod n lands at position i.
func shiftInto(dst, src []float64) {
	n := len(src)
	half := n / 2
	for i := range dst {
		k := i - half
		if k < 0 {
			k += n
		}
		dst[i] = src[k]
	}
}

func validSampleRate(fs float64) bool {
	return fs > 0 && !math.IsInf(fs, 0) && !math.IsNaN(fs)
}
