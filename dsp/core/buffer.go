package core

// Clone returns a copy of x. A nil or empty input yields an empty non-nil slice.
func Clone(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	return out
}

// Reverse reverses buf in place.
func Reverse(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}

// Truncate returns the first n samples of a and b, where n is the shorter
// length. Used when comparing a recovered signal against its source.
func Truncate(a, b []float64) ([]float64, []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	return a[:n], b[:n]
}
