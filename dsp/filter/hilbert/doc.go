// Package hilbert computes the discrete analytic signal of a finite real
// buffer with the frequency-domain method.
//
// The spectrum of x is taken with a full-length FFT, negative-frequency bins
// are cleared, strictly positive bins are doubled, and the DC and (for even
// lengths) Nyquist bins are kept once. The inverse transform is the analytic
// signal z with real(z) == x and imag(z) equal to the Hilbert transform of x.
//
// Any buffer length >= 1 is accepted; transforms are not restricted to powers
// of two.
package hilbert
