// Package design computes Butterworth IIR coefficients in second-order
// section form.
//
// A [Spec] names the response type, prototype order and cutoffs normalized
// to Nyquist. [Design] starts from the analog Butterworth prototype,
// prewarps the cutoffs, applies the lowpass or lowpass-to-bandpass
// transformation and maps the result into the z-plane with the bilinear
// transform. Poles are grouped into conjugate pairs so that every section is
// at most second order, which keeps high-order designs numerically stable.
//
// [Cache] memoizes designs for reuse across buffers and goroutines.
package design
