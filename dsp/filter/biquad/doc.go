// Package biquad provides the second-order-section runtime used by every
// IIR filter in the SSB pipeline.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Sections are cascaded via
// [Chain]; high-order Butterworth responses are always executed this way so
// that no recursion exceeds order two.
//
// Coefficient design lives in dsp/filter/design; forward-backward filtering
// lives in dsp/filter/zerophase.
package biquad
