// Package ssb implements single-sideband modulation and demodulation of
// finite real buffers.
//
// Two modulators translate a baseband signal up around a carrier fc:
//
//   - [HilbertModulator] (phasing method) multiplies the analytic signal by
//     exp(+/-j*2*pi*fc*t) and keeps the real part. Only the selected
//     sideband is produced.
//   - [FilterModulator] mixes with cos(2*pi*fc*t), producing both
//     sidebands at half amplitude, then isolates one of them with a
//     zero-phase Butterworth bandpass.
//
// Two demodulators bring a received signal back to baseband:
//
//   - [CoherentDemodulator] mixes with cos(2*pi*fc*t) and lowpass filters.
//   - [ButterworthDemodulator] mixes with exp(-j*2*pi*fc*t) (conjugated
//     for the lower sideband), lowpass filters the complex baseband and
//     keeps the real part.
//
// Both demodulators apply a product-detector gain of [DemodulatorGain], so
// a Hilbert-modulated tone is recovered at its original amplitude.
//
// Every stage derives its own time base from the buffer length and sample
// rate, never mutates its input and returns a new slice. Modulators and
// demodulators hold only immutable configuration and a design cache that
// is safe for concurrent use, so a single value may serve many goroutines.
package ssb
