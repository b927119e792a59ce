// Package fidelity scores a recovered signal against the original it was
// derived from.
//
// The metrics are insensitive to the things a modulation round trip may
// legitimately change: [Correlation] ignores gain and offset, and
// [OutputSNR] removes the best-fitting gain before measuring the residual.
// [AmplitudeRatio] reports the gain itself. [Compare] bundles them together
// with the dominant frequency of the recovered signal.
package fidelity
