// Package spectrum provides the frequency-domain views used to inspect
// modulated and recovered signals.
//
// [Centered] returns the two-sided magnitude spectrum of a whole buffer,
// ordered from -fs/2 to fs/2. [Frames] splits a buffer into fixed-size
// power-of-two chunks and returns one centered spectrum per chunk.
// [PeakFrequency] and [BandEnergy] search those spectra, and [Goertzel]
// measures a single tone without computing a full transform.
package spectrum
