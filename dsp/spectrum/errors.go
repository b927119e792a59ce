package spectrum

import "errors"

var (
	// ErrEmptySignal is returned for a zero-length input.
	ErrEmptySignal = errors.New("spectrum: empty signal")
	// ErrInvalidSampleRate is returned for a non-positive or non-finite
	// sample rate.
	ErrInvalidSampleRate = errors.New("spectrum: invalid sample rate")
	// ErrInvalidFrameSize is returned when a frame size is not a power of
	// two or exceeds the signal length.
	ErrInvalidFrameSize = errors.New("spectrum: invalid frame size")
	// ErrInvalidBand is returned when a frequency range is malformed or
	// selects no bins.
	ErrInvalidBand = errors.New("spectrum: invalid band")
	// ErrInvalidFrequency is returned when a tone frequency lies outside
	// [0, fs/2].
	ErrInvalidFrequency = errors.New("spectrum: invalid frequency")
)
