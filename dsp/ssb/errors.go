package ssb

import "errors"

var (
	// ErrInvalidCarrier is returned when the carrier or sample rate cannot
	// describe a valid passband: fc <= 0, fc >= fs/2, fs <= 0 or either
	// value non-finite.
	ErrInvalidCarrier = errors.New("ssb: invalid carrier frequency")
	// ErrEmptySignal is returned for a zero-length input.
	ErrEmptySignal = errors.New("ssb: empty signal")
	// ErrNumericDegeneracy is returned when a stage produces NaN or Inf.
	ErrNumericDegeneracy = errors.New("ssb: numeric degeneracy")
	// ErrUnknownStrategy is returned for an unrecognized modulator,
	// demodulator or sideband name or value.
	ErrUnknownStrategy = errors.New("ssb: unknown strategy")
	// ErrInvalidOption is returned by an option with an out-of-range value.
	ErrInvalidOption = errors.New("ssb: invalid option")
)
