package ssb

import (
	"fmt"
	"strings"
)

// Sideband selects which side of the carrier carries the signal.
type Sideband int

const (
	// Upper places the signal above the carrier.
	Upper Sideband = iota
	// Lower places the signal below the carrier, spectrally inverted.
	Lower
)

func (s Sideband) String() string {
	switch s {
	case Upper:
		return "upper"
	case Lower:
		return "lower"
	default:
		return fmt.Sprintf("Sideband(%d)", int(s))
	}
}

// ParseSideband accepts "upper"/"usb" and "lower"/"lsb", case-insensitive.
func ParseSideband(s string) (Sideband, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "upper", "usb":
		return Upper, nil
	case "lower", "lsb":
		return Lower, nil
	default:
		return 0, fmt.Errorf("%w: sideband %q", ErrUnknownStrategy, s)
	}
}

// ModulatorKind enumerates the modulation strategies.
type ModulatorKind int

const (
	ModulatorHilbert ModulatorKind = iota
	ModulatorFilter
)

func (k ModulatorKind) String() string {
	switch k {
	case ModulatorHilbert:
		return "hilbert"
	case ModulatorFilter:
		return "filter"
	default:
		return fmt.Sprintf("ModulatorKind(%d)", int(k))
	}
}

// ParseModulatorKind resolves a name produced by ModulatorKind.String.
func ParseModulatorKind(s string) (ModulatorKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hilbert":
		return ModulatorHilbert, nil
	case "filter":
		return ModulatorFilter, nil
	default:
		return 0, fmt.Errorf("%w: modulator %q", ErrUnknownStrategy, s)
	}
}

// DemodulatorKind enumerates the demodulation strategies.
type DemodulatorKind int

const (
	DemodulatorCoherent DemodulatorKind = iota
	DemodulatorButterworth
)

func (k DemodulatorKind) String() string {
	switch k {
	case DemodulatorCoherent:
		return "coherent"
	case DemodulatorButterworth:
		return "butterworth"
	default:
		return fmt.Sprintf("DemodulatorKind(%d)", int(k))
	}
}

// ParseDemodulatorKind resolves a name produced by DemodulatorKind.String.
func ParseDemodulatorKind(s string) (DemodulatorKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "coherent":
		return DemodulatorCoherent, nil
	case "butterworth", "butter":
		return DemodulatorButterworth, nil
	default:
		return 0, fmt.Errorf("%w: demodulator %q", ErrUnknownStrategy, s)
	}
}
