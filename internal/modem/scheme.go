package modem

import (
	"fmt"
	"strings"
)

// Modulation represents a digital modulation scheme.
type Modulation int

const (
	ModBPSK  Modulation = 1 // 1 bit per symbol
	ModQPSK  Modulation = 2 // 2 bits per symbol
	Mod16QAM Modulation = 4 // 4 bits per symbol
	Mod64QAM Modulation = 6 // 6 bits per symbol
)

// Schemes lists every supported modulation in display order.
func Schemes() []Modulation {
	return []Modulation{ModBPSK, ModQPSK, Mod16QAM, Mod64QAM}
}

// BitsPerSymbol returns the number of bits per constellation symbol.
func (m Modulation) BitsPerSymbol() int {
	return int(m)
}

// Valid reports whether m is one of the supported schemes.
func (m Modulation) Valid() bool {
	switch m {
	case ModBPSK, ModQPSK, Mod16QAM, Mod64QAM:
		return true
	}
	return false
}

// String returns the modulation name.
func (m Modulation) String() string {
	switch m {
	case ModBPSK:
		return "BPSK"
	case ModQPSK:
		return "QPSK"
	case Mod16QAM:
		return "16-QAM"
	case Mod64QAM:
		return "64-QAM"
	default:
		return "Unknown"
	}
}

// ParseModulation parses a modulation name as it appears in API requests.
// Accepts the hyphenated and plain QAM spellings.
func ParseModulation(s string) (Modulation, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BPSK":
		return ModBPSK, nil
	case "QPSK":
		return ModQPSK, nil
	case "16-QAM", "16QAM":
		return Mod16QAM, nil
	case "64-QAM", "64QAM":
		return Mod64QAM, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedScheme, s)
	}
}
