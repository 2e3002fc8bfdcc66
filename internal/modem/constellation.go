package modem

import (
	"fmt"
	"math"
)

// Constellation holds the symbol table for one modulation scheme.
//
// BPSK and QPSK are antipodal per bit (0 -> -1, 1 -> +1), with QPSK scaled
// by 1/sqrt(2) for unit average symbol energy. 16-QAM and 64-QAM sit on a
// square lattice with odd integer coordinates and are deliberately left
// unnormalized; the differing average energies are accounted for in the
// theoretical BER formulas, not here.
type Constellation struct {
	Mod    Modulation
	points []complex128
}

// ConstellationPoint is one labeled symbol, for plotting. Bits is []int
// rather than []byte so it serializes as a JSON array, not base64.
type ConstellationPoint struct {
	Bits []int   `json:"bits"`
	I    float64 `json:"i"`
	Q    float64 `json:"q"`
}

// NewConstellation creates the constellation for the given modulation.
func NewConstellation(mod Modulation) (*Constellation, error) {
	c := &Constellation{Mod: mod}
	switch mod {
	case ModBPSK:
		c.points = []complex128{complex(-1, 0), complex(1, 0)}
	case ModQPSK:
		c.generateQPSK()
	case Mod16QAM:
		c.generateQAM(4) // 4x4
	case Mod64QAM:
		c.generateQAM(8) // 8x8
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedScheme, int(mod))
	}
	return c, nil
}

func (c *Constellation) generateQPSK() {
	// First bit drives I, second drives Q, each antipodal.
	inv := 1.0 / math.Sqrt2
	c.points = make([]complex128, 4)
	for v := 0; v < 4; v++ {
		i := float64(2*(v>>1) - 1)
		q := float64(2*(v&1) - 1)
		c.points[v] = complex(i*inv, q*inv)
	}
}

func (c *Constellation) generateQAM(order int) {
	// Square QAM on odd integer levels -(order-1) ... +(order-1).
	// Each axis is labeled with a binary-reflected Gray code so that
	// lattice neighbors differ in exactly one bit.
	half := bitLen(order - 1)
	size := order * order
	c.points = make([]complex128, size)

	for v := 0; v < size; v++ {
		vi := v >> half
		vq := v & (order - 1)
		i := float64(2*grayDecode(vi) - order + 1)
		q := float64(2*grayDecode(vq) - order + 1)
		c.points[v] = complex(i, q)
	}
}

// AverageEnergy returns the mean squared magnitude over all points.
func (c *Constellation) AverageEnergy() float64 {
	var sum float64
	for _, p := range c.points {
		sum += real(p)*real(p) + imag(p)*imag(p)
	}
	return sum / float64(len(c.points))
}

// Map maps one k-bit group to its constellation point.
func (c *Constellation) Map(bits []byte) complex128 {
	idx := bitsToIndex(bits)
	if idx >= len(c.points) {
		idx = 0
	}
	return c.points[idx]
}

// Demap finds the closest constellation point and returns its bits.
func (c *Constellation) Demap(symbol complex128) []byte {
	minDist := math.MaxFloat64
	minIdx := 0

	for i, p := range c.points {
		d := real(symbol-p)*real(symbol-p) + imag(symbol-p)*imag(symbol-p)
		if d < minDist {
			minDist = d
			minIdx = i
		}
	}

	return indexToBits(minIdx, c.Mod.BitsPerSymbol())
}

// MapBits maps a bit slice (one 0/1 value per byte) to symbols.
// The input is right-padded with zeros to a whole number of groups;
// the padded bits are simulation filler, not information.
func (c *Constellation) MapBits(bits []byte) []complex128 {
	bps := c.Mod.BitsPerSymbol()
	padded := bits
	if rem := len(bits) % bps; rem != 0 {
		padded = make([]byte, len(bits)+bps-rem)
		copy(padded, bits)
	}

	symbols := make([]complex128, len(padded)/bps)
	for i := range symbols {
		symbols[i] = c.Map(padded[i*bps : (i+1)*bps])
	}
	return symbols
}

// DemapSymbols demaps symbols back to bits.
func (c *Constellation) DemapSymbols(symbols []complex128) []byte {
	bps := c.Mod.BitsPerSymbol()
	bits := make([]byte, 0, len(symbols)*bps)

	for _, s := range symbols {
		bits = append(bits, c.Demap(s)...)
	}
	return bits
}

// Labeled returns every point with its bit label, for constellation plots.
func (c *Constellation) Labeled() []ConstellationPoint {
	bps := c.Mod.BitsPerSymbol()
	out := make([]ConstellationPoint, len(c.points))
	for i, p := range c.points {
		label := make([]int, bps)
		for j, b := range indexToBits(i, bps) {
			label[j] = int(b)
		}
		out[i] = ConstellationPoint{
			Bits: label,
			I:    real(p),
			Q:    imag(p),
		}
	}
	return out
}

func bitsToIndex(bits []byte) int {
	idx := 0
	for _, b := range bits {
		idx = (idx << 1) | int(b&1)
	}
	return idx
}

func indexToBits(idx, numBits int) []byte {
	bits := make([]byte, numBits)
	for i := numBits - 1; i >= 0; i-- {
		bits[i] = byte(idx & 1)
		idx >>= 1
	}
	return bits
}

func grayEncode(n int) int {
	return n ^ (n >> 1)
}

func grayDecode(g int) int {
	n := 0
	for ; g > 0; g >>= 1 {
		n ^= g
	}
	return n
}

func bitLen(n int) int {
	l := 0
	for ; n > 0; n >>= 1 {
		l++
	}
	return l
}
