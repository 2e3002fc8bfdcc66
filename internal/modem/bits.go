package modem

import (
	"fmt"
	"math/rand"
)

// GenerateBits produces n uniformly random bits (one 0/1 value per byte)
// from a dedicated RNG seeded with seed. The same (n, seed) pair always
// yields the identical sequence; nothing here touches the global rand state.
func GenerateBits(n int, seed int64) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: bit count must be positive, got %d", ErrInvalidParameter, n)
	}

	rng := rand.New(rand.NewSource(seed))
	bits := make([]byte, n)
	for i := range bits {
		bits[i] = byte(rng.Intn(2))
	}
	return bits, nil
}
