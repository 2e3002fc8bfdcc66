package modem

import (
	"errors"
	"math"
	"testing"
)

func TestSynthesize_Length(t *testing.T) {
	c, _ := NewConstellation(ModQPSK)
	symbols := c.MapBits([]byte{1, 0, 1, 1, 0, 0})

	w, err := Synthesize(symbols, 10, 1e6, 20e6)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	want := len(symbols) * 10
	if len(w.Samples) != want || len(w.Time) != want || len(w.Carrier) != want {
		t.Errorf("lengths %d/%d/%d, want %d", len(w.Samples), len(w.Time), len(w.Carrier), want)
	}
}

func TestSynthesize_TimeVector(t *testing.T) {
	symbols := []complex128{1, -1}
	w, err := Synthesize(symbols, 4, 1e3, 1e4)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	for i, tv := range w.Time {
		want := float64(i) / 1e4
		if math.Abs(tv-want) > 1e-15 {
			t.Fatalf("t[%d] = %g, want %g", i, tv, want)
		}
	}
}

// BPSK has no quadrature component; the passband signal is exactly the
// upsampled symbols times the in-phase carrier.
func TestSynthesize_BPSKIsCarrierProduct(t *testing.T) {
	c, _ := NewConstellation(ModBPSK)
	symbols := c.MapBits([]byte{1, 0, 1})

	w, err := Synthesize(symbols, 8, 1e6, 16e6)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	for i := range w.Samples {
		if w.QBaseband[i] != 0 {
			t.Fatalf("BPSK Q baseband nonzero at %d", i)
		}
		want := w.IBaseband[i] * w.Carrier[i]
		if math.Abs(w.Samples[i]-want) > 1e-12 {
			t.Fatalf("sample %d = %g, want %g", i, w.Samples[i], want)
		}
	}
}

func TestSynthesize_InvalidParameters(t *testing.T) {
	symbols := []complex128{1, -1}

	tests := []struct {
		name   string
		sps    int
		fc, fs float64
	}{
		{"zero sps", 0, 1e6, 20e6},
		{"negative sps", -1, 1e6, 20e6},
		{"zero sample rate", 10, 1e6, 0},
		{"zero carrier", 10, 0, 20e6},
		{"carrier at nyquist", 10, 10e6, 20e6},
		{"carrier above nyquist", 10, 15e6, 20e6},
	}
	for _, tt := range tests {
		if _, err := Synthesize(symbols, tt.sps, tt.fc, tt.fs); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%s: got %v, want ErrInvalidParameter", tt.name, err)
		}
	}

	if _, err := Synthesize(nil, 10, 1e6, 20e6); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("empty symbols: got %v, want ErrInvalidParameter", err)
	}
}
