package modem

import (
	"errors"
	"math"
	"testing"
)

func TestPowerSpectrum_PureTone(t *testing.T) {
	const (
		fs = 8000.0
		f0 = 1000.0 // fs/8, exactly on a bin for n=256
		n  = 256
	)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Cos(2 * math.Pi * f0 * float64(i) / fs)
	}

	sp, err := PowerSpectrum(samples, fs)
	if err != nil {
		t.Fatalf("PowerSpectrum: %v", err)
	}

	peak := 0
	for i := range sp.PowerDB {
		if sp.PowerDB[i] > sp.PowerDB[peak] {
			peak = i
		}
	}

	binWidth := fs / float64(n)
	if math.Abs(sp.Freq[peak]-f0) > binWidth {
		t.Errorf("peak at %g Hz, want %g Hz (bin width %g)", sp.Freq[peak], f0, binWidth)
	}
}

func TestPowerSpectrum_ZeroPadsToPowerOfTwo(t *testing.T) {
	samples := make([]float64, 300)
	for i := range samples {
		samples[i] = math.Sin(float64(i))
	}

	sp, err := PowerSpectrum(samples, 1000)
	if err != nil {
		t.Fatalf("PowerSpectrum: %v", err)
	}
	// 300 -> 512, real FFT yields n/2+1 bins.
	if len(sp.Freq) != 257 {
		t.Errorf("got %d bins, want 257", len(sp.Freq))
	}
}

func TestPowerSpectrum_InvalidInput(t *testing.T) {
	if _, err := PowerSpectrum(nil, 1000); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("empty samples: got %v", err)
	}
	if _, err := PowerSpectrum([]float64{1, 2}, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("zero sample rate: got %v", err)
	}
}
