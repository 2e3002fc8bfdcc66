package modem

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Spectrum is a one-sided power spectrum in dB.
type Spectrum struct {
	Freq    []float64 `json:"freq"`
	PowerDB []float64 `json:"power_db"`
}

// PowerSpectrum computes a Hann-windowed periodogram of samples at sample
// rate fs, zero-padded to the next power of two. Power is relative dB with
// the same 1e-12 floor used for BER plots.
func PowerSpectrum(samples []float64, fs float64) (*Spectrum, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty sample sequence", ErrInvalidParameter)
	}
	if fs <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %g", ErrInvalidParameter, fs)
	}

	n := nextPow2(len(samples))
	windowed := make([]float64, n)
	if len(samples) == 1 {
		windowed[0] = samples[0]
	} else {
		// Hann window over the original length.
		denom := float64(len(samples) - 1)
		for i, s := range samples {
			windowed[i] = s * 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/denom))
		}
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, windowed)

	sp := &Spectrum{
		Freq:    make([]float64, len(coeffs)),
		PowerDB: make([]float64, len(coeffs)),
	}
	for i, c := range coeffs {
		mag2 := real(c)*real(c) + imag(c)*imag(c)
		p := mag2 / float64(n*n)
		if p < BERFloor {
			p = BERFloor
		}
		sp.Freq[i] = fft.Freq(i) * fs
		sp.PowerDB[i] = 10 * math.Log10(p)
	}
	return sp, nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
