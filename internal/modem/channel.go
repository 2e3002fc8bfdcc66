package modem

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// ChannelResult holds one trip through the AWGN channel plus the coherent
// demodulator outputs.
type ChannelResult struct {
	Received []float64
	Noise    []float64
	DemodI   []float64 // rx * cos(2*pi*fc*t)
	DemodQ   []float64 // rx * -sin(2*pi*fc*t)

	// SNRdB is measured from the realized noise draw, not the target,
	// so reported figures match the specific random realization.
	// +Inf when the noise variance is exactly zero.
	SNRdB float64
}

// TransmitThroughChannel adds zero-mean Gaussian noise with the given power
// to the waveform and coherently demodulates the result against the same
// carrier (perfect phase sync is assumed; no recovery loop is modeled).
func TransmitThroughChannel(w *Waveform, noisePower float64, seed int64) (*ChannelResult, error) {
	if w == nil || len(w.Samples) == 0 {
		return nil, fmt.Errorf("%w: empty waveform", ErrInvalidParameter)
	}
	if noisePower < 0 {
		return nil, fmt.Errorf("%w: noise power must be non-negative, got %g", ErrInvalidParameter, noisePower)
	}

	n := len(w.Samples)
	res := &ChannelResult{
		Received: make([]float64, n),
		Noise:    make([]float64, n),
		DemodI:   make([]float64, n),
		DemodQ:   make([]float64, n),
	}

	rng := rand.New(rand.NewSource(seed))
	amp := math.Sqrt(noisePower)
	for i := range res.Noise {
		res.Noise[i] = amp * rng.NormFloat64()
		res.Received[i] = w.Samples[i] + res.Noise[i]
	}

	for i, rx := range res.Received {
		phase := 2 * math.Pi * w.CarrierFreq * w.Time[i]
		res.DemodI[i] = rx * math.Cos(phase)
		res.DemodQ[i] = rx * -math.Sin(phase)
	}

	noiseVar := stat.PopVariance(res.Noise, nil)
	if noiseVar == 0 {
		res.SNRdB = math.Inf(1)
	} else {
		res.SNRdB = 10 * math.Log10(stat.PopVariance(w.Samples, nil)/noiseVar)
	}
	return res, nil
}

// Demodulate recovers the transmitted bits from the demodulator products.
// Each symbol's I/Q estimate is the mean of the products over its sps
// window, doubled to undo the cos^2 (resp. sin^2) averaging, then demapped
// to the nearest constellation point.
func Demodulate(res *ChannelResult, sps int, mod Modulation) ([]byte, error) {
	if sps <= 0 {
		return nil, fmt.Errorf("%w: samples per symbol must be positive, got %d", ErrInvalidParameter, sps)
	}
	c, err := NewConstellation(mod)
	if err != nil {
		return nil, err
	}

	numSymbols := len(res.DemodI) / sps
	symbols := make([]complex128, numSymbols)
	for i := 0; i < numSymbols; i++ {
		var sumI, sumQ float64
		for j := i * sps; j < (i+1)*sps; j++ {
			sumI += res.DemodI[j]
			sumQ += res.DemodQ[j]
		}
		symbols[i] = complex(2*sumI/float64(sps), 2*sumQ/float64(sps))
	}

	return c.DemapSymbols(symbols), nil
}
