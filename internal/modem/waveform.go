package modem

import (
	"fmt"
	"math"
)

// Waveform is a real-valued passband signal with its sampling context.
// Samples is the transmitted signal; the baseband and carrier arrays are
// kept so the front end can plot every stage of the chain.
type Waveform struct {
	Time      []float64
	Carrier   []float64 // in-phase carrier, cos(2*pi*fc*t)
	Samples   []float64 // I*cos(2*pi*fc*t) - Q*sin(2*pi*fc*t)
	IBaseband []float64
	QBaseband []float64

	SampleRate  float64
	CarrierFreq float64
	SPS         int
}

// Synthesize upsamples symbols to sps samples per symbol and mixes them
// onto a quadrature carrier. The -sin convention on the Q arm makes
// coherent demodulation the exact algebraic inverse.
func Synthesize(symbols []complex128, sps int, fc, fs float64) (*Waveform, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: empty symbol sequence", ErrInvalidParameter)
	}
	if sps <= 0 {
		return nil, fmt.Errorf("%w: samples per symbol must be positive, got %d", ErrInvalidParameter, sps)
	}
	if fs <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %g", ErrInvalidParameter, fs)
	}
	if fc <= 0 {
		return nil, fmt.Errorf("%w: carrier frequency must be positive, got %g", ErrInvalidParameter, fc)
	}
	if fc >= fs/2 {
		return nil, fmt.Errorf("%w: carrier %g Hz violates Nyquist at sample rate %g Hz", ErrInvalidParameter, fc, fs)
	}

	n := len(symbols) * sps
	iBase, qBase := upsample(symbols, sps)
	w := &Waveform{
		Time:        make([]float64, n),
		Carrier:     make([]float64, n),
		Samples:     make([]float64, n),
		IBaseband:   iBase,
		QBaseband:   qBase,
		SampleRate:  fs,
		CarrierFreq: fc,
		SPS:         sps,
	}

	// I/Q paths are built independently; truncate from the tail if they
	// ever disagree so early samples are never lost.
	if m := min(len(w.IBaseband), len(w.QBaseband), n); m < n {
		n = m
		w.Time = w.Time[:n]
		w.Carrier = w.Carrier[:n]
		w.Samples = w.Samples[:n]
	}

	for i := 0; i < n; i++ {
		t := float64(i) / fs
		phase := 2 * math.Pi * fc * t
		cos, sin := math.Cos(phase), math.Sin(phase)
		w.Time[i] = t
		w.Carrier[i] = cos
		w.Samples[i] = w.IBaseband[i]*cos - w.QBaseband[i]*sin
	}
	return w, nil
}

func upsample(symbols []complex128, sps int) (iOut, qOut []float64) {
	iOut = make([]float64, 0, len(symbols)*sps)
	qOut = make([]float64, 0, len(symbols)*sps)
	for _, s := range symbols {
		for j := 0; j < sps; j++ {
			iOut = append(iOut, real(s))
			qOut = append(qOut, imag(s))
		}
	}
	return iOut, qOut
}
