package modem

import "fmt"

// Params fully describes one simulation run. Two runs with equal Params
// produce bit-for-bit identical output.
type Params struct {
	NumBits     int
	Modulation  Modulation
	NoisePower  float64
	SPS         int
	CarrierFreq float64
	SampleRate  float64
	Seed        int64
}

// DefaultParams mirrors the lab defaults: 100 bits of BPSK at 20 samples
// per symbol, 1 MHz carrier sampled at 20 MHz, mild noise. With these
// numbers every symbol spans exactly one carrier cycle, so the
// integrate-and-dump demodulator is exact in the noiseless case.
func DefaultParams() Params {
	return Params{
		NumBits:     100,
		Modulation:  ModBPSK,
		NoisePower:  0.1,
		SPS:         20,
		CarrierFreq: 1e6,
		SampleRate:  20e6,
		Seed:        42,
	}
}

// Validate rejects bad parameters before any computation begins.
func (p Params) Validate() error {
	if p.NumBits <= 0 {
		return fmt.Errorf("%w: bit count must be positive, got %d", ErrInvalidParameter, p.NumBits)
	}
	if !p.Modulation.Valid() {
		return fmt.Errorf("%w: %d", ErrUnsupportedScheme, int(p.Modulation))
	}
	if p.NoisePower < 0 {
		return fmt.Errorf("%w: noise power must be non-negative, got %g", ErrInvalidParameter, p.NoisePower)
	}
	if p.SPS <= 0 {
		return fmt.Errorf("%w: samples per symbol must be positive, got %d", ErrInvalidParameter, p.SPS)
	}
	if p.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %g", ErrInvalidParameter, p.SampleRate)
	}
	if p.CarrierFreq <= 0 {
		return fmt.Errorf("%w: carrier frequency must be positive, got %g", ErrInvalidParameter, p.CarrierFreq)
	}
	if p.CarrierFreq >= p.SampleRate/2 {
		return fmt.Errorf("%w: carrier %g Hz violates Nyquist at sample rate %g Hz",
			ErrInvalidParameter, p.CarrierFreq, p.SampleRate)
	}
	return nil
}

// Result is the full output of one run, every stage retained for plotting.
type Result struct {
	Params        Params
	Bits          []byte
	Symbols       []complex128
	Waveform      *Waveform
	Channel       *ChannelResult
	RecoveredBits []byte // includes demapped padding bits, if any
}

// Samples returns the number of passband samples produced.
func (r *Result) Samples() int {
	return len(r.Waveform.Samples)
}

// Run executes the whole chain: bit source, symbol mapper, waveform
// synthesizer, AWGN channel, coherent demodulator. Purely computational;
// no state survives the call.
func Run(p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	bits, err := GenerateBits(p.NumBits, p.Seed)
	if err != nil {
		return nil, err
	}

	c, err := NewConstellation(p.Modulation)
	if err != nil {
		return nil, err
	}
	symbols := c.MapBits(bits)

	w, err := Synthesize(symbols, p.SPS, p.CarrierFreq, p.SampleRate)
	if err != nil {
		return nil, err
	}

	ch, err := TransmitThroughChannel(w, p.NoisePower, p.Seed)
	if err != nil {
		return nil, err
	}

	recovered, err := Demodulate(ch, p.SPS, p.Modulation)
	if err != nil {
		return nil, err
	}

	return &Result{
		Params:        p,
		Bits:          bits,
		Symbols:       symbols,
		Waveform:      w,
		Channel:       ch,
		RecoveredBits: recovered,
	}, nil
}
