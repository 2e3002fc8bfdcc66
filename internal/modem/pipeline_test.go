package modem

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func noiselessParams(mod Modulation, numBits int) Params {
	p := DefaultParams()
	p.Modulation = mod
	p.NumBits = numBits
	p.NoisePower = 0
	return p
}

// With zero noise and symbols spanning whole carrier cycles, the
// integrate-and-dump demodulator must recover the source bits exactly.
func TestRun_NoiselessRoundTrip(t *testing.T) {
	tests := []struct {
		mod     Modulation
		numBits int
	}{
		{ModBPSK, 20}, // the canonical classroom scenario, seed 42
		{ModQPSK, 100},
		{Mod16QAM, 100},
		{Mod64QAM, 96},
	}

	for _, tt := range tests {
		res, err := Run(noiselessParams(tt.mod, tt.numBits))
		if err != nil {
			t.Fatalf("%s: Run: %v", tt.mod, err)
		}

		if len(res.RecoveredBits) < len(res.Bits) {
			t.Fatalf("%s: recovered %d bits, want at least %d", tt.mod, len(res.RecoveredBits), len(res.Bits))
		}
		if !bytes.Equal(res.RecoveredBits[:len(res.Bits)], res.Bits) {
			t.Errorf("%s: recovered bits differ from source", tt.mod)
		}
	}
}

func TestRun_PaddedBitsAreZero(t *testing.T) {
	// 20 bits of 64-QAM: 4 symbols carry 24 positions, last 4 are padding.
	res, err := Run(noiselessParams(Mod64QAM, 20))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Symbols) != 4 {
		t.Fatalf("got %d symbols, want 4", len(res.Symbols))
	}
	for i := len(res.Bits); i < len(res.RecoveredBits); i++ {
		if res.RecoveredBits[i] != 0 {
			t.Errorf("padding bit %d recovered as %d, want 0", i, res.RecoveredBits[i])
		}
	}
}

func TestRun_Reproducible(t *testing.T) {
	p := DefaultParams()
	p.Modulation = Mod16QAM
	p.NoisePower = 0.3

	a, err := Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !bytes.Equal(a.Bits, b.Bits) {
		t.Error("bit sequences differ")
	}
	for i := range a.Symbols {
		if a.Symbols[i] != b.Symbols[i] {
			t.Fatalf("symbol %d differs", i)
		}
	}
	for i := range a.Waveform.Samples {
		if a.Waveform.Samples[i] != b.Waveform.Samples[i] {
			t.Fatalf("waveform sample %d differs", i)
		}
	}
	for i := range a.Channel.Received {
		if a.Channel.Received[i] != b.Channel.Received[i] {
			t.Fatalf("received sample %d differs", i)
		}
	}
	if !bytes.Equal(a.RecoveredBits, b.RecoveredBits) {
		t.Error("recovered bits differ")
	}
	if a.Channel.SNRdB != b.Channel.SNRdB {
		t.Errorf("measured SNR differs: %g vs %g", a.Channel.SNRdB, b.Channel.SNRdB)
	}
}

func TestRun_SampleCount(t *testing.T) {
	p := noiselessParams(ModQPSK, 100)
	res, err := Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := 100 / ModQPSK.BitsPerSymbol() * p.SPS
	if res.Samples() != want {
		t.Errorf("Samples() = %d, want %d", res.Samples(), want)
	}
}

func TestRun_MeasuredSNRIsFinite(t *testing.T) {
	p := DefaultParams()
	res, err := Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if math.IsInf(res.Channel.SNRdB, 0) || math.IsNaN(res.Channel.SNRdB) {
		t.Errorf("SNR = %g for noisy run", res.Channel.SNRdB)
	}
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		want   error
	}{
		{"zero bits", func(p *Params) { p.NumBits = 0 }, ErrInvalidParameter},
		{"negative bits", func(p *Params) { p.NumBits = -5 }, ErrInvalidParameter},
		{"bad scheme", func(p *Params) { p.Modulation = Modulation(3) }, ErrUnsupportedScheme},
		{"negative noise", func(p *Params) { p.NoisePower = -1 }, ErrInvalidParameter},
		{"zero sps", func(p *Params) { p.SPS = 0 }, ErrInvalidParameter},
		{"zero sample rate", func(p *Params) { p.SampleRate = 0 }, ErrInvalidParameter},
		{"zero carrier", func(p *Params) { p.CarrierFreq = 0 }, ErrInvalidParameter},
		{"nyquist violation", func(p *Params) { p.CarrierFreq = 10e6; p.SampleRate = 20e6 }, ErrInvalidParameter},
	}

	for _, tt := range tests {
		p := DefaultParams()
		tt.mutate(&p)
		if err := p.Validate(); !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}

	if err := DefaultParams().Validate(); err != nil {
		t.Errorf("default params rejected: %v", err)
	}
}
