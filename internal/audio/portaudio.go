package audio

import (
	"fmt"
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	FramesPerBuf = 1024
	NumChannels  = 1
)

// Player writes synthesized waveforms to the default output device so
// modulated signals can be heard, not just plotted.
type Player struct {
	stream     *portaudio.Stream
	buf        []float32
	sampleRate float64
	mu         sync.Mutex
}

// Init initializes PortAudio. Call once at startup.
func Init() error {
	return portaudio.Initialize()
}

// Terminate cleans up PortAudio.
func Terminate() error {
	return portaudio.Terminate()
}

// NewPlayer creates a player at the given sample rate.
func NewPlayer(sampleRate float64) *Player {
	return &Player{
		buf:        make([]float32, FramesPerBuf),
		sampleRate: sampleRate,
	}
}

// Open opens the default output stream.
func (p *Player) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream != nil {
		return nil
	}
	stream, err := portaudio.OpenDefaultStream(
		0,           // input channels
		NumChannels, // output channels
		p.sampleRate,
		FramesPerBuf,
		p.buf,
	)
	if err != nil {
		return fmt.Errorf("open output stream: %w", err)
	}
	p.stream = stream
	return stream.Start()
}

// Play writes the samples to the output stream in FramesPerBuf chunks,
// scaling to peak amplitude so every scheme plays at a comparable level.
// Blocks until the whole buffer has been written.
func (p *Player) Play(samples []float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return fmt.Errorf("output stream not opened")
	}

	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	gain := 1.0
	if peak > 0 {
		gain = 0.8 / peak
	}

	for i := 0; i < len(samples); i += FramesPerBuf {
		for j := range p.buf {
			if i+j < len(samples) {
				p.buf[j] = float32(samples[i+j] * gain)
			} else {
				p.buf[j] = 0
			}
		}
		if err := p.stream.Write(); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	return nil
}

// Close stops and closes the output stream.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return nil
	}
	p.stream.Stop()
	err := p.stream.Close()
	p.stream = nil
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}
