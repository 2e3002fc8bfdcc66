package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeongseonghan/telecom-lab/internal/audio"
	"github.com/jeongseonghan/telecom-lab/internal/config"
	"github.com/jeongseonghan/telecom-lab/internal/modem"
)

var errMalformedRequest = errors.New("malformed request body")

// Handlers holds the HTTP API handlers.
type Handlers struct {
	cfg    *config.Config
	wsHub  *WSHub
	player *audio.Player // nil when playback is disabled
	log    *zap.Logger
	mu     sync.Mutex // serializes audio playback
}

// NewHandlers creates new API handlers.
func NewHandlers(cfg *config.Config, log *zap.Logger) *Handlers {
	h := &Handlers{
		cfg:   cfg,
		wsHub: NewWSHub(log),
		log:   log,
	}
	if cfg.Audio.Enabled {
		h.player = audio.NewPlayer(cfg.Audio.SampleRate)
	}
	return h
}

// HandleWebSocket handles WebSocket upgrade requests.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade", zap.Error(err))
		return
	}

	h.wsHub.AddClient(conn)

	// Drain the connection until the client goes away.
	go func() {
		defer h.wsHub.RemoveClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// simulateRequest carries one composite run request. Absent fields keep
// the configured defaults, so json.Unmarshal decodes over a prefilled value.
type simulateRequest struct {
	NumBits     int     `json:"num_bits"`
	Modulation  string  `json:"modulation"`
	NoisePower  float64 `json:"noise_power"`
	SPS         int     `json:"sps"`
	CarrierFreq float64 `json:"carrier_freq"`
	SampleRate  float64 `json:"sample_rate"`
	Seed        int64   `json:"seed"`
}

func (h *Handlers) defaultRequest() simulateRequest {
	d := h.cfg.Defaults
	return simulateRequest{
		NumBits:     d.NumBits,
		Modulation:  d.Modulation,
		NoisePower:  d.NoisePower,
		SPS:         d.SamplesPerSymbol,
		CarrierFreq: d.CarrierFreq,
		SampleRate:  d.SampleRate,
		Seed:        d.Seed,
	}
}

func (h *Handlers) decodeParams(r *http.Request) (modem.Params, error) {
	req := h.defaultRequest()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		return modem.Params{}, fmt.Errorf("%w: %v", errMalformedRequest, err)
	}

	mod, err := modem.ParseModulation(req.Modulation)
	if err != nil {
		return modem.Params{}, err
	}

	p := modem.Params{
		NumBits:     req.NumBits,
		Modulation:  mod,
		NoisePower:  req.NoisePower,
		SPS:         req.SPS,
		CarrierFreq: req.CarrierFreq,
		SampleRate:  req.SampleRate,
		Seed:        req.Seed,
	}
	return p, p.Validate()
}

type simulateResponse struct {
	Success       bool      `json:"success"`
	Modulation    string    `json:"modulation"`
	Bits          []int     `json:"bits"`
	RecoveredBits []int     `json:"recovered_bits"`
	Samples       int       `json:"samples"`
	SNRdB         *float64  `json:"snr_db"` // null when infinite (noiseless run)
	Time          []float64 `json:"time"`
	Carrier       []float64 `json:"carrier"`
	Modulated     []float64 `json:"modulated"`
	Received      []float64 `json:"received"`
	DemodI        []float64 `json:"demod_i"`
	DemodQ        []float64 `json:"demod_q"`
}

// HandleSimulate runs the full modulation chain and returns every stage
// for plotting.
func (h *Handlers) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer track("simulate")()

	p, err := h.decodeParams(r)
	if err != nil {
		h.writeError(w, "simulate", err)
		return
	}

	res, err := modem.Run(p)
	if err != nil {
		h.writeError(w, "simulate", err)
		return
	}

	simRunsTotal.WithLabelValues(p.Modulation.String()).Inc()
	h.wsHub.BroadcastRun(RunSummary{
		Modulation: p.Modulation.String(),
		NumBits:    p.NumBits,
		Samples:    res.Samples(),
		SNRdB:      res.Channel.SNRdB,
		NoisePower: p.NoisePower,
		Seed:       p.Seed,
	})

	writeJSON(w, http.StatusOK, simulateResponse{
		Success:       true,
		Modulation:    p.Modulation.String(),
		Bits:          bitInts(res.Bits),
		RecoveredBits: bitInts(res.RecoveredBits),
		Samples:       res.Samples(),
		SNRdB:         finiteOrNil(res.Channel.SNRdB),
		Time:          res.Waveform.Time,
		Carrier:       res.Waveform.Carrier,
		Modulated:     res.Waveform.Samples,
		Received:      res.Channel.Received,
		DemodI:        res.Channel.DemodI,
		DemodQ:        res.Channel.DemodQ,
	})
}

type berRequest struct {
	Modulations []string `json:"modulations"`
	SNRMin      float64  `json:"snr_min"`
	SNRMax      float64  `json:"snr_max"`
	SNRStep     float64  `json:"snr_step"`
}

// HandleBER returns theoretical BER curves, clamped for log plotting.
func (h *Handlers) HandleBER(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer track("ber")()

	req := berRequest{SNRMin: 0, SNRMax: 25, SNRStep: 1}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		h.writeError(w, "ber", fmt.Errorf("%w: %v", errMalformedRequest, err))
		return
	}

	snr, err := modem.SNRRange(req.SNRMin, req.SNRMax, req.SNRStep)
	if err != nil {
		h.writeError(w, "ber", err)
		return
	}

	mods := []modem.Modulation{}
	if len(req.Modulations) == 0 {
		mods = modem.Schemes()
	} else {
		for _, name := range req.Modulations {
			mod, err := modem.ParseModulation(name)
			if err != nil {
				h.writeError(w, "ber", err)
				return
			}
			mods = append(mods, mod)
		}
	}

	curves := make(map[string][]float64, len(mods))
	for _, mod := range mods {
		curve, err := modem.TheoreticalBER(mod, snr)
		if err != nil {
			h.writeError(w, "ber", err)
			return
		}
		clamped := modem.ClampBER(curve)
		bers := make([]float64, len(clamped))
		for i, pt := range clamped {
			bers[i] = pt.BER
		}
		curves[mod.String()] = bers
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"snr_db":  snr,
		"curves":  curves,
	})
}

// HandleConstellation returns the labeled constellation for a scheme.
func (h *Handlers) HandleConstellation(w http.ResponseWriter, r *http.Request) {
	defer track("constellation")()

	name := r.URL.Query().Get("modulation")
	if name == "" {
		name = h.cfg.Defaults.Modulation
	}
	mod, err := modem.ParseModulation(name)
	if err != nil {
		h.writeError(w, "constellation", err)
		return
	}

	c, err := modem.NewConstellation(mod)
	if err != nil {
		h.writeError(w, "constellation", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"modulation":      mod.String(),
		"bits_per_symbol": mod.BitsPerSymbol(),
		"average_energy":  c.AverageEnergy(),
		"points":          c.Labeled(),
	})
}

// HandleSpectrum synthesizes a clean waveform for the requested
// parameters and returns its power spectrum.
func (h *Handlers) HandleSpectrum(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer track("spectrum")()

	p, err := h.decodeParams(r)
	if err != nil {
		h.writeError(w, "spectrum", err)
		return
	}

	wave, err := h.synthesize(p)
	if err != nil {
		h.writeError(w, "spectrum", err)
		return
	}

	sp, err := modem.PowerSpectrum(wave.Samples, p.SampleRate)
	if err != nil {
		h.writeError(w, "spectrum", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"modulation": p.Modulation.String(),
		"freq":       sp.Freq,
		"power_db":   sp.PowerDB,
	})
}

// HandleSchemes lists the supported modulations.
func (h *Handlers) HandleSchemes(w http.ResponseWriter, r *http.Request) {
	type scheme struct {
		Name          string  `json:"name"`
		BitsPerSymbol int     `json:"bits_per_symbol"`
		AverageEnergy float64 `json:"average_energy"`
	}

	var schemes []scheme
	for _, mod := range modem.Schemes() {
		c, err := modem.NewConstellation(mod)
		if err != nil {
			h.writeError(w, "schemes", err)
			return
		}
		schemes = append(schemes, scheme{
			Name:          mod.String(),
			BitsPerSymbol: mod.BitsPerSymbol(),
			AverageEnergy: c.AverageEnergy(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"schemes": schemes,
	})
}

// HandleStatus reports server health and feature availability.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  "ok",
		"audio":   h.player != nil,
	})
}

// HandleDevices lists available audio output devices.
func (h *Handlers) HandleDevices(w http.ResponseWriter, r *http.Request) {
	if h.player == nil {
		h.writeError(w, "devices", fmt.Errorf("%w: audio playback is disabled", modem.ErrInvalidParameter))
		return
	}

	devices, err := audio.ListDevices()
	if err != nil {
		h.writeError(w, "devices", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"devices":   devices,
		"hasOutput": audio.HasOutputDevice(),
	})
}

// HandlePlay synthesizes the requested scheme at audio rates and plays it
// through the default output device.
func (h *Handlers) HandlePlay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer track("play")()

	if h.player == nil {
		h.writeError(w, "play", fmt.Errorf("%w: audio playback is disabled", modem.ErrInvalidParameter))
		return
	}

	p, err := h.decodeParams(r)
	if err != nil {
		h.writeError(w, "play", err)
		return
	}

	// Override the RF-scale parameters with the audio-band ones so the
	// result lands inside the sound card's passband.
	p.SampleRate = h.cfg.Audio.SampleRate
	p.CarrierFreq = h.cfg.Audio.CarrierFreq
	p.SPS = h.cfg.Audio.SamplesPerSymbol

	wave, err := h.synthesize(p)
	if err != nil {
		h.writeError(w, "play", err)
		return
	}

	go func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if err := h.player.Open(); err != nil {
			h.wsHub.BroadcastStatus("error", fmt.Sprintf("Audio open failed: %v", err))
			return
		}
		h.wsHub.BroadcastStatus("playing", fmt.Sprintf("Playing %s (%d bits)", p.Modulation, p.NumBits))
		if err := h.player.Play(wave.Samples); err != nil {
			h.wsHub.BroadcastStatus("error", fmt.Sprintf("Playback failed: %v", err))
			return
		}
		h.wsHub.BroadcastStatus("idle", "Playback finished")
	}()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  "playing",
	})
}

// synthesize runs the transmit half of the chain only.
func (h *Handlers) synthesize(p modem.Params) (*modem.Waveform, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	bits, err := modem.GenerateBits(p.NumBits, p.Seed)
	if err != nil {
		return nil, err
	}
	c, err := modem.NewConstellation(p.Modulation)
	if err != nil {
		return nil, err
	}
	return modem.Synthesize(c.MapBits(bits), p.SPS, p.CarrierFreq, p.SampleRate)
}

func (h *Handlers) writeError(w http.ResponseWriter, endpoint string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, modem.ErrInvalidParameter) ||
		errors.Is(err, modem.ErrUnsupportedScheme) ||
		errors.Is(err, errMalformedRequest) {
		status = http.StatusBadRequest
	}

	requestErrorsTotal.WithLabelValues(endpoint).Inc()
	h.log.Warn("request failed",
		zap.String("endpoint", endpoint),
		zap.Int("status", status),
		zap.Error(err))

	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func track(endpoint string) func() {
	start := time.Now()
	return func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}

func bitInts(bits []byte) []int {
	out := make([]int, len(bits))
	for i, b := range bits {
		out[i] = int(b)
	}
	return out
}

func finiteOrNil(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
