package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration, loaded from YAML.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Audio    AudioConfig    `yaml:"audio"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

// AudioConfig controls waveform playback through the sound card.
// The carrier and symbol rate here are audio-band so that played
// signals are actually audible.
type AudioConfig struct {
	Enabled          bool    `yaml:"enabled"`
	SampleRate       float64 `yaml:"sample_rate"`
	CarrierFreq      float64 `yaml:"carrier_freq"`
	SamplesPerSymbol int     `yaml:"samples_per_symbol"`
}

// DefaultsConfig sets the simulation parameters used when a request
// omits a field.
type DefaultsConfig struct {
	NumBits          int     `yaml:"num_bits"`
	Modulation       string  `yaml:"modulation"`
	NoisePower       float64 `yaml:"noise_power"`
	SamplesPerSymbol int     `yaml:"samples_per_symbol"`
	CarrierFreq      float64 `yaml:"carrier_freq"`
	SampleRate       float64 `yaml:"sample_rate"`
	Seed             int64   `yaml:"seed"`
}

// LoggingConfig contains logger settings.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:      "0.0.0.0:8080",
			StaticDir: "./web/static",
		},
		Audio: AudioConfig{
			Enabled:          false,
			SampleRate:       44100,
			CarrierFreq:      2205, // 20 samples per carrier cycle at 44.1 kHz
			SamplesPerSymbol: 20,
		},
		Defaults: DefaultsConfig{
			NumBits:          100,
			Modulation:       "BPSK",
			NoisePower:       0.1,
			SamplesPerSymbol: 20,
			CarrierFreq:      1e6,
			SampleRate:       20e6,
			Seed:             42,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
