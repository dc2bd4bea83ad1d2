// Package config loads agent configuration from an optional YAML file with
// SMARTDESK_* environment overrides. Pairing constants (code length, TTL)
// are fixed protocol parameters and deliberately not configurable here.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Frame holds screen capture tuning.
type Frame struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	Quality int `yaml:"quality"`
}

// Config holds runtime settings for the agent.
type Config struct {
	Port          int    `yaml:"port"`
	DiscoveryPort int    `yaml:"discovery_port"`
	HostName      string `yaml:"host_name"` // default: os.Hostname()

	Frame            Frame `yaml:"frame"`
	StreamIntervalMS int   `yaml:"stream_interval_ms"`
}

// StreamInterval returns the delay between pushed WebSocket frames.
func (c Config) StreamInterval() time.Duration {
	return time.Duration(c.StreamIntervalMS) * time.Millisecond
}

// Default returns the built-in configuration.
func Default() Config {
	hostname, _ := os.Hostname()
	return Config{
		Port:           8000,
		DiscoveryPort:  8001,
		HostName:       hostname,
		Frame:            Frame{Width: 1280, Height: 720, Quality: 65},
		StreamIntervalMS: 500,
	}
}

// Load reads the YAML file at path (skipped when path is "" or the file
// does not exist) over the defaults, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// optional file
		case err != nil:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if cfg.Port <= 0 || cfg.DiscoveryPort <= 0 {
		return Config{}, fmt.Errorf("config: ports must be positive")
	}
	if cfg.Port == cfg.DiscoveryPort {
		return Config{}, fmt.Errorf("config: discovery port must differ from service port")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SMARTDESK_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("SMARTDESK_DISCOVERY_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.DiscoveryPort = p
		}
	}
	if v := os.Getenv("SMARTDESK_HOST_NAME"); v != "" {
		cfg.HostName = v
	}
}
