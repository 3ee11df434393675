package app

import (
	"errors"
	"fmt"

	"github.com/vk/pullgrid/internal/scheduler"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPaths []string // .hcl / .hcl.json files or directories
	// Sinks names the return nodes to pull from. Empty means all of them.
	Sinks []string
	// SavePath, when set, receives the built graph in HCL native syntax.
	SavePath string
	// Dump writes the port state of every node after the run.
	Dump bool

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	MaxPasses       int
	Schedule        scheduler.Mode
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.GraphPaths) == 0 {
		return nil, errors.New("GraphPaths is a required configuration field and cannot be empty")
	}
	if cfg.MaxPasses < 0 {
		return nil, fmt.Errorf("max passes must not be negative, got %d", cfg.MaxPasses)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port out of range: %d", cfg.HealthcheckPort)
	}
	mode, err := scheduler.ParseMode(string(cfg.Schedule))
	if err != nil {
		return nil, err
	}
	cfg.Schedule = mode

	seen := make(map[string]struct{}, len(cfg.Sinks))
	for _, s := range cfg.Sinks {
		if s == "" {
			return nil, errors.New("sink names must not be empty")
		}
		if _, dup := seen[s]; dup {
			return nil, fmt.Errorf("sink %q requested more than once", s)
		}
		seen[s] = struct{}{}
	}
	return &cfg, nil
}
