package bollywood

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EngineConfig is the tunable surface of an Engine, loadable from YAML so a
// deployment can change mailbox sizing, fairness, and logging without a
// rebuild.
type EngineConfig struct {
	// DefaultMailboxCapacity is used by Engine.Spawn when the Props carry no
	// WithMailboxCapacity override.
	DefaultMailboxCapacity int `yaml:"default_mailbox_capacity"`
	// FairnessCap bounds how many envelopes a single scheduling pass
	// dispatches before yielding.
	FairnessCap int `yaml:"fairness_cap"`
	// ShutdownTimeout is loaded and defaulted with the rest of the config.
	// Engine.Shutdown does not read it: it waits only as long as the timeout
	// passed to it.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// LogEncoding is console or json.
	LogEncoding string `yaml:"log_encoding"`
}

// DefaultEngineConfig returns the configuration NewEngine uses when none is
// supplied.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DefaultMailboxCapacity: defaultMailboxCapacity,
		FairnessCap:            defaultFairnessCap,
		ShutdownTimeout:        5 * time.Second,
		LogLevel:               "info",
		LogEncoding:            "console",
	}
}

// LoadEngineConfig reads an EngineConfig from a YAML file at path, filling
// in any field left zero with the corresponding default.
func LoadEngineConfig(path string) (EngineConfig, error) {
	cfg := DefaultEngineConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DefaultMailboxCapacity <= 0 {
		cfg.DefaultMailboxCapacity = defaultMailboxCapacity
	}
	if cfg.FairnessCap <= 0 {
		cfg.FairnessCap = defaultFairnessCap
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogEncoding == "" {
		cfg.LogEncoding = "console"
	}
	return cfg, nil
}
