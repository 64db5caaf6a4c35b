package config

import (
	"fmt"
	"time"
)

// Input selects the layers Resolve applies. Zero fields skip their layer.
type Input struct {
	File      string
	EnvPrefix string
	Preset    *Config
}

// Resolve produces the effective configuration. A failing layer aborts
// resolution even if later layers would have supplied every value.
func Resolve(in Input) (Config, error) {
	return resolveAt(in, time.Now())
}

func resolveAt(in Input, now time.Time) (Config, error) {
	cfg := DefaultsAt(now)

	if in.File != "" {
		fileCfg, err := LoadFile(in.File)
		if err != nil {
			return Config{}, fmt.Errorf("resolve config: %w", err)
		}
		cfg = Merge(cfg, fileCfg)
	}

	if in.EnvPrefix != "" {
		envCfg, err := LoadEnv(in.EnvPrefix)
		if err != nil {
			return Config{}, fmt.Errorf("resolve config: %w", err)
		}
		cfg = Merge(cfg, envCfg)
	}

	if in.Preset != nil {
		cfg = Merge(cfg, *in.Preset)
	}

	return cfg, nil
}
