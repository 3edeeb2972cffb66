package physics

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
)

// Config holds the solver and broadphase tuning of a PhysicsWorld.
type Config struct {
	// Iterations of the sequential impulse solver per tick.
	Iterations int `json:"iterations"`
	// FatMargin pads tree leaves.
	FatMargin float32 `json:"fatMargin"`

	// Positional correction.
	Slop          float32 `json:"slop"`
	Percent       float32 `json:"percent"`
	MaxCorrection float32 `json:"maxCorrection"`

	// RestitutionThreshold is the closing speed below which contacts don't
	// bounce.
	RestitutionThreshold float32 `json:"restitutionThreshold"`

	WarmStart         bool    `json:"warmStart"`
	WarmStartDistance float32 `json:"warmStartDistance"`

	// ParallelNarrowphaseThreshold is the candidate pair count above which
	// the narrowphase fans out over Workers goroutines. Workers <= 0 uses
	// GOMAXPROCS.
	ParallelNarrowphaseThreshold int `json:"parallelNarrowphaseThreshold"`
	Workers                      int `json:"workers"`
}

func DefaultConfig() Config {
	return Config{
		Iterations:                   10,
		FatMargin:                    DefaultFatMargin,
		Slop:                         0.025,
		Percent:                      0.45,
		MaxCorrection:                2.0,
		RestitutionThreshold:         0.1,
		WarmStart:                    true,
		WarmStartDistance:            0.05,
		ParallelNarrowphaseThreshold: 256,
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.Iterations <= 0 {
		errs = append(errs, fmt.Errorf("iterations must be positive, got %d", c.Iterations))
	}
	if c.Percent <= 0 || c.Percent > 1 {
		errs = append(errs, fmt.Errorf("percent must be in (0, 1], got %v", c.Percent))
	}
	if c.Slop < 0 {
		errs = append(errs, fmt.Errorf("slop must not be negative, got %v", c.Slop))
	}
	if c.FatMargin < 0 {
		errs = append(errs, fmt.Errorf("fat margin must not be negative, got %v", c.FatMargin))
	}
	if c.MaxCorrection <= 0 {
		errs = append(errs, fmt.Errorf("max correction must be positive, got %v", c.MaxCorrection))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a JSON config. Fields missing from the file keep their
// defaults; a missing file yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("Physics: no config at %s, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read physics config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse physics config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid physics config %s: %w", path, err)
	}
	return cfg, nil
}

func SaveConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode physics config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write physics config: %w", err)
	}
	return nil
}
