// Package config exposes the engine's policy constants as named
// configuration, overridable from UNION_-prefixed environment
// variables. The defaults are the documented values the test suite
// exercises.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/sergei-tigrov/12union/internal/catalog"
	"github.com/sergei-tigrov/12union/internal/scoring"
	"github.com/sergei-tigrov/12union/internal/selector"
	"github.com/sergei-tigrov/12union/internal/validation"
)

// Config is the full set of engine policy constants.
type Config struct {
	// Selection.
	ZoningExit      int     `env:"ZONING_EXIT" envDefault:"6"`
	RefinementExit  int     `env:"REFINEMENT_EXIT" envDefault:"10"`
	EarlyConfidence float64 `env:"EARLY_CONFIDENCE" envDefault:"0.85"`
	EarlyMinAnswers int     `env:"EARLY_MIN_ANSWERS" envDefault:"6"`

	// Validation.
	FastCutoff             time.Duration `env:"FAST_CUTOFF" envDefault:"2s"`
	ContradictionTolerance int           `env:"CONTRADICTION_TOLERANCE" envDefault:"3"`
	ReliabilityThreshold   float64       `env:"RELIABILITY_THRESHOLD" envDefault:"0.6"`
	BypassPenalty          float64       `env:"BYPASS_PENALTY" envDefault:"0.6"`

	// Scoring.
	CriticalWeight float64 `env:"CRITICAL_WEIGHT" envDefault:"2.0"`
	BypassCeiling  float64 `env:"BYPASS_CEILING" envDefault:"8.5"`

	// Result archive. Empty disables the SQLite archive.
	ArchivePath string `env:"ARCHIVE_PATH"`
}

// Load parses the environment on top of the defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "UNION_"}); err != nil {
		return Config{}, fmt.Errorf("parsing engine config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the documented defaults without touching the
// environment.
func Default() Config {
	return Config{
		ZoningExit:             6,
		RefinementExit:         10,
		EarlyConfidence:        0.85,
		EarlyMinAnswers:        6,
		FastCutoff:             2 * time.Second,
		ContradictionTolerance: 3,
		ReliabilityThreshold:   0.6,
		BypassPenalty:          0.6,
		CriticalWeight:         2.0,
		BypassCeiling:          8.5,
	}
}

func (c Config) validate() error {
	if c.ZoningExit < 1 || c.ZoningExit > catalog.ZoningCount {
		return fmt.Errorf("zoning exit count %d outside [1,%d]", c.ZoningExit, catalog.ZoningCount)
	}
	if c.RefinementExit < 1 || c.RefinementExit > catalog.RefinementCount {
		return fmt.Errorf("refinement exit count %d outside [1,%d]", c.RefinementExit, catalog.RefinementCount)
	}
	if c.EarlyMinAnswers < 1 || c.EarlyMinAnswers > c.RefinementExit {
		return fmt.Errorf("early minimum answer count %d outside [1,%d]", c.EarlyMinAnswers, c.RefinementExit)
	}
	if c.ReliabilityThreshold < 0 || c.ReliabilityThreshold > 1 {
		return fmt.Errorf("reliability threshold %g outside [0,1]", c.ReliabilityThreshold)
	}
	if c.EarlyConfidence < 0 || c.EarlyConfidence > 1 {
		return fmt.Errorf("early confidence %g outside [0,1]", c.EarlyConfidence)
	}
	return nil
}

// SelectorPolicy maps the config onto the selector's thresholds.
func (c Config) SelectorPolicy() selector.Policy {
	p := selector.DefaultPolicy()
	p.ZoningExit = c.ZoningExit
	p.RefinementExit = c.RefinementExit
	p.EarlyConfidence = c.EarlyConfidence
	p.EarlyMinAnswers = c.EarlyMinAnswers
	return p
}

// ValidationPolicy maps the config onto the validation thresholds.
func (c Config) ValidationPolicy() validation.Policy {
	p := validation.DefaultPolicy()
	p.FastCutoff = c.FastCutoff
	p.ContradictionTolerance = c.ContradictionTolerance
	p.ReliabilityThreshold = c.ReliabilityThreshold
	p.BypassPenalty = c.BypassPenalty
	return p
}

// ScoringPolicy maps the config onto the scoring constants.
func (c Config) ScoringPolicy() scoring.Policy {
	p := scoring.DefaultPolicy()
	p.CriticalWeight = c.CriticalWeight
	p.BypassCeiling = c.BypassCeiling
	return p
}
