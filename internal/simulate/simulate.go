// Package simulate is the developer-only answer automation: it drives
// a complete assessment against the real engine with a configurable
// answer profile. Useful for exercising the selector, the validation
// signals, and the scoring pipeline end to end without a respondent.
package simulate

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/sergei-tigrov/12union/internal/catalog"
	"github.com/sergei-tigrov/12union/internal/engine"
)

// Profile selects the simulated respondent's answering strategy.
type Profile string

const (
	// ProfileGrounded answers consistently in the mature band.
	ProfileGrounded Profile = "grounded"
	// ProfileLow answers consistently in the destructive band.
	ProfileLow Profile = "low"
	// ProfileAspirational claims top levels on self-report questions
	// while answering low on concrete-behavior ones; it should trip
	// the spiritual-bypass detector.
	ProfileAspirational Profile = "aspirational"
	// ProfileRushed answers like grounded but faster than the
	// speed-anomaly cutoff.
	ProfileRushed Profile = "rushed"
	// ProfileChaotic picks uniformly random options; it should produce
	// contradictions and low coherence.
	ProfileChaotic Profile = "chaotic"
)

// validProfiles is the set of known profiles.
var validProfiles = map[Profile]bool{
	ProfileGrounded:     true,
	ProfileLow:          true,
	ProfileAspirational: true,
	ProfileRushed:       true,
	ProfileChaotic:      true,
}

// ValidateProfile returns an error if the profile is not recognized.
func ValidateProfile(p Profile) error {
	if !validProfiles[p] {
		return fmt.Errorf("invalid profile %q: must be one of: grounded, low, aspirational, rushed, chaotic", p)
	}
	return nil
}

// Simulator drives assessments against an engine.
type Simulator struct {
	engine *engine.Engine
	bank   *catalog.Bank
	rng    *rand.Rand
	logger *zap.Logger
}

// New creates a simulator. The seed makes runs reproducible.
func New(e *engine.Engine, bank *catalog.Bank, seed int64, logger *zap.Logger) *Simulator {
	return &Simulator{
		engine: e,
		bank:   bank,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

// Run plays one full assessment under the profile and returns the
// scored result.
func (s *Simulator) Run(profile Profile, mode catalog.Mode, status catalog.RelationshipStatus) (engine.TestResult, error) {
	if err := ValidateProfile(profile); err != nil {
		return engine.TestResult{}, err
	}

	session, err := s.engine.StartSession(mode, status)
	if err != nil {
		return engine.TestResult{}, fmt.Errorf("starting session: %w", err)
	}
	s.logger.Info("simulation started",
		zap.String("session_id", session.ID),
		zap.String("profile", string(profile)),
		zap.String("mode", string(mode)),
	)

	for {
		q, ok, err := s.engine.NextQuestion(session.ID)
		if err != nil {
			return engine.TestResult{}, fmt.Errorf("next question: %w", err)
		}
		if !ok {
			break
		}

		level := s.pickLevel(profile, q)
		latency := s.pickLatency(profile)
		if err := s.engine.SubmitAnswer(session.ID, q.ID, level, latency, ""); err != nil {
			return engine.TestResult{}, fmt.Errorf("submitting answer for %q: %w", q.ID, err)
		}
		s.logger.Debug("answer submitted",
			zap.String("question_id", q.ID),
			zap.String("category", string(q.Category)),
			zap.Int("level", level),
			zap.Duration("latency", latency),
		)
	}

	result, err := s.engine.CompleteSession(session.ID)
	if err != nil {
		return engine.TestResult{}, fmt.Errorf("completing session: %w", err)
	}
	s.logger.Info("simulation completed",
		zap.Float64("personal_level", result.PersonalLevel),
		zap.Float64("relationship_level", result.RelationshipLevel),
		zap.Float64("reliability", result.Validation.ReliabilityScore),
		zap.Bool("bypass", result.Validation.SpiritualBypass),
		zap.Int("warnings", len(result.Validation.Warnings)),
	)
	return result, nil
}

// pickLevel chooses an option level for a question under the profile.
func (s *Simulator) pickLevel(profile Profile, q catalog.Question) int {
	options := q.Options
	switch profile {
	case ProfileGrounded, ProfileRushed:
		return closestOption(options, 8)
	case ProfileLow:
		return closestOption(options, 2)
	case ProfileAspirational:
		if q.Practical {
			return lowestOption(options)
		}
		return highestOption(options)
	default: // chaotic
		return options[s.rng.Intn(len(options))].Level
	}
}

// pickLatency chooses a plausible response time for the profile.
func (s *Simulator) pickLatency(profile Profile) time.Duration {
	if profile == ProfileRushed {
		return time.Duration(300+s.rng.Intn(600)) * time.Millisecond
	}
	return time.Duration(3000+s.rng.Intn(5000)) * time.Millisecond
}

func closestOption(options []catalog.Option, target int) int {
	best := options[0].Level
	bestGap := gap(best, target)
	for _, opt := range options[1:] {
		if g := gap(opt.Level, target); g < bestGap {
			best, bestGap = opt.Level, g
		}
	}
	return best
}

func lowestOption(options []catalog.Option) int {
	best := options[0].Level
	for _, opt := range options[1:] {
		if opt.Level < best {
			best = opt.Level
		}
	}
	return best
}

func highestOption(options []catalog.Option) int {
	best := options[0].Level
	for _, opt := range options[1:] {
		if opt.Level > best {
			best = opt.Level
		}
	}
	return best
}

func gap(a, b int) int {
	if a < b {
		return b - a
	}
	return a - b
}
