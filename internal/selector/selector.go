// Package selector implements the adaptive question-selection state
// machine: a zoning phase that places the respondent in a coarse band,
// a refinement phase that pinpoints a level, and a validation phase
// that serves the consistency probes before the test completes.
package selector

import (
	"fmt"
	"math"
	"sort"

	"github.com/sergei-tigrov/12union/internal/catalog"
)

// Phase is the selector's position in the question sequence.
type Phase string

const (
	PhaseZoning     Phase = "zoning"
	PhaseRefinement Phase = "refinement"
	PhaseValidation Phase = "validation"
	PhaseDone       Phase = "done"
)

// Policy holds the selection thresholds. Zero values are not usable;
// construct with DefaultPolicy and override fields as needed.
type Policy struct {
	// ZoningExit is the number of zoning answers that ends the zoning phase.
	ZoningExit int
	// RefinementExit is the number of refinement answers that ends refinement.
	RefinementExit int
	// EarlyConfidence ends refinement early once reached, provided at
	// least EarlyMinAnswers refinement answers are recorded.
	EarlyConfidence float64
	EarlyMinAnswers int

	// Per-category estimate weights. Zoning answers count double while
	// the zoning phase is still locating the band.
	ZoningWeight      float64
	ZoningWeightLater float64
	RefinementWeight  float64
	ValidationWeight  float64
}

// DefaultPolicy returns the documented selection defaults.
func DefaultPolicy() Policy {
	return Policy{
		ZoningExit:        6,
		RefinementExit:    10,
		EarlyConfidence:   0.85,
		EarlyMinAnswers:   6,
		ZoningWeight:      2.0,
		ZoningWeightLater: 1.0,
		RefinementWeight:  1.5,
		ValidationWeight:  0.5,
	}
}

// Detection is the running placement estimate.
type Detection struct {
	Estimate   float64      `json:"estimate"`
	Zone       catalog.Zone `json:"zone"`
	Confidence float64      `json:"confidence"`
}

// State is one session's selector. Not safe for concurrent use; the
// session orchestrator serializes access.
type State struct {
	bank   *catalog.Bank
	policy Policy
	mode   catalog.Mode
	status catalog.RelationshipStatus

	phase    Phase
	answers  []catalog.Answer
	answered map[string]bool
}

// New creates a selector in the zoning phase with an empty trace.
func New(bank *catalog.Bank, policy Policy, mode catalog.Mode, status catalog.RelationshipStatus) *State {
	return &State{
		bank:     bank,
		policy:   policy,
		mode:     mode,
		status:   status,
		phase:    PhaseZoning,
		answered: make(map[string]bool),
	}
}

// Phase returns the current selection phase.
func (s *State) Phase() Phase { return s.phase }

// Mode returns the test mode the selector was initialized with.
func (s *State) Mode() catalog.Mode { return s.mode }

// Answers returns the recorded trace in submission order. The slice is
// shared; callers must treat it as read-only.
func (s *State) Answers() []catalog.Answer { return s.answers }

// Answered reports whether a question already has a recorded answer.
func (s *State) Answered(questionID string) bool { return s.answered[questionID] }

// NextQuestion returns the next question to ask, or false when no
// admissible question remains.
func (s *State) NextQuestion() (catalog.Question, bool) {
	switch s.phase {
	case PhaseZoning:
		if q, ok := s.nextInOrder(s.bank.ZoningQuestions()); ok {
			return q, true
		}
		// Zoning exhausted without the exit firing; fall through.
		return s.nextRefinement()
	case PhaseRefinement:
		return s.nextRefinement()
	case PhaseValidation:
		return s.nextInOrder(s.bank.ValidationQuestions())
	default:
		return catalog.Question{}, false
	}
}

// nextInOrder returns the first unanswered question in catalog order.
func (s *State) nextInOrder(pool []catalog.Question) (catalog.Question, bool) {
	for _, q := range pool {
		if !s.answered[q.ID] {
			return q, true
		}
	}
	return catalog.Question{}, false
}

// nextRefinement picks the unanswered refinement question whose target
// level is closest to the running estimate. Ties break by priority
// (critical first), then catalog order.
func (s *State) nextRefinement() (catalog.Question, bool) {
	estimate := s.estimate()

	type candidate struct {
		q        catalog.Question
		distance float64
		order    int
	}
	var candidates []candidate
	for i, q := range s.bank.RefinementQuestions() {
		if s.answered[q.ID] {
			continue
		}
		candidates = append(candidates, candidate{
			q:        q,
			distance: math.Abs(float64(q.TargetLevel) - estimate),
			order:    i,
		})
	}
	if len(candidates) == 0 {
		return s.nextInOrder(s.bank.ValidationQuestions())
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		if a.q.Priority != b.q.Priority {
			return a.q.Priority < b.q.Priority
		}
		return a.order < b.order
	})
	return candidates[0].q, true
}

// RecordAnswer appends an answer, recomputes the running estimate, and
// advances the phase when its exit condition is met.
func (s *State) RecordAnswer(ans catalog.Answer) error {
	if s.answered[ans.QuestionID] {
		return fmt.Errorf("question %q already answered", ans.QuestionID)
	}
	if _, err := s.bank.ByID(ans.QuestionID); err != nil {
		return err
	}
	if ans.Level < catalog.MinLevel || ans.Level > catalog.MaxLevel {
		return fmt.Errorf("answer level %d outside [%d,%d]", ans.Level, catalog.MinLevel, catalog.MaxLevel)
	}

	s.answers = append(s.answers, ans)
	s.answered[ans.QuestionID] = true
	s.advancePhase()
	return nil
}

// advancePhase fires phase transitions based on the recorded counts.
func (s *State) advancePhase() {
	switch s.phase {
	case PhaseZoning:
		if s.countCategory(catalog.CategoryZoning) >= s.policy.ZoningExit {
			s.phase = PhaseRefinement
		}
	case PhaseRefinement:
		n := s.countCategory(catalog.CategoryRefinement)
		if n >= s.policy.RefinementExit {
			s.phase = PhaseValidation
			return
		}
		if n >= s.policy.EarlyMinAnswers && s.Detection().Confidence >= s.policy.EarlyConfidence {
			s.phase = PhaseValidation
		}
	case PhaseValidation:
		if s.countCategory(catalog.CategoryValidation) >= len(s.bank.ValidationQuestions()) {
			s.phase = PhaseDone
		}
	}
}

// countCategory counts recorded answers belonging to a catalog category.
func (s *State) countCategory(c catalog.Category) int {
	n := 0
	for _, ans := range s.answers {
		if q, err := s.bank.ByID(ans.QuestionID); err == nil && q.Category == c {
			n++
		}
	}
	return n
}

// Detection returns the running estimate, its zone band, and a
// confidence that grows with answer count and shrinks with variance.
func (s *State) Detection() Detection {
	estimate := s.estimate()
	return Detection{
		Estimate:   estimate,
		Zone:       catalog.ZoneForLevel(estimate),
		Confidence: s.confidence(estimate),
	}
}

// estimate is the weighted mean of recorded option levels. With no
// answers it sits at the scale midpoint.
func (s *State) estimate() float64 {
	if len(s.answers) == 0 {
		return (catalog.MinLevel + catalog.MaxLevel) / 2.0
	}
	var weightedSum, totalWeight float64
	for _, ans := range s.answers {
		w := s.answerWeight(ans)
		weightedSum += float64(ans.Level) * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return (catalog.MinLevel + catalog.MaxLevel) / 2.0
	}
	return weightedSum / totalWeight
}

// answerWeight returns the estimate weight for one recorded answer.
func (s *State) answerWeight(ans catalog.Answer) float64 {
	q, err := s.bank.ByID(ans.QuestionID)
	if err != nil {
		return 1.0
	}
	switch q.Category {
	case catalog.CategoryZoning:
		if s.phase == PhaseZoning {
			return s.policy.ZoningWeight
		}
		return s.policy.ZoningWeightLater
	case catalog.CategoryRefinement:
		return s.policy.RefinementWeight
	case catalog.CategoryValidation:
		return s.policy.ValidationWeight
	default:
		return 1.0
	}
}

// confidence combines coverage (answer count against a full test) with
// estimate stability (inverse variance of recorded levels).
func (s *State) confidence(estimate float64) float64 {
	n := len(s.answers)
	if n == 0 {
		return 0
	}
	coverage := float64(n) / 12.0
	if coverage > 1 {
		coverage = 1
	}
	var variance float64
	for _, ans := range s.answers {
		d := float64(ans.Level) - estimate
		variance += d * d
	}
	variance /= float64(n)
	return coverage / (1 + variance)
}
