// Package engine is the session orchestrator: the sole entry point
// external collaborators use. It owns per-session state and sequences
// the selector, validation, scoring, and interpretation components.
//
// The engine itself does not serialize concurrent calls against the
// same session id; a concurrent host must guarantee at most one
// in-flight mutating call per session (the stores only guard their own
// maps).
package engine

import (
	"time"

	"github.com/sergei-tigrov/12union/internal/catalog"
	"github.com/sergei-tigrov/12union/internal/interpret"
	"github.com/sergei-tigrov/12union/internal/selector"
	"github.com/sergei-tigrov/12union/internal/validation"
)

// Phase is a session's lifecycle position. The active phases mirror
// the selector; Completed is terminal.
type Phase string

const (
	PhaseZoning     Phase = "zoning"
	PhaseRefinement Phase = "refinement"
	PhaseValidation Phase = "validation"
	PhaseCompleted  Phase = "completed"
)

// Session is one respondent's in-progress or completed assessment.
// The session exclusively owns its selector (and thus the answer
// trace) and, once completed, its result.
type Session struct {
	ID                 string
	Mode               catalog.Mode
	RelationshipStatus catalog.RelationshipStatus
	Selector           *selector.State
	Result             *TestResult
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Phase derives the session phase from completion state and the
// selector.
func (s *Session) Phase() Phase {
	if s.Result != nil {
		return PhaseCompleted
	}
	switch s.Selector.Phase() {
	case selector.PhaseZoning:
		return PhaseZoning
	case selector.PhaseRefinement:
		return PhaseRefinement
	default:
		return PhaseValidation
	}
}

// Completed reports whether the session has produced its result.
func (s *Session) Completed() bool { return s.Result != nil }

// TestResult is the immutable outcome of a completed session.
type TestResult struct {
	ID                 string                     `json:"id"`
	SessionID          string                     `json:"session_id"`
	Mode               catalog.Mode               `json:"mode"`
	RelationshipStatus catalog.RelationshipStatus `json:"relationship_status"`
	PersonalLevel      float64                    `json:"personal_level"`
	RelationshipLevel  float64                    `json:"relationship_level"`
	LevelScores        map[int]float64            `json:"level_scores"`
	Distribution       map[int]int                `json:"distribution"`
	Validation         validation.Result          `json:"validation"`
	Interpretation     interpret.Interpretation   `json:"interpretation"`
	Recommendation     string                     `json:"recommendation"`
	CreatedAt          time.Time                  `json:"created_at"`
}

// Status is the introspection snapshot for a session.
type Status struct {
	SessionID         string             `json:"session_id"`
	Mode              catalog.Mode       `json:"mode"`
	Phase             Phase              `json:"phase"`
	QuestionsAnswered int                `json:"questions_answered"`
	Detection         selector.Detection `json:"detection"`
}
