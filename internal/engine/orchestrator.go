package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sergei-tigrov/12union/internal/catalog"
	"github.com/sergei-tigrov/12union/internal/interpret"
	"github.com/sergei-tigrov/12union/internal/scoring"
	"github.com/sergei-tigrov/12union/internal/selector"
	"github.com/sergei-tigrov/12union/internal/validation"
)

// Policies groups the per-component policy constants the engine runs
// with.
type Policies struct {
	Selector   selector.Policy
	Validation validation.Policy
	Scoring    scoring.Policy
}

// DefaultPolicies returns the documented defaults for all components.
func DefaultPolicies() Policies {
	return Policies{
		Selector:   selector.DefaultPolicy(),
		Validation: validation.DefaultPolicy(),
		Scoring:    scoring.DefaultPolicy(),
	}
}

// Stores groups the engine's persistence interfaces.
type Stores struct {
	Sessions SessionStore
	Results  ResultStore
}

// Engine orchestrates assessment sessions. Each operation runs to
// completion before returning; there is no blocking I/O in the core.
type Engine struct {
	bank     *catalog.Bank
	policies Policies
	stores   Stores

	clock func() time.Time
	newID func() string
}

// New creates an engine with default clock and id generation.
func New(bank *catalog.Bank, policies Policies, stores Stores) *Engine {
	return &Engine{
		bank:     bank,
		policies: policies,
		stores:   stores,
		clock:    time.Now,
		newID:    uuid.NewString,
	}
}

// SetClock overrides the engine clock. For tests.
func (e *Engine) SetClock(clock func() time.Time) { e.clock = clock }

// SetIDGenerator overrides session/result id generation. For tests.
func (e *Engine) SetIDGenerator(newID func() string) { e.newID = newID }

// StartSession creates a session in the zoning phase. The mode and
// relationship status are validated at this boundary; invalid values
// fail fast instead of propagating into scoring.
func (e *Engine) StartSession(mode catalog.Mode, status catalog.RelationshipStatus) (*Session, error) {
	if err := catalog.ValidateMode(mode); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if err := catalog.ValidateStatus(status); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	now := e.clock()
	session := &Session{
		ID:                 e.newID(),
		Mode:               mode,
		RelationshipStatus: status,
		Selector:           selector.New(e.bank, e.policies.Selector, mode, status),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := e.stores.Sessions.Put(session); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}
	return session, nil
}

// NextQuestion returns the next question for the session, or ok=false
// when the test is ready to complete.
func (e *Engine) NextQuestion(sessionID string) (catalog.Question, bool, error) {
	session, err := e.stores.Sessions.Get(sessionID)
	if err != nil {
		return catalog.Question{}, false, err
	}
	if session.Completed() {
		return catalog.Question{}, false, nil
	}
	q, ok := session.Selector.NextQuestion()
	return q, ok, nil
}

// SubmitAnswer records one answer and advances the selector phase.
// mode may be empty to answer under the session's own mode.
func (e *Engine) SubmitAnswer(sessionID, questionID string, level int, responseTime time.Duration, mode catalog.Mode) error {
	session, err := e.stores.Sessions.Get(sessionID)
	if err != nil {
		return err
	}
	if session.Completed() {
		return fmt.Errorf("%w: %q", ErrSessionCompleted, sessionID)
	}
	if mode == "" {
		mode = session.Mode
	}
	if err := catalog.ValidateMode(mode); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if _, err := e.bank.ByID(questionID); err != nil {
		return fmt.Errorf("%w: %q", ErrQuestionNotFound, questionID)
	}
	if level < catalog.MinLevel || level > catalog.MaxLevel {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	if session.Selector.Answered(questionID) {
		return fmt.Errorf("%w: %q", ErrDuplicateAnswer, questionID)
	}

	answer := catalog.Answer{
		QuestionID:   questionID,
		Level:        level,
		ResponseTime: responseTime,
		AnsweredAt:   e.clock(),
		Mode:         mode,
	}
	if err := session.Selector.RecordAnswer(answer); err != nil {
		return fmt.Errorf("recording answer: %w", err)
	}
	session.UpdatedAt = e.clock()
	if err := e.stores.Sessions.Put(session); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

// CompleteSession runs validation, scoring, and interpretation over
// the recorded trace, stores the result, and transitions the session
// to completed. Completing before the selector is done is accepted:
// the shortfall shows up as lower confidence and reliability, not as
// an error.
func (e *Engine) CompleteSession(sessionID string) (TestResult, error) {
	session, err := e.stores.Sessions.Get(sessionID)
	if err != nil {
		return TestResult{}, err
	}
	if session.Completed() {
		return TestResult{}, fmt.Errorf("%w: %q", ErrSessionCompleted, sessionID)
	}

	answers := session.Selector.Answers()
	detection := session.Selector.Detection()

	val := validation.Evaluate(e.bank, answers, detection.Estimate, e.policies.Validation)
	raw := scoring.CalculateLevelScores(e.bank, answers, e.policies.Scoring)
	personal, relationship := scoring.ApplyValidationAdjustments(
		raw.PersonalLevel, raw.RelationshipLevel, val, e.policies.Scoring)

	result := TestResult{
		ID:                 e.newID(),
		SessionID:          session.ID,
		Mode:               session.Mode,
		RelationshipStatus: session.RelationshipStatus,
		PersonalLevel:      personal,
		RelationshipLevel:  relationship,
		LevelScores:        raw.LevelScores,
		Distribution:       scoring.LevelDistribution(raw.LevelScores),
		Validation:         val,
		Interpretation:     interpret.Interpret(personal, relationship, val),
		Recommendation:     scoring.ReliabilityRecommendation(val),
		CreatedAt:          e.clock(),
	}

	session.Result = &result
	session.UpdatedAt = result.CreatedAt
	if err := e.stores.Sessions.Put(session); err != nil {
		return TestResult{}, fmt.Errorf("storing session: %w", err)
	}
	if err := e.stores.Results.Put(result); err != nil {
		return TestResult{}, fmt.Errorf("storing result: %w", err)
	}
	return result, nil
}

// Result returns the completed session's test result.
func (e *Engine) Result(sessionID string) (TestResult, error) {
	session, err := e.stores.Sessions.Get(sessionID)
	if err != nil {
		// The session may have been evicted while its result survives
		// in the result store.
		if errors.Is(err, ErrSessionNotFound) {
			if result, rerr := e.stores.Results.GetBySession(sessionID); rerr == nil {
				return result, nil
			}
		}
		return TestResult{}, err
	}
	if !session.Completed() {
		return TestResult{}, fmt.Errorf("%w: %q", ErrResultNotAvailable, sessionID)
	}
	return *session.Result, nil
}

// CompareResults builds the pairwise comparison between two completed
// results, identified by result id.
func (e *Engine) CompareResults(resultIDA, resultIDB string) (interpret.PairComparison, error) {
	a, err := e.stores.Results.Get(resultIDA)
	if err != nil {
		return interpret.PairComparison{}, err
	}
	b, err := e.stores.Results.Get(resultIDB)
	if err != nil {
		return interpret.PairComparison{}, err
	}
	compatibility := scoring.Compatibility(a.PersonalLevel, b.PersonalLevel, e.policies.Scoring)
	return interpret.ComparePair(a.PersonalLevel, b.PersonalLevel, compatibility), nil
}

// SessionStatus returns the introspection snapshot for a session.
func (e *Engine) SessionStatus(sessionID string) (Status, error) {
	session, err := e.stores.Sessions.Get(sessionID)
	if err != nil {
		return Status{}, err
	}
	return Status{
		SessionID:         session.ID,
		Mode:              session.Mode,
		Phase:             session.Phase(),
		QuestionsAnswered: len(session.Selector.Answers()),
		Detection:         session.Selector.Detection(),
	}, nil
}

// DeleteSession removes a session from the store.
func (e *Engine) DeleteSession(sessionID string) error {
	return e.stores.Sessions.Delete(sessionID)
}

// ActiveSessions lists sessions that have not completed yet.
func (e *Engine) ActiveSessions() ([]*Session, error) {
	sessions, err := e.stores.Sessions.List()
	if err != nil {
		return nil, err
	}
	var active []*Session
	for _, s := range sessions {
		if !s.Completed() {
			active = append(active, s)
		}
	}
	return active, nil
}

// CompletedResults lists all stored test results.
func (e *Engine) CompletedResults() ([]TestResult, error) {
	return e.stores.Results.List()
}
