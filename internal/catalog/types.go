// Package catalog holds the immutable assessment catalog: the question
// bank and the 12-level metadata table.
//
// The catalog is authored as YAML, embedded into the binary, and
// validated once at load time. All lookup and filter operations are
// pure reads; the loaded Bank is shared by reference across sessions.
package catalog

import (
	"fmt"
	"time"
)

// Level bounds of the developmental scale.
const (
	MinLevel = 1
	MaxLevel = 12
)

// --- Test mode enum ---

// Mode selects which presentation variant of a question is shown.
// The level mapping of the options is identical across modes.
type Mode string

const (
	ModeSelf              Mode = "self"
	ModePartnerAssessment Mode = "partner_assessment"
	ModePotential         Mode = "potential"
	ModePairDiscussion    Mode = "pair_discussion"
)

// validModes is the set of allowed test modes.
var validModes = map[Mode]bool{
	ModeSelf:              true,
	ModePartnerAssessment: true,
	ModePotential:         true,
	ModePairDiscussion:    true,
}

// ValidateMode returns an error if the mode is not recognized.
func ValidateMode(m Mode) error {
	if !validModes[m] {
		return fmt.Errorf("invalid test mode %q: must be one of: self, partner_assessment, potential, pair_discussion", m)
	}
	return nil
}

// --- Relationship status enum ---

// RelationshipStatus is the respondent's declared relationship context.
// It labels the session; it never changes scoring math.
type RelationshipStatus string

const (
	StatusSingle    RelationshipStatus = "single"
	StatusDating    RelationshipStatus = "dating"
	StatusCommitted RelationshipStatus = "committed"
	StatusMarried   RelationshipStatus = "married"
	StatusSeparated RelationshipStatus = "separated"
)

// validStatuses is the set of allowed relationship statuses.
var validStatuses = map[RelationshipStatus]bool{
	StatusSingle:    true,
	StatusDating:    true,
	StatusCommitted: true,
	StatusMarried:   true,
	StatusSeparated: true,
}

// ValidateStatus returns an error if the status is not recognized.
func ValidateStatus(s RelationshipStatus) error {
	if !validStatuses[s] {
		return fmt.Errorf("invalid relationship status %q: must be one of: single, dating, committed, married, separated", s)
	}
	return nil
}

// --- Question category enum ---

// Category determines which selection phase a question belongs to.
type Category string

const (
	CategoryZoning     Category = "zoning"
	CategoryRefinement Category = "refinement"
	CategoryValidation Category = "validation"
)

// validCategories is the set of allowed question categories.
var validCategories = map[Category]bool{
	CategoryZoning:     true,
	CategoryRefinement: true,
	CategoryValidation: true,
}

// --- Dimension enum ---

// Dimension tags a question as probing personal or relationship maturity.
type Dimension string

const (
	DimensionPersonal     Dimension = "personal"
	DimensionRelationship Dimension = "relationship"
)

var validDimensions = map[Dimension]bool{
	DimensionPersonal:     true,
	DimensionRelationship: true,
}

// --- Zone banding ---

// Zone is the coarse band a level falls into.
type Zone string

const (
	ZoneDestructive  Zone = "destructive"
	ZoneEmotional    Zone = "emotional"
	ZoneMature       Zone = "mature"
	ZoneTranscendent Zone = "transcendent"
)

// ZoneForLevel maps a level to its zone band:
// 1-3 destructive, 4-6 emotional, 7-9 mature, 10-12 transcendent.
func ZoneForLevel(level float64) Zone {
	switch {
	case level < 4:
		return ZoneDestructive
	case level < 7:
		return ZoneEmotional
	case level < 10:
		return ZoneMature
	default:
		return ZoneTranscendent
	}
}

// PriorityCritical marks questions whose answers weigh most in scoring.
const PriorityCritical = 1

// --- Question records ---

// Option is one selectable answer. Text is the default presentation;
// ModeText holds per-mode overrides sharing the same level.
type Option struct {
	Level    int             `yaml:"level"`
	Text     string          `yaml:"text"`
	ModeText map[Mode]string `yaml:"mode_text,omitempty"`
}

// Zone returns the zone band the option's level falls into.
func (o Option) Zone() Zone {
	return ZoneForLevel(float64(o.Level))
}

// Question is a single catalog item. The catalog is read-only after
// load; callers must not mutate returned questions.
type Question struct {
	ID          string          `yaml:"id"`
	Category    Category        `yaml:"category"`
	Dimension   Dimension       `yaml:"dimension"`
	Topic       string          `yaml:"topic"`
	TargetLevel int             `yaml:"target_level"`
	Priority    int             `yaml:"priority"`
	Practical   bool            `yaml:"practical,omitempty"`
	Sensitive   bool            `yaml:"sensitive,omitempty"`
	Text        string          `yaml:"text"`
	ModeText    map[Mode]string `yaml:"mode_text,omitempty"`
	Options     []Option        `yaml:"options"`
}

// PromptOption is a mode-resolved answer option.
type PromptOption struct {
	Level int
	Text  string
}

// Prompt is the mode-resolved view of a question: the text variant for
// the requested mode with the shared level mapping.
type Prompt struct {
	QuestionID string
	Text       string
	Options    []PromptOption
}

// ForMode resolves the question's presentation for a mode. This is the
// single dispatch point for mode variants: per-mode overrides win,
// otherwise the default text is used, so every mode always has a full
// option set.
func (q Question) ForMode(mode Mode) Prompt {
	text := q.Text
	if v, ok := q.ModeText[mode]; ok {
		text = v
	}
	options := make([]PromptOption, len(q.Options))
	for i, opt := range q.Options {
		optText := opt.Text
		if v, ok := opt.ModeText[mode]; ok {
			optText = v
		}
		options[i] = PromptOption{Level: opt.Level, Text: optText}
	}
	return Prompt{QuestionID: q.ID, Text: text, Options: options}
}

// Answer records one response to a question. Immutable once recorded;
// a session keeps at most one answer per question id.
type Answer struct {
	QuestionID   string        `json:"question_id"`
	Level        int           `json:"level"`
	ResponseTime time.Duration `json:"response_time"`
	AnsweredAt   time.Time     `json:"answered_at"`
	Mode         Mode          `json:"mode"`
}

// OptionForLevel returns the option matching the given level,
// or false if the question has no option at that level.
func (q Question) OptionForLevel(level int) (Option, bool) {
	for _, opt := range q.Options {
		if opt.Level == level {
			return opt, true
		}
	}
	return Option{}, false
}
