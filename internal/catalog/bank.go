package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by lookups for unknown question ids.
var ErrNotFound = errors.New("question not found")

// Expected category composition of the shipped catalog.
const (
	ZoningCount     = 6
	RefinementCount = 22
	ValidationCount = 6
)

//go:embed questions.yaml
var questionsYAML []byte

// Bank is the loaded question catalog. All methods are pure reads and
// safe for concurrent use.
type Bank struct {
	questions []Question
	byID      map[string]int
}

// catalogFile is the YAML document shape.
type catalogFile struct {
	Questions []Question `yaml:"questions"`
}

// Load parses and validates the embedded catalog.
func Load() (*Bank, error) {
	return loadFrom(questionsYAML)
}

// MustLoad is Load for composition roots where a broken embedded
// catalog is a programming error.
func MustLoad() *Bank {
	b, err := Load()
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return b
}

func loadFrom(data []byte) (*Bank, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing question catalog: %w", err)
	}

	bank := &Bank{
		questions: file.Questions,
		byID:      make(map[string]int, len(file.Questions)),
	}

	counts := map[Category]int{}
	for i, q := range file.Questions {
		if err := validateQuestion(q); err != nil {
			return nil, fmt.Errorf("question %q: %w", q.ID, err)
		}
		if _, dup := bank.byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		bank.byID[q.ID] = i
		counts[q.Category]++
	}

	if counts[CategoryZoning] != ZoningCount {
		return nil, fmt.Errorf("catalog has %d zoning questions, want %d", counts[CategoryZoning], ZoningCount)
	}
	if counts[CategoryRefinement] != RefinementCount {
		return nil, fmt.Errorf("catalog has %d refinement questions, want %d", counts[CategoryRefinement], RefinementCount)
	}
	if counts[CategoryValidation] != ValidationCount {
		return nil, fmt.Errorf("catalog has %d validation questions, want %d", counts[CategoryValidation], ValidationCount)
	}

	return bank, nil
}

// validateQuestion enforces the catalog invariants for one question.
func validateQuestion(q Question) error {
	if q.ID == "" {
		return errors.New("missing id")
	}
	if !validCategories[q.Category] {
		return fmt.Errorf("invalid category %q", q.Category)
	}
	if !validDimensions[q.Dimension] {
		return fmt.Errorf("invalid dimension %q", q.Dimension)
	}
	if q.Topic == "" {
		return errors.New("missing topic")
	}
	if q.TargetLevel < MinLevel || q.TargetLevel > MaxLevel {
		return fmt.Errorf("target level %d outside [%d,%d]", q.TargetLevel, MinLevel, MaxLevel)
	}
	if q.Priority < 1 {
		return fmt.Errorf("priority %d must be >= 1", q.Priority)
	}
	if q.Text == "" {
		return errors.New("missing text")
	}
	if len(q.Options) == 0 {
		return errors.New("no options")
	}
	for mode := range q.ModeText {
		if !validModes[mode] {
			return fmt.Errorf("unknown mode %q in text variants", mode)
		}
	}
	seen := map[int]bool{}
	for _, opt := range q.Options {
		if opt.Level < MinLevel || opt.Level > MaxLevel {
			return fmt.Errorf("option level %d outside [%d,%d]", opt.Level, MinLevel, MaxLevel)
		}
		if seen[opt.Level] {
			return fmt.Errorf("duplicate option level %d", opt.Level)
		}
		seen[opt.Level] = true
		if opt.Text == "" {
			return fmt.Errorf("option at level %d has no text", opt.Level)
		}
		for mode := range opt.ModeText {
			if !validModes[mode] {
				return fmt.Errorf("unknown mode %q in option variants", mode)
			}
		}
	}
	return nil
}

// Len returns the total number of questions in the catalog.
func (b *Bank) Len() int { return len(b.questions) }

// ByID looks up a question by id.
func (b *Bank) ByID(id string) (Question, error) {
	i, ok := b.byID[id]
	if !ok {
		return Question{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return b.questions[i], nil
}

// ByCategory returns all questions of the given category in catalog order.
func (b *Bank) ByCategory(c Category) []Question {
	var result []Question
	for _, q := range b.questions {
		if q.Category == c {
			result = append(result, q)
		}
	}
	return result
}

// ByTargetLevel returns questions with any option mapping to the level.
func (b *Bank) ByTargetLevel(level int) []Question {
	var result []Question
	for _, q := range b.questions {
		if _, ok := q.OptionForLevel(level); ok {
			result = append(result, q)
		}
	}
	return result
}

// ZoningQuestions returns the zoning questions in catalog order.
func (b *Bank) ZoningQuestions() []Question {
	return b.ByCategory(CategoryZoning)
}

// RefinementQuestions returns the refinement questions in catalog order.
func (b *Bank) RefinementQuestions() []Question {
	return b.ByCategory(CategoryRefinement)
}

// ValidationQuestions returns the validation questions in catalog order.
func (b *Bank) ValidationQuestions() []Question {
	return b.ByCategory(CategoryValidation)
}

// CriticalQuestions returns questions with critical priority.
func (b *Bank) CriticalQuestions() []Question {
	var result []Question
	for _, q := range b.questions {
		if q.Priority == PriorityCritical {
			result = append(result, q)
		}
	}
	return result
}

// All returns every question in catalog order. The returned slice is
// shared; callers must treat it as read-only.
func (b *Bank) All() []Question {
	return b.questions
}
