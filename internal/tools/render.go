// Package tools implements the MCP tool handlers over the assessment
// engine. Each tool is a thin adapter: it parses arguments, calls one
// orchestrator operation, and renders the outcome as markdown. No
// engine logic lives here.
package tools

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sergei-tigrov/12union/internal/catalog"
	"github.com/sergei-tigrov/12union/internal/engine"
)

// engineErrors are the recoverable conditions rendered as tool-result
// errors instead of protocol errors.
var engineErrors = []error{
	engine.ErrSessionNotFound,
	engine.ErrSessionCompleted,
	engine.ErrDuplicateAnswer,
	engine.ErrQuestionNotFound,
	engine.ErrResultNotAvailable,
	engine.ErrResultNotFound,
	engine.ErrInvalidLevel,
	engine.ErrInvalidMode,
	engine.ErrInvalidStatus,
}

// toolError maps engine error kinds onto tool-result errors; anything
// else is returned as a Go error to the MCP layer.
func toolError(err error) (*mcp.CallToolResult, error) {
	for _, kind := range engineErrors {
		if errors.Is(err, kind) {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	return nil, err
}

// renderQuestion formats a mode-resolved question with its options.
func renderQuestion(q catalog.Question, mode catalog.Mode) string {
	prompt := q.ForMode(mode)
	var b strings.Builder
	fmt.Fprintf(&b, "## Question `%s`\n\n%s\n\n", prompt.QuestionID, prompt.Text)
	for _, opt := range prompt.Options {
		fmt.Fprintf(&b, "- **%d** — %s\n", opt.Level, opt.Text)
	}
	b.WriteString("\nSubmit the chosen option's level with `union_submit_answer`.")
	return b.String()
}

// renderResult formats a completed test result.
func renderResult(result engine.TestResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Test Result\n\n")
	fmt.Fprintf(&b, "**Result ID:** `%s`\n", result.ID)
	fmt.Fprintf(&b, "**Session:** `%s`\n", result.SessionID)
	fmt.Fprintf(&b, "**Personal level:** %.1f (%s %s)\n",
		result.PersonalLevel, result.Interpretation.PersonalInfo.Icon, result.Interpretation.PersonalInfo.Name)
	fmt.Fprintf(&b, "**Relationship level:** %.1f (%s %s)\n",
		result.RelationshipLevel, result.Interpretation.RelationshipInfo.Icon, result.Interpretation.RelationshipInfo.Name)
	fmt.Fprintf(&b, "**Zone:** %s\n", result.Interpretation.Zone)
	fmt.Fprintf(&b, "**Reliability:** %.2f — %s\n\n", result.Validation.ReliabilityScore, result.Interpretation.ReliabilityNote)

	fmt.Fprintf(&b, "%s\n\n", result.Interpretation.Headline)

	b.WriteString("## Traits\n\n")
	for _, t := range result.Interpretation.Traits {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	b.WriteString("\n## Growth\n\n")
	for _, g := range result.Interpretation.Growth {
		fmt.Fprintf(&b, "- %s\n", g)
	}

	b.WriteString("\n## Level distribution\n\n")
	levels := make([]int, 0, len(result.Distribution))
	for level := range result.Distribution {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	for _, level := range levels {
		if pct := result.Distribution[level]; pct > 0 {
			fmt.Fprintf(&b, "- Level %d: %d%%\n", level, pct)
		}
	}

	if len(result.Validation.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range result.Validation.Warnings {
			fmt.Fprintf(&b, "- [%s/%s] %s\n", w.Kind, w.Severity, w.Message)
		}
	}

	fmt.Fprintf(&b, "\n**Recommendation:** %s\n", result.Recommendation)
	return b.String()
}
