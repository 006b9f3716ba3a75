package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sergei-tigrov/12union/internal/catalog"
	"github.com/sergei-tigrov/12union/internal/engine"
)

// StartTool handles union_start_test: it creates a session and serves
// the first zoning question.
type StartTool struct {
	engine *engine.Engine
}

// NewStartTool creates a StartTool bound to the engine.
func NewStartTool(e *engine.Engine) *StartTool {
	return &StartTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *StartTool) Definition() mcp.Tool {
	return mcp.NewTool("union_start_test",
		mcp.WithDescription(
			"Start a new 12union assessment session. Returns the session id and the first question. "+
				"The test adaptively selects questions: a zoning phase locates the coarse band, "+
				"a refinement phase pinpoints the level, and validation questions check consistency.",
		),
		mcp.WithString("mode",
			mcp.Required(),
			mcp.Description("Test mode: self | partner_assessment | potential | pair_discussion."),
		),
		mcp.WithString("relationship_status",
			mcp.Required(),
			mcp.Description("Respondent context: single | dating | committed | married | separated."),
		),
	)
}

// Handle processes the union_start_test tool call.
func (t *StartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode := catalog.Mode(req.GetString("mode", ""))
	status := catalog.RelationshipStatus(req.GetString("relationship_status", ""))

	session, err := t.engine.StartSession(mode, status)
	if err != nil {
		return toolError(err)
	}

	q, ok, err := t.engine.NextQuestion(session.ID)
	if err != nil {
		return toolError(err)
	}
	if !ok {
		return mcp.NewToolResultError("the catalog served no first question; this is a configuration problem"), nil
	}

	response := fmt.Sprintf(
		"# Session started\n\n**Session ID:** `%s`\n**Mode:** %s\n**Phase:** zoning\n\n%s",
		session.ID, session.Mode, renderQuestion(q, session.Mode),
	)
	return mcp.NewToolResultText(response), nil
}

// NextQuestionTool handles union_next_question.
type NextQuestionTool struct {
	engine *engine.Engine
}

// NewNextQuestionTool creates a NextQuestionTool bound to the engine.
func NewNextQuestionTool(e *engine.Engine) *NextQuestionTool {
	return &NextQuestionTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *NextQuestionTool) Definition() mcp.Tool {
	return mcp.NewTool("union_next_question",
		mcp.WithDescription(
			"Get the next question for an assessment session. "+
				"When the test is ready to complete, the response says so instead of returning a question.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The session id returned by union_start_test."),
		),
	)
}

// Handle processes the union_next_question tool call.
func (t *NextQuestionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")

	status, err := t.engine.SessionStatus(sessionID)
	if err != nil {
		return toolError(err)
	}

	q, ok, err := t.engine.NextQuestion(sessionID)
	if err != nil {
		return toolError(err)
	}
	if !ok {
		return mcp.NewToolResultText(
			"All questions are answered. Call `union_complete_test` to score the session.",
		), nil
	}

	response := fmt.Sprintf("**Phase:** %s · **Answered:** %d\n\n%s",
		status.Phase, status.QuestionsAnswered, renderQuestion(q, status.Mode))
	return mcp.NewToolResultText(response), nil
}

// SubmitTool handles union_submit_answer.
type SubmitTool struct {
	engine *engine.Engine
}

// NewSubmitTool creates a SubmitTool bound to the engine.
func NewSubmitTool(e *engine.Engine) *SubmitTool {
	return &SubmitTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *SubmitTool) Definition() mcp.Tool {
	return mcp.NewTool("union_submit_answer",
		mcp.WithDescription(
			"Record an answer for the current session. Pass the level value of the chosen option. "+
				"Each question can be answered once; the selector advances its phase automatically.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The session id returned by union_start_test."),
		),
		mcp.WithString("question_id",
			mcp.Required(),
			mcp.Description("The id of the question being answered."),
		),
		mcp.WithNumber("level",
			mcp.Required(),
			mcp.Description("The chosen option's level value (1-12)."),
		),
		mcp.WithNumber("response_ms",
			mcp.Description("Milliseconds the respondent took to answer. Feeds the speed-anomaly signal."),
		),
	)
}

// Handle processes the union_submit_answer tool call.
func (t *SubmitTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	questionID := req.GetString("question_id", "")
	level := int(req.GetFloat("level", 0))
	responseMS := req.GetFloat("response_ms", 0)

	err := t.engine.SubmitAnswer(sessionID, questionID, level,
		time.Duration(responseMS)*time.Millisecond, "")
	if err != nil {
		return toolError(err)
	}

	status, err := t.engine.SessionStatus(sessionID)
	if err != nil {
		return toolError(err)
	}

	response := fmt.Sprintf(
		"Answer recorded.\n\n**Phase:** %s\n**Answered:** %d\n**Running estimate:** %.1f (%s, confidence %.2f)\n\n"+
			"Call `union_next_question` for the next question, or `union_complete_test` to finish.",
		status.Phase, status.QuestionsAnswered,
		status.Detection.Estimate, status.Detection.Zone, status.Detection.Confidence,
	)
	return mcp.NewToolResultText(response), nil
}
