package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sergei-tigrov/12union/internal/engine"
)

// StatusTool handles union_session_status.
type StatusTool struct {
	engine *engine.Engine
}

// NewStatusTool creates a StatusTool bound to the engine.
func NewStatusTool(e *engine.Engine) *StatusTool {
	return &StatusTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("union_session_status",
		mcp.WithDescription("Return a session's phase, answer count, and running level estimate."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The session id to inspect."),
		),
	)
}

// Handle processes the union_session_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")

	status, err := t.engine.SessionStatus(sessionID)
	if err != nil {
		return toolError(err)
	}

	response := fmt.Sprintf(
		"**Session:** `%s`\n**Mode:** %s\n**Phase:** %s\n**Answered:** %d\n"+
			"**Estimate:** %.1f (%s, confidence %.2f)\n",
		status.SessionID, status.Mode, status.Phase, status.QuestionsAnswered,
		status.Detection.Estimate, status.Detection.Zone, status.Detection.Confidence,
	)
	return mcp.NewToolResultText(response), nil
}

// ListSessionsTool handles union_list_sessions.
type ListSessionsTool struct {
	engine *engine.Engine
}

// NewListSessionsTool creates a ListSessionsTool bound to the engine.
func NewListSessionsTool(e *engine.Engine) *ListSessionsTool {
	return &ListSessionsTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *ListSessionsTool) Definition() mcp.Tool {
	return mcp.NewTool("union_list_sessions",
		mcp.WithDescription("List active sessions and completed results."),
	)
}

// Handle processes the union_list_sessions tool call.
func (t *ListSessionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	active, err := t.engine.ActiveSessions()
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	completed, err := t.engine.CompletedResults()
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Sessions\n\n## Active (%d)\n\n", len(active))
	if len(active) == 0 {
		b.WriteString("None.\n")
	}
	for _, s := range active {
		fmt.Fprintf(&b, "- `%s` — %s, phase %s, %d answered\n",
			s.ID, s.Mode, s.Phase(), len(s.Selector.Answers()))
	}

	fmt.Fprintf(&b, "\n## Completed results (%d)\n\n", len(completed))
	if len(completed) == 0 {
		b.WriteString("None.\n")
	}
	for _, r := range completed {
		fmt.Fprintf(&b, "- `%s` — session `%s`, personal %.1f, relationship %.1f, reliability %.2f\n",
			r.ID, r.SessionID, r.PersonalLevel, r.RelationshipLevel, r.Validation.ReliabilityScore)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// DeleteSessionTool handles union_delete_session.
type DeleteSessionTool struct {
	engine *engine.Engine
}

// NewDeleteSessionTool creates a DeleteSessionTool bound to the engine.
func NewDeleteSessionTool(e *engine.Engine) *DeleteSessionTool {
	return &DeleteSessionTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteSessionTool) Definition() mcp.Tool {
	return mcp.NewTool("union_delete_session",
		mcp.WithDescription("Delete a session. Archived results are kept."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The session id to delete."),
		),
	)
}

// Handle processes the union_delete_session tool call.
func (t *DeleteSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")

	if err := t.engine.DeleteSession(sessionID); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Session `%s` deleted.", sessionID)), nil
}
