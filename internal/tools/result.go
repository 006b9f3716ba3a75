package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sergei-tigrov/12union/internal/engine"
)

// CompleteTool handles union_complete_test: it scores the session and
// renders the full result.
type CompleteTool struct {
	engine *engine.Engine
}

// NewCompleteTool creates a CompleteTool bound to the engine.
func NewCompleteTool(e *engine.Engine) *CompleteTool {
	return &CompleteTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *CompleteTool) Definition() mcp.Tool {
	return mcp.NewTool("union_complete_test",
		mcp.WithDescription(
			"Complete an assessment session: run validation and scoring over the recorded answers "+
				"and return the test result. Completing early is allowed; a short trace lowers "+
				"confidence and reliability instead of failing.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The session id returned by union_start_test."),
		),
	)
}

// Handle processes the union_complete_test tool call.
func (t *CompleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")

	result, err := t.engine.CompleteSession(sessionID)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(renderResult(result)), nil
}

// GetResultTool handles union_get_result.
type GetResultTool struct {
	engine *engine.Engine
}

// NewGetResultTool creates a GetResultTool bound to the engine.
func NewGetResultTool(e *engine.Engine) *GetResultTool {
	return &GetResultTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *GetResultTool) Definition() mcp.Tool {
	return mcp.NewTool("union_get_result",
		mcp.WithDescription("Return the stored test result for a completed session."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The session id whose result to fetch."),
		),
	)
}

// Handle processes the union_get_result tool call.
func (t *GetResultTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")

	result, err := t.engine.Result(sessionID)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(renderResult(result)), nil
}

// CompareTool handles union_compare_results.
type CompareTool struct {
	engine *engine.Engine
}

// NewCompareTool creates a CompareTool bound to the engine.
func NewCompareTool(e *engine.Engine) *CompareTool {
	return &CompareTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *CompareTool) Definition() mcp.Tool {
	return mcp.NewTool("union_compare_results",
		mcp.WithDescription(
			"Compare two completed test results: level gap, direction, significance, and compatibility.",
		),
		mcp.WithString("result_id_a",
			mcp.Required(),
			mcp.Description("The first result id."),
		),
		mcp.WithString("result_id_b",
			mcp.Required(),
			mcp.Description("The second result id."),
		),
	)
}

// Handle processes the union_compare_results tool call.
func (t *CompareTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idA := req.GetString("result_id_a", "")
	idB := req.GetString("result_id_b", "")

	comparison, err := t.engine.CompareResults(idA, idB)
	if err != nil {
		return toolError(err)
	}

	significance := "not significant"
	if comparison.Significant {
		significance = "significant"
	}
	response := fmt.Sprintf(
		"# Pair Comparison\n\n"+
			"**Levels:** %.1f vs %.1f\n"+
			"**Gap:** %.1f (%s, %s)\n"+
			"**Compatibility:** %.2f\n\n%s\n",
		comparison.LevelA, comparison.LevelB,
		comparison.Gap, comparison.Direction, significance,
		comparison.Compatibility, comparison.Summary,
	)
	return mcp.NewToolResultText(response), nil
}
