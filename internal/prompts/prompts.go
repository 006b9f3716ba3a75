// Package prompts implements the MCP prompt handlers. Prompts are
// user-triggered workflows (like slash commands) that instruct the
// hosting AI to drive an assessment; unlike tools, the user initiates
// them.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the union-start prompt: it instructs the host to
// open a session and run the full question flow conversationally.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("union-start",
		mcp.WithPromptDescription(
			"Take the 12union relationship-maturity assessment. "+
				"Walks you through an adaptive questionnaire and returns your placement "+
				"on the 12-level scale with a reliability check.",
		),
		mcp.WithArgument("mode",
			mcp.ArgumentDescription(
				"Whose relationship to assess: 'self' (default), 'partner_assessment', 'potential', or 'pair_discussion'",
			),
		),
		mcp.WithArgument("relationship_status",
			mcp.ArgumentDescription(
				"Your current situation: single, dating, committed, married, or separated. Default: single",
			),
		),
	)
}

// Handle processes the union-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	mode := "self"
	status := "single"
	if args := req.Params.Arguments; args != nil {
		if m, ok := args["mode"]; ok && m != "" {
			mode = m
		}
		if s, ok := args["relationship_status"]; ok && s != "" {
			status = s
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Run a 12union assessment (%s)", mode),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to take the 12union relationship-maturity assessment in '%s' mode.\n\n"+
						"Please:\n"+
						"1. Run `union_start_test` with mode='%s' and relationship_status='%s'\n"+
						"2. Present each question with its answer options and wait for my choice\n"+
						"3. Record every answer with `union_submit_answer`, passing response_ms when you can measure it\n"+
						"4. Fetch the next question with `union_next_question` until the test says it is ready\n"+
						"5. Run `union_complete_test` and walk me through the result, including any reliability warnings\n\n"+
						"Keep a neutral tone while I answer; do not hint at which option scores higher.",
					mode, mode, status,
				)),
			},
		},
	}, nil
}

// ResultPrompt handles the union-result prompt: it instructs the host
// to fetch and explain a stored result.
type ResultPrompt struct{}

// NewResultPrompt creates a ResultPrompt.
func NewResultPrompt() *ResultPrompt {
	return &ResultPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ResultPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("union-result",
		mcp.WithPromptDescription(
			"Review a completed 12union assessment: your levels, the zone narrative, "+
				"reliability signals, and suggested growth steps.",
		),
		mcp.WithArgument("session_id",
			mcp.ArgumentDescription("The session whose result to review"),
		),
	)
}

// Handle processes the union-result prompt request.
func (p *ResultPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	sessionID := ""
	if args := req.Params.Arguments; args != nil {
		sessionID = args["session_id"]
	}

	instruction := "Please run `union_list_sessions` to find my completed assessment, " +
		"then fetch it with `union_get_result`.\n\n"
	if sessionID != "" {
		instruction = fmt.Sprintf("Please run `union_get_result` with session_id='%s'.\n\n", sessionID)
	}

	return &mcp.GetPromptResult{
		Description: "Review assessment result",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(instruction +
					"Then:\n" +
					"1. Explain my personal and relationship levels in plain language\n" +
					"2. Summarize the zone narrative and the growth suggestions\n" +
					"3. If reliability warnings are present, explain what triggered them and whether a retake would help",
				),
			},
		},
	}, nil
}
