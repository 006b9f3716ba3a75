// Package server wires the assessment engine into an MCP server.
//
// This is the composition root: it loads configuration, builds the
// catalog, stores, and engine, and registers the tool handlers. No
// engine logic lives here.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/sergei-tigrov/12union/internal/catalog"
	"github.com/sergei-tigrov/12union/internal/config"
	"github.com/sergei-tigrov/12union/internal/engine"
	"github.com/sergei-tigrov/12union/internal/prompts"
	"github.com/sergei-tigrov/12union/internal/resources"
	"github.com/sergei-tigrov/12union/internal/results"
	"github.com/sergei-tigrov/12union/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all assessment tools
// registered.
//
// The returned cleanup function closes the result archive's database
// connection and must be called on shutdown (typically via defer). It
// is always non-nil and safe to call even when the archive is
// disabled.
func New(logger *zap.Logger) (*server.MCPServer, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, noop, err
	}

	bank, err := catalog.Load()
	if err != nil {
		return nil, noop, fmt.Errorf("loading question catalog: %w", err)
	}

	// Live sessions are transient by definition; completed results go
	// to the SQLite archive when one is configured.
	cleanup := noop
	var resultStore engine.ResultStore = engine.NewMemoryResultStore()
	if cfg.ArchivePath != "" {
		archive, err := results.Open(cfg.ArchivePath)
		if err != nil {
			return nil, noop, fmt.Errorf("opening result archive: %w", err)
		}
		cleanup = func() {
			if err := archive.Close(); err != nil {
				logger.Warn("closing result archive", zap.Error(err))
			}
		}
		resultStore = archive
		logger.Info("result archive enabled", zap.String("path", cfg.ArchivePath))
	}

	eng := engine.New(bank, engine.Policies{
		Selector:   cfg.SelectorPolicy(),
		Validation: cfg.ValidationPolicy(),
		Scoring:    cfg.ScoringPolicy(),
	}, engine.Stores{
		Sessions: engine.NewMemorySessionStore(),
		Results:  resultStore,
	})

	s := server.NewMCPServer(
		"12union",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	startTool := tools.NewStartTool(eng)
	s.AddTool(startTool.Definition(), startTool.Handle)

	nextTool := tools.NewNextQuestionTool(eng)
	s.AddTool(nextTool.Definition(), nextTool.Handle)

	submitTool := tools.NewSubmitTool(eng)
	s.AddTool(submitTool.Definition(), submitTool.Handle)

	completeTool := tools.NewCompleteTool(eng)
	s.AddTool(completeTool.Definition(), completeTool.Handle)

	resultTool := tools.NewGetResultTool(eng)
	s.AddTool(resultTool.Definition(), resultTool.Handle)

	compareTool := tools.NewCompareTool(eng)
	s.AddTool(compareTool.Definition(), compareTool.Handle)

	statusTool := tools.NewStatusTool(eng)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	listTool := tools.NewListSessionsTool(eng)
	s.AddTool(listTool.Definition(), listTool.Handle)

	deleteTool := tools.NewDeleteSessionTool(eng)
	s.AddTool(deleteTool.Definition(), deleteTool.Handle)

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	resultPrompt := prompts.NewResultPrompt()
	s.AddPrompt(resultPrompt.Definition(), resultPrompt.Handle)

	resourceHandler := resources.NewHandler(bank)
	s.AddResource(resourceHandler.LevelsResource(), resourceHandler.HandleLevels)
	s.AddResource(resourceHandler.CatalogResource(), resourceHandler.HandleCatalog)

	logger.Info("assessment server configured",
		zap.Int("questions", bank.Len()),
		zap.String("version", Version),
	)
	return s, cleanup, nil
}

// noop is the default cleanup when no archive is open.
func noop() {}

// serverInstructions tells the hosting AI how to run an assessment.
func serverInstructions() string {
	return `You have access to 12union, an adaptive relationship-maturity assessment.

## Running an assessment

1. Call union_start_test with the respondent's mode and relationship status.
2. Present each question's options verbatim and let the respondent choose.
3. Submit the chosen option's level with union_submit_answer, including
   response_ms when you can measure it.
4. Repeat union_next_question / union_submit_answer until the server says
   the test is ready, then call union_complete_test.
5. Show the rendered result, including warnings — they are part of the
   result, not an error.

## Rules

- Never answer questions on the respondent's behalf.
- Never skip validation questions; they anchor the reliability score.
- For couples, run two separate sessions and use union_compare_results.`
}
