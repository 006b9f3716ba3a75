// 12union: adaptive relationship-maturity assessment MCP server.
//
// The server places respondents on a 12-level development scale across
// a personal and a relationship dimension, with answer-reliability
// validation. It speaks MCP over stdio so any AI tool can drive an
// assessment conversationally.
//
// Usage:
//
//	12union serve       # Start MCP server (stdio transport)
//	12union simulate    # Run an automated assessment locally
//	12union update      # Self-update to the latest release
//	12union version     # Print version
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sergei-tigrov/12union/internal/catalog"
	"github.com/sergei-tigrov/12union/internal/config"
	"github.com/sergei-tigrov/12union/internal/engine"
	unionserver "github.com/sergei-tigrov/12union/internal/server"
	"github.com/sergei-tigrov/12union/internal/simulate"
	"github.com/sergei-tigrov/12union/internal/updater"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "12union",
		Short:         "Adaptive relationship-maturity assessment MCP server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newSimulateCmd())
	root.AddCommand(newUpdateCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Logs go to stderr so they don't interfere with MCP's
			// stdio transport on stdout.
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			s, cleanup, err := unionserver.New(logger)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			defer cleanup()

			// Best-effort version check; notice goes to stderr so it
			// never touches the stdio transport.
			go checkForUpdates(logger)

			// Graceful shutdown on interrupt.
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigCh
				cleanup()
				os.Exit(0)
			}()

			return mcpserver.ServeStdio(s)
		},
	}
}

func newSimulateCmd() *cobra.Command {
	var (
		profile string
		mode    string
		status  string
		seed    int64
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run an automated assessment with a synthetic respondent",
		RunE: func(cmd *cobra.Command, args []string) error {
			level := zap.InfoLevel
			if verbose {
				level = zap.DebugLevel
			}
			logger, err := newLoggerAt(level)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			bank, err := catalog.Load()
			if err != nil {
				return fmt.Errorf("loading question catalog: %w", err)
			}
			if err := catalog.ValidateMode(catalog.Mode(mode)); err != nil {
				return err
			}
			if err := catalog.ValidateStatus(catalog.RelationshipStatus(status)); err != nil {
				return err
			}

			eng := engine.New(bank, engine.Policies{
				Selector:   cfg.SelectorPolicy(),
				Validation: cfg.ValidationPolicy(),
				Scoring:    cfg.ScoringPolicy(),
			}, engine.Stores{
				Sessions: engine.NewMemorySessionStore(),
				Results:  engine.NewMemoryResultStore(),
			})

			sim := simulate.New(eng, bank, seed, logger)
			result, err := sim.Run(simulate.Profile(profile), catalog.Mode(mode), catalog.RelationshipStatus(status))
			if err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
	cmd.Flags().StringVar(&profile, "profile", string(simulate.ProfileGrounded), "answer profile: grounded, low, aspirational, rushed, chaotic")
	cmd.Flags().StringVar(&mode, "mode", string(catalog.ModeSelf), "assessment mode: self, partner_assessment, potential, pair_discussion")
	cmd.Flags().StringVar(&status, "status", string(catalog.StatusCommitted), "relationship status: single, dating, committed, married, separated")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for reproducible runs")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log every simulated answer")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update 12union to the latest release",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.ErrOrStderr()
			fmt.Fprintln(out, "Checking for updates...")

			result := updater.CheckVersion(unionserver.Version)
			if !result.UpdateAvailable {
				fmt.Fprintf(out, "Already at the latest version (v%s)\n", result.CurrentVersion)
				return nil
			}

			fmt.Fprintf(out, "New version available: v%s -> v%s\n", result.CurrentVersion, result.LatestVersion)
			fmt.Fprintln(out, "Downloading...")

			if err := updater.SelfUpdate(unionserver.Version); err != nil {
				fmt.Fprintf(out, "You can download manually from: %s\n", result.ReleaseURL)
				return fmt.Errorf("update failed: %w", err)
			}

			fmt.Fprintf(out, "Updated to v%s. Restart 12union to use the new version.\n", result.LatestVersion)
			return nil
		},
	}
}

// checkForUpdates runs a non-blocking version check during "serve" and
// logs a notice if a newer release exists. Network failures are ignored.
func checkForUpdates(logger *zap.Logger) {
	result := updater.CheckVersion(unionserver.Version)
	if result.UpdateAvailable {
		logger.Info("update available",
			zap.String("current", result.CurrentVersion),
			zap.String("latest", result.LatestVersion),
			zap.String("release", result.ReleaseURL),
		)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "12union v%s\n", unionserver.Version)
		},
	}
}

func newLogger() (*zap.Logger, error) {
	return newLoggerAt(zap.InfoLevel)
}

func newLoggerAt(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}

func printResult(cmd *cobra.Command, result engine.TestResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Personal level:      %.1f\n", result.PersonalLevel)
	fmt.Fprintf(out, "Relationship level:  %.1f\n", result.RelationshipLevel)
	fmt.Fprintf(out, "Reliability:         %.0f%%\n", result.Validation.ReliabilityScore*100)
	if result.Validation.SpiritualBypass {
		fmt.Fprintln(out, "Spiritual bypass:    detected")
	}
	if n := len(result.Validation.Contradictions); n > 0 {
		fmt.Fprintf(out, "Contradictions:      %d\n", n)
	}
	fmt.Fprintf(out, "Headline:            %s\n", result.Interpretation.Headline)
	fmt.Fprintf(out, "Recommendation:      %s\n", result.Recommendation)
}
