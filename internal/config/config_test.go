package config_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sergei-tigrov/12union/internal/catalog"
	"github.com/sergei-tigrov/12union/internal/config"
)

func TestLoad_DefaultsMatchDocumentedValues(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("UNION_ZONING_EXIT", "4")
	t.Setenv("UNION_FAST_CUTOFF", "1500ms")
	t.Setenv("UNION_BYPASS_CEILING", "9.0")
	t.Setenv("UNION_ARCHIVE_PATH", "/tmp/union/results.db")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ZoningExit != 4 {
		t.Errorf("ZoningExit = %d, want 4", cfg.ZoningExit)
	}
	if cfg.FastCutoff != 1500*time.Millisecond {
		t.Errorf("FastCutoff = %v, want 1.5s", cfg.FastCutoff)
	}
	if cfg.BypassCeiling != 9.0 {
		t.Errorf("BypassCeiling = %g, want 9", cfg.BypassCeiling)
	}
	if cfg.ArchivePath != "/tmp/union/results.db" {
		t.Errorf("ArchivePath = %q", cfg.ArchivePath)
	}
	// Untouched fields keep their defaults.
	if cfg.RefinementExit != 10 {
		t.Errorf("RefinementExit = %d, want default 10", cfg.RefinementExit)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("UNION_ZONING_EXIT", "0")
	if _, err := config.Load(); err == nil {
		t.Fatal("zoning exit 0 should fail validation")
	}
}

func TestLoad_RejectsZoningExitAboveCatalog(t *testing.T) {
	t.Setenv("UNION_ZONING_EXIT", "7")
	if _, err := config.Load(); err == nil {
		t.Fatalf("zoning exit above the %d catalog zoning questions should fail validation", catalog.ZoningCount)
	}
}

func TestLoad_RejectsEarlyMinAnswersAboveRefinementExit(t *testing.T) {
	t.Setenv("UNION_EARLY_MIN_ANSWERS", "11")
	if _, err := config.Load(); err == nil {
		t.Fatal("early minimum above the refinement exit count should fail validation")
	}
}

func TestLoad_RejectsThresholdOutOfRange(t *testing.T) {
	t.Setenv("UNION_RELIABILITY_THRESHOLD", "1.5")
	if _, err := config.Load(); err == nil {
		t.Fatal("reliability threshold above 1 should fail validation")
	}
}

func TestPolicyMappers_CarryOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.RefinementExit = 8
	cfg.ContradictionTolerance = 2
	cfg.CriticalWeight = 3

	if got := cfg.SelectorPolicy().RefinementExit; got != 8 {
		t.Errorf("SelectorPolicy().RefinementExit = %d, want 8", got)
	}
	if got := cfg.ValidationPolicy().ContradictionTolerance; got != 2 {
		t.Errorf("ValidationPolicy().ContradictionTolerance = %d, want 2", got)
	}
	if got := cfg.ScoringPolicy().CriticalWeight; got != 3.0 {
		t.Errorf("ScoringPolicy().CriticalWeight = %g, want 3", got)
	}
}
