package scoring_test

import (
	"math"
	"testing"

	"github.com/sergei-tigrov/12union/internal/catalog"
	"github.com/sergei-tigrov/12union/internal/scoring"
	"github.com/sergei-tigrov/12union/internal/validation"
)

func testBank(t *testing.T) *catalog.Bank {
	t.Helper()
	return catalog.MustLoad()
}

func ans(questionID string, level int) catalog.Answer {
	return catalog.Answer{QuestionID: questionID, Level: level, Mode: catalog.ModeSelf}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// reliableResult is a validation outcome that triggers no adjustment.
func reliableResult() validation.Result {
	return validation.Result{ReliabilityScore: 1, Reliable: true, CoherenceScore: 1}
}

// --- CalculateLevelScores ---

func TestCalculateLevelScores_WeightedDimensionMeans(t *testing.T) {
	bank := testBank(t)
	// z1 personal critical, z3 personal ordinary, z2 relationship critical.
	answers := []catalog.Answer{
		ans("z1", 4),
		ans("z3", 8),
		ans("z2", 6),
	}

	scores := scoring.CalculateLevelScores(bank, answers, scoring.DefaultPolicy())

	// personal = (4*2 + 8*1) / 3
	if want := 16.0 / 3.0; !almostEqual(scores.PersonalLevel, want) {
		t.Errorf("PersonalLevel = %g, want %g", scores.PersonalLevel, want)
	}
	if !almostEqual(scores.RelationshipLevel, 6) {
		t.Errorf("RelationshipLevel = %g, want 6", scores.RelationshipLevel)
	}
	if !almostEqual(scores.LevelScores[4], 2) {
		t.Errorf("LevelScores[4] = %g, want 2 (critical weight)", scores.LevelScores[4])
	}
	if !almostEqual(scores.LevelScores[8], 1) {
		t.Errorf("LevelScores[8] = %g, want 1", scores.LevelScores[8])
	}
}

func TestCalculateLevelScores_EmptyTraceAtMidpoint(t *testing.T) {
	bank := testBank(t)
	scores := scoring.CalculateLevelScores(bank, nil, scoring.DefaultPolicy())
	if scores.PersonalLevel != 6 || scores.RelationshipLevel != 6 {
		t.Errorf("empty trace levels = %g/%g, want 6/6",
			scores.PersonalLevel, scores.RelationshipLevel)
	}
}

func TestCalculateLevelScores_EmptyDimensionFallsBackToOverall(t *testing.T) {
	bank := testBank(t)
	// Personal answers only.
	answers := []catalog.Answer{ans("z3", 9), ans("z5", 9)}

	scores := scoring.CalculateLevelScores(bank, answers, scoring.DefaultPolicy())
	if !almostEqual(scores.RelationshipLevel, 9) {
		t.Errorf("RelationshipLevel = %g, want overall mean 9", scores.RelationshipLevel)
	}
}

// --- ApplyValidationAdjustments ---

func TestApplyValidationAdjustments_ReliableUnchanged(t *testing.T) {
	p, r := scoring.ApplyValidationAdjustments(9.2, 7.1, reliableResult(), scoring.DefaultPolicy())
	if p != 9.2 || r != 7.1 {
		t.Errorf("reliable levels changed: %g/%g", p, r)
	}
}

func TestApplyValidationAdjustments_UnreliableRegressesToMidpoint(t *testing.T) {
	val := validation.Result{ReliabilityScore: 0.5, Reliable: false}
	p, r := scoring.ApplyValidationAdjustments(10, 2, val, scoring.DefaultPolicy())
	// Half the distance to 6 in both directions.
	if !almostEqual(p, 8) {
		t.Errorf("personal = %g, want 8", p)
	}
	if !almostEqual(r, 4) {
		t.Errorf("relationship = %g, want 4", r)
	}
}

func TestApplyValidationAdjustments_BypassCapsLevels(t *testing.T) {
	val := reliableResult()
	val.SpiritualBypass = true
	p, r := scoring.ApplyValidationAdjustments(11.5, 7, val, scoring.DefaultPolicy())
	if !almostEqual(p, 8.5) {
		t.Errorf("personal = %g, want bypass ceiling 8.5", p)
	}
	if !almostEqual(r, 7) {
		t.Errorf("relationship = %g, want 7 (already under the ceiling)", r)
	}
}

func TestApplyValidationAdjustments_ClampsToScale(t *testing.T) {
	p, r := scoring.ApplyValidationAdjustments(-2, 20, reliableResult(), scoring.DefaultPolicy())
	if p != 1 || r != 12 {
		t.Errorf("clamped levels = %g/%g, want 1/12", p, r)
	}
}

// --- Compatibility ---

func TestCompatibility_IdenticalLevelsMax(t *testing.T) {
	if got := scoring.Compatibility(7, 7, scoring.DefaultPolicy()); got != 1 {
		t.Errorf("Compatibility(7,7) = %g, want 1", got)
	}
}

func TestCompatibility_Symmetric(t *testing.T) {
	policy := scoring.DefaultPolicy()
	if a, b := scoring.Compatibility(3, 9, policy), scoring.Compatibility(9, 3, policy); a != b {
		t.Errorf("asymmetric: %g vs %g", a, b)
	}
}

func TestCompatibility_MaxGapBottomsOut(t *testing.T) {
	if got := scoring.Compatibility(1, 12, scoring.DefaultPolicy()); got != 0 {
		t.Errorf("Compatibility(1,12) = %g, want 0", got)
	}
}

// --- LevelDistribution ---

func TestLevelDistribution_SumsToHundred(t *testing.T) {
	scores := map[int]float64{}
	for level := 1; level <= 12; level++ {
		scores[level] = float64(level) * 0.7
	}

	distribution := scoring.LevelDistribution(scores)
	sum := 0
	for level := 1; level <= 12; level++ {
		sum += distribution[level]
	}
	if sum != 100 {
		t.Errorf("distribution sums to %d, want 100", sum)
	}
}

func TestLevelDistribution_RemainderTiesGoToLowerLevel(t *testing.T) {
	// Three equal buckets: 33.33% each, one leftover point.
	scores := map[int]float64{1: 1, 2: 1, 3: 1}
	distribution := scoring.LevelDistribution(scores)

	if distribution[1] != 34 {
		t.Errorf("distribution[1] = %d, want 34 (tie resolved downward)", distribution[1])
	}
	if distribution[2] != 33 || distribution[3] != 33 {
		t.Errorf("distribution[2,3] = %d,%d, want 33,33", distribution[2], distribution[3])
	}
}

func TestLevelDistribution_AllZeroStaysZero(t *testing.T) {
	distribution := scoring.LevelDistribution(map[int]float64{})
	for level := 1; level <= 12; level++ {
		if distribution[level] != 0 {
			t.Fatalf("distribution[%d] = %d, want 0", level, distribution[level])
		}
	}
}

// --- ReliabilityRecommendation ---

func TestReliabilityRecommendation_BypassDominates(t *testing.T) {
	val := validation.Result{
		SpiritualBypass:   true,
		SpeedAnomalyCount: 5,
		Contradictions:    make([]validation.Contradiction, 4),
	}
	got := scoring.ReliabilityRecommendation(val)
	if want := "Retake the test answering from what you actually do"; len(got) == 0 || got[:len(want)] != want {
		t.Errorf("recommendation = %q, want bypass advice first", got)
	}
}

func TestReliabilityRecommendation_CleanResultNeedsNothing(t *testing.T) {
	val := reliableResult()
	got := scoring.ReliabilityRecommendation(val)
	if got != "The answers look reliable; no correction is needed." {
		t.Errorf("recommendation = %q", got)
	}
}
