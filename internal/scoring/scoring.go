// Package scoring converts a completed answer trace into personal and
// relationship level scores, applies reliability-driven corrections,
// and derives the distribution, compatibility, and recommendation
// outputs.
package scoring

import (
	"math"
	"sort"

	"github.com/sergei-tigrov/12union/internal/catalog"
	"github.com/sergei-tigrov/12union/internal/validation"
)

// Policy holds the scoring constants. Construct with DefaultPolicy and
// override fields as needed.
type Policy struct {
	// CriticalWeight multiplies answers to critical-priority questions.
	CriticalWeight float64
	// RegressionTarget is the neutral midpoint unreliable results
	// regress toward.
	RegressionTarget float64
	// BypassCeiling caps reported levels when the bypass pattern fired.
	BypassCeiling float64
	// MaxGap is the level span at which compatibility bottoms out.
	MaxGap float64
}

// DefaultPolicy returns the documented scoring defaults.
func DefaultPolicy() Policy {
	return Policy{
		CriticalWeight:   2.0,
		RegressionTarget: 6.0,
		BypassCeiling:    8.5,
		MaxGap:           11.0,
	}
}

// Scores is the aggregate placement produced from an answer trace.
// LevelScores is a weighted 12-bucket histogram of support per discrete
// level; it is distinct from the means and feeds distribution reporting.
type Scores struct {
	PersonalLevel     float64         `json:"personal_level"`
	RelationshipLevel float64         `json:"relationship_level"`
	LevelScores       map[int]float64 `json:"level_scores"`
}

// CalculateLevelScores partitions answers by question dimension and
// computes a weighted mean per dimension plus the level histogram.
// Critical-priority questions weigh more than the rest. A dimension
// with no answers falls back to the overall mean, and an empty trace
// sits at the neutral midpoint.
func CalculateLevelScores(bank *catalog.Bank, answers []catalog.Answer, policy Policy) Scores {
	scores := Scores{LevelScores: make(map[int]float64, catalog.MaxLevel)}
	for level := catalog.MinLevel; level <= catalog.MaxLevel; level++ {
		scores.LevelScores[level] = 0
	}

	var sums, weights [3]float64 // personal, relationship, overall
	for _, ans := range answers {
		q, err := bank.ByID(ans.QuestionID)
		if err != nil {
			continue
		}
		w := 1.0
		if q.Priority == catalog.PriorityCritical {
			w = policy.CriticalWeight
		}
		scores.LevelScores[ans.Level] += w

		sums[2] += float64(ans.Level) * w
		weights[2] += w
		if q.Dimension == catalog.DimensionPersonal {
			sums[0] += float64(ans.Level) * w
			weights[0] += w
		} else {
			sums[1] += float64(ans.Level) * w
			weights[1] += w
		}
	}

	overall := policy.RegressionTarget
	if weights[2] > 0 {
		overall = sums[2] / weights[2]
	}
	scores.PersonalLevel = dimensionMean(sums[0], weights[0], overall)
	scores.RelationshipLevel = dimensionMean(sums[1], weights[1], overall)
	return scores
}

func dimensionMean(sum, weight, fallback float64) float64 {
	if weight == 0 {
		return fallback
	}
	return sum / weight
}

// ApplyValidationAdjustments corrects raw levels using the validation
// outcome: unreliable results regress toward the neutral midpoint in
// proportion to the missing reliability, and a spiritual-bypass finding
// caps both levels below the transcendent band regardless of raw score.
func ApplyValidationAdjustments(personal, relationship float64, val validation.Result, policy Policy) (float64, float64) {
	if !val.Reliable {
		pull := 1 - val.ReliabilityScore
		personal += (policy.RegressionTarget - personal) * pull
		relationship += (policy.RegressionTarget - relationship) * pull
	}
	if val.SpiritualBypass {
		personal = math.Min(personal, policy.BypassCeiling)
		relationship = math.Min(relationship, policy.BypassCeiling)
	}
	return clampLevel(personal), clampLevel(relationship)
}

// Compatibility maps the gap between two personal levels onto [0,1]:
// 1 at zero gap, decreasing linearly, 0 at MaxGap or beyond. Symmetric
// in its arguments.
func Compatibility(levelA, levelB float64, policy Policy) float64 {
	gap := math.Abs(levelA - levelB)
	if policy.MaxGap <= 0 {
		return 0
	}
	c := 1 - gap/policy.MaxGap
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// LevelDistribution normalizes the histogram into integer percentages
// that sum to exactly 100, using the largest-remainder method. Ties
// between equal remainders go to the lower level. An all-zero
// histogram yields all zeros.
func LevelDistribution(levelScores map[int]float64) map[int]int {
	distribution := make(map[int]int, catalog.MaxLevel)
	var total float64
	for level := catalog.MinLevel; level <= catalog.MaxLevel; level++ {
		distribution[level] = 0
		total += levelScores[level]
	}
	if total <= 0 {
		return distribution
	}

	type share struct {
		level     int
		remainder float64
	}
	shares := make([]share, 0, catalog.MaxLevel)
	allocated := 0
	for level := catalog.MinLevel; level <= catalog.MaxLevel; level++ {
		exact := levelScores[level] / total * 100
		floor := int(exact)
		distribution[level] = floor
		allocated += floor
		shares = append(shares, share{level: level, remainder: exact - float64(floor)})
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].remainder != shares[j].remainder {
			return shares[i].remainder > shares[j].remainder
		}
		return shares[i].level < shares[j].level
	})
	for i := 0; i < 100-allocated && i < len(shares); i++ {
		distribution[shares[i].level]++
	}
	return distribution
}

// ReliabilityRecommendation selects advice from a fixed decision table
// keyed by the dominant validation signal.
func ReliabilityRecommendation(val validation.Result) string {
	switch {
	case val.SpiritualBypass:
		return "Retake the test answering from what you actually do day to day, not from where you aspire to be."
	case len(val.Contradictions) >= 2:
		return "Resolve the contradictory answers: several questions on the same topic received very different levels."
	case val.SpeedAnomalyCount >= 2:
		return "Reduce response speed: sensitive questions deserve a considered answer rather than a reflex."
	case val.CoherenceScore < 0.5:
		return "Answer from one consistent perspective: the levels scatter too widely to form a clear picture."
	case !val.Reliable:
		return "Retake the test in a calm moment; the combined signals leave the result uncertain."
	default:
		return "The answers look reliable; no correction is needed."
	}
}

func clampLevel(v float64) float64 {
	if v < catalog.MinLevel {
		return catalog.MinLevel
	}
	if v > catalog.MaxLevel {
		return catalog.MaxLevel
	}
	return v
}
