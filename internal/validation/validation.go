// Package validation computes the answer-reliability signals: response
// speed anomalies, contradictions inside topic groups, per-dimension
// coherence, and spiritual-bypass detection. The four signals combine
// into a composite reliability score in [0,1].
package validation

import (
	"fmt"
	"time"

	"github.com/sergei-tigrov/12union/internal/catalog"
)

// Policy holds the validation thresholds. Construct with DefaultPolicy
// and override fields as needed.
type Policy struct {
	// FastCutoff flags answers to sensitive or critical questions
	// recorded faster than this.
	FastCutoff time.Duration
	// ContradictionTolerance is the maximum level gap allowed between
	// two answers sharing a topic before the pair is flagged.
	ContradictionTolerance int
	// ReliabilityThreshold is the acceptability bar for the composite.
	ReliabilityThreshold float64

	// Bypass fires when validation answers average at or above
	// BypassValidationMin, the running estimate is at or above
	// BypassEstimateMin, and practical refinement answers average at or
	// below BypassPracticalMax.
	BypassValidationMin float64
	BypassEstimateMin   float64
	BypassPracticalMax  float64
	// BypassPenalty is subtracted from the bypass component when the
	// pattern fires.
	BypassPenalty float64

	// Composite weights. They are normalized at evaluation time, so
	// only their ratios matter.
	SpeedWeight         float64
	ContradictionWeight float64
	CoherenceWeight     float64
	BypassWeight        float64
}

// DefaultPolicy returns the documented validation defaults.
func DefaultPolicy() Policy {
	return Policy{
		FastCutoff:             2 * time.Second,
		ContradictionTolerance: 3,
		ReliabilityThreshold:   0.6,
		BypassValidationMin:    9,
		BypassEstimateMin:      8,
		BypassPracticalMax:     5,
		BypassPenalty:          0.6,
		SpeedWeight:            0.2,
		ContradictionWeight:    0.3,
		CoherenceWeight:        0.3,
		BypassWeight:           0.2,
	}
}

// --- Warnings ---

// WarningKind identifies which signal raised a warning.
type WarningKind string

const (
	WarnSpeed         WarningKind = "speed"
	WarnContradiction WarningKind = "contradiction"
	WarnCoherence     WarningKind = "coherence"
	WarnBypass        WarningKind = "bypass"
)

// Severity grades a warning by magnitude.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Warning is one human-readable finding. Warnings are always attached
// to the result, even when the composite passes the threshold.
type Warning struct {
	Kind        WarningKind `json:"kind"`
	Severity    Severity    `json:"severity"`
	Message     string      `json:"message"`
	QuestionIDs []string    `json:"question_ids,omitempty"`
}

// Contradiction is a flagged pair of answers sharing a topic whose
// levels diverge beyond the tolerance.
type Contradiction struct {
	QuestionA string `json:"question_a"`
	QuestionB string `json:"question_b"`
	Topic     string `json:"topic"`
	Gap       int    `json:"gap"`
}

// Result holds the four signals, derived warnings, and the composite.
type Result struct {
	SpeedAnomaly      bool            `json:"speed_anomaly"`
	SpeedAnomalyCount int             `json:"speed_anomaly_count"`
	SpeedQuestionIDs  []string        `json:"speed_question_ids,omitempty"`
	Contradictions    []Contradiction `json:"contradictions,omitempty"`
	CoherenceScore    float64         `json:"coherence_score"`
	SpiritualBypass   bool            `json:"spiritual_bypass"`
	Warnings          []Warning       `json:"warnings,omitempty"`
	ReliabilityScore  float64         `json:"reliability_score"`
	Reliable          bool            `json:"reliable"`
}

// Evaluate computes all four signals over the full answer trace and
// combines them. estimate is the selector's running level estimate at
// completion time.
func Evaluate(bank *catalog.Bank, answers []catalog.Answer, estimate float64, policy Policy) Result {
	result := Result{CoherenceScore: 1}

	speedRate := evaluateSpeed(bank, answers, policy, &result)
	contradictionRate := evaluateContradictions(bank, answers, policy, &result)
	result.CoherenceScore = coherence(bank, answers)
	evaluateBypass(bank, answers, estimate, policy, &result)

	bypassComponent := 1.0
	if result.SpiritualBypass {
		bypassComponent = 1 - policy.BypassPenalty
	}

	totalWeight := policy.SpeedWeight + policy.ContradictionWeight + policy.CoherenceWeight + policy.BypassWeight
	if totalWeight > 0 {
		result.ReliabilityScore = (policy.SpeedWeight*(1-speedRate) +
			policy.ContradictionWeight*(1-contradictionRate) +
			policy.CoherenceWeight*result.CoherenceScore +
			policy.BypassWeight*bypassComponent) / totalWeight
	}
	result.ReliabilityScore = clamp01(result.ReliabilityScore)
	result.Reliable = result.ReliabilityScore >= policy.ReliabilityThreshold

	appendSignalWarnings(&result)
	return result
}

// evaluateSpeed flags fast answers to sensitive or critical questions
// and returns the flagged fraction of eligible answers.
func evaluateSpeed(bank *catalog.Bank, answers []catalog.Answer, policy Policy, result *Result) float64 {
	eligible := 0
	for _, ans := range answers {
		q, err := bank.ByID(ans.QuestionID)
		if err != nil || (!q.Sensitive && q.Priority != catalog.PriorityCritical) {
			continue
		}
		eligible++
		if ans.ResponseTime > 0 && ans.ResponseTime < policy.FastCutoff {
			result.SpeedAnomalyCount++
			result.SpeedQuestionIDs = append(result.SpeedQuestionIDs, ans.QuestionID)
		}
	}
	result.SpeedAnomaly = result.SpeedAnomalyCount > 0
	if eligible == 0 {
		return 0
	}
	return float64(result.SpeedAnomalyCount) / float64(eligible)
}

// evaluateContradictions flags divergent answer pairs within topic
// groups and returns the flagged fraction of comparable pairs.
func evaluateContradictions(bank *catalog.Bank, answers []catalog.Answer, policy Policy, result *Result) float64 {
	byTopic := map[string][]catalog.Answer{}
	for _, ans := range answers {
		q, err := bank.ByID(ans.QuestionID)
		if err != nil {
			continue
		}
		byTopic[q.Topic] = append(byTopic[q.Topic], ans)
	}

	comparable := 0
	for topic, group := range byTopic {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				comparable++
				gap := group[i].Level - group[j].Level
				if gap < 0 {
					gap = -gap
				}
				if gap > policy.ContradictionTolerance {
					result.Contradictions = append(result.Contradictions, Contradiction{
						QuestionA: group[i].QuestionID,
						QuestionB: group[j].QuestionID,
						Topic:     topic,
						Gap:       gap,
					})
				}
			}
		}
	}
	if comparable == 0 {
		return 0
	}
	return float64(len(result.Contradictions)) / float64(comparable)
}

// maxLevelVariance is the largest possible variance of levels on the
// 12-point scale, used to normalize coherence.
const maxLevelVariance = 30.25

// coherence is one minus the normalized level variance, averaged over
// the personal and relationship dimensions that have enough answers.
func coherence(bank *catalog.Bank, answers []catalog.Answer) float64 {
	byDim := map[catalog.Dimension][]float64{}
	for _, ans := range answers {
		q, err := bank.ByID(ans.QuestionID)
		if err != nil {
			continue
		}
		byDim[q.Dimension] = append(byDim[q.Dimension], float64(ans.Level))
	}

	var sum float64
	dims := 0
	for _, levels := range byDim {
		if len(levels) < 2 {
			continue
		}
		sum += 1 - clamp01(variance(levels)/maxLevelVariance)
		dims++
	}
	if dims == 0 {
		return 1
	}
	return sum / float64(dims)
}

func variance(values []float64) float64 {
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}

// evaluateBypass detects aspirational self-report unsupported by
// concrete behavior: high validation answers and a high estimate while
// practical refinement answers stay low.
func evaluateBypass(bank *catalog.Bank, answers []catalog.Answer, estimate float64, policy Policy, result *Result) {
	var validationSum, practicalSum float64
	validationN, practicalN := 0, 0
	for _, ans := range answers {
		q, err := bank.ByID(ans.QuestionID)
		if err != nil {
			continue
		}
		switch {
		case q.Category == catalog.CategoryValidation:
			validationSum += float64(ans.Level)
			validationN++
		case q.Category == catalog.CategoryRefinement && q.Practical:
			practicalSum += float64(ans.Level)
			practicalN++
		}
	}
	if validationN == 0 || practicalN == 0 {
		return
	}
	result.SpiritualBypass = validationSum/float64(validationN) >= policy.BypassValidationMin &&
		estimate >= policy.BypassEstimateMin &&
		practicalSum/float64(practicalN) <= policy.BypassPracticalMax
}

// appendSignalWarnings emits one warning per triggered signal, with
// severity escalating by magnitude.
func appendSignalWarnings(result *Result) {
	if result.SpeedAnomalyCount > 0 {
		severity := SeverityLow
		switch {
		case result.SpeedAnomalyCount >= 4:
			severity = SeverityHigh
		case result.SpeedAnomalyCount >= 2:
			severity = SeverityMedium
		}
		result.Warnings = append(result.Warnings, Warning{
			Kind:     WarnSpeed,
			Severity: severity,
			Message: fmt.Sprintf("%d answer(s) to sensitive questions came faster than a considered response allows",
				result.SpeedAnomalyCount),
			QuestionIDs: result.SpeedQuestionIDs,
		})
	}

	if n := len(result.Contradictions); n > 0 {
		severity := SeverityLow
		switch {
		case n >= 3:
			severity = SeverityHigh
		case n >= 2:
			severity = SeverityMedium
		}
		var ids []string
		for _, c := range result.Contradictions {
			ids = append(ids, c.QuestionA, c.QuestionB)
		}
		result.Warnings = append(result.Warnings, Warning{
			Kind:        WarnContradiction,
			Severity:    severity,
			Message:     fmt.Sprintf("%d pair(s) of answers on the same topic diverge beyond tolerance", n),
			QuestionIDs: ids,
		})
	}

	if result.CoherenceScore < 0.7 {
		severity := SeverityLow
		switch {
		case result.CoherenceScore < 0.3:
			severity = SeverityHigh
		case result.CoherenceScore < 0.5:
			severity = SeverityMedium
		}
		result.Warnings = append(result.Warnings, Warning{
			Kind:     WarnCoherence,
			Severity: severity,
			Message:  fmt.Sprintf("answers scatter widely across levels (coherence %.2f)", result.CoherenceScore),
		})
	}

	if result.SpiritualBypass {
		result.Warnings = append(result.Warnings, Warning{
			Kind:     WarnBypass,
			Severity: SeverityHigh,
			Message:  "high self-reported levels are not supported by answers about concrete behavior",
		})
	}
}

// ReliabilityMessage maps the composite score into a display band.
func ReliabilityMessage(score float64) string {
	switch {
	case score >= 0.8:
		return "High reliability: the answers look consistent and considered."
	case score >= 0.6:
		return "Moderate reliability: the result is usable, with some noise in the answers."
	case score >= 0.4:
		return "Low reliability: treat the result as a rough orientation only."
	default:
		return "Very low reliability: the answers contradict each other too much to place you."
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
