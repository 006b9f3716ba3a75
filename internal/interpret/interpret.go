// Package interpret turns numeric scores into structured narrative
// results. It is stateless and depends only on the level catalog for
// labels; all texts come from fixed per-zone tables.
package interpret

import (
	"fmt"

	"github.com/sergei-tigrov/12union/internal/catalog"
	"github.com/sergei-tigrov/12union/internal/validation"
)

// SignificantGap is the level distance at which a pair difference is
// reported as significant.
const SignificantGap = 2.0

// Interpretation is the narrative result for one respondent.
type Interpretation struct {
	Zone             catalog.Zone      `json:"zone"`
	PersonalInfo     catalog.LevelInfo `json:"personal_info"`
	RelationshipInfo catalog.LevelInfo `json:"relationship_info"`
	Headline         string            `json:"headline"`
	Traits           []string          `json:"traits"`
	Growth           []string          `json:"growth"`
	ReliabilityNote  string            `json:"reliability_note"`
}

// zoneNarrative holds the fixed texts for one zone band.
type zoneNarrative struct {
	headline string
	traits   []string
	growth   []string
}

var zoneNarratives = map[catalog.Zone]zoneNarrative{
	catalog.ZoneDestructive: {
		headline: "Relationships are currently a battlefield: connection happens through force, fear, or flight.",
		traits: []string{
			"Conflict escalates quickly into attack or withdrawal",
			"Trust is conditional and constantly re-tested",
			"Control substitutes for closeness",
		},
		growth: []string{
			"Practice naming one feeling before reacting to it",
			"Find a single relationship where keeping your word is non-negotiable",
			"Notice the moment blame starts and pause there",
		},
	},
	catalog.ZoneEmotional: {
		headline: "Connection runs on emotion: love is vivid, consuming, and still entangled with need.",
		traits: []string{
			"Closeness and the fear of losing it arrive together",
			"Approval of loved ones strongly shapes self-worth",
			"Giving often carries an unspoken expectation of return",
		},
		growth: []string{
			"Say no once a week without apologizing for it",
			"Separate what you feel from what you decide to do",
			"Let one act of giving stay secret and unrewarded",
		},
	},
	catalog.ZoneMature: {
		headline: "The relationship is a partnership of two whole people who choose each other daily.",
		traits: []string{
			"Conflict turns into inquiry rather than warfare",
			"Boundaries hold without breaking the connection",
			"Responsibility for one's own state comes first",
		},
		growth: []string{
			"Look for the places where scorekeeping quietly survives",
			"Bring the partnership's attention to something beyond itself",
			"Let yourself be supported as readily as you support",
		},
	},
	catalog.ZoneTranscendent: {
		headline: "The bond serves something larger than the two people in it.",
		traits: []string{
			"Love persists independent of circumstance",
			"Presence, gratitude, and service arise without effort",
			"The couple functions as a creative unit, not a trade",
		},
		growth: []string{
			"Keep the practice that brought you here; heights erode quietly",
			"Stay translatable to people in earlier territory",
			"Watch for subtle pride in having arrived",
		},
	},
}

// Interpret maps the adjusted levels and validation outcome to a
// structured narrative. The zone is derived from the personal level.
func Interpret(personal, relationship float64, val validation.Result) Interpretation {
	zone := catalog.ZoneForLevel(personal)
	narrative := zoneNarratives[zone]
	personalInfo := catalog.NearestLevel(personal)
	relationshipInfo := catalog.NearestLevel(relationship)

	return Interpretation{
		Zone:             zone,
		PersonalInfo:     personalInfo,
		RelationshipInfo: relationshipInfo,
		Headline:         narrative.headline,
		Traits:           narrative.traits,
		Growth:           narrative.growth,
		ReliabilityNote:  validation.ReliabilityMessage(val.ReliabilityScore),
	}
}

// PairComparison summarizes the gap between two independently computed
// personal levels.
type PairComparison struct {
	LevelA        float64 `json:"level_a"`
	LevelB        float64 `json:"level_b"`
	Gap           float64 `json:"gap"`
	Direction     string  `json:"direction"` // "a_higher" | "b_higher" | "aligned"
	Significant   bool    `json:"significant"`
	Compatibility float64 `json:"compatibility"`
	Summary       string  `json:"summary"`
}

// ComparePair builds the pairwise comparison for two personal levels.
// compatibility is the precomputed [0,1] alignment measure.
func ComparePair(levelA, levelB, compatibility float64) PairComparison {
	gap := levelA - levelB
	if gap < 0 {
		gap = -gap
	}
	comparison := PairComparison{
		LevelA:        levelA,
		LevelB:        levelB,
		Gap:           gap,
		Significant:   gap >= SignificantGap,
		Compatibility: compatibility,
	}

	switch {
	case levelA > levelB:
		comparison.Direction = "a_higher"
	case levelB > levelA:
		comparison.Direction = "b_higher"
	default:
		comparison.Direction = "aligned"
	}

	zoneA := catalog.ZoneForLevel(levelA)
	zoneB := catalog.ZoneForLevel(levelB)
	switch {
	case !comparison.Significant:
		comparison.Summary = fmt.Sprintf(
			"You are close on the scale (gap %.1f). Growth from here is a shared direction rather than a catch-up.", gap)
	case zoneA == zoneB:
		comparison.Summary = fmt.Sprintf(
			"A significant gap of %.1f levels inside the %s zone: the same territory, walked at different depths.", gap, zoneA)
	default:
		comparison.Summary = fmt.Sprintf(
			"A significant gap of %.1f levels across zones (%s vs %s): expect different languages for the same events.",
			gap, zoneA, zoneB)
	}
	return comparison
}
