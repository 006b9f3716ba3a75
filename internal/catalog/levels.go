package catalog

import "fmt"

// LevelInfo is display metadata for one of the 12 levels. It is used
// for labeling only; no scoring logic reads it.
type LevelInfo struct {
	Level int    `json:"level"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
	Zone  Zone   `json:"zone"`
}

// levelTable is the static 12-level catalog.
var levelTable = []LevelInfo{
	{Level: 1, Name: "Destruction", Icon: "🌪", Color: "#7f1d1d", Zone: ZoneDestructive},
	{Level: 2, Name: "Survival", Icon: "🛡", Color: "#b91c1c", Zone: ZoneDestructive},
	{Level: 3, Name: "Control", Icon: "⛓", Color: "#dc2626", Zone: ZoneDestructive},
	{Level: 4, Name: "Dependency", Icon: "🪢", Color: "#d97706", Zone: ZoneEmotional},
	{Level: 5, Name: "Passion", Icon: "🔥", Color: "#f59e0b", Zone: ZoneEmotional},
	{Level: 6, Name: "Exchange", Icon: "⚖️", Color: "#fbbf24", Zone: ZoneEmotional},
	{Level: 7, Name: "Partnership", Icon: "🤝", Color: "#65a30d", Zone: ZoneMature},
	{Level: 8, Name: "Acceptance", Icon: "🌿", Color: "#16a34a", Zone: ZoneMature},
	{Level: 9, Name: "Service", Icon: "🕊", Color: "#059669", Zone: ZoneMature},
	{Level: 10, Name: "Unity", Icon: "🌕", Color: "#0284c7", Zone: ZoneTranscendent},
	{Level: 11, Name: "Co-creation", Icon: "✨", Color: "#7c3aed", Zone: ZoneTranscendent},
	{Level: 12, Name: "Unconditional Love", Icon: "💞", Color: "#a21caf", Zone: ZoneTranscendent},
}

// Levels returns the full 12-level table in order. The returned slice
// is shared; callers must treat it as read-only.
func Levels() []LevelInfo {
	return levelTable
}

// LevelByNumber returns the metadata for a level in [1,12].
func LevelByNumber(level int) (LevelInfo, error) {
	if level < MinLevel || level > MaxLevel {
		return LevelInfo{}, fmt.Errorf("level %d outside [%d,%d]", level, MinLevel, MaxLevel)
	}
	return levelTable[level-1], nil
}

// NearestLevel returns the metadata for the integer level closest to a
// fractional estimate, clamped to the scale bounds.
func NearestLevel(estimate float64) LevelInfo {
	level := int(estimate + 0.5)
	if level < MinLevel {
		level = MinLevel
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return levelTable[level-1]
}
