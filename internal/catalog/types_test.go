package catalog_test

import (
	"testing"

	"github.com/sergei-tigrov/12union/internal/catalog"
)

func TestZoneForLevel_Bands(t *testing.T) {
	cases := []struct {
		level float64
		want  catalog.Zone
	}{
		{1, catalog.ZoneDestructive},
		{3.9, catalog.ZoneDestructive},
		{4, catalog.ZoneEmotional},
		{6.5, catalog.ZoneEmotional},
		{7, catalog.ZoneMature},
		{9.9, catalog.ZoneMature},
		{10, catalog.ZoneTranscendent},
		{12, catalog.ZoneTranscendent},
	}
	for _, tc := range cases {
		if got := catalog.ZoneForLevel(tc.level); got != tc.want {
			t.Errorf("ZoneForLevel(%g) = %q, want %q", tc.level, got, tc.want)
		}
	}
}

func TestValidateMode_RejectsUnknown(t *testing.T) {
	if err := catalog.ValidateMode(catalog.ModeSelf); err != nil {
		t.Errorf("ValidateMode(self) error: %v", err)
	}
	if err := catalog.ValidateMode("telepathic"); err == nil {
		t.Error("ValidateMode(telepathic) should fail")
	}
}

func TestValidateStatus_RejectsUnknown(t *testing.T) {
	if err := catalog.ValidateStatus(catalog.StatusMarried); err != nil {
		t.Errorf("ValidateStatus(married) error: %v", err)
	}
	if err := catalog.ValidateStatus("divorcing"); err == nil {
		t.Error("ValidateStatus(divorcing) should fail")
	}
}

// --- Mode dispatch ---

func TestForMode_OverrideWins(t *testing.T) {
	bank := catalog.MustLoad()
	q, err := bank.ByID("z1")
	if err != nil {
		t.Fatalf("ByID(z1): %v", err)
	}

	self := q.ForMode(catalog.ModeSelf)
	partner := q.ForMode(catalog.ModePartnerAssessment)

	if self.Text == "" || partner.Text == "" {
		t.Fatal("both modes must resolve to non-empty text")
	}
	if self.Text == partner.Text {
		t.Error("z1 carries a partner_assessment override; texts should differ")
	}
	if len(self.Options) != len(partner.Options) {
		t.Fatalf("option counts differ: %d vs %d", len(self.Options), len(partner.Options))
	}
	for i := range self.Options {
		if self.Options[i].Level != partner.Options[i].Level {
			t.Errorf("option %d level differs across modes: %d vs %d",
				i, self.Options[i].Level, partner.Options[i].Level)
		}
	}
}

func TestForMode_FallsBackToDefaultText(t *testing.T) {
	bank := catalog.MustLoad()
	q, err := bank.ByID("z3")
	if err != nil {
		t.Fatalf("ByID(z3): %v", err)
	}

	// z3 has no per-mode overrides; every mode sees the default text.
	self := q.ForMode(catalog.ModeSelf)
	pair := q.ForMode(catalog.ModePairDiscussion)
	if self.Text != q.Text || pair.Text != q.Text {
		t.Error("modes without overrides should fall back to the default text")
	}
}

// --- Level table ---

func TestLevels_TwelveEntriesInOrder(t *testing.T) {
	levels := catalog.Levels()
	if len(levels) != 12 {
		t.Fatalf("Levels() = %d entries, want 12", len(levels))
	}
	for i, info := range levels {
		if info.Level != i+1 {
			t.Errorf("levels[%d].Level = %d, want %d", i, info.Level, i+1)
		}
		if info.Name == "" {
			t.Errorf("level %d has no name", info.Level)
		}
	}
}

func TestNearestLevel_Rounds(t *testing.T) {
	if got := catalog.NearestLevel(7.4); got.Level != 7 {
		t.Errorf("NearestLevel(7.4).Level = %d, want 7", got.Level)
	}
	if got := catalog.NearestLevel(7.6); got.Level != 8 {
		t.Errorf("NearestLevel(7.6).Level = %d, want 8", got.Level)
	}
	if got := catalog.NearestLevel(-3); got.Level != 1 {
		t.Errorf("NearestLevel(-3).Level = %d, want 1", got.Level)
	}
	if got := catalog.NearestLevel(40); got.Level != 12 {
		t.Errorf("NearestLevel(40).Level = %d, want 12", got.Level)
	}
}
