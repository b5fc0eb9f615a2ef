package importer

import (
	"testing"

	"github.com/growthpath/backend/internal/domain"
)

func TestMapSkillsetLevel(t *testing.T) {
	tests := []struct {
		value  string
		level  domain.ProficiencyLevel
		mapped bool
	}{
		{"1st", domain.ProficiencyBeginner, true},
		{"2nd", domain.ProficiencyIntermediate, true},
		{"3rd", domain.ProficiencyAdvanced, true},
		{"4th", domain.ProficiencyExpert, true},
		{" 4th ", domain.ProficiencyBeginner, false},
		{"5th", domain.ProficiencyBeginner, false},
		{"", domain.ProficiencyBeginner, false},
		{"2ND", domain.ProficiencyBeginner, false},
	}

	for _, tt := range tests {
		got := MapSkillsetLevel(tt.value)
		if got.Level != tt.level || got.Mapped != tt.mapped || got.Original != tt.value {
			t.Errorf("MapSkillsetLevel(%q) = %+v, want level=%d mapped=%v", tt.value, got, tt.level, tt.mapped)
		}
	}
}

func TestMapCategory(t *testing.T) {
	tests := map[string]domain.CompetencyCategory{
		"Standard":             domain.CategoryTechnical,
		"ADVANCED tools":       domain.CategoryTechnical,
		"People Leadership":    domain.CategoryLeadership,
		"Niche":                domain.CategoryDomainKnowledge,
		"Domain expertise":     domain.CategoryDomainKnowledge,
		"":                     domain.CategoryTechnical,
		"something unexpected": domain.CategoryTechnical,
	}

	for in, want := range tests {
		if got := MapCategory(in); got != want {
			t.Errorf("MapCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDeriveEmail(t *testing.T) {
	if got := DeriveEmail("Mary Ann Smith", "bosch.com"); got != "mary.ann.smith@bosch.com" {
		t.Errorf("DeriveEmail = %q", got)
	}
	if a, b := DeriveEmail("John Doe", "x.com"), DeriveEmail("JOHN DOE", "x.com"); a != b {
		t.Errorf("casing changed derived email: %q vs %q", a, b)
	}
}
