package seed

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/growthpath/backend/internal/domain"
	"github.com/growthpath/backend/internal/reference"
)

type fakeStore struct {
	seeded       bool
	cleared      bool
	levels       []*domain.CareerLevel
	areas        []*domain.CompetencyAreaDetail
	skills       []*domain.Skill
	competencies []*domain.Competency
}

func (f *fakeStore) CareerLevelsExist() (bool, error) { return f.seeded, nil }

func (f *fakeStore) ClearCareerData() error {
	f.cleared = true
	f.levels, f.areas, f.skills = nil, nil, nil
	return nil
}

func (f *fakeStore) CreateCareerFramework(levels []*domain.CareerLevel, areas []*domain.CompetencyAreaDetail) error {
	f.levels, f.areas = levels, areas
	return nil
}

func (f *fakeStore) CreateSkills(skills []*domain.Skill) error {
	f.skills = skills
	return nil
}

func (f *fakeStore) CountCompetencies() (int, error) { return len(f.competencies), nil }

func (f *fakeStore) CreateCompetency(c *domain.Competency) error {
	f.competencies = append(f.competencies, c)
	return nil
}

type fakeLoader struct {
	framework *reference.CareerFramework
	tech      *reference.TechMasterData
	skillsets *reference.Skillsets
}

func (l *fakeLoader) LoadCareerFramework() (*reference.CareerFramework, error) {
	return l.framework, nil
}
func (l *fakeLoader) LoadTechMasterData() (*reference.TechMasterData, error) { return l.tech, nil }
func (l *fakeLoader) LoadSkillsets() (*reference.Skillsets, error)           { return l.skillsets, nil }

func newFakeLoader(t *testing.T) *fakeLoader {
	t.Helper()

	l := &fakeLoader{
		framework: &reference.CareerFramework{},
		tech:      &reference.TechMasterData{},
		skillsets: &reference.Skillsets{},
	}
	docs := []struct {
		raw string
		v   any
	}{
		{`{
			"career_tracks": {
				"software_engineer": {"name": "SE", "levels": [{"level": 1, "title": "Junior", "pay_class": "PC06"}, {"level": 2, "title": "Engineer", "pay_class": "PC07"}]},
				"software_architect": {"name": "SA", "levels": [{"level": 5, "title": "Architect", "pay_class": "PC09"}]}
			},
			"competency_areas": {
				"quality": {"name": "Quality", "levels": {"PC06": {"expectations": "q6"}, "PC07": {"expectations": "q7", "scope": "team"}}},
				"design": {"name": "Design", "levels": {"PC07": {"expectations": "d7"}}}
			},
			"architect_competencies": {
				"system_design": {
					"name": "System Design",
					"architect": {"pay_class": "PC09", "expectations": "a9"},
					"senior_architect": {"pay_class": "PC10", "expectations": "a10"}
				},
				"governance": {"name": "Governance", "shared": {"expectations": "shared"}}
			}
		}`, l.framework},
		{`{"flat": [{"parent_skill": "Cloud", "sub_skill": "AWS", "full_name": "Cloud - AWS"}]}`, l.tech},
		{`{"skillsets": [{"name": "SQL", "category": "Advanced", "roles": ["Analyst", "Engineer"]}, {"name": "Excel"}]}`, l.skillsets},
	}
	for _, d := range docs {
		if err := json.Unmarshal([]byte(d.raw), d.v); err != nil {
			t.Fatalf("decode fixture: %v", err)
		}
	}
	return l
}

func TestBuildCareerFramework(t *testing.T) {
	levels, areas := BuildCareerFramework(newFakeLoader(t).framework)

	if len(levels) != 3 || levels[0].Track != "software_engineer" || levels[2].Track != "software_architect" {
		t.Fatalf("levels = %+v", levels)
	}

	keys := make([]string, 0, len(areas))
	for _, a := range areas {
		keys = append(keys, a.AreaKey)
	}
	want := []string{"quality", "design", "architect_system_design", "architect_governance"}
	if len(keys) != len(want) {
		t.Fatalf("area keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("area keys = %v, want %v", keys, want)
		}
	}

	if e := areas[0].Expectations; len(e) != 2 || e[1].PayClass != "PC07" || e[1].Scope != "team" {
		t.Errorf("quality expectations = %+v", e)
	}
	if e := areas[2].Expectations; len(e) != 2 || e[0].PayClass != "PC09" || e[1].PayClass != "PC10" {
		t.Errorf("system design expectations = %+v", e)
	}
	if e := areas[3].Expectations; len(e) != 2 || e[0].PayClass != "PC09" || e[1].PayClass != "PC10" || e[1].Expectations != "shared" {
		t.Errorf("governance expectations = %+v", e)
	}
}

func TestBuildSkills(t *testing.T) {
	l := newFakeLoader(t)
	skills := BuildSkills(l.tech, l.skillsets)

	if len(skills) != 3 {
		t.Fatalf("skills = %d, want 3", len(skills))
	}
	if s := skills[0]; s.Name != "AWS" || s.ParentCategory != "Cloud" || s.Description != "Cloud - AWS" || s.IsDataSkill {
		t.Errorf("tech skill = %+v", s)
	}
	if s := skills[1]; s.ParentCategory != "Data" || s.Category != "Advanced" || s.Roles != "Analyst, Engineer" || !s.IsDataSkill {
		t.Errorf("data skill = %+v", s)
	}
	if s := skills[2]; s.Category != domain.SkillCategoryStandard {
		t.Errorf("default category = %q, want Standard", s.Category)
	}
}

func TestSeedReferenceDataSkipsUnlessForced(t *testing.T) {
	store := &fakeStore{seeded: true}
	seeder := NewSeeder(store, newFakeLoader(t))

	if err := seeder.SeedReferenceData(false); !errors.Is(err, ErrAlreadySeeded) {
		t.Fatalf("error = %v, want ErrAlreadySeeded", err)
	}
	if store.cleared || store.levels != nil {
		t.Fatalf("store was modified without force")
	}

	if err := seeder.SeedReferenceData(true); err != nil {
		t.Fatalf("forced seed error: %v", err)
	}
	if !store.cleared || len(store.levels) != 3 || len(store.skills) != 3 {
		t.Fatalf("forced seed: cleared=%v levels=%d skills=%d", store.cleared, len(store.levels), len(store.skills))
	}
}

func TestSeedSampleCompetenciesOnlyWhenEmpty(t *testing.T) {
	store := &fakeStore{}
	seeder := NewSeeder(store, newFakeLoader(t))

	n, err := seeder.SeedSampleCompetencies()
	if err != nil {
		t.Fatalf("SeedSampleCompetencies error: %v", err)
	}
	if n != len(SampleCompetencies()) || len(store.competencies) != n {
		t.Fatalf("seeded %d, stored %d", n, len(store.competencies))
	}

	n, err = seeder.SeedSampleCompetencies()
	if err != nil || n != 0 {
		t.Fatalf("second run = %d, %v, want 0, nil", n, err)
	}
}
