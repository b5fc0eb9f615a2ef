package domain

import (
	"testing"
	"time"
)

func TestCurrentAssessments(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	history := []*Assessment{
		{ID: 1, UserID: 1, CompetencyID: 2, ProficiencyLevel: ProficiencyBeginner, AssessedAt: day(1)},
		{ID: 2, UserID: 1, CompetencyID: 2, ProficiencyLevel: ProficiencyAdvanced, AssessedAt: day(5)},
		{ID: 3, UserID: 1, CompetencyID: 1, ProficiencyLevel: ProficiencyIntermediate, AssessedAt: day(3)},
		// 同一时间的两条记录，id 较大的胜出
		{ID: 5, UserID: 1, CompetencyID: 3, ProficiencyLevel: ProficiencyExpert, AssessedAt: day(2)},
		{ID: 4, UserID: 1, CompetencyID: 3, ProficiencyLevel: ProficiencyBeginner, AssessedAt: day(2)},
	}

	got := CurrentAssessments(history)
	if len(got) != 3 {
		t.Fatalf("expected 3 current assessments, got %d", len(got))
	}

	wantIDs := []int64{3, 2, 5}
	for i, a := range got {
		if a.ID != wantIDs[i] {
			t.Errorf("position %d: expected assessment %d, got %d", i, wantIDs[i], a.ID)
		}
	}
}

func TestCurrentAssessmentsEmpty(t *testing.T) {
	if got := CurrentAssessments(nil); len(got) != 0 {
		t.Fatalf("expected no assessments, got %d", len(got))
	}
}

func TestProficiencyLevel(t *testing.T) {
	if ProficiencyLevel(0).Valid() || ProficiencyLevel(5).Valid() {
		t.Error("levels outside 1..4 must be invalid")
	}
	for _, l := range ProficiencyLevels {
		if !l.Valid() {
			t.Errorf("level %d should be valid", l)
		}
	}
	if ProficiencyExpert.Name() != "EXPERT" || ProficiencyLevel(9).Name() != "UNKNOWN" {
		t.Error("unexpected level names")
	}
}

func TestPlanProgress(t *testing.T) {
	plan := &DevelopmentPlan{Objectives: []*LearningObjective{
		{Status: ObjectiveCompleted},
		{Status: ObjectiveInProgress},
		{Status: ObjectiveNotStarted},
	}}

	p := plan.Progress()
	if p.Total != 3 || p.Completed != 1 || p.InProgress != 1 || p.NotStarted != 1 {
		t.Fatalf("unexpected progress: %+v", p)
	}
	if pct := p.CompletionPercentage(); pct != 33.3 {
		t.Errorf("expected 33.3, got %v", pct)
	}

	if pct := (&DevelopmentPlan{}).Progress().CompletionPercentage(); pct != 0 {
		t.Errorf("empty plan should be 0%%, got %v", pct)
	}
}
