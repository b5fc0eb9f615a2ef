package career

import (
	"fmt"
	"time"

	"github.com/growthpath/backend/internal/domain"
)

type Store interface {
	// 按 id 升序返回
	GetAllCompetencyAreas() ([]*domain.CompetencyArea, error)
	// 返回 competency_area_id -> 期望，同一维度有多条时取 id 最小的一条
	GetCompetencyExpectationsByPayClass(payClass string) (map[int64]*domain.CompetencyExpectation, error)
	// 在同一个事务中插入计划及其目标，并回填 id
	CreateDevelopmentPlan(plan *domain.DevelopmentPlan) error
}

type Planner struct {
	store Store
	now   func() time.Time
}

func NewPlanner(store Store) *Planner {
	return &Planner{
		store: store,
		now:   time.Now,
	}
}

func (p *Planner) SkillsGap(currentLevel, targetLevel string) ([]*Gap, error) {
	areas, err := p.store.GetAllCompetencyAreas()
	if err != nil {
		return nil, fmt.Errorf("get competency areas: %w", err)
	}

	current, err := p.store.GetCompetencyExpectationsByPayClass(currentLevel)
	if err != nil {
		return nil, fmt.Errorf("get expectations for %s: %w", currentLevel, err)
	}

	target, err := p.store.GetCompetencyExpectationsByPayClass(targetLevel)
	if err != nil {
		return nil, fmt.Errorf("get expectations for %s: %w", targetLevel, err)
	}

	return CalculateGaps(areas, current, target, currentLevel, targetLevel), nil
}

// GeneratedPlan 中 Gaps[i] 对应 Plan.Objectives[i]
type GeneratedPlan struct {
	Plan *domain.DevelopmentPlan
	Gaps []*Gap
}

// GenerateDevelopmentPlan 即使没有任何差距也会创建一个没有目标的计划
func (p *Planner) GenerateDevelopmentPlan(userID int64, currentLevel, targetLevel string) (*GeneratedPlan, error) {
	gaps, err := p.SkillsGap(currentLevel, targetLevel)
	if err != nil {
		return nil, err
	}

	now := p.now()
	created := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	target := created.AddDate(0, 0, PlanHorizonDays)

	plan := &domain.DevelopmentPlan{
		UserID:       userID,
		CurrentLevel: currentLevel,
		TargetLevel:  targetLevel,
		CreatedDate:  created,
		TargetDate:   &target,
		Status:       domain.PlanStatusActive,
		Objectives:   make([]*domain.LearningObjective, 0, len(gaps)),
	}

	for idx, gap := range gaps {
		areaID := gap.CompetencyAreaID
		plan.Objectives = append(plan.Objectives, &domain.LearningObjective{
			CompetencyAreaID: &areaID,
			CompetencyName:   gap.Area,
			Description:      fmt.Sprintf("Achieve %s level competency in %s", targetLevel, gap.Area),
			Priority:         PriorityForIndex(idx),
			Status:           domain.ObjectiveNotStarted,
		})
	}

	if err := p.store.CreateDevelopmentPlan(plan); err != nil {
		return nil, fmt.Errorf("create development plan: %w", err)
	}

	return &GeneratedPlan{Plan: plan, Gaps: gaps}, nil
}
