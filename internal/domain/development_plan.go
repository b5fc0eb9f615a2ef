package domain

import (
	"math"
	"time"
)

type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusCompleted PlanStatus = "completed"
	PlanStatusCancelled PlanStatus = "cancelled"
)

type ObjectiveStatus string

const (
	ObjectiveNotStarted ObjectiveStatus = "not_started"
	ObjectiveInProgress ObjectiveStatus = "in_progress"
	ObjectiveCompleted  ObjectiveStatus = "completed"
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

type DevelopmentPlan struct {
	ID           int64                `json:"plan_id"`
	UserID       int64                `json:"user_id"`
	CurrentLevel string               `json:"current_level"`
	TargetLevel  string               `json:"target_level"`
	CreatedDate  time.Time            `json:"created_date"`
	TargetDate   *time.Time           `json:"target_date"`
	Status       PlanStatus           `json:"status"`
	Objectives   []*LearningObjective `json:"objectives"`
}

type LearningObjective struct {
	ID               int64           `json:"id"`
	PlanID           int64           `json:"plan_id"`
	CompetencyAreaID *int64          `json:"competency_area_id"`
	CompetencyName   string          `json:"competency"` // 没有关联能力维度时为空
	Description      string          `json:"description"`
	Priority         Priority        `json:"priority"`
	Status           ObjectiveStatus `json:"status"`
}

// ObjectiveProgress 统计计划中各状态的目标数量
type ObjectiveProgress struct {
	Total      int `json:"total_objectives"`
	Completed  int `json:"completed_objectives"`
	InProgress int `json:"in_progress_objectives"`
	NotStarted int `json:"not_started_objectives"`
}

func (p *DevelopmentPlan) Progress() ObjectiveProgress {
	progress := ObjectiveProgress{Total: len(p.Objectives)}
	for _, obj := range p.Objectives {
		switch obj.Status {
		case ObjectiveCompleted:
			progress.Completed++
		case ObjectiveInProgress:
			progress.InProgress++
		case ObjectiveNotStarted:
			progress.NotStarted++
		}
	}
	return progress
}

// CompletionPercentage 保留一位小数，没有目标时为 0
func (p ObjectiveProgress) CompletionPercentage() float64 {
	if p.Total == 0 {
		return 0
	}
	pct := float64(p.Completed) / float64(p.Total) * 100
	return math.Round(pct*10) / 10
}
