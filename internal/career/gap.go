package career

import (
	"fmt"

	"github.com/growthpath/backend/internal/domain"
)

// 计划的固定周期
const (
	PlanHorizonDays    = 180
	EstimatedTimeframe = "6 months"
)

type Gap struct {
	CompetencyAreaID int64  `json:"competency_area_id"`
	Area             string `json:"area"`
	Description      string `json:"description"`
	Current          string `json:"current"`
	Required         string `json:"required"`
	GapSummary       string `json:"gap_summary"`
}

// CalculateGaps 按 areas 的顺序比较两个 pay class 下的期望文本。
// 任意一端缺少期望的能力维度直接跳过。
func CalculateGaps(areas []*domain.CompetencyArea, current, target map[int64]*domain.CompetencyExpectation, currentLevel, targetLevel string) []*Gap {
	gaps := make([]*Gap, 0)
	for _, area := range areas {
		cur, ok := current[area.ID]
		if !ok {
			continue
		}
		tgt, ok := target[area.ID]
		if !ok {
			continue
		}
		if cur.Expectations == tgt.Expectations {
			continue
		}

		gaps = append(gaps, &Gap{
			CompetencyAreaID: area.ID,
			Area:             area.Name,
			Description:      area.Description,
			Current:          cur.Expectations,
			Required:         tgt.Expectations,
			GapSummary:       fmt.Sprintf("Need to progress from '%s' to '%s' level", currentLevel, targetLevel),
		})
	}

	return gaps
}

// PriorityForIndex 前三个差距为 High，接下来三个为 Medium，其余为 Low
func PriorityForIndex(idx int) domain.Priority {
	switch {
	case idx < 3:
		return domain.PriorityHigh
	case idx < 6:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}
