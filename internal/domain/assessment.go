package domain

import (
	"sort"
	"time"
)

// ProficiencyLevel 是有序的熟练度等级，1 最低 4 最高
type ProficiencyLevel int

const (
	ProficiencyBeginner     ProficiencyLevel = 1
	ProficiencyIntermediate ProficiencyLevel = 2
	ProficiencyAdvanced     ProficiencyLevel = 3
	ProficiencyExpert       ProficiencyLevel = 4
)

var ProficiencyLevels = []ProficiencyLevel{
	ProficiencyBeginner,
	ProficiencyIntermediate,
	ProficiencyAdvanced,
	ProficiencyExpert,
}

func (l ProficiencyLevel) Valid() bool {
	return l >= ProficiencyBeginner && l <= ProficiencyExpert
}

// Name 返回接口中使用的大写名称，例如 EXPERT
func (l ProficiencyLevel) Name() string {
	switch l {
	case ProficiencyBeginner:
		return "BEGINNER"
	case ProficiencyIntermediate:
		return "INTERMEDIATE"
	case ProficiencyAdvanced:
		return "ADVANCED"
	case ProficiencyExpert:
		return "EXPERT"
	default:
		return "UNKNOWN"
	}
}

type Assessment struct {
	ID               int64            `json:"id"`
	UserID           int64            `json:"user_id"`
	CompetencyID     int64            `json:"competency_id"`
	ProficiencyLevel ProficiencyLevel `json:"proficiency_level"`
	AssessedAt       time.Time        `json:"assessed_at"`
}

// AssessmentDetail 是带有能力信息的评估记录
type AssessmentDetail struct {
	Assessment
	Competency Competency `json:"competency"`
}

// CurrentAssessments 从评估历史中为每个 (用户, 能力) 选出最近的一条。
// 时间相同时 id 较大的一条胜出。结果按能力 id 升序排列。
func CurrentAssessments(history []*Assessment) []*Assessment {
	type key struct {
		userID       int64
		competencyID int64
	}

	latest := make(map[key]*Assessment)
	for _, a := range history {
		k := key{a.UserID, a.CompetencyID}
		cur, ok := latest[k]
		if !ok || a.AssessedAt.After(cur.AssessedAt) || (a.AssessedAt.Equal(cur.AssessedAt) && a.ID > cur.ID) {
			latest[k] = a
		}
	}

	out := make([]*Assessment, 0, len(latest))
	for _, a := range latest {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].CompetencyID < out[j].CompetencyID
	})

	return out
}

// UserAssessment 是某项能力下的一条评估及被评估的用户
type UserAssessment struct {
	User       *User
	Assessment *Assessment
}
