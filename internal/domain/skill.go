package domain

import "time"

// 技能目录中的分类
const (
	SkillCategoryStandard = "Standard"
	SkillCategoryAdvanced = "Advanced"
	SkillCategoryNiche    = "Niche"
	SkillCategoryInactive = "Inactive"
)

// 用户技能的熟练度以字符串存储
var SkillProficiencyLevels = []string{"beginner", "intermediate", "advanced", "expert"}

type SkillType string

const (
	SkillTypeAll  SkillType = "all"
	SkillTypeData SkillType = "data"
	SkillTypeTech SkillType = "tech"
)

type Skill struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	ParentCategory string `json:"category"`
	Description    string `json:"description"`
	Category       string `json:"skill_category"`
	Roles          string `json:"roles"`
	IsDataSkill    bool   `json:"is_data_skill"`
}

type SkillFilter struct {
	Type           SkillType
	ParentCategory string
	Search         string
}

type UserSkill struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	SkillID          int64      `json:"skill_id"`
	ProficiencyLevel string     `json:"proficiency_level"`
	LastAssessed     *time.Time `json:"last_assessed"`
	Skill            *Skill     `json:"skill,omitempty"`
}

// CategoryCount 是分组统计的一行
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
