package domain

type CompetencyCategory string

const (
	CategoryTechnical       CompetencyCategory = "technical"
	CategorySoftSkills      CompetencyCategory = "soft_skills"
	CategoryLeadership      CompetencyCategory = "leadership"
	CategoryDomainKnowledge CompetencyCategory = "domain_knowledge"
)

// 顺序与统计接口中的分类输出顺序一致
var CompetencyCategories = []CompetencyCategory{
	CategoryTechnical,
	CategorySoftSkills,
	CategoryLeadership,
	CategoryDomainKnowledge,
}

type Competency struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Category    CompetencyCategory `json:"category"`
}
