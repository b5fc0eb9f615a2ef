package importer

import (
	"strings"

	"github.com/growthpath/backend/internal/domain"
)

var skillsetLevels = map[string]domain.ProficiencyLevel{
	"1st": domain.ProficiencyBeginner,
	"2nd": domain.ProficiencyIntermediate,
	"3rd": domain.ProficiencyAdvanced,
	"4th": domain.ProficiencyExpert,
}

// LevelMapping 是 Skillset Level 的映射结果，Mapped 为 false 时 Level 为 beginner
type LevelMapping struct {
	Level    domain.ProficiencyLevel
	Mapped   bool
	Original string
}

func MapSkillsetLevel(value string) LevelMapping {
	level, ok := skillsetLevels[value]
	if !ok {
		return LevelMapping{Level: domain.ProficiencyBeginner, Mapped: false, Original: value}
	}
	return LevelMapping{Level: level, Mapped: true, Original: value}
}

// MapCategory 按子串匹配 Skillsets.Category，无法识别时归为 technical
func MapCategory(category string) domain.CompetencyCategory {
	c := strings.ToLower(category)
	switch {
	case strings.Contains(c, "standard") || strings.Contains(c, "advanced"):
		return domain.CategoryTechnical
	case strings.Contains(c, "leadership"):
		return domain.CategoryLeadership
	case strings.Contains(c, "niche") || strings.Contains(c, "domain"):
		return domain.CategoryDomainKnowledge
	default:
		return domain.CategoryTechnical
	}
}

// DeriveEmail 把姓名转为小写并把空格替换为点，大小写不同的姓名会得到同一个邮箱
func DeriveEmail(name, emailDomain string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", ".") + "@" + emailDomain
}
