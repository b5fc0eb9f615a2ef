package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

const SkillRecommendationSystemPrompt = `You are an expert career development advisor specializing in technology skills.
Your task is to provide personalized skill recommendations based on the user's current skills and career goals.
Provide specific, actionable recommendations with reasoning.`

func SkillRecommendationPrompt(currentSkills []string, targetRole, experienceLevel string) string {
	return fmt.Sprintf(`
I currently have these skills: %s
My target role is: %s
My experience level: %s

Please recommend:
1. Top 5 skills I should focus on developing
2. Skills I already have that are valuable for my target role
3. Learning path priorities (which skills to learn first and why)

Format your response as structured JSON with keys: recommended_skills, valuable_current_skills, learning_path
`, strings.Join(currentSkills, ", "), targetRole, experienceLevel)
}

const SkillGapSystemPrompt = `You are a skills gap analysis expert. Analyze the difference between
current competencies and required competencies, providing actionable insights.`

func SkillGapPrompt(userSkills, requiredSkills []map[string]any) (string, error) {
	current, err := json.Marshal(userSkills)
	if err != nil {
		return "", fmt.Errorf("marshal user skills: %w", err)
	}
	required, err := json.Marshal(requiredSkills)
	if err != nil {
		return "", fmt.Errorf("marshal required skills: %w", err)
	}

	return fmt.Sprintf(`
Current Skills: %s
Required Skills: %s

Analyze the gap and provide:
1. Critical gaps that need immediate attention
2. Partial matches where upskilling is needed
3. Strengths that already meet requirements
4. Estimated timeline to close the gap
5. Recommended learning resources or approaches

Format as structured JSON.
`, current, required), nil
}

const EmployeeAnalysisSystemPrompt = `You are an expert career advisor and skills analyst.
Analyze the employee's current skills and provide actionable insights.
Focus on identifying skill gaps, missing competencies, and career development opportunities.
Provide specific, practical recommendations.`

// EmployeeAnalysisMaxTokens 是员工技能分析的输出上限
const EmployeeAnalysisMaxTokens = 2000

type SkillSummary struct {
	Name        string
	Category    string
	Proficiency string
}

type CategoryCount struct {
	Category string
	Count    int
}

// GroupByCategory 按类别第一次出现的顺序统计技能数量
func GroupByCategory(skills []SkillSummary) []CategoryCount {
	counts := make([]CategoryCount, 0)
	index := make(map[string]int)
	for _, s := range skills {
		i, ok := index[s.Category]
		if !ok {
			i = len(counts)
			index[s.Category] = i
			counts = append(counts, CategoryCount{Category: s.Category})
		}
		counts[i].Count++
	}
	return counts
}

func EmployeeAnalysisPrompt(name, role string, skills []SkillSummary) string {
	var summary strings.Builder
	for i, s := range skills {
		if i > 0 {
			summary.WriteString("\n")
		}
		fmt.Fprintf(&summary, "- %s (%s): %s", s.Name, s.Category, s.Proficiency)
	}

	var categories strings.Builder
	for i, c := range GroupByCategory(skills) {
		if i > 0 {
			categories.WriteString("\n")
		}
		fmt.Fprintf(&categories, "- %s: %d skills", c.Category, c.Count)
	}

	return fmt.Sprintf(`Analyze the following employee profile:

**Employee:** %s
**Role:** %s
**Current Skills (%d total):**

%s

**Skills by Category:**
%s

Please provide:

1. **Skill Gaps Analysis:**
   - What important skills are missing for their role?
   - Which skill categories need strengthening?
   - Are there proficiency level gaps (e.g., too many beginner skills)?

2. **Recommendations:**
   - Top 5 skills to develop next
   - Suggest learning paths or resources
   - Prioritize by impact on career growth

3. **Career Opportunities:**
   - What roles could they pursue with current skills?
   - What additional skills needed for advancement?
   - Suggested career progression path

4. **Strengths:**
   - What are their strongest skill areas?
   - Unique skill combinations they have

Format your response in clear sections with bullet points. Be specific and actionable.`,
		name, role, len(skills), summary.String(), categories.String())
}
