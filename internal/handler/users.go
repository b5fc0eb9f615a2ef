package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/growthpath/backend/internal/domain"
	"github.com/growthpath/backend/internal/llm"
	"github.com/growthpath/backend/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

type userBrief struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func newUserBrief(u *domain.User) userBrief {
	return userBrief{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Name     string `json:"name" validate:"required"`
		Role     string `json:"role" validate:"omitempty,oneof=employee manager hr_admin leadership"`
		Password string `json:"password" validate:"required"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.Role == "" {
		req.Role = string(domain.RoleEmployee)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user := &domain.User{
		Email:        req.Email,
		Name:         req.Name,
		Role:         domain.Role(req.Role),
		PasswordHash: string(hash),
	}
	if err := h.store.CreateUser(user); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == repository.ConstraintUsersEmail:
			h.errorResponse(w, r, http.StatusBadRequest, "Email already registered")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "User created", user)
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	req := struct {
		Skip   int    `json:"skip" validate:"min=0"`
		Limit  int    `json:"limit" validate:"min=1,max=1000"`
		Search string `json:"search"`
	}{
		Skip:   skip,
		Limit:  limit,
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	users, total, err := h.store.ListUsers(domain.UserFilter{Skip: req.Skip, Limit: req.Limit, Search: req.Search})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Users retrieved", map[string]any{
		"total": total,
		"skip":  req.Skip,
		"limit": req.Limit,
		"users": users,
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	counts, err := h.store.CountAssessmentsByCategory(user.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	total := 0
	byCategory := make(map[domain.CompetencyCategory]int)
	for _, category := range domain.CompetencyCategories {
		if n := counts[category]; n > 0 {
			byCategory[category] = n
			total += n
		}
	}

	h.successResponse(w, r, "User retrieved", struct {
		userBrief
		SkillsCount      int                               `json:"skills_count"`
		SkillsByCategory map[domain.CompetencyCategory]int `json:"skills_by_category"`
	}{
		userBrief:        newUserBrief(user),
		SkillsCount:      total,
		SkillsByCategory: byCategory,
	})
}

type assessedCompetency struct {
	ID               int64                   `json:"id"`
	Name             string                  `json:"name"`
	Description      string                  `json:"description"`
	ProficiencyLevel domain.ProficiencyLevel `json:"proficiency_level"`
	ProficiencyName  string                  `json:"proficiency_name"`
	AssessedAt       string                  `json:"assessed_at"`
}

type categoryGroup struct {
	Category     domain.CompetencyCategory `json:"category"`
	Competencies []assessedCompetency      `json:"competencies"`
}

// groupAssessments 按类别第一次出现的顺序分组
func groupAssessments(history []*domain.AssessmentDetail) []*categoryGroup {
	groups := make([]*categoryGroup, 0)
	index := make(map[domain.CompetencyCategory]*categoryGroup)
	for _, d := range history {
		g, ok := index[d.Competency.Category]
		if !ok {
			g = &categoryGroup{Category: d.Competency.Category, Competencies: make([]assessedCompetency, 0)}
			index[d.Competency.Category] = g
			groups = append(groups, g)
		}
		g.Competencies = append(g.Competencies, assessedCompetency{
			ID:               d.Competency.ID,
			Name:             d.Competency.Name,
			Description:      d.Competency.Description,
			ProficiencyLevel: d.ProficiencyLevel,
			ProficiencyName:  d.ProficiencyLevel.Name(),
			AssessedAt:       d.AssessedAt.Format(time.RFC3339Nano),
		})
	}
	return groups
}

func (h *Handler) GetUserCompetencies(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	history, err := h.store.GetAssessmentsByUser(user.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	groups := groupAssessments(history)
	byCategory := make(map[domain.CompetencyCategory]int, len(groups))
	for _, g := range groups {
		byCategory[g.Category] = len(g.Competencies)
	}

	h.successResponse(w, r, "User skills retrieved", map[string]any{
		"user":         newUserBrief(user),
		"skills":       groups,
		"total_skills": len(history),
		"by_category":  byCategory,
	})
}

func (h *Handler) GetUsersBySkill(w http.ResponseWriter, r *http.Request) {
	competency := r.Context().Value(CompetencyCtx).(*domain.Competency)

	assessments, err := h.store.GetAssessmentsByCompetency(competency.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	type skilledUser struct {
		ID               int64                   `json:"id"`
		Name             string                  `json:"name"`
		Email            string                  `json:"email"`
		ProficiencyLevel domain.ProficiencyLevel `json:"proficiency_level"`
		ProficiencyName  string                  `json:"proficiency_name"`
		AssessedAt       string                  `json:"assessed_at"`
	}

	users := make([]skilledUser, 0, len(assessments))
	distribution := make(map[string]int, len(domain.ProficiencyLevels))
	for _, level := range domain.ProficiencyLevels {
		distribution[level.Name()] = 0
	}
	for _, ua := range assessments {
		level := ua.Assessment.ProficiencyLevel
		users = append(users, skilledUser{
			ID:               ua.User.ID,
			Name:             ua.User.Name,
			Email:            ua.User.Email,
			ProficiencyLevel: level,
			ProficiencyName:  level.Name(),
			AssessedAt:       ua.Assessment.AssessedAt.Format(time.RFC3339Nano),
		})
		distribution[level.Name()]++
	}

	h.successResponse(w, r, "Users retrieved", map[string]any{
		"competency":               competency,
		"total_users":              len(users),
		"users":                    users,
		"proficiency_distribution": distribution,
	})
}

// AnalyzeUserSkills 把用户的评估记录交给 LLM 生成分析报告
func (h *Handler) AnalyzeUserSkills(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	history, err := h.store.GetAssessmentsByUser(user.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if len(history) == 0 {
		h.errorResponse(w, r, http.StatusBadRequest, "User has no skills to analyze")
		return
	}
	if !h.llm.IsConfigured() {
		h.serviceUnavailable(w, r, "LLM service not configured. Please set LLM_FARM_API_KEY.")
		return
	}

	skills := make([]llm.SkillSummary, 0, len(history))
	for _, d := range history {
		skills = append(skills, llm.SkillSummary{
			Name:        d.Competency.Name,
			Category:    string(d.Competency.Category),
			Proficiency: d.ProficiencyLevel.Name(),
		})
	}

	raw, err := h.llm.ChatCompletion(r.Context(), llm.ChatRequest{
		UserContent:   llm.EmployeeAnalysisPrompt(user.Name, string(user.Role), skills),
		SystemContent: llm.EmployeeAnalysisSystemPrompt,
		MaxTokens:     llm.EmployeeAnalysisMaxTokens,
	})
	if err != nil {
		var statusErr *llm.StatusError
		switch {
		case errors.Is(err, llm.ErrNotConfigured):
			h.serviceUnavailable(w, r, "LLM service not configured. Please set LLM_FARM_API_KEY.")
		case errors.As(err, &statusErr):
			h.operationFailed(w, r, "LLM API error", err)
		default:
			h.operationFailed(w, r, "Analysis failed", err)
		}
		return
	}

	analysis, model, err := llm.ExtractText(raw)
	if err != nil {
		h.operationFailed(w, r, "Analysis failed", err)
		return
	}

	byCategory := make(map[string]int)
	for _, c := range llm.GroupByCategory(skills) {
		byCategory[c.Category] = c.Count
	}

	h.successResponse(w, r, "Skill analysis completed", map[string]any{
		"user":               newUserBrief(user),
		"skills_analyzed":    len(skills),
		"skills_by_category": byCategory,
		"analysis":           analysis,
		"model_used":         model,
	})
}
