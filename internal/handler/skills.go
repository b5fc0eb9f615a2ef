package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/growthpath/backend/internal/domain"
	"github.com/growthpath/backend/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
)

// 各 pay class 推荐学习的技能分类，未列出的 pay class 只推荐 Standard
var recommendedSkillCategories = map[string][]string{
	"PC06": {domain.SkillCategoryStandard},
	"PC07": {domain.SkillCategoryStandard},
	"PC08": {domain.SkillCategoryStandard, domain.SkillCategoryAdvanced},
	"PC09": {domain.SkillCategoryStandard, domain.SkillCategoryAdvanced, domain.SkillCategoryNiche},
	"PC10": {domain.SkillCategoryStandard, domain.SkillCategoryAdvanced, domain.SkillCategoryNiche},
}

func RecommendedSkillCategories(payClass string) []string {
	if categories, ok := recommendedSkillCategories[payClass]; ok {
		return categories
	}
	return []string{domain.SkillCategoryStandard}
}

func (h *Handler) GetSkillsCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// 无法识别的 skill_type 按 all 处理
	skillType := domain.SkillType(q.Get("skill_type"))
	if skillType != domain.SkillTypeData && skillType != domain.SkillTypeTech {
		skillType = domain.SkillTypeAll
	}

	skills, err := h.store.GetSkills(domain.SkillFilter{
		Type:           skillType,
		ParentCategory: q.Get("category"),
		Search:         strings.TrimSpace(q.Get("search")),
	})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Skills retrieved", map[string]any{
		"skills": skills,
		"total":  len(skills),
	})
}

func (h *Handler) GetSkillCategories(w http.ResponseWriter, r *http.Request) {
	parents, categories, err := h.store.GetSkillCategoryCounts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Skill categories retrieved", map[string]any{
		"parent_categories": parents,
		"skill_categories":  categories,
	})
}

func (h *Handler) GetHierarchicalSkills(w http.ResponseWriter, r *http.Request) {
	tech, err := h.reference.LoadTechMasterData()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Hierarchical skills retrieved", map[string]any{
		"hierarchical": tech.Hierarchical,
		"metadata":     tech.Metadata,
	})
}

func (h *Handler) RecommendSkills(w http.ResponseWriter, r *http.Request) {
	payClass := chi.URLParam(r, "payClass")
	categories := RecommendedSkillCategories(payClass)

	skills, err := h.store.GetSkillsByCategories(categories)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	type recommendedSkill struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Roles       string `json:"roles"`
	}

	byCategory := make(map[string][]recommendedSkill)
	for _, s := range skills {
		byCategory[s.Category] = append(byCategory[s.Category], recommendedSkill{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Roles:       s.Roles,
		})
	}

	h.successResponse(w, r, "Skills recommended", map[string]any{
		"pay_class":              payClass,
		"recommended_categories": categories,
		"skills_by_category":     byCategory,
		"total_skills":           len(skills),
	})
}

// AddUserSkill 同一用户同一技能重复提交时更新等级和评估日期
func (h *Handler) AddUserSkill(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "user_id")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	skillID, err := queryInt64(r, "skill_id")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	req := struct {
		UserID  int64 `json:"user_id" validate:"required"`
		SkillID int64 `json:"skill_id" validate:"required"`
	}{
		UserID:  userID,
		SkillID: skillID,
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	level := r.URL.Query().Get("proficiency_level")
	if !slices.Contains(domain.SkillProficiencyLevels, level) {
		h.errorResponse(w, r, http.StatusBadRequest, "Invalid proficiency level. Must be one of: "+strings.Join(domain.SkillProficiencyLevels, ", "))
		return
	}

	skill, err := h.store.GetSkillByID(req.SkillID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Skill not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	us := &domain.UserSkill{
		UserID:           req.UserID,
		SkillID:          skill.ID,
		ProficiencyLevel: level,
		LastAssessed:     &today,
	}
	if err := h.store.UpsertUserSkill(us); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == repository.ConstraintUserSkillsUser:
			h.notFound(w, r, "User not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "User skill saved", map[string]any{
		"id":      us.ID,
		"user_id": us.UserID,
		"skill": map[string]any{
			"id":       skill.ID,
			"name":     skill.Name,
			"category": skill.ParentCategory,
		},
		"proficiency_level": us.ProficiencyLevel,
		"last_assessed":     formatOptionalDate(us.LastAssessed),
	})
}

func (h *Handler) GetUserSkills(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	userSkills, err := h.store.GetUserSkills(userID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	type skillBrief struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Category    string `json:"category"`
		Description string `json:"description"`
	}
	type ownedSkill struct {
		ID               int64      `json:"id"`
		Skill            skillBrief `json:"skill"`
		ProficiencyLevel string     `json:"proficiency_level"`
		LastAssessed     *string    `json:"last_assessed"`
	}

	skills := make([]ownedSkill, 0, len(userSkills))
	byProficiency := make(map[string][]ownedSkill)
	for _, us := range userSkills {
		s := ownedSkill{
			ID: us.ID,
			Skill: skillBrief{
				ID:          us.Skill.ID,
				Name:        us.Skill.Name,
				Category:    us.Skill.ParentCategory,
				Description: us.Skill.Description,
			},
			ProficiencyLevel: us.ProficiencyLevel,
			LastAssessed:     formatOptionalDate(us.LastAssessed),
		}
		skills = append(skills, s)
		byProficiency[s.ProficiencyLevel] = append(byProficiency[s.ProficiencyLevel], s)
	}

	h.successResponse(w, r, "User skills retrieved", map[string]any{
		"user_id":        userID,
		"skills":         skills,
		"total_skills":   len(skills),
		"by_proficiency": byProficiency,
	})
}

func (h *Handler) GetSkill(w http.ResponseWriter, r *http.Request) {
	skill := r.Context().Value(SkillCtx).(*domain.Skill)

	h.successResponse(w, r, "Skill retrieved", skill)
}
