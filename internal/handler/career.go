package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/growthpath/backend/internal/career"
	"github.com/growthpath/backend/internal/domain"
	"github.com/growthpath/backend/internal/reference"
)

func (h *Handler) GetCareerPaths(w http.ResponseWriter, r *http.Request) {
	framework, err := h.reference.LoadCareerFramework()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	type levelSummary struct {
		Level    int    `json:"level"`
		Title    string `json:"title"`
		PayClass string `json:"pay_class"`
		Summary  string `json:"summary"`
	}
	type trackSummary struct {
		Key          string         `json:"key"`
		Name         string         `json:"name"`
		Description  string         `json:"description"`
		Levels       int            `json:"levels"`
		LevelDetails []levelSummary `json:"level_details"`
	}

	tracks := make([]trackSummary, 0, framework.CareerTracks.Len())
	for pair := framework.CareerTracks.Oldest(); pair != nil; pair = pair.Next() {
		key, track := pair.Key, pair.Value
		details := make([]levelSummary, 0, len(track.Levels))
		for _, l := range track.Levels {
			details = append(details, levelSummary{Level: l.Level, Title: l.Title, PayClass: l.PayClass, Summary: l.Summary})
		}
		tracks = append(tracks, trackSummary{
			Key:          key,
			Name:         track.Name,
			Description:  track.Description,
			Levels:       len(track.Levels),
			LevelDetails: details,
		})
	}

	h.successResponse(w, r, "Career paths retrieved", map[string]any{
		"tracks": tracks,
	})
}

// GetLevelDetails 返回某条路线中某个级别的详情及该 pay class 下各能力维度的期望
func (h *Handler) GetLevelDetails(w http.ResponseWriter, r *http.Request) {
	framework, err := h.reference.LoadCareerFramework()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	track, ok := framework.CareerTracks.Get(chi.URLParam(r, "track"))
	if !ok {
		h.notFound(w, r, "Career track not found")
		return
	}
	level, ok := track.FindLevel(chi.URLParam(r, "payClass"))
	if !ok {
		h.notFound(w, r, "Level not found")
		return
	}

	areas, err := h.store.GetCompetencyAreaDetails(level.PayClass)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	type levelCompetency struct {
		AreaKey      string `json:"area_key"`
		Area         string `json:"area"`
		Description  string `json:"description"`
		Expectations string `json:"expectations"`
		Scope        string `json:"scope"`
	}

	competencies := make([]levelCompetency, 0, len(areas))
	for _, a := range areas {
		if len(a.Expectations) == 0 {
			continue
		}
		exp := a.Expectations[0]
		competencies = append(competencies, levelCompetency{
			AreaKey:      a.AreaKey,
			Area:         a.Name,
			Description:  a.Description,
			Expectations: exp.Expectations,
			Scope:        exp.Scope,
		})
	}

	h.successResponse(w, r, "Level details retrieved", struct {
		reference.CareerLevel
		Competencies      []levelCompetency `json:"competencies"`
		TotalCompetencies int               `json:"total_competencies"`
	}{
		CareerLevel:       level,
		Competencies:      competencies,
		TotalCompetencies: len(competencies),
	})
}

func (h *Handler) GetCompetencyAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.store.GetCompetencyAreaDetails(strings.TrimSpace(r.URL.Query().Get("pay_class")))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Competency areas retrieved", map[string]any{
		"competencies": areas,
		"total":        len(areas),
	})
}

type levelPair struct {
	CurrentLevel string `json:"current_level" validate:"required"`
	TargetLevel  string `json:"target_level" validate:"required"`
}

func readLevelPair(r *http.Request) levelPair {
	q := r.URL.Query()
	return levelPair{
		CurrentLevel: strings.TrimSpace(q.Get("current_level")),
		TargetLevel:  strings.TrimSpace(q.Get("target_level")),
	}
}

func (h *Handler) CalculateSkillsGap(w http.ResponseWriter, r *http.Request) {
	req := readLevelPair(r)
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	gaps, err := h.planner.SkillsGap(req.CurrentLevel, req.TargetLevel)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Skills gap calculated", map[string]any{
		"current_level": req.CurrentLevel,
		"target_level":  req.TargetLevel,
		"gaps":          gaps,
		"total_gaps":    len(gaps),
	})
}

func (h *Handler) GenerateDevelopmentPlan(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "user_id")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	req := struct {
		UserID int64 `json:"user_id" validate:"required"`
		levelPair
	}{
		UserID:    userID,
		levelPair: readLevelPair(r),
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	generated, err := h.planner.GenerateDevelopmentPlan(req.UserID, req.CurrentLevel, req.TargetLevel)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	plan := generated.Plan

	type generatedObjective struct {
		ID           int64                  `json:"id"`
		Competency   string                 `json:"competency"`
		CurrentState string                 `json:"current_state"`
		TargetState  string                 `json:"target_state"`
		Priority     domain.Priority        `json:"priority"`
		Status       domain.ObjectiveStatus `json:"status"`
	}

	objectives := make([]generatedObjective, 0, len(plan.Objectives))
	for i, obj := range plan.Objectives {
		gap := generated.Gaps[i]
		objectives = append(objectives, generatedObjective{
			ID:           obj.ID,
			Competency:   gap.Area,
			CurrentState: gap.Current,
			TargetState:  gap.Required,
			Priority:     obj.Priority,
			Status:       obj.Status,
		})
	}

	h.notifyPlanCreated(plan)

	h.flatResponse(w, r, "Development plan created", map[string]any{
		"plan_id":             plan.ID,
		"user_id":             plan.UserID,
		"current_level":       plan.CurrentLevel,
		"target_level":        plan.TargetLevel,
		"created_date":        formatDate(plan.CreatedDate),
		"target_date":         formatOptionalDate(plan.TargetDate),
		"objectives":          objectives,
		"total_objectives":    len(objectives),
		"estimated_timeframe": career.EstimatedTimeframe,
	})
}

// notifyPlanCreated 通知失败不影响计划的创建
func (h *Handler) notifyPlanCreated(plan *domain.DevelopmentPlan) {
	if h.mail == nil {
		return
	}

	user, err := h.store.GetUserByID(plan.UserID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("获取计划所属用户失败", "planID", plan.ID, "userID", plan.UserID, "error", err)
		}
		return
	}

	targetDate := ""
	if plan.TargetDate != nil {
		targetDate = formatDate(*plan.TargetDate)
	}

	msg := domain.MailMessage{
		Type: domain.MailTypeDevelopmentPlanCreated,
		To:   user.Email,
		Data: domain.DevelopmentPlanMailData{
			Name:            user.Name,
			PlanID:          plan.ID,
			CurrentLevel:    plan.CurrentLevel,
			TargetLevel:     plan.TargetLevel,
			TargetDate:      targetDate,
			TotalObjectives: len(plan.Objectives),
		},
	}
	if err := h.mail.Publish(msg); err != nil {
		slog.Warn("发送发展计划通知失败", "planID", plan.ID, "error", err)
	}
}

func (h *Handler) GetDevelopmentPlan(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(DevelopmentPlanCtx).(*domain.DevelopmentPlan)

	type planObjective struct {
		ID          int64                  `json:"id"`
		Competency  string                 `json:"competency"`
		Description string                 `json:"description"`
		Priority    domain.Priority        `json:"priority"`
		Status      domain.ObjectiveStatus `json:"status"`
	}

	objectives := make([]planObjective, 0, len(plan.Objectives))
	for _, obj := range plan.Objectives {
		competency := obj.CompetencyName
		if competency == "" {
			competency = "General"
		}
		objectives = append(objectives, planObjective{
			ID:          obj.ID,
			Competency:  competency,
			Description: obj.Description,
			Priority:    obj.Priority,
			Status:      obj.Status,
		})
	}

	h.successResponse(w, r, "Development plan retrieved", map[string]any{
		"plan_id":       plan.ID,
		"user_id":       plan.UserID,
		"current_level": plan.CurrentLevel,
		"target_level":  plan.TargetLevel,
		"created_date":  formatDate(plan.CreatedDate),
		"target_date":   formatOptionalDate(plan.TargetDate),
		"status":        plan.Status,
		"objectives":    objectives,
	})
}

func (h *Handler) GetCareerLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.store.GetCareerLevels(strings.TrimSpace(r.URL.Query().Get("track")))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Career levels retrieved", map[string]any{
		"levels": levels,
		"total":  len(levels),
	})
}

func (h *Handler) GetUserPlans(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	plans, err := h.store.GetDevelopmentPlansByUser(userID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	type planSummary struct {
		PlanID       int64             `json:"plan_id"`
		CurrentLevel string            `json:"current_level"`
		TargetLevel  string            `json:"target_level"`
		CreatedDate  string            `json:"created_date"`
		TargetDate   *string           `json:"target_date"`
		Status       domain.PlanStatus `json:"status"`
		domain.ObjectiveProgress
		CompletionPercentage float64 `json:"completion_percentage"`
	}

	result := make([]planSummary, 0, len(plans))
	for _, p := range plans {
		progress := p.Progress()
		result = append(result, planSummary{
			PlanID:               p.ID,
			CurrentLevel:         p.CurrentLevel,
			TargetLevel:          p.TargetLevel,
			CreatedDate:          formatDate(p.CreatedDate),
			TargetDate:           formatOptionalDate(p.TargetDate),
			Status:               p.Status,
			ObjectiveProgress:    progress,
			CompletionPercentage: progress.CompletionPercentage(),
		})
	}

	h.successResponse(w, r, "Development plans retrieved", map[string]any{
		"plans": result,
		"total": len(result),
	})
}

var objectiveStatuses = []string{
	string(domain.ObjectiveNotStarted),
	string(domain.ObjectiveInProgress),
	string(domain.ObjectiveCompleted),
}

var planStatuses = []string{
	string(domain.PlanStatusActive),
	string(domain.PlanStatusCompleted),
	string(domain.PlanStatusCancelled),
}

// UpdateObjectiveStatus 先校验状态，非法状态不会修改任何数据
func (h *Handler) UpdateObjectiveStatus(w http.ResponseWriter, r *http.Request) {
	objectiveID, err := idParam(r)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "Invalid objective ID")
		return
	}

	status := r.URL.Query().Get("status")
	if !slices.Contains(objectiveStatuses, status) {
		h.errorResponse(w, r, http.StatusBadRequest, "Invalid status. Must be one of: "+strings.Join(objectiveStatuses, ", "))
		return
	}

	obj, err := h.store.UpdateLearningObjectiveStatus(objectiveID, domain.ObjectiveStatus(status))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Objective not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Objective status updated to '"+status+"'", map[string]any{
		"id":          obj.ID,
		"description": obj.Description,
		"status":      obj.Status,
		"priority":    obj.Priority,
	})
}

func (h *Handler) UpdatePlanStatus(w http.ResponseWriter, r *http.Request) {
	planID, err := idParam(r)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	status := r.URL.Query().Get("status")
	if !slices.Contains(planStatuses, status) {
		h.errorResponse(w, r, http.StatusBadRequest, "Invalid status. Must be one of: "+strings.Join(planStatuses, ", "))
		return
	}

	plan, err := h.store.UpdateDevelopmentPlanStatus(planID, domain.PlanStatus(status))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Plan not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Plan status updated to '"+status+"'", map[string]any{
		"plan_id": plan.ID,
		"status":  plan.Status,
	})
}
