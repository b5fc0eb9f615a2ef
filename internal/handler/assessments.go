package handler

import (
	"errors"
	"net/http"

	"github.com/growthpath/backend/internal/domain"
	"github.com/growthpath/backend/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
)

func (h *Handler) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "user_id")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	var req struct {
		UserID           int64 `json:"user_id" validate:"required"`
		CompetencyID     int64 `json:"competency_id" validate:"required"`
		ProficiencyLevel int   `json:"proficiency_level" validate:"required,min=1,max=4"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	req.UserID = userID
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	assessment := &domain.Assessment{
		UserID:           req.UserID,
		CompetencyID:     req.CompetencyID,
		ProficiencyLevel: domain.ProficiencyLevel(req.ProficiencyLevel),
	}
	if err := h.store.CreateAssessment(assessment); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case repository.ConstraintAssessmentsUser:
				h.errorResponse(w, r, http.StatusBadRequest, "User not found")
			case repository.ConstraintAssessmentsCompetency:
				h.errorResponse(w, r, http.StatusBadRequest, "Competency not found")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Assessment created", assessment)
}

// GetUserAssessments 返回完整的评估历史，用户不存在时返回空列表
func (h *Handler) GetUserAssessments(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	history, err := h.store.GetAssessmentsByUser(userID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Assessments retrieved", history)
}

// GetCurrentUserAssessments 每项能力只返回最近的一次评估
func (h *Handler) GetCurrentUserAssessments(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	history, err := h.store.GetAssessmentsByUser(userID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Current assessments retrieved", currentDetails(history))
}

func currentDetails(history []*domain.AssessmentDetail) []*domain.AssessmentDetail {
	byID := make(map[int64]*domain.AssessmentDetail, len(history))
	plain := make([]*domain.Assessment, 0, len(history))
	for _, d := range history {
		byID[d.ID] = d
		plain = append(plain, &d.Assessment)
	}

	current := domain.CurrentAssessments(plain)
	result := make([]*domain.AssessmentDetail, 0, len(current))
	for _, a := range current {
		result = append(result, byID[a.ID])
	}
	return result
}
