package handler

import (
	"errors"
	"net/http"

	"github.com/growthpath/backend/internal/domain"
	"github.com/growthpath/backend/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
)

func (h *Handler) CreateCompetency(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
		Category    string `json:"category" validate:"required,oneof=technical soft_skills leadership domain_knowledge"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	competency := &domain.Competency{
		Name:        req.Name,
		Description: req.Description,
		Category:    domain.CompetencyCategory(req.Category),
	}
	if err := h.store.CreateCompetency(competency); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == repository.ConstraintCompetenciesName:
			h.errorResponse(w, r, http.StatusBadRequest, "Competency with this name already exists")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Competency created", competency)
}

func (h *Handler) GetAllCompetencies(w http.ResponseWriter, r *http.Request) {
	competencies, err := h.store.GetAllCompetencies()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Competencies retrieved", competencies)
}

func (h *Handler) GetCompetency(w http.ResponseWriter, r *http.Request) {
	competency := r.Context().Value(CompetencyCtx).(*domain.Competency)

	h.successResponse(w, r, "Competency retrieved", competency)
}
