package handler

import (
	"net/http"

	"github.com/growthpath/backend/internal/llm"
)

// ChatCompletion 原样返回 LLM 服务的响应
func (h *Handler) ChatCompletion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserContent   string `json:"user_content" validate:"required"`
		SystemContent string `json:"system_content"`
		Model         string `json:"model"`
		MaxTokens     int    `json:"max_tokens" validate:"omitempty,min=1,max=8192"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	raw, err := h.llm.ChatCompletion(r.Context(), llm.ChatRequest{
		UserContent:   req.UserContent,
		SystemContent: req.SystemContent,
		Model:         req.Model,
		MaxTokens:     req.MaxTokens,
	})
	if err != nil {
		h.operationFailed(w, r, "LLM request failed", err)
		return
	}

	h.writeRaw(w, r, raw)
}

func (h *Handler) RecommendSkillsWithLLM(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentSkills   []string `json:"current_skills" validate:"required"`
		TargetRole      string   `json:"target_role" validate:"required"`
		ExperienceLevel string   `json:"experience_level" validate:"required"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	raw, err := h.llm.RecommendSkills(r.Context(), req.CurrentSkills, req.TargetRole, req.ExperienceLevel)
	if err != nil {
		h.operationFailed(w, r, "Skill recommendation failed", err)
		return
	}

	h.writeRaw(w, r, raw)
}

func (h *Handler) AnalyzeSkillGapWithLLM(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserSkills     []map[string]any `json:"user_skills" validate:"required"`
		RequiredSkills []map[string]any `json:"required_skills" validate:"required"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	raw, err := h.llm.AnalyzeSkillGap(r.Context(), req.UserSkills, req.RequiredSkills)
	if err != nil {
		h.operationFailed(w, r, "Skill gap analysis failed", err)
		return
	}

	h.writeRaw(w, r, raw)
}

func (h *Handler) LLMHealth(w http.ResponseWriter, r *http.Request) {
	status := "not_configured"
	if h.llm.IsConfigured() {
		status = "configured"
	}

	h.successResponse(w, r, "LLM status retrieved", map[string]any{
		"status":           status,
		"base_url":         h.llm.BaseURL(),
		"default_model":    h.llm.DefaultModel(),
		"endpoint_example": h.llm.Endpoint(h.llm.DefaultModel()),
		"has_api_key":      h.llm.IsConfigured(),
	})
}
