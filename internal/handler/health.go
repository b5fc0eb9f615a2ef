package handler

import "net/http"

const apiVersion = "0.1.0"

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "Welcome to GrowthPath API", map[string]string{
		"message": "Welcome to GrowthPath API",
		"docs":    "/docs",
		"version": apiVersion,
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "Service is healthy", map[string]string{
		"status": "healthy",
	})
}
