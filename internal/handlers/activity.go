package handlers

import (
	"net/http"

	"cashbook/internal/middleware"
	"cashbook/internal/models"
)

func (h *Handler) ListActivity(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	limit, offset := parsePagination(r)
	logs, err := h.audit.ListByActor(r.Context(), userID, limit, offset)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to load activity")
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	respondJSON(w, http.StatusOK, logs)
}
