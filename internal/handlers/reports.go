package handlers

import (
	"net/http"
	"strconv"

	"cashbook/internal/middleware"
	"cashbook/internal/models"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) BookSummary(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	summary, err := h.reports.Summary(r.Context(), userID, chi.URLParam(r, "bookID"))
	if err != nil {
		h.respondServiceError(w, r, err, "unable to load summary")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	dashboard, err := h.reports.Dashboard(r.Context(), userID, chi.URLParam(r, "bookID"))
	if err != nil {
		h.respondServiceError(w, r, err, "unable to load dashboard")
		return
	}
	if dashboard.Recent == nil {
		dashboard.Recent = []models.EntryView{}
	}
	respondJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	months := 0
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "months must be a positive integer")
			return
		}
		months = parsed
	}
	report, err := h.reports.Report(r.Context(), userID, chi.URLParam(r, "bookID"), months)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to build report")
		return
	}
	respondJSON(w, http.StatusOK, report)
}
