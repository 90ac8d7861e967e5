package handlers

import (
	"net/http"

	"cashbook/internal/middleware"
	"cashbook/internal/models"
	"cashbook/internal/services"

	"github.com/go-chi/chi/v5"
)

type categoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	categories, err := h.ledger.ListCategories(r.Context(), userID, chi.URLParam(r, "bookID"))
	if err != nil {
		h.respondServiceError(w, r, err, "unable to load categories")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	category, err := h.ledger.CreateCategory(r.Context(), userID, services.CreateCategoryRequest{
		BookID: chi.URLParam(r, "bookID"),
		Name:   req.Name,
		Color:  req.Color,
	})
	if err != nil {
		h.respondServiceError(w, r, err, "unable to create category")
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

// DeleteCategory leaves the category's entries in place.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	err := h.ledger.DeleteCategory(r.Context(), userID, chi.URLParam(r, "bookID"), chi.URLParam(r, "categoryID"))
	if err != nil {
		h.respondServiceError(w, r, err, "unable to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
