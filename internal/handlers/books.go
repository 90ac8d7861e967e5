package handlers

import (
	"net/http"

	"cashbook/internal/ledger"
	"cashbook/internal/middleware"
	"cashbook/internal/models"
	"cashbook/internal/services"

	"github.com/go-chi/chi/v5"
)

type bookRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Currency    *string `json:"currency"`
}

func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	books, err := h.ledger.ListBooks(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to load books")
		return
	}
	if books == nil {
		books = []models.BookOverview{}
	}
	respondJSON(w, http.StatusOK, books)
}

func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	var req bookRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	create := services.CreateBookRequest{Description: req.Description}
	if req.Name != nil {
		create.Name = *req.Name
	}
	if req.Currency != nil {
		create.Currency = *req.Currency
	}
	book, err := h.ledger.CreateBook(r.Context(), userID, create)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to create book")
		return
	}
	respondJSON(w, http.StatusCreated, book)
}

func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	book, err := h.ledger.GetBook(r.Context(), userID, chi.URLParam(r, "bookID"))
	if err != nil {
		h.respondServiceError(w, r, err, "unable to load book")
		return
	}
	respondJSON(w, http.StatusOK, book)
}

func (h *Handler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	var req bookRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	book, err := h.ledger.UpdateBook(r.Context(), userID, chi.URLParam(r, "bookID"), services.UpdateBookRequest{
		Name:        req.Name,
		Description: req.Description,
		Currency:    req.Currency,
	})
	if err != nil {
		h.respondServiceError(w, r, err, "unable to update book")
		return
	}
	respondJSON(w, http.StatusOK, book)
}

func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	if err := h.ledger.DeleteBook(r.Context(), userID, chi.URLParam(r, "bookID")); err != nil {
		h.respondServiceError(w, r, err, "unable to delete book")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reconcile reports stored against recomputed balances. POST also repairs.
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	repair := r.Method == http.MethodPost
	report, err := h.ledger.Reconcile(r.Context(), userID, chi.URLParam(r, "bookID"), repair)
	if err != nil {
		h.respondServiceError(w, r, err, "reconcile failed")
		return
	}
	if report.Drift == nil {
		report.Drift = []ledger.Drift{}
	}
	respondJSON(w, http.StatusOK, report)
}
