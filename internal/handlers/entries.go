package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"cashbook/internal/middleware"
	"cashbook/internal/models"
	"cashbook/internal/money"
	"cashbook/internal/services"
	"cashbook/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type entryRequest struct {
	CategoryID  string      `json:"category_id"`
	Type        string      `json:"type"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	PaymentMode *string     `json:"payment_mode"`
	Date        string      `json:"date"`
	Notes       *string     `json:"notes"`
}

type entryListResponse struct {
	BookID  string             `json:"book_id"`
	Balance decimal.Decimal    `json:"balance"`
	Entries []models.EntryView `json:"entries"`
}

type entryResponse struct {
	Entry   models.Entry    `json:"entry"`
	Balance decimal.Decimal `json:"balance"`
}

func (h *Handler) entryInput(r *http.Request) (services.EntryInput, error) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		return services.EntryInput{}, errInvalidPayload
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return services.EntryInput{}, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return services.EntryInput{}, err
	}
	return services.EntryInput{
		BookID:      chi.URLParam(r, "bookID"),
		CategoryID:  strings.TrimSpace(req.CategoryID),
		Type:        req.Type,
		Amount:      amount,
		Description: req.Description,
		PaymentMode: req.PaymentMode,
		Date:        date,
		Notes:       req.Notes,
	}, nil
}

// ListEntries returns the book's entries newest first with running balances.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	bookID := chi.URLParam(r, "bookID")
	entries, balance, err := h.ledger.ListEntries(r.Context(), userID, bookID)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to load entries")
		return
	}
	if entries == nil {
		entries = []models.EntryView{}
	}
	respondJSON(w, http.StatusOK, entryListResponse{BookID: bookID, Balance: balance, Entries: entries})
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	entry, err := h.ledger.GetEntry(r.Context(), userID, chi.URLParam(r, "bookID"), chi.URLParam(r, "entryID"))
	if err != nil {
		h.respondServiceError(w, r, err, "unable to load entry")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	input, err := h.entryInput(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.ledger.CreateEntry(r.Context(), userID, input)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to create entry")
		return
	}
	respondJSON(w, http.StatusCreated, entryResponse{Entry: result.Entry, Balance: result.Balance})
}

func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	input, err := h.entryInput(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.ledger.UpdateEntry(r.Context(), userID, chi.URLParam(r, "entryID"), input)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to update entry")
		return
	}
	respondJSON(w, http.StatusOK, entryResponse{Entry: result.Entry, Balance: result.Balance})
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	bookID := chi.URLParam(r, "bookID")
	balance, err := h.ledger.DeleteEntry(r.Context(), userID, bookID, chi.URLParam(r, "entryID"))
	if err != nil {
		h.respondServiceError(w, r, err, "unable to delete entry")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"book_id": bookID, "balance": money.Format(balance)})
}

// SearchEntries filters entries across all of the caller's books.
func (h *Handler) SearchEntries(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	query := r.URL.Query()
	from, err := parseDate(query.Get("from"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "from: "+err.Error())
		return
	}
	to, err := parseDate(query.Get("to"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "to: "+err.Error())
		return
	}
	limit, offset := parsePagination(r)
	filter := store.EntryFilter{
		UserID:      userID,
		BookID:      query.Get("book_id"),
		Type:        strings.ToLower(query.Get("type")),
		CategoryID:  query.Get("category_id"),
		PaymentMode: strings.ToLower(query.Get("payment_mode")),
		Query:       strings.TrimSpace(query.Get("q")),
		Limit:       limit,
		Offset:      offset,
	}
	if !from.IsZero() {
		filter.From = &from
	}
	if !to.IsZero() {
		filter.To = &to
	}
	entries, err := h.ledger.SearchEntries(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to search entries")
		return
	}
	if entries == nil {
		entries = []models.EntryView{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"limit":   limit,
		"offset":  offset,
	})
}
