package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"cashbook/internal/db"
	"cashbook/internal/middleware"
	"cashbook/internal/money"
	"cashbook/internal/services"
	"cashbook/internal/validator"

	"go.uber.org/zap"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

// respondServiceError maps service and validation errors onto HTTP statuses.
// Anything unrecognised is logged and reported as a 500 with the given message.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrBookNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrEntryNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrDuplicateBook),
		errors.Is(err, services.ErrDuplicateCategory):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidEntryType),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidPaymentMode),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrTooManyDecimals),
		isValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, db.ErrRetryLimit):
		respondError(w, http.StatusServiceUnavailable, "book is busy, please retry")
	default:
		userID, _ := middleware.UserIDFromContext(r.Context())
		h.logger.Error(fallback,
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("user_id", userID),
		)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		validator.ErrInvalidEmail,
		validator.ErrInvalidDisplayName,
		validator.ErrInvalidPassword,
		validator.ErrInvalidBookName,
		validator.ErrInvalidCurrency,
		validator.ErrInvalidColor,
		validator.ErrInvalidPhone,
		validator.ErrInvalidCategory,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
