package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"cashbook/internal/db"
	"cashbook/internal/middleware"
	"cashbook/internal/models"
	"cashbook/internal/validator"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	profile, err := h.profiles.GetByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondJSON(w, http.StatusOK, models.UserProfile{UserID: userID})
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load profile")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

type whatsappLinkRequest struct {
	Phone string `json:"phone"`
}

// LinkWhatsApp stores the E.164 number inbound messages are matched against.
func (h *Handler) LinkWhatsApp(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	var req whatsappLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	phone := strings.ReplaceAll(strings.TrimSpace(req.Phone), " ", "")
	if err := validator.ValidatePhone(phone); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.setWhatsAppPhone(r, userID, &phone); err != nil {
		if db.IsUniqueViolation(err) {
			respondError(w, http.StatusConflict, "phone number is linked to another account")
			return
		}
		h.logger.Error("link whatsapp failed", zap.Error(err), zap.String("user_id", userID))
		respondError(w, http.StatusInternalServerError, "unable to link phone")
		return
	}
	respondJSON(w, http.StatusOK, models.UserProfile{UserID: userID, WhatsAppPhone: &phone})
}

func (h *Handler) UnlinkWhatsApp(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	if err := h.setWhatsAppPhone(r, userID, nil); err != nil {
		h.logger.Error("unlink whatsapp failed", zap.Error(err), zap.String("user_id", userID))
		respondError(w, http.StatusInternalServerError, "unable to unlink phone")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setWhatsAppPhone(r *http.Request, userID string, phone *string) error {
	action := "profile.whatsapp_unlink"
	if phone != nil {
		action = "profile.whatsapp_link"
	}
	return h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.profiles.SetWhatsAppPhone(r.Context(), tx, userID, phone); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]any{"phone": phone})
		return h.audit.Log(r.Context(), tx, userID, action, "user_profile", userID, string(data))
	})
}
