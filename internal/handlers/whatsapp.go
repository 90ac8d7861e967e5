package handlers

import (
	"context"
	"net/http"
	"time"

	"cashbook/internal/whatsapp"

	"go.uber.org/zap"
)

// WhatsAppWebhook always answers 200 with a TwiML reply, whatever happened.
func (h *Handler) WhatsAppWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("whatsapp form parse failed", zap.Error(err))
		h.replyTwiML(w, whatsapp.MsgGenericError)
		return
	}
	from := r.PostForm.Get("From")
	body := r.PostForm.Get("Body")

	if h.signatures != nil {
		signature := r.Header.Get(whatsapp.SignatureHeader)
		if signature == "" {
			h.logger.Warn("whatsapp signature missing", zap.String("from", from))
			h.replyTwiML(w, whatsapp.MsgMissingSignature)
			return
		}
		if !h.signatures.Validate(signature, r.PostForm) {
			h.logger.Warn("whatsapp signature invalid", zap.String("from", from))
			h.replyTwiML(w, whatsapp.MsgInvalidSignature)
			return
		}
	}

	// The write must finish even if Twilio hangs up first.
	reply := h.whatsapp.Handle(context.WithoutCancel(r.Context()), from, body)
	h.replyTwiML(w, reply)
}

func (h *Handler) replyTwiML(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", whatsapp.ContentType)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(whatsapp.Envelope(message)))
}

type webhookStatus struct {
	Status              string    `json:"status"`
	Message             string    `json:"message"`
	Timestamp           time.Time `json:"timestamp"`
	SignatureValidation bool      `json:"signature_validation"`
}

func (h *Handler) WhatsAppStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, webhookStatus{
		Status:              "ok",
		Message:             "WhatsApp webhook endpoint is active",
		Timestamp:           time.Now().UTC(),
		SignatureValidation: h.signatures != nil,
	})
}
