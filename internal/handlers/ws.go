package handlers

import (
	"net/http"

	"cashbook/internal/auth"
	"cashbook/internal/middleware"
	"cashbook/internal/websocket"
)

// WSBooks streams balance updates for the caller's books. Browsers cannot set
// headers on a websocket upgrade, so the token may come in the query string.
func (h *Handler) WSBooks(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token, _ = middleware.BearerToken(r)
	}
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims.UserID)
}
