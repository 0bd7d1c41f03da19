package adaptor

import (
	"net/http"
	"strings"

	"gym-booking/internal/data/repository"
	"gym-booking/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	sessions repository.SessionRepository
	log      *zap.Logger
}

func NewAuthHandler(sessions repository.SessionRepository, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		log:      log.With(zap.String("handler", "auth")),
	}
}

// Logout handles POST /api/auth/logout (protected). It revokes the session
// token the request authenticated with.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
		return
	}

	if err := h.sessions.Revoke(r.Context(), parts[1]); err != nil {
		h.log.Error("Failed to revoke session", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "logged out", nil)
}
