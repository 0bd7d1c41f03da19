package middleware

import (
	"net/http"
	"strings"

	"gym-booking/internal/data/entity"
	"gym-booking/internal/data/repository"
	"gym-booking/pkg/utils"

	"go.uber.org/zap"
)

// AuthSession validates the bearer session token and puts the member into
// the request context.
func AuthSession(sessionRepo repository.SessionRepository, memberRepo repository.MemberRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			token := parts[1]

			session, err := sessionRepo.FindValidSession(r.Context(), token)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if session == nil {
				logger.Warn("Invalid or expired session")
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			member, err := memberRepo.FindByID(r.Context(), session.MemberID)
			if err != nil {
				logger.Error("Failed to load session member",
					zap.Error(err), zap.String("member_id", session.MemberID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if member == nil || !member.IsActive {
				utils.ResponseUnauthorized(w, "Account is not active")
				return
			}

			ctx := utils.SetMemberContext(r.Context(), member.ID, string(member.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin requires the context role set by AuthSession to be admin.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := utils.GetRoleFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if role != string(entity.RoleAdmin) {
				memberID, _ := utils.GetMemberIDFromContext(r.Context())
				logger.Warn("Admin access denied",
					zap.String("member_id", memberID.String()),
					zap.String("role", role))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
