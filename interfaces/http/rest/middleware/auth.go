package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"reach-backend/pkg/auth"
	"reach-backend/pkg/common"

	"go.uber.org/zap"
)

// TokenChecker validates a bearer token and resolves the user it belongs
// to.
type TokenChecker interface {
	CheckToken(ctx context.Context, accessToken string) (string, error)
}

// RequireAuth rejects requests without a valid bearer token and stores
// the resolved user in the request context.
func RequireAuth(checker TokenChecker, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				common.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			userID, err := checker.CheckToken(r.Context(), token)
			if err != nil {
				logger.Debug("Token check failed", zap.Error(err))
				common.RespondAppError(w, err, "authentication failed")
				return
			}

			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimit applies per-IP rate limiting. Used on the auth routes, where
// credential stuffing is the concern.
func RateLimit(limiter auth.RateLimiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), clientIP(r))
			if err != nil {
				logger.Warn("Rate limiter failure", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				common.RespondError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
