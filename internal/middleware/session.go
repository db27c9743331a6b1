package middleware

import (
	"log/slog"
	"net/http"

	"github.com/hongminglow/lendsqr-admin/internal/auth"
)

// Session attaches a session to every request. Requests without a valid
// session cookie get a fresh anonymous session and a cookie for it.
func Session(tokens *auth.TokenManager, logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var session auth.Session
		if cookie, err := r.Cookie(auth.CookieName); err == nil {
			if parsed, err := tokens.Parse(cookie.Value); err == nil {
				session = parsed
			} else {
				logger.Debug("discarding session cookie", "error", err)
			}
		}

		if session.ID == "" {
			session = auth.NewSession()
			if _, err := tokens.WriteCookie(w, session); err != nil {
				logger.Error("issue session cookie", "error", err)
			}
		}

		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
	})
}
