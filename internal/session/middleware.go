package session

import (
	"context"
	"log/slog"
	"net/http"

	"civreg/pkg/platform/httputil"
	"civreg/pkg/requestcontext"
)

// CookieName is the session cookie.
const CookieName = "civreg_session"

// Middleware attaches the caller's session to the request. The session is
// locked for the whole request so events of one browser are handled in order,
// and saved once the handler returns.
func Middleware(svc *Service, logger *slog.Logger, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			var token string
			if c, err := r.Cookie(CookieName); err == nil {
				token = c.Value
			}

			sess, fresh, err := svc.Resolve(ctx, token)
			if err != nil {
				logger.ErrorContext(ctx, "failed to load session", "error", err)
				httputil.WriteError(w, err)
				return
			}

			unlock := svc.Lock(sess.ID)
			defer unlock()
			if !fresh {
				// Reload under the lock so a request that waited sees the
				// previous request's writes.
				if sess, _, err = svc.Resolve(ctx, token); err != nil {
					httputil.WriteError(w, err)
					return
				}
			}

			signed, err := svc.Touch(sess)
			if err != nil {
				httputil.WriteError(w, err)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    signed,
				Path:     "/",
				Expires:  sess.ExpiresAt,
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx = WithSession(ctx, sess)
			ctx = requestcontext.WithSessionID(ctx, sess.ID)
			ctx = requestcontext.WithRole(ctx, sess.Role)
			next.ServeHTTP(w, r.WithContext(ctx))

			saveCtx := context.WithoutCancel(r.Context())
			if err := svc.Save(saveCtx, sess); err != nil {
				logger.ErrorContext(saveCtx, "failed to save session", "error", err, "session_id", sess.ID)
			}
		})
	}
}
