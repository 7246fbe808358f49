package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zora-fashion/storefront/pkg/logger"
)

const (
	SessionHeader = "X-Session-Id"
	SessionCookie = "zora_session"
)

// SessionOptions controls the cookie issued to new shoppers.
type SessionOptions struct {
	CookieMaxAge time.Duration
	SecureCookie bool
}

// Session resolves the shopper session from the X-Session-Id header or the zora_session cookie.
// Missing or malformed ids are replaced by a fresh uuid, which is returned in both the header
// and the cookie so either client style can keep it.
func Session(opts SessionOptions, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid, ok := sessionFromRequest(r)
			if !ok {
				sid = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    sid,
					Path:     "/",
					MaxAge:   int(opts.CookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   opts.SecureCookie,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(SessionHeader, sid)

			ctx := WithSessionID(r.Context(), sid)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sid)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromRequest(r *http.Request) (string, bool) {
	if sid, ok := parseSessionID(r.Header.Get(SessionHeader)); ok {
		return sid, true
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return parseSessionID(cookie.Value)
	}
	return "", false
}

// parseSessionID only accepts uuids so client input never shapes storage keys.
func parseSessionID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
