package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/zora-fashion/storefront/pkg/logger"
	"github.com/zora-fashion/storefront/pkg/types"
)

const (
	requestIDHeader    = types.RequestIDHeader
	maxRequestIDLength = 128
)

// RequestID propagates a caller-supplied X-Request-Id or issues a uuid. Supplied ids are only
// trusted when short and made of token characters, since they end up in logs and error bodies.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if !validRequestID(reqID) {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == ':':
		default:
			return false
		}
	}
	return true
}
