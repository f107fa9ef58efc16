package middleware

import (
	"net/http"
	"strings"

	"github.com/dukkanhq/dukkan-backend/pkg/logger"
)

const cartSessionHeader = "X-Cart-Session"

// CartSession reads the guest cart session header and seeds the context with
// it. The storefront generates the identifier client-side and replays it on
// every request so a guest keeps one cart across page loads.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(cartSessionHeader))
			if sessionID == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithCartSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
