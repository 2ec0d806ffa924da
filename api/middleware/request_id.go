package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/homestockhq/homestock-backend/pkg/logger"
)

// HeaderRequestID carries the correlation id between client and server.
const HeaderRequestID = "X-Request-Id"

// RequestID tags each request with a correlation id. A caller-supplied id is
// reused as-is, otherwise a fresh one is minted. The id is echoed on the
// response and bound to the request-scoped logger.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			id := requestIDFrom(r)
			w.Header().Set(HeaderRequestID, id)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

func requestIDFrom(r *http.Request) string {
	if id := r.Header.Get(HeaderRequestID); id != "" {
		return id
	}
	return uuid.NewString()
}
