package middleware

import (
	"net/http"

	"github.com/Bahjat/seo-analyzer/internal/platform/requestid"
	"github.com/google/uuid"
)

// maxRequestIDLen caps client-supplied IDs so they cannot bloat log lines.
const maxRequestIDLen = 128

// RequestID is middleware that assigns a unique request ID to each request.
// If the incoming request already carries an X-Request-ID header of sane
// length, that value is reused; otherwise a new UUID v4 is generated. The ID
// is echoed back on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestid.Header)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.New().String()
		}

		w.Header().Set(requestid.Header, id)
		ctx := requestid.NewContext(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
