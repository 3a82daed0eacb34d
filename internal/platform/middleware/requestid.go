package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/AmineOzil/user-registration/pkg/requestcontext"
)

const (
	HeaderRequestID     = "X-Request-Id"
	HeaderCorrelationID = "X-Correlation-Id"

	maxCorrelationIDLen = 128
)

// RequestID assigns every request a server-generated id, exposed in the
// context and the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}

// CorrelationID picks up a caller-supplied X-Correlation-Id and echoes it
// back. Values longer than 128 bytes are ignored.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderCorrelationID))
		if id == "" || len(id) > maxCorrelationIDLen {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set(HeaderCorrelationID, id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithCorrelationID(r.Context(), id)))
	})
}
