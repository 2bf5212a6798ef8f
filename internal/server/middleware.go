package server

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const ctxKeyUser ctxKey = iota

// userHeader carries the caller's id, set by the gateway in front of us.
const userHeader = "X-User-ID"

// userMiddleware rejects requests without a caller id. EventSource clients
// cannot set headers, so the "user" query parameter is accepted too.
func userMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(userHeader))
		if id == "" {
			id = strings.TrimSpace(r.URL.Query().Get("user"))
		}
		if id == "" {
			writeError(w, http.StatusUnauthorized, "missing "+userHeader+" header")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUser, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFrom(r *http.Request) string {
	id, _ := r.Context().Value(ctxKeyUser).(string)
	return id
}
