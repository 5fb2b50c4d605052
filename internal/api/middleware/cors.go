package middleware

import (
	"net/http"
	"os"
	"strings"
)

// CORSMiddleware sets cross-origin headers. Allowed origins come from the
// ALLOWED_ORIGINS env var (comma-separated); unset means wildcard, which is
// only appropriate in development.
func CORSMiddleware(next http.Handler) http.Handler {
	allowed := []string{"*"}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		allowed = strings.Split(v, ",")
	}
	wildcard := len(allowed) == 1 && allowed[0] == "*"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		switch {
		case origin == "":
			// Same-origin or non-browser client, nothing to add.
		case wildcard:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case originAllowed(origin, allowed):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Session-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == origin {
			return true
		}
	}
	return false
}
