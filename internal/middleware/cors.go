package middleware

import (
	"net/http"
	"os"
	"strings"
)

// defaultOrigins covers local frontend development. Production sets
// CORS_ALLOWED_ORIGINS to a comma-separated list.
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

func allowedOrigins() map[string]bool {
	origins := defaultOrigins
	if env := os.Getenv("CORS_ALLOWED_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed[origin] = true
		}
	}
	return allowed
}

// EnableCORS answers cross-origin requests for origins on the allow-list.
// Credentials are only offered together with a concrete allowed origin,
// never with a wildcard.
func EnableCORS(next http.Handler) http.Handler {
	allowed := allowedOrigins()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		w.Header().Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
