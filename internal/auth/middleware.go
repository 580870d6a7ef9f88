package auth

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Middleware authenticates API requests with bearer JWTs.
type Middleware struct {
	secret      []byte
	exemptPaths map[string]struct{}
}

// NewMiddleware builds auth middleware. Paths listed in exemptPaths skip
// authentication (health, metrics, docs).
func NewMiddleware(secret []byte, exemptPaths []string) *Middleware {
	set := make(map[string]struct{}, len(exemptPaths))
	for _, path := range exemptPaths {
		set[path] = struct{}{}
	}
	return &Middleware{secret: secret, exemptPaths: set}
}

// Wrap enforces authentication and stores the username in the request
// context. It satisfies mux.MiddlewareFunc.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.isExempt(r) {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		claims, err := ParseJWT(token, m.secret)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUsername(r.Context(), claims.Username)))
	})
}

func (m *Middleware) isExempt(r *http.Request) bool {
	_, ok := m.exemptPaths[r.URL.Path]
	return ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
