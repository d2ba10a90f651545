package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dukerupert/platewise/internal/auth"
	"github.com/dukerupert/platewise/internal/store"
)

// RequireAuth validates the bearer token and populates AuthContext. The token
// is read from the Authorization header, or from the token query parameter
// for WebSocket upgrades where browsers cannot set headers.
func RequireAuth(tokens *auth.Tokens, users *store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				writeMessage(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			ac, err := tokens.Parse(raw)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			u, err := users.GetByID(r.Context(), ac.UserID)
			if err != nil {
				writeMessage(w, http.StatusInternalServerError, "Server Error")
				return
			}
			if u == nil {
				writeMessage(w, http.StatusUnauthorized, "Not authorized, user not found")
				return
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
