package middleware

import (
	"net/http"
	"strings"

	"github.com/meeplemeet/meeplemeet/internal/auth"
	"github.com/meeplemeet/meeplemeet/internal/ctxkeys"
)

// AuthMiddleware derives the request's access guard once from the
// Authorization header. A missing, malformed or expired token yields the
// anonymous guard; it never fails the request by itself.
func AuthMiddleware(signer *auth.TokenSigner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			guard := auth.Anonymous()

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if ok && token != "" {
				claims, err := signer.Verify(token)
				if err == nil {
					guard = auth.NewGuard(claims)
				}
			}

			ctx := ctxkeys.WithGuard(r.Context(), guard)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests whose guard is anonymous.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guard := ctxkeys.Guard(r.Context())
		if !guard.IsAuthenticated() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"not authenticated"}`))
			return
		}

		next.ServeHTTP(w, r)
	}
}
