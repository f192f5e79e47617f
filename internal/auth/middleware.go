package auth

import (
	"net/http"
	"strings"

	"github.com/ballast-erp/ballast-erp/internal/platform/httpx"
	"github.com/ballast-erp/ballast-erp/internal/shared"
)

// RequireAuth verifies the bearer token and stores the identity in context.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(raw) == "" {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		identity, err := s.VerifyToken(r.Context(), strings.TrimSpace(raw))
		if err != nil {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), identity)))
	})
}
