package tenant

import (
	"net/http"

	"github.com/ballast-erp/ballast-erp/internal/platform/httpx"
	"github.com/ballast-erp/ballast-erp/internal/shared"
)

// RequireOrganization resolves the caller's organization and stores it in the
// request context. Mutating requests against a disabled organization are
// rejected here, before any handler logic runs; reads pass through.
func (s *Service) RequireOrganization(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := shared.IdentityFromContext(r.Context())
		if identity == nil {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}

		org, err := s.Resolve(r.Context(), identity.UserID)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}

		if org.Disabled() && isWrite(r.Method) {
			httpx.RespondError(w, shared.ErrOrganizationDisabled)
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.ContextWithOrganization(r.Context(), org)))
	})
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
