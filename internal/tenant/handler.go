package tenant

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ballast-erp/ballast-erp/internal/platform/httpx"
	"github.com/ballast-erp/ballast-erp/internal/shared"
)

// Handler exposes organization settings endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the tenant HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches organization routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.show)
	r.Patch("/", h.update)
	r.Delete("/", h.disable)
}

type updateOrganizationRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	org := shared.OrganizationFromContext(r.Context())
	if org == nil {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	httpx.JSON(w, http.StatusOK, org)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	org := shared.OrganizationFromContext(r.Context())
	identity := shared.IdentityFromContext(r.Context())
	if org == nil || identity == nil {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}

	var req updateOrganizationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	updated, err := h.service.Update(r.Context(), identity.UserID, org.ID, req.Name)
	if err != nil {
		h.logger.Error("update organization", slog.Int64("org_id", org.ID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) disable(w http.ResponseWriter, r *http.Request) {
	org := shared.OrganizationFromContext(r.Context())
	identity := shared.IdentityFromContext(r.Context())
	if org == nil || identity == nil {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}

	if err := h.service.Disable(r.Context(), identity.UserID, org.ID); err != nil {
		h.logger.Error("disable organization", slog.Int64("org_id", org.ID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
