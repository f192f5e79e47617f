package gains

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ballast-erp/ballast-erp/internal/platform/httpx"
	"github.com/ballast-erp/ballast-erp/internal/shared"
)

// Handler exposes drying gain endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the gain HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches drying gain routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.record)
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	org := shared.OrganizationFromContext(r.Context())
	if org == nil {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	var req RecordInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	gain, err := h.service.Record(r.Context(), org.ID, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, gain)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	org := shared.OrganizationFromContext(r.Context())
	if org == nil {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	productID, _ := strconv.ParseInt(r.URL.Query().Get("productId"), 10, 64)
	list, err := h.service.List(r.Context(), org.ID, productID)
	if err != nil {
		h.logger.Error("list drying gains", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": list})
}
