package reporting

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ballast-erp/ballast-erp/internal/platform/httpx"
	"github.com/ballast-erp/ballast-erp/internal/shared"
)

// Handler exposes the dashboard and accounts summary endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the reporting HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountDashboard attaches the dashboard route.
func (h *Handler) MountDashboard(r chi.Router) {
	r.Get("/", h.dashboard)
}

// MountAccounts attaches the accounts summary route.
func (h *Handler) MountAccounts(r chi.Router) {
	r.Get("/summary", h.accountsSummary)
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	org := shared.OrganizationFromContext(r.Context())
	if org == nil {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	months := queryInt(r, "months")
	productDays := queryInt(r, "productDays")

	dash, err := h.service.Dashboard(r.Context(), org.ID, months, productDays)
	if err != nil {
		h.logger.Error("build dashboard", slog.Int64("org_id", org.ID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dash)
}

func (h *Handler) accountsSummary(w http.ResponseWriter, r *http.Request) {
	org := shared.OrganizationFromContext(r.Context())
	if org == nil {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	summary, err := h.service.AccountsSummary(r.Context(), org.ID)
	if err != nil {
		h.logger.Error("build accounts summary", slog.Int64("org_id", org.ID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
