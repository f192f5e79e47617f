package ledger

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ballast-erp/ballast-erp/internal/platform/httpx"
	"github.com/ballast-erp/ballast-erp/internal/shared"
)

// Handler exposes manual transaction endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the ledger HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches transaction routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func requestOrg(r *http.Request) (int64, bool) {
	org := shared.OrganizationFromContext(r.Context())
	if org == nil {
		return 0, false
	}
	return org.ID, true
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	org, ok := requestOrg(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	var req TransactionInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), org, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	org, ok := requestOrg(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	t, err := h.service.Get(r.Context(), org, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	org, ok := requestOrg(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	list, meta, err := h.service.List(r.Context(), org, shared.Pagination{Page: page, PerPage: perPage})
	if err != nil {
		h.logger.Error("list transactions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": list, "pagination": meta})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	org, ok := requestOrg(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var patch UpdatePatch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid json body")
		return
	}
	if err := h.validate.Struct(patch); err != nil {
		httpx.RespondError(w, err)
		return
	}
	updated, err := h.service.Update(r.Context(), org, id, patch)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	org, ok := requestOrg(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.Delete(r.Context(), org, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
