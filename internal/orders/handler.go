package orders

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ballast-erp/ballast-erp/internal/platform/httpx"
	"github.com/ballast-erp/ballast-erp/internal/shared"
)

// Handler serves one order book. It is mounted twice, once per kind.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	kind     Kind
	validate *validator.Validate
}

// NewHandler constructs an order HTTP handler bound to one book.
func NewHandler(logger *slog.Logger, service *Service, kind Kind) *Handler {
	return &Handler{logger: logger, service: service, kind: kind, validate: validator.New()}
}

// MountRoutes attaches the order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Patch("/{id}/items", h.replaceItems)
	r.Delete("/{id}", h.delete)
}

type orderResponse struct {
	Order
	ItemsTotal float64 `json:"items_total"`
	GrandTotal float64 `json:"grand_total"`
	Due        float64 `json:"due"`
}

func respondOrder(w http.ResponseWriter, status int, o Order) {
	httpx.JSON(w, status, orderResponse{
		Order:      o,
		ItemsTotal: o.ItemsTotal(),
		GrandTotal: o.GrandTotal(),
		Due:        o.Due(),
	})
}

func requestOrg(r *http.Request) (int64, bool) {
	org := shared.OrganizationFromContext(r.Context())
	if org == nil {
		return 0, false
	}
	return org.ID, true
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	org, ok := requestOrg(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	page := shared.Pagination{Page: queryInt(r, "page"), PerPage: queryInt(r, "per_page")}
	list, meta, err := h.service.List(r.Context(), org, h.kind, page)
	if err != nil {
		h.logger.Error("list orders", slog.String("kind", string(h.kind)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]orderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, orderResponse{Order: o, ItemsTotal: o.ItemsTotal(), GrandTotal: o.GrandTotal(), Due: o.Due()})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": out, "pagination": meta})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	org, ok := requestOrg(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	order, err := h.service.Get(r.Context(), org, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	respondOrder(w, http.StatusOK, order)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	org, ok := requestOrg(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	var req CreateInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	order, err := h.service.Create(r.Context(), org, h.kind, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	respondOrder(w, http.StatusCreated, order)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	org, ok := requestOrg(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var req UpdateInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	order, err := h.service.Update(r.Context(), org, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	respondOrder(w, http.StatusOK, order)
}

func (h *Handler) replaceItems(w http.ResponseWriter, r *http.Request) {
	org, ok := requestOrg(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var req ReplaceItemsInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	order, err := h.service.ReplaceItems(r.Context(), org, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	respondOrder(w, http.StatusOK, order)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	org, ok := requestOrg(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	id, err := pathID(r)
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
