package catalog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ballast-erp/ballast-erp/internal/platform/httpx"
	"github.com/ballast-erp/ballast-erp/internal/shared"
)

// Handler exposes product, customer and vendor endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the catalog HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountProductRoutes attaches product routes.
func (h *Handler) MountProductRoutes(r chi.Router) {
	r.Get("/", h.listProducts)
	r.Post("/", h.createProduct)
	r.Get("/{id}", h.getProduct)
	r.Put("/{id}", h.updateProduct)
	r.Delete("/{id}", h.deleteProduct)
}

// MountCustomerRoutes attaches customer routes.
func (h *Handler) MountCustomerRoutes(r chi.Router) {
	r.Get("/", h.listCustomers)
	r.Post("/", h.createCustomer)
	r.Get("/{id}", h.getCustomer)
	r.Put("/{id}", h.updateCustomer)
	r.Delete("/{id}", h.deleteCustomer)
}

// MountVendorRoutes attaches vendor routes.
func (h *Handler) MountVendorRoutes(r chi.Router) {
	r.Get("/", h.listVendors)
	r.Post("/", h.createVendor)
	r.Get("/{id}", h.getVendor)
	r.Put("/{id}", h.updateVendor)
	r.Delete("/{id}", h.deleteVendor)
}

func orgID(r *http.Request) (int64, bool) {
	org := shared.OrganizationFromContext(r.Context())
	if org == nil {
		return 0, false
	}
	return org.ID, true
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	products, err := h.service.ListProducts(r.Context(), org)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": products})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	product, err := h.service.GetProduct(r.Context(), org, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	var req ProductInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.CreateProduct(r.Context(), org, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var req ProductInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.UpdateProduct(r.Context(), org, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.DeleteProduct(r.Context(), org, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	customers, err := h.service.ListCustomers(r.Context(), org)
	if err != nil {
		h.logger.Error("list customers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": customers})
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	customer, err := h.service.GetCustomer(r.Context(), org, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	var req ContactInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	customer, err := h.service.CreateCustomer(r.Context(), org, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, customer)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var req ContactInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	customer, err := h.service.UpdateCustomer(r.Context(), org, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.DeleteCustomer(r.Context(), org, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	vendors, err := h.service.ListVendors(r.Context(), org)
	if err != nil {
		h.logger.Error("list vendors", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": vendors})
}

func (h *Handler) getVendor(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	vendor, err := h.service.GetVendor(r.Context(), org, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vendor)
}

func (h *Handler) createVendor(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	var req ContactInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	vendor, err := h.service.CreateVendor(r.Context(), org, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, vendor)
}

func (h *Handler) updateVendor(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var req ContactInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	vendor, err := h.service.UpdateVendor(r.Context(), org, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vendor)
}

func (h *Handler) deleteVendor(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(r)
	if !ok {
		httpx.RespondError(w, shared.ErrOrganizationRequired)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.DeleteVendor(r.Context(), org, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
