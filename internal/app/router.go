package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ballast-erp/ballast-erp/internal/auth"
	"github.com/ballast-erp/ballast-erp/internal/catalog"
	"github.com/ballast-erp/ballast-erp/internal/gains"
	"github.com/ballast-erp/ballast-erp/internal/ledger"
	"github.com/ballast-erp/ballast-erp/internal/observability"
	"github.com/ballast-erp/ballast-erp/internal/orders"
	"github.com/ballast-erp/ballast-erp/internal/reporting"
	"github.com/ballast-erp/ballast-erp/internal/tenant"
	"github.com/ballast-erp/ballast-erp/jobs"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	AuthService   *auth.Service
	TenantService *tenant.Service

	AuthHandler      *auth.Handler
	TenantHandler    *tenant.Handler
	CatalogHandler   *catalog.Handler
	SellHandler      *orders.Handler
	BuyHandler       *orders.Handler
	GainHandler      *gains.Handler
	LedgerHandler    *ledger.Handler
	ReportingHandler *reporting.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi router with Ballast defaults. Everything below
// the auth routes requires a verified identity and a resolved organization;
// the tenant middleware also enforces the disabled-organization write gate.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Handle("/metrics", params.Metrics.Handler())
	}
	r.Route("/jobs", jobs.MountHealthRoutes)

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(params.AuthService.RequireAuth)
		r.Use(params.TenantService.RequireOrganization)

		r.Route("/organization", params.TenantHandler.MountRoutes)
		r.Route("/products", params.CatalogHandler.MountProductRoutes)
		r.Route("/customers", params.CatalogHandler.MountCustomerRoutes)
		r.Route("/vendors", params.CatalogHandler.MountVendorRoutes)
		r.Route("/sells", params.SellHandler.MountRoutes)
		r.Route("/buys", params.BuyHandler.MountRoutes)
		r.Route("/drying-gains", params.GainHandler.MountRoutes)
		r.Route("/transactions", params.LedgerHandler.MountRoutes)
		r.Route("/dashboard", params.ReportingHandler.MountDashboard)
		r.Route("/accounts", params.ReportingHandler.MountAccounts)
	})

	return r
}
