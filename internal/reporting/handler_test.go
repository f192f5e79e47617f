package reporting

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/ballast-erp/ballast-erp/internal/shared"
)

func testRouter(store *stubStore) http.Handler {
	handler := NewHandler(slog.Default(), newTestService(store))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			org := &shared.Organization{ID: 1, Name: "Dune Traders", OwnerUserID: 1}
			next.ServeHTTP(w, req.WithContext(shared.ContextWithOrganization(req.Context(), org)))
		})
	})
	r.Route("/dashboard", handler.MountDashboard)
	r.Route("/accounts", handler.MountAccounts)
	return r
}

func TestDashboardEndpointClampsQuery(t *testing.T) {
	router := testRouter(&stubStore{})

	req := httptest.NewRequest(http.MethodGet, "/dashboard?months=999&productDays=-3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		RevenueSeries []json.RawMessage `json:"revenue_series"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.RevenueSeries, MaxMonths)
}

func TestDashboardEndpointDefaults(t *testing.T) {
	router := testRouter(&stubStore{})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Overview      Overview          `json:"overview"`
		RevenueSeries []json.RawMessage `json:"revenue_series"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.RevenueSeries, DefaultMonths)
	require.Zero(t, body.Overview.Income)
}

func TestAccountsSummaryEndpoint(t *testing.T) {
	router := testRouter(&stubStore{})

	req := httptest.NewRequest(http.MethodGet, "/accounts/summary", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body AccountsSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Monthly, DefaultMonths)
}

func TestDashboardEndpointRequiresOrganization(t *testing.T) {
	handler := NewHandler(slog.Default(), newTestService(&stubStore{}))
	r := chi.NewRouter()
	r.Route("/dashboard", handler.MountDashboard)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
