package gains

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/ballast-erp/ballast-erp/internal/shared"
)

func testRouter(repo *memoryRepo) http.Handler {
	handler := NewHandler(slog.Default(), NewService(slog.Default(), repo))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			org := &shared.Organization{ID: 1, Name: "Dune Traders", OwnerUserID: 1}
			next.ServeHTTP(w, req.WithContext(shared.ContextWithOrganization(req.Context(), org)))
		})
	})
	r.Route("/drying-gains", handler.MountRoutes)
	return r
}

func TestListGainsEndpointFiltersByProductID(t *testing.T) {
	repo := newMemoryRepo()
	repo.products[5] = &memProduct{orgID: 1}
	repo.products[6] = &memProduct{orgID: 1}
	svc := NewService(slog.Default(), repo)
	ctx := context.Background()

	_, err := svc.Record(ctx, 1, RecordInput{ProductID: 5, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.Record(ctx, 1, RecordInput{ProductID: 6, Quantity: 2})
	require.NoError(t, err)

	router := testRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/drying-gains?productId=6", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []DryingGain `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	require.Equal(t, int64(6), body.Items[0].ProductID)

	req = httptest.NewRequest(http.MethodGet, "/drying-gains", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 2)
}
