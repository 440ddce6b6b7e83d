package statement

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/procureflow/procureflow/internal/ledger"
)

func newTestHandler(t *testing.T, source *fakeSource, balances *fakeBalances) http.Handler {
	t.Helper()
	svc := NewService(source, balances, nil, nil)
	h := NewHandler(nil, svc)
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func TestStatementEndpoint(t *testing.T) {
	router := newTestHandler(t, &fakeSource{aggregates: sampleAggregates()}, &fakeBalances{opening: decimal.RequireFromString("1000")})

	req := httptest.NewRequest(http.MethodGet, "/7/statement?projection=po", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var view View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, int64(7), view.VendorID)
	require.Len(t, view.Entries, 3)
	require.True(t, view.Totals.ClosingBalance.Equal(decimal.RequireFromString("8000")))
}

func TestStatementEndpointFilters(t *testing.T) {
	router := newTestHandler(t, &fakeSource{aggregates: sampleAggregates()}, &fakeBalances{})

	req := httptest.NewRequest(http.MethodGet, "/7/statement?projection=po&date_op=on-or-after&on=2025-03-03&project=Tower+B", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var view View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Entries, 1)
	require.Equal(t, "PO PO-2", view.Entries[0].Details)
}

func TestStatementEndpointBadRequests(t *testing.T) {
	router := newTestHandler(t, &fakeSource{aggregates: sampleAggregates()}, &fakeBalances{})

	for _, target := range []string{
		"/not-a-number/statement",
		"/7/statement?date_op=is&on=March-3rd",
		"/7/statement?threshold=high",
		"/7/statement?projection=weekly",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestStatementEndpointContractViolation(t *testing.T) {
	broken := []ledger.PurchaseOrderAggregate{{ID: "PO-X", TotalAmount: decimal.RequireFromString("10")}}
	router := newTestHandler(t, &fakeSource{aggregates: broken}, &fakeBalances{})

	req := httptest.NewRequest(http.MethodGet, "/7/statement", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestExportCSVEndpoint(t *testing.T) {
	router := newTestHandler(t, &fakeSource{aggregates: sampleAggregates()}, &fakeBalances{opening: decimal.RequireFromString("1000")})

	req := httptest.NewRequest(http.MethodGet, "/7/statement/export.csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "vendor-7-po-")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Equal(t, "Date,Transaction,Project,Details,Amount,Payment,Balance", lines[0])
	require.True(t, strings.HasPrefix(lines[1], ",Opening Balance"))
	require.True(t, strings.HasPrefix(lines[len(lines)-1], ",Total"))
}

func TestExportXLSXEndpoint(t *testing.T) {
	router := newTestHandler(t, &fakeSource{aggregates: sampleAggregates()}, &fakeBalances{})

	req := httptest.NewRequest(http.MethodGet, "/7/statement/export.xlsx", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	require.NotZero(t, rec.Body.Len())
}
