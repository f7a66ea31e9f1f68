package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phuclong-auto/dealer-api/internal/domain"
	"github.com/phuclong-auto/dealer-api/internal/http/handler"
)

func TestDashboardHandler_Summary(t *testing.T) {
	coordinator, _, _ := newTestCoordinator(t)
	h := handler.NewDashboardHandler(coordinator, zap.NewNop())

	importDate := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	seedVehicle(t, coordinator, "Toyota Camry 2.5Q", importDate)
	seedVehicle(t, coordinator, "Mazda CX-5", importDate)

	t.Run("summary figures", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard/summary?month=3&year=2026", nil)
		rr := httptest.NewRecorder()
		h.Summary(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var summary domain.DashboardSummary
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
		assert.Equal(t, 2, summary.CountsByStatus[domain.VehicleStatusInStock])
		assert.Equal(t, 600_000_000.0, summary.InventoryValue)
		assert.Equal(t, 700_000_000.0, summary.OutstandingDebt)
		assert.Zero(t, summary.MonthlySold)
	})

	t.Run("invalid period", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard/summary?month=0", nil)
		rr := httptest.NewRecorder()
		h.Summary(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
