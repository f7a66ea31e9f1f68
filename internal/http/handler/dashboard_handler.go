package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/phuclong-auto/dealer-api/internal/service"
)

type DashboardHandler struct {
	coordinator *service.Coordinator
	logger      *zap.Logger
}

func NewDashboardHandler(coordinator *service.Coordinator, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		coordinator: coordinator,
		logger:      logger,
	}
}

// Summary returns inventory counts and the financial figures of a month
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	month, year, ok := parsePeriod(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid month or year")
		return
	}
	summary := h.coordinator.DashboardSummary(month, year)
	respondJSON(w, http.StatusOK, summary)
}
