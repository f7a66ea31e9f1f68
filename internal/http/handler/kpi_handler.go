package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/phuclong-auto/dealer-api/internal/domain"
	"github.com/phuclong-auto/dealer-api/internal/service"
)

type KpiHandler struct {
	coordinator *service.Coordinator
	logger      *zap.Logger
}

func NewKpiHandler(coordinator *service.Coordinator, logger *zap.Logger) *KpiHandler {
	return &KpiHandler{
		coordinator: coordinator,
		logger:      logger,
	}
}

// parsePeriod reads month/year query params, defaulting to the current month
func parsePeriod(r *http.Request) (int, int, bool) {
	now := time.Now()
	month, year := int(now.Month()), now.Year()

	if m := r.URL.Query().Get("month"); m != "" {
		v, err := strconv.Atoi(m)
		if err != nil || v < 1 || v > 12 {
			return 0, 0, false
		}
		month = v
	}
	if y := r.URL.Query().Get("year"); y != "" {
		v, err := strconv.Atoi(y)
		if err != nil || v < 2000 {
			return 0, 0, false
		}
		year = v
	}
	return month, year, true
}

// ListTargets returns the evaluated KPI targets of a period
func (h *KpiHandler) ListTargets(w http.ResponseWriter, r *http.Request) {
	month, year, ok := parsePeriod(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid month or year")
		return
	}
	targets := h.coordinator.KpiTargets(month, year)
	respondJSON(w, http.StatusOK, targets)
}

// SaveTargets replaces the KPI targets of a period
func (h *KpiHandler) SaveTargets(w http.ResponseWriter, r *http.Request) {
	var req domain.SaveKpiTargetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	targets, err := h.coordinator.SaveKpiTargets(&req)
	if err != nil {
		h.logger.Error("failed to save kpi targets", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to save kpi targets")
		return
	}
	respondJSON(w, http.StatusOK, targets)
}

// ListSupportBonuses returns the support-department bonuses of a period
func (h *KpiHandler) ListSupportBonuses(w http.ResponseWriter, r *http.Request) {
	month, year, ok := parsePeriod(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid month or year")
		return
	}
	bonuses := h.coordinator.SupportBonuses(month, year)
	respondJSON(w, http.StatusOK, bonuses)
}

// SaveSupportBonuses replaces the support-department bonuses of a period
func (h *KpiHandler) SaveSupportBonuses(w http.ResponseWriter, r *http.Request) {
	var req domain.SaveSupportBonusesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	bonuses, err := h.coordinator.SaveSupportBonuses(&req)
	if err != nil {
		h.logger.Error("failed to save support bonuses", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to save support bonuses")
		return
	}
	respondJSON(w, http.StatusOK, bonuses)
}

// CommissionReport returns the full monthly commission breakdown
func (h *KpiHandler) CommissionReport(w http.ResponseWriter, r *http.Request) {
	month, year, ok := parsePeriod(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid month or year")
		return
	}
	report := h.coordinator.MonthlyCommissionReport(month, year)
	respondJSON(w, http.StatusOK, report)
}
