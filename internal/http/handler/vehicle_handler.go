package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/phuclong-auto/dealer-api/internal/domain"
	"github.com/phuclong-auto/dealer-api/internal/service"
)

type VehicleHandler struct {
	coordinator *service.Coordinator
	logger      *zap.Logger
}

func NewVehicleHandler(coordinator *service.Coordinator, logger *zap.Logger) *VehicleHandler {
	return &VehicleHandler{
		coordinator: coordinator,
		logger:      logger,
	}
}

// List returns the full vehicle collection, optionally filtered by status
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles := h.coordinator.Vehicles()

	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.VehicleStatus(s)
		if !status.IsValid() {
			respondWithError(w, http.StatusBadRequest, "unknown vehicle status "+s)
			return
		}
		filtered := vehicles[:0]
		for _, v := range vehicles {
			if v.Status == status {
				filtered = append(filtered, v)
			}
		}
		vehicles = filtered
	}

	respondJSON(w, http.StatusOK, vehicles)
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	vehicle, err := h.coordinator.Vehicle(id)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "vehicle not found")
		return
	}
	respondJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	vehicle, err := h.coordinator.CreateVehicle(&req)
	if err != nil {
		h.logger.Error("failed to create vehicle", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to create vehicle")
		return
	}
	respondJSON(w, http.StatusCreated, vehicle)
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.UpdateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	vehicle, err := h.coordinator.UpdateVehicle(id, &req)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			respondWithError(w, http.StatusNotFound, "vehicle not found")
			return
		}
		h.logger.Error("failed to update vehicle", zap.String("vehicleID", id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to update vehicle")
		return
	}
	respondJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.coordinator.DeleteVehicle(id); err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			respondWithError(w, http.StatusNotFound, "vehicle not found")
			return
		}
		h.logger.Error("failed to delete vehicle", zap.String("vehicleID", id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to delete vehicle")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// ChangeStatus runs the status transition protocol on a vehicle
func (h *VehicleHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	vehicle, err := h.coordinator.ChangeVehicleStatus(id, &req)
	if err != nil {
		var transitionErr *domain.InvalidTransitionError
		var validationErr *domain.ValidationError
		switch {
		case errors.Is(err, service.ErrVehicleNotFound):
			respondWithError(w, http.StatusNotFound, "vehicle not found")
		case errors.Is(err, service.ErrStaffNotFound):
			respondWithError(w, http.StatusBadRequest, "staff member not found")
		case errors.As(err, &transitionErr):
			respondTransitionError(w, transitionErr)
		case errors.As(err, &validationErr):
			respondWithError(w, http.StatusBadRequest, validationErr.Detail)
		default:
			h.logger.Error("failed to change vehicle status", zap.String("vehicleID", id), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to change vehicle status")
		}
		return
	}
	respondJSON(w, http.StatusOK, vehicle)
}

// AddCost books an expense against a vehicle
func (h *VehicleHandler) AddCost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.AddCostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	vehicle, err := h.coordinator.AddCost(id, &req)
	if err != nil {
		var validationErr *domain.ValidationError
		switch {
		case errors.Is(err, service.ErrVehicleNotFound):
			respondWithError(w, http.StatusNotFound, "vehicle not found")
		case errors.As(err, &validationErr):
			respondWithError(w, http.StatusBadRequest, validationErr.Detail)
		default:
			h.logger.Error("failed to add cost", zap.String("vehicleID", id), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to add cost")
		}
		return
	}
	respondJSON(w, http.StatusOK, vehicle)
}
