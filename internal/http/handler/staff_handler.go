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

type StaffHandler struct {
	coordinator *service.Coordinator
	logger      *zap.Logger
}

func NewStaffHandler(coordinator *service.Coordinator, logger *zap.Logger) *StaffHandler {
	return &StaffHandler{
		coordinator: coordinator,
		logger:      logger,
	}
}

// List returns the staff collection, optionally filtered by team
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	staff := h.coordinator.StaffList()

	if t := r.URL.Query().Get("team"); t != "" {
		team := domain.StaffTeam(t)
		if !team.IsValid() {
			respondWithError(w, http.StatusBadRequest, "unknown team "+t)
			return
		}
		filtered := staff[:0]
		for _, member := range staff {
			if member.Team == team {
				filtered = append(filtered, member)
			}
		}
		staff = filtered
	}

	respondJSON(w, http.StatusOK, staff)
}

func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	member, err := h.coordinator.StaffMember(id)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "staff member not found")
		return
	}
	respondJSON(w, http.StatusOK, member)
}

func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	member, err := h.coordinator.CreateStaff(&req)
	if err != nil {
		h.logger.Error("failed to create staff", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to create staff")
		return
	}
	respondJSON(w, http.StatusCreated, member)
}

func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.UpdateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	member, err := h.coordinator.UpdateStaff(id, &req)
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			respondWithError(w, http.StatusNotFound, "staff member not found")
			return
		}
		h.logger.Error("failed to update staff", zap.String("staffID", id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to update staff")
		return
	}
	respondJSON(w, http.StatusOK, member)
}

func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.coordinator.DeleteStaff(id); err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			respondWithError(w, http.StatusNotFound, "staff member not found")
			return
		}
		h.logger.Error("failed to delete staff", zap.String("staffID", id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to delete staff")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
