package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/phuclong-auto/dealer-api/internal/service"
	syncengine "github.com/phuclong-auto/dealer-api/internal/sync"
)

type SyncHandler struct {
	coordinator *service.Coordinator
	logger      *zap.Logger
}

func NewSyncHandler(coordinator *service.Coordinator, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		coordinator: coordinator,
		logger:      logger,
	}
}

// Trigger runs a sync cycle on demand
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	result, err := h.coordinator.SyncNow(r.Context())
	if err != nil {
		if errors.Is(err, syncengine.ErrSyncInProgress) {
			respondWithError(w, http.StatusConflict, "sync already in progress")
			return
		}
		h.logger.Error("manual sync failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "sync failed")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Status reports whether a cycle is running and the pending queue depth
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	pending, err := h.coordinator.PendingCount()
	if err != nil {
		h.logger.Error("failed to read pending queue depth", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to read sync status")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"syncing":        h.coordinator.IsSyncing(),
		"pendingActions": pending,
	})
}
