package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/phuclong-auto/dealer-api/internal/config"
	"github.com/phuclong-auto/dealer-api/internal/database"
	"github.com/phuclong-auto/dealer-api/internal/http/handler"
	"github.com/phuclong-auto/dealer-api/internal/http/middleware"
	"github.com/phuclong-auto/dealer-api/internal/localstore"
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	local            *localstore.Store
	rateLimiter      *middleware.RateLimiter
	vehicleHandler   *handler.VehicleHandler
	staffHandler     *handler.StaffHandler
	kpiHandler       *handler.KpiHandler
	syncHandler      *handler.SyncHandler
	dashboardHandler *handler.DashboardHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	local *localstore.Store,
	rateLimiter *middleware.RateLimiter,
	vehicleHandler *handler.VehicleHandler,
	staffHandler *handler.StaffHandler,
	kpiHandler *handler.KpiHandler,
	syncHandler *handler.SyncHandler,
	dashboardHandler *handler.DashboardHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		local:            local,
		rateLimiter:      rateLimiter,
		vehicleHandler:   vehicleHandler,
		staffHandler:     staffHandler,
		kpiHandler:       kpiHandler,
		syncHandler:      syncHandler,
		dashboardHandler: dashboardHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Remote database health check. The API stays up without the remote;
	// this probe only reports whether sync can reach it.
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
		})
	})

	// Combined readiness check. Readiness hinges on the local store
	// alone; the remote being down is reported but does not fail the
	// probe, since the app keeps serving from the local mirror.
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := rt.local.HealthCheck(); err != nil {
			rt.logger.Error("local store health check failed", zap.Error(err))
			checks["localStore"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["localStore"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		if err := database.HealthCheck(rt.db); err != nil {
			checks["remoteDatabase"] = map[string]interface{}{
				"status": "unreachable",
				"error":  err.Error(),
			}
		} else {
			checks["remoteDatabase"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Vehicles
		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", rt.vehicleHandler.List)
			r.Post("/", rt.vehicleHandler.Create)
			r.Get("/{id}", rt.vehicleHandler.Get)
			r.Put("/{id}", rt.vehicleHandler.Update)
			r.Delete("/{id}", rt.vehicleHandler.Delete)
			r.Post("/{id}/status", rt.vehicleHandler.ChangeStatus)
			r.Post("/{id}/costs", rt.vehicleHandler.AddCost)
		})

		// Staff
		r.Route("/staff", func(r chi.Router) {
			r.Get("/", rt.staffHandler.List)
			r.Post("/", rt.staffHandler.Create)
			r.Get("/{id}", rt.staffHandler.Get)
			r.Put("/{id}", rt.staffHandler.Update)
			r.Delete("/{id}", rt.staffHandler.Delete)
		})

		// KPI targets and commission
		r.Route("/kpi", func(r chi.Router) {
			r.Get("/targets", rt.kpiHandler.ListTargets)
			r.Put("/targets", rt.kpiHandler.SaveTargets)
			r.Get("/support-bonuses", rt.kpiHandler.ListSupportBonuses)
			r.Put("/support-bonuses", rt.kpiHandler.SaveSupportBonuses)
			r.Get("/report", rt.kpiHandler.CommissionReport)
		})

		// Sync
		r.Route("/sync", func(r chi.Router) {
			r.Post("/", rt.syncHandler.Trigger)
			r.Get("/status", rt.syncHandler.Status)
		})

		// Dashboard
		r.Get("/dashboard/summary", rt.dashboardHandler.Summary)
	})

	return r
}
