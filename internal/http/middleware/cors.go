package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/phuclong-auto/dealer-api/internal/config"
)

// CORS builds the cross-origin middleware from config. The dashboard
// frontend is the only expected browser client, so production deploys
// should list its origin explicitly; wildcard and empty configurations
// fall back to permissive behavior in development only.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	allowAny := func(r *http.Request, origin string) bool { return origin != "" }

	switch {
	case hasWildcard(cfg.AllowedOrigins):
		if !isDevelopment(environment) {
			logger.Warn("CORS wildcard origin outside development",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = allowAny

	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS restricted to configured origins",
			zap.Strings("origins", cfg.AllowedOrigins))

	case isDevelopment(environment):
		options.AllowOriginFunc = allowAny
		logger.Info("CORS allowing all origins in development mode")

	default:
		// An empty AllowedOrigins list would default to "*" inside the
		// cors package, so deny explicitly
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
		logger.Warn("CORS has no allowed origins, denying all cross-origin requests",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}

func hasWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func isDevelopment(environment string) bool {
	return environment == "development" || environment == "local" || environment == ""
}
