package middleware

import (
	"log/slog"
	"slices"

	"slot-reservation-engine/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// checkout answers with Location and, on replay, Idempotent-Replayed; browsers must be allowed to read both
var requiredExposedHeaders = []string{"Location", HeaderRequestID, HeaderIdempotentReplayed}

func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	expose := append([]string(nil), cfg.ExposeHeaders...)
	for _, h := range requiredExposedHeaders {
		if !slices.Contains(expose, h) {
			expose = append(expose, h)
		}
	}

	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    expose,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	slog.Info("CORS middleware initialized", "allow_origins", cfg.AllowOrigins, "expose_headers", expose)
	return cors.New(corsCfg)
}
