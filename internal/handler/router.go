package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"slot-reservation-engine/internal/domain/user"
	"slot-reservation-engine/internal/handler/api"
	"slot-reservation-engine/internal/handler/middleware"
	"slot-reservation-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// Handlers groups the API handlers the router mounts.
type Handlers struct {
	Checkout     *api.CheckoutHandler
	Booking      *api.BookingHandler
	Availability *api.AvailabilityHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/resources/:id/availability", Handler: h.Availability.Availability},
		})

		authRequired := apiGroup.Group("")
		authRequired.Use(authMiddleware.RequireAuth())
		addRoutes(authRequired, []route{
			{Method: http.MethodPost, Path: "/checkout", Handler: h.Checkout.Checkout},
			{Method: http.MethodGet, Path: "/bookings", Handler: h.Booking.ListMine},
			{Method: http.MethodGet, Path: "/bookings/:id", Handler: h.Booking.Get},
			{Method: http.MethodPost, Path: "/bookings/:id/confirm", Handler: h.Booking.Confirm},
			{
				Method:  http.MethodPost,
				Path:    "/bookings/:id/attest-cash",
				Handler: h.Booking.AttestCash,
				Mw:      []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleMerchant, user.RoleAdmin)},
			},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
