package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"stay-booking/internal/domain/user"
	"stay-booking/internal/handler/api"
	"stay-booking/internal/handler/middleware"
	"stay-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Reservations *api.ReservationHandler
	Units        *api.UnitHandler
	Payments     *api.PaymentHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, handlers Handlers, authMiddleware *middleware.AuthMiddleware, logger *slog.Logger) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, cfg, handlers, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(logger))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	hostOrAdmin := authMiddleware.RequireRole(user.RoleHost, user.RoleAdmin)

	apiGroup := engine.Group("/api")
	{
		reservations := apiGroup.Group("/reservations")
		reservations.Use(authMiddleware.RequireAuth())
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Reservations.CreateReservation},
				{Method: http.MethodGet, Path: "", Handler: h.Reservations.ListMyReservations},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Reservations.GetReservation},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: h.Reservations.Confirm, Mw: []gin.HandlerFunc{hostOrAdmin}},
				{Method: http.MethodPost, Path: "/:id/reject", Handler: h.Reservations.Reject, Mw: []gin.HandlerFunc{hostOrAdmin}},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Reservations.Cancel},
				{Method: http.MethodPost, Path: "/:id/check-in", Handler: h.Reservations.CheckIn, Mw: []gin.HandlerFunc{hostOrAdmin}},
				{Method: http.MethodPost, Path: "/:id/check-out", Handler: h.Reservations.CheckOut, Mw: []gin.HandlerFunc{hostOrAdmin}},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: h.Reservations.Complete, Mw: []gin.HandlerFunc{hostOrAdmin}},
				{Method: http.MethodPost, Path: "/:id/no-show", Handler: h.Reservations.MarkNoShow, Mw: []gin.HandlerFunc{hostOrAdmin}},
				{Method: http.MethodPost, Path: "/:id/reschedule", Handler: h.Reservations.Reschedule},
				{Method: http.MethodPost, Path: "/:id/coupon", Handler: h.Reservations.ApplyCoupon},
				{Method: http.MethodDelete, Path: "/:id/coupon", Handler: h.Reservations.RemoveCoupon},
				{Method: http.MethodGet, Path: "/:id/review-eligibility", Handler: h.Reservations.ReviewEligibility},
			})
		}

		units := apiGroup.Group("/units")
		{
			addRoutes(units, []route{
				{Method: http.MethodGet, Path: "/:id/availability", Handler: h.Units.CheckAvailability},
				{Method: http.MethodGet, Path: "/:id/price", Handler: h.Units.QuotePrice},
				{Method: http.MethodGet, Path: "/:id/calendar", Handler: h.Units.GetCalendar},
			})

			authRequired := units.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/:id/coupons", Handler: h.Units.ListApplicableCoupons},
				{Method: http.MethodPut, Path: "/:id/calendar", Handler: h.Units.UpsertCalendar, Mw: []gin.HandlerFunc{hostOrAdmin}},
				{Method: http.MethodDelete, Path: "/:id/calendar", Handler: h.Units.DeleteCalendar, Mw: []gin.HandlerFunc{hostOrAdmin}},
			})
		}
	}

	internal := engine.Group("/internal/payments")
	internal.Use(middleware.RequirePaymentSignature(cfg.Payments.WebhookSecret))
	addRoutes(internal, []route{
		{Method: http.MethodPost, Path: "/events", Handler: h.Payments.HandleEvent},
	})
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
