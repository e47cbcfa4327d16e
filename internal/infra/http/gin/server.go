package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"staybook/internal/infra/config"
	"staybook/internal/infra/obs"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	Confirm(c *gin.Context)
	Cancel(c *gin.Context)
	Quote(c *gin.Context)
}

type HostPricingHTTP interface {
	Calendar(c *gin.Context)
	UpdatePricing(c *gin.Context)
	ApplyOverrides(c *gin.Context)
	ClearOverrides(c *gin.Context)
	CreateSeason(c *gin.Context)
	DeleteSeason(c *gin.Context)
	PriceSuggestion(c *gin.Context)
}

type Handlers struct {
	Booking            BookingHTTP
	HostPricing        HostPricingHTTP
	IdentityMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", "X-User-ID", "X-User-Roles"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.IdentityMiddleware != nil {
		router.Use(h.IdentityMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.POST("/bookings/:id/confirm", h.Booking.Confirm)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
		api.GET("/listings/:id/quote", h.Booking.Quote)
	}
	if h.HostPricing != nil {
		hostGroup := api.Group("/host/listings/:id")
		hostGroup.GET("/calendar", h.HostPricing.Calendar)
		hostGroup.PUT("/pricing", h.HostPricing.UpdatePricing)
		hostGroup.POST("/overrides", h.HostPricing.ApplyOverrides)
		hostGroup.DELETE("/overrides", h.HostPricing.ClearOverrides)
		hostGroup.POST("/seasons", h.HostPricing.CreateSeason)
		hostGroup.DELETE("/seasons/:seasonID", h.HostPricing.DeleteSeason)
		hostGroup.GET("/price-suggestion", h.HostPricing.PriceSuggestion)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
