// Package routes assembles the gin engine: middleware, public endpoints and the /api/v1 admin group.
package routes

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-assistant-api/config"
	"github.com/kendall-kelly/restaurant-assistant-api/controllers"
	"github.com/kendall-kelly/restaurant-assistant-api/metrics"
	"github.com/kendall-kelly/restaurant-assistant-api/middleware"
	"github.com/kendall-kelly/restaurant-assistant-api/services"
	"github.com/kendall-kelly/restaurant-assistant-api/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Deps carries everything the router needs. SMS and Storage may be nil when those features are off.
type Deps struct {
	Config   *config.Config
	Log      *logrus.Logger
	Store    *store.Store
	SMS      services.SMSSender
	Storage  services.ObjectStorage
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	// AdminAuth replaces the Auth0 chain on /api/v1 when set
	AdminAuth []gin.HandlerFunc
}

// SetupRouter builds the HTTP handler for the API
func SetupRouter(deps Deps) (*gin.Engine, error) {
	cfg := deps.Config
	log := deps.Log

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log, deps.Metrics))
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	messageService := services.NewMessageService(deps.Store, deps.SMS, deps.Metrics, log)
	transcriptService := services.NewTranscriptService(deps.Store, deps.Storage, log)

	systemController := controllers.NewSystemController(deps.Store, log)
	customerController := controllers.NewCustomerController(deps.Store, log)
	reservationController := controllers.NewReservationController(deps.Store, log)
	restrictionController := controllers.NewDietaryRestrictionController(deps.Store, log)
	messageController := controllers.NewMessageController(messageService, transcriptService, log)

	router.GET("/", systemController.Root)
	router.GET("/health", systemController.Health)
	router.GET("/customers", customerController.List)
	router.GET("/reservations", reservationController.List)

	receive := []gin.HandlerFunc{messageController.Receive}
	if cfg.TwilioValidateSignature {
		receive = append([]gin.HandlerFunc{
			middleware.ValidateTwilioSignature(cfg.TwilioAuthToken, cfg.TwilioWebhookURL, log),
		}, receive...)
	}
	router.POST("/messages/receive", receive...)

	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	adminAuth, err := adminAuthChain(deps)
	if err != nil {
		return nil, err
	}

	v1 := router.Group("/api/v1", adminAuth...)
	{
		v1.GET("/database/status", systemController.DatabaseStatus)

		v1.POST("/customers", customerController.Create)
		v1.GET("/customers/:id", customerController.Get)
		v1.PUT("/customers/:id", customerController.Update)
		v1.GET("/customers/:id/reservations", customerController.ListReservations)

		v1.POST("/reservations", reservationController.Create)
		v1.GET("/reservations/:id", reservationController.Get)
		v1.PATCH("/reservations/:id/status", reservationController.UpdateStatus)
		v1.GET("/reservations/:id/messages", messageController.ListForReservation)
		v1.POST("/reservations/:id/messages", messageController.Send)
		v1.POST("/reservations/:id/transcript", messageController.ArchiveTranscript)

		v1.PATCH("/messages/:id/read", messageController.MarkRead)

		v1.GET("/dietary-restrictions", restrictionController.List)
		v1.POST("/dietary-restrictions", restrictionController.Create)
	}

	return router, nil
}

// adminAuthChain returns the handlers guarding /api/v1
func adminAuthChain(deps Deps) ([]gin.HandlerFunc, error) {
	if deps.AdminAuth != nil {
		return deps.AdminAuth, nil
	}

	if !deps.Config.AuthEnabled() {
		if deps.Config.IsProduction() {
			return nil, fmt.Errorf("AUTH0_DOMAIN and AUTH0_AUDIENCE are required in production")
		}
		deps.Log.Warn("Auth0 is not configured; /api/v1 routes are unauthenticated")
		return nil, nil
	}

	ensureValidToken, err := middleware.EnsureValidToken(deps.Config, deps.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up authentication: %w", err)
	}

	return []gin.HandlerFunc{
		ensureValidToken,
		middleware.RequireScope(middleware.ScopeManageRestaurant),
	}, nil
}
