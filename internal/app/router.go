package app

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"trek/internal/handler"
	"trek/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler         *handler.TripHandler
	RegistrationHandler *handler.RegistrationHandler
	ReviewHandler       *handler.ReviewHandler
	PorterHandler       *handler.PorterHandler
	ViewHandler         *handler.ViewHandler
	Verifier            middleware.TokenVerifier
	Porters             middleware.PorterResolver
	RedisClient         *redis.Client
	NewRelicApp         *newrelic.Application
	Logger              *slog.Logger
	AllowedOrigins      []string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware(deps.AllowedOrigins...))

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(deps.Verifier, deps.Porters, deps.Logger))
	v1.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	{
		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.CreateTrip)
			trips.GET("", deps.TripHandler.ListTrips)
			trips.GET("/:id", deps.TripHandler.GetTrip)
			trips.PATCH("/:id", deps.TripHandler.EditTrip)
			trips.POST("/:id/submit", deps.TripHandler.SubmitTrip)
			trips.POST("/:id/approve", deps.TripHandler.ApproveTrip)
			trips.POST("/:id/reject", deps.TripHandler.RejectTrip)
			trips.POST("/:id/cancel", deps.TripHandler.CancelTrip)

			trips.POST("/:id/registrations", deps.RegistrationHandler.Register)
			trips.GET("/:id/registrations", deps.RegistrationHandler.ListForTrip)

			trips.POST("/:id/reviews", deps.ReviewHandler.Create)
			trips.GET("/:id/reviews", deps.ReviewHandler.ListForTrip)
		}

		registrations := v1.Group("/registrations")
		{
			registrations.POST("/:id/approve", deps.RegistrationHandler.Approve)
			registrations.POST("/:id/reject", deps.RegistrationHandler.Reject)
		}

		v1.POST("/reviews/:id/visibility", deps.ReviewHandler.SetVisibility)

		applications := v1.Group("/porter-applications")
		{
			applications.POST("", deps.PorterHandler.Apply)
			applications.GET("/me", deps.PorterHandler.Mine)
			applications.POST("/:id/approve", deps.PorterHandler.Approve)
			applications.POST("/:id/reject", deps.PorterHandler.Reject)
		}

		v1.POST("/porters/:userId/revoke", deps.PorterHandler.Revoke)

		me := v1.Group("/me")
		{
			me.GET("/trips", deps.ViewHandler.MyTrips)
			me.GET("/organized", deps.ViewHandler.MyOrganized)
		}

		v1.GET("/admin/queue", deps.ViewHandler.AdminQueue)
	}

	return router
}
