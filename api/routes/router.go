// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"slotline/internal/bookings"
	"slotline/internal/catalog"
	"slotline/internal/notifications"
	"slotline/internal/shared/config"
	"slotline/internal/shared/database"
	"slotline/internal/waitlist"
	"slotline/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config     *config.Config
	db         *database.DB
	dispatcher *notifications.Dispatcher

	// built during SetupRoutes, shared across modules
	cacheService    cache.Service
	directory       *catalog.Directory
	bookingService  *bookings.Service
	waitlistService *waitlist.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, dispatcher *notifications.Dispatcher) *Router {
	return &Router{
		config:     cfg,
		db:         db,
		dispatcher: dispatcher,
	}
}

// WaitlistService exposes the engine for background job wiring.
// Valid only after SetupRoutes has run.
func (r *Router) WaitlistService() *waitlist.Service {
	return r.waitlistService
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	if r.db.Redis != nil {
		r.cacheService = cache.NewService(r.db.GetRedisClient())
	}

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Catalog first: the waitlist engine decorates entries with it
		r.setupCatalogRoutes(api)

		// Bookings before waitlist so the engine can mint appointments
		r.setupBookingRoutes(api)

		r.setupWaitlistRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "slotline-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "slotline-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupCatalogRoutes configures salon directory routes
func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) {
	catalogRepo := catalog.NewRepository(r.db.GetPostgreSQL())
	r.directory = catalog.NewDirectory(catalogRepo, r.cacheService)
	catalogController := catalog.NewController(r.directory)

	catalog.SetupCatalogRoutes(rg, catalogController)
}

// setupBookingRoutes configures appointment routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	r.bookingService = bookings.NewService(bookingRepo)
	bookingController := bookings.NewController(r.bookingService)

	bookings.SetupBookingRoutes(rg, bookingController)
}

// setupWaitlistRoutes configures the queue engine and its routes
func (r *Router) setupWaitlistRoutes(rg *gin.RouterGroup) {
	store := waitlist.NewMemoryStore()

	serviceConfig := &waitlist.ServiceConfig{
		OfferDuration: r.config.Waitlist.OfferDuration,
		QueueLifetime: r.config.Waitlist.QueueLifetime,
		MaxGroupSize:  r.config.Waitlist.MaxGroupSize,
	}

	// A nil *Dispatcher must stay a nil interface inside the engine
	var notifier waitlist.NotificationService
	if r.dispatcher != nil {
		notifier = r.dispatcher
	}

	r.waitlistService = waitlist.NewService(store, notifier, r.bookingService, r.directory, serviceConfig)
	if r.cacheService != nil {
		r.waitlistService.WithSnapshots(waitlist.NewSnapshots(r.cacheService))
	}

	// Cancelled appointments feed freed slots back into the queue
	r.bookingService.SetSlotReleaseHandler(r.waitlistService)

	waitlistController := waitlist.NewController(r.waitlistService)
	waitlist.SetupWaitlistRoutes(rg, waitlistController)
}
