package waitlist

import (
	"slotline/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupWaitlistRoutes configures all waitlist-related routes following the same pattern as other modules
func SetupWaitlistRoutes(rg *gin.RouterGroup, controller *Controller) {
	waitlist := rg.Group("/waitlist")
	{
		// Health check and public queue view - no auth required
		waitlist.GET("/health", controller.HealthCheck)
		waitlist.GET("/groups/:service_id", controller.GetGroupQueue)

		// Authenticated user operations
		authenticated := waitlist.Group("")
		authenticated.Use(middleware.JWTAuth(), middleware.RequireRoles("USER", "ADMIN"))
		{
			authenticated.POST("", controller.JoinWaitlist)                    // JOIN waitlist
			authenticated.GET("/entries", controller.GetMyEntries)             // List own entries
			authenticated.GET("/entries/:entry_id", controller.GetEntry)       // Get one entry
			authenticated.DELETE("/entries/:entry_id", controller.CancelEntry) // LEAVE waitlist
			authenticated.POST("/entries/:entry_id/confirm", controller.ConfirmSlot)
			authenticated.POST("/entries/:entry_id/skip", controller.SkipSlot)
		}
	}

	// Admin waitlist routes
	adminWaitlist := rg.Group("/admin/waitlist")
	adminWaitlist.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminWaitlist.GET("/salons/:salon_id/entries", controller.GetSalonEntries) // List salon entries
		adminWaitlist.GET("/stats/:service_id", controller.GetGroupStats)          // Group stats
		adminWaitlist.POST("/entries/:entry_id/offer", controller.OfferSlot)       // Manual offer
		adminWaitlist.POST("/slot-freed", controller.ProcessFreedSlot)             // Freed slot hook
	}
}
