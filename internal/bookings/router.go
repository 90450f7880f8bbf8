package bookings

import (
	"slotline/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all appointment-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	appointments := rg.Group("/appointments")
	appointments.Use(middleware.JWTAuth(), middleware.RequireRoles("USER", "ADMIN"))
	{
		appointments.GET("", controller.GetMyAppointments)
		appointments.GET("/:appointment_id", controller.GetAppointment)
		appointments.DELETE("/:appointment_id", controller.CancelAppointment)
	}
}
