package catalog

import (
	"github.com/gin-gonic/gin"
)

// SetupCatalogRoutes configures public catalog browsing routes
func SetupCatalogRoutes(rg *gin.RouterGroup, controller *Controller) {
	salons := rg.Group("/salons")
	{
		salons.GET("", controller.ListSalons)
		salons.GET("/:salon_id/services", controller.ListSalonServices)
	}
}
