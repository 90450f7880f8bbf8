package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	directory *Directory
}

func NewController(directory *Directory) *Controller {
	return &Controller{
		directory: directory,
	}
}

func (c *Controller) ListSalons(ctx *gin.Context) {
	salons, err := c.directory.ListSalons(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": salons,
	})
}

func (c *Controller) ListSalonServices(ctx *gin.Context) {
	salonID, err := uuid.Parse(ctx.Param("salon_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid salon ID",
		})
		return
	}

	services, err := c.directory.ListSalonServices(ctx.Request.Context(), salonID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		ctx.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": services,
	})
}
