package bookings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service *Service
}

func NewController(service *Service) *Controller {
	return &Controller{
		service: service,
	}
}

func (c *Controller) GetMyAppointments(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	appointments, err := c.service.ListForUser(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": appointments,
	})
}

func (c *Controller) GetAppointment(ctx *gin.Context) {
	appointmentID, userID, ok := c.appointmentAndUser(ctx)
	if !ok {
		return
	}

	appointment, err := c.service.Get(ctx.Request.Context(), appointmentID, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": appointment,
	})
}

func (c *Controller) CancelAppointment(ctx *gin.Context) {
	appointmentID, userID, ok := c.appointmentAndUser(ctx)
	if !ok {
		return
	}

	appointment, err := c.service.Cancel(ctx.Request.Context(), appointmentID, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Appointment cancelled",
		"data":    appointment,
	})
}

func (c *Controller) appointmentAndUser(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	appointmentID, err := uuid.Parse(ctx.Param("appointment_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid appointment ID",
		})
		return uuid.Nil, uuid.Nil, false
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return appointmentID, userID, true
}

func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := ctx.Get("user_id")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID",
		})
		return uuid.Nil, false
	}
	return userID, true
}

func respondError(ctx *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrAppointmentForbidden):
		status = http.StatusForbidden
	case errors.Is(err, ErrAlreadyCancelled):
		status = http.StatusConflict
	}

	ctx.JSON(status, gin.H{
		"error": err.Error(),
	})
}
