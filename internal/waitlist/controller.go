package waitlist

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

func (c *Controller) JoinWaitlist(ctx *gin.Context) {
	var request JoinWaitlistRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	entry, err := c.service.Join(ctx.Request.Context(), userID, JoinInput{
		SalonID:            request.SalonID,
		ServiceID:          request.ServiceID,
		StaffID:            request.StaffID,
		PreferredDate:      request.PreferredDate,
		PreferredTimeSlots: request.PreferredTimeSlots,
		NotifyVia:          request.NotifyVia,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Successfully joined waitlist",
		"data":    entry,
	})
}

func (c *Controller) GetMyEntries(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	entries, err := c.service.ListForUser(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": entries,
	})
}

func (c *Controller) GetEntry(ctx *gin.Context) {
	entryID, userID, ok := c.entryAndUser(ctx)
	if !ok {
		return
	}

	entry, err := c.service.Get(ctx.Request.Context(), entryID, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": entry,
	})
}

func (c *Controller) CancelEntry(ctx *gin.Context) {
	entryID, userID, ok := c.entryAndUser(ctx)
	if !ok {
		return
	}

	entry, err := c.service.Cancel(ctx.Request.Context(), entryID, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Successfully left waitlist",
		"data":    entry,
	})
}

func (c *Controller) ConfirmSlot(ctx *gin.Context) {
	entryID, userID, ok := c.entryAndUser(ctx)
	if !ok {
		return
	}

	entry, err := c.service.ConfirmSlot(ctx.Request.Context(), entryID, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Slot confirmed",
		"data":    entry,
	})
}

func (c *Controller) SkipSlot(ctx *gin.Context) {
	entryID, userID, ok := c.entryAndUser(ctx)
	if !ok {
		return
	}

	entry, err := c.service.SkipSlot(ctx.Request.Context(), entryID, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Slot skipped, moved to back of queue",
		"data":    entry,
	})
}

// GetGroupQueue serves the public queue view for a service and date. Reads
// come from the snapshot cache when available, never from under the group lock.
func (c *Controller) GetGroupQueue(ctx *gin.Context) {
	serviceID, err := uuid.Parse(ctx.Param("service_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid service ID",
		})
		return
	}

	view, err := c.service.GroupView(ctx.Request.Context(), serviceID, ctx.Query("date"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": view,
	})
}

// Admin handlers

func (c *Controller) GetSalonEntries(ctx *gin.Context) {
	salonID, err := uuid.Parse(ctx.Param("salon_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid salon ID",
		})
		return
	}

	status := Status(ctx.Query("status"))
	date := ctx.Query("date")

	entries, err := c.service.ListForSalon(ctx.Request.Context(), salonID, status, date)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": entries,
	})
}

func (c *Controller) GetGroupStats(ctx *gin.Context) {
	serviceID, err := uuid.Parse(ctx.Param("service_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid service ID",
		})
		return
	}

	date := ctx.Query("date")
	stats, err := c.service.GroupStats(ctx.Request.Context(), serviceID, date)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": stats,
	})
}

func (c *Controller) OfferSlot(ctx *gin.Context) {
	entryID, err := uuid.Parse(ctx.Param("entry_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid entry ID",
		})
		return
	}

	var request OfferSlotRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	entry, err := c.service.OfferSlot(ctx.Request.Context(), entryID, request.SlotDate, request.SlotTime, request.StaffID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Slot offered",
		"data":    entry,
	})
}

func (c *Controller) ProcessFreedSlot(ctx *gin.Context) {
	var request SlotFreedRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	entry, err := c.service.HandleSlotFreed(ctx.Request.Context(), FreedSlot{
		SalonID:   request.SalonID,
		ServiceID: request.ServiceID,
		StaffID:   request.StaffID,
		Date:      request.Date,
		Time:      request.Time,
	})
	if errors.Is(err, ErrNoMatch) {
		ctx.JSON(http.StatusOK, gin.H{
			"message": "No waiting entry matches the freed slot",
		})
		return
	}
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Slot offered to next in line",
		"data":    entry,
	})
}

func (c *Controller) HealthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "waitlist",
	})
}

// entryAndUser parses the entry id path param and the authenticated user id
func (c *Controller) entryAndUser(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	entryID, err := uuid.Parse(ctx.Param("entry_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid entry ID",
		})
		return uuid.Nil, uuid.Nil, false
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return entryID, userID, true
}

// currentUserID extracts the authenticated user's id set by the JWT middleware
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

// respondError maps business errors to HTTP status codes
func respondError(ctx *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrAlreadyQueued),
		errors.Is(err, ErrSlotHeld), errors.Is(err, ErrGroupFull):
		status = http.StatusConflict
	case errors.Is(err, ErrOfferExpired):
		status = http.StatusGone
	}

	ctx.JSON(status, gin.H{
		"error": err.Error(),
	})
}
