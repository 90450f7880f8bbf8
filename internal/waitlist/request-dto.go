package waitlist

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type JoinWaitlistRequest struct {
	SalonID            uuid.UUID  `json:"salon_id" binding:"required"`
	ServiceID          uuid.UUID  `json:"service_id" binding:"required"`
	StaffID            *uuid.UUID `json:"staff_id,omitempty"`
	PreferredDate      string     `json:"preferred_date" binding:"required,calendardate"`
	PreferredTimeSlots []string   `json:"preferred_time_slots" binding:"required,min=1,dive,timeslot"`
	NotifyVia          []string   `json:"notify_via,omitempty" binding:"omitempty,dive,oneof=push email sms"`
}

type OfferSlotRequest struct {
	SlotDate string     `json:"slot_date" binding:"required,calendardate"`
	SlotTime string     `json:"slot_time" binding:"required,timeslot"`
	StaffID  *uuid.UUID `json:"staff_id,omitempty"`
}

type SlotFreedRequest struct {
	SalonID   uuid.UUID  `json:"salon_id" binding:"required"`
	ServiceID uuid.UUID  `json:"service_id" binding:"required"`
	StaffID   *uuid.UUID `json:"staff_id,omitempty"`
	Date      string     `json:"date" binding:"required,calendardate"`
	Time      string     `json:"time" binding:"required,timeslot"`
}

// Custom format validators for calendar dates and time-of-day slots
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("calendardate", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(DateLayout, fl.Field().String())
			return err == nil
		})
		v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(TimeLayout, fl.Field().String())
			return err == nil
		})
	}
}
