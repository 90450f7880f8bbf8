package bookings

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Appointment source values
const (
	SourceDirect   = "DIRECT"
	SourceWaitlist = "WAITLIST"
)

// Appointment is a confirmed salon booking for a concrete service slot
type Appointment struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	SalonID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"salon_id"`
	ServiceID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"service_id"`
	StaffID     *uuid.UUID `gorm:"type:uuid;index" json:"staff_id,omitempty"`
	Date        string     `gorm:"type:varchar(10);not null;index" json:"date"`
	Time        string     `gorm:"type:varchar(5);not null" json:"time"`
	Status      string     `gorm:"type:varchar(20);check:status IN ('CONFIRMED', 'CANCELLED');default:'CONFIRMED'" json:"status"`
	Source      string     `gorm:"type:varchar(20);check:source IN ('DIRECT', 'WAITLIST');default:'DIRECT'" json:"source"`
	BookingRef  string     `gorm:"unique;not null" json:"booking_ref"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// TableName sets the table name for Appointment
func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) IsConfirmed() bool {
	return a.Status == "CONFIRMED"
}

func (a *Appointment) IsCancelled() bool {
	return a.Status == "CANCELLED"
}

func (a *Appointment) Cancel() {
	a.Status = "CANCELLED"
	now := time.Now()
	a.CancelledAt = &now
	a.UpdatedAt = now
}

// NewBookingRef generates a short human-readable booking reference
func NewBookingRef() string {
	return "APT-" + strings.ToUpper(uuid.New().String()[:8])
}
