package waitlist

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the queue state of a waitlist entry
type Status string

const (
	StatusWaiting       Status = "WAITING"
	StatusSlotAvailable Status = "SLOT_AVAILABLE"
	StatusConfirmed     Status = "CONFIRMED"
	StatusExpired       Status = "EXPIRED"
	StatusCancelled     Status = "CANCELLED"
)

// IsValid checks if the status is one of the known queue states
func (s Status) IsValid() bool {
	switch s {
	case StatusWaiting, StatusSlotAvailable, StatusConfirmed, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed from this status
func (s Status) IsTerminal() bool {
	switch s {
	case StatusConfirmed, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if the status can move to the target status
func (s Status) CanTransitionTo(target Status) bool {
	validTransitions := map[Status][]Status{
		StatusWaiting:       {StatusSlotAvailable, StatusCancelled, StatusExpired},
		StatusSlotAvailable: {StatusConfirmed, StatusWaiting, StatusCancelled, StatusExpired},
		StatusConfirmed:     {},
		StatusExpired:       {},
		StatusCancelled:     {},
	}

	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// SlotOffer is a time-boxed hold on a concrete freed slot, granted to exactly
// one entry at a time.
type SlotOffer struct {
	Date          string     `json:"date"`
	Time          string     `json:"time"`
	StaffID       *uuid.UUID `json:"staff_id,omitempty"`
	OfferedAt     time.Time  `json:"offered_at"`
	OfferDeadline time.Time  `json:"offer_deadline"`
}

// FreedSlot describes a concrete slot released by a cancelled or rescheduled
// appointment.
type FreedSlot struct {
	SalonID   uuid.UUID  `json:"salon_id"`
	ServiceID uuid.UUID  `json:"service_id"`
	StaffID   *uuid.UUID `json:"staff_id,omitempty"`
	Date      string     `json:"date"`
	Time      string     `json:"time"`
}

// Key identifies the concrete bookable slot being freed
func (f FreedSlot) Key() string {
	return SlotKey(f.SalonID, f.ServiceID, f.Date, f.Time)
}

// Entry represents one user's queued request for a service on a preferred date
type Entry struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             uuid.UUID  `json:"user_id"`
	SalonID            uuid.UUID  `json:"salon_id"`
	ServiceID          uuid.UUID  `json:"service_id"`
	StaffID            *uuid.UUID `json:"staff_id,omitempty"`
	PreferredDate      string     `json:"preferred_date"`
	PreferredTimeSlots []string   `json:"preferred_time_slots"`
	Status             Status     `json:"status"`
	Position           int        `json:"position"`
	JoinedAt           time.Time  `json:"joined_at"`
	ExpiresAt          time.Time  `json:"expires_at"`
	Offer              *SlotOffer `json:"offer,omitempty"`
	ConvertedBookingID *uuid.UUID `json:"converted_booking_id,omitempty"`
	NotifyVia          []string   `json:"notify_via,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// insertion sequence assigned by the store, tie-break for equal JoinedAt
	seq uint64
}

// IsActive reports whether the entry still occupies its user/service/date slot
func (e *Entry) IsActive() bool {
	return e.Status == StatusWaiting || e.Status == StatusSlotAvailable
}

// GroupKey returns the (service, preferred date) key positions are computed over
func (e *Entry) GroupKey() string {
	return GroupKey(e.ServiceID, e.PreferredDate)
}

// WantsTime reports whether the freed time falls inside the entry's window
func (e *Entry) WantsTime(t string) bool {
	for _, slot := range e.PreferredTimeSlots {
		if slot == t {
			return true
		}
	}
	return false
}

// AcceptsStaff reports whether the entry is compatible with the freed slot's
// staff member. An entry with no staff preference accepts anyone.
func (e *Entry) AcceptsStaff(staffID *uuid.UUID) bool {
	if e.StaffID == nil {
		return true
	}
	if staffID == nil {
		return false
	}
	return *e.StaffID == *staffID
}

// Clone returns a deep copy so store snapshots never alias caller state
func (e *Entry) Clone() *Entry {
	cp := *e
	cp.PreferredTimeSlots = append([]string(nil), e.PreferredTimeSlots...)
	cp.NotifyVia = append([]string(nil), e.NotifyVia...)
	if e.StaffID != nil {
		id := *e.StaffID
		cp.StaffID = &id
	}
	if e.Offer != nil {
		offer := *e.Offer
		cp.Offer = &offer
	}
	if e.ConvertedBookingID != nil {
		id := *e.ConvertedBookingID
		cp.ConvertedBookingID = &id
	}
	return &cp
}

// GroupKey builds the position-group key for a service and calendar date
func GroupKey(serviceID uuid.UUID, date string) string {
	return serviceID.String() + ":" + date
}

// SlotKey identifies a concrete bookable slot. At most one entry may hold an
// offer for a given slot key at a time.
func SlotKey(salonID, serviceID uuid.UUID, date, t string) string {
	return salonID.String() + ":" + serviceID.String() + ":" + date + ":" + t
}

// Notification event types emitted to the delivery collaborator
const (
	EventJoined          = "joined"
	EventPositionUpdated = "positionUpdated"
	EventSlotAvailable   = "slotAvailable"
	EventSlotConfirmed   = "slotConfirmed"
	EventSlotExpired     = "slotExpired"
)

// Wire formats for calendar dates and time-of-day slots
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

const (
	// OfferDuration is the window a user has to confirm an offered slot
	OfferDuration = 5 * time.Minute

	// QueueLifetime is the soft bound after which a waiting entry is stale
	QueueLifetime = 24 * time.Hour

	// SweepInterval is how often the background job checks for overdue offers
	SweepInterval = 1 * time.Minute

	// MaxGroupSize caps the number of waiting entries per (service, date) group
	MaxGroupSize = 500
)
