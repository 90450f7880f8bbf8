package waitlist

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusWaiting, StatusSlotAvailable, true},
		{StatusWaiting, StatusCancelled, true},
		{StatusWaiting, StatusExpired, true},
		{StatusWaiting, StatusConfirmed, false},
		{StatusSlotAvailable, StatusConfirmed, true},
		{StatusSlotAvailable, StatusWaiting, true},
		{StatusSlotAvailable, StatusCancelled, true},
		{StatusSlotAvailable, StatusExpired, true},
		{StatusConfirmed, StatusWaiting, false},
		{StatusExpired, StatusWaiting, false},
		{StatusCancelled, StatusSlotAvailable, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusWaiting.IsTerminal())
	assert.False(t, StatusSlotAvailable.IsTerminal())
	assert.True(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusExpired.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, StatusWaiting.IsValid())
	assert.True(t, StatusSlotAvailable.IsValid())
	assert.False(t, Status("PENDING").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestEntryWantsTime(t *testing.T) {
	entry := &Entry{PreferredTimeSlots: []string{"10:00", "14:30"}}

	assert.True(t, entry.WantsTime("10:00"))
	assert.True(t, entry.WantsTime("14:30"))
	assert.False(t, entry.WantsTime("11:00"))
}

func TestEntryAcceptsStaff(t *testing.T) {
	preferred := uuid.New()
	other := uuid.New()

	anyStaff := &Entry{}
	assert.True(t, anyStaff.AcceptsStaff(nil))
	assert.True(t, anyStaff.AcceptsStaff(&other))

	picky := &Entry{StaffID: &preferred}
	assert.True(t, picky.AcceptsStaff(&preferred))
	assert.False(t, picky.AcceptsStaff(&other))
	assert.False(t, picky.AcceptsStaff(nil))
}

func TestEntryCloneIsIndependent(t *testing.T) {
	staffID := uuid.New()
	bookingID := uuid.New()
	entry := &Entry{
		ID:                 uuid.New(),
		StaffID:            &staffID,
		PreferredTimeSlots: []string{"10:00"},
		NotifyVia:          []string{"push"},
		Offer: &SlotOffer{
			Date:          "2025-11-05",
			Time:          "10:00",
			OfferDeadline: time.Now().Add(OfferDuration),
		},
		ConvertedBookingID: &bookingID,
	}

	cp := entry.Clone()
	cp.PreferredTimeSlots[0] = "23:59"
	cp.NotifyVia[0] = "sms"
	*cp.StaffID = uuid.New()
	cp.Offer.Time = "11:00"
	*cp.ConvertedBookingID = uuid.New()

	assert.Equal(t, "10:00", entry.PreferredTimeSlots[0])
	assert.Equal(t, "push", entry.NotifyVia[0])
	assert.Equal(t, staffID, *entry.StaffID)
	assert.Equal(t, "10:00", entry.Offer.Time)
	assert.Equal(t, bookingID, *entry.ConvertedBookingID)
}

func TestGroupAndSlotKeys(t *testing.T) {
	serviceID := uuid.New()
	salonID := uuid.New()

	assert.Equal(t, serviceID.String()+":2025-11-05", GroupKey(serviceID, "2025-11-05"))
	assert.Equal(t,
		salonID.String()+":"+serviceID.String()+":2025-11-05:10:00",
		SlotKey(salonID, serviceID, "2025-11-05", "10:00"))

	freed := FreedSlot{SalonID: salonID, ServiceID: serviceID, Date: "2025-11-05", Time: "10:00"}
	assert.Equal(t, SlotKey(salonID, serviceID, "2025-11-05", "10:00"), freed.Key())
}
