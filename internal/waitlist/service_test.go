package waitlist

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordedEvent struct {
	userID  uuid.UUID
	event   string
	payload map[string]any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) Emit(userID uuid.UUID, event string, payload map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{userID: userID, event: event, payload: payload})
}

func (n *recordingNotifier) byType(event string) []recordedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var matched []recordedEvent
	for _, e := range n.events {
		if e.event == event {
			matched = append(matched, e)
		}
	}
	return matched
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = nil
}

type fakeBookings struct {
	mu      sync.Mutex
	created []uuid.UUID
	err     error
}

func (b *fakeBookings) CreateFromWaitlist(_ context.Context, _ *Entry) (uuid.UUID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return uuid.Nil, b.err
	}
	id := uuid.New()
	b.created = append(b.created, id)
	return id, nil
}

type testEnv struct {
	svc      *Service
	clock    *fakeClock
	notifier *recordingNotifier
	bookings *fakeBookings

	salonID   uuid.UUID
	serviceID uuid.UUID
	date      string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		clock:     newFakeClock(),
		notifier:  &recordingNotifier{},
		bookings:  &fakeBookings{},
		salonID:   uuid.New(),
		serviceID: uuid.New(),
		date:      "2025-11-05",
	}
	env.svc = NewService(NewMemoryStore(), env.notifier, env.bookings, nil, nil)
	env.svc.nowFunc = env.clock.Now
	return env
}

func (env *testEnv) join(t *testing.T, slots ...string) *Entry {
	t.Helper()
	if len(slots) == 0 {
		slots = []string{"10:00", "11:00"}
	}
	entry, err := env.svc.Join(context.Background(), uuid.New(), JoinInput{
		SalonID:            env.salonID,
		ServiceID:          env.serviceID,
		PreferredDate:      env.date,
		PreferredTimeSlots: slots,
	})
	require.NoError(t, err)
	return entry
}

func (env *testEnv) get(t *testing.T, id uuid.UUID) *Entry {
	t.Helper()
	entry, err := env.svc.store.Get(context.Background(), id)
	require.NoError(t, err)
	return entry
}

func (env *testEnv) freedSlot(at string) FreedSlot {
	return FreedSlot{
		SalonID:   env.salonID,
		ServiceID: env.serviceID,
		Date:      env.date,
		Time:      at,
	}
}

func TestJoinAssignsSequentialPositions(t *testing.T) {
	env := newTestEnv(t)

	first := env.join(t)
	second := env.join(t)
	third := env.join(t)

	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)
	assert.Equal(t, 3, third.Position)
	assert.Equal(t, StatusWaiting, first.Status)

	joined := env.notifier.byType(EventJoined)
	assert.Len(t, joined, 3)
}

func TestJoinRejectsDuplicateActiveEntry(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()

	input := JoinInput{
		SalonID:            env.salonID,
		ServiceID:          env.serviceID,
		PreferredDate:      env.date,
		PreferredTimeSlots: []string{"10:00"},
	}

	_, err := env.svc.Join(context.Background(), userID, input)
	require.NoError(t, err)

	_, err = env.svc.Join(context.Background(), userID, input)
	assert.ErrorIs(t, err, ErrAlreadyQueued)
}

func TestJoinAllowsRejoinAfterCancel(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()

	input := JoinInput{
		SalonID:            env.salonID,
		ServiceID:          env.serviceID,
		PreferredDate:      env.date,
		PreferredTimeSlots: []string{"10:00"},
	}

	entry, err := env.svc.Join(context.Background(), userID, input)
	require.NoError(t, err)

	_, err = env.svc.Cancel(context.Background(), entry.ID, userID)
	require.NoError(t, err)

	again, err := env.svc.Join(context.Background(), userID, input)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Position)
}

func TestJoinValidatesInput(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Join(context.Background(), uuid.New(), JoinInput{
		SalonID:            env.salonID,
		ServiceID:          env.serviceID,
		PreferredDate:      "05/11/2025",
		PreferredTimeSlots: []string{"10:00"},
	})
	assert.Error(t, err)

	_, err = env.svc.Join(context.Background(), uuid.New(), JoinInput{
		SalonID:            env.salonID,
		ServiceID:          env.serviceID,
		PreferredDate:      env.date,
		PreferredTimeSlots: nil,
	})
	assert.Error(t, err)

	_, err = env.svc.Join(context.Background(), uuid.New(), JoinInput{
		SalonID:            env.salonID,
		ServiceID:          env.serviceID,
		PreferredDate:      env.date,
		PreferredTimeSlots: []string{"25:99"},
	})
	assert.Error(t, err)
}

func TestJoinRejectsFullGroup(t *testing.T) {
	env := newTestEnv(t)
	env.svc.config.MaxGroupSize = 2

	env.join(t)
	env.join(t)

	_, err := env.svc.Join(context.Background(), uuid.New(), JoinInput{
		SalonID:            env.salonID,
		ServiceID:          env.serviceID,
		PreferredDate:      env.date,
		PreferredTimeSlots: []string{"10:00"},
	})
	assert.ErrorIs(t, err, ErrGroupFull)
}

func TestCancelRecomputesPositions(t *testing.T) {
	env := newTestEnv(t)

	first := env.join(t)
	second := env.join(t)
	third := env.join(t)
	env.notifier.reset()

	_, err := env.svc.Cancel(context.Background(), second.ID, second.UserID)
	require.NoError(t, err)

	assert.Equal(t, 1, env.get(t, first.ID).Position)
	assert.Equal(t, 2, env.get(t, third.ID).Position)
	assert.Equal(t, StatusCancelled, env.get(t, second.ID).Status)

	// Only the entry that moved gets a position update
	updates := env.notifier.byType(EventPositionUpdated)
	require.Len(t, updates, 1)
	assert.Equal(t, third.UserID, updates[0].userID)
	assert.Equal(t, 2, updates[0].payload["position"])
}

func TestCancelIsOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	entry := env.join(t)

	_, err := env.svc.Cancel(context.Background(), entry.ID, uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCancelTerminalEntryFails(t *testing.T) {
	env := newTestEnv(t)
	entry := env.join(t)

	_, err := env.svc.Cancel(context.Background(), entry.ID, entry.UserID)
	require.NoError(t, err)

	_, err = env.svc.Cancel(context.Background(), entry.ID, entry.UserID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestHandleSlotFreedOffersLowestMatchingPosition(t *testing.T) {
	env := newTestEnv(t)

	first := env.join(t, "09:00")          // does not want 10:00
	second := env.join(t, "10:00", "11:00") // lowest position wanting 10:00
	third := env.join(t, "10:00")

	offered, err := env.svc.HandleSlotFreed(context.Background(), env.freedSlot("10:00"))
	require.NoError(t, err)

	assert.Equal(t, second.ID, offered.ID)
	assert.Equal(t, StatusSlotAvailable, offered.Status)
	require.NotNil(t, offered.Offer)
	assert.Equal(t, "10:00", offered.Offer.Time)
	assert.Equal(t, env.clock.Now().Add(OfferDuration), offered.Offer.OfferDeadline)

	// First keeps rank 1, third closes the gap left by the offered entry
	assert.Equal(t, 1, env.get(t, first.ID).Position)
	assert.Equal(t, 2, env.get(t, third.ID).Position)

	available := env.notifier.byType(EventSlotAvailable)
	require.Len(t, available, 1)
	assert.Equal(t, second.UserID, available[0].userID)
}

func TestHandleSlotFreedNoMatch(t *testing.T) {
	env := newTestEnv(t)
	env.join(t, "09:00")

	_, err := env.svc.HandleSlotFreed(context.Background(), env.freedSlot("16:00"))
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestHandleSlotFreedRespectsStaffPreference(t *testing.T) {
	env := newTestEnv(t)
	preferred := uuid.New()

	entry, err := env.svc.Join(context.Background(), uuid.New(), JoinInput{
		SalonID:            env.salonID,
		ServiceID:          env.serviceID,
		StaffID:            &preferred,
		PreferredDate:      env.date,
		PreferredTimeSlots: []string{"10:00"},
	})
	require.NoError(t, err)

	other := uuid.New()
	freed := env.freedSlot("10:00")
	freed.StaffID = &other

	_, err = env.svc.HandleSlotFreed(context.Background(), freed)
	assert.ErrorIs(t, err, ErrNoMatch)

	freed.StaffID = &preferred
	offered, err := env.svc.HandleSlotFreed(context.Background(), freed)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, offered.ID)
}

func TestOfferSlotHoldsSlotExclusively(t *testing.T) {
	env := newTestEnv(t)

	first := env.join(t, "10:00")
	second := env.join(t, "10:00")

	_, err := env.svc.OfferSlot(context.Background(), first.ID, env.date, "10:00", nil)
	require.NoError(t, err)

	_, err = env.svc.OfferSlot(context.Background(), second.ID, env.date, "10:00", nil)
	assert.ErrorIs(t, err, ErrSlotHeld)
}

func TestOfferSlotRequiresWaiting(t *testing.T) {
	env := newTestEnv(t)
	entry := env.join(t)

	_, err := env.svc.Cancel(context.Background(), entry.ID, entry.UserID)
	require.NoError(t, err)

	_, err = env.svc.OfferSlot(context.Background(), entry.ID, env.date, "10:00", nil)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestConfirmSlotCreatesBooking(t *testing.T) {
	env := newTestEnv(t)
	entry := env.join(t, "10:00")

	offered, err := env.svc.HandleSlotFreed(context.Background(), env.freedSlot("10:00"))
	require.NoError(t, err)

	env.clock.Advance(2 * time.Minute)

	confirmed, err := env.svc.ConfirmSlot(context.Background(), offered.ID, entry.UserID)
	require.NoError(t, err)

	assert.Equal(t, StatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConvertedBookingID)
	assert.Nil(t, confirmed.Offer)
	require.Len(t, env.bookings.created, 1)
	assert.Equal(t, env.bookings.created[0], *confirmed.ConvertedBookingID)

	events := env.notifier.byType(EventSlotConfirmed)
	require.Len(t, events, 1)
	assert.Equal(t, confirmed.ConvertedBookingID.String(), events[0].payload["booking_id"])
}

func TestConfirmAfterDeadlineExpiresAndReoffers(t *testing.T) {
	env := newTestEnv(t)

	first := env.join(t, "10:00")
	second := env.join(t, "10:00")

	offered, err := env.svc.HandleSlotFreed(context.Background(), env.freedSlot("10:00"))
	require.NoError(t, err)
	require.Equal(t, first.ID, offered.ID)

	env.clock.Advance(6 * time.Minute)

	_, err = env.svc.ConfirmSlot(context.Background(), first.ID, first.UserID)
	assert.ErrorIs(t, err, ErrOfferExpired)
	assert.Equal(t, StatusExpired, env.get(t, first.ID).Status)
	assert.Empty(t, env.bookings.created)

	// A retried confirm sees a terminal entry
	_, err = env.svc.ConfirmSlot(context.Background(), first.ID, first.UserID)
	assert.ErrorIs(t, err, ErrInvalidState)

	// The freed slot moved on to the next candidate
	next := env.get(t, second.ID)
	assert.Equal(t, StatusSlotAvailable, next.Status)
	require.NotNil(t, next.Offer)
	assert.Equal(t, "10:00", next.Offer.Time)
}

func TestSkipSlotMovesToBackAndReoffers(t *testing.T) {
	env := newTestEnv(t)

	first := env.join(t, "10:00")
	second := env.join(t, "10:00")
	third := env.join(t, "10:00")

	offered, err := env.svc.HandleSlotFreed(context.Background(), env.freedSlot("10:00"))
	require.NoError(t, err)
	require.Equal(t, first.ID, offered.ID)

	env.clock.Advance(1 * time.Minute)

	skipped, err := env.svc.SkipSlot(context.Background(), first.ID, first.UserID)
	require.NoError(t, err)

	assert.Equal(t, StatusWaiting, skipped.Status)
	assert.Nil(t, skipped.Offer)
	assert.Equal(t, env.clock.Now(), skipped.JoinedAt)

	// The skipper does not get the slot back; the next in line does
	reoffered := env.get(t, second.ID)
	assert.Equal(t, StatusSlotAvailable, reoffered.Status)

	// Remaining waiting entries: third at 1, skipper behind it
	assert.Equal(t, 1, env.get(t, third.ID).Position)
	assert.Equal(t, 2, env.get(t, first.ID).Position)
}

func TestSkipKeepsBackOfQueueAfterRecompute(t *testing.T) {
	env := newTestEnv(t)

	first := env.join(t, "10:00")
	second := env.join(t, "09:00")
	third := env.join(t, "09:00")

	_, err := env.svc.HandleSlotFreed(context.Background(), env.freedSlot("10:00"))
	require.NoError(t, err)

	env.clock.Advance(time.Minute)
	_, err = env.svc.SkipSlot(context.Background(), first.ID, first.UserID)
	require.NoError(t, err)

	// Cancelling an earlier entry must not move the skipper ahead of third
	_, err = env.svc.Cancel(context.Background(), second.ID, second.UserID)
	require.NoError(t, err)

	assert.Equal(t, 1, env.get(t, third.ID).Position)
	assert.Equal(t, 2, env.get(t, first.ID).Position)
}

func TestSkipStaysAtBackWhenClockDoesNotAdvance(t *testing.T) {
	env := newTestEnv(t)

	// All three share one JoinedAt instant, so only the tie-break orders them
	first := env.join(t, "10:00")
	second := env.join(t, "10:00")
	third := env.join(t, "10:00")

	offered, err := env.svc.HandleSlotFreed(context.Background(), env.freedSlot("10:00"))
	require.NoError(t, err)
	require.Equal(t, first.ID, offered.ID)

	// Skip in the same instant as the joins
	skipped, err := env.svc.SkipSlot(context.Background(), first.ID, first.UserID)
	require.NoError(t, err)
	require.Equal(t, StatusWaiting, skipped.Status)

	// The slot went to second; among the remaining waiters the skipper must
	// rank behind third despite the equal timestamps
	assert.Equal(t, StatusSlotAvailable, env.get(t, second.ID).Status)
	assert.Equal(t, 1, env.get(t, third.ID).Position)
	assert.Equal(t, 2, env.get(t, first.ID).Position)

	// And the placement holds through a later recompute
	_, err = env.svc.Cancel(context.Background(), third.ID, third.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, env.get(t, first.ID).Position)
}

func TestExpireOfferRequiresOverdueDeadline(t *testing.T) {
	env := newTestEnv(t)
	entry := env.join(t, "10:00")

	_, err := env.svc.HandleSlotFreed(context.Background(), env.freedSlot("10:00"))
	require.NoError(t, err)

	_, err = env.svc.ExpireOffer(context.Background(), entry.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	env.clock.Advance(OfferDuration + time.Second)

	expired, err := env.svc.ExpireOffer(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, expired.Status)

	events := env.notifier.byType(EventSlotExpired)
	require.Len(t, events, 1)
}

func TestExpiredSlotCanBeOfferedAgain(t *testing.T) {
	env := newTestEnv(t)

	first := env.join(t, "10:00")
	env.clock.Advance(time.Minute)

	_, err := env.svc.OfferSlot(context.Background(), first.ID, env.date, "10:00", nil)
	require.NoError(t, err)

	env.clock.Advance(OfferDuration + time.Second)
	_, err = env.svc.ExpireOffer(context.Background(), first.ID)
	require.NoError(t, err)

	// Slot hold was released with the expiry
	second := env.join(t, "10:00")
	offered, err := env.svc.OfferSlot(context.Background(), second.ID, env.date, "10:00", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusSlotAvailable, offered.Status)
}

func TestCancelOfferedEntryReleasesAndReoffers(t *testing.T) {
	env := newTestEnv(t)

	first := env.join(t, "10:00")
	second := env.join(t, "10:00")

	_, err := env.svc.HandleSlotFreed(context.Background(), env.freedSlot("10:00"))
	require.NoError(t, err)

	_, err = env.svc.Cancel(context.Background(), first.ID, first.UserID)
	require.NoError(t, err)

	next := env.get(t, second.ID)
	assert.Equal(t, StatusSlotAvailable, next.Status)
}

func TestSweepExpiredOffers(t *testing.T) {
	env := newTestEnv(t)

	first := env.join(t, "10:00")
	second := env.join(t, "11:00")

	_, err := env.svc.OfferSlot(context.Background(), first.ID, env.date, "10:00", nil)
	require.NoError(t, err)
	_, err = env.svc.OfferSlot(context.Background(), second.ID, env.date, "11:00", nil)
	require.NoError(t, err)

	env.clock.Advance(OfferDuration + time.Second)

	expired, err := env.svc.SweepExpiredOffers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, expired)
	assert.Equal(t, StatusExpired, env.get(t, first.ID).Status)
	assert.Equal(t, StatusExpired, env.get(t, second.ID).Status)
}

func TestSweepStaleWaiting(t *testing.T) {
	env := newTestEnv(t)

	stale := env.join(t)
	env.clock.Advance(QueueLifetime + time.Hour)
	fresh := env.join(t)

	expired, err := env.svc.SweepStaleWaiting(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	assert.Equal(t, StatusExpired, env.get(t, stale.ID).Status)
	got := env.get(t, fresh.ID)
	assert.Equal(t, StatusWaiting, got.Status)
	assert.Equal(t, 1, got.Position)
}

func TestGroupStats(t *testing.T) {
	env := newTestEnv(t)

	first := env.join(t, "10:00")
	env.join(t, "10:00")
	cancelled := env.join(t)

	_, err := env.svc.OfferSlot(context.Background(), first.ID, env.date, "10:00", nil)
	require.NoError(t, err)
	_, err = env.svc.Cancel(context.Background(), cancelled.ID, cancelled.UserID)
	require.NoError(t, err)

	stats, err := env.svc.GroupStats(context.Background(), env.serviceID, env.date)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Waiting)
	assert.Equal(t, 1, stats.Offered)
	assert.Equal(t, 1, stats.Cancelled)
}

func TestListForUser(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()

	_, err := env.svc.Join(context.Background(), userID, JoinInput{
		SalonID:            env.salonID,
		ServiceID:          env.serviceID,
		PreferredDate:      env.date,
		PreferredTimeSlots: []string{"10:00"},
	})
	require.NoError(t, err)

	otherService := uuid.New()
	_, err = env.svc.Join(context.Background(), userID, JoinInput{
		SalonID:            env.salonID,
		ServiceID:          otherService,
		PreferredDate:      env.date,
		PreferredTimeSlots: []string{"14:00"},
	})
	require.NoError(t, err)

	entries, err := env.svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
