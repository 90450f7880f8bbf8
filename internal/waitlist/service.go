package waitlist

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"slotline/pkg/logger"

	"github.com/google/uuid"
)

// NotificationService is the outbound delivery channel. Events are fire and
// forget; delivery and retry belong to the downstream collaborator.
// Declared here to avoid import cycles.
type NotificationService interface {
	Emit(userID uuid.UUID, event string, payload map[string]any)
}

// BookingService creates real appointments from confirmed offers.
// Declared here to avoid import cycles.
type BookingService interface {
	CreateFromWaitlist(ctx context.Context, entry *Entry) (uuid.UUID, error)
}

// CatalogNames carries display names used to decorate entries for presentation
type CatalogNames struct {
	Salon   string
	Service string
	Staff   string
}

// CatalogService resolves display names for salon, service and staff ids.
// Declared here to avoid import cycles.
type CatalogService interface {
	DisplayNames(ctx context.Context, salonID, serviceID uuid.UUID, staffID *uuid.UUID) (CatalogNames, error)
}

// ServiceConfig contains tunables for the waitlist engine
type ServiceConfig struct {
	OfferDuration time.Duration
	QueueLifetime time.Duration
	MaxGroupSize  int
}

// DefaultServiceConfig returns the default engine configuration
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		OfferDuration: OfferDuration,
		QueueLifetime: QueueLifetime,
		MaxGroupSize:  MaxGroupSize,
	}
}

// JoinInput is the validated input for joining a waitlist
type JoinInput struct {
	SalonID            uuid.UUID
	ServiceID          uuid.UUID
	StaffID            *uuid.UUID
	PreferredDate      string
	PreferredTimeSlots []string
	NotifyVia          []string
}

// pendingEvent is a notification captured inside the critical section and
// dispatched only after the group mutation has committed.
type pendingEvent struct {
	userID  uuid.UUID
	event   string
	payload map[string]any
}

// Service is the transition controller and offer manager for the waitlist
// queue. All mutating operations on a (service, date) group are serialized by
// a per-group lock held for in-memory bookkeeping only.
type Service struct {
	store     Store
	notifier  NotificationService
	bookings  BookingService
	catalog   CatalogService
	snapshots *Snapshots
	config    *ServiceConfig
	locks     *groupLocks
	log       *logger.Logger
	nowFunc   func() time.Time
}

// NewService creates a new waitlist service
func NewService(store Store, notifier NotificationService, bookings BookingService, catalog CatalogService, config *ServiceConfig) *Service {
	if config == nil {
		config = DefaultServiceConfig()
	}
	return &Service{
		store:    store,
		notifier: notifier,
		bookings: bookings,
		catalog:  catalog,
		config:   config,
		locks:    newGroupLocks(),
		log:      logger.GetDefault(),
		nowFunc:  time.Now,
	}
}

// WithSnapshots attaches a read-side snapshot cache for unlocked display reads
func (s *Service) WithSnapshots(snapshots *Snapshots) *Service {
	s.snapshots = snapshots
	return s
}

func (s *Service) now() time.Time {
	return s.nowFunc()
}

// Join adds a user to the waitlist for a service on a preferred date and
// returns the created entry including its assigned position.
func (s *Service) Join(ctx context.Context, userID uuid.UUID, input JoinInput) (*Entry, error) {
	if err := validateJoinInput(input); err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(GroupKey(input.ServiceID, input.PreferredDate))
	var events []pendingEvent
	entry, err := func() (*Entry, error) {
		defer unlock()

		if _, err := s.store.FindActiveByUserServiceDate(ctx, userID, input.ServiceID, input.PreferredDate); err == nil {
			return nil, ErrAlreadyQueued
		}

		count, err := s.store.CountWaiting(ctx, input.ServiceID, input.PreferredDate)
		if err != nil {
			return nil, fmt.Errorf("count waiting: %w", err)
		}
		if count >= s.config.MaxGroupSize {
			return nil, ErrGroupFull
		}

		now := s.now()
		entry := &Entry{
			ID:                 uuid.New(),
			UserID:             userID,
			SalonID:            input.SalonID,
			ServiceID:          input.ServiceID,
			StaffID:            input.StaffID,
			PreferredDate:      input.PreferredDate,
			PreferredTimeSlots: append([]string(nil), input.PreferredTimeSlots...),
			Status:             StatusWaiting,
			Position:           count + 1,
			JoinedAt:           now,
			ExpiresAt:          now.Add(s.config.QueueLifetime),
			NotifyVia:          append([]string(nil), input.NotifyVia...),
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := s.store.Insert(ctx, entry); err != nil {
			return nil, err
		}

		events = append(events, pendingEvent{
			userID: userID,
			event:  EventJoined,
			payload: map[string]any{
				"entry_id":       entry.ID.String(),
				"service_id":     entry.ServiceID.String(),
				"preferred_date": entry.PreferredDate,
				"position":       entry.Position,
			},
		})
		s.refreshSnapshot(ctx, input.ServiceID, input.PreferredDate)
		return entry, nil
	}()
	if err != nil {
		return nil, err
	}

	s.dispatch(events)
	s.log.Info("waitlist join",
		slog.String("entry_id", entry.ID.String()),
		slog.String("service_id", entry.ServiceID.String()),
		slog.String("date", entry.PreferredDate),
		slog.Int("position", entry.Position),
	)
	return entry, nil
}

// Cancel removes the caller's entry from the queue. Valid from WAITING and
// SLOT_AVAILABLE only; a held offer is released back to the pool.
func (s *Service) Cancel(ctx context.Context, id, userID uuid.UUID) (*Entry, error) {
	entry, err := s.ownedEntry(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(entry.GroupKey())
	var events []pendingEvent
	var freed *FreedSlot
	entry, err = func() (*Entry, error) {
		defer unlock()

		entry, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !entry.IsActive() {
			return nil, ErrInvalidState
		}

		if entry.Offer != nil {
			slot := FreedSlot{
				SalonID:   entry.SalonID,
				ServiceID: entry.ServiceID,
				StaffID:   entry.Offer.StaffID,
				Date:      entry.Offer.Date,
				Time:      entry.Offer.Time,
			}
			s.store.ReleaseSlot(ctx, slot.Key(), entry.ID)
			freed = &slot
		}

		entry.Status = StatusCancelled
		entry.Offer = nil
		entry.UpdatedAt = s.now()
		if err := s.store.Update(ctx, entry); err != nil {
			return nil, err
		}

		changed, err := s.recomputePositions(ctx, entry.ServiceID, entry.PreferredDate)
		if err != nil {
			return nil, fmt.Errorf("recompute positions: %w", err)
		}
		events = positionEvents(changed)
		s.refreshSnapshot(ctx, entry.ServiceID, entry.PreferredDate)
		return entry, nil
	}()
	if err != nil {
		return nil, err
	}

	s.dispatch(events)
	if freed != nil {
		s.reoffer(ctx, *freed, uuid.Nil)
	}
	return entry, nil
}

// OfferSlot converts a waiting entry into a time-boxed offer for a concrete
// slot. Invoked by offer matching, the admin surface and tests; end users
// never call it directly.
func (s *Service) OfferSlot(ctx context.Context, id uuid.UUID, slotDate, slotTime string, staffID *uuid.UUID) (*Entry, error) {
	entry, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(entry.GroupKey())
	var events []pendingEvent
	entry, err = func() (*Entry, error) {
		defer unlock()
		return s.offerLocked(ctx, id, slotDate, slotTime, staffID, &events)
	}()
	if err != nil {
		return nil, err
	}

	s.dispatch(events)
	return entry, nil
}

// offerLocked applies the WAITING -> SLOT_AVAILABLE transition. The caller
// must hold the entry's group lock.
func (s *Service) offerLocked(ctx context.Context, id uuid.UUID, slotDate, slotTime string, staffID *uuid.UUID, events *[]pendingEvent) (*Entry, error) {
	entry, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.Status != StatusWaiting {
		return nil, ErrInvalidState
	}

	slotKey := SlotKey(entry.SalonID, entry.ServiceID, slotDate, slotTime)
	if err := s.store.HoldSlot(ctx, slotKey, entry.ID); err != nil {
		return nil, err
	}

	now := s.now()
	entry.Status = StatusSlotAvailable
	entry.Offer = &SlotOffer{
		Date:          slotDate,
		Time:          slotTime,
		StaffID:       staffID,
		OfferedAt:     now,
		OfferDeadline: now.Add(s.config.OfferDuration),
	}
	entry.UpdatedAt = now
	if err := s.store.Update(ctx, entry); err != nil {
		s.store.ReleaseSlot(ctx, slotKey, entry.ID)
		return nil, err
	}

	// The offered entry left the waiting set; keep the 1..N invariant for the
	// rest of the group.
	changed, err := s.recomputePositions(ctx, entry.ServiceID, entry.PreferredDate)
	if err != nil {
		return nil, fmt.Errorf("recompute positions: %w", err)
	}

	*events = append(*events, pendingEvent{
		userID: entry.UserID,
		event:  EventSlotAvailable,
		payload: map[string]any{
			"entry_id":       entry.ID.String(),
			"slot_date":      slotDate,
			"slot_time":      slotTime,
			"offer_deadline": entry.Offer.OfferDeadline.Format(time.RFC3339),
		},
	})
	*events = append(*events, positionEvents(changed)...)
	s.refreshSnapshot(ctx, entry.ServiceID, entry.PreferredDate)

	s.log.Info("slot offered",
		slog.String("entry_id", entry.ID.String()),
		slog.String("slot", slotDate+" "+slotTime),
		slog.Time("deadline", entry.Offer.OfferDeadline),
	)
	return entry, nil
}

// ConfirmSlot converts an offered slot into a real booking. When the offer
// deadline has already passed the entry is moved to EXPIRED as a side effect
// and ErrOfferExpired is returned, so a retried confirm yields
// ErrInvalidState.
func (s *Service) ConfirmSlot(ctx context.Context, id, userID uuid.UUID) (*Entry, error) {
	entry, err := s.ownedEntry(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(entry.GroupKey())
	var events []pendingEvent
	var freed *FreedSlot
	var expired bool
	entry, err = func() (*Entry, error) {
		defer unlock()

		entry, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if entry.Status != StatusSlotAvailable || entry.Offer == nil {
			return nil, ErrInvalidState
		}

		slot := FreedSlot{
			SalonID:   entry.SalonID,
			ServiceID: entry.ServiceID,
			StaffID:   entry.Offer.StaffID,
			Date:      entry.Offer.Date,
			Time:      entry.Offer.Time,
		}

		if s.now().After(entry.Offer.OfferDeadline) {
			// Lazy expiry discovered at confirmation time.
			s.store.ReleaseSlot(ctx, slot.Key(), entry.ID)
			entry.Status = StatusExpired
			entry.Offer = nil
			entry.UpdatedAt = s.now()
			if err := s.store.Update(ctx, entry); err != nil {
				return nil, err
			}
			events = append(events, expiryEvent(entry, slot))
			freed = &slot
			expired = true
			return entry, nil
		}

		bookingID, err := s.bookings.CreateFromWaitlist(ctx, entry.Clone())
		if err != nil {
			return nil, fmt.Errorf("create booking: %w", err)
		}

		s.store.ReleaseSlot(ctx, slot.Key(), entry.ID)
		entry.Status = StatusConfirmed
		entry.ConvertedBookingID = &bookingID
		entry.Offer = nil
		entry.UpdatedAt = s.now()
		if err := s.store.Update(ctx, entry); err != nil {
			return nil, err
		}

		changed, err := s.recomputePositions(ctx, entry.ServiceID, entry.PreferredDate)
		if err != nil {
			return nil, fmt.Errorf("recompute positions: %w", err)
		}
		events = append(events, pendingEvent{
			userID: entry.UserID,
			event:  EventSlotConfirmed,
			payload: map[string]any{
				"entry_id":   entry.ID.String(),
				"booking_id": bookingID.String(),
				"slot_date":  slot.Date,
				"slot_time":  slot.Time,
			},
		})
		events = append(events, positionEvents(changed)...)
		s.refreshSnapshot(ctx, entry.ServiceID, entry.PreferredDate)
		return entry, nil
	}()
	if err != nil {
		return nil, err
	}

	s.dispatch(events)
	if expired {
		s.reoffer(ctx, *freed, uuid.Nil)
		return entry, ErrOfferExpired
	}

	s.log.Info("slot confirmed",
		slog.String("entry_id", entry.ID.String()),
		slog.String("booking_id", entry.ConvertedBookingID.String()),
	)
	return entry, nil
}

// SkipSlot declines an offered slot and moves the entry to the back of the
// queue. JoinedAt is refreshed so the back-of-queue placement survives later
// position recomputes; the freed slot goes to the next matching candidate.
func (s *Service) SkipSlot(ctx context.Context, id, userID uuid.UUID) (*Entry, error) {
	entry, err := s.ownedEntry(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(entry.GroupKey())
	var events []pendingEvent
	var freed FreedSlot
	entry, err = func() (*Entry, error) {
		defer unlock()

		entry, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if entry.Status != StatusSlotAvailable || entry.Offer == nil {
			return nil, ErrInvalidState
		}

		freed = FreedSlot{
			SalonID:   entry.SalonID,
			ServiceID: entry.ServiceID,
			StaffID:   entry.Offer.StaffID,
			Date:      entry.Offer.Date,
			Time:      entry.Offer.Time,
		}
		s.store.ReleaseSlot(ctx, freed.Key(), entry.ID)

		count, err := s.store.CountWaiting(ctx, entry.ServiceID, entry.PreferredDate)
		if err != nil {
			return nil, fmt.Errorf("count waiting: %w", err)
		}

		now := s.now()
		entry.Status = StatusWaiting
		entry.Offer = nil
		entry.Position = count + 1
		entry.JoinedAt = now
		entry.UpdatedAt = now
		// Requeue, not Update: the refreshed JoinedAt alone cannot keep the
		// entry at the back when other waiters share the same timestamp.
		if err := s.store.Requeue(ctx, entry); err != nil {
			return nil, err
		}

		changed, err := s.recomputePositions(ctx, entry.ServiceID, entry.PreferredDate)
		if err != nil {
			return nil, fmt.Errorf("recompute positions: %w", err)
		}
		events = positionEvents(changed)
		s.refreshSnapshot(ctx, entry.ServiceID, entry.PreferredDate)
		return entry, nil
	}()
	if err != nil {
		return nil, err
	}

	s.dispatch(events)
	s.reoffer(ctx, freed, entry.ID)
	return entry, nil
}

// ExpireOffer moves an overdue offer to the terminal EXPIRED state and frees
// the slot for the next candidate. Called by the background sweep; safe to
// call concurrently with user operations.
func (s *Service) ExpireOffer(ctx context.Context, id uuid.UUID) (*Entry, error) {
	entry, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(entry.GroupKey())
	var events []pendingEvent
	var freed FreedSlot
	entry, err = func() (*Entry, error) {
		defer unlock()

		entry, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if entry.Status != StatusSlotAvailable || entry.Offer == nil {
			return nil, ErrInvalidState
		}
		if !s.now().After(entry.Offer.OfferDeadline) {
			return nil, ErrInvalidState
		}

		freed = FreedSlot{
			SalonID:   entry.SalonID,
			ServiceID: entry.ServiceID,
			StaffID:   entry.Offer.StaffID,
			Date:      entry.Offer.Date,
			Time:      entry.Offer.Time,
		}
		s.store.ReleaseSlot(ctx, freed.Key(), entry.ID)

		entry.Status = StatusExpired
		entry.Offer = nil
		entry.UpdatedAt = s.now()
		if err := s.store.Update(ctx, entry); err != nil {
			return nil, err
		}
		events = append(events, expiryEvent(entry, freed))
		s.refreshSnapshot(ctx, entry.ServiceID, entry.PreferredDate)
		return entry, nil
	}()
	if err != nil {
		return nil, err
	}

	s.dispatch(events)
	s.reoffer(ctx, freed, uuid.Nil)
	return entry, nil
}

// HandleSlotFreed is the hook for cancelled or rescheduled appointments: it
// finds the best-matching waiting entry for the freed slot and offers it.
// ErrNoMatch is a no-op signal, not a failure.
func (s *Service) HandleSlotFreed(ctx context.Context, freed FreedSlot) (*Entry, error) {
	return s.handleSlotFreed(ctx, freed, uuid.Nil)
}

func (s *Service) handleSlotFreed(ctx context.Context, freed FreedSlot, exclude uuid.UUID) (*Entry, error) {
	unlock := s.locks.acquire(GroupKey(freed.ServiceID, freed.Date))
	var events []pendingEvent
	entry, err := func() (*Entry, error) {
		defer unlock()

		waiting, err := s.store.ListWaiting(ctx, freed.ServiceID, freed.Date)
		if err != nil {
			return nil, fmt.Errorf("list waiting: %w", err)
		}

		// Waiting entries come back in join order, so the first match is the
		// lowest position.
		for _, candidate := range waiting {
			if candidate.ID == exclude {
				continue
			}
			if candidate.SalonID != freed.SalonID {
				continue
			}
			if !candidate.WantsTime(freed.Time) || !candidate.AcceptsStaff(freed.StaffID) {
				continue
			}
			return s.offerLocked(ctx, candidate.ID, freed.Date, freed.Time, freed.StaffID, &events)
		}
		return nil, ErrNoMatch
	}()
	if err != nil {
		return nil, err
	}

	s.dispatch(events)
	return entry, nil
}

// reoffer tries the next candidate for a slot freed by a skip, expiry or
// cancellation. Best effort: no match means the slot simply stays free.
func (s *Service) reoffer(ctx context.Context, freed FreedSlot, exclude uuid.UUID) {
	if _, err := s.handleSlotFreed(ctx, freed, exclude); err != nil && err != ErrNoMatch {
		s.log.Warn("re-offer after freed slot failed",
			slog.String("slot", freed.Date+" "+freed.Time),
			slog.Any("error", err),
		)
	}
}

// ListForUser returns all of a user's entries, newest first, decorated with
// catalog display names.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]EntryResponse, error) {
	entries, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, entries), nil
}

// ListForSalon returns a salon's entries with optional status and date filters
func (s *Service) ListForSalon(ctx context.Context, salonID uuid.UUID, status Status, date string) ([]EntryResponse, error) {
	if status != "" && !status.IsValid() {
		return nil, ErrInvalidState
	}
	entries, err := s.store.ListBySalon(ctx, salonID, status, date)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, entries), nil
}

// Get returns a single entry visible to its owner
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*Entry, error) {
	return s.ownedEntry(ctx, id, userID)
}

// GroupView returns the public queue projection for a (service, date) group.
// Served from the snapshot cache when one is attached, so display reads never
// touch the group lock; a miss falls back to the store and repopulates the
// cache.
func (s *Service) GroupView(ctx context.Context, serviceID uuid.UUID, date string) (*QueueSnapshot, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("date must be %s formatted: %w", DateLayout, err)
	}

	if s.snapshots != nil {
		if snapshot, err := s.snapshots.Get(ctx, serviceID, date); err == nil {
			return snapshot, nil
		}
	}

	waiting, err := s.store.ListWaiting(ctx, serviceID, date)
	if err != nil {
		return nil, err
	}
	if s.snapshots != nil {
		s.snapshots.Put(ctx, serviceID, date, waiting)
	}
	return newQueueSnapshot(serviceID, date, waiting, s.now()), nil
}

// GroupStats summarizes a (service, date) group by status
func (s *Service) GroupStats(ctx context.Context, serviceID uuid.UUID, date string) (*StatsResponse, error) {
	counts, err := s.store.CountByStatus(ctx, serviceID, date)
	if err != nil {
		return nil, err
	}

	stats := &StatsResponse{ServiceID: serviceID, Date: date}
	for status, count := range counts {
		stats.Total += count
		switch status {
		case StatusWaiting:
			stats.Waiting = count
		case StatusSlotAvailable:
			stats.Offered = count
		case StatusConfirmed:
			stats.Converted = count
		case StatusExpired:
			stats.Expired = count
		case StatusCancelled:
			stats.Cancelled = count
		}
	}
	return stats, nil
}

// SweepExpiredOffers expires every offer whose deadline has passed, freeing
// the slots for the next candidates. Returns the number of expired offers.
func (s *Service) SweepExpiredOffers(ctx context.Context) (int, error) {
	overdue, err := s.store.ListOverdueOffers(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("list overdue offers: %w", err)
	}

	expired := 0
	for _, entry := range overdue {
		if _, err := s.ExpireOffer(ctx, entry.ID); err != nil {
			// A user operation may have won the race; nothing to do.
			continue
		}
		expired++
	}
	return expired, nil
}

// SweepStaleWaiting expires waiting entries past their queue lifetime and
// recomputes positions for the affected groups.
func (s *Service) SweepStaleWaiting(ctx context.Context) (int, error) {
	stale, err := s.store.ListStaleWaiting(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("list stale waiting: %w", err)
	}

	expired := 0
	for _, candidate := range stale {
		unlock := s.locks.acquire(candidate.GroupKey())
		var events []pendingEvent
		err := func() error {
			defer unlock()

			entry, err := s.store.Get(ctx, candidate.ID)
			if err != nil {
				return err
			}
			if entry.Status != StatusWaiting || !s.now().After(entry.ExpiresAt) {
				return ErrInvalidState
			}

			entry.Status = StatusExpired
			entry.UpdatedAt = s.now()
			if err := s.store.Update(ctx, entry); err != nil {
				return err
			}

			changed, err := s.recomputePositions(ctx, entry.ServiceID, entry.PreferredDate)
			if err != nil {
				return err
			}
			events = append(events, pendingEvent{
				userID: entry.UserID,
				event:  EventSlotExpired,
				payload: map[string]any{
					"entry_id": entry.ID.String(),
					"reason":   "queue_lifetime",
				},
			})
			events = append(events, positionEvents(changed)...)
			s.refreshSnapshot(ctx, entry.ServiceID, entry.PreferredDate)
			return nil
		}()
		if err != nil {
			continue
		}
		s.dispatch(events)
		expired++
	}
	return expired, nil
}

// ownedEntry loads an entry and verifies the caller owns it
func (s *Service) ownedEntry(ctx context.Context, id, userID uuid.UUID) (*Entry, error) {
	entry, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, ErrForbidden
	}
	return entry, nil
}

// dispatch hands captured events to the notifier outside the critical section
func (s *Service) dispatch(events []pendingEvent) {
	if s.notifier == nil {
		return
	}
	for _, e := range events {
		s.notifier.Emit(e.userID, e.event, e.payload)
	}
}

func (s *Service) decorate(ctx context.Context, entries []*Entry) []EntryResponse {
	result := make([]EntryResponse, 0, len(entries))
	for _, entry := range entries {
		view := EntryResponse{Entry: *entry}
		if s.catalog != nil {
			names, err := s.catalog.DisplayNames(ctx, entry.SalonID, entry.ServiceID, entry.StaffID)
			if err != nil {
				s.log.Warn("catalog lookup failed", slog.String("entry_id", entry.ID.String()), slog.Any("error", err))
			} else {
				view.SalonName = names.Salon
				view.ServiceName = names.Service
				view.StaffName = names.Staff
			}
		}
		result = append(result, view)
	}
	return result
}

func (s *Service) refreshSnapshot(ctx context.Context, serviceID uuid.UUID, date string) {
	if s.snapshots == nil {
		return
	}
	waiting, err := s.store.ListWaiting(ctx, serviceID, date)
	if err != nil {
		return
	}
	s.snapshots.Put(ctx, serviceID, date, waiting)
}

func positionEvents(changed []PositionChange) []pendingEvent {
	events := make([]pendingEvent, 0, len(changed))
	for _, change := range changed {
		events = append(events, pendingEvent{
			userID: change.Entry.UserID,
			event:  EventPositionUpdated,
			payload: map[string]any{
				"entry_id":       change.Entry.ID.String(),
				"service_id":     change.Entry.ServiceID.String(),
				"preferred_date": change.Entry.PreferredDate,
				"position":       change.NewPosition,
			},
		})
	}
	return events
}

func expiryEvent(entry *Entry, slot FreedSlot) pendingEvent {
	return pendingEvent{
		userID: entry.UserID,
		event:  EventSlotExpired,
		payload: map[string]any{
			"entry_id":  entry.ID.String(),
			"slot_date": slot.Date,
			"slot_time": slot.Time,
			"reason":    "offer_deadline",
		},
	}
}

func validateJoinInput(input JoinInput) error {
	if input.SalonID == uuid.Nil || input.ServiceID == uuid.Nil {
		return fmt.Errorf("salon and service are required")
	}
	if _, err := time.Parse(DateLayout, input.PreferredDate); err != nil {
		return fmt.Errorf("preferred date must be %s formatted: %w", DateLayout, err)
	}
	if len(input.PreferredTimeSlots) == 0 {
		return fmt.Errorf("at least one preferred time slot is required")
	}
	for _, slot := range input.PreferredTimeSlots {
		if _, err := time.Parse(TimeLayout, slot); err != nil {
			return fmt.Errorf("invalid time slot %q: %w", slot, err)
		}
	}
	return nil
}
