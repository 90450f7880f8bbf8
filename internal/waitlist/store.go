package waitlist

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the authoritative collection of waitlist entries. All mutations are
// whole-entry replacements; callers never observe partially written fields.
// Entries are retained after reaching a terminal status for read history and
// excluded from active-queue computations.
type Store interface {
	Insert(ctx context.Context, entry *Entry) error
	Get(ctx context.Context, id uuid.UUID) (*Entry, error)
	FindActiveByUserServiceDate(ctx context.Context, userID, serviceID uuid.UUID, date string) (*Entry, error)
	ListWaiting(ctx context.Context, serviceID uuid.UUID, date string) ([]*Entry, error)
	CountWaiting(ctx context.Context, serviceID uuid.UUID, date string) (int, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Entry, error)
	ListBySalon(ctx context.Context, salonID uuid.UUID, status Status, date string) ([]*Entry, error)
	CountByStatus(ctx context.Context, serviceID uuid.UUID, date string) (map[Status]int, error)
	Update(ctx context.Context, entry *Entry) error

	// Requeue rewrites an entry and moves it to the tail of the join-order
	// tie-break, so a recompute in the same clock instant cannot lift it back
	// ahead of entries it was placed behind.
	Requeue(ctx context.Context, entry *Entry) error

	// ReplaceGroup commits a recomputed (service, date) group in one atomic
	// write. A failed replace leaves every member untouched.
	ReplaceGroup(ctx context.Context, serviceID uuid.UUID, date string, entries []*Entry) error

	// Slot offer locks: at most one entry holds a concrete slot at a time.
	HoldSlot(ctx context.Context, key string, entryID uuid.UUID) error
	ReleaseSlot(ctx context.Context, key string, entryID uuid.UUID)

	// Sweep queries used by the background job.
	ListOverdueOffers(ctx context.Context, now time.Time) ([]*Entry, error)
	ListStaleWaiting(ctx context.Context, now time.Time) ([]*Entry, error)
}

// memoryStore keeps the queue in process memory behind a single mutex. The
// backing maps are never exposed; every read hands out clones.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*Entry
	groups  map[string]map[uuid.UUID]struct{} // group key -> active entry ids
	slots   map[string]uuid.UUID              // slot key -> offer holder
	nextSeq uint64
}

// NewMemoryStore creates an empty in-process store
func NewMemoryStore() Store {
	return &memoryStore{
		entries: make(map[uuid.UUID]*Entry),
		groups:  make(map[string]map[uuid.UUID]struct{}),
		slots:   make(map[string]uuid.UUID),
	}
}

func (s *memoryStore) Insert(_ context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	group := entry.GroupKey()
	for id := range s.groups[group] {
		existing := s.entries[id]
		if existing.UserID == entry.UserID && existing.IsActive() {
			return ErrAlreadyQueued
		}
	}

	s.nextSeq++
	entry.seq = s.nextSeq

	stored := entry.Clone()
	s.entries[stored.ID] = stored
	if s.groups[group] == nil {
		s.groups[group] = make(map[uuid.UUID]struct{})
	}
	s.groups[group][stored.ID] = struct{}{}
	return nil
}

func (s *memoryStore) Get(_ context.Context, id uuid.UUID) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return entry.Clone(), nil
}

func (s *memoryStore) FindActiveByUserServiceDate(_ context.Context, userID, serviceID uuid.UUID, date string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id := range s.groups[GroupKey(serviceID, date)] {
		entry := s.entries[id]
		if entry.UserID == userID && entry.IsActive() {
			return entry.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryStore) ListWaiting(_ context.Context, serviceID uuid.UUID, date string) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listWaitingLocked(serviceID, date), nil
}

func (s *memoryStore) listWaitingLocked(serviceID uuid.UUID, date string) []*Entry {
	var waiting []*Entry
	for id := range s.groups[GroupKey(serviceID, date)] {
		if entry := s.entries[id]; entry.Status == StatusWaiting {
			waiting = append(waiting, entry.Clone())
		}
	}
	sortByJoinOrder(waiting)
	return waiting
}

func (s *memoryStore) CountWaiting(_ context.Context, serviceID uuid.UUID, date string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for id := range s.groups[GroupKey(serviceID, date)] {
		if s.entries[id].Status == StatusWaiting {
			count++
		}
	}
	return count, nil
}

func (s *memoryStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Entry
	for _, entry := range s.entries {
		if entry.UserID == userID {
			result = append(result, entry.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *memoryStore) ListBySalon(_ context.Context, salonID uuid.UUID, status Status, date string) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Entry
	for _, entry := range s.entries {
		if entry.SalonID != salonID {
			continue
		}
		if status != "" && entry.Status != status {
			continue
		}
		if date != "" && entry.PreferredDate != date {
			continue
		}
		result = append(result, entry.Clone())
	}
	sortByJoinOrder(result)
	return result, nil
}

func (s *memoryStore) CountByStatus(_ context.Context, serviceID uuid.UUID, date string) (map[Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group := GroupKey(serviceID, date)
	counts := make(map[Status]int)
	for _, entry := range s.entries {
		if entry.GroupKey() == group {
			counts[entry.Status]++
		}
	}
	return counts, nil
}

func (s *memoryStore) Update(_ context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(entry)
}

func (s *memoryStore) updateLocked(entry *Entry) error {
	current, ok := s.entries[entry.ID]
	if !ok {
		return ErrNotFound
	}

	stored := entry.Clone()
	stored.seq = current.seq
	s.entries[stored.ID] = stored

	group := stored.GroupKey()
	if stored.IsActive() {
		if s.groups[group] == nil {
			s.groups[group] = make(map[uuid.UUID]struct{})
		}
		s.groups[group][stored.ID] = struct{}{}
	} else {
		delete(s.groups[group], stored.ID)
	}
	return nil
}

func (s *memoryStore) Requeue(_ context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.updateLocked(entry); err != nil {
		return err
	}
	s.nextSeq++
	s.entries[entry.ID].seq = s.nextSeq
	return nil
}

func (s *memoryStore) ReplaceGroup(_ context.Context, serviceID uuid.UUID, date string, entries []*Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	group := GroupKey(serviceID, date)
	for _, entry := range entries {
		if entry.GroupKey() != group {
			return ErrInvalidState
		}
		if _, ok := s.entries[entry.ID]; !ok {
			return ErrNotFound
		}
	}
	for _, entry := range entries {
		if err := s.updateLocked(entry); err != nil {
			return err
		}
	}
	return nil
}

func (s *memoryStore) HoldSlot(_ context.Context, key string, entryID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if holder, held := s.slots[key]; held && holder != entryID {
		return ErrSlotHeld
	}
	s.slots[key] = entryID
	return nil
}

func (s *memoryStore) ReleaseSlot(_ context.Context, key string, entryID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if holder, held := s.slots[key]; held && holder == entryID {
		delete(s.slots, key)
	}
}

func (s *memoryStore) ListOverdueOffers(_ context.Context, now time.Time) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var overdue []*Entry
	for _, entry := range s.entries {
		if entry.Status == StatusSlotAvailable && entry.Offer != nil && now.After(entry.Offer.OfferDeadline) {
			overdue = append(overdue, entry.Clone())
		}
	}
	return overdue, nil
}

func (s *memoryStore) ListStaleWaiting(_ context.Context, now time.Time) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stale []*Entry
	for _, entry := range s.entries {
		if entry.Status == StatusWaiting && now.After(entry.ExpiresAt) {
			stale = append(stale, entry.Clone())
		}
	}
	return stale, nil
}

// sortByJoinOrder orders entries FIFO: joinedAt ascending, insertion sequence
// as the deterministic tie-break for equal timestamps.
func sortByJoinOrder(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].JoinedAt.Equal(entries[j].JoinedAt) {
			return entries[i].seq < entries[j].seq
		}
		return entries[i].JoinedAt.Before(entries[j].JoinedAt)
	})
}
