package waitlist

import (
	"context"
	"fmt"
	"time"

	"slotline/pkg/cache"

	"github.com/google/uuid"
)

const snapshotTTL = 10 * time.Minute

// QueueSnapshot is the read-side projection of a (service, date) group,
// refreshed after every committed mutation. Reads served from the snapshot
// never contend with the mutation lock.
type QueueSnapshot struct {
	ServiceID string          `json:"service_id"`
	Date      string          `json:"date"`
	Waiting   []SnapshotEntry `json:"waiting"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SnapshotEntry is one waiting entry inside a queue snapshot
type SnapshotEntry struct {
	EntryID  string    `json:"entry_id"`
	Position int       `json:"position"`
	JoinedAt time.Time `json:"joined_at"`
}

// Snapshots caches queue projections in Redis. Best effort on the write side:
// a failed refresh only means slightly staler reads.
type Snapshots struct {
	cache cache.Service
	now   func() time.Time
}

// NewSnapshots creates a snapshot cache backed by the given cache service
func NewSnapshots(c cache.Service) *Snapshots {
	return &Snapshots{cache: c, now: time.Now}
}

func snapshotKey(serviceID uuid.UUID, date string) string {
	return fmt.Sprintf("waitlist:snapshot:%s:%s", serviceID, date)
}

// newQueueSnapshot projects a waiting list into its cacheable read-side form
func newQueueSnapshot(serviceID uuid.UUID, date string, waiting []*Entry, at time.Time) *QueueSnapshot {
	snapshot := &QueueSnapshot{
		ServiceID: serviceID.String(),
		Date:      date,
		Waiting:   make([]SnapshotEntry, 0, len(waiting)),
		UpdatedAt: at,
	}
	for _, entry := range waiting {
		snapshot.Waiting = append(snapshot.Waiting, SnapshotEntry{
			EntryID:  entry.ID.String(),
			Position: entry.Position,
			JoinedAt: entry.JoinedAt,
		})
	}
	return snapshot
}

// Put replaces the cached projection for a group
func (s *Snapshots) Put(ctx context.Context, serviceID uuid.UUID, date string, waiting []*Entry) {
	snapshot := newQueueSnapshot(serviceID, date, waiting, s.now())
	_ = s.cache.Set(ctx, snapshotKey(serviceID, date), snapshot, snapshotTTL)
}

// Get returns the cached projection for a group, or cache.ErrCacheMiss
func (s *Snapshots) Get(ctx context.Context, serviceID uuid.UUID, date string) (*QueueSnapshot, error) {
	var snapshot QueueSnapshot
	if err := s.cache.Get(ctx, snapshotKey(serviceID, date), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
