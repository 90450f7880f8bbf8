package waitlist

import (
	"context"

	"github.com/google/uuid"
)

// PositionChange reports an entry whose rank moved during a recompute
type PositionChange struct {
	Entry       *Entry
	OldPosition int
	NewPosition int
}

// recomputePositions reassigns 1..N to the waiting entries of a (service,
// date) group in join order and commits the whole group atomically. Only
// entries whose rank actually moved are returned, so callers can notify
// affected users without flooding the rest of the group.
//
// Must be called with the group's mutation lock held.
func (s *Service) recomputePositions(ctx context.Context, serviceID uuid.UUID, date string) ([]PositionChange, error) {
	waiting, err := s.store.ListWaiting(ctx, serviceID, date)
	if err != nil {
		return nil, err
	}

	var changed []PositionChange
	for i, entry := range waiting {
		rank := i + 1
		if entry.Position == rank {
			continue
		}
		changed = append(changed, PositionChange{
			Entry:       entry,
			OldPosition: entry.Position,
			NewPosition: rank,
		})
		entry.Position = rank
		entry.UpdatedAt = s.now()
	}

	if len(changed) == 0 {
		return nil, nil
	}

	batch := make([]*Entry, 0, len(changed))
	for _, change := range changed {
		batch = append(batch, change.Entry)
	}
	if err := s.store.ReplaceGroup(ctx, serviceID, date, batch); err != nil {
		return nil, err
	}
	return changed, nil
}
