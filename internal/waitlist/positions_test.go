package waitlist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputePositionsContiguousAfterGap(t *testing.T) {
	env := newTestEnv(t)

	entries := make([]*Entry, 5)
	for i := range entries {
		entries[i] = env.join(t)
		env.clock.Advance(time.Second)
	}

	// Remove two mid-queue entries, leaving ranks 1, 3, 5
	_, err := env.svc.Cancel(context.Background(), entries[1].ID, entries[1].UserID)
	require.NoError(t, err)
	_, err = env.svc.Cancel(context.Background(), entries[3].ID, entries[3].UserID)
	require.NoError(t, err)

	waiting, err := env.svc.store.ListWaiting(context.Background(), env.serviceID, env.date)
	require.NoError(t, err)
	require.Len(t, waiting, 3)
	for i, entry := range waiting {
		assert.Equal(t, i+1, entry.Position)
	}
	assert.Equal(t, entries[0].ID, waiting[0].ID)
	assert.Equal(t, entries[2].ID, waiting[1].ID)
	assert.Equal(t, entries[4].ID, waiting[2].ID)
}

func TestRecomputePositionsReportsOnlyMovedEntries(t *testing.T) {
	env := newTestEnv(t)

	first := env.join(t)
	env.clock.Advance(time.Second)
	second := env.join(t)
	env.clock.Advance(time.Second)
	third := env.join(t)

	unlock := env.svc.locks.acquire(GroupKey(env.serviceID, env.date))
	defer unlock()

	// Nothing moved yet
	changed, err := env.svc.recomputePositions(context.Background(), env.serviceID, env.date)
	require.NoError(t, err)
	assert.Empty(t, changed)

	// Knock out the head of the queue directly, then recompute
	head, err := env.svc.store.Get(context.Background(), first.ID)
	require.NoError(t, err)
	head.Status = StatusCancelled
	require.NoError(t, env.svc.store.Update(context.Background(), head))

	changed, err = env.svc.recomputePositions(context.Background(), env.serviceID, env.date)
	require.NoError(t, err)
	require.Len(t, changed, 2)

	byID := make(map[string]PositionChange, len(changed))
	for _, change := range changed {
		byID[change.Entry.ID.String()] = change
	}
	assert.Equal(t, 1, byID[second.ID.String()].NewPosition)
	assert.Equal(t, 2, byID[second.ID.String()].OldPosition)
	assert.Equal(t, 2, byID[third.ID.String()].NewPosition)
	assert.Equal(t, 3, byID[third.ID.String()].OldPosition)
}

func TestRecomputePositionsHonorsJoinOrderTieBreak(t *testing.T) {
	env := newTestEnv(t)

	// All join at the same instant; insertion order decides rank
	first := env.join(t)
	second := env.join(t)
	third := env.join(t)

	_, err := env.svc.Cancel(context.Background(), first.ID, first.UserID)
	require.NoError(t, err)

	assert.Equal(t, 1, env.get(t, second.ID).Position)
	assert.Equal(t, 2, env.get(t, third.ID).Position)
}
