package waitlist

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"slotline/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mapCache) DeletePattern(context.Context, string) error { return nil }

func (c *mapCache) Exists(_ context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func (c *mapCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}
	value, err := fetcher()
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.Get(ctx, key, dest)
}

func (c *mapCache) Ping(context.Context) error { return nil }

func TestSnapshotRoundTrip(t *testing.T) {
	snapshots := NewSnapshots(newMapCache())
	serviceID := uuid.New()

	waiting := []*Entry{
		{ID: uuid.New(), Position: 1, JoinedAt: time.Now().Add(-time.Minute).UTC()},
		{ID: uuid.New(), Position: 2, JoinedAt: time.Now().UTC()},
	}
	snapshots.Put(context.Background(), serviceID, "2025-11-05", waiting)

	got, err := snapshots.Get(context.Background(), serviceID, "2025-11-05")
	require.NoError(t, err)
	assert.Equal(t, serviceID.String(), got.ServiceID)
	assert.Equal(t, "2025-11-05", got.Date)
	require.Len(t, got.Waiting, 2)
	assert.Equal(t, waiting[0].ID.String(), got.Waiting[0].EntryID)
	assert.Equal(t, 2, got.Waiting[1].Position)
}

func TestSnapshotMiss(t *testing.T) {
	snapshots := NewSnapshots(newMapCache())

	_, err := snapshots.Get(context.Background(), uuid.New(), "2025-11-05")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestGroupViewServedFromSnapshot(t *testing.T) {
	env := newTestEnv(t)
	env.join(t)
	env.join(t)

	// Attach the cache after the joins and seed it with a divergent
	// projection; a cache hit must win over the store
	store := newMapCache()
	snapshots := NewSnapshots(store)
	env.svc.WithSnapshots(snapshots)

	cached := []*Entry{{ID: uuid.New(), Position: 1, JoinedAt: time.Now().UTC()}}
	snapshots.Put(context.Background(), env.serviceID, env.date, cached)

	view, err := env.svc.GroupView(context.Background(), env.serviceID, env.date)
	require.NoError(t, err)
	require.Len(t, view.Waiting, 1)
	assert.Equal(t, cached[0].ID.String(), view.Waiting[0].EntryID)
}

func TestGroupViewFallsBackToStoreOnMiss(t *testing.T) {
	env := newTestEnv(t)
	store := newMapCache()
	env.svc.WithSnapshots(NewSnapshots(store))

	first := env.join(t)
	env.join(t)

	// Evict the snapshot; the view must be rebuilt from the store and the
	// cache repopulated
	key := snapshotKey(env.serviceID, env.date)
	require.NoError(t, store.Delete(context.Background(), key))

	view, err := env.svc.GroupView(context.Background(), env.serviceID, env.date)
	require.NoError(t, err)
	require.Len(t, view.Waiting, 2)
	assert.Equal(t, first.ID.String(), view.Waiting[0].EntryID)
	assert.True(t, store.Exists(context.Background(), key))
}

func TestGroupViewWithoutCache(t *testing.T) {
	env := newTestEnv(t)
	env.join(t)

	view, err := env.svc.GroupView(context.Background(), env.serviceID, env.date)
	require.NoError(t, err)
	require.Len(t, view.Waiting, 1)
	assert.Equal(t, 1, view.Waiting[0].Position)
}

func TestGroupViewRejectsMalformedDate(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.GroupView(context.Background(), env.serviceID, "05/11/2025")
	assert.Error(t, err)
}

func TestSnapshotRefreshedOnMutation(t *testing.T) {
	env := newTestEnv(t)
	store := newMapCache()
	env.svc.WithSnapshots(NewSnapshots(store))

	first := env.join(t)
	env.join(t)

	snapshot, err := env.svc.snapshots.Get(context.Background(), env.serviceID, env.date)
	require.NoError(t, err)
	require.Len(t, snapshot.Waiting, 2)

	_, err = env.svc.Cancel(context.Background(), first.ID, first.UserID)
	require.NoError(t, err)

	snapshot, err = env.svc.snapshots.Get(context.Background(), env.serviceID, env.date)
	require.NoError(t, err)
	require.Len(t, snapshot.Waiting, 1)
	assert.Equal(t, 1, snapshot.Waiting[0].Position)
}
