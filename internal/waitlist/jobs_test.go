package waitlist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepOnceExpiresOffersAndStaleWaiting(t *testing.T) {
	env := newTestEnv(t)

	offered := env.join(t, "10:00")
	_, err := env.svc.OfferSlot(context.Background(), offered.ID, env.date, "10:00", nil)
	require.NoError(t, err)

	stale := env.join(t, "11:00")

	env.clock.Advance(QueueLifetime + time.Hour)

	jobs := NewJobProcessor(env.svc, nil)
	jobs.sweepOnce(context.Background())

	assert.Equal(t, StatusExpired, env.get(t, offered.ID).Status)
	assert.Equal(t, StatusExpired, env.get(t, stale.ID).Status)
}

func TestSweepOnceLeavesFreshEntriesAlone(t *testing.T) {
	env := newTestEnv(t)

	offered := env.join(t, "10:00")
	_, err := env.svc.OfferSlot(context.Background(), offered.ID, env.date, "10:00", nil)
	require.NoError(t, err)

	waiting := env.join(t, "11:00")

	env.clock.Advance(time.Minute)

	jobs := NewJobProcessor(env.svc, nil)
	jobs.sweepOnce(context.Background())

	assert.Equal(t, StatusSlotAvailable, env.get(t, offered.ID).Status)
	assert.Equal(t, StatusWaiting, env.get(t, waiting.ID).Status)
}

func TestJobProcessorStopTerminatesLoop(t *testing.T) {
	env := newTestEnv(t)

	jobs := NewJobProcessor(env.svc, &JobConfig{SweepInterval: 10 * time.Millisecond})
	jobs.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	jobs.Stop()

	status := jobs.GetJobStatus()
	assert.Equal(t, "10ms", status["sweep_interval"])
}
