package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingProducer struct {
	mu        sync.Mutex
	published []*Event
	err       error
	closed    bool
}

func (p *capturingProducer) Publish(_ context.Context, event *Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

func (p *capturingProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *capturingProducer) events() []*Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Event(nil), p.published...)
}

func TestDispatcherPublishesEmittedEvents(t *testing.T) {
	producer := &capturingProducer{}
	dispatcher := NewDispatcher(producer)
	dispatcher.Start(context.Background())

	userID := uuid.New()
	dispatcher.Emit(userID, "joined", map[string]any{"position": 3})
	dispatcher.Emit(userID, "slotAvailable", map[string]any{"slot_time": "10:00"})
	dispatcher.Stop()

	published := producer.events()
	require.Len(t, published, 2)
	assert.Equal(t, EventTypeWaitlistJoined, published[0].Type)
	assert.Equal(t, EventTypeSlotAvailable, published[1].Type)
	assert.Equal(t, userID, published[0].RecipientID)
	assert.Equal(t, PriorityHigh, published[1].Priority)
}

func TestDispatcherDropsUnknownEventNames(t *testing.T) {
	producer := &capturingProducer{}
	dispatcher := NewDispatcher(producer)
	dispatcher.Start(context.Background())

	dispatcher.Emit(uuid.New(), "somethingElse", nil)
	dispatcher.Stop()

	assert.Empty(t, producer.events())
}

func TestDispatcherEmitDoesNotBlockWhenQueueFull(t *testing.T) {
	producer := &capturingProducer{}
	dispatcher := NewDispatcher(producer)
	// Worker never started, so the queue fills up and stays full

	userID := uuid.New()
	for i := 0; i < defaultQueueSize+10; i++ {
		dispatcher.Emit(userID, "positionUpdated", map[string]any{"position": i})
	}

	assert.Len(t, dispatcher.queue, defaultQueueSize)
}

func TestDispatcherSurvivesPublishErrors(t *testing.T) {
	producer := &capturingProducer{err: errors.New("broker unavailable")}
	dispatcher := NewDispatcher(producer)
	dispatcher.Start(context.Background())

	dispatcher.Emit(uuid.New(), "joined", nil)
	dispatcher.Emit(uuid.New(), "slotExpired", nil)
	dispatcher.Stop()

	assert.Empty(t, producer.events())
}

func TestDispatcherStopIsIdempotent(t *testing.T) {
	dispatcher := NewDispatcher(&capturingProducer{})
	dispatcher.Start(context.Background())

	dispatcher.Stop()
	assert.NotPanics(t, dispatcher.Stop)
}

func TestEventDefaultPriorities(t *testing.T) {
	assert.Equal(t, PriorityHigh, NewEvent(uuid.New(), EventTypeSlotAvailable, nil).Priority)
	assert.Equal(t, PriorityMedium, NewEvent(uuid.New(), EventTypeSlotConfirmed, nil).Priority)
	assert.Equal(t, PriorityMedium, NewEvent(uuid.New(), EventTypeBookingCancelled, nil).Priority)
	assert.Equal(t, PriorityLow, NewEvent(uuid.New(), EventTypeWaitlistJoined, nil).Priority)
}

func TestEventPartitionKeyTracksRecipient(t *testing.T) {
	userID := uuid.New()
	event := NewEvent(userID, EventTypePositionUpdated, nil)
	assert.Equal(t, userID.String(), event.PartitionKey())
}
