package notifications

import (
	"context"
	"log/slog"
	"sync"

	"slotline/pkg/logger"

	"github.com/google/uuid"
)

const defaultQueueSize = 1024

// eventTypes maps the engine's short event names to wire event types
var eventTypes = map[string]EventType{
	"joined":           EventTypeWaitlistJoined,
	"positionUpdated":  EventTypePositionUpdated,
	"slotAvailable":    EventTypeSlotAvailable,
	"slotConfirmed":    EventTypeSlotConfirmed,
	"slotExpired":      EventTypeSlotExpired,
	"bookingCancelled": EventTypeBookingCancelled,
}

// Dispatcher decouples the queue engine from Kafka: Emit never blocks a
// mutation path, events are published from a single worker goroutine. A full
// queue drops the event with a warning; waitlist notifications are advisory,
// queue state is always authoritative.
type Dispatcher struct {
	producer Producer
	queue    chan *Event
	log      *logger.Logger
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewDispatcher creates a dispatcher in front of the given producer
func NewDispatcher(producer Producer) *Dispatcher {
	return &Dispatcher{
		producer: producer,
		queue:    make(chan *Event, defaultQueueSize),
		log:      logger.GetDefault(),
	}
}

// Start launches the publishing worker
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for event := range d.queue {
			if err := d.producer.Publish(ctx, event); err != nil {
				d.log.Error("failed to publish notification event",
					slog.String("event_id", event.ID.String()),
					slog.String("type", string(event.Type)),
					slog.Any("error", err),
				)
			}
		}
	}()
}

// Stop drains the queue and waits for the worker to finish
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

// Emit enqueues an event for asynchronous publishing. Never blocks.
func (d *Dispatcher) Emit(userID uuid.UUID, event string, payload map[string]any) {
	eventType, ok := eventTypes[event]
	if !ok {
		d.log.Warn("unknown notification event type", slog.String("event", event))
		return
	}

	select {
	case d.queue <- NewEvent(userID, eventType, payload):
	default:
		d.log.Warn("notification queue full, dropping event",
			slog.String("type", string(eventType)),
			slog.String("recipient_id", userID.String()),
		)
	}
}
