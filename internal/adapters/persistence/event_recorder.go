package persistence

import (
	"context"
	"sync"
	"time"

	appBuilding "github.com/alanli-ML/ai-rts-sub008/internal/application/building"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/logging"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
)

// appendTimeout bounds each event insert so a slow database never backs up
// into the recorder goroutine
const appendTimeout = 5 * time.Second

// EventRecorder drains the firehose subscription into the event log. It runs
// off the simulation goroutine, so a slow database delays history, never the
// tick. Events dropped by the bus under backpressure are simply absent from
// history.
type EventRecorder struct {
	repo   building.EventLog
	bus    *appBuilding.BuildingEventBus
	logger logging.Logger

	ch   <-chan building.Event
	done chan struct{}
	once sync.Once
}

// NewEventRecorder creates a recorder wired to the given bus and event log
func NewEventRecorder(repo building.EventLog, bus *appBuilding.BuildingEventBus, logger logging.Logger) *EventRecorder {
	return &EventRecorder{
		repo:   repo,
		bus:    bus,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start subscribes to the firehose and begins persisting events
func (r *EventRecorder) Start() {
	r.once.Do(func() {
		r.ch = r.bus.SubscribeAll()
		go r.run()
	})
}

// Stop unsubscribes and waits for the recorder goroutine to exit
func (r *EventRecorder) Stop() {
	if r.ch == nil {
		return
	}
	r.bus.UnsubscribeAll(r.ch)
	<-r.done
}

func (r *EventRecorder) run() {
	defer close(r.done)
	for event := range r.ch {
		r.append(event)
	}
}

func (r *EventRecorder) append(event building.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()

	if err := r.repo.Append(ctx, event); err != nil && r.logger != nil {
		r.logger.Log("ERROR", "Failed to record building event", map[string]interface{}{
			"building_id": event.BuildingID(),
			"kind":        string(event.Kind()),
			"error":       err.Error(),
		})
	}
}
