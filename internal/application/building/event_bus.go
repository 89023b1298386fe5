package building

import (
	"sync"

	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
)

// subscriberBuffer sizes each subscription channel. A construction completion
// publishes up to three events in one tick, so the buffer leaves headroom for
// several buildings completing together.
const subscriberBuffer = 64

// BuildingEventBus provides pub/sub for building lifecycle events.
// Implements the EventPublisher port from the domain.
// Thread-safe, supports multiple subscribers per team plus firehose
// subscribers that receive every event. Uses buffered channels and
// non-blocking sends so a slow subscriber never stalls the simulation;
// a subscriber that falls behind misses events rather than blocking them.
type BuildingEventBus struct {
	mu sync.RWMutex

	// teamSubscribers[teamID] = []channels
	teamSubscribers map[int][]chan building.Event

	// allSubscribers receive events for every team
	allSubscribers []chan building.Event
}

// Compile-time interface check
var _ building.EventPublisher = (*BuildingEventBus)(nil)

// NewBuildingEventBus creates a new event bus for building lifecycle events
func NewBuildingEventBus() *BuildingEventBus {
	return &BuildingEventBus{
		teamSubscribers: make(map[int][]chan building.Event),
	}
}

// Publish delivers an event to the owning team's subscribers and every
// firehose subscriber. Events published within one tick arrive in emission
// order on each channel.
func (b *BuildingEventBus) Publish(event building.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.teamSubscribers[event.Team()] {
		// Non-blocking send - skip if channel buffer is full
		select {
		case ch <- event:
		default:
		}
	}

	for _, ch := range b.allSubscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe returns a channel receiving events for one team.
// Caller must Unsubscribe when done.
func (b *BuildingEventBus) Subscribe(teamID int) <-chan building.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan building.Event, subscriberBuffer)
	b.teamSubscribers[teamID] = append(b.teamSubscribers[teamID], ch)
	return ch
}

// Unsubscribe removes a team subscription. Closes the channel.
func (b *BuildingEventBus) Unsubscribe(teamID int, ch <-chan building.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	channels := b.teamSubscribers[teamID]
	for i, c := range channels {
		if c == ch {
			close(c)
			channels[i] = channels[len(channels)-1]
			b.teamSubscribers[teamID] = channels[:len(channels)-1]
			break
		}
	}

	if len(b.teamSubscribers[teamID]) == 0 {
		delete(b.teamSubscribers, teamID)
	}
}

// SubscribeAll returns a channel receiving every event regardless of team.
// Caller must UnsubscribeAll when done.
func (b *BuildingEventBus) SubscribeAll() <-chan building.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan building.Event, subscriberBuffer)
	b.allSubscribers = append(b.allSubscribers, ch)
	return ch
}

// UnsubscribeAll removes a firehose subscription. Closes the channel.
func (b *BuildingEventBus) UnsubscribeAll(ch <-chan building.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, c := range b.allSubscribers {
		if c == ch {
			close(c)
			b.allSubscribers[i] = b.allSubscribers[len(b.allSubscribers)-1]
			b.allSubscribers = b.allSubscribers[:len(b.allSubscribers)-1]
			break
		}
	}
}

// SubscriberCount returns the number of subscribers for one team.
// Useful for testing and monitoring.
func (b *BuildingEventBus) SubscriberCount(teamID int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.teamSubscribers[teamID])
}

// TotalSubscriberCount returns the total number of active subscriptions.
// Useful for monitoring.
func (b *BuildingEventBus) TotalSubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	total := len(b.allSubscribers)
	for _, channels := range b.teamSubscribers {
		total += len(channels)
	}
	return total
}
