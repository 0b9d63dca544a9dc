// Package events provides fire-and-forget notifications of engine lifecycle
// points. Delivery never blocks: a subscriber that falls behind loses events
// rather than stalling the runner.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type names a lifecycle point.
type Type string

const (
	TypePlayerJoinedQueue  Type = "player_joined_queue"
	TypePlayerLeftQueue    Type = "player_left_queue"
	TypeMatchFound         Type = "match_found"
	TypeLobbyCreated       Type = "lobby_created"
	TypeLobbyStateChanged  Type = "lobby_state_changed"
	TypeLobbyDispatched    Type = "lobby_dispatched"
	TypeLobbyClosed        Type = "lobby_closed"
	TypePartyCreated       Type = "party_created"
	TypePartyMemberAdded   Type = "party_member_added"
	TypePartyMemberRemoved Type = "party_member_removed"
	TypePartyDisbanded     Type = "party_disbanded"
	TypeRatingUpdated      Type = "rating_updated"
	TypeDecayApplied       Type = "decay_applied"
	TypeSeasonReset        Type = "season_reset"
)

// Event is one notification. Data carries event-specific fields as strings so
// consumers stay decoupled from internal types.
type Event struct {
	ID        uuid.UUID         `json:"id"`
	Type      Type              `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Data      map[string]string `json:"data,omitempty"`
}

const subscriberBuffer = 64

// Bus fans events out to subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]chan Event
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[uuid.UUID]chan Event)}
}

// Subscribe registers a consumer. The returned cancel func unregisters it and
// closes the channel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	id := uuid.New()
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if existing, ok := b.subscribers[id]; ok {
			delete(b.subscribers, id)
			close(existing)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers to every subscriber without blocking; full buffers drop.
// A nil bus discards everything, so emitting components need no wiring guard.
func (b *Bus) Publish(eventType Type, data map[string]string) {
	if b == nil {
		return
	}
	event := Event{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
