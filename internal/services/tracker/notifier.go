package tracker

import (
	"log/slog"
	"sync"

	"github.com/tallyhq/scorekeep/internal/model"
)

// EventType identifies what changed in the store
type EventType string

const (
	EventGamesLoaded      EventType = "games_loaded"
	EventGameCreated      EventType = "game_created"
	EventGameDeleted      EventType = "game_deleted"
	EventScoreAdded       EventType = "score_added"
	EventPlayerAdded      EventType = "player_added"
	EventSelectionChanged EventType = "selection_changed"
	EventStoreImported    EventType = "store_imported"
)

// Event is a change notification emitted after a successful mutation.
// Presentation layers re-render on receipt; the event carries enough to
// know what to refetch, not the changed data itself.
type Event struct {
	Type   EventType    `json:"type"`
	GameID model.GameID `json:"gameId,omitempty"`
}

// Notifier fans change events out to subscribers. Slow subscribers have
// events dropped rather than blocking mutations.
type Notifier struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	logger *slog.Logger
}

// NewNotifier creates a Notifier
func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{
		subs:   make(map[int]chan Event),
		logger: logger,
	}
}

// Subscribe registers a new subscriber. The returned cancel function
// must be called to release the subscription.
func (n *Notifier) Subscribe() (<-chan Event, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	ch := make(chan Event, 16)
	n.subs[id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if sub, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish sends an event to every subscriber
func (n *Notifier) Publish(event Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, ch := range n.subs {
		select {
		case ch <- event:
		default:
			n.logger.Warn("change event dropped - subscriber buffer full",
				slog.Int("subscriber", id),
				slog.String("event", string(event.Type)),
			)
		}
	}
}

// SubscriberCount returns the number of active subscribers
func (n *Notifier) SubscriberCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}
