package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jlindh/ordgrid/internal/model"
)

const subscriberBuffer = 64

// Subscriber is one consumer of a game's event stream. Events are
// delivered on C; a subscriber that stops draining has events dropped
// rather than blocking the hub.
type Subscriber struct {
	hub      *Hub
	playerID model.PlayerID
	C        chan model.Event

	connectedAt time.Time
}

// NewSubscriber creates a subscriber for the given hub
func NewSubscriber(hub *Hub, playerID model.PlayerID) *Subscriber {
	return &Subscriber{
		hub:         hub,
		playerID:    playerID,
		C:           make(chan model.Event, subscriberBuffer),
		connectedAt: time.Now(),
	}
}

// Close unregisters the subscriber from its hub
func (s *Subscriber) Close() {
	s.hub.Unregister(s)
}

// Hub fans a single game's events out to its subscribers.
type Hub struct {
	gameID      model.GameID
	subscribers map[*Subscriber]bool
	mu          sync.RWMutex
	logger      *slog.Logger

	register   chan *Subscriber
	unregister chan *Subscriber
	publish    chan model.Event
	done       chan struct{}
}

// NewHub creates a new Hub for a game
func NewHub(gameID model.GameID, logger *slog.Logger) *Hub {
	return &Hub{
		gameID:      gameID,
		subscribers: make(map[*Subscriber]bool),
		logger:      logger.With(slog.String("game_id", string(gameID))),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		publish:     make(chan model.Event, 256),
		done:        make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			h.subscribers[sub] = true
			count := len(h.subscribers)
			h.mu.Unlock()
			h.logger.Debug("event subscriber registered",
				slog.String("player_id", string(sub.playerID)),
				slog.Int("total_subscribers", count))

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.subscribers[sub]; ok {
				delete(h.subscribers, sub)
				close(sub.C)
				count := len(h.subscribers)
				h.mu.Unlock()
				h.logger.Debug("event subscriber unregistered",
					slog.String("player_id", string(sub.playerID)),
					slog.Duration("connection_duration", time.Since(sub.connectedAt)),
					slog.Int("total_subscribers", count))
			} else {
				h.mu.Unlock()
			}

		case event := <-h.publish:
			h.mu.RLock()
			dropped := 0
			for sub := range h.subscribers {
				select {
				case sub.C <- event:
				default:
					dropped++
				}
			}
			h.mu.RUnlock()
			if dropped > 0 {
				h.logger.Warn("event dropped for slow subscribers",
					slog.String("event_type", string(event.Type)),
					slog.Int("dropped", dropped))
			}

		case <-h.done:
			h.mu.Lock()
			for sub := range h.subscribers {
				close(sub.C)
				delete(h.subscribers, sub)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a subscriber to the hub
func (h *Hub) Register(sub *Subscriber) {
	h.register <- sub
}

// Unregister removes a subscriber from the hub
func (h *Hub) Unregister(sub *Subscriber) {
	h.unregister <- sub
}

// Publish enqueues an event for delivery to all subscribers. Non-blocking:
// if the hub's buffer is full the event is dropped with a warning.
func (h *Hub) Publish(event model.Event) {
	select {
	case h.publish <- event:
	default:
		h.logger.Warn("event dropped - hub buffer full",
			slog.String("event_type", string(event.Type)))
	}
}

// Close shuts down the hub and disconnects all subscribers
func (h *Hub) Close() {
	close(h.done)
}

// SubscriberCount returns the number of connected subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// HubManager manages hubs for all games
type HubManager struct {
	hubs   map[model.GameID]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.GameID]*Hub),
		logger: logger.With(slog.String("component", "events")),
	}
}

// GetOrCreateHub returns the hub for a game, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(gameID model.GameID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[gameID]; ok {
		return hub
	}

	hub := NewHub(gameID, m.logger)
	m.hubs[gameID] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a game, or nil if it doesn't exist
func (m *HubManager) GetHub(gameID model.GameID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[gameID]
}

// Publish routes an event to its game's hub, creating the hub on demand so
// events published before the first subscriber attaches are not lost once
// it does.
func (m *HubManager) Publish(event model.Event) {
	m.GetOrCreateHub(event.GameID).Publish(event)
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(gameID model.GameID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[gameID]; ok {
		hub.Close()
		delete(m.hubs, gameID)
	}
}

// CleanupEmptyHubs removes hubs with no subscribers
func (m *HubManager) CleanupEmptyHubs() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, hub := range m.hubs {
		if hub.SubscriberCount() == 0 {
			hub.Close()
			delete(m.hubs, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("empty event hubs cleaned up", slog.Int("removed", removed))
	}
}

// Publisher is the outbound side of the hub, as seen by the coordinator.
type Publisher interface {
	Publish(event model.Event)
}

var _ Publisher = (*HubManager)(nil)
