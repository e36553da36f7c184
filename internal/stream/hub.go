// Package stream pushes live updates to connected viewers over WebSocket.
//
// The model is snapshot-based: a client subscribes to named channels and
// receives the full current state of each channel immediately, then again
// whenever a write changes it. There is no patching and no delta protocol —
// after every change the hub re-reads the affected data and broadcasts the
// whole snapshot, so a viewer can never get stuck on a stale or partial
// view. Ordering across different channels is not guaranteed.
package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/captainsdeck/backend/internal/domain"
)

// Channel names. Global channels are plain strings; per-trip channels embed
// the trip id.
const (
	ChannelTrips    = "trips"
	ChannelSettings = "settings"
)

// TripChannel names the single-trip channel for a trip.
func TripChannel(id uuid.UUID) string { return "trip:" + id.String() }

// YachtsChannel names a trip's vessel-options channel.
func YachtsChannel(id uuid.UUID) string { return "yachts:" + id.String() }

// PaymentsChannel names a trip's payments channel.
func PaymentsChannel(id uuid.UUID) string { return "payments:" + id.String() }

// Snapshots supplies the current state of each channel. The hub calls these
// after every relevant write and on each new subscription; implementations
// read from the repositories.
type Snapshots struct {
	Trips    func(ctx context.Context) (any, error)
	Trip     func(ctx context.Context, id uuid.UUID) (any, error)
	Yachts   func(ctx context.Context, tripID uuid.UUID) (any, error)
	Payments func(ctx context.Context, tripID uuid.UUID) (any, error)
	Settings func(ctx context.Context) (any, error)
}

// envelope is the wire format of every server→client message.
type envelope struct {
	Channel string `json:"channel"`
	Data    any    `json:"data"`
}

// Hub tracks connected clients and their channel subscriptions, and fans
// snapshot updates out to them. It implements service.Notifier, so services
// call straight into it after successful writes.
type Hub struct {
	snapshots Snapshots
	log       *slog.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	// subs maps channel name → subscribed clients.
	subs map[string]map[*client]struct{}
	// closed is set by closeAll; read pumps may outlive the hub loop
	// briefly, and their subscribes must not touch closed send channels.
	closed bool

	register   chan *client
	unregister chan *client
	changes    chan string
}

// NewHub constructs a Hub. Call Run in a goroutine before serving.
func NewHub(snapshots Snapshots, log *slog.Logger) *Hub {
	return &Hub{
		snapshots:  snapshots,
		log:        log,
		clients:    make(map[*client]struct{}),
		subs:       make(map[string]map[*client]struct{}),
		register:   make(chan *client, 8),
		unregister: make(chan *client, 8),
		changes:    make(chan string, 256),
	}
}

// Run is the hub's main loop: it handles client churn and change events
// until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			h.log.Debug("stream client connected")

		case c := <-h.unregister:
			h.drop(c)

		case channel := <-h.changes:
			h.publish(ctx, channel)
		}
	}
}

// subscribe adds the client to a channel and sends it the current snapshot.
func (h *Hub) subscribe(ctx context.Context, c *client, channel string) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	if h.subs[channel] == nil {
		h.subs[channel] = make(map[*client]struct{})
	}
	h.subs[channel][c] = struct{}{}
	h.mu.Unlock()

	msg, err := h.snapshot(ctx, channel)
	if err != nil {
		h.log.Warn("stream snapshot failed", "channel", channel, "error", err)
		return
	}

	// Re-check membership under the lock: drop and closeAll close c.send
	// while holding it, so enqueueing outside would race a closed channel.
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.subs[channel][c]; ok {
		c.enqueue(msg)
	}
}

// unsubscribe removes the client from a channel.
func (h *Hub) unsubscribe(c *client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set := h.subs[channel]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, channel)
		}
	}
}

// publish re-reads a channel's snapshot and fans it out to subscribers.
// Channels nobody listens to are skipped without touching the store.
func (h *Hub) publish(ctx context.Context, channel string) {
	h.mu.RLock()
	n := len(h.subs[channel])
	h.mu.RUnlock()
	if n == 0 {
		return
	}

	msg, err := h.snapshot(ctx, channel)
	if err != nil {
		h.log.Warn("stream snapshot failed", "channel", channel, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.subs[channel] {
		c.enqueue(msg)
	}
}

// snapshot loads and marshals the current state of a channel.
func (h *Hub) snapshot(ctx context.Context, channel string) ([]byte, error) {
	var (
		data any
		err  error
	)
	switch kind, id, idErr := splitChannel(channel); {
	case idErr != nil:
		return nil, idErr
	case kind == ChannelTrips:
		data, err = h.snapshots.Trips(ctx)
	case kind == ChannelSettings:
		data, err = h.snapshots.Settings(ctx)
	case kind == "trip":
		data, err = h.snapshots.Trip(ctx, id)
	case kind == "yachts":
		data, err = h.snapshots.Yachts(ctx, id)
	case kind == "payments":
		data, err = h.snapshots.Payments(ctx, id)
	default:
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Channel: channel, Data: data})
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for channel, set := range h.subs {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, channel)
		}
	}
	close(c.send)
	h.log.Debug("stream client disconnected")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
	}
	h.clients = make(map[*client]struct{})
	h.subs = make(map[string]map[*client]struct{})
	h.closed = true
}

// notify queues a change event. Never blocks a write path: if the queue is
// full the event is dropped and subscribers catch up on the next change.
func (h *Hub) notify(channel string) {
	select {
	case h.changes <- channel:
	default:
		h.log.Warn("stream change queue full, event dropped", "channel", channel)
	}
}

// TripsChanged implements service.Notifier.
func (h *Hub) TripsChanged() { h.notify(ChannelTrips) }

// TripChanged implements service.Notifier. A single-trip change also
// invalidates the trip list, which embeds per-trip summary fields.
func (h *Hub) TripChanged(id uuid.UUID) {
	h.notify(TripChannel(id))
	h.notify(ChannelTrips)
}

// YachtsChanged implements service.Notifier.
func (h *Hub) YachtsChanged(tripID uuid.UUID) { h.notify(YachtsChannel(tripID)) }

// PaymentsChanged implements service.Notifier.
func (h *Hub) PaymentsChanged(tripID uuid.UUID) { h.notify(PaymentsChannel(tripID)) }

// SettingsChanged implements service.Notifier.
func (h *Hub) SettingsChanged() { h.notify(ChannelSettings) }
