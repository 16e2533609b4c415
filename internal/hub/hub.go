// Package hub fans snapshot changes out to live clients.
// Each connected client (one open GET /api/v1/stream) picks a topic, either a
// table name like "scores" or "all", and the Hub pushes every matching change
// to it as a Server-Sent Events frame. This is how the leaderboard and the feed
// update on everyone's phone the moment somebody posts, without polling.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/trentd187/proof/internal/metrics"
	"github.com/trentd187/proof/internal/store"
	"github.com/trentd187/proof/internal/trip"
)

// TopicAll receives every change regardless of table.
const TopicAll = string(trip.TableAll)

// sendBuffer is how many frames a client may fall behind before it is dropped.
const sendBuffer = 64

// Client represents a single connected stream.
type Client struct {
	Topic string      // Which table this client follows, or TopicAll
	Send  chan []byte // Buffered channel of outgoing frames; the stream writer drains it
}

// NewClient creates a client for topic with a buffered Send channel.
func NewClient(topic string) *Client {
	return &Client{Topic: topic, Send: make(chan []byte, sendBuffer)}
}

// Message is one frame addressed to the clients of a topic.
type Message struct {
	Topic string
	Data  []byte
}

// Hub manages all connected clients, grouped by topic.
// It runs in its own goroutine and processes registration, unregistration and
// broadcast events through channels, so the clients map is only ever written
// from that one goroutine.
type Hub struct {
	// clients is topic -> set of clients. map[*Client]bool is the usual Go set.
	clients map[string]map[*Client]bool

	broadcast  chan *Message // Frames waiting to be delivered
	register   chan *Client  // New clients
	unregister chan *Client  // Disconnected clients
	done       chan struct{} // Closed when Run returns

	// mu guards clients for readers outside the Run loop (ClientCount).
	mu  sync.RWMutex
	log *slog.Logger
}

// New creates a Hub with empty channels and maps. broadcast is buffered so the
// store's commit path, which publishes here, never waits on the Hub goroutine.
func New() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        slog.Default().With("component", "hub"),
	}
}

// Run is the Hub's event loop. Call it in a goroutine ("go h.Run(ctx)"); it
// returns when ctx is cancelled, closing every client's Send channel so the
// stream writers finish.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for topic, clients := range h.clients {
				for c := range clients {
					close(c.Send)
				}
				delete(h.clients, topic)
			}
			h.mu.Unlock()
			metrics.StreamClients.Set(0)
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.Topic] == nil {
				h.clients[c.Topic] = make(map[*Client]bool)
			}
			h.clients[c.Topic][c] = true
			h.mu.Unlock()
			metrics.StreamClients.Inc()

		case c := <-h.unregister:
			h.remove(c)

		case msg := <-h.broadcast:
			h.mu.RLock()
			targets := make([]*Client, 0, len(h.clients[msg.Topic])+len(h.clients[TopicAll]))
			for c := range h.clients[msg.Topic] {
				targets = append(targets, c)
			}
			if msg.Topic != TopicAll {
				for c := range h.clients[TopicAll] {
					targets = append(targets, c)
				}
			}
			h.mu.RUnlock()

			for _, c := range targets {
				select {
				case c.Send <- msg.Data:
				default:
					// The client is too slow. Drop it rather than hold up everyone else;
					// its browser will reconnect and refetch the snapshot.
					h.remove(c)
				}
			}
		}
	}
}

// remove must only be called from the Run goroutine.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[c.Topic]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	close(c.Send)
	if len(clients) == 0 {
		delete(h.clients, c.Topic)
	}
	metrics.StreamClients.Dec()
}

// Register starts delivering frames for c.Topic to c. It reports false when
// the Hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister stops delivery and closes c.Send. Safe to call for a client the
// Hub already dropped, or after the Hub has stopped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount returns how many streams are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

// Broadcast queues one frame for topic. It never blocks: if the queue is full
// the frame is dropped and logged.
func (h *Hub) Broadcast(topic string, data []byte) {
	select {
	case h.broadcast <- &Message{Topic: topic, Data: data}:
	default:
		h.log.Warn("broadcast queue full, dropping frame", "topic", topic)
	}
}

// OnEvent is a store.Subscriber: it turns each change into an SSE frame on the
// change's table topic. Whole-snapshot replacements go out on TopicAll as a
// "snapshot" event carrying no record, so clients refetch. Time capsule changes
// go out without their record too.
func (h *Hub) OnEvent(ev store.Event) {
	for _, c := range ev.Changes {
		if c.Op == trip.OpReplace {
			data, _ := json.Marshal(trip.Change{Table: c.Table, Op: c.Op})
			h.Broadcast(TopicAll, Frame("snapshot", data))
			continue
		}
		if c.Table == trip.TableTimeCapsule {
			// Sealed entries are private; subscribers refetch what they may see.
			c.Record = nil
		}
		data, err := json.Marshal(c)
		if err != nil {
			h.log.Error("encode change", "table", c.Table, "id", c.ID, "error", err)
			continue
		}
		h.Broadcast(string(c.Table), Frame(string(c.Table), data))
	}
}

// Frame formats one Server-Sent Events message.
func Frame(event string, data []byte) []byte {
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event, data))
}
