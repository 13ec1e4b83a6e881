package service

import (
	"encoding/json"
	"sync"

	"github.com/callaa/drawpile-listing/internal/model"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Feed event names pushed to watch subscribers.
const (
	EventAnnounced = "announced"
	EventRefreshed = "refreshed"
	EventUnlisted  = "unlisted"
)

// FeedEvent is the JSON frame sent to watch subscribers. The session payload
// is the same field-reduced view the listing endpoint returns.
type FeedEvent struct {
	Event   string        `json:"event"`
	Session model.Session `json:"session"`
}

// Subscriber is one WebSocket connection watching the listing feed.
type Subscriber struct {
	Conn *websocket.Conn
	Send chan []byte
}

// FeedHub fans listing changes out to watch subscribers. Only session
// metadata crosses this hub; drawing traffic never touches the server.
type FeedHub struct {
	mu       sync.RWMutex
	subs     map[*Subscriber]struct{}
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewFeedHub creates a listing feed hub.
func NewFeedHub(log *zap.Logger) *FeedHub {
	return &FeedHub{
		subs: make(map[*Subscriber]struct{}),
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Allow all origins for dev; in prod set CheckOrigin.
		},
	}
}

// Subscribe adds a connection to the feed and returns a cleanup function.
func (h *FeedHub) Subscribe(conn *websocket.Conn) (*Subscriber, func()) {
	s := &Subscriber{
		Conn: conn,
		Send: make(chan []byte, 64),
	}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	h.log.Info("watch subscriber connected",
		zap.String("remote", conn.RemoteAddr().String()))

	cleanup := func() {
		h.unsubscribe(s)
	}
	return s, cleanup
}

func (h *FeedHub) unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; !ok {
		return
	}
	delete(h.subs, s)
	close(s.Send)
	h.log.Info("watch subscriber disconnected",
		zap.String("remote", s.Conn.RemoteAddr().String()))
}

// Broadcast pushes a listing change to all subscribers. Slow subscribers are
// skipped rather than blocking the request that caused the event. Safe to
// call on a nil hub.
func (h *FeedHub) Broadcast(event string, session model.Session) {
	if h == nil {
		return
	}
	raw, err := json.Marshal(FeedEvent{Event: event, Session: session})
	if err != nil {
		return
	}

	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.subs))
	for s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		select {
		case s.Send <- raw:
		default:
			h.log.Warn("watch subscriber send buffer full",
				zap.String("remote", s.Conn.RemoteAddr().String()))
		}
	}
}

// Upgrader returns the WebSocket upgrader for HTTP handlers.
func (h *FeedHub) Upgrader() *websocket.Upgrader {
	return &h.upgrader
}

// SubscriberCount returns the number of connected watchers (for debugging).
func (h *FeedHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
