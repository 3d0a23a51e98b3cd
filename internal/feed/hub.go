// Package feed fans freight-posted events out to websocket subscribers.
package feed

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

type Subscriber struct {
	ID   string
	Send chan []byte
}

// Hub owns the subscriber set. All mutation happens on the Run goroutine;
// subscribers that cannot keep up are dropped rather than allowed to stall
// the broadcast.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber

	subscribe   chan *Subscriber
	unsubscribe chan *Subscriber
	events      chan []byte

	log     *slog.Logger
	stop    chan struct{}
	stopped chan struct{}

	nextID atomic.Uint64
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		subscribers: make(map[string]*Subscriber),
		subscribe:   make(chan *Subscriber),
		unsubscribe: make(chan *Subscriber),
		events:      make(chan []byte, 1024),
		log:         log.With("cmp", "feed.hub"),
		stop:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
}

func (h *Hub) newID() string {
	return fmt.Sprintf("s%d", h.nextID.Add(1))
}

func (h *Hub) Run() {
	h.log.Info("hub_run_start")
	defer close(h.stopped)

	for {
		select {
		case s := <-h.subscribe:
			if s.ID == "" {
				s.ID = h.newID()
			}
			h.mu.Lock()
			h.subscribers[s.ID] = s
			h.mu.Unlock()
			h.log.Info("subscriber_joined", "id", s.ID, "total", len(h.subscribers))

		case s := <-h.unsubscribe:
			h.mu.Lock()
			if s != nil && s.ID != "" {
				if _, ok := h.subscribers[s.ID]; ok {
					delete(h.subscribers, s.ID)
					close(s.Send)
				}
			}
			h.mu.Unlock()
			h.log.Info("subscriber_left", "id", s.ID, "total", len(h.subscribers))

		case ev := <-h.events:
			var slow []*Subscriber
			h.mu.RLock()
			for _, s := range h.subscribers {
				select {
				case s.Send <- ev:
				default:
					// slow subscriber, drop it so the feed keeps moving
					slow = append(slow, s)
				}
			}
			h.mu.RUnlock()
			if len(slow) > 0 {
				h.mu.Lock()
				for _, s := range slow {
					delete(h.subscribers, s.ID)
					close(s.Send)
				}
				h.mu.Unlock()
				h.log.Warn("slow_subscribers_dropped", "count", len(slow))
			}

		case <-h.stop:
			h.mu.Lock()
			for id, s := range h.subscribers {
				close(s.Send)
				delete(h.subscribers, id)
			}
			h.mu.Unlock()
			h.log.Info("hub_run_stop")
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.stop)
	<-h.stopped
}

func (h *Hub) Subscribe(s *Subscriber)   { h.subscribe <- s }
func (h *Hub) Unsubscribe(s *Subscriber) { h.unsubscribe <- s }

// Broadcast queues an event for every connected subscriber.
func (h *Hub) Broadcast(ev []byte) { h.events <- ev }
