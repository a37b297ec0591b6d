package analytics

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// Subscriber receives live snapshot messages. *websocket.Conn satisfies it.
type Subscriber interface {
	WriteJSON(v interface{}) error
}

// deadlineSetter is implemented by subscribers backed by a network
// connection.
type deadlineSetter interface {
	SetWriteDeadline(t time.Time) error
}

// subscription serialises writes to one subscriber.
type subscription struct {
	mu  sync.Mutex
	sub Subscriber
}

func (s *subscription) write(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.sub.(deadlineSetter); ok {
		if err := d.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return err
		}
	}
	return s.sub.WriteJSON(v)
}

// Hub fans snapshot messages out to connected live-feed clients.
type Hub struct {
	mu          sync.Mutex
	subscribers map[Subscriber]*subscription
	logger      *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subscribers: make(map[Subscriber]*subscription),
		logger:      logger.Named("analytics.hub"),
	}
}

func (h *Hub) Register(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[s]; !ok {
		h.subscribers[s] = &subscription{sub: s}
	}
}

func (h *Hub) Unregister(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, s)
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Broadcast writes v to every subscriber and drops the ones that fail. It
// returns the number of successful deliveries. Writes run outside the hub
// lock, one goroutine per subscriber, each bounded by writeWait when the
// subscriber supports deadlines.
func (h *Hub) Broadcast(v interface{}) int {
	h.mu.Lock()
	targets := make([]*subscription, 0, len(h.subscribers))
	for _, s := range h.subscribers {
		targets = append(targets, s)
	}
	h.mu.Unlock()

	var (
		delivered atomic.Int64
		wg        sync.WaitGroup
	)
	for _, s := range targets {
		wg.Add(1)
		go func(s *subscription) {
			defer wg.Done()
			if err := s.write(v); err != nil {
				h.logger.Debug("Dropping live feed subscriber", zap.Error(err))
				h.drop(s)
				return
			}
			delivered.Add(1)
		}(s)
	}
	wg.Wait()
	return int(delivered.Load())
}

// drop removes s unless it was unregistered and registered again meanwhile.
func (h *Hub) drop(s *subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.subscribers[s.sub]; ok && current == s {
		delete(h.subscribers, s.sub)
	}
}
