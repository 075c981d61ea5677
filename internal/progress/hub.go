package progress

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/observability"
)

// Hub manages websocket connections and fans out observability.Events to
// clients subscribed to the job that produced them. Grounded in the
// teacher's websocket.Hub: the same register/unregister/broadcast channel
// trio plus a by-subscription index, generalised from per-workflow/
// per-execution indices to a single per-job index (a generation run has
// no sub-resource finer than the job itself).
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan jobEvent

	byJobID map[string]map[*Client]bool

	logger zerolog.Logger
	mu     sync.RWMutex
}

type jobEvent struct {
	jobID string
	event observability.Event
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan jobEvent, 256),
		byJobID:    make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run is the hub's single-goroutine event loop; call it in a goroutine
// once at startup.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.registerClient(c)
		case c := <-h.unregister:
			h.unregisterClient(c)
		case je := <-h.broadcast:
			h.broadcastEvent(je)
		}
	}
}

// Observer returns an observability.Observer that forwards every Event
// published on a Bus into this hub's broadcast channel, tagged with
// jobID. The orchestrator subscribes this to its Bus before calling
// Generate.
func (h *Hub) Observer(jobID string) observability.Observer {
	return observability.ObserverFunc(func(e observability.Event) {
		h.broadcast <- jobEvent{jobID: jobID, event: e}
	})
}

func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
	if h.byJobID[c.jobID] == nil {
		h.byJobID[c.jobID] = make(map[*Client]bool)
	}
	h.byJobID[c.jobID][c] = true
	h.logger.Debug().Str("client_id", c.id).Str("job_id", c.jobID).Msg("progress client registered")
}

func (h *Hub) unregisterClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	if set, ok := h.byJobID[c.jobID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.byJobID, c.jobID)
		}
	}
}

func (h *Hub) broadcastEvent(je jobEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.byJobID[je.jobID] {
		select {
		case c.send <- je.event:
		default:
			// slow client; drop rather than block the single broadcast
			// goroutine, matching the teacher's non-blocking send.
		}
	}
}
