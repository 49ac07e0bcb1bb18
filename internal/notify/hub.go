package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is pushed to connected presentation clients whenever state that
// affects a ranking changes, so they know to re-rank.
type Event struct {
	Type  string    `json:"type"` // "feedback.updated", "model.trained", "weights.changed"
	MalID int64     `json:"mal_id,omitempty"`
	At    time.Time `json:"at"`
}

func FeedbackUpdated(malID int64) Event {
	return Event{Type: "feedback.updated", MalID: malID, At: time.Now().UTC()}
}

func ModelTrained() Event {
	return Event{Type: "model.trained", At: time.Now().UTC()}
}

func WeightsChanged() Event {
	return Event{Type: "weights.changed", At: time.Now().UTC()}
}

// Hub fans events out to websocket subscribers. Dead connections are dropped
// on first write failure.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *Hub) Add(ws *websocket.Conn) {
	h.mu.Lock()
	h.clients[ws] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Remove(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Broadcast(ev Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	b = append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	for ws := range h.clients {
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			_ = ws.Close()
			delete(h.clients, ws)
		}
	}
}
