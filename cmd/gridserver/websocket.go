package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"gridquadtree/quadtree"
)

// wsClient is one connected viewer, adapted from the taxi simulation's
// WebSocketClient: a connection plus a write mutex, since the hub's
// broadcast goroutine and a client's own reader loop both write to it.
type wsClient struct {
	conn *websocket.Conn
	id   string
	mu   sync.Mutex

	// viewport is the last rectangle this client asked about; the
	// periodic broadcast re-queries it on every tick. The zero value
	// means "nothing requested yet" and is skipped.
	viewportSet bool
	x1, y1, x2, y2 int
}

func (c *wsClient) writeJSON(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// hub tracks connected WebSocket clients and fans engine events and
// periodic viewport snapshots out to them, mirroring the clients
// map/upgrader pairing in the taxi simulation this was adapted from.
type hub struct {
	log      *logrus.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*wsClient
}

func newHub(log *logrus.Logger) *hub {
	return &hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*wsClient),
	}
}

// HandleWebSocket upgrades the connection and reads viewport requests
// from the client until it disconnects.
func (h *hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	id := r.RemoteAddr + "-" + time.Now().String()
	client := &wsClient{conn: conn, id: id}

	h.mu.Lock()
	h.clients[id] = client
	h.mu.Unlock()
	h.log.WithField("client", id).Info("viewer connected")

	defer func() {
		conn.Close()
		h.mu.Lock()
		delete(h.clients, id)
		h.mu.Unlock()
		h.log.WithField("client", id).Info("viewer disconnected")
	}()

	for {
		var req struct {
			X1 int `json:"x1"`
			Y1 int `json:"y1"`
			X2 int `json:"x2"`
			Y2 int `json:"y2"`
		}
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		client.mu.Lock()
		client.x1, client.y1, client.x2, client.y2 = req.X1, req.Y1, req.X2, req.Y2
		client.viewportSet = true
		client.mu.Unlock()
	}
}

// broadcastLeafEvent pushes a structural engine event (a node becoming
// or ceasing to be a leaf) to every connected client.
func (h *hub) broadcastLeafEvent(kind string, n *quadtree.Node[AgentID]) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) == 0 {
		return
	}
	msg := map[string]interface{}{
		"type": kind,
		"x1":   n.X1, "y1": n.Y1, "x2": n.X2, "y2": n.Y2,
		"depth": n.D,
	}
	for _, c := range h.clients {
		if err := c.writeJSON(msg); err != nil {
			h.log.WithError(err).WithField("client", c.id).Debug("dropping event for unresponsive client")
		}
	}
}

// broadcastViewports re-queries each client's last-requested rectangle
// and pushes the current set of agents inside it.
func (h *hub) broadcastViewports(sim *Simulation) {
	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.mu.Lock()
		set := c.viewportSet
		x1, y1, x2, y2 := c.x1, c.y1, c.x2, c.y2
		c.mu.Unlock()
		if !set {
			continue
		}
		hits := sim.QueryRange(x1, y1, x2, y2)
		agents := make([]map[string]int, 0, len(hits))
		for _, o := range hits {
			agents = append(agents, map[string]int{"id": int(o.Tag), "x": o.X, "y": o.Y})
		}
		msg := map[string]interface{}{
			"type":   "agents_update",
			"agents": agents,
			"count":  len(agents),
		}
		if err := c.writeJSON(msg); err != nil {
			h.log.WithError(err).WithField("client", c.id).Debug("dropping viewport update for unresponsive client")
		}
	}
}
