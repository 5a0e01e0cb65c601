// Command gridserver runs a population of simulated agents wandering
// an integer grid, indexed live by an adaptive quadtree, and exposes
// the result over HTTP and WebSocket. It is the demo/server layer
// built on top of the quadtree package, adapted from the taxi/driver
// simulation this project started from.
package main

import (
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"gridquadtree/internal/config"
	"gridquadtree/internal/telemetry"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		println("gridserver: " + err.Error())
		os.Exit(2)
	}

	log := telemetry.New("info")

	sim, err := NewSimulation(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to build simulation")
	}

	startServer(cfg, log, sim)
	sim.Run(cfg, log)
}

// startServer registers the HTTP/WebSocket handlers and begins
// serving in the background, mirroring the teacher's StartServer.
func startServer(cfg config.Config, log *logrus.Logger, sim *Simulation) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/query", sim.handleQuery)
	mux.HandleFunc("/api/leaf", sim.handleLeaf)
	mux.HandleFunc("/ws", sim.hub.HandleWebSocket)

	log.WithField("addr", cfg.ListenAddr).Info("starting HTTP server")
	go func() {
		if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
			log.WithError(err).Fatal("http server error")
		}
	}()
}

// handleQuery answers GET /api/query?x1=..&y1=..&x2=..&y2=.. with the
// JSON-encoded set of agents in that rectangle, adapted from the
// teacher's GetNearbyDriversHandler.
func (s *Simulation) handleQuery(w http.ResponseWriter, r *http.Request) {
	x1, err1 := strconv.Atoi(r.URL.Query().Get("x1"))
	y1, err2 := strconv.Atoi(r.URL.Query().Get("y1"))
	x2, err3 := strconv.Atoi(r.URL.Query().Get("x2"))
	y2, err4 := strconv.Atoi(r.URL.Query().Get("y2"))
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		http.Error(w, "x1, y1, x2, y2 must all be integers", http.StatusBadRequest)
		return
	}

	hits := s.QueryRange(x1, y1, x2, y2)
	agents := make([]map[string]int, 0, len(hits))
	for _, o := range hits {
		agents = append(agents, map[string]int{"id": int(o.Tag), "x": o.X, "y": o.Y})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"agents": agents,
		"count":  len(agents),
	})
}

// handleLeaf answers GET /api/leaf?x=..&y=.. with the rectangle of the
// leaf node covering that cell.
func (s *Simulation) handleLeaf(w http.ResponseWriter, r *http.Request) {
	x, err1 := strconv.Atoi(r.URL.Query().Get("x"))
	y, err2 := strconv.Atoi(r.URL.Query().Get("y"))
	if err1 != nil || err2 != nil {
		http.Error(w, "x and y must both be integers", http.StatusBadRequest)
		return
	}

	n, ok := s.qt.Find(x, y)
	w.Header().Set("Content-Type", "application/json")
	if !ok {
		json.NewEncoder(w).Encode(map[string]interface{}{"found": false})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"found": true,
		"x1":    n.X1, "y1": n.Y1, "x2": n.X2, "y2": n.Y2,
		"depth": n.D,
		"count": n.NumObjects(),
	})
}

// Run drives the tick loop: agent movement, periodic stats logging,
// and periodic viewport broadcasts, until interrupted. Structurally
// this follows the teacher's Run(): one goroutine, one select over a
// handful of tickers plus the shutdown signal.
func (s *Simulation) Run(cfg config.Config, log *logrus.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	updateTicker := time.NewTicker(cfg.UpdateInterval)
	statsTicker := time.NewTicker(cfg.StatsInterval)
	broadcastTicker := time.NewTicker(cfg.BroadcastInterval)
	defer updateTicker.Stop()
	defer statsTicker.Stop()
	defer broadcastTicker.Stop()

	log.WithField("agents", cfg.AgentCount).Info("simulation running, press Ctrl+C to stop")

	for {
		select {
		case <-stop:
			log.Info("shutting down")
			return
		case <-updateTicker.C:
			s.Tick()
		case <-statsTicker.C:
			s.LogStats()
		case <-broadcastTicker.C:
			s.hub.broadcastViewports(s)
		}
	}
}
