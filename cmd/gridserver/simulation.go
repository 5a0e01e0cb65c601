package main

import (
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"gridquadtree/internal/config"
	"gridquadtree/quadtree"
)

// AgentID names one simulated agent. It is the tag type the shared
// quadtree stores against each agent's cell.
type AgentID int

// Agent is one mobile point tracked by the simulation, analogous to a
// driver in the system this was adapted from: it holds its own
// position and heading, guarded by a mutex that move takes.
type Agent struct {
	ID AgentID

	mu      sync.Mutex
	x, y    int
	heading int // one of 8 compass steps, see move()
}

// step offsets for the 8 headings a random walk can take, index order
// matching quadtree.Direction's compass layout.
var stepOffsets = [8][2]int{
	{-1, 0}, {0, 1}, {1, 0}, {0, -1}, // N, E, S, W
	{-1, -1}, {-1, 1}, {1, 1}, {1, -1}, // NW, NE, SE, SW
}

// move advances the agent by one cell in its current heading, turning
// to a new random heading occasionally, and clamps to the grid so
// agents never walk off the edge; it reports the agent's old and new
// position so the caller can update the shared quadtree.
func (a *Agent) move(r *rand.Rand, w, h int) (oldX, oldY, newX, newY int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	oldX, oldY = a.x, a.y

	if r.Float64() < 0.15 {
		a.heading = r.Intn(8)
	}
	off := stepOffsets[a.heading]
	nx, ny := a.x+off[0], a.y+off[1]
	if nx < 0 || nx >= h {
		a.heading = (a.heading + 4) % 8
		nx = a.x
	}
	if ny < 0 || ny >= w {
		a.heading = (a.heading + 4) % 8
		ny = a.y
	}
	a.x, a.y = nx, ny
	return oldX, oldY, a.x, a.y
}

// Stats accumulates simulation activity since startup; the counters
// are never reset, and the main loop logs them every StatsInterval.
type Stats struct {
	Ticks       int64
	QueriesTot  int64
	ObjectsHit  int64
	LeafCreated int64
	LeafRemoved int64
}

// Simulation drives a population of Agents wandering an integer grid
// backed by a shared *quadtree.Quadtree[AgentID], mirroring the
// taxi/driver simulation this was adapted from except that positions
// are grid cells rather than lon/lat floats.
type Simulation struct {
	cfg config.Config
	log *logrus.Logger
	rnd *rand.Rand

	qt     *quadtree.Quadtree[AgentID]
	agents []*Agent

	statsMu sync.Mutex
	stats   Stats

	hub   *hub
	cache *queryCache
}

// NewSimulation builds the shared quadtree, wires its leaf-created and
// leaf-removed callbacks to both the cache invalidation and the
// WebSocket hub, places AgentCount agents at random cells, and inserts
// each into the tree.
func NewSimulation(cfg config.Config, log *logrus.Logger) (*Simulation, error) {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	sim := &Simulation{
		cfg: cfg,
		log: log,
		rnd: rnd,
		hub: newHub(log),
	}

	qt, err := quadtree.New[AgentID](cfg.GridWidth, cfg.GridHeight,
		quadtree.WithSplitStopper[AgentID](cfg.SplitStopper()),
		quadtree.WithOnLeafCreated[AgentID](sim.onLeafCreated),
		quadtree.WithOnLeafRemoved[AgentID](sim.onLeafRemoved),
	)
	if err != nil {
		return nil, err
	}
	sim.qt = qt
	sim.cache = newQueryCache(cfg.CacheMaxCost, qt, log)
	qt.Build()

	sim.agents = make([]*Agent, cfg.AgentCount)
	for i := 0; i < cfg.AgentCount; i++ {
		x := rnd.Intn(cfg.GridHeight)
		y := rnd.Intn(cfg.GridWidth)
		a := &Agent{ID: AgentID(i), x: x, y: y, heading: rnd.Intn(8)}
		sim.agents[i] = a
		qt.Add(x, y, a.ID)
	}
	return sim, nil
}

func (s *Simulation) onLeafCreated(n *quadtree.Node[AgentID]) {
	s.statsMu.Lock()
	s.stats.LeafCreated++
	s.statsMu.Unlock()
	s.cache.invalidate()
	s.hub.broadcastLeafEvent("leaf_created", n)
}

func (s *Simulation) onLeafRemoved(n *quadtree.Node[AgentID]) {
	s.statsMu.Lock()
	s.stats.LeafRemoved++
	s.statsMu.Unlock()
	s.cache.invalidate()
	s.hub.broadcastLeafEvent("leaf_removed", n)
}

// Tick moves every agent by one step and reconciles the quadtree,
// removing each agent from its old cell and adding it back at its new
// one whenever the cell actually changed.
func (s *Simulation) Tick() {
	for _, a := range s.agents {
		ox, oy, nx, ny := a.move(s.rnd, s.cfg.GridWidth, s.cfg.GridHeight)
		if ox == nx && oy == ny {
			continue
		}
		s.qt.Remove(ox, oy, a.ID)
		s.qt.Add(nx, ny, a.ID)
	}
	// A move that stays inside one leaf fires no leaf callback, so the
	// query cache is cleared here as well.
	s.cache.invalidate()
	s.statsMu.Lock()
	s.stats.Ticks++
	s.statsMu.Unlock()
}

// QueryRange answers a rectangle query through the read-through cache.
func (s *Simulation) QueryRange(x1, y1, x2, y2 int) []quadtree.Object[AgentID] {
	s.statsMu.Lock()
	s.stats.QueriesTot++
	s.statsMu.Unlock()
	hits := s.cache.get(x1, y1, x2, y2)
	s.statsMu.Lock()
	s.stats.ObjectsHit += int64(len(hits))
	s.statsMu.Unlock()
	return hits
}

// snapshot returns a copy of the running counters for logging.
func (s *Simulation) snapshot() Stats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats
}

// LogStats writes the current counters, plus live engine metadata, to
// the shared logger.
func (s *Simulation) LogStats() {
	st := s.snapshot()
	s.log.WithFields(logrus.Fields{
		"ticks":         st.Ticks,
		"queries":       st.QueriesTot,
		"objects_found": st.ObjectsHit,
		"leaf_created":  st.LeafCreated,
		"leaf_removed":  st.LeafRemoved,
		"num_nodes":     s.qt.NumNodes(),
		"num_leaves":    s.qt.NumLeafNodes(),
		"num_objects":   s.qt.NumObjects(),
		"depth":         s.qt.Depth(),
	}).Info("simulation stats")
}
