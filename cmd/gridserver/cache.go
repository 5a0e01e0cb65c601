package main

import (
	"strconv"
	"strings"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/sirupsen/logrus"

	"gridquadtree/quadtree"
)

// queryCache is a read-through cache in front of Quadtree.QueryRange,
// keyed by the requested rectangle. Engine mutations make arbitrary
// past results stale in ways too cheap to track precisely against the
// cost of getting it wrong, so the whole cache is cleared rather than
// invalidated by key: on every leaf-created/leaf-removed callback, and
// after every simulation tick.
type queryCache struct {
	log   *logrus.Logger
	qt    *quadtree.Quadtree[AgentID]
	cache *ristretto.Cache[string, []quadtree.Object[AgentID]]
}

func newQueryCache(maxCost int64, qt *quadtree.Quadtree[AgentID], log *logrus.Logger) *queryCache {
	c, err := ristretto.NewCache(&ristretto.Config[string, []quadtree.Object[AgentID]]{
		NumCounters: maxCost * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		// A cache that can't be built falls back to doing no caching
		// at all rather than failing startup over it; qc.cache stays
		// nil and get() below goes straight to the engine.
		log.WithError(err).Warn("query cache disabled: ristretto.NewCache failed")
		return &queryCache{log: log, qt: qt}
	}
	return &queryCache{log: log, qt: qt, cache: c}
}

func rectKey(x1, y1, x2, y2 int) string {
	var b strings.Builder
	b.Grow(32)
	b.WriteString(strconv.Itoa(x1))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(y1))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(x2))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(y2))
	return b.String()
}

// get answers a rectangle query from the cache when present, else
// queries the live tree and populates the cache with the result.
func (qc *queryCache) get(x1, y1, x2, y2 int) []quadtree.Object[AgentID] {
	if qc.cache == nil {
		return qc.query(x1, y1, x2, y2)
	}
	key := rectKey(x1, y1, x2, y2)
	if hits, ok := qc.cache.Get(key); ok {
		return hits
	}
	hits := qc.query(x1, y1, x2, y2)
	qc.cache.Set(key, hits, int64(len(hits))+1)
	return hits
}

func (qc *queryCache) query(x1, y1, x2, y2 int) []quadtree.Object[AgentID] {
	var hits []quadtree.Object[AgentID]
	qc.qt.QueryRange(x1, y1, x2, y2, func(x, y int, tag AgentID) {
		hits = append(hits, quadtree.Object[AgentID]{X: x, Y: y, Tag: tag})
	})
	return hits
}

// invalidate drops every cached result. Called whenever the tree's
// structure changes shape, since any cached rectangle may now resolve
// through a different set of nodes, and after every simulation tick,
// since agents that move within one leaf change results without any
// structural change.
func (qc *queryCache) invalidate() {
	if qc.cache == nil {
		return
	}
	qc.cache.Clear()
}
