package quadtree

// Object is one stored entry returned from QueryRange: a tagged point
// somewhere inside the queried rectangle.
type Object[Tag comparable] struct {
	X, Y int
	Tag  Tag
}

// find locates the leaf node whose rectangle contains (x, y) via binary
// search over depth. The directory is monotone in depth for a fixed
// position: every id at a depth at or below the true leaf's depth is
// present and internal, every id past it is absent, so this runs in
// O(log maxDepth).
//
// The search range is [0, maxDepth] inclusive. A prior C++ rendition of
// this same algorithm started the upper bound at maxDepth-1, which
// looks past the root whenever the tree hasn't split at all yet
// (maxDepth == 0); this port keeps the inclusive bound instead so Find
// works immediately after Build.
func (q *Quadtree[Tag]) find(x, y int) *Node[Tag] {
	lo, hi := 0, q.maxDepth
	for lo <= hi {
		d := (lo + hi) / 2
		id := pack(d, x, y, q.w, q.h)
		n, ok := q.directory[id]
		if !ok {
			hi = d - 1
			continue
		}
		if n.IsLeaf {
			return n
		}
		lo = d + 1
	}
	return nil
}

// Find returns the leaf node covering position (x, y), or false if the
// position lies outside the managed region.
func (q *Quadtree[Tag]) Find(x, y int) (*Node[Tag], bool) {
	if !q.inRegion(x, y) {
		return nil, false
	}
	n := q.find(x, y)
	return n, n != nil
}

// findSmallestEnclosing locates the smallest live node (leaf or
// internal) whose rectangle fully contains [x1,y1]-[x2,y2], by binary
// searching for the deepest depth at which both corners still pack to
// the same, present node id. Separation of the two corners into
// different cells, and absence of the shared id from the directory,
// are both monotone in depth, so the same binary-search shape as find
// applies.
func (q *Quadtree[Tag]) findSmallestEnclosing(x1, y1, x2, y2 int) *Node[Tag] {
	lo, hi := 0, q.maxDepth
	best := q.root
	for lo <= hi {
		d := (lo + hi) / 2
		id1 := pack(d, x1, y1, q.w, q.h)
		id2 := pack(d, x2, y2, q.w, q.h)
		if id1 != id2 {
			hi = d - 1
			continue
		}
		n, ok := q.directory[id1]
		if !ok {
			hi = d - 1
			continue
		}
		best = n
		lo = d + 1
	}
	return best
}

// findSmallestEnclosingBounded is findSmallestEnclosing restricted to
// depths no greater than maxD, for callers (the neighbour search) that
// know the answer can never be deeper than a given bound.
func (q *Quadtree[Tag]) findSmallestEnclosingBounded(x1, y1, x2, y2, maxD int) *Node[Tag] {
	lo, hi := 0, min(q.maxDepth, maxD)
	best := q.root
	for lo <= hi {
		d := (lo + hi) / 2
		id1 := pack(d, x1, y1, q.w, q.h)
		id2 := pack(d, x2, y2, q.w, q.h)
		if id1 != id2 {
			hi = d - 1
			continue
		}
		n, ok := q.directory[id1]
		if !ok {
			hi = d - 1
			continue
		}
		best = n
		lo = d + 1
	}
	return best
}

// FindSmallestNodeCoveringRange returns the smallest live node whose
// rectangle fully contains the two given corners. The corners are
// order-insensitive: each pair is normalized to its min/max before the
// lookup, so (x1,y1)-(x2,y2) and (x2,y2)-(x1,y1) are equivalent. It
// reports false if either corner falls outside the managed region.
func (q *Quadtree[Tag]) FindSmallestNodeCoveringRange(x1, y1, x2, y2 int) (*Node[Tag], bool) {
	x1, x2 = min(x1, x2), max(x1, x2)
	y1, y2 = min(y1, y2), max(y1, y2)
	if !q.inRegion(x1, y1) || !q.inRegion(x2, y2) {
		return nil, false
	}
	n := q.findSmallestEnclosing(x1, y1, x2, y2)
	return n, n != nil
}

// overlaps reports whether two axis-aligned rectangles, each given as
// an inclusive [x1,y1]-[x2,y2] pair, share any cell.
func overlaps(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) bool {
	return ax1 <= bx2 && ax2 >= bx1 && ay1 <= by2 && ay2 >= by1
}

// QueryRange invokes emit once for every stored object whose position
// falls inside [x1,y1]-[x2,y2], in no particular order. It is a no-op
// for an inverted rectangle (x1 > x2 or y1 > y2). A rectangle that only
// partially overlaps the managed region is not rejected — it simply
// yields whatever overlap exists.
//
// The descent starts from the smallest node already known to enclose
// the query rectangle rather than the root, so a narrow query against a
// deeply-split tree doesn't walk sibling subtrees it can never overlap.
func (q *Quadtree[Tag]) QueryRange(x1, y1, x2, y2 int, emit func(x, y int, tag Tag)) {
	if x1 > x2 || y1 > y2 {
		return
	}
	start := q.root
	if n, ok := q.FindSmallestNodeCoveringRange(x1, y1, x2, y2); ok {
		start = n
	}
	q.queryNode(start, x1, y1, x2, y2, emit)
}

func (q *Quadtree[Tag]) queryNode(node *Node[Tag], x1, y1, x2, y2 int, emit func(x, y int, tag Tag)) {
	if node == nil || !overlaps(node.X1, node.Y1, node.X2, node.Y2, x1, y1, x2, y2) {
		return
	}
	if node.IsLeaf {
		for k := range node.objects {
			if k.x >= x1 && k.x <= x2 && k.y >= y1 && k.y <= y2 {
				emit(k.x, k.y, k.tag)
			}
		}
		return
	}
	for _, c := range node.children {
		q.queryNode(c, x1, y1, x2, y2, emit)
	}
}
