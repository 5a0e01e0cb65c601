package quadtree

// splittable reports whether a rectangle of size (x2-x1+1) x (y2-y1+1)
// holding n objects should be partitioned further. A single cell never
// splits; otherwise the decision belongs entirely to the installed
// SplitStopper.
func (q *Quadtree[Tag]) splittable(x1, y1, x2, y2, n int) bool {
	if x1 == x2 && y1 == y2 {
		return false
	}
	if q.stopSplit != nil && q.stopSplit(y2-y1+1, x2-x1+1, n) {
		return false
	}
	return true
}

// trySplitDown partitions node into four children if it is a leaf whose
// rectangle and population warrant it, reporting whether it did so. All
// new leaves that result, however deep, materialize before any callback
// fires: the node being demoted reports leaf-removed first, then every
// new leaf reports leaf-created, in creation order.
func (q *Quadtree[Tag]) trySplitDown(node *Node[Tag]) bool {
	if !node.IsLeaf || !q.splittable(node.X1, node.Y1, node.X2, node.Y2, len(node.objects)) {
		return false
	}
	var created []*Node[Tag]
	q.splitInto(node, &created)
	q.fireLeafRemoved(node)
	for _, leaf := range created {
		q.fireLeafCreated(leaf)
	}
	return true
}

// splitInto partitions node's rectangle into four quadrants, recursing
// into splitHelper1 for each, and demotes node to an internal node.
// Newly created leaves are appended to created as they're made; no
// callback is fired here, so a caller can batch an entire split (which
// may itself cascade into grandchildren) before announcing any of it.
func (q *Quadtree[Tag]) splitInto(node *Node[Tag], created *[]*Node[Tag]) {
	x1, y1, x2, y2, d := node.X1, node.Y1, node.X2, node.Y2, node.D
	x3 := x1 + (x2-x1)/2
	y3 := y1 + (y2-y1)/2
	wasLeaf := node.IsLeaf

	node.children[0] = q.splitHelper1(d+1, x1, y1, x3, y3, node.objects, created)
	node.children[1] = q.splitHelper1(d+1, x1, y3+1, x3, y2, node.objects, created)
	node.children[2] = q.splitHelper1(d+1, x3+1, y1, x2, y3, node.objects, created)
	node.children[3] = q.splitHelper1(d+1, x3+1, y3+1, x2, y2, node.objects, created)

	node.IsLeaf = false
	node.objects = nil
	if wasLeaf {
		q.numLeafNodes--
	}
}

// splitHelper1 creates the node at depth d covering [x1,y1]-[x2,y2],
// stealing the objects that belong to it out of upstream. It returns
// nil for a degenerate quadrant produced by splitting a rectangle that
// is only one cell tall or one cell wide (x1,y1,x2,y2 out of order or
// out of bounds) rather than creating an empty node for a slice of the
// region that doesn't exist.
//
// Objects are stolen in two passes — first collecting the matching
// keys, then deleting them from upstream — rather than deleting while
// ranging over the same map. Go defines that case, unlike the C++
// unordered_set this was ported from, but the two-pass form does not
// depend on it.
func (q *Quadtree[Tag]) splitHelper1(d, x1, y1, x2, y2 int, upstream map[objectKey[Tag]]struct{}, created *[]*Node[Tag]) *Node[Tag] {
	if !(x1 >= 0 && x1 < q.h && y1 >= 0 && y1 < q.w) {
		return nil
	}
	if !(x2 >= 0 && x2 < q.h && y2 >= 0 && y2 < q.w) {
		return nil
	}
	if !(x1 <= x2 && y1 <= y2) {
		return nil
	}

	objs := make(map[objectKey[Tag]]struct{})
	var steal []objectKey[Tag]
	for k := range upstream {
		if k.x >= x1 && k.x <= x2 && k.y >= y1 && k.y <= y2 {
			steal = append(steal, k)
		}
	}
	for _, k := range steal {
		delete(upstream, k)
		objs[k] = struct{}{}
	}

	if !q.splittable(x1, y1, x2, y2, len(objs)) {
		node := q.createNode(true, d, x1, y1, x2, y2)
		node.objects = objs
		*created = append(*created, node)
		return node
	}

	node := q.createNode(false, d, x1, y1, x2, y2)
	node.objects = objs
	q.splitInto(node, created)
	return node
}
