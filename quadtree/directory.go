package quadtree

// createNode allocates a node at depth d covering [x1,y1]-[x2,y2], links
// it into the directory under its packed id, and keeps the depth
// histogram and maxDepth in step. It does not fire the leaf-created
// callback; callers that create leaves are responsible for that once
// the surrounding structural change (a whole split, or Build) has
// finished, per the ordering invariant in callbacks.go.
func (q *Quadtree[Tag]) createNode(isLeaf bool, d, x1, y1, x2, y2 int) *Node[Tag] {
	n := &Node[Tag]{
		IsLeaf: isLeaf,
		D:      d,
		X1:     x1, Y1: y1,
		X2: x2, Y2: y2,
		id: pack(d, x1, y1, q.w, q.h),
	}
	if isLeaf {
		n.objects = make(map[objectKey[Tag]]struct{})
		q.numLeafNodes++
	}
	q.directory[n.id] = n
	q.depthHistogram[d]++
	if d > q.maxDepth {
		q.maxDepth = d
	}
	return n
}

// removeLeafNode drops a leaf from the directory and updates the depth
// histogram and maxDepth. It does nothing if node is not a leaf. As
// with createNode, firing the leaf-removed callback is the caller's
// responsibility.
func (q *Quadtree[Tag]) removeLeafNode(node *Node[Tag]) {
	if !node.IsLeaf {
		return
	}
	delete(q.directory, node.id)
	q.depthHistogram[node.D]--
	if node.D == q.maxDepth {
		for q.maxDepth > 0 && q.depthHistogram[q.maxDepth] == 0 {
			q.maxDepth--
		}
	}
	q.numLeafNodes--
}

// parentOf returns the parent of a non-root node. Calling it on the
// root produces a meaningless id lookup and must never happen; callers
// guard against that by checking node == root first.
func (q *Quadtree[Tag]) parentOf(node *Node[Tag]) *Node[Tag] {
	return q.directory[pack(node.D-1, node.X1, node.Y1, q.w, q.h)]
}
