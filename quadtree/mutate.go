package quadtree

// Build creates the root node and performs the tree's initial split, if
// the split stopper says the whole region shouldn't stay a single
// leaf. It is a no-op if called more than once on the same tree.
func (q *Quadtree[Tag]) Build() {
	if q.root != nil {
		return
	}
	root := q.createNode(true, 0, 0, 0, q.h-1, q.w-1)
	q.root = root
	if q.splittable(root.X1, root.Y1, root.X2, root.Y2, 0) {
		q.trySplitDown(root)
	} else {
		q.fireLeafCreated(root)
	}
}

// Add inserts the object (x, y, tag) and reports whether it was newly
// inserted. It is a no-op, returning false, when the position lies
// outside the managed region or the exact (x, y, tag) triple is
// already present. Because the split-stop predicate is opaque, a
// successful insertion attempts a split of the object's leaf node, and
// falls back to attempting a merge of that leaf into its parent only if
// the split attempt did nothing — an insertion can shrink the tree, not
// just grow it, whenever a caller's predicate isn't monotone in n.
func (q *Quadtree[Tag]) Add(x, y int, tag Tag) bool {
	if !q.inRegion(x, y) {
		return false
	}
	node := q.find(x, y)
	if node == nil {
		return false
	}
	key := objectKey[Tag]{x: x, y: y, tag: tag}
	if _, exists := node.objects[key]; exists {
		return false
	}
	node.objects[key] = struct{}{}
	q.numObjects++
	if !q.trySplitDown(node) {
		q.tryMergeUp(node)
	}
	return true
}

// Remove deletes the object (x, y, tag) and reports whether it was
// present. It is a no-op, returning false, when the position lies
// outside the managed region or the exact triple isn't stored. A
// successful removal attempts to merge the leaf's parent, and
// recursively its ancestors, back together, falling back to attempting
// a split of the leaf only if the merge attempt did nothing — the
// mirror of Add's fallback, for the same reason: the predicate is
// opaque, so a removal can grow the tree as easily as shrink it.
func (q *Quadtree[Tag]) Remove(x, y int, tag Tag) bool {
	if !q.inRegion(x, y) {
		return false
	}
	node := q.find(x, y)
	if node == nil {
		return false
	}
	key := objectKey[Tag]{x: x, y: y, tag: tag}
	if _, exists := node.objects[key]; !exists {
		return false
	}
	delete(node.objects, key)
	q.numObjects--
	if !q.tryMergeUp(node) {
		q.trySplitDown(node)
	}
	return true
}
