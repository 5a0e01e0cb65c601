package quadtree

// fireLeafCreated invokes the leaf-created callback, if one is
// installed. Called only once a node's leaf status is final: after
// Build's initial split attempt, and after a split or merge chain has
// fully settled, never mid-transition.
func (q *Quadtree[Tag]) fireLeafCreated(node *Node[Tag]) {
	if q.onLeafCreated != nil {
		q.onLeafCreated(node)
	}
}

// fireLeafRemoved invokes the leaf-removed callback, if one is
// installed, for a node that has just stopped being a leaf (demoted by
// a split, or absorbed into its parent by a merge). Like
// fireLeafCreated, it is called only after the transition is complete.
func (q *Quadtree[Tag]) fireLeafRemoved(node *Node[Tag]) {
	if q.onLeafRemoved != nil {
		q.onLeafRemoved(node)
	}
}
