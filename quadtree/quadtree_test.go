package quadtree

import "testing"

func newTestTree(t *testing.T, w, h int, stop SplitStopper) *Quadtree[int] {
	t.Helper()
	q, err := New[int](w, h, WithSplitStopper[int](stop))
	if err != nil {
		t.Fatalf("New(%d, %d): %v", w, h, err)
	}
	return q
}

func requireCounts(t *testing.T, q *Quadtree[int], nodes, leaves, depth, objects int) {
	t.Helper()
	if got := q.NumNodes(); got != nodes {
		t.Errorf("NumNodes() = %d, want %d", got, nodes)
	}
	if got := q.NumLeafNodes(); got != leaves {
		t.Errorf("NumLeafNodes() = %d, want %d", got, leaves)
	}
	if got := q.Depth(); got != depth {
		t.Errorf("Depth() = %d, want %d", got, depth)
	}
	if got := q.NumObjects(); got != objects {
		t.Errorf("NumObjects() = %d, want %d", got, objects)
	}
}

func TestSimpleSquare8x8(t *testing.T) {
	ssf := func(w, h, n int) bool { return (w <= 2 && h <= 2) || n <= 1 }
	q := newTestTree(t, 8, 8, ssf)
	requireCounts(t, q, 0, 0, 0, 0)

	q.Build()
	requireCounts(t, q, 1, 1, 0, 0)

	q.Add(2, 3, 1)
	requireCounts(t, q, 1, 1, 0, 1)

	q.Add(3, 4, 1)
	requireCounts(t, q, 5, 4, 1, 2)

	q.Add(1, 5, 1)
	requireCounts(t, q, 9, 7, 2, 3)

	q.Add(0, 4, 1)
	requireCounts(t, q, 9, 7, 2, 4)

	node1, ok := q.Find(5, 2)
	if !ok {
		t.Fatal("Find(5, 2): not found")
	}
	if node1.X1 != 4 || node1.Y1 != 0 || node1.X2 != 7 || node1.Y2 != 3 {
		t.Errorf("Find(5,2) rect = (%d,%d,%d,%d), want (4,0,7,3)", node1.X1, node1.Y1, node1.X2, node1.Y2)
	}

	node2, ok := q.Find(0, 0)
	if !ok {
		t.Fatal("Find(0, 0): not found")
	}
	if node2.X1 != 0 || node2.Y1 != 0 || node2.X2 != 3 || node2.Y2 != 3 {
		t.Errorf("Find(0,0) rect = (%d,%d,%d,%d), want (0,0,3,3)", node2.X1, node2.Y1, node2.X2, node2.Y2)
	}

	hit := queryRangeAll(q, 1, 2, 4, 4)
	if len(hit) != 2 {
		t.Fatalf("QueryRange(1,2,4,4) = %v, want 2 results", hit)
	}
	assertHasObject(t, hit, 2, 3, 1)
	assertHasObject(t, hit, 3, 4, 1)

	miss := queryRangeAll(q, 4, 1, 5, 5)
	if len(miss) != 0 {
		t.Fatalf("QueryRange(4,1,5,5) = %v, want 0 results", miss)
	}

	q.Remove(0, 0, 1) // not present: no-op
	requireCounts(t, q, 9, 7, 2, 4)

	q.Remove(1, 5, 1) // doesn't affect structure
	requireCounts(t, q, 9, 7, 2, 3)

	q.Remove(3, 4, 1) // triggers a merge
	requireCounts(t, q, 5, 4, 1, 2)

	q.Remove(2, 3, 1) // triggers the final merge back to the root
	requireCounts(t, q, 1, 1, 0, 1)
}

func TestSimpleRectangle7x6(t *testing.T) {
	ssf := func(w, h, n int) bool { return (w <= 2 && h <= 2) || n <= 1 }
	q := newTestTree(t, 7, 6, ssf)
	requireCounts(t, q, 0, 0, 0, 0)

	q.Build()
	requireCounts(t, q, 1, 1, 0, 0)

	q.Add(4, 4, 1)
	requireCounts(t, q, 1, 1, 0, 1)

	q.Add(3, 3, 1)
	requireCounts(t, q, 5, 4, 1, 2)

	assertRectAt(t, q, 0, 0, 0, 0, 2, 3, 1)
	assertRectAt(t, q, 1, 5, 0, 4, 2, 6, 1)
	assertRectAt(t, q, 3, 3, 3, 0, 5, 3, 1)
	assertRectAt(t, q, 4, 4, 3, 4, 5, 6, 1)

	q.Add(1, 2, 1)
	requireCounts(t, q, 5, 4, 1, 3)

	q.Add(1, 3, 1)
	requireCounts(t, q, 9, 7, 2, 4)

	q.Add(0, 2, 1)
	requireCounts(t, q, 9, 7, 2, 5)

	q.Add(1, 5, 1)
	requireCounts(t, q, 9, 7, 2, 6)

	q.Add(2, 5, 1)
	requireCounts(t, q, 13, 10, 2, 7)

	hit1 := queryRangeAll(q, 1, 1, 5, 4)
	if len(hit1) != 4 {
		t.Fatalf("QueryRange(1,1,5,4) = %v, want 4 results", hit1)
	}
	assertHasObject(t, hit1, 1, 2, 1)
	assertHasObject(t, hit1, 1, 3, 1)
	assertHasObject(t, hit1, 3, 3, 1)
	assertHasObject(t, hit1, 4, 4, 1)

	hit2 := queryRangeAll(q, 1, 4, 5, 4)
	if len(hit2) != 1 {
		t.Fatalf("QueryRange(1,4,5,4) = %v, want 1 result", hit2)
	}
	assertHasObject(t, hit2, 4, 4, 1)

	q.Remove(1, 2, 1)
	requireCounts(t, q, 13, 10, 2, 6)

	q.Remove(0, 2, 1)
	requireCounts(t, q, 9, 7, 2, 5)

	q.Remove(2, 5, 1)
	requireCounts(t, q, 5, 4, 1, 4)

	q.Remove(3, 3, 1)
	q.Remove(4, 4, 1)
	q.Remove(1, 5, 1)
	requireCounts(t, q, 1, 1, 0, 1)
}

func TestSimpleInvertSSF10x8(t *testing.T) {
	ssf := func(w, h, n int) bool { return n == 0 || w*h == n }
	q := newTestTree(t, 10, 8, ssf)
	q.Build()
	requireCounts(t, q, 1, 1, 0, 0)

	q.Add(4, 2, 1)
	requireCounts(t, q, 13, 10, 3, 1)

	q.Add(5, 2, 1)
	requireCounts(t, q, 13, 10, 3, 2)

	q.Add(4, 0, 1)
	requireCounts(t, q, 15, 11, 4, 3)

	q.Add(4, 1, 1)
	requireCounts(t, q, 13, 10, 3, 4)

	q.Add(5, 0, 1)
	q.Add(5, 1, 1)
	requireCounts(t, q, 9, 7, 2, 6)
}

func TestSimpleInvertSSF7x5(t *testing.T) {
	ssf := func(w, h, n int) bool { return n == 0 || w*h == n }
	q := newTestTree(t, 7, 5, ssf)
	q.Build()
	requireCounts(t, q, 1, 1, 0, 0)

	q.Add(4, 2, 1)
	requireCounts(t, q, 11, 8, 3, 1)

	q.Remove(4, 2, 1)
	requireCounts(t, q, 1, 1, 0, 0)
}

func TestSimpleInvertSSF5x8(t *testing.T) {
	ssf := func(w, h, n int) bool { return n == 0 || w*h == n }
	q := newTestTree(t, 5, 8, ssf)
	q.Build()
	requireCounts(t, q, 1, 1, 0, 0)

	q.Add(2, 2, 1)
	requireCounts(t, q, 11, 8, 3, 1)

	q.Add(0, 2, 1)
	q.Add(1, 2, 1)
	q.Add(3, 2, 1)
	requireCounts(t, q, 9, 7, 2, 4)

	q.Remove(1, 2, 1)
	q.Remove(2, 2, 1)
	requireCounts(t, q, 13, 9, 3, 2)
}

func TestHookFunctions(t *testing.T) {
	ssf := func(w, h, n int) bool { return n == 0 || w*h == n }
	cnt := 0
	q := newTestTree(t, 9, 6, ssf)
	q.SetOnLeafCreated(func(*Node[int]) { cnt++ })
	q.SetOnLeafRemoved(func(*Node[int]) { cnt-- })

	q.Build()
	if cnt != 1 {
		t.Fatalf("cnt after Build = %d, want 1", cnt)
	}

	q.Add(2, 2, 1)
	if q.NumLeafNodes() != cnt {
		t.Errorf("NumLeafNodes() = %d, cnt = %d, want equal", q.NumLeafNodes(), cnt)
	}
	q.Add(2, 3, 1)
	if q.NumLeafNodes() != cnt {
		t.Errorf("NumLeafNodes() = %d, cnt = %d, want equal", q.NumLeafNodes(), cnt)
	}
	q.Add(1, 3, 1)
	if q.NumLeafNodes() != cnt {
		t.Errorf("NumLeafNodes() = %d, cnt = %d, want equal", q.NumLeafNodes(), cnt)
	}
	q.Remove(1, 3, 1)
	if q.NumLeafNodes() != cnt {
		t.Errorf("NumLeafNodes() = %d, cnt = %d, want equal", q.NumLeafNodes(), cnt)
	}
	q.Remove(2, 3, 1)
	q.Remove(2, 2, 1)
	if q.NumLeafNodes() != cnt {
		t.Errorf("NumLeafNodes() = %d, cnt = %d, want equal", q.NumLeafNodes(), cnt)
	}
}

func assertRectAt(t *testing.T, q *Quadtree[int], x, y, x1, y1, x2, y2, depth int) {
	t.Helper()
	n, ok := q.Find(x, y)
	if !ok {
		t.Fatalf("Find(%d, %d): not found", x, y)
	}
	if n.X1 != x1 || n.Y1 != y1 || n.X2 != x2 || n.Y2 != y2 {
		t.Errorf("Find(%d,%d) rect = (%d,%d,%d,%d), want (%d,%d,%d,%d)",
			x, y, n.X1, n.Y1, n.X2, n.Y2, x1, y1, x2, y2)
	}
	if n.D != depth {
		t.Errorf("Find(%d,%d).D = %d, want %d", x, y, n.D, depth)
	}
}

func queryRangeAll(q *Quadtree[int], x1, y1, x2, y2 int) []Object[int] {
	var out []Object[int]
	q.QueryRange(x1, y1, x2, y2, func(x, y, tag int) {
		out = append(out, Object[int]{X: x, Y: y, Tag: tag})
	})
	return out
}

func assertHasObject(t *testing.T, objs []Object[int], x, y, tag int) {
	t.Helper()
	for _, o := range objs {
		if o.X == x && o.Y == y && o.Tag == tag {
			return
		}
	}
	t.Errorf("result set %v missing object (%d,%d,%d)", objs, x, y, tag)
}
