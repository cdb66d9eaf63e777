package ibtree

import (
	"slices"

	"github.com/npillmayer/ibtree/interval"
)

// Routing and structural glue of inner nodes. Search functions accept leaves
// as well, so recursion may bottom out in leaf.go.

// resultSet collects intervals in scan order, dropping duplicates by
// identity.
type resultSet struct {
	seen map[*interval.Interval]struct{}
	list []*interval.Interval
}

func newResultSet() *resultSet {
	return &resultSet{seen: make(map[*interval.Interval]struct{})}
}

func (rs *resultSet) add(iv *interval.Interval) {
	if _, ok := rs.seen[iv]; ok {
		return
	}
	rs.seen[iv] = struct{}{}
	rs.list = append(rs.list, iv)
}

// routeExact tells whether the subtree at entry i of n may hold a logical
// interval with bounds q. Without fragments in the tree, this is plain
// containment; fragments of q are merely inside q.
func (t *Tree) routeExact(n *node, i int, q interval.Range) bool {
	if t.fragments == 0 {
		return interval.ContainsWithValues(n.keys[i], n.maxs[i], q.Lo, q.Hi)
	}
	return interval.IntersectsWithValues(n.keys[i], n.maxs[i], q.Lo, q.Hi)
}

func routeOverlap(n *node, i int, q interval.Range) bool {
	return interval.IntersectsWithValues(q.Lo, q.Hi, n.keys[i], n.maxs[i])
}

func (t *Tree) exists(id nodeID, q interval.Range) bool {
	n := t.node(id)
	if n.isLeaf() {
		return leafExists(n, q)
	}
	for i, child := range n.children {
		if t.routeExact(n, i, q) && t.exists(child, q) {
			return true
		}
	}
	return false
}

func (t *Tree) search(id nodeID, q interval.Range, rs *resultSet) {
	n := t.node(id)
	if n.isLeaf() {
		leafSearch(n, q, rs)
		return
	}
	for i, child := range n.children {
		if t.routeExact(n, i, q) {
			t.search(child, q, rs)
		}
	}
}

// loneRangeSearch returns the first overlapping interval in scan order.
func (t *Tree) loneRangeSearch(id nodeID, q interval.Range) *interval.Interval {
	n := t.node(id)
	if n.isLeaf() {
		return leafLoneRangeSearch(n, q)
	}
	for i, child := range n.children {
		if routeOverlap(n, i, q) {
			if iv := t.loneRangeSearch(child, q); iv != nil {
				return iv
			}
		}
	}
	return nil
}

func (t *Tree) allRangeSearch(id nodeID, q interval.Range, rs *resultSet) {
	n := t.node(id)
	if n.isLeaf() {
		leafAllRangeSearch(n, q, rs)
		return
	}
	for i, child := range n.children {
		if routeOverlap(n, i, q) {
			t.allRangeSearch(child, q, rs)
		}
	}
}

func (t *Tree) containedRangeSearch(id nodeID, q interval.Range, rs *resultSet) {
	n := t.node(id)
	if n.isLeaf() {
		leafContainedRangeSearch(n, q, rs)
		return
	}
	for i, child := range n.children {
		if routeOverlap(n, i, q) {
			t.containedRangeSearch(child, q, rs)
		}
	}
}

// findInsertLeaf descends to the leaf a new interval with lower bound lo
// belongs to: the rightmost child with key <= lo, or the first child if lo
// is smaller than every key. It returns none if the tree has no leaf.
func (t *Tree) findInsertLeaf(id nodeID, lo float64) nodeID {
	for {
		n := t.node(id)
		if n.isLeaf() {
			return id
		}
		if len(n.children) == 0 {
			return none
		}
		k := 0
		for i, key := range n.keys {
			if key > lo {
				break
			}
			k = i
		}
		id = n.children[k]
	}
}

// findInterval locates a stored interval with the bounds of iv, preferring
// iv itself if it is stored. It returns none if there is no such entry.
func (t *Tree) findInterval(id nodeID, iv *interval.Interval) (nodeID, int) {
	if leaf, idx := t.findWith(id, iv, func(x *interval.Interval) bool { return x == iv }); leaf != none {
		return leaf, idx
	}
	return t.findWith(id, iv, iv.Equals)
}

func (t *Tree) findWith(id nodeID, iv *interval.Interval, match func(*interval.Interval) bool) (nodeID, int) {
	n := t.node(id)
	if n.isLeaf() {
		if idx := slices.IndexFunc(n.items, match); idx >= 0 {
			return id, idx
		}
		return none, -1
	}
	for i, child := range n.children {
		if interval.ContainsWithValues(n.keys[i], n.maxs[i], iv.Lo(), iv.Hi()) {
			if leaf, idx := t.findWith(child, iv, match); leaf != none {
				return leaf, idx
			}
		}
	}
	return none, -1
}

// match is a stored interval together with the leaf it has been found in.
// The leaf is a handle which may go stale by subsequent rebalancing, see
// checkIntervalOnLeaf.
type match struct {
	leaf nodeID
	iv   *interval.Interval
}

// findIntervalsInRange collects every stored interval overlapping q.
func (t *Tree) findIntervalsInRange(id nodeID, q interval.Range, out []match) []match {
	n := t.node(id)
	if n.isLeaf() {
		for _, item := range n.items {
			if item.Range().Intersects(q) {
				out = append(out, match{leaf: id, iv: item})
			}
		}
		return out
	}
	for i, child := range n.children {
		if routeOverlap(n, i, q) {
			out = t.findIntervalsInRange(child, q, out)
		}
	}
	return out
}

// --- Structure -------------------------------------------------------------

// updateWithNewNode registers newNode, which has been split off original,
// with p. p splits itself if it overflows.
func (t *Tree) updateWithNewNode(p, original, newNode nodeID) {
	pn := t.node(p)
	i := slices.Index(pn.children, original)
	assert(i >= 0, "updateWithNewNode: original is not a child")
	on, nn := t.node(original), t.node(newNode)
	pn.keys[i] = on.minKey()
	pn.maxs[i] = on.max()
	pn.children = slices.Insert(pn.children, i+1, newNode)
	pn.keys = slices.Insert(pn.keys, i+1, nn.minKey())
	pn.maxs = slices.Insert(pn.maxs, i+1, nn.max())
	nn.parent = p
	if pn.size() > t.cfg.Order { // momentary overflow
		t.splitInner(p)
		return
	}
	if pn.parent != none {
		t.updateParentValues(p)
	}
}

// splitInner moves the upper half of an overflowing inner node to a new
// sibling. Splitting the root grows the tree by one level.
func (t *Tree) splitInner(id nodeID) {
	n := t.node(id)
	if n.parent == none {
		root := t.alloc(innerKind, none)
		rn := t.node(root)
		rn.keys = []float64{n.minKey()}
		rn.maxs = []float64{n.max()}
		rn.children = []nodeID{id}
		n.parent = root
		t.root = root
		T().Debugf("ibtree: new root %d above %d", root, id)
	}
	div := (n.size() + 1) / 2
	sib := t.alloc(innerKind, n.parent)
	sn := t.node(sib)
	sn.keys = slices.Clone(n.keys[div:])
	sn.maxs = slices.Clone(n.maxs[div:])
	sn.children = slices.Clone(n.children[div:])
	n.keys, n.maxs, n.children = n.keys[:div], n.maxs[:div], n.children[:div]
	for _, c := range sn.children {
		t.node(c).parent = sib
	}
	T().Debugf("ibtree: split inner node %d, new sibling %d", id, sib)
	t.updateWithNewNode(n.parent, id, sib)
}
