package ibtree

import (
	"slices"
	"sort"

	"github.com/npillmayer/ibtree/interval"
)

// Leaves hold intervals sorted by lower bound. keys[i] and maxs[i] mirror
// the bounds of items[i].

// addInterval inserts iv at its sorted position, after intervals with an
// equal lower bound.
func (t *Tree) addInterval(id nodeID, iv *interval.Interval) {
	n := t.node(id)
	i := sort.Search(len(n.items), func(k int) bool {
		return n.items[k].Lo() > iv.Lo()
	})
	n.items = slices.Insert(n.items, i, iv)
	n.keys = slices.Insert(n.keys, i, iv.Lo())
	n.maxs = slices.Insert(n.maxs, i, iv.Hi())
	if iv.IsFragment() {
		t.fragments++
	}
}

// splitLeaf splits a full leaf and places iv in one of the halves. It
// returns the leaf which received iv.
func (t *Tree) splitLeaf(id nodeID, iv *interval.Interval) nodeID {
	t.addInterval(id, iv) // momentary overflow
	n := t.node(id)
	div := (n.size() + 1) / 2
	sib := t.alloc(leafKind, n.parent)
	sn := t.node(sib)
	sn.items = slices.Clone(n.items[div:])
	sn.keys = slices.Clone(n.keys[div:])
	sn.maxs = slices.Clone(n.maxs[div:])
	n.items, n.keys, n.maxs = n.items[:div], n.keys[:div], n.maxs[:div]
	T().Debugf("ibtree: split leaf %d, new sibling %d", id, sib)
	t.updateWithNewNode(n.parent, id, sib)
	if slices.Contains(sn.items, iv) {
		return sib
	}
	return id
}

// timeSplit cuts iv, just added to leaf id, at the split point chosen by
// the tree's policy. The left fragment replaces iv in place, the right
// fragment is returned for re-insertion. Other intervals of the leaf are
// never cut; they end at or below prevMax, where LinearPolicy cuts at the
// lowest.
func (t *Tree) timeSplit(id nodeID, iv *interval.Interval, prevMax, alpha float64) *interval.Interval {
	n := t.node(id)
	at, ok := t.cfg.Policy.SplitPoint(n.minKey(), prevMax, iv.Hi(), alpha)
	if !ok {
		return nil
	}
	left, right, ok := interval.Fragment(iv, at)
	if !ok {
		return nil
	}
	i := t.indexOfItem(id, iv)
	assert(i >= 0, "timeSplit: interval is not in leaf")
	if !iv.IsFragment() {
		t.fragments++
	}
	n.items[i] = left
	n.maxs[i] = left.Hi()
	T().Debugf("ibtree: time split of %s in leaf %d at %v", iv, id, at)
	return right
}

// substitute follows the forwarding chain of a merged-away leaf to the leaf
// now holding its content. It returns none if the chain ends in a leaf which
// has been dropped altogether.
func (t *Tree) substitute(id nodeID) nodeID {
	for id != none && t.node(id).kind == forwardedKind {
		id = t.node(id).subst
	}
	return id
}

func (t *Tree) indexOfItem(id nodeID, iv *interval.Interval) int {
	return slices.Index(t.node(id).items, iv)
}

// --- Leaf queries ----------------------------------------------------------

// Leaves report logical intervals: a fragment stands for its original.

func leafExists(n *node, q interval.Range) bool {
	return slices.ContainsFunc(n.items, func(item *interval.Interval) bool {
		return item.Original().Range().Equals(q)
	})
}

func leafSearch(n *node, q interval.Range, rs *resultSet) {
	for _, item := range n.items {
		if orig := item.Original(); orig.Range().Equals(q) {
			rs.add(orig)
		}
	}
}

func leafLoneRangeSearch(n *node, q interval.Range) *interval.Interval {
	for _, item := range n.items {
		if item.Range().Intersects(q) {
			return item.Original()
		}
	}
	return nil
}

func leafAllRangeSearch(n *node, q interval.Range, rs *resultSet) {
	for _, item := range n.items {
		if item.Range().Intersects(q) {
			rs.add(item.Original())
		}
	}
}

func leafContainedRangeSearch(n *node, q interval.Range, rs *resultSet) {
	for _, item := range n.items {
		if orig := item.Original(); q.Contains(orig.Range()) {
			rs.add(orig)
		}
	}
}
