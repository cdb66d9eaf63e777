package ibtree

import "slices"

// Algorithms shared by inner nodes and leaves: sibling discovery, aggregate
// propagation, borrow, merge and removal with underflow handling.

func (t *Tree) isRoot(id nodeID) bool {
	return t.node(id).parent == none
}

// indexInParent returns the position of id within its parent's children,
// or -1 for the root.
func (t *Tree) indexInParent(id nodeID) int {
	p := t.node(id).parent
	if p == none {
		return -1
	}
	i := slices.Index(t.node(p).children, id)
	assert(i >= 0, "node is not registered with its parent")
	return i
}

// leftSibling returns the node left of id at the same depth, which may have
// a different parent. It returns none if id is the leftmost node of its depth.
func (t *Tree) leftSibling(id nodeID) nodeID {
	return t.sibling(id, -1)
}

// rightSibling is the mirror image of leftSibling.
func (t *Tree) rightSibling(id nodeID) nodeID {
	return t.sibling(id, +1)
}

// sibling ascends from id until an ancestor has a neighbor in direction dir,
// then descends from that neighbor along the extreme children facing id
// for as many levels as it ascended.
func (t *Tree) sibling(id nodeID, dir int) nodeID {
	depth := 0
	for cur := id; ; depth++ {
		p := t.node(cur).parent
		if p == none {
			return none
		}
		children := t.node(p).children
		j := t.indexInParent(cur) + dir
		if j >= 0 && j < len(children) {
			return t.descend(children[j], depth, dir)
		}
		cur = p
	}
}

func (t *Tree) descend(id nodeID, depth int, dir int) nodeID {
	for ; depth > 0; depth-- {
		children := t.node(id).children
		assert(len(children) > 0, "sibling descent into empty inner node")
		if dir < 0 {
			id = children[len(children)-1]
		} else {
			id = children[0]
		}
	}
	return id
}

// --- Aggregates ------------------------------------------------------------

// updateParentValues refreshes the key and maximum representing id in its
// parent.
func (t *Tree) updateParentValues(id nodeID) {
	p := t.node(id).parent
	assert(p != none, "updateParentValues called for root")
	t.updateMin(p, id)
	t.updateMax(p, id)
}

// updateMax stores child's current maximum in p. The change travels upward
// only as long as it alters what an ancestor has stored.
func (t *Tree) updateMax(p, child nodeID) {
	pn := t.node(p)
	i := slices.Index(pn.children, child)
	assert(i >= 0, "updateMax: not a child")
	pn.maxs[i] = t.node(child).max()
	if gp := pn.parent; gp != none {
		if t.node(gp).maxs[t.indexInParent(p)] != pn.max() {
			t.updateMax(gp, p)
		}
	}
}

// updateMin stores child's current minimum key in p, propagating like
// updateMax.
func (t *Tree) updateMin(p, child nodeID) {
	pn := t.node(p)
	i := slices.Index(pn.children, child)
	assert(i >= 0, "updateMin: not a child")
	pn.keys[i] = t.node(child).minKey()
	if gp := pn.parent; gp != none {
		if t.node(gp).keys[t.indexInParent(p)] != pn.minKey() {
			t.updateMin(gp, p)
		}
	}
}

// --- Rebalancing -----------------------------------------------------------

// borrow moves the entry at removeID of sibling to position insertID of id.
func (t *Tree) borrow(id, sibling nodeID, insertID, removeID int) {
	n, s := t.node(id), t.node(sibling)
	T().Debugf("ibtree: node %d borrows entry %d from %d", id, removeID, sibling)
	n.keys = slices.Insert(n.keys, insertID, s.keys[removeID])
	n.maxs = slices.Insert(n.maxs, insertID, s.maxs[removeID])
	s.keys = slices.Delete(s.keys, removeID, removeID+1)
	s.maxs = slices.Delete(s.maxs, removeID, removeID+1)
	if n.isLeaf() {
		n.items = slices.Insert(n.items, insertID, s.items[removeID])
		s.items = slices.Delete(s.items, removeID, removeID+1)
	} else {
		child := s.children[removeID]
		n.children = slices.Insert(n.children, insertID, child)
		s.children = slices.Delete(s.children, removeID, removeID+1)
		t.node(child).parent = id
	}
	t.updateParentValues(id)
	t.updateParentValues(sibling)
}

// merge splices all entries of id into sibling at position pos and removes
// id from the tree. A merged-away leaf keeps forwarding to sibling.
func (t *Tree) merge(id, sibling nodeID, pos int) {
	n, s := t.node(id), t.node(sibling)
	T().Debugf("ibtree: merge node %d into %d at %d", id, sibling, pos)
	s.keys = slices.Insert(s.keys, pos, n.keys...)
	s.maxs = slices.Insert(s.maxs, pos, n.maxs...)
	if n.isLeaf() {
		s.items = slices.Insert(s.items, pos, n.items...)
	} else {
		s.children = slices.Insert(s.children, pos, n.children...)
		for _, c := range n.children {
			t.node(c).parent = sibling
		}
	}
	parent, idx := n.parent, t.indexInParent(id)
	if n.isLeaf() {
		t.tombstone(id, sibling)
	} else {
		t.release(id)
	}
	t.removeChild(parent, idx)
	if !t.isRoot(sibling) {
		t.updateParentValues(sibling)
	}
}

func (t *Tree) isUnderflow(id nodeID) bool {
	return t.node(id).size() < t.cfg.minEntries()
}

// handleUnderflow repairs a node with too few entries: borrow from the left,
// borrow from the right, merge into the left, merge into the right, in this
// order of preference.
func (t *Tree) handleUnderflow(id nodeID) {
	minEntries := t.cfg.minEntries()
	left, right := t.leftSibling(id), t.rightSibling(id)
	switch {
	case left != none && t.node(left).size() > minEntries:
		t.borrow(id, left, 0, t.node(left).size()-1)
	case right != none && t.node(right).size() > minEntries:
		t.borrow(id, right, t.node(id).size(), 0)
	case left != none:
		t.merge(id, left, t.node(left).size())
	case right != none:
		t.merge(id, right, 0)
	default:
		// sole node of its depth, i.e. a leaf directly below the root
		if t.node(id).size() == 0 {
			parent, idx := t.node(id).parent, t.indexInParent(id)
			t.tombstone(id, none)
			t.removeChild(parent, idx)
		} else {
			t.updateParentValues(id)
		}
	}
}

// removeChild removes the entry at idx from node id and restores the
// balance of the tree. For inner nodes, the child must already have been
// taken care of by the caller.
func (t *Tree) removeChild(id nodeID, idx int) {
	n := t.node(id)
	n.keys = slices.Delete(n.keys, idx, idx+1)
	n.maxs = slices.Delete(n.maxs, idx, idx+1)
	if n.isLeaf() {
		if n.items[idx].IsFragment() {
			t.fragments--
		}
		n.items = slices.Delete(n.items, idx, idx+1)
	} else {
		n.children = slices.Delete(n.children, idx, idx+1)
	}
	if t.isChildNewRoot(id) {
		t.promote(n.children[0])
		return
	}
	if t.isRoot(id) {
		return
	}
	if t.isUnderflow(id) {
		t.handleUnderflow(id)
	} else {
		t.updateParentValues(id)
	}
}

// isChildNewRoot is true if id is the root and has shrunk to a single inner
// child. That child then spans its whole depth and may replace the root.
func (t *Tree) isChildNewRoot(id nodeID) bool {
	n := t.node(id)
	if n.parent != none || len(n.children) != 1 {
		return false
	}
	child := n.children[0]
	return t.node(child).kind == innerKind &&
		t.leftSibling(child) == none && t.rightSibling(child) == none
}

func (t *Tree) promote(child nodeID) {
	old := t.node(child).parent
	T().Debugf("ibtree: node %d becomes new root", child)
	t.node(child).parent = none
	t.root = child
	t.release(old)
}
