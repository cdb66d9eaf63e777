package ibtree

import (
	"fmt"

	"github.com/npillmayer/ibtree/interval"
)

// Tree is an interval B+-tree: a B+-tree over intervals, ordered by lower
// bound, where every routing entry is augmented with the maximum upper
// bound found in its subtree.
//
// Nodes live in an arena and are addressed by index; parent links are plain
// indices. The root is always an inner node, an empty tree has a root
// without children.
//
// A Tree is not safe for concurrent use. Clients serialize access.
type Tree struct {
	cfg       Config
	nodes     []*node  // arena; slot 0 is unused
	free      []nodeID // released slots
	tombs     []nodeID // forwarded leaves of the running operation
	root      nodeID
	fragments int   // number of stored fragments
	err       error // sticky structural error
}

// New creates an empty tree with validated configuration.
func New(cfg Config) (*Tree, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	t := &Tree{
		cfg:   cfg.normalized(),
		nodes: []*node{{kind: freeKind}},
	}
	t.root = t.alloc(innerKind, none)
	return t, nil
}

// Config returns a copy of the effective tree configuration.
func (t *Tree) Config() Config {
	return t.cfg
}

// Insert inserts iv, applying temporal splits according to the tree's
// configured alpha.
func (t *Tree) Insert(iv *interval.Interval) error {
	return t.InsertAlpha(iv, t.cfg.Alpha)
}

// InsertAlpha inserts iv. If alpha > 0 and the upper bound of iv exceeds
// the maximum of the tree, iv is time-split: if the split point lies
// within iv, iv is stored as two fragments.
func (t *Tree) InsertAlpha(iv *interval.Interval, alpha float64) error {
	if t.err != nil {
		return fmt.Errorf("%w: %w", ErrTreeBroken, t.err)
	}
	if iv == nil {
		return fmt.Errorf("%w: nil interval", ErrIllegalArguments)
	}
	t.insert(iv, alpha)
	return nil
}

func (t *Tree) insert(iv *interval.Interval, alpha float64) {
	rn := t.node(t.root)
	empty, prevMax := len(rn.children) == 0, rn.max()
	leaf := t.findInsertLeaf(t.root, iv.Lo())
	if leaf == none {
		leaf = t.alloc(leafKind, t.root)
		rn.children = append(rn.children, leaf)
		rn.keys = append(rn.keys, iv.Lo())
		rn.maxs = append(rn.maxs, iv.Hi())
	}
	if t.node(leaf).size() >= t.cfg.Order {
		leaf = t.splitLeaf(leaf, iv)
	} else {
		t.addInterval(leaf, iv)
	}
	var rest *interval.Interval
	if alpha > 0 && !empty && iv.Hi() > prevMax {
		rest = t.timeSplit(leaf, iv, prevMax, alpha)
	}
	t.updateParentValues(leaf)
	if rest != nil {
		t.insert(rest, 0)
	}
}

// Delete removes iv according to the tree's configured alpha.
func (t *Tree) Delete(iv *interval.Interval) error {
	return t.DeleteAlpha(iv, t.cfg.Alpha)
}

// DeleteAlpha removes iv. With alpha <= 0, a single interval with the bounds
// of iv is removed. With alpha > 0, iv may have been fragmented, and all
// fragments of the first match are removed. Deleting an absent interval is
// a no-op.
func (t *Tree) DeleteAlpha(iv *interval.Interval, alpha float64) error {
	if t.err != nil {
		return fmt.Errorf("%w: %w", ErrTreeBroken, t.err)
	}
	if iv == nil {
		return fmt.Errorf("%w: nil interval", ErrIllegalArguments)
	}
	defer t.reclaim()
	if alpha <= 0 {
		t.deleteExact(iv)
		return nil
	}
	return t.deleteCompound(iv)
}

// RangeDelete removes every interval overlapping [lo,hi]. Fragmented
// intervals are removed as a whole.
func (t *Tree) RangeDelete(lo, hi float64) error {
	if t.err != nil {
		return fmt.Errorf("%w: %w", ErrTreeBroken, t.err)
	}
	if lo > hi {
		return fmt.Errorf("%w: inverted range [%v,%v]", ErrIllegalArguments, lo, hi)
	}
	defer t.reclaim()
	return t.rangeDelete(lo, hi)
}

// Exists reports whether an interval with the bounds of iv is stored,
// possibly as fragments.
func (t *Tree) Exists(iv *interval.Interval) bool {
	if iv == nil {
		return false
	}
	return t.exists(t.root, iv.Range())
}

// Search returns all intervals with bounds equal to q.
func (t *Tree) Search(q interval.Range) []*interval.Interval {
	rs := newResultSet()
	t.search(t.root, q, rs)
	return rs.list
}

// LoneRangeSearch returns an interval overlapping q, or nil if there is
// none. It is the first one found in scan order.
func (t *Tree) LoneRangeSearch(q interval.Range) *interval.Interval {
	return t.loneRangeSearch(t.root, q)
}

// AllRangeSearch returns all intervals overlapping q.
func (t *Tree) AllRangeSearch(q interval.Range) []*interval.Interval {
	rs := newResultSet()
	t.allRangeSearch(t.root, q, rs)
	return rs.list
}

// ContainedRangeSearch returns all intervals lying within q.
func (t *Tree) ContainedRangeSearch(q interval.Range) []*interval.Interval {
	rs := newResultSet()
	t.containedRangeSearch(t.root, q, rs)
	return rs.list
}

// Len returns the number of stored entries, counting every fragment.
func (t *Tree) Len() int {
	return t.countItems(t.root)
}

func (t *Tree) countItems(id nodeID) int {
	n := t.node(id)
	if n.isLeaf() {
		return len(n.items)
	}
	total := 0
	for _, child := range n.children {
		total += t.countItems(child)
	}
	return total
}

// Height returns the number of levels, where 0 means empty and 2 means a
// root with leaves below it.
func (t *Tree) Height() int {
	h := 0
	for id := t.root; ; h++ {
		n := t.node(id)
		if n.isLeaf() {
			return h + 1
		}
		if len(n.children) == 0 {
			return 0
		}
		id = n.children[0]
	}
}

// Max returns the largest upper bound in the tree and false for an empty
// tree.
func (t *Tree) Max() (float64, bool) {
	rn := t.node(t.root)
	if len(rn.children) == 0 {
		return 0, false
	}
	return rn.max(), true
}

// Each calls f for every stored entry in order of lower bounds, until f
// returns false.
func (t *Tree) Each(f func(*interval.Interval) bool) {
	t.each(t.root, f)
}

func (t *Tree) each(id nodeID, f func(*interval.Interval) bool) bool {
	n := t.node(id)
	if n.isLeaf() {
		for _, item := range n.items {
			if !f(item) {
				return false
			}
		}
		return true
	}
	for _, child := range n.children {
		if !t.each(child, f) {
			return false
		}
	}
	return true
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Entries    int // stored intervals, fragments included
	Fragments  int // stored fragments
	Leaves     int
	InnerNodes int
	Height     int
}

// Stats returns shape information for t.
func (t *Tree) Stats() Stats {
	s := Stats{Fragments: t.fragments, Height: t.Height()}
	var walk func(nodeID)
	walk = func(id nodeID) {
		n := t.node(id)
		if n.isLeaf() {
			s.Leaves++
			s.Entries += len(n.items)
			return
		}
		s.InnerNodes++
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(t.root)
	return s
}
