package ibtree

import (
	"fmt"
	"math"

	"github.com/npillmayer/ibtree/interval"
)

// Check validates structural tree invariants: parallel entry slices,
// ordered keys, occupancy bounds, parent links, uniform leaf depth and
// augmented maximums recomputed from scratch.
//
// This checker is intentionally strict and is meant for tests.
func (t *Tree) Check() error {
	if t == nil {
		return fmt.Errorf("%w: nil tree", ErrInvalidConfig)
	}
	root := t.node(t.root)
	if root.kind != innerKind {
		return t.invalid("root %d is not an inner node", t.root)
	}
	if root.parent != none {
		return t.invalid("root %d has a parent", t.root)
	}
	if len(t.tombs) != 0 {
		return t.invalid("%d unreclaimed tombstones", len(t.tombs))
	}
	fragments := 0
	leafDepth := -1
	var check func(id nodeID, depth int) error
	check = func(id nodeID, depth int) error {
		n := t.node(id)
		var entries int
		switch n.kind {
		case leafKind:
			entries = len(n.items)
		case innerKind:
			entries = len(n.children)
		default:
			return t.invalid("node %d of kind %d is reachable", id, n.kind)
		}
		if len(n.keys) != entries || len(n.maxs) != entries {
			return t.invalid("node %d: %d keys, %d maximums, %d entries", id, len(n.keys), len(n.maxs), entries)
		}
		if entries > t.cfg.Order {
			return t.invalid("node %d holds %d entries, order is %d", id, entries, t.cfg.Order)
		}
		if id != t.root && entries < t.cfg.minEntries() && !t.soleChildOfRoot(id) {
			return t.invalid("node %d underflows with %d entries", id, entries)
		}
		for i := 1; i < entries; i++ {
			if n.keys[i] < n.keys[i-1] {
				return t.invalid("node %d: keys out of order at %d", id, i)
			}
		}
		if n.isLeaf() {
			if leafDepth < 0 {
				leafDepth = depth
			} else if leafDepth != depth {
				return t.invalid("leaf %d at depth %d, expected %d", id, depth, leafDepth)
			}
			for i, item := range n.items {
				if n.keys[i] != item.Lo() || n.maxs[i] != item.Hi() {
					return t.invalid("leaf %d: entry %d does not mirror %s", id, i, item)
				}
				if item.IsFragment() {
					fragments++
				}
			}
			return nil
		}
		for i, child := range n.children {
			cn := t.node(child)
			if cn.parent != id {
				return t.invalid("node %d: child %d has parent %d", id, child, cn.parent)
			}
			if err := check(child, depth+1); err != nil {
				return err
			}
			if n.keys[i] != cn.minKey() {
				return t.invalid("node %d: key %v for child %d, minimum is %v", id, n.keys[i], child, cn.minKey())
			}
			if m := t.subtreeMax(child); n.maxs[i] != m {
				return t.invalid("node %d: maximum %v for child %d, subtree maximum is %v", id, n.maxs[i], child, m)
			}
		}
		return nil
	}
	if err := check(t.root, 0); err != nil {
		return err
	}
	if fragments != t.fragments {
		return t.invalid("%d fragments stored, %d counted", fragments, t.fragments)
	}
	return nil
}

// soleChildOfRoot is true for a leaf which is the only child of the root.
// It spans its depth alone and is exempt from the occupancy minimum.
func (t *Tree) soleChildOfRoot(id nodeID) bool {
	n := t.node(id)
	return n.parent == t.root && len(t.node(t.root).children) == 1
}

// subtreeMax scans every interval below id.
func (t *Tree) subtreeMax(id nodeID) float64 {
	m := math.Inf(-1)
	t.each(id, func(iv *interval.Interval) bool {
		m = math.Max(m, iv.Hi())
		return true
	})
	return m
}

func (t *Tree) invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrStructuralInconsistency}, args...)...)
}
