package ibtree

import (
	"slices"

	"github.com/npillmayer/ibtree/interval"
)

// NodeView is a snapshot of a node, handed to visitors of Walk.
// For inner nodes, Keys[i] and Maxs[i] describe the i-th child subtree;
// for leaves they mirror Items[i].
type NodeView struct {
	Depth int
	Leaf  bool
	Keys  []float64
	Maxs  []float64
	Items []*interval.Interval // nil for inner nodes
}

// Walk visits all nodes in pre-order, depth first. It stops at the first
// error returned by f and returns it.
func (t *Tree) Walk(f func(NodeView) error) error {
	return t.walk(t.root, 0, func(id nodeID, depth int) error {
		n := t.node(id)
		view := NodeView{
			Depth: depth,
			Leaf:  n.isLeaf(),
			Keys:  slices.Clone(n.keys),
			Maxs:  slices.Clone(n.maxs),
		}
		if n.isLeaf() {
			view.Items = slices.Clone(n.items)
		}
		return f(view)
	})
}
