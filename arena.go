package ibtree

import (
	"math"

	"github.com/npillmayer/ibtree/interval"
)

// nodeID addresses a node in the tree's arena. The zero value is no node.
type nodeID int32

const none nodeID = 0

type nodeKind uint8

const (
	freeKind      nodeKind = iota // slot is on the free list
	innerKind                     // children are nodes
	leafKind                      // children are intervals
	forwardedKind                 // leaf absorbed by a merge, see subst
)

// node is the common record for inner nodes and leaves.
//
// keys and maxs run parallel to children (inner) or items (leaf). For a
// leaf, keys[i] and maxs[i] are the bounds of items[i]; for an inner node
// they aggregate the subtree of children[i].
type node struct {
	kind     nodeKind
	parent   nodeID // none for the root; never owns
	keys     []float64
	maxs     []float64
	children []nodeID
	items    []*interval.Interval
	subst    nodeID // forwarding target of a merged-away leaf
}

func (n *node) isLeaf() bool { return n.kind == leafKind }

func (n *node) size() int { return len(n.keys) }

// minKey is the routing key of n. Empty nodes report +Inf, so they never
// attract a lower bound during routing.
func (n *node) minKey() float64 {
	if len(n.keys) == 0 {
		return math.Inf(1)
	}
	return n.keys[0]
}

// max is the largest upper bound below n, -Inf for empty nodes.
func (n *node) max() float64 {
	m := math.Inf(-1)
	for _, x := range n.maxs {
		if x > m {
			m = x
		}
	}
	return m
}

// --- Arena -----------------------------------------------------------------

// node returns the record for id. It must not be called with none.
func (t *Tree) node(id nodeID) *node {
	assert(id != none && int(id) < len(t.nodes), "node id out of arena bounds")
	n := t.nodes[id]
	assert(n.kind != freeKind, "access to freed node")
	return n
}

func (t *Tree) alloc(kind nodeKind, parent nodeID) nodeID {
	var id nodeID
	if k := len(t.free); k > 0 {
		id = t.free[k-1]
		t.free = t.free[:k-1]
	} else {
		t.nodes = append(t.nodes, &node{})
		id = nodeID(len(t.nodes) - 1)
	}
	n := t.nodes[id]
	*n = node{kind: kind, parent: parent}
	return id
}

func (t *Tree) release(id nodeID) {
	n := t.nodes[id]
	*n = node{kind: freeKind}
	t.free = append(t.free, id)
}

// tombstone turns a merged-away leaf into a forwarding entry. Tombstones
// stay addressable until the end of the current top-level operation.
func (t *Tree) tombstone(id, target nodeID) {
	n := t.node(id)
	*n = node{kind: forwardedKind, subst: target}
	t.tombs = append(t.tombs, id)
}

// reclaim frees all tombstones. Public operations never hand out node ids,
// so nothing can reference a tombstone once the operation returns.
func (t *Tree) reclaim() {
	for _, id := range t.tombs {
		t.release(id)
	}
	t.tombs = t.tombs[:0]
}
