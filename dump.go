package ibtree

import (
	"strconv"
	"strings"
)

// String represents the tree as indented text, one block per node, for
// debugging purposes. The format is not stable.
func (t *Tree) String() string {
	var b strings.Builder
	t.asString(&b, t.root, 0)
	return b.String()
}

func (t *Tree) asString(b *strings.Builder, id nodeID, depth int) {
	n := t.node(id)
	tabs := strings.Repeat("\t", depth)
	if n.isLeaf() {
		b.WriteString(tabs + "- Leaf |")
		for _, item := range n.items {
			b.WriteString(item.String() + "|")
		}
		b.WriteString("\n")
		return
	}
	b.WriteString(tabs + "- Keys |")
	for _, key := range n.keys {
		b.WriteString(fmtFloat(key) + "|")
	}
	b.WriteString("\n" + tabs + "  Maxs |")
	for _, m := range n.maxs {
		b.WriteString(fmtFloat(m) + "|")
	}
	b.WriteString("\n")
	for _, child := range n.children {
		t.asString(b, child, depth+1)
	}
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
