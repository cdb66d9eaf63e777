package ibtree

import (
	"fmt"
	"io"
	"strings"
)

// Tree2Dot outputs the internal structure of a tree in Graphviz DOT format
// (for debugging purposes).
func Tree2Dot(t *Tree, w io.Writer) {
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12];\n")
	nodelist, edgelist := "", ""
	err := t.walk(t.root, 0, func(id nodeID, depth int) error {
		n := t.node(id)
		styles := nodeDotStyles(n.isLeaf(), depth)
		if n.isLeaf() {
			labels := make([]string, len(n.items))
			for i, item := range n.items {
				labels[i] = item.String()
			}
			label := strings.Join(labels, "\\n")
			nodelist += fmt.Sprintf("\"%d\" [label=\"%s\" %s];\n", id, label, styles)
			return nil
		}
		entries := make([]string, len(n.keys))
		for i := range n.keys {
			entries[i] = fmtFloat(n.keys[i]) + "↑" + fmtFloat(n.maxs[i])
		}
		nodelist += fmt.Sprintf("\"%d\" [label=\"%s\" %s];\n", id, strings.Join(entries, " | "), styles)
		for _, child := range n.children {
			edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", id, child)
		}
		return nil
	})
	if err != nil {
		T().Errorf("tree DOT: %s", err.Error())
	}
	io.WriteString(w, nodelist)
	io.WriteString(w, edgelist)
	io.WriteString(w, "}\n")
}

// walk visits nodes in pre-order.
func (t *Tree) walk(id nodeID, depth int, f func(nodeID, int) error) error {
	if err := f(id, depth); err != nil {
		return err
	}
	for _, child := range t.node(id).children {
		if err := t.walk(child, depth+1, f); err != nil {
			return err
		}
	}
	return nil
}

func nodeDotStyles(isleaf bool, depth int) string {
	if isleaf {
		return ",style=filled,shape=box,fillcolor=white"
	}
	s := ",style=\"rounded,filled\",shape=box,color=black"
	s += fmt.Sprintf(",fillcolor=\"%s\"", hexcolors[depth%len(hexcolors)])
	return s
}

var hexcolors = [...]string{"#a3d7e4", "#CCDDFF", "#AACCFF", "#88BBFF", "#66AAFF",
	"#4499FF", "#2288FF", "#0077FF", "#0066FF"}
