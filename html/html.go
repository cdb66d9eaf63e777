/*
Package html renders interval B+-trees as nested HTML lists and reads
intervals back from such lists.

Every tree node becomes a list item holding a nested list of its children.
Leaf entries are list items of class "interval" carrying their bounds in
data attributes; fragments additionally carry a group number shared by all
fragments of the same original interval.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the LICENSE file for details.
*/
package html

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/npillmayer/ibtree"
	"github.com/npillmayer/ibtree/interval"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tracer writes to trace with key 'ibtree'
func tracer() tracing.Trace {
	return tracing.Select("ibtree")
}

// Class names used in rendered output.
const (
	TreeClass     = "ibtree"
	InnerClass    = "inner"
	LeafClass     = "leaf"
	IntervalClass = "interval"
)

// Render writes tree as an HTML fragment to w.
func Render(w io.Writer, tree *ibtree.Tree) error {
	n, err := Node(tree)
	if err != nil {
		return err
	}
	return html.Render(w, n)
}

// Node builds the HTML element tree for tree, rooted in an unordered list.
func Node(tree *ibtree.Tree) (*html.Node, error) {
	if tree == nil {
		return nil, fmt.Errorf("%w: tree is nil", ibtree.ErrIllegalArguments)
	}
	top := element(atom.Ul, TreeClass)
	lists := []*html.Node{top} // open list per depth
	groups := make(map[*interval.Interval]int)
	err := tree.Walk(func(v ibtree.NodeView) error {
		lists = lists[:v.Depth+1]
		li := element(atom.Li, InnerClass)
		if v.Leaf {
			li.Attr[0].Val = LeafClass
		}
		lists[v.Depth].AppendChild(li)
		sub := element(atom.Ul, "")
		li.AppendChild(sub)
		if !v.Leaf {
			li.InsertBefore(text(routing(v)), sub)
			lists = append(lists, sub)
			return nil
		}
		for _, iv := range v.Items {
			sub.AppendChild(intervalItem(iv, groups))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	tracer().Debugf("rendered tree with %d fragment groups", len(groups))
	return top, nil
}

func routing(v ibtree.NodeView) string {
	s := ""
	for i := range v.Keys {
		if i > 0 {
			s += " "
		}
		s += fmtFloat(v.Keys[i]) + "↑" + fmtFloat(v.Maxs[i])
	}
	return s
}

func intervalItem(iv *interval.Interval, groups map[*interval.Interval]int) *html.Node {
	li := element(atom.Li, IntervalClass)
	li.Attr = append(li.Attr,
		html.Attribute{Key: "data-lo", Val: fmtFloat(iv.Lo())},
		html.Attribute{Key: "data-hi", Val: fmtFloat(iv.Hi())},
	)
	if iv.IsFragment() {
		orig := iv.Original()
		g, ok := groups[orig]
		if !ok {
			g = len(groups) + 1
			groups[orig] = g
		}
		li.Attr = append(li.Attr,
			html.Attribute{Key: "data-group", Val: strconv.Itoa(g)},
			html.Attribute{Key: "data-original", Val: fmtFloat(orig.Lo()) + "," + fmtFloat(orig.Hi())},
		)
	}
	li.AppendChild(text(iv.String()))
	return li
}

func element(a atom.Atom, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Intervals extracts the logical intervals from an HTML fragment produced
// by Render. Fragments of a group are reported once, as their original.
func Intervals(input io.Reader) ([]*interval.Interval, error) {
	nodes, err := html.ParseFragment(input, &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil, err
	}
	var ivs []*interval.Interval
	seen := make(map[string]bool)
	var collect func(n *html.Node) error
	collect = func(n *html.Node) error {
		if n.Type == html.ElementNode && n.DataAtom == atom.Li && attr(n, "class") == IntervalClass {
			iv, err := parseItem(n, seen)
			if err != nil {
				return err
			}
			if iv != nil {
				ivs = append(ivs, iv)
			}
			return nil
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := collect(c); err != nil {
				return err
			}
		}
		return nil
	}
	for _, n := range nodes {
		if err := collect(n); err != nil {
			return nil, err
		}
	}
	return ivs, nil
}

func parseItem(n *html.Node, seen map[string]bool) (*interval.Interval, error) {
	if g := attr(n, "data-group"); g != "" {
		if seen[g] {
			return nil, nil
		}
		seen[g] = true
		bounds := attr(n, "data-original")
		i := strings.IndexByte(bounds, ',')
		if i < 0 {
			return nil, fmt.Errorf("%w: malformed original %q", ibtree.ErrIllegalArguments, bounds)
		}
		return makeInterval(bounds[:i], bounds[i+1:])
	}
	return makeInterval(attr(n, "data-lo"), attr(n, "data-hi"))
}

func makeInterval(los, his string) (*interval.Interval, error) {
	lo, err := strconv.ParseFloat(los, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ibtree.ErrIllegalArguments, err)
	}
	hi, err := strconv.ParseFloat(his, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ibtree.ErrIllegalArguments, err)
	}
	if lo > hi {
		return nil, fmt.Errorf("%w: inverted bounds [%s,%s]", ibtree.ErrIllegalArguments, los, his)
	}
	return interval.New(lo, hi), nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
