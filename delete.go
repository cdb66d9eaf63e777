package ibtree

import (
	"fmt"

	"github.com/npillmayer/ibtree/interval"
)

// deleteExact removes a single stored interval with the bounds of iv.
func (t *Tree) deleteExact(iv *interval.Interval) {
	if leaf, idx := t.findInterval(t.root, iv); leaf != none {
		t.removeChild(leaf, idx)
	}
}

// deleteCompound removes the first interval matching iv. A match is either
// an interval with the bounds of iv or a fragment of such an interval. If
// the match is a fragment, all fragments of its original are removed.
func (t *Tree) deleteCompound(iv *interval.Interval) error {
	candidates := t.findIntervalsInRange(t.root, iv.Range(), nil)
	first := -1
	for i, m := range candidates {
		if m.iv == iv || m.iv.Original() == iv {
			first = i
			break
		}
		if first < 0 && (m.iv.Equals(iv) || m.iv.Original().Equals(iv)) {
			first = i
		}
	}
	if first < 0 {
		return nil
	}
	m := candidates[first]
	if !m.iv.IsFragment() {
		return t.removeMatch(m)
	}
	for _, f := range t.fragmentsOf(m.iv.Original()) {
		if err := t.removeMatch(f); err != nil {
			return err
		}
	}
	return nil
}

// rangeDelete removes every interval overlapping [lo,hi], together with all
// fragments belonging to the same original as an overlapping fragment.
func (t *Tree) rangeDelete(lo, hi float64) error {
	found := t.findIntervalsInRange(t.root, interval.R(lo, hi), nil)
	seen := make(map[*interval.Interval]struct{}, len(found))
	groups := make(map[*interval.Interval]struct{})
	todo := make([]match, 0, len(found))
	add := func(m match) {
		if _, ok := seen[m.iv]; !ok {
			seen[m.iv] = struct{}{}
			todo = append(todo, m)
		}
	}
	for _, m := range found {
		add(m)
		if !m.iv.IsFragment() {
			continue
		}
		orig := m.iv.Original()
		if _, ok := groups[orig]; ok {
			continue
		}
		groups[orig] = struct{}{}
		for _, f := range t.fragmentsOf(orig) {
			add(f)
		}
	}
	T().Debugf("ibtree: range delete [%v,%v] removes %d intervals", lo, hi, len(todo))
	for _, m := range todo {
		if err := t.removeMatch(m); err != nil {
			return err
		}
	}
	return nil
}

// fragmentsOf collects all stored fragments of orig.
func (t *Tree) fragmentsOf(orig *interval.Interval) []match {
	all := t.findIntervalsInRange(t.root, orig.Range(), nil)
	frags := all[:0]
	for _, m := range all {
		if m.iv.Original() == orig {
			frags = append(frags, m)
		}
	}
	return frags
}

// removeMatch re-resolves a match collected before earlier removals and
// removes it.
func (t *Tree) removeMatch(m match) error {
	leaf, idx, err := t.checkIntervalOnLeaf(m.leaf, m.iv)
	if err != nil {
		return err
	}
	t.removeChild(leaf, idx)
	return nil
}

// checkIntervalOnLeaf finds the current position of iv, which has been
// stored in leaf at the time a match was collected. Since then, merges may
// have absorbed the leaf and borrows may have moved iv to a neighbor.
//
// Borrows move entries between adjacent leaves only, and leaves are ordered
// by lower bound. Neighbors are visited as long as their key range may still
// hold iv, first in the direction given by comparing iv's lower bound with
// the leaf's minimum key, then in the other direction.
func (t *Tree) checkIntervalOnLeaf(leaf nodeID, iv *interval.Interval) (nodeID, int, error) {
	live := t.substitute(leaf)
	if live == none {
		return none, -1, t.inconsistent(iv, leaf)
	}
	if idx := t.indexOfItem(live, iv); idx >= 0 {
		return live, idx, nil
	}
	dirs := [2]int{+1, -1}
	if iv.Lo() <= t.node(live).minKey() {
		dirs = [2]int{-1, +1}
	}
	for _, dir := range dirs {
		for cur := t.sibling(live, dir); cur != none; cur = t.sibling(cur, dir) {
			if idx := t.indexOfItem(cur, iv); idx >= 0 {
				return cur, idx, nil
			}
			cn := t.node(cur)
			if cn.size() == 0 {
				continue
			}
			if dir < 0 && cn.keys[0] < iv.Lo() {
				break
			}
			if dir > 0 && cn.keys[cn.size()-1] > iv.Lo() {
				break
			}
		}
	}
	return none, -1, t.inconsistent(iv, leaf)
}

func (t *Tree) inconsistent(iv *interval.Interval, leaf nodeID) error {
	t.err = fmt.Errorf("%w: interval %s lost after rebalancing leaf %d", ErrStructuralInconsistency, iv, leaf)
	T().Errorf("%v", t.err)
	return t.err
}
