package ibtree

// SplitPolicy decides where a temporal split cuts the intervals of a leaf.
//
// A temporal split is considered after an interval with upper bound hi has
// been inserted into a leaf with lowest lower bound lo, and hi exceeds the
// tree's previous maximum upper bound prevMax. Implementations return the
// cut point and whether to split at all. Only the inserted interval is cut,
// and only if the cut point lies strictly inside it.
type SplitPolicy interface {
	SplitPoint(lo, prevMax, hi, alpha float64) (at float64, ok bool)
}

// LinearPolicy places the cut point on the stretch between the previous
// maximum and the new upper bound: alpha = 1 cuts at the previous maximum,
// alpha near 0 cuts close to hi. Alpha above 1 is treated as 1.
type LinearPolicy struct{}

// SplitPoint is part of interface SplitPolicy.
func (LinearPolicy) SplitPoint(lo, prevMax, hi, alpha float64) (float64, bool) {
	if alpha <= 0 || prevMax >= hi {
		return 0, false
	}
	if alpha > 1 {
		alpha = 1
	}
	at := hi - alpha*(hi-prevMax)
	if at <= lo || at >= hi {
		return 0, false
	}
	return at, true
}
