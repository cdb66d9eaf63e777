package ibtree

import "errors"

var (
	// ErrInvalidConfig signals an invalid tree configuration.
	ErrInvalidConfig = errors.New("ibtree: invalid configuration")
	// ErrIllegalArguments is flagged whenever function parameters are invalid.
	ErrIllegalArguments = errors.New("ibtree: illegal arguments")
	// ErrStructuralInconsistency signals a broken tree invariant, detected
	// when an interval could not be re-located after rebalancing. The tree
	// is unusable afterwards.
	ErrStructuralInconsistency = errors.New("ibtree: structural inconsistency")
	// ErrTreeBroken is returned by mutating operations on a tree which
	// previously failed with ErrStructuralInconsistency.
	ErrTreeBroken = errors.New("ibtree: tree is broken")
)
