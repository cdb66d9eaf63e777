/*
Package interval provides closed one-dimensional intervals as used by the
interval B+-tree.

An Interval is immutable. Intervals are handled by pointer, and identity
matters: the tree returns the very intervals a client inserted, and
fragments produced by temporal splitting carry a back-reference to the
logical interval they are a part of.

All predicates use closed-interval semantics. Touching end points count
as overlapping.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the LICENSE file for details.
*/
package interval

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ibtree'
func tracer() tracing.Trace {
	return tracing.Select("ibtree")
}
