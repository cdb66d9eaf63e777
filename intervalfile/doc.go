/*
Package intervalfile loads intervals from text files into an interval B+-tree.

A file holds one interval per line, given as two numbers for the lower and
upper bound, separated by white space or a comma. Empty lines and lines
starting with '#' are skipped:

	# lo   hi
	1      5
	2, 3
	10     20

Parsing runs in a separate goroutine; parsed intervals are broadcast to
subscribers. The tree itself is fed from the calling goroutine only, as
trees are not safe for concurrent mutation.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the LICENSE file for details.
*/
package intervalfile

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ibtree'
func tracer() tracing.Trace {
	return tracing.Select("ibtree")
}
