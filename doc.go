/*
Package ibtree implements an interval B+-tree, an in-memory index over
one-dimensional closed intervals.

Interval B+-Trees

An interval B+-tree stores intervals in its leaves, sorted by lower bound.
Inner nodes route by the minimum lower bound of each child and are augmented
with the maximum upper bound found in each child's subtree. The augmentation
lets range queries skip every subtree which cannot overlap the query range.

The tree supports exact lookup, three flavours of range query (first
overlapping interval, all overlapping intervals, all contained intervals),
insertion and deletion. Deletion re-balances the tree by borrowing entries
from neighbor nodes or by merging nodes. Neighbors are never stored; they
are computed by walking up and down the tree on demand.

Temporal Splitting

Applications indexing time intervals usually insert intervals with steadily
growing end points. Such intervals make the augmented maximums of the
rightmost leaves grow, and long-lived intervals degrade range pruning. If a
tree is configured with alpha > 0, an insertion which pushes the maximum of
the tree beyond its previous value triggers a time split of the receiving
leaf: intervals of the leaf lying across a split point are cut into
fragments. A fragment keeps a reference to its original interval; queries
report originals, and deletions remove all fragments of an original
together. The split point is chosen by a SplitPolicy.

Usage

	tree, _ := ibtree.New(ibtree.Config{Order: 8})
	tree.Insert(interval.New(1, 5))
	tree.Insert(interval.New(10, 20))
	hits := tree.AllRangeSearch(interval.R(3, 11))

A Tree is meant to be embedded into a larger application. It is not safe
for concurrent use.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
this list of conditions and the following disclaimer in the documentation
and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
contributors may be used to endorse or promote products derived from
this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

*/
package ibtree

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
