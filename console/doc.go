/*
Package console prints interval B+-trees to terminals, using colors to tell
routing keys, augmented maximums, intervals and fragments apart.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the LICENSE file for details.
*/
package console

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ibtree'
func tracer() tracing.Trace {
	return tracing.Select("ibtree")
}
