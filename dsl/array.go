package dsl

import (
	gs "github.com/reoring/geminischema"
)

// Array returns an array schema with the given element schema.
//
// Optional on an element is accepted but has no effect on the encoded schema:
// array elements are never individually omissible, only nullable.
func Array(elem Builder) Schema {
	return Schema{n: &gs.Array{Element: nodeOf(elem)}}
}

func nodeOf(b Builder) gs.Node {
	if b == nil {
		return nil
	}
	return b.Node()
}
