package dsl

import (
	gs "github.com/reoring/geminischema"
)

// Builder is anything that yields a source schema node.
type Builder interface {
	Node() gs.Node
}

// Schema is an immutable handle on a source schema node.
type Schema struct {
	n gs.Node
}

// Of adapts an existing node.
func Of(n gs.Node) Schema { return Schema{n: n} }

// String returns a string schema.
func String() Schema { return Schema{n: &gs.Primitive{Type: gs.String}} }

// Number returns a number schema.
func Number() Schema { return Schema{n: &gs.Primitive{Type: gs.Number}} }

// Bool returns a boolean schema.
func Bool() Schema { return Schema{n: &gs.Primitive{Type: gs.Boolean}} }

// Node returns the underlying node.
func (s Schema) Node() gs.Node { return s.n }

// Optional marks the schema as omissible.
func (s Schema) Optional() Schema { return Schema{n: &gs.Optional{Inner: s.n}} }

// Nullable permits null.
func (s Schema) Nullable() Schema { return Schema{n: &gs.Nullable{Inner: s.n}} }

// Array returns an array of s.
func (s Schema) Array() Schema { return Array(s) }

// Describe sets the description of the base schema beneath any
// Optional/Nullable layers. The receiver is left untouched.
func (s Schema) Describe(text string) Schema { return Schema{n: describe(s.n, text)} }

// Encode lowers the schema into the function-calling dialect.
func (s Schema) Encode() (*gs.Schema, error) { return gs.Encode(s.n) }

// MustEncode is Encode that panics on error.
func (s Schema) MustEncode() *gs.Schema { return gs.MustEncode(s.n) }

func describe(n gs.Node, text string) gs.Node {
	switch t := n.(type) {
	case *gs.Optional:
		return &gs.Optional{Inner: describe(t.Inner, text)}
	case *gs.Nullable:
		return &gs.Nullable{Inner: describe(t.Inner, text)}
	case *gs.Primitive:
		c := *t
		c.Description = text
		return &c
	case *gs.Array:
		c := *t
		c.Description = text
		return &c
	case *gs.Object:
		c := *t
		c.Fields = append([]gs.Field(nil), t.Fields...)
		c.Description = text
		return &c
	}
	// Foreign nodes carry no description slot.
	return n
}
