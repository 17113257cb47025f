package dsl

import (
	gs "github.com/reoring/geminischema"
)

// ObjectBuilder accumulates fields in declaration order.
type ObjectBuilder struct {
	fields      []gs.Field
	description string
}

// Object creates a new object builder.
func Object() *ObjectBuilder {
	return &ObjectBuilder{}
}

// Field registers a field. Registering an existing name replaces its schema
// and keeps its original position.
func (b *ObjectBuilder) Field(name string, s Builder) *ObjectBuilder {
	n := nodeOf(s)
	for i := range b.fields {
		if b.fields[i].Name == name {
			b.fields[i].Schema = n
			return b
		}
	}
	b.fields = append(b.fields, gs.Field{Name: name, Schema: n})
	return b
}

// Describe sets the object description.
func (b *ObjectBuilder) Describe(text string) *ObjectBuilder {
	b.description = text
	return b
}

// Node returns a fresh *geminischema.Object snapshot of the builder.
func (b *ObjectBuilder) Node() gs.Node {
	return &gs.Object{
		Fields:      append([]gs.Field(nil), b.fields...),
		Description: b.description,
	}
}

// Schema snapshots the builder into a Schema for further chaining.
func (b *ObjectBuilder) Schema() Schema { return Schema{n: b.Node()} }

// Optional is shorthand for Schema().Optional().
func (b *ObjectBuilder) Optional() Schema { return b.Schema().Optional() }

// Nullable is shorthand for Schema().Nullable().
func (b *ObjectBuilder) Nullable() Schema { return b.Schema().Nullable() }

// Array is shorthand for Schema().Array().
func (b *ObjectBuilder) Array() Schema { return b.Schema().Array() }

// Encode lowers the object schema into the function-calling dialect.
func (b *ObjectBuilder) Encode() (*gs.Schema, error) { return gs.Encode(b.Node()) }

// MustEncode is Encode that panics on error.
func (b *ObjectBuilder) MustEncode() *gs.Schema { return gs.MustEncode(b.Node()) }
