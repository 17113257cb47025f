package geminischema

import "fmt"

// Kind identifies a source schema node variant.
type Kind int

const (
	KindPrimitive Kind = iota
	KindArray
	KindObject
	KindOptional
	KindNullable
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindOptional:
		return "optional"
	case KindNullable:
		return "nullable"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// PrimitiveType enumerates leaf value types.
type PrimitiveType int

const (
	Number PrimitiveType = iota
	String
	Boolean
)

func (p PrimitiveType) String() string {
	switch p {
	case Number:
		return "number"
	case String:
		return "string"
	case Boolean:
		return "boolean"
	default:
		return fmt.Sprintf("primitive(%d)", int(p))
	}
}

// Node is a source schema node. The encoder understands the five variants
// declared in this file; any other implementation is rejected with
// UnsupportedSchemaTypeError.
type Node interface {
	Kind() Kind
}

// Primitive is a number, string or boolean leaf.
type Primitive struct {
	Type        PrimitiveType
	Description string
}

func (*Primitive) Kind() Kind { return KindPrimitive }

// Array describes a homogeneous sequence.
type Array struct {
	Element     Node
	Description string
}

func (*Array) Kind() Kind { return KindArray }

// Field is a named object property. Field order in Object.Fields is the
// property order of the encoded schema.
type Field struct {
	Name   string
	Schema Node
}

// Object describes a keyed record.
type Object struct {
	Fields      []Field
	Description string
}

func (*Object) Kind() Kind { return KindObject }

// Field returns the schema of the named field, or nil.
func (o *Object) Field(name string) Node {
	for _, f := range o.Fields {
		if f.Name == name {
			return f.Schema
		}
	}
	return nil
}

// Optional marks the enclosing property as omissible.
type Optional struct {
	Inner Node
}

func (*Optional) Kind() Kind { return KindOptional }

// Nullable permits null in addition to the inner schema's values.
type Nullable struct {
	Inner Node
}

func (*Nullable) Kind() Kind { return KindNullable }

// Unwrap strips every Optional and Nullable layer from n and reports which
// annotations were seen. Nesting order does not matter.
func Unwrap(n Node) (base Node, optional, nullable bool) {
	for {
		switch t := n.(type) {
		case *Optional:
			optional = true
			n = t.Inner
		case *Nullable:
			nullable = true
			n = t.Inner
		default:
			return n, optional, nullable
		}
	}
}

// describeNode renders a node for error messages.
func describeNode(n Node) string {
	if n == nil {
		return "<nil>"
	}
	switch n.(type) {
	case *Primitive, *Array, *Object, *Optional, *Nullable:
		return n.Kind().String()
	}
	return fmt.Sprintf("%T", n)
}
