package geminischema

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/reoring/geminischema/internal/wire"
)

// Type is the wire type name of a target schema node.
type Type string

const (
	TypeObject  Type = "OBJECT"
	TypeArray   Type = "ARRAY"
	TypeNumber  Type = "NUMBER"
	TypeString  Type = "STRING"
	TypeBoolean Type = "BOOLEAN"
)

// IsPrimitive reports whether t is a leaf type.
func (t Type) IsPrimitive() bool {
	return t == TypeNumber || t == TypeString || t == TypeBoolean
}

// Schema is a node of the function-calling schema dialect. Which fields are
// meaningful depends on Type: Properties/Required for OBJECT, Items for ARRAY.
// Nullable may be set on any node.
//
// Required distinguishes nil (no "required" key on the wire) from an empty
// slice ("required": []).
type Schema struct {
	Type        Type
	Description string
	Properties  Properties
	Items       *Schema
	Required    []string
	Nullable    bool
}

// Property is one named entry of an object schema.
type Property struct {
	Name   string
	Schema *Schema
}

// Properties keeps object properties in declaration order.
type Properties []Property

// Get returns the schema registered under name, or nil.
func (p Properties) Get(name string) *Schema {
	for _, e := range p {
		if e.Name == name {
			return e.Schema
		}
	}
	return nil
}

// Names returns property names in order.
func (p Properties) Names() []string {
	out := make([]string, len(p))
	for i, e := range p {
		out[i] = e.Name
	}
	return out
}

// Len returns the number of properties.
func (p Properties) Len() int { return len(p) }

// IsRequired reports whether name is listed in Required.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// IsWrapper reports whether s is a synthetic object whose only property is
// WrapKey.
func (s *Schema) IsWrapper() bool {
	return s != nil && s.Type == TypeObject && len(s.Properties) == 1 && s.Properties[0].Name == WrapKey
}

// wireSchema fixes the key order of the wire form.
type wireSchema struct {
	Type        Type                                     `json:"type"`
	Description string                                   `json:"description,omitempty"`
	Properties  *orderedmap.OrderedMap[string, *Schema] `json:"properties,omitempty"`
	Items       *Schema                                  `json:"items,omitempty"`
	Required    *[]string                                `json:"required,omitempty"`
	Nullable    bool                                     `json:"nullable,omitempty"`
}

// MarshalJSON renders the wire form. OBJECT and primitive nodes always carry
// a "properties" object, possibly empty; the consuming API expects the key on
// every non-array node. The value receiver keeps the wire form for both
// Schema and *Schema.
func (s Schema) MarshalJSON() ([]byte, error) {
	w := wireSchema{
		Type:        s.Type,
		Description: s.Description,
		Items:       s.Items,
		Nullable:    s.Nullable,
	}
	if s.Type != TypeArray {
		om := orderedmap.New[string, *Schema](len(s.Properties))
		for _, p := range s.Properties {
			om.Set(p.Name, p.Schema)
		}
		w.Properties = om
	}
	if s.Required != nil {
		req := s.Required
		w.Required = &req
	}
	return wire.Marshal(w)
}

// UnmarshalJSON reads the wire form back, keeping property order.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var w wireSchema
	if err := wire.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("geminischema: decoding schema: %w", err)
	}
	out := Schema{
		Type:        w.Type,
		Description: w.Description,
		Items:       w.Items,
		Nullable:    w.Nullable,
	}
	if w.Properties != nil && (w.Properties.Len() > 0 || w.Type == TypeObject) {
		out.Properties = make(Properties, 0, w.Properties.Len())
		for pair := w.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out.Properties = append(out.Properties, Property{Name: pair.Key, Schema: pair.Value})
		}
	}
	if w.Required != nil {
		out.Required = append([]string{}, (*w.Required)...)
	}
	*s = out
	return nil
}
