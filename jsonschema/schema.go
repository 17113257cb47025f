package jsonschema

import (
	"strings"

	j "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	gs "github.com/reoring/geminischema"
)

// Schema is a minimal JSON Schema representation of an encoded schema.
// It covers exactly what the function-calling dialect can express.
type Schema struct {
	// Core
	Type        TypeList `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`

	// Object
	Properties *orderedmap.OrderedMap[string, *Schema] `json:"properties,omitempty"`
	Required   []string                                `json:"required,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`
}

// TypeList renders as a single string when it holds one entry and as an array
// otherwise ("type": ["number", "null"]).
type TypeList []string

func (t TypeList) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return j.Marshal(t[0])
	}
	return j.Marshal([]string(t))
}

func (t *TypeList) UnmarshalJSON(data []byte) error {
	var one string
	if err := j.Unmarshal(data, &one); err == nil {
		*t = TypeList{one}
		return nil
	}
	var many []string
	if err := j.Unmarshal(data, &many); err != nil {
		return err
	}
	*t = many
	return nil
}

// Has reports whether name is one of the listed types.
func (t TypeList) Has(name string) bool {
	for _, s := range t {
		if s == name {
			return true
		}
	}
	return false
}

// FromTarget projects an encoded schema into JSON Schema. Nullable nodes gain a
// "null" type; every other keyword maps one to one.
func FromTarget(s *gs.Schema) *Schema {
	if s == nil {
		return nil
	}
	out := &Schema{
		Type:        TypeList{strings.ToLower(string(s.Type))},
		Description: s.Description,
	}
	if s.Nullable {
		out.Type = append(out.Type, "null")
	}
	switch s.Type {
	case gs.TypeObject:
		if len(s.Properties) > 0 {
			out.Properties = orderedmap.New[string, *Schema](len(s.Properties))
			for _, p := range s.Properties {
				out.Properties.Set(p.Name, FromTarget(p.Schema))
			}
		}
		if len(s.Required) > 0 {
			out.Required = append([]string(nil), s.Required...)
		}
	case gs.TypeArray:
		out.Items = FromTarget(s.Items)
	}
	return out
}
