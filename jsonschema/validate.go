package jsonschema

import (
	"bytes"
	"fmt"

	j "github.com/goccy/go-json"
	sv "github.com/santhosh-tekuri/jsonschema/v6"

	gs "github.com/reoring/geminischema"
)

const resourceURL = "schema.json"

// Validator checks sink output against an encoded schema before it is
// decoded. It is safe for concurrent use.
type Validator struct {
	compiled *sv.Schema
}

// Compile builds a Validator for an encoded schema.
func Compile(s *gs.Schema) (*Validator, error) {
	raw, err := j.Marshal(FromTarget(s))
	if err != nil {
		return nil, fmt.Errorf("jsonschema: marshal schema: %w", err)
	}
	doc, err := sv.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("jsonschema: unmarshal schema: %w", err)
	}
	c := sv.NewCompiler()
	if err := c.AddResource(resourceURL, doc); err != nil {
		return nil, fmt.Errorf("jsonschema: add schema resource: %w", err)
	}
	compiled, err := c.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: compile schema: %w", err)
	}
	return &Validator{compiled: compiled}, nil
}

// ValidateJSON validates raw sink output.
func (v *Validator) ValidateJSON(data []byte) error {
	inst, err := sv.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("jsonschema: unmarshal value: %w", err)
	}
	return v.compiled.Validate(inst)
}

// Validate validates an already parsed value. The value is re-encoded so that
// numbers reach the validator in its own representation.
func (v *Validator) Validate(value any) error {
	raw, err := j.Marshal(value)
	if err != nil {
		return fmt.Errorf("jsonschema: marshal value: %w", err)
	}
	return v.ValidateJSON(raw)
}

// Validate is a one-shot Compile followed by Validate.
func Validate(s *gs.Schema, value any) error {
	v, err := Compile(s)
	if err != nil {
		return err
	}
	return v.Validate(value)
}
