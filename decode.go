package geminischema

import (
	"fmt"

	"github.com/reoring/geminischema/internal/wire"
)

// Decode strips every wrapper object Encode could have introduced from a value
// produced against an encoded schema. It works from shape alone: a map whose
// only key is WrapKey collapses into its (decoded) payload; every other map
// keeps its keys and has its values decoded. Slices are decoded element-wise.
//
// Containers are modified in place; callers must not keep aliases to
// sub-trees expecting them to stay untouched.
func Decode(v any) any {
	switch t := v.(type) {
	case []any:
		for i := range t {
			t[i] = Decode(t[i])
		}
		return t
	case map[string]any:
		if len(t) == 1 {
			if inner, ok := t[WrapKey]; ok {
				return Decode(inner)
			}
		}
		for k, vv := range t {
			t[k] = Decode(vv)
		}
		return t
	default:
		return v
	}
}

// DecodeJSON parses sink output and decodes it. Malformed input yields a
// *ParseError.
func DecodeJSON(data []byte, opt DecodeOpt) (any, error) {
	v, err := wire.Decode(data, opt.NumberMode == NumberJSONNumber)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return Decode(v), nil
}

// DecodeInto parses sink output, decodes it and binds the result into dst
// through the usual JSON struct tags.
func DecodeInto(data []byte, dst any) error {
	v, err := DecodeJSON(data, DecodeOpt{NumberMode: NumberJSONNumber})
	if err != nil {
		return err
	}
	b, err := wire.Marshal(v)
	if err != nil {
		return fmt.Errorf("geminischema: re-encoding value: %w", err)
	}
	if err := wire.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("geminischema: binding value: %w", err)
	}
	return nil
}
