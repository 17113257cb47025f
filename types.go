package geminischema

// WrapKey is the reserved property name of synthetic wrapper objects. Source
// object schemas must not declare a field with this name; see
// EncodeOpt.RejectWrapKey.
const WrapKey = "__value__"

// EncodeOpt bundles encoder options.
type EncodeOpt struct {
	// RejectWrapKey fails the conversion with WrapKeyCollisionError when an
	// object declares a field named WrapKey. Such a field would be
	// indistinguishable from a wrapper when it is the only key of a value.
	RejectWrapKey bool
}

// NumberMode dictates how numbers in sink output are represented.
type NumberMode int

const (
	NumberFloat64    NumberMode = iota // float64 (with potential precision loss).
	NumberJSONNumber                   // Preserve json.Number text.
)

// ParseNumberMode maps "float64" and "json-number" to a NumberMode.
func ParseNumberMode(s string) (NumberMode, bool) {
	switch s {
	case "", "float64":
		return NumberFloat64, true
	case "json-number", "jsonnumber", "number":
		return NumberJSONNumber, true
	}
	return NumberFloat64, false
}

// DecodeOpt bundles options for DecodeJSON.
type DecodeOpt struct {
	NumberMode NumberMode
}
