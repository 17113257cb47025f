package geminischema

// Package geminischema provides:
//
// - A source schema model (Primitive/Array/Object/Optional/Nullable) with a builder DSL under dsl/
// - Encode: lowering of a source schema into the function-calling schema dialect, inserting
//   wrapper objects keyed by WrapKey where the dialect cannot express the construct directly
// - Decode: the structural inverse applied to values produced against an encoded schema
// - Importers for JSON Schema documents, Go types, and JSON/JSONC/YAML files under importer/
//
// Dialect rules the encoder works around:
// - The root of every schema must be an OBJECT.
// - Nullability is a flag on a node, not a wrapper type.
// - A bare array or a bare nullable can only appear as a named property.
//
// Wrapping rules:
// - A root-like position (schema root, array element) holding an array or nullable is
//   wrapped as {WrapKey: X} with WrapKey required.
// - An optional root is double wrapped: {WrapKey?: {WrapKey: X}}.
//
// Typical usage:
//
//  s, err := geminischema.Encode(node)
//  // hand s to the function-calling API, receive args
//  v, err := geminischema.DecodeJSON(args, geminischema.DecodeOpt{})
//
