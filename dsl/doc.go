// Package dsl provides a fluent builder API for geminischema source schemas.
//
// Overview
//   - Primitives: String()/Number()/Bool() create leaf schemas.
//   - Array(elem) or elem.Array() create array schemas.
//   - Object().Field(name, s)... creates object schemas; field order is preserved.
//   - Optional()/Nullable() wrap any schema, in any order.
//   - Describe(text) attaches a description to the underlying base schema,
//     including when called after Optional()/Nullable().
//
// Schema values are immutable: Optional, Nullable, Array and Describe return
// fresh values. ObjectBuilder is mutable; Field and Describe modify and return
// the receiver, and Node/Schema take a snapshot of it.
//
// Quickstart
//
//	people := dsl.Object().
//		Field("name", dsl.String().Describe("the name of a famous person.")).
//		Field("age", dsl.Number().Nullable()).
//		Schema().
//		Array().
//		Describe("a list of famous people, maximum 3.")
//
//	encoded, err := people.Encode()
package dsl
