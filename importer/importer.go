package importer

import (
	"errors"
	"strings"

	js "github.com/invopop/jsonschema"

	gs "github.com/reoring/geminischema"
	"github.com/reoring/geminischema/i18n"
)

// FromJSONSchema converts a JSON Schema document into a source schema.
//
// Supported subset: string/number/integer/boolean leaves, arrays with
// "items", objects with "properties" and "required", local "$ref" into
// "$defs"/"definitions", and nullability expressed as anyOf/oneOf with a
// {"type": "null"} branch. Every other construct is reported as an Issue; all
// issues are collected before returning.
func FromJSONSchema(s *js.Schema, opts Options) (gs.Node, Diag, error) {
	return fromJSONSchema(s, opts, nil)
}

func fromJSONSchema(s *js.Schema, opts Options, marks *typeMarks) (gs.Node, Diag, error) {
	d := &simpleDiag{}
	if s == nil {
		return nil, d, errors.New("importer: nil schema")
	}
	c := &converter{opts: opts, diag: d, root: s, marks: marks, resolving: map[string]bool{}}
	n := c.node(s, "/")
	if len(c.issues) > 0 {
		return nil, d, c.issues
	}
	return n, d, nil
}

// Reflect builds a source schema from a Go value's type using struct tags:
// fields tagged omitempty become optional, descriptions come from the
// jsonschema tag.
func Reflect(v any, opts Options) (gs.Node, Diag, error) {
	r := &js.Reflector{
		ExpandedStruct: true,
		DoNotReference: false,
	}
	return FromJSONSchema(r.Reflect(v), opts)
}

type converter struct {
	opts      Options
	diag      *simpleDiag
	root      *js.Schema
	marks     *typeMarks
	issues    gs.Issues
	resolving map[string]bool
}

func (c *converter) issue(path, code, reason string) {
	data := map[string]string{"reason": reason, "type": reason}
	c.issues = append(c.issues, gs.Issue{Path: path, Code: code, Message: i18n.T(code, data)})
}

func (c *converter) node(s *js.Schema, path string) gs.Node {
	if s == nil {
		c.issue(path, gs.CodeInvalidSchema, "missing schema")
		return nil
	}
	if s.Ref != "" {
		return c.ref(s, path)
	}
	if inner, ok := nullableBranch(s); ok {
		n := c.node(inner, path)
		if n == nil {
			return nil
		}
		if s.Description != "" {
			n = describeBase(n, s.Description)
		}
		return &gs.Nullable{Inner: n}
	}
	if len(s.AllOf) > 0 || len(s.AnyOf) > 0 || len(s.OneOf) > 0 {
		return c.unsupported(s, path, "composition keyword")
	}
	if types, ok := c.marks.union(s); ok {
		return c.unsupported(s, path, "type union "+strings.Join(types, "|"))
	}
	if c.marks.isNullable(s) {
		n := c.typed(s, path)
		if n == nil {
			return nil
		}
		return &gs.Nullable{Inner: n}
	}
	return c.typed(s, path)
}

// typed converts a schema by its (single) type keyword.
func (c *converter) typed(s *js.Schema, path string) gs.Node {
	desc := s.Description
	if desc == "" {
		desc = s.Title
	}
	switch t := schemaType(s); t {
	case "string":
		return &gs.Primitive{Type: gs.String, Description: desc}
	case "number", "integer":
		return &gs.Primitive{Type: gs.Number, Description: desc}
	case "boolean":
		return &gs.Primitive{Type: gs.Boolean, Description: desc}
	case "array":
		if s.Items == nil {
			if len(s.PrefixItems) > 0 {
				return c.unsupported(s, path, "tuple array")
			}
			c.issue(path, gs.CodeInvalidSchema, "array without items")
			return nil
		}
		elem := c.node(s.Items, joinPath(path, "items"))
		if elem == nil {
			return nil
		}
		return &gs.Array{Element: elem, Description: desc}
	case "object":
		if s.Properties == nil && (s.AdditionalProperties != nil || len(s.PatternProperties) > 0) {
			return c.unsupported(s, path, "map with dynamic keys")
		}
		return c.object(s, path, desc)
	case "enum":
		return c.unsupported(s, path, "enum of non-string values")
	case "":
		c.issue(path, gs.CodeInvalidSchema, "missing type")
		return nil
	default:
		return c.unsupported(s, path, "type "+t)
	}
}

func (c *converter) object(s *js.Schema, path, desc string) gs.Node {
	o := &gs.Object{Description: desc}
	if s.Properties == nil {
		return o
	}
	required := make(map[string]bool, len(s.Required))
	for _, r := range s.Required {
		required[r] = true
	}
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		fn := c.node(pair.Value, joinPath(path, "properties", pair.Key))
		if fn == nil {
			continue
		}
		if !c.opts.RequireAll && !required[pair.Key] {
			fn = &gs.Optional{Inner: fn}
		}
		o.Fields = append(o.Fields, gs.Field{Name: pair.Key, Schema: fn})
	}
	return o
}

func (c *converter) ref(s *js.Schema, path string) gs.Node {
	name, ok := localDefName(s.Ref)
	if !ok {
		c.issue(path, gs.CodeUnsupportedType, "$ref "+s.Ref)
		return nil
	}
	target := c.root.Definitions[name]
	if target == nil {
		c.issue(path, gs.CodeInvalidSchema, "unresolved $ref "+s.Ref)
		return nil
	}
	if c.resolving[name] {
		c.issue(path, gs.CodeInvalidSchema, "recursive $ref "+s.Ref)
		return nil
	}
	c.resolving[name] = true
	defer delete(c.resolving, name)
	n := c.node(target, path)
	if n != nil && s.Description != "" {
		n = describeBase(n, s.Description)
	}
	return n
}

func (c *converter) unsupported(s *js.Schema, path, what string) gs.Node {
	if c.opts.LenientTypes {
		c.diag.warnf("%s: %s imported as string", path, what)
		return &gs.Primitive{Type: gs.String, Description: s.Description}
	}
	c.issue(path, gs.CodeUnsupportedType, what)
	return nil
}

// schemaType infers the type of a schema that omits the keyword but carries
// shape keywords. An enum without a type reads as "string" when every value
// is a string and as "enum" otherwise.
func schemaType(s *js.Schema) string {
	if s.Type != "" {
		return s.Type
	}
	switch {
	case s.Properties != nil:
		return "object"
	case s.Items != nil:
		return "array"
	case len(s.Enum) > 0:
		if enumOfStrings(s.Enum) {
			return "string"
		}
		return "enum"
	}
	return ""
}

func enumOfStrings(vals []any) bool {
	for _, v := range vals {
		if _, ok := v.(string); !ok {
			return false
		}
	}
	return true
}

// nullableBranch recognizes {"anyOf": [X, {"type": "null"}]} in either order,
// also under oneOf.
func nullableBranch(s *js.Schema) (*js.Schema, bool) {
	for _, alts := range [][]*js.Schema{s.AnyOf, s.OneOf} {
		if len(alts) != 2 {
			continue
		}
		switch {
		case isNull(alts[0]) && !isNull(alts[1]):
			return alts[1], true
		case isNull(alts[1]) && !isNull(alts[0]):
			return alts[0], true
		}
	}
	return nil, false
}

func isNull(s *js.Schema) bool { return s != nil && s.Type == "null" }

func localDefName(ref string) (string, bool) {
	for _, p := range []string{"#/$defs/", "#/definitions/"} {
		if strings.HasPrefix(ref, p) {
			return strings.TrimPrefix(ref, p), true
		}
	}
	return "", false
}

// describeBase sets the description of the node beneath wrapper layers when
// it has none of its own.
func describeBase(n gs.Node, text string) gs.Node {
	switch t := n.(type) {
	case *gs.Optional:
		return &gs.Optional{Inner: describeBase(t.Inner, text)}
	case *gs.Nullable:
		return &gs.Nullable{Inner: describeBase(t.Inner, text)}
	case *gs.Primitive:
		if t.Description == "" {
			t.Description = text
		}
	case *gs.Array:
		if t.Description == "" {
			t.Description = text
		}
	case *gs.Object:
		if t.Description == "" {
			t.Description = text
		}
	}
	return n
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func joinPath(base string, tokens ...string) string {
	if base == "/" {
		base = ""
	}
	for _, t := range tokens {
		base += "/" + pointerEscaper.Replace(t)
	}
	return base
}
