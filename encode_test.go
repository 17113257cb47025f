package geminischema_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	gs "github.com/reoring/geminischema"
)

// normalize marshals v to JSON and unmarshals back into interface{} to remove ordering effects.
func normalize(t *testing.T, v any) any {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func assertWire(t *testing.T, s *gs.Schema, want map[string]any) {
	t.Helper()
	got := normalize(t, s)
	if !reflect.DeepEqual(got, normalize(t, want)) {
		g, _ := json.MarshalIndent(got, "", "  ")
		w, _ := json.MarshalIndent(want, "", "  ")
		t.Fatalf("schema mismatch\n got=%s\nwant=%s", g, w)
	}
}

var (
	str  = func() gs.Node { return &gs.Primitive{Type: gs.String} }
	num  = func() gs.Node { return &gs.Primitive{Type: gs.Number} }
	boo  = func() gs.Node { return &gs.Primitive{Type: gs.Boolean} }
	opt  = func(n gs.Node) gs.Node { return &gs.Optional{Inner: n} }
	null = func(n gs.Node) gs.Node { return &gs.Nullable{Inner: n} }
	arr  = func(n gs.Node) gs.Node { return &gs.Array{Element: n} }
)

func obj(fields ...gs.Field) *gs.Object { return &gs.Object{Fields: fields} }

func TestEncode_SimpleObject(t *testing.T) {
	foo := obj(
		gs.Field{Name: "a", Schema: opt(str())},
		gs.Field{Name: "bar", Schema: obj(gs.Field{Name: "baz", Schema: null(boo())})},
	)
	foo.Description = "foo"
	s, err := gs.Encode(obj(gs.Field{Name: "foo", Schema: foo}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	assertWire(t, s, map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"foo": map[string]any{
				"type":        "OBJECT",
				"description": "foo",
				"properties": map[string]any{
					"a": map[string]any{"type": "STRING", "properties": map[string]any{}},
					"bar": map[string]any{
						"type": "OBJECT",
						"properties": map[string]any{
							"baz": map[string]any{"type": "BOOLEAN", "properties": map[string]any{}, "nullable": true},
						},
						"required": []any{"baz"},
					},
				},
				"required": []any{"bar"},
			},
		},
		"required": []any{"foo"},
	})
}

func TestEncode_NonObjectRoot(t *testing.T) {
	inner := obj(gs.Field{Name: "a", Schema: str()}, gs.Field{Name: "b", Schema: str()})
	s, err := gs.Encode(arr(obj(gs.Field{Name: "foo", Schema: opt(null(inner))})))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	assertWire(t, s, map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			gs.WrapKey: map[string]any{
				"type": "ARRAY",
				"items": map[string]any{
					"type": "OBJECT",
					"properties": map[string]any{
						"foo": map[string]any{
							"type": "OBJECT",
							"properties": map[string]any{
								"a": map[string]any{"type": "STRING", "properties": map[string]any{}},
								"b": map[string]any{"type": "STRING", "properties": map[string]any{}},
							},
							"required": []any{"a", "b"},
							"nullable": true,
						},
					},
					"required": []any{},
				},
			},
		},
		"required": []any{gs.WrapKey},
	})
}

func TestEncode_OptionalRootDoubleWrap(t *testing.T) {
	s, err := gs.Encode(opt(&gs.Primitive{Type: gs.Number, Description: "a number"}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	assertWire(t, s, map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			gs.WrapKey: map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					gs.WrapKey: map[string]any{"type": "NUMBER", "description": "a number", "properties": map[string]any{}},
				},
				"required": []any{gs.WrapKey},
			},
		},
	})
	if s.Required != nil {
		t.Fatalf("outer wrapper must not list required, got %v", s.Required)
	}
}

func TestEncode_PeopleScenario(t *testing.T) {
	person := obj(
		gs.Field{Name: "name", Schema: str()},
		gs.Field{Name: "age", Schema: opt(null(num()))},
	)
	s, err := gs.Encode(arr(person))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !s.IsWrapper() || !s.IsRequired(gs.WrapKey) {
		t.Fatalf("root must be a required wrapper: %+v", s)
	}
	items := s.Properties.Get(gs.WrapKey).Items
	if items.Type != gs.TypeObject {
		t.Fatalf("items type = %s", items.Type)
	}
	if got := items.Properties.Names(); !reflect.DeepEqual(got, []string{"name", "age"}) {
		t.Fatalf("property order = %v", got)
	}
	if !reflect.DeepEqual(items.Required, []string{"name"}) {
		t.Fatalf("required = %v", items.Required)
	}
	age := items.Properties.Get("age")
	if age.Type != gs.TypeNumber || !age.Nullable {
		t.Fatalf("age = %+v", age)
	}
}

func TestEncode_RootWrapping(t *testing.T) {
	cases := map[string]gs.Node{
		"array":          arr(str()),
		"nullable":       null(str()),
		"nullable array": null(arr(num())),
		"nullable obj":   null(obj()),
	}
	for name, n := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := gs.Encode(n)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if s.Type != gs.TypeObject || !s.IsWrapper() {
				t.Fatalf("expected wrapper object, got %+v", s)
			}
			if !reflect.DeepEqual(s.Required, []string{gs.WrapKey}) {
				t.Fatalf("required = %v", s.Required)
			}
		})
	}

	s, err := gs.Encode(obj(gs.Field{Name: "x", Schema: num()}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if s.IsWrapper() || s.Properties.Get(gs.WrapKey) != nil {
		t.Fatalf("object root must not be wrapped: %+v", s)
	}
}

func TestEncode_PrimitiveRootIsBare(t *testing.T) {
	s, err := gs.Encode(&gs.Primitive{Type: gs.String, Description: "d"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	assertWire(t, s, map[string]any{"type": "STRING", "description": "d", "properties": map[string]any{}})
}

func TestEncode_ArrayElements(t *testing.T) {
	// array of arrays: the inner array sits at a root-like position.
	s, err := gs.Encode(obj(gs.Field{Name: "grid", Schema: arr(arr(num()))}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	grid := s.Properties.Get("grid")
	if grid.Type != gs.TypeArray || !grid.Items.IsWrapper() {
		t.Fatalf("grid items must be wrapped: %+v", grid.Items)
	}
	if inner := grid.Items.Properties.Get(gs.WrapKey); inner.Type != gs.TypeArray || inner.Items.Type != gs.TypeNumber {
		t.Fatalf("inner = %+v", inner)
	}

	// array of nullables: wrapped element carrying the flag.
	s, err = gs.Encode(obj(gs.Field{Name: "xs", Schema: arr(null(str()))}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	elem := s.Properties.Get("xs").Items
	if !elem.IsWrapper() || !elem.Properties.Get(gs.WrapKey).Nullable {
		t.Fatalf("elem = %+v", elem)
	}

	// optional element: accepted, no effect.
	s, err = gs.Encode(obj(gs.Field{Name: "xs", Schema: arr(opt(str()))}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if it := s.Properties.Get("xs").Items; it.Type != gs.TypeString || it.IsWrapper() {
		t.Fatalf("items = %+v", it)
	}
	if !s.IsRequired("xs") {
		t.Fatalf("xs must stay required")
	}
}

func TestEncode_OptionalNullableOrderIndependent(t *testing.T) {
	a, err := gs.Encode(obj(gs.Field{Name: "v", Schema: opt(null(num()))}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b, err := gs.Encode(obj(gs.Field{Name: "v", Schema: null(opt(num()))}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("orders differ:\n%+v\n%+v", a, b)
	}
	if a.IsRequired("v") || !a.Properties.Get("v").Nullable {
		t.Fatalf("v must be optional and nullable: %+v", a)
	}

	// at the root both orders double wrap a nullable wrapper.
	ra, err := gs.Encode(opt(null(num())))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	rb, err := gs.Encode(null(opt(num())))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !reflect.DeepEqual(ra, rb) {
		t.Fatalf("root orders differ:\n%+v\n%+v", ra, rb)
	}
	inner := ra.Properties.Get(gs.WrapKey).Properties.Get(gs.WrapKey)
	if !inner.IsWrapper() || !inner.Properties.Get(gs.WrapKey).Nullable {
		t.Fatalf("inner = %+v", inner)
	}
}

func TestEncode_NullableKeepsRequired(t *testing.T) {
	s, err := gs.Encode(obj(
		gs.Field{Name: "a", Schema: null(num())},
		gs.Field{Name: "b", Schema: opt(num())},
		gs.Field{Name: "c", Schema: null(null(str()))},
	))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !reflect.DeepEqual(s.Required, []string{"a", "c"}) {
		t.Fatalf("required = %v", s.Required)
	}
}

type enumNode struct{ values []string }

func (enumNode) Kind() gs.Kind { return gs.Kind(99) }

func TestEncode_UnsupportedSchemaType(t *testing.T) {
	cases := map[string]gs.Node{
		"foreign root":        enumNode{},
		"foreign property":    obj(gs.Field{Name: "e", Schema: enumNode{}}),
		"nil root":            nil,
		"nil element":         arr(nil),
		"typed nil":           (*gs.Object)(nil),
		"bad primitive":       &gs.Primitive{Type: gs.PrimitiveType(7)},
		"nested in nullable":  null(enumNode{}),
		"deep under optional": obj(gs.Field{Name: "x", Schema: opt(arr(obj(gs.Field{Name: "y", Schema: enumNode{}})))}),
	}
	for name, n := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := gs.Encode(n)
			if err == nil {
				t.Fatalf("expected error, got %+v", s)
			}
			if s != nil {
				t.Fatalf("no partial schema expected")
			}
			if !errors.Is(err, gs.ErrUnsupportedSchemaType) {
				t.Fatalf("expected ErrUnsupportedSchemaType, got %v", err)
			}
		})
	}
}

func TestEncode_UnsupportedSchemaTypePath(t *testing.T) {
	_, err := gs.Encode(obj(gs.Field{Name: "x/y", Schema: arr(obj(gs.Field{Name: "z", Schema: enumNode{}}))}))
	var ue *gs.UnsupportedSchemaTypeError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UnsupportedSchemaTypeError, got %T", err)
	}
	if want := "/properties/x~1y/items/properties/z"; ue.Path != want {
		t.Fatalf("path = %q, want %q", ue.Path, want)
	}
	iss, ok := gs.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != gs.CodeUnsupportedType {
		t.Fatalf("issues = %v", iss)
	}
}

func TestEncode_RejectWrapKey(t *testing.T) {
	n := obj(gs.Field{Name: gs.WrapKey, Schema: num()})
	if _, err := gs.Encode(n); err != nil {
		t.Fatalf("default encode must not check the wrap key: %v", err)
	}
	_, err := gs.EncodeWith(arr(n), gs.EncodeOpt{RejectWrapKey: true})
	if !errors.Is(err, gs.ErrWrapKeyCollision) {
		t.Fatalf("expected ErrWrapKeyCollision, got %v", err)
	}
	var ce *gs.WrapKeyCollisionError
	if !errors.As(err, &ce) || ce.Path != "/items/properties/"+gs.WrapKey {
		t.Fatalf("collision error = %#v", err)
	}
}

func TestEncode_FreshTrees(t *testing.T) {
	shared := num()
	s, err := gs.Encode(obj(gs.Field{Name: "a", Schema: shared}, gs.Field{Name: "b", Schema: null(shared)}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if s.Properties.Get("a") == s.Properties.Get("b") {
		t.Fatalf("target nodes must not be shared")
	}
	if s.Properties.Get("a").Nullable {
		t.Fatalf("nullable leaked into sibling")
	}
}

func TestMustEncode_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	gs.MustEncode(enumNode{})
}

func TestUnwrap(t *testing.T) {
	base, o, n := gs.Unwrap(null(opt(null(str()))))
	if !o || !n {
		t.Fatalf("optional=%v nullable=%v", o, n)
	}
	if p, ok := base.(*gs.Primitive); !ok || p.Type != gs.String {
		t.Fatalf("base = %#v", base)
	}
}
