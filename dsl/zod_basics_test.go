package dsl_test

import (
	"reflect"
	"testing"

	gs "github.com/reoring/geminischema"
	g "github.com/reoring/geminischema/dsl"
)

// TestZodBasics_SimpleObject mirrors a nested object with optional and
// nullable leaves.
func TestZodBasics_SimpleObject(t *testing.T) {
	s, err := g.Object().
		Field("foo", g.Object().
			Field("a", g.String().Optional()).
			Field("bar", g.Object().Field("baz", g.Bool().Nullable())).
			Describe("foo")).
		Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !reflect.DeepEqual(s.Required, []string{"foo"}) {
		t.Fatalf("root required = %v", s.Required)
	}
	foo := s.Properties.Get("foo")
	if foo.Description != "foo" || !reflect.DeepEqual(foo.Required, []string{"bar"}) {
		t.Fatalf("foo = %+v", foo)
	}
	baz := foo.Properties.Get("bar").Properties.Get("baz")
	if baz.Type != gs.TypeBoolean || !baz.Nullable {
		t.Fatalf("baz = %+v", baz)
	}
}

// TestZodBasics_FamousPeople builds the people list used in the package docs.
func TestZodBasics_FamousPeople(t *testing.T) {
	people := g.Object().
		Field("name", g.String().Describe("the name of a famous person.")).
		Field("age", g.Number().Nullable().Optional()).
		Array().
		Describe("a list of famous people, maximum 3.")

	s := people.MustEncode()
	if !s.IsWrapper() || !s.IsRequired(gs.WrapKey) {
		t.Fatalf("array root must be wrapped: %+v", s)
	}
	list := s.Properties.Get(gs.WrapKey)
	if list.Type != gs.TypeArray || list.Description != "a list of famous people, maximum 3." {
		t.Fatalf("list = %+v", list)
	}
	if got := list.Items.Properties.Get("name").Description; got != "the name of a famous person." {
		t.Fatalf("name description = %q", got)
	}
	if !reflect.DeepEqual(list.Items.Required, []string{"name"}) {
		t.Fatalf("required = %v", list.Items.Required)
	}
}

// TestZodBasics_OptionalRoot checks that a description given before
// Optional() lands on the number itself.
func TestZodBasics_OptionalRoot(t *testing.T) {
	s, err := g.Number().Describe("a number").Optional().Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if s.Required != nil {
		t.Fatalf("outer wrapper required = %v", s.Required)
	}
	n := s.Properties.Get(gs.WrapKey).Properties.Get(gs.WrapKey)
	if n.Type != gs.TypeNumber || n.Description != "a number" {
		t.Fatalf("inner = %+v", n)
	}
}

func TestDescribe_AfterWrappers(t *testing.T) {
	base := g.String()
	d := base.Optional().Nullable().Describe("late")
	s, err := g.Object().Field("x", d).Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	x := s.Properties.Get("x")
	if x.Description != "late" || !x.Nullable || s.IsRequired("x") {
		t.Fatalf("x = %+v", x)
	}
	// the receiver is untouched
	if p := base.Node().(*gs.Primitive); p.Description != "" {
		t.Fatalf("base mutated: %q", p.Description)
	}
}

func TestObjectBuilder_FieldOrderAndReplace(t *testing.T) {
	b := g.Object().
		Field("b", g.String()).
		Field("a", g.Number()).
		Field("b", g.Bool().Optional())
	s := b.MustEncode()
	if got := s.Properties.Names(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("names = %v", got)
	}
	if s.Properties.Get("b").Type != gs.TypeBoolean || s.IsRequired("b") {
		t.Fatalf("b was not replaced: %+v", s)
	}

	// snapshots do not see later fields
	snap := b.Node().(*gs.Object)
	b.Field("c", g.String())
	if len(snap.Fields) != 2 {
		t.Fatalf("snapshot changed: %d fields", len(snap.Fields))
	}
}

func TestArray_Forms(t *testing.T) {
	a := g.Array(g.Number()).MustEncode()
	bArr := g.Number().Array().MustEncode()
	if !reflect.DeepEqual(a, bArr) {
		t.Fatalf("Array(x) and x.Array() differ")
	}
	nested := g.Array(g.Array(g.String().Nullable())).MustEncode()
	items := nested.Properties.Get(gs.WrapKey).Items
	if !items.IsWrapper() || items.Properties.Get(gs.WrapKey).Items.Properties.Get(gs.WrapKey).Nullable != true {
		t.Fatalf("nested = %+v", items)
	}
}

func TestOf_ForeignNodeFails(t *testing.T) {
	if _, err := g.Array(nil).Encode(); err == nil {
		t.Fatalf("expected error for nil element")
	}
	if _, err := g.Of(nil).Encode(); err == nil {
		t.Fatalf("expected error for nil node")
	}
}

func TestObjectBuilder_MutatesReceiver(t *testing.T) {
	b := g.Object()
	if b.Field("a", g.String()) != b || b.Describe("d") != b {
		t.Fatalf("Field and Describe must return the receiver")
	}
	s := b.Schema()
	b.Field("b", g.Number())
	if n := len(s.Node().(*gs.Object).Fields); n != 1 {
		t.Fatalf("Schema snapshot sees later fields: %d", n)
	}
	opt := s.Optional()
	if _, ok := s.Node().(*gs.Object); !ok {
		t.Fatalf("Optional mutated its receiver")
	}
	if _, ok := opt.Node().(*gs.Optional); !ok {
		t.Fatalf("Optional = %T", opt.Node())
	}
}
