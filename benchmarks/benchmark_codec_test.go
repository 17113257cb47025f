package geminischema_test

import (
	"bytes"
	"strconv"
	"testing"

	gs "github.com/reoring/geminischema"
	g "github.com/reoring/geminischema/dsl"
)

// Micro: the famous people schema
func peopleSchema() g.Schema {
	return g.Object().
		Field("name", g.String().Describe("the name of a famous person.")).
		Field("age", g.Number().Nullable().Optional()).
		Array().
		Describe("a list of famous people, maximum 3.")
}

func Benchmark_Encode_Small(b *testing.B) {
	n := peopleSchema().Node()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gs.Encode(n); err != nil {
			b.Fatal(err)
		}
	}
}

// Macro: a wide and deep object
func wideSchema(width, depth int) gs.Node {
	if depth == 0 {
		return g.Number().Nullable().Node()
	}
	o := g.Object()
	for i := 0; i < width; i++ {
		o.Field("f"+strconv.Itoa(i), g.Of(wideSchema(width, depth-1)).Array())
	}
	return o.Node()
}

func Benchmark_Encode_Wide(b *testing.B) {
	n := wideSchema(8, 4)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gs.Encode(n); err != nil {
			b.Fatal(err)
		}
	}
}

func hugeWrapped(n int) []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"__value__":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"name":"p`)
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`","age":{"__value__":`)
		buf.WriteString(strconv.Itoa(i % 90))
		buf.WriteString(`}}`)
	}
	buf.WriteString(`]}`)
	return buf.Bytes()
}

func Benchmark_DecodeJSON_Huge_Float64(b *testing.B) {
	data := hugeWrapped(10000)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gs.DecodeJSON(data, gs.DecodeOpt{NumberMode: gs.NumberFloat64}); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_DecodeJSON_Huge_JSONNumber(b *testing.B) {
	data := hugeWrapped(10000)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gs.DecodeJSON(data, gs.DecodeOpt{NumberMode: gs.NumberJSONNumber}); err != nil {
			b.Fatal(err)
		}
	}
}
