package importer

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"
	js "github.com/invopop/jsonschema"
)

// typeLists records what rewriteTypeLists removed from a document, keyed by
// the JSON Pointer of the schema object that carried the "type" array.
type typeLists struct {
	nullable map[string]bool
	unions   map[string][]string
}

// rewriteTypeLists replaces every "type": [...] keyword with the single
// string form the invopop model can hold. ["T", "null"] becomes "T" plus a
// nullable mark; lists with zero or several non-null types are dropped and
// recorded as unions. Key order is preserved.
func rewriteTypeLists(data []byte) ([]byte, *typeLists, error) {
	tl := &typeLists{nullable: map[string]bool{}, unions: map[string][]string{}}
	if !j.Valid(data) {
		// The caller's unmarshal reports the syntax error.
		return data, tl, nil
	}
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	if err := tl.copyValue(dec, &buf, tok, ""); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), tl, nil
}

func (tl *typeLists) copyValue(dec *j.Decoder, buf *bytes.Buffer, tok j.Token, ptr string) error {
	switch t := tok.(type) {
	case j.Delim:
		switch t {
		case '{':
			return tl.copyObject(dec, buf, ptr)
		case '[':
			buf.WriteByte('[')
			for i := 0; ; i++ {
				next, err := dec.Token()
				if err != nil {
					return err
				}
				if next == j.Delim(']') {
					buf.WriteByte(']')
					return nil
				}
				if i > 0 {
					buf.WriteByte(',')
				}
				if err := tl.copyValue(dec, buf, next, joinPath(ptr, strconv.Itoa(i))); err != nil {
					return err
				}
			}
		}
		return fmt.Errorf("unexpected delimiter %v at %s", t, ptr)
	default:
		b, err := j.Marshal(t)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}

func (tl *typeLists) copyObject(dec *j.Decoder, buf *bytes.Buffer, ptr string) error {
	buf.WriteByte('{')
	wrote := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if tok == j.Delim('}') {
			buf.WriteByte('}')
			return nil
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v at %s", tok, ptr)
		}
		val, err := dec.Token()
		if err != nil {
			return err
		}
		if key == "type" && val == j.Delim('[') {
			single, err := tl.collapse(dec, ptr)
			if err != nil {
				return err
			}
			if single == "" {
				continue
			}
			val = single
		}
		if wrote {
			buf.WriteByte(',')
		}
		wrote = true
		kb, err := j.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		if err := tl.copyValue(dec, buf, val, joinPath(ptr, key)); err != nil {
			return err
		}
	}
}

// collapse consumes a type array and returns its single non-null entry, or
// "" when the list has to be reported as a union.
func (tl *typeLists) collapse(dec *j.Decoder, ptr string) (string, error) {
	var types []string
	null := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		if tok == j.Delim(']') {
			break
		}
		name, ok := tok.(string)
		if !ok {
			return "", fmt.Errorf("type list at %s holds %v", ptr, tok)
		}
		if name == "null" {
			null = true
			continue
		}
		types = append(types, name)
	}
	if len(types) == 1 {
		if null {
			tl.nullable[ptr] = true
		}
		return types[0], nil
	}
	if null {
		types = append(types, "null")
	}
	tl.unions[ptr] = types
	return "", nil
}

// marks resolves the recorded pointers against the unmarshaled document.
func (tl *typeLists) marks(root *js.Schema) *typeMarks {
	m := &typeMarks{nullable: map[*js.Schema]bool{}, unions: map[*js.Schema][]string{}}
	for ptr := range tl.nullable {
		if s := schemaAt(root, ptr); s != nil {
			m.nullable[s] = true
		}
	}
	for ptr, types := range tl.unions {
		if s := schemaAt(root, ptr); s != nil {
			m.unions[s] = types
		}
	}
	return m
}

// typeMarks is what the converter consults for schemas whose "type" was a list.
type typeMarks struct {
	nullable map[*js.Schema]bool
	unions   map[*js.Schema][]string
}

func (m *typeMarks) isNullable(s *js.Schema) bool { return m != nil && m.nullable[s] }

func (m *typeMarks) union(s *js.Schema) ([]string, bool) {
	if m == nil {
		return nil, false
	}
	t, ok := m.unions[s]
	return t, ok
}

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// schemaAt follows a JSON Pointer through the subschema keywords of root.
func schemaAt(root *js.Schema, ptr string) *js.Schema {
	if ptr == "" {
		return root
	}
	toks := strings.Split(ptr[1:], "/")
	for i := range toks {
		toks[i] = pointerUnescaper.Replace(toks[i])
	}
	cur := root
	for i := 0; i < len(toks) && cur != nil; i++ {
		named := func() (string, bool) {
			if i+1 >= len(toks) {
				return "", false
			}
			i++
			return toks[i], true
		}
		switch toks[i] {
		case "properties":
			name, ok := named()
			if !ok || cur.Properties == nil {
				return nil
			}
			cur, _ = cur.Properties.Get(name)
		case "$defs":
			name, ok := named()
			if !ok {
				return nil
			}
			cur = cur.Definitions[name]
		case "patternProperties":
			name, ok := named()
			if !ok {
				return nil
			}
			cur = cur.PatternProperties[name]
		case "anyOf", "oneOf", "allOf", "prefixItems":
			list := map[string][]*js.Schema{"anyOf": cur.AnyOf, "oneOf": cur.OneOf, "allOf": cur.AllOf, "prefixItems": cur.PrefixItems}[toks[i]]
			idx, ok := named()
			if !ok {
				return nil
			}
			n, err := strconv.Atoi(idx)
			if err != nil || n < 0 || n >= len(list) {
				return nil
			}
			cur = list[n]
		case "items":
			cur = cur.Items
		case "additionalProperties":
			cur = cur.AdditionalProperties
		case "not":
			cur = cur.Not
		default:
			return nil
		}
	}
	return cur
}
