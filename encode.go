package geminischema

// Encode lowers a source schema into the function-calling dialect using the
// default options.
func Encode(n Node) (*Schema, error) { return EncodeWith(n, EncodeOpt{}) }

// MustEncode is Encode that panics on error. Intended for package-level
// schema declarations.
func MustEncode(n Node) *Schema {
	s, err := Encode(n)
	if err != nil {
		panic(err)
	}
	return s
}

// EncodeWith lowers a source schema into the function-calling dialect.
//
// An optional root is double wrapped: the outer object's WrapKey is not
// required (the whole value may be omitted) while the inner object's WrapKey
// is required.
func EncodeWith(n Node, opt EncodeOpt) (*Schema, error) {
	e := encoder{opt: opt}
	schema, optional, err := e.root(n, "/")
	if err != nil {
		return nil, err
	}
	if !optional {
		return schema, nil
	}
	return &Schema{
		Type: TypeObject,
		Properties: Properties{{
			Name: WrapKey,
			Schema: &Schema{
				Type:       TypeObject,
				Properties: Properties{{Name: WrapKey, Schema: schema}},
				Required:   []string{WrapKey},
			},
		}},
	}, nil
}

type encoder struct {
	opt EncodeOpt
}

// root converts a node sitting at a root-like position: the schema root or an
// array element. Arrays and nullables are not representable there and get
// wrapped. The returned flag reports whether an Optional layer was crossed.
func (e *encoder) root(n Node, path string) (*Schema, bool, error) {
	if isNilVariant(n) {
		return nil, false, &UnsupportedSchemaTypeError{Path: path, Node: n}
	}
	switch t := n.(type) {
	case *Optional:
		s, _, err := e.root(t.Inner, path)
		return s, true, err
	case *Object:
		s, err := e.object(t, path)
		return s, false, err
	case *Array, *Nullable:
		inner, optional, err := e.prop(n, path)
		if err != nil {
			return nil, false, err
		}
		return &Schema{
			Type:       TypeObject,
			Properties: Properties{{Name: WrapKey, Schema: inner}},
			Required:   []string{WrapKey},
		}, optional, nil
	case *Primitive:
		s, err := primitive(t, path)
		return s, false, err
	}
	return nil, false, &UnsupportedSchemaTypeError{Path: path, Node: n}
}

// prop converts a node sitting at a named property position, where arrays
// and the nullable flag are natively supported.
func (e *encoder) prop(n Node, path string) (*Schema, bool, error) {
	if isNilVariant(n) {
		return nil, false, &UnsupportedSchemaTypeError{Path: path, Node: n}
	}
	switch t := n.(type) {
	case *Optional:
		s, _, err := e.prop(t.Inner, path)
		return s, true, err
	case *Nullable:
		s, optional, err := e.prop(t.Inner, path)
		if err != nil {
			return nil, false, err
		}
		s.Nullable = true
		return s, optional, nil
	case *Array:
		// Element optionality has no representation; only the element's own
		// shape survives.
		items, _, err := e.root(t.Element, pointer(path, "items"))
		if err != nil {
			return nil, false, err
		}
		return &Schema{Type: TypeArray, Description: t.Description, Items: items}, false, nil
	case *Object:
		s, err := e.object(t, path)
		return s, false, err
	case *Primitive:
		s, err := primitive(t, path)
		return s, false, err
	}
	return nil, false, &UnsupportedSchemaTypeError{Path: path, Node: n}
}

// object converts fields through property mode in declaration order; a field
// is required unless an Optional layer sits on top of its definition.
func (e *encoder) object(o *Object, path string) (*Schema, error) {
	s := &Schema{
		Type:        TypeObject,
		Description: o.Description,
		Properties:  make(Properties, 0, len(o.Fields)),
		Required:    []string{},
	}
	for _, f := range o.Fields {
		fp := pointer(path, "properties", f.Name)
		if e.opt.RejectWrapKey && f.Name == WrapKey {
			return nil, &WrapKeyCollisionError{Path: fp}
		}
		ps, optional, err := e.prop(f.Schema, fp)
		if err != nil {
			return nil, err
		}
		s.Properties = append(s.Properties, Property{Name: f.Name, Schema: ps})
		if !optional {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s, nil
}

func primitive(p *Primitive, path string) (*Schema, error) {
	var t Type
	switch p.Type {
	case Number:
		t = TypeNumber
	case String:
		t = TypeString
	case Boolean:
		t = TypeBoolean
	default:
		return nil, &UnsupportedSchemaTypeError{Path: path, Node: p}
	}
	return &Schema{Type: t, Description: p.Description}, nil
}

// isNilVariant reports nil nodes, including typed nil pointers of the known
// variants.
func isNilVariant(n Node) bool {
	switch t := n.(type) {
	case nil:
		return true
	case *Primitive:
		return t == nil
	case *Array:
		return t == nil
	case *Object:
		return t == nil
	case *Optional:
		return t == nil
	case *Nullable:
		return t == nil
	}
	return false
}
