package geminischema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/geminischema/i18n"
)

// Issue codes.
const (
	CodeUnsupportedType  = "unsupported_type"
	CodeWrapKeyCollision = "wrap_key_collision"
	CodeInvalidSchema    = "invalid_schema"
	CodeParseError       = "parse_error"
)

var (
	// ErrUnsupportedSchemaType matches every UnsupportedSchemaTypeError via errors.Is.
	ErrUnsupportedSchemaType = errors.New("geminischema: unsupported schema type")
	// ErrWrapKeyCollision matches every WrapKeyCollisionError via errors.Is.
	ErrWrapKeyCollision = errors.New("geminischema: field name collides with wrap key")
)

// UnsupportedSchemaTypeError is returned by Encode when a node is not one of
// Primitive, Array, Object, Optional or Nullable. No partial schema is
// produced.
type UnsupportedSchemaTypeError struct {
	Path string // JSON Pointer of the node inside the source schema ("/" for the root).
	Node Node
}

func (e *UnsupportedSchemaTypeError) Error() string {
	return fmt.Sprintf("geminischema: unsupported schema type %s at %s", describeNode(e.Node), e.Path)
}

func (e *UnsupportedSchemaTypeError) Is(target error) bool { return target == ErrUnsupportedSchemaType }

// Issue converts the error into an Issue.
func (e *UnsupportedSchemaTypeError) Issue() Issue {
	return Issue{Path: e.Path, Code: CodeUnsupportedType, Message: i18n.T(CodeUnsupportedType, map[string]string{"type": describeNode(e.Node)})}
}

// WrapKeyCollisionError is returned when EncodeOpt.RejectWrapKey is set and an
// object declares a field named WrapKey.
type WrapKeyCollisionError struct {
	Path string
}

func (e *WrapKeyCollisionError) Error() string {
	return fmt.Sprintf("geminischema: field %q at %s collides with the wrap key", WrapKey, e.Path)
}

func (e *WrapKeyCollisionError) Is(target error) bool { return target == ErrWrapKeyCollision }

// Issue converts the error into an Issue.
func (e *WrapKeyCollisionError) Issue() Issue {
	return Issue{Path: e.Path, Code: CodeWrapKeyCollision, Message: i18n.T(CodeWrapKeyCollision, map[string]string{"key": WrapKey})}
}

// ParseError is returned by DecodeJSON and DecodeInto when sink output is not
// a single JSON value.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "geminischema: parsing value: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// Issue converts the error into an Issue.
func (e *ParseError) Issue() Issue {
	return Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil)}
}

// Issue is a single diagnostic entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /properties/tags/items).
	Code    string // One of the codes listed above.
	Message string
}

// Issues is a collection of diagnostics that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error. Single-issue encoder errors are
// converted on the fly.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var ue *UnsupportedSchemaTypeError
	if errors.As(err, &ue) {
		return Issues{ue.Issue()}, true
	}
	var ce *WrapKeyCollisionError
	if errors.As(err, &ce) {
		return Issues{ce.Issue()}, true
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return Issues{pe.Issue()}, true
	}
	return nil, false
}

// pointer appends an escaped RFC 6901 token to a JSON Pointer.
func pointer(base string, tokens ...string) string {
	if base == "/" {
		base = ""
	}
	for _, t := range tokens {
		base += "/" + pointerEscaper.Replace(t)
	}
	if base == "" {
		return "/"
	}
	return base
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")
