package importer

import "fmt"

// Options controls how JSON Schema documents are imported.
type Options struct {
	// RequireAll treats every object property as required, ignoring the
	// "required" keyword.
	RequireAll bool
	// LenientTypes maps constructs without a source schema equivalent
	// (dynamic-key maps, tuples, untyped enums with non-string values, type
	// unions) to a warning and a string leaf instead of an issue.
	LenientTypes bool
}

// Diag carries non-fatal warnings produced during import.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }
