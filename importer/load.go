package importer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	j "github.com/goccy/go-json"
	js "github.com/invopop/jsonschema"
	"github.com/tidwall/jsonc"

	gs "github.com/reoring/geminischema"
)

// ImportJSON imports a JSON Schema document. Type lists are accepted in the
// ["T", "null"] form, which imports as a nullable T.
func ImportJSON(data []byte, opts Options) (gs.Node, Diag, error) {
	raw, tl, err := rewriteTypeLists(data)
	if err != nil {
		return nil, &simpleDiag{}, fmt.Errorf("importer: invalid JSON schema: %w", err)
	}
	var s js.Schema
	// Property order is kept by the schema's ordered map.
	if err := j.Unmarshal(raw, &s); err != nil {
		return nil, &simpleDiag{}, fmt.Errorf("importer: invalid JSON schema: %w", err)
	}
	return fromJSONSchema(&s, opts, tl.marks(&s))
}

// ImportJSONC imports a JSON Schema document that may contain // and /* */
// comments and trailing commas.
func ImportJSONC(data []byte, opts Options) (gs.Node, Diag, error) {
	return ImportJSON(jsonc.ToJSON(data), opts)
}

// ImportYAML imports the first document of a YAML stream holding a JSON
// Schema. Duplicate mapping keys are rejected with *DuplicateKeyError.
func ImportYAML(data []byte, opts Options) (gs.Node, Diag, error) {
	raw, err := NewStrictYAMLReader(bytes.NewReader(data)).NextJSON()
	if err != nil {
		return nil, &simpleDiag{}, fmt.Errorf("importer: invalid YAML schema: %w", err)
	}
	return ImportJSON(raw, opts)
}

// ImportFile imports a schema file, choosing the format by extension:
// .yaml/.yml, .jsonc, anything else as JSON.
func ImportFile(path string, opts Options) (gs.Node, Diag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &simpleDiag{}, fmt.Errorf("importer: reading %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ImportYAML(data, opts)
	case ".jsonc":
		return ImportJSONC(data, opts)
	default:
		return ImportJSON(data, opts)
	}
}
