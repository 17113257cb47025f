package tool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sync"

	gs "github.com/reoring/geminischema"
	"github.com/reoring/geminischema/jsonschema"
)

// ErrInvalidName reports a declaration name the function-calling API would
// refuse.
var ErrInvalidName = errors.New("tool: invalid function name")

// ErrUnknownFunction reports a call to a name not registered in a Set.
var ErrUnknownFunction = errors.New("tool: unknown function")

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]{0,63}$`)

// Options configures declarations.
type Options struct {
	Encode gs.EncodeOpt
	// Validate checks call arguments against the encoded schema before the
	// wrappers are stripped.
	Validate   bool
	NumberMode gs.NumberMode
	Logger     *slog.Logger
}

// Declaration is a function declaration whose parameters are an encoded
// source schema.
type Declaration struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Parameters  *gs.Schema `json:"parameters"`

	validator *jsonschema.Validator
	opts      Options
	logger    *slog.Logger
}

// New encodes schema and wraps it into a declaration.
func New(name, description string, schema gs.Node, opts Options) (*Declaration, error) {
	if !namePattern.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	params, err := gs.EncodeWith(schema, opts.Encode)
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", name, err)
	}
	d := &Declaration{
		Name:        name,
		Description: description,
		Parameters:  params,
		opts:        opts,
		logger:      opts.Logger,
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Validate {
		v, err := jsonschema.Compile(params)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", name, err)
		}
		d.validator = v
	}
	d.logger.Debug("tool declared", "name", name, "root_wrapped", params.IsWrapper(), "validate", opts.Validate)
	return d, nil
}

// DecodeArgs parses raw call arguments, optionally validates them and strips
// every wrapper.
func (d *Declaration) DecodeArgs(ctx context.Context, args []byte) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.validator != nil {
		if err := d.validator.ValidateJSON(args); err != nil {
			d.logger.Debug("tool args rejected", "name", d.Name, "error", err)
			return nil, fmt.Errorf("tool %s: invalid arguments: %w", d.Name, err)
		}
	}
	v, err := gs.DecodeJSON(args, gs.DecodeOpt{NumberMode: d.opts.NumberMode})
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", d.Name, err)
	}
	d.logger.Debug("tool args decoded", "name", d.Name, "bytes", len(args))
	return v, nil
}

// DecodeArgsValue is DecodeArgs for arguments an SDK already parsed into a
// map. The map is modified in place.
func (d *Declaration) DecodeArgsValue(ctx context.Context, args map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if args == nil {
		// A call without arguments, as for an omitted optional root.
		args = map[string]any{}
	}
	if d.validator != nil {
		if err := d.validator.Validate(args); err != nil {
			d.logger.Debug("tool args rejected", "name", d.Name, "error", err)
			return nil, fmt.Errorf("tool %s: invalid arguments: %w", d.Name, err)
		}
	}
	return gs.Decode(args), nil
}

// DecodeArgsInto decodes raw call arguments and binds them into dst.
func (d *Declaration) DecodeArgsInto(ctx context.Context, args []byte, dst any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.validator != nil {
		if err := d.validator.ValidateJSON(args); err != nil {
			return fmt.Errorf("tool %s: invalid arguments: %w", d.Name, err)
		}
	}
	if err := gs.DecodeInto(args, dst); err != nil {
		return fmt.Errorf("tool %s: %w", d.Name, err)
	}
	return nil
}

// Call is a function call produced by the sink.
type Call struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Set holds declarations by name. It is safe for concurrent use.
type Set struct {
	mu    sync.RWMutex
	order []string
	decls map[string]*Declaration
}

// NewSet builds a set from declarations; later duplicates replace earlier ones.
func NewSet(decls ...*Declaration) *Set {
	s := &Set{decls: map[string]*Declaration{}}
	for _, d := range decls {
		s.Add(d)
	}
	return s
}

// Add registers d, replacing any declaration with the same name.
func (s *Set) Add(d *Declaration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decls[d.Name]; !ok {
		s.order = append(s.order, d.Name)
	}
	s.decls[d.Name] = d
}

// Get returns the declaration registered under name.
func (s *Set) Get(name string) (*Declaration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.decls[name]
	return d, ok
}

// Declarations lists declarations in registration order.
func (s *Set) Declarations() []*Declaration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Declaration, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, s.decls[n])
	}
	return out
}

// Decode routes a call to its declaration and decodes the arguments.
func (s *Set) Decode(ctx context.Context, c Call) (any, error) {
	d, ok := s.Get(c.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, c.Name)
	}
	return d.DecodeArgsValue(ctx, c.Args)
}
