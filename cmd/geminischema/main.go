package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/spf13/pflag"

	gs "github.com/reoring/geminischema"
	"github.com/reoring/geminischema/importer"
	"github.com/reoring/geminischema/internal/wire"
	"github.com/reoring/geminischema/jsonschema"
	"github.com/reoring/geminischema/tool"
)

// Config holds defaults read from the environment. Flags override them.
type Config struct {
	LogLevel      string `env:"GEMINISCHEMA_LOG_LEVEL,default=warn"`
	RejectWrapKey bool   `env:"GEMINISCHEMA_REJECT_WRAP_KEY,default=false"`
	NumberMode    string `env:"GEMINISCHEMA_NUMBER_MODE,default=float64"`
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func usage(w io.Writer) {
	fmt.Fprintln(w, `geminischema CLI

Usage:
  geminischema encode     [flags] SCHEMA_FILE
  geminischema jsonschema [flags] SCHEMA_FILE
  geminischema declare    --name NAME [--description TEXT] [flags] SCHEMA_FILE
  geminischema decode     [flags] [ARGS_FILE|-]
  geminischema check      --schema SCHEMA_FILE [flags] [ARGS_FILE|-]

SCHEMA_FILE is a JSON Schema document (.json, .jsonc, .yaml/.yml).
ARGS_FILE holds function-call arguments produced against the encoded schema.

Environment:
  GEMINISCHEMA_LOG_LEVEL        debug|info|warn|error (default warn)
  GEMINISCHEMA_REJECT_WRAP_KEY  reject fields named __value__ (default false)
  GEMINISCHEMA_NUMBER_MODE      float64|json-number (default float64)`)
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return cfg, fmt.Errorf("reading environment: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		usage(stderr)
		return errUsage
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sub := args[0]
	fs := pflag.NewFlagSet(sub, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.BoolVar(&cfg.RejectWrapKey, "reject-wrap-key", cfg.RejectWrapKey, "fail when an object declares a field named "+gs.WrapKey)
	fs.StringVar(&cfg.NumberMode, "number-mode", cfg.NumberMode, "number representation when decoding: float64, json-number")
	requireAll := fs.Bool("require-all", false, "treat every imported property as required")
	lenient := fs.Bool("lenient", false, "import unsupported constructs as strings instead of failing")
	compact := fs.Bool("compact", false, "print compact JSON")
	name := fs.String("name", "", "function name (declare)")
	description := fs.String("description", "", "function description (declare)")
	schemaPath := fs.String("schema", "", "schema file (check)")

	switch sub {
	case "encode", "jsonschema", "declare", "decode", "check":
	case "-h", "--help", "help":
		usage(stdout)
		return nil
	default:
		usage(stderr)
		return errUsage
	}
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return errUsage
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	mode, ok := gs.ParseNumberMode(cfg.NumberMode)
	if !ok {
		return fmt.Errorf("unknown number mode %q", cfg.NumberMode)
	}
	iopts := importer.Options{RequireAll: *requireAll, LenientTypes: *lenient}
	eopts := gs.EncodeOpt{RejectWrapKey: cfg.RejectWrapKey}
	out := printer{w: stdout, compact: *compact}

	switch sub {
	case "encode", "jsonschema", "declare":
		if fs.NArg() != 1 {
			usage(stderr)
			return errUsage
		}
		node, err := importSchema(logger, fs.Arg(0), iopts)
		if err != nil {
			return err
		}
		switch sub {
		case "encode":
			s, err := gs.EncodeWith(node, eopts)
			if err != nil {
				return err
			}
			return out.print(s)
		case "jsonschema":
			s, err := gs.EncodeWith(node, eopts)
			if err != nil {
				return err
			}
			return out.print(jsonschema.FromTarget(s))
		default:
			if *name == "" {
				return fmt.Errorf("declare: --name is required")
			}
			d, err := tool.New(*name, *description, node, tool.Options{Encode: eopts, Logger: logger})
			if err != nil {
				return err
			}
			return out.print(d)
		}
	case "decode":
		data, err := readInput(stdin, fs.Args())
		if err != nil {
			return err
		}
		v, err := gs.DecodeJSON(data, gs.DecodeOpt{NumberMode: mode})
		if err != nil {
			return err
		}
		logger.Debug("decoded", "bytes", len(data))
		return out.print(v)
	case "check":
		if *schemaPath == "" {
			return fmt.Errorf("check: --schema is required")
		}
		node, err := importSchema(logger, *schemaPath, iopts)
		if err != nil {
			return err
		}
		d, err := tool.New("check", "", node, tool.Options{Encode: eopts, Validate: true, NumberMode: mode, Logger: logger})
		if err != nil {
			return err
		}
		data, err := readInput(stdin, fs.Args())
		if err != nil {
			return err
		}
		v, err := d.DecodeArgs(ctx, data)
		if err != nil {
			return err
		}
		return out.print(v)
	}
	return nil
}

func importSchema(logger *slog.Logger, path string, opts importer.Options) (gs.Node, error) {
	node, diag, err := importer.ImportFile(path, opts)
	if diag != nil {
		for _, w := range diag.Warnings() {
			logger.Warn("import", "path", path, "warning", w)
		}
	}
	if err != nil {
		if iss, ok := gs.AsIssues(err); ok {
			for _, it := range iss {
				logger.Error("import", "path", it.Path, "code", it.Code, "message", it.Message)
			}
		}
		return nil, err
	}
	logger.Debug("imported schema", "path", path, "kind", node.Kind().String())
	return node, nil
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(args[0])
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

type printer struct {
	w       io.Writer
	compact bool
}

func (p printer) print(v any) error {
	var (
		b   []byte
		err error
	)
	if p.compact {
		b, err = wire.Marshal(v)
	} else {
		b, err = wire.MarshalIndent(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.w, string(b))
	return err
}
