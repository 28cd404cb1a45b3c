package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fordtom/nvmbuilder/internal/codegen"
	"github.com/fordtom/nvmbuilder/internal/compile"
	"github.com/fordtom/nvmbuilder/internal/flatten"
	"github.com/fordtom/nvmbuilder/internal/parser"
	"github.com/fordtom/nvmbuilder/internal/schema"
)

// config is one invocation's settings.
type config struct {
	lang        string
	output      string
	guard       string
	pkg         string
	pad         bool
	assert      bool
	expand      bool
	blocks      listFlag
	stats       bool
	interactive bool
	workers     int
}

// listFlag collects a repeatable, comma-separated string flag.
type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, ",")
}

func (l *listFlag) Set(v string) error {
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			*l = append(*l, s)
		}
	}
	return nil
}

func main() {
	var cfg config
	flag.StringVar(&cfg.lang, "lang", "c", "Output language: c, go or json")
	flag.StringVar(&cfg.output, "o", "", "Output file (default stdout)")
	flag.StringVar(&cfg.guard, "guard", "", "C include guard (default derived from -o)")
	flag.StringVar(&cfg.pkg, "pkg", "layout", "Package name for -lang go")
	flag.BoolVar(&cfg.pad, "pad", false, "Emit explicit padding members in C output")
	flag.BoolVar(&cfg.assert, "assert", false, "Emit _Static_assert size checks in C output")
	flag.BoolVar(&cfg.expand, "expand", false, "Expand heterogeneous arrays of structs per index")
	flag.Var(&cfg.blocks, "block", "Only compile the named records (repeatable, comma-separated)")
	flag.BoolVar(&cfg.stats, "stats", false, "Print a size and padding table to stderr")
	flag.BoolVar(&cfg.interactive, "i", false, "Interactive mode with TUI")
	flag.IntVar(&cfg.workers, "j", 0, "Parallel compilations (default GOMAXPROCS)")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: nvmlayout [flags] file.go...")
		fmt.Fprintln(os.Stderr, "       nvmlayout -lang go -pkg nvm -o blocks_layout.go blocks.go")
		fmt.Fprintln(os.Stderr, "       nvmlayout -i blocks.go  (interactive mode)")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	log := newLogger(*verbose)
	defer func() { _ = log.Sync() }()
	compile.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, cfg, flag.Args(), os.Stdout, os.Stderr))
}

func newLogger(verbose bool) *zap.Logger {
	if verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			return l
		}
	}

	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	l, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// run compiles every file and returns the process exit code. Records that
// compile are always rendered; any failure makes the exit code 1.
func run(ctx context.Context, cfg config, files []string, stdout, stderr io.Writer) int {
	log := compile.Logger()
	failed := false

	r, err := newRenderer(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	var schemas []schema.Schema
	for _, file := range files {
		parsed, err := parser.ParseFile(file)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s: %v\n", file, err)
			failed = true
		}
		log.Debug("parsed file", zap.String("file", file), zap.Int("records", len(parsed)))
		schemas = append(schemas, parsed...)
	}

	schemas, err = selectBlocks(schemas, cfg.blocks)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		failed = true
	}

	opts := compile.Options{
		Flatten: flatten.Options{ExpandHeterogeneous: cfg.expand},
		Workers: cfg.workers,
	}
	results := compile.CompileAll(ctx, schemas, opts)
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", res.Err)
			failed = true
		}
	}

	plans := compile.Plans(results)

	if cfg.interactive {
		if err := runInteractive(plans, cfg); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return exitCode(failed)
	}

	if cfg.stats {
		printStats(stderr, results, isTerminal(stderr))
	}

	if len(plans) == 0 {
		if !failed {
			fmt.Fprintln(stderr, "No types with @layout annotations found")
		}
		return exitCode(failed)
	}

	text, err := r.File(plans)
	if err != nil {
		fmt.Fprintf(stderr, "Error: render: %v\n", err)
		return 1
	}

	if cfg.output == "" {
		if _, err := io.WriteString(stdout, text); err != nil {
			fmt.Fprintf(stderr, "Error: write: %v\n", err)
			return 1
		}
		return exitCode(failed)
	}

	if err := os.WriteFile(cfg.output, []byte(text), 0o644); err != nil {
		fmt.Fprintf(stderr, "Error: write file: %v\n", err)
		return 1
	}
	log.Debug("wrote output", zap.String("file", cfg.output), zap.Int("records", len(plans)))
	return exitCode(failed)
}

func newRenderer(cfg config) (codegen.FileRenderer, error) {
	switch cfg.lang {
	case "c":
		guard := cfg.guard
		if guard == "" && cfg.output != "" {
			guard = codegen.GuardFor(cfg.output)
		}
		if guard == "" {
			guard = "NVM_LAYOUT_H"
		}
		return codegen.C{Guard: guard, ExplicitPadding: cfg.pad, StaticAssert: cfg.assert}, nil
	case "go":
		return codegen.Go{Package: cfg.pkg}, nil
	case "json":
		return codegen.JSON{}, nil
	}
	return nil, fmt.Errorf("unknown language %q (want c, go or json)", cfg.lang)
}

// selectBlocks keeps only the named records, in their original order. An
// empty list keeps everything; a name that matches nothing is an error.
func selectBlocks(schemas []schema.Schema, names []string) ([]schema.Schema, error) {
	if len(names) == 0 {
		return schemas, nil
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = false
	}

	var out []schema.Schema
	for _, s := range schemas {
		if _, ok := want[s.Name]; ok {
			want[s.Name] = true
			out = append(out, s)
		}
	}

	var missing []string
	for _, n := range names {
		if !want[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return out, fmt.Errorf("unknown block(s): %s", strings.Join(missing, ", "))
	}
	return out, nil
}

func exitCode(failed bool) int {
	if failed {
		return 1
	}
	return 0
}
