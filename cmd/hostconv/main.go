package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/hashicorp/hcl/v2"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/hostconv/conv"
	"github.com/wippyai/hostconv/errors"
	"github.com/wippyai/hostconv/host"
	"github.com/wippyai/hostconv/native"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                3,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

type options struct {
	file       string
	funcName   string
	fsEncoding string
	pages      uint
	dump       bool
	list       bool
	verbose    bool
}

func main() {
	var (
		opts        options
		interactive bool
	)
	flag.StringVar(&opts.file, "file", "", "Call file (HCL)")
	flag.StringVar(&opts.funcName, "func", "", "Only run calls to this function")
	flag.StringVar(&opts.fsEncoding, "fsencoding", "utf-8", "Filesystem encoding for text paths")
	flag.UintVar(&opts.pages, "pages", 16, "Linear memory limit in 64KiB pages")
	flag.BoolVar(&opts.dump, "dump", false, "Dump converted descriptors")
	flag.BoolVar(&opts.list, "list", false, "List function signatures and exit")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.BoolVar(&interactive, "i", false, "Interactive mode with TUI")
	flag.Parse()

	if opts.verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			conv.SetLogger(l)
			native.SetLogger(l)
			defer func() { _ = l.Sync() }()
		}
	}

	if opts.list {
		listSignatures(os.Stdout)
		return
	}

	if interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if opts.file == "" {
		fmt.Fprintln(os.Stderr, "Usage: hostconv -file <calls.hcl> [-func name] [-fsencoding name] [-dump]")
		fmt.Fprintln(os.Stderr, "       hostconv -list")
		fmt.Fprintln(os.Stderr, "       hostconv -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(context.Background(), opts, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func listSignatures(w io.Writer) {
	for _, name := range signatureNames() {
		sig := signatures[name]
		fmt.Fprintf(w, "%s\n    %s\n", conv.Signature(sig.name, sig.params()...), sig.doc)
	}
}

// newRunner creates the heap and arena a set of calls runs against.
func newRunner(ctx context.Context, opts options) (*runner, error) {
	cfg, err := host.ConfigForEncoding(opts.fsEncoding)
	if err != nil {
		return nil, err
	}
	arena, err := native.New(ctx, &native.Config{MemoryLimitPages: uint32(opts.pages)})
	if err != nil {
		return nil, fmt.Errorf("create arena: %w", err)
	}
	return &runner{heap: host.NewHeapWithConfig(cfg), arena: arena}, nil
}

func (r *runner) Close(ctx context.Context) error {
	err := r.arena.Close(ctx)
	_ = r.heap.Close()
	return err
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	loader := newCallLoader()
	calls, diags := loader.ParseFile(opts.file)
	if len(diags) > 0 {
		writeDiagnostics(stderr, loader.Files(), diags)
	}
	if diags.HasErrors() {
		return fmt.Errorf("parse %s: %d error(s)", opts.file, len(diags.Errs()))
	}

	r, err := newRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer r.Close(ctx)
	if opts.dump {
		r.dump = stdout
	}

	failed := 0
	for _, c := range calls {
		if opts.funcName != "" && c.Func != opts.funcName {
			continue
		}
		fmt.Fprintf(stdout, "%s: %s\n", c.Range, c.Func)
		lines, err := r.execute(c)
		if err != nil {
			failed++
			fmt.Fprintf(stdout, "    %s\n", formatError(err))
			continue
		}
		for _, line := range lines {
			fmt.Fprintf(stdout, "    %s\n", line)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d calls failed", failed, len(calls))
	}
	return nil
}

// formatError renders err the way the host reports a raised exception.
func formatError(err error) string {
	return errors.Exception(err) + ": " + errors.Message(err)
}

func writeDiagnostics(w io.Writer, files map[string]*hcl.File, diags hcl.Diagnostics) {
	width, color := uint(78), false
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		color = true
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			width = uint(cols)
		}
	}
	_ = hcl.NewDiagnosticTextWriter(w, files, width, color).WriteDiagnostics(diags)
}
