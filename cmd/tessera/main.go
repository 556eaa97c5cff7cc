// Command tessera is a thin CLI over the compiler front end: compile a
// script and report diagnostics, disassemble it, inspect the compile
// cache, or run the diagnostics server. A manual `switch args[0]`
// dispatch, no cobra/flag package tree.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"tessera/internal/bytecode"
	"tessera/internal/compiler"
	"tessera/internal/config"
	"tessera/internal/debugserver"
	"tessera/internal/heap"
	"tessera/internal/packages"
	"tessera/internal/scriptcache"
	"tessera/internal/value"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "compile":
		err = cmdCompile(os.Args[2:])
	case "disasm":
		err = cmdDisasm(os.Args[2:])
	case "cache":
		err = cmdCache(os.Args[2:])
	case "serve":
		err = cmdServe(os.Args[2:])
	case "version":
		fmt.Println("tessera 0.1.0")
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "tessera: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: tessera <compile|disasm|cache|serve|version> [args]")
}

func useColor() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

// compileResult bundles the outputs of a single compileFile call so the
// cache-write path in cmdDisasm has everything it needs without a second
// compile.
type compileResult struct {
	heap   *heap.Heap
	script *value.Script
	source string
	diags  []string
	ok     bool
}

// compileFile loads path through a filesystem-backed config.Config,
// resolves a tessera.mod in the working directory if one exists, and
// compiles the loaded source, collecting every diagnostic rather than
// stopping at the first. cfg.ReportError receives each one as it's found,
// so an embedder-supplied Config drives the same diagnostic path this CLI
// uses internally.
func compileFile(cfg *config.Config, path string) (compileResult, error) {
	loaded := cfg.LoadScript(path)
	if !loaded.Success {
		return compileResult{}, fmt.Errorf("could not load %s", path)
	}
	src := loaded.Source

	var opts []compiler.Option
	if manifest, mErr := packages.ParseManifest("tessera.mod"); mErr == nil {
		opts = append(opts, compiler.WithResolver(packages.NewResolver(manifest)))
	}

	h := heap.New()
	var diags []string
	script, ok := compiler.Compile(h, path, src, func(e compiler.CompileError) {
		diags = append(diags, e.Error())
		cfg.ReportError(config.ErrorCompile, e.Path, e.Line, e.Message)
	}, opts...)

	return compileResult{heap: h, script: script, source: src, diags: diags, ok: ok}, nil
}

func cmdCompile(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tessera compile <path>")
	}
	cfg := config.Default(os.Stdout)
	res, err := compileFile(cfg, args[0])
	if err != nil {
		return err
	}
	if !res.ok {
		return fmt.Errorf("compilation failed with %d error(s)", len(res.diags))
	}
	cfg.Write("ok\n")
	return nil
}

func cmdDisasm(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: tessera disasm <path> [cache-dsn]")
	}
	cfg := config.Default(os.Stdout)
	res, err := compileFile(cfg, args[0])
	if err != nil {
		return err
	}
	if !res.ok {
		return fmt.Errorf("compilation failed with %d error(s)", len(res.diags))
	}

	listing := bytecode.Disassemble(res.script, res.script.Body)
	for _, fn := range res.script.Functions {
		if fn != res.script.Body {
			listing += bytecode.Disassemble(res.script, fn)
		}
	}
	cfg.Write(listing)

	if len(args) > 1 {
		if err := cacheStore(args[1], args[0], res.source, listing, res.diags, res.ok); err != nil {
			fmt.Fprintf(os.Stderr, "tessera: cache write: %v\n", err)
		}
	}
	return nil
}

func cacheStore(dsn, path, source, listing string, diags []string, ok bool) error {
	cache, err := scriptcache.Open(dsn)
	if err != nil {
		return err
	}
	defer cache.Close()
	return cache.Store(scriptcache.Entry{
		Hash:        scriptcache.Hash(source),
		Path:        path,
		OK:          ok,
		Disassembly: listing,
		Diagnostics: diags,
		CachedAt:    time.Now(),
	})
}

func cmdCache(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: tessera cache <stats> [dsn]")
	}
	dsn := ""
	if len(args) > 1 {
		dsn = args[1]
	}
	cache, err := scriptcache.Open(dsn)
	if err != nil {
		return err
	}
	defer cache.Close()

	switch args[0] {
	case "stats":
		count, bytes, err := cache.Size()
		if err != nil {
			return err
		}
		fmt.Printf("%d entries, %s\n", count, humanize.Bytes(uint64(bytes)))
	default:
		return fmt.Errorf("usage: tessera cache <stats> [dsn]")
	}
	return nil
}

func cmdServe(args []string) error {
	addr := ":4747"
	if len(args) > 0 {
		addr = args[0]
	}
	srv := debugserver.New(addr)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	fmt.Printf("tessera debug server listening on %s (color=%v)\n", addr, useColor())
	return srv.Serve(ctx)
}
