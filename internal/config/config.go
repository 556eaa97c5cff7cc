// Package config is the embedding surface: the set of callbacks a host
// supplies to drive allocation, diagnostics, print output, and import
// resolution, plus the result codes the embedder reads back. Grounded on
// original_source/src/include/miniscript.h's msConfiguration/msNewVM/
// MSInterpretResult. cmd/tessera wires an equivalent set of defaults
// (stdout for both print output and error reports) through this struct
// rather than inlined in main().
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrorType distinguishes the three shapes a diagnostic callback can see:
// a single compile-time report, a runtime error, and the zero-or-more
// stack-trace frames that can follow a runtime error.
type ErrorType int

const (
	ErrorCompile ErrorType = iota
	ErrorRuntime
	ErrorStackTrace
)

func (t ErrorType) String() string {
	switch t {
	case ErrorCompile:
		return "compile"
	case ErrorRuntime:
		return "runtime"
	case ErrorStackTrace:
		return "stacktrace"
	default:
		return "unknown"
	}
}

// InterpretResult is the embedder-facing outcome of a single interpret
// call. Grounded on miniscript.h's MSInterpretResult enum.
type InterpretResult int

const (
	ResultSuccess InterpretResult = iota
	ResultCompileError
	ResultRuntimeError
)

// ErrorFn receives every diagnostic the configured Config produces —
// compile errors as they're found, one RUNTIME report followed by zero or
// more STACKTRACE frames for a runtime failure. Grounded on msErrorFn.
type ErrorFn func(cfg *Config, kind ErrorType, path string, line int, message string)

// WriteFn receives user-visible print output. Grounded on msWriteFn.
type WriteFn func(cfg *Config, text string)

// LoadResult is what a LoadScriptFn returns: either source text plus an
// optional cleanup hook, or failure. Grounded on msStringResult; Go's GC
// means OnDone is rarely needed, but the hook is kept so a loader backed by
// an external resource (an open file, a network body) still has a place to
// release it once the VM has consumed Source.
type LoadResult struct {
	Success  bool
	Source   string
	UserData interface{}
	OnDone   func(LoadResult)
}

// ResolvePathFn maps an import name, relative to the script that requested
// it, to a canonical path — so the same script imported two different
// relative ways resolves to one identity. from is "" for the root script.
// Grounded on msResolvePathFn.
type ResolvePathFn func(cfg *Config, from, name string) (string, bool)

// LoadScriptFn fetches the source text for a canonical path, for both the
// root script and every import. Grounded on msLoadScriptFn.
type LoadScriptFn func(cfg *Config, path string) LoadResult

// Config is the full embedding surface a host supplies. Grounded on
// msConfiguration's field list; realloc_fn has no analogue here since Go's
// allocator is not swappable the way C's is — internal/heap.Heap owns
// allocation instead, moving the "allocator callback" to the Heap/GC
// boundary rather than every object's malloc site.
type Config struct {
	ErrorFn       ErrorFn
	WriteFn       WriteFn
	ResolvePathFn ResolvePathFn
	LoadScriptFn  LoadScriptFn
	UserData      interface{}
}

// Default builds a Config whose callbacks match msInitConfiguration's
// stated defaults translated to this host: write to w, report errors to w
// as well (prefixed by kind/path/line), resolve relative to the importing
// script's directory, and load from the local filesystem. w is typically
// os.Stdout, following cmd/sentra/main.go's unconditional stdout writer.
func Default(w io.Writer) *Config {
	cfg := &Config{}
	cfg.WriteFn = func(_ *Config, text string) {
		fmt.Fprint(w, text)
	}
	cfg.ErrorFn = func(_ *Config, kind ErrorType, path string, line int, message string) {
		fmt.Fprintf(w, "[%s] %s:%d: %s\n", kind, path, line, message)
	}
	cfg.ResolvePathFn = func(_ *Config, from, name string) (string, bool) {
		if from == "" {
			return filepath.Clean(name), true
		}
		return filepath.Join(filepath.Dir(from), name), true
	}
	cfg.LoadScriptFn = func(_ *Config, path string) LoadResult {
		data, err := os.ReadFile(path)
		if err != nil {
			return LoadResult{Success: false}
		}
		return LoadResult{Success: true, Source: string(data)}
	}
	return cfg
}

// Write routes to the configured WriteFn, doing nothing if none is set —
// a Config is safe to use partially populated, matching msWriteFn's
// NULL-checked call sites in the original.
func (c *Config) Write(text string) {
	if c.WriteFn != nil {
		c.WriteFn(c, text)
	}
}

// ReportError routes to the configured ErrorFn.
func (c *Config) ReportError(kind ErrorType, path string, line int, message string) {
	if c.ErrorFn != nil {
		c.ErrorFn(c, kind, path, line, message)
	}
}

// ResolvePath routes to the configured ResolvePathFn, defaulting to
// "unresolved" (ok=false) when none is set.
func (c *Config) ResolvePath(from, name string) (string, bool) {
	if c.ResolvePathFn == nil {
		return "", false
	}
	return c.ResolvePathFn(c, from, name)
}

// LoadScript routes to the configured LoadScriptFn, failing closed when
// none is set.
func (c *Config) LoadScript(path string) LoadResult {
	if c.LoadScriptFn == nil {
		return LoadResult{Success: false}
	}
	return c.LoadScriptFn(c, path)
}
