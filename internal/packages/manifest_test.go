package packages

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tessera.mod")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestParseManifestSingleLineRequire(t *testing.T) {
	path := writeManifest(t, "module example.com/app\ntessera v0.1\nrequire example.com/lib v1.0.0\n")
	m, err := ParseManifest(path)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if m.Module != "example.com/app" {
		t.Fatalf("module = %q", m.Module)
	}
	if m.Tessera != "v0.1" {
		t.Fatalf("tessera = %q", m.Tessera)
	}
	if len(m.Require) != 1 || m.Require[0].Path != "example.com/lib" || m.Require[0].Version != "v1.0.0" {
		t.Fatalf("require = %v", m.Require)
	}
}

func TestParseManifestRequireBlock(t *testing.T) {
	path := writeManifest(t, "module example.com/app\nrequire (\n\texample.com/a v1.0.0\n\texample.com/b v2.0.0\n)\n")
	m, err := ParseManifest(path)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if len(m.Require) != 2 {
		t.Fatalf("got %d requirements, want 2: %v", len(m.Require), m.Require)
	}
}

func TestParseManifestReplace(t *testing.T) {
	path := writeManifest(t, "module example.com/app\nrequire example.com/a v1.0.0\nreplace example.com/a => example.com/fork v1.0.1\n")
	m, err := ParseManifest(path)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	got, ok := m.Find("example.com/a")
	if !ok {
		t.Fatalf("expected example.com/a to resolve")
	}
	if got != "example.com/fork" {
		t.Fatalf("got %q, want replaced path example.com/fork", got)
	}
}

func TestResolverRejectsUndeclaredName(t *testing.T) {
	path := writeManifest(t, "module example.com/app\nrequire example.com/a v1.0.0\n")
	m, err := ParseManifest(path)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	r := NewResolver(m)
	if _, err := r.Resolve("example.com/missing"); err == nil {
		t.Fatalf("expected an error resolving an undeclared module")
	}
	got, err := r.Resolve("example.com/a")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "example.com/a" {
		t.Fatalf("got %q, want example.com/a", got)
	}
}

func TestResolverWithNilManifest(t *testing.T) {
	r := NewResolver(nil)
	if _, err := r.Resolve("anything"); err == nil {
		t.Fatalf("expected an error with no manifest in scope")
	}
}
