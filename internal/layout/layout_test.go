package layout

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"pymove/importmatch"
	"pymove/internal/filesystem"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestResolvePrefersPlainModuleOverPackage(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "mod1.py"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "mod1"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "mod1", "__init__.py"), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
	l := New(root, nil, filesystem.NewFileSystem(testLogger()), testLogger())
	path, err := l.Resolve(importmatch.ParseModuleName("mod1"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if path != filepath.Join(root, "mod1.py") {
		t.Fatalf("unexpected path: %s", path)
	}
}

func TestResolveMissingModuleErrors(t *testing.T) {
	root := t.TempDir()
	l := New(root, nil, filesystem.NewFileSystem(testLogger()), testLogger())
	if _, err := l.Resolve(importmatch.ParseModuleName("nope")); err == nil {
		t.Fatal("expected error for missing module")
	}
}

func TestEnsurePackagesCreatesIntermediateInits(t *testing.T) {
	root := t.TempDir()
	l := New(root, nil, filesystem.NewFileSystem(testLogger()), testLogger())
	if err := l.EnsurePackages(importmatch.ParseModuleName("pkg.sub.mod")); err != nil {
		t.Fatalf("EnsurePackages: %v", err)
	}
	for _, p := range []string{
		filepath.Join(root, "pkg", "__init__.py"),
		filepath.Join(root, "pkg", "sub", "__init__.py"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s to exist: %v", p, err)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "pkg", "sub", "mod", "__init__.py")); err == nil {
		t.Fatal("leaf module itself should not get a package __init__.py")
	}
}

func TestProjectLoadAndPersistRoundTrip(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "mod1.py"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := New(root, nil, filesystem.NewFileSystem(testLogger()), testLogger())
	p := NewProject(l, nil, testLogger())

	m, err := p.Load(importmatch.ParseModuleName("mod1"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p.Touch(m.Name)

	written, err := p.Persist()
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if len(written) != 1 || written[0] != "mod1" {
		t.Fatalf("unexpected written list: %v", written)
	}

	data, err := os.ReadFile(filepath.Join(root, "mod1.py"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "x = 1\n" {
		t.Fatalf("unexpected persisted content: %q", data)
	}
}

func TestCreateDestinationCreatesEmptyModuleAndPackages(t *testing.T) {
	root := t.TempDir()
	l := New(root, nil, filesystem.NewFileSystem(testLogger()), testLogger())
	p := NewProject(l, nil, testLogger())

	name := importmatch.ParseModuleName("pkg.mod2")
	m, err := p.CreateDestination(name)
	if err != nil {
		t.Fatalf("CreateDestination: %v", err)
	}
	if len(m.Tree.Body) != 0 {
		t.Fatalf("expected empty tree, got %d statements", len(m.Tree.Body))
	}
	if _, err := os.Stat(filepath.Join(root, "pkg", "__init__.py")); err != nil {
		t.Fatalf("expected pkg/__init__.py to exist: %v", err)
	}
}
