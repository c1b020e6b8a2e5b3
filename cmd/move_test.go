package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"pymove/importmatch"
	"pymove/symbol"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestMoveCmdExecuteEndToEnd(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "mod1.py"), []byte("def test():\n    return 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "mod2.py"), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := &MoveCmd{RootPath: root, ModuleStart: "mod1", Line: 1, Column: 5, ModuleEnd: "mod2"}
	ctx := context.Background()
	result, err := cmd.execute(&Globals{}, ctx, testLogger())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(result.EditedFiles) != 2 {
		t.Fatalf("expected 2 edited files, got %d", len(result.EditedFiles))
	}

	data, err := os.ReadFile(filepath.Join(root, "mod2.py"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "def test():\n    return 1\n" {
		t.Fatalf("unexpected mod2 content: %q", data)
	}
}

func TestMoveCmdExecuteMissingRootErrors(t *testing.T) {
	cmd := &MoveCmd{RootPath: filepath.Join(t.TempDir(), "nope"), ModuleStart: "mod1", Line: 1, Column: 1, ModuleEnd: "mod2"}
	ctx := context.Background()
	if _, err := cmd.execute(&Globals{}, ctx, testLogger()); err == nil {
		t.Fatal("expected error for missing root path")
	}
}

func TestRequirementStringFormatsFromImport(t *testing.T) {
	spec := importmatch.ImportSpec{Kind: importmatch.FromImportKind, Module: importmatch.ParseModuleName("pkg.sub"), Name: "thing"}
	got := requirementString(symbol.RequirementEntry{LocalName: "thing", Spec: spec})
	want := "from pkg.sub import thing"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRequirementStringFormatsPlainImport(t *testing.T) {
	spec := importmatch.ImportSpec{Kind: importmatch.PlainImport, Segments: importmatch.ParseModuleName("pkg.sub")}
	got := requirementString(symbol.RequirementEntry{LocalName: "sub", Spec: spec})
	want := "import pkg.sub"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
