package scope

import (
	"testing"

	"pymove/pyparse"
)

func TestBuildResolvesInternalDependency(t *testing.T) {
	mod, err := pyparse.Parse([]byte("def test():\n    return 1\nx = test()\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ix := Build(mod)
	fn, ok := ix.Lookup("test")
	if !ok {
		t.Fatal("expected assignment for 'test'")
	}
	if len(ix.References(fn)) != 1 {
		t.Fatalf("expected 1 reference to 'test', got %d", len(ix.References(fn)))
	}
}

func TestBuildTracksImportAliasesSeparately(t *testing.T) {
	mod, err := pyparse.Parse([]byte("from mod1 import test, y\nx = test()\nz = y\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ix := Build(mod)
	testAssign, ok := ix.Lookup("test")
	if !ok {
		t.Fatal("expected assignment for 'test'")
	}
	yAssign, ok := ix.Lookup("y")
	if !ok {
		t.Fatal("expected assignment for 'y'")
	}
	if testAssign == yAssign {
		t.Fatal("test and y must be distinct assignments")
	}
	if len(ix.References(testAssign)) != 1 || len(ix.References(yAssign)) != 1 {
		t.Fatalf("expected exactly one reference each, got test=%d y=%d",
			len(ix.References(testAssign)), len(ix.References(yAssign)))
	}
}

func TestFunctionParameterIsNotAnExternalAccess(t *testing.T) {
	mod, err := pyparse.Parse([]byte("import helper\ndef test(helper):\n    return helper\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ix := Build(mod)
	imp, ok := ix.Lookup("helper")
	if !ok {
		t.Fatal("expected import assignment for 'helper'")
	}
	if refs := ix.References(imp); len(refs) != 0 {
		t.Fatalf("parameter shadowing should exclude body access from import references, got %d", len(refs))
	}
}
