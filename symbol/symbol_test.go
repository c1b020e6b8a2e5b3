package symbol

import (
	"errors"
	"testing"

	"pymove"
	"pymove/cst"
	"pymove/importmatch"
	"pymove/lexer"
	"pymove/pyparse"
	"pymove/scope"
)

func mustParse(t *testing.T, src string) *cst.Module {
	t.Helper()
	mod, err := pyparse.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return mod
}

func pos(line, col int) lexer.Position {
	return lexer.Position{Line: line, Column: col}
}

func TestLocateAtFunctionDef(t *testing.T) {
	mod := mustParse(t, "def test():\n    return 1\n")
	located, err := LocateAt(mod, pos(1, 5))
	if err != nil {
		t.Fatalf("LocateAt: %v", err)
	}
	if located.Kind != FunctionDef || located.Name != "test" {
		t.Fatalf("got %+v", located)
	}
}

func TestLocateAtMultiTargetAssignIsUnsupported(t *testing.T) {
	mod := mustParse(t, "test = other = 1\n")
	_, err := LocateAt(mod, pos(1, 0))
	var unsupported *pymove.UnsupportedStatementError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedStatementError, got %v", err)
	}
}

func TestExtractRemovesSymbolAndKeepsDependent(t *testing.T) {
	mod := mustParse(t, "def test():\n    return 1\nx = test()\n")
	ix := scope.Build(mod)
	origin := importmatch.ParseModuleName("mod1")
	extracted, err := Extract(mod, ix, pos(1, 5), origin)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if extracted.Name != "test" {
		t.Fatalf("got name %q", extracted.Name)
	}
	if len(mod.Body) != 1 {
		t.Fatalf("expected 1 remaining statement, got %d", len(mod.Body))
	}
}

func TestExtractLiftsImportRequirement(t *testing.T) {
	mod := mustParse(t, "from helper import build\ndef test():\n    return build()\n")
	ix := scope.Build(mod)
	origin := importmatch.ParseModuleName("mod1")
	extracted, err := Extract(mod, ix, pos(2, 5), origin)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(extracted.Requirements) != 1 {
		t.Fatalf("expected 1 requirement, got %d: %+v", len(extracted.Requirements), extracted.Requirements)
	}
	req := extracted.Requirements[0]
	if req.LocalName != "build" {
		t.Fatalf("got local name %q", req.LocalName)
	}
	if req.Spec.Kind != importmatch.FromImportKind || req.Spec.Module.String() != "helper" || req.Spec.Name != "build" {
		t.Fatalf("got spec %+v", req.Spec)
	}
}

func TestGatherExportsProtectsListedNames(t *testing.T) {
	mod := mustParse(t, "from mod1 import test, fn\n__all__ = [\"fn\", \"test\"]\n")
	exports := GatherExports(mod)
	if !exports.Contains("fn") || !exports.Contains("test") {
		t.Fatalf("expected fn and test exported, got %+v", exports)
	}
}
