package sweeper

import (
	"testing"

	"pymove/pyparse"
	"pymove/scope"
	"pymove/symbol"
)

func sweep(t *testing.T, src string) string {
	t.Helper()
	mod, err := pyparse.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ix := scope.Build(mod)
	exports := symbol.GatherExports(mod)
	Sweep(mod, ix, exports)
	return pyparse.Print(mod)
}

func TestSweepDropsZeroReferenceImport(t *testing.T) {
	got := sweep(t, "from mod1 import test\nx = 1\n")
	want := "x = 1\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSweepKeepsReferencedImport(t *testing.T) {
	src := "from mod1 import test\nx = test()\n"
	if got := sweep(t, src); got != src {
		t.Fatalf("got %q want unchanged %q", got, src)
	}
}

func TestSweepProtectsExportedName(t *testing.T) {
	src := "from mod1 import test\n__all__ = [\"test\"]\n"
	if got := sweep(t, src); got != src {
		t.Fatalf("got %q want unchanged %q", got, src)
	}
}

func TestSweepPartialMultiAliasSurvival(t *testing.T) {
	got := sweep(t, "from mod1 import test, y\nz = y\n")
	want := "from mod1 import y\nz = y\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSweepNeverPrunesWildcard(t *testing.T) {
	src := "from mod1 import *\nx = 1\n"
	if got := sweep(t, src); got != src {
		t.Fatalf("got %q want unchanged %q", got, src)
	}
}

func TestSweepDropsUnusedAliasFromPlainImportStmt(t *testing.T) {
	got := sweep(t, "import mod1, mod2\ny = mod2.test()\n")
	want := "import mod2\ny = mod2.test()\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
