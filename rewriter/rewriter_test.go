package rewriter

import (
	"testing"

	"pymove/importmatch"
	"pymove/pyparse"
	"pymove/scope"
)

func motion(origin, dest, sym string) Motion {
	return Motion{
		Origin:      importmatch.ParseModuleName(origin),
		Destination: importmatch.ParseModuleName(dest),
		Symbol:      sym,
	}
}

func render(t *testing.T, src string, m Motion) string {
	t.Helper()
	mod, err := pyparse.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ix := scope.Build(mod)
	Rewrite(mod, ix, m)
	return pyparse.Print(mod)
}

func TestS3ThirdModuleFromImport(t *testing.T) {
	got := render(t, "from mod1 import test\nx = test()\n", motion("mod1", "mod2", "test"))
	want := "from mod2 import test\nx = test()\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestS4ThirdModuleAbsoluteImportRewrite(t *testing.T) {
	got := render(t, "import mod1\ny = mod1.test()\n", motion("mod1", "mod2", "test"))
	want := "import mod1\nfrom mod2 import test\ny = test()\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestS5MultiAliasSplit(t *testing.T) {
	got := render(t, "from mod1 import test, y\nx = test()\nz = y\n", motion("mod1", "mod2", "test"))
	want := "from mod1 import y\nfrom mod2 import test\nx = test()\nz = y\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestS6MergeIntoExistingDestinationImport(t *testing.T) {
	got := render(t, "from mod1 import test\nfrom mod2 import y\nx = test()\nz = y\n", motion("mod1", "mod2", "test"))
	want := "from mod2 import y, test\nx = test()\nz = y\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRewriteIsIdempotent(t *testing.T) {
	src := "from mod1 import test\nx = test()\n"
	m := motion("mod1", "mod2", "test")
	mod, err := pyparse.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ix := scope.Build(mod)
	Rewrite(mod, ix, m)
	once := pyparse.Print(mod)

	mod2, err := pyparse.Parse([]byte(once))
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	ix2 := scope.Build(mod2)
	Rewrite(mod2, ix2, m)
	twice := pyparse.Print(mod2)

	if once != twice {
		t.Fatalf("rewrite not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}
