package importmatch

import "testing"

func TestIsImportOfPlainMatchesFullAccessChain(t *testing.T) {
	path := ParseModuleName("mod1.test")
	if !IsImportOfPlain(ParseModuleName("mod1.test"), path) {
		t.Fatal("expected mod1.test access to match mod1.test")
	}
	if IsImportOfPlain(ParseModuleName("mod1"), path) {
		t.Fatal("bare 'mod1' access with no trailing should not match mod1.test")
	}
}

func TestIsImportOfFromExactMatch(t *testing.T) {
	path := ParseModuleName("mod1.test")
	if !IsImportOfFrom(ParseModuleName("mod1"), "test", path) {
		t.Fatal("expected from mod1 import test to match mod1.test")
	}
	if IsImportOfFrom(ParseModuleName("mod1"), "other", path) {
		t.Fatal("from mod1 import other should not match mod1.test")
	}
}

func TestImportSpecEqualDedup(t *testing.T) {
	a, _ := BuildFromImport(ParseModuleName("mod2"), "test")
	b, _ := BuildFromImport(ParseModuleName("mod2"), "test")
	if !a.Equal(b) {
		t.Fatal("identical FromImport specs should be equal")
	}
}

func TestBuildFromImportRejectsEmptyModule(t *testing.T) {
	if _, err := BuildFromImport(nil, "test"); err == nil {
		t.Fatal("expected error for empty module name")
	}
}
