// Package importmatch implements the Import Matcher (spec.md §4.1):
// structural predicates and constructors over import forms, answering
// "does this import statement make identifier X resolve to symbol S
// of module P?" without reference to any particular module's tree.
//
// It also carries ModuleName, spec.md §3's ordered-segment module
// identity type: every other package that needs to name a module
// (project, symbol, rewriter, sweeper, move) builds on this one,
// matching the dependency order spec.md §2 lays out (Import Matcher
// is the leaf).
package importmatch

import (
	"errors"
	"strings"
)

// ModuleName is a non-empty ordered sequence of identifier segments.
type ModuleName []string

// ParseModuleName splits a dotted module name into segments.
func ParseModuleName(dotted string) ModuleName {
	if dotted == "" {
		return nil
	}
	return ModuleName(strings.Split(dotted, "."))
}

func (m ModuleName) String() string { return strings.Join(m, ".") }

// Equal reports segment-wise equality.
func (m ModuleName) Equal(o ModuleName) bool {
	if len(m) != len(o) {
		return false
	}
	for i := range m {
		if m[i] != o[i] {
			return false
		}
	}
	return true
}

// Less gives ModuleName its total lexicographic order.
func (m ModuleName) Less(o ModuleName) bool {
	for i := 0; i < len(m) && i < len(o); i++ {
		if m[i] != o[i] {
			return m[i] < o[i]
		}
	}
	return len(m) < len(o)
}

// Join appends trailing segments to m, returning a new ModuleName.
func (m ModuleName) Join(trailing ...string) ModuleName {
	out := make(ModuleName, 0, len(m)+len(trailing))
	out = append(out, m...)
	out = append(out, trailing...)
	return out
}

// WithSymbol returns m with a trailing symbol name appended — the
// `origin++[sym]` / `destination++[sym]` construction spec.md §3/§4.5
// uses throughout.
func (m ModuleName) WithSymbol(sym string) ModuleName { return m.Join(sym) }

// ImportSpecKind distinguishes the two surface import forms.
type ImportSpecKind int

const (
	PlainImport ImportSpecKind = iota
	FromImportKind
)

// ImportSpec describes an import statement, preserving enough shape
// to be re-emitted (spec.md §3).
type ImportSpec struct {
	Kind     ImportSpecKind
	Segments ModuleName // PlainImport: the full dotted path, e.g. a.b.c
	Module   ModuleName // FromImportKind: the module path
	Name     string     // FromImportKind: the imported identifier
	Alias    string      // optional; empty means no "as" clause
}

// Equal compares two ImportSpecs by their canonical form, used to
// deduplicate the Move Orchestrator's requirement map (spec.md §4.5
// step 5: "deduplicated by the ImportSpec canonical form").
func (s ImportSpec) Equal(o ImportSpec) bool {
	if s.Kind != o.Kind || s.Alias != o.Alias {
		return false
	}
	if s.Kind == PlainImport {
		return s.Segments.Equal(o.Segments)
	}
	return s.Module.Equal(o.Module) && s.Name == o.Name
}

// BoundName returns the local identifier this spec binds.
func (s ImportSpec) BoundName() string {
	if s.Alias != "" {
		return s.Alias
	}
	if s.Kind == PlainImport {
		if len(s.Segments) == 0 {
			return ""
		}
		return s.Segments[0]
	}
	return s.Name
}

// BuildFromImport is the canonical FromImport constructor (§4.1
// build_from_import), used whenever the core emits a new import.
func BuildFromImport(module ModuleName, name string) (ImportSpec, error) {
	if len(module) == 0 {
		return ImportSpec{}, errors.New("importmatch: empty module name")
	}
	return ImportSpec{Kind: FromImportKind, Module: module, Name: name}, nil
}

// BuildImport is the canonical plain-Import constructor.
func BuildImport(segments ModuleName) (ImportSpec, error) {
	if len(segments) == 0 {
		return ImportSpec{}, errors.New("importmatch: empty module name")
	}
	return ImportSpec{Kind: PlainImport, Segments: segments}, nil
}

// QualifiedChain flattens a dotted access into its segment list. The
// pyparse tree already represents qualified accesses flat (cst.Ref),
// so this is the identity function; it exists under this name to
// mirror spec.md §4.1's qualified_chain and to give callers a single
// place to reject a non-qualified access (an empty chain).
func QualifiedChain(segments []string) ([]string, bool) {
	if len(segments) == 0 {
		return nil, false
	}
	return segments, true
}

// IsImportOfPlain answers is_import_of for an `import segments...`
// statement as observed at one access site: chain is the full
// qualified chain used at that access (the bound base name plus any
// attribute hops, e.g. mod1.test), and path is the target symbol's
// full module path. A plain import only ever binds its first segment
// as a name, so the two equivalent surface forms collapse to one
// check: does this particular access's chain, read as a module path,
// name exactly the symbol being moved.
func IsImportOfPlain(chain, path ModuleName) bool {
	return chain.Equal(path)
}

// IsImportOfFrom answers is_import_of for a `from module import name`
// statement: true iff module+[name] names exactly the target path.
// from-imports bind a flat local name, so unlike the plain-import
// case there is no attribute chain to additionally match — callers
// needing to follow a further attribute hop past the bound name treat
// that hop as an ordinary access to the (already resolved) symbol.
func IsImportOfFrom(module ModuleName, name string, path ModuleName) bool {
	return module.WithSymbol(name).Equal(path)
}
