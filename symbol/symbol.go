// Package symbol implements the Symbol Extractor (spec.md §4.2): it
// locates the top-level symbol at a (line, column), classifies it,
// collects the external requirements its body or assigned value
// depends on (names used only on a def/class header line or in a
// variable annotation are not collected), and removes it from its
// module. It also implements ExportSet
// gathering (spec.md §3), grounded on topple's
// compiler/symbol/collector.go (location/classification/visibility)
// and pyro's refactorings/imports.py GatherExportsVisitor.
package symbol

import (
	"fmt"

	"pymove"
	"pymove/cst"
	"pymove/importmatch"
	"pymove/lexer"
	"pymove/scope"
)

// Kind mirrors spec.md §3's SymbolKind.
type Kind int

const (
	FunctionDef Kind = iota
	ClassDef
	SimpleAssign
	AnnAssign
)

func (k Kind) String() string {
	switch k {
	case FunctionDef:
		return "FunctionDef"
	case ClassDef:
		return "ClassDef"
	case SimpleAssign:
		return "SimpleAssign"
	case AnnAssign:
		return "AnnAssign"
	default:
		return "Unknown"
	}
}

// Located is the result of classifying the statement at a position.
type Located struct {
	Index int
	Kind  Kind
	Name  string
}

func loc(pos lexer.Position) pymove.Location {
	return pymove.Location{Line: pos.Line, Column: pos.Column}
}

// LocateAt walks mod's top-level block and classifies the innermost
// statement covering pos, per the match table in spec.md §4.2.
func LocateAt(mod *cst.Module, pos lexer.Position) (*Located, error) {
	for i, stmt := range mod.Body {
		if !stmt.Span().Covers(pos) {
			continue
		}
		switch s := stmt.(type) {
		case *cst.FunctionDef:
			return &Located{Index: i, Kind: FunctionDef, Name: s.Name.Lexeme}, nil
		case *cst.ClassDef:
			return &Located{Index: i, Kind: ClassDef, Name: s.Name.Lexeme}, nil
		case *cst.AssignStmt:
			if t := s.SoleBareTarget(); t != nil {
				return &Located{Index: i, Kind: SimpleAssign, Name: t.Lexeme}, nil
			}
			return nil, pymove.NewUnsupportedStatementError(loc(pos), "multi-target or non-name assignment target")
		case *cst.AnnAssignStmt:
			if s.Target.Name == nil {
				return nil, pymove.NewUnsupportedStatementError(loc(pos), "non-name annotated-assignment target")
			}
			if s.AnnotationIsString {
				return nil, pymove.NewUnsupportedAnnotationError(loc(pos), s.Target.Name.Lexeme)
			}
			return &Located{Index: i, Kind: AnnAssign, Name: s.Target.Name.Lexeme}, nil
		default:
			return nil, pymove.NewUnsupportedStatementError(loc(pos), fmt.Sprintf("%s is not an extractable symbol", stmt))
		}
	}
	return nil, pymove.NewSymbolNotFoundError(loc(pos))
}

// RequirementEntry is one entry of spec.md §3's
// OrderedMap<Identifier,ImportSpec>.
type RequirementEntry struct {
	LocalName string
	Spec      importmatch.ImportSpec
}

// ExtractedSymbol is spec.md §3's ExtractedSymbol.
type ExtractedSymbol struct {
	Name         string
	Kind         Kind
	Stmt         cst.Stmt
	Requirements []RequirementEntry
	Origin       importmatch.ModuleName
}

// requirementsOf scans the statement's internal accesses (already
// indexed in ix) and translates every access whose referent is
// defined outside the symbol's own scope into an ImportSpec, per
// spec.md §4.2's three-case table.
func requirementsOf(stmt cst.Stmt, ix *scope.Index, origin importmatch.ModuleName) []RequirementEntry {
	seen := map[string]bool{}
	var out []RequirementEntry
	add := func(localName string, spec importmatch.ImportSpec) {
		if seen[localName] {
			return
		}
		seen[localName] = true
		out = append(out, RequirementEntry{LocalName: localName, Spec: spec})
	}

	for _, acc := range ix.Accesses {
		if acc.Owner != stmt {
			continue
		}
		referents := ix.AccessReferents[acc]
		for _, a := range referents {
			if a.Stmt == stmt {
				continue // reflexive: symbol referencing itself needs no import
			}
			switch a.Kind {
			case scope.ImportAssignment:
				add(a.Name, importSpecForAssignment(a))
			case scope.FunctionAssignment, scope.ClassAssignment, scope.SimpleAssignAssignment, scope.AnnAssignAssignment:
				spec, _ := importmatch.BuildFromImport(origin, a.Name)
				add(a.Name, spec)
			}
		}
	}
	return out
}

// importSpecForAssignment lifts an existing import assignment's
// shape unchanged (spec.md §4.2 case 1): a `from pkg import sub`
// propagates as-is, and `import pkg.sub.fn` referenced as
// `pkg.sub.fn` propagates unchanged as a plain import of that path.
func importSpecForAssignment(a *scope.Assignment) importmatch.ImportSpec {
	switch owner := a.Stmt.(type) {
	case *cst.ImportFromStmt:
		spec := importmatch.ImportSpec{
			Kind:   importmatch.FromImportKind,
			Module: importmatch.ParseModuleName(owner.Module.String()),
			Name:   a.ImportName.Name.Lexeme,
		}
		if a.ImportName.AsName != nil {
			spec.Alias = a.ImportName.AsName.Lexeme
		}
		return spec
	case *cst.ImportStmt:
		spec := importmatch.ImportSpec{
			Kind:     importmatch.PlainImport,
			Segments: importmatch.ModuleName(a.ImportName.Path.Segments()),
		}
		if a.ImportName.AsName != nil {
			spec.Alias = a.ImportName.AsName.Lexeme
		}
		return spec
	}
	return importmatch.ImportSpec{}
}

// Classify reports the Kind/name of one top-level statement the way
// LocateAt does per-statement, without the position test — used by
// the read-only `inspect` command (SPEC_FULL.md) to enumerate every
// extractable symbol in a module. ok is false for statements that
// aren't extractable symbols (imports, bare expressions, and the
// multi-target/tuple/string-annotation shapes LocateAt rejects).
func Classify(stmt cst.Stmt) (name string, kind Kind, ok bool) {
	switch s := stmt.(type) {
	case *cst.FunctionDef:
		return s.Name.Lexeme, FunctionDef, true
	case *cst.ClassDef:
		return s.Name.Lexeme, ClassDef, true
	case *cst.AssignStmt:
		if t := s.SoleBareTarget(); t != nil {
			return t.Lexeme, SimpleAssign, true
		}
	case *cst.AnnAssignStmt:
		if s.Target.Name != nil && !s.AnnotationIsString {
			return s.Target.Name.Lexeme, AnnAssign, true
		}
	}
	return "", 0, false
}

// Requirements exposes requirementsOf for the read-only `inspect`
// command, which reports what a symbol would require were it moved,
// without ever calling Extract or mutating mod.
func Requirements(stmt cst.Stmt, ix *scope.Index, origin importmatch.ModuleName) []RequirementEntry {
	return requirementsOf(stmt, ix, origin)
}

// Extract runs LocateAt, collects requirements, and removes the
// symbol from mod, adjusting the new first statement's leading blank
// lines per spec.md §4.2's removal rule.
func Extract(mod *cst.Module, ix *scope.Index, pos lexer.Position, origin importmatch.ModuleName) (*ExtractedSymbol, error) {
	located, err := LocateAt(mod, pos)
	if err != nil {
		return nil, err
	}
	stmt := mod.Body[located.Index]
	reqs := requirementsOf(stmt, ix, origin)

	mod.Body = append(mod.Body[:located.Index], mod.Body[located.Index+1:]...)
	dropLeadingBlankLines(mod)

	return &ExtractedSymbol{
		Name:         located.Name,
		Kind:         located.Kind,
		Stmt:         stmt,
		Requirements: reqs,
		Origin:       origin,
	}, nil
}

func dropLeadingBlankLines(mod *cst.Module) {
	if len(mod.Body) == 0 {
		return
	}
	cst.SetLeadingBlankLines(mod.Body[0], 0)
}
