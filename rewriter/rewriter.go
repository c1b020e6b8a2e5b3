// Package rewriter implements the Import Rewriter (spec.md §4.3,
// ReplaceImport): given a motion, it updates one module that is
// neither the motion's source nor its destination so that every site
// referencing the moved symbol through its old path keeps working
// through the new one.
//
// Grounded almost literally on pyro's refactorings/imports.py
// ReplaceImport CSTTransformer — _get_old_import / leave_Attribute /
// leave_Name / leave_Module's deferred should_add_import append — but
// expressed over this package's flat Ref chains instead of a nested
// Attribute tree (see importmatch's doc comment for why that
// simplification is sound here).
package rewriter

import (
	"pymove/cst"
	"pymove/importmatch"
	"pymove/lexer"
	"pymove/scope"
)

// Motion names one symbol relocation: sym moves from origin to
// destination.
type Motion struct {
	Origin      importmatch.ModuleName
	Destination importmatch.ModuleName
	Symbol      string
}

// FromPath is the symbol's path before the motion.
func (m Motion) FromPath() importmatch.ModuleName { return m.Origin.WithSymbol(m.Symbol) }

// ToPath is the symbol's path after the motion.
func (m Motion) ToPath() importmatch.ModuleName { return m.Destination.WithSymbol(m.Symbol) }

// Rewrite applies motion to mod, using ix (built from mod before any
// mutation this call makes) to find the assignments and accesses that
// need updating. It reports whether anything changed, which the
// caller uses to decide whether to re-run the Dead-Import Sweeper
// (spec.md §4.5 step 6).
func Rewrite(mod *cst.Module, ix *scope.Index, motion Motion) bool {
	fromPath := motion.FromPath()
	didUpdate := false
	shouldAddImport := false

	newBody := make([]cst.Stmt, 0, len(mod.Body))
	for _, stmt := range mod.Body {
		fromImp, ok := stmt.(*cst.ImportFromStmt)
		if !ok || fromImp.IsWildcard {
			newBody = append(newBody, stmt)
			continue
		}
		moduleName := importmatch.ParseModuleName(fromImp.Module.String())
		var keep []*cst.ImportName
		matched := false
		for _, in := range fromImp.Names {
			if importmatch.IsImportOfFrom(moduleName, in.Name.Lexeme, fromPath) {
				matched = true
				didUpdate = true
				continue
			}
			keep = append(keep, in)
		}
		if !matched {
			newBody = append(newBody, stmt)
			continue
		}
		shouldAddImport = true
		if len(keep) > 0 {
			fromImp.Names = keep
			newBody = append(newBody, fromImp)
		}
		// else: the whole statement is dropped — sym was its sole alias.
	}
	mod.Body = newBody

	// Plain-import accesses (`import origin...`, referenced as
	// `origin....sym`): splice the matching access chains to the bare
	// name. The import statement itself is left alone — spec.md §4.3
	// case 3 notes it "disappears iff it has no other use", which the
	// Dead-Import Sweeper's zero-references rule already handles once
	// this splice removes its last reference. Chain is rewritten too,
	// not just Replacement: the orchestrator rebuilds the scope index
	// straight off this same tree (spec.md §4.5 step 6) rather than
	// reprinting and reparsing it first, and resolve() (scope/index.go)
	// reads Segments() off Chain — leaving Chain pointed at the old
	// `origin.sym` path would make the rebuilt index resolve this access
	// to the dead plain import instead of the new from-import, which is
	// exactly backwards for the Sweeper's liveness count.
	for _, a := range ix.Assignments {
		if a.Kind != scope.ImportAssignment {
			continue
		}
		if _, isPlain := a.Stmt.(*cst.ImportStmt); !isPlain {
			continue
		}
		for _, acc := range ix.AssignmentRefs[a] {
			chain := importmatch.ModuleName(acc.Ref.Segments())
			if importmatch.IsImportOfPlain(chain, fromPath) {
				acc.Ref.Replacement = motion.Symbol
				acc.Ref.Chain = []lexer.Token{{Type: lexer.Identifier, Lexeme: motion.Symbol}}
				didUpdate = true
				shouldAddImport = true
			}
		}
	}

	if !shouldAddImport {
		return didUpdate
	}
	AddImportSpec(mod, importmatch.ImportSpec{Kind: importmatch.FromImportKind, Module: motion.Destination, Name: motion.Symbol})
	return true
}

// AddImportSpec inserts spec into mod, satisfying should_add_import
// (spec.md §4.3) and its generalization to the requirement imports the
// Move Orchestrator adds in its destination module (spec.md §4.5 step
// 5): a FromImport is folded into an existing `from` statement of the
// same module, and a PlainImport into the first existing `import`
// statement whatever paths it already lists; only when no such
// statement exists is a brand-new one appended at the end of the
// import block.
// Used both by Rewrite (FromImport, no alias) and by the move package
// (arbitrary lifted ImportSpec, including PlainImport and aliases).
func AddImportSpec(mod *cst.Module, spec importmatch.ImportSpec) {
	bound := spec.BoundName()
	switch spec.Kind {
	case importmatch.FromImportKind:
		for _, stmt := range mod.Body {
			fromImp, ok := stmt.(*cst.ImportFromStmt)
			if !ok || fromImp.IsWildcard {
				continue
			}
			if !importmatch.ParseModuleName(fromImp.Module.String()).Equal(spec.Module) {
				continue
			}
			for _, in := range fromImp.Names {
				if in.BoundName() == bound {
					return // already satisfied inline
				}
			}
			fromImp.Names = append(fromImp.Names, syntheticFromImportName(spec.Name, spec.Alias))
			return
		}
		insertAt := importBlockEnd(mod)
		newStmt := &cst.ImportFromStmt{
			Module: syntheticDottedName(spec.Module),
			Names:  []*cst.ImportName{syntheticFromImportName(spec.Name, spec.Alias)},
		}
		insertStmt(mod, insertAt, newStmt)
	case importmatch.PlainImport:
		for _, stmt := range mod.Body {
			imp, ok := stmt.(*cst.ImportStmt)
			if !ok {
				continue
			}
			for _, in := range imp.Names {
				if in.BoundName() == bound {
					return
				}
			}
			imp.Names = append(imp.Names, syntheticPlainImportName(spec.Segments, spec.Alias))
			return
		}
		insertAt := importBlockEnd(mod)
		newStmt := &cst.ImportStmt{Names: []*cst.ImportName{syntheticPlainImportName(spec.Segments, spec.Alias)}}
		insertStmt(mod, insertAt, newStmt)
	}
}

func insertStmt(mod *cst.Module, at int, stmt cst.Stmt) {
	tail := append([]cst.Stmt{}, mod.Body[at:]...)
	mod.Body = append(append(mod.Body[:at:at], stmt), tail...)
}

// importBlockEnd returns the index just past the maximal leading run
// of import statements (spec.md §4.3's import-block partition).
func importBlockEnd(mod *cst.Module) int {
	i := 0
	for i < len(mod.Body) {
		switch mod.Body[i].(type) {
		case *cst.ImportStmt, *cst.ImportFromStmt:
			i++
		default:
			return i
		}
	}
	return i
}

func syntheticFromImportName(name, alias string) *cst.ImportName {
	in := &cst.ImportName{Name: lexer.Token{Type: lexer.Identifier, Lexeme: name}}
	if alias != "" {
		tok := lexer.Token{Type: lexer.Identifier, Lexeme: alias}
		in.AsName = &tok
	}
	return in
}

func syntheticPlainImportName(segments importmatch.ModuleName, alias string) *cst.ImportName {
	in := &cst.ImportName{Path: syntheticDottedName(segments)}
	if alias != "" {
		tok := lexer.Token{Type: lexer.Identifier, Lexeme: alias}
		in.AsName = &tok
	}
	return in
}

func syntheticDottedName(m importmatch.ModuleName) *cst.DottedName {
	names := make([]lexer.Token, len(m))
	for i, seg := range m {
		names[i] = lexer.Token{Type: lexer.Identifier, Lexeme: seg}
	}
	return &cst.DottedName{Names: names}
}
