// Package sweeper implements the Dead-Import Sweeper (spec.md §4.4,
// RemoveUnusedImports): it drops imported names with zero references,
// except names an export set protects. Grounded on the export-aware
// variant in pyro's refactorings/imports.py (find_unused_imports,
// RemoveUnusedImports) rather than the older, export-blind
// refactorings/unused_imports.py — spec.md §9 calls the export-aware
// boundary "the correct semantic boundary" and directs keeping it.
package sweeper

import (
	"pymove/cst"
	"pymove/scope"
	"pymove/symbol"
)

// Sweep removes every import alias in mod with zero references that
// is not listed in exports. A statement that loses every alias is
// removed entirely; star-imports are never touched. It reports
// whether anything changed.
func Sweep(mod *cst.Module, ix *scope.Index, exports symbol.ExportSet) bool {
	changed := false
	newBody := make([]cst.Stmt, 0, len(mod.Body))
	for _, stmt := range mod.Body {
		switch s := stmt.(type) {
		case *cst.ImportStmt:
			keep := filterNames(s.Names, ix, exports, &changed)
			if len(keep) == 0 {
				changed = true
				continue
			}
			s.Names = keep
			newBody = append(newBody, s)
		case *cst.ImportFromStmt:
			if s.IsWildcard {
				newBody = append(newBody, s)
				continue
			}
			keep := filterNames(s.Names, ix, exports, &changed)
			if len(keep) == 0 {
				changed = true
				continue
			}
			s.Names = keep
			newBody = append(newBody, s)
		default:
			newBody = append(newBody, stmt)
		}
	}
	mod.Body = newBody
	return changed
}

func filterNames(names []*cst.ImportName, ix *scope.Index, exports symbol.ExportSet, changed *bool) []*cst.ImportName {
	var keep []*cst.ImportName
	for _, in := range names {
		if exports.Contains(in.BoundName()) {
			keep = append(keep, in)
			continue
		}
		a, ok := ix.ForImportName(in)
		if !ok {
			keep = append(keep, in)
			continue
		}
		if len(ix.References(a)) == 0 {
			*changed = true
			continue
		}
		keep = append(keep, in)
	}
	return keep
}
