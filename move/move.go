// Package move implements the Move Orchestrator (spec.md §4.5), the
// seven-step pipeline that glues the Import Matcher, Scope/Reference
// Index, Symbol Extractor, Import Rewriter, and Dead-Import Sweeper
// together into one motion. Grounded on topple's compiler.CompileProject
// (load → build indices → per-file pass → aggregate, first error
// aborts, no partial writes) and pyro's refactorings/move.py move(),
// generalized (per spec.md §4.5) to also run the Rewriter/Sweeper over
// every third module, which pyro's simplified version does not do.
package move

import (
	"log/slog"
	"sort"

	"pymove/cst"
	"pymove/importmatch"
	"pymove/internal/layout"
	"pymove/lexer"
	"pymove/project"
	"pymove/rewriter"
	"pymove/scope"
	"pymove/sweeper"
	"pymove/symbol"
)

// EditedFile names one file a motion touched, matching §6's JSON
// result shape. Location is always 0 — the core exposes no
// finer-grained position for a whole-file rewrite.
type EditedFile struct {
	Filename string
	Location int
}

// Result is the orchestrator's success record.
type Result struct {
	EditedFiles []EditedFile
}

// Execute runs motion against proj, the project's module cache, and
// persists every touched module in one terminal pass. On any error
// prior to persistence, nothing is written (spec.md §4.5's "failure
// during any step prior to persistence leaves the filesystem
// untouched").
func Execute(proj *layout.Project, motion project.Motion, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("motion", motion.ID.String())

	// Step 1: load source and destination.
	source, err := proj.Load(motion.Origin)
	if err != nil {
		return nil, err
	}
	dest, err := proj.CreateDestination(motion.Destination)
	if err != nil {
		return nil, err
	}

	// Step 2: gather source's export set.
	sourceExports := symbol.GatherExports(source.Tree)

	// Step 3: build scope index on source, run the Extractor.
	sourceIx := scope.Build(source.Tree)
	pos := lexer.Position{Line: motion.Line, Column: motion.Column}
	extracted, err := symbol.Extract(source.Tree, sourceIx, pos, motion.Origin)
	if err != nil {
		return nil, err
	}
	log.Info("extracted symbol", "name", extracted.Name, "kind", extracted.Kind.String())

	// The symbol's name is discovered by Extract, not supplied by the
	// caller: spec.md §6's command only gives (line, column).
	sym := extracted.Name

	// Step 4: add the re-export stub in source, then sweep it.
	rewriter.AddImportSpec(source.Tree, importmatch.ImportSpec{
		Kind:   importmatch.FromImportKind,
		Module: motion.Destination,
		Name:   sym,
	})
	sourceIx = scope.Build(source.Tree)
	sweeper.Sweep(source.Tree, sourceIx, sourceExports)
	proj.Touch(motion.Origin)

	// Step 5: add requirement imports and append the body in
	// destination, per §4.6's blank-line formatter.
	for _, req := range dedupRequirements(extracted.Requirements) {
		rewriter.AddImportSpec(dest.Tree, req.Spec)
	}
	appendBody(dest.Tree, extracted.Stmt)
	proj.Touch(motion.Destination)

	// Step 6: rewrite (and conditionally sweep) every other module.
	rewriteMotion := rewriter.Motion{Origin: motion.Origin, Destination: motion.Destination, Symbol: sym}
	others, err := proj.Layout.AllModuleNames()
	if err != nil {
		return nil, err
	}
	sort.Slice(others, func(i, j int) bool { return others[i].Less(others[j]) })
	for _, name := range others {
		if name.Equal(motion.Origin) || name.Equal(motion.Destination) {
			continue
		}
		m, err := proj.Load(name)
		if err != nil {
			return nil, err
		}
		exports := symbol.GatherExports(m.Tree)
		ix := scope.Build(m.Tree)
		if !rewriter.Rewrite(m.Tree, ix, rewriteMotion) {
			continue
		}
		ix = scope.Build(m.Tree)
		sweeper.Sweep(m.Tree, ix, exports)
		proj.Touch(name)
	}

	// Step 7: persist.
	written, err := proj.Persist()
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, name := range written {
		result.EditedFiles = append(result.EditedFiles, EditedFile{Filename: name, Location: 0})
	}
	return result, nil
}

// appendBody appends stmt to the end of dest's body as spec.md §4.6's
// Destination Insertion Formatter: two blank lines separate it from
// existing content, zero if dest was empty (no prior statement to
// separate from).
func appendBody(dest *cst.Module, stmt cst.Stmt) {
	if len(dest.Body) == 0 {
		cst.SetLeadingBlankLines(stmt, 0)
	} else {
		cst.SetLeadingBlankLines(stmt, 2)
	}
	dest.Body = append(dest.Body, stmt)
}

// dedupRequirements removes entries whose ImportSpec is canonically
// equal to one already seen (spec.md §4.5 step 5), preserving
// insertion order.
func dedupRequirements(reqs []symbol.RequirementEntry) []symbol.RequirementEntry {
	var out []symbol.RequirementEntry
	for _, r := range reqs {
		dup := false
		for _, seen := range out {
			if seen.Spec.Equal(r.Spec) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	return out
}
