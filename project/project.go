// Package project holds the orchestrator's data model (spec.md §3):
// Module, the mutable (tree, history) pair every visitor rewrites in
// place of, and Motion, the orchestrator's unit of work. ModuleName
// itself lives in importmatch (see that package's doc comment for
// why); this package just consumes it.
package project

import (
	"github.com/google/uuid"

	"pymove/cst"
	"pymove/importmatch"
)

// Module is a mutable (tree, history) pair (spec.md §3): Set pushes
// the prior tree into History before installing a new one, so the
// revision count is observable. The orchestrator is the sole owner of
// a Module's Tree during a motion; the extractor, rewriter and sweeper
// edit that tree in place and the orchestrator does not call Set, so
// those in-place edits are not recorded in History.
type Module struct {
	Name    importmatch.ModuleName
	Tree    *cst.Module
	History []*cst.Module
}

// NewModule wraps an already-parsed tree as revision zero.
func NewModule(name importmatch.ModuleName, tree *cst.Module) *Module {
	return &Module{Name: name, Tree: tree}
}

// Set installs a new tree, pushing the current one into History.
func (m *Module) Set(tree *cst.Module) {
	m.History = append(m.History, m.Tree)
	m.Tree = tree
}

// Revisions reports how many times Set has been called.
func (m *Module) Revisions() int { return len(m.History) }

// Motion is one invocation of the move command (spec.md §3's
// glossary entry): relocate Symbol from Origin to Destination, where
// Symbol was found at (Line, Column) in Origin. ID is a UUID used as
// a log-correlation id across the orchestrator's pipeline steps.
type Motion struct {
	ID          uuid.UUID
	Origin      importmatch.ModuleName
	Destination importmatch.ModuleName
	Symbol      string
	Line        int
	Column      int
}

// NewMotion builds a Motion with a freshly generated ID.
func NewMotion(origin, destination importmatch.ModuleName, symbol string, line, column int) Motion {
	return Motion{
		ID:          uuid.New(),
		Origin:      origin,
		Destination: destination,
		Symbol:      symbol,
		Line:        line,
		Column:      column,
	}
}
