// Package scope builds the bidirectional assignment↔reference index
// spec.md §3/§9 describes: two parallel sparse maps keyed by node
// identity (here, Go pointer identity stands in for the arena index
// spec.md's design notes mention), never a cyclic pointer graph.
//
// Full nested lexical scoping (closures, comprehension scopes, class
// bodies shadowing enclosing names) is not modeled: the core's own
// concern, per spec.md §4.2, is only the reflexive-transitive subscope
// test "is this access inside the moved symbol's own scope" — which
// reduces, for the grammar subset pyparse produces, to "is the
// accessed name one of the symbol's own parameters or one of the
// names it locally assigns." Resolution beyond that is always against
// module scope. See DESIGN.md.
package scope

import "pymove/cst"

// AssignmentKind classifies what kind of node introduces a binding.
type AssignmentKind int

const (
	ImportAssignment AssignmentKind = iota
	FunctionAssignment
	ClassAssignment
	SimpleAssignAssignment
	AnnAssignAssignment
)

// Assignment is a name-introducing node (spec.md §3's Assignment).
type Assignment struct {
	Name string
	Kind AssignmentKind

	// Stmt is the owning top-level statement. For imports this is the
	// *cst.ImportStmt or *cst.ImportFromStmt; ImportName additionally
	// pins down which alias within it.
	Stmt       cst.Stmt
	ImportName *cst.ImportName
}

// Access is a use of a name (spec.md §3's Access): one qualified
// reference occurrence, tagged with the top-level statement it occurs
// in so subscope tests can be computed against it.
type Access struct {
	Ref   *cst.Ref
	Owner cst.Stmt
}

// Index is the built scope: assignments and accesses for one module,
// plus the bidirectional edges between them.
type Index struct {
	Assignments       []*Assignment
	byName            map[string]*Assignment
	byImportName      map[*cst.ImportName]*Assignment
	Accesses          []*Access
	AssignmentRefs    map[*Assignment][]*Access
	AccessReferents   map[*Access][]*Assignment
}

// Lookup returns the module-scope assignment bound to name, if any.
func (ix *Index) Lookup(name string) (*Assignment, bool) {
	a, ok := ix.byName[name]
	return a, ok
}

// ForImportName returns the assignment for one specific import alias.
func (ix *Index) ForImportName(in *cst.ImportName) (*Assignment, bool) {
	a, ok := ix.byImportName[in]
	return a, ok
}

// References returns every access that resolves to assignment a.
func (ix *Index) References(a *Assignment) []*Access {
	return ix.AssignmentRefs[a]
}

// Build walks mod and produces its scope/reference index.
func Build(mod *cst.Module) *Index {
	ix := &Index{
		byName:          map[string]*Assignment{},
		byImportName:    map[*cst.ImportName]*Assignment{},
		AssignmentRefs:  map[*Assignment][]*Access{},
		AccessReferents: map[*Access][]*Assignment{},
	}
	for _, stmt := range mod.Body {
		ix.collectAssignments(stmt)
	}
	for _, stmt := range mod.Body {
		ix.collectAccesses(stmt)
	}
	ix.resolve()
	return ix
}

func (ix *Index) addAssignment(a *Assignment) {
	ix.Assignments = append(ix.Assignments, a)
	ix.byName[a.Name] = a
	if a.ImportName != nil {
		ix.byImportName[a.ImportName] = a
	}
}

func (ix *Index) collectAssignments(stmt cst.Stmt) {
	switch s := stmt.(type) {
	case *cst.ImportStmt:
		for _, in := range s.Names {
			ix.addAssignment(&Assignment{Name: in.BoundName(), Kind: ImportAssignment, Stmt: s, ImportName: in})
		}
	case *cst.ImportFromStmt:
		if s.IsWildcard {
			return
		}
		for _, in := range s.Names {
			ix.addAssignment(&Assignment{Name: in.BoundName(), Kind: ImportAssignment, Stmt: s, ImportName: in})
		}
	case *cst.FunctionDef:
		ix.addAssignment(&Assignment{Name: s.Name.Lexeme, Kind: FunctionAssignment, Stmt: s})
	case *cst.ClassDef:
		ix.addAssignment(&Assignment{Name: s.Name.Lexeme, Kind: ClassAssignment, Stmt: s})
	case *cst.AssignStmt:
		for _, t := range s.Targets {
			if t.Name != nil {
				ix.addAssignment(&Assignment{Name: t.Name.Lexeme, Kind: SimpleAssignAssignment, Stmt: s})
			}
		}
	case *cst.AnnAssignStmt:
		if s.Target.Name != nil {
			ix.addAssignment(&Assignment{Name: s.Target.Name.Lexeme, Kind: AnnAssignAssignment, Stmt: s})
		}
	}
}

func (ix *Index) collectAccesses(stmt cst.Stmt) {
	switch s := stmt.(type) {
	case *cst.AssignStmt:
		ix.addAccesses(s.ValueRefs, s)
	case *cst.AnnAssignStmt:
		ix.addAccesses(s.ValueRefs, s)
	case *cst.RawStmt:
		ix.addAccesses(s.Refs, s)
	case *cst.FunctionDef:
		ix.addAccesses(excludeLocal(s.BodyRefs, s.Parameters, s.Locals), s)
	case *cst.ClassDef:
		ix.addAccesses(excludeLocal(s.BodyRefs, nil, s.Locals), s)
	}
}

func excludeLocal(refs []*cst.Ref, params []string, locals map[string]bool) []*cst.Ref {
	if len(params) == 0 && len(locals) == 0 {
		return refs
	}
	localSet := map[string]bool{}
	for _, p := range params {
		localSet[p] = true
	}
	for name := range locals {
		localSet[name] = true
	}
	var out []*cst.Ref
	for _, r := range refs {
		segs := r.Segments()
		if len(segs) > 0 && localSet[segs[0]] {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (ix *Index) addAccesses(refs []*cst.Ref, owner cst.Stmt) {
	for _, r := range refs {
		ix.Accesses = append(ix.Accesses, &Access{Ref: r, Owner: owner})
	}
}

func (ix *Index) resolve() {
	for _, acc := range ix.Accesses {
		segs := acc.Ref.Segments()
		if len(segs) == 0 {
			continue
		}
		a, ok := ix.byName[segs[0]]
		if !ok {
			continue // builtin or undefined: not tracked, per spec.md §4.2 case 3
		}
		ix.AccessReferents[acc] = append(ix.AccessReferents[acc], a)
		ix.AssignmentRefs[a] = append(ix.AssignmentRefs[a], acc)
	}
}
