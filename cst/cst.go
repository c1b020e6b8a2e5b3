// Package cst defines the lossless concrete syntax tree the refactoring
// core operates on. It models exactly the subset of module-level Python
// syntax spec.md's data model (§3) names — imports, function/class
// defs, simple and annotated assignment — plus a catch-all statement
// kind that preserves anything else verbatim, including leading blank
// lines and comments, so unrelated code round-trips untouched.
//
// The full recursive-descent parser/printer that produces and consumes
// this tree is an external collaborator per spec.md §1/§6 (see
// pyparse); this package only defines the shape.
package cst

import "pymove/lexer"

// Node is the base interface every tree element satisfies.
type Node interface {
	Span() lexer.Span
	String() string
}

// Stmt is a top-level (module-body) or nested statement.
type Stmt interface {
	Node
	isStmt()
}

// Trivia is the whitespace/comment prefix a statement carries, kept so
// insertion/removal never disturbs unrelated formatting.
type Trivia struct {
	LeadingBlankLines int
	LeadingComments   []string
}

// Module is the root of one file's tree.
type Module struct {
	Body  []Stmt
	Span_ lexer.Span
}

func (m *Module) isStmt()          {}
func (m *Module) Span() lexer.Span { return m.Span_ }
func (m *Module) String() string   { return "Module" }

// DottedName is an ordered sequence of identifier segments, e.g. a.b.c.
type DottedName struct {
	Names []lexer.Token
	Span_ lexer.Span
}

func (d *DottedName) Span() lexer.Span { return d.Span_ }
func (d *DottedName) String() string {
	s := ""
	for i, n := range d.Names {
		if i > 0 {
			s += "."
		}
		s += n.Lexeme
	}
	return s
}

// Segments returns the plain string segments of the dotted name.
func (d *DottedName) Segments() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.Names))
	for i, n := range d.Names {
		out[i] = n.Lexeme
	}
	return out
}

// ImportName is one alias within an import statement's name list:
// `a.b.c` or `a.b.c as alias` (Import), or `name` / `name as alias`
// (ImportFrom).
type ImportName struct {
	Path   *DottedName // for ImportStmt entries; nil for ImportFrom
	Name   lexer.Token // for ImportFrom entries; zero value for ImportStmt
	AsName *lexer.Token
	Trivia Trivia
	Span_  lexer.Span
}

func (i *ImportName) Span() lexer.Span { return i.Span_ }
func (i *ImportName) String() string {
	base := ""
	if i.Path != nil {
		base = i.Path.String()
	} else {
		base = i.Name.Lexeme
	}
	if i.AsName != nil {
		return base + " as " + i.AsName.Lexeme
	}
	return base
}

// BoundName returns the local identifier this import alias binds.
func (i *ImportName) BoundName() string {
	if i.AsName != nil {
		return i.AsName.Lexeme
	}
	if i.Path != nil {
		return i.Path.Names[0].Lexeme
	}
	return i.Name.Lexeme
}

// ImportStmt represents `import a.b.c[, d.e as f, ...]`.
type ImportStmt struct {
	Names  []*ImportName
	Trivia Trivia
	Span_  lexer.Span
}

func (s *ImportStmt) isStmt()          {}
func (s *ImportStmt) Span() lexer.Span { return s.Span_ }
func (s *ImportStmt) String() string   { return "ImportStmt" }

// ImportFromStmt represents `from a.b import c[, d as e, ...]` or
// `from a.b import *`. Relative imports (leading dots) are not
// modeled: spec.md's ModuleName data model has no dot-count concept,
// and the core only ever emits absolute imports (see DESIGN.md).
type ImportFromStmt struct {
	Module     *DottedName
	Names      []*ImportName
	IsWildcard bool
	Trivia     Trivia
	Span_      lexer.Span
}

func (s *ImportFromStmt) isStmt()          {}
func (s *ImportFromStmt) Span() lexer.Span { return s.Span_ }
func (s *ImportFromStmt) String() string   { return "ImportFromStmt" }

// Ref is a single qualified-name occurrence (a bare name or a dotted
// attribute chain) found inside some statement's textual content. It
// doubles as the scope package's Access node. Chain holds the dotted
// segments in source order; Start/End are byte offsets into the
// owning statement's Text field, used to splice in a replacement at
// print time without disturbing anything else in that statement.
type Ref struct {
	Chain       []lexer.Token
	Start, End  int
	Replacement string // empty: no rewrite pending
}

// Segments returns the chain's plain string segments.
func (r *Ref) Segments() []string {
	out := make([]string, len(r.Chain))
	for i, t := range r.Chain {
		out[i] = t.Lexeme
	}
	return out
}

func (r *Ref) Span() lexer.Span {
	if len(r.Chain) == 0 {
		return lexer.Span{}
	}
	return lexer.Span{Start: r.Chain[0].Span.Start, End: r.Chain[len(r.Chain)-1].Span.End}
}
func (r *Ref) String() string {
	s := ""
	for i, seg := range r.Segments() {
		if i > 0 {
			s += "."
		}
		s += seg
	}
	return s
}

// renderText applies any pending Ref replacements to text, splicing
// from the end of the string backwards so offsets stay valid.
func renderText(text string, refs []*Ref) string {
	type edit struct {
		start, end int
		repl       string
	}
	var edits []edit
	for _, r := range refs {
		if r.Replacement != "" {
			edits = append(edits, edit{r.Start, r.End, r.Replacement})
		}
	}
	if len(edits) == 0 {
		return text
	}
	// sort by start descending so splices don't invalidate later offsets
	for i := 1; i < len(edits); i++ {
		for j := i; j > 0 && edits[j].start > edits[j-1].start; j-- {
			edits[j], edits[j-1] = edits[j-1], edits[j]
		}
	}
	out := text
	for _, e := range edits {
		out = out[:e.start] + e.repl + out[e.end:]
	}
	return out
}

// RawStmt is the catch-all statement kind: its source text is kept
// verbatim except for any targeted Ref rewrites the Import Rewriter
// records. Used for top-level statements the core doesn't need to
// structurally understand; function/class bodies carry their own
// BodyText/BodyRefs instead (see FunctionDef/ClassDef.RenderBody),
// spliced the same way.
type RawStmt struct {
	Text   string
	Refs   []*Ref
	Trivia Trivia
	Span_  lexer.Span
}

func (s *RawStmt) isStmt()          {}
func (s *RawStmt) Span() lexer.Span { return s.Span_ }
func (s *RawStmt) String() string   { return "RawStmt(" + s.Text + ")" }

// Render returns the statement's text with any pending rewrites applied.
func (s *RawStmt) Render() string { return renderText(s.Text, s.Refs) }

// Target is an assignment target: either a bare Name or something the
// core treats as unsupported for extraction (tuple/list unpacking,
// attribute/subscript targets).
type Target struct {
	Name     *lexer.Token // non-nil for a bare-name target
	Compound bool         // true: not a single bare name (unpacking, attribute, subscript)
	Text     string       // raw source text of the target, always set
	Span_    lexer.Span
}

func (t *Target) Span() lexer.Span { return t.Span_ }
func (t *Target) String() string {
	if t.Name != nil {
		return t.Name.Lexeme
	}
	return t.Text
}

// AssignStmt represents `t1[ = t2 ...] = value`.
type AssignStmt struct {
	Targets    []*Target
	ValueText  string
	ValueRefs  []*Ref
	Trivia     Trivia
	Span_      lexer.Span
}

func (s *AssignStmt) isStmt()          {}
func (s *AssignStmt) Span() lexer.Span { return s.Span_ }
func (s *AssignStmt) String() string   { return "AssignStmt" }

// SoleBareTarget returns the single bare-name target spec.md's
// SimpleAssign kind requires, or nil if the statement has more than
// one target or a non-bare-name target.
func (s *AssignStmt) SoleBareTarget() *lexer.Token {
	if len(s.Targets) != 1 {
		return nil
	}
	return s.Targets[0].Name
}

// RenderValue returns the RHS text with any pending rewrites applied.
func (s *AssignStmt) RenderValue() string { return renderText(s.ValueText, s.ValueRefs) }

// AnnAssignStmt represents `target: type[ = value]`.
type AnnAssignStmt struct {
	Target             *Target
	AnnotationText     string
	AnnotationIsString bool // `x: "Foo"` — a string-literal annotation
	HasValue           bool
	ValueText          string
	ValueRefs          []*Ref
	Trivia             Trivia
	Span_              lexer.Span
}

func (s *AnnAssignStmt) isStmt()          {}
func (s *AnnAssignStmt) Span() lexer.Span { return s.Span_ }
func (s *AnnAssignStmt) String() string   { return "AnnAssignStmt" }

func (s *AnnAssignStmt) RenderValue() string { return renderText(s.ValueText, s.ValueRefs) }

// FunctionDef represents a `def name(...): ...` statement. The body is
// kept as raw text (BodyText) plus the flat set of qualified
// references found anywhere inside it (BodyRefs): read by the Symbol
// Extractor's requirement collection, fed into scope.Build's Access
// graph like any other statement's refs, and spliced back in at print
// time by RenderBody so a rewriter.Rewrite hit inside a body actually
// lands in the emitted source.
type FunctionDef struct {
	Name       lexer.Token
	Parameters []string // parameter names, excluded from requirement collection
	HeaderText string    // `def name(...):` line, verbatim
	BodyText   string
	BodyRefs   []*Ref
	Locals     map[string]bool // names locally assigned inside the body (best-effort)
	Trivia     Trivia
	Span_      lexer.Span
}

func (s *FunctionDef) isStmt()          {}
func (s *FunctionDef) Span() lexer.Span { return s.Span_ }
func (s *FunctionDef) String() string   { return "FunctionDef(" + s.Name.Lexeme + ")" }

// RenderBody returns BodyText with any pending BodyRefs rewrites
// applied — the same splice RawStmt.Render and the *Assign statements'
// RenderValue do, needed here too since scope.Build feeds BodyRefs into
// the same Access graph rewriter.Rewrite mutates (see DESIGN.md).
func (s *FunctionDef) RenderBody() string { return renderText(s.BodyText, s.BodyRefs) }

// ClassDef represents a `class name(...): ...` statement, modeled the
// same way as FunctionDef.
type ClassDef struct {
	Name       lexer.Token
	HeaderText string
	BodyText   string
	BodyRefs   []*Ref
	Locals     map[string]bool
	Trivia     Trivia
	Span_      lexer.Span
}

func (s *ClassDef) isStmt()          {}
func (s *ClassDef) Span() lexer.Span { return s.Span_ }
func (s *ClassDef) String() string   { return "ClassDef(" + s.Name.Lexeme + ")" }

// RenderBody returns BodyText with any pending BodyRefs rewrites
// applied. See FunctionDef.RenderBody.
func (s *ClassDef) RenderBody() string { return renderText(s.BodyText, s.BodyRefs) }

// LeadingBlankLines reports a statement's leading blank-line count,
// used by the Destination Insertion Formatter (spec.md §4.6).
func LeadingBlankLines(s Stmt) int {
	switch t := s.(type) {
	case *ImportStmt:
		return t.Trivia.LeadingBlankLines
	case *ImportFromStmt:
		return t.Trivia.LeadingBlankLines
	case *FunctionDef:
		return t.Trivia.LeadingBlankLines
	case *ClassDef:
		return t.Trivia.LeadingBlankLines
	case *AssignStmt:
		return t.Trivia.LeadingBlankLines
	case *AnnAssignStmt:
		return t.Trivia.LeadingBlankLines
	case *RawStmt:
		return t.Trivia.LeadingBlankLines
	default:
		return 0
	}
}

// SetLeadingBlankLines overwrites a statement's leading blank-line
// count in place.
func SetLeadingBlankLines(s Stmt, n int) {
	switch t := s.(type) {
	case *ImportStmt:
		t.Trivia.LeadingBlankLines = n
	case *ImportFromStmt:
		t.Trivia.LeadingBlankLines = n
	case *FunctionDef:
		t.Trivia.LeadingBlankLines = n
	case *ClassDef:
		t.Trivia.LeadingBlankLines = n
	case *AssignStmt:
		t.Trivia.LeadingBlankLines = n
	case *AnnAssignStmt:
		t.Trivia.LeadingBlankLines = n
	case *RawStmt:
		t.Trivia.LeadingBlankLines = n
	}
}
