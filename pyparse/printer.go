package pyparse

import "pymove/cst"

// Print renders a cst.Module back to source text. Opaque statements
// (cst.RawStmt) and def/class headers and bodies come back verbatim;
// imports and (annotated) assignments are re-emitted in a normalized
// form (`import a, b`, `x = value`, `x: T = value`), so their original
// spacing is not kept, and a trailing comment on an import line comes
// back on its own line. Blank lines between top-level statements come
// back empty. Statements carrying pending cst.Ref rewrites
// render with those rewrites spliced in.
func Print(mod *cst.Module) string {
	out := ""
	for _, stmt := range mod.Body {
		out += printTrivia(trivia(stmt))
		out += printStmt(stmt) + "\n"
	}
	return out
}

func trivia(stmt cst.Stmt) cst.Trivia {
	switch s := stmt.(type) {
	case *cst.ImportStmt:
		return s.Trivia
	case *cst.ImportFromStmt:
		return s.Trivia
	case *cst.FunctionDef:
		return s.Trivia
	case *cst.ClassDef:
		return s.Trivia
	case *cst.AssignStmt:
		return s.Trivia
	case *cst.AnnAssignStmt:
		return s.Trivia
	case *cst.RawStmt:
		return s.Trivia
	default:
		return cst.Trivia{}
	}
}

func printTrivia(t cst.Trivia) string {
	out := ""
	for i := 0; i < t.LeadingBlankLines; i++ {
		out += "\n"
	}
	for _, c := range t.LeadingComments {
		out += c + "\n"
	}
	return out
}

func printStmt(stmt cst.Stmt) string {
	switch s := stmt.(type) {
	case *cst.ImportStmt:
		return printImport(s)
	case *cst.ImportFromStmt:
		return printImportFrom(s)
	case *cst.FunctionDef:
		return printBlock(s.HeaderText, s.RenderBody())
	case *cst.ClassDef:
		return printBlock(s.HeaderText, s.RenderBody())
	case *cst.AssignStmt:
		return printAssign(s)
	case *cst.AnnAssignStmt:
		return printAnnAssign(s)
	case *cst.RawStmt:
		return s.Render()
	default:
		return ""
	}
}

func printImport(s *cst.ImportStmt) string {
	out := "import "
	for i, n := range s.Names {
		if i > 0 {
			out += ", "
		}
		out += n.String()
	}
	return out
}

func printImportFrom(s *cst.ImportFromStmt) string {
	out := "from " + s.Module.String() + " import "
	if s.IsWildcard {
		return out + "*"
	}
	for i, n := range s.Names {
		if i > 0 {
			out += ", "
		}
		out += n.String()
	}
	return out
}

func printBlock(header, body string) string {
	if body == "" {
		return header
	}
	return header + "\n" + body
}

func printAssign(s *cst.AssignStmt) string {
	out := ""
	for i, t := range s.Targets {
		if i > 0 {
			out += " = "
		}
		out += t.String()
	}
	return out + " = " + s.RenderValue()
}

func printAnnAssign(s *cst.AnnAssignStmt) string {
	out := s.Target.String() + ": " + s.AnnotationText
	if s.HasValue {
		out += " = " + s.RenderValue()
	}
	return out
}
