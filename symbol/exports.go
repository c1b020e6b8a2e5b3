package symbol

import (
	"strings"

	"pymove/cst"
)

// ExportSet is spec.md §3's ExportSet.
type ExportSet map[string]bool

// Contains reports whether name is exported.
func (e ExportSet) Contains(name string) bool { return e[name] }

// GatherExports scans mod for `__all__` assignments in any of the
// forms spec.md §3 lists (`= [..]`, `= (..)`, `= {..}`, `+= [..]`, or
// tuple-destructuring where one target is `__all__`) and collects the
// statically-evaluable string literals they list. Computed expressions
// are silently ignored, matching pyro's GatherExportsVisitor, which
// only descends into SimpleString/ConcatenatedString nodes.
func GatherExports(mod *cst.Module) ExportSet {
	set := ExportSet{}
	for _, stmt := range mod.Body {
		switch s := stmt.(type) {
		case *cst.AssignStmt:
			if !targetsAll(s.Targets) {
				continue
			}
			for _, lit := range extractStringLiterals(s.RenderValue()) {
				set[lit] = true
			}
		case *cst.RawStmt:
			text := strings.TrimSpace(s.Render())
			if !strings.HasPrefix(text, "__all__") {
				continue
			}
			rest := strings.TrimSpace(text[len("__all__"):])
			if !strings.HasPrefix(rest, "+=") {
				continue
			}
			for _, lit := range extractStringLiterals(rest[len("+="):]) {
				set[lit] = true
			}
		}
	}
	return set
}

func targetsAll(targets []*cst.Target) bool {
	for _, t := range targets {
		if t.Name != nil && t.Name.Lexeme == "__all__" {
			return true
		}
		if t.Compound && strings.Contains(t.Text, "__all__") {
			return true
		}
	}
	return false
}

// extractStringLiterals scans raw text for quoted string literals,
// merging adjacent (whitespace-only-separated) literals the way
// Python's implicit string concatenation would, and returns each
// resulting name.
func extractStringLiterals(text string) []string {
	var names []string
	var current strings.Builder
	i := 0
	for i < len(text) {
		c := text[i]
		if c == '"' || c == '\'' {
			quote := c
			i++
			start := i
			for i < len(text) && text[i] != quote {
				if text[i] == '\\' {
					i++
				}
				i++
			}
			current.WriteString(text[start:min(i, len(text))])
			if i < len(text) {
				i++ // closing quote
			}
			j := i
			for j < len(text) && (text[j] == ' ' || text[j] == '\t' || text[j] == '\n') {
				j++
			}
			if j < len(text) && (text[j] == '"' || text[j] == '\'') {
				i = j
				continue
			}
			if current.Len() > 0 {
				names = append(names, current.String())
				current.Reset()
			}
			continue
		}
		i++
	}
	return names
}
