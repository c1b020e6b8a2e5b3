// Package pyparse is the parser/printer collaborator spec.md places
// out of the core's scope (§1): it turns source bytes into a
// cst.Module and back. It implements exactly the grammar subset
// cst.Stmt models — imports, def/class headers with opaque bodies,
// simple and annotated assignment — and falls back to verbatim,
// reference-annotated opaque text (cst.RawStmt) for anything else, so
// unrelated statements and their formatting round-trip untouched.
//
// Multi-line logical statements (parenthesized continuations, line
// continuation backslashes) are not supported; every simple statement
// is exactly one physical line. This mirrors the reference tool's own
// reliance on a full grammar library (libcst) that this stand-in does
// not attempt to reproduce — see DESIGN.md.
package pyparse

import (
	"fmt"

	"pymove/cst"
	"pymove/lexer"
)

// Parse builds a cst.Module from source bytes.
func Parse(src []byte) (*cst.Module, error) {
	p := &parser{src: src, tokens: lexer.Scan(src)}
	return p.parseModule()
}

type parser struct {
	src    []byte
	tokens []lexer.Token
	pos    int
}

func (p *parser) peek() lexer.Token  { return p.tokens[p.pos] }
func (p *parser) at(t lexer.TokenType) bool { return p.peek().Type == t }
func (p *parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if tok.Type != lexer.EOF {
		p.pos++
	}
	return tok
}

func (p *parser) parseModule() (*cst.Module, error) {
	mod := &cst.Module{}
	for !p.at(lexer.EOF) {
		trivia := p.collectTrivia()
		if p.at(lexer.EOF) {
			break
		}
		if p.at(lexer.Dedent) {
			// stray dedent at module level (shouldn't happen at depth 0)
			p.advance()
			continue
		}
		stmt, err := p.parseStmt(trivia)
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			mod.Body = append(mod.Body, stmt)
		}
	}
	if len(p.src) > 0 {
		mod.Span_ = lexer.Span{
			Start: lexer.Position{Line: 1, Column: 0, Offset: 0},
			End:   lexer.Position{Line: p.tokens[len(p.tokens)-1].Span.End.Line, Column: p.tokens[len(p.tokens)-1].Span.End.Column, Offset: len(p.src)},
		}
	}
	return mod, nil
}

// collectTrivia consumes blank lines and comment lines preceding the
// next substantive token, returning them as leading trivia.
func (p *parser) collectTrivia() cst.Trivia {
	var t cst.Trivia
	for {
		switch p.peek().Type {
		case lexer.Comment:
			c := p.advance()
			t.LeadingComments = append(t.LeadingComments, c.Lexeme)
			if p.at(lexer.Newline) {
				p.advance()
			}
		case lexer.Newline:
			// a line holding only untokenized text (e.g. a docstring)
			// is a statement, not a blank line
			lineStart := 0
			if p.pos > 0 {
				lineStart = p.tokens[p.pos-1].Span.End.Offset
			}
			if trimSpace(string(p.src[lineStart:p.peek().Span.Start.Offset])) != "" {
				return t
			}
			p.advance()
			t.LeadingBlankLines++
		default:
			return t
		}
	}
}

// lineTokens returns the content tokens up to (excluding) the
// statement-terminating Newline or EOF, leaving that terminator as the
// next token.
func (p *parser) lineTokens() []lexer.Token {
	start := p.pos
	for !p.at(lexer.Newline) && !p.at(lexer.EOF) {
		p.pos++
	}
	return p.tokens[start:p.pos]
}

func (p *parser) consumeLineEnd() {
	if p.at(lexer.Newline) {
		p.advance()
	}
}

func (p *parser) parseStmt(trivia cst.Trivia) (cst.Stmt, error) {
	// An indented line at module level sits inside a compound statement
	// (if/for/try/...), which is kept as opaque text line by line.
	if p.peek().Span.Start.Column > 0 {
		return p.parseSimpleStmt(trivia)
	}
	switch p.peek().Type {
	case lexer.KwImport:
		return p.parseImportStmt(trivia)
	case lexer.KwFrom:
		return p.parseImportFromStmt(trivia)
	case lexer.KwDef:
		return p.parseFunctionDef(trivia)
	case lexer.KwClass:
		return p.parseClassDef(trivia)
	default:
		return p.parseSimpleStmt(trivia)
	}
}

func (p *parser) parseImportStmt(trivia cst.Trivia) (cst.Stmt, error) {
	start := p.peek().Span.Start
	p.advance() // 'import'
	var names []*cst.ImportName
	for {
		dotted, err := p.parseDottedName()
		if err != nil {
			return nil, err
		}
		in := &cst.ImportName{Path: dotted, Span_: dotted.Span()}
		if p.at(lexer.KwAs) {
			p.advance()
			alias := p.advance()
			in.AsName = &alias
			in.Span_.End = alias.Span.End
		}
		names = append(names, in)
		if p.at(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	end := p.peek().Span.Start
	p.consumeLineEnd()
	return &cst.ImportStmt{Names: names, Trivia: trivia, Span_: lexer.Span{Start: start, End: end}}, nil
}

func (p *parser) parseDottedName() (*cst.DottedName, error) {
	if !p.at(lexer.Identifier) {
		return nil, fmt.Errorf("pyparse: expected identifier at %s", p.peek().Span.Start)
	}
	var names []lexer.Token
	first := p.advance()
	names = append(names, first)
	for p.at(lexer.Dot) {
		p.advance()
		if !p.at(lexer.Identifier) {
			return nil, fmt.Errorf("pyparse: expected identifier after '.' at %s", p.peek().Span.Start)
		}
		names = append(names, p.advance())
	}
	return &cst.DottedName{Names: names, Span_: lexer.Span{Start: first.Span.Start, End: names[len(names)-1].Span.End}}, nil
}

func (p *parser) parseImportFromStmt(trivia cst.Trivia) (cst.Stmt, error) {
	start := p.peek().Span.Start
	p.advance() // 'from'
	module, err := p.parseDottedName()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.KwImport) {
		return nil, fmt.Errorf("pyparse: expected 'import' at %s", p.peek().Span.Start)
	}
	p.advance()
	stmt := &cst.ImportFromStmt{Module: module, Trivia: trivia}
	if p.at(lexer.Star) {
		p.advance()
		stmt.IsWildcard = true
		end := p.peek().Span.Start
		p.consumeLineEnd()
		stmt.Span_ = lexer.Span{Start: start, End: end}
		return stmt, nil
	}
	wrapped := p.at(lexer.LeftParen)
	if wrapped {
		p.advance()
	}
	for {
		if !p.at(lexer.Identifier) {
			return nil, fmt.Errorf("pyparse: expected imported name at %s", p.peek().Span.Start)
		}
		nameTok := p.advance()
		in := &cst.ImportName{Name: nameTok, Span_: nameTok.Span}
		if p.at(lexer.KwAs) {
			p.advance()
			alias := p.advance()
			in.AsName = &alias
			in.Span_.End = alias.Span.End
		}
		stmt.Names = append(stmt.Names, in)
		if p.at(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	if wrapped && p.at(lexer.RightParen) {
		p.advance()
	}
	end := p.peek().Span.Start
	p.consumeLineEnd()
	stmt.Span_ = lexer.Span{Start: start, End: end}
	return stmt, nil
}

// parseFunctionDef and parseClassDef treat their header as a single
// physical line and their body as an opaque, reference-annotated
// block: the core never needs to understand control flow inside a
// symbol's body, only which external names it touches (see
// cst.FunctionDef doc comment).
func (p *parser) parseFunctionDef(trivia cst.Trivia) (cst.Stmt, error) {
	start := p.peek().Span.Start
	headerStart := p.peek().Span.Start.Offset
	p.advance() // 'def'
	if !p.at(lexer.Identifier) {
		return nil, fmt.Errorf("pyparse: expected function name at %s", p.peek().Span.Start)
	}
	name := p.advance()
	params := p.parseParameterNames()
	headerTokens := p.lineTokens()
	headerEndOffset := headerEnd(headerTokens, p.peek())
	header := string(p.src[headerStart:headerEndOffset])
	p.consumeLineEnd()

	bodyText, bodyRefs, locals, bodyEnd, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &cst.FunctionDef{
		Name:       name,
		Parameters: params,
		HeaderText: header,
		BodyText:   bodyText,
		BodyRefs:   bodyRefs,
		Locals:     locals,
		Trivia:     trivia,
		Span_:      lexer.Span{Start: start, End: bodyEnd},
	}, nil
}

func (p *parser) parseClassDef(trivia cst.Trivia) (cst.Stmt, error) {
	start := p.peek().Span.Start
	headerStart := p.peek().Span.Start.Offset
	p.advance() // 'class'
	if !p.at(lexer.Identifier) {
		return nil, fmt.Errorf("pyparse: expected class name at %s", p.peek().Span.Start)
	}
	name := p.advance()
	headerTokens := p.lineTokens()
	headerEndOffset := headerEnd(headerTokens, p.peek())
	header := string(p.src[headerStart:headerEndOffset])
	p.consumeLineEnd()

	bodyText, bodyRefs, locals, bodyEnd, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &cst.ClassDef{
		Name:       name,
		HeaderText: header,
		BodyText:   bodyText,
		BodyRefs:   bodyRefs,
		Locals:     locals,
		Trivia:     trivia,
		Span_:      lexer.Span{Start: start, End: bodyEnd},
	}, nil
}

func headerEnd(tokens []lexer.Token, next lexer.Token) int {
	if len(tokens) > 0 {
		return tokens[len(tokens)-1].Span.End.Offset
	}
	return next.Span.Start.Offset
}

// parseParameterNames reads `(...)` on the header line and returns the
// bare parameter names, ignoring annotations and defaults.
func (p *parser) parseParameterNames() []string {
	if !p.at(lexer.LeftParen) {
		return nil
	}
	p.advance()
	var names []string
	expectName := true
	for !p.at(lexer.RightParen) && !p.at(lexer.Newline) && !p.at(lexer.EOF) {
		tok := p.advance()
		if expectName && tok.Type == lexer.Identifier {
			names = append(names, tok.Lexeme)
			expectName = false
		}
		if tok.Type == lexer.Comma {
			expectName = true
		}
	}
	if p.at(lexer.RightParen) {
		p.advance()
	}
	return names
}

// parseBlock consumes an Indent, every line until the matching Dedent,
// and returns the verbatim body text (from the start of its first line,
// indentation included, to the end of its last line, without the final
// line break), the qualified references found anywhere inside it
// (offsets relative to the body text start), a best-effort set of
// locally-assigned names, and the position just past the block. Blank
// and comment lines between the header and the first indented line
// belong to the body.
func (p *parser) parseBlock() (string, []*cst.Ref, map[string]bool, lexer.Position, error) {
	first := p.peek()
	save := p.pos
	for p.at(lexer.Newline) || p.at(lexer.Comment) {
		p.advance()
	}
	if !p.at(lexer.Indent) {
		p.pos = save
		// a header with no indented body (e.g. `def f(): ...` inline,
		// or a stray blank body) — treat as empty.
		return "", nil, map[string]bool{}, p.peek().Span.Start, nil
	}
	p.advance()
	bodyStart := first.Span.Start.Offset - first.Span.Start.Column
	depth := 1
	var bodyTokens []lexer.Token
	lastEnd := p.peek().Span.Start
	for depth > 0 {
		switch p.peek().Type {
		case lexer.Indent:
			depth++
			p.advance()
		case lexer.Dedent:
			depth--
			p.advance()
		case lexer.EOF:
			depth = 0
		default:
			tok := p.advance()
			bodyTokens = append(bodyTokens, tok)
			lastEnd = tok.Span.End
		}
	}
	bodyEndOffset := lastEnd.Offset
	if n := len(bodyTokens); n > 0 && bodyTokens[n-1].Type == lexer.Newline {
		bodyEndOffset = bodyTokens[n-1].Span.Start.Offset
	} else if p.at(lexer.EOF) {
		bodyEndOffset = len(p.src)
	}
	if bodyEndOffset < bodyStart {
		bodyEndOffset = bodyStart
	}
	text := string(p.src[bodyStart:bodyEndOffset])
	refs := scanRefs(bodyTokens, bodyStart)
	locals := collectLocals(bodyTokens)
	return text, refs, locals, lastEnd, nil
}

// collectLocals best-effort detects names assigned inside a body:
// any `name =` or `name:` pattern at the start of a line's token run,
// plus nested def/class names. It does not model control flow or
// comprehension scoping. See DESIGN.md.
func collectLocals(tokens []lexer.Token) map[string]bool {
	locals := map[string]bool{}
	i := 0
	atLineStart := true
	for i < len(tokens) {
		tok := tokens[i]
		if tok.Type == lexer.KwDef || tok.Type == lexer.KwClass {
			if i+1 < len(tokens) && tokens[i+1].Type == lexer.Identifier {
				locals[tokens[i+1].Lexeme] = true
			}
		}
		if atLineStart && tok.Type == lexer.Identifier {
			if i+1 < len(tokens) {
				next := tokens[i+1].Type
				if next == lexer.Equal || next == lexer.Colon || next == lexer.PlusEqual {
					locals[tok.Lexeme] = true
				}
			}
		}
		atLineStart = tok.Type == lexer.Newline
		i++
	}
	return locals
}

// scanRefs walks a token slice and collects every maximal
// Identifier(.Identifier)* chain as a Ref, with Start/End offsets
// relative to base (so the caller's text slice, which itself starts
// at base, can be spliced directly).
func scanRefs(tokens []lexer.Token, base int) []*cst.Ref {
	var refs []*cst.Ref
	i := 0
	for i < len(tokens) {
		if tokens[i].Type != lexer.Identifier {
			i++
			continue
		}
		chain := []lexer.Token{tokens[i]}
		j := i + 1
		for j+1 < len(tokens) && tokens[j].Type == lexer.Dot && tokens[j+1].Type == lexer.Identifier {
			chain = append(chain, tokens[j+1])
			j += 2
		}
		refs = append(refs, &cst.Ref{
			Chain: chain,
			Start: chain[0].Span.Start.Offset - base,
			End:   chain[len(chain)-1].Span.End.Offset - base,
		})
		i = j
	}
	return refs
}

// parseSimpleStmt handles the remaining single-line statement shapes:
// AssignStmt, AnnAssignStmt, or (falling back) an opaque RawStmt.
func (p *parser) parseSimpleStmt(trivia cst.Trivia) (cst.Stmt, error) {
	start := p.peek().Span.Start
	// The line starts right after the previous token (a line break or
	// a block's Dedent), so untokenized text at its head — literals,
	// brackets, indentation — stays in the raw text.
	lineStart := 0
	if p.pos > 0 {
		lineStart = p.tokens[p.pos-1].Span.End.Offset
	}
	tokens := p.lineTokens()
	lineEnd := p.peek().Span.Start.Offset
	end := p.peek().Span.Start
	p.consumeLineEnd()

	if len(tokens) == 0 || start.Column > 0 {
		return &cst.RawStmt{Text: string(p.src[lineStart:lineEnd]), Refs: scanRefs(tokens, lineStart), Trivia: trivia, Span_: lexer.Span{Start: start, End: end}}, nil
	}

	// AnnAssign: `Identifier Colon ...`
	if tokens[0].Type == lexer.Identifier && len(tokens) > 1 && tokens[1].Type == lexer.Colon {
		return p.buildAnnAssign(tokens, lineStart, trivia, start, end), nil
	}

	var equalIdxs []int
	for i, tok := range tokens {
		if tok.Type == lexer.Equal {
			equalIdxs = append(equalIdxs, i)
		}
	}
	if len(equalIdxs) > 0 {
		return p.buildAssign(tokens, equalIdxs, lineStart, trivia, start, end), nil
	}

	text := string(p.src[lineStart:lineEnd])
	refs := scanRefs(tokens, lineStart)
	return &cst.RawStmt{Text: text, Refs: refs, Trivia: trivia, Span_: lexer.Span{Start: start, End: end}}, nil
}

func (p *parser) buildAnnAssign(tokens []lexer.Token, lineStart int, trivia cst.Trivia, start, end lexer.Position) *cst.AnnAssignStmt {
	target := &cst.Target{Name: &tokens[0], Text: tokens[0].Lexeme, Span_: tokens[0].Span}
	rest := tokens[2:] // past Identifier Colon
	hasValue := false
	valueStart := 0
	for i, tok := range rest {
		if tok.Type == lexer.Equal {
			hasValue = true
			valueStart = i + 1
			break
		}
	}
	var annoTokens, valueTokens []lexer.Token
	if hasValue {
		annoTokens = rest[:valueStart-1]
		valueTokens = rest[valueStart:]
	} else {
		annoTokens = rest
	}
	annoText := ""
	isString := false
	// The annotation ends at the value's '=' (or the line end).
	stop := end.Offset
	if hasValue {
		stop = rest[valueStart-1].Span.Start.Offset
	}
	if len(annoTokens) > 0 {
		annoStart := annoTokens[0].Span.Start.Offset
		annoText = string(p.src[annoStart:stop])
	} else {
		// annotation text wasn't tokenized (e.g. a bare string literal,
		// which the scanner skips); recover it from the raw line.
		colonEnd := tokens[1].Span.End.Offset
		annoText = string(p.src[colonEnd:stop])
	}
	isString = isStringLiteralText(annoText)

	var valueText string
	var valueRefs []*cst.Ref
	if hasValue {
		// literals are not tokenized, so the value is sliced from the
		// '=' to the line end rather than by token extents.
		vStart := rest[valueStart-1].Span.End.Offset
		for vStart < end.Offset && (p.src[vStart] == ' ' || p.src[vStart] == '\t') {
			vStart++
		}
		valueText = trimSpace(string(p.src[vStart:end.Offset]))
		valueRefs = scanRefs(valueTokens, vStart)
	}
	return &cst.AnnAssignStmt{
		Target:             target,
		AnnotationText:     trimSpace(annoText),
		AnnotationIsString: isString,
		HasValue:           hasValue,
		ValueText:          valueText,
		ValueRefs:          valueRefs,
		Trivia:             trivia,
		Span_:              lexer.Span{Start: start, End: end},
	}
}

func (p *parser) buildAssign(tokens []lexer.Token, equalIdxs []int, lineStart int, trivia cst.Trivia, start, end lexer.Position) *cst.AssignStmt {
	groups := make([][]lexer.Token, 0, len(equalIdxs)+1)
	prev := 0
	for _, idx := range equalIdxs {
		groups = append(groups, tokens[prev:idx])
		prev = idx + 1
	}
	groups = append(groups, tokens[prev:])

	targets := make([]*cst.Target, 0, len(groups)-1)
	for _, g := range groups[:len(groups)-1] {
		targets = append(targets, p.buildTarget(g))
	}
	valueTokens := groups[len(groups)-1]
	// literals are not tokenized, so the value is sliced from the last
	// '=' to the line end rather than by token extents.
	vStart := tokens[equalIdxs[len(equalIdxs)-1]].Span.End.Offset
	for vStart < end.Offset && (p.src[vStart] == ' ' || p.src[vStart] == '\t') {
		vStart++
	}
	valueText := trimSpace(string(p.src[vStart:end.Offset]))
	valueRefs := scanRefs(valueTokens, vStart)
	return &cst.AssignStmt{
		Targets:   targets,
		ValueText: valueText,
		ValueRefs: valueRefs,
		Trivia:    trivia,
		Span_:     lexer.Span{Start: start, End: end},
	}
}

func (p *parser) buildTarget(g []lexer.Token) *cst.Target {
	if len(g) == 1 && g[0].Type == lexer.Identifier {
		tok := g[0]
		return &cst.Target{Name: &tok, Text: tok.Lexeme, Span_: tok.Span}
	}
	sp := lexer.Span{}
	text := ""
	if len(g) > 0 {
		sp = lexer.Span{Start: g[0].Span.Start, End: g[len(g)-1].Span.End}
		text = string(p.src[g[0].Span.Start.Offset:g[len(g)-1].Span.End.Offset])
	}
	return &cst.Target{Compound: true, Text: text, Span_: sp}
}

func isStringLiteralText(s string) bool {
	s = trimSpace(s)
	return len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0]
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t' || s[end-1] == '\r') {
		end--
	}
	return s[start:end]
}
