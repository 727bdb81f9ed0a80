// Package parser implements BSL's recursive-descent parser with a
// two-level precedence chain for arithmetic (spec §4.2).
//
// Like the teacher's internal/parser, each parse function returns a node
// on success; unlike the teacher (which accumulates errors and
// synchronizes past them), a BSL parse function returns a false/nil
// sentinel on the first failure and the caller unwinds immediately — the
// diag.Result already holds the message (spec §7's fail-fast policy).
package parser

import (
	"github.com/garfr/bsl/internal/alloc"
	"github.com/garfr/bsl/internal/ast"
	"github.com/garfr/bsl/internal/diag"
	"github.com/garfr/bsl/internal/lexer"
	"github.com/garfr/bsl/internal/token"
)

// Parser holds the state needed to turn a token stream into a forest of
// ast.Toplevel nodes.
type Parser struct {
	lex    *lexer.Lexer
	result *diag.Result
	arena  *alloc.Arena

	// nextEntryPoint accumulates [entry_point(...)] attributes seen before
	// the next toplevel declaration; it is attached to the next parsed
	// procedure and cleared immediately after (spec §4.2).
	nextEntryPoint ast.EntryPoint
	sawAttr        bool
}

// New creates a Parser over lex. Diagnostics are written to result;
// AST nodes are allocated through arena (which may be nil).
func New(lex *lexer.Lexer, result *diag.Result, arena *alloc.Arena) *Parser {
	return &Parser{lex: lex, result: result, arena: arena}
}

func newNode[T any](p *Parser) *T {
	return alloc.Alloc[T](p.arena)
}

// ParseFile consumes the entire token stream and returns the top-level
// declaration list in source order. It only succeeds once EOF is reached
// (spec §4.2's parse_ast contract).
func (p *Parser) ParseFile() (*ast.File, bool) {
	file := newNode[ast.File](p)

	for {
		tok := p.lex.Peek()
		if tok.Kind == token.EOF {
			break
		}
		if tok.Kind == token.ILLEGAL {
			return nil, false
		}

		top, ok := p.parseToplevel()
		if !ok {
			return nil, false
		}
		file.Toplevels = append(file.Toplevels, top)
	}

	return file, true
}

func (p *Parser) parseToplevel() (ast.Toplevel, bool) {
	for p.lex.Peek().Kind == token.LBRACK {
		p.lex.Skip()
		if !p.parseToplevelAttr() {
			return nil, false
		}
		p.sawAttr = true
	}

	tok := p.lex.Peek()
	switch tok.Kind {
	case token.RECORD:
		if p.sawAttr {
			p.errorTok(tok, "attributes are not permitted on record declarations")
			return nil, false
		}
		p.lex.Skip()
		return p.parseRecordToplevel(tok.Pos)
	case token.PROC:
		p.lex.Skip()
		decl, ok := p.parseProcedure(tok.Pos)
		return decl, ok
	case token.ILLEGAL:
		return nil, false
	default:
		p.handleErratic(tok, "toplevel")
		return nil, false
	}
}

// parseToplevelAttr parses a single `[ident(arg)?]` prefix. Only
// `entry_point(vertex)` / `entry_point(fragment)` are recognized; any
// other attribute name is rejected (spec §4.2).
func (p *Parser) parseToplevelAttr() bool {
	attrTok, ok := p.expectWith(token.IDENT, "attribute name")
	if !ok {
		return false
	}

	switch attrTok.Sym {
	case "entry_point":
		if !p.expect(token.LPAREN, "entry point name") {
			return false
		}
		entryTok, ok := p.expectWith(token.IDENT, "entry point name")
		if !ok {
			return false
		}
		switch entryTok.Sym {
		case "vertex":
			p.nextEntryPoint |= ast.EntryPointVertex
		case "fragment":
			p.nextEntryPoint |= ast.EntryPointFragment
		default:
			p.errorTok(entryTok, "unknown entry point '%s'", entryTok.Sym)
			return false
		}
		if !p.expect(token.RPAREN, "right parenthesis") {
			return false
		}
	default:
		p.errorTok(attrTok, "unknown attribute '%s'", attrTok.Sym)
		return false
	}

	return p.expect(token.RBRACK, "right bracket")
}

func (p *Parser) parseRecordToplevel(pos token.Position) (*ast.RecordDecl, bool) {
	nameTok, ok := p.expectWith(token.IDENT, "record name")
	if !ok {
		return nil, false
	}

	decl := newNode[ast.RecordDecl](p)
	decl.P, decl.Name = pos, nameTok.Sym

	for {
		tok := p.lex.Peek()
		if tok.Kind != token.IDENT && tok.Kind != token.LBRACK {
			break
		}
		entry, ok := p.parseRecordMember()
		if !ok {
			return nil, false
		}
		decl.Entries = append(decl.Entries, entry)
	}

	if !p.expect(token.END, "record member") {
		return nil, false
	}

	return decl, true
}

// parseRecordMember parses one `(attr)? name : type` member declaration.
func (p *Parser) parseRecordMember() (*ast.RecordEntry, bool) {
	entry := newNode[ast.RecordEntry](p)
	entry.Kind = ast.EntryNormal

	nameTok := p.lex.Peek()
	if nameTok.Kind == token.LBRACK {
		p.lex.Skip()
		attrTok, ok := p.expectWith(token.IDENT, "attribute name")
		if !ok {
			return nil, false
		}

		switch attrTok.Sym {
		case "builtin":
			entry.Kind = ast.EntryBuiltin
			if !p.expect(token.LPAREN, "left parenthesis") {
				return nil, false
			}
			builtinTok, ok := p.expectWith(token.IDENT, "name of builtin")
			if !ok {
				return nil, false
			}
			if builtinTok.Sym != "position" {
				p.errorTok(builtinTok, "unknown builtin name: '%s'", builtinTok.Sym)
				return nil, false
			}
			entry.Builtin = ast.BuiltinClipPosition
			if !p.expect(token.RPAREN, "right parenthesis") {
				return nil, false
			}
		case "input", "output":
			if attrTok.Sym == "input" {
				entry.Kind = ast.EntryInput
			} else {
				entry.Kind = ast.EntryOutput
			}
			if !p.expect(token.LPAREN, "left parenthesis") {
				return nil, false
			}
			bindingTok, ok := p.expectWith(token.NUM, "input binding")
			if !ok {
				return nil, false
			}
			if bindingTok.Num.Kind != token.IntNumber || bindingTok.Num.Int < 0 {
				p.errorTok(bindingTok, "binding must be a non-negative integer")
				return nil, false
			}
			if !p.expect(token.RPAREN, "right parenthesis") {
				return nil, false
			}
			entry.Binding = int(bindingTok.Num.Int)
		default:
			p.errorTok(attrTok, "unknown attribute name: '%s'", attrTok.Sym)
			return nil, false
		}

		if !p.expect(token.RBRACK, "right bracket") {
			return nil, false
		}

		memberTok, ok := p.expectWith(token.IDENT, "member name")
		if !ok {
			return nil, false
		}
		nameTok = memberTok
	} else {
		p.lex.Skip()
		if nameTok.Kind != token.IDENT {
			p.handleErratic(nameTok, "record member")
			return nil, false
		}
	}

	entry.P = nameTok.Pos
	entry.Name = nameTok.Sym

	if !p.expect(token.COLON, "':'") {
		return nil, false
	}

	typ, ok := p.parseType()
	if !ok {
		return nil, false
	}
	entry.Type = typ

	return entry, true
}

func (p *Parser) parseProcedure(pos token.Position) (*ast.ProcDecl, bool) {
	decl := newNode[ast.ProcDecl](p)
	decl.P = pos

	nameTok, ok := p.expectWith(token.IDENT, "procedure name")
	if !ok {
		return nil, false
	}
	decl.Name = nameTok.Sym

	if !p.expect(token.LPAREN, "function arguments") {
		return nil, false
	}

	if p.lex.Peek().Kind != token.RPAREN {
		for {
			param, ok := p.parseParameter()
			if !ok {
				return nil, false
			}
			decl.Params = append(decl.Params, param)

			tok := p.lex.Next()
			if tok.Kind == token.COMMA {
				continue
			}
			if tok.Kind != token.RPAREN {
				p.handleErratic(tok, "function parameter")
				return nil, false
			}
			break
		}
	} else {
		p.lex.Skip()
	}

	retType, ok := p.parseType()
	if !ok {
		return nil, false
	}
	decl.ReturnType = retType

	for {
		tok := p.lex.Peek()
		if tok.Kind == token.END || tok.Kind == token.EOF || tok.Kind == token.ILLEGAL {
			break
		}
		stmt, ok := p.parseStatement()
		if !ok {
			return nil, false
		}
		decl.Body = append(decl.Body, stmt)
	}

	if !p.expect(token.END, "statement") {
		return nil, false
	}

	decl.EntryPoint = p.nextEntryPoint
	p.nextEntryPoint = 0
	p.sawAttr = false

	return decl, true
}

func (p *Parser) parseParameter() (*ast.Param, bool) {
	nameTok, ok := p.expectWith(token.IDENT, "parameter name")
	if !ok {
		return nil, false
	}

	param := newNode[ast.Param](p)
	param.P, param.Name = nameTok.Pos, nameTok.Sym

	if !p.expect(token.COLON, "':'") {
		return nil, false
	}

	typ, ok := p.parseType()
	if !ok {
		return nil, false
	}
	param.Type = typ

	return param, true
}

// parseType implements spec §4.2's `type` production: vec2/vec3/vec4<T>
// or a bare identifier (a builtin f32/f64/void keyword, mapped to its
// Builtin* value, or a user record name, left unresolved as a NamedType
// until the resolver runs).
func (p *Parser) parseType() (ast.Type, bool) {
	tok := p.lex.Peek()
	switch tok.Kind {
	case token.ILLEGAL:
		return nil, false
	case token.EOF:
		p.errorTok(tok, "unexpected end of file")
		return nil, false
	case token.IDENT:
		p.lex.Skip()
		switch tok.Sym {
		case "vec2":
			return p.parseVectorType(2, tok.Pos)
		case "vec3":
			return p.parseVectorType(3, tok.Pos)
		case "vec4":
			return p.parseVectorType(4, tok.Pos)
		case "f32":
			return ast.BuiltinF32, true
		case "f64":
			return ast.BuiltinF64, true
		case "void":
			return ast.BuiltinVoid, true
		default:
			named := newNode[ast.NamedType](p)
			named.P, named.Name = tok.Pos, tok.Sym
			return named, true
		}
	default:
		p.errorTok(tok, "expected type")
		return nil, false
	}
}

func (p *Parser) parseVectorType(size int, pos token.Position) (ast.Type, bool) {
	if !p.expect(token.LT, "vector parameter") {
		return nil, false
	}

	elem, ok := p.parseType()
	if !ok {
		return nil, false
	}

	if !p.expect(token.GT, "closing angled bracket") {
		return nil, false
	}

	vecType := newNode[ast.VectorType](p)
	vecType.P, vecType.Elem, vecType.Size = pos, elem, size
	return vecType, true
}

func (p *Parser) parseStatement() (ast.Stmt, bool) {
	tok := p.lex.Peek()
	switch tok.Kind {
	case token.VAR:
		p.lex.Skip()
		return p.parseVarStatement(tok.Pos)
	case token.RETURN:
		p.lex.Skip()
		value, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		ret := newNode[ast.ReturnStmt](p)
		ret.P, ret.Value = tok.Pos, value
		return ret, true
	default:
		p.handleErratic(tok, "statement")
		return nil, false
	}
}

func (p *Parser) parseVarStatement(pos token.Position) (*ast.VarStmt, bool) {
	nameTok, ok := p.expectWith(token.IDENT, "variable name")
	if !ok {
		return nil, false
	}

	stmt := newNode[ast.VarStmt](p)
	stmt.P, stmt.Name = pos, nameTok.Sym

	if p.lex.Peek().Kind == token.COLON {
		p.lex.Skip()
		typ, ok := p.parseType()
		if !ok {
			return nil, false
		}
		stmt.Type = typ
	}

	if !p.expect(token.EQ, "'='") {
		return nil, false
	}

	value, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	stmt.Value = value

	return stmt, true
}

// ============================================================================
// Expressions: expr -> add -> mul -> member -> atom (spec §4.2)
// ============================================================================

func (p *Parser) parseExpr() (ast.Expr, bool) {
	return p.parseAdd()
}

func (p *Parser) parseAdd() (ast.Expr, bool) {
	lhs, ok := p.parseMul()
	if !ok {
		return nil, false
	}

	for {
		tok := p.lex.Peek()
		var op ast.BinOp
		switch tok.Kind {
		case token.ADD:
			op = ast.BinAdd
		case token.SUB:
			op = ast.BinSub
		default:
			return lhs, true
		}
		p.lex.Skip()

		rhs, ok := p.parseMul()
		if !ok {
			return nil, false
		}

		bin := newNode[ast.BinaryExpr](p)
		bin.P = lhs.Pos()
		bin.Op, bin.LHS, bin.RHS = op, lhs, rhs
		lhs = bin
	}
}

func (p *Parser) parseMul() (ast.Expr, bool) {
	lhs, ok := p.parseMember()
	if !ok {
		return nil, false
	}

	for {
		tok := p.lex.Peek()
		var op ast.BinOp
		switch tok.Kind {
		case token.MUL:
			op = ast.BinMul
		case token.DIV:
			op = ast.BinDiv
		default:
			return lhs, true
		}
		p.lex.Skip()

		rhs, ok := p.parseMember()
		if !ok {
			return nil, false
		}

		bin := newNode[ast.BinaryExpr](p)
		bin.P = lhs.Pos()
		bin.Op, bin.LHS, bin.RHS = op, lhs, rhs
		lhs = bin
	}
}

func (p *Parser) parseMember() (ast.Expr, bool) {
	lhs, ok := p.parseAtom()
	if !ok {
		return nil, false
	}

	for p.lex.Peek().Kind == token.PERIOD {
		p.lex.Skip()
		nameTok, ok := p.expectWith(token.IDENT, "member name")
		if !ok {
			return nil, false
		}
		member := newNode[ast.MemberExpr](p)
		member.P, member.Target, member.Name = lhs.Pos(), lhs, nameTok.Sym
		lhs = member
	}

	return lhs, true
}

func (p *Parser) parseAtom() (ast.Expr, bool) {
	tok := p.lex.Peek()
	switch tok.Kind {
	case token.RECORD:
		p.lex.Skip()
		return p.parseRecordExpr(tok.Pos)
	case token.LCURLY:
		p.lex.Skip()
		return p.parseVectorExpr(tok.Pos)
	case token.LPAREN:
		p.lex.Skip()
		inner, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if !p.expect(token.RPAREN, "right parenthesis") {
			return nil, false
		}
		return inner, true
	case token.NUM:
		p.lex.Skip()
		num := newNode[ast.NumExpr](p)
		num.P, num.Value = tok.Pos, tok.Num
		return num, true
	case token.IDENT:
		p.lex.Skip()
		v := newNode[ast.VarExpr](p)
		v.P, v.Name = tok.Pos, tok.Sym
		return v, true
	default:
		p.handleErratic(tok, "expression")
		return nil, false
	}
}

func (p *Parser) parseRecordExpr(pos token.Position) (ast.Expr, bool) {
	nameTok, ok := p.expectWith(token.IDENT, "record name")
	if !ok {
		return nil, false
	}

	expr := newNode[ast.RecordExpr](p)
	expr.P, expr.Name = pos, nameTok.Sym

	for {
		tok := p.lex.Next()
		if tok.Kind != token.PERIOD {
			if tok.Kind != token.END {
				p.handleErratic(tok, "record member")
				return nil, false
			}
			break
		}

		memberNameTok, ok := p.expectWith(token.IDENT, "member name")
		if !ok {
			return nil, false
		}

		if !p.expect(token.EQ, "'='") {
			return nil, false
		}

		value, ok := p.parseExpr()
		if !ok {
			return nil, false
		}

		if !p.expect(token.COMMA, "','") {
			return nil, false
		}

		member := newNode[ast.RecordExprMember](p)
		member.P, member.Name, member.Value = memberNameTok.Pos, memberNameTok.Sym, value
		expr.Members = append(expr.Members, member)
	}

	return expr, true
}

func (p *Parser) parseVectorExpr(pos token.Position) (ast.Expr, bool) {
	expr := newNode[ast.VectorExpr](p)
	expr.P = pos

	first, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	expr.Elems = append(expr.Elems, first)

	for {
		tok := p.lex.Next()
		if tok.Kind != token.COMMA {
			if tok.Kind != token.RCURLY {
				p.handleErratic(tok, "comma")
				return nil, false
			}
			break
		}

		next, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		expr.Elems = append(expr.Elems, next)
	}

	return expr, true
}

// ============================================================================
// Token consumption helpers
// ============================================================================

func (p *Parser) expect(kind token.Kind, expected string) bool {
	tok := p.lex.Next()
	if tok.Kind == kind {
		return true
	}
	p.handleErratic(tok, expected)
	return false
}

func (p *Parser) expectWith(kind token.Kind, expected string) (token.Token, bool) {
	tok := p.lex.Next()
	if tok.Kind == kind {
		return tok, true
	}
	p.handleErratic(tok, expected)
	return tok, false
}

// handleErratic reports the standard "unexpected end of file" / "expected
// X" diagnostics for a token that didn't match what the grammar wanted. A
// token that is already ILLEGAL reports nothing — the lexer already wrote
// the diagnostic (spec §4.2 "error recovery: none").
func (p *Parser) handleErratic(tok token.Token, expectedItem string) {
	switch tok.Kind {
	case token.EOF:
		p.errorTok(tok, "unexpected end of file")
	case token.ILLEGAL:
	default:
		p.errorTok(tok, "expected %s", expectedItem)
	}
}

func (p *Parser) errorTok(tok token.Token, format string, args ...any) {
	p.result.Errorf(tok.Pos.Line, tok.Pos.Col, format, args...)
}
