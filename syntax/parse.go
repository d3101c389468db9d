// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file defines a recursive-descent parser for Pyrite.
// The LL(1) grammar of Pyrite and the names of many productions follow
// Python 2.7, restricted to the statements the evaluator supports.
//
// Blocks are delimited by indentation alone. The parser keeps an
// indentation context: the width of the current block and the widths
// of every enclosing block. A line whose width matches an enclosing
// block ends the current one.

import (
	"fmt"
)

// Enable this flag to print the token stream and log.Fatal on the first error.
const debug = false

// A Mode value is a set of flags (or 0) that controls optional parser functionality.
type Mode uint

const (
	// RecoverErrors makes Parse skip a malformed top-level statement
	// and continue. All errors are returned together as an ErrorList.
	RecoverErrors Mode = 1 << iota
)

// indentCtx is the indentation context of the block being parsed.
type indentCtx struct {
	indent  int
	parents []int
}

func (ctx indentCtx) isParent(width int) bool {
	for _, w := range ctx.parents {
		if w == width {
			return true
		}
	}
	return false
}

// nested returns the context of a block at width inside ctx.
func (ctx indentCtx) nested(width int) indentCtx {
	parents := make([]int, len(ctx.parents), len(ctx.parents)+1)
	copy(parents, ctx.parents)
	return indentCtx{indent: width, parents: append(parents, ctx.indent)}
}

type parser struct {
	filename string
	mode     Mode
	in       *cursor
	ctx      indentCtx
	errors   ErrorList
}

// Parse parses the input data and returns the corresponding parse tree.
//
// If src != nil, Parse parses the source from src and the filename
// is only used when recording position information.
// The type of the argument for the src parameter must be string,
// []byte, or io.Reader.
// If src == nil, Parse parses the file specified by filename.
func Parse(filename string, src interface{}, mode Mode) (f *File, err error) {
	toks, err := Scan(filename, src)
	if err != nil {
		return nil, err
	}
	if debug {
		for _, lx := range toks {
			fmt.Printf("%s\t%s\t%q\n", lx.Pos, lx.Token, lx.Raw)
		}
	}
	p := &parser{filename: filename, mode: mode, in: newCursor(toks)}
	f, err = p.parseFile()
	if err != nil {
		return f, err
	}
	return f, p.errors.Err()
}

// ParseExpr parses a Pyrite expression.
// A comma-separated list of expressions is not an expression.
func ParseExpr(filename string, src interface{}, mode Mode) (expr Expr, err error) {
	toks, err := Scan(filename, src)
	if err != nil {
		return nil, err
	}
	p := &parser{filename: filename, mode: mode, in: newCursor(toks)}
	p.skipBlank()
	expr, err = p.expr()
	if err != nil {
		return nil, err
	}
	p.skipBlank()
	if !p.in.atEOF() {
		return nil, p.errorf(p.in.peek(), "got %s after expression, want EOF", describe(p.in.peek()))
	}
	return expr, nil
}

// skipBlank consumes any whitespace and line breaks.
func (p *parser) skipBlank() {
	for {
		if _, ok := p.in.catch(SPACE, TAB, LINEBREAK); !ok {
			return
		}
	}
}

func (p *parser) errorf(at *Lexeme, format string, args ...interface{}) error {
	return Error{at.Pos, fmt.Sprintf(format, args...)}
}

// file_input = (LINEBREAK | stmt)* EOF
func (p *parser) parseFile() (*File, error) {
	f := &File{Path: p.filename}
	for {
		stmts, err := p.block()
		f.Stmts = append(f.Stmts, stmts...)
		if err == nil {
			// The top-level block ends only at EOF.
			return f, nil
		}
		perr, ok := err.(Error)
		if !ok || p.mode&RecoverErrors == 0 {
			return f, err
		}
		p.errors = append(p.errors, perr)
		if err := p.skipStatement(); err != nil {
			return f, err
		}
	}
}

// skipStatement discards input up to the next line that starts a
// top-level statement.
func (p *parser) skipStatement() error {
	p.ctx = indentCtx{}
	for !p.in.atEOF() {
		if p.in.advance().Token != LINEBREAK {
			continue
		}
		width, n := p.testIndent()
		if p.in.atEOF() || width == 0 {
			return p.in.back(n)
		}
	}
	return nil
}

// testIndent consumes the whitespace and line breaks before the next
// statement and returns the width of its indentation and the number of
// tokens consumed. Callers that only look ahead rewind with back(n).
func (p *parser) testIndent() (width, consumed int) {
	for {
		switch p.in.peek().Token {
		case SPACE:
			width++
		case TAB:
			width += TabWidth
		case LINEBREAK:
			width = 0
		default:
			return width, consumed
		}
		p.in.advance()
		consumed++
	}
}

// block parses the statements of the current block. It stops without
// consuming anything at a line that belongs to an enclosing block, or
// at end of input.
func (p *parser) block() ([]Stmt, error) {
	var stmts []Stmt
	for {
		stmt, err := p.stmt()
		if err != nil {
			return stmts, err
		}
		if stmt == nil {
			return stmts, nil
		}
		stmts = append(stmts, stmt)
	}
}

// stmt parses the next statement of the current block,
// or returns nil at the end of the block.
func (p *parser) stmt() (Stmt, error) {
	width, n := p.testIndent()
	if p.in.atEOF() {
		return nil, nil
	}
	switch {
	case width == p.ctx.indent:
		// statement of this block
	case p.ctx.isParent(width):
		// leave the line for the enclosing block
		return nil, p.in.back(n)
	case width > p.ctx.indent:
		return nil, p.errorf(p.in.peek(), "unexpected indent")
	default:
		return nil, p.errorf(p.in.peek(), "unindent does not match any outer indentation level")
	}

	switch p.in.peek().Token {
	case IF:
		p.in.advance()
		return p.ifStmt()
	case WHILE:
		return p.whileStmt()
	case DEF:
		return p.defStmt()
	case CLASS:
		return p.classStmt()
	}
	s, err := p.simpleStmt()
	if err != nil {
		return nil, err
	}
	if err := p.endOfLine(); err != nil {
		return nil, err
	}
	return s, nil
}

// endOfLine checks that a simple statement ends the line.
// The LINEBREAK itself is left for the next testIndent.
func (p *parser) endOfLine() error {
	if p.in.check(LINEBREAK) || p.in.atEOF() {
		return nil
	}
	return p.errorf(p.in.peek(), "got %s, want newline", describe(p.in.peek()))
}

// simple_stmt = 'print' expr
//             | 'break' | 'continue' | 'pass'
//             | expr ('=' expr)?
func (p *parser) simpleStmt() (Stmt, error) {
	if lx, ok := p.in.catch(PRINT); ok {
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		return &Print{PrintPos: lx.Pos, Value: x}, nil
	}
	if lx, ok := p.in.catch(BREAK, CONTINUE, PASS); ok {
		switch lx.Token {
		case BREAK:
			return &Break{lx.Pos}, nil
		case CONTINUE:
			return &Continue{lx.Pos}, nil
		default:
			return &Pass{lx.Pos}, nil
		}
	}
	if lx, ok := p.in.catch(RETURN, FOR, LAMBDA); ok {
		return nil, p.errorf(lx, "%s is not supported", lx.Token)
	}

	x, err := p.expr()
	if err != nil {
		return nil, err
	}
	if eq, ok := p.in.catch(EQ); ok {
		switch target := x.(type) {
		case *Name:
			target.Ctx = Store
		case *Attribute:
			target.Ctx = Store
		default:
			return nil, Error{Start(x), fmt.Sprintf("cannot assign to %s", describeExpr(x))}
		}
		y, err := p.expr()
		if err != nil {
			return nil, err
		}
		return &Assign{EqPos: eq.Pos, Target: x, Value: y}, nil
	}
	return &ExprStmt{X: x}, nil
}

// suite = simple_stmt
//       | LINEBREAK block(indent > current)
func (p *parser) suite() ([]Stmt, error) {
	if !p.in.check(LINEBREAK) {
		s, err := p.simpleStmt()
		if err != nil {
			return nil, err
		}
		if err := p.endOfLine(); err != nil {
			return nil, err
		}
		return []Stmt{s}, nil
	}

	width, n := p.testIndent()
	at := p.in.peek()
	if err := p.in.back(n); err != nil {
		return nil, err
	}
	if at.Token == EOF || width <= p.ctx.indent {
		return nil, p.errorf(at, "expected an indented block")
	}

	outer := p.ctx
	p.ctx = outer.nested(width)
	body, err := p.block()
	p.ctx = outer
	return body, err
}

// clause consumes a trailing clause keyword (elif or else) written at
// the indentation of the current block, reporting whether it did.
func (p *parser) clause(tok Token) (*Lexeme, bool, error) {
	width, n := p.testIndent()
	if width == p.ctx.indent {
		if lx, ok := p.in.catch(tok); ok {
			return lx, true, nil
		}
	}
	return nil, false, p.in.back(n)
}

// if_stmt = 'if' expr ':' suite ('elif' expr ':' suite)* ('else' ':' suite)?
func (p *parser) ifStmt() (Stmt, error) {
	ifLx := p.in.previous(1) // IF or ELIF, consumed by the caller
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.in.consume(COLON); err != nil {
		return nil, err
	}
	body, err := p.suite()
	if err != nil {
		return nil, err
	}
	ifStmt := &If{IfPos: ifLx.Pos, Test: cond, Body: body}

	elif, ok, err := p.clause(ELIF)
	if err != nil {
		return nil, err
	}
	if ok {
		elifStmt, err := p.ifStmt()
		if err != nil {
			return nil, err
		}
		ifStmt.ElsePos = elif.Pos
		ifStmt.Orelse = []Stmt{elifStmt}
		return ifStmt, nil
	}
	elseLx, ok, err := p.clause(ELSE)
	if err != nil {
		return nil, err
	}
	if ok {
		if _, err := p.in.consume(COLON); err != nil {
			return nil, err
		}
		ifStmt.ElsePos = elseLx.Pos
		if ifStmt.Orelse, err = p.suite(); err != nil {
			return nil, err
		}
	}
	return ifStmt, nil
}

// while_stmt = 'while' expr ':' suite ('else' ':' suite)?
func (p *parser) whileStmt() (Stmt, error) {
	whileLx := p.in.advance()
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.in.consume(COLON); err != nil {
		return nil, err
	}
	body, err := p.suite()
	if err != nil {
		return nil, err
	}
	w := &While{WhilePos: whileLx.Pos, Test: cond, Body: body}
	elseLx, ok, err := p.clause(ELSE)
	if err != nil {
		return nil, err
	}
	if ok {
		if _, err := p.in.consume(COLON); err != nil {
			return nil, err
		}
		w.ElsePos = elseLx.Pos
		if w.Orelse, err = p.suite(); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// def_stmt = 'def' IDENT '(' [IDENT (',' IDENT)* [',']] ')' ':' suite
func (p *parser) defStmt() (Stmt, error) {
	defLx := p.in.advance()
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	if _, err := p.in.consume(LPAREN); err != nil {
		return nil, err
	}
	var params []*Name
	seen := make(map[string]bool)
	for !p.in.check(RPAREN) {
		param, err := p.ident()
		if err != nil {
			return nil, err
		}
		if seen[param.ID] {
			return nil, Error{param.NamePos, fmt.Sprintf("duplicate parameter: %s", param.ID)}
		}
		seen[param.ID] = true
		param.Ctx = Store
		params = append(params, param)
		if _, ok := p.in.catch(COMMA); !ok {
			break
		}
	}
	if _, err := p.in.consume(RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.in.consume(COLON); err != nil {
		return nil, err
	}
	body, err := p.suite()
	if err != nil {
		return nil, err
	}
	name.Ctx = Store
	return &Def{DefPos: defLx.Pos, Name: name, Params: params, Body: body}, nil
}

// class_stmt = 'class' IDENT ':' suite
func (p *parser) classStmt() (Stmt, error) {
	classLx := p.in.advance()
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	if _, err := p.in.consume(COLON); err != nil {
		return nil, err
	}
	body, err := p.suite()
	if err != nil {
		return nil, err
	}
	for _, s := range body {
		switch s := s.(type) {
		case *Def, *Pass:
		case *Assign:
			if _, ok := s.Target.(*Name); !ok {
				return nil, Error{Start(s), "class attribute must be a name"}
			}
		default:
			return nil, Error{Start(s), "class body may contain only def, assignment and pass"}
		}
	}
	name.Ctx = Store
	return &Class{ClassPos: classLx.Pos, Name: name, Body: body}, nil
}

func (p *parser) ident() (*Name, error) {
	lx, err := p.in.consume(IDENT)
	if err != nil {
		return nil, err
	}
	return &Name{NamePos: lx.Pos, ID: lx.Raw}, nil
}

// expr = or_expr
func (p *parser) expr() (Expr, error) { return p.orExpr() }

// or_expr = and_expr ('or' and_expr)*
func (p *parser) orExpr() (Expr, error) {
	return p.boolChain(OR, p.andExpr)
}

// and_expr = not_expr ('and' not_expr)*
func (p *parser) andExpr() (Expr, error) {
	return p.boolChain(AND, p.notExpr)
}

// boolChain parses operands joined by op into one flat BoolOp.
func (p *parser) boolChain(op Token, operand func() (Expr, error)) (Expr, error) {
	x, err := operand()
	if err != nil {
		return nil, err
	}
	var b *BoolOp
	for {
		lx, ok := p.in.catch(op)
		if !ok {
			break
		}
		y, err := operand()
		if err != nil {
			return nil, err
		}
		if b == nil {
			b = &BoolOp{OpPos: lx.Pos, Op: op, Values: []Expr{x}}
		}
		b.Values = append(b.Values, y)
	}
	if b == nil {
		return x, nil
	}
	return b, nil
}

// not_expr = 'not' not_expr | comparison
func (p *parser) notExpr() (Expr, error) {
	if lx, ok := p.in.catch(NOT); ok {
		x, err := p.notExpr()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{OpPos: lx.Pos, Op: NOT, X: x}, nil
	}
	return p.comparison()
}

// comparison = arith (comp_op arith)*
func (p *parser) comparison() (Expr, error) {
	x, err := p.arith()
	if err != nil {
		return nil, err
	}
	var cmp *Compare
	for {
		pos := p.in.peek().Pos
		op, ok := p.compareOp()
		if !ok {
			break
		}
		y, err := p.arith()
		if err != nil {
			return nil, err
		}
		if cmp == nil {
			cmp = &Compare{Left: x}
		}
		cmp.Ops = append(cmp.Ops, op)
		cmp.OpPos = append(cmp.OpPos, pos)
		cmp.Comparators = append(cmp.Comparators, y)
	}
	if cmp == nil {
		return x, nil
	}
	return cmp, nil
}

// comp_op = '==' | '!=' | '<' | '>' | '<=' | '>=' | 'in' | 'not' 'in' | 'is' | 'is' 'not'
func (p *parser) compareOp() (Token, bool) {
	if i, ok := p.in.catchMulti([]Token{NOT, IN}, []Token{IS, NOT}); ok {
		return [...]Token{NOT_IN, IS_NOT}[i], true
	}
	if lx, ok := p.in.catch(EQL, NEQ, LT, GT, LE, GE, IN, IS); ok {
		return lx.Token, true
	}
	return 0, false
}

// arith = term (('+' | '-') term)*
func (p *parser) arith() (Expr, error) {
	return p.binaryChain(p.term, PLUS, MINUS)
}

// term = factor (('*' | '/' | '//' | '%') factor)*
func (p *parser) term() (Expr, error) {
	return p.binaryChain(p.factor, STAR, SLASH, SLASHSLASH, PERCENT)
}

// binaryChain parses a left-associative chain of binary operators.
func (p *parser) binaryChain(operand func() (Expr, error), ops ...Token) (Expr, error) {
	x, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		lx, ok := p.in.catch(ops...)
		if !ok {
			return x, nil
		}
		y, err := operand()
		if err != nil {
			return nil, err
		}
		x = &BinOp{OpPos: lx.Pos, Op: lx.Token, Left: x, Right: y}
	}
}

// factor = ('+' | '-') factor | power
func (p *parser) factor() (Expr, error) {
	if lx, ok := p.in.catch(PLUS, MINUS); ok {
		x, err := p.factor()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{OpPos: lx.Pos, Op: lx.Token, X: x}, nil
	}
	return p.power()
}

// power = postfix ['**' factor]
func (p *parser) power() (Expr, error) {
	x, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if lx, ok := p.in.catch(STARSTAR); ok {
		y, err := p.factor()
		if err != nil {
			return nil, err
		}
		return &BinOp{OpPos: lx.Pos, Op: STARSTAR, Left: x, Right: y}, nil
	}
	return x, nil
}

// postfix = primary ('.' IDENT | '(' args ')')*
func (p *parser) postfix() (Expr, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		if dot, ok := p.in.catch(DOT); ok {
			name, err := p.ident()
			if err != nil {
				return nil, err
			}
			x = &Attribute{X: x, Dot: dot.Pos, AttrPos: name.NamePos, Attr: name.ID}
			continue
		}
		if lparen, ok := p.in.catch(LPAREN); ok {
			args, rparen, err := p.exprList(RPAREN)
			if err != nil {
				return nil, err
			}
			x = &Call{Fn: x, Lparen: lparen.Pos, Args: args, Rparen: rparen.Pos}
			continue
		}
		return x, nil
	}
}

// exprList parses a comma-separated, optionally comma-terminated list
// of expressions up to and including the closing token.
func (p *parser) exprList(closing Token) ([]Expr, *Lexeme, error) {
	var list []Expr
	for !p.in.check(closing) {
		x, err := p.expr()
		if err != nil {
			return nil, nil, err
		}
		list = append(list, x)
		if _, ok := p.in.catch(COMMA); !ok {
			break
		}
	}
	end, err := p.in.consume(closing)
	if err != nil {
		return nil, nil, err
	}
	return list, end, nil
}

// primary = IDENT | NUMBER | STRING | 'True' | 'False' | 'None'
//         | '(' expr ')'
//         | '[' [expr (',' expr)* [',']] ']'
func (p *parser) primary() (Expr, error) {
	lx := p.in.peek()
	switch lx.Token {
	case IDENT:
		p.in.advance()
		return &Name{NamePos: lx.Pos, ID: lx.Raw}, nil
	case NUMBER, STRING:
		p.in.advance()
		return &Constant{TokenPos: lx.Pos, Raw: lx.Raw, Value: lx.Value}, nil
	case TRUE, FALSE:
		p.in.advance()
		return &Constant{TokenPos: lx.Pos, Raw: lx.Raw, Value: lx.Token == TRUE}, nil
	case NONE:
		p.in.advance()
		return &Constant{TokenPos: lx.Pos, Raw: lx.Raw}, nil
	case LPAREN:
		p.in.advance()
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.in.consume(RPAREN); err != nil {
			return nil, err
		}
		return x, nil
	case LBRACK:
		p.in.advance()
		elts, rbrack, err := p.exprList(RBRACK)
		if err != nil {
			return nil, err
		}
		return &List{Lbrack: lx.Pos, Elts: elts, Rbrack: rbrack.Pos}, nil
	}
	return nil, p.errorf(lx, "got %s, want primary expression", describe(lx))
}

// describeExpr names the syntactic category of x for error messages.
func describeExpr(x Expr) string {
	switch x := x.(type) {
	case *Constant:
		return "literal"
	case *Call:
		return "function call"
	case *BinOp:
		return "operator " + x.Op.String()
	case *UnaryOp:
		return "operator " + x.Op.String()
	case *Compare:
		return "comparison"
	case *BoolOp:
		return "operator " + x.Op.String()
	case *List:
		return "list literal"
	}
	return fmt.Sprintf("%T", x)
}
