// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax provides a Pyrite scanner, parser and abstract syntax tree.
package syntax

// A Node is a node in a Pyrite syntax tree.
type Node interface {
	// Span returns the start and end position of the node.
	Span() (start, end Position)
}

// Start returns the start position of the node.
func Start(n Node) Position {
	start, _ := n.Span()
	return start
}

// End returns the end position of the node.
func End(n Node) Position {
	_, end := n.Span()
	return end
}

// A File represents a Pyrite source file.
type File struct {
	Path  string
	Stmts []Stmt
}

func (x *File) Span() (start, end Position) {
	if len(x.Stmts) == 0 {
		return
	}
	start, _ = x.Stmts[0].Span()
	_, end = x.Stmts[len(x.Stmts)-1].Span()
	return start, end
}

// A Stmt is a Pyrite statement.
type Stmt interface {
	Node
	stmt()
}

func (*Assign) stmt()   {}
func (*Break) stmt()    {}
func (*Class) stmt()    {}
func (*Continue) stmt() {}
func (*Def) stmt()      {}
func (*ExprStmt) stmt() {}
func (*If) stmt()       {}
func (*Pass) stmt()     {}
func (*Print) stmt()    {}
func (*While) stmt()    {}

// An Assign represents an assignment:
//	x = 0
//	self.x = y
// The target is a Name or Attribute in Store context.
type Assign struct {
	EqPos  Position
	Target Expr
	Value  Expr
}

func (x *Assign) Span() (start, end Position) {
	start, _ = x.Target.Span()
	_, end = x.Value.Span()
	return
}

// A Print statement writes the string form of its operand.
type Print struct {
	PrintPos Position
	Value    Expr
}

func (x *Print) Span() (start, end Position) {
	_, end = x.Value.Span()
	return x.PrintPos, end
}

// An If is a conditional: if Test: Body else: Orelse.
// elif is desugared into a nested If in Orelse.
type If struct {
	IfPos   Position // IF or ELIF
	Test    Expr
	Body    []Stmt
	ElsePos Position // ELSE or ELIF
	Orelse  []Stmt   // optional
}

func (x *If) Span() (start, end Position) {
	body := x.Orelse
	if body == nil {
		body = x.Body
	}
	_, end = body[len(body)-1].Span()
	return x.IfPos, end
}

// A While loop runs Body while Test is true, then Orelse
// unless the loop was left by a break.
type While struct {
	WhilePos Position
	Test     Expr
	Body     []Stmt
	ElsePos  Position
	Orelse   []Stmt // optional
}

func (x *While) Span() (start, end Position) {
	body := x.Orelse
	if body == nil {
		body = x.Body
	}
	_, end = body[len(body)-1].Span()
	return x.WhilePos, end
}

type Break struct{ BreakPos Position }

func (x *Break) Span() (start, end Position) { return x.BreakPos, x.BreakPos.add("break") }

type Continue struct{ ContinuePos Position }

func (x *Continue) Span() (start, end Position) {
	return x.ContinuePos, x.ContinuePos.add("continue")
}

type Pass struct{ PassPos Position }

func (x *Pass) Span() (start, end Position) { return x.PassPos, x.PassPos.add("pass") }

// An ExprStmt is an expression evaluated for its value or side effects.
type ExprStmt struct {
	X Expr
}

func (x *ExprStmt) Span() (start, end Position) {
	return x.X.Span()
}

// A Def defines a function. Its value is the value of the last
// statement of Body.
type Def struct {
	DefPos Position
	Name   *Name
	Params []*Name
	Body   []Stmt
}

func (x *Def) Span() (start, end Position) {
	_, end = x.Body[len(x.Body)-1].Span()
	return x.DefPos, end
}

// A Class defines a user type. Body holds Def, Assign and Pass
// statements only.
type Class struct {
	ClassPos Position
	Name     *Name
	Body     []Stmt
}

func (x *Class) Span() (start, end Position) {
	_, end = x.Body[len(x.Body)-1].Span()
	return x.ClassPos, end
}

// An Expr is a Pyrite expression.
type Expr interface {
	Node
	expr()
}

func (*Attribute) expr() {}
func (*BinOp) expr()     {}
func (*BoolOp) expr()    {}
func (*Call) expr()      {}
func (*Compare) expr()   {}
func (*Constant) expr()  {}
func (*List) expr()      {}
func (*Name) expr()      {}
func (*UnaryOp) expr()   {}

// A Ctx says whether a Name or Attribute is read, written or deleted.
type Ctx uint8

const (
	Load Ctx = iota
	Store
	Del
)

var ctxNames = [...]string{Load: "Load", Store: "Store", Del: "Del"}

func (ctx Ctx) String() string { return ctxNames[ctx] }

// A Name represents an identifier.
type Name struct {
	NamePos Position
	ID      string
	Ctx     Ctx
}

func (x *Name) Span() (start, end Position) {
	return x.NamePos, x.NamePos.add(x.ID)
}

// A Constant represents a literal: a number, string, True, False or None.
// Value is an int64, float64, string, bool, or nil.
type Constant struct {
	TokenPos Position
	Raw      string // raw text of the token
	Value    interface{}
}

func (x *Constant) Span() (start, end Position) {
	return x.TokenPos, x.TokenPos.add(x.Raw)
}

// An Attribute represents a field or method selector: X.Attr.
type Attribute struct {
	X       Expr
	Dot     Position
	AttrPos Position
	Attr    string
	Ctx     Ctx
}

func (x *Attribute) Span() (start, end Position) {
	start, _ = x.X.Span()
	return start, x.AttrPos.add(x.Attr)
}

// A Call represents a function or method call: Fn(Args).
type Call struct {
	Fn     Expr
	Lparen Position
	Args   []Expr
	Rparen Position
}

func (x *Call) Span() (start, end Position) {
	start, _ = x.Fn.Span()
	return start, x.Rparen.add(")")
}

// A List represents a list literal: [ Elts ].
type List struct {
	Lbrack Position
	Elts   []Expr
	Rbrack Position
}

func (x *List) Span() (start, end Position) {
	return x.Lbrack, x.Rbrack.add("]")
}

// A BinOp represents a binary arithmetic expression: Left Op Right.
type BinOp struct {
	OpPos Position
	Op    Token // PLUS | MINUS | STAR | SLASH | SLASHSLASH | PERCENT | STARSTAR
	Left  Expr
	Right Expr
}

func (x *BinOp) Span() (start, end Position) {
	start, _ = x.Left.Span()
	_, end = x.Right.Span()
	return
}

// A UnaryOp represents a unary expression: Op X.
type UnaryOp struct {
	OpPos Position
	Op    Token // PLUS | MINUS | NOT
	X     Expr
}

func (x *UnaryOp) Span() (start, end Position) {
	_, end = x.X.Span()
	return x.OpPos, end
}

// A BoolOp is a chain of operands joined by the same boolean operator:
//	a and b and c
// Mixed chains nest, with and binding tighter than or.
type BoolOp struct {
	OpPos  Position // position of the first operator
	Op     Token    // AND | OR
	Values []Expr   // at least two
}

func (x *BoolOp) Span() (start, end Position) {
	start, _ = x.Values[0].Span()
	_, end = x.Values[len(x.Values)-1].Span()
	return
}

// A Compare is a chained comparison:
//	Left Ops[0] Comparators[0] Ops[1] Comparators[1] ...
// Each operator is one of EQL NEQ LT GT LE GE IN NOT_IN IS IS_NOT.
type Compare struct {
	Left        Expr
	Ops         []Token
	OpPos       []Position
	Comparators []Expr
}

func (x *Compare) Span() (start, end Position) {
	start, _ = x.Left.Span()
	_, end = x.Comparators[len(x.Comparators)-1].Span()
	return
}
