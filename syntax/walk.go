// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Walk traverses a syntax tree in depth-first order.
// It starts by calling f(n); n must not be nil.
// If f returns true, Walk calls itself
// recursively for each non-nil child of n.
// Walk then calls f(nil).
func Walk(n Node, f func(Node) bool) {
	if n == nil {
		panic("nil")
	}
	if !f(n) {
		return
	}

	switch n := n.(type) {
	case *File:
		walkStmts(n.Stmts, f)

	case *ExprStmt:
		Walk(n.X, f)

	case *Assign:
		Walk(n.Target, f)
		Walk(n.Value, f)

	case *Print:
		Walk(n.Value, f)

	case *If:
		Walk(n.Test, f)
		walkStmts(n.Body, f)
		walkStmts(n.Orelse, f)

	case *While:
		Walk(n.Test, f)
		walkStmts(n.Body, f)
		walkStmts(n.Orelse, f)

	case *Def:
		Walk(n.Name, f)
		for _, param := range n.Params {
			Walk(param, f)
		}
		walkStmts(n.Body, f)

	case *Class:
		Walk(n.Name, f)
		walkStmts(n.Body, f)

	case *Break, *Continue, *Pass, *Name, *Constant:
		// no-op

	case *Attribute:
		Walk(n.X, f)

	case *Call:
		Walk(n.Fn, f)
		for _, arg := range n.Args {
			Walk(arg, f)
		}

	case *List:
		for _, x := range n.Elts {
			Walk(x, f)
		}

	case *BinOp:
		Walk(n.Left, f)
		Walk(n.Right, f)

	case *UnaryOp:
		Walk(n.X, f)

	case *BoolOp:
		for _, x := range n.Values {
			Walk(x, f)
		}

	case *Compare:
		Walk(n.Left, f)
		for _, x := range n.Comparators {
			Walk(x, f)
		}

	default:
		panic(n)
	}

	f(nil)
}

func walkStmts(stmts []Stmt, f func(Node) bool) {
	for _, stmt := range stmts {
		Walk(stmt, f)
	}
}
