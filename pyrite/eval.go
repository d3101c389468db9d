// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pyrite

import (
	"fmt"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/oarkflow/log"

	"go.pyrite.dev/syntax"
)

const debug = false

// DefaultMaxDepth is the default limit on nested calls.
const DefaultMaxDepth = 1000

// A Thread contains the state of a Pyrite program: its namespace and
// the pool behind it, the native method registry, and the client's
// hooks for output and logging.
//
// The Thread is threaded throughout the evaluator. It must not be used
// by more than one goroutine at a time.
type Thread struct {
	// Name is an optional name that describes the thread, for debugging.
	Name string

	// Print is the client-supplied implementation of the print
	// statement. If nil, fmt.Fprintln(os.Stdout, msg) is used instead.
	Print func(thread *Thread, msg string)

	// Logger receives the statements skipped in recover mode.
	// If nil, log.DefaultLogger is used.
	Logger *log.Logger

	// Natives holds the native methods, keyed by type identity.
	Natives *Natives

	// MaxDepth limits nested calls. If zero, DefaultMaxDepth is used.
	MaxDepth int

	ns     *Namespace
	depth  int // current call depth
	blocks int // counter naming local scopes

	cancelReason atomic.Pointer[string] // non-nil after Cancel

	// locals holds arbitrary "thread-local" Go values belonging to the client.
	// They are accessible to the client but not to any Pyrite program.
	locals map[string]interface{}
}

// NewThread returns a thread with an empty global scope and the
// predeclared builtins.
func NewThread(name string) *Thread {
	thread := &Thread{
		Name:    name,
		Natives: NewNatives(),
		ns:      NewNamespace(NewPool()),
	}
	RegisterBuiltins(thread)
	return thread
}

// SetLocal sets the thread-local value associated with the specified key.
// It must not be called after execution begins.
func (thread *Thread) SetLocal(key string, value interface{}) {
	if thread.locals == nil {
		thread.locals = make(map[string]interface{})
	}
	thread.locals[key] = value
}

// Local returns the thread-local value associated with the specified key.
func (thread *Thread) Local(key string) interface{} {
	return thread.locals[key]
}

// Cancel causes execution of Pyrite code in the specified thread to
// promptly fail with a Cancelled error that includes the specified reason.
// There may be a delay before the interpreter observes the cancellation
// if the thread is currently in a call to a built-in function.
//
// Unlike most methods of Thread, it is safe to call Cancel from any
// goroutine, even if the thread is actively executing.
func (thread *Thread) Cancel(reason string) {
	thread.cancelReason.CompareAndSwap(nil, &reason)
}

// Uncancel resets the cancellation state so that the thread can run
// again. It must not be called while the thread is executing.
func (thread *Thread) Uncancel() { thread.cancelReason.Store(nil) }

// cancelled returns a Cancelled error if Cancel has been called.
func (thread *Thread) cancelled() error {
	if reason := thread.cancelReason.Load(); reason != nil {
		return &Error{Kind: Cancelled, Msg: "Pyrite computation cancelled: " + *reason}
	}
	return nil
}

// Namespace returns the thread's namespace.
func (thread *Thread) Namespace() *Namespace { return thread.ns }

func (thread *Thread) pool() *Pool { return thread.ns.pool }

func (thread *Thread) logger() *log.Logger {
	if thread.Logger != nil {
		return thread.Logger
	}
	return &log.DefaultLogger
}

func (thread *Thread) print(msg string) {
	if thread.Print != nil {
		thread.Print(thread, msg)
	} else {
		fmt.Fprintln(os.Stdout, msg)
	}
}

// newList returns a list of the given elements, retaining each of them.
func (thread *Thread) newList(ids []PoolID) *Object {
	for _, id := range ids {
		thread.pool().Retain(id)
	}
	return newObject(ListType, ids)
}

// own returns a value that survives the release of the scope v was
// read from.
func (thread *Thread) own(v *Object) *Object {
	if v != nil && v.pooled {
		return v.Clone(thread.pool())
	}
	return v
}

// ExecFile parses and executes a Pyrite file at global scope.
// Global bindings persist in the thread's namespace.
//
// The filename and src parameters are as for syntax.Parse.
func ExecFile(thread *Thread, filename string, src interface{}) error {
	return Exec(ExecOptions{Thread: thread, Filename: filename, Source: src})
}

// ExecOptions specifies the arguments to Exec.
type ExecOptions struct {
	// Thread is the state of the program.
	Thread *Thread

	// Filename is the name of the file to execute,
	// and the name that appears in error messages.
	Filename string

	// Source is an optional source of bytes to use
	// instead of Filename.  See syntax.Parse for details.
	Source interface{}

	// Recover makes a failing top-level statement log a warning and
	// let execution continue with the next one. The errors are
	// returned together as an ErrorList. Scan errors are always fatal.
	Recover bool
}

// Exec is a variant of ExecFile that gives the client greater control
// over optional features.
func Exec(opts ExecOptions) error {
	if debug {
		fmt.Printf("Exec %s\n", opts.Filename)
		defer fmt.Printf("Exec %s done\n", opts.Filename)
	}
	thread := opts.Thread

	var mode syntax.Mode
	if opts.Recover {
		mode = syntax.RecoverErrors
	}
	f, err := syntax.Parse(opts.Filename, opts.Source, mode)
	var errs ErrorList
	if err != nil {
		list, ok := err.(syntax.ErrorList)
		if !opts.Recover || !ok || f == nil {
			return err
		}
		for _, e := range list {
			thread.logger().Warn().Err(e).Str("file", opts.Filename).Int("line", int(e.Pos.Line)).Msg("skipped statement")
			errs = append(errs, e)
		}
	}

	for _, stmt := range f.Stmts {
		v, err := ExecStmts(thread, []syntax.Stmt{stmt}, Global)
		thread.pool().drop(v)
		if err == nil {
			continue
		}
		start, _ := stmt.Span()
		err = at(err, start)
		if !opts.Recover {
			return err
		}
		thread.logger().Warn().Err(err).Str("file", opts.Filename).Int("line", int(start.Line)).Msg("skipped statement")
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Eval parses and evaluates an expression at global scope.
//
// The filename and src parameters are as for syntax.Parse.
func Eval(thread *Thread, filename string, src interface{}) (*Object, error) {
	expr, err := syntax.ParseExpr(filename, src, 0)
	if err != nil {
		return nil, err
	}
	return thread.eval(expr, Global)
}

// ExecStmts executes the statements in scope and returns the value of
// the last one, or nil if it has no value. A break or continue that
// is not inside a loop is an error.
//
// Most clients do not need this function; use Exec or Eval instead.
func ExecStmts(thread *Thread, stmts []syntax.Stmt, scope Scope) (*Object, error) {
	v, err := thread.execStmts(stmts, scope)
	if err == errBreak || err == errContinue {
		return nil, &Error{Kind: ControlFlowError, Msg: fmt.Sprintf("'%s' outside loop", err)}
	}
	return v, err
}

func (thread *Thread) execStmts(stmts []syntax.Stmt, scope Scope) (*Object, error) {
	var last *Object
	for i, stmt := range stmts {
		v, err := thread.exec(stmt, scope)
		if err != nil {
			if err != errBreak && err != errContinue {
				start, _ := stmt.Span()
				err = at(err, start)
			}
			return nil, err
		}
		if i == len(stmts)-1 {
			last = v
		} else {
			thread.pool().drop(v)
		}
	}
	return last, nil
}

func (thread *Thread) exec(stmt syntax.Stmt, scope Scope) (*Object, error) {
	switch stmt := stmt.(type) {
	case *syntax.ExprStmt:
		return thread.eval(stmt.X, scope)

	case *syntax.Print:
		v, err := thread.eval(stmt.Value, scope)
		if err != nil {
			return nil, err
		}
		s, err := Str(thread, v)
		thread.pool().drop(v)
		if err != nil {
			return nil, at(err, stmt.PrintPos)
		}
		thread.print(s)
		return nil, nil

	case *syntax.Assign:
		v, err := thread.eval(stmt.Value, scope)
		if err != nil {
			return nil, err
		}
		return nil, at(thread.assign(stmt.Target, v, scope), stmt.EqPos)

	case *syntax.If:
		ok, err := thread.test(stmt.Test, scope)
		if err != nil {
			return nil, err
		}
		if ok {
			return thread.execStmts(stmt.Body, scope)
		}
		return thread.execStmts(stmt.Orelse, scope)

	case *syntax.While:
		for {
			if err := thread.cancelled(); err != nil {
				return nil, at(err, stmt.WhilePos)
			}
			ok, err := thread.test(stmt.Test, scope)
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			v, err := thread.execStmts(stmt.Body, scope)
			thread.pool().drop(v)
			if err == errBreak {
				return nil, nil // skip the else clause
			} else if err != nil && err != errContinue {
				return nil, err
			}
		}
		v, err := thread.execStmts(stmt.Orelse, scope)
		thread.pool().drop(v)
		return nil, err

	case *syntax.Break:
		return nil, errBreak

	case *syntax.Continue:
		return nil, errContinue

	case *syntax.Pass:
		return nil, nil

	case *syntax.Def:
		fn := thread.function(stmt, scope)
		_, err := thread.ns.Set(scope, fn.Name, makeFunction(fn))
		return nil, at(err, stmt.Name.NamePos)

	case *syntax.Class:
		cls := &Class{Name: stmt.Name.ID, Methods: make(map[string]Behavior)}
		obj := MakeClass(cls)
		for _, s := range stmt.Body {
			switch s := s.(type) {
			case *syntax.Def:
				cls.Methods[s.Name.ID] = Interpreted{Function: thread.function(s, scope), Method: true}
			case *syntax.Assign:
				v, err := thread.eval(s.Value, scope)
				if err != nil {
					thread.pool().drop(obj)
					return nil, err
				}
				obj.SetAttr(thread.pool(), s.Target.(*syntax.Name).ID, v)
			}
		}
		_, err := thread.ns.Set(scope, cls.Name, obj)
		return nil, at(err, stmt.Name.NamePos)
	}
	panic(fmt.Sprintf("unexpected statement %T", stmt))
}

func (thread *Thread) function(def *syntax.Def, scope Scope) *Function {
	params := make([]string, len(def.Params))
	for i, p := range def.Params {
		params[i] = p.ID
	}
	return &Function{
		Name:   def.Name.ID,
		Pos:    def.DefPos,
		Params: params,
		Body:   def.Body,
		scope:  scope,
	}
}

// test evaluates the truth of a condition.
func (thread *Thread) test(cond syntax.Expr, scope Scope) (bool, error) {
	v, err := thread.eval(cond, scope)
	if err != nil {
		return false, err
	}
	ok, err := Truth(thread, v)
	thread.pool().drop(v)
	if err != nil {
		start, _ := cond.Span()
		return false, at(err, start)
	}
	return ok, nil
}

// assign binds v to the target of an assignment, taking ownership of v.
func (thread *Thread) assign(target syntax.Expr, v *Object, scope Scope) error {
	switch target := target.(type) {
	case *syntax.Name:
		if target.Ctx != syntax.Store {
			thread.pool().drop(v)
			return &Error{Kind: SetVariableError, Name: target.ID, Scope: scope.String(),
				Msg: fmt.Sprintf("cannot assign to '%s' in %s context", target.ID, target.Ctx)}
		}
		_, err := thread.ns.Set(scope, target.ID, v)
		return err

	case *syntax.Attribute:
		return thread.setAttr(target, v, scope)
	}
	thread.pool().drop(v)
	return fmt.Errorf("cannot assign to %T", target)
}

// setAttr performs x.f = v by storing a modified copy of x back into
// the variable that x denotes.
func (thread *Thread) setAttr(target *syntax.Attribute, v *Object, scope Scope) error {
	recv, err := thread.eval(target.X, scope)
	if err != nil {
		thread.pool().drop(v)
		return err
	}
	updated := recv.Clone(thread.pool())
	thread.pool().drop(recv)
	updated.SetAttr(thread.pool(), target.Attr, v)
	return thread.rebind(target.X, updated, scope)
}

// rebind stores v into the variable or attribute denoted by x.
// Updates of other temporaries are discarded.
func (thread *Thread) rebind(x syntax.Expr, v *Object, scope Scope) error {
	switch x := x.(type) {
	case *syntax.Name:
		return at(thread.ns.Variable(scope, x.ID).SetValue(v), x.NamePos)
	case *syntax.Attribute:
		return thread.setAttr(x, v, scope)
	}
	thread.pool().drop(v)
	return nil
}

func (thread *Thread) eval(e syntax.Expr, scope Scope) (*Object, error) {
	v, err := thread.eval1(e, scope)
	if err != nil {
		start, _ := e.Span()
		return nil, at(err, start)
	}
	return v, nil
}

func (thread *Thread) eval1(e syntax.Expr, scope Scope) (*Object, error) {
	switch e := e.(type) {
	case *syntax.Constant:
		switch v := e.Value.(type) {
		case int64:
			return MakeInt(v), nil
		case float64:
			return MakeFloat(v), nil
		case string:
			return MakeString(v), nil
		case bool:
			return MakeBool(v), nil
		case nil:
			return MakeNone(), nil
		}
		return nil, fmt.Errorf("unexpected constant %T", e.Value)

	case *syntax.Name:
		return thread.ns.Lookup(scope, e.ID)

	case *syntax.List:
		elems := make([]*Object, 0, len(e.Elts))
		for _, x := range e.Elts {
			v, err := thread.eval(x, scope)
			if err != nil {
				for _, elem := range elems {
					thread.pool().drop(elem)
				}
				return nil, err
			}
			elems = append(elems, v)
		}
		return MakeList(thread.pool(), elems), nil

	case *syntax.Attribute:
		recv, err := thread.eval(e.X, scope)
		if err != nil {
			return nil, err
		}
		return thread.getAttr(recv, e.Attr)

	case *syntax.Call:
		if attr, ok := e.Fn.(*syntax.Attribute); ok {
			return thread.callAttr(attr, e.Args, scope)
		}
		fn, err := thread.eval(e.Fn, scope)
		if err != nil {
			return nil, err
		}
		args, err := thread.evalArgs(e.Args, scope)
		if err != nil {
			thread.pool().drop(fn)
			return nil, err
		}
		v, err := callValue(thread, fn, args)
		thread.dropAll(v, fn)
		thread.dropAll(v, args...)
		return v, err

	case *syntax.BinOp:
		x, err := thread.eval(e.Left, scope)
		if err != nil {
			return nil, err
		}
		y, err := thread.eval(e.Right, scope)
		if err != nil {
			thread.pool().drop(x)
			return nil, err
		}
		v, err := Binary(thread, e.Op, x, y)
		thread.dropAll(v, x, y)
		return v, at(err, e.OpPos)

	case *syntax.UnaryOp:
		x, err := thread.eval(e.X, scope)
		if err != nil {
			return nil, err
		}
		if e.Op == syntax.NOT {
			ok, err := Truth(thread, x)
			thread.pool().drop(x)
			if err != nil {
				return nil, at(err, e.OpPos)
			}
			return MakeBool(!ok), nil
		}
		method := "__neg__"
		if e.Op == syntax.PLUS {
			method = "__pos__"
		}
		if !implemented(x.methods[method]) {
			thread.pool().drop(x)
			return nil, at(typeErrorf("bad operand type for unary %s: '%s'", e.Op, x.identity), e.OpPos)
		}
		v, err := Call(thread, x, method)
		thread.dropAll(v, x)
		return v, at(err, e.OpPos)

	case *syntax.BoolOp:
		// Operands are tested left to right; evaluation stops at the
		// first operand that decides the result.
		decisive := e.Op == syntax.OR
		for _, x := range e.Values {
			ok, err := thread.test(x, scope)
			if err != nil {
				return nil, err
			}
			if ok == decisive {
				return MakeBool(decisive), nil
			}
		}
		return MakeBool(!decisive), nil

	case *syntax.Compare:
		x, err := thread.eval(e.Left, scope)
		if err != nil {
			return nil, err
		}
		for i, op := range e.Ops {
			y, err := thread.eval(e.Comparators[i], scope)
			if err != nil {
				thread.pool().drop(x)
				return nil, err
			}
			ok, err := compare(thread, op, x, y)
			thread.pool().drop(x)
			if err != nil || !ok {
				thread.pool().drop(y)
				return MakeBool(false), at(err, e.OpPos[i])
			}
			x = y
		}
		thread.pool().drop(x)
		return MakeBool(true), nil
	}
	panic(fmt.Sprintf("unexpected expression %T", e))
}

func (thread *Thread) evalArgs(exprs []syntax.Expr, scope Scope) ([]*Object, error) {
	args := make([]*Object, 0, len(exprs))
	for _, x := range exprs {
		v, err := thread.eval(x, scope)
		if err != nil {
			thread.dropAll(nil, args...)
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

// dropAll drops the temporaries among vals, except keep.
func (thread *Thread) dropAll(keep *Object, vals ...*Object) {
	for _, v := range vals {
		if v != keep {
			thread.pool().drop(v)
		}
	}
}

// getAttr returns the value of recv.name: an attribute, a function
// defined in a class body, or a bound method.
func (thread *Thread) getAttr(recv *Object, name string) (*Object, error) {
	if id, ok := recv.attrs[name]; ok {
		v, _ := thread.pool().Get(id)
		if !recv.pooled {
			v = v.Clone(thread.pool())
			thread.pool().drop(recv)
		}
		return v, nil
	}
	if cls, ok := recv.data.(*Class); ok {
		if b, ok := cls.Methods[name].(Interpreted); ok {
			return makeFunction(b.Function), nil
		}
	}
	if implemented(recv.methods[name]) {
		return makeBoundMethod(recv, name), nil
	}
	err := noAttr(recv, name)
	thread.pool().drop(recv)
	return nil, err
}

func noAttr(recv *Object, name string) error {
	candidates := recv.AttrNames()
	for _, m := range recv.MethodNames() {
		if implemented(recv.methods[m]) {
			candidates = append(candidates, m)
		}
	}
	msg := fmt.Sprintf("'%s' object has no attribute '%s'", recv.identity, name)
	if n := nearest(name, candidates); n != "" {
		msg += fmt.Sprintf(" (did you mean '%s'?)", n)
	}
	return &Error{Kind: ObjDataTypeNotAttr, Identity: recv.identity, Name: name, Msg: msg}
}

// callAttr evaluates x.f(args). If f is an attribute, its value is
// called. Otherwise f is a method of x; when the method is interpreted
// and changes its receiver, the new receiver is stored back into x.
func (thread *Thread) callAttr(attr *syntax.Attribute, argExprs []syntax.Expr, scope Scope) (result *Object, err error) {
	recv, err := thread.eval(attr.X, scope)
	if err != nil {
		return nil, err
	}
	args, err := thread.evalArgs(argExprs, scope)
	if err != nil {
		thread.pool().drop(recv)
		return nil, err
	}
	defer func() { thread.dropAll(result, args...) }()

	if id, ok := recv.attrs[attr.Attr]; ok {
		fn, _ := thread.pool().Get(id)
		v, err := callValue(thread, fn, args)
		if v != nil && v.pooled && !recv.pooled {
			v = v.Clone(thread.pool())
		}
		thread.pool().drop(recv)
		return v, err
	}
	if cls, ok := recv.data.(*Class); ok {
		if b, ok := cls.Methods[attr.Attr].(Interpreted); ok {
			v, _, err := thread.callFunction(b.Function, args, false)
			return v, err
		}
	}
	if !implemented(recv.methods[attr.Attr]) {
		thread.pool().drop(recv)
		return nil, &Error{Kind: ObjMethodCallError, Identity: recv.identity, Method: attr.Attr,
			Msg: noAttr(recv, attr.Attr).(*Error).Msg}
	}
	v, self, err := callMethod(thread, recv, attr.Attr, args)
	if self != nil && err == nil && !identical(self, recv) {
		if err := thread.rebind(attr.X, self, scope); err != nil {
			return nil, err
		}
	} else {
		thread.pool().drop(self)
	}
	if v != recv {
		thread.pool().drop(recv)
	}
	return v, err
}

// callFunction calls an interpreted function. If method is set, it
// also returns the final value of the first parameter.
//
// A function defined inside a call that is still active runs in a
// new local scope below its definition, so it sees the caller's
// variables; any other function runs in a new enclosing scope.
func (thread *Thread) callFunction(fn *Function, args []*Object, method bool) (result, self *Object, err error) {
	if len(args) != len(fn.Params) {
		return nil, nil, typeErrorf("%s() takes %d argument(s) (%d given)", fn.Name, len(fn.Params), len(args))
	}
	limit := thread.MaxDepth
	if limit == 0 {
		limit = DefaultMaxDepth
	}
	if err := thread.cancelled(); err != nil {
		return nil, nil, err
	}
	if thread.depth >= limit {
		return nil, nil, &Error{Kind: RecursionError, Name: fn.Name, Msg: "maximum recursion depth exceeded"}
	}
	thread.depth++
	defer func() { thread.depth-- }()

	var scope Scope
	if fn.scope.Kind != GlobalScope && thread.ns.active(fn.scope.Call) {
		thread.blocks++
		scope = fn.scope.child(fn.Name + "#" + strconv.Itoa(thread.blocks))
		if err := thread.ns.CreateLocal(scope.Call, scope.Path); err != nil {
			return nil, nil, err
		}
		defer thread.ns.DropLocal(scope.Call, scope.Path)
	} else {
		call := thread.ns.NewCall()
		thread.ns.CreateEnclosing(call)
		scope = Enclosing(call)
		defer thread.ns.DropEnclosing(call)
	}

	for i, param := range fn.Params {
		if _, err := thread.ns.Set(scope, param, args[i]); err != nil {
			return nil, nil, err
		}
	}
	v, err := thread.execStmts(fn.Body, scope)
	if err == errBreak || err == errContinue {
		return nil, nil, &Error{Kind: ControlFlowError, Msg: fmt.Sprintf("'%s' outside loop", err)}
	}
	if err != nil {
		return nil, nil, err
	}
	if v == nil {
		v = MakeNone()
	}
	result = thread.own(v)
	if method && len(fn.Params) > 0 {
		if s, err := thread.ns.Lookup(scope, fn.Params[0]); err == nil {
			self = thread.own(s)
		}
	}
	return result, self, nil
}
