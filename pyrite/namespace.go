// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pyrite

import (
	"fmt"
	"sort"
	"strings"
)

// A ScopeKind is one of the four namespace levels.
type ScopeKind uint8

const (
	BuiltinScope   ScopeKind = iota // predeclared by the host
	GlobalScope                     // top level of the program
	EnclosingScope                  // one per active call
	LocalScope                      // nested under an enclosing scope, addressed by a path
)

var scopeKindNames = [...]string{
	BuiltinScope:   "builtin",
	GlobalScope:    "global",
	EnclosingScope: "enclosing",
	LocalScope:     "local",
}

func (k ScopeKind) String() string { return scopeKindNames[k] }

// A CallID identifies an active function call.
type CallID uint32

// A Scope says where a statement executes: the kind of the innermost
// table, and for enclosing and local scopes the call and path.
type Scope struct {
	Kind ScopeKind
	Call CallID
	Path []string
}

// Global is the scope of top-level statements.
var Global = Scope{Kind: GlobalScope}

// Enclosing returns the scope of the body of call.
func Enclosing(call CallID) Scope { return Scope{Kind: EnclosingScope, Call: call} }

// Local returns the local scope at path under call.
func Local(call CallID, path ...string) Scope {
	return Scope{Kind: LocalScope, Call: call, Path: path}
}

// child returns the local scope one level below s.
func (s Scope) child(segment string) Scope {
	path := make([]string, len(s.Path), len(s.Path)+1)
	copy(path, s.Path)
	return Scope{Kind: LocalScope, Call: s.Call, Path: append(path, segment)}
}

func (s Scope) String() string {
	switch s.Kind {
	case EnclosingScope:
		return fmt.Sprintf("enclosing(%d)", s.Call)
	case LocalScope:
		return fmt.Sprintf("local(%d, %s)", s.Call, strings.Join(s.Path, "/"))
	}
	return s.Kind.String()
}

// A table maps names to pool ids.
type table map[string]PoolID

// localTable is a node of the tree of local scopes of one call.
type localTable struct {
	vars     table
	children map[string]*localTable
}

func newLocalTable() *localTable {
	return &localTable{vars: make(table), children: make(map[string]*localTable)}
}

// A Namespace holds the four levels of name bindings of a program.
// Every binding refers to a slot of the namespace's Pool.
type Namespace struct {
	pool      *Pool
	builtin   table
	global    table
	enclosing map[CallID]*localTable // root of each call's scope tree
	lastCall  CallID
}

// NewNamespace returns an empty namespace backed by pool.
func NewNamespace(pool *Pool) *Namespace {
	return &Namespace{
		pool:      pool,
		builtin:   make(table),
		global:    make(table),
		enclosing: make(map[CallID]*localTable),
	}
}

// Pool returns the namespace's variable pool.
func (ns *Namespace) Pool() *Pool { return ns.pool }

// NewCall returns a fresh call id.
func (ns *Namespace) NewCall() CallID {
	ns.lastCall++
	return ns.lastCall
}

// CreateEnclosing creates the enclosing scope of call. It is a no-op
// if the scope already exists.
func (ns *Namespace) CreateEnclosing(call CallID) {
	if _, ok := ns.enclosing[call]; !ok {
		ns.enclosing[call] = newLocalTable()
	}
}

// active reports whether call has an enclosing scope.
func (ns *Namespace) active(call CallID) bool {
	_, ok := ns.enclosing[call]
	return ok
}

// CreateLocal creates the local scope at path under call, along with
// any missing intermediate scopes. The enclosing scope must exist.
func (ns *Namespace) CreateLocal(call CallID, path []string) error {
	_, err := ns.local(call, path, true)
	return err
}

// local returns the table at path under call, or a NamespaceNotFound
// error. If create is set, missing path segments are created.
func (ns *Namespace) local(call CallID, path []string, create bool) (*localTable, error) {
	t, ok := ns.enclosing[call]
	if !ok {
		return nil, &Error{Kind: NamespaceNotFound, Scope: Enclosing(call).String(),
			Msg: fmt.Sprintf("no enclosing scope for call %d", call)}
	}
	for i, seg := range path {
		next, ok := t.children[seg]
		if !ok {
			if !create {
				return nil, &Error{Kind: NamespaceNotFound, Scope: Local(call, path[:i+1]...).String(),
					Msg: fmt.Sprintf("no local scope %s", strings.Join(path[:i+1], "/"))}
			}
			next = newLocalTable()
			t.children[seg] = next
		}
		t = next
	}
	return t, nil
}

// DropEnclosing releases every binding of call, including its local
// scopes, and removes the scope.
func (ns *Namespace) DropEnclosing(call CallID) {
	if t, ok := ns.enclosing[call]; ok {
		ns.release(t)
		delete(ns.enclosing, call)
	}
}

// DropLocal releases every binding of the local scope at path and of
// the scopes below it, and removes it from its parent.
func (ns *Namespace) DropLocal(call CallID, path []string) {
	if len(path) == 0 {
		ns.DropEnclosing(call)
		return
	}
	parent, err := ns.local(call, path[:len(path)-1], false)
	if err != nil {
		return
	}
	last := path[len(path)-1]
	if t, ok := parent.children[last]; ok {
		ns.release(t)
		delete(parent.children, last)
	}
}

func (ns *Namespace) release(t *localTable) {
	for _, child := range t.children {
		ns.release(child)
	}
	for _, id := range t.vars {
		ns.pool.Release(id)
	}
}

// bind stores obj and binds name to it in t, releasing any previous binding.
func (ns *Namespace) bind(t table, name string, obj *Object) PoolID {
	if old, ok := t[name]; ok {
		id := ns.pool.Update(old, obj)
		t[name] = id
		return id
	}
	id := ns.pool.Store(obj)
	t[name] = id
	return id
}

func (ns *Namespace) get(t table, name string, scope Scope) (*Object, error) {
	if id, ok := t[name]; ok {
		if obj, ok := ns.pool.Get(id); ok {
			return obj, nil
		}
	}
	return nil, &Error{Kind: GetVariableError, Name: name, Scope: scope.String(),
		Msg: fmt.Sprintf("name '%s' is not defined in %s scope", name, scope)}
}

// GetBuiltin returns the value of a builtin name.
func (ns *Namespace) GetBuiltin(name string) (*Object, error) {
	return ns.get(ns.builtin, name, Scope{Kind: BuiltinScope})
}

// GetGlobal returns the value of a global name.
func (ns *Namespace) GetGlobal(name string) (*Object, error) {
	return ns.get(ns.global, name, Global)
}

// GetEnclosing returns the value of name in the enclosing scope of call.
func (ns *Namespace) GetEnclosing(call CallID, name string) (*Object, error) {
	t, err := ns.local(call, nil, false)
	if err != nil {
		return nil, err
	}
	return ns.get(t.vars, name, Enclosing(call))
}

// GetLocal returns the value of name in the local scope at path.
func (ns *Namespace) GetLocal(call CallID, path []string, name string) (*Object, error) {
	t, err := ns.local(call, path, false)
	if err != nil {
		return nil, err
	}
	return ns.get(t.vars, name, Local(call, path...))
}

// SetBuiltin binds name in the builtin scope. It is intended for the
// host; Pyrite code cannot write builtin names.
func (ns *Namespace) SetBuiltin(name string, obj *Object) PoolID {
	return ns.bind(ns.builtin, name, obj)
}

// SetGlobal binds name in the global scope.
func (ns *Namespace) SetGlobal(name string, obj *Object) PoolID {
	return ns.bind(ns.global, name, obj)
}

// SetEnclosing binds name in the enclosing scope of call,
// which must have been created.
func (ns *Namespace) SetEnclosing(call CallID, name string, obj *Object) (PoolID, error) {
	t, err := ns.local(call, nil, false)
	if err != nil {
		return "", err
	}
	return ns.bind(t.vars, name, obj), nil
}

// SetLocal binds name in the local scope at path, creating the path
// if needed. The enclosing scope of call must have been created.
func (ns *Namespace) SetLocal(call CallID, path []string, name string, obj *Object) (PoolID, error) {
	t, err := ns.local(call, path, true)
	if err != nil {
		return "", err
	}
	return ns.bind(t.vars, name, obj), nil
}

// Set binds name in the innermost table of scope.
func (ns *Namespace) Set(scope Scope, name string, obj *Object) (PoolID, error) {
	switch scope.Kind {
	case GlobalScope:
		return ns.SetGlobal(name, obj), nil
	case EnclosingScope:
		return ns.SetEnclosing(scope.Call, name, obj)
	case LocalScope:
		return ns.SetLocal(scope.Call, scope.Path, name, obj)
	}
	ns.pool.drop(obj)
	return "", &Error{Kind: SetVariableError, Name: name, Scope: scope.String(),
		Msg: fmt.Sprintf("cannot assign to '%s' in %s scope", name, scope)}
}

// tables returns the tables visible from scope, innermost first.
func (ns *Namespace) tables(scope Scope) ([]table, error) {
	var tables []table
	if scope.Kind == EnclosingScope || scope.Kind == LocalScope {
		t, ok := ns.enclosing[scope.Call]
		if !ok {
			return nil, &Error{Kind: NamespaceNotFound, Scope: scope.String(),
				Msg: fmt.Sprintf("no enclosing scope for call %d", scope.Call)}
		}
		chain := []table{t.vars}
		if scope.Kind == LocalScope {
			for _, seg := range scope.Path {
				if t = t.children[seg]; t == nil {
					break // not created yet
				}
				chain = append(chain, t.vars)
			}
		}
		for i := len(chain) - 1; i >= 0; i-- {
			tables = append(tables, chain[i])
		}
	}
	if scope.Kind != BuiltinScope {
		tables = append(tables, ns.global)
	}
	return append(tables, ns.builtin), nil
}

// lookupID resolves name from scope and returns the binding table and
// id. The table is nil when the name is a builtin.
func (ns *Namespace) lookupID(scope Scope, name string) (table, PoolID, error) {
	tables, err := ns.tables(scope)
	if err != nil {
		return nil, "", err
	}
	for i, t := range tables {
		if id, ok := t[name]; ok {
			if i == len(tables)-1 {
				return nil, id, nil // builtin
			}
			return t, id, nil
		}
	}
	var candidates []string
	for _, t := range tables {
		for n := range t {
			candidates = append(candidates, n)
		}
	}
	msg := fmt.Sprintf("name '%s' is not defined", name)
	if n := nearest(name, candidates); n != "" {
		msg += fmt.Sprintf(" (did you mean '%s'?)", n)
	}
	return nil, "", &Error{Kind: GetVariableError, Name: name, Scope: scope.String(), Msg: msg}
}

// Lookup resolves name as seen from scope: the local path innermost
// first, then the enclosing scope, the global scope and the builtins.
func (ns *Namespace) Lookup(scope Scope, name string) (*Object, error) {
	_, id, err := ns.lookupID(scope, name)
	if err != nil {
		return nil, err
	}
	obj, _ := ns.pool.Get(id)
	return obj, nil
}

// Globals returns the global bindings.
func (ns *Namespace) Globals() map[string]*Object {
	m := make(map[string]*Object, len(ns.global))
	for name, id := range ns.global {
		if obj, ok := ns.pool.Get(id); ok {
			m[name] = obj
		}
	}
	return m
}

// GlobalNames returns the names of the global bindings in sorted order.
func (ns *Namespace) GlobalNames() []string {
	names := make([]string, 0, len(ns.global))
	for name := range ns.global {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
