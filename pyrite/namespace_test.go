// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pyrite

import (
	"strings"
	"testing"

	"github.com/go-test/deep"
)

func TestScopeResolution(t *testing.T) {
	ns := NewNamespace(NewPool())
	ns.SetBuiltin("len", MakeString("builtin len"))
	ns.SetGlobal("x", MakeString("global"))
	call := ns.NewCall()
	ns.CreateEnclosing(call)
	if _, err := ns.SetEnclosing(call, "x", MakeString("enclosing")); err != nil {
		t.Fatal(err)
	}
	if _, err := ns.SetLocal(call, []string{"f#1"}, "y", MakeString("local")); err != nil {
		t.Fatal(err)
	}

	for _, test := range []struct {
		scope      Scope
		name, want string
	}{
		{Global, "x", "global"},
		{Enclosing(call), "x", "enclosing"},
		{Local(call, "f#1"), "x", "enclosing"},
		{Local(call, "f#1"), "y", "local"},
		{Local(call, "f#1"), "len", "builtin len"},
		{Global, "len", "builtin len"},
		{Enclosing(call), "y", "GetVariableError: name 'y' is not defined"},
		{Global, "y", "GetVariableError: name 'y' is not defined"},
	} {
		var got string
		if v, err := ns.Lookup(test.scope, test.name); err != nil {
			got = err.Error()
		} else {
			got = v.Data().(string)
		}
		if got != test.want {
			t.Errorf("Lookup(%s, %s) = %s, want %s", test.scope, test.name, got, test.want)
		}
	}
}

func TestNamespaceErrors(t *testing.T) {
	ns := NewNamespace(NewPool())
	call := ns.NewCall()

	if _, err := ns.SetEnclosing(call, "x", MakeInt(1)); !IsKind(err, NamespaceNotFound) {
		t.Errorf("SetEnclosing before CreateEnclosing: got %v, want NamespaceNotFound", err)
	}
	ns.CreateEnclosing(call)
	if _, err := ns.GetLocal(call, []string{"a", "b"}, "x"); !IsKind(err, NamespaceNotFound) {
		t.Errorf("GetLocal of missing path: got %v, want NamespaceNotFound", err)
	} else if e := err.(*Error); e.Scope != "local(1, a)" {
		t.Errorf("NamespaceNotFound names scope %q, want the first missing segment", e.Scope)
	}
	if err := ns.CreateLocal(call, []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if _, err := ns.GetLocal(call, []string{"a", "b"}, "x"); !IsKind(err, GetVariableError) {
		t.Errorf("GetLocal of unbound name: got %v, want GetVariableError", err)
	}
	if _, err := ns.Set(Scope{Kind: BuiltinScope}, "x", MakeInt(1)); !IsKind(err, SetVariableError) {
		t.Errorf("Set in builtin scope: got %v, want SetVariableError", err)
	}
}

func TestDropEnclosing(t *testing.T) {
	pool := NewPool()
	ns := NewNamespace(pool)
	g := ns.SetGlobal("g", MakeInt(10))

	call := ns.NewCall()
	ns.CreateEnclosing(call)
	if id, _ := ns.SetEnclosing(call, "a", MakeInt(10)); id != g {
		t.Errorf("equal values bound in two scopes do not share a slot")
	}
	ns.SetEnclosing(call, "b", MakeString("s"))
	ns.SetLocal(call, []string{"inner"}, "c", MakeList(pool, []*Object{MakeString("s"), MakeInt(3)}))
	if got := pool.Count(g); got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}

	ns.DropEnclosing(call)
	if got := pool.Len(); got != 1 {
		t.Errorf("after DropEnclosing, Len = %d, want 1", got)
	}
	if got := pool.Count(g); got != 1 {
		t.Errorf("after DropEnclosing, Count = %d, want 1", got)
	}
	if ns.active(call) {
		t.Errorf("call still active after DropEnclosing")
	}
}

func TestRebinding(t *testing.T) {
	pool := NewPool()
	ns := NewNamespace(pool)
	ns.SetGlobal("a", MakeInt(1))
	ns.SetGlobal("b", MakeInt(1))
	ns.SetGlobal("a", MakeInt(2))
	ns.SetGlobal("b", MakeInt(2))

	// Both names now share the slot of 2; the slot of 1 is gone.
	if got := pool.Len(); got != 1 {
		t.Errorf("Len = %d, want 1", got)
	}
	got := make(map[string]string)
	for name, v := range ns.Globals() {
		got[name] = v.String()
	}
	want := map[string]string{"a": "int(2)", "b": "int(2)"}
	if diff := deep.Equal(got, want); diff != nil {
		t.Errorf("globals: %s", strings.Join(diff, "; "))
	}
	if diff := deep.Equal(ns.GlobalNames(), []string{"a", "b"}); diff != nil {
		t.Errorf("GlobalNames: %v", diff)
	}
}

func TestVariable(t *testing.T) {
	ns := NewNamespace(NewPool())
	ns.SetBuiltin("len", MakeString("builtin"))
	ns.SetGlobal("x", MakeInt(1))
	call := ns.NewCall()
	ns.CreateEnclosing(call)
	scope := Local(call, "f#1")
	ns.CreateLocal(call, scope.Path)

	// x is found in the global scope, so it is rebound there.
	if err := ns.Variable(scope, "x").SetValue(MakeInt(2)); err != nil {
		t.Fatal(err)
	}
	if v, _ := ns.GetGlobal("x"); v.Data() != int64(2) {
		t.Errorf("global x = %v, want 2", v)
	}

	// A builtin is shadowed in the scope, never overwritten.
	if err := ns.Variable(scope, "len").SetValue(MakeInt(3)); err != nil {
		t.Fatal(err)
	}
	if v, _ := ns.GetBuiltin("len"); v.Data() != "builtin" {
		t.Errorf("builtin len = %v, want unchanged", v)
	}
	if v, err := ns.GetLocal(call, scope.Path, "len"); err != nil || v.Data() != int64(3) {
		t.Errorf("local len = %v, %v; want 3", v, err)
	}
	if _, err := ns.Variable(scope, "nope").Address(); !IsKind(err, GetVariableError) {
		t.Errorf("Address of unbound name: got %v, want GetVariableError", err)
	}
}

func TestLookupSuggestion(t *testing.T) {
	ns := NewNamespace(NewPool())
	ns.SetGlobal("count", MakeInt(0))
	_, err := ns.Lookup(Global, "cout")
	if err == nil || !strings.Contains(err.Error(), "did you mean 'count'?") {
		t.Errorf("Lookup(cout) = %v, want suggestion of count", err)
	}
}
