// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pyrite

// A Variable represents an addressable variable: a name as seen from
// a scope.
//
// Pyrite values are immutable once pooled, so an update such as
// x.f = 1 is performed by building a modified copy of x and storing
// the copy back into the variable x. The Variable is the handle used
// for that final step. Its address is the pool id the name currently
// resolves to; SetValue rebinds the name in the table where it is
// found, so that updating a global from inside a call changes the
// global rather than shadowing it.
//
// A Variable is resolved each time it is used; it does not hold a
// reference to any pool slot.
type Variable struct {
	ns    *Namespace
	scope Scope
	name  string
}

// Variable returns the variable name as seen from scope.
func (ns *Namespace) Variable(scope Scope, name string) *Variable {
	return &Variable{ns: ns, scope: scope, name: name}
}

// Name returns the variable's name.
func (v *Variable) Name() string { return v.name }

// Address returns the pool id the variable currently refers to.
func (v *Variable) Address() (PoolID, error) {
	_, id, err := v.ns.lookupID(v.scope, v.name)
	return id, err
}

// Value returns the variable's current value.
func (v *Variable) Value() (*Object, error) {
	return v.ns.Lookup(v.scope, v.name)
}

// SetValue stores obj into the variable. A name that is not yet bound,
// or is bound only in the builtin scope, is bound in the variable's
// own scope.
func (v *Variable) SetValue(obj *Object) error {
	if t, _, err := v.ns.lookupID(v.scope, v.name); err == nil && t != nil {
		v.ns.bind(t, v.name, obj)
		return nil
	}
	_, err := v.ns.Set(v.scope, v.name, obj)
	return err
}
