// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pyrite

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.pyrite.dev/syntax"
)

// A NativeFunc implements a NativeCall behavior. recv is the receiver;
// args holds the remaining arguments.
type NativeFunc func(thread *Thread, recv *Object, args []*Object) (*Object, error)

// Natives is the registry of native methods, keyed by type identity
// and method name. Methods not registered for an identity are looked
// up under "object", so user classes share the object defaults.
type Natives struct {
	table map[string]map[string]NativeFunc
}

// NewNatives returns a registry holding the methods of the predeclared
// types.
func NewNatives() *Natives {
	n := &Natives{table: make(map[string]map[string]NativeFunc)}
	registerDefaults(n)
	return n
}

// Register installs fn as the native method of the given identity,
// replacing any previous entry.
func (n *Natives) Register(identity, method string, fn NativeFunc) {
	m, ok := n.table[identity]
	if !ok {
		m = make(map[string]NativeFunc)
		n.table[identity] = m
	}
	m[method] = fn
}

// Lookup returns the native method of the given identity.
func (n *Natives) Lookup(identity, method string) (NativeFunc, bool) {
	if fn, ok := n.table[identity][method]; ok {
		return fn, true
	}
	fn, ok := n.table[ObjectType][method]
	return fn, ok
}

// Methods returns the sorted method names registered for identity.
func (n *Natives) Methods(identity string) []string {
	var names []string
	for name := range n.table[identity] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func wantArgs(recv *Object, method string, args []*Object, n int) error {
	if len(args) != n {
		return &Error{Kind: TypeError, Identity: recv.identity, Method: method,
			Msg: fmt.Sprintf("%s.%s() takes exactly %d argument(s) (%d given)", recv.identity, method, n, len(args))}
	}
	return nil
}

func arithNative(method string) NativeFunc {
	op := methodOps[method]
	return func(thread *Thread, recv *Object, args []*Object) (*Object, error) {
		if err := wantArgs(recv, method, args, 1); err != nil {
			return nil, err
		}
		return arith(thread, op, recv, args[0])
	}
}

func compareNative(method string) NativeFunc {
	op := methodOps[method]
	return func(thread *Thread, recv *Object, args []*Object) (*Object, error) {
		if err := wantArgs(recv, method, args, 1); err != nil {
			return nil, err
		}
		ok, err := compareValues(thread, op, recv, args[0])
		if err != nil {
			return nil, err
		}
		return MakeBool(ok), nil
	}
}

func registerDefaults(n *Natives) {
	for _, identity := range []string{IntType, FloatType, BoolType, StringType, ListType} {
		for _, name := range arithMethods {
			n.Register(identity, name, arithNative(name))
		}
		for _, name := range compareMethods {
			n.Register(identity, name, compareNative(name))
		}
		n.Register(identity, "__str__", strNative)
	}
	n.Register(NoneType, "__eq__", compareNative("__eq__"))
	n.Register(NoneType, "__ne__", compareNative("__ne__"))

	for _, identity := range []string{IntType, FloatType, BoolType} {
		n.Register(identity, "__bool__", numberBool)
		n.Register(identity, "__neg__", numberNeg)
		n.Register(identity, "__pos__", numberPos)
	}
	n.Register(StringType, "__len__", stringLen)
	n.Register(StringType, "__contains__", stringContains)
	n.Register(ListType, "__len__", listLen)
	n.Register(ListType, "__contains__", listContains)

	for _, identity := range []string{NoneType, TypeType, FuncType, BuiltinType, MethodType} {
		n.Register(identity, "__str__", strNative)
		n.Register(identity, "__bool__", func(thread *Thread, recv *Object, args []*Object) (*Object, error) {
			return MakeBool(!recv.IsNone()), nil
		})
	}
	n.Register(TypeType, "__call__", instantiate)
	n.Register(BuiltinType, "__call__", callBuiltin)
	n.Register(MethodType, "__call__", callBound)

	n.Register(ObjectType, "__init__", func(thread *Thread, recv *Object, args []*Object) (*Object, error) {
		if len(args) > 0 {
			return nil, typeErrorf("%s() takes no arguments", recv.identity)
		}
		return MakeNone(), nil
	})
	n.Register(ObjectType, "__str__", strNative)
}

// strNative is the __str__ of the predeclared types and of object.
func strNative(thread *Thread, recv *Object, args []*Object) (*Object, error) {
	switch x := recv.data.(type) {
	case int64:
		return MakeString(strconv.FormatInt(x, 10)), nil
	case float64:
		return MakeString(formatFloat(x)), nil
	case bool:
		if x {
			return MakeString("True"), nil
		}
		return MakeString("False"), nil
	case string:
		return recv, nil
	case []PoolID:
		var buf strings.Builder
		buf.WriteByte('[')
		for i, id := range x {
			if i > 0 {
				buf.WriteString(", ")
			}
			elem, _ := thread.pool().Get(id)
			s, err := Repr(thread, elem)
			if err != nil {
				return nil, err
			}
			buf.WriteString(s)
		}
		buf.WriteByte(']')
		return MakeString(buf.String()), nil
	}
	return MakeString(recv.String()), nil
}

func numberBool(thread *Thread, recv *Object, args []*Object) (*Object, error) {
	_, f, _, _ := number(recv)
	return MakeBool(f != 0), nil
}

func numberNeg(thread *Thread, recv *Object, args []*Object) (*Object, error) {
	i, f, isFloat, _ := number(recv)
	if isFloat {
		return MakeFloat(-f), nil
	}
	return MakeInt(-i), nil
}

func numberPos(thread *Thread, recv *Object, args []*Object) (*Object, error) {
	i, _, isFloat, _ := number(recv)
	if isFloat || recv.identity == IntType {
		return recv, nil
	}
	return MakeInt(i), nil
}

func stringLen(thread *Thread, recv *Object, args []*Object) (*Object, error) {
	return MakeInt(int64(utf8.RuneCountInString(recv.data.(string)))), nil
}

func stringContains(thread *Thread, recv *Object, args []*Object) (*Object, error) {
	if err := wantArgs(recv, "__contains__", args, 1); err != nil {
		return nil, err
	}
	sub, ok := args[0].data.(string)
	if !ok || args[0].identity != StringType {
		return nil, typeErrorf("'in <string>' requires string as left operand, not %s", args[0].identity)
	}
	return MakeBool(strings.Contains(recv.data.(string), sub)), nil
}

func listLen(thread *Thread, recv *Object, args []*Object) (*Object, error) {
	return MakeInt(int64(len(recv.data.([]PoolID)))), nil
}

func listContains(thread *Thread, recv *Object, args []*Object) (*Object, error) {
	if err := wantArgs(recv, "__contains__", args, 1); err != nil {
		return nil, err
	}
	for _, id := range recv.data.([]PoolID) {
		elem, _ := thread.pool().Get(id)
		eq, err := compare(thread, syntax.EQL, args[0], elem)
		if err != nil {
			return nil, err
		}
		if eq {
			return MakeBool(true), nil
		}
	}
	return MakeBool(false), nil
}

func callBuiltin(thread *Thread, recv *Object, args []*Object) (*Object, error) {
	b := recv.data.(*Builtin)
	result, err := b.Fn(thread, args)
	if err != nil {
		if e, ok := err.(*Error); ok && e.Method == "" {
			e.Method = b.Name
		}
		return nil, err
	}
	if result == nil {
		result = MakeNone()
	}
	return result, nil
}

// callBound calls a bound method. The final value of the receiver is
// discarded; the evaluator writes it back when the receiver is a variable.
func callBound(thread *Thread, recv *Object, args []*Object) (*Object, error) {
	bm := recv.data.(*BoundMethod)
	return Call(thread, bm.Recv, bm.Name, args...)
}

// instantiate is the __call__ of a class. The instance gets the object
// defaults overlaid with the class methods and a copy of the class
// attributes; an interpreted __init__ then runs on it.
func instantiate(thread *Thread, recv *Object, args []*Object) (*Object, error) {
	cls := recv.data.(*Class)
	inst := &Object{
		identity: cls.Name,
		attrs:    make(map[string]PoolID, len(recv.attrs)),
		methods:  defaultMethods(ObjectType),
	}
	for name, b := range cls.Methods {
		inst.methods[name] = b
	}
	for name, id := range recv.attrs {
		thread.pool().Retain(id)
		inst.attrs[name] = id
	}
	if _, ok := inst.methods["__init__"].(Interpreted); !ok {
		if len(args) > 0 {
			thread.pool().drop(inst)
			return nil, typeErrorf("%s() takes no arguments", cls.Name)
		}
		return inst, nil
	}
	_, self, err := callMethod(thread, inst, "__init__", args)
	if err != nil {
		return nil, err
	}
	return self, nil
}
