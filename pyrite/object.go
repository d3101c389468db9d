// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pyrite

import (
	"fmt"
	"sort"

	"go.pyrite.dev/syntax"
)

// An Object is a Pyrite value.
//
// Every value, including ints and strings, is an Object: a type
// identity, an optional Go payload, a table of attributes that refer to
// other values through the Pool, and a method table of Behaviors.
//
// An Object is immutable once it has been stored in a Pool. Operations
// that appear to modify an object, such as attribute assignment, work
// on a copy made by Clone.
type Object struct {
	identity string
	data     interface{} // nil, int64, float64, bool, string, []PoolID, or one of the callable kinds below
	attrs    map[string]PoolID
	methods  map[string]Behavior

	// pooled is set once the object is the value of a pool slot.
	// Until then the object holds one reference to each id it refers to.
	pooled bool
}

// Identity returns the object's type identity, such as "int" or a class name.
func (o *Object) Identity() string { return o.identity }

// Data returns the object's Go payload.
func (o *Object) Data() interface{} { return o.data }

// Attr returns the id of the named attribute.
func (o *Object) Attr(name string) (PoolID, bool) {
	id, ok := o.attrs[name]
	return id, ok
}

// AttrNames returns the names of the object's attributes in sorted order.
func (o *Object) AttrNames() []string {
	names := make([]string, 0, len(o.attrs))
	for name := range o.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Method returns the named behavior.
func (o *Object) Method(name string) (Behavior, bool) {
	b, ok := o.methods[name]
	return b, ok
}

// MethodNames returns the names of the object's methods in sorted order.
func (o *Object) MethodNames() []string {
	names := make([]string, 0, len(o.methods))
	for name := range o.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetMethod installs or overrides a behavior. Methods are never removed.
// It must not be called on a pooled object.
func (o *Object) SetMethod(name string, b Behavior) {
	if o.pooled {
		panic(fmt.Sprintf("SetMethod(%s) on pooled %s object", name, o.identity))
	}
	o.methods[name] = b
}

// SetAttr stores value in pool and binds the attribute name to it,
// releasing any previous value. It must not be called on a pooled
// object.
func (o *Object) SetAttr(pool *Pool, name string, value *Object) {
	if o.pooled {
		panic(fmt.Sprintf("SetAttr(%s) on pooled %s object", name, o.identity))
	}
	id := pool.Store(value)
	if old, ok := o.attrs[name]; ok {
		pool.Release(old)
	}
	o.attrs[name] = id
}

// refs returns the ids the object holds a reference to.
func (o *Object) refs() []PoolID {
	var ids []PoolID
	for _, name := range o.AttrNames() {
		ids = append(ids, o.attrs[name])
	}
	if elems, ok := o.data.([]PoolID); ok {
		ids = append(ids, elems...)
	}
	return ids
}

// Clone returns an unpooled copy of o that holds its own references.
func (o *Object) Clone(pool *Pool) *Object {
	c := &Object{
		identity: o.identity,
		data:     o.data,
		attrs:    make(map[string]PoolID, len(o.attrs)),
		methods:  make(map[string]Behavior, len(o.methods)),
	}
	if elems, ok := o.data.([]PoolID); ok {
		c.data = append([]PoolID(nil), elems...)
	}
	for name, id := range o.attrs {
		c.attrs[name] = id
	}
	for name, b := range o.methods {
		c.methods[name] = b
	}
	for _, id := range c.refs() {
		pool.Retain(id)
	}
	return c
}

// Equal reports whether o and p are structurally equal: the same
// identity, payload, attribute ids and method table. This is the
// equality the Pool deduplicates by.
func (o *Object) Equal(p *Object) bool {
	if o == p {
		return true
	}
	if o.identity != p.identity || !dataEqual(o.data, p.data) {
		return false
	}
	if len(o.attrs) != len(p.attrs) || len(o.methods) != len(p.methods) {
		return false
	}
	for name, id := range o.attrs {
		if p.attrs[name] != id {
			return false
		}
	}
	for name, b := range o.methods {
		if pb, ok := p.methods[name]; !ok || !behaviorEqual(b, pb) {
			return false
		}
	}
	return true
}

func dataEqual(x, y interface{}) bool {
	switch x := x.(type) {
	case []PoolID:
		y, ok := y.([]PoolID)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i] != y[i] {
				return false
			}
		}
		return true
	case nil, int64, float64, bool, string, *Function, *Class, *Builtin, *BoundMethod:
		return x == y
	}
	return false
}

// A Function is a function defined by a def statement.
type Function struct {
	Name   string
	Pos    syntax.Position
	Params []string
	Body   []syntax.Stmt
	scope  Scope // scope of the def statement
}

// A Class is a user-defined type created by a class statement or
// registered by the host. Class attributes are the attributes of the
// class object itself; each instance starts with a copy of them.
type Class struct {
	Name    string
	Methods map[string]Behavior
}

// A Builtin is a function implemented in Go.
type Builtin struct {
	Name string
	Fn   func(thread *Thread, args []*Object) (*Object, error)
}

// A BoundMethod is the value of x.m where m is a method of x.
type BoundMethod struct {
	Recv *Object
	Name string
}

// Type identities of the predeclared kinds.
const (
	IntType     = "int"
	FloatType   = "float"
	BoolType    = "bool"
	StringType  = "str"
	ListType    = "list"
	NoneType    = "NoneType"
	ObjectType  = "object"
	TypeType    = "type"
	FuncType    = "function"
	BuiltinType = "builtin_function"
	MethodType  = "method"
)

// Method names shared by the scalar tables.
var (
	arithMethods   = []string{"__add__", "__sub__", "__mult__", "__div__", "__floordiv__", "__mod__", "__pow__"}
	compareMethods = []string{"__eq__", "__ne__", "__lt__", "__gt__", "__le__", "__ge__"}
)

func nativeTable(groups ...[]string) map[string]Behavior {
	m := make(map[string]Behavior)
	for _, g := range groups {
		for _, name := range g {
			m[name] = NativeCall(name)
		}
	}
	return m
}

// defaultMethods returns a fresh copy of the default method table of
// the given identity.
func defaultMethods(identity string) map[string]Behavior {
	switch identity {
	case IntType, FloatType, BoolType:
		return nativeTable(arithMethods, compareMethods, []string{"__bool__", "__neg__", "__pos__", "__str__"})
	case StringType:
		return nativeTable([]string{"__add__", "__mult__", "__mod__"}, compareMethods, []string{"__len__", "__contains__", "__str__"})
	case ListType:
		return nativeTable([]string{"__add__", "__mult__"}, compareMethods, []string{"__len__", "__contains__", "__str__"})
	case NoneType:
		return nativeTable([]string{"__eq__", "__ne__", "__bool__", "__str__"})
	case TypeType, BuiltinType, MethodType:
		return nativeTable([]string{"__call__", "__bool__", "__str__"})
	case FuncType:
		return nativeTable([]string{"__bool__", "__str__"}) // __call__ is interpreted
	}
	// object and user classes: placeholders for the operator protocol.
	m := nativeTable([]string{"__init__", "__str__"})
	for _, g := range [][]string{arithMethods, compareMethods, {"__neg__", "__pos__", "__bool__", "__len__", "__call__"}} {
		for _, name := range g {
			m[name] = NoBehavior
		}
	}
	return m
}

func newObject(identity string, data interface{}) *Object {
	return &Object{
		identity: identity,
		data:     data,
		attrs:    make(map[string]PoolID),
		methods:  defaultMethods(identity),
	}
}

// NewObject returns an instance of the object class with the given identity.
func NewObject(identity string) *Object { return newObject(identity, nil) }

func MakeInt(i int64) *Object       { return newObject(IntType, i) }
func MakeFloat(f float64) *Object   { return newObject(FloatType, f) }
func MakeBool(b bool) *Object       { return newObject(BoolType, b) }
func MakeString(s string) *Object   { return newObject(StringType, s) }
func MakeNone() *Object             { return newObject(NoneType, nil) }
func MakeBuiltin(b *Builtin) *Object { return newObject(BuiltinType, b) }

// MakeList returns a list whose elements are stored in the pool.
// The list holds one reference to each element.
func MakeList(pool *Pool, elems []*Object) *Object {
	ids := make([]PoolID, len(elems))
	for i, e := range elems {
		ids[i] = pool.Store(e)
	}
	return newObject(ListType, ids)
}

// MakeClass returns a class object. Instances of the class get the
// default object methods overlaid with cls.Methods.
func MakeClass(cls *Class) *Object {
	if cls.Methods == nil {
		cls.Methods = make(map[string]Behavior)
	}
	return newObject(TypeType, cls)
}

func makeFunction(fn *Function) *Object {
	o := newObject(FuncType, fn)
	o.methods["__call__"] = Interpreted{Function: fn}
	return o
}

func makeBoundMethod(recv *Object, name string) *Object {
	return newObject(MethodType, &BoundMethod{Recv: recv, Name: name})
}

// IsNone reports whether o is the None value.
func (o *Object) IsNone() bool { return o.identity == NoneType }

// String formats o for debugging and error messages.
// Use Str or Repr for the Pyrite string form.
func (o *Object) String() string {
	switch d := o.data.(type) {
	case nil:
		if o.IsNone() {
			return "None"
		}
	case int64, float64, string:
		return fmt.Sprintf("%s(%v)", o.identity, d)
	case bool:
		if d {
			return "True"
		}
		return "False"
	case []PoolID:
		return fmt.Sprintf("list(%d)", len(d))
	case *Function:
		return "<function " + d.Name + ">"
	case *Class:
		return "<class '" + d.Name + "'>"
	case *Builtin:
		return "<built-in function " + d.Name + ">"
	case *BoundMethod:
		return "<bound method " + d.Recv.identity + "." + d.Name + ">"
	}
	return "<" + o.identity + " object>"
}
