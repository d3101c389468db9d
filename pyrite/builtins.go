// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pyrite

// This file defines the predeclared names of the builtin scope.

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.pyrite.dev/syntax"
)

// RegisterBuiltins binds the predeclared names in the builtin scope of
// thread: the object class and the functions len, str, repr, int,
// float, bool, type and hasattr.
func RegisterBuiltins(thread *Thread) {
	ns := thread.Namespace()
	ns.SetBuiltin("object", MakeClass(&Class{Name: ObjectType}))
	for _, b := range []*Builtin{
		{Name: "len", Fn: builtinLen},
		{Name: "str", Fn: builtinStr},
		{Name: "repr", Fn: builtinRepr},
		{Name: "int", Fn: builtinInt},
		{Name: "float", Fn: builtinFloat},
		{Name: "bool", Fn: builtinBool},
		{Name: "type", Fn: builtinType},
		{Name: "hasattr", Fn: builtinHasattr},
	} {
		ns.SetBuiltin(b.Name, MakeBuiltin(b))
	}
}

func oneArg(name string, args []*Object) (*Object, error) {
	if len(args) != 1 {
		return nil, typeErrorf("%s() takes exactly one argument (%d given)", name, len(args))
	}
	return args[0], nil
}

func builtinLen(thread *Thread, args []*Object) (*Object, error) {
	x, err := oneArg("len", args)
	if err != nil {
		return nil, err
	}
	if !implemented(x.methods["__len__"]) {
		return nil, typeErrorf("object of type '%s' has no len()", x.identity)
	}
	return Call(thread, x, "__len__")
}

func builtinStr(thread *Thread, args []*Object) (*Object, error) {
	x, err := oneArg("str", args)
	if err != nil {
		return nil, err
	}
	s, err := Str(thread, x)
	if err != nil {
		return nil, err
	}
	return MakeString(s), nil
}

func builtinRepr(thread *Thread, args []*Object) (*Object, error) {
	x, err := oneArg("repr", args)
	if err != nil {
		return nil, err
	}
	s, err := Repr(thread, x)
	if err != nil {
		return nil, err
	}
	return MakeString(s), nil
}

func builtinInt(thread *Thread, args []*Object) (*Object, error) {
	x, err := oneArg("int", args)
	if err != nil {
		return nil, err
	}
	if i, f, isFloat, ok := number(x); ok {
		if isFloat {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, &Error{Kind: ObjBasicError, Identity: x.identity,
					Msg: fmt.Sprintf("cannot convert float %s to integer", formatFloat(f))}
			}
			return MakeInt(int64(f)), nil
		}
		return MakeInt(i), nil
	}
	if s, ok := x.data.(string); ok && x.identity == StringType {
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, &Error{Kind: ObjBasicError, Identity: x.identity,
				Msg: fmt.Sprintf("invalid literal for int(): %s", syntax.Quote(s))}
		}
		return MakeInt(i), nil
	}
	return nil, typeErrorf("int() argument must be a string or a number, not '%s'", x.identity)
}

func builtinFloat(thread *Thread, args []*Object) (*Object, error) {
	x, err := oneArg("float", args)
	if err != nil {
		return nil, err
	}
	if _, f, _, ok := number(x); ok {
		return MakeFloat(f), nil
	}
	if s, ok := x.data.(string); ok && x.identity == StringType {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, &Error{Kind: ObjBasicError, Identity: x.identity,
				Msg: fmt.Sprintf("could not convert string to float: %s", syntax.Quote(s))}
		}
		return MakeFloat(f), nil
	}
	return nil, typeErrorf("float() argument must be a string or a number, not '%s'", x.identity)
}

func builtinBool(thread *Thread, args []*Object) (*Object, error) {
	x, err := oneArg("bool", args)
	if err != nil {
		return nil, err
	}
	ok, err := Truth(thread, x)
	if err != nil {
		return nil, err
	}
	return MakeBool(ok), nil
}

// type returns the identity of its argument as a str, such as "int" or
// a class name. Types are not first-class values: the result cannot be
// called or compared with a class object, only with other strings.
func builtinType(thread *Thread, args []*Object) (*Object, error) {
	x, err := oneArg("type", args)
	if err != nil {
		return nil, err
	}
	return MakeString(x.identity), nil
}

func builtinHasattr(thread *Thread, args []*Object) (*Object, error) {
	if len(args) != 2 {
		return nil, typeErrorf("hasattr() takes exactly 2 arguments (%d given)", len(args))
	}
	x, name := args[0], args[1]
	s, ok := name.data.(string)
	if !ok || name.identity != StringType {
		return nil, typeErrorf("hasattr(): attribute name must be string")
	}
	if _, ok := x.attrs[s]; ok {
		return MakeBool(true), nil
	}
	if cls, ok := x.data.(*Class); ok {
		if _, ok := cls.Methods[s]; ok {
			return MakeBool(true), nil
		}
	}
	return MakeBool(implemented(x.methods[s])), nil
}
