// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pyrite

// This file defines method dispatch and the operations built on it:
// operators, truth and string conversion.

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.pyrite.dev/syntax"
)

// Call invokes the named method of recv.
//
// A NativeCall behavior is looked up in the thread's Natives by the
// receiver's identity. An Interpreted method runs its body with the
// receiver bound to its first parameter.
func Call(thread *Thread, recv *Object, method string, args ...*Object) (*Object, error) {
	result, self, err := callMethod(thread, recv, method, args)
	thread.pool().drop(self)
	return result, err
}

// callMethod is Call, also returning the final value of the receiver
// parameter of an interpreted method, or nil.
func callMethod(thread *Thread, recv *Object, method string, args []*Object) (result, self *Object, err error) {
	b, ok := recv.methods[method]
	if !ok || !implemented(b) {
		return nil, nil, &Error{Kind: ObjMethodCallError, Identity: recv.identity, Method: method,
			Msg: fmt.Sprintf("'%s' object has no method %s", recv.identity, method)}
	}
	switch b := b.(type) {
	case NativeCall:
		fn, ok := thread.Natives.Lookup(recv.identity, string(b))
		if !ok {
			return nil, nil, &Error{Kind: ObjMethodCallError, Identity: recv.identity, Method: method,
				Msg: fmt.Sprintf("no native %s for '%s'", b, recv.identity)}
		}
		result, err = fn(thread, recv, args)
		return result, nil, err
	case Interpreted:
		if b.Method {
			args = append([]*Object{recv}, args...)
			return thread.callFunction(b.Function, args, true)
		}
		result, _, err = thread.callFunction(b.Function, args, false)
		return result, nil, err
	}
	panic(b)
}

// CallValue calls fn with the given arguments. fn may be a function,
// builtin, bound method, class, or any object with a __call__ method.
func CallValue(thread *Thread, fn *Object, args ...*Object) (*Object, error) {
	return callValue(thread, fn, args)
}

// callValue calls fn, which must have a __call__ behavior.
func callValue(thread *Thread, fn *Object, args []*Object) (*Object, error) {
	if b, ok := fn.methods["__call__"]; !ok || !implemented(b) {
		return nil, &Error{Kind: ObjMethodNotAttr, Identity: fn.identity, Method: "__call__",
			Msg: fmt.Sprintf("'%s' object is not callable", fn.identity)}
	}
	return Call(thread, fn, "__call__", args...)
}

// Binary applies a binary arithmetic operator.
// The left operand's method is used if implemented; otherwise the
// operands fall through to the table of the predeclared kinds.
func Binary(thread *Thread, op syntax.Token, x, y *Object) (*Object, error) {
	name, ok := binaryMethods[op]
	if !ok {
		return nil, typeErrorf("invalid binary operator %s", op)
	}
	if implemented(x.methods[name]) {
		return Call(thread, x, name, y)
	}
	return arith(thread, op, x, y)
}

// Compare applies a comparison operator, including in, not in, is and
// is not.
func Compare(thread *Thread, op syntax.Token, x, y *Object) (bool, error) {
	return compare(thread, op, x, y)
}

func compare(thread *Thread, op syntax.Token, x, y *Object) (bool, error) {
	switch op {
	case syntax.IN, syntax.NOT_IN:
		if !implemented(y.methods["__contains__"]) {
			return false, typeErrorf("argument of type '%s' is not iterable", y.identity)
		}
		r, err := Call(thread, y, "__contains__", x)
		if err != nil {
			return false, err
		}
		found, err := Truth(thread, r)
		return found == (op == syntax.IN), err
	case syntax.IS:
		return identical(x, y), nil
	case syntax.IS_NOT:
		return !identical(x, y), nil
	}
	name, ok := compareMethodNames[op]
	if !ok {
		return false, typeErrorf("invalid comparison operator %s", op)
	}
	if implemented(x.methods[name]) {
		r, err := Call(thread, x, name, y)
		if err != nil {
			return false, err
		}
		return Truth(thread, r)
	}
	return compareValues(thread, op, x, y)
}

// Truth returns the truth value of o: the flag of a bool, else the
// result of __bool__, else whether __len__ is nonzero.
func Truth(thread *Thread, o *Object) (bool, error) {
	if b, ok := o.data.(bool); ok && o.identity == BoolType {
		return b, nil
	}
	if implemented(o.methods["__bool__"]) {
		r, err := Call(thread, o, "__bool__")
		if err != nil {
			return false, err
		}
		if b, ok := r.data.(bool); ok && r.identity == BoolType {
			return b, nil
		}
		return false, &Error{Kind: ObjBasicError, Identity: o.identity, Method: "__bool__",
			Msg: fmt.Sprintf("__bool__ should return bool, returned %s", r.identity)}
	}
	if implemented(o.methods["__len__"]) {
		r, err := Call(thread, o, "__len__")
		if err != nil {
			return false, err
		}
		if n, ok := r.data.(int64); ok && r.identity == IntType {
			return n != 0, nil
		}
		return false, &Error{Kind: ObjBasicError, Identity: o.identity, Method: "__len__",
			Msg: fmt.Sprintf("__len__ should return int, returned %s", r.identity)}
	}
	return false, &Error{Kind: ObjBasicError, Identity: o.identity,
		Msg: fmt.Sprintf("cannot convert '%s' object to bool", o.identity)}
}

// Str returns the string form of o, as printed by print.
func Str(thread *Thread, o *Object) (string, error) {
	if s, ok := o.data.(string); ok && o.identity == StringType {
		return s, nil
	}
	if implemented(o.methods["__str__"]) {
		r, err := Call(thread, o, "__str__")
		if err != nil {
			return "", err
		}
		if s, ok := r.data.(string); ok && r.identity == StringType {
			return s, nil
		}
		return "", typeErrorf("__str__ returned non-string (type %s)", r.identity)
	}
	return "<" + o.identity + " object>", nil
}

// Repr returns the string form of o with strings quoted.
func Repr(thread *Thread, o *Object) (string, error) {
	if s, ok := o.data.(string); ok && o.identity == StringType {
		return syntax.Quote(s), nil
	}
	return Str(thread, o)
}

// formatFloat formats f the way Python's repr does.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, +1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	var s string
	if abs := math.Abs(f); abs == 0 || (abs >= 1e-4 && abs < 1e16) {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(f, 'g', -1, 64)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// format implements str % x. The operands are x itself, or the
// elements of x if it is a list. Supported conversions are %s, %r,
// %d and %%.
func format(thread *Thread, s string, x *Object) (*Object, error) {
	args := []*Object{x}
	if ids, ok := x.data.([]PoolID); ok && x.identity == ListType {
		args = args[:0]
		for _, id := range ids {
			elem, _ := thread.pool().Get(id)
			args = append(args, elem)
		}
	}
	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			buf.WriteByte(c)
			continue
		}
		if i+1 == len(s) {
			return nil, typeErrorf("incomplete format")
		}
		i++
		verb := s[i]
		if verb == '%' {
			buf.WriteByte('%')
			continue
		}
		if len(args) == 0 {
			return nil, typeErrorf("not enough arguments for format string")
		}
		arg := args[0]
		args = args[1:]
		switch verb {
		case 's':
			str, err := Str(thread, arg)
			if err != nil {
				return nil, err
			}
			buf.WriteString(str)
		case 'r':
			str, err := Repr(thread, arg)
			if err != nil {
				return nil, err
			}
			buf.WriteString(str)
		case 'd':
			i, f, isFloat, ok := number(arg)
			if !ok {
				return nil, typeErrorf("%%d format: a number is required, not %s", arg.identity)
			}
			if isFloat {
				i = int64(f)
			}
			buf.WriteString(strconv.FormatInt(i, 10))
		default:
			return nil, typeErrorf("unsupported format character '%c'", verb)
		}
	}
	if len(args) > 0 {
		return nil, typeErrorf("not all arguments converted during string formatting")
	}
	return MakeString(buf.String()), nil
}
