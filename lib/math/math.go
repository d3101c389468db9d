// Copyright 2021 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package math provides basic constants and mathematical functions.
package math // import "go.pyrite.dev/lib/math"

import (
	"fmt"
	"math"

	"go.pyrite.dev/pyrite"
)

const (
	tau    = math.Pi * 2
	oneRad = tau / 360
)

var (
	toDeg = func(x float64) float64 { return x / oneRad }
	toRad = func(x float64) float64 { return x * oneRad }
)

var oneArg = map[string]func(float64) float64{
	"abs":   math.Abs,
	"ceil":  math.Ceil,
	"floor": math.Floor,
	"round": math.Round,

	"exp":  math.Exp,
	"sqrt": math.Sqrt,

	"acos": math.Acos,
	"asin": math.Asin,
	"atan": math.Atan,
	"cos":  math.Cos,
	"sin":  math.Sin,
	"tan":  math.Tan,

	"degrees": toDeg,
	"radians": toRad,

	"acosh": math.Acosh,
	"asinh": math.Asinh,
	"atanh": math.Atanh,
	"cosh":  math.Cosh,
	"sinh":  math.Sinh,
	"tanh":  math.Tanh,
}

var twoArg = map[string]func(float64, float64) float64{
	"atan2": math.Atan2,
	"hypot": math.Hypot,
}

// Module returns a new math object whose attributes are the functions
// and constants of this package. Its attributes are stored in pool.
//
// A host binds it by name, for example:
//
//	ns.SetBuiltin("math", math.Module(ns.Pool()))
func Module(pool *pyrite.Pool) *pyrite.Object {
	m := pyrite.NewObject("module")
	for name, fn := range oneArg {
		m.SetAttr(pool, name, pyrite.MakeBuiltin(&pyrite.Builtin{Name: name, Fn: unary(name, fn)}))
	}
	for name, fn := range twoArg {
		m.SetAttr(pool, name, pyrite.MakeBuiltin(&pyrite.Builtin{Name: name, Fn: binary(name, fn)}))
	}
	m.SetAttr(pool, "e", pyrite.MakeFloat(math.E))
	m.SetAttr(pool, "phi", pyrite.MakeFloat(math.Phi))
	m.SetAttr(pool, "pi", pyrite.MakeFloat(math.Pi))
	return m
}

// unary returns a builtin that applies fn to its one numeric argument.
func unary(name string, fn func(float64) float64) func(*pyrite.Thread, []*pyrite.Object) (*pyrite.Object, error) {
	return func(thread *pyrite.Thread, args []*pyrite.Object) (*pyrite.Object, error) {
		x, err := floats(name, args, 1)
		if err != nil {
			return nil, err
		}
		return pyrite.MakeFloat(fn(x[0])), nil
	}
}

func binary(name string, fn func(float64, float64) float64) func(*pyrite.Thread, []*pyrite.Object) (*pyrite.Object, error) {
	return func(thread *pyrite.Thread, args []*pyrite.Object) (*pyrite.Object, error) {
		x, err := floats(name, args, 2)
		if err != nil {
			return nil, err
		}
		return pyrite.MakeFloat(fn(x[0], x[1])), nil
	}
}

// floats unpacks exactly n numeric arguments. Bools count as 0 and 1.
func floats(name string, args []*pyrite.Object, n int) ([]float64, error) {
	if len(args) != n {
		return nil, &pyrite.Error{Kind: pyrite.TypeError,
			Msg: fmt.Sprintf("%s() takes exactly %d argument(s) (%d given)", name, n, len(args))}
	}
	x := make([]float64, n)
	for i, arg := range args {
		switch d := arg.Data().(type) {
		case int64:
			x[i] = float64(d)
		case float64:
			x[i] = d
		case bool:
			if d {
				x[i] = 1
			}
		default:
			return nil, &pyrite.Error{Kind: pyrite.TypeError,
				Msg: fmt.Sprintf("%s() argument must be a number, not '%s'", name, arg.Identity())}
		}
	}
	return x, nil
}
