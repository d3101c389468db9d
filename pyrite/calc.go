// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pyrite

// This file defines the arithmetic and comparison of the predeclared
// value kinds. User types reach these operations only through their
// method tables.

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"go.pyrite.dev/syntax"
)

// Operator methods.
var (
	binaryMethods = map[syntax.Token]string{
		syntax.PLUS:       "__add__",
		syntax.MINUS:      "__sub__",
		syntax.STAR:       "__mult__",
		syntax.SLASH:      "__div__",
		syntax.SLASHSLASH: "__floordiv__",
		syntax.PERCENT:    "__mod__",
		syntax.STARSTAR:   "__pow__",
	}
	compareMethodNames = map[syntax.Token]string{
		syntax.EQL: "__eq__",
		syntax.NEQ: "__ne__",
		syntax.LT:  "__lt__",
		syntax.GT:  "__gt__",
		syntax.LE:  "__le__",
		syntax.GE:  "__ge__",
	}
	methodOps = make(map[string]syntax.Token)
)

func init() {
	for op, name := range binaryMethods {
		methodOps[name] = op
	}
	for op, name := range compareMethodNames {
		methodOps[name] = op
	}
}

// number returns the numeric value of o, coercing bool to 0 or 1.
// isFloat reports whether the value is a float.
func number(o *Object) (i int64, f float64, isFloat, ok bool) {
	switch x := o.data.(type) {
	case int64:
		if o.identity == IntType {
			return x, float64(x), false, true
		}
	case bool:
		if o.identity == BoolType {
			if x {
				return 1, 1, false, true
			}
			return 0, 0, false, true
		}
	case float64:
		if o.identity == FloatType {
			return 0, x, true, true
		}
	}
	return 0, 0, false, false
}

func zeroDivision(op syntax.Token) error {
	switch op {
	case syntax.SLASHSLASH:
		return &Error{Kind: ZeroDivisionError, Msg: "integer division or modulo by zero"}
	case syntax.PERCENT:
		return &Error{Kind: ZeroDivisionError, Msg: "modulo by zero"}
	case syntax.STARSTAR:
		return &Error{Kind: ZeroDivisionError, Msg: "0 cannot be raised to a negative power"}
	}
	return &Error{Kind: ZeroDivisionError, Msg: "division by zero"}
}

func unsupported(op syntax.Token, x, y *Object) error {
	return typeErrorf("unsupported operand type(s) for %s: '%s' and '%s'", op, x.identity, y.identity)
}

// arith implements x op y for the predeclared kinds:
//
//	int op int       -> int (float for /)
//	int op float     -> float
//	bool             -> 0 or 1
//	str + str, str * int, int * str
//	list + list, list * int, int * list
//	str % x          -> formatting
//
// Other combinations are a TypeError.
func arith(thread *Thread, op syntax.Token, x, y *Object) (*Object, error) {
	xi, xf, xFloat, xok := number(x)
	yi, yf, yFloat, yok := number(y)
	if xok && yok {
		if xFloat || yFloat {
			return floatArith(op, xf, yf)
		}
		return intArith(op, xi, yi)
	}

	switch xv := x.data.(type) {
	case string:
		if x.identity != StringType {
			break
		}
		switch op {
		case syntax.PLUS:
			if yv, ok := y.data.(string); ok && y.identity == StringType {
				return MakeString(xv + yv), nil
			}
		case syntax.STAR:
			if yok && !yFloat {
				return repeatString(xv, yi)
			}
		case syntax.PERCENT:
			return format(thread, xv, y)
		}
	case []PoolID:
		switch op {
		case syntax.PLUS:
			if yv, ok := y.data.([]PoolID); ok {
				return thread.newList(append(append([]PoolID(nil), xv...), yv...)), nil
			}
		case syntax.STAR:
			if yok && !yFloat {
				return repeatList(thread, xv, yi)
			}
		}
	}
	if op == syntax.STAR && xok && !xFloat {
		switch yv := y.data.(type) {
		case string:
			if y.identity == StringType {
				return repeatString(yv, xi)
			}
		case []PoolID:
			return repeatList(thread, yv, xi)
		}
	}
	return nil, unsupported(op, x, y)
}

// Limits on the size of a repetition result, in bytes and elements.
const (
	maxRepeatBytes = 1 << 30
	maxRepeatElems = 1 << 26
)

// repeatCount checks that n copies of size units fit under limit and
// returns n clamped at zero.
func repeatCount(size int, n int64, limit int) (int, error) {
	if n <= 0 || size == 0 {
		return 0, nil
	}
	if n > int64(limit/size) {
		return 0, &Error{Kind: OverflowError,
			Msg: fmt.Sprintf("excessive repeat (%d * %d)", size, n)}
	}
	return int(n), nil
}

func repeatString(s string, n int64) (*Object, error) {
	count, err := repeatCount(len(s), n, maxRepeatBytes)
	if err != nil {
		return nil, err
	}
	return MakeString(strings.Repeat(s, count)), nil
}

func repeatList(thread *Thread, ids []PoolID, n int64) (*Object, error) {
	count, err := repeatCount(len(ids), n, maxRepeatElems)
	if err != nil {
		return nil, err
	}
	out := make([]PoolID, 0, len(ids)*count)
	for i := 0; i < count; i++ {
		out = append(out, ids...)
	}
	return thread.newList(out), nil
}

func intArith(op syntax.Token, x, y int64) (*Object, error) {
	switch op {
	case syntax.PLUS:
		return MakeInt(x + y), nil
	case syntax.MINUS:
		return MakeInt(x - y), nil
	case syntax.STAR:
		return MakeInt(x * y), nil
	case syntax.SLASH:
		if y == 0 {
			return nil, zeroDivision(op)
		}
		return MakeFloat(float64(x) / float64(y)), nil
	case syntax.SLASHSLASH:
		if y == 0 {
			return nil, zeroDivision(op)
		}
		q := x / y
		if (x%y != 0) && ((x < 0) != (y < 0)) {
			q--
		}
		return MakeInt(q), nil
	case syntax.PERCENT:
		if y == 0 {
			return nil, zeroDivision(op)
		}
		r := x % y
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
		return MakeInt(r), nil
	case syntax.STARSTAR:
		if y < 0 {
			if x == 0 {
				return nil, zeroDivision(op)
			}
			return MakeFloat(math.Pow(float64(x), float64(y))), nil
		}
		result := int64(1)
		for base := x; y > 0; y >>= 1 {
			if y&1 == 1 {
				result *= base
			}
			base *= base
		}
		return MakeInt(result), nil
	}
	return nil, typeErrorf("invalid arithmetic operator %s", op)
}

func floatArith(op syntax.Token, x, y float64) (*Object, error) {
	switch op {
	case syntax.PLUS:
		return MakeFloat(x + y), nil
	case syntax.MINUS:
		return MakeFloat(x - y), nil
	case syntax.STAR:
		return MakeFloat(x * y), nil
	case syntax.SLASH:
		if y == 0 {
			return nil, zeroDivision(op)
		}
		return MakeFloat(x / y), nil
	case syntax.SLASHSLASH:
		if y == 0 {
			return nil, zeroDivision(op)
		}
		return MakeFloat(math.Floor(x / y)), nil
	case syntax.PERCENT:
		if y == 0 {
			return nil, zeroDivision(op)
		}
		r := math.Mod(x, y)
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
		return MakeFloat(r), nil
	case syntax.STARSTAR:
		if x == 0 && y < 0 {
			return nil, zeroDivision(op)
		}
		return MakeFloat(math.Pow(x, y)), nil
	}
	return nil, typeErrorf("invalid arithmetic operator %s", op)
}

// threeWay compares x and y, returning -1, 0 or +1.
// Numbers compare with numbers, strings with strings and lists with
// lists, element by element; other pairs are not ordered.
func threeWay(thread *Thread, x, y *Object) (int, error) {
	xi, xf, xFloat, xok := number(x)
	yi, yf, yFloat, yok := number(y)
	if xok && yok {
		if !xFloat && !yFloat {
			return cmpInt(xi, yi), nil
		}
		switch {
		case xf < yf:
			return -1, nil
		case xf > yf:
			return +1, nil
		case xf == yf:
			return 0, nil
		}
		return 0, errNaN
	}
	if xs, ok := x.data.(string); ok && x.identity == StringType {
		if ys, ok := y.data.(string); ok && y.identity == StringType {
			return strings.Compare(xs, ys), nil
		}
	}
	if xl, ok := x.data.([]PoolID); ok {
		if yl, ok := y.data.([]PoolID); ok {
			for i := 0; i < len(xl) && i < len(yl); i++ {
				if xl[i] == yl[i] {
					continue
				}
				ex, _ := thread.pool().Get(xl[i])
				ey, _ := thread.pool().Get(yl[i])
				if c, err := threeWay(thread, ex, ey); err != nil || c != 0 {
					return c, err
				}
			}
			return cmpInt(int64(len(xl)), int64(len(yl))), nil
		}
	}
	return 0, &Error{Kind: TypeError, Identity: x.identity,
		Msg: "'<' not supported between instances of '" + x.identity + "' and '" + y.identity + "'"}
}

// errNaN is returned by threeWay when a float operand is NaN.
// Every ordered comparison with NaN is false.
var errNaN = errors.New("NaN is not ordered")

func cmpInt(x, y int64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return +1
	}
	return 0
}

// equal reports whether x == y for the predeclared kinds. Values of
// unrelated kinds are unequal; other objects are equal when they are
// the same pooled value.
func equal(thread *Thread, x, y *Object) (bool, error) {
	_, _, _, xok := number(x)
	_, _, _, yok := number(y)
	if xok && yok {
		c, err := threeWay(thread, x, y)
		return err == nil && c == 0, nil
	}
	xs, xstr := x.data.(string)
	ys, ystr := y.data.(string)
	if x.identity == StringType && y.identity == StringType && xstr && ystr {
		return xs == ys, nil
	}
	xl, xlist := x.data.([]PoolID)
	yl, ylist := y.data.([]PoolID)
	if xlist && ylist {
		if len(xl) != len(yl) {
			return false, nil
		}
		for i := range xl {
			if xl[i] == yl[i] {
				continue
			}
			ex, _ := thread.pool().Get(xl[i])
			ey, _ := thread.pool().Get(yl[i])
			eq, err := compare(thread, syntax.EQL, ex, ey)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	}
	return identical(x, y), nil
}

// identical reports whether x and y denote the same pooled value.
// Under deduplication this is structural equality.
func identical(x, y *Object) bool { return x == y || x.Equal(y) }

// compareValues applies a comparison operator to predeclared kinds.
func compareValues(thread *Thread, op syntax.Token, x, y *Object) (bool, error) {
	switch op {
	case syntax.EQL:
		return equal(thread, x, y)
	case syntax.NEQ:
		eq, err := equal(thread, x, y)
		return !eq, err
	}
	c, err := threeWay(thread, x, y)
	if err == errNaN {
		return false, nil
	} else if err != nil {
		if e, ok := err.(*Error); ok {
			e.Msg = "'" + op.String() + "' not supported between instances of '" + x.identity + "' and '" + y.identity + "'"
		}
		return false, err
	}
	switch op {
	case syntax.LT:
		return c < 0, nil
	case syntax.GT:
		return c > 0, nil
	case syntax.LE:
		return c <= 0, nil
	case syntax.GE:
		return c >= 0, nil
	}
	return false, typeErrorf("invalid comparison operator %s", op)
}
