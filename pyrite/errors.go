// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pyrite

import (
	"errors"
	"fmt"
	"strconv"

	"go.pyrite.dev/syntax"
)

// An ErrorKind classifies evaluation errors.
type ErrorKind uint8

const (
	GetVariableError   ErrorKind = iota + 1 // name not found
	SetVariableError                        // name cannot be written in the scope
	NamespaceNotFound                       // missing enclosing or local scope
	ObjMethodCallError                      // method not defined for the identity
	ObjBasicError                           // a conversion such as truth failed
	ObjDataTypeNotAttr                      // no such attribute
	ObjMethodNotAttr                        // attribute is not callable
	TypeError                               // operand types not supported
	ZeroDivisionError
	OverflowError    // result too large to represent
	ControlFlowError // break or continue outside a loop
	RecursionError
	Cancelled // Thread.Cancel was called
)

var errorKindNames = [...]string{
	GetVariableError:   "GetVariableError",
	SetVariableError:   "SetVariableError",
	NamespaceNotFound:  "NamespaceNotFound",
	ObjMethodCallError: "ObjMethodCallError",
	ObjBasicError:      "ObjBasicError",
	ObjDataTypeNotAttr: "ObjDataTypeNotAttr",
	ObjMethodNotAttr:   "ObjMethodNotAttr",
	TypeError:          "TypeError",
	ZeroDivisionError:  "ZeroDivisionError",
	OverflowError:      "OverflowError",
	ControlFlowError:   "ControlFlowError",
	RecursionError:     "RecursionError",
	Cancelled:          "Cancelled",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) && errorKindNames[k] != "" {
		return errorKindNames[k]
	}
	return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// An Error is an evaluation error.
// Name, Scope, Identity and Method are set when they apply.
type Error struct {
	Kind     ErrorKind
	Pos      syntax.Position
	Name     string // variable name
	Scope    string // scope the name was sought in
	Identity string // receiver identity
	Method   string
	Msg      string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// at sets the position of err, if it is an *Error without one.
func at(err error, pos syntax.Position) error {
	var e *Error
	if errors.As(err, &e) && !e.Pos.IsValid() {
		e.Pos = pos
	}
	return err
}

func typeErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: TypeError, Msg: fmt.Sprintf(format, args...)}
}

// An ErrorList is the list of errors of a program run in recover mode,
// in the order they occurred.
type ErrorList []error

func (list ErrorList) Error() string {
	switch len(list) {
	case 0:
		return "no errors"
	case 1:
		return list[0].Error()
	}
	return list[0].Error() + " (and " + strconv.Itoa(len(list)-1) + " more errors)"
}

// Unwrap returns the errors of the list.
func (list ErrorList) Unwrap() []error { return list }

// errBreak and errContinue carry break and continue statements out of
// a loop body. They never escape Exec.
var (
	errBreak    = errors.New("break")
	errContinue = errors.New("continue")
)
