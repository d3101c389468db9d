// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pyrite

// A Behavior is an entry of an object's method table.
//
// The concrete type of every Behavior is one of:
//
//	NoBehavior    -- the method is declared but not implemented
//	NativeCall    -- implemented in Go, see Natives
//	Interpreted   -- implemented by a def statement
type Behavior interface {
	behavior()
}

type noBehavior struct{}

// NoBehavior is the placeholder for a protocol method, such as
// __add__ on a user class, that the type does not implement.
var NoBehavior Behavior = noBehavior{}

// A NativeCall names a method implemented in Go. The function is
// found in the thread's Natives by the receiver's identity and the
// method name.
type NativeCall string

// Interpreted is a method or function whose body is Pyrite code.
// When Method is set the receiver is bound to the first parameter.
type Interpreted struct {
	*Function
	Method bool
}

func (noBehavior) behavior()  {}
func (NativeCall) behavior()  {}
func (Interpreted) behavior() {}

func (noBehavior) String() string   { return "None" }
func (b NativeCall) String() string { return "NativeCall(" + string(b) + ")" }
func (b Interpreted) String() string {
	if b.Method {
		return "Interpreted(method " + b.Name + ")"
	}
	return "Interpreted(" + b.Name + ")"
}

// implemented reports whether b can be invoked.
func implemented(b Behavior) bool {
	switch b.(type) {
	case NativeCall, Interpreted:
		return true
	}
	return false
}

func behaviorEqual(x, y Behavior) bool { return x == y }
