// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pyritetest defines utilities for testing Pyrite programs.
//
// Clients can call LoadAssertModule to define several functions
// useful for testing in a thread's global scope. See assert.pyr for
// their definitions.
//
// The error function, which reports errors to the current Go
// testing.T, requires that clients call SetReporter(thread, t) before use.
package pyritetest // import "go.pyrite.dev/pyritetest"

import (
	_ "embed"
	"fmt"
	"regexp"

	"go.pyrite.dev/pyrite"
)

const localKey = "Reporter"

// A Reporter is a value to which errors may be reported.
// It is satisfied by *testing.T.
type Reporter interface {
	Error(args ...interface{})
}

// SetReporter associates an error reporter (such as a testing.T in
// a Go test) with the Pyrite thread so that Pyrite programs may
// report errors to it.
func SetReporter(thread *pyrite.Thread, r Reporter) {
	thread.SetLocal(localKey, r)
}

// GetReporter returns the Pyrite thread's error reporter.
// It must be preceded by a call to SetReporter.
func GetReporter(thread *pyrite.Thread) Reporter {
	r, ok := thread.Local(localKey).(Reporter)
	if !ok {
		panic("internal error: pyritetest.SetReporter was not called")
	}
	return r
}

//go:embed assert.pyr
var assertSrc string

// LoadAssertModule binds the builtins error, catch and matches in the
// thread's builtin scope, then executes assert.pyr, which defines the
// assert_* functions as globals of the thread.
func LoadAssertModule(thread *pyrite.Thread) error {
	ns := thread.Namespace()
	for _, b := range []*pyrite.Builtin{
		{Name: "error", Fn: error_},
		{Name: "catch", Fn: catch},
		{Name: "matches", Fn: matches},
	} {
		ns.SetBuiltin(b.Name, pyrite.MakeBuiltin(b))
	}
	return pyrite.ExecFile(thread, "assert.pyr", assertSrc)
}

// catch(f) evaluates f() and returns its evaluation error message
// if it failed or None if it succeeded.
func catch(thread *pyrite.Thread, args []*pyrite.Object) (*pyrite.Object, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("catch: got %d arguments, want 1", len(args))
	}
	if _, err := pyrite.CallValue(thread, args[0]); err != nil {
		return pyrite.MakeString(err.Error()), nil
	}
	return pyrite.MakeNone(), nil
}

// matches(pattern, str) reports whether string str matches the regular expression pattern.
func matches(thread *pyrite.Thread, args []*pyrite.Object) (*pyrite.Object, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("matches: got %d arguments, want 2", len(args))
	}
	pattern, ok1 := args[0].Data().(string)
	str, ok2 := args[1].Data().(string)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("matches: got %s and %s, want strings", args[0].Identity(), args[1].Identity())
	}
	ok, err := regexp.MatchString(pattern, str)
	if err != nil {
		return nil, fmt.Errorf("matches: %s", err)
	}
	return pyrite.MakeBool(ok), nil
}

// error(x) reports an error to the Go test framework.
func error_(thread *pyrite.Thread, args []*pyrite.Object) (*pyrite.Object, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("error: got %d arguments, want 1", len(args))
	}
	s, err := pyrite.Str(thread, args[0])
	if err != nil {
		return nil, err
	}
	GetReporter(thread).Error("Error: " + s)
	return pyrite.MakeNone(), nil
}
