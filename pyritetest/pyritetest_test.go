// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pyritetest_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.pyrite.dev/pyrite"
	"go.pyrite.dev/pyritetest"
)

type recorder struct{ msgs []string }

func (r *recorder) Error(args ...interface{}) { r.msgs = append(r.msgs, fmt.Sprint(args...)) }

func TestAssertions(t *testing.T) {
	const src = `
assert_eq(1 + 1, 2)
assert_eq([1, "a"], [1, "b"])
assert_true(0)
assert_lt(2, 1)
assert_ne("x", "x")

def ok():
    1
def bad():
    1 // 0
assert_fails(bad, "division")
assert_fails(ok, "division")
assert_fails(bad, "^nomatch$")
`
	thread := pyrite.NewThread("assert")
	r := new(recorder)
	pyritetest.SetReporter(thread, r)
	if err := pyritetest.LoadAssertModule(thread); err != nil {
		t.Fatal(err)
	}
	if err := pyrite.ExecFile(thread, "test.pyr", src); err != nil {
		t.Fatal(err)
	}
	want := []string{
		`Error: [1, "a"] != [1, "b"]`,
		`Error: assertion failed`,
		`Error: 2 is not less than 1`,
		`Error: "x" == "x"`,
		`Error: evaluation succeeded unexpectedly (want error matching "division")`,
		`Error: regular expression (^nomatch$) did not match error (test.pyr:11:7: ZeroDivisionError: integer division or modulo by zero)`,
	}
	if diff := cmp.Diff(want, r.msgs); diff != "" {
		t.Errorf("reported errors (-want +got):\n%s", diff)
	}
}

func TestGetReporterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("GetReporter did not panic without SetReporter")
		}
	}()
	pyritetest.GetReporter(pyrite.NewThread("none"))
}
