// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pyrite_test

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/oarkflow/log"

	"go.pyrite.dev/internal/chunkedfile"
	"go.pyrite.dev/pyrite"
	"go.pyrite.dev/pyritetest"
	"go.pyrite.dev/syntax"
)

func TestEvalExpr(t *testing.T) {
	thread := pyrite.NewThread("eval")
	for _, test := range []struct{ src, want string }{
		{`123`, `123`},
		{`-1`, `-1`},
		{`"a"+"b"`, `"ab"`},
		{`1+2`, `3`},
		{`1 + 2.0`, `3.0`},
		{`True + 1`, `2`},
		{`"a" * 3`, `"aaa"`},
		{`0.1 + 0.2`, `0.30000000000000004`},
		{`2.0 ** 100`, `1.2676506002282294e+30`},
		{`2 ** 62`, `4611686018427387904`},
		{`None`, `None`},
		{`not 0`, `True`},

		// lists
		{`[]`, `[]`},
		{`[1]`, `[1]`},
		{`[1, 2]`, `[1, 2]`},
		{`[1, [2, "x"]]`, `[1, [2, "x"]]`},

		// comparison chains
		{`1 < 2 < 0`, `False`},
		{`1 < 2 < 3`, `True`},
		{`"a" in "abc"`, `True`},

		// errors
		{`1 / 0`, `<expr>:1:3: ZeroDivisionError: division by zero`},
		{`x`, `<expr>:1:1: GetVariableError: name 'x' is not defined`},
		{`"a" - 1`, `<expr>:1:5: TypeError: unsupported operand type(s) for -: 'str' and 'int'`},
	} {
		var got string
		if v, err := pyrite.Eval(thread, "<expr>", test.src); err != nil {
			got = err.Error()
		} else if got, err = pyrite.Repr(thread, v); err != nil {
			got = err.Error()
		}
		if got != test.want {
			t.Errorf("eval %s = %s, want %s", test.src, got, test.want)
		}
	}
}

func TestExecFile(t *testing.T) {
	for _, file := range []string{
		"testdata/arith.pyr",
		"testdata/builtins.pyr",
		"testdata/class.pyr",
		"testdata/compare.pyr",
		"testdata/control.pyr",
		"testdata/function.pyr",
	} {
		filename := filepath.FromSlash(file)
		for _, chunk := range chunkedfile.Read(filename, t) {
			chunk := chunk
			thread := pyrite.NewThread(filename)
			thread.Logger = &log.Logger{Writer: &log.IOWriter{Writer: io.Discard}}
			thread.Print = func(_ *pyrite.Thread, msg string) { chunk.GotOutput(msg) }
			pyritetest.SetReporter(thread, t)
			if err := pyritetest.LoadAssertModule(thread); err != nil {
				t.Fatalf("loading assert module: %v", err)
			}

			err := pyrite.Exec(pyrite.ExecOptions{
				Thread:   thread,
				Filename: filename,
				Source:   chunk.Source,
				Recover:  true,
			})
			var errs []error
			switch err := err.(type) {
			case nil:
			case pyrite.ErrorList:
				errs = err
			default:
				errs = []error{err}
			}
			for _, err := range errs {
				if pos, ok := errorPos(err); ok && pos.Filename() == filename {
					chunk.GotError(int(pos.Line), err.Error())
				} else {
					t.Error(err)
				}
			}
			chunk.Done()
		}
	}
}

// errorPos returns the position of an evaluation or syntax error.
func errorPos(err error) (syntax.Position, bool) {
	var e *pyrite.Error
	if errors.As(err, &e) {
		return e.Pos, e.Pos.IsValid()
	}
	var se syntax.Error
	if errors.As(err, &se) {
		return se.Pos, true
	}
	return syntax.Position{}, false
}

// The three programs of the language overview.
func TestPrograms(t *testing.T) {
	for _, test := range []struct{ src, want string }{
		{"a=1\nif a:\n    a=a+1\nprint a", "2"},
		{"a=0\nwhile a<3:\n    a=a+1\nelse:\n    a=a+10\nprint a", "13"},
		{"a=0\nwhile a<3:\n    a=a+1\n    break\nelse:\n    a=a+10\nprint a", "1"},
	} {
		thread := pyrite.NewThread("program")
		var out []string
		thread.Print = func(_ *pyrite.Thread, msg string) { out = append(out, msg) }
		if err := pyrite.ExecFile(thread, "program.pyr", test.src); err != nil {
			t.Errorf("%q: %v", test.src, err)
			continue
		}
		if diff := cmp.Diff([]string{test.want}, out); diff != "" {
			t.Errorf("%q: output mismatch (-want +got):\n%s", test.src, diff)
		}
	}
}

func TestBoolOpShortCircuit(t *testing.T) {
	thread := pyrite.NewThread("boolop")
	var calls []string
	mark := func(thread *pyrite.Thread, args []*pyrite.Object) (*pyrite.Object, error) {
		s, err := pyrite.Str(thread, args[0])
		if err != nil {
			return nil, err
		}
		calls = append(calls, s)
		return args[0], nil
	}
	thread.Namespace().SetBuiltin("mark", pyrite.MakeBuiltin(&pyrite.Builtin{Name: "mark", Fn: mark}))

	for _, test := range []struct {
		src, want string
		calls     []string
	}{
		{`mark(1) and mark(0) and mark(2)`, `False`, []string{"1", "0"}},
		{`mark(1) and mark(2) and mark(3)`, `True`, []string{"1", "2", "3"}},
		{`mark(0) or mark("x") or mark(4)`, `True`, []string{"0", "x"}},
		{`mark(0) or mark("")`, `False`, []string{"0", ""}},
	} {
		calls = nil
		v, err := pyrite.Eval(thread, "<expr>", test.src)
		if err != nil {
			t.Errorf("%s: %v", test.src, err)
			continue
		}
		if got, _ := pyrite.Repr(thread, v); got != test.want {
			t.Errorf("%s = %s, want %s", test.src, got, test.want)
		}
		if diff := cmp.Diff(test.calls, calls); diff != "" {
			t.Errorf("%s: operands evaluated (-want +got):\n%s", test.src, diff)
		}
	}
}

func TestExecRecover(t *testing.T) {
	const src = `print 1
x = 1 / 0
print 2
y = = 3
print 3
z = undefined
print 4
`
	var logbuf bytes.Buffer
	thread := pyrite.NewThread("recover")
	thread.Logger = &log.Logger{Level: log.WarnLevel, Writer: &log.IOWriter{Writer: &logbuf}}
	var out []string
	thread.Print = func(_ *pyrite.Thread, msg string) { out = append(out, msg) }

	err := pyrite.Exec(pyrite.ExecOptions{Thread: thread, Filename: "recover.pyr", Source: src, Recover: true})
	list, ok := err.(pyrite.ErrorList)
	if !ok {
		t.Fatalf("Exec returned %v (%T), want ErrorList", err, err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(list), list)
	}
	if _, ok := list[0].(syntax.Error); !ok {
		t.Errorf("first error %v is not the syntax error", list[0])
	}
	if !pyrite.IsKind(list[1], pyrite.ZeroDivisionError) {
		t.Errorf("second error = %v, want ZeroDivisionError", list[1])
	}
	if !pyrite.IsKind(list[2], pyrite.GetVariableError) {
		t.Errorf("third error = %v, want GetVariableError", list[2])
	}
	if diff := cmp.Diff([]string{"1", "2", "3", "4"}, out); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
	if got := strings.Count(logbuf.String(), "skipped statement"); got != 3 {
		t.Errorf("logged %d skipped statements, want 3:\n%s", got, logbuf.String())
	}

	// Without Recover the first error is fatal.
	thread = pyrite.NewThread("fatal")
	out = nil
	thread.Print = func(_ *pyrite.Thread, msg string) { out = append(out, msg) }
	err = pyrite.Exec(pyrite.ExecOptions{Thread: thread, Filename: "fatal.pyr", Source: "print 1\nx = 1 / 0\nprint 2\n"})
	if !pyrite.IsKind(err, pyrite.ZeroDivisionError) {
		t.Errorf("Exec = %v, want ZeroDivisionError", err)
	}
	if diff := cmp.Diff([]string{"1"}, out); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
}

func TestErrorPosition(t *testing.T) {
	thread := pyrite.NewThread("pos")
	src := "def f(a):\n    a + \"x\"\ny = f(1)\n"
	err := pyrite.ExecFile(thread, "pos.pyr", src)
	var e *pyrite.Error
	if !errors.As(err, &e) {
		t.Fatalf("ExecFile = %v, want *pyrite.Error", err)
	}
	if e.Kind != pyrite.TypeError || e.Pos.Line != 2 || e.Pos.Col != 7 {
		t.Errorf("got %s at %d:%d, want TypeError at 2:7", e.Kind, e.Pos.Line, e.Pos.Col)
	}
}

func TestHostBindings(t *testing.T) {
	thread := pyrite.NewThread("host")
	ns := thread.Namespace()
	ns.SetGlobal("n", pyrite.MakeInt(41))
	if err := pyrite.ExecFile(thread, "host.pyr", "n = n + 1\nmsg = \"n=%d\" % n\n"); err != nil {
		t.Fatal(err)
	}
	got := make(map[string]string)
	for name, v := range ns.Globals() {
		s, err := pyrite.Repr(thread, v)
		if err != nil {
			t.Fatal(err)
		}
		got[name] = s
	}
	want := map[string]string{"n": "42", "msg": `"n=42"`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("globals (-want +got):\n%s", diff)
	}
}

func TestRecursionLimit(t *testing.T) {
	thread := pyrite.NewThread("depth")
	thread.MaxDepth = 10
	src := "def down(n):\n    if n > 0:\n        down(n - 1)\ndown(9)\n"
	if err := pyrite.ExecFile(thread, "depth.pyr", src); err != nil {
		t.Errorf("depth 10: %v", err)
	}
	if err := pyrite.ExecFile(thread, "depth.pyr", "down(10)\n"); !pyrite.IsKind(err, pyrite.RecursionError) {
		t.Errorf("depth 11: got %v, want RecursionError", err)
	}
}

func TestCancel(t *testing.T) {
	thread := pyrite.NewThread("cancel")
	thread.Cancel("stop")
	err := pyrite.ExecFile(thread, "cancel.pyr", "while True:\n    pass\n")
	if !pyrite.IsKind(err, pyrite.Cancelled) {
		t.Fatalf("ExecFile = %v, want Cancelled", err)
	}
	if want := "cancel.pyr:1:1: Cancelled: Pyrite computation cancelled: stop"; err.Error() != want {
		t.Errorf("error = %q, want %q", err, want)
	}

	thread.Uncancel()
	if err := pyrite.ExecFile(thread, "cancel.pyr", "n = 0\nwhile n < 3:\n    n = n + 1\n"); err != nil {
		t.Errorf("after Uncancel: %v", err)
	}
}
