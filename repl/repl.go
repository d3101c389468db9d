// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repl provides a read/eval/print loop for Pyrite.
//
// It supports readline-style command editing when standard input is a
// terminal, and interrupts through Control-C.
//
// A line ending with a colon starts a compound statement; the REPL
// reads continuation lines until a blank line, then parses and
// executes the whole item. The value of an expression statement is
// printed unless it is None. The line "exit()" ends the loop, as does
// end of input.
package repl // import "go.pyrite.dev/repl"

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"go.pyrite.dev/pyrite"
	"go.pyrite.dev/syntax"
)

// DefaultPrompt is the primary prompt.
const DefaultPrompt = ">>> "

const continuation = "... "

var interrupted = make(chan os.Signal, 1)

// A lineReader returns one line of input at a time, without its newline.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// scanReader reads lines from a non-terminal input. It prints no prompts.
type scanReader struct{ sc *bufio.Scanner }

func (r scanReader) Readline() (string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.sc.Text(), nil
}

func (scanReader) SetPrompt(string) {}
func (scanReader) Close() error     { return nil }

// REPL executes a read, eval, print loop on standard input.
//
// While an item is being evaluated, a SIGINT (Control-C) cancels the
// thread; the item fails and the loop continues with the next one.
func REPL(thread *pyrite.Thread, prompt string) {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	signal.Notify(interrupted, os.Interrupt)
	defer signal.Stop(interrupted)

	var rl lineReader
	if term.IsTerminal(int(os.Stdin.Fd())) {
		inst, err := readline.New(prompt)
		if err != nil {
			PrintError(err)
			return
		}
		rl = inst
	} else {
		rl = scanReader{bufio.NewScanner(os.Stdin)}
	}
	defer rl.Close()

	for {
		if err := rep(rl, thread, prompt, os.Stdout); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rep reads, evaluates, and prints one item to out.
//
// It returns an error (possibly readline.ErrInterrupt)
// only if reading failed or the user asked to exit. Pyrite errors are
// printed to stderr.
func rep(rl lineReader, thread *pyrite.Thread, prompt string, out io.Writer) error {
	src, err := readItem(rl, prompt)
	if err != nil {
		return err
	}
	if strings.TrimSpace(src) == "" {
		return nil
	}

	// Note: during Readline calls, Control-C causes Readline to return
	// ErrInterrupt but does not generate a SIGINT.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-interrupted:
			thread.Cancel("interrupted")
		case <-done:
		}
	}()
	defer thread.Uncancel()

	f, err := syntax.Parse("<stdin>", src, 0)
	if err != nil {
		PrintError(err)
		return nil
	}
	pool := thread.Namespace().Pool()
	for _, stmt := range f.Stmts {
		v, err := pyrite.ExecStmts(thread, []syntax.Stmt{stmt}, pyrite.Global)
		if err != nil {
			PrintError(err)
			return nil
		}
		if _, ok := stmt.(*syntax.ExprStmt); ok && v != nil && !v.IsNone() {
			s, err := pyrite.Repr(thread, v)
			pool.Drop(v)
			if err != nil {
				PrintError(err)
				return nil
			}
			fmt.Fprintln(out, s)
			continue
		}
		pool.Drop(v)
	}
	return nil
}

// readItem reads one line, or a compound statement finished by a
// blank line. It returns io.EOF at end of input or on "exit()".
func readItem(rl lineReader, prompt string) (string, error) {
	rl.SetPrompt(prompt)
	line, err := rl.Readline()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) == "exit()" {
		return "", io.EOF
	}
	if !strings.HasSuffix(strings.TrimSpace(line), ":") {
		return line + "\n", nil
	}

	var buf strings.Builder
	buf.WriteString(line + "\n")
	rl.SetPrompt(continuation)
	for {
		line, err := rl.Readline()
		if err == io.EOF || (err == nil && strings.TrimSpace(line) == "") {
			return buf.String(), nil
		} else if err != nil {
			return "", err
		}
		buf.WriteString(line + "\n")
	}
}

// PrintError prints the error to stderr.
func PrintError(err error) {
	fmt.Fprintln(os.Stderr, err)
}
