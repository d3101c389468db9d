// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"strings"
	"testing"
)

func tokens(toks ...Token) []Lexeme {
	var lxs []Lexeme
	for _, tok := range toks {
		lxs = append(lxs, Lexeme{Token: tok})
	}
	return lxs
}

func TestCursorBack(t *testing.T) {
	c := newCursor(tokens(IDENT, EQ, NUMBER))
	c.advance()
	c.advance()
	if err := c.back(2); err != nil {
		t.Fatal(err)
	}
	if !c.check(IDENT) {
		t.Errorf("after back(2): got %s, want IDENT", c.peek().Token)
	}

	c.advance()
	err := c.back(2)
	if err == nil || !strings.Contains(err.Error(), "cannot back up 2 tokens from position 1") {
		t.Errorf("back past the start: got %v", err)
	}
	if c.pos != 1 {
		t.Errorf("failed back moved the cursor to %d", c.pos)
	}

	for i := 0; i < 10; i++ {
		c.advance()
	}
	if !c.atEOF() || c.pos != 3 {
		t.Errorf("cursor advanced past EOF: pos %d", c.pos)
	}
}

func TestCursorPrevious(t *testing.T) {
	c := newCursor(tokens(IDENT, EQ, NUMBER))
	if lx := c.previous(1); lx != nil {
		t.Errorf("previous(1) at start = %s, want nil", lx.Token)
	}
	c.advance()
	c.advance()
	if lx := c.previous(1); lx == nil || lx.Token != EQ {
		t.Errorf("previous(1) = %v, want =", lx)
	}
	if lx := c.previous(2); lx == nil || lx.Token != IDENT {
		t.Errorf("previous(2) = %v, want IDENT", lx)
	}
	if lx := c.previous(3); lx != nil {
		t.Errorf("previous(3) = %s, want nil", lx.Token)
	}
	if lx := c.previous(0); lx != nil {
		t.Errorf("previous(0) = %s, want nil", lx.Token)
	}
	if !c.check(NUMBER) {
		t.Errorf("previous moved the cursor")
	}
}

func TestCursorCatchMulti(t *testing.T) {
	c := newCursor(tokens(IDENT, EQ, NUMBER))
	// The first alternative matches two tokens before failing and
	// must leave the cursor where it started.
	i, ok := c.catchMulti([]Token{IDENT, EQ, STRING}, []Token{IDENT, EQ})
	if !ok || i != 1 {
		t.Fatalf("catchMulti = %d, %t; want 1, true", i, ok)
	}
	if !c.check(NUMBER) {
		t.Errorf("after catchMulti: got %s, want NUMBER", c.peek().Token)
	}

	if err := c.back(2); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.catchMulti([]Token{IDENT, COMMA}); ok {
		t.Fatal("catchMulti matched IDENT COMMA")
	}
	if c.pos != 0 {
		t.Errorf("failed catchMulti left the cursor at %d", c.pos)
	}
}
