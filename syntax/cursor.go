// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "fmt"

// A cursor walks a token sequence produced by Scan.
// The sequence always ends with an EOF token, which the cursor never
// advances past.
type cursor struct {
	toks []Lexeme
	pos  int
}

func newCursor(toks []Lexeme) *cursor {
	if len(toks) == 0 || toks[len(toks)-1].Token != EOF {
		toks = append(toks, Lexeme{Token: EOF})
	}
	return &cursor{toks: toks}
}

// peek returns the current token without moving.
func (c *cursor) peek() *Lexeme { return &c.toks[c.pos] }

// advance consumes the current token and returns it.
func (c *cursor) advance() *Lexeme {
	lx := &c.toks[c.pos]
	if lx.Token != EOF {
		c.pos++
	}
	return lx
}

// previous returns the token k positions behind the cursor,
// or nil if there is none. previous(1) is the last consumed token.
func (c *cursor) previous(k int) *Lexeme {
	if k <= 0 || c.pos-k < 0 {
		return nil
	}
	return &c.toks[c.pos-k]
}

// back rewinds the cursor by k tokens.
// It fails, without moving, if that would go before the first token.
func (c *cursor) back(k int) error {
	if k < 0 || c.pos-k < 0 {
		return fmt.Errorf("cursor: cannot back up %d tokens from position %d", k, c.pos)
	}
	c.pos -= k
	return nil
}

// check reports whether the current token is tok.
func (c *cursor) check(tok Token) bool { return c.toks[c.pos].Token == tok }

func (c *cursor) atEOF() bool { return c.check(EOF) }

// catch consumes the current token if it is one of toks.
func (c *cursor) catch(toks ...Token) (*Lexeme, bool) {
	cur := c.peek()
	for _, tok := range toks {
		if cur.Token == tok {
			return c.advance(), true
		}
	}
	return nil, false
}

// catchMulti tries each token sequence in order and consumes the first
// one that matches in full, returning its index. A partial match is
// rewound before the next alternative is tried, so on failure the
// cursor is where it started.
func (c *cursor) catchMulti(seqs ...[]Token) (int, bool) {
	for i, seq := range seqs {
		n := 0
		for _, tok := range seq {
			if !c.check(tok) {
				break
			}
			c.advance()
			n++
		}
		if n == len(seq) {
			return i, true
		}
		c.pos -= n
	}
	return -1, false
}

// consume consumes the current token, which must be tok.
func (c *cursor) consume(tok Token) (*Lexeme, error) {
	cur := c.peek()
	if cur.Token != tok {
		return nil, Error{cur.Pos, fmt.Sprintf("got %s, want %#v", describe(cur), tok)}
	}
	return c.advance(), nil
}

// describe formats a token for an error message.
func describe(lx *Lexeme) string {
	switch lx.Token {
	case EOF, LINEBREAK:
		return lx.Token.String()
	case IDENT, NUMBER, STRING:
		return fmt.Sprintf("%s %s", lx.Token, lx.Raw)
	}
	return fmt.Sprintf("%#v", lx.Token)
}
