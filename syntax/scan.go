// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// A line-oriented scanner for Pyrite.
//
// Leading whitespace is not skipped: each space or tab at the start of
// a line becomes its own SPACE or TAB token so that the parser can
// measure indentation itself. Every physical line, including blank and
// comment-only lines, ends with a LINEBREAK token, except for lines
// inside a triple-quoted string.

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// TabWidth is the indentation width of a TAB token.
const TabWidth = 4

// A checkMethod says how the checker decides that a lexeme is complete.
type checkMethod uint8

const (
	inLine checkMethod = iota // lexeme must end on the current line
	next                      // lexeme is decided by the next rune
	all                       // lexeme may span lines
)

// A checkTarget is the kind of lexeme under construction.
type checkTarget uint8

const (
	forNormal checkTarget = iota
	forString
	forNumber
	forIdent
)

// A checker assembles a multi-rune lexeme one rune at a time.
type checker struct {
	active bool
	expect rune // closing quote, or second rune of a two-rune operator
	method checkMethod
	target checkTarget

	start   Position
	raw     strings.Builder // source text
	buf     strings.Builder // decoded string contents
	escape  bool            // previous rune was a backslash
	closing int             // run of closing quotes seen in a triple-quoted string
	dot     bool            // number has a decimal point
}

func (c *checker) begin(start Position, target checkTarget, method checkMethod, expect rune) {
	c.active = true
	c.start = start
	c.target = target
	c.method = method
	c.expect = expect
	c.raw.Reset()
	c.buf.Reset()
	c.escape = false
	c.closing = 0
	c.dot = false
}

type scanner struct {
	filename *string
	line     int32
	check    checker
	tokens   []Lexeme
}

// Scan splits src into tokens. See Parse for the acceptable forms of src.
//
// Scanning stops at the first error, which is returned as an Error.
func Scan(filename string, src interface{}) ([]Lexeme, error) {
	data, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}
	sc := &scanner{filename: &filename}
	return sc.scan(string(data))
}

func (sc *scanner) pos(col int) Position {
	return MakePosition(sc.filename, sc.line, int32(col)+1)
}

func (sc *scanner) errorf(pos Position, format string, args ...interface{}) error {
	return Error{pos, fmt.Sprintf(format, args...)}
}

func (sc *scanner) emit(tok Token, pos Position, value interface{}, raw string) {
	sc.tokens = append(sc.tokens, Lexeme{Token: tok, Pos: pos, Value: value, Raw: raw})
}

func (sc *scanner) scan(src string) ([]Lexeme, error) {
	lines := strings.Split(src, "\n")
	if n := len(lines); n > 1 && lines[n-1] == "" {
		lines = lines[:n-1] // final newline terminates the last line
	}
	if src == "" {
		lines = nil
	}
	for i, line := range lines {
		sc.line = int32(i + 1)
		if err := sc.scanLine([]rune(line)); err != nil {
			return nil, err
		}
	}
	if sc.check.active {
		return nil, sc.errorf(sc.check.start, "unexpected EOF in string")
	}

	var eof Position
	if len(lines) == 0 {
		eof = MakePosition(sc.filename, 1, 1)
	} else if strings.HasSuffix(src, "\n") {
		eof = MakePosition(sc.filename, int32(len(lines)+1), 1)
	} else {
		last := []rune(lines[len(lines)-1])
		eof = MakePosition(sc.filename, int32(len(lines)), int32(len(last))+1)
	}
	sc.emit(EOF, eof, nil, "")
	return sc.tokens, nil
}

func (sc *scanner) scanLine(line []rune) error {
	i := 0
	if !sc.check.active {
		// Indentation.
		for ; i < len(line); i++ {
			switch line[i] {
			case ' ':
				sc.emit(SPACE, sc.pos(i), nil, " ")
				continue
			case '\t':
				sc.emit(TAB, sc.pos(i), nil, "\t")
				continue
			}
			break
		}
	}

	for ; i <= len(line); i++ {
		c := rune(-1) // end of line
		if i < len(line) {
			c = line[i]
		}

		if sc.check.active {
			consumed, err := sc.step(c, i)
			if err != nil {
				return err
			}
			if consumed {
				continue
			}
		}
		if c < 0 {
			break
		}

		switch {
		case c == '\r', c == ' ', c == '\t':
			// skip
		case c == '#':
			i = len(line) - 1 // comment runs to end of line
		case c == '"' || c == '\'':
			sc.check.begin(sc.pos(i), forString, inLine, c)
			sc.check.raw.WriteRune(c)
			if i+2 < len(line) && line[i+1] == c && line[i+2] == c {
				sc.check.method = all
				sc.check.raw.WriteRune(c)
				sc.check.raw.WriteRune(c)
				i += 2
			}
		case isDigit(c) || c == '.' && i+1 < len(line) && isDigit(line[i+1]):
			sc.check.begin(sc.pos(i), forNumber, inLine, 0)
			if _, err := sc.step(c, i); err != nil {
				return err
			}
		case isIdentStart(c):
			sc.check.begin(sc.pos(i), forIdent, inLine, 0)
			sc.check.raw.WriteRune(c)
		default:
			if err := sc.operator(c, i); err != nil {
				return err
			}
		}
	}

	if sc.check.active {
		// Only a triple-quoted string survives the end of its line.
		return nil
	}
	sc.emit(LINEBREAK, sc.pos(len(line)), nil, "\n")
	return nil
}

// operator handles punctuation, starting a two-rune check where the
// next rune may extend the token.
func (sc *scanner) operator(c rune, col int) error {
	pos := sc.pos(col)
	switch c {
	case '=', '!', '<', '>':
		sc.check.begin(pos, forNormal, next, '=')
		sc.check.raw.WriteRune(c)
		return nil
	case '/':
		sc.check.begin(pos, forNormal, next, '/')
		sc.check.raw.WriteRune(c)
		return nil
	case '*':
		sc.check.begin(pos, forNormal, next, '*')
		sc.check.raw.WriteRune(c)
		return nil
	}
	tok, ok := singleRune[c]
	if !ok {
		return sc.errorf(pos, "unexpected input character %#q", c)
	}
	sc.emit(tok, pos, nil, string(c))
	return nil
}

var singleRune = map[rune]Token{
	'+': PLUS,
	'-': MINUS,
	'%': PERCENT,
	'.': DOT,
	',': COMMA,
	':': COLON,
	';': SEMI,
	'(': LPAREN,
	')': RPAREN,
	'[': LBRACK,
	']': RBRACK,
	'{': LBRACE,
	'}': RBRACE,
}

var doubleRune = map[string]Token{
	"==": EQL,
	"!=": NEQ,
	"<=": LE,
	">=": GE,
	"//": SLASHSLASH,
	"**": STARSTAR,
}

var firstRune = map[string]Token{
	"=": EQ,
	"!": BANG,
	"<": LT,
	">": GT,
	"/": SLASH,
	"*": STAR,
}

// step feeds rune c (or -1 at end of line) to the active checker.
// It reports whether c belongs to the lexeme; if not, the lexeme has
// been emitted and c must be scanned afresh.
func (sc *scanner) step(c rune, col int) (consumed bool, err error) {
	ck := &sc.check
	switch ck.target {
	case forNormal:
		ck.active = false
		if c == ck.expect {
			ck.raw.WriteRune(c)
			raw := ck.raw.String()
			sc.emit(doubleRune[raw], ck.start, nil, raw)
			return true, nil
		}
		raw := ck.raw.String()
		sc.emit(firstRune[raw], ck.start, nil, raw)
		return false, nil

	case forIdent:
		if c >= 0 && isIdentChar(c) {
			ck.raw.WriteRune(c)
			return true, nil
		}
		ck.active = false
		raw := ck.raw.String()
		if tok, ok := keywordToken[raw]; ok {
			sc.emit(tok, ck.start, nil, raw)
		} else {
			sc.emit(IDENT, ck.start, raw, raw)
		}
		return false, nil

	case forNumber:
		switch {
		case c >= 0 && isDigit(c):
			ck.raw.WriteRune(c)
			return true, nil
		case c == '.':
			if ck.dot {
				return false, sc.errorf(sc.pos(col), "invalid number literal %s.", ck.raw.String())
			}
			ck.dot = true
			ck.raw.WriteRune(c)
			return true, nil
		case c >= 0 && isIdentStart(c):
			return false, sc.errorf(ck.start, "invalid number literal %s%c", ck.raw.String(), c)
		}
		ck.active = false
		raw := ck.raw.String()
		if ck.dot {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return false, sc.errorf(ck.start, "invalid float literal %s", raw)
			}
			sc.emit(NUMBER, ck.start, f, raw)
		} else {
			i, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return false, sc.errorf(ck.start, "integer literal %s out of range", raw)
			}
			sc.emit(NUMBER, ck.start, i, raw)
		}
		return false, nil

	case forString:
		return sc.stepString(c, col)
	}
	panic("unreachable")
}

func (sc *scanner) stepString(c rune, col int) (bool, error) {
	ck := &sc.check
	if c < 0 {
		if ck.method != all || ck.escape {
			return false, sc.errorf(ck.start, "unterminated string literal")
		}
		// Triple-quoted strings keep their line breaks.
		for ; ck.closing > 0; ck.closing-- {
			ck.buf.WriteRune(ck.expect)
		}
		ck.raw.WriteByte('\n')
		ck.buf.WriteByte('\n')
		return true, nil
	}
	ck.raw.WriteRune(c)

	if ck.escape {
		ck.escape = false
		switch c {
		case 'n':
			ck.buf.WriteByte('\n')
		case 't':
			ck.buf.WriteByte('\t')
		case 'r':
			ck.buf.WriteByte('\r')
		case '0':
			ck.buf.WriteByte(0)
		case '\\', '\'', '"':
			ck.buf.WriteRune(c)
		default:
			ck.buf.WriteByte('\\')
			ck.buf.WriteRune(c)
		}
		return true, nil
	}

	if c == ck.expect {
		if ck.method != all {
			sc.finishString()
			return true, nil
		}
		ck.closing++
		if ck.closing == 3 {
			sc.finishString()
		}
		return true, nil
	}
	for ; ck.closing > 0; ck.closing-- {
		ck.buf.WriteRune(ck.expect)
	}
	if c == '\\' {
		ck.escape = true
		return true, nil
	}
	if c != '\r' {
		ck.buf.WriteRune(c)
	}
	return true, nil
}

func (sc *scanner) finishString() {
	ck := &sc.check
	ck.active = false
	sc.emit(STRING, ck.start, ck.buf.String(), ck.raw.String())
}

func isDigit(c rune) bool      { return '0' <= c && c <= '9' }
func isIdentStart(c rune) bool { return c == '_' || unicode.IsLetter(c) }
func isIdentChar(c rune) bool  { return isDigit(c) || isIdentStart(c) }

// readSource returns the contents of src, or of the named file if src
// is nil. src may be a string, []byte, or io.Reader.
func readSource(filename string, src interface{}) ([]byte, error) {
	switch src := src.(type) {
	case nil:
		return os.ReadFile(filename)
	case string:
		return []byte(src), nil
	case []byte:
		return src, nil
	case io.Reader:
		data, err := io.ReadAll(src)
		if err != nil {
			err = &os.PathError{Op: "read", Path: filename, Err: err}
			return nil, err
		}
		return data, nil
	default:
		return nil, fmt.Errorf("invalid source: %T", src)
	}
}
