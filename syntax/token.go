// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// A Token represents a lexical token kind.
type Token int8

const (
	ILLEGAL Token = iota
	EOF

	LINEBREAK
	SPACE
	TAB
	IDENT  // x
	NUMBER // 123 or 1.5
	STRING // "foo" or 'foo' or '''foo''' or """foo"""

	// Punctuation
	PLUS       // +
	MINUS      // -
	STAR       // *
	SLASH      // /
	SLASHSLASH // //
	PERCENT    // %
	STARSTAR   // **
	DOT        // .
	COMMA      // ,
	COLON      // :
	SEMI       // ;
	EQ         // =
	EQL        // ==
	NEQ        // !=
	LT         // <
	GT         // >
	LE         // <=
	GE         // >=
	BANG       // !
	LPAREN     // (
	RPAREN     // )
	LBRACK     // [
	RBRACK     // ]
	LBRACE     // {
	RBRACE     // }

	// Keywords
	AND
	BREAK
	CLASS
	CONTINUE
	DEF
	ELIF
	ELSE
	FALSE
	FOR
	IF
	IN
	IS
	LAMBDA
	NONE
	NOT
	OR
	PASS
	PRINT
	RETURN
	TRUE
	WHILE

	// Compound comparison operators, produced by the parser only.
	NOT_IN // not in
	IS_NOT // is not

	maxToken
)

func (tok Token) String() string { return tokenNames[tok] }

// GoString is like String but quotes punctuation tokens.
// Use Sprintf("%#v", tok) when constructing error messages.
func (tok Token) GoString() string {
	if tok >= PLUS && tok <= RBRACE {
		return "'" + tokenNames[tok] + "'"
	}
	return tokenNames[tok]
}

var tokenNames = [...]string{
	ILLEGAL:    "illegal token",
	EOF:        "end of file",
	LINEBREAK:  "newline",
	SPACE:      "space",
	TAB:        "tab",
	IDENT:      "identifier",
	NUMBER:     "number literal",
	STRING:     "string literal",
	PLUS:       "+",
	MINUS:      "-",
	STAR:       "*",
	SLASH:      "/",
	SLASHSLASH: "//",
	PERCENT:    "%",
	STARSTAR:   "**",
	DOT:        ".",
	COMMA:      ",",
	COLON:      ":",
	SEMI:       ";",
	EQ:         "=",
	EQL:        "==",
	NEQ:        "!=",
	LT:         "<",
	GT:         ">",
	LE:         "<=",
	GE:         ">=",
	BANG:       "!",
	LPAREN:     "(",
	RPAREN:     ")",
	LBRACK:     "[",
	RBRACK:     "]",
	LBRACE:     "{",
	RBRACE:     "}",
	AND:        "and",
	BREAK:      "break",
	CLASS:      "class",
	CONTINUE:   "continue",
	DEF:        "def",
	ELIF:       "elif",
	ELSE:       "else",
	FALSE:      "False",
	FOR:        "for",
	IF:         "if",
	IN:         "in",
	IS:         "is",
	LAMBDA:     "lambda",
	NONE:       "None",
	NOT:        "not",
	OR:         "or",
	PASS:       "pass",
	PRINT:      "print",
	RETURN:     "return",
	TRUE:       "True",
	WHILE:      "while",
	NOT_IN:     "not in",
	IS_NOT:     "is not",
}

// keywordToken records the special tokens for
// strings that should not be treated as ordinary identifiers.
var keywordToken = map[string]Token{
	"and":      AND,
	"break":    BREAK,
	"class":    CLASS,
	"continue": CONTINUE,
	"def":      DEF,
	"elif":     ELIF,
	"else":     ELSE,
	"False":    FALSE,
	"for":      FOR,
	"if":       IF,
	"in":       IN,
	"is":       IS,
	"lambda":   LAMBDA,
	"None":     NONE,
	"not":      NOT,
	"or":       OR,
	"pass":     PASS,
	"print":    PRINT,
	"return":   RETURN,
	"True":     TRUE,
	"while":    WHILE,

	// reserved words:
	// "as", "assert", "del", "from", "global", "import", "try", "with", "yield"
}

// A Lexeme is a single scanned token together with its position,
// its literal value, and the source text it was scanned from.
//
// Value is a string for STRING and IDENT, an int64 or float64 for
// NUMBER, and nil otherwise.
type Lexeme struct {
	Token Token
	Pos   Position
	Value interface{}
	Raw   string
}

func (lx Lexeme) String() string {
	switch lx.Token {
	case EOF, LINEBREAK, SPACE, TAB:
		return lx.Token.String()
	}
	return lx.Raw
}

// A Position describes the location of a rune of input.
type Position struct {
	file *string // filename (indirect for compactness)
	Line int32   // 1-based line number; 0 if line unknown
	Col  int32   // 1-based column (rune) number; 0 if column unknown
}

// IsValid reports whether the position is valid.
func (p Position) IsValid() bool { return p.file != nil }

// Filename returns the name of the file containing this position.
func (p Position) Filename() string {
	if p.file != nil {
		return *p.file
	}
	return "<invalid>"
}

// MakePosition returns position with the specified components.
func MakePosition(file *string, line, col int32) Position { return Position{file, line, col} }

// add returns the position at the end of s, assuming it starts at p.
func (p Position) add(s string) Position {
	p.Col += int32(utf8.RuneCountInString(s))
	return p
}

func (p Position) String() string {
	file := p.Filename()
	if p.Line > 0 {
		if p.Col > 0 {
			return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Col)
		}
		return fmt.Sprintf("%s:%d", file, p.Line)
	}
	return file
}

// An Error describes a syntax error with its position.
type Error struct {
	Pos Position
	Msg string
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// An ErrorList is the list of syntax errors collected by a parse
// in RecoverErrors mode.
type ErrorList []Error

func (list ErrorList) Error() string {
	switch len(list) {
	case 0:
		return "no errors"
	case 1:
		return list[0].Error()
	}
	return list[0].Error() + " (and " + strconv.Itoa(len(list)-1) + " more errors)"
}

// Err returns nil for an empty list and the list itself otherwise.
func (list ErrorList) Err() error {
	if len(list) == 0 {
		return nil
	}
	return list
}
