// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func scan(src interface{}) (tokens string, err error) {
	toks, err := Scan("foo.pyr", src)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for _, lx := range toks {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		switch lx.Token {
		case EOF:
			buf.WriteString("EOF")
		case SPACE:
			buf.WriteString("sp")
		case IDENT:
			buf.WriteString(lx.Value.(string))
		case NUMBER:
			switch v := lx.Value.(type) {
			case int64:
				fmt.Fprintf(&buf, "%d", v)
			case float64:
				fmt.Fprintf(&buf, "%e", v)
			}
		case STRING:
			buf.WriteString(Quote(lx.Value.(string)))
		default:
			buf.WriteString(lx.Token.String())
		}
	}
	return buf.String(), nil
}

func TestScanner(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{``, "EOF"},
		{`123`, "123 newline EOF"},
		{`x.y`, "x . y newline EOF"},
		{`a == b != c`, "a == b != c newline EOF"},
		{`a<=b>=c<d>e`, "a <= b >= c < d > e newline EOF"},
		{`x = 1 // 2 ** 3 / 4 * 5 % 6`, "x = 1 // 2 ** 3 / 4 * 5 % 6 newline EOF"},
		{`f(a, [b]);`, "f ( a , [ b ] ) ; newline EOF"},
		{`1.5 .5 2.`, "1.500000e+00 5.000000e-01 2.000000e+00 newline EOF"},
		{`1.2.3`, "foo.pyr:1:4: invalid number literal 1.2."},
		{`12ab`, "foo.pyr:1:1: invalid number literal 12a"},
		{`99999999999999999999`, "foo.pyr:1:1: integer literal 99999999999999999999 out of range"},
		{`"abc" 'd\'e'`, `"abc" "d'e" newline EOF`},
		{`"a\nb\tc"`, `"a\nb\tc" newline EOF`},
		{`'#' # comment`, `"#" newline EOF`},
		{`"x`, "foo.pyr:1:1: unterminated string literal"},
		{`''`, `"" newline EOF`},
		{"x = '''a\nb'''\ny", `x = "a\nb" newline y newline EOF`},
		{`"""say "hi" now"""`, `'say "hi" now' newline EOF`},
		{"'''abc", "foo.pyr:1:1: unexpected EOF in string"},
		{"if x:\n    y\n\tz\n", "if x : newline sp sp sp sp y newline tab z newline EOF"},
		{"# hello\nx # trailing\n", "newline x newline EOF"},
		{"a\r\nb", "a newline b newline EOF"},
		{"a\n\n  \nb", "a newline newline sp sp newline b newline EOF"},
		{"x ! 0", "x ! 0 newline EOF"},
		{"x $ y", "foo.pyr:1:3: unexpected input character '$'"},
		{"if elif else while not and or in is True False None print pass break continue",
			"if elif else while not and or in is True False None print pass break continue newline EOF"},
		{"def class lambda for return", "def class lambda for return newline EOF"},
		{"iffy _x1 Truth", "iffy _x1 Truth newline EOF"},
	} {
		got, err := scan(test.input)
		if err != nil {
			got = err.(Error).Error()
		}
		if got != test.want {
			t.Errorf("scan `%s` = [%s], want [%s]", test.input, got, test.want)
		}
	}
}

func TestScanPositions(t *testing.T) {
	toks, err := Scan("foo.pyr", "a = 'b'\n  c\n")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, lx := range toks {
		got = append(got, fmt.Sprintf("%d:%d %s", lx.Pos.Line, lx.Pos.Col, lx.Token))
	}
	want := []string{
		"1:1 identifier",
		"1:3 =",
		"1:5 string literal",
		"1:8 newline",
		"2:1 space",
		"2:2 space",
		"2:3 identifier",
		"2:4 newline",
		"3:1 end of file",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("positions:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}

	toks, err = Scan("foo.pyr", "ab")
	if err != nil {
		t.Fatal(err)
	}
	if eof := toks[len(toks)-1]; eof.Token != EOF || eof.Pos.Line != 1 || eof.Pos.Col != 3 {
		t.Errorf("EOF at %s, want foo.pyr:1:3", eof.Pos)
	}
}

func TestScanLiteralValues(t *testing.T) {
	toks, err := Scan("foo.pyr", `7 7.0 "s" id`)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := toks[0].Value.(int64); !ok || v != 7 {
		t.Errorf("int literal value = %#v", toks[0].Value)
	}
	if v, ok := toks[1].Value.(float64); !ok || v != 7.0 {
		t.Errorf("float literal value = %#v", toks[1].Value)
	}
	if v, ok := toks[2].Value.(string); !ok || v != "s" || toks[2].Raw != `"s"` {
		t.Errorf("string literal = %#v (raw %s)", toks[2].Value, toks[2].Raw)
	}
	if v, ok := toks[3].Value.(string); !ok || v != "id" {
		t.Errorf("identifier value = %#v", toks[3].Value)
	}
}

func BenchmarkScan(b *testing.B) {
	filename := filepath.Join("testdata", "scan.pyr")
	b.StopTimer()
	data, err := os.ReadFile(filename)
	if err != nil {
		b.Fatal(err)
	}
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		if _, err := Scan(filename, data); err != nil {
			b.Fatal(err)
		}
	}
}
