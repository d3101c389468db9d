// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "testing"

var quoteTests = []struct {
	s, q string // unquoted (actual string), quoted
}{
	{"", `""`},
	{"hello", `"hello"`},
	{`quote"here`, `'quote"here'`},
	{"quote'here", `"quote'here"`},
	{`both'"here`, `"both'\"here"`},
	{"a\nb\tc\rd", `"a\nb\tc\rd"`},
	{`back\slash`, `"back\\slash"`},
	{"nul\x00", `"nul\0"`},
	{"ünïcode", `"ünïcode"`},
}

func TestQuote(t *testing.T) {
	for _, tt := range quoteTests {
		if q := Quote(tt.s); q != tt.q {
			t.Errorf("Quote(%#q) = %s, want %s", tt.s, q, tt.q)
		}
	}
}

// TestQuoteScan checks that scanning a quoted string yields the original.
func TestQuoteScan(t *testing.T) {
	for _, tt := range quoteTests {
		toks, err := Scan("foo.pyr", tt.q)
		if err != nil {
			t.Errorf("Scan(%s): %v", tt.q, err)
			continue
		}
		if toks[0].Token != STRING || toks[0].Value.(string) != tt.s {
			t.Errorf("Scan(%s) = %#v, want %q", tt.q, toks[0].Value, tt.s)
		}
	}
}
