// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"strings"
	"unicode/utf8"
)

// Quote returns the quoted form of s as it would be displayed by repr:
// double-quoted unless s contains a double quote and no single quote.
func Quote(s string) string {
	q := byte('"')
	if strings.IndexByte(s, '"') >= 0 && strings.IndexByte(s, '\'') < 0 {
		q = '\''
	}

	var buf strings.Builder
	buf.Grow(len(s) + 2)
	buf.WriteByte(q)
	for i := 0; i < len(s); {
		r, n := utf8.DecodeRuneInString(s[i:])
		i += n
		switch r {
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\t':
			buf.WriteString(`\t`)
		case '\r':
			buf.WriteString(`\r`)
		case 0:
			buf.WriteString(`\0`)
		case rune(q):
			buf.WriteByte('\\')
			buf.WriteByte(q)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte(q)
	return buf.String()
}
