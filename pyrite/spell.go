// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pyrite

// This file defines the spelling suggestions of lookup errors
// ("name 'cout' is not defined (did you mean 'count'?)").

import (
	"sort"
	"strings"
	"unicode"
)

// nearest returns the candidate closest to x by edit distance, or ""
// if none is within half the length of x. Dunder names are never
// suggested for ordinary ones.
func nearest(x string, candidates []string) string {
	fold := func(s string) string {
		return strings.Map(func(r rune) rune {
			if r == '_' {
				return -1
			}
			return unicode.ToLower(r)
		}, s)
	}
	dunder := strings.HasPrefix(x, "__")
	fx := fold(x)

	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)
	var best string
	bestD := (len(fx) + 1) / 2 // allow up to 50% typos
	for _, c := range sorted {
		if c == x || strings.HasPrefix(c, "__") != dunder {
			continue
		}
		if d := editDistance(fx, fold(c), bestD); d < bestD {
			bestD, best = d, c
		}
	}
	return best
}

// editDistance returns the Levenshtein distance between x and y.
// It may stop early and return a value greater than limit.
func editDistance(x, y string, limit int) int {
	if len(x) > len(y) {
		x, y = y, x
	}
	for len(x) > 0 && x[0] == y[0] {
		x, y = x[1:], y[1:]
	}
	if x == "" {
		return len(y)
	}

	row := make([]int, len(y)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(x); i++ {
		prev := row[0]
		row[0] = i
		best := i
		for j := 1; j <= len(y); j++ {
			cost := 1
			if x[i-1] == y[j-1] {
				cost = 0
			}
			k := min(prev+cost, row[j-1]+1, row[j]+1)
			prev, row[j] = row[j], k
			best = min(best, k)
		}
		if best > limit {
			return best
		}
	}
	return row[len(y)]
}
