// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chunkedfile provides utilities for testing that source code
// errors are reported in the appropriate places, and that programs
// print what they should.
//
// A chunked file consists of several chunks of input text separated by
// "---" lines.  Each chunk is an input to the program under test, such
// as an evaluator.  Lines containing "###" are interpreted as
// expectations of failure: the following text is a Go string literal
// denoting a regular expression that should match the failure message.
// Lines containing "#=>" are expectations of output: the rest of the
// line, trimmed of spaces, is the next line the chunk should print.
//
// Example:
//
//      x = 1 / 0 ### "division by zero"
//      ---
//      x = 1
//      print x + "" ### "unsupported operand"
//      ---
//      print 1 + 2 #=> 3
//
// A client test feeds each chunk of text into the program under test,
// then calls chunk.GotError for each error that actually occurred and
// chunk.GotOutput for each line printed.  Any discrepancy between the
// actual and expected results is reported using the client's reporter,
// which is typically a testing.T.
package chunkedfile // import "go.pyrite.dev/internal/chunkedfile"

import (
	"fmt"
	"os"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

const debug = false

// A Chunk is a portion of a source file.
// It contains a set of expected errors and the expected output.
type Chunk struct {
	Source   string
	filename string
	report   Reporter
	wantErrs map[int]*regexp.Regexp
	wantOut  []outLine
}

type outLine struct {
	linenum int
	text    string
}

// Reporter is implemented by *testing.T.
type Reporter interface {
	Errorf(format string, args ...interface{})
}

// Read parses a chunked file and returns its chunks.
// It reports failures using the reporter.
//
// Error messages of the form "file.pyr:line:col: ..." are prefixed
// by a newline so that the Go source position added by (*testing.T).Errorf
// appears on a separate line so as not to confused editors.
func Read(filename string, report Reporter) (chunks []Chunk) {
	data, err := os.ReadFile(filename)
	if err != nil {
		report.Errorf("%s", err)
		return
	}
	eol := "\n"
	if runtime.GOOS == "windows" {
		eol = "\r\n"
	}
	return readBytes(filename, data, report, eol)
}

func readBytes(filename string, data []byte, report Reporter, eol string) (chunks []Chunk) {
	linenum := 1
	for i, chunk := range strings.Split(string(data), eol+"---"+eol) {
		if debug {
			fmt.Printf("chunk %d at line %d: %s\n", i, linenum, chunk)
		}
		// Pad with newlines so the line numbers match the original file.
		src := strings.Repeat("\n", linenum-1) + chunk

		wantErrs := make(map[int]*regexp.Regexp)
		var wantOut []outLine

		// Parse comments of the form:
		// ### "expected error".
		// #=> expected output
		lines := strings.Split(chunk, "\n")
		for j := 0; j < len(lines); j, linenum = j+1, linenum+1 {
			line := lines[j]
			if arrow := strings.Index(line, "#=>"); arrow >= 0 {
				text := strings.TrimSpace(line[arrow+len("#=>"):])
				wantOut = append(wantOut, outLine{linenum, text})
				continue
			}
			hashes := strings.Index(line, "###")
			if hashes < 0 {
				continue
			}
			rest := strings.TrimSpace(line[hashes+len("###"):])
			pattern, err := strconv.Unquote(rest)
			if err != nil {
				report.Errorf("\n%s:%d: not a quoted regexp: %s", filename, linenum, rest)
				continue
			}
			rx, err := regexp.Compile(pattern)
			if err != nil {
				report.Errorf("\n%s:%d: %v", filename, linenum, err)
				continue
			}
			wantErrs[linenum] = rx
			if debug {
				fmt.Printf("\t%d\t%s\n", linenum, rx)
			}
		}
		linenum++

		chunks = append(chunks, Chunk{src, filename, report, wantErrs, wantOut})
	}
	return chunks
}

// GotError should be called by the client to report an error at a particular line.
// GotError reports unexpected errors to the chunk's reporter.
func (chunk *Chunk) GotError(linenum int, msg string) {
	if rx, ok := chunk.wantErrs[linenum]; ok {
		delete(chunk.wantErrs, linenum)
		if !rx.MatchString(msg) {
			chunk.report.Errorf("\n%s:%d: error %q does not match pattern %q", chunk.filename, linenum, msg, rx)
		}
	} else {
		chunk.report.Errorf("\n%s:%d: unexpected error: %v", chunk.filename, linenum, msg)
	}
}

// GotOutput should be called by the client for each line the chunk printed,
// in order. GotOutput reports output that was not expected.
func (chunk *Chunk) GotOutput(text string) {
	if len(chunk.wantOut) == 0 {
		chunk.report.Errorf("\n%s: unexpected output %q", chunk.filename, text)
		return
	}
	want := chunk.wantOut[0]
	chunk.wantOut = chunk.wantOut[1:]
	if text != want.text {
		chunk.report.Errorf("\n%s:%d: got output %q, want %q", chunk.filename, want.linenum, text, want.text)
	}
}

// Done should be called by the client to indicate that the chunk has no more errors
// or output. Done reports expected errors and output that did not occur to the
// chunk's reporter.
func (chunk *Chunk) Done() {
	for linenum, rx := range chunk.wantErrs {
		chunk.report.Errorf("\n%s:%d: expected error matching %q", chunk.filename, linenum, rx)
	}
	for _, out := range chunk.wantOut {
		chunk.report.Errorf("\n%s:%d: expected output %q", chunk.filename, out.linenum, out.text)
	}
}
