// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The pyrite command interprets a Pyrite file.
// With no arguments, it starts a read-eval-print loop (REPL).
package main // import "go.pyrite.dev/cmd/pyrite"

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/oarkflow/log"

	"go.pyrite.dev/internal/config"
	"go.pyrite.dev/lib/math"
	"go.pyrite.dev/lib/proto"
	"go.pyrite.dev/pyrite"
	"go.pyrite.dev/repl"
	"go.pyrite.dev/syntax"
)

// flags
var (
	cpuprofile = flag.String("cpuprofile", "", "gather Go CPU profile in this file")
	memprofile = flag.String("memprofile", "", "gather Go memory profile in this file")
	configfile = flag.String("config", "", "read settings from the YAML `file`")
	showenv    = flag.Bool("showenv", false, "on success, print final global environment")
	envformat  = flag.String("envformat", "", "format of -showenv output: text, json or prototext")
	recoverErr = flag.Bool("recover", false, "report failing top-level statements and keep going")
	showast    = flag.Bool("ast", false, "print the syntax tree instead of executing")
	execprog   = flag.String("c", "", "execute program `prog`")
)

var logger = &log.Logger{
	Level:  log.WarnLevel,
	Writer: &log.IOWriter{Writer: os.Stderr},
}

func main() {
	os.Exit(doMain())
}

func doMain() int {
	flag.Parse()

	cfg, err := config.Load(*configfile)
	if err != nil {
		logger.Error().Err(err).Msg("loading config")
		return 1
	}
	// Flags that were set override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "showenv":
			cfg.ShowEnv = *showenv
		case "envformat":
			cfg.EnvFormat = *envformat
		case "recover":
			cfg.Recover = *recoverErr
		}
	})
	if level, err := cfg.Level(); err == nil {
		logger.Level = level
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		check(err)
		err = pprof.StartCPUProfile(f)
		check(err)
		defer func() {
			pprof.StopCPUProfile()
			err := f.Close()
			check(err)
		}()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		check(err)
		defer func() {
			runtime.GC()
			err := pprof.Lookup("heap").WriteTo(f, 0)
			check(err)
			err = f.Close()
			check(err)
		}()
	}

	thread := pyrite.NewThread("main")
	thread.Logger = logger
	thread.MaxDepth = cfg.MaxDepth
	ns := thread.Namespace()
	ns.SetBuiltin("math", math.Module(ns.Pool()))

	switch {
	case flag.NArg() == 1 || *execprog != "":
		var (
			filename string
			src      interface{}
		)
		if *execprog != "" {
			// Execute provided program.
			filename = "cmdline"
			src = *execprog
		} else {
			// Execute specified file.
			filename = flag.Arg(0)
		}
		if *showast {
			return printTree(os.Stdout, filename, src)
		}
		thread.Name = "exec " + filename
		err := pyrite.Exec(pyrite.ExecOptions{
			Thread:   thread,
			Filename: filename,
			Source:   src,
			Recover:  cfg.Recover,
		})
		if err != nil {
			if list, ok := err.(pyrite.ErrorList); ok {
				for _, e := range list {
					repl.PrintError(e)
				}
			} else {
				repl.PrintError(err)
			}
			return 1
		}
	case flag.NArg() == 0:
		if cfg.Banner != "" {
			fmt.Println(cfg.Banner)
		}
		thread.Name = "REPL"
		repl.REPL(thread, cfg.Prompt)
	default:
		logger.Error().Msg("want at most one Pyrite file name")
		return 1
	}

	// Print the global environment.
	if cfg.ShowEnv {
		data, err := proto.Marshal(thread, cfg.EnvFormat)
		if err != nil {
			logger.Error().Err(err).Msg("printing environment")
			return 1
		}
		os.Stderr.Write(data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			fmt.Fprintln(os.Stderr)
		}
	}

	return 0
}

// printTree prints the syntax tree of a file, one node per line,
// indented by depth.
func printTree(out io.Writer, filename string, src interface{}) int {
	f, err := syntax.Parse(filename, src, 0)
	if err != nil {
		repl.PrintError(err)
		return 1
	}
	depth := 0
	syntax.Walk(f, func(n syntax.Node) bool {
		if n == nil {
			depth--
			return true
		}
		kind := strings.TrimPrefix(fmt.Sprintf("%T", n), "*syntax.")
		fmt.Fprintf(out, "%s%s %s\n", strings.Repeat("  ", depth), kind, syntax.Start(n))
		depth++
		return true
	})
	return 0
}

func check(err error) {
	if err != nil {
		logger.Fatal().Err(err).Msg("pyrite")
	}
}
