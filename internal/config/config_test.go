// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/oarkflow/log"
)

func TestLoad(t *testing.T) {
	for _, test := range []struct {
		path string
		want *Config
	}{
		{"", Default()},
		{"testdata/partial.yaml", &Config{
			Recover:   true,
			Prompt:    ">>> ",
			Banner:    "Welcome to Pyrite (go.pyrite.dev)",
			EnvFormat: "text",
			LogLevel:  "warn",
		}},
		{"testdata/full.yaml", &Config{
			Recover:   true,
			Prompt:    "pyr> ",
			Banner:    "",
			ShowEnv:   true,
			EnvFormat: "json",
			LogLevel:  "debug",
			MaxDepth:  50,
		}},
	} {
		got, err := Load(test.path)
		if err != nil {
			t.Errorf("Load(%q): %v", test.path, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Load(%q) (-want +got):\n%s", test.path, diff)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	for _, test := range []struct{ path, want string }{
		{"testdata/badformat.yaml", `unknown env_format "xml"`},
		{"testdata/missing.yaml", "no such file"},
	} {
		_, err := Load(test.path)
		if err == nil || !strings.Contains(err.Error(), test.want) {
			t.Errorf("Load(%q) = %v, want error containing %q", test.path, err, test.want)
		}
	}
}

func TestLevel(t *testing.T) {
	cfg := Default()
	for name, want := range map[string]log.Level{
		"":      log.WarnLevel,
		"DEBUG": log.DebugLevel,
		"info":  log.InfoLevel,
		"error": log.ErrorLevel,
	} {
		cfg.LogLevel = name
		if got, err := cfg.Level(); err != nil || got != want {
			t.Errorf("Level(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	cfg.LogLevel = "loud"
	if _, err := cfg.Level(); err == nil {
		t.Errorf("Level(loud) succeeded")
	}
}
