// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for treediff's user
// configuration. The configuration is a YAML document named by the
// TREEDIFF_CFG_FILE environment variable or located in the user's
// configuration directory, typically:
//   - Linux: $XDG_CONFIG_HOME/treediff.yaml or $HOME/.config/treediff.yaml
//   - macOS: $HOME/Library/Application Support/treediff.yaml
//   - Windows: %APPDATA%/treediff.yaml
//
// A typical file:
//
//	colors:
//	  added: "#00ff00"
//	  removed: "#ff0000"
//	cache:
//	  clean: 168
//	diff:
//	  output: text
//	  quick: ["--filter", "type=changed"]
//	  paths: --attrs path --sort path
//
// Keys are dotted paths ("colors.added"). With a Namespace set, "output"
// resolves to "diff.output" before the top-level "output". A list or a
// single string under <command>.<name> expands an @name argument.
package config
