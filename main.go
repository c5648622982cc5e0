// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tfctl/treediff/internal/command"
	"github.com/tfctl/treediff/internal/config"
	"github.com/tfctl/treediff/internal/log"
	"github.com/tfctl/treediff/internal/version"
)

var ctx = context.Background()

// boolFlags never take a value, so the token after them is left alone when
// duplicate flags are collapsed.
var boolFlags = map[string]bool{
	"--chop": true, "--color": true, "-c": true, "--final": true,
	"--help": true, "-h": true, "--summary": true, "--titles": true,
	"-t": true, "--verbose": true,
}

// valueFlags always take the next token, even one that starts with "-", as
// in --sort -path.
var valueFlags = map[string]bool{
	"--attrs": true, "-a": true, "--filter": true, "-f": true,
	"--output": true, "-o": true, "--padding": true, "--passphrase": true,
	"-p": true, "--print": true, "--sort": true, "-s": true,
}

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.String())
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	if len(args) > 1 && args[1] == "completion" {
		// Short-circuit completion: pass args directly.
		return args
	}

	args = processSetOnly(args)
	log.Debugf("args after set processing: args=%v", args)

	args = deduplicateFlags(args)
	log.Debugf("args after dedupe: args=%v", args)
	return args
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}

// processSetOnly expands the first @set argument into the flags stored under
// "<command>.<set>" in the config file.
func processSetOnly(args []string) []string {
	for idx := 2; idx < len(args); idx++ {
		a := args[idx]
		if !strings.HasPrefix(a, "@") || len(a) == 1 {
			continue
		}

		entries, err := config.GetStringSlice(args[1] + "." + a[1:])
		if err != nil {
			log.Warnf("set %s not found: %v", a, err)
		}

		without := append(append([]string{}, args[:idx]...), args[idx+1:]...)
		return injectConfigSet(without, entries, idx)
	}
	return args
}

// injectConfigSet splits each entry on whitespace and inserts the fields into
// args at insertIdx.
func injectConfigSet(args []string, entries []string, insertIdx int) []string {
	if len(entries) == 0 {
		return args
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, strings.Fields(entry)...)
	}

	out := make([]string, 0, len(args)+len(expanded))
	out = append(out, args[:insertIdx]...)
	out = append(out, expanded...)
	return append(out, args[insertIdx:]...)
}

// deduplicateFlags collapses repeated flags after the command so the last
// occurrence wins, which lets command line flags override @set expansions.
// A flag takes the following token as its value unless it uses "=", is a
// known boolean flag or the next token is itself an unknown flag. Positional
// arguments keep their place.
func deduplicateFlags(args []string) []string {
	if len(args) == 0 {
		return []string{}
	}
	if len(args) <= 2 {
		return args
	}

	type group struct {
		key    string
		tokens []string
	}

	var groups []group
	rest := args[2:]
	for i := 0; i < len(rest); i++ {
		tok := rest[i]
		if !strings.HasPrefix(tok, "-") || tok == "-" || tok == "--" {
			groups = append(groups, group{tokens: []string{tok}})
			continue
		}

		name, _, hasValue := strings.Cut(tok, "=")
		g := group{key: name, tokens: []string{tok}}
		if !hasValue && !boolFlags[name] && i+1 < len(rest) && (valueFlags[name] || !strings.HasPrefix(rest[i+1], "-")) {
			g.tokens = append(g.tokens, rest[i+1])
			i++
		}
		groups = append(groups, g)
	}

	last := map[string]int{}
	for i, g := range groups {
		if g.key != "" {
			last[g.key] = i
		}
	}

	out := append([]string{}, args[:2]...)
	for i, g := range groups {
		if g.key != "" && last[g.key] != i {
			continue
		}
		out = append(out, g.tokens...)
	}
	return out
}
