// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/treediff/internal/attrs"
	"github.com/tfctl/treediff/internal/differ"
	"github.com/tfctl/treediff/internal/log"
	"github.com/tfctl/treediff/internal/meta"
	"github.com/tfctl/treediff/internal/output"
)

// diffCommandAction is the action handler for the "diff" subcommand. It loads
// both documents, diffs them and emits the changes per common flags. A root
// that is not an object diffs as an object with no keys.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if err := requireArgs(cmd, 2); err != nil {
		return err
	}

	prev, err := LoadInputValue(cmd, cmd.Args().Get(0))
	if err != nil {
		return err
	}
	next, err := LoadInputValue(cmd, cmd.Args().Get(1))
	if err != nil {
		return err
	}

	result := differ.Diff(prev, next)
	log.Debugf("diff: %s", result.Summary())

	w := cmdWriter(cmd)
	if cmd.Bool("summary") {
		_, err = fmt.Fprintln(w, result.Summary())
		return err
	}

	al, err := BuildAttrs(cmd, attrs.DefaultSpec)
	if err != nil {
		return err
	}

	opts := NewOutputOptions(cmd, al)
	if opts.Titles {
		opts.Footer = "\n" + result.Summary()
	}
	if cmd.Bool("chop") {
		opts.PostProcess = func(dataset []map[string]interface{}) error {
			chopPrefix(dataset, "path")
			return nil
		}
	}

	return output.Render(w, prev, next, result, opts)
}

// diffCommandBuilder constructs the cli.Command for "diff", wiring metadata,
// flags, and action/validator handlers.
func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "show the structural differences between two documents",
		UsageText: "treediff diff PREV NEXT [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "chop",
				Usage: "chop the common prefix from changed paths",
				Value: false,
			},
			&cli.BoolFlag{
				Name:  "summary",
				Usage: "only print the number of changes of each kind",
				Value: false,
			},
			NewPassphraseFlag(),
		}, NewGlobalFlags("diff")...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, cmd)
		},
		Action: diffCommandAction,
	}
}

// chopPrefix scans dot-delimited string values in the dataset and removes
// leading segments that are identical across all entries. Starting from
// the left, it removes each segment that matches in all entries, then
// stops when it encounters a position where segments differ. Removed
// segments are replaced with "..". When keys are given only those columns
// are considered.
func chopPrefix(dataset []map[string]interface{}, keys ...string) {
	if len(dataset) == 0 {
		return
	}

	type segmentedValue struct {
		entryIdx int
		segments []string
	}

	keyValues := make(map[string][]segmentedValue)

	for entryIdx, entry := range dataset {
		for key, val := range entry {
			if len(keys) > 0 && !slices.Contains(keys, key) {
				continue
			}
			if str, ok := val.(string); ok {
				segments := strings.Split(str, ".")
				keyValues[key] = append(keyValues[key], segmentedValue{entryIdx: entryIdx, segments: segments})
			}
		}
	}

	for key, values := range keyValues {
		if len(values) == 0 {
			continue
		}

		// Find common leading segments for this key.
		var commonCount int
		for segIdx := 0; ; segIdx++ {
			if segIdx >= len(values[0].segments) {
				break
			}

			expectedSeg := values[0].segments[segIdx]

			allMatch := true
			for _, val := range values {
				if segIdx >= len(val.segments) || val.segments[segIdx] != expectedSeg {
					allMatch = false
					break
				}
			}

			if !allMatch {
				break
			}

			commonCount++
		}

		// Need at least 2 common segments to be worth chopping.
		if commonCount < 2 {
			continue
		}

		// Never chop past the second-to-last segment. Ensure at least 2
		// segments remain in all values after chopping.
		minSegments := len(values[0].segments)
		for _, val := range values {
			if len(val.segments) < minSegments {
				minSegments = len(val.segments)
			}
		}
		maxChop := minSegments - 2
		if maxChop < 2 {
			continue
		}
		if commonCount > maxChop {
			commonCount = maxChop
		}

		prefixSegs := values[0].segments[:commonCount]
		prefixToRemove := strings.Join(prefixSegs, ".") + "."

		for _, val := range values {
			originalValue := strings.Join(val.segments, ".")
			if strings.HasPrefix(originalValue, prefixToRemove) {
				dataset[val.entryIdx][key] = ".." + originalValue[len(prefixToRemove):]
			}
		}
	}
}
