// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/treediff/internal/differ"
	"github.com/tfctl/treediff/internal/log"
	"github.com/tfctl/treediff/internal/meta"
	"github.com/tfctl/treediff/internal/output"
	"github.com/tfctl/treediff/internal/session"
)

// replayDefaultAttrs specifies the default columns of the step table.
var replayDefaultAttrs = []string{"step", "op", "pointer", "length", "changes", "size"}

// replayRow is one step of the replay as rendered by the output pipeline.
type replayRow struct {
	Step    int           `json:"step"`
	Op      string        `json:"op"`
	Pointer int           `json:"pointer"`
	Length  int           `json:"length"`
	Changes int           `json:"changes"`
	Size    string        `json:"size"`
	Diff    differ.Result `json:"diff"`
}

// replayCommandAction is the action handler for the "replay" subcommand. It
// runs a script of edits through a session and emits one row per step.
func replayCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if err := requireArgs(cmd, 2); err != nil {
		return err
	}

	initial, err := LoadInput(cmd, cmd.Args().Get(0))
	if err != nil {
		return err
	}

	ops, err := readScript(cmd, cmd.Args().Get(1))
	if err != nil {
		return err
	}

	s := session.New(initial)
	defer s.Close()

	// Steps taken before a failure are still shown.
	steps, runErr := s.Run(ops)

	rows := make([]replayRow, 0, len(steps))
	for _, st := range steps {
		diff := st.Diff
		if diff == nil {
			diff = differ.Result{}
		}
		rows = append(rows, replayRow{
			Step:    st.Index,
			Op:      st.Op,
			Pointer: st.Pointer,
			Length:  st.Length,
			Changes: len(diff),
			Size:    st.Size(),
			Diff:    diff,
		})
	}

	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal steps: %w", err)
	}

	verbose := cmd.Bool("verbose")
	defaults := replayDefaultAttrs
	if verbose && cmd.String("output") != "text" {
		defaults = append(slices.Clone(defaults), "diff")
	}

	al, err := BuildAttrs(cmd, defaults...)
	if err != nil {
		return err
	}

	opts := NewOutputOptions(cmd, al)
	if opts.Titles {
		opts.Footer = "\n" + s.Status()
	}

	w := cmdWriter(cmd)
	if err := output.SliceDiceSpit(raw, opts, w); err != nil {
		return err
	}

	if verbose && opts.Format == "text" {
		writeStepDiffs(w, steps)
	}

	if cmd.Bool("final") {
		fmt.Fprintln(w, s.Value().String())
	}

	return runErr
}

// writeStepDiffs prints the changes made by each step, one per line.
func writeStepDiffs(w io.Writer, steps []session.Step) {
	for _, st := range steps {
		if len(st.Diff) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%d: %s\n", st.Index, st.Op)
		for _, c := range st.Diff {
			fmt.Fprintf(w, "  %s\n", output.FormatChange(c))
		}
	}
}

// readScript parses the script named by arg; "-" reads stdin.
func readScript(cmd *cli.Command, arg string) ([]session.Op, error) {
	if arg == "-" {
		return session.ParseScript(cmdReader(cmd))
	}

	f, err := os.Open(resolvePath(cmd, arg))
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	ops, err := session.ParseScript(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", arg, err)
	}
	return ops, nil
}

// replayCommandBuilder constructs the cli.Command for "replay", wiring
// metadata, flags, and action/validator handlers.
func replayCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Usage:     "apply a script of edits and show each step",
		UsageText: "treediff replay INITIAL SCRIPT [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "final",
				Usage: "print the final document as JSON",
				Value: false,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "include the changes made by each step",
				Value: false,
			},
			NewPassphraseFlag(),
		}, NewGlobalFlags("replay")...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, cmd)
		},
		Action: replayCommandAction,
	}
}
