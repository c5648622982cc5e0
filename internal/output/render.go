// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tfctl/treediff/internal/differ"
	"github.com/tfctl/treediff/internal/snapshot"
)

// NoChanges is printed in text mode for an empty result.
const NoChanges = "No changes"

// Render writes the diff between prev and next. result must be
// differ.Diff(prev, next); prev and next are only needed by the delta format.
func Render(w io.Writer, prev, next any, result differ.Result, opts Options) error {
	if w == nil {
		w = os.Stdout
	}

	switch opts.Format {
	case "delta":
		out, err := differ.Delta(prev, next, opts.Color)
		if err != nil {
			return err
		}
		if out == "" {
			out = NoChanges + "\n"
		}
		_, err = io.WriteString(w, out)
		return err
	case "", "text":
		if result.Empty() {
			_, err := fmt.Fprintln(w, NoChanges)
			return err
		}
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal diff: %w", err)
	}
	return SliceDiceSpit(raw, opts, w)
}

// FormatChange renders one change as a line of prose, e.g.
// `artwork.city changed from "Hamburg" to "Lagos"`.
func FormatChange(c differ.Change) string {
	switch c.Kind {
	case differ.Added:
		return fmt.Sprintf("%s added = %s", c.Path, formatValue(c.Next))
	case differ.Removed:
		return fmt.Sprintf("%s removed (was %s)", c.Path, formatValue(c.Prev))
	default:
		return fmt.Sprintf("%s changed from %s to %s", c.Path, formatValue(c.Prev), formatValue(c.Next))
	}
}

// formatValue quotes strings and prints everything else as JSON.
func formatValue(v any) string {
	b, err := snapshot.Canonical(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
