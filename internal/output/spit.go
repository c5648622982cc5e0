// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/treediff/internal/attrs"
	"github.com/tfctl/treediff/internal/config"
	"github.com/tfctl/treediff/internal/filters"
	"github.com/tfctl/treediff/internal/log"
	"github.com/tfctl/treediff/internal/snapshot"
)

// Options carries the presentation flags shared by every command.
type Options struct {
	// Format is one of text, json, yaml, raw or delta.
	Format  string
	Attrs   attrs.AttrList
	Filter  string
	Sort    string
	Color   bool
	Titles  bool
	Padding int
	Header  string
	Footer  string

	// PostProcess, when set, runs on the filtered and sorted rows before
	// they are rendered.
	PostProcess func([]map[string]interface{}) error
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom value for nil may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	switch value := value.(type) {
	case nil:
		return emptyValue[0]
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// SliceDiceSpit orchestrates filtering, transforming, sorting and rendering
// of a JSON array of rows according to opts. Output is written to w, or to
// os.Stdout when w is nil.
func SliceDiceSpit(raw []byte, opts Options, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	// If raw, just dump it and go home.
	if opts.Format == "raw" {
		_, err := fmt.Fprintln(w, string(raw))
		return err
	}

	fullDataset := gjson.ParseBytes(raw)

	// Filter out the rows we don't want first so the remaining steps work on
	// a smaller dataset.
	filteredDataset := filters.FilterDataset(fullDataset, opts.Attrs, opts.Filter)
	log.Debugf("rows: total=%d filtered=%d", len(fullDataset.Array()), len(filteredDataset))

	// Transform each value in each row. Absent values stay absent.
	for _, row := range filteredDataset {
		for _, attr := range opts.Attrs {
			if attr.TransformSpec == "" {
				continue
			}
			if v, ok := row[attr.OutputKey]; ok {
				row[attr.OutputKey] = attr.Transform(v)
			}
		}
	}

	SortDataset(filteredDataset, opts.Sort)

	if opts.PostProcess != nil {
		if err := opts.PostProcess(filteredDataset); err != nil {
			return fmt.Errorf("post process: %w", err)
		}
	}

	return Spit(filteredDataset, opts, w)
}

// Spit renders already filtered rows in the requested format.
func Spit(rows []map[string]interface{}, opts Options, w io.Writer) error {
	switch opts.Format {
	case "json":
		jsonOutput, err := json.Marshal(orderedRows(rows, opts.Attrs))
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonOutput))
		return err
	case "yaml":
		yamlOutput, err := yaml.Marshal(orderedRows(rows, opts.Attrs))
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}
		_, err = w.Write(yamlOutput)
		return err
	default:
		TableWriter(rows, opts, w)
		return nil
	}
}

// orderedRows rebuilds each row as a tree holding the included attributes in
// --attrs order, so json and yaml output keep the column order of the table.
func orderedRows(rows []map[string]interface{}, attrList attrs.AttrList) []*snapshot.Tree {
	out := make([]*snapshot.Tree, 0, len(rows))
	for _, row := range rows {
		b := snapshot.NewBuilder(len(attrList))
		for _, attr := range attrList {
			if !attr.Include {
				continue
			}
			if v, ok := row[attr.OutputKey]; ok {
				b.Add(attr.OutputKey, v)
			}
		}
		out = append(out, b.Tree())
	}
	return out
}

// TableWriter renders the result set in a tabular form honoring color,
// titles and padding options. Output is written to w. If w is nil, os.Stdout
// is used.
func TableWriter(resultSet []map[string]interface{}, opts Options, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	// We return early if there are no results to display.
	if len(resultSet) == 0 {
		return
	}

	// We initialize the table styles.
	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
		kindStyles   = map[string]lipgloss.Style{}
	)

	// And then color styles if --color is present.
	if opts.Color {
		p := getColors("colors")

		headerStyle = headerStyle.Foreground(p.title)
		evenRowStyle = evenRowStyle.Foreground(p.even)
		oddRowStyle = oddRowStyle.Foreground(p.odd)
		for kind, c := range p.kinds {
			kindStyles[kind] = cellStyle.Foreground(c)
		}
	}

	// We build the table rows from the result set. Absent values print as
	// "-", null as "null".
	var rows [][]string
	var kinds []string
	for _, result := range resultSet {
		row := make([]string, 0, len(result))
		for _, attr := range opts.Attrs {
			if !attr.Include {
				continue
			}
			row = append(row, cell(result, attr.OutputKey))
		}
		rows = append(rows, row)
		kind, _ := result["type"].(string)
		kinds = append(kinds, kind)
	}

	if opts.Header != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Header))
	}

	pad := opts.Padding
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var kindStyle lipgloss.Style
			var hasKind bool
			if row >= 0 && row < len(kinds) {
				kindStyle, hasKind = kindStyles[kinds[row]]
			}

			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case hasKind:
				style = kindStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	// We add column headers if titles are enabled.
	if opts.Titles {
		var headers []string
		for _, attr := range opts.Attrs {
			if attr.Include {
				headers = append(headers, attr.OutputKey)
			}
		}

		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)

	if opts.Footer != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Footer))
	}
}

func cell(row map[string]interface{}, key string) string {
	v, ok := row[key]
	if !ok {
		return "-"
	}
	if s, ok := v.(string); ok && s == "" {
		return `""`
	}
	return InterfaceToString(v, "null")
}

type palette struct {
	title, even, odd color.Color
	kinds            map[string]color.Color
}

// getColors returns configured color values for table rendering. Each color is
// selected based on terminal background color and brightness so that we can
// make sure output is reasonably visible for all(?) terminal themes.
func getColors(key string) palette {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	// Use the explicit color if found in the config and leave it up to the user
	// to choose appropriate colors for their theme. If not found, pick a
	// reasonable default based on terminal background.
	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil && colorCfg != "" {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	return palette{
		title: resolveColor(key+".title", "#b08800", "#f6be00"),
		even:  resolveColor(key+".even", "#333333", "#ffffff"),
		odd:   resolveColor(key+".odd", "#0088a0", "#00c8f0"),
		kinds: map[string]color.Color{
			"added":   resolveColor(key+".added", "#1a7f37", "#3fb950"),
			"removed": resolveColor(key+".removed", "#cf222e", "#f85149"),
			"changed": resolveColor(key+".changed", "#9a6700", "#d29922"),
		},
	}
}
