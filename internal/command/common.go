// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/treediff/internal/attrs"
	"github.com/tfctl/treediff/internal/loader"
	"github.com/tfctl/treediff/internal/meta"
	"github.com/tfctl/treediff/internal/output"
	"github.com/tfctl/treediff/internal/snapshot"
)

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList, err error) {
	for _, d := range defaults {
		if err = al.Set(d); err != nil {
			return nil, err
		}
	}
	if extras := cmd.String("attrs"); extras != "" {
		if err = al.Set(extras); err != nil {
			return nil, err
		}
	}
	err = al.SetGlobalTransformSpec()
	return
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// NewOutputOptions collects the global presentation flags.
func NewOutputOptions(cmd *cli.Command, al attrs.AttrList) output.Options {
	return output.Options{
		Format:  cmd.String("output"),
		Attrs:   al,
		Filter:  cmd.String("filter"),
		Sort:    cmd.String("sort"),
		Color:   cmd.Bool("color"),
		Titles:  cmd.Bool("titles"),
		Padding: cmd.Int("padding"),
	}
}

// LoadInput loads one document argument whose root must be an object.
// Relative paths are resolved against the directory treediff was started from.
func LoadInput(cmd *cli.Command, arg string) (*snapshot.Tree, error) {
	return loader.Load(resolveInput(cmd, arg), loaderOptions(cmd))
}

// LoadInputValue is LoadInput for documents whose root may be any value.
func LoadInputValue(cmd *cli.Command, arg string) (any, error) {
	return loader.LoadValue(resolveInput(cmd, arg), loaderOptions(cmd))
}

func resolveInput(cmd *cli.Command, arg string) string {
	if path, format, found := strings.Cut(arg, "::"); path != loader.Stdin {
		arg = resolvePath(cmd, path)
		if found {
			arg += "::" + format
		}
	}
	return arg
}

func loaderOptions(cmd *cli.Command) loader.Options {
	return loader.Options{
		Passphrase: cmd.String("passphrase"),
		Prompt:     GetPassphrase,
		Stdin:      cmdReader(cmd),
	}
}

// resolvePath makes a relative path absolute against the starting directory.
func resolvePath(cmd *cli.Command, path string) string {
	return GetMeta(cmd).Resolve(path)
}

// cmdWriter is where command output goes.
func cmdWriter(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// cmdReader is the "-" input.
func cmdReader(cmd *cli.Command) io.Reader {
	if root := cmd.Root(); root != nil && root.Reader != nil {
		return root.Reader
	}
	return os.Stdin
}

// requireArgs checks the positional argument count.
func requireArgs(cmd *cli.Command, n int) error {
	if got := cmd.NArg(); got != n {
		return fmt.Errorf("%s: expected %d arguments, got %d\nusage: %s", cmd.Name, n, got, cmd.UsageText)
	}
	return nil
}
