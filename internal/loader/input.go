// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format names an input encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	HCL  Format = "hcl"
)

// Stdin is the input argument that reads from standard input.
const Stdin = "-"

var extensions = map[string]Format{
	".json":    JSON,
	".tfstate": JSON,
	".yaml":    YAML,
	".yml":     YAML,
	".hcl":     HCL,
	".tfvars":  HCL,
}

// Input is a parsed input argument.
type Input struct {
	Path   string
	Format Format
}

// IsStdin reports whether the input reads from standard input.
func (in Input) IsStdin() bool {
	return in.Path == Stdin
}

// ParseInput splits an argument into its path and format. A "::format"
// suffix wins over the extension. Relative paths are made absolute and the
// file must exist and not be a directory.
func ParseInput(arg string) (Input, error) {
	if arg == "" {
		return Input{}, os.ErrInvalid
	}

	path, explicit, _ := strings.Cut(arg, "::")

	var in Input
	if explicit != "" {
		f, err := ParseFormat(explicit)
		if err != nil {
			return Input{}, err
		}
		in.Format = f
	}

	if path == Stdin {
		in.Path = Stdin
		if in.Format == "" {
			in.Format = JSON
		}
		return in, nil
	}

	if in.Format == "" {
		f, ok := extensions[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return Input{}, fmt.Errorf("%w: cannot tell the format of %s, add ::json, ::yaml or ::hcl", ErrUnknownFormat, path)
		}
		in.Format = f
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return Input{}, err
		}
		path = filepath.Join(cwd, path)
	}

	if fi, err := os.Stat(path); err != nil {
		return Input{}, err
	} else if fi.IsDir() {
		return Input{}, fmt.Errorf("%s: %w", path, os.ErrInvalid)
	}

	in.Path = path
	return in, nil
}

// ParseFormat maps a format name, or one of its extensions, to a Format.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimPrefix(name, "."))
	switch name {
	case "json", "yaml", "hcl":
		return Format(name), nil
	}
	if f, ok := extensions["."+name]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, name)
}
