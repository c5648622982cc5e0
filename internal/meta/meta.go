// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/tfctl/treediff/internal/config"
)

// Meta is the per-invocation state every command receives through its
// Metadata: the processed arguments, the loaded configuration and the
// directory treediff was started in.
type Meta struct {
	Args        []string
	Config      config.Type
	Context     context.Context
	StartingDir string
}

// Command returns the subcommand name, or "" when the first argument is a
// flag or missing.
func (m Meta) Command() string {
	if len(m.Args) < 2 || strings.HasPrefix(m.Args[1], "-") {
		return ""
	}
	return m.Args[1]
}

// Resolve makes a relative input path absolute against StartingDir. "-" and
// absolute paths are returned as is.
func (m Meta) Resolve(path string) string {
	if path == "-" || path == "" || filepath.IsAbs(path) || m.StartingDir == "" {
		return path
	}
	return filepath.Join(m.StartingDir, path)
}
