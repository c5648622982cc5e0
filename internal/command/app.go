// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/treediff/internal/config"
	"github.com/tfctl/treediff/internal/log"
	"github.com/tfctl/treediff/internal/meta"
)

// InitApp builds the root command. args[1], when it is not a flag, names the
// subcommand and is also the namespace used for config lookups.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()
	meta := meta.Meta{
		Args:        args,
		Context:     ctx,
		StartingDir: sd,
	}

	ns := meta.Command()
	cfg, err := config.Load()
	if err != nil {
		log.Debugf("config not loaded: err=%v", err)
	}
	cfg.Namespace = ns
	config.Config.Namespace = ns
	meta.Config = cfg

	app := &cli.Command{
		Name:  "treediff",
		Usage: "structural diffs and edit history for JSON, YAML and HCL documents",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "treediff version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		diffCommandBuilder(meta),
		editCommandBuilder(meta),
		replayCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
