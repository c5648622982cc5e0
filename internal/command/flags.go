// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/treediff/internal/config"
)

// EnvPassphrase supplies the passphrase for encrypted state inputs.
const EnvPassphrase = "TREEDIFF_PASSPHRASE"

// NewPassphraseFlag constructs the --passphrase flag used by every command
// that loads documents.
func NewPassphraseFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "passphrase",
		Aliases: []string{"p"},
		Usage:   "passphrase for encrypted OpenTofu state inputs",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar(EnvPassphrase),
		),
	}
}

// NewGlobalFlags returns the presentation flags shared by commands that
// render rows. params[0], when given, is the command namespace used to look
// up flag defaults in the config file.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	ns := ""
	if len(params) > 0 {
		ns = params[0]
	}

	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
			Sources: configChain(ns, "color", cli.ValueSourceChain{}),
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text, json, yaml, raw, delta)",
			Value:   "text",
			Sources: configChain(ns, "output", cli.ValueSourceChain{}),
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.IntFlag{
			Name:    "padding",
			Usage:   "spaces between text columns",
			Value:   2,
			Sources: configChain(ns, "padding", cli.ValueSourceChain{}),
			Validator: func(value int) error {
				return FlagValidators(value, PaddingValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
			Sources: configChain(ns, "titles", cli.ValueSourceChain{}),
		},
	}

	return
}

// configChain appends the loaded config file, namespaced key first, to chain.
// Without a config file the chain is returned as is.
func configChain(ns, name string, chain cli.ValueSourceChain) cli.ValueSourceChain {
	path := config.Config.Source
	if path == "" {
		return chain
	}
	if ns != "" {
		chain.Chain = append(chain.Chain, yaml.YAML(ns+"."+name, altsrc.StringSourcer(path)))
	}
	chain.Chain = append(chain.Chain, yaml.YAML(name, altsrc.StringSourcer(path)))
	return chain
}
