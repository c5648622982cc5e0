// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/treediff/internal/attrs"
)

// OutputFormats lists the values accepted by --output.
var OutputFormats = []string{"text", "json", "yaml", "raw", "delta"}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator rejects a malformed --attrs spec before any input is
// read.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if spec := c.String("attrs"); spec != "" {
		var al attrs.AttrList
		if err := al.Set(spec); err != nil {
			return fmt.Errorf("--attrs: %w", err)
		}
	}
	return nil
}

func OutputValidator(value any) error {
	s, _ := value.(string)
	if !slices.Contains(OutputFormats, s) {
		return fmt.Errorf("must be one of %v", OutputFormats)
	}
	return nil
}

func PaddingValidator(value any) error {
	if n, ok := value.(int); !ok || n < 0 {
		return fmt.Errorf("must be a non-negative number")
	}
	return nil
}
