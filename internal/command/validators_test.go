// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputValidator(t *testing.T) {
	for _, format := range OutputFormats {
		assert.NoError(t, OutputValidator(format), format)
	}
	assert.Error(t, OutputValidator("csv"))
	assert.Error(t, OutputValidator(""))
	assert.Error(t, OutputValidator(1))
}

func TestPaddingValidator(t *testing.T) {
	assert.NoError(t, PaddingValidator(0))
	assert.NoError(t, PaddingValidator(4))
	assert.Error(t, PaddingValidator(-1))
	assert.Error(t, PaddingValidator("2"))
}

func TestFlagValidators_StopsAtFirstError(t *testing.T) {
	calls := 0
	counting := func(any) error {
		calls++
		return nil
	}

	assert.NoError(t, FlagValidators("json", counting, OutputValidator, counting))
	assert.Equal(t, 2, calls)

	calls = 0
	assert.Error(t, FlagValidators("csv", OutputValidator, counting))
	assert.Equal(t, 0, calls)
}

func TestCompletionCommand(t *testing.T) {
	out, err := runApp(t, "completion", "bash")
	assert.NoError(t, err)
	assert.Contains(t, out, "complete -o filenames -F _treediff treediff")

	out, err = runApp(t, "completion", "zsh")
	assert.NoError(t, err)
	assert.Contains(t, out, "#compdef treediff")
}
