// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// ErrNoTerminal is returned when a passphrase is needed but stdin cannot
// prompt for one.
var ErrNoTerminal = errors.New("stdin is not a terminal, use --passphrase or " + EnvPassphrase)

// GetPassphrase prompts on stderr and reads a passphrase from the terminal
// without echo.
func GetPassphrase() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNoTerminal
	}

	fmt.Fprint(os.Stderr, "Enter passphrase: ")
	defer fmt.Fprintln(os.Stderr)

	password, err := term.ReadPassword(fd)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return string(password), nil
}
