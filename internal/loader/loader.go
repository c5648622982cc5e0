// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"

	"github.com/tfctl/treediff/internal/log"
	"github.com/tfctl/treediff/internal/snapshot"
)

var (
	// ErrUnknownFormat is returned for inputs whose encoding cannot be
	// determined.
	ErrUnknownFormat = errors.New("unknown input format")

	// ErrNotObject is returned when a document's root is not an object.
	ErrNotObject = errors.New("document root is not an object")

	// ErrInvalidState is returned for encrypted state with a malformed
	// envelope.
	ErrInvalidState = errors.New("invalid encrypted state")
)

// Options controls Load.
type Options struct {
	// Passphrase decrypts encrypted OpenTofu state.
	Passphrase string

	// Prompt is asked for a passphrase when one is needed and Passphrase is
	// empty.
	Prompt func() (string, error)

	// Stdin replaces os.Stdin for the "-" input.
	Stdin io.Reader
}

// Load reads and decodes the input named by arg. The document root must be an
// object.
func Load(arg string, opts Options) (*snapshot.Tree, error) {
	v, err := LoadValue(arg, opts)
	if err != nil {
		return nil, err
	}
	t, ok := v.(*snapshot.Tree)
	if !ok {
		return nil, fmt.Errorf("%s: %w", arg, ErrNotObject)
	}
	return t, nil
}

// LoadValue is Load for documents whose root may be any value: a list, a
// scalar or null.
func LoadValue(arg string, opts Options) (any, error) {
	log.Debugf(">> LoadValue(%s)", arg)

	in, err := ParseInput(arg)
	if err != nil {
		return nil, err
	}

	var data []byte
	if in.IsStdin() {
		r := opts.Stdin
		if r == nil {
			r = os.Stdin
		}
		data, err = io.ReadAll(r)
	} else {
		data, err = os.ReadFile(in.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", arg, err)
	}
	log.Debugf("read %d bytes from %s as %s", len(data), in.Path, in.Format)

	v, err := DecodeValue(data, in.Format, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", arg, err)
	}
	return v, nil
}

// Decode turns data of the given format into a tree.
func Decode(data []byte, format Format, opts Options) (*snapshot.Tree, error) {
	v, err := DecodeValue(data, format, opts)
	if err != nil {
		return nil, err
	}
	t, ok := v.(*snapshot.Tree)
	if !ok {
		return nil, ErrNotObject
	}
	return t, nil
}

// DecodeValue turns data of the given format into a snapshot value.
func DecodeValue(data []byte, format Format, opts Options) (any, error) {
	var (
		v   any
		err error
	)

	switch format {
	case JSON:
		if gjson.GetBytes(data, "encrypted_data").Exists() {
			if data, err = decrypt(data, opts); err != nil {
				return nil, err
			}
		}
		v, err = snapshot.ParseJSON(data)
	case YAML:
		v, err = snapshot.ParseYAML(data)
	case HCL:
		v, err = parseHCL(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func decrypt(data []byte, opts Options) ([]byte, error) {
	passphrase := opts.Passphrase
	if passphrase == "" && opts.Prompt != nil {
		var err error
		if passphrase, err = opts.Prompt(); err != nil {
			return nil, err
		}
	}
	if passphrase == "" {
		return nil, errors.New("state is encrypted and no passphrase was given")
	}

	plain, err := DecryptOpenTofuState(data, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plain, nil
}
