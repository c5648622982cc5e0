// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/tfctl/treediff/internal/log"
	"github.com/tfctl/treediff/internal/snapshot"
)

var (
	// ErrNotFound is returned by the getters for a key that is absent both
	// inside the namespace and at the top level.
	ErrNotFound = errors.New("config key not found")

	// ErrWrongType is returned when a key exists with a value of another kind.
	ErrWrongType = errors.New("config value has the wrong type")
)

// Type is the loaded configuration. Data is the file decoded as a snapshot
// tree, so keys keep the file's order and numbers are float64. Namespace,
// usually the command name, makes "output" resolve to "diff.output" first.
type Type struct {
	Source    string
	Namespace string
	Data      *snapshot.Tree
}

// Config is the process-wide configuration.
var Config Type

const (
	// EnvFile names the environment variable holding an explicit config path.
	EnvFile = "TREEDIFF_CFG_FILE"

	// FileName is the config file looked for in os.UserConfigDir.
	FileName = "treediff.yaml"
)

// A missing config file is normal; getters retry the load lazily.
func init() {
	_, _ = Load()
}

// GetInt returns the integer at key. Fractions are truncated.
func GetInt(key string, defaultValue ...int) (int, error) {
	return get(key, defaultValue, func(v any) (int, bool) {
		f, ok := v.(float64)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int(f), true
	})
}

// GetBool returns the boolean at key.
func GetBool(key string, defaultValue ...bool) (bool, error) {
	return get(key, defaultValue, func(v any) (bool, bool) {
		b, ok := v.(bool)
		return b, ok
	})
}

// GetString returns the string at key.
func GetString(key string, defaultValue ...string) (string, error) {
	return get(key, defaultValue, func(v any) (string, bool) {
		s, ok := v.(string)
		return s, ok
	})
}

// GetStringSlice returns the list of strings at key. A scalar string is a
// one-element list.
func GetStringSlice(key string, defaultValue ...[]string) ([]string, error) {
	return get(key, defaultValue, func(v any) ([]string, bool) {
		switch v := v.(type) {
		case string:
			return []string{v}, true
		case []any:
			out := make([]string, len(v))
			for i, e := range v {
				s, ok := e.(string)
				if !ok {
					return nil, false
				}
				out[i] = s
			}
			return out, true
		}
		return nil, false
	})
}

// get resolves key in Config and converts it. A single default replaces a
// missing key; a present value of the wrong kind is always an error.
func get[T any](key string, defaults []T, convert func(any) (T, bool)) (T, error) {
	var zero T

	if Config.Data.Len() == 0 {
		if loaded, err := Load(Config.Source); err == nil {
			loaded.Namespace = Config.Namespace
			Config = loaded
		}
	}

	raw, err := Config.Lookup(key)
	if err != nil {
		if len(defaults) == 1 {
			return defaults[0], nil
		}
		return zero, err
	}

	v, ok := convert(raw)
	if !ok {
		return zero, fmt.Errorf("%s: %w (%T)", key, ErrWrongType, raw)
	}
	return v, nil
}

// Lookup returns the raw value at the dotted key, trying the namespaced key
// first.
func (cfg *Type) Lookup(key string) (any, error) {
	candidates := []string{key}
	if cfg.Namespace != "" {
		candidates = []string{cfg.Namespace + snapshot.PathSeparator + key, key}
	}

	for _, k := range candidates {
		if v, ok := cfg.Data.Lookup(k); ok && k != "" {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrNotFound, candidates)
}

// Load reads the YAML configuration into Config. A non-empty cfgFilePath wins
// over TREEDIFF_CFG_FILE and the user config directory.
func Load(cfgFilePath ...string) (Type, error) {
	var (
		path string
		err  error
	)
	if len(cfgFilePath) > 0 && cfgFilePath[0] != "" {
		path = cfgFilePath[0]
	} else if path, err = getConfigFile(); err != nil {
		return Type{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Type{}, err
	}

	doc, err := snapshot.ParseYAML(data)
	if err != nil {
		return Type{}, fmt.Errorf("%s: %w", path, err)
	}
	tree, ok := doc.(*snapshot.Tree)
	if !ok {
		return Type{}, fmt.Errorf("%s: top level must be a mapping", path)
	}

	Config = Type{Source: path, Data: tree}
	log.Debugf("loaded config %s: keys=%v", path, tree.Keys())
	return Config, nil
}

// getConfigFile returns TREEDIFF_CFG_FILE when set, else treediff.yaml in
// os.UserConfigDir. The file must exist and not be a directory.
func getConfigFile() (string, error) {
	if cfgPath := os.Getenv(EnvFile); cfgPath != "" {
		info, err := os.Stat(cfgPath)
		if err != nil {
			return "", fmt.Errorf("config file not found at %s path: %s", EnvFile, cfgPath)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%s points to a directory: %s", EnvFile, cfgPath)
		}
		return cfgPath, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	file := filepath.Join(dir, FileName)
	if info, err := os.Stat(file); err == nil && !info.IsDir() {
		return file, nil
	}
	return "", errors.New("no config file found in standard locations")
}
