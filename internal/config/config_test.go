// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestConfig points TREEDIFF_CFG_FILE at a testdata file and resets the
// global Config.
func setupTestConfig(t *testing.T, testdataFile string) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	require.NoError(t, err)

	t.Setenv(EnvFile, absPath)
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })
}

func withConfig(t *testing.T, testFile string, fn func(t *testing.T)) {
	t.Helper()
	setupTestConfig(t, testFile)
	_, _ = Load()
	fn(t)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		wantErr   bool
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple values",
			testFile: "simple.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Equal(t, []string{"output", "padding", "color"}, cfg.Data.Keys())
				v, _ := cfg.Data.Get("padding")
				assert.Equal(t, float64(2), v)
			},
		},
		{
			name:     "nested structure",
			testFile: "nested.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				v, ok := cfg.Data.Lookup("colors.added")
				require.True(t, ok)
				assert.Equal(t, "#00ff00", v)
				assert.Equal(t, []string{"colors", "diff", "replay"}, cfg.Data.Keys(), "file order is kept")
			},
		},
		{
			name:     "mixed types",
			testFile: "mixed-types.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				for key, want := range map[string]any{
					"version": float64(1),
					"verbose": true,
					"width":   80.5,
					"tags":    []any{"bronze", "stone"},
				} {
					got, ok := cfg.Data.Get(key)
					assert.True(t, ok, key)
					assert.Equal(t, want, got, key)
				}
			},
		},
		{
			name:     "empty file",
			testFile: "empty.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Equal(t, 0, cfg.Data.Len())
			},
		},
		{
			name:     "invalid yaml",
			testFile: "invalid.yaml",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Setenv(EnvFile, "/nonexistent/treediff.yaml")
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })

	cfg, err := Load(filepath.Join("testdata", "simple.yaml"))
	require.NoError(t, err)
	v, _ := cfg.Data.Get("output")
	assert.Equal(t, "yaml", v)
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv(EnvFile, "/nonexistent/path/treediff.yaml")
	Config = Type{}

	_, err := Load()
	assert.ErrorContains(t, err, "config file not found")
}

func TestLoad_CfgFileIsDirectory(t *testing.T) {
	t.Setenv(EnvFile, "testdata")
	Config = Type{}

	_, err := Load()
	assert.ErrorContains(t, err, "points to a directory")
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []string
		want         string
		wantErr      bool
	}{
		{name: "simple", testFile: "simple.yaml", key: "output", want: "yaml"},
		{name: "nested", testFile: "nested.yaml", key: "colors.removed", want: "#ff0000"},
		{name: "missing with default", testFile: "simple.yaml", key: "missing", defaultValue: []string{"text"}, want: "text"},
		{name: "missing without default", testFile: "simple.yaml", key: "missing", wantErr: true},
		{name: "multiple defaults", testFile: "simple.yaml", key: "missing", defaultValue: []string{"a", "b"}, wantErr: true},
		{name: "non-string", testFile: "mixed-types.yaml", key: "version", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withConfig(t, tt.testFile, func(t *testing.T) {
				got, err := GetString(tt.key, tt.defaultValue...)
				if tt.wantErr {
					assert.Error(t, err)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		})
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []int
		want         int
		wantErr      bool
	}{
		{name: "int", testFile: "simple.yaml", key: "padding", want: 2},
		{name: "float truncated", testFile: "mixed-types.yaml", key: "width", want: 80},
		{name: "nested", testFile: "nested.yaml", key: "diff.padding", want: 3},
		{name: "missing with default", testFile: "simple.yaml", key: "missing", defaultValue: []int{60}, want: 60},
		{name: "missing without default", testFile: "simple.yaml", key: "missing", wantErr: true},
		{name: "non-int", testFile: "simple.yaml", key: "output", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withConfig(t, tt.testFile, func(t *testing.T) {
				got, err := GetInt(tt.key, tt.defaultValue...)
				if tt.wantErr {
					assert.Error(t, err)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		})
	}
}

func TestGetBool(t *testing.T) {
	withConfig(t, "simple.yaml", func(t *testing.T) {
		v, err := GetBool("color")
		require.NoError(t, err)
		assert.True(t, v)

		v, err = GetBool("missing", true)
		require.NoError(t, err)
		assert.True(t, v)

		_, err = GetBool("output")
		assert.ErrorIs(t, err, ErrWrongType)
	})
}

func TestConfig_GetWithNamespace(t *testing.T) {
	withConfig(t, "nested.yaml", func(t *testing.T) {
		Config.Namespace = "replay"
		val, err := Config.Lookup("output")
		require.NoError(t, err)
		assert.Equal(t, "json", val)

		Config.Namespace = "diff"
		val, err = Config.Lookup("output")
		require.NoError(t, err)
		assert.Equal(t, "text", val)

		// Unnamespaced keys are still found.
		val, err = Config.Lookup("colors.title")
		require.NoError(t, err)
		assert.Equal(t, "#8EA1E1", val)

		n, err := GetInt("padding")
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})
}

func TestConfig_Lookup(t *testing.T) {
	withConfig(t, "mixed-types.yaml", func(t *testing.T) {
		_, err := Config.Lookup("nonexistent.nested.path")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = Config.Lookup("version.something")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = Config.Lookup("")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetter_LazyLoadKeepsNamespace(t *testing.T) {
	setupTestConfig(t, "nested.yaml")
	Config.Namespace = "replay"

	val, err := GetString("output")
	require.NoError(t, err)
	assert.Equal(t, "json", val)
}

func TestGetter_LazyLoad(t *testing.T) {
	setupTestConfig(t, "simple.yaml")

	val, err := GetString("output")
	require.NoError(t, err)
	assert.Equal(t, "yaml", val)
}

func TestGetStringSlice(t *testing.T) {
	withConfig(t, "string-slice.yaml", func(t *testing.T) {
		vals, err := GetStringSlice("diff.changed")
		require.NoError(t, err)
		assert.Equal(t, []string{"--filter", "type=changed"}, vals)

		vals, err = GetStringSlice("diff.paths")
		require.NoError(t, err)
		assert.Equal(t, []string{"--attrs", "path,prev,next"}, vals)

		_, err = GetStringSlice("nonstring_list")
		assert.Error(t, err)

		vals, err = GetStringSlice("not_a_list")
		require.NoError(t, err)
		assert.Equal(t, []string{"hello"}, vals)

		def := []string{"x", "y"}
		vals, err = GetStringSlice("does.not.exist", def)
		require.NoError(t, err)
		assert.Equal(t, def, vals)

		_, err = GetStringSlice("does.not.exist")
		assert.Error(t, err)
	})
}

func TestGetStringSlice_NamespaceFallback(t *testing.T) {
	withConfig(t, "string-slice.yaml", func(t *testing.T) {
		Config.Namespace = "replay"
		vals, err := GetStringSlice("quiet")
		require.NoError(t, err)
		assert.Equal(t, []string{"--output", "json"}, vals)
	})
}
