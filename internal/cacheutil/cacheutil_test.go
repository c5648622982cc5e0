// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempCache(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvDir, dir)
	t.Setenv(EnvEnabled, "")
	return dir
}

func TestDir(t *testing.T) {
	dir := tempCache(t)
	got, ok := Dir()
	assert.True(t, ok)
	assert.Equal(t, dir, got)

	t.Setenv(EnvDir, "")
	if got, ok := Dir(); ok {
		assert.Equal(t, "treediff", filepath.Base(got))
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"1", true},
		{"true", true},
		{"0", false},
		{"false", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(EnvEnabled, tt.value)
			assert.Equal(t, tt.want, Enabled())
		})
	}
}

func TestWriteRead(t *testing.T) {
	dir := tempCache(t)

	_, ok := Read([]string{"recall"}, "/tmp/prev.json")
	assert.False(t, ok)

	require.NoError(t, Write([]string{"recall"}, "/tmp/prev.json", []byte("set a 1\n")))

	p, exists := EntryPath([]string{"recall"}, "/tmp/prev.json")
	assert.True(t, exists)
	assert.Equal(t, filepath.Join(dir, "recall", encodeKey("/tmp/prev.json")), p)

	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	e, ok := Read([]string{"recall"}, "/tmp/prev.json")
	require.True(t, ok)
	assert.Equal(t, "/tmp/prev.json", e.Key)
	assert.Equal(t, "set a 1\n", string(e.Data))
}

func TestDisabledCache(t *testing.T) {
	dir := tempCache(t)
	t.Setenv(EnvEnabled, "false")

	require.NoError(t, Write(nil, "k", []byte("v")))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, ok := Read(nil, "k")
	assert.False(t, ok)
}

func TestWriteLines(t *testing.T) {
	tempCache(t)

	require.NoError(t, WriteLines([]string{"recall"}, "doc", []string{"a", "b", "c"}, 2))
	e, ok := Read([]string{"recall"}, "doc")
	require.True(t, ok)
	assert.Equal(t, "b\nc\n", string(e.Data))
	assert.Equal(t, []string{"b", "c"}, e.Lines())

	require.NoError(t, WriteLines([]string{"recall"}, "doc", []string{"x", "y"}, 0))
	e, _ = Read([]string{"recall"}, "doc")
	assert.Equal(t, []string{"x", "y"}, e.Lines())
}

func TestEntryLines(t *testing.T) {
	var nilEntry *Entry
	assert.Nil(t, nilEntry.Lines())

	e := &Entry{Data: []byte("  set a 1 \n\n del b\n")}
	assert.Equal(t, []string{"set a 1", "del b"}, e.Lines())
}

func TestPurge(t *testing.T) {
	dir := tempCache(t)

	oldFile := filepath.Join(dir, "recall", "old")
	newFile := filepath.Join(dir, "recall", "new")
	require.NoError(t, os.MkdirAll(filepath.Dir(oldFile), 0o755))
	require.NoError(t, os.WriteFile(oldFile, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(newFile, []byte("y"), 0o600))

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldFile, past, past))

	require.NoError(t, Purge(0))
	assert.FileExists(t, oldFile)

	require.NoError(t, Purge(24))
	assert.NoFileExists(t, oldFile)
	assert.FileExists(t, newFile)
}

func TestEncodeKey(t *testing.T) {
	a := encodeKey("one")
	assert.Len(t, a, 64)
	assert.Equal(t, a, encodeKey("one"))
	assert.NotEqual(t, a, encodeKey("two"))
}
