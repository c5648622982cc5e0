// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tfctl/treediff/internal/log"
)

const (
	// EnvDir overrides the base cache directory.
	EnvDir = "TREEDIFF_CACHE_DIR"

	// EnvEnabled disables the cache when set to "0" or "false".
	EnvEnabled = "TREEDIFF_CACHE"
)

// Entry is one cached artifact on disk. Key is the clear-text key and
// EncodedKey the hashed filename.
type Entry struct {
	Key        string
	EncodedKey string
	Path       string
	Data       []byte
}

// Lines splits the entry into its non-blank lines.
func (e *Entry) Lines() []string {
	if e == nil {
		return nil
	}
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(e.Data))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Dir resolves the base cache directory: TREEDIFF_CACHE_DIR when set and
// non-empty, else os.UserCacheDir()/treediff. ("", false) means the cache is
// unusable.
func Dir() (string, bool) {
	if c, ok := os.LookupEnv(EnvDir); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "treediff"), true
	}
	return "", false
}

// Enabled returns true unless TREEDIFF_CACHE explicitly disables it.
func Enabled() bool {
	enabled, _ := os.LookupEnv(EnvEnabled)
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// EntryPath returns the path a cache entry would live at and whether a file
// currently exists there.
func EntryPath(subdirs []string, clearKey string) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	p := filepath.Join(append([]string{base}, append(subdirs, encodeKey(clearKey))...)...)
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return p, false
}

// Purge removes files older than the given number of hours. hours <= 0 is a
// no-op.
func Purge(hours int) error {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return nil
	}

	base, ok := Dir()
	if !ok {
		return nil
	}

	maxAge := time.Duration(hours) * time.Hour
	if err := filepath.Walk(base, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if info == nil {
			return nil
		}

		if !info.IsDir() && time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				log.Debugf("removed cache file %s", path)
			} else {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// Read returns the cached entry for clearKey beneath subdirs.
func Read(subdirs []string, clearKey string) (*Entry, bool) {
	if !Enabled() {
		return nil, false
	}
	p, ok := EntryPath(subdirs, clearKey)
	if !ok {
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	log.Debugf("cache hit: key=%s", clearKey)
	return &Entry{
		Key:        clearKey,
		EncodedKey: encodeKey(clearKey),
		Path:       p,
		Data:       b,
	}, true
}

// Write stores data for clearKey beneath subdirs, creating directories as
// needed. A disabled cache silently drops the write.
func Write(subdirs []string, clearKey string, data []byte) error {
	if !Enabled() {
		return nil
	}
	base, ok := Dir()
	if !ok {
		return nil
	}
	dir := filepath.Join(append([]string{base}, subdirs...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	p := filepath.Join(dir, encodeKey(clearKey))
	if err := os.WriteFile(p, data, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%s bytes=%d", clearKey, len(data))
	return nil
}

// WriteLines stores the last limit lines, one per line. limit <= 0 keeps all.
func WriteLines(subdirs []string, clearKey string, lines []string, limit int) error {
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	return Write(subdirs, clearKey, buf.Bytes())
}

// encodeKey hashes a clear-text key into a filename.
func encodeKey(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}
