// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ computes the field-level changes between two snapshots. The
// result is a flat, ordered list of added, removed and changed records keyed
// by dotted path. Reference-identical subtrees are skipped without being
// walked, so diffing two snapshots produced by structural-sharing updates
// costs time proportional to what changed.
package differ
