// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package draft implements scoped copy-on-write edits of snapshot trees.
//
// Produce hands a recipe a mutable Draft over an immutable base tree. Writes
// copy only the nodes along their paths; everything else stays shared with
// the base. When the recipe returns, the draft is frozen into a new tree and
// revoked.
package draft
