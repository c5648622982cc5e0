// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package history provides a linear undo/redo buffer over immutable values.
//
// A Buffer holds an ordered sequence of entries and a cursor. Pushing while
// the cursor is behind the last entry discards the redo branch before
// appending. The buffer is never empty and the cursor is always in bounds.
//
// A Buffer is owned by one editing session and is not safe for concurrent
// use. Values handed to Push are stored as is; callers must not mutate them
// afterwards.
package history
