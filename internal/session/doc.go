// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package session binds a history buffer of snapshots to the differ. A
// Session remembers the value that was current before the last effective
// operation, so it can always report what that operation changed.
//
// Sessions are driven either directly, from Go, or by line-oriented scripts:
//
//	# comments and blank lines are ignored
//	set artwork.city "Lagos"
//	set tags ["bronze","stone"]
//	del email
//	begin
//	set firstName Niki
//	set lastName de Saint Phalle
//	commit
//	undo
//	redo
//	replace {"firstName":"Barbara"}
//
// A set value is decoded as JSON when it is valid JSON and kept as raw text
// otherwise. Lines between begin and commit are applied as one edit.
package session
