// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders diff results and other row sets. Rows pass through
// filtering, attribute transforms and sorting before they are written as a
// table, JSON, YAML, the raw document or a gojsondiff delta.
package output
