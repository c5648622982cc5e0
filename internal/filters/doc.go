// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters selects rows of a rendered diff.
//
// Filters are key-operator-target expressions combined with a delimiter
// (default: comma, override with TREEDIFF_FILTER_DELIM). Every filter must
// pass for a row to be kept.
//
// Operators, each negatable with a leading !:
//
//   - = : exact match (numeric for numbers)
//   - ~ : case-insensitive match
//   - ^ : prefix match
//   - < : less than (numeric for numbers)
//   - > : greater than (numeric for numbers)
//   - @ : contains (substring, list element or object key)
//   - / : regular expression match
//
// A key with no operator keeps rows where the key is present.
//
// Examples:
//
//   - "type=changed" : only changed values
//   - "path^artwork." : anything under artwork
//   - "type!=removed" : added and changed values
//   - "next>1000" : new values above 1000
//   - "next.city~lagos" : drill into a changed subtree
//
// Keys are matched against attribute output keys first (see package attrs)
// and otherwise drilled into the row as dotted paths.
package filters
