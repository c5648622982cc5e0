// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"cmp"
	"slices"
	"strings"

	"github.com/tfctl/treediff/internal/snapshot"
)

// sortKey is one parsed --sort field.
type sortKey struct {
	field         string
	descending    bool
	caseSensitive bool
}

func parseSortSpec(spec string) []sortKey {
	var keys []sortKey
	for _, f := range strings.Split(spec, ",") {
		var k sortKey
		f, k.descending = strings.CutPrefix(strings.TrimSpace(f), "-")
		f, k.caseSensitive = strings.CutPrefix(f, "!")
		if f == "" {
			continue
		}
		k.field = f
		keys = append(keys, k)
	}
	return keys
}

// SortDataset orders rows by the comma separated keys in spec. A leading "-"
// sorts a key descending and a leading "!" makes it case sensitive. Numbers
// compare numerically, everything else by its string form. A key the row
// lacks is looked up as a dotted path into the row's tree values, so
// "next.city" sorts by the city inside a changed subtree. Rows that tie keep
// their order.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	keys := parseSortSpec(spec)
	if len(keys) == 0 {
		return
	}

	slices.SortStableFunc(resultSet, func(a, b map[string]interface{}) int {
		for _, k := range keys {
			c := compareValues(sortValue(a, k.field), sortValue(b, k.field), k.caseSensitive)
			if k.descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}

func sortValue(row map[string]interface{}, field string) interface{} {
	if v, ok := row[field]; ok {
		return v
	}
	head, rest, found := strings.Cut(field, snapshot.PathSeparator)
	if !found {
		return nil
	}
	if t, ok := row[head].(*snapshot.Tree); ok {
		v, _ := t.Lookup(rest)
		return v
	}
	return nil
}

func compareValues(a, b interface{}, caseSensitive bool) int {
	an, aNum := a.(float64)
	bn, bNum := b.(float64)
	if aNum && bNum {
		return cmp.Compare(an, bn)
	}

	as, bs := InterfaceToString(a), InterfaceToString(b)
	if !caseSensitive {
		as, bs = strings.ToLower(as), strings.ToLower(bs)
	}
	return strings.Compare(as, bs)
}
