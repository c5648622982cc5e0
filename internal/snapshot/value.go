// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// Normalize converts a Go value into the canonical snapshot kinds: nil, bool,
// float64, string, []any and *Tree. Integer and float kinds become float64,
// string-keyed maps become trees with sorted keys (maps carry no order) and
// slices become []any. Values that are already canonical are returned as is,
// so normalizing keeps pointer and slice identity.
func Normalize(v any) (any, error) {
	switch v := v.(type) {
	case nil, bool, float64, string, *Tree:
		return v, nil
	case []any:
		return normalizeList(v)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b := NewBuilder(len(keys))
		for _, k := range keys {
			n, err := Normalize(v[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			b.Add(k, n)
		}
		return b.Tree(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			n, err := Normalize(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = n
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type %s", rv.Type().Key())
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return Normalize(m)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return Normalize(rv.Elem().Interface())
	}

	return nil, fmt.Errorf("unsupported value type %T", v)
}

// normalizeList only allocates when an element had to change.
func normalizeList(list []any) (any, error) {
	var out []any
	for i, e := range list {
		n, err := Normalize(e)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		if out == nil && !Identical(n, e) {
			out = make([]any, len(list))
			copy(out, list[:i])
		}
		if out != nil {
			out[i] = n
		}
	}
	if out == nil {
		return list, nil
	}
	return out, nil
}

// Identical reports reference identity: == for comparable values, the same
// backing array and length for slices and the same map header for maps. It
// never panics; values whose comparison would panic are not identical.
func Identical(a, b any) (same bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}

	switch ta.Kind() {
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return va.Len() == vb.Len() && va.UnsafePointer() == vb.UnsafePointer()
	case reflect.Map:
		return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
	case reflect.Func:
		return false
	}

	if !ta.Comparable() {
		return false
	}

	// Structs holding interfaces can still panic on ==.
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// Canonical returns the compact, order-preserving JSON form of v. It fails for
// values JSON cannot carry, such as NaN or channels.
func Canonical(v any) ([]byte, error) {
	return json.Marshal(v)
}
