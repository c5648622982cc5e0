// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/tfctl/treediff/internal/log"
	"github.com/tfctl/treediff/internal/snapshot"
)

// Kind tags a Change.
type Kind string

const (
	Added   Kind = "added"
	Removed Kind = "removed"
	Changed Kind = "changed"
)

// Change is one field-level difference. Added records carry Next, Removed
// records carry Prev and Changed records carry both.
type Change struct {
	Kind Kind
	Path string
	Prev any
	Next any
}

// MarshalJSON emits only the fields that belong to the change's kind. Values
// JSON cannot carry, such as NaN and ±Inf from YAML input, are written as
// their string form.
func (c Change) MarshalJSON() ([]byte, error) {
	b, err := c.marshalJSON(c.Prev, c.Next)
	if err == nil {
		return b, nil
	}
	log.Tracef("change %s: %v; encoding values as text", c.Path, err)
	return c.marshalJSON(textual(c.Prev), textual(c.Next))
}

func (c Change) marshalJSON(prev, next any) ([]byte, error) {
	switch c.Kind {
	case Added:
		return json.Marshal(struct {
			Type Kind   `json:"type"`
			Path string `json:"path"`
			Next any    `json:"next"`
		}{c.Kind, c.Path, next})
	case Removed:
		return json.Marshal(struct {
			Type Kind   `json:"type"`
			Path string `json:"path"`
			Prev any    `json:"prev"`
		}{c.Kind, c.Path, prev})
	default:
		return json.Marshal(struct {
			Type Kind   `json:"type"`
			Path string `json:"path"`
			Prev any    `json:"prev"`
			Next any    `json:"next"`
		}{c.Kind, c.Path, prev, next})
	}
}

// textual rewrites v so that it marshals: non-finite numbers become "NaN",
// "+Inf" or "-Inf" and other unencodable leaves their %v form.
func textual(v any) any {
	switch v := v.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return strconv.FormatFloat(v, 'g', -1, 64)
		}
		return v
	case *snapshot.Tree:
		b := snapshot.NewBuilder(v.Len())
		for k, e := range v.All() {
			b.Add(k, textual(e))
		}
		return b.Tree()
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = textual(e)
		}
		return out
	}
	if _, err := json.Marshal(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return v
}

// MarshalYAML mirrors MarshalJSON.
func (c Change) MarshalYAML() (any, error) {
	out := snapshot.NewBuilder(4)
	out.Add("type", string(c.Kind))
	out.Add("path", c.Path)
	if c.Kind != Added {
		out.Add("prev", c.Prev)
	}
	if c.Kind != Removed {
		out.Add("next", c.Next)
	}
	return out.Tree().MarshalYAML()
}

// Result is the ordered list of changes between two snapshots.
type Result []Change

// Diff walks prev and next and returns their differences. Removals come
// first, in prev's key order; then, in next's key order, additions, changes
// and the changes found by recursing into trees present on both sides.
//
// A root that is not a *snapshot.Tree is treated as a tree with no keys.
// Neither input is modified. Inputs must be acyclic.
func Diff(prev, next any) Result {
	out := Result{}
	walk(asTree(prev), asTree(next), "", &out)
	log.Tracef("diff: changes=%d", len(out))
	return out
}

func asTree(v any) *snapshot.Tree {
	if t, ok := v.(*snapshot.Tree); ok && t != nil {
		return t
	}
	return snapshot.Empty()
}

func walk(a, b *snapshot.Tree, path string, out *Result) {
	if a == b {
		return
	}

	for k, av := range a.All() {
		if !b.Has(k) {
			*out = append(*out, Change{Kind: Removed, Path: snapshot.JoinPath(path, k), Prev: av})
		}
	}

	for k, bv := range b.All() {
		p := snapshot.JoinPath(path, k)

		av, ok := a.Get(k)
		if !ok {
			*out = append(*out, Change{Kind: Added, Path: p, Next: bv})
			continue
		}

		at, aTree := av.(*snapshot.Tree)
		bt, bTree := bv.(*snapshot.Tree)
		if aTree && bTree {
			walk(at, bt, p, out)
			continue
		}

		if !Equal(av, bv) {
			*out = append(*out, Change{Kind: Changed, Path: p, Prev: av, Next: bv})
		}
	}
}

// Equal is the leaf equality used by Diff. Identical values are equal.
// Values of different dynamic types are not. Otherwise the canonical JSON
// forms are compared; a value that cannot be serialized is never equal to
// anything but itself.
func Equal(a, b any) bool {
	if snapshot.Identical(a, b) {
		return true
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	ca, err := snapshot.Canonical(a)
	if err != nil {
		log.Tracef("equal: unserializable prev: %v", err)
		return false
	}
	cb, err := snapshot.Canonical(b)
	if err != nil {
		log.Tracef("equal: unserializable next: %v", err)
		return false
	}
	return bytes.Equal(ca, cb)
}

// Empty reports whether there are no changes.
func (r Result) Empty() bool {
	return len(r) == 0
}

// Counts returns the number of changes of each kind.
func (r Result) Counts() map[Kind]int {
	counts := map[Kind]int{Added: 0, Removed: 0, Changed: 0}
	for _, c := range r {
		counts[c.Kind]++
	}
	return counts
}

// Only returns the changes of the given kind, in order.
func (r Result) Only(kind Kind) Result {
	out := Result{}
	for _, c := range r {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Invert returns the changes that lead back from next to prev: additions
// become removals, removals become additions and changed values swap. The
// order is that of r, which generally differs from Diff(next, prev).
func (r Result) Invert() Result {
	out := make(Result, len(r))
	for i, c := range r {
		switch c.Kind {
		case Added:
			out[i] = Change{Kind: Removed, Path: c.Path, Prev: c.Next}
		case Removed:
			out[i] = Change{Kind: Added, Path: c.Path, Next: c.Prev}
		default:
			out[i] = Change{Kind: Changed, Path: c.Path, Prev: c.Next, Next: c.Prev}
		}
	}
	return out
}

// Summary renders the per-kind counts, e.g. "1 added, 0 removed, 2 changed".
func (r Result) Summary() string {
	c := r.Counts()
	return fmt.Sprintf("%d added, %d removed, %d changed", c[Added], c[Removed], c[Changed])
}
