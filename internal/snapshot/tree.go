// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
)

var (
	// ErrNotTree is returned when a path runs through a value that is not a
	// tree.
	ErrNotTree = errors.New("not a tree")

	// ErrEmptyPath is returned when an update is given no keys.
	ErrEmptyPath = errors.New("empty path")
)

// PathSeparator joins keys into a path.
const PathSeparator = "."

// Pair is one key/value entry used to build a Tree.
type Pair struct {
	Key   string
	Value any
}

// Tree is an immutable, ordered key/value node. Keys keep the order in which
// they were first added. A nil *Tree behaves as an empty tree.
//
// Trees are never modified after construction. Every update method returns a
// new Tree that shares all untouched subtrees with the receiver, so pointer
// identity of a subtree means "unchanged".
type Tree struct {
	keys []string
	vals map[string]any
}

// New builds a tree from pairs. Values are normalized; values that cannot be
// normalized are stored as opaque leaves. A repeated key keeps its first
// position and its last value.
func New(pairs ...Pair) *Tree {
	b := NewBuilder(len(pairs))
	for _, p := range pairs {
		v, err := Normalize(p.Value)
		if err != nil {
			v = p.Value
		}
		b.Add(p.Key, v)
	}
	return b.Tree()
}

// Empty returns a tree with no keys.
func Empty() *Tree {
	return &Tree{vals: map[string]any{}}
}

// Len returns the number of keys.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns a copy of the keys in order.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.keys)
}

// All iterates key/value pairs in key order.
func (t *Tree) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if t == nil {
			return
		}
		for _, k := range t.keys {
			if !yield(k, t.vals[k]) {
				return
			}
		}
	}
}

// Get returns the value stored at key.
func (t *Tree) Get(key string) (any, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (t *Tree) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Lookup resolves a dotted path from this tree.
func (t *Tree) Lookup(path string) (any, bool) {
	return t.LookupKeys(SplitPath(path))
}

// LookupKeys resolves a key sequence from this tree.
func (t *Tree) LookupKeys(keys []string) (any, bool) {
	if len(keys) == 0 {
		return t, t != nil
	}
	var current any = t
	for _, k := range keys {
		node, ok := current.(*Tree)
		if !ok {
			return nil, false
		}
		if current, ok = node.Get(k); !ok {
			return nil, false
		}
	}
	return current, true
}

// With returns a copy of t with key set to v. This is the spread update:
// every other entry, including nested trees, is shared with t.
func (t *Tree) With(key string, v any) *Tree {
	if n, err := Normalize(v); err == nil {
		v = n
	}
	if old, ok := t.Get(key); ok && Identical(old, v) {
		return t
	}

	b := t.builder(1)
	b.Add(key, v)
	return b.Tree()
}

// Without returns a copy of t with key removed. t itself is returned when the
// key is absent.
func (t *Tree) Without(key string) *Tree {
	if !t.Has(key) {
		return t
	}
	b := NewBuilder(t.Len() - 1)
	for k, v := range t.All() {
		if k != key {
			b.Add(k, v)
		}
	}
	return b.Tree()
}

// SetIn returns a copy of t with the value at path replaced, copying only the
// trees along the path. Missing intermediate trees are created.
func (t *Tree) SetIn(path string, v any) (*Tree, error) {
	return t.SetKeys(SplitPath(path), v)
}

// SetKeys is SetIn for an already split path.
func (t *Tree) SetKeys(keys []string, v any) (*Tree, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyPath
	}

	current := t
	for i := 0; i < len(keys)-1; i++ {
		existing, ok := current.Get(keys[i])
		if !ok {
			break
		}
		child, ok := existing.(*Tree)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotTree, strings.Join(keys[:i+1], PathSeparator))
		}
		current = child
	}

	return t.setKeys(keys, v), nil
}

// setKeys assumes every existing intermediate along keys is a tree.
func (t *Tree) setKeys(keys []string, v any) *Tree {
	if len(keys) == 1 {
		return t.With(keys[0], v)
	}
	var child *Tree
	if existing, ok := t.Get(keys[0]); ok {
		child, _ = existing.(*Tree)
	}
	return t.With(keys[0], child.setKeys(keys[1:], v))
}

// DeleteIn returns a copy of t without the value at path. t is returned
// unchanged when the path does not exist.
func (t *Tree) DeleteIn(path string) *Tree {
	return t.deleteKeys(SplitPath(path))
}

func (t *Tree) deleteKeys(keys []string) *Tree {
	if len(keys) == 0 || t == nil {
		return t
	}
	if len(keys) == 1 {
		return t.Without(keys[0])
	}
	existing, ok := t.Get(keys[0])
	if !ok {
		return t
	}
	child, ok := existing.(*Tree)
	if !ok {
		return t
	}
	next := child.deleteKeys(keys[1:])
	if next == child {
		return t
	}
	return t.With(keys[0], next)
}

// String renders the tree as compact JSON.
func (t *Tree) String() string {
	b, err := Canonical(t)
	if err != nil {
		return fmt.Sprintf("<invalid tree: %v>", err)
	}
	return string(b)
}

// builder returns a Builder seeded with the entries of t.
func (t *Tree) builder(extra int) *Builder {
	b := NewBuilder(t.Len() + extra)
	for k, v := range t.All() {
		b.Add(k, v)
	}
	return b
}

// Builder assembles a Tree without normalizing values. It is used by
// decoders and by the draft producer, which already hold canonical values.
type Builder struct {
	t *Tree
}

// NewBuilder returns a builder sized for n keys.
func NewBuilder(n int) *Builder {
	return &Builder{t: &Tree{
		keys: make([]string, 0, n),
		vals: make(map[string]any, n),
	}}
}

// Add sets key to v, appending the key when it is new.
func (b *Builder) Add(key string, v any) {
	if _, ok := b.t.vals[key]; !ok {
		b.t.keys = append(b.t.keys, key)
	}
	b.t.vals[key] = v
}

// Tree finishes the build. The builder must not be used afterwards.
func (b *Builder) Tree() *Tree {
	t := b.t
	b.t = nil
	return t
}

// SplitPath splits a dotted path into keys. The empty path has no keys.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, PathSeparator)
}

// JoinPath appends key to base. Root keys have no prefix.
func JoinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + PathSeparator + key
}
