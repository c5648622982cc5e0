// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package draft

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tfctl/treediff/internal/log"
	"github.com/tfctl/treediff/internal/snapshot"
)

var (
	// ErrNotTree is returned by Set when an existing intermediate value is
	// not a tree.
	ErrNotTree = snapshot.ErrNotTree

	// ErrRevoked is returned when a draft is used after Produce returned.
	ErrRevoked = errors.New("draft used after produce returned")
)

// Produce runs recipe against a draft of base and returns the finished tree.
// A recipe that changes nothing yields base itself. When the recipe fails,
// its edits are discarded and base is returned with the error.
func Produce(base *snapshot.Tree, recipe func(*Draft) error) (*snapshot.Tree, error) {
	d := &Draft{root: &node{base: base}}
	defer func() { d.revoked = true }()

	if err := recipe(d); err != nil {
		log.Debugf("produce: recipe failed: %v", err)
		return base, err
	}

	out := d.root.finish()
	log.Tracef("produce: changed=%t", out != base)
	return out, nil
}

// Draft is a mutable view of a tree that exists only inside a Produce
// recipe.
type Draft struct {
	root    *node
	revoked bool
}

// Get returns the current value at path. Subtrees are returned as frozen
// copies of their current draft state.
func (d *Draft) Get(path string) (any, bool) {
	if d.revoked {
		return nil, false
	}
	var r reader = d.root
	for _, k := range snapshot.SplitPath(path) {
		v, ok := r.lookup(k)
		if !ok {
			return nil, false
		}
		switch c := v.(type) {
		case *node:
			r = c
		case *snapshot.Tree:
			r = treeReader{c}
		default:
			r = leaf{v}
		}
	}
	return r.value(), true
}

// Has reports whether path exists.
func (d *Draft) Has(path string) bool {
	_, ok := d.Get(path)
	return ok
}

// Set assigns v at path, creating missing intermediate trees.
func (d *Draft) Set(path string, v any) error {
	if d.revoked {
		return ErrRevoked
	}
	keys := snapshot.SplitPath(path)
	if len(keys) == 0 {
		return snapshot.ErrEmptyPath
	}

	v, err := snapshot.Normalize(v)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	var r reader = d.root
	for i, k := range keys[:len(keys)-1] {
		existing, ok := r.lookup(k)
		if !ok {
			break
		}
		switch c := existing.(type) {
		case *node:
			r = c
		case *snapshot.Tree:
			r = treeReader{c}
		default:
			return fmt.Errorf("%w: %s", ErrNotTree, strings.Join(keys[:i+1], snapshot.PathSeparator))
		}
	}

	n := d.root
	for _, k := range keys[:len(keys)-1] {
		n = n.child(k)
	}
	n.set(keys[len(keys)-1], v)
	return nil
}

// Delete removes the value at path. A missing path is not an error.
func (d *Draft) Delete(path string) error {
	if d.revoked {
		return ErrRevoked
	}
	keys := snapshot.SplitPath(path)
	if len(keys) == 0 {
		return snapshot.ErrEmptyPath
	}

	n := d.root
	for _, k := range keys[:len(keys)-1] {
		existing, ok := n.lookup(k)
		if !ok {
			return nil
		}
		switch existing.(type) {
		case *node, *snapshot.Tree:
			n = n.child(k)
		default:
			return nil
		}
	}
	n.del(keys[len(keys)-1])
	return nil
}

type reader interface {
	lookup(key string) (any, bool)
	value() any
}

type treeReader struct{ t *snapshot.Tree }

func (r treeReader) lookup(key string) (any, bool) { return r.t.Get(key) }
func (r treeReader) value() any                    { return r.t }

type leaf struct{ v any }

func (leaf) lookup(string) (any, bool) { return nil, false }
func (l leaf) value() any              { return l.v }

// node is the draft of one tree. keys and vals stay nil until the first
// write to this level; kids holds drafts of nested trees that were reached
// through a write.
type node struct {
	base    *snapshot.Tree
	created bool
	keys    []string
	vals    map[string]any
	kids    map[string]*node
}

func (n *node) lookup(key string) (any, bool) {
	if kid, ok := n.kids[key]; ok {
		return kid, true
	}
	if n.keys != nil {
		v, ok := n.vals[key]
		return v, ok
	}
	return n.base.Get(key)
}

func (n *node) value() any {
	if t := n.finish(); t != nil {
		return t
	}
	return snapshot.Empty()
}

// child returns the draft of the tree at key, creating an empty one when the
// key is missing. Callers have checked that an existing value is a tree.
func (n *node) child(key string) *node {
	if kid, ok := n.kids[key]; ok {
		return kid
	}

	kid := &node{}
	existing, ok := n.lookup(key)
	if t, isTree := existing.(*snapshot.Tree); ok && isTree {
		kid.base = t
	} else {
		kid.created = true
		n.set(key, nil)
	}

	if n.kids == nil {
		n.kids = map[string]*node{}
	}
	n.kids[key] = kid
	return kid
}

func (n *node) copyOnWrite() {
	if n.keys != nil {
		return
	}
	n.keys = n.base.Keys()
	if n.keys == nil {
		n.keys = []string{}
	}
	n.vals = make(map[string]any, len(n.keys))
	for k, v := range n.base.All() {
		n.vals[k] = v
	}
}

func (n *node) set(key string, v any) {
	if _, isKid := n.kids[key]; !isKid {
		if old, ok := n.lookup(key); ok && snapshot.Identical(old, v) {
			return
		}
	}

	n.copyOnWrite()
	if _, ok := n.vals[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.vals[key] = v
	delete(n.kids, key)
}

func (n *node) del(key string) {
	if _, ok := n.lookup(key); !ok {
		return
	}
	n.copyOnWrite()
	n.keys = slices.DeleteFunc(n.keys, func(k string) bool { return k == key })
	delete(n.vals, key)
	delete(n.kids, key)
}

// finish freezes the node. It returns base when neither this level nor any
// nested draft changed.
func (n *node) finish() *snapshot.Tree {
	done := make(map[string]*snapshot.Tree, len(n.kids))
	changed := n.keys != nil || n.created
	for k, kid := range n.kids {
		t := kid.finish()
		if t == nil {
			t = snapshot.Empty()
		}
		done[k] = t
		if t != kid.base {
			changed = true
		}
	}
	if !changed {
		return n.base
	}

	keys := n.keys
	if keys == nil {
		keys = n.base.Keys()
	}
	b := snapshot.NewBuilder(len(keys))
	for _, k := range keys {
		if t, ok := done[k]; ok {
			b.Add(k, t)
			continue
		}
		v, _ := n.lookup(k)
		b.Add(k, v)
	}
	return b.Tree()
}
