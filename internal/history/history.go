// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"slices"

	"github.com/tfctl/treediff/internal/log"
)

// State is a consistent view of a Buffer at one moment.
type State[T any] struct {
	Value   T
	Pointer int
	Length  int
	CanUndo bool
	CanRedo bool
}

// Observer receives the buffer state after every effective operation.
type Observer[T any] func(State[T])

// Buffer is a linear history of values with a movable cursor.
type Buffer[T any] struct {
	entries   []T
	pointer   int
	observers map[int]Observer[T]
	nextID    int
}

// New returns a buffer holding only initial.
func New[T any](initial T) *Buffer[T] {
	return &Buffer[T]{
		entries:   []T{initial},
		observers: map[int]Observer[T]{},
	}
}

// Push discards every entry after the cursor, appends next and moves the
// cursor to it. Discarded entries are zeroed so they can be collected.
func (b *Buffer[T]) Push(next T) {
	clear(b.entries[b.pointer+1:])
	b.entries = append(b.entries[:b.pointer+1], next)
	b.pointer = len(b.entries) - 1
	log.Tracef("history: push pointer=%d length=%d", b.pointer, len(b.entries))
	b.notify()
}

// Update pushes the value fn derives from the current entry.
func (b *Buffer[T]) Update(fn func(T) T) {
	b.Push(fn(b.Value()))
}

// Undo moves the cursor back one entry. It reports whether the cursor moved.
func (b *Buffer[T]) Undo() bool {
	if !b.CanUndo() {
		return false
	}
	b.pointer--
	log.Tracef("history: undo pointer=%d", b.pointer)
	b.notify()
	return true
}

// Redo moves the cursor forward one entry. It reports whether the cursor
// moved.
func (b *Buffer[T]) Redo() bool {
	if !b.CanRedo() {
		return false
	}
	b.pointer++
	log.Tracef("history: redo pointer=%d", b.pointer)
	b.notify()
	return true
}

// Value returns the entry at the cursor.
func (b *Buffer[T]) Value() T {
	return b.entries[b.pointer]
}

func (b *Buffer[T]) CanUndo() bool {
	return b.pointer > 0
}

func (b *Buffer[T]) CanRedo() bool {
	return b.pointer < len(b.entries)-1
}

// Pointer returns the 0-based cursor.
func (b *Buffer[T]) Pointer() int {
	return b.pointer
}

// Length returns the number of entries.
func (b *Buffer[T]) Length() int {
	return len(b.entries)
}

// State returns the current view.
func (b *Buffer[T]) State() State[T] {
	return State[T]{
		Value:   b.Value(),
		Pointer: b.pointer,
		Length:  len(b.entries),
		CanUndo: b.CanUndo(),
		CanRedo: b.CanRedo(),
	}
}

// Entries returns a copy of the entry sequence, oldest first.
func (b *Buffer[T]) Entries() []T {
	return slices.Clone(b.entries)
}

// Subscribe registers fn and returns a func that removes it. Observers run
// synchronously, in no particular order, after push and after an undo or
// redo that moved the cursor.
func (b *Buffer[T]) Subscribe(fn Observer[T]) (unsubscribe func()) {
	id := b.nextID
	b.nextID++
	b.observers[id] = fn
	return func() {
		delete(b.observers, id)
	}
}

func (b *Buffer[T]) notify() {
	if len(b.observers) == 0 {
		return
	}
	st := b.State()
	for _, fn := range b.observers {
		fn(st)
	}
}
