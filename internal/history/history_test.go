// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/treediff/internal/differ"
	"github.com/tfctl/treediff/internal/snapshot"
)

func TestNew(t *testing.T) {
	b := New("a")

	assert.Equal(t, "a", b.Value())
	assert.Equal(t, 0, b.Pointer())
	assert.Equal(t, 1, b.Length())
	assert.False(t, b.CanUndo())
	assert.False(t, b.CanRedo())
}

func TestPush_GrowsAndMovesCursor(t *testing.T) {
	b := New(0)
	for i := 1; i <= 5; i++ {
		b.Push(i)
	}

	assert.Equal(t, 6, b.Length())
	assert.Equal(t, 5, b.Pointer())
	assert.Equal(t, 5, b.Value())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, b.Entries())
}

func TestPush_PrunesRedoBranch(t *testing.T) {
	b := New(0)
	b.Push(1)
	b.Push(2)
	b.Push(3)
	require.True(t, b.Undo())
	require.True(t, b.Undo())
	require.Equal(t, 1, b.Pointer())

	b.Push(9)

	assert.Equal(t, 3, b.Length(), "pointer_old + 2")
	assert.Equal(t, 2, b.Pointer())
	assert.Equal(t, []int{0, 1, 9}, b.Entries())
	assert.False(t, b.CanRedo())
}

func TestPush_ReleasesPrunedEntries(t *testing.T) {
	b := New(snapshot.Empty())
	for _, city := range []string{"Hamburg", "Lagos", "London"} {
		b.Push(snapshot.New(snapshot.Pair{Key: "city", Value: city}))
	}
	require.True(t, b.Undo())
	require.True(t, b.Undo())

	b.Push(snapshot.New(snapshot.Pair{Key: "city", Value: "Nice"}))

	require.Equal(t, 3, b.Length())
	backing := b.entries[:cap(b.entries)]
	for i, e := range backing[b.Length():] {
		assert.Nil(t, e, "slot %d past the end still holds a pruned entry", b.Length()+i)
	}
}

func TestUndoRedo_Bounds(t *testing.T) {
	b := New("a")
	before := b.State()

	assert.False(t, b.Undo())
	assert.False(t, b.Redo())
	assert.Equal(t, before, b.State())

	b.Push("b")
	assert.True(t, b.Undo())
	assert.Equal(t, "a", b.Value())
	assert.True(t, b.CanRedo())
	assert.False(t, b.Undo())

	assert.True(t, b.Redo())
	assert.Equal(t, "b", b.Value())
	assert.False(t, b.Redo())
}

func TestUpdate_ReceivesCursorEntry(t *testing.T) {
	b := New(1)
	b.Push(2)
	b.Push(3)
	b.Undo()

	var got int
	b.Update(func(v int) int {
		got = v
		return v * 10
	})

	assert.Equal(t, 2, got)
	assert.Equal(t, []int{1, 2, 20}, b.Entries())
}

func TestEntries_IsACopy(t *testing.T) {
	b := New(1)
	entries := b.Entries()
	entries[0] = 99
	assert.Equal(t, 1, b.Value())
}

func TestSubscribe(t *testing.T) {
	b := New("a")
	var seen []State[string]
	unsubscribe := b.Subscribe(func(st State[string]) {
		seen = append(seen, st)
	})

	b.Push("b")
	b.Undo()
	b.Undo()
	b.Redo()
	b.Redo()

	require.Len(t, seen, 3, "no-op moves do not notify")
	assert.Equal(t, State[string]{Value: "b", Pointer: 1, Length: 2, CanUndo: true}, seen[0])
	assert.Equal(t, State[string]{Value: "a", Pointer: 0, Length: 2, CanRedo: true}, seen[1])
	assert.Equal(t, "b", seen[2].Value)

	unsubscribe()
	b.Push("c")
	assert.Len(t, seen, 3)
}

func TestSnapshotHistory(t *testing.T) {
	initial := snapshot.New(
		snapshot.Pair{Key: "firstName", Value: "A"},
		snapshot.Pair{Key: "artwork", Value: snapshot.New(snapshot.Pair{Key: "city", Value: "X"})},
	)
	next, err := initial.SetIn("artwork.city", "Y")
	require.NoError(t, err)

	b := New(initial)
	b.Push(next)

	changes := differ.Diff(b.Entries()[0], b.Value())
	require.Len(t, changes, 1)
	assert.Equal(t, differ.Change{Kind: differ.Changed, Path: "artwork.city", Prev: "X", Next: "Y"}, changes[0])

	b.Undo()
	city, _ := b.Value().Lookup("artwork.city")
	assert.Equal(t, "X", city)

	b.Redo()
	city, _ = b.Value().Lookup("artwork.city")
	assert.Equal(t, "Y", city)
}
