// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package draft

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/treediff/internal/differ"
	"github.com/tfctl/treediff/internal/snapshot"
)

func base(t *testing.T) *snapshot.Tree {
	t.Helper()
	v, err := snapshot.ParseJSON([]byte(`{
		"firstName": "Barbara",
		"lastName": "Hepworth",
		"artwork": {"title": "Blue Nana", "city": "Hamburg"},
		"studio": {"address": {"street": "Trewyn", "town": "St Ives"}}
	}`))
	require.NoError(t, err)
	return v.(*snapshot.Tree)
}

func TestProduce_NoChangesReturnsBase(t *testing.T) {
	b := base(t)

	out, err := Produce(b, func(d *Draft) error {
		_, _ = d.Get("artwork.city")
		return d.Set("firstName", "Barbara")
	})
	require.NoError(t, err)
	assert.Same(t, b, out)

	out, err = Produce(b, func(d *Draft) error {
		return d.Delete("artwork.missing")
	})
	require.NoError(t, err)
	assert.Same(t, b, out)
}

func TestProduce_SharesUntouchedSubtrees(t *testing.T) {
	b := base(t)

	out, err := Produce(b, func(d *Draft) error {
		return d.Set("artwork.city", "Lagos")
	})
	require.NoError(t, err)

	studio, _ := b.Get("studio")
	outStudio, _ := out.Get("studio")
	assert.Same(t, studio, outStudio)

	art, _ := b.Get("artwork")
	outArt, _ := out.Get("artwork")
	assert.NotSame(t, art, outArt)

	city, _ := b.Lookup("artwork.city")
	assert.Equal(t, "Hamburg", city, "base must not change")

	assert.Equal(t, b.Keys(), out.Keys())
	assert.Equal(t, []string{"title", "city"}, outArt.(*snapshot.Tree).Keys())

	changes := differ.Diff(b, out)
	require.Len(t, changes, 1)
	assert.Equal(t, "artwork.city", changes[0].Path)
}

func TestProduce_MultipleEdits(t *testing.T) {
	b := base(t)

	out, err := Produce(b, func(d *Draft) error {
		if err := d.Set("firstName", "Niki"); err != nil {
			return err
		}
		if err := d.Set("studio.address.town", "Paris"); err != nil {
			return err
		}
		if err := d.Set("meta.tags", []string{"bronze"}); err != nil {
			return err
		}
		return d.Delete("lastName")
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"firstName", "artwork", "studio", "meta"}, out.Keys())

	town, _ := out.Lookup("studio.address.town")
	assert.Equal(t, "Paris", town)
	tags, _ := out.Lookup("meta.tags")
	assert.Equal(t, []any{"bronze"}, tags)

	art, _ := b.Get("artwork")
	outArt, _ := out.Get("artwork")
	assert.Same(t, art, outArt)
}

func TestDraft_GetSeesPendingEdits(t *testing.T) {
	b := base(t)

	_, err := Produce(b, func(d *Draft) error {
		require.NoError(t, d.Set("artwork.city", "Lagos"))

		city, ok := d.Get("artwork.city")
		assert.True(t, ok)
		assert.Equal(t, "Lagos", city)

		art, ok := d.Get("artwork")
		assert.True(t, ok)
		assert.Equal(t, `{"title":"Blue Nana","city":"Lagos"}`, art.(*snapshot.Tree).String())

		assert.False(t, d.Has("artwork.year"))
		return nil
	})
	require.NoError(t, err)
}

func TestDraft_SetThroughLeafFails(t *testing.T) {
	b := base(t)

	out, err := Produce(b, func(d *Draft) error {
		return d.Set("firstName.initial", "B")
	})
	assert.ErrorIs(t, err, ErrNotTree)
	assert.Contains(t, err.Error(), "firstName")
	assert.Same(t, b, out)
}

func TestProduce_RecipeErrorDiscardsEdits(t *testing.T) {
	b := base(t)
	boom := errors.New("boom")

	out, err := Produce(b, func(d *Draft) error {
		require.NoError(t, d.Set("firstName", "Niki"))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Same(t, b, out)
}

func TestDraft_RevokedAfterProduce(t *testing.T) {
	var leaked *Draft
	_, err := Produce(base(t), func(d *Draft) error {
		leaked = d
		return nil
	})
	require.NoError(t, err)

	assert.ErrorIs(t, leaked.Set("a", 1), ErrRevoked)
	assert.ErrorIs(t, leaked.Delete("a"), ErrRevoked)
	assert.False(t, leaked.Has("firstName"))
}

func TestDraft_EmptyPath(t *testing.T) {
	_, err := Produce(base(t), func(d *Draft) error {
		return d.Set("", 1)
	})
	assert.ErrorIs(t, err, snapshot.ErrEmptyPath)
}

func TestProduce_NilBase(t *testing.T) {
	out, err := Produce(nil, func(d *Draft) error {
		return d.Set("a.b", true)
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"b":true}}`, out.String())
}
